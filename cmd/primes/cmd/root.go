package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "primes",
	Short: "Offload prime searches to background workers",
	Long: `primes hands naive prime searches to isolated workers and prints
each result as it comes back.

Configuration is read from --config, then $OFFLOAD_CONFIG, then built-in defaults.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
