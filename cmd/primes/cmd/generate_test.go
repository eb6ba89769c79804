package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	genFlags = generateFlags{}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerate_PrintsOneResultPerWorker(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "offload.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\nprimes:\n  seed: 11\n"), 0o600))

	out, err := runRoot(t, "generate", "--config", cfgPath, "--quota", "3", "--workers", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, "success: 3"), line)
	}
}

func TestGenerate_TimeoutCancels(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "offload.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\n"), 0o600))

	out, err := runRoot(t, "generate", "--config", cfgPath,
		"--quota", "1000000000", "--timeout", "50ms")
	require.Error(t, err)
	assert.Contains(t, out, "cancelled")
}

func TestGenerate_RejectsWorkersAboveLimit(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "offload.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("coordinator:\n  max_workers: 2\nlog:\n  level: error\n"), 0o600))

	out, err := runRoot(t, "generate", "--config", cfgPath, "--quota", "1", "--workers", "3")
	require.EqualError(t, err, "--workers 3 exceeds coordinator.max_workers 2")
	assert.NotContains(t, out, "success")
}
