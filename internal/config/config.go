package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when no path is given.
const EnvPath = "OFFLOAD_CONFIG"

type Config struct {
	Coordinator CoordinatorConfig `yaml:"coordinator"`
	Log         LogConfig         `yaml:"log"`
	Primes      PrimesConfig      `yaml:"primes"`
}

type CoordinatorConfig struct {
	MaxWorkers int `yaml:"max_workers"`
	CheckEvery int `yaml:"check_every"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type PrimesConfig struct {
	Limit int    `yaml:"limit"`
	Seed  uint64 `yaml:"seed"`
}

func Default() Config {
	return Config{
		Coordinator: CoordinatorConfig{MaxWorkers: 4, CheckEvery: 1},
		Log:         LogConfig{Level: "info"},
		Primes:      PrimesConfig{Limit: 1_000_000},
	}
}

// Load reads a YAML file over the defaults. An empty path falls back to
// $OFFLOAD_CONFIG and then to the defaults alone.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Coordinator.MaxWorkers < 0 {
		errs = append(errs, errors.New("coordinator.max_workers must not be negative"))
	}
	if c.Coordinator.CheckEvery < 1 {
		errs = append(errs, errors.New("coordinator.check_every must be at least 1"))
	}
	if c.Primes.Limit <= 2 {
		errs = append(errs, errors.New("primes.limit must be greater than 2"))
	}
	return errors.Join(errs...)
}
