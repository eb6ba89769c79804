package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutPath(t *testing.T) {
	t.Setenv(EnvPath, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offload.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
coordinator:
  max_workers: 2
log:
  level: debug
primes:
  seed: 7
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Coordinator.MaxWorkers)
	assert.Equal(t, 1, cfg.Coordinator.CheckEvery)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, uint64(7), cfg.Primes.Seed)
	assert.Equal(t, 1_000_000, cfg.Primes.Limit)
}

func TestLoad_FromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offload.yaml")
	require.NoError(t, os.WriteFile(path, []byte("primes:\n  limit: 100\n"), 0o600))
	t.Setenv(EnvPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Primes.Limit)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Parse([]byte("coordinator: ["))
	assert.ErrorContains(t, err, "parse yaml")

	_, err = Parse([]byte("coordinator:\n  max_workers: -1\n  check_every: 0\nprimes:\n  limit: 2\n"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "max_workers")
	assert.ErrorContains(t, err, "check_every")
	assert.ErrorContains(t, err, "primes.limit")
}

func TestParse_CheckEveryUnderCoordinator(t *testing.T) {
	cfg, err := Parse([]byte("coordinator:\n  check_every: 64\n"))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Coordinator.CheckEvery)
	assert.Equal(t, Default().Primes, cfg.Primes)
}
