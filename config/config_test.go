package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 0, cfg.MaxRegisters)
	assert.Equal(t, "json", cfg.DumpFormat)
	assert.False(t, cfg.Trace)
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bliks.toml")

	cfg := &Config{MaxRegisters: 64, DumpFormat: "yaml", Trace: true}
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bliks.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_registers = not-a-number"), 0o600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}
