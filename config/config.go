// Package config loads cmd/bliks' optional bliks.toml configuration file:
// CLI-level defaults such as the machine's register ceiling and the
// preferred dump format. This is ambient CLI configuration only, not part
// of the library's compile/run contract (bliks.Compile takes no config).
// Grounded on the teacher's config/config.go Load/DefaultConfig/Save shape,
// trimmed from its five emulator-specific sections down to the handful of
// settings cmd/bliks actually exposes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds cmd/bliks' CLI-level defaults.
type Config struct {
	// MaxRegisters bounds how many registers a machine may use. Zero means
	// unbounded, matching machine.Machine's own default.
	MaxRegisters int `toml:"max_registers"`

	// DumpFormat is the default --format value for "bliks dump" when the
	// flag is not given explicitly: "json" or "yaml".
	DumpFormat string `toml:"dump_format"`

	// Trace enables verbose step-by-step reporting while running a script.
	Trace bool `toml:"trace"`
}

// DefaultConfig returns cmd/bliks' built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxRegisters: 0,
		DumpFormat:   "json",
		Trace:        false,
	}
}

// GetConfigPath returns the platform-specific location of bliks.toml.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "bliks")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "bliks.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "bliks")

	default:
		return "bliks.toml"
	}

	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return "bliks.toml"
	}

	return filepath.Join(configDir, "bliks.toml")
}

// Load loads configuration from the default config path, falling back to
// DefaultConfig if no file exists there.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, falling back to DefaultConfig if
// the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the default config path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes the configuration to path, encoded as TOML.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
