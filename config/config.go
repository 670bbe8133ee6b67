// Package config loads IMAC's TOML configuration file, following the same
// DefaultConfig/Load shape as the emulator this assembler was adapted from.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable of the assembler pipeline.
type Config struct {
	// Limits overrides the capacity bounds and starting instruction
	// counter named in the component design.
	Limits struct {
		CodeWords int `toml:"code_words"`
		DataWords int `toml:"data_words"`
		ICStart   int `toml:"ic_start"`
	} `toml:"limits"`

	// Output controls where and how the three artifact files are written.
	Output struct {
		Directory string `toml:"directory"`
		KeepAM    bool   `toml:"keep_am"`
	} `toml:"output"`

	// Diagnostics controls verbose tracing and terminal error coloring.
	Diagnostics struct {
		Verbose     bool `toml:"verbose"`
		ColorOutput bool `toml:"color_output"`
	} `toml:"diagnostics"`
}

// DefaultConfig returns a Config with the spec's own default bounds.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Limits.CodeWords = 1100
	cfg.Limits.DataWords = 1200
	cfg.Limits.ICStart = 100

	cfg.Output.Directory = "."
	cfg.Output.KeepAM = false

	cfg.Diagnostics.Verbose = false
	cfg.Diagnostics.ColorOutput = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path, matching
// the per-OS convention used throughout the source this was adapted from.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "imac")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "imac")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the given path, falling back to
// DefaultConfig when the file does not exist.
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

// Save writes configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes configuration to the given path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
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
