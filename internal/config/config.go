// Package config loads cmdset configuration from defaults, an optional
// YAML config file, and CMDSET_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the settings every command needs.
type Config struct {
	// WorkingDir is where the preset store, session cache, and export
	// default live.
	WorkingDir string `yaml:"working_dir" mapstructure:"working_dir"`

	// StoreFile is the store database filename under WorkingDir.
	StoreFile string `yaml:"store_file" mapstructure:"store_file"`

	// SessionTTLSeconds bounds how long a prompted passphrase stays
	// cached. Zero disables caching.
	SessionTTLSeconds int `yaml:"session_ttl_seconds" mapstructure:"session_ttl_seconds"`
}

// Default returns the configuration used when no file or env overrides
// exist.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		WorkingDir:        filepath.Join(home, ".cmdset"),
		StoreFile:         "cmdset.db",
		SessionTTLSeconds: 300,
	}
}

// Load resolves the configuration: defaults, then an optional config.yaml
// (current dir, $XDG_CONFIG_HOME/cmdset, ~/.config/cmdset), then CMDSET_*
// environment variables.
func Load() (Config, error) {
	cfg := Default()

	v := viper.New()
	// Register defaults so AutomaticEnv can override every key.
	v.SetDefault("working_dir", cfg.WorkingDir)
	v.SetDefault("store_file", cfg.StoreFile)
	v.SetDefault("session_ttl_seconds", cfg.SessionTTLSeconds)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "cmdset"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "cmdset"))
	}

	v.SetEnvPrefix("CMDSET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		// No config file; defaults and env apply.
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.WorkingDir == "" {
		return fmt.Errorf("config: working_dir is required")
	}
	if c.StoreFile == "" {
		return fmt.Errorf("config: store_file is required")
	}
	if strings.ContainsRune(c.StoreFile, os.PathSeparator) {
		return fmt.Errorf("config: store_file must be a bare filename, got %q", c.StoreFile)
	}
	if c.SessionTTLSeconds < 0 {
		return fmt.Errorf("config: session_ttl_seconds must not be negative")
	}
	return nil
}

// Save writes the configuration as YAML to path, creating parent
// directories as needed.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// StorePath is the full path of the store database.
func (c Config) StorePath() string {
	return filepath.Join(c.WorkingDir, c.StoreFile)
}

// SessionTTL is SessionTTLSeconds as a duration.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}
