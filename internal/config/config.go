// Package config loads client configuration: defaults, then an optional
// config file, then TIA_* environment variables, later sources winning.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime settings for the Tia client.
type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// BackendConfig points the client at the Tia backend.
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	TopK    int           `mapstructure:"top_k"`
}

// UploadConfig tunes the upload coordinator. Concurrency 1 reproduces the
// sequential per-file behavior of the original client.
type UploadConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// DatabaseConfig locates the local state database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig selects the log verbosity.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load builds a Config. When configPath is empty, a config.yaml in the
// working directory is used if present; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// no config file, defaults and environment apply
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", 60*time.Second)
	v.SetDefault("backend.top_k", 5)

	v.SetDefault("upload.concurrency", 1)

	v.SetDefault("database.path", "tia.db")

	v.SetDefault("log.level", "info")
}
