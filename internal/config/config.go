// Package config loads ghs settings from defaults, an optional TOML file, GHS_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppName names the config and cache directories.
const AppName = "ghs"

// Config holds all runtime settings.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Breaker BreakerConfig `mapstructure:"breaker"`
	State   StateConfig   `mapstructure:"state"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig configures the GitHub client.
type APIConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Hostname string        `mapstructure:"hostname"` // Host passed to `gh auth token`
	Token    string        `mapstructure:"token"`
	PageSize int           `mapstructure:"page_size"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// BreakerConfig configures the search circuit breaker.
type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	Cooldown    time.Duration `mapstructure:"cooldown"`
}

// StateConfig configures State persistence.
type StateConfig struct {
	File    string `mapstructure:"file"`
	Restore bool   `mapstructure:"restore"`
}

// LogConfig configures the log file.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	cacheDir := userDir(os.UserCacheDir)

	v.SetDefault("api.endpoint", "https://api.github.com/graphql")
	v.SetDefault("api.hostname", "github.com")
	v.SetDefault("api.token", "")
	v.SetDefault("api.page_size", 30)
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("breaker.max_failures", 5)
	v.SetDefault("breaker.cooldown", 30*time.Second)
	v.SetDefault("state.file", filepath.Join(cacheDir, "state.toml"))
	v.SetDefault("state.restore", true)
	v.SetDefault("log.file", filepath.Join(cacheDir, "ghs.log"))
	v.SetDefault("log.level", "info")
}

// DefaultConfigFile returns the config file consulted when none is given.
func DefaultConfigFile() string {
	return filepath.Join(userDir(os.UserConfigDir), "config.toml")
}

// Load reads configuration into a Config. configFile may be empty, in which case the
// default location is tried and a missing file is not an error. Flags must already be
// bound to v.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("toml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigFile(DefaultConfigFile())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case configFile == "" && errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.API.Endpoint == "" {
		return errors.New("api.endpoint must not be empty")
	}
	if c.API.PageSize < 1 || c.API.PageSize > 100 {
		return fmt.Errorf("api.page_size must be between 1 and 100, got %d", c.API.PageSize)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Breaker.MaxFailures == 0 {
		return errors.New("breaker.max_failures must be at least 1")
	}
	if c.State.File == "" {
		return errors.New("state.file must not be empty")
	}
	return nil
}

func userDir(base func() (string, error)) string {
	dir, err := base()
	if err != nil {
		// Fallback to home directory
		dir, err = os.UserHomeDir()
		if err != nil {
			dir = "."
		}
		dir = filepath.Join(dir, ".config")
	}
	return filepath.Join(dir, AppName)
}
