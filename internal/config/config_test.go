package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")

	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/graphql", cfg.API.Endpoint)
	assert.Equal(t, "github.com", cfg.API.Hostname)
	assert.Equal(t, 30, cfg.API.PageSize)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, uint32(5), cfg.Breaker.MaxFailures)
	assert.Equal(t, 30*time.Second, cfg.Breaker.Cooldown)
	assert.True(t, cfg.State.Restore)
	assert.Equal(t, "state.toml", filepath.Base(cfg.State.File))
	assert.Equal(t, "ghs.log", filepath.Base(cfg.Log.File))
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[api]
page_size = 50
timeout = "3s"

[breaker]
max_failures = 2
cooldown = "1m"

[state]
file = "/tmp/ghs-state.toml"
restore = false

[log]
level = "debug"
`)

	cfg, err := Load(viper.New(), path)

	require.NoError(t, err)
	assert.Equal(t, 50, cfg.API.PageSize)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, uint32(2), cfg.Breaker.MaxFailures)
	assert.Equal(t, time.Minute, cfg.Breaker.Cooldown)
	assert.Equal(t, "/tmp/ghs-state.toml", cfg.State.File)
	assert.False(t, cfg.State.Restore)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep their defaults
	assert.Equal(t, "https://api.github.com/graphql", cfg.API.Endpoint)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[api]\npage_size = 50\n")
	t.Setenv("GHS_API_PAGE_SIZE", "70")
	t.Setenv("GHS_LOG_LEVEL", "warn")

	cfg, err := Load(viper.New(), path)

	require.NoError(t, err)
	assert.Equal(t, 70, cfg.API.PageSize)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GHS_STATE_FILE", "/from/env.toml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("state-file", "", "")
	require.NoError(t, flags.Parse([]string{"--state-file", "/from/flag.toml"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag("state.file", flags.Lookup("state-file")))

	cfg, err := Load(v, "")

	require.NoError(t, err)
	assert.Equal(t, "/from/flag.toml", cfg.State.File)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.toml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_Malformed(t *testing.T) {
	path := writeConfig(t, "[api\npage_size = ")

	_, err := Load(viper.New(), path)

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			API:     APIConfig{Endpoint: "https://example.com/graphql", PageSize: 30, Timeout: time.Second},
			Breaker: BreakerConfig{MaxFailures: 1},
			State:   StateConfig{File: "state.toml"},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty endpoint", func(c *Config) { c.API.Endpoint = "" }, "api.endpoint"},
		{"page size too small", func(c *Config) { c.API.PageSize = 0 }, "api.page_size"},
		{"page size too large", func(c *Config) { c.API.PageSize = 101 }, "api.page_size"},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, "api.timeout"},
		{"zero failures", func(c *Config) { c.Breaker.MaxFailures = 0 }, "breaker.max_failures"},
		{"no state file", func(c *Config) { c.State.File = "" }, "state.file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
