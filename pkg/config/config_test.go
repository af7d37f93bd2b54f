package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

func TestLoad_Defaults(t *testing.T) {
	// Point at an empty directory so no stray config file is picked up.
	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "coverage-sentinel", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Mode)
	assert.Equal(t, "info", cfg.App.LogLevel)

	assert.Equal(t, 0.50, cfg.Engine.EnterMajor)
	assert.Equal(t, 0.60, cfg.Engine.EnterStandard)
	assert.Equal(t, 0.65, cfg.Engine.Exit)
	assert.Equal(t, 3, cfg.Engine.ConsecutiveRequired)
	assert.Equal(t, 2, cfg.Engine.CooldownSnapshots)
	assert.Equal(t, 4, cfg.Engine.StalledWindow)

	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, 100, cfg.Events.BufferSize)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `app:
  name: sentinel-test
  mode: test
  log_level: debug
engine:
  t_enter_major: 0.40
  t_enter_standard: 0.55
  t_exit: 0.70
  version: tuned
api:
  port: 9090
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sentinel-test", cfg.App.Name)
	assert.Equal(t, "test", cfg.App.Mode)
	assert.Equal(t, 0.40, cfg.Engine.EnterMajor)
	assert.Equal(t, 0.55, cfg.Engine.EnterStandard)
	assert.Equal(t, 0.70, cfg.Engine.Exit)
	assert.Equal(t, "tuned", cfg.Engine.Version)
	assert.Equal(t, 9090, cfg.API.Port)

	// Unset keys keep their defaults.
	assert.Equal(t, 3, cfg.Engine.ConsecutiveRequired)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("COVERAGE_ENGINE_T_EXIT", "0.75")

	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.75, cfg.Engine.Exit)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:    AppConfig{Name: "s", Mode: "development", LogLevel: "info"},
			Engine: models.DefaultParams(),
			API:    APIConfig{Port: 8080},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "missing app name",
			mutate: func(c *Config) { c.App.Name = "" },
			errMsg: "app.name",
		},
		{
			name:   "bad mode",
			mutate: func(c *Config) { c.App.Mode = "staging" },
			errMsg: "app.mode",
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.App.LogLevel = "trace" },
			errMsg: "app.log_level",
		},
		{
			name:   "bad engine thresholds",
			mutate: func(c *Config) { c.Engine.Exit = 0.1 },
			errMsg: "strictly increasing",
		},
		{
			name: "database enabled without host",
			mutate: func(c *Config) {
				c.Database.Enabled = true
				c.Database.Port = 5432
				c.Database.Name = "coverage"
				c.Database.MaxConnections = 10
			},
			errMsg: "database.host",
		},
		{
			name:   "bad api port",
			mutate: func(c *Config) { c.API.Port = 0 },
			errMsg: "api.port",
		},
		{
			name: "default jwt secret in production",
			mutate: func(c *Config) {
				c.App.Mode = "production"
				c.API.JWTSecret = "change-me-in-production"
			},
			errMsg: "jwt_secret",
		},
	}

	require.NoError(t, valid().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
