package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ferias-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "APP_ENV", "LOG_LEVEL", "APP_TIMEZONE", "DB_PATH", "CORS_ORIGINS", "APP_CONFIG_FILE", "SCHEDULER_ENABLED", "SCHEDULER_INTERVAL"} {
		t.Setenv(k, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "ferias.db", cfg.Database.Path)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Empty(t, cfg.PolicyFile)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Scheduler.Interval)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", loc.String())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("APP_TIMEZONE", "America/Manaus")
	t.Setenv("DB_PATH", "/tmp/ferias.db")
	t.Setenv("CORS_ORIGINS", "https://rh.example.com, ,https://app.example.com")
	t.Setenv("APP_CONFIG_FILE", "policy.json")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("SCHEDULER_INTERVAL", "90m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/tmp/ferias.db", cfg.Database.Path)
	assert.Equal(t, []string{"https://rh.example.com", "https://app.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "policy.json", cfg.PolicyFile)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 90*time.Minute, cfg.Scheduler.Interval)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"port not a number", "APP_PORT", "http"},
		{"port out of range", "APP_PORT", "70000"},
		{"unknown level", "LOG_LEVEL", "verbose"},
		{"unknown zone", "APP_TIMEZONE", "America/Atlantis"},
		{"scheduler flag", "SCHEDULER_ENABLED", "sometimes"},
		{"scheduler interval", "SCHEDULER_INTERVAL", "daily"},
		{"non-positive interval", "SCHEDULER_INTERVAL", "-1h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
