package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"APP_ENV", "PORT", "DB_PATH", "FEE_TABLE_PATH", "HISTORY_LIMIT", "LOG_LEVEL", "LOG_PRETTY"} {
		unsetenv(t, key)
	}
	// keep a developer's .env out of the way
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./dev.db", cfg.DBPath)
	assert.Empty(t, cfg.FeeTablePath)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Empty(t, cfg.Warnings)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "PROD")
	t.Setenv("PORT", "9000")
	t.Setenv("DB_PATH", "/data/mktcalc.db")
	t.Setenv("FEE_TABLE_PATH", "tariffs/2025-01.yaml")
	t.Setenv("HISTORY_LIMIT", "15")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/data/mktcalc.db", cfg.DBPath)
	assert.Equal(t, "tariffs/2025-01.yaml", cfg.FeeTablePath)
	assert.Equal(t, 15, cfg.HistoryLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
}

func TestLoad_HistoryLimitIsClamped(t *testing.T) {
	clearEnv(t)
	t.Setenv("HISTORY_LIMIT", "50")

	cfg := Load()
	assert.Equal(t, 20, cfg.HistoryLimit)
	assert.Len(t, cfg.Warnings, 1)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("HISTORY_LIMIT", "ten")
	t.Setenv("LOG_PRETTY", "maybe")

	cfg := Load()
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.True(t, cfg.LogPretty)
	assert.Len(t, cfg.Warnings, 2)
}
