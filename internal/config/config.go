package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Simplici0/mktcalc/internal/history"
)

const (
	defaultEnv      = "dev"
	defaultDBPath   = "./dev.db"
	defaultPort     = "8080"
	defaultLogLevel = "info"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env          string
	Port         string
	DBPath       string
	FeeTablePath string
	HistoryLimit int
	LogLevel     string
	LogPretty    bool

	// Warnings collects problems found while loading; they are logged once
	// the logger exists.
	Warnings []string
}

// IsDev reports whether the app runs in the development environment.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	var warnings []string

	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	if err := loadDotEnv(".env"); err != nil {
		warnings = append(warnings, fmt.Sprintf("ignoring .env: %v", err))
	}

	cfg := Config{
		Env:          strings.ToLower(os.Getenv("APP_ENV")),
		Port:         os.Getenv("PORT"),
		DBPath:       os.Getenv("DB_PATH"),
		FeeTablePath: os.Getenv("FEE_TABLE_PATH"),
		LogLevel:     strings.ToLower(os.Getenv("LOG_LEVEL")),
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	cfg.HistoryLimit = history.DefaultLimit
	if raw := os.Getenv("HISTORY_LIMIT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("HISTORY_LIMIT=%q is not a number, using %d", raw, history.DefaultLimit))
		} else {
			cfg.HistoryLimit = history.ClampLimit(n)
			if cfg.HistoryLimit != n {
				warnings = append(warnings, fmt.Sprintf("HISTORY_LIMIT=%d out of range, using %d", n, cfg.HistoryLimit))
			}
		}
	}

	cfg.LogPretty = cfg.IsDev()
	if raw := os.Getenv("LOG_PRETTY"); raw != "" {
		pretty, err := strconv.ParseBool(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("LOG_PRETTY=%q is not a boolean", raw))
		} else {
			cfg.LogPretty = pretty
		}
	}

	cfg.Warnings = warnings
	return cfg
}
