package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	DatabasePath   string
	SessionSecret  string
	AdminUsername  string
	AdminPassword  string
	CalendarToken  string
	AllowedOrigins []string
	LogLevel       string
	Port           string
}

func Load() (Config, error) {
	config := Config{
		DatabasePath:   envOrDefault("DATABASE_PATH", "./data/slice-n-dice.db"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		AdminUsername:  os.Getenv("SLICE_USER"),
		AdminPassword:  os.Getenv("SLICE_PASS"),
		CalendarToken:  os.Getenv("CALENDAR_TOKEN"),
		AllowedOrigins: splitList(envOrDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		Port:           envOrDefault("PORT", "8091"),
	}

	if config.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}
	if (config.AdminUsername == "") != (config.AdminPassword == "") {
		return Config{}, fmt.Errorf("SLICE_USER and SLICE_PASS must be set together")
	}

	return config, nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (config Config) SlogLevel() slog.Level {
	switch strings.ToLower(config.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
