package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type envConfig struct {
	APP_PORT         string
	LOG_FILE_PATH    string
	DEFINITIONS_PATH string

	DB_HOST              string
	DB_PORT              string
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_MAX_OPEN_CONNS    int
	DB_MAX_IDLE_CONNS    int
	DB_CONN_MAX_LIFETIME time.Duration
}

// DefaultEnvConfig holds the process configuration after LoadEnvConfig.
var DefaultEnvConfig envConfig

// LoadEnvConfig reads .env (when present) and the process environment into
// DefaultEnvConfig. Missing values fall back to development defaults; a
// missing .env file is not an error.
func LoadEnvConfig() error {
	_ = godotenv.Load()

	DefaultEnvConfig = envConfig{
		APP_PORT:         getenv("APP_PORT", "8080"),
		LOG_FILE_PATH:    getenv("LOG_FILE_PATH", ""),
		DEFINITIONS_PATH: getenv("DEFINITIONS_PATH", ""),

		DB_HOST:              getenv("DB_HOST", ""),
		DB_PORT:              getenv("DB_PORT", "5432"),
		DB_USER:              getenv("DB_USER", "postgres"),
		DB_PASSWORD:          getenv("DB_PASSWORD", ""),
		DB_NAME:              getenv("DB_NAME", "wpcpt"),
		DB_SSL_MODE:          getenv("DB_SSL_MODE", "disable"),
		DB_MAX_OPEN_CONNS:    getenvInt("DB_MAX_OPEN_CONNS", 10),
		DB_MAX_IDLE_CONNS:    getenvInt("DB_MAX_IDLE_CONNS", 5),
		DB_CONN_MAX_LIFETIME: getenvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
