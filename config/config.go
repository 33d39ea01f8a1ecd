package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	API  APIConfig
	Auth AuthConfig
	JWT  JWTConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type AuthConfig struct {
	// TokenFile is the single well-known location where the session token
	// is persisted when "remember me" is set.
	TokenFile string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

var AppConfig *Config

func Load() *Config {
	AppConfig = &Config{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:5000/api"),
			Timeout: time.Duration(getEnvAsInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Auth: AuthConfig{
			TokenFile: getEnv("TOKEN_FILE", defaultTokenFile()),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-this-secret-in-production"),
			ExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		},
	}
	return AppConfig
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".az-household-token"
	}
	return filepath.Join(dir, "az-household", "token")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
