package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	API     APIConfig
	Session SessionConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

// APIConfig points at the remote iTicket API that owns all business logic.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Secret   string
	StateDir string
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "localhost"),
			Env:  getEnv("ENV", "development"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_URL", "http://localhost:5000/api"), "/"),
			Timeout: time.Duration(getEnvAsInt("API_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Session: SessionConfig{
			Secret:   getEnv("SESSION_SECRET", "your-secret-key-change-in-production"),
			StateDir: getEnv("STATE_DIR", defaultStateDir()),
		},
	}

	return config, nil
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "iticket")
	}
	return ".iticket"
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
