package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	App        AppConfig
	Database   DatabaseConfig
	Pagination PaginationConfig
	CORS       CORSConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type AppConfig struct {
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	Path string
}

type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

type CORSConfig struct {
	Origins []string
}

func Load() (*Config, error) {
	// Try to load .env from the working directory or the project root; plain
	// environment variables work without one (Docker/K8s).
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "3000"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		App: AppConfig{
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/expenso.db"),
		},
		Pagination: PaginationConfig{
			DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", 10),
			MaxPageSize:     getEnvInt("MAX_PAGE_SIZE", 100),
		},
		CORS: CORSConfig{
			Origins: splitOrigins(getEnv("CORS_ORIGINS", "*")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate collects every configuration problem into one error.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Server.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Server.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.App.Env {
	case "development", "production", "test":
	default:
		problems = append(problems, fmt.Sprintf("invalid environment '%s': must be one of [development production test]", c.App.Env))
	}

	if c.Database.Path == "" {
		problems = append(problems, "database path cannot be empty")
	}

	if c.Pagination.DefaultPageSize < 1 {
		problems = append(problems, fmt.Sprintf("invalid default page size %d: must be positive", c.Pagination.DefaultPageSize))
	}
	if c.Pagination.MaxPageSize < 1 {
		problems = append(problems, fmt.Sprintf("invalid max page size %d: must be positive", c.Pagination.MaxPageSize))
	}
	if c.Pagination.DefaultPageSize >= 1 && c.Pagination.MaxPageSize >= 1 && c.Pagination.DefaultPageSize > c.Pagination.MaxPageSize {
		problems = append(problems, fmt.Sprintf("default page size %d exceeds max page size %d", c.Pagination.DefaultPageSize, c.Pagination.MaxPageSize))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
