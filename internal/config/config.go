package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Flat-file storage configuration
	Storage StorageConfig

	// Session and password settings
	Auth AuthConfig

	// Upload configuration
	Upload UploadConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig holds the location of the backing tables
type StorageConfig struct {
	DataDir     string
	UserTable   string
	UploadTable string
	WatchTables bool
}

// AuthConfig holds session token and password hashing settings
type AuthConfig struct {
	SessionSecret string
	BcryptCost    int
	CookieSecure  bool
}

// UploadConfig holds upload settings
type UploadConfig struct {
	MaxUploadSize int64 // in bytes
	PreviewBytes  int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables. A .env file in the
// working directory, when present, is loaded first without overriding
// variables already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Storage: StorageConfig{
			DataDir:     getEnv("DATA_DIR", "."),
			UserTable:   getEnv("USER_TABLE", "user_data.csv"),
			UploadTable: getEnv("UPLOAD_TABLE", "upload_data.csv"),
			WatchTables: getBoolEnv("WATCH_TABLES", true),
		},
		Auth: AuthConfig{
			SessionSecret: getEnv("SESSION_SECRET", ""),
			BcryptCost:    getIntEnv("BCRYPT_COST", bcrypt.DefaultCost),
			CookieSecure:  getBoolEnv("COOKIE_SECURE", false),
		},
		Upload: UploadConfig{
			MaxUploadSize: getInt64Env("MAX_UPLOAD_SIZE", 200*1024*1024), // 200MB
			PreviewBytes:  getIntEnv("UPLOAD_PREVIEW_BYTES", 1024),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.Storage.UserTable == "" || c.Storage.UploadTable == "" {
		return fmt.Errorf("USER_TABLE and UPLOAD_TABLE must not be empty")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Log.Format != "json" && c.Log.Format != "pretty" {
		return fmt.Errorf("LOG_FORMAT must be json or pretty")
	}
	if c.Upload.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
