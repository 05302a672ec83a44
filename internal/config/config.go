package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Port int `env:"SERVER_PORT" envDefault:"8080"`
	// StoreDriver selects the repository: "postgres" or "memory"
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Host         string `env:"DB_HOST" envDefault:"localhost"`
	Port         int    `env:"DB_PORT" envDefault:"5432"`
	Username     string `env:"DB_USERNAME" envDefault:"postgres"`
	Password     string `env:"DB_PASSWORD" envDefault:"password"`
	DBName       string `env:"DB_NAME" envDefault:"shiftlog"`
	SSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`
	TestDBName   string `env:"TEST_DB_NAME" envDefault:"shiftlog_test"` // Separate database for testing
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
}

// AuthConfig holds the authentication configuration
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET" envDefault:"your-secret-key-here"`
	TokenTTL  time.Duration `env:"JWT_TTL" envDefault:"24h"`
	// AdminEmails are granted reference-data management on sign-up
	AdminEmails []string `env:"AUTH_ADMIN_EMAILS" envSeparator:","`
}

// LogConfig holds the logger configuration
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode,
	)
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
