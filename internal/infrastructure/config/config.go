package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// loaded from environment variables, no magic defaults for required fields.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
}

// DatabaseConfig contains relational store connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Schema   string
}

// RedisConfig contains cache endpoint parameters.
type RedisConfig struct {
	Addr string
}

// secretRecord is the resolved credential record shape delivered by an
// external secret store. Field names follow the managed-database
// convention so rotated secrets drop in unchanged.
type secretRecord struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

// ConnectionString returns the postgres connection string.
func (c DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&search_path=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
		c.SSLMode,
		c.Schema,
	)
}

// Load reads configuration from environment variables.
// loads .env file if present, but doesn't fail if it's missing.
func Load() (*Config, error) {
	// try to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}

	redisConfig, err := loadRedisConfig()
	if err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}

	return &Config{
		Database: dbConfig,
		Redis:    redisConfig,
	}, nil
}

func loadDatabaseConfig() (DatabaseConfig, error) {
	config := DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		SSLMode:  getEnvOrDefault("DB_SSL_MODE", "require"),
		Schema:   getEnvOrDefault("DB_SCHEMA", "podium"),
	}

	// a resolved secret record overrides the discrete variables
	if secret := os.Getenv("DB_SECRET_JSON"); secret != "" {
		if err := applySecret(&config, secret); err != nil {
			return config, err
		}
	}

	// required fields must be set one way or the other
	if config.User == "" {
		return config, errors.New("DB_USER is required")
	}
	if config.Password == "" {
		return config, errors.New("DB_PASSWORD is required")
	}
	if config.Name == "" {
		return config, errors.New("DB_NAME is required")
	}

	return config, nil
}

func applySecret(config *DatabaseConfig, raw string) error {
	var record secretRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return fmt.Errorf("parsing DB_SECRET_JSON: %w", err)
	}

	if record.Host != "" {
		config.Host = record.Host
	}
	if record.Port != 0 {
		config.Port = fmt.Sprintf("%d", record.Port)
	}
	if record.Username != "" {
		config.User = record.Username
	}
	if record.Password != "" {
		config.Password = record.Password
	}
	if record.DBName != "" {
		config.Name = record.DBName
	}

	return nil
}

func loadRedisConfig() (RedisConfig, error) {
	config := RedisConfig{
		Addr: getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
	}
	return config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
