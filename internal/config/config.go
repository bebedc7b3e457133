// Package config loads the application configuration from the process
// environment (optionally seeded from a .env file) into typed structs.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload" // load .env into the environment, if present
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "KLIKSY_"

// Config is the root configuration object, built once at startup and passed
// by reference to everything that needs it.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database" validate:"required"`
	Storage    StorageConfig    `koanf:"storage"`
	Pagination PaginationConfig `koanf:"pagination"`
	Auth       AuthConfig       `koanf:"auth"`
	Janitor    JanitorConfig    `koanf:"janitor"`
}

// ServerConfig groups HTTP server settings.
type ServerConfig struct {
	Port         int `koanf:"port"`
	ReadTimeout  int `koanf:"read_timeout"`  // seconds
	WriteTimeout int `koanf:"write_timeout"` // seconds
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `koanf:"host" validate:"required"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user" validate:"required"`
	Password string `koanf:"password"`
	Name     string `koanf:"name" validate:"required"`
	SSLMode  string `koanf:"sslmode"`
}

// DSN renders the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// StorageConfig holds object store credentials and URL derivation settings.
// Bucket and CDNBaseURL may both be empty, in which case no file URLs are
// attached to responses.
type StorageConfig struct {
	Endpoint     string `koanf:"endpoint"`
	Region       string `koanf:"region"`
	AccessKey    string `koanf:"access_key"`
	SecretKey    string `koanf:"secret_key"`
	Bucket       string `koanf:"bucket"`
	CDNBaseURL   string `koanf:"cdn_base_url"`
	MaxFileBytes int64  `koanf:"max_file_bytes"`
}

// PaginationConfig holds the shared page-size policy for list endpoints.
type PaginationConfig struct {
	PageSize    int `koanf:"page_size"`
	MaxPageSize int `koanf:"max_page_size"`
}

// AuthConfig stores the JWT signing secret.
type AuthConfig struct {
	Secret string `koanf:"secret"`
}

// JanitorConfig controls the orphaned-object sweep.
type JanitorConfig struct {
	Schedule     string `koanf:"schedule"`
	GraceMinutes int    `koanf:"grace_minutes"`
}

// Load reads KLIKSY_-prefixed environment variables, applies defaults and
// validates the result. Env names map to nested keys on the first
// underscore: KLIKSY_DATABASE_HOST -> database.host,
// KLIKSY_STORAGE_MAX_FILE_BYTES -> storage.max_file_bytes.
func Load() (*Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Storage.Endpoint == "" {
		c.Storage.Endpoint = "s3.amazonaws.com"
	}
	if c.Storage.MaxFileBytes == 0 {
		c.Storage.MaxFileBytes = 10 * 1024 * 1024
	}
	if c.Pagination.PageSize == 0 {
		c.Pagination.PageSize = 8
	}
	if c.Pagination.MaxPageSize == 0 {
		c.Pagination.MaxPageSize = 24
	}
	if c.Janitor.Schedule == "" {
		c.Janitor.Schedule = "@hourly"
	}
	if c.Janitor.GraceMinutes == 0 {
		c.Janitor.GraceMinutes = 60
	}
	c.Storage.CDNBaseURL = strings.TrimRight(c.Storage.CDNBaseURL, "/")
}
