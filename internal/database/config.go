package database

import (
	"fmt"
	"strings"

	"dispend/internal/config"
)

// Config holds database configuration
type Config struct {
	Driver string

	// SQLite
	Path     string
	InMemory bool

	// PostgreSQL
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewConfig derives the database configuration from the application config.
func NewConfig(cfg *config.Config) *Config {
	return &Config{
		Driver:   cfg.DBDriver,
		Path:     cfg.DBPath,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
}

// MemoryConfig returns a configuration for a named in-memory SQLite database
// shared by every connection in the process.
func MemoryConfig(name string) *Config {
	return &Config{Driver: config.DriverSQLite, Path: name, InMemory: true}
}

// DSN returns the driver-specific connection string. SQLite connections
// always enable foreign keys so the schema's cascade rules apply.
func (c *Config) DSN() string {
	if c.Driver == config.DriverPostgres {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
	params := []string{"_foreign_keys=on", "_busy_timeout=5000"}
	if c.InMemory {
		params = append([]string{"mode=memory", "cache=shared"}, params...)
	} else {
		params = append(params, "_journal_mode=WAL")
	}
	return "file:" + c.Path + "?" + strings.Join(params, "&")
}

// MigrationURL returns the URL golang-migrate uses for PostgreSQL.
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}
