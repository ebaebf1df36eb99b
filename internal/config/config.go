package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Env  string
	Port string

	// Storage
	DataDir    string
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	BackupDir  string

	// Ledger defaults
	DefaultCurrency string
	Timezone        string

	// Optional passphrase auth for remote access
	AuthPassphraseHash string
	JWTSecret          string
	JWTExpirationDur   time.Duration
}

// Load loads configuration from an optional .env file and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	dataDir := getEnv("DISPEND_DATA_DIR", "data")

	cfg := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DataDir:    dataDir,
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:     getEnv("DB_PATH", filepath.Join(dataDir, "dispend.db")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "dispend"),
		DBPassword: getEnv("DB_PASSWORD", "dispend"),
		DBName:     getEnv("DB_NAME", "dispend"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		BackupDir:  getEnv("BACKUP_DIR", filepath.Join(dataDir, "backups")),

		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "CAD")),
		Timezone:        getEnv("TIMEZONE", "Local"),

		AuthPassphraseHash: getEnv("AUTH_PASSPHRASE_HASH", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	cfg.JWTExpirationDur = expDur

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid PORT %q", c.Port))
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			problems = append(problems, "DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			problems = append(problems, "DB_HOST and DB_NAME are required for the postgres driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if len(c.DefaultCurrency) != 3 {
		problems = append(problems, fmt.Sprintf("invalid DEFAULT_CURRENCY %q", c.DefaultCurrency))
	}
	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid TIMEZONE %q", c.Timezone))
	}
	if c.AuthEnabled() && c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required when AUTH_PASSPHRASE_HASH is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location resolves the configured time zone used for budget period windows.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// AuthEnabled reports whether API routes require a session token.
func (c *Config) AuthEnabled() bool {
	return c.AuthPassphraseHash != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
