// pkg/config/database.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Supported store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// StoreConfig selects and configures the target row store
type StoreConfig struct {
	Driver   string
	Postgres *PostgresConfig
	SQLite   *SQLiteConfig
}

// PostgresConfig holds PostgreSQL connection parameters. When URL is set it
// wins over the discrete fields (Supabase hands out a connection URI).
type PostgresConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// Statement timeout
	StatementTimeout time.Duration
}

// SQLiteConfig holds the local SQLite store parameters
type SQLiteConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// LoadStoreConfig loads the store configuration from environment variables.
// Credentials are only required for the selected driver.
func LoadStoreConfig() (*StoreConfig, error) {
	cfg := &StoreConfig{
		Driver: strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		SQLite: LoadSQLiteConfig(),
	}

	if cfg.Driver == DriverPostgres {
		pgConfig, err := LoadPostgresConfig()
		if err != nil {
			return nil, err
		}
		cfg.Postgres = pgConfig
	}

	return cfg, nil
}

// Validate checks the driver selection against the loaded settings
func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.Postgres == nil {
			return errors.New("postgres configuration is required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLite == nil || c.SQLite.Path == "" {
			return errors.New("sqlite path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported store driver %q", c.Driver)
	}
	return nil
}

// LoadPostgresConfig loads PostgreSQL configuration from environment variables
func LoadPostgresConfig() (*PostgresConfig, error) {
	cfg := &PostgresConfig{
		URL:      os.Getenv("SUPABASE_DB_URL"),
		Host:     getEnv("POSTGRES_HOST", "localhost"),
		Port:     getEnvAsInt("POSTGRES_PORT", 5432),
		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Database: getEnv("POSTGRES_DB", "postgres"),
		SSLMode:  getEnv("POSTGRES_SSLMODE", "require"),

		MaxOpenConns:     getEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 5),
		MaxIdleConns:     getEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 2),
		ConnMaxLifetime:  time.Duration(getEnvAsInt("POSTGRES_CONN_MAX_LIFETIME_SECONDS", 1800)) * time.Second,
		ConnMaxIdleTime:  time.Duration(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_TIME_SECONDS", 600)) * time.Second,
		StatementTimeout: time.Duration(getEnvAsInt("POSTGRES_STATEMENT_TIMEOUT_SECONDS", 60)) * time.Second,
	}

	if cfg.URL != "" {
		return cfg, nil
	}

	if cfg.User == "" {
		return nil, errors.New("SUPABASE_DB_URL or POSTGRES_USER environment variable is required")
	}

	if cfg.Password == "" {
		return nil, errors.New("POSTGRES_PASSWORD environment variable is required")
	}

	return cfg, nil
}

// LoadSQLiteConfig loads SQLite configuration from environment variables
func LoadSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        getEnv("SQLITE_PATH", "ingest.db"),
		BusyTimeout: time.Duration(getEnvAsInt("SQLITE_BUSY_TIMEOUT_MS", 5000)) * time.Millisecond,
	}
}

// ConnectionString returns a formatted PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
		c.SSLMode,
	)
}

// ConnectionString returns the SQLite DSN with the busy timeout pragma applied
func (c *SQLiteConfig) ConnectionString() string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", c.Path, c.BusyTimeout.Milliseconds())
}
