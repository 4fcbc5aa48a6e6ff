package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Backend selection values for the storage and collaborator adapters
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendHTTP     = "http"
)

// Config holds all service configuration, parsed from environment variables
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	AuthToken       string        `env:"AUTH_TOKEN" envDefault:"dev-token"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	InstanceName    string        `env:"INSTANCE_NAME" envDefault:"escrowd"`
	EscrowAccount   string        `env:"ESCROW_ACCOUNT" envDefault:"escrowd_custody"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"postgres"`
	DBHost         string `env:"DB_HOST" envDefault:"localhost"`
	DBPort         string `env:"DB_PORT" envDefault:"5432"`
	DBUser         string `env:"DB_USER" envDefault:"postgres"`
	DBPassword     string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName         string `env:"DB_NAME" envDefault:"escrowd"`
	DBSSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`

	RegistryBackend string `env:"REGISTRY_BACKEND" envDefault:"memory"`
	RegistryURL     string `env:"REGISTRY_URL" envDefault:"http://localhost:8081"`
	LedgerBackend   string `env:"LEDGER_BACKEND" envDefault:"memory"`
	LedgerURL       string `env:"LEDGER_URL" envDefault:"http://localhost:8082"`
}

// Parse loads configuration from environment variables
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DBConnString builds the lib/pq connection string from the DB_* parts
func (c *Config) DBConnString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
