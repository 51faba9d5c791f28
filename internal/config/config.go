package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/united-manufacturing-hub/umh-utils/env"
)

// Drivers understood by DATABASE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DatabaseURL     string
	DatabaseDriver  string
	Port            string
	HealthAddr      string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Load reads an optional .env file and then the process environment.
// DATABASE_URL is required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	databaseURL, err := env.GetAsString("DATABASE_URL", true, "")
	if err != nil {
		return nil, err
	}
	if databaseURL == "" {
		return nil, fmt.Errorf("environment variable DATABASE_URL is empty")
	}

	driver, _ := env.GetAsString("DATABASE_DRIVER", false, DriverPostgres)
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", driver)
	}

	port, _ := env.GetAsString("PORT", false, "8000")
	healthAddr, _ := env.GetAsString("HEALTH_ADDR", false, ":8086")
	logLevel, _ := env.GetAsString("LOGGING_LEVEL", false, "PRODUCTION")

	seconds, err := env.GetAsInt("SHUTDOWN_TIMEOUT_SECONDS", false, 30)
	if err != nil {
		return nil, err
	}
	if seconds <= 0 {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be positive, got %d", seconds)
	}

	return &Config{
		DatabaseURL:     databaseURL,
		DatabaseDriver:  driver,
		Port:            port,
		HealthAddr:      healthAddr,
		LogLevel:        logLevel,
		ShutdownTimeout: time.Duration(seconds) * time.Second,
	}, nil
}

// Addr is the listen address for the API server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
