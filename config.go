// config.go
//
// Process configuration. Values come from the environment, optionally
// seeded from a .env file (see main), and are parsed once at startup.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers accepted in STORE_DRIVER.
const (
	driverSQLite = "sqlite"
	driverMemory = "memory"
)

// Config holds every knob the server reads at startup.
type Config struct {
	Port            string        `env:"PORT"             envDefault:"5175"`
	DBPath          string        `env:"DB_PATH"          envDefault:"./data/phoenix.db"`
	StoreDriver     string        `env:"STORE_DRIVER"     envDefault:"sqlite"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT"       envDefault:"json"`
	LogFile         string        `env:"LOG_FILE"`
	CORSOrigins     []string      `env:"CORS_ORIGINS"     envDefault:"*" envSeparator:","`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// loadConfig parses the environment into a Config and validates it.
func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case driverSQLite, driverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", driverSQLite, driverMemory, c.StoreDriver)
	}
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.StoreDriver == driverSQLite && strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH must not be empty for the sqlite driver")
	}
	if c.RequestTimeout < 0 || c.ShutdownTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

// Addr is the listen address for http.Server.
func (c Config) Addr() string { return ":" + c.Port }
