package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fleetsight/fleetsight/internal/logging"
)

// Config is the application-wide configuration
type Config struct {
	Logging  logging.Config `yaml:"logging"`
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	Sweep    SweepConfig    `yaml:"sweep"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// DatabaseConfig holds storage settings
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // sqlite3 or postgres
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// APIConfig holds HTTP server settings
type APIConfig struct {
	Enabled      bool          `yaml:"enabled"`
	ListenAddr   string        `yaml:"listen_addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	AllowOrigins []string      `yaml:"allow_origins"`
}

// SweepConfig controls the periodic fleet-wide alert sweep
type SweepConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// MetricsConfig holds Prometheus exporter settings
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Logging: logging.DefaultConfig(),
		Database: DatabaseConfig{
			Driver:          "sqlite3",
			DSN:             "fleetsight.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		API: APIConfig{
			Enabled:      true,
			ListenAddr:   ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			AllowOrigins: []string{},
		},
		Sweep: SweepConfig{
			Enabled:  true,
			Interval: 6 * time.Hour,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads the configuration file at path, falling back to defaults for
// anything the file does not set. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides lets deployment environments override file settings
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FLEETSIGHT_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("FLEETSIGHT_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("FLEETSIGHT_LISTEN_ADDR"); v != "" {
		cfg.API.ListenAddr = v
	}
	if v := os.Getenv("FLEETSIGHT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn must not be empty")
	}

	if c.API.Enabled && c.API.ListenAddr == "" {
		return fmt.Errorf("api listen_addr must not be empty when api is enabled")
	}

	if c.Sweep.Enabled && c.Sweep.Interval < time.Minute {
		return fmt.Errorf("sweep interval must be at least one minute, got %s", c.Sweep.Interval)
	}

	return nil
}
