package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Storage drivers understood by the store package.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config represents the top-level application configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Seed    SeedConfig    `toml:"seed"`
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Driver string `toml:"driver"`
	// DSN is the database path or connection string for SQL drivers.
	DSN                 string `toml:"dsn"`
	RedisAddr           string `toml:"redis_addr"`
	RedisPasswordSource string `toml:"redis_password_source"`
	RedisPassword       string `toml:"redis_password"`
	RedisDB             int    `toml:"redis_db"`
	// KeyPrefix namespaces keys on shared backends (redis only).
	KeyPrefix string `toml:"key_prefix"`
	DataKey   string `toml:"data_key"`
	UnitKey   string `toml:"unit_key"`
}

// SeedConfig points at an optional replacement for the built-in seed rows.
type SeedConfig struct {
	Path string `toml:"path"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `toml:"level"`
	// File receives log output while the TUI owns the terminal. Empty discards it.
	File string `toml:"file"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	// RateLimit is requests per second per client. Zero disables limiting.
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
}

// DefaultDir returns ~/.config/ratiocalc.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ratiocalc"), nil
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() *Config {
	dsn := "ratiocalc.db"
	if dir, err := DefaultDir(); err == nil {
		dsn = filepath.Join(dir, "ratiocalc.db")
	}
	return &Config{
		Storage: StorageConfig{
			Driver:              DriverSQLite,
			DSN:                 dsn,
			RedisAddr:           "localhost:6379",
			RedisPasswordSource: "config",
			KeyPrefix:           "ratiocalc:",
			DataKey:             "calculatorData",
			UnitKey:             "calculatorUnit",
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit:    20,
			RateBurst:    40,
		},
	}
}

// Load reads the TOML config at path on top of DefaultConfig. A missing
// file is not an error. Environment overrides are applied afterwards.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// LoadFile reads path on top of DefaultConfig without environment overrides
// or validation. Use it when the result will be written back with Save.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RATIOCALC_STORAGE"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("RATIOCALC_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("RATIOCALC_REDIS_ADDR"); v != "" {
		cfg.Storage.RedisAddr = v
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverRedis:
	case DriverSQLite, DriverMySQL, DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("storage.driver %q is not one of memory, sqlite, mysql, postgres, redis", c.Storage.Driver)
	}
	if c.Storage.DataKey == "" || c.Storage.UnitKey == "" {
		return fmt.Errorf("storage.data_key and storage.unit_key must be set")
	}
	if c.Storage.DataKey == c.Storage.UnitKey {
		return fmt.Errorf("storage.data_key and storage.unit_key must differ")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("server.rate_limit and server.rate_burst must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst == 0 {
		return fmt.Errorf("server.rate_burst must be positive when server.rate_limit is set")
	}
	return nil
}
