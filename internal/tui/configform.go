package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianshen/ratiocalc/internal/config"
)

// ConfigForm wraps a Huh form for editing ratiocalc configuration.
type ConfigForm struct {
	form       *huh.Form
	cfg        *config.Config
	savePath   string
	redisDBStr string
}

// NewConfigForm creates a config editor form populated from the given config.
func NewConfigForm(cfg *config.Config, savePath string) *ConfigForm {
	cf := &ConfigForm{
		cfg:        cfg,
		savePath:   savePath,
		redisDBStr: strconv.Itoa(cfg.Storage.RedisDB),
	}

	storageGroup := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Storage").
			Options(
				huh.NewOption("SQLite file", config.DriverSQLite),
				huh.NewOption("MySQL", config.DriverMySQL),
				huh.NewOption("PostgreSQL", config.DriverPostgres),
				huh.NewOption("Redis", config.DriverRedis),
				huh.NewOption("Memory (nothing is kept)", config.DriverMemory),
			).
			Value(&cfg.Storage.Driver),
	).Title("Storage")

	sqlGroup := huh.NewGroup(
		huh.NewInput().
			Title("Database path or DSN").
			Value(&cfg.Storage.DSN),
	).Title("Database").
		WithHideFunc(func() bool {
			d := cfg.Storage.Driver
			return d != config.DriverSQLite && d != config.DriverMySQL && d != config.DriverPostgres
		})

	redisGroup := huh.NewGroup(
		huh.NewInput().
			Title("Redis address").
			Placeholder("localhost:6379").
			Value(&cfg.Storage.RedisAddr),
		huh.NewInput().
			Title("Redis DB").
			Placeholder("0").
			Value(&cf.redisDBStr).
			Validate(func(s string) error {
				if _, err := strconv.Atoi(s); err != nil {
					return fmt.Errorf("must be a number")
				}
				return nil
			}),
		huh.NewInput().
			Title("Redis password").
			Value(&cfg.Storage.RedisPassword).
			EchoMode(huh.EchoModePassword),
	).Title("Redis").
		WithHideFunc(func() bool { return cfg.Storage.Driver != config.DriverRedis })

	logGroup := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Log level").
			Options(
				huh.NewOption("Debug", "debug"),
				huh.NewOption("Info", "info"),
				huh.NewOption("Warn", "warn"),
				huh.NewOption("Error", "error"),
			).
			Value(&cfg.Log.Level),
		huh.NewInput().
			Title("Log file (TUI)").
			Placeholder("leave empty to discard").
			Value(&cfg.Log.File),
	).Title("Logging")

	cf.form = huh.NewForm(storageGroup, sqlGroup, redisGroup, logGroup)

	return cf
}

// Save validates and persists the config to disk. It parses the Redis DB
// string back to int before saving.
func (c *ConfigForm) Save() error {
	if v, err := strconv.Atoi(c.redisDBStr); err == nil {
		c.cfg.Storage.RedisDB = v
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	return config.Save(c.savePath, c.cfg)
}

// Form returns the underlying huh.Form for Bubble Tea embedding.
func (c *ConfigForm) Form() *huh.Form { return c.form }

// IsAborted returns true if the form has been aborted (cancelled).
func (c *ConfigForm) IsAborted() bool { return c.form.State == huh.StateAborted }
