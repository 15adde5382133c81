// cmd/ratiocalc/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/julianshen/ratiocalc/internal/config"
	"github.com/julianshen/ratiocalc/internal/logging"
	"github.com/julianshen/ratiocalc/internal/pricing"
	"github.com/julianshen/ratiocalc/internal/seed"
	"github.com/julianshen/ratiocalc/internal/store"
	"github.com/julianshen/ratiocalc/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	configPath   string
	storageFlag  string
	logLevelFlag string
)

func versionString() string {
	return fmt.Sprintf("ratiocalc %s (commit: %s, built: %s)", version, commit, date)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ratiocalc",
		Short: "Model and completion multiplier calculator",
		Long: `ratiocalc keeps a table of model prices and derives the model and
completion multipliers a One-API style gateway expects. Run it without a
subcommand for the interactive table.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "override storage driver: memory, sqlite, mysql, postgres, redis")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "override log level")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(setCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(toggleUnitCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(configureCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveConfigPath returns --config or the default location.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	dir, err := config.DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// loadConfig resolves the config path, loads the config, and applies any
// flag overrides.
func loadConfig() (*config.Config, error) {
	cfgPath, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if storageFlag != "" {
		cfg.Storage.Driver = storageFlag
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	return cfg, nil
}

// openTable connects to the configured store and loads the table from it.
// The caller owns the returned store and must close it.
func openTable(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pricing.Table, store.KV, error) {
	entries, err := seed.Load(cfg.Seed.Path)
	if err != nil {
		return nil, nil, err
	}

	kv, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Driver, err)
	}

	tbl := pricing.New(kv,
		pricing.WithKeys(cfg.Storage.DataKey, cfg.Storage.UnitKey),
		pricing.WithSeed(entries),
		pricing.WithLogger(log),
	)
	if err := tbl.Load(ctx); err != nil {
		kv.Close()
		return nil, nil, fmt.Errorf("loading table: %w", err)
	}

	log.Debug().
		Str("driver", cfg.Storage.Driver).
		Int("rows", tbl.Len()).
		Stringer("unit", tbl.Unit()).
		Msg("table loaded")
	return tbl, kv, nil
}

func runInteractive(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, closer, err := logging.ForTUI(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	tbl, kv, err := openTable(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer kv.Close()

	model := tui.NewModel(ctx, tbl, log)
	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
