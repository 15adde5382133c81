package main

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/julianshen/ratiocalc/internal/config"
	"github.com/julianshen/ratiocalc/internal/logging"
	"github.com/julianshen/ratiocalc/internal/pricing"
	"github.com/julianshen/ratiocalc/internal/store"
)

// session is the state one non-interactive command works on.
type session struct {
	cfg   *config.Config
	log   zerolog.Logger
	table *pricing.Table
	kv    store.KV
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.Console(cfg.Log)
	if err != nil {
		return nil, err
	}
	tbl, kv, err := openTable(cmd.Context(), cfg, log)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: log, table: tbl, kv: kv}, nil
}

func (s *session) Close() error { return s.kv.Close() }

// parseIndex converts a 1-based row number from the command line to a
// table index.
func parseIndex(arg string, rows int) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid row number %q: must be a positive integer", arg)
	}
	if n > rows {
		return 0, fmt.Errorf("row %d does not exist (table has %d rows)", n, rows)
	}
	return n - 1, nil
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func describeRow(index int, r pricing.Row) string {
	return fmt.Sprintf("%d. %s  input %s  output %s  model x%.4f  completion x%.4f",
		index+1, r.ModelName, formatPrice(r.InputPrice), formatPrice(r.OutputPrice),
		r.ModelMultiplier, r.CompletionMultiplier)
}
