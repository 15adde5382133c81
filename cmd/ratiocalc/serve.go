package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/julianshen/ratiocalc/internal/api"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	var addrFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the table over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			addr := s.cfg.Server.Addr
			if addrFlag != "" {
				addr = addrFlag
			}
			handler := api.NewServer(s.table, s.kv, s.log,
				api.WithRateLimit(s.cfg.Server.RateLimit, s.cfg.Server.RateBurst),
			).Handler()
			srv := &http.Server{
				Addr:         addr,
				Handler:      handler,
				ReadTimeout:  s.cfg.Server.ReadTimeout,
				WriteTimeout: s.cfg.Server.WriteTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, srv, s.log)
		},
	}

	cmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (default from config)")
	return cmd
}

// runServer serves until ctx is cancelled or the listener fails, then shuts
// the server down gracefully.
func runServer(ctx context.Context, srv *http.Server, log zerolog.Logger) error {
	p := pool.New().WithContext(ctx).WithCancelOnError()

	p.Go(func(context.Context) error {
		log.Info().Str("addr", srv.Addr).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving on %s: %w", srv.Addr, err)
		}
		return nil
	})

	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		log.Info().Msg("server stopped")
		return nil
	})

	return p.Wait()
}
