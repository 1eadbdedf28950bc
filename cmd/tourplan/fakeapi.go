package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/rendis/tourplan/internal/engine/fakeapi"
	"github.com/rendis/tourplan/internal/observability"
)

func newFakeAPICmd(c *cli) *cobra.Command {
	var (
		addr  string
		delay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fake-api",
		Short: "Serve a local stand-in for the planning service",
		Long: `Serves the catalog and itinerary endpoints from a built-in sample of
Algerian attractions and hotels, for demos and offline development.`,
		Example: `  tourplan fake-api --addr :5000
  tourplan fake-api --delay 3s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := c.log.With().Str("component", "fake-api").Logger()

			reg := observability.InitRegistry()
			observability.Serve(ctx, c.cfg.MetricsAddr, reg, log)

			fake := fakeapi.New(fakeapi.DefaultFixtures(), log)
			fake.SetDelay(delay)
			server := &http.Server{
				Addr:              addr,
				Handler:           fake.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				log.Info().Str("addr", addr).Msg("fake planning service listening")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return err
				}
				log.Info().Msg("fake planning service stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":5000", "Listen address")
	cmd.Flags().DurationVar(&delay, "delay", 0, "Artificial latency on every response")
	return cmd
}
