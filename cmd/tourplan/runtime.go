package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/rendis/tourplan/internal/config"
	"github.com/rendis/tourplan/internal/engine/api"
	"github.com/rendis/tourplan/internal/engine/assets"
	"github.com/rendis/tourplan/internal/engine/catalog"
	"github.com/rendis/tourplan/internal/engine/export"
	"github.com/rendis/tourplan/internal/engine/planner"
	"github.com/rendis/tourplan/internal/engine/present"
	"github.com/rendis/tourplan/internal/engine/storage"
	"github.com/rendis/tourplan/internal/observability"
	"github.com/rendis/tourplan/internal/tui/views"
)

// runtime holds everything a command needs once configuration is resolved.
type runtime struct {
	cfg     config.Config
	log     zerolog.Logger
	client  *api.Client
	assets  *assets.Table
	backend storage.Backend
	store   *storage.ItineraryStore
	closers []io.Closer
}

func newLogger(cfg config.Config, w io.Writer) zerolog.Logger {
	return observability.WithLevel(observability.NewLogger(cfg.AppEnv, w), cfg.LogLevel)
}

// openRuntime connects the API client and the handoff store.
func openRuntime(ctx context.Context, cfg config.Config, log zerolog.Logger) (*runtime, error) {
	rt := &runtime{cfg: cfg, log: log}

	rt.client = api.NewClient(cfg.APIBaseURL, api.Options{RPS: cfg.RPS, Logger: log})

	rt.assets = assets.Default()
	if cfg.AssetsFile != "" {
		t, err := assets.Load(cfg.AssetsFile)
		if err != nil {
			return nil, fmt.Errorf("loading assets: %w", err)
		}
		rt.assets = t
	}

	var (
		backend storage.Backend
		err     error
	)
	if cfg.UsesRedis() {
		backend, err = storage.DialRedis(ctx, cfg.RedisAddr, cfg.HandoffTTL)
	} else {
		backend, err = storage.NewSQLiteStore(cfg.HandoffDB)
	}
	if err != nil {
		return nil, fmt.Errorf("opening handoff store: %w", err)
	}
	rt.backend = backend
	rt.store = storage.NewItineraryStore(backend)
	rt.closers = append(rt.closers, rt.store)
	log.Debug().Str("backend", backend.Name()).Str("api", cfg.APIBaseURL).Msg("runtime ready")
	return rt, nil
}

func (rt *runtime) Close() error {
	var errs []error
	for _, c := range rt.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func (rt *runtime) newPlanner() *planner.Orchestrator {
	return planner.NewOrchestrator(rt.client, rt.client, rt.store, planner.Options{
		Timeout: rt.cfg.Timeout,
		Logger:  rt.log,
	})
}

func (rt *runtime) catalog() *catalog.Query {
	return catalog.NewQuery(rt.client, rt.assets)
}

func (rt *runtime) shareHost() export.Host {
	return export.Host{Clipboard: export.SystemClipboard{}, URL: rt.cfg.ShareURL}
}

// viewDeps assembles the TUI dependencies.
func (rt *runtime) viewDeps() views.Deps {
	return views.Deps{
		NewPlanner:   rt.newPlanner,
		Catalog:      rt.catalog(),
		Handoff:      rt.store,
		Downloader:   export.NewDownloader(rt.cfg.DownloadDir),
		Share:        rt.shareHost(),
		ResultsDelay: present.LoadDelay,
		OnDownload: func(path string, f export.Format) {
			rt.log.Info().Str("path", path).Str("format", string(f)).Msg("itinerary downloaded")
		},
		Log: rt.log,
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
