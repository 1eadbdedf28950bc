package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rendis/tourplan/internal/model"
	"github.com/rendis/tourplan/internal/observability"
)

const DefaultTimeout = 60 * time.Second

// Generator computes itineraries; implemented by the API client.
type Generator interface {
	GenerateItinerary(ctx context.Context, req model.ItineraryRequest) (*model.ItineraryResponse, error)
}

// Catalog supplies the form's option lists and the service health.
type Catalog interface {
	Categories(ctx context.Context) ([]string, error)
	Regions(ctx context.Context) ([]string, error)
	Health(ctx context.Context) (*model.Health, error)
}

// Store is the single-slot handoff between generation and results.
type Store interface {
	Save(ctx context.Context, it *model.ItineraryResponse) error
	Clear(ctx context.Context) error
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseGenerating
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseGenerating:
		return "generating"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is a snapshot of the itinerary slot.
type State struct {
	Phase     Phase
	Itinerary *model.ItineraryResponse
	Err       string
}

type Options struct {
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Orchestrator drives generation and the independent option loaders. It is
// safe for concurrent use; the TUI calls it from command goroutines.
type Orchestrator struct {
	gen     Generator
	catalog Catalog
	store   Store
	timeout time.Duration
	log     zerolog.Logger

	mu     sync.Mutex
	state  State
	closed bool

	categories Loader[[]string]
	regions    Loader[[]string]
	health     Loader[*model.Health]
}

func NewOrchestrator(gen Generator, catalog Catalog, store Store, opts Options) *Orchestrator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Orchestrator{
		gen:     gen,
		catalog: catalog,
		store:   store,
		timeout: opts.Timeout,
		log:     opts.Logger,
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Generate requests an itinerary. A call made while another generation is
// running returns ErrGenerationInFlight without contacting the service. On
// success the itinerary is persisted to the handoff store before returning.
func (o *Orchestrator) Generate(ctx context.Context, req model.ItineraryRequest) (*model.ItineraryResponse, error) {
	o.mu.Lock()
	switch {
	case o.closed:
		o.mu.Unlock()
		return nil, ErrClosed
	case o.state.Phase == PhaseGenerating:
		o.mu.Unlock()
		observability.ObserveGeneration("rejected", 0)
		return nil, ErrGenerationInFlight
	}
	o.state = State{Phase: PhaseGenerating}
	o.mu.Unlock()

	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	it, err := o.gen.GenerateItinerary(callCtx, WithDefaults(req))
	cancel()
	if err == nil && it == nil {
		err = errors.New("planning service returned no itinerary")
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		err = fmt.Errorf("generating itinerary: no answer within %s: %w", o.timeout, err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		o.log.Debug().Msg("discarding itinerary response after close")
		observability.ObserveGeneration("discarded", time.Since(start))
		return nil, ErrClosed
	}
	if err != nil {
		o.state = State{Phase: PhaseFailed, Err: err.Error()}
		o.log.Warn().Err(err).Str("wilaya", req.Wilaya).Msg("itinerary generation failed")
		observability.ObserveGeneration("failure", time.Since(start))
		return nil, err
	}

	if o.store != nil {
		if serr := o.store.Save(ctx, it); serr != nil {
			o.log.Error().Err(serr).Msg("persisting itinerary")
		}
	}
	o.state = State{Phase: PhaseSucceeded, Itinerary: it}
	o.log.Info().
		Str("title", it.Title).
		Int("days", len(it.Days)).
		Dur("took", time.Since(start)).
		Msg("itinerary generated")
	observability.ObserveGeneration("success", time.Since(start))
	return it, nil
}

// ClearError drops the failure message and returns to idle.
func (o *Orchestrator) ClearError() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Phase == PhaseFailed {
		o.state = State{}
	}
}

// ClearItinerary forgets the in-memory itinerary. The persisted copy stays.
func (o *Orchestrator) ClearItinerary() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Phase != PhaseGenerating {
		o.state = State{}
	}
}

// GenerateNew forgets the current itinerary and removes the persisted copy
// so the results view has nothing to show.
func (o *Orchestrator) GenerateNew(ctx context.Context) error {
	o.ClearItinerary()
	if o.store == nil {
		return nil
	}
	if err := o.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing persisted itinerary: %w", err)
	}
	return nil
}

// Close detaches the orchestrator from its view. Responses arriving later
// are discarded instead of being applied or persisted.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
}

func (o *Orchestrator) LoadCategories(ctx context.Context) ([]string, error) {
	return o.categories.Run(ctx, o.timeout, o.catalog.Categories)
}

func (o *Orchestrator) LoadRegions(ctx context.Context) ([]string, error) {
	return o.regions.Run(ctx, o.timeout, o.catalog.Regions)
}

func (o *Orchestrator) CheckHealth(ctx context.Context) (*model.Health, error) {
	return o.health.Run(ctx, o.timeout, o.catalog.Health)
}

func (o *Orchestrator) Categories() Load[[]string] { return o.categories.State() }

func (o *Orchestrator) Regions() Load[[]string] { return o.regions.State() }

func (o *Orchestrator) Health() Load[*model.Health] { return o.health.State() }

// Bootstrap loads categories and regions concurrently. Each failure stays
// in its own loader; the returned error only reports that something failed.
func (o *Orchestrator) Bootstrap(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		_, err := o.LoadCategories(ctx)
		return err
	})
	g.Go(func() error {
		_, err := o.LoadRegions(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		o.log.Warn().Err(err).Msg("loading form options")
		return err
	}
	return nil
}
