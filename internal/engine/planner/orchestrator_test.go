package planner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rendis/tourplan/internal/model"
)

type fakeGenerator struct {
	calls   atomic.Int32
	release chan struct{}
	started chan struct{}
	resp    *model.ItineraryResponse
	err     error
	lastReq model.ItineraryRequest
	mu      sync.Mutex
}

func (g *fakeGenerator) GenerateItinerary(ctx context.Context, req model.ItineraryRequest) (*model.ItineraryResponse, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.lastReq = req
	g.mu.Unlock()
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.resp, g.err
}

type fakeCatalog struct {
	categories []string
	catErr     error
	regions    []string
	regErr     error
}

func (c *fakeCatalog) Categories(context.Context) ([]string, error) { return c.categories, c.catErr }
func (c *fakeCatalog) Regions(context.Context) ([]string, error)    { return c.regions, c.regErr }
func (c *fakeCatalog) Health(context.Context) (*model.Health, error) {
	return &model.Health{Status: "healthy"}, nil
}

type fakeStore struct {
	mu      sync.Mutex
	saved   *model.ItineraryResponse
	saves   int
	cleared int
}

func (s *fakeStore) Save(_ context.Context, it *model.ItineraryResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = it
	s.saves++
	return nil
}

func (s *fakeStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = nil
	s.cleared++
	return nil
}

func sampleRequest() model.ItineraryRequest {
	return model.ItineraryRequest{Wilaya: "Algiers", Location: "36.75, 3.06", Activities: []string{"historical"}, Budget: 50000}
}

func TestGenerateSuccessPersists(t *testing.T) {
	gen := &fakeGenerator{resp: &model.ItineraryResponse{Title: "Algiers in 2 days", Days: make([]model.DayPlan, 2)}}
	store := &fakeStore{}
	o := NewOrchestrator(gen, &fakeCatalog{}, store, Options{Logger: zerolog.Nop()})

	it, err := o.Generate(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if it.Title != "Algiers in 2 days" {
		t.Errorf("unexpected itinerary %+v", it)
	}
	if store.saved != it || store.saves != 1 {
		t.Errorf("itinerary not persisted: %+v", store)
	}
	if st := o.State(); st.Phase != PhaseSucceeded || st.Itinerary != it {
		t.Errorf("unexpected state %+v", st)
	}
	if gen.lastReq.MaxAttractions == nil || *gen.lastReq.MaxAttractions != DefaultMaxAttractions {
		t.Errorf("defaults not applied to outgoing request: %+v", gen.lastReq)
	}
}

func TestConcurrentGenerateIsRejected(t *testing.T) {
	gen := &fakeGenerator{
		resp:    &model.ItineraryResponse{Title: "t"},
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	o := NewOrchestrator(gen, &fakeCatalog{}, &fakeStore{}, Options{Logger: zerolog.Nop()})

	done := make(chan error, 1)
	go func() {
		_, err := o.Generate(context.Background(), sampleRequest())
		done <- err
	}()
	<-gen.started

	if o.State().Phase != PhaseGenerating {
		t.Fatalf("Expected generating phase, got %s", o.State().Phase)
	}
	if _, err := o.Generate(context.Background(), sampleRequest()); !errors.Is(err, ErrGenerationInFlight) {
		t.Errorf("Expected ErrGenerationInFlight, got %v", err)
	}
	close(gen.release)
	if err := <-done; err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if n := gen.calls.Load(); n != 1 {
		t.Errorf("Expected exactly 1 service call, got %d", n)
	}
}

func TestGenerateFailureKeepsMessage(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("No attractions found for wilaya")}
	store := &fakeStore{}
	o := NewOrchestrator(gen, &fakeCatalog{}, store, Options{Logger: zerolog.Nop()})

	if _, err := o.Generate(context.Background(), sampleRequest()); err == nil {
		t.Fatalf("expected error")
	}
	st := o.State()
	if st.Phase != PhaseFailed || st.Err != "No attractions found for wilaya" {
		t.Errorf("unexpected state %+v", st)
	}
	if store.saves != 0 {
		t.Errorf("failed generation must not persist")
	}
	o.ClearError()
	if o.State().Phase != PhaseIdle {
		t.Errorf("ClearError should return to idle")
	}

	// a retry clears the stale message as soon as it starts
	gen.err = nil
	gen.resp = &model.ItineraryResponse{Title: "ok"}
	if _, err := o.Generate(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if o.State().Err != "" {
		t.Errorf("stale error survived retry")
	}
}

func TestGenerateTimeout(t *testing.T) {
	gen := &fakeGenerator{release: make(chan struct{})}
	o := NewOrchestrator(gen, &fakeCatalog{}, &fakeStore{}, Options{Timeout: 20 * time.Millisecond, Logger: zerolog.Nop()})

	_, err := o.Generate(context.Background(), sampleRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline error, got %v", err)
	}
	if o.State().Phase != PhaseFailed {
		t.Errorf("timeout should leave the failed phase")
	}
}

func TestCloseDiscardsLateResponse(t *testing.T) {
	gen := &fakeGenerator{
		resp:    &model.ItineraryResponse{Title: "late"},
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	store := &fakeStore{}
	o := NewOrchestrator(gen, &fakeCatalog{}, store, Options{Logger: zerolog.Nop()})

	done := make(chan error, 1)
	go func() {
		_, err := o.Generate(context.Background(), sampleRequest())
		done <- err
	}()
	<-gen.started
	o.Close()
	close(gen.release)

	if err := <-done; !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	if store.saves != 0 {
		t.Errorf("late response must not be persisted")
	}
}

func TestGenerateNewClearsPersistedCopy(t *testing.T) {
	gen := &fakeGenerator{resp: &model.ItineraryResponse{Title: "t"}}
	store := &fakeStore{}
	o := NewOrchestrator(gen, &fakeCatalog{}, store, Options{Logger: zerolog.Nop()})
	if _, err := o.Generate(context.Background(), sampleRequest()); err != nil {
		t.Fatal(err)
	}

	o.ClearItinerary()
	if o.State().Itinerary != nil {
		t.Errorf("ClearItinerary should drop in-memory state")
	}
	if store.saved == nil {
		t.Errorf("ClearItinerary must keep the persisted copy")
	}

	if err := o.GenerateNew(context.Background()); err != nil {
		t.Fatal(err)
	}
	if store.saved != nil || store.cleared != 1 {
		t.Errorf("GenerateNew should clear the store: %+v", store)
	}
}

func TestLoadersAreIndependent(t *testing.T) {
	cat := &fakeCatalog{
		categories: []string{"historical", "nature"},
		regErr:     errors.New("wilayas unavailable"),
	}
	o := NewOrchestrator(&fakeGenerator{}, cat, nil, Options{Logger: zerolog.Nop()})

	if err := o.Bootstrap(context.Background()); err == nil {
		t.Errorf("expected bootstrap to report the regions failure")
	}
	if c := o.Categories(); c.Phase != Loaded || len(c.Value) != 2 {
		t.Errorf("categories should have loaded: %+v", c)
	}
	if r := o.Regions(); r.Phase != LoadFailed || r.Err != "wilayas unavailable" {
		t.Errorf("regions should have failed on their own: %+v", r)
	}
	if o.State().Phase != PhaseIdle {
		t.Errorf("loader failures must not touch the itinerary slot")
	}

	h, err := o.CheckHealth(context.Background())
	if err != nil || h.Status != "healthy" || o.Health().Phase != Loaded {
		t.Errorf("unexpected health %+v %v", h, err)
	}
}
