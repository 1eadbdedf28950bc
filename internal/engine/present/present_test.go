package present_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rendis/tourplan/internal/engine/api"
	"github.com/rendis/tourplan/internal/engine/fakeapi"
	"github.com/rendis/tourplan/internal/engine/geo"
	"github.com/rendis/tourplan/internal/engine/planner"
	"github.com/rendis/tourplan/internal/engine/present"
	"github.com/rendis/tourplan/internal/engine/storage"
	"github.com/rendis/tourplan/internal/model"
)

func newStore(t *testing.T) *storage.ItineraryStore {
	t.Helper()
	db, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "handoff.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	store := storage.NewItineraryStore(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGenerateThenPresent(t *testing.T) {
	fake := fakeapi.New(fakeapi.DefaultFixtures(), zerolog.Nop())
	srv := httptest.NewServer(fake.Handler())
	defer srv.Close()

	client := api.NewClient(srv.URL, api.Options{RPS: 1000, Logger: zerolog.Nop()})
	store := newStore(t)
	orch := planner.NewOrchestrator(client, client, store, planner.Options{Logger: zerolog.Nop()})

	draft, err := planner.Build(planner.Form{
		Location:       "Algiers",
		Budget:         "60000",
		Activities:     []string{"historical", "religious", "museum", "nature"},
		MaxAttractions: "3",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ctx := context.Background()
	if _, err := orch.Generate(ctx, draft.Request); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	it, err := present.Load(ctx, store, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sum, cards := present.Cards(it)
	if len(cards) != 2 {
		t.Fatalf("Expected 2 day cards, got %d", len(cards))
	}
	if len(cards[0].Activities) != 3 || len(cards[1].Activities) != 2 {
		t.Errorf("unexpected activity split %d/%d", len(cards[0].Activities), len(cards[1].Activities))
	}
	if cards[0].Stay == "" || !strings.HasPrefix(cards[0].Heading, "Day 1: ") {
		t.Errorf("unexpected first card %+v", cards[0])
	}
	if sum.Title == "" || len(sum.Stats) != 5 {
		t.Errorf("unexpected summary %+v", sum)
	}

	scene, err := geo.Build(it)
	if err != nil {
		t.Fatalf("geo.Build: %v", err)
	}
	if len(scene.Routes) != 2 {
		t.Errorf("Expected a route per day, got %d", len(scene.Routes))
	}

	if err := orch.GenerateNew(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := present.Load(ctx, store, 0); !errors.Is(err, present.ErrNoItinerary) {
		t.Errorf("Expected ErrNoItinerary after GenerateNew, got %v", err)
	}
}

type staticSource struct {
	it  *model.ItineraryResponse
	err error
}

func (s staticSource) Load(context.Context) (*model.ItineraryResponse, error) { return s.it, s.err }

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := present.Load(ctx, staticSource{err: storage.ErrEmpty}, 0); !errors.Is(err, present.ErrNoItinerary) {
		t.Errorf("empty slot: got %v", err)
	}
	if _, err := present.Load(ctx, staticSource{it: &model.ItineraryResponse{}}, 0); !errors.Is(err, present.ErrNoItinerary) {
		t.Errorf("itinerary without days: got %v", err)
	}
	boom := errors.New("disk gone")
	if _, err := present.Load(ctx, staticSource{err: boom}, 0); !errors.Is(err, boom) {
		t.Errorf("backend failure: got %v", err)
	}
}

func TestCardsHidePlaceholderHotel(t *testing.T) {
	it := &model.ItineraryResponse{Days: []model.DayPlan{{
		Day: 1, Title: "Desert", Location: "Ghardaia",
		Accommodation: &model.Accommodation{Name: model.PlaceholderHotel},
	}}}
	_, cards := present.Cards(it)
	if cards[0].Stay != "" {
		t.Errorf("placeholder hotel should not be shown, got %q", cards[0].Stay)
	}
}

type cannedGenerator struct{ it *model.ItineraryResponse }

func (g cannedGenerator) GenerateItinerary(context.Context, model.ItineraryRequest) (*model.ItineraryResponse, error) {
	return g.it, nil
}

func TestCoordinateRequestToMap(t *testing.T) {
	draft, err := planner.Build(planner.Form{
		Location:   "36.7538, 3.0588",
		Budget:     "400000",
		Activities: []string{"Nature", "History"},
	})
	if err != nil {
		t.Fatalf("Expected zero validation errors, got %v", err)
	}
	if draft.Location.Kind != planner.LocationCoordinates {
		t.Errorf("Expected coordinates, got %v", draft.Location.Kind)
	}

	pt := func(lat, lon float64) *model.LatLon { return &model.LatLon{Lat: lat, Lon: lon} }
	canned := &model.ItineraryResponse{
		Title: "Two days around Algiers",
		Days: []model.DayPlan{
			{Day: 1, Title: "Coast", Activities: []model.Activity{
				{Title: "Jardin d'Essai", Coordinates: pt(36.748, 3.074)},
				{Title: "Notre-Dame d'Afrique", Coordinates: pt(36.801, 3.044)},
			}},
			{Day: 2, Title: "Tipaza", Activities: []model.Activity{
				{Title: "Tipaza ruins", Coordinates: pt(36.595, 2.443)},
			}},
		},
	}

	store := newStore(t)
	orch := planner.NewOrchestrator(cannedGenerator{canned}, nil, store, planner.Options{Logger: zerolog.Nop()})
	ctx := context.Background()
	if _, err := orch.Generate(ctx, draft.Request); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	it, err := present.Load(ctx, store, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, cards := present.Cards(it); len(cards) != 2 {
		t.Errorf("Expected 2 day cards, got %d", len(cards))
	}

	scene, err := geo.Build(it)
	if err != nil {
		t.Fatalf("geo.Build: %v", err)
	}
	wantLat := (36.748 + 36.801 + 36.595) / 3
	wantLon := (3.074 + 3.044 + 2.443) / 3
	if d := scene.Center.Lat - wantLat; d > 1e-9 || d < -1e-9 {
		t.Errorf("center lat = %v, want %v", scene.Center.Lat, wantLat)
	}
	if d := scene.Center.Lon - wantLon; d > 1e-9 || d < -1e-9 {
		t.Errorf("center lon = %v, want %v", scene.Center.Lon, wantLon)
	}
}
