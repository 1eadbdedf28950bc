package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rendis/tourplan/internal/engine/api"
	"github.com/rendis/tourplan/internal/engine/fakeapi"
	"github.com/rendis/tourplan/internal/model"
)

func newFake(t *testing.T) (*fakeapi.Server, *api.Client) {
	t.Helper()
	fake := fakeapi.New(fakeapi.DefaultFixtures(), zerolog.Nop())
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return fake, api.NewClient(srv.URL, api.Options{RPS: 1000, Logger: zerolog.Nop()})
}

func TestCatalogEndpoints(t *testing.T) {
	_, c := newFake(t)
	ctx := context.Background()

	h, err := c.Health(ctx)
	if err != nil || h.Status != "healthy" || h.AttractionsLoaded == 0 {
		t.Fatalf("health: %+v %v", h, err)
	}

	atts, err := c.Attractions(ctx, api.AttractionQuery{Wilaya: "Oran"})
	if err != nil {
		t.Fatalf("attractions: %v", err)
	}
	if len(atts) != 4 {
		t.Errorf("Expected 4 attractions in Oran, got %d", len(atts))
	}
	for _, a := range atts {
		if a.City != "Oran" || !a.GPS.Valid() {
			t.Errorf("unexpected attraction %+v", a)
		}
	}

	limited, _ := c.Attractions(ctx, api.AttractionQuery{Category: "historical", Limit: 2})
	if len(limited) != 2 {
		t.Errorf("Expected limit to apply, got %d", len(limited))
	}

	hotels, err := c.Hotels(ctx, api.HotelQuery{MinStars: 4})
	if err != nil {
		t.Fatalf("hotels: %v", err)
	}
	for _, h := range hotels {
		if h.AvgReview < 4 {
			t.Errorf("hotel %s below min stars", h.Name)
		}
	}

	cats, err := c.Categories(ctx)
	if err != nil || len(cats) == 0 {
		t.Fatalf("categories: %v %v", cats, err)
	}
	regions, err := c.Regions(ctx)
	if err != nil || len(regions) != 5 {
		t.Errorf("Expected 5 regions, got %v %v", regions, err)
	}
}

func TestGenerateItinerary(t *testing.T) {
	_, c := newFake(t)
	req := model.ItineraryRequest{
		Wilaya:     "Algiers",
		Location:   "36.75, 3.06",
		Activities: []string{"historical", "nature"},
		Budget:     100000,
	}
	it, err := c.GenerateItinerary(context.Background(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(it.Days) == 0 || it.Days[0].Activities[0].Coordinates == nil {
		t.Fatalf("unexpected itinerary %+v", it)
	}
	if it.Days[0].Accommodation == nil || it.Days[0].Accommodation.Name != "El Aurassi" {
		t.Errorf("Expected El Aurassi, got %+v", it.Days[0].Accommodation)
	}
}

func TestServiceErrorMessage(t *testing.T) {
	_, c := newFake(t)
	_, err := c.GenerateItinerary(context.Background(), model.ItineraryRequest{Wilaya: "Algiers"})
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T %v", err, err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "Missing required fields: location, activities, budget" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestStatusFallbackMessage(t *testing.T) {
	fake, c := newFake(t)
	fake.Fail("/api/categories", http.StatusBadGateway, "")
	_, err := c.Categories(context.Background())
	if err == nil || err.Error() != "HTTP error! status: 502" {
		t.Errorf("Expected status fallback message, got %v", err)
	}
}

func TestSuccessFalseOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error":"Failed to fetch wilayas"}`))
	}))
	defer srv.Close()
	c := api.NewClient(srv.URL, api.Options{Logger: zerolog.Nop()})

	_, err := c.Regions(context.Background())
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Failed to fetch wilayas" {
		t.Errorf("Expected envelope error, got %v", err)
	}
}

func TestMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()
	c := api.NewClient(srv.URL, api.Options{Logger: zerolog.Nop()})

	if _, err := c.Health(context.Background()); !errors.Is(err, api.ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
}

func TestNoAutomaticRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	c := api.NewClient(srv.URL, api.Options{Logger: zerolog.Nop()})

	if _, err := c.Categories(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if hits.Load() != 1 {
		t.Errorf("Expected exactly one attempt, got %d", hits.Load())
	}
}

func TestContextDeadline(t *testing.T) {
	fake, c := newFake(t)
	fake.SetDelay(200 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Health(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}
