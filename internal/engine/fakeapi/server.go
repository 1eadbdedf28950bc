// Package fakeapi serves the catalog and planning endpoints from fixture
// data. It backs the client tests and `tourplan fake-api` for offline demos.
package fakeapi

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rendis/tourplan/internal/engine/collection"
	"github.com/rendis/tourplan/internal/model"
)

//go:embed fixtures.json
var fixturesJSON []byte

// Fixtures is the data set the server answers from.
type Fixtures struct {
	Attractions []model.Attraction `json:"attractions"`
	Hotels      []model.Hotel      `json:"hotels"`
}

// DefaultFixtures returns the embedded Algerian sample catalog.
func DefaultFixtures() Fixtures {
	var f Fixtures
	if err := json.Unmarshal(fixturesJSON, &f); err != nil {
		panic(fmt.Sprintf("embedded fixtures: %v", err))
	}
	return f
}

type failure struct {
	status  int
	message string
}

type Server struct {
	data Fixtures
	mux  *chi.Mux
	log  zerolog.Logger

	mu       sync.Mutex
	delay    time.Duration
	failures map[string]failure
	hits     map[string]int
}

func New(data Fixtures, log zerolog.Logger) *Server {
	s := &Server{
		data:     data,
		log:      log,
		failures: make(map[string]failure),
		hits:     make(map[string]int),
	}

	m := chi.NewRouter()
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(s.logRequests)
	m.Use(s.inject)

	m.Get("/api/health", s.health)
	m.Get("/health", s.health)
	m.Get("/api/attractions", s.attractions)
	m.Get("/api/hotels", s.hotels)
	m.Get("/api/categories", s.categories)
	m.Get("/api/wilayas", s.wilayas)
	m.Post("/api/itinerary/generate", s.generate)
	m.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Endpoint not found"})
	})

	s.mux = m
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

// SetDelay makes every response wait d first.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Fail makes path answer with status and an error envelope until cleared
// with a zero status.
func (s *Server) Fail(path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, path)
		return
	}
	s.failures[path] = failure{status: status, message: message}
}

// Hits reports how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		delay := s.delay
		f, failing := s.failures[r.URL.Path]
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			body := map[string]any{"success": false}
			if f.message != "" {
				body["error"] = f.message
			}
			writeJSON(w, f.status, body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http_request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.Health{
		Status:            "healthy",
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		AttractionsLoaded: len(s.data.Attractions),
		HotelsLoaded:      len(s.data.Hotels),
		Version:           "1.0.0",
	})
}

func matchesRegion(city, wilaya string) bool {
	return wilaya == "" || strings.EqualFold(city, wilaya)
}

func (s *Server) attractions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out := make([]model.Attraction, 0, len(s.data.Attractions))
	for _, a := range s.data.Attractions {
		if !matchesRegion(a.City, q.Get("wilaya")) {
			continue
		}
		if c := q.Get("category"); c != "" && !strings.EqualFold(a.Category, c) {
			continue
		}
		out = append(out, a)
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 && n < len(out) {
		out = out[:n]
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "attractions": out, "count": len(out)})
}

func (s *Server) hotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minStars, minErr := strconv.Atoi(q.Get("min_stars"))
	maxStars, maxErr := strconv.Atoi(q.Get("max_stars"))
	out := make([]model.Hotel, 0, len(s.data.Hotels))
	for _, h := range s.data.Hotels {
		if !matchesRegion(h.City, q.Get("wilaya")) {
			continue
		}
		if minErr == nil && h.AvgReview < float64(minStars) {
			continue
		}
		if maxErr == nil && h.AvgReview > float64(maxStars) {
			continue
		}
		out = append(out, h)
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 && n < len(out) {
		out = out[:n]
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "hotels": out, "count": len(out)})
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	cats := collection.Distinct(s.data.Attractions, func(a model.Attraction) string { return a.Category })
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "categories": cats})
}

func (s *Server) wilayas(w http.ResponseWriter, r *http.Request) {
	cities := collection.Distinct(s.data.Attractions, func(a model.Attraction) string { return a.City })
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "wilayas": cities})
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req model.ItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "No JSON data provided"})
		return
	}

	var missing []string
	if req.Wilaya == "" {
		missing = append(missing, "wilaya")
	}
	if req.Location == "" {
		missing = append(missing, "location")
	}
	if len(req.Activities) == 0 {
		missing = append(missing, "activities")
	}
	if req.Budget <= 0 {
		missing = append(missing, "budget")
	}
	if len(missing) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Missing required fields: " + strings.Join(missing, ", "),
		})
		return
	}

	it, err := plan(s.data, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": it})
}
