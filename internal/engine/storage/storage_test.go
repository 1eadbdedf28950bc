package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rendis/tourplan/internal/engine/storage"
	"github.com/rendis/tourplan/internal/model"
)

func backends(t *testing.T) map[string]storage.Backend {
	t.Helper()

	sq, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "sub", "handoff.db"))
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return map[string]storage.Backend{
		"sqlite": sq,
		"redis":  storage.NewRedisStore(rdb, 0),
	}
}

func TestItineraryRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := storage.NewItineraryStore(b)
			defer s.Close()

			if _, err := s.Load(ctx); !errors.Is(err, storage.ErrEmpty) {
				t.Fatalf("Expected ErrEmpty on a fresh store, got %v", err)
			}

			first := &model.ItineraryResponse{Title: "first", Days: []model.DayPlan{{Day: 1,
				Activities: []model.Activity{{Title: "Casbah", Coordinates: &model.LatLon{Lat: 36.78, Lon: 3.06}}},
			}}}
			if err := s.Save(ctx, first); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := s.Save(ctx, &model.ItineraryResponse{Title: "second"}); err != nil {
				t.Fatalf("save: %v", err)
			}

			got, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got.Title != "second" {
				t.Errorf("last writer should win, got %q", got.Title)
			}

			if err := s.Save(ctx, first); err != nil {
				t.Fatal(err)
			}
			got, _ = s.Load(ctx)
			if got.Days[0].Activities[0].Coordinates.Lat != 36.78 {
				t.Errorf("coordinates lost in round trip: %+v", got.Days[0])
			}

			if err := s.Clear(ctx); err != nil {
				t.Fatalf("clear: %v", err)
			}
			if _, err := s.Load(ctx); !errors.Is(err, storage.ErrEmpty) {
				t.Errorf("Expected ErrEmpty after clear, got %v", err)
			}
		})
	}
}

func TestRedisTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := storage.NewRedisStore(rdb, 0)
	defer s.Close()

	st, err := storage.DialRedis(context.Background(), mr.Addr(), time.Minute)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer st.Close()
	if err := st.Put(context.Background(), "itinerary", []byte("{}")); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(61 * time.Second)
	if _, err := s.Get(context.Background(), "itinerary"); !errors.Is(err, storage.ErrEmpty) {
		t.Errorf("Expected slot to expire, got %v", err)
	}
}
