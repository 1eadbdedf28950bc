// Package storage keeps the single-slot handoff between itinerary
// generation and the results view.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rendis/tourplan/internal/model"
	"github.com/rendis/tourplan/internal/observability"
)

// ItinerarySlot is the fixed key the itinerary is stored under.
const ItinerarySlot = "itinerary"

// ErrEmpty is returned when a slot holds nothing.
var ErrEmpty = errors.New("handoff slot is empty")

// Backend stores opaque payloads by slot. Writes replace; the last writer
// wins.
type Backend interface {
	Put(ctx context.Context, slot string, payload []byte) error
	Get(ctx context.Context, slot string) ([]byte, error)
	Delete(ctx context.Context, slot string) error
	Name() string
	Close() error
}

// ItineraryStore encodes itineraries into the handoff slot.
type ItineraryStore struct {
	backend Backend
}

func NewItineraryStore(b Backend) *ItineraryStore {
	return &ItineraryStore{backend: b}
}

func (s *ItineraryStore) Save(ctx context.Context, it *model.ItineraryResponse) error {
	data, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("encoding itinerary: %w", err)
	}
	if err := s.backend.Put(ctx, ItinerarySlot, data); err != nil {
		return fmt.Errorf("saving itinerary: %w", err)
	}
	observability.ObserveHandoff(s.backend.Name(), "save")
	return nil
}

// Load returns the persisted itinerary or ErrEmpty.
func (s *ItineraryStore) Load(ctx context.Context) (*model.ItineraryResponse, error) {
	data, err := s.backend.Get(ctx, ItinerarySlot)
	if errors.Is(err, ErrEmpty) {
		observability.ObserveHandoff(s.backend.Name(), "miss")
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("loading itinerary: %w", err)
	}
	var it model.ItineraryResponse
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, fmt.Errorf("decoding itinerary: %w", err)
	}
	observability.ObserveHandoff(s.backend.Name(), "load")
	return &it, nil
}

func (s *ItineraryStore) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, ItinerarySlot); err != nil {
		return fmt.Errorf("clearing itinerary: %w", err)
	}
	observability.ObserveHandoff(s.backend.Name(), "clear")
	return nil
}

func (s *ItineraryStore) Close() error {
	return s.backend.Close()
}
