// Package catalog fetches attractions and hotels and prepares them for the
// browse views: surrogate ids, parsed costs and resolved images.
package catalog

import (
	"context"
	"fmt"
	"math"

	"github.com/rendis/tourplan/internal/engine/api"
	"github.com/rendis/tourplan/internal/engine/assets"
	"github.com/rendis/tourplan/internal/model"
)

// Source is the subset of the API client the catalog needs.
type Source interface {
	Attractions(ctx context.Context, q api.AttractionQuery) ([]model.Attraction, error)
	Hotels(ctx context.Context, q api.HotelQuery) ([]model.Hotel, error)
}

type Query struct {
	src    Source
	assets *assets.Table
}

func NewQuery(src Source, table *assets.Table) *Query {
	if table == nil {
		table = assets.Default()
	}
	return &Query{src: src, assets: table}
}

func (q *Query) Attractions(ctx context.Context, filter api.AttractionQuery) ([]model.Attraction, error) {
	items, err := q.src.Attractions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetching attractions: %w", err)
	}
	for i := range items {
		a := &items[i]
		a.ID = model.SurrogateID(a.Name, a.City, a.Category)
		a.CostValue = model.ParseCost(a.Cost)
		a.ImageRef = q.assets.Attraction(a.Name)
	}
	return items, nil
}

func (q *Query) Hotels(ctx context.Context, filter api.HotelQuery) ([]model.Hotel, error) {
	items, err := q.src.Hotels(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetching hotels: %w", err)
	}
	for i := range items {
		h := &items[i]
		if h.ID == "" {
			h.ID = model.SurrogateID(h.Name, h.City)
		}
		// nightly prices are whole dinars
		h.Price = math.Round(h.Price)
		h.ImageRef = q.assets.Hotel(*h)
	}
	return items, nil
}
