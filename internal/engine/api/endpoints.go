package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rendis/tourplan/internal/model"
)

// AttractionQuery narrows the attractions request server-side. Zero values
// are omitted.
type AttractionQuery struct {
	Wilaya   string
	Category string
	Limit    int
}

func (q AttractionQuery) values() url.Values {
	v := url.Values{}
	if q.Wilaya != "" {
		v.Set("wilaya", q.Wilaya)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

type HotelQuery struct {
	Wilaya   string
	Limit    int
	MinStars int
	MaxStars int
}

func (q HotelQuery) values() url.Values {
	v := url.Values{}
	if q.Wilaya != "" {
		v.Set("wilaya", q.Wilaya)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.MinStars > 0 {
		v.Set("min_stars", strconv.Itoa(q.MinStars))
	}
	if q.MaxStars > 0 {
		v.Set("max_stars", strconv.Itoa(q.MaxStars))
	}
	return v
}

type attractionsEnvelope struct {
	Count       int                `json:"count"`
	Attractions []model.Attraction `json:"attractions"`
}

type hotelsEnvelope struct {
	Count  int           `json:"count"`
	Hotels []model.Hotel `json:"hotels"`
}

type categoriesEnvelope struct {
	Categories []string `json:"categories"`
}

type wilayasEnvelope struct {
	Wilayas []string `json:"wilayas"`
}

type itineraryEnvelope struct {
	Data *model.ItineraryResponse `json:"data"`
}

func (c *Client) Health(ctx context.Context) (*model.Health, error) {
	var h model.Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) Attractions(ctx context.Context, q AttractionQuery) ([]model.Attraction, error) {
	var env attractionsEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/attractions", q.values(), nil, &env); err != nil {
		return nil, err
	}
	return env.Attractions, nil
}

func (c *Client) Hotels(ctx context.Context, q HotelQuery) ([]model.Hotel, error) {
	var env hotelsEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/hotels", q.values(), nil, &env); err != nil {
		return nil, err
	}
	return env.Hotels, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var env categoriesEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Categories, nil
}

// Regions lists the wilayas the service has data for.
func (c *Client) Regions(ctx context.Context) ([]string, error) {
	var env wilayasEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/wilayas", nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Wilayas, nil
}

func (c *Client) GenerateItinerary(ctx context.Context, req model.ItineraryRequest) (*model.ItineraryResponse, error) {
	var env itineraryEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/itinerary/generate", nil, req, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, &APIError{Status: http.StatusOK, Message: "planning service returned no itinerary"}
	}
	if !env.Data.Success && len(env.Data.Days) == 0 {
		return nil, &APIError{Status: http.StatusOK, Message: "planning service could not build an itinerary"}
	}
	return env.Data, nil
}
