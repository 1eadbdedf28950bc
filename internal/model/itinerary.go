package model

import "strings"

// PlaceholderHotel is the name the planning service uses when it could not
// find lodging for a day.
const PlaceholderHotel = "No hotel found"

// ItineraryRequest is the body sent to the planning service.
type ItineraryRequest struct {
	Wilaya         string   `json:"wilaya"`
	Location       string   `json:"location"`
	Activities     []string `json:"activities"`
	Budget         float64  `json:"budget"`
	MinHotelStars  *int     `json:"minHotelStars,omitempty"`
	MaxHotelStars  *int     `json:"maxHotelStars,omitempty"`
	MaxAttractions *int     `json:"maxAttractions,omitempty"`
	MaxTravelHours *float64 `json:"maxTravelHours,omitempty"`
	HasCar         bool     `json:"hasCar"`
}

// ItineraryResponse is a complete multi-day plan.
type ItineraryResponse struct {
	Success         bool      `json:"success"`
	Title           string    `json:"title"`
	Summary         string    `json:"summary"`
	TotalBudget     float64   `json:"totalBudget"`
	TotalTime       float64   `json:"totalTime"`
	HotelCost       float64   `json:"hotelCost"`
	RemainingBudget float64   `json:"remainingBudget"`
	Satisfaction    float64   `json:"satisfaction"`
	Days            []DayPlan `json:"days"`
}

type DayPlan struct {
	Day           int            `json:"day"`
	Title         string         `json:"title"`
	Location      string         `json:"location"`
	Coordinates   *LatLon        `json:"coordinates,omitempty"`
	TotalCost     float64        `json:"totalCost"`
	TotalTime     float64        `json:"totalTime"`
	Activities    []Activity     `json:"activities"`
	Accommodation *Accommodation `json:"accommodation,omitempty"`
}

// Lodging returns the day's accommodation unless it is missing or the
// service's placeholder.
func (d DayPlan) Lodging() (*Accommodation, bool) {
	if d.Accommodation == nil || d.Accommodation.IsPlaceholder() {
		return nil, false
	}
	return d.Accommodation, true
}

type Activity struct {
	Time        string  `json:"time"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Cost        string  `json:"cost"`
	Duration    string  `json:"duration"`
	Rating      float64 `json:"rating"`
	Coordinates *LatLon `json:"coordinates,omitempty"`
}

// Located reports whether the activity can be placed on a map.
func (a Activity) Located() bool {
	return a.Coordinates != nil && a.Coordinates.Valid()
}

type Accommodation struct {
	Name      string   `json:"name"`
	City      string   `json:"city"`
	Rating    float64  `json:"rating"`
	Price     float64  `json:"price"`
	Type      string   `json:"type"`
	Amenities []string `json:"amenities"`
}

func (a Accommodation) IsPlaceholder() bool {
	return strings.TrimSpace(a.Name) == PlaceholderHotel
}
