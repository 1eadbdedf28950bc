package planner

import (
	"math"
	"strconv"
	"strings"

	"github.com/rendis/tourplan/internal/model"
)

// Form field names used in FieldError.
const (
	FieldLocation       = "location"
	FieldBudget         = "budget"
	FieldActivities     = "activities"
	FieldHotelStars     = "hotelStars"
	FieldMaxAttractions = "maxAttractions"
	FieldMaxTravelHours = "maxTravelHours"
)

// Defaults the planning service assumes for omitted options.
const (
	DefaultMinHotelStars  = 3
	DefaultMaxHotelStars  = 5
	DefaultMaxAttractions = 3
	DefaultMaxTravelHours = 8.0
)

// Form is the raw user input. Numeric fields are kept as typed text so
// validation can report unparseable values.
type Form struct {
	Location       string
	Region         string
	Budget         string
	Activities     []string
	MinHotelStars  string
	MaxHotelStars  string
	MaxAttractions string
	MaxTravelHours string
	HasCar         bool
}

// Draft is a validated request plus the advisory location check.
type Draft struct {
	Request  model.ItineraryRequest
	Location LocationCheck
}

// Build validates the form and returns every problem at once as
// ValidationErrors. The location check is advisory and never fails a build.
func Build(f Form) (Draft, error) {
	var errs ValidationErrors
	req := model.ItineraryRequest{HasCar: f.HasCar}

	location := strings.TrimSpace(f.Location)
	if location == "" {
		errs.add(FieldLocation, "Current Location is required")
	}
	req.Location = location
	req.Wilaya = strings.TrimSpace(f.Region)
	if req.Wilaya == "" {
		req.Wilaya = location
	}

	budget := strings.TrimSpace(f.Budget)
	if budget == "" {
		errs.add(FieldBudget, "Budget is required")
	} else if v, ok := parseFinite(budget); !ok || v <= 0 {
		errs.add(FieldBudget, "Please enter a valid budget amount")
	} else {
		req.Budget = v
	}

	for _, a := range f.Activities {
		if a = strings.TrimSpace(a); a != "" {
			req.Activities = append(req.Activities, a)
		}
	}
	if len(req.Activities) == 0 {
		errs.add(FieldActivities, "At least one preferred activity is required")
	}

	minStars, minOK := optionalInt(f.MinHotelStars, 1, 5)
	maxStars, maxOK := optionalInt(f.MaxHotelStars, 1, 5)
	switch {
	case !minOK || !maxOK:
		errs.add(FieldHotelStars, "Hotel stars must be between 1 and 5")
	case minStars != nil && maxStars != nil && *minStars > *maxStars:
		errs.add(FieldHotelStars, "Minimum hotel stars cannot be greater than maximum stars")
	default:
		req.MinHotelStars, req.MaxHotelStars = minStars, maxStars
	}

	if n, ok := optionalInt(f.MaxAttractions, 1, 10); !ok {
		errs.add(FieldMaxAttractions, "Max attractions per day must be between 1 and 10")
	} else {
		req.MaxAttractions = n
	}

	if h, ok := optionalFloat(f.MaxTravelHours, 1, 24); !ok {
		errs.add(FieldMaxTravelHours, "Max travel hours per day must be between 1 and 24")
	} else {
		req.MaxTravelHours = h
	}

	if len(errs) > 0 {
		return Draft{}, errs
	}
	return Draft{Request: req, Location: ClassifyLocation(location)}, nil
}

// WithDefaults fills unset optional fields with the service defaults.
func WithDefaults(req model.ItineraryRequest) model.ItineraryRequest {
	if req.MinHotelStars == nil {
		v := DefaultMinHotelStars
		req.MinHotelStars = &v
	}
	if req.MaxHotelStars == nil {
		v := DefaultMaxHotelStars
		req.MaxHotelStars = &v
	}
	if req.MaxAttractions == nil {
		v := DefaultMaxAttractions
		req.MaxAttractions = &v
	}
	if req.MaxTravelHours == nil {
		v := DefaultMaxTravelHours
		req.MaxTravelHours = &v
	}
	return req
}

// optionalInt parses an optional integer field. A blank field is valid and
// yields nil; ok is false for garbage or out-of-range values.
func optionalInt(s string, lo, hi int) (*int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < lo || v > hi {
		return nil, false
	}
	return &v, true
}

func optionalFloat(s string, lo, hi float64) (*float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	v, ok := parseFinite(s)
	if !ok || v < lo || v > hi {
		return nil, false
	}
	return &v, true
}

// parseFinite rejects the NaN and Inf spellings ParseFloat accepts; they
// pass range checks and cannot be encoded as JSON.
func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
