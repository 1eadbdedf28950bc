package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// LatLon is a geographic position. On the wire it is the two-element
// array [lat, lon] the planning service uses everywhere.
type LatLon struct {
	Lat float64
	Lon float64
}

func (p LatLon) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lon) &&
		p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Point converts to orb's [lng, lat] ordering.
func (p LatLon) Point() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// FromPoint is the inverse of Point.
func FromPoint(pt orb.Point) LatLon {
	return LatLon{Lat: pt.Lat(), Lon: pt.Lon()}
}

func (p LatLon) String() string {
	return fmt.Sprintf("%.6f, %.6f", p.Lat, p.Lon)
}

func (p LatLon) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lat, p.Lon})
}

func (p *LatLon) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decoding coordinates: %w", err)
	}
	if len(pair) < 2 {
		return fmt.Errorf("decoding coordinates: want [lat, lon], got %d values", len(pair))
	}
	p.Lat, p.Lon = pair[0], pair[1]
	return nil
}

// Attraction is a point of interest from the catalog service.
type Attraction struct {
	ID              string   `json:"-"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	City            string   `json:"city"`
	GPS             LatLon   `json:"gps"`
	Description     string   `json:"description"`
	Rating          float64  `json:"rating"`
	Cost            string   `json:"cost"`
	VisitDuration   string   `json:"visit_duration"`
	NearbyAmenities []string `json:"nearby_amenities"`
	Image           string   `json:"image"`

	// Derived at the catalog boundary.
	CostValue float64 `json:"-"`
	ImageRef  string  `json:"-"`
}

// Hotel is a lodging option from the catalog service.
type Hotel struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"hotel"`
	City      string   `json:"city"`
	AvgReview float64  `json:"avg_review"`
	Price     float64  `json:"price"`
	Stars     *int     `json:"stars,omitempty"`
	Type      string   `json:"type,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
	Image     string   `json:"image,omitempty"`

	ImageRef string `json:"-"`
}

// Health is the catalog service health report.
type Health struct {
	Status            string `json:"status"`
	Timestamp         string `json:"timestamp"`
	AttractionsLoaded int    `json:"attractions_loaded"`
	HotelsLoaded      int    `json:"hotels_loaded"`
	Version           string `json:"version"`
}

var entityNamespace = uuid.MustParse("6f1f7a4e-5b0d-4c41-9a53-2f4a3b9e1c07")

// SurrogateID derives a stable identifier from the given natural key parts.
// The catalog service does not always send ids; name plus city (plus
// category for attractions) is unique enough within one catalog.
func SurrogateID(parts ...string) string {
	key := make([]string, len(parts))
	for i, p := range parts {
		key[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return uuid.NewSHA1(entityNamespace, []byte(strings.Join(key, "|"))).String()
}

// ParseCost extracts a numeric amount from the service's free-form cost text
// ("Free", "500 DZD", "1,200"). Anything unparseable counts as zero.
// Commas and spaces group thousands only when exactly three digits follow,
// so "500 1000" reads as 500.
func ParseCost(s string) float64 {
	rs := []rune(s)
	var b strings.Builder
	seenDigit := false
scan:
	for i, r := range rs {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			seenDigit = true
		case r == '.' && seenDigit:
			b.WriteRune(r)
		case seenDigit && isGroupSeparator(r) && leadingDigits(rs[i+1:]) == 3:
		case seenDigit:
			break scan
		}
	}
	if !seenDigit {
		return 0
	}
	v, _ := strconv.ParseFloat(b.String(), 64)
	return v
}

func isGroupSeparator(r rune) bool {
	return r == ',' || r == ' ' || r == '\u00a0' || r == '\u202f'
}

func leadingDigits(rs []rune) int {
	n := 0
	for n < len(rs) && rs[n] >= '0' && rs[n] <= '9' {
		n++
	}
	return n
}
