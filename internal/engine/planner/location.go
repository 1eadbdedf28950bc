package planner

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/rendis/tourplan/internal/model"
)

type LocationKind int

const (
	LocationEmpty LocationKind = iota
	LocationUnknown
	LocationCoordinates
	LocationKnownCity
)

func (k LocationKind) String() string {
	switch k {
	case LocationCoordinates:
		return "coordinates"
	case LocationKnownCity:
		return "known city"
	case LocationUnknown:
		return "unknown"
	default:
		return "empty"
	}
}

// LocationCheck is the advisory classification of the origin text. It never
// blocks a submission; the planning service has the final word.
type LocationCheck struct {
	Kind        LocationKind
	Coordinates *model.LatLon
	City        string
}

func (c LocationCheck) Recognized() bool {
	return c.Kind == LocationCoordinates || c.Kind == LocationKnownCity
}

// Warning is the hint shown next to the location field, empty when the
// location was recognized.
func (c LocationCheck) Warning() string {
	if c.Kind != LocationUnknown {
		return ""
	}
	return "Location not recognized. Use a known city or \"lat, lon\" coordinates."
}

var knownCities = []string{
	"algiers", "alger", "oran", "constantine", "annaba", "tlemcen", "ghardaia",
	"setif", "blida", "batna", "djelfa", "biskra", "tiaret", "skikda", "jijel",
	"mostaganem", "boumerdes", "tipaza", "medea", "bouira", "tizi ouzou", "bejaia",
}

var countrySuffix = regexp.MustCompile(`,?\s*(algeria|dz|wilaya|province)\s*$`)

// ClassifyLocation recognizes "lat, lon" pairs within range and names of
// known cities, optionally followed by a country or region suffix.
func ClassifyLocation(text string) LocationCheck {
	text = strings.TrimSpace(text)
	if text == "" {
		return LocationCheck{Kind: LocationEmpty}
	}

	if p, ok := ParseCoordinates(text); ok {
		return LocationCheck{Kind: LocationCoordinates, Coordinates: &p}
	}

	name := strings.TrimSpace(countrySuffix.ReplaceAllString(strings.ToLower(text), ""))
	if name == "" {
		return LocationCheck{Kind: LocationUnknown}
	}
	for _, city := range knownCities {
		if strings.Contains(city, name) || strings.Contains(name, city) {
			return LocationCheck{Kind: LocationKnownCity, City: city}
		}
	}
	return LocationCheck{Kind: LocationUnknown}
}

// ParseCoordinates parses "lat, lon". Text containing letters is never a
// coordinate pair.
func ParseCoordinates(text string) (model.LatLon, bool) {
	if !strings.Contains(text, ",") || strings.IndexFunc(text, unicode.IsLetter) >= 0 {
		return model.LatLon{}, false
	}
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return model.LatLon{}, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return model.LatLon{}, false
	}
	p := model.LatLon{Lat: lat, Lon: lon}
	return p, p.Valid()
}
