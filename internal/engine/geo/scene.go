// Package geo turns an itinerary into a drawable map scene: markers,
// per-day routes and a center point.
package geo

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/rendis/tourplan/internal/model"
)

var ErrNoMapData = errors.New("no map data available")

// RoutePalette is cycled through by day.
var RoutePalette = []string{"#1e6f9f", "#059669", "#dc2626", "#7c3aed"}

// DashedFromDay is the first day whose route is drawn dashed.
const DashedFromDay = 4

// MaxPopupAmenities caps the amenities listed in a hotel popup.
const MaxPopupAmenities = 3

type MarkerKind int

const (
	MarkerAttraction MarkerKind = iota
	MarkerHotel
)

func (k MarkerKind) String() string {
	if k == MarkerHotel {
		return "hotel"
	}
	return "attraction"
}

// Marker points back at the activity or accommodation it was derived from.
type Marker struct {
	ID            string
	Position      model.LatLon
	Kind          MarkerKind
	Day           int
	Activity      *model.Activity
	Accommodation *model.Accommodation
}

type Route struct {
	Day      int
	Path     orb.LineString
	Color    string
	Dashed   bool
	LengthKm float64
}

type Scene struct {
	Center  model.LatLon
	Markers []Marker
	Routes  []Route
}

// Build derives the scene of an itinerary. It fails with ErrNoMapData when
// no activity carries coordinates.
//
// Hotels have no coordinates of their own, so a day's hotel marker is placed
// at that day's last activity. It is an approximation of where the traveler
// ends the day, not the hotel's real position.
func Build(it *model.ItineraryResponse) (Scene, error) {
	if it == nil {
		return Scene{}, ErrNoMapData
	}

	var (
		scene       Scene
		attractions orb.MultiPoint
	)
	for i := range it.Days {
		day := &it.Days[i]
		dayNum := day.Day
		if dayNum <= 0 {
			dayNum = i + 1
		}

		var path orb.LineString
		for j := range day.Activities {
			act := &day.Activities[j]
			if !act.Located() {
				continue
			}
			pos := *act.Coordinates
			scene.Markers = append(scene.Markers, Marker{
				ID:       fmt.Sprintf("d%d-a%d", dayNum, j),
				Position: pos,
				Kind:     MarkerAttraction,
				Day:      dayNum,
				Activity: act,
			})
			attractions = append(attractions, pos.Point())
			path = append(path, pos.Point())
		}

		if acc, ok := day.Lodging(); ok && len(path) > 0 {
			scene.Markers = append(scene.Markers, Marker{
				ID:            fmt.Sprintf("d%d-hotel", dayNum),
				Position:      model.FromPoint(path[len(path)-1]),
				Kind:          MarkerHotel,
				Day:           dayNum,
				Accommodation: acc,
			})
		}

		if len(path) >= 2 {
			scene.Routes = append(scene.Routes, Route{
				Day:      dayNum,
				Path:     path,
				Color:    RoutePalette[i%len(RoutePalette)],
				Dashed:   i+1 >= DashedFromDay,
				LengthKm: geo.LengthHaversine(path) / 1000,
			})
		}
	}

	if len(attractions) == 0 {
		return Scene{}, ErrNoMapData
	}
	center, _ := planar.CentroidArea(attractions)
	scene.Center = model.FromPoint(center)
	return scene, nil
}

// Bound covers every marker, for fitting the viewport.
func (s Scene) Bound() orb.Bound {
	mp := make(orb.MultiPoint, 0, len(s.Markers))
	for _, m := range s.Markers {
		mp = append(mp, m.Position.Point())
	}
	return mp.Bound()
}

// TotalKm sums the length of every route.
func (s Scene) TotalKm() float64 {
	var km float64
	for _, r := range s.Routes {
		km += r.LengthKm
	}
	return km
}

// FeatureCollection exports markers as points and routes as line strings.
func (s Scene) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range s.Markers {
		f := geojson.NewFeature(m.Position.Point())
		f.ID = m.ID
		f.Properties["kind"] = m.Kind.String()
		f.Properties["day"] = m.Day
		p := m.Popup()
		f.Properties["title"] = p.Title
		if p.Subtitle != "" {
			f.Properties["subtitle"] = p.Subtitle
		}
		fc.Append(f)
	}
	for _, r := range s.Routes {
		f := geojson.NewFeature(r.Path)
		f.ID = "route-day-" + strconv.Itoa(r.Day)
		f.Properties["kind"] = "route"
		f.Properties["day"] = r.Day
		f.Properties["stroke"] = r.Color
		f.Properties["dashed"] = r.Dashed
		f.Properties["length_km"] = r.LengthKm
		fc.Append(f)
	}
	return fc
}
