package geo

import (
	"fmt"
	"strconv"
)

// Popup is the detail shown for a selected marker.
type Popup struct {
	Title     string
	Subtitle  string
	Day       int
	Lines     []string
	Amenities []string
	// MoreAmenities counts the amenities left out of Amenities.
	MoreAmenities int
}

func (m Marker) Popup() Popup {
	p := Popup{Day: m.Day}
	switch {
	case m.Kind == MarkerHotel && m.Accommodation != nil:
		acc := m.Accommodation
		p.Title = acc.Name
		p.Subtitle = acc.Type
		if p.Subtitle == "" {
			p.Subtitle = "Hotel"
		}
		p.Lines = append(p.Lines,
			"Price: "+strconv.FormatFloat(acc.Price, 'f', 0, 64)+" DZD/night",
			fmt.Sprintf("Rating: %.1f", acc.Rating),
		)
		if acc.City != "" {
			p.Lines = append(p.Lines, "City: "+acc.City)
		}
		n := min(len(acc.Amenities), MaxPopupAmenities)
		p.Amenities = acc.Amenities[:n]
		p.MoreAmenities = len(acc.Amenities) - n
	case m.Activity != nil:
		act := m.Activity
		p.Title = act.Title
		p.Subtitle = act.Category
		if act.Time != "" {
			p.Lines = append(p.Lines, "Time: "+act.Time)
		}
		if act.Duration != "" {
			p.Lines = append(p.Lines, "Duration: "+act.Duration)
		}
		if act.Cost != "" {
			p.Lines = append(p.Lines, "Cost: "+act.Cost)
		}
		p.Lines = append(p.Lines, fmt.Sprintf("Rating: %.1f", act.Rating))
	}
	return p
}
