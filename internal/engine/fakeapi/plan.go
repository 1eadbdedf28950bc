package fakeapi

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geo"

	"github.com/rendis/tourplan/internal/model"
)

const maxDays = 7

var errInfeasible = errors.New("No feasible itinerary found with the given constraints. Try relaxing your requirements.")

// plan builds a greedy itinerary: the best rated attractions of the
// requested categories in the resolved city, chunked into days. It is a
// stand-in for the real planner, good enough for demos and tests.
func plan(data Fixtures, req model.ItineraryRequest) (*model.ItineraryResponse, error) {
	city := resolveCity(data, req.Wilaya)
	if city == "" {
		city = resolveCity(data, req.Location)
	}
	if city == "" {
		return nil, fmt.Errorf("No attractions found for wilaya %q", req.Wilaya)
	}

	var picks []model.Attraction
	for _, a := range data.Attractions {
		if strings.EqualFold(a.City, city) && slices.ContainsFunc(req.Activities, func(act string) bool {
			return strings.EqualFold(act, a.Category)
		}) {
			picks = append(picks, a)
		}
	}
	slices.SortStableFunc(picks, func(a, b model.Attraction) int {
		switch {
		case a.Rating > b.Rating:
			return -1
		case a.Rating < b.Rating:
			return 1
		}
		return 0
	})

	perDay := 3
	if req.MaxAttractions != nil {
		perDay = *req.MaxAttractions
	}
	if len(picks) > perDay*maxDays {
		picks = picks[:perDay*maxDays]
	}

	var spent float64
	affordable := picks[:0:0]
	for _, a := range picks {
		cost := model.ParseCost(a.Cost)
		if spent+cost > req.Budget {
			continue
		}
		spent += cost
		affordable = append(affordable, a)
	}
	if len(affordable) == 0 {
		return nil, errInfeasible
	}

	minStars, maxStars := 3.0, 5.0
	if req.MinHotelStars != nil {
		minStars = float64(*req.MinHotelStars)
	}
	if req.MaxHotelStars != nil {
		maxStars = float64(*req.MaxHotelStars)
	}
	hotel := bestHotel(data.Hotels, city, minStars, maxStars)

	it := &model.ItineraryResponse{
		Success: true,
		Summary: fmt.Sprintf("A customized itinerary based on your preferences for %s.", strings.Join(req.Activities, ", ")),
	}

	var hotelCost, ratingSum, totalTime float64
	for start := 0; start < len(affordable); start += perDay {
		dayNum := len(it.Days) + 1
		chunk := affordable[start:min(start+perDay, len(affordable))]
		day := model.DayPlan{
			Day:      dayNum,
			Title:    fmt.Sprintf("Day %d: %s", dayNum, city),
			Location: city,
		}
		for i, a := range chunk {
			gps := a.GPS
			day.Activities = append(day.Activities, model.Activity{
				Time:        strconv.Itoa(9+i*2) + ":00",
				Title:       a.Name,
				Description: a.Description,
				Category:    a.Category,
				Cost:        a.Cost,
				Duration:    a.VisitDuration,
				Rating:      a.Rating,
				Coordinates: &gps,
			})
			day.TotalCost += model.ParseCost(a.Cost)
			day.TotalTime += model.ParseCost(a.VisitDuration)
			ratingSum += a.Rating
		}
		last := chunk[len(chunk)-1].GPS
		day.Coordinates = &last

		if hotel != nil && spent+hotelCost+hotel.Price <= req.Budget {
			hotelCost += hotel.Price
			day.Accommodation = &model.Accommodation{
				Name:      hotel.Name,
				City:      hotel.City,
				Rating:    hotel.AvgReview,
				Price:     hotel.Price,
				Type:      fmt.Sprintf("%.1f-star hotel", hotel.AvgReview),
				Amenities: hotel.Amenities,
			}
		} else {
			day.Accommodation = &model.Accommodation{
				Name:      model.PlaceholderHotel,
				City:      city,
				Type:      "No accommodation available",
				Amenities: []string{},
			}
		}
		totalTime += day.TotalTime
		it.Days = append(it.Days, day)
	}

	it.Title = fmt.Sprintf("Algeria Adventure: %d-Day Itinerary", len(it.Days))
	it.TotalBudget = spent
	it.TotalTime = totalTime
	it.HotelCost = hotelCost
	it.RemainingBudget = req.Budget - spent - hotelCost
	it.Satisfaction = math.Round(ratingSum/float64(len(affordable))/5*10000) / 100
	return it, nil
}

// resolveCity maps a region name or "lat, lon" text to a fixture city.
// Coordinates resolve to the city of the nearest attraction.
func resolveCity(data Fixtures, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	for _, a := range data.Attractions {
		if strings.EqualFold(a.City, text) || strings.Contains(strings.ToLower(text), strings.ToLower(a.City)) {
			return a.City
		}
	}

	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return ""
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return ""
	}
	origin := model.LatLon{Lat: lat, Lon: lon}.Point()
	best, bestDist := "", math.Inf(1)
	for _, a := range data.Attractions {
		if d := geo.DistanceHaversine(origin, a.GPS.Point()); d < bestDist {
			best, bestDist = a.City, d
		}
	}
	return best
}

func bestHotel(hotels []model.Hotel, city string, minStars, maxStars float64) *model.Hotel {
	var best *model.Hotel
	for i := range hotels {
		h := &hotels[i]
		if !strings.EqualFold(h.City, city) || h.AvgReview < minStars || h.AvgReview > maxStars {
			continue
		}
		if best == nil || h.AvgReview > best.AvgReview {
			best = h
		}
	}
	return best
}
