package collection

import "github.com/rendis/tourplan/internal/model"

// AttractionEngine filters attractions by category, city and rating, and
// sorts them by rating, name or cost.
func AttractionEngine() *Engine[model.Attraction] {
	return NewEngine(DefaultPageSize,
		[]Predicate[model.Attraction]{
			CategoryPredicate(func(a model.Attraction) string { return a.Category }),
			CityPredicate(func(a model.Attraction) string { return a.City }),
			RatingPredicate(func(a model.Attraction) float64 { return a.Rating }),
		},
		[]SortKey{SortRating, SortName, SortPrice},
		map[SortKey]Comparator[model.Attraction]{
			SortRating: Descending(func(a model.Attraction) float64 { return a.Rating }),
			SortName:   ByName(func(a model.Attraction) string { return a.Name }),
			SortPrice:  Ascending(func(a model.Attraction) float64 { return a.CostValue }),
		},
	)
}

// HotelEngine filters hotels by city, review score and nightly price.
func HotelEngine() *Engine[model.Hotel] {
	return NewEngine(DefaultPageSize,
		[]Predicate[model.Hotel]{
			CityPredicate(func(h model.Hotel) string { return h.City }),
			RatingPredicate(func(h model.Hotel) float64 { return h.AvgReview }),
			PricePredicate(func(h model.Hotel) float64 { return h.Price }),
		},
		[]SortKey{SortRating, SortPrice, SortName},
		map[SortKey]Comparator[model.Hotel]{
			SortRating: Descending(func(h model.Hotel) float64 { return h.AvgReview }),
			SortPrice:  Ascending(func(h model.Hotel) float64 { return h.Price }),
			SortName:   ByName(func(h model.Hotel) string { return h.Name }),
		},
	)
}
