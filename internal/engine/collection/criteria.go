package collection

import (
	"fmt"
	"slices"
	"strings"
)

// Bounds of the range filters exposed by the browse views.
const (
	RatingMin = 1.0
	RatingMax = 5.0

	PriceMin = 0.0
	PriceMax = 150000.0
)

// Range is an inclusive numeric interval.
type Range struct {
	Lo float64
	Hi float64
}

// NewRange validates lo ≤ hi and that both ends fall inside [min, max].
func NewRange(lo, hi, min, max float64) (Range, error) {
	if lo > hi {
		return Range{}, fmt.Errorf("invalid range: %g > %g", lo, hi)
	}
	if lo < min || hi > max {
		return Range{}, fmt.Errorf("range [%g, %g] outside [%g, %g]", lo, hi, min, max)
	}
	return Range{Lo: lo, Hi: hi}, nil
}

func (r Range) Contains(v float64) bool {
	return v >= r.Lo && v <= r.Hi
}

// FilterCriteria is the user's current filter selection. Empty sets and nil
// ranges mean the criterion is unset and accepts everything.
type FilterCriteria struct {
	Categories []string
	Cities     []string
	Rating     *Range
	Price      *Range
}

// Active reports whether any criterion is set.
func (c FilterCriteria) Active() bool {
	return len(c.Categories) > 0 || len(c.Cities) > 0 || c.Rating != nil || c.Price != nil
}

// Clone returns a deep copy so subscribers cannot mutate shared state.
func (c FilterCriteria) Clone() FilterCriteria {
	out := FilterCriteria{
		Categories: slices.Clone(c.Categories),
		Cities:     slices.Clone(c.Cities),
	}
	if c.Rating != nil {
		r := *c.Rating
		out.Rating = &r
	}
	if c.Price != nil {
		p := *c.Price
		out.Price = &p
	}
	return out
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// toggle adds v to set, or removes it when already present.
func toggle(set []string, v string) []string {
	for i, s := range set {
		if strings.EqualFold(s, v) {
			return slices.Delete(slices.Clone(set), i, i+1)
		}
	}
	return append(slices.Clone(set), v)
}
