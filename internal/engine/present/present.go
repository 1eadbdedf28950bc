// Package present prepares a persisted itinerary for the results view.
package present

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rendis/tourplan/internal/engine/export"
	"github.com/rendis/tourplan/internal/engine/storage"
	"github.com/rendis/tourplan/internal/model"
)

// LoadDelay is the pause before the results view shows the itinerary.
const LoadDelay = 500 * time.Millisecond

// ErrNoItinerary means the results view was opened without a generated
// itinerary. Callers send the user back to the planner.
var ErrNoItinerary = errors.New("no itinerary to show")

type Source interface {
	Load(ctx context.Context) (*model.ItineraryResponse, error)
}

// Load reads the handoff slot after waiting delay.
func Load(ctx context.Context, src Source, delay time.Duration) (*model.ItineraryResponse, error) {
	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	it, err := src.Load(ctx)
	if errors.Is(err, storage.ErrEmpty) {
		return nil, ErrNoItinerary
	}
	if err != nil {
		return nil, fmt.Errorf("reading itinerary: %w", err)
	}
	if it == nil || len(it.Days) == 0 {
		return nil, ErrNoItinerary
	}
	return it, nil
}

// Stat is one labelled figure on a card.
type Stat struct {
	Label string
	Value string
}

type Summary struct {
	Title   string
	Summary string
	Stats   []Stat
}

type ActivityLine struct {
	Time     string
	Title    string
	Category string
	Details  string
	Text     string
}

type DayCard struct {
	Day        int
	Heading    string
	Location   string
	Stats      []Stat
	Activities []ActivityLine
	// Stay is empty when no accommodation was found for the day.
	Stay string
}

// Cards derives the summary block and one card per day.
func Cards(it *model.ItineraryResponse) (Summary, []DayCard) {
	sum := Summary{
		Title:   it.Title,
		Summary: it.Summary,
		Stats: []Stat{
			{"Total Budget", export.FormatCurrency(it.TotalBudget)},
			{"Total Time", export.FormatHours(it.TotalTime)},
			{"Hotel Cost", export.FormatCurrency(it.HotelCost)},
			{"Remaining", export.FormatCurrency(it.RemainingBudget)},
			{"Satisfaction", fmt.Sprintf("%.1f%%", it.Satisfaction)},
		},
	}

	cards := make([]DayCard, 0, len(it.Days))
	for _, d := range it.Days {
		c := DayCard{
			Day:      d.Day,
			Heading:  fmt.Sprintf("Day %d: %s", d.Day, d.Title),
			Location: d.Location,
			Stats: []Stat{
				{"Cost", export.FormatCurrency(d.TotalCost)},
				{"Time", export.FormatHours(d.TotalTime)},
				{"Activities", fmt.Sprint(len(d.Activities))},
			},
		}
		for _, a := range d.Activities {
			c.Activities = append(c.Activities, ActivityLine{
				Time:     a.Time,
				Title:    a.Title,
				Category: a.Category,
				Details:  fmt.Sprintf("%s | %s | %.1f/5", a.Duration, a.Cost, a.Rating),
				Text:     a.Description,
			})
		}
		if acc, ok := d.Lodging(); ok {
			c.Stay = fmt.Sprintf("%s (%s) %s, %.1f/5", acc.Name, acc.Type, export.FormatCurrency(acc.Price), acc.Rating)
		}
		cards = append(cards, c)
	}
	return sum, cards
}
