// Package export renders itineraries as downloadable documents and shares
// them through the host's share or clipboard capability.
package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rendis/tourplan/internal/model"
)

const (
	DocumentHeader = "7wess - Your Algeria Adventure Itinerary"
	DocumentFooter = "Generated by 7wess - Your Ultimate Algeria Tour Guide"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatCurrency renders a whole-dinar amount with thousands grouping,
// e.g. "45,000 DZD".
func FormatCurrency(amount float64) string {
	return amountPrinter.Sprintf("%d DZD", int64(math.Round(amount)))
}

// FormatHours renders fractional hours as "2h 30m", or "2h" on the hour.
func FormatHours(hours float64) string {
	whole := math.Floor(hours)
	minutes := int(math.Round((hours - whole) * 60))
	if minutes == 60 {
		whole++
		minutes = 0
	}
	if minutes > 0 {
		return fmt.Sprintf("%dh %dm", int(whole), minutes)
	}
	return fmt.Sprintf("%dh", int(whole))
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Text renders the plain-text itinerary document.
func Text(it *model.ItineraryResponse) string {
	var b strings.Builder

	fmt.Fprintln(&b, DocumentHeader)
	fmt.Fprintln(&b, it.Title)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, it.Summary)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "SUMMARY:")
	fmt.Fprintf(&b, "Total Budget: %s\n", FormatCurrency(it.TotalBudget))
	fmt.Fprintf(&b, "Total Time: %s\n", FormatHours(it.TotalTime))
	fmt.Fprintf(&b, "Hotel Cost: %s\n", FormatCurrency(it.HotelCost))
	fmt.Fprintf(&b, "Remaining Budget: %s\n", FormatCurrency(it.RemainingBudget))
	fmt.Fprintf(&b, "Satisfaction Score: %.1f%%\n", it.Satisfaction)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "ITINERARY:")

	for _, day := range it.Days {
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "Day %d: %s\n", day.Day, day.Title)
		fmt.Fprintf(&b, "Location: %s\n", day.Location)
		fmt.Fprintf(&b, "Total Cost: %s\n", FormatCurrency(day.TotalCost))
		fmt.Fprintf(&b, "Total Time: %s\n", FormatHours(day.TotalTime))
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Activities:")
		for _, a := range day.Activities {
			fmt.Fprintf(&b, "- %s: %s (%s)\n", a.Time, a.Title, a.Category)
			fmt.Fprintf(&b, "    Duration: %s | Cost: %s | Rating: %s/5\n", a.Duration, a.Cost, formatRating(a.Rating))
		}
		fmt.Fprintln(&b)
		if acc := day.Accommodation; acc != nil {
			fmt.Fprintf(&b, "Accommodation: %s\n", acc.Name)
			fmt.Fprintf(&b, "Type: %s\n", acc.Type)
			fmt.Fprintf(&b, "Price: %s\n", FormatCurrency(acc.Price))
			fmt.Fprintf(&b, "Rating: %s/5\n", formatRating(acc.Rating))
		} else {
			fmt.Fprintln(&b, "Accommodation: none")
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, DocumentFooter)
	return b.String()
}
