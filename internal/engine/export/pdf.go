package export

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/rendis/tourplan/internal/model"
)

// PDF renders the itinerary as an A4 document with one section per day.
func PDF(it *model.ItineraryResponse) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(it.Title), false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(30, 111, 159)
	pdf.Cell(0, 6, tr(DocumentHeader))
	pdf.Ln(8)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(it.Title), "", "", false)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr(it.Summary), "", "", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Summary")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range [][2]string{
		{"Total Budget", FormatCurrency(it.TotalBudget)},
		{"Total Time", FormatHours(it.TotalTime)},
		{"Hotel Cost", FormatCurrency(it.HotelCost)},
		{"Remaining Budget", FormatCurrency(it.RemainingBudget)},
		{"Satisfaction Score", fmt.Sprintf("%.1f%%", it.Satisfaction)},
	} {
		pdf.CellFormat(50, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}

	for _, day := range it.Days {
		pdf.Ln(5)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetFillColor(230, 240, 247)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("Day %d: %s", day.Day, day.Title)), "", 1, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, tr(fmt.Sprintf("%s  |  %s  |  %s", day.Location, FormatCurrency(day.TotalCost), FormatHours(day.TotalTime))))
		pdf.Ln(7)

		for _, a := range day.Activities {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.Cell(0, 5, tr(fmt.Sprintf("%s  %s (%s)", a.Time, a.Title, a.Category)))
			pdf.Ln(5)
			pdf.SetFont("Helvetica", "", 9)
			pdf.Cell(0, 5, tr(fmt.Sprintf("    Duration: %s | Cost: %s | Rating: %s/5", a.Duration, a.Cost, formatRating(a.Rating))))
			pdf.Ln(5)
		}

		if acc := day.Accommodation; acc != nil {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.Cell(0, 6, tr(fmt.Sprintf("Stay: %s (%s) %s, %s/5", acc.Name, acc.Type, FormatCurrency(acc.Price), formatRating(acc.Rating))))
			pdf.Ln(6)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 5, tr(DocumentFooter))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}
