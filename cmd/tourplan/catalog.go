package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/rendis/tourplan/internal/engine/api"
	"github.com/rendis/tourplan/internal/engine/collection"
	"github.com/rendis/tourplan/internal/engine/export"
	"github.com/rendis/tourplan/internal/model"
	"github.com/rendis/tourplan/internal/tui/styles"
)

type catalogKind int

const (
	catalogAttractions catalogKind = iota
	catalogHotels
)

type catalogFlags struct {
	wilaya     string
	categories []string
	cities     []string
	minRating  float64
	maxRating  float64
	minPrice   float64
	maxPrice   float64
	sort       string
	page       int
}

func newCatalogCmd(c *cli, kind catalogKind) *cobra.Command {
	var fl catalogFlags

	cmd := &cobra.Command{
		Use:   "attractions",
		Short: "List attractions with filters, sorting and pages",
		Example: `  tourplan attractions --category museum,historical --sort name
  tourplan attractions --city Oran --min-rating 4 --page 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			q := rt.catalog()
			out := cmd.OutOrStdout()
			if kind == catalogHotels {
				items, err := q.Hotels(cmd.Context(), api.HotelQuery{Wilaya: fl.wilaya})
				if err != nil {
					return err
				}
				b := collection.NewBrowser(collection.HotelEngine(), collection.SortRating)
				b.SetItems(items)
				if err := fl.apply(cmd, b.Filters(), b.Engine().SortKeys(), b.SetSort, true); err != nil {
					return err
				}
				return printPage(out, b, fl.page, []string{"Hotel", "City", "Stars", "Review", "Price/night"}, hotelRow)
			}

			items, err := q.Attractions(cmd.Context(), api.AttractionQuery{Wilaya: fl.wilaya})
			if err != nil {
				return err
			}
			b := collection.NewBrowser(collection.AttractionEngine(), collection.SortRating)
			b.SetItems(items)
			if err := fl.apply(cmd, b.Filters(), b.Engine().SortKeys(), b.SetSort, false); err != nil {
				return err
			}
			return printPage(out, b, fl.page, []string{"Name", "Category", "City", "Rating", "Cost"}, attractionRow)
		},
	}

	f := cmd.Flags()
	f.StringVar(&fl.wilaya, "wilaya", "", "Ask the service for one region only")
	f.StringSliceVar(&fl.cities, "city", nil, "Keep only these cities")
	f.Float64Var(&fl.minRating, "min-rating", collection.RatingMin, "Lowest rating")
	f.Float64Var(&fl.maxRating, "max-rating", collection.RatingMax, "Highest rating")
	f.StringVar(&fl.sort, "sort", string(collection.SortRating), "Sort by rating, price or name")
	f.IntVar(&fl.page, "page", 1, "Page to show")

	if kind == catalogHotels {
		cmd.Use = "hotels"
		cmd.Short = "List hotels with filters, sorting and pages"
		cmd.Example = `  tourplan hotels --city Algiers --max-price 20000 --sort price`
		f.Float64Var(&fl.minPrice, "min-price", collection.PriceMin, "Lowest nightly price in DZD")
		f.Float64Var(&fl.maxPrice, "max-price", collection.PriceMax, "Highest nightly price in DZD")
	} else {
		f.StringSliceVar(&fl.categories, "category", nil, "Keep only these categories")
	}
	return cmd
}

// apply pushes the flags into the filter state; only flags the user set
// become criteria.
func (fl catalogFlags) apply(cmd *cobra.Command, fs *collection.FilterState, keys []collection.SortKey, setSort func(collection.SortKey), priced bool) error {
	key := collection.SortKey(strings.ToLower(fl.sort))
	if !slices.Contains(keys, key) {
		return fmt.Errorf("unknown sort %q", fl.sort)
	}
	setSort(key)

	for _, v := range fl.categories {
		fs.ToggleCategory(v)
	}
	for _, v := range fl.cities {
		fs.ToggleCity(v)
	}
	changed := cmd.Flags().Changed
	if changed("min-rating") || changed("max-rating") {
		if err := fs.SetRating(fl.minRating, fl.maxRating); err != nil {
			return fmt.Errorf("rating filter: %w", err)
		}
	}
	if priced && (changed("min-price") || changed("max-price")) {
		if err := fs.SetPrice(fl.minPrice, fl.maxPrice); err != nil {
			return fmt.Errorf("price filter: %w", err)
		}
	}
	return nil
}

func attractionRow(a model.Attraction) []string {
	return []string{a.Name, a.Category, a.City, fmt.Sprintf("%.1f", a.Rating), a.Cost}
}

func hotelRow(h model.Hotel) []string {
	stars := "-"
	if h.Stars != nil {
		stars = strconv.Itoa(*h.Stars)
	}
	return []string{h.Name, h.City, stars, fmt.Sprintf("%.1f", h.AvgReview), export.FormatCurrency(h.Price)}
}

func printPage[T any](w io.Writer, b *collection.Browser[T], page int, headers []string, row func(T) []string) error {
	if page != 1 && !b.JumpTo(page) {
		return fmt.Errorf("page %d does not exist (1-%d)", page, b.View().TotalPages)
	}
	view := b.View()
	if view.TotalCount == 0 {
		_, err := fmt.Fprintln(w, "Nothing matches the current filters.")
		return err
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Secondary).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
		StyleFunc(func(r, _ int) lipgloss.Style {
			if r == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
	for _, it := range view.Items {
		t.Row(row(it)...)
	}

	labels := make([]string, 0, len(b.Labels()))
	for _, l := range b.Labels() {
		s := l.String()
		if l.Page == view.Page {
			s = "[" + s + "]"
		}
		labels = append(labels, s)
	}

	_, err := fmt.Fprintf(w, "%s\n%d results, sorted by %s   %s\n",
		t.String(), view.TotalCount, b.Sort(), strings.Join(labels, " "))
	return err
}
