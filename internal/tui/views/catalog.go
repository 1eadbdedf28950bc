package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/tourplan/internal/engine/api"
	"github.com/rendis/tourplan/internal/engine/catalog"
	"github.com/rendis/tourplan/internal/engine/collection"
	"github.com/rendis/tourplan/internal/engine/export"
	"github.com/rendis/tourplan/internal/model"
	"github.com/rendis/tourplan/internal/tui/styles"
)

type catalogFocus int

const (
	catalogFocusTable catalogFocus = iota
	catalogFocusFacets
	catalogFocusJump
)

// rangePreset is one step of the rating or price filter cycle. A nil
// preset clears the filter.
type rangePreset struct {
	label  string
	lo, hi float64
}

var ratingPresets = []*rangePreset{
	nil,
	{label: "4+", lo: 4, hi: collection.RatingMax},
	{label: "3+", lo: 3, hi: collection.RatingMax},
	{label: "2+", lo: 2, hi: collection.RatingMax},
}

var pricePresets = []*rangePreset{
	nil,
	{label: "under 5,000", lo: collection.PriceMin, hi: 5000},
	{label: "5,000-15,000", lo: 5000, hi: 15000},
	{label: "15,000+", lo: 15000, hi: collection.PriceMax},
}

// catalogBinding adapts one entity type to the browse view.
type catalogBinding[T any] struct {
	kind     CatalogKind
	fetch    func(ctx context.Context) ([]T, error)
	columns  []table.Column
	row      func(T) table.Row
	detail   func(T) []string
	category func(T) string
	city     func(T) string
	priced   bool
}

type facet struct {
	category bool
	value    string
}

// CatalogModel browses attractions or hotels with client-side filters,
// sorting and pagination.
type CatalogModel[T any] struct {
	binding catalogBinding[T]
	browser *collection.Browser[T]
	table   table.Model
	jump    textinput.Model
	focus   catalogFocus

	facets      []facet
	facetCursor int
	ratingStep  int
	priceStep   int

	loading bool
	err     error
	notice  string

	width  int
	height int
}

type catalogLoadedMsg[T any] struct {
	items []T
	err   error
}

// NewCatalogModel builds the browse view for kind.
func NewCatalogModel(deps Deps, kind CatalogKind) tea.Model {
	if kind == CatalogHotels {
		return newCatalogModel(hotelBinding(deps.Catalog), collection.HotelEngine())
	}
	return newCatalogModel(attractionBinding(deps.Catalog), collection.AttractionEngine())
}

func newCatalogModel[T any](b catalogBinding[T], engine *collection.Engine[T]) CatalogModel[T] {
	jump := textinput.New()
	jump.Placeholder = "page"
	jump.CharLimit = 4
	jump.Width = 6

	m := CatalogModel[T]{
		binding: b,
		browser: collection.NewBrowser(engine, collection.SortRating),
		jump:    jump,
		loading: true,
	}
	m.table = table.New(
		table.WithColumns(b.columns),
		table.WithFocused(true),
		table.WithHeight(collection.DefaultPageSize),
	)
	m.table.SetStyles(catalogTableStyles())
	return m
}

func attractionBinding(q *catalog.Query) catalogBinding[model.Attraction] {
	return catalogBinding[model.Attraction]{
		kind: CatalogAttractions,
		fetch: func(ctx context.Context) ([]model.Attraction, error) {
			return q.Attractions(ctx, api.AttractionQuery{})
		},
		columns: []table.Column{
			{Title: "Name", Width: 30},
			{Title: "Category", Width: 14},
			{Title: "City", Width: 16},
			{Title: "Rating", Width: 7},
			{Title: "Cost", Width: 14},
		},
		row: func(a model.Attraction) table.Row {
			return table.Row{a.Name, a.Category, a.City, fmt.Sprintf("%.1f", a.Rating), a.Cost}
		},
		detail: func(a model.Attraction) []string {
			lines := []string{
				styles.Stat("City:", a.City),
				styles.Stat("Category:", a.Category),
				styles.Stat("Rating:", fmt.Sprintf("%.1f/5", a.Rating)),
				styles.Stat("Cost:", a.Cost),
				styles.Stat("Visit:", a.VisitDuration),
				styles.Stat("Image:", a.ImageRef),
			}
			if a.GPS.Valid() {
				lines = append(lines, styles.Stat("GPS:", a.GPS.String()))
			}
			if a.Description != "" {
				lines = append(lines, "", a.Description)
			}
			if len(a.NearbyAmenities) > 0 {
				lines = append(lines, "", "Nearby: "+strings.Join(a.NearbyAmenities, ", "))
			}
			return lines
		},
		category: func(a model.Attraction) string { return a.Category },
		city:     func(a model.Attraction) string { return a.City },
	}
}

func hotelBinding(q *catalog.Query) catalogBinding[model.Hotel] {
	return catalogBinding[model.Hotel]{
		kind: CatalogHotels,
		fetch: func(ctx context.Context) ([]model.Hotel, error) {
			return q.Hotels(ctx, api.HotelQuery{})
		},
		columns: []table.Column{
			{Title: "Hotel", Width: 30},
			{Title: "City", Width: 16},
			{Title: "Stars", Width: 6},
			{Title: "Review", Width: 7},
			{Title: "Price/night", Width: 14},
		},
		row: func(h model.Hotel) table.Row {
			stars := "-"
			if h.Stars != nil {
				stars = strconv.Itoa(*h.Stars)
			}
			return table.Row{h.Name, h.City, stars, fmt.Sprintf("%.1f", h.AvgReview), export.FormatCurrency(h.Price)}
		},
		detail: func(h model.Hotel) []string {
			lines := []string{
				styles.Stat("City:", h.City),
				styles.Stat("Review:", fmt.Sprintf("%.1f/5", h.AvgReview)),
				styles.Stat("Price:", export.FormatCurrency(h.Price)+" / night"),
				styles.Stat("Image:", h.ImageRef),
			}
			if h.Type != "" {
				lines = append(lines, styles.Stat("Type:", h.Type))
			}
			if len(h.Amenities) > 0 {
				lines = append(lines, "", "Amenities: "+strings.Join(h.Amenities, ", "))
			}
			return lines
		},
		city:   func(h model.Hotel) string { return h.City },
		priced: true,
	}
}

func catalogTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Secondary)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.Primary).
		Bold(true)
	return s
}

func (m CatalogModel[T]) Init() tea.Cmd {
	return m.fetch()
}

func (m CatalogModel[T]) fetch() tea.Cmd {
	fetch := m.binding.fetch
	return func() tea.Msg {
		items, err := fetch(context.Background())
		return catalogLoadedMsg[T]{items: items, err: err}
	}
}

func (m CatalogModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case catalogLoadedMsg[T]:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.browser.SetItems(msg.items)
			m.buildFacets()
			m.syncTable()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case catalogFocusJump:
			return m.updateJump(msg)
		case catalogFocusFacets:
			return m.updateFacets(msg)
		}
		return m.updateTable(msg)
	}
	return m, nil
}

func (m CatalogModel[T]) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
	case "esc", "q":
		return m, navigate(NavigateToHome{})
	case "ctrl+r":
		m.loading = true
		m.err = nil
		return m, m.fetch()
	}
	if m.loading || m.err != nil {
		return m, nil
	}

	switch msg.String() {
	case "s":
		m.browser.CycleSort()
	case "n", "pgdown", "right":
		m.browser.Next()
	case "p", "pgup", "left":
		m.browser.Prev()
	case "g":
		m.focus = catalogFocusJump
		m.jump.SetValue("")
		m.jump.Focus()
		return m, textinput.Blink
	case "f", "tab":
		if len(m.facets) > 0 {
			m.focus = catalogFocusFacets
			m.table.Blur()
		}
		return m, nil
	case "r":
		m.ratingStep = (m.ratingStep + 1) % len(ratingPresets)
		m.applyPreset(ratingPresets[m.ratingStep], m.browser.Filters().SetRating, m.browser.Filters().ClearRating)
	case "$":
		if m.binding.priced {
			m.priceStep = (m.priceStep + 1) % len(pricePresets)
			m.applyPreset(pricePresets[m.priceStep], m.browser.Filters().SetPrice, m.browser.Filters().ClearPrice)
		}
	case "x":
		m.ratingStep, m.priceStep = 0, 0
		m.browser.Filters().Clear()
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	m.syncTable()
	return m, nil
}

func (m *CatalogModel[T]) applyPreset(p *rangePreset, set func(lo, hi float64) error, clear func()) {
	if p == nil {
		clear()
		return
	}
	if err := set(p.lo, p.hi); err != nil {
		m.notice = err.Error()
	}
}

func (m CatalogModel[T]) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = catalogFocusTable
		m.jump.Blur()
		return m, nil
	case "enter":
		m.focus = catalogFocusTable
		m.jump.Blur()
		page, err := strconv.Atoi(strings.TrimSpace(m.jump.Value()))
		if err != nil || !m.browser.JumpTo(page) {
			m.notice = fmt.Sprintf("No page %q (1-%d)", m.jump.Value(), m.browser.View().TotalPages)
			return m, nil
		}
		m.syncTable()
		return m, nil
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m CatalogModel[T]) updateFacets(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f", "tab":
		m.focus = catalogFocusTable
		m.table.Focus()
	case "up", "k":
		if m.facetCursor > 0 {
			m.facetCursor--
		}
	case "down", "j":
		if m.facetCursor < len(m.facets)-1 {
			m.facetCursor++
		}
	case " ", "enter":
		f := m.facets[m.facetCursor]
		if f.category {
			m.browser.Filters().ToggleCategory(f.value)
		} else {
			m.browser.Filters().ToggleCity(f.value)
		}
		m.syncTable()
	case "x":
		m.ratingStep, m.priceStep = 0, 0
		m.browser.Filters().Clear()
		m.syncTable()
	}
	return m, nil
}

func (m *CatalogModel[T]) buildFacets() {
	m.facets = m.facets[:0]
	items := m.browser.Items()
	if m.binding.category != nil {
		for _, v := range collection.Distinct(items, m.binding.category) {
			m.facets = append(m.facets, facet{category: true, value: v})
		}
	}
	for _, v := range collection.Distinct(items, m.binding.city) {
		m.facets = append(m.facets, facet{value: v})
	}
	m.facetCursor = min(m.facetCursor, max(len(m.facets)-1, 0))
}

func (m *CatalogModel[T]) syncTable() {
	view := m.browser.View()
	rows := make([]table.Row, len(view.Items))
	for i, it := range view.Items {
		rows[i] = m.binding.row(it)
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m CatalogModel[T]) selected() (T, bool) {
	var zero T
	items := m.browser.View().Items
	i := m.table.Cursor()
	if i < 0 || i >= len(items) {
		return zero, false
	}
	return items[i], true
}

func (m CatalogModel[T]) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(m.binding.kind.String()))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(styles.Hint.Render("Loading..."))
		return styles.Border.Render(b.String())
	case m.err != nil:
		b.WriteString(styles.ErrorText.Render(m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(styles.StatusBar.Render("ctrl+r retry • esc back"))
		return styles.Border.Render(b.String())
	}

	view := m.browser.View()
	b.WriteString(m.renderCriteria(view))
	b.WriteString("\n\n")

	var main string
	if view.TotalCount == 0 {
		main = styles.Hint.Render("Nothing matches the current filters. Press x to clear them.")
	} else {
		main = m.table.View()
	}
	side := m.renderSide()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", side))
	b.WriteString("\n\n")
	b.WriteString(m.renderPager(view))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(styles.WarningText.Render(m.notice) + "\n")
	}
	switch m.focus {
	case catalogFocusJump:
		b.WriteString("Go to page: " + m.jump.View() + "\n")
		b.WriteString(styles.StatusBar.Render("enter go • esc cancel"))
	case catalogFocusFacets:
		b.WriteString(styles.StatusBar.Render("↑↓ move • space toggle • x clear all • tab back"))
	default:
		status := "↑↓ select • ←→ page • g go to • s sort • f filters • r rating"
		if m.binding.priced {
			status += " • $ price"
		}
		status += " • x clear • esc back"
		b.WriteString(styles.StatusBar.Render(status))
	}
	return styles.Border.Render(b.String())
}

func (m CatalogModel[T]) renderCriteria(view collection.Result[T]) string {
	c := m.browser.Filters().Criteria()
	parts := []string{
		styles.Stat("Sort:", string(m.browser.Sort())),
		styles.Hint.Render(fmt.Sprintf("%d of %d", view.TotalCount, len(m.browser.Items()))),
	}
	if p := ratingPresets[m.ratingStep]; p != nil && c.Rating != nil {
		parts = append(parts, styles.Stat("Rating:", p.label))
	}
	if p := pricePresets[m.priceStep]; p != nil && c.Price != nil {
		parts = append(parts, styles.Stat("Price:", p.label))
	}
	if m.browser.Filters().HasActive() {
		parts = append(parts, styles.WarningText.Render("filtered"))
	}
	return strings.Join(parts, "  ")
}

func (m CatalogModel[T]) renderSide() string {
	var sb strings.Builder
	if it, ok := m.selected(); ok {
		sb.WriteString(strings.Join(m.binding.detail(it), "\n"))
	}

	if len(m.facets) > 0 {
		c := m.browser.Filters().Criteria()
		sb.WriteString("\n\n" + styles.Subtitle.Render("Filters") + "\n")
		lastCategory := true
		for i, f := range m.facets {
			if !f.category && lastCategory && i > 0 {
				sb.WriteString("\n")
			}
			lastCategory = f.category
			set := c.Cities
			if f.category {
				set = c.Categories
			}
			box := "[ ]"
			for _, v := range set {
				if strings.EqualFold(v, f.value) {
					box = "[x]"
					break
				}
			}
			style := styles.InactiveItem
			if m.focus == catalogFocusFacets && i == m.facetCursor {
				style = styles.ActiveItem
			}
			sb.WriteString(style.Render(box+" "+f.value) + "\n")
		}
	}
	return styles.Card.Width(max(m.width-100, 36)).Render(sb.String())
}

func (m CatalogModel[T]) renderPager(view collection.Result[T]) string {
	var parts []string
	for _, l := range m.browser.Labels() {
		s := l.String()
		if l.Page == view.Page {
			s = styles.ActiveItem.Render("[" + s + "]")
		} else if l.IsEllipsis() {
			s = styles.Hint.Render(s)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ") + styles.Hint.Render(fmt.Sprintf("   page %d of %d", view.Page, view.TotalPages))
}
