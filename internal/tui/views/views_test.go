package views

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rendis/tourplan/internal/engine/catalog"
	"github.com/rendis/tourplan/internal/engine/collection"
	"github.com/rendis/tourplan/internal/model"
)

func keys(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func attractions(n int) []model.Attraction {
	out := make([]model.Attraction, n)
	for i := range out {
		out[i] = model.Attraction{
			Name:     fmt.Sprintf("Site %02d", i),
			Category: []string{"museum", "nature"}[i%2],
			City:     []string{"Algiers", "Oran", "Tlemcen"}[i%3],
			Rating:   float64(1 + i%5),
		}
	}
	return out
}

type attractionCatalog = CatalogModel[model.Attraction]

func loadedCatalog(t *testing.T, n int) attractionCatalog {
	t.Helper()
	m := newCatalogModel(attractionBinding(catalog.NewQuery(nil, nil)), collection.AttractionEngine())
	next, _ := m.Update(catalogLoadedMsg[model.Attraction]{items: attractions(n)})
	return next.(attractionCatalog)
}

func press(m attractionCatalog, ks ...string) attractionCatalog {
	for _, k := range ks {
		next, _ := m.Update(keys(k))
		m = next.(attractionCatalog)
	}
	return m
}

func TestCatalogPaging(t *testing.T) {
	m := loadedCatalog(t, 30)
	if got := m.browser.View().TotalPages; got != 3 {
		t.Fatalf("Expected 3 pages, got %d", got)
	}

	m = press(m, "right")
	if got := m.browser.View().Page; got != 2 {
		t.Errorf("Expected page 2, got %d", got)
	}

	m = press(m, "g", "3", "enter")
	if got := m.browser.View().Page; got != 3 {
		t.Errorf("Expected jump to page 3, got %d", got)
	}
	if rows := len(m.table.Rows()); rows != 6 {
		t.Errorf("Expected 6 rows on the last page, got %d", rows)
	}

	m = press(m, "g", "9", "enter")
	if got := m.browser.View().Page; got != 3 {
		t.Errorf("jump to a missing page should keep page 3, got %d", got)
	}
	if m.notice == "" {
		t.Error("Expected a notice for the missing page")
	}
}

func TestCatalogFiltersResetPage(t *testing.T) {
	m := press(loadedCatalog(t, 30), "right")

	m = press(m, "r")
	if !m.browser.Filters().HasActive() {
		t.Fatal("Expected rating filter to be active")
	}
	if got := m.browser.View().Page; got != 1 {
		t.Errorf("filter change should reset to page 1, got %d", got)
	}
	for _, a := range m.browser.View().Items {
		if a.Rating < 4 {
			t.Errorf("%s rated %.0f passed the 4+ filter", a.Name, a.Rating)
		}
	}

	m = press(m, "x")
	if m.browser.Filters().HasActive() {
		t.Error("x should clear every filter")
	}
}

func TestCatalogFacetToggle(t *testing.T) {
	m := loadedCatalog(t, 12)
	// categories come first: museum, nature, then the cities
	if len(m.facets) != 5 || !m.facets[0].category {
		t.Fatalf("unexpected facets %+v", m.facets)
	}

	m = press(m, "f", " ")
	crit := m.browser.Filters().Criteria()
	if len(crit.Categories) != 1 || crit.Categories[0] != "museum" {
		t.Errorf("Expected museum selected, got %v", crit.Categories)
	}
	if got := m.browser.View().TotalCount; got != 6 {
		t.Errorf("Expected 6 museums, got %d", got)
	}
	if !strings.Contains(m.View(), "[x] museum") {
		t.Error("selected facet should be checked in the view")
	}
}

func TestCatalogEmptyResult(t *testing.T) {
	m := loadedCatalog(t, 0)
	if !strings.Contains(m.View(), "Nothing matches") {
		t.Error("Expected the empty-result hint")
	}
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(s string) error {
	if c.err != nil {
		return c.err
	}
	c.text = s
	return nil
}

func TestDownloadsCopyPath(t *testing.T) {
	cb := &fakeClipboard{}
	m := NewDownloadsModel([]DownloadEntry{{Path: "/tmp/a.txt"}, {Path: "/tmp/b.pdf"}}, cb)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.Update(keys("enter"))
	if cb.text != "/tmp/b.pdf" {
		t.Errorf("Expected second path copied, got %q", cb.text)
	}

	cb.err = errors.New("no clipboard")
	next, _ = next.Update(keys("enter"))
	if !strings.Contains(next.View(), "Could not copy") {
		t.Error("Expected copy failure in the view")
	}
}
