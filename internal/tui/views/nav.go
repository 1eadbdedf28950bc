package views

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rendis/tourplan/internal/engine/catalog"
	"github.com/rendis/tourplan/internal/engine/export"
	"github.com/rendis/tourplan/internal/engine/planner"
	"github.com/rendis/tourplan/internal/engine/present"
	"github.com/rendis/tourplan/internal/model"
)

// Deps is what the views need from the outside world.
type Deps struct {
	// NewPlanner returns a fresh orchestrator; each plan session owns one so
	// that leaving the session discards late responses.
	NewPlanner func() *planner.Orchestrator
	Catalog    *catalog.Query
	Handoff    present.Source
	Downloader *export.Downloader
	Share      export.Host
	// ResultsDelay is the pause before the results view shows the
	// itinerary.
	ResultsDelay time.Duration
	// OnDownload is told about every written download.
	OnDownload func(path string, f export.Format)
	Log        zerolog.Logger
}

// Navigation messages
type NavigateToHome struct{}

type NavigateToPlan struct {
	// Resume returns to the previous form instead of a blank one.
	Resume bool
}

type NavigateToResults struct {
	// Itinerary is the freshly generated itinerary, if any. Without it the
	// results view reads the handoff slot.
	Itinerary *model.ItineraryResponse
}

type NavigateToCatalog struct {
	Kind CatalogKind
}

type NavigateToDownloads struct{}

// StartGenerationMsg hands a validated request to the generating view.
type StartGenerationMsg struct {
	Planner *planner.Orchestrator
	Draft   planner.Draft
}

type CatalogKind int

const (
	CatalogAttractions CatalogKind = iota
	CatalogHotels
)

func (k CatalogKind) String() string {
	if k == CatalogHotels {
		return "Hotels"
	}
	return "Attractions"
}

func navigate(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
