package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/tourplan/internal/engine/export"
	"github.com/rendis/tourplan/internal/tui/views"
)

type viewID int

const (
	viewHome viewID = iota
	viewPlan
	viewGenerating
	viewResults
	viewCatalog
	viewDownloads
)

// App is the root bubbletea model.
type App struct {
	deps        views.Deps
	history     *History
	version     string
	currentView viewID
	width       int
	height      int

	home       views.HomeModel
	plan       *views.PlanModel
	generating views.GeneratingModel
	results    views.ResultsModel
	catalog    tea.Model
	downloads  views.DownloadsModel
}

// NewApp wires the views. Downloads made from the results view are added
// to history when it is non-nil.
func NewApp(deps views.Deps, history *History, version string) App {
	if history != nil {
		log := deps.Log
		next := deps.OnDownload
		deps.OnDownload = func(path string, f export.Format) {
			if err := history.Record(path, f); err != nil {
				log.Warn().Err(err).Msg("recording download")
			}
			if next != nil {
				next(path, f)
			}
		}
	}
	return App{
		deps:        deps,
		history:     history,
		version:     version,
		currentView: viewHome,
		home:        views.NewHomeModel(deps, version),
	}
}

func (a App) Init() tea.Cmd {
	return a.home.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && a.currentView != viewGenerating {
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case views.NavigateToHome:
		a.currentView = viewHome
		a.home = views.NewHomeModel(a.deps, a.version)
		return a, a.home.Init()
	case views.NavigateToPlan:
		a.currentView = viewPlan
		if msg.Resume && a.plan != nil {
			return a, a.sizeCmd()
		}
		p := views.NewPlanModel(a.deps.NewPlanner())
		a.plan = &p
		return a, tea.Batch(a.plan.Init(), a.sizeCmd())
	case views.StartGenerationMsg:
		a.currentView = viewGenerating
		a.generating = views.NewGeneratingModel(msg)
		return a, tea.Batch(a.generating.Init(), a.sizeCmd())
	case views.NavigateToResults:
		a.currentView = viewResults
		a.results = views.NewResultsModel(a.deps, msg.Itinerary)
		return a, tea.Batch(a.results.Init(), a.sizeCmd())
	case views.NavigateToCatalog:
		a.currentView = viewCatalog
		a.catalog = views.NewCatalogModel(a.deps, msg.Kind)
		return a, tea.Batch(a.catalog.Init(), a.sizeCmd())
	case views.NavigateToDownloads:
		a.currentView = viewDownloads
		var entries []views.DownloadEntry
		if a.history != nil {
			var err error
			if entries, err = a.history.Entries(); err != nil {
				a.deps.Log.Warn().Err(err).Msg("loading download history")
			}
		}
		a.downloads = views.NewDownloadsModel(entries, a.deps.Share.Clipboard)
		return a, a.downloads.Init()
	}

	var cmd tea.Cmd
	switch a.currentView {
	case viewHome:
		var m tea.Model
		m, cmd = a.home.Update(msg)
		a.home = m.(views.HomeModel)
	case viewPlan:
		if a.plan != nil {
			var m tea.Model
			m, cmd = a.plan.Update(msg)
			p := m.(views.PlanModel)
			a.plan = &p
		}
	case viewGenerating:
		var m tea.Model
		m, cmd = a.generating.Update(msg)
		a.generating = m.(views.GeneratingModel)
	case viewResults:
		var m tea.Model
		m, cmd = a.results.Update(msg)
		a.results = m.(views.ResultsModel)
	case viewCatalog:
		if a.catalog != nil {
			a.catalog, cmd = a.catalog.Update(msg)
		}
	case viewDownloads:
		var m tea.Model
		m, cmd = a.downloads.Update(msg)
		a.downloads = m.(views.DownloadsModel)
	}

	return a, cmd
}

func (a App) View() string {
	var content string
	switch a.currentView {
	case viewHome:
		content = a.home.View()
	case viewPlan:
		if a.plan != nil {
			content = a.plan.View()
		}
	case viewGenerating:
		content = a.generating.View()
	case viewResults:
		content = a.results.View()
	case viewCatalog:
		if a.catalog != nil {
			content = a.catalog.View()
		}
	case viewDownloads:
		content = a.downloads.View()
	}

	return lipgloss.Place(
		a.width, a.height,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// sizeCmd sends a WindowSizeMsg so newly created views get the current terminal size.
func (a App) sizeCmd() tea.Cmd {
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

// Run starts the TUI.
func Run(deps views.Deps, history *History, version string) error {
	p := tea.NewProgram(NewApp(deps, history, version), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
