package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/tourplan/internal/engine/export"
	"github.com/rendis/tourplan/internal/engine/geo"
	"github.com/rendis/tourplan/internal/engine/planner"
	"github.com/rendis/tourplan/internal/engine/present"
	"github.com/rendis/tourplan/internal/model"
	"github.com/rendis/tourplan/internal/tui/components"
	"github.com/rendis/tourplan/internal/tui/styles"
)

const redirectAfter = 2 * time.Second

type resultsFocus int

const (
	focusCards resultsFocus = iota
	focusMap
)

// ResultsModel shows a generated itinerary: summary, one card per day, the
// map and the export actions.
type ResultsModel struct {
	deps    Deps
	planner *planner.Orchestrator
	initial *model.ItineraryResponse

	loading bool
	err     error
	it      *model.ItineraryResponse
	summary present.Summary
	cards   []present.DayCard
	day     int
	mapView components.MapView
	mapErr  error
	focus   resultsFocus

	download     *export.Action
	share        *export.Action
	lastDownload string
	shareResult  export.ShareOutcome

	width  int
	height int
}

type resultsLoadedMsg struct {
	it  *model.ItineraryResponse
	err error
}

type redirectMsg struct{}

type downloadDoneMsg struct {
	path   string
	format export.Format
	err    error
}

type shareDoneMsg struct {
	outcome export.ShareOutcome
	err     error
}

// settledMsg re-renders once a transient action state may have reverted.
type settledMsg struct{}

type clearedMsg struct{ err error }

func NewResultsModel(deps Deps, it *model.ItineraryResponse) ResultsModel {
	return ResultsModel{
		deps:     deps,
		planner:  deps.NewPlanner(),
		initial:  it,
		loading:  true,
		mapView:  components.NewMapView(40, 14),
		download: &export.Action{},
		share:    &export.Action{},
	}
}

func (m ResultsModel) Init() tea.Cmd {
	delay := m.deps.ResultsDelay
	if m.initial != nil {
		it := m.initial
		if delay <= 0 {
			return func() tea.Msg { return resultsLoadedMsg{it: it} }
		}
		return tea.Tick(delay, func(time.Time) tea.Msg { return resultsLoadedMsg{it: it} })
	}
	src := m.deps.Handoff
	return func() tea.Msg {
		it, err := present.Load(context.Background(), src, delay)
		return resultsLoadedMsg{it: it, err: err}
	}
}

func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case resultsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			if errors.Is(msg.err, present.ErrNoItinerary) {
				return m, tea.Tick(redirectAfter, func(time.Time) tea.Msg { return redirectMsg{} })
			}
			m.deps.Log.Error().Err(msg.err).Msg("loading itinerary")
			return m, nil
		}
		m.it = msg.it
		m.summary, m.cards = present.Cards(msg.it)
		scene, err := geo.Build(msg.it)
		m.mapErr = err
		if err == nil {
			m.mapView.SetScene(scene)
		}
		m.layout()
		return m, nil

	case redirectMsg:
		return m, navigate(NavigateToPlan{})

	case downloadDoneMsg:
		m.download.Finish(msg.err, time.Now())
		if msg.err != nil {
			m.deps.Log.Error().Err(msg.err).Str("format", string(msg.format)).Msg("download failed")
		} else {
			m.lastDownload = msg.path
			if m.deps.OnDownload != nil {
				m.deps.OnDownload(msg.path, msg.format)
			}
		}
		return m, settleCmd()

	case shareDoneMsg:
		m.share.Finish(msg.err, time.Now())
		m.shareResult = msg.outcome
		if msg.err != nil {
			m.deps.Log.Error().Err(msg.err).Msg("share failed")
		}
		return m, settleCmd()

	case settledMsg:
		return m, nil

	case clearedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, navigate(NavigateToPlan{})

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m ResultsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc", "q":
		return m, navigate(NavigateToHome{})
	case "tab":
		if m.focus == focusCards {
			m.focus = focusMap
		} else {
			m.focus = focusCards
		}
		return m, nil
	}
	if m.it == nil {
		return m, nil
	}

	switch key {
	case "d":
		return m, m.startDownload(export.FormatText)
	case "p":
		return m, m.startDownload(export.FormatPDF)
	case "g":
		return m, m.startDownload(export.FormatGeoJSON)
	case "s":
		return m, m.startShare()
	case "n":
		o := m.planner
		return m, func() tea.Msg {
			return clearedMsg{err: o.GenerateNew(context.Background())}
		}
	}

	if m.focus == focusMap {
		switch key {
		case "]":
			m.mapView.SelectNext(1)
		case "[":
			m.mapView.SelectNext(-1)
		case "+", "=":
			m.mapView.ZoomIn()
		case "-":
			m.mapView.ZoomOut()
		case "0":
			m.mapView.ZoomReset()
		case "up", "k":
			m.mapView.Pan(1, 0)
		case "down", "j":
			m.mapView.Pan(-1, 0)
		case "left", "h":
			m.mapView.Pan(0, -1)
		case "right", "l":
			m.mapView.Pan(0, 1)
		}
		return m, nil
	}

	switch key {
	case "left", "h":
		if m.day > 0 {
			m.day--
		}
	case "right", "l":
		if m.day < len(m.cards)-1 {
			m.day++
		}
	}
	return m, nil
}

func (m ResultsModel) startDownload(f export.Format) tea.Cmd {
	if !m.download.Begin() {
		return nil
	}
	d, it := m.deps.Downloader, m.it
	return func() tea.Msg {
		path, err := d.Save(context.Background(), f, it)
		return downloadDoneMsg{path: path, format: f, err: err}
	}
}

func (m ResultsModel) startShare() tea.Cmd {
	if !m.share.Begin() {
		return nil
	}
	host, it := m.deps.Share, m.it
	return func() tea.Msg {
		out, err := export.Share(context.Background(), host, it)
		return shareDoneMsg{outcome: out, err: err}
	}
}

func settleCmd() tea.Cmd {
	return tea.Tick(export.SettleFor, func(time.Time) tea.Msg { return settledMsg{} })
}

func (m *ResultsModel) layout() {
	if m.width <= 0 {
		return
	}
	w := max(m.width/2-6, 20)
	h := max(m.height-18, 8)
	m.mapView.SetSize(w, h)
}

func (m ResultsModel) View() string {
	switch {
	case m.loading:
		return styles.Border.Render(styles.Hint.Render("Loading your itinerary..."))
	case errors.Is(m.err, present.ErrNoItinerary):
		return styles.Border.Render(
			styles.ErrorText.Render("No itinerary found.") + "\n" +
				styles.Hint.Render("Taking you to the planner..."))
	case m.it == nil:
		msg := "Something went wrong"
		if m.err != nil {
			msg = m.err.Error()
		}
		return styles.Border.Render(styles.ErrorText.Render(msg) + "\n\n" + styles.StatusBar.Render("esc back"))
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(m.summary.Title))
	b.WriteString("\n")
	b.WriteString(styles.Value.Render(m.summary.Summary))
	b.WriteString("\n\n")

	var stats []string
	for _, s := range m.summary.Stats {
		stats = append(stats, styles.Stat(s.Label+":", s.Value))
	}
	b.WriteString(strings.Join(stats, "   "))
	b.WriteString("\n\n")

	left := m.renderCard()
	right := m.renderMap()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")

	b.WriteString(m.renderActions())
	b.WriteString("\n")
	status := "←→ day • tab map • d text • p pdf • g geojson • s share • n new itinerary • esc back"
	if m.focus == focusMap {
		status = "[ ] marker • +/- zoom • arrows pan • 0 reset • tab days • esc back"
	}
	b.WriteString(styles.StatusBar.Render(status))
	return b.String()
}

func (m ResultsModel) renderCard() string {
	if len(m.cards) == 0 {
		return ""
	}
	c := m.cards[m.day]
	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render(c.Heading) + "\n")
	sb.WriteString(styles.Hint.Render(c.Location) + "\n")
	var stats []string
	for _, s := range c.Stats {
		stats = append(stats, styles.Stat(s.Label+":", s.Value))
	}
	sb.WriteString(strings.Join(stats, "  ") + "\n\n")

	for _, a := range c.Activities {
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Secondary).Render(a.Time) + " ")
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render(a.Title))
		sb.WriteString(styles.Hint.Render(" (" + a.Category + ")"))
		sb.WriteString("\n   " + styles.Hint.Render(a.Details) + "\n")
	}
	sb.WriteString("\n")
	if c.Stay != "" {
		sb.WriteString(styles.Stat("Stay:", c.Stay))
	} else {
		sb.WriteString(styles.Hint.Render("No hotel found for this day"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(styles.Hint.Render(fmt.Sprintf("day %d of %d", m.day+1, len(m.cards))))

	border := styles.Card
	if m.focus == focusCards {
		border = border.BorderForeground(styles.Primary)
	}
	return border.Width(max(m.width/2-4, 40)).Render(sb.String())
}

func (m ResultsModel) renderMap() string {
	border := styles.Card
	if m.focus == focusMap {
		border = border.BorderForeground(styles.Primary)
	}
	if m.mapErr != nil {
		return border.Render(styles.Hint.Render(m.mapErr.Error()))
	}

	var sb strings.Builder
	sb.WriteString(m.mapView.View())
	sb.WriteString("\n")
	sb.WriteString(m.mapView.Legend())
	scene := m.mapView.Scene()
	sb.WriteString("\n" + styles.Hint.Render(fmt.Sprintf("%d stops, %.1f km of routes", len(scene.Markers), scene.TotalKm())))

	if mk, ok := m.mapView.Selected(); ok {
		sb.WriteString("\n\n" + renderPopup(mk.Popup()))
	}
	return border.Render(sb.String())
}

func renderPopup(p geo.Popup) string {
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(p.Title))
	sb.WriteString(styles.Hint.Render(fmt.Sprintf("  day %d", p.Day)))
	if p.Subtitle != "" {
		sb.WriteString("\n" + styles.Hint.Render(p.Subtitle))
	}
	for _, l := range p.Lines {
		sb.WriteString("\n" + l)
	}
	if len(p.Amenities) > 0 {
		line := "Amenities: " + strings.Join(p.Amenities, ", ")
		if p.MoreAmenities > 0 {
			line += fmt.Sprintf(" +%d more", p.MoreAmenities)
		}
		sb.WriteString("\n" + line)
	}
	return sb.String()
}

func (m ResultsModel) renderActions() string {
	now := time.Now()
	var parts []string

	switch m.download.State(now) {
	case export.InProgress:
		parts = append(parts, styles.Hint.Render("Downloading..."))
	case export.Succeeded:
		parts = append(parts, styles.SuccessText.Render("Downloaded "+m.lastDownload))
	case export.Failed:
		parts = append(parts, styles.ErrorText.Render("Download failed"))
	}

	switch m.share.State(now) {
	case export.InProgress:
		parts = append(parts, styles.Hint.Render("Sharing..."))
	case export.Succeeded:
		if m.shareResult == export.Copied {
			parts = append(parts, styles.SuccessText.Render("Link copied to clipboard"))
		} else {
			parts = append(parts, styles.SuccessText.Render("Shared"))
		}
	case export.Failed:
		parts = append(parts, styles.ErrorText.Render("Share failed"))
	}
	return strings.Join(parts, "   ")
}
