package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/tourplan/internal/engine/planner"
	"github.com/rendis/tourplan/internal/model"
	"github.com/rendis/tourplan/internal/tui/styles"
)

type menuItem struct {
	key   string
	label string
	desc  string
	msg   tea.Msg
}

type HomeModel struct {
	items   []menuItem
	cursor  int
	planner *planner.Orchestrator
	version string
}

type healthCheckedMsg struct {
	health *model.Health
	err    error
}

func NewHomeModel(deps Deps, version string) HomeModel {
	return HomeModel{
		items: []menuItem{
			{key: "p", label: "Plan a Trip", desc: "Generate a new itinerary", msg: NavigateToPlan{}},
			{key: "r", label: "Last Itinerary", desc: "Open the most recent itinerary", msg: NavigateToResults{}},
			{key: "a", label: "Attractions", desc: "Browse places to visit", msg: NavigateToCatalog{Kind: CatalogAttractions}},
			{key: "h", label: "Hotels", desc: "Browse places to stay", msg: NavigateToCatalog{Kind: CatalogHotels}},
			{key: "d", label: "Downloads", desc: "Recently exported itineraries", msg: NavigateToDownloads{}},
			{key: "q", label: "Quit", desc: "Exit tourplan"},
		},
		planner: deps.NewPlanner(),
		version: version,
	}
}

func (m HomeModel) Init() tea.Cmd {
	o := m.planner
	return func() tea.Msg {
		h, err := o.CheckHealth(context.Background())
		return healthCheckedMsg{health: h, err: err}
	}
}

func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case healthCheckedMsg:
		return m, nil
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			return m, m.handleSelect()
		default:
			for i, item := range m.items {
				if item.key == key {
					m.cursor = i
					return m, m.handleSelect()
				}
			}
		}
	}
	return m, nil
}

func (m HomeModel) handleSelect() tea.Cmd {
	item := m.items[m.cursor]
	if item.msg == nil {
		return tea.Quit
	}
	return navigate(item.msg)
}

func (m HomeModel) View() string {
	var b strings.Builder

	logo := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Render("  tourplan")

	version := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Render(" " + m.version)

	tagline := lipgloss.NewStyle().
		Foreground(styles.Secondary).
		Italic(true).
		Render("  Your Algeria trip, day by day")

	b.WriteString(logo + version + "\n")
	b.WriteString(tagline + "\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := styles.InactiveItem
		if i == m.cursor {
			cursor = "> "
			style = styles.ActiveItem
		}

		key := lipgloss.NewStyle().
			Foreground(styles.Secondary).
			Bold(true).
			Render(fmt.Sprintf("[%s]", item.key))

		label := style.Render(item.label)
		desc := lipgloss.NewStyle().
			Foreground(styles.Muted).
			Render(" - " + item.desc)

		b.WriteString(fmt.Sprintf("%s%s %s%s\n", cursor, key, label, desc))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHealth())
	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("↑↓ navigate • enter select • q quit"))

	return styles.Border.Render(b.String())
}

func (m HomeModel) renderHealth() string {
	st := m.planner.Health()
	switch st.Phase {
	case planner.Loading:
		return styles.Hint.Render("checking planning service...")
	case planner.LoadFailed:
		return styles.ErrorText.Render("Planning service unreachable: " + st.Err)
	case planner.Loaded:
		h := st.Value
		if h == nil {
			return ""
		}
		return styles.SuccessText.Render("● ") + styles.Hint.Render(fmt.Sprintf(
			"service %s, %d attractions, %d hotels, v%s",
			h.Status, h.AttractionsLoaded, h.HotelsLoaded, h.Version))
	}
	return ""
}
