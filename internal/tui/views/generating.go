package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/tourplan/internal/engine/export"
	"github.com/rendis/tourplan/internal/engine/planner"
	"github.com/rendis/tourplan/internal/model"
	"github.com/rendis/tourplan/internal/tui/styles"
)

// GeneratingModel waits for the planning service.
type GeneratingModel struct {
	planner     *planner.Orchestrator
	draft       planner.Draft
	spinner     spinner.Model
	startTime   time.Time
	failed      bool
	err         string
	confirmQuit bool
	attempt     int
}

type elapsedTickMsg struct{ attempt int }

type generationDoneMsg struct {
	it  *model.ItineraryResponse
	err error
}

func NewGeneratingModel(msg StartGenerationMsg) GeneratingModel {
	s := spinner.New()
	s.Spinner = spinner.Globe
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)
	return GeneratingModel{
		planner:   msg.Planner,
		draft:     msg.Draft,
		spinner:   s,
		startTime: time.Now(),
	}
}

func (m GeneratingModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.generate(), elapsedTick(m.attempt))
}

func elapsedTick(attempt int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return elapsedTickMsg{attempt: attempt}
	})
}

func (m GeneratingModel) generate() tea.Cmd {
	o := m.planner
	req := m.draft.Request
	return func() tea.Msg {
		it, err := o.Generate(context.Background(), req)
		return generationDoneMsg{it: it, err: err}
	}
}

func (m GeneratingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.planner.Close()
			return m, tea.Quit
		case "esc":
			if m.failed {
				m.planner.ClearError()
				return m, navigate(NavigateToPlan{Resume: true})
			}
			if m.confirmQuit {
				// the late response is discarded by the closed planner
				m.planner.Close()
				return m, navigate(NavigateToHome{})
			}
			m.confirmQuit = true
			return m, nil
		case "enter", "r":
			if m.failed {
				m.planner.ClearError()
				m.failed = false
				m.err = ""
				m.startTime = time.Now()
				m.attempt++
				return m, tea.Batch(m.spinner.Tick, m.generate(), elapsedTick(m.attempt))
			}
			if m.confirmQuit {
				m.confirmQuit = false
				return m, nil
			}
		}
		if m.confirmQuit {
			m.confirmQuit = false
		}
	case elapsedTickMsg:
		if m.failed || msg.attempt != m.attempt {
			return m, nil
		}
		return m, elapsedTick(m.attempt)
	case generationDoneMsg:
		switch {
		case errors.Is(msg.err, planner.ErrClosed), errors.Is(msg.err, planner.ErrGenerationInFlight):
			return m, nil
		case msg.err != nil:
			m.failed = true
			m.err = m.planner.State().Err
			if m.err == "" {
				m.err = msg.err.Error()
			}
			return m, nil
		}
		return m, navigate(NavigateToResults{Itinerary: msg.it})
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m GeneratingModel) View() string {
	var b strings.Builder
	req := m.draft.Request

	b.WriteString(styles.Title.Render(fmt.Sprintf("Planning your trip from %s", req.Location)))
	b.WriteString("\n\n")

	label := lipgloss.NewStyle().Foreground(styles.Muted).Width(14)
	val := lipgloss.NewStyle().Foreground(styles.Text).Bold(true)
	row := func(l, v string) {
		b.WriteString(label.Render(l) + val.Render(v) + "\n")
	}
	row("Region:", req.Wilaya)
	row("Budget:", export.FormatCurrency(req.Budget))
	row("Activities:", strings.Join(req.Activities, ", "))
	if req.HasCar {
		row("Transport:", "own car")
	}
	if w := m.draft.Location.Warning(); w != "" {
		b.WriteString(styles.WarningText.Render(w) + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.failed:
		b.WriteString(styles.ErrorText.Render("Error: " + m.err))
		b.WriteString("\n\n")
		b.WriteString(styles.StatusBar.Render("enter retry • esc edit request"))
	case m.confirmQuit:
		b.WriteString(styles.ErrorText.Render("Press ESC again to abandon this itinerary"))
		b.WriteString("\n")
		b.WriteString(styles.StatusBar.Render("esc confirm • any key continue"))
	default:
		elapsed := time.Since(m.startTime).Truncate(time.Second)
		b.WriteString(m.spinner.View() + " Generating itinerary... " +
			lipgloss.NewStyle().Foreground(styles.Muted).Render(elapsed.String()))
		b.WriteString("\n")
		b.WriteString(styles.StatusBar.Render("esc cancel • ctrl+c quit"))
	}

	return styles.Border.Render(b.String())
}
