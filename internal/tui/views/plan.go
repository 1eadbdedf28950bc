package views

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/tourplan/internal/engine/assets"
	"github.com/rendis/tourplan/internal/engine/planner"
	"github.com/rendis/tourplan/internal/tui/styles"
)

// Field indices. fieldActivities and fieldCar are virtual fields (not a
// textinput).
const (
	fieldLocation = iota
	fieldRegion
	fieldBudget
	fieldActivities
	fieldMinStars
	fieldMaxStars
	fieldMaxAttractions
	fieldMaxHours
	fieldCar
	fieldCount
)

var fieldNames = map[int]string{
	fieldLocation:       planner.FieldLocation,
	fieldBudget:         planner.FieldBudget,
	fieldActivities:     planner.FieldActivities,
	fieldMaxStars:       planner.FieldHotelStars,
	fieldMaxAttractions: planner.FieldMaxAttractions,
	fieldMaxHours:       planner.FieldMaxTravelHours,
}

type PlanModel struct {
	planner *planner.Orchestrator
	inputs  []textinput.Model
	focused int

	categories []string
	selected   map[string]bool
	actCursor  int
	hasCar     bool

	regions     []string
	suggestions []string
	suggIdx     int

	errs planner.ValidationErrors
}

type optionsLoadedMsg struct{}

func NewPlanModel(o *planner.Orchestrator) PlanModel {
	inputs := make([]textinput.Model, fieldCount)
	inputs[fieldLocation] = newInput("Algiers, or 36.75, 3.06", "", 40)
	inputs[fieldRegion] = newInput("optional: wilaya", "", 30)
	inputs[fieldBudget] = newInput("50000", "", 12)
	inputs[fieldActivities] = textinput.New() // placeholder, never used
	inputs[fieldMinStars] = newInput("3", "", 3)
	inputs[fieldMaxStars] = newInput("5", "", 3)
	inputs[fieldMaxAttractions] = newInput("3", "", 3)
	inputs[fieldMaxHours] = newInput("8", "", 5)
	inputs[fieldCar] = textinput.New() // placeholder, never used
	inputs[fieldLocation].Focus()

	return PlanModel{
		planner:  o,
		inputs:   inputs,
		focused:  fieldLocation,
		selected: map[string]bool{},
		suggIdx:  -1,
	}
}

func newInput(placeholder, value string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	if width > 0 {
		ti.Width = width
	}
	if value != "" {
		ti.SetValue(value)
	}
	return ti
}

func (m PlanModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadOptions())
}

func (m PlanModel) loadOptions() tea.Cmd {
	o := m.planner
	return func() tea.Msg {
		// failures stay in the per-list loader state
		_ = o.Bootstrap(context.Background())
		return optionsLoadedMsg{}
	}
}

func (m PlanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case optionsLoadedMsg:
		m.categories = m.planner.Categories().Value
		m.regions = m.planner.Regions().Value
		return m, nil
	case tea.KeyMsg:
		key := msg.String()

		switch key {
		case "esc":
			return m, navigate(NavigateToHome{})

		case "ctrl+r":
			return m, m.loadOptions()

		case "up":
			if m.focused == fieldRegion && len(m.suggestions) > 0 && m.suggIdx > 0 {
				m.suggIdx--
				return m, nil
			}
			cmd := m.focusPrev()
			return m, cmd

		case "down":
			if m.focused == fieldRegion && len(m.suggestions) > 0 && m.suggIdx < len(m.suggestions)-1 {
				m.suggIdx++
				return m, nil
			}
			cmd := m.focusNext()
			return m, cmd

		case "tab":
			if m.focused == fieldRegion && len(m.suggestions) > 0 {
				m.selectSuggestion()
			}
			cmd := m.focusNext()
			return m, cmd

		case "shift+tab":
			cmd := m.focusPrev()
			return m, cmd

		case "enter":
			if m.focused == fieldRegion && len(m.suggestions) > 0 {
				m.selectSuggestion()
				cmd := m.focusNext()
				return m, cmd
			}
			cmd := m.submit()
			return m, cmd

		case "left":
			if m.focused == fieldActivities && m.actCursor > 0 {
				m.actCursor--
				return m, nil
			}

		case "right":
			if m.focused == fieldActivities && m.actCursor < len(m.categories)-1 {
				m.actCursor++
				return m, nil
			}

		case " ", "space":
			switch m.focused {
			case fieldActivities:
				if m.actCursor < len(m.categories) {
					c := m.categories[m.actCursor]
					m.selected[c] = !m.selected[c]
				}
				return m, nil
			case fieldCar:
				m.hasCar = !m.hasCar
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.focused != fieldActivities && m.focused != fieldCar {
		m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	}
	if m.focused == fieldRegion {
		m.updateSuggestions()
	}
	return m, cmd
}

func (m *PlanModel) selectSuggestion() {
	if m.suggIdx >= 0 && m.suggIdx < len(m.suggestions) {
		m.inputs[fieldRegion].SetValue(m.suggestions[m.suggIdx])
		m.suggestions = nil
		m.suggIdx = -1
	}
}

func (m *PlanModel) updateSuggestions() {
	raw := strings.TrimSpace(m.inputs[fieldRegion].Value())
	if raw == "" {
		m.suggestions = nil
		m.suggIdx = -1
		return
	}

	q := assets.Normalize(raw)
	var matches []string
	for _, r := range m.regions {
		if n := assets.Normalize(r); strings.Contains(n, q) && n != q {
			matches = append(matches, r)
			if len(matches) >= 5 {
				break
			}
		}
	}
	m.suggestions = matches
	if len(matches) == 0 {
		m.suggIdx = -1
	} else if m.suggIdx < 0 || m.suggIdx >= len(matches) {
		m.suggIdx = 0
	}
}

func (m *PlanModel) focusNext() tea.Cmd {
	return m.focusAt((m.focused + 1) % fieldCount)
}

func (m *PlanModel) focusPrev() tea.Cmd {
	return m.focusAt((m.focused - 1 + fieldCount) % fieldCount)
}

func (m *PlanModel) focusAt(idx int) tea.Cmd {
	m.inputs[m.focused].Blur()
	m.suggestions = nil
	m.focused = idx
	if idx == fieldActivities || idx == fieldCar {
		return nil
	}
	m.inputs[idx].Focus()
	return textinput.Blink
}

// Form collects the raw input for validation.
func (m PlanModel) Form() planner.Form {
	val := func(i int) string { return strings.TrimSpace(m.inputs[i].Value()) }
	return planner.Form{
		Location:       val(fieldLocation),
		Region:         val(fieldRegion),
		Budget:         val(fieldBudget),
		Activities:     m.SelectedActivities(),
		MinHotelStars:  val(fieldMinStars),
		MaxHotelStars:  val(fieldMaxStars),
		MaxAttractions: val(fieldMaxAttractions),
		MaxTravelHours: val(fieldMaxHours),
		HasCar:         m.hasCar,
	}
}

func (m *PlanModel) submit() tea.Cmd {
	draft, err := planner.Build(m.Form())
	var verrs planner.ValidationErrors
	if errors.As(err, &verrs) {
		m.errs = verrs
		return nil
	}
	m.errs = nil
	o := m.planner
	return navigate(StartGenerationMsg{Planner: o, Draft: draft})
}

func (m PlanModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Plan a Trip") + "\n\n")

	b.WriteString(m.renderField("Location:", fieldLocation))
	if w := planner.ClassifyLocation(m.inputs[fieldLocation].Value()).Warning(); w != "" {
		b.WriteString(styles.WarningText.Render("  "+w) + "\n")
	}
	b.WriteString(m.renderField("Region:", fieldRegion))
	if m.focused == fieldRegion && len(m.suggestions) > 0 {
		b.WriteString(m.renderSuggestions())
	}
	b.WriteString(m.renderLoadErr(m.planner.Regions().Err))
	b.WriteString(m.renderField("Budget (DZD):", fieldBudget))
	b.WriteString(m.renderActivities())
	b.WriteString(m.renderErrors(fieldActivities))

	b.WriteString("\n")
	b.WriteString(m.renderField("Min stars:", fieldMinStars))
	b.WriteString(m.renderField("Max stars:", fieldMaxStars))
	b.WriteString(m.renderField("Per day:", fieldMaxAttractions))
	if m.focused == fieldMaxAttractions {
		b.WriteString(styles.Hint.Render("  attractions per day, 1-10") + "\n")
	}
	b.WriteString(m.renderField("Travel hours:", fieldMaxHours))
	b.WriteString(m.renderCar())

	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("enter generate • tab next • space toggle • ctrl+r reload options • esc back"))

	return styles.Border.Render(b.String())
}

func (m PlanModel) renderField(label string, idx int) string {
	l := styles.Label.Render(label)
	if m.focused == idx {
		l = styles.Label.Foreground(styles.Primary).Render(label)
	}
	return fmt.Sprintf("%s %s\n", l, m.inputs[idx].View()) + m.renderErrors(idx)
}

func (m PlanModel) renderErrors(idx int) string {
	name, ok := fieldNames[idx]
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, fe := range m.errs.For(name) {
		sb.WriteString(styles.ErrorText.Render("  "+fe.Msg) + "\n")
	}
	return sb.String()
}

func (m PlanModel) renderLoadErr(err string) string {
	if err == "" {
		return ""
	}
	return styles.ErrorText.Render("  "+err) + "\n"
}

func (m PlanModel) renderSuggestions() string {
	var sb strings.Builder
	for i, s := range m.suggestions {
		if i == m.suggIdx {
			sb.WriteString(styles.ActiveItem.Render("  > " + s))
		} else {
			sb.WriteString(styles.InactiveItem.Render("    " + s))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m PlanModel) renderActivities() string {
	label := styles.Label.Render("Activities:")
	if m.focused == fieldActivities {
		label = styles.Label.Foreground(styles.Primary).Render("Activities:")
	}

	cats := m.planner.Categories()
	switch {
	case cats.Phase == planner.Loading && len(m.categories) == 0:
		return label + " " + styles.Hint.Render("loading...") + "\n"
	case cats.Err != "" && len(m.categories) == 0:
		return label + " " + styles.ErrorText.Render(cats.Err) + "\n"
	}

	var chips []string
	for i, c := range m.categories {
		box := "[ ]"
		if m.selected[c] {
			box = "[x]"
		}
		style := styles.InactiveItem
		if m.selected[c] {
			style = lipgloss.NewStyle().Foreground(styles.Success)
		}
		if m.focused == fieldActivities && i == m.actCursor {
			style = styles.ActiveItem
		}
		chips = append(chips, style.Render(box+" "+c))
	}
	line := label + " " + strings.Join(chips, "  ")
	if m.focused == fieldActivities {
		line += lipgloss.NewStyle().Foreground(styles.Secondary).Render(" ←→")
	}
	return line + "\n"
}

func (m PlanModel) renderCar() string {
	label := styles.Label.Render("Own a car:")
	if m.focused == fieldCar {
		label = styles.Label.Foreground(styles.Primary).Render("Own a car:")
	}
	v := "no"
	if m.hasCar {
		v = "yes"
	}
	return label + " " + styles.Value.Render(v) + "\n"
}

// SelectedActivities lists the ticked categories in display order.
func (m PlanModel) SelectedActivities() []string {
	return slices.DeleteFunc(slices.Clone(m.categories), func(c string) bool { return !m.selected[c] })
}
