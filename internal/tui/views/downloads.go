package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/tourplan/internal/engine/export"
	"github.com/rendis/tourplan/internal/tui/styles"
)

type DownloadEntry struct {
	Path    string
	Format  export.Format
	SavedAt time.Time
}

// DownloadsModel lists recently written itinerary files.
type DownloadsModel struct {
	entries   []DownloadEntry
	cursor    int
	clipboard export.Clipboard
	notice    string
	noticeErr bool
}

func NewDownloadsModel(entries []DownloadEntry, cb export.Clipboard) DownloadsModel {
	return DownloadsModel{entries: entries, clipboard: cb}
}

func (m DownloadsModel) Init() tea.Cmd {
	return nil
}

func (m DownloadsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "enter", "c":
			if m.cursor < len(m.entries) && m.clipboard != nil {
				path := m.entries[m.cursor].Path
				if err := m.clipboard.WriteText(path); err != nil {
					m.notice = "Could not copy: " + err.Error()
					m.noticeErr = true
				} else {
					m.notice = "Copied " + path
					m.noticeErr = false
				}
			}
		case "esc", "q":
			return m, navigate(NavigateToHome{})
		}
	}
	return m, nil
}

func (m DownloadsModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Downloads"))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("Nothing downloaded yet"))
		b.WriteString("\n\n")
		b.WriteString(styles.StatusBar.Render("esc back"))
		return styles.Border.Render(b.String())
	}

	for i, e := range m.entries {
		cursor := "  "
		style := styles.InactiveItem
		if i == m.cursor {
			cursor = "> "
			style = styles.ActiveItem
		}

		name := style.Render(filepath.Base(e.Path))
		if _, err := os.Stat(e.Path); os.IsNotExist(err) {
			name = lipgloss.NewStyle().Foreground(styles.Error).Strikethrough(true).Render(filepath.Base(e.Path))
		}
		meta := lipgloss.NewStyle().Foreground(styles.Muted).Render(
			fmt.Sprintf("  %s  %s  %s", e.Format, filepath.Dir(e.Path), timeAgo(e.SavedAt)))

		b.WriteString(fmt.Sprintf("%s%s\n%s\n", cursor, name, meta))
	}

	b.WriteString("\n")
	if m.notice != "" {
		if m.noticeErr {
			b.WriteString(styles.ErrorText.Render(m.notice))
		} else {
			b.WriteString(styles.SuccessText.Render(m.notice))
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.StatusBar.Render("enter copy path • esc back"))

	return styles.Border.Render(b.String())
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
