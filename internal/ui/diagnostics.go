package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/cwlogs/internal/logtail"
)

// diagnosticsLines bounds the number of log lines read for the overlay.
const diagnosticsLines = 200

// diagnosticsMsg carries the application log tail read off the UI goroutine.
type diagnosticsMsg struct {
	entries []logtail.Entry
	err     error
}

// loadDiagnosticsCmd reads the tail of the application log file.
func loadDiagnosticsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, diagnosticsLines)
		if err != nil {
			return diagnosticsMsg{err: err}
		}
		entries := make([]logtail.Entry, 0, len(lines))
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			entries = append(entries, logtail.Parse(line))
		}
		return diagnosticsMsg{entries: entries}
	}
}

// renderDiagnostics renders the log tail overlay, newest lines at the bottom.
func (m Model) renderDiagnostics() string {
	styles := m.theme.Styles()
	width := max(m.width-4, 20)
	height := max(m.height-2, 5)
	inner := width - 2
	rows := height - 2

	var lines []string
	switch {
	case m.logFile == "":
		lines = []string{styles.MutedText.Render("Logging to file is disabled (log_file is empty).")}
	case m.diagErr != nil:
		lines = []string{styles.DangerText.Render("read " + m.logFile + ": " + m.diagErr.Error())}
	case len(m.diagEntries) == 0:
		lines = []string{styles.MutedText.Render("No log entries in " + m.logFile)}
	default:
		start := max(len(m.diagEntries)-rows, 0)
		for _, e := range m.diagEntries[start:] {
			text := truncate(e.String(), inner)
			if e.Level == "" {
				lines = append(lines, styles.Text.Render(text))
				continue
			}
			lines = append(lines, styles.LevelStyle(e.Level).Render(text))
		}
	}

	box := m.renderTitledBox("Diagnostics: "+truncate(m.logFile, inner-16), strings.Join(lines, "\n"), width, height, true)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
