package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: mode, window, counts, fetch activity
// and the last error.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("cwlogs", styles.Logo)}

	mode := m.events.machine.Mode().String()
	parts = append(parts,
		bg.Render("Mode ", styles.MutedText)+bg.Render(mode, styles.AccentText),
		bg.Render(m.events.windowLabel(), styles.MutedText))

	groups := 0
	for _, g := range m.menu.source {
		if !g.IsMore() {
			groups++
		}
	}
	events := 0
	for _, ev := range m.events.rows().Items() {
		if !ev.IsMore() {
			events++
		}
	}
	counts := fmt.Sprintf("%d groups · %d events", groups, events)
	if m.events.pagedToken && !m.events.tailing() {
		counts += "+"
	}
	parts = append(parts, bg.Render(counts, styles.Text))

	if m.fetching() {
		parts = append(parts, bg.Render(m.spinner.View()+" fetching", styles.InfoText))
	}

	snap := m.activeSnapshot()
	switch {
	case snap.IsOffline():
		parts = append(parts, bg.Render("offline: "+errText(snap.LastError), styles.DangerText))
	case snap.LastError != nil:
		parts = append(parts, bg.Render("error: "+errText(snap.LastError), styles.WarningText))
	}

	left := bg.Join(parts, "  ")
	right := bg.Render(m.theme.Name, styles.FaintText)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	line := left + bg.Render(strings.Repeat(" ", gap), styles.Text) + right
	return styles.Header.Width(m.width).Render(line)
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	h := m.help
	h.Width = max(m.width-2, 0)
	return styles.Footer.Width(m.width).Render(h.View(m.keys))
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return truncate(msg, 80)
}
