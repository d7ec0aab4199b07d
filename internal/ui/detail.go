package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/cwlogs/internal/extract"
	"github.com/five82/cwlogs/internal/model"
)

// detailContent renders the full record of ev for the detail viewport:
// metadata, extracted fields and the message, indented when it is JSON.
func (m Model) detailContent(ev model.LogEvent, width int, bgColor string) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(bgColor)
	labelStyle := styles.MutedText
	valueStyle := styles.Text

	row := func(label, value string) string {
		return bg.Render(padRight(label, 11), labelStyle) + bg.Render(value, valueStyle)
	}

	var lines []string
	if !ev.Timestamp.IsZero() {
		lines = append(lines, row("Timestamp", ev.Timestamp.UTC().Format(time.RFC3339Nano)))
	}
	if !ev.Ingested.IsZero() {
		lines = append(lines, row("Ingested", ev.Ingested.UTC().Format(time.RFC3339Nano)))
	}
	if ev.Stream != "" {
		lines = append(lines, row("Stream", ev.Stream))
	}
	if ev.ID != "" {
		lines = append(lines, row("Event ID", ev.ID))
	}

	if fields := m.extractor.Fields(ev.Message); len(fields) > 0 {
		lines = append(lines, "")
		for _, f := range fields {
			switch {
			case f.Err != nil:
				lines = append(lines, bg.Render(padRight(f.Name, 11), labelStyle)+bg.Render(f.Err.Error(), styles.DangerText))
			case f.Value == "":
				lines = append(lines, bg.Render(padRight(f.Name, 11), labelStyle)+bg.Render("-", styles.FaintText))
			default:
				lines = append(lines, bg.Render(padRight(f.Name, 11), labelStyle)+bg.Render(f.Value, styles.AccentText))
			}
		}
	}

	lines = append(lines, bg.Render(strings.Repeat("─", max(width, 1)), styles.FaintText))
	message, _ := extract.Pretty(ev.Message)
	wrap := lipgloss.NewStyle().Width(max(width, 1))
	for _, l := range strings.Split(wrap.Render(message), "\n") {
		lines = append(lines, bg.Render(l, valueStyle))
	}
	return strings.Join(lines, "\n")
}

// refreshDetail reloads the detail viewport when the selected event changed.
func (m *Model) refreshDetail() {
	ev, ok := m.events.selected()
	key := ""
	if ok && !ev.IsMore() {
		key = ev.Key()
	}
	if key == m.detailKey && m.detailTheme == m.theme.Name {
		return
	}
	m.detailKey = key
	m.detailTheme = m.theme.Name
	if key == "" {
		m.detail.SetContent("")
		return
	}
	m.detail.SetContent(m.detailContent(ev, m.detail.Width, m.theme.SurfaceAlt))
	m.detail.GotoTop()
}
