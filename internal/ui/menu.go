package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/cwlogs/internal/model"
	"github.com/five82/cwlogs/internal/paging"
	"github.com/five82/cwlogs/internal/state"
)

type menuIntent int

const (
	menuNone menuIntent = iota
	menuOpen
	menuMore
)

// menuState is the log group list with its incremental name filter.
type menuState struct {
	rows   *paging.Collection[model.LogGroup]
	offset int
	query  string

	// Last applied snapshot fields.
	source   []model.LogGroup
	hasToken bool
	fetching bool
}

func newMenuState() menuState {
	return menuState{rows: paging.New(paging.Wrap, model.MoreLogGroup)}
}

// apply rebuilds the projection when snap differs from the last applied one.
func (s *menuState) apply(snap state.Snapshot) bool {
	if paging.IsSame(s.source, snap.Groups) &&
		s.hasToken == snap.GroupsHasToken &&
		s.fetching == snap.GroupsFetching {
		return false
	}
	s.source = snap.Groups
	s.hasToken = snap.GroupsHasToken
	s.fetching = snap.GroupsFetching
	s.project()
	return true
}

// project filters source by the query, keeping the selected group when it
// survives the filter.
func (s *menuState) project() {
	prev, hadPrev := s.rows.Selected()
	filtered := filterGroups(s.source, s.query)
	s.rows.Replace(filtered, nil)
	if hadPrev {
		for i, g := range filtered {
			if g.Key() == prev.Key() {
				s.rows.Select(i)
				return
			}
		}
	}
	if len(filtered) > 0 {
		s.rows.Select(0)
	}
}

func filterGroups(groups []model.LogGroup, query string) []model.LogGroup {
	if query == "" {
		return groups
	}
	q := strings.ToLower(query)
	out := make([]model.LogGroup, 0, len(groups))
	for _, g := range groups {
		if g.IsMore() || strings.Contains(strings.ToLower(g.Name), q) {
			out = append(out, g)
		}
	}
	return out
}

// title is the menu box title: the query in brackets and a fetch marker.
func (s *menuState) title() string {
	title := "Log Groups"
	if s.query != "" {
		title += " [" + s.query + "]"
	}
	if s.fetching {
		title += " Fetching ..."
	}
	return title
}

// selected returns the highlighted group.
func (s *menuState) selected() (model.LogGroup, bool) {
	return s.rows.Selected()
}

// handleKey applies a key to the menu. Printable keys edit the name filter.
func (s *menuState) handleKey(msg tea.KeyMsg, keys keyMap) (menuIntent, bool) {
	if msg.Type == tea.KeyRunes && !msg.Alt {
		s.query += string(msg.Runes)
		s.project()
		return menuNone, true
	}
	switch {
	case key.Matches(msg, keys.Up):
		s.rows.Previous()
		return menuNone, true
	case key.Matches(msg, keys.Down):
		s.rows.Next()
		return menuNone, true
	case key.Matches(msg, keys.Backspace):
		if r := []rune(s.query); len(r) > 0 {
			s.query = string(r[:len(r)-1])
			s.project()
		}
		return menuNone, true
	case key.Matches(msg, keys.Escape):
		if s.query == "" {
			return menuNone, false
		}
		s.query = ""
		s.project()
		return menuNone, true
	case key.Matches(msg, keys.Confirm):
		g, ok := s.rows.Selected()
		switch {
		case !ok:
			return menuNone, true
		case g.IsMore():
			return menuMore, true
		default:
			return menuOpen, true
		}
	}
	return menuNone, false
}

// render draws the visible part of the list.
func (s *menuState) render(m Model, width, height int, bgColor string) string {
	items := s.rows.Items()
	if len(items) == 0 {
		msg := "No log groups"
		if s.fetching {
			msg = "Loading log groups..."
		} else if s.query != "" {
			msg = "No match for " + s.query
		}
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(bgColor)).
			Render(msg)
	}

	selected := s.rows.SelectedIndex()
	end := min(len(items), s.offset+height)
	lines := make([]string, 0, end-s.offset)
	for i := s.offset; i < end; i++ {
		g := items[i]
		label := truncate(g.Label(), width-1)
		if i == selected {
			lines = append(lines, lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText)).
				Width(width).
				Render(" "+label))
			continue
		}
		fg := m.theme.Text
		if g.IsMore() {
			fg = m.theme.Accent
		}
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(bgColor)).
			Foreground(lipgloss.Color(fg)).
			Width(width).
			Render(" "+label))
	}
	return strings.Join(lines, "\n")
}
