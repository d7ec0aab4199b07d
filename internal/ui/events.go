package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/cwlogs/internal/model"
	"github.com/five82/cwlogs/internal/paging"
	"github.com/five82/cwlogs/internal/search"
	"github.com/five82/cwlogs/internal/state"
)

// stepRows is the distance of a shifted move.
const stepRows = 10

type eventsIntent int

const (
	eventsNone eventsIntent = iota
	eventsMore
	eventsRequery
	eventsBack
)

type inputMode int

const (
	inputNone inputMode = iota
	inputFilter
	inputRange
)

// eventsState is the event table of the selected log group, with its filter
// pattern and search window.
type eventsState struct {
	group      string
	groupBytes int64
	filter     string
	machine    search.Machine

	paged  *paging.Collection[model.LogEvent]
	tail   *paging.Collection[model.LogEvent]
	offset int

	input     textinput.Model
	inputMode inputMode
	inputErr  string

	// Last applied snapshot fields.
	pagedSource   []model.LogEvent
	pagedToken    bool
	pagedFetching bool
	tailSource    []model.LogEvent
	tailSelected  int
}

func newEventsState() eventsState {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 512
	return eventsState{
		paged:        paging.New(paging.Clamp, model.MoreLogEvent),
		tail:         paging.New(paging.Clamp, model.MoreLogEvent),
		input:        ti,
		tailSelected: paging.NoSelection,
	}
}

func (s *eventsState) tailing() bool {
	return s.machine.Mode() == search.Tail
}

// rows returns the collection shown for the active mode.
func (s *eventsState) rows() *paging.Collection[model.LogEvent] {
	if s.tailing() {
		return s.tail
	}
	return s.paged
}

// selected returns the highlighted event.
func (s *eventsState) selected() (model.LogEvent, bool) {
	return s.rows().Selected()
}

// query builds the store query of the current group, filter and window.
func (s *eventsState) query(now time.Time) state.Query {
	start, end := s.machine.Window(now)
	return state.Query{
		LogGroup: s.group,
		Filter:   s.filter,
		Mode:     s.machine.Mode(),
		Start:    start,
		End:      end,
	}
}

// resetPaged drops the local projection so the next snapshot rebuilds it.
func (s *eventsState) resetPaged() {
	s.paged.Clear()
	s.pagedSource = nil
	s.pagedToken = false
	s.pagedFetching = false
	s.offset = 0
}

// resetTail drops the tail projection so the next snapshot rebuilds it.
func (s *eventsState) resetTail() {
	s.tail.Clear()
	s.tailSource = nil
	s.tailSelected = paging.NoSelection
	s.offset = 0
}

// applyPaged rebuilds the paged projection when snap differs from the last
// applied one. Token presence is compared too: a page that fills the
// sentinel slot keeps the length and the edge keys of the previous set.
func (s *eventsState) applyPaged(snap state.Snapshot) bool {
	if paging.IsSame(s.pagedSource, snap.Events) &&
		s.pagedToken == snap.EventsHasToken &&
		s.pagedFetching == snap.EventsFetching {
		return false
	}
	s.pagedSource = snap.Events
	s.pagedToken = snap.EventsHasToken
	s.pagedFetching = snap.EventsFetching
	s.paged.Replace(snap.Events, nil)
	if s.paged.SelectedIndex() == paging.NoSelection && s.paged.Len() > 0 {
		s.paged.Select(0)
	}
	return true
}

// applyTail mirrors the tail store, including its worker-driven selection.
func (s *eventsState) applyTail(snap state.Snapshot) bool {
	if paging.IsSame(s.tailSource, snap.Events) && s.tailSelected == snap.EventSelected {
		return false
	}
	s.tailSource = snap.Events
	s.tailSelected = snap.EventSelected
	s.tail.Replace(snap.Events, nil)
	s.tail.Select(snap.EventSelected)
	return true
}

func (s *eventsState) openInput(mode inputMode, value string) tea.Cmd {
	s.inputMode = mode
	s.inputErr = ""
	switch mode {
	case inputFilter:
		s.input.Placeholder = "filter pattern"
	case inputRange:
		s.input.Placeholder = "2006-01-02T15:04:05Z..2006-01-02T16:04:05Z"
	}
	s.input.SetValue(value)
	s.input.CursorEnd()
	return s.input.Focus()
}

func (s *eventsState) closeInput() {
	s.inputMode = inputNone
	s.input.Blur()
}

// handleInput routes keys to the open text input.
func (s *eventsState) handleInput(msg tea.KeyMsg, keys keyMap, now time.Time) (eventsIntent, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		s.closeInput()
		s.inputErr = ""
		return eventsNone, nil
	case key.Matches(msg, keys.Confirm):
		value := strings.TrimSpace(s.input.Value())
		mode := s.inputMode
		if mode == inputRange {
			start, end, err := search.ParseRange(value, now)
			if err != nil {
				s.inputErr = err.Error()
				return eventsNone, nil
			}
			s.closeInput()
			s.machine.SelectRange(start, end)
			return eventsRequery, nil
		}
		s.closeInput()
		if value == s.filter {
			return eventsNone, nil
		}
		s.filter = value
		return eventsRequery, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return eventsNone, cmd
}

// handleKey applies a key to the table. Tail rows follow the worker, so
// cursor moves are swallowed while tailing.
func (s *eventsState) handleKey(msg tea.KeyMsg, keys keyMap, now time.Time) (eventsIntent, tea.Cmd, bool) {
	if s.inputMode != inputNone {
		intent, cmd := s.handleInput(msg, keys, now)
		return intent, cmd, true
	}

	switch {
	case key.Matches(msg, keys.Filter):
		return eventsNone, s.openInput(inputFilter, s.filter), true
	case key.Matches(msg, keys.Range):
		return eventsNone, s.openInput(inputRange, ""), true
	case key.Matches(msg, keys.Escape):
		return eventsBack, nil, true

	case key.Matches(msg, keys.Up):
		if !s.tailing() {
			s.paged.Previous()
		}
		return eventsNone, nil, true
	case key.Matches(msg, keys.Down):
		if !s.tailing() && s.paged.Next() {
			return eventsMore, nil, true
		}
		return eventsNone, nil, true
	case key.Matches(msg, keys.StepUp):
		if !s.tailing() {
			s.paged.PreviousBy(stepRows)
		}
		return eventsNone, nil, true
	case key.Matches(msg, keys.StepDown):
		if !s.tailing() && s.paged.NextBy(stepRows) {
			return eventsMore, nil, true
		}
		return eventsNone, nil, true
	case key.Matches(msg, keys.Confirm):
		if ev, ok := s.paged.Selected(); ok && !s.tailing() && ev.IsMore() {
			return eventsMore, nil, true
		}
		return eventsNone, nil, true

	case key.Matches(msg, keys.Tail):
		return s.toggle(search.Tail), nil, true
	case key.Matches(msg, keys.OneMinute):
		return s.toggle(search.OneMinute), nil, true
	case key.Matches(msg, keys.FifteenMin):
		return s.toggle(search.FifteenMinutes), nil, true
	case key.Matches(msg, keys.OneHour):
		return s.toggle(search.OneHour), nil, true
	case key.Matches(msg, keys.TwelveHours):
		return s.toggle(search.TwelveHours), nil, true
	case key.Matches(msg, keys.AllEvents):
		if s.machine.Reset() {
			return eventsRequery, nil, true
		}
		return eventsNone, nil, true
	}
	return eventsNone, nil, false
}

func (s *eventsState) toggle(mode search.Mode) eventsIntent {
	if s.machine.Toggle(mode) {
		s.offset = 0
		return eventsRequery
	}
	return eventsNone
}

// windowLabel describes the active search window for the status bar.
func (s *eventsState) windowLabel() string {
	switch s.machine.Mode() {
	case search.All:
		return "all time"
	case search.Tail:
		return "tail " + search.TailWindow.String()
	case search.Range:
		start, end := s.machine.Bounds()
		return start.UTC().Format(time.RFC3339) + " .. " + end.UTC().Format(time.RFC3339)
	default:
		return "last " + s.machine.Mode().String()
	}
}

// title is the table box title.
func (s *eventsState) title() string {
	if s.group == "" {
		return "Events"
	}
	if s.groupBytes > 0 {
		return "Events: " + s.group + " (" + humanBytes(s.groupBytes) + ")"
	}
	return "Events: " + s.group
}

// render draws the visible rows of the active collection.
func (s *eventsState) render(m Model, width, height int, bgColor string) string {
	rows := s.rows()
	items := rows.Items()
	if len(items) == 0 {
		msg := "Select a log group"
		switch {
		case s.group == "":
		case s.tailing():
			msg = "Waiting for events..."
		case s.pagedFetching:
			msg = "Fetching events..."
		default:
			msg = "No events"
		}
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(bgColor)).
			Render(msg)
	}

	labels := rows.Labels(model.LogEvent.Columns)
	tsWidth := len(model.TimestampLayout) + 1
	msgWidth := max(width-tsWidth-2, 1)
	selected := rows.SelectedIndex()
	end := min(len(items), s.offset+height)
	lines := make([]string, 0, end-s.offset)
	for i := s.offset; i < end; i++ {
		ts := padRight(labels.Cell(i, 0), tsWidth)
		msg := truncate(labels.Cell(i, 1), msgWidth)
		if i == selected {
			lines = append(lines, lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText)).
				Width(width).
				Render(" "+ts+msg))
			continue
		}
		bg := NewBgStyle(bgColor)
		msgStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text))
		if items[i].IsMore() {
			msgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
		}
		line := bg.Space() +
			bg.Render(ts, lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted))) +
			bg.Render(msg, msgStyle)
		lines = append(lines, bg.FillLine(line, width))
	}
	return strings.Join(lines, "\n")
}

// renderInput draws the filter line above the table.
func (s *eventsState) renderInput(m Model, width int, bgColor string) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	switch s.inputMode {
	case inputFilter, inputRange:
		label := "Filter: "
		if s.inputMode == inputRange {
			label = "Range: "
		}
		s.input.Width = max(width-len(label)-2, 1)
		line := bg.Render(label, styles.AccentText) + s.input.View()
		if s.inputErr != "" {
			line += bg.Space() + bg.Render(s.inputErr, styles.DangerText)
		}
		return bg.FillLine(line, width)
	}
	if s.filter == "" {
		return bg.FillLine(bg.Render("/ to filter events", styles.FaintText), width)
	}
	return bg.FillLine(bg.Render("Filter: ", styles.MutedText)+bg.Render(truncate(s.filter, width-8), styles.Text), width)
}
