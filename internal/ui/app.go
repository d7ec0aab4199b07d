package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/cwlogs/internal/extract"
	"github.com/five82/cwlogs/internal/fetch"
	"github.com/five82/cwlogs/internal/logtail"
	"github.com/five82/cwlogs/internal/model"
	"github.com/five82/cwlogs/internal/state"
)

type focusArea int

const (
	focusMenu focusArea = iota
	focusEvents
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Paged     *state.Store
	Tail      *state.Store
	Issuer    *fetch.Issuer
	Extractor *extract.Extractor
	LogFile   string
	Tick      time.Duration
	ThemeName string
	// Now overrides the clock used to resolve search windows.
	Now func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	paged     *state.Store
	tail      *state.Store
	issuer    *fetch.Issuer
	extractor *extract.Extractor
	logFile   string
	tick      time.Duration
	now       func() time.Time

	// UI state
	keys   keyMap
	theme  Theme
	width  int
	height int
	ready  bool
	focus  focusArea

	menu   menuState
	events eventsState

	detail      viewport.Model
	detailKey   string
	detailTheme string
	spinner     spinner.Model
	help        help.Model

	// Last snapshots read from the stores.
	pagedSnap state.Snapshot
	tailSnap  state.Snapshot

	// Overlays
	showHelp    bool
	showDiag    bool
	diagEntries []logtail.Entry
	diagErr     error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = 200 * time.Millisecond
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		paged:     opts.Paged,
		tail:      opts.Tail,
		issuer:    opts.Issuer,
		extractor: opts.Extractor,
		logFile:   opts.LogFile,
		tick:      tick,
		now:       now,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.ThemeName),
		menu:      newMenuState(),
		events:    newEventsState(),
		detail:    viewport.New(0, 0),
		spinner:   s,
		help:      help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.tick), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		m.sync()
		return m, nil

	case tickMsg:
		m.sync()
		return m, tickCmd(m.tick)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case diagnosticsMsg:
		m.diagEntries = msg.entries
		m.diagErr = msg.err
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showDiag {
		return m.renderDiagnostics()
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Overlays and open inputs take every
// key; otherwise the focused component sees the key first and unhandled
// keys fall through to the global bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.showDiag {
		m.showDiag = false
		return m, nil
	}
	if m.events.inputMode != inputNone {
		intent, cmd := m.events.handleInput(msg, m.keys, m.now())
		m.applyEventsIntent(intent)
		m.sync()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		m.toggleFocus()
		m.sync()
		return m, nil
	}

	switch m.focus {
	case focusMenu:
		if intent, handled := m.menu.handleKey(msg, m.keys); handled {
			m.applyMenuIntent(intent)
			m.sync()
			return m, nil
		}
	case focusEvents:
		if intent, cmd, handled := m.events.handleKey(msg, m.keys, m.now()); handled {
			m.applyEventsIntent(intent)
			m.sync()
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.refreshDetail()
	case key.Matches(msg, m.keys.Diagnostics):
		m.showDiag = true
		m.diagEntries, m.diagErr = nil, nil
		return m, loadDiagnosticsCmd(m.logFile)
	case key.Matches(msg, m.keys.RefreshGroup):
		m.issuer.RequestGroups()
		m.sync()
	case key.Matches(msg, m.keys.DetailUp):
		m.detail.ScrollUp(max(m.detail.Height-1, 1))
	case key.Matches(msg, m.keys.DetailDown):
		m.detail.ScrollDown(max(m.detail.Height-1, 1))
	}
	return m, nil
}

func (m *Model) toggleFocus() {
	if m.focus == focusMenu {
		m.focus = focusEvents
		return
	}
	m.focus = focusMenu
}

func (m *Model) applyMenuIntent(intent menuIntent) {
	switch intent {
	case menuOpen:
		if g, ok := m.menu.selected(); ok {
			m.openGroup(g)
		}
	case menuMore:
		m.issuer.RequestGroups()
	}
}

func (m *Model) applyEventsIntent(intent eventsIntent) {
	switch intent {
	case eventsMore:
		m.issuer.RequestMoreEvents()
	case eventsRequery:
		m.requery()
	case eventsBack:
		m.focus = focusMenu
	}
}

// openGroup shows the events of g and moves focus to the table.
func (m *Model) openGroup(g model.LogGroup) {
	if g.Name != m.events.group {
		m.events.group = g.Name
		m.events.resetPaged()
	}
	m.events.groupBytes = g.StoredBytes
	m.focus = focusEvents
	m.requery()
}

// requery issues the fetch matching the current group, filter and mode.
// Tail mode hands the query to the poller; other modes stop it and request
// the first page.
func (m *Model) requery() {
	ev := &m.events
	if ev.group == "" {
		return
	}
	if ev.tailing() {
		m.issuer.StartTail(ev.group, ev.filter)
		ev.resetTail()
		return
	}
	m.issuer.StopTail()
	ev.resetPaged()
	m.issuer.RequestEvents(ev.query(m.now()))
}

// sync reads the stores without blocking and rebuilds the projections that
// changed. A busy store keeps the previous projection for this frame.
func (m *Model) sync() {
	if m.paged != nil {
		if snap, ok := m.paged.TrySnapshot(); ok {
			m.pagedSnap = snap
			m.menu.apply(snap)
			m.events.applyPaged(snap)
		}
	}
	if m.tail != nil && m.events.tailing() {
		if snap, ok := m.tail.TrySnapshot(); ok {
			m.tailSnap = snap
			m.events.applyTail(snap)
		}
	}
	m.scroll()
	m.refreshDetail()
}

// scroll keeps the selections inside their visible windows.
func (m *Model) scroll() {
	l := m.layout()
	m.menu.offset = scrollOffset(m.menu.offset, m.menu.rows.SelectedIndex(), m.menu.rows.Len(), l.menuRows())
	rows := m.events.rows()
	m.events.offset = scrollOffset(m.events.offset, rows.SelectedIndex(), rows.Len(), l.tableRows())
}

func (m *Model) resize() {
	l := m.layout()
	m.detail.Width = max(l.rightWidth-2, 1)
	m.detail.Height = max(l.detailHeight-2, 1)
	m.detailKey = ""
	m.detailTheme = ""
}

// fetching reports whether a paged fetch is in flight.
func (m Model) fetching() bool {
	return m.pagedSnap.GroupsFetching || m.pagedSnap.EventsFetching
}

// activeSnapshot returns the snapshot of the store backing the table.
func (m Model) activeSnapshot() state.Snapshot {
	if m.events.tailing() {
		return m.tailSnap
	}
	return m.pagedSnap
}

// layout holds the outer sizes of the panels.
type layout struct {
	menuWidth     int
	rightWidth    int
	contentHeight int
	inputHeight   int
	tableHeight   int
	detailHeight  int
}

func (l layout) menuRows() int  { return max(l.contentHeight-2, 1) }
func (l layout) tableRows() int { return max(l.tableHeight-2, 1) }

func (m Model) layout() layout {
	contentHeight := max(m.height-2, 9)
	menuWidth := max(min(m.width*3/10, 48), 16)
	rightWidth := max(m.width-menuWidth, 24)
	inputHeight := 3
	tableHeight := max((contentHeight-inputHeight)*6/10, 3)
	detailHeight := max(contentHeight-inputHeight-tableHeight, 3)
	return layout{
		menuWidth:     menuWidth,
		rightWidth:    rightWidth,
		contentHeight: contentHeight,
		inputHeight:   inputHeight,
		tableHeight:   tableHeight,
		detailHeight:  detailHeight,
	}
}

// renderMain renders the header, the menu and event panels, and the footer.
func (m Model) renderMain() string {
	l := m.layout()
	menuFocused := m.focus == focusMenu
	eventsFocused := !menuFocused
	inputFocused := eventsFocused && m.events.inputMode != inputNone

	menuBox := m.renderTitledBox(
		m.menu.title(),
		m.menu.render(m, l.menuWidth-2, l.menuRows(), m.panelBg(menuFocused)),
		l.menuWidth, l.contentHeight, menuFocused)

	inputBox := m.renderTitledBox(
		"Filter",
		m.events.renderInput(m, l.rightWidth-2, m.panelBg(inputFocused)),
		l.rightWidth, l.inputHeight, inputFocused)

	tableBox := m.renderTitledBox(
		m.events.title(),
		m.events.render(m, l.rightWidth-2, l.tableRows(), m.panelBg(eventsFocused)),
		l.rightWidth, l.tableHeight, eventsFocused && !inputFocused)

	detailBox := m.renderTitledBox("Detail", m.detail.View(), l.rightWidth, l.detailHeight, false)

	right := lipgloss.JoinVertical(lipgloss.Left, inputBox, tableBox, detailBox)
	content := lipgloss.JoinHorizontal(lipgloss.Top, menuBox, right)
	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

// tickMsg schedules a store sync.
type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the Bubble Tea program and blocks until it exits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
