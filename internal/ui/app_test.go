package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/cwlogs/internal/fetch"
	"github.com/five82/cwlogs/internal/model"
	"github.com/five82/cwlogs/internal/search"
	"github.com/five82/cwlogs/internal/state"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	paged *state.Store
	tail  *state.Store
	queue *fetch.Queue
}

func newTestModel(t *testing.T) (Model, *testEnv) {
	t.Helper()
	env := &testEnv{paged: state.NewStore(), tail: state.NewStore(), queue: fetch.NewQueue()}
	t.Cleanup(env.queue.Close)
	m := New(Options{
		Paged:  env.paged,
		Tail:   env.tail,
		Issuer: fetch.NewIssuer(env.queue, env.paged, env.tail),
		Now:    func() time.Time { return fixedNow },
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), env
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "shift+up":
		return tea.KeyMsg{Type: tea.KeyShiftUp}
	case "shift+down":
		return tea.KeyMsg{Type: tea.KeyShiftDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends each key in order. Plain strings longer than one rune are
// typed character by character.
func press(m Model, keys ...string) Model {
	for _, k := range keys {
		if len([]rune(k)) > 1 && !isNamedKey(k) {
			for _, r := range k {
				next, _ := m.Update(keyMsg(string(r)))
				m = next.(Model)
			}
			continue
		}
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func isNamedKey(k string) bool {
	switch k {
	case "enter", "up", "down", "shift+up", "shift+down", "esc", "tab", "backspace", "ctrl+c":
		return true
	}
	return false
}

func tick(m Model) Model {
	next, _ := m.Update(tickMsg(fixedNow))
	return next.(Model)
}

func groups(names ...string) []model.LogGroup {
	out := make([]model.LogGroup, len(names))
	for i, n := range names {
		out[i] = model.LogGroup{ARN: "arn:" + n, Name: n}
	}
	return out
}

func ev(id string, sec int64) model.LogEvent {
	return model.LogEvent{ID: id, Timestamp: time.Unix(sec, 0), Stream: "s", Message: "msg " + id}
}

func rowIDs(m Model) []string {
	items := m.events.rows().Items()
	out := make([]string, len(items))
	for i, e := range items {
		out[i] = e.ID
	}
	return out
}

func selectedEventID(m Model) string {
	e, ok := m.events.selected()
	if !ok {
		return ""
	}
	return e.ID
}

func selectedGroup(m Model) string {
	g, ok := m.menu.selected()
	if !ok {
		return ""
	}
	return g.Name
}

// openFirstGroup loads groups a, b and opens a.
func openFirstGroup(t *testing.T) (Model, *testEnv) {
	t.Helper()
	m, env := newTestModel(t)
	env.paged.MergeGroups(groups("a", "b"), nil)
	m = tick(m)
	m = press(m, "enter")
	if m.focus != focusEvents {
		t.Fatalf("focus = %v, want events", m.focus)
	}
	return m, env
}

func TestMenu_ProjectsGroupsAndWraps(t *testing.T) {
	m, env := newTestModel(t)
	env.paged.MergeGroups(groups("alpha", "beta", "gamma"), nil)
	m = tick(m)

	if got := m.menu.rows.Len(); got != 3 {
		t.Fatalf("menu rows = %d, want 3", got)
	}
	if got := selectedGroup(m); got != "alpha" {
		t.Fatalf("selected = %q, want alpha", got)
	}
	m = press(m, "up")
	if got := selectedGroup(m); got != "gamma" {
		t.Fatalf("selected after up = %q, want gamma (wrapped)", got)
	}
	m = press(m, "down")
	if got := selectedGroup(m); got != "alpha" {
		t.Fatalf("selected after down = %q, want alpha (wrapped)", got)
	}
}

func TestMenu_NameFilter(t *testing.T) {
	m, env := newTestModel(t)
	env.paged.MergeGroups(groups("/aws/lambda/api", "/aws/lambda/auth", "/ecs/web"), nil)
	m = tick(m)

	m = press(m, "lam", "bda/au")
	if got := m.menu.rows.Len(); got != 1 || selectedGroup(m) != "/aws/lambda/auth" {
		t.Fatalf("filtered rows = %d selected %q", got, selectedGroup(m))
	}
	if title := m.menu.title(); !strings.Contains(title, "[lambda/au]") {
		t.Fatalf("title = %q, want query in brackets", title)
	}

	m = press(m, "backspace", "backspace")
	if got := m.menu.rows.Len(); got != 2 {
		t.Fatalf("rows after backspace = %d, want 2", got)
	}
	if got := selectedGroup(m); got != "/aws/lambda/auth" {
		t.Fatalf("selection should survive widening, got %q", got)
	}

	m = press(m, "esc")
	if m.menu.query != "" || m.menu.rows.Len() != 3 {
		t.Fatalf("esc should clear the query: %q rows=%d", m.menu.query, m.menu.rows.Len())
	}
}

func TestMenu_TitleShowsFetching(t *testing.T) {
	m, env := newTestModel(t)
	env.paged.BeginGroupsFetch()
	m = tick(m)
	if title := m.menu.title(); !strings.Contains(title, "Fetching ...") {
		t.Fatalf("title = %q, want fetching marker", title)
	}
	env.paged.EndGroupsFetch(nil)
	m = tick(m)
	if title := m.menu.title(); strings.Contains(title, "Fetching") {
		t.Fatalf("title = %q, fetching marker should clear", title)
	}
}

func TestMenu_EnterRequestsEvents(t *testing.T) {
	m, env := openFirstGroup(t)

	if env.queue.Len() != 1 {
		t.Fatalf("queued commands = %d, want 1", env.queue.Len())
	}
	q := env.paged.Query()
	if q.LogGroup != "a" || q.Mode != search.All {
		t.Fatalf("query = %+v, want group a in All", q)
	}
	if !m.pagedSnap.EventsFetching {
		t.Fatal("events fetch should be marked in flight")
	}

	// Re-opening the same group with the fetch still in flight sends nothing.
	m = press(m, "esc", "enter")
	if env.queue.Len() != 1 {
		t.Fatalf("queued commands = %d, want 1", env.queue.Len())
	}
}

func TestMenu_SentinelReloadsGroups(t *testing.T) {
	m, env := newTestModel(t)
	tok := "next"
	env.paged.MergeGroups(groups("a"), &tok)
	m = tick(m)
	m = press(m, "down", "enter")
	if env.queue.Len() != 1 {
		t.Fatalf("queued commands = %d, want a group listing", env.queue.Len())
	}
	if m.focus != focusMenu {
		t.Fatal("selecting the sentinel should keep menu focus")
	}
}

func TestEvents_EnterOnMoreFetchesNextPage(t *testing.T) {
	m, env := openFirstGroup(t)

	tok := "t1"
	env.paged.MergeEvents([]model.LogEvent{ev("e1", 1), ev("e2", 2)}, &tok)
	env.paged.EndEventsFetch(nil)
	m = tick(m)

	if got := strings.Join(rowIDs(m), ","); got != "e1,e2,"+model.MoreLogEventKey {
		t.Fatalf("rows = %s", got)
	}
	m = press(m, "down", "down")
	if got := selectedEventID(m); got != model.MoreLogEventKey {
		t.Fatalf("selected = %q, want sentinel", got)
	}
	m = press(m, "enter")
	if env.queue.Len() != 2 {
		t.Fatalf("queued commands = %d, want first page + next page", env.queue.Len())
	}
}

func TestEvents_DownPastSentinelFetches(t *testing.T) {
	m, env := openFirstGroup(t)

	tok := "t1"
	env.paged.MergeEvents([]model.LogEvent{ev("e1", 1)}, &tok)
	env.paged.EndEventsFetch(nil)
	m = tick(m)

	m = press(m, "down")
	if env.queue.Len() != 1 {
		t.Fatalf("landing on the sentinel should not fetch yet")
	}
	m = press(m, "down")
	if env.queue.Len() != 2 {
		t.Fatalf("queued commands = %d, want next page", env.queue.Len())
	}
	_ = m
}

func TestEvents_ProjectionFollowsTokenChange(t *testing.T) {
	m, env := openFirstGroup(t)

	tok := "t1"
	env.paged.MergeEvents([]model.LogEvent{ev("e1", 1), ev("e2", 2)}, &tok)
	env.paged.EndEventsFetch(nil)
	m = tick(m)

	// e1,e2,MORE and e1,e2,e3 look the same to IsSame.
	env.paged.MergeEvents([]model.LogEvent{ev("e3", 3)}, nil)
	m = tick(m)
	if got := strings.Join(rowIDs(m), ","); got != "e1,e2,e3" {
		t.Fatalf("rows = %s, want e1,e2,e3", got)
	}
}

func TestEvents_StepMoves(t *testing.T) {
	m, env := openFirstGroup(t)
	var page []model.LogEvent
	for i := 0; i < 25; i++ {
		page = append(page, ev(string(rune('a'+i)), int64(i)))
	}
	env.paged.MergeEvents(page, nil)
	env.paged.EndEventsFetch(nil)
	m = tick(m)

	m = press(m, "shift+down")
	if got := m.events.paged.SelectedIndex(); got != 10 {
		t.Fatalf("selection = %d, want 10", got)
	}
	m = press(m, "shift+down", "shift+down")
	if got := m.events.paged.SelectedIndex(); got != 24 {
		t.Fatalf("selection = %d, want 24 (clamped)", got)
	}
	m = press(m, "shift+up")
	if got := m.events.paged.SelectedIndex(); got != 14 {
		t.Fatalf("selection = %d, want 14", got)
	}
}

func TestEvents_FilterInputRequeries(t *testing.T) {
	m, env := openFirstGroup(t)
	env.paged.MergeEvents([]model.LogEvent{ev("e1", 1)}, nil)
	env.paged.EndEventsFetch(nil)
	m = tick(m)

	m = press(m, "/", "ERROR")
	if m.events.inputMode != inputFilter {
		t.Fatal("filter input should be open")
	}
	// Letters typed into the input must not trigger bindings.
	if m.events.machine.Mode() != search.All {
		t.Fatalf("mode changed while typing: %v", m.events.machine.Mode())
	}
	m = press(m, "enter")

	if m.events.inputMode != inputNone {
		t.Fatal("enter should close the input")
	}
	if q := env.paged.Query(); q.Filter != "ERROR" {
		t.Fatalf("query filter = %q, want ERROR", q.Filter)
	}
	if len(m.events.paged.Items()) != 0 {
		t.Fatalf("rows of the previous filter still shown: %v", rowIDs(m))
	}
	if env.queue.Len() != 2 {
		t.Fatalf("queued commands = %d, want 2", env.queue.Len())
	}
}

func TestEvents_FilterInputEscCancels(t *testing.T) {
	m, env := openFirstGroup(t)
	m = press(m, "/", "x", "esc")
	if m.events.inputMode != inputNone || m.events.filter != "" {
		t.Fatalf("esc should discard the input: mode=%v filter=%q", m.events.inputMode, m.events.filter)
	}
	if m.focus != focusEvents {
		t.Fatal("esc in the input should not leave the table")
	}
	if env.queue.Len() != 1 {
		t.Fatalf("queued commands = %d, want 1", env.queue.Len())
	}
}

func TestEvents_RangeInput(t *testing.T) {
	m, env := openFirstGroup(t)

	m = press(m, "r", "bad", "enter")
	if m.events.inputMode != inputRange || m.events.inputErr == "" {
		t.Fatalf("invalid range should keep the input open with an error")
	}
	m = press(m, "esc")

	m = press(m, "r", "2024-05-01T10:00:00Z..2024-05-01T11:00:00Z", "enter")
	if m.events.machine.Mode() != search.Range {
		t.Fatalf("mode = %v, want Range", m.events.machine.Mode())
	}
	q := env.paged.Query()
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if q.Mode != search.Range || !q.Start.Equal(want) || !q.End.Equal(want.Add(time.Hour)) {
		t.Fatalf("query = %+v", q)
	}
}

func TestEvents_RelativeWindows(t *testing.T) {
	tests := []struct {
		key   string
		mode  search.Mode
		width time.Duration
	}{
		{"1", search.OneMinute, time.Minute},
		{"2", search.FifteenMinutes, 15 * time.Minute},
		{"3", search.OneHour, time.Hour},
		{"4", search.TwelveHours, 12 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			m, env := openFirstGroup(t)
			m = press(m, tt.key)
			q := env.paged.Query()
			if q.Mode != tt.mode {
				t.Fatalf("mode = %v, want %v", q.Mode, tt.mode)
			}
			if !q.End.Equal(fixedNow) || q.End.Sub(q.Start) != tt.width {
				t.Fatalf("window = [%v, %v]", q.Start, q.End)
			}
			m = press(m, "a")
			if env.paged.Query().Mode != search.All {
				t.Fatalf("a should return to All")
			}
		})
	}
}

func TestEvents_TailFollowsWorkerSelection(t *testing.T) {
	m, env := openFirstGroup(t)

	m = press(m, "t")
	if q := env.tail.Query(); !q.Active || q.LogGroup != "a" || q.Mode != search.Tail {
		t.Fatalf("tail query = %+v, want active tail of a", q)
	}

	env.tail.MergeEvents([]model.LogEvent{ev("e1", 1), ev("e2", 2), ev("e3", 3)}, nil)
	env.tail.SelectLastEvent()
	m = tick(m)
	if got := selectedEventID(m); got != "e3" {
		t.Fatalf("selected = %q, want e3", got)
	}

	m = press(m, "up", "shift+up")
	if got := selectedEventID(m); got != "e3" {
		t.Fatalf("cursor moved while tailing: %q", got)
	}

	env.tail.MergeEvents([]model.LogEvent{ev("e4", 4)}, nil)
	env.tail.SelectLastEvent()
	m = tick(m)
	if got := selectedEventID(m); got != "e4" {
		t.Fatalf("selected = %q, want e4 (auto-scroll)", got)
	}

	m = press(m, "t")
	if env.tail.Query().Active {
		t.Fatal("toggling tail off should deactivate polling")
	}
	if m.events.machine.Mode() != search.All {
		t.Fatalf("mode = %v, want All", m.events.machine.Mode())
	}
}

func TestEvents_EscReturnsToMenu(t *testing.T) {
	m, _ := openFirstGroup(t)
	m = press(m, "esc")
	if m.focus != focusMenu {
		t.Fatal("esc should focus the menu")
	}
	m = press(m, "tab")
	if m.focus != focusEvents {
		t.Fatal("tab should toggle focus")
	}
}

func TestGlobalKeys(t *testing.T) {
	m, _ := openFirstGroup(t)

	m = press(m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}

	m = press(m, "?")
	if !m.showHelp {
		t.Fatal("? should open help")
	}
	m = press(m, "x")
	if m.showHelp {
		t.Fatal("any key should close help")
	}

	next, cmd := m.Update(keyMsg("D"))
	m = next.(Model)
	if !m.showDiag || cmd == nil {
		t.Fatal("D should open diagnostics and load the log")
	}

	_, cmd = m.Update(keyMsg("ctrl+c"))
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("ctrl+c should return tea.Quit")
	}
}

func TestMenu_LettersAreTypedNotBound(t *testing.T) {
	m, env := newTestModel(t)
	env.paged.MergeGroups(groups("queue-worker", "api"), nil)
	m = tick(m)

	next, cmd := m.Update(keyMsg("q"))
	m = next.(Model)
	if cmd != nil {
		t.Fatal("q in the menu should not quit")
	}
	if m.menu.query != "q" || selectedGroup(m) != "queue-worker" {
		t.Fatalf("query = %q selected %q", m.menu.query, selectedGroup(m))
	}
}

func TestView_Renders(t *testing.T) {
	m, env := newTestModel(t)
	if out := New(Options{}).View(); out != "Loading..." {
		t.Fatalf("unsized view = %q", out)
	}

	env.paged.MergeGroups(groups("/aws/lambda/api"), nil)
	m = tick(m)
	m = press(m, "enter")
	env.paged.MergeEvents([]model.LogEvent{ev("e1", 1)}, nil)
	env.paged.EndEventsFetch(nil)
	m = tick(m)

	out := m.View()
	for _, want := range []string{"Log Groups", "/aws/lambda/api", "msg e1", "Detail", "cwlogs"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestScrollOffset(t *testing.T) {
	tests := []struct {
		name                            string
		offset, selected, total, height int
		want                            int
	}{
		{"fits", 3, 2, 5, 10, 0},
		{"selection below window", 0, 12, 30, 10, 3},
		{"selection above window", 8, 4, 30, 10, 4},
		{"inside window keeps offset", 5, 9, 30, 10, 5},
		{"clamped to last page", 25, 29, 30, 10, 20},
		{"no selection clamps", 40, -1, 30, 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scrollOffset(tt.offset, tt.selected, tt.total, tt.height); got != tt.want {
				t.Fatalf("scrollOffset = %d, want %d", got, tt.want)
			}
		})
	}
}
