package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit        key.Binding
	Help        key.Binding
	CycleTheme  key.Binding
	Diagnostics key.Binding
	Tab         key.Binding
	Escape      key.Binding

	// Navigation
	Up         key.Binding
	Down       key.Binding
	StepUp     key.Binding
	StepDown   key.Binding
	DetailUp   key.Binding
	DetailDown key.Binding
	Confirm    key.Binding
	Backspace  key.Binding

	// Search
	Filter       key.Binding
	Range        key.Binding
	Tail         key.Binding
	OneMinute    key.Binding
	FifteenMin   key.Binding
	OneHour      key.Binding
	TwelveHours  key.Binding
	AllEvents    key.Binding
	RefreshGroup key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Diagnostics: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Diagnostics"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Switch focus"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back / cancel"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("j/down", "Move down"),
		),
		StepUp: key.NewBinding(
			key.WithKeys("shift+up", "K"),
			key.WithHelp("shift+up", "Up 10 rows"),
		),
		StepDown: key.NewBinding(
			key.WithKeys("shift+down", "J"),
			key.WithHelp("shift+down", "Down 10 rows"),
		),
		DetailUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Scroll detail up"),
		),
		DetailDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Scroll detail down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open / more"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "Delete filter char"),
		),

		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter pattern"),
		),
		Range: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Time range"),
		),
		Tail: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Tail"),
		),
		OneMinute: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Last minute"),
		),
		FifteenMin: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Last 15 minutes"),
		),
		OneHour: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Last hour"),
		),
		TwelveHours: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Last 12 hours"),
		),
		AllEvents: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "All events"),
		),
		RefreshGroup: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Reload log groups"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Filter, k.Tail, k.Range, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one group per column.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.StepUp, k.StepDown, k.Confirm, k.DetailUp, k.DetailDown},
		{k.Filter, k.Range, k.Tail, k.OneMinute, k.FifteenMin, k.OneHour, k.TwelveHours, k.AllEvents},
		{k.Tab, k.Escape, k.Backspace, k.RefreshGroup, k.CycleTheme, k.Diagnostics, k.Help, k.Quit},
	}
}
