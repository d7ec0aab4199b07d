// Package search implements the time-window state machine that
// parameterizes log event fetches.
package search

import (
	"fmt"
	"time"
)

// Mode is a search window mode.
type Mode int

const (
	All Mode = iota
	Tail
	OneMinute
	FifteenMinutes
	OneHour
	TwelveHours
	Range
)

// TailWindow is the trailing window fetched on every tail tick.
const TailWindow = time.Minute

var widths = map[Mode]time.Duration{
	OneMinute:      time.Minute,
	FifteenMinutes: 15 * time.Minute,
	OneHour:        time.Hour,
	TwelveHours:    12 * time.Hour,
}

// String returns the status-bar label of the mode.
func (m Mode) String() string {
	switch m {
	case All:
		return "All"
	case Tail:
		return "Tail"
	case OneMinute:
		return "1m"
	case FifteenMinutes:
		return "15m"
	case OneHour:
		return "1h"
	case TwelveHours:
		return "12h"
	case Range:
		return "Range"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Width returns the fixed window width of relative modes, zero otherwise.
func (m Mode) Width() time.Duration {
	return widths[m]
}

// Machine tracks the active mode. The zero value starts in All.
type Machine struct {
	mode       Mode
	start, end time.Time
}

// Mode returns the active mode.
func (s *Machine) Mode() Mode { return s.mode }

// Bounds returns the explicit bounds of a Range mode.
func (s *Machine) Bounds() (time.Time, time.Time) { return s.start, s.end }

// Toggle selects m. Selecting the active mode returns to All. It reports
// whether the active mode changed; callers then clear results and refetch.
// Range must be entered through SelectRange.
func (s *Machine) Toggle(m Mode) bool {
	if m == Range {
		return false
	}
	if m == s.mode {
		if m == All {
			return false
		}
		s.set(All, time.Time{}, time.Time{})
		return true
	}
	s.set(m, time.Time{}, time.Time{})
	return true
}

// SelectRange enters Range with explicit bounds. Re-selecting the active
// range with identical bounds toggles back to All.
func (s *Machine) SelectRange(start, end time.Time) bool {
	if s.mode == Range && s.start.Equal(start) && s.end.Equal(end) {
		s.set(All, time.Time{}, time.Time{})
		return true
	}
	s.set(Range, start, end)
	return true
}

// Reset returns to All and reports whether the mode changed.
func (s *Machine) Reset() bool {
	if s.mode == All {
		return false
	}
	s.set(All, time.Time{}, time.Time{})
	return true
}

func (s *Machine) set(m Mode, start, end time.Time) {
	s.mode = m
	s.start = start
	s.end = end
}

// Window resolves the [start, end) window relative to now. All yields zero
// times, meaning unbounded.
func (s *Machine) Window(now time.Time) (time.Time, time.Time) {
	switch s.mode {
	case All:
		return time.Time{}, time.Time{}
	case Tail:
		return now.Add(-TailWindow), now
	case Range:
		return s.start, s.end
	default:
		return now.Add(-s.mode.Width()), now
	}
}
