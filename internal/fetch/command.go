package fetch

import (
	"fmt"
	"time"

	"github.com/five82/cwlogs/internal/search"
	"github.com/five82/cwlogs/internal/state"
)

// Target selects which store a log event fetch writes into.
type Target int

const (
	// Paged is the interactive store, one page per command.
	Paged Target = iota
	// Tail is the live tail store, polled over a trailing window.
	Tail
)

func (t Target) String() string {
	if t == Tail {
		return "tail"
	}
	return "paged"
}

// Command is a unit of fetch work sent from the UI to the workers.
type Command interface {
	command()
	fmt.Stringer
}

// FetchLogGroups lists every log group, page by page.
type FetchLogGroups struct{}

func (FetchLogGroups) command() {}

func (FetchLogGroups) String() string { return "fetch log groups" }

// FetchLogEvents filters the events of one log group. Zero Start or End
// means unbounded on that side. Token is the page to fetch, nil for the
// first page; tail fetches never carry one.
type FetchLogEvents struct {
	Target   Target
	LogGroup string
	Filter   string
	Mode     search.Mode
	Start    time.Time
	End      time.Time
	Token    *string
}

func (FetchLogEvents) command() {}

func (c FetchLogEvents) String() string {
	return fmt.Sprintf("fetch %s log events of %s", c.Target, c.LogGroup)
}

// target returns the store query the command was issued for.
func (c FetchLogEvents) target() state.Query {
	return state.Query{LogGroup: c.LogGroup, Filter: c.Filter, Mode: c.Mode, Start: c.Start, End: c.End}
}
