// Package model holds the log store records shown by the dashboard.
package model

import (
	"strings"
	"time"
)

// Reserved identities of the "More..." sentinel rows.
const (
	MoreLogGroupKey = "more"
	MoreLogEventKey = "999"
	MoreLabel       = "More..."
)

// LogGroup is a named remote collection of log events. Immutable once fetched.
type LogGroup struct {
	ARN         string
	Name        string
	CreatedAt   time.Time
	StoredBytes int64
}

// Key returns the group identity, preferring the ARN.
func (g LogGroup) Key() string {
	if g.ARN != "" {
		return g.ARN
	}
	return g.Name
}

// IsMore reports whether g is the pagination sentinel.
func (g LogGroup) IsMore() bool {
	return g.ARN == MoreLogGroupKey
}

// Label is the menu text for the group.
func (g LogGroup) Label() string {
	return g.Name
}

// MoreLogGroup returns a fresh sentinel log group.
func MoreLogGroup() LogGroup {
	return LogGroup{ARN: MoreLogGroupKey, Name: MoreLabel}
}

// LogEvent is one timestamped message of a log group. Timestamp is zero and
// Stream empty for the sentinel row.
type LogEvent struct {
	ID        string
	Timestamp time.Time
	Ingested  time.Time
	Stream    string
	Message   string
}

// Key returns the event identity.
func (e LogEvent) Key() string {
	return e.ID
}

// IsMore reports whether e is the pagination sentinel.
func (e LogEvent) IsMore() bool {
	return e.ID == MoreLogEventKey && e.Timestamp.IsZero()
}

// MoreLogEvent returns a fresh sentinel log event.
func MoreLogEvent() LogEvent {
	return LogEvent{ID: MoreLogEventKey, Message: MoreLabel}
}

// TimestampLayout formats event timestamps in the table.
const TimestampLayout = "2006-01-02 15:04:05 MST"

// Columns projects the event into its table row: timestamp and first message line.
func (e LogEvent) Columns() []string {
	if e.IsMore() {
		return []string{"", MoreLabel}
	}
	ts := ""
	if !e.Timestamp.IsZero() {
		ts = e.Timestamp.UTC().Format(TimestampLayout)
	}
	msg := strings.TrimRight(e.Message, "\r\n")
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return []string{ts, msg}
}

// EventQuery parameterizes one filter call against the remote store.
// Zero Start or End means unbounded on that side.
type EventQuery struct {
	LogGroup string
	Filter   string
	Start    time.Time
	End      time.Time
}
