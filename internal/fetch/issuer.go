package fetch

import (
	"time"

	"github.com/five82/cwlogs/internal/search"
	"github.com/five82/cwlogs/internal/state"
)

// Issuer turns UI intents into queued commands, keeping the stores' query
// parameters in step so results of a previous query never mix with new ones.
type Issuer struct {
	queue *Queue
	paged *state.Store
	tail  *state.Store
}

// NewIssuer returns an issuer writing to queue.
func NewIssuer(queue *Queue, paged, tail *state.Store) *Issuer {
	return &Issuer{queue: queue, paged: paged, tail: tail}
}

// RequestGroups enqueues a full log group listing unless one is in flight.
func (i *Issuer) RequestGroups() bool {
	if i.paged.Snapshot().GroupsFetching {
		return false
	}
	i.paged.BeginGroupsFetch()
	if err := i.queue.Send(FetchLogGroups{}); err != nil {
		i.paged.EndGroupsFetch(err)
		return false
	}
	return true
}

// RequestEvents makes q the paged query and enqueues its first page. When the
// log group or search parameters differ from the stored query the cached
// events are reset before the command is sent. A repeated request for a
// query that already has results or a fetch in flight is a no-op and keeps
// the stored query, so later pages stay on the window of the first one.
func (i *Issuer) RequestEvents(q state.Query) bool {
	q.Active = false
	snap := i.paged.Snapshot()
	if snap.Query.SameTarget(q) && (len(snap.Events) > 0 || snap.EventsFetching) {
		return false
	}
	i.paged.SetQuery(q)
	return i.sendEvents(i.paged, eventsCommand(Paged, q, nil))
}

// RequestMoreEvents enqueues the next page of the active paged query with
// the token the store holds now. It does nothing when no next-page token is
// held or a fetch is in flight.
func (i *Issuer) RequestMoreEvents() bool {
	snap := i.paged.Snapshot()
	if snap.Query.LogGroup == "" || snap.EventsFetching {
		return false
	}
	token := i.paged.EventsToken()
	if token == nil {
		return false
	}
	return i.sendEvents(i.paged, eventsCommand(Paged, snap.Query, token))
}

// StartTail activates tail polling of group with filter.
func (i *Issuer) StartTail(group, filter string) {
	i.tail.SetQuery(state.Query{LogGroup: group, Filter: filter, Mode: search.Tail, Active: true})
}

// StopTail deactivates tail polling. Tailed events stay cached.
func (i *Issuer) StopTail() {
	i.tail.Deactivate()
}

// RequestTail enqueues one tail fetch over the trailing window ending at now.
// It does nothing when tailing is inactive or a tail fetch is in flight.
func (i *Issuer) RequestTail(now time.Time) bool {
	snap := i.tail.Snapshot()
	q := snap.Query
	if !q.Active || q.LogGroup == "" || snap.EventsFetching {
		return false
	}
	q.Start, q.End = now.Add(-search.TailWindow), now
	return i.sendEvents(i.tail, eventsCommand(Tail, q, nil))
}

func (i *Issuer) sendEvents(store *state.Store, cmd FetchLogEvents) bool {
	store.BeginEventsFetch()
	if err := i.queue.Send(cmd); err != nil {
		store.EndEventsFetch(err)
		return false
	}
	return true
}

func eventsCommand(target Target, q state.Query, token *string) FetchLogEvents {
	return FetchLogEvents{
		Target:   target,
		LogGroup: q.LogGroup,
		Filter:   q.Filter,
		Mode:     q.Mode,
		Start:    q.Start,
		End:      q.End,
		Token:    token,
	}
}
