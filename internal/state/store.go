package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/cwlogs/internal/model"
	"github.com/five82/cwlogs/internal/paging"
	"github.com/five82/cwlogs/internal/search"
)

// Query holds the parameters of the active event search.
type Query struct {
	LogGroup string
	Filter   string
	Mode     search.Mode
	// Start and End are the explicit bounds of a Range mode, or the last
	// resolved window of a relative mode.
	Start time.Time
	End   time.Time
	// Active marks a tail query the poller should keep fetching.
	Active bool
}

// SameTarget reports whether q and o select the same result set. Resolved
// windows of relative modes move with the clock and are not compared.
func (q Query) SameTarget(o Query) bool {
	if q.LogGroup != o.LogGroup || q.Filter != o.Filter || q.Mode != o.Mode {
		return false
	}
	if q.Mode == search.Range {
		return q.Start.Equal(o.Start) && q.End.Equal(o.End)
	}
	return true
}

// Snapshot is a copy of the store taken at one point in time.
type Snapshot struct {
	Groups         []model.LogGroup
	GroupsHasToken bool
	GroupsFetching bool

	Events         []model.LogEvent
	EventsHasToken bool
	EventsFetching bool
	// EventSelected is the worker-driven selection (tail auto-scroll), or
	// paging.NoSelection.
	EventSelected int

	Query               Query
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the remote API failed on multiple fetches in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store is the shared cache written by fetch workers and read by the UI.
type Store struct {
	mu sync.Mutex

	groups         *paging.Collection[model.LogGroup]
	groupsFetching bool
	events         *paging.Collection[model.LogEvent]
	// eventsPending counts issued event fetches not yet completed.
	eventsPending int

	query               Query
	lastUpdated         time.Time
	lastError           error
	consecutiveFailures int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		groups: paging.New(paging.Wrap, model.MoreLogGroup),
		events: paging.New(paging.Clamp, model.MoreLogEvent),
	}
}

// TrySnapshot returns a copy of the store without waiting for the lock. ok is
// false when a writer holds it; callers keep rendering what they had.
func (s *Store) TrySnapshot() (snap Snapshot, ok bool) {
	if !s.mu.TryLock() {
		return Snapshot{}, false
	}
	defer s.mu.Unlock()
	return s.snapshotLocked(), true
}

// Snapshot returns a copy of the store, waiting for the lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Groups:              s.groups.Items(),
		GroupsFetching:      s.groupsFetching,
		Events:              s.events.Items(),
		EventsFetching:      s.eventsPending > 0,
		EventSelected:       s.events.SelectedIndex(),
		Query:               s.query,
		LastUpdated:         s.lastUpdated,
		ConsecutiveFailures: s.consecutiveFailures,
	}
	_, snap.GroupsHasToken = s.groups.Token()
	_, snap.EventsHasToken = s.events.Token()
	if s.lastError != nil {
		snap.LastError = fmt.Errorf("%w", s.lastError)
	}
	return snap
}

// Query returns the active query.
func (s *Store) Query() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SetQuery replaces the active query. When the target result set changes the
// event results are cleared before returning, and reset reports true.
func (s *Store) SetQuery(q Query) (reset bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.query.SameTarget(q) {
		s.events.Clear()
		reset = true
	}
	s.query = q
	return reset
}

// Deactivate stops tail fetching for the stored query.
func (s *Store) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Active = false
}

// ResetEventResults clears the event collection and its pagination token.
func (s *Store) ResetEventResults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events.Clear()
}

// BeginGroupsFetch marks a log group fetch in flight.
func (s *Store) BeginGroupsFetch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groupsFetching = true
}

// MergeGroups folds a fetched log group page into the cache.
func (s *Store) MergeGroups(page []model.LogGroup, next *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups.Merge(page, next)
	s.lastUpdated = time.Now()
}

// EndGroupsFetch clears the in-flight flag and records the outcome.
func (s *Store) EndGroupsFetch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groupsFetching = false
	s.recordLocked(err)
}

// BeginEventsFetch marks one more event fetch in flight. Every call is
// matched by EndEventsFetch or CompleteEventsFetch.
func (s *Store) BeginEventsFetch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventsPending++
}

// EventsToken returns the next-page token of the event collection.
func (s *Store) EventsToken() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events.TokenPtr()
}

// MergeEvents folds a fetched event page into the cache.
func (s *Store) MergeEvents(page []model.LogEvent, next *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events.Merge(page, next)
	s.lastUpdated = time.Now()
}

// TrimEvents drops the oldest events beyond limit.
func (s *Store) TrimEvents(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events.TrimFront(limit)
}

// SelectLastEvent moves the event selection to the newest real row.
func (s *Store) SelectLastEvent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events.SelectLastReal()
}

// EndEventsFetch completes one event fetch and records the outcome.
func (s *Store) EndEventsFetch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endEventsLocked()
	s.recordLocked(err)
}

// CompleteEventsFetch completes one event fetch issued for q. The page is
// merged and err recorded only while q still targets the stored query; a
// result of a replaced query is dropped and applied reports false.
func (s *Store) CompleteEventsFetch(q Query, page []model.LogEvent, next *string, err error) (applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endEventsLocked()
	if !s.query.SameTarget(q) {
		return false
	}
	if err == nil {
		s.events.Merge(page, next)
		s.lastUpdated = time.Now()
	}
	s.recordLocked(err)
	return true
}

func (s *Store) endEventsLocked() {
	if s.eventsPending > 0 {
		s.eventsPending--
	}
}

func (s *Store) recordLocked(err error) {
	if err != nil {
		s.lastError = err
		s.consecutiveFailures++
		return
	}
	s.lastError = nil
	s.consecutiveFailures = 0
}
