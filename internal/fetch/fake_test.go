package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/five82/cwlogs/internal/model"
)

type eventsCall struct {
	query model.EventQuery
	token string
	limit int32
}

type page struct {
	events []model.LogEvent
	next   *string
}

// fakeAPI implements LogAPI for testing. Pages are keyed by the request
// token ("" for the first page); groupEvents, when set, keys them by log
// group first.
type fakeAPI struct {
	mu sync.Mutex

	groupPages map[string][]model.LogGroup
	groupNext  map[string]*string
	groupCalls []string

	eventPages  map[string]page
	groupEvents map[string]map[string]page
	eventCalls []eventsCall
	eventsErr  error

	// block, when set, holds FilterLogEvents until closed or ctx is done.
	block chan struct{}
}

func (f *fakeAPI) ListLogGroups(ctx context.Context, token *string, pageSize int32) ([]model.LogGroup, *string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := deref(token)
	f.groupCalls = append(f.groupCalls, key)
	return f.groupPages[key], f.groupNext[key], nil
}

func (f *fakeAPI) FilterLogEvents(ctx context.Context, q model.EventQuery, token *string, limit int32) ([]model.LogEvent, *string, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := deref(token)
	f.eventCalls = append(f.eventCalls, eventsCall{query: q, token: key, limit: limit})
	if f.eventsErr != nil {
		return nil, nil, f.eventsErr
	}
	p := f.eventPages[key]
	if f.groupEvents != nil {
		p = f.groupEvents[q.LogGroup][key]
	}
	return p.events, p.next, nil
}

func (f *fakeAPI) calls() []eventsCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]eventsCall(nil), f.eventCalls...)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func str(s string) *string { return &s }

func ev(id string, sec int64) model.LogEvent {
	return model.LogEvent{ID: id, Timestamp: time.Unix(sec, 0), Message: "message " + id}
}

func ids(events []model.LogEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}
