package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/cwlogs/internal/model"
	"github.com/five82/cwlogs/internal/state"
)

// LogAPI is the remote log store consumed by workers.
type LogAPI interface {
	// ListLogGroups returns one page of log groups and the next-page token,
	// nil when exhausted.
	ListLogGroups(ctx context.Context, token *string, pageSize int32) ([]model.LogGroup, *string, error)
	// FilterLogEvents returns one page of events matching q in ascending
	// timestamp order and the next-page token, nil when exhausted.
	FilterLogEvents(ctx context.Context, q model.EventQuery, token *string, limit int32) ([]model.LogEvent, *string, error)
}

// Defaults applied to zero Options fields.
const (
	DefaultGroupPageSize   = 50
	DefaultEventPageSize   = 100
	DefaultTailBufferLimit = 2000
)

// maxGroupPages bounds a single log group listing.
const maxGroupPages = 1000

// Options tune a Worker.
type Options struct {
	GroupPageSize   int32
	EventPageSize   int32
	TailBufferLimit int
	// Timeout bounds each remote call; zero disables it.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Worker executes commands from a Queue against a LogAPI and writes the
// results into the paged and tail stores.
type Worker struct {
	api   LogAPI
	queue *Queue
	paged *state.Store
	tail  *state.Store
	opts  Options
	log   zerolog.Logger
}

// NewWorker constructs a worker. It does not start it.
func NewWorker(api LogAPI, queue *Queue, paged, tail *state.Store, opts Options) *Worker {
	if opts.GroupPageSize <= 0 {
		opts.GroupPageSize = DefaultGroupPageSize
	}
	if opts.EventPageSize <= 0 {
		opts.EventPageSize = DefaultEventPageSize
	}
	if opts.TailBufferLimit <= 0 {
		opts.TailBufferLimit = DefaultTailBufferLimit
	}
	return &Worker{
		api:   api,
		queue: queue,
		paged: paged,
		tail:  tail,
		opts:  opts,
		log:   opts.Logger.With().Str("component", "fetch").Logger(),
	}
}

// Run executes commands sequentially until ctx is done or the queue is
// closed and drained. A failed command is logged and dropped.
func (w *Worker) Run(ctx context.Context) error {
	for {
		cmd, err := w.queue.Receive(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("receive command: %w", err)
		}
		if err := w.Execute(ctx, cmd); err != nil {
			w.log.Error().Err(err).Str("command", cmd.String()).Msg("fetch failed")
		}
	}
}

// Execute runs a single command. Stores record the outcome either way.
func (w *Worker) Execute(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case FetchLogGroups:
		return w.fetchGroups(ctx)
	case FetchLogEvents:
		if c.Target == Tail {
			return w.fetchTail(ctx, c)
		}
		return w.fetchPage(ctx, c)
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
}

func (w *Worker) fetchGroups(ctx context.Context) (err error) {
	defer func() { w.paged.EndGroupsFetch(err) }()

	var token *string
	for pages := 0; pages < maxGroupPages; pages++ {
		var (
			groups []model.LogGroup
			next   *string
		)
		err = w.call(ctx, func(ctx context.Context) error {
			var callErr error
			groups, next, callErr = w.api.ListLogGroups(ctx, token, w.opts.GroupPageSize)
			return callErr
		})
		if err != nil {
			return fmt.Errorf("list log groups: %w", err)
		}
		w.paged.MergeGroups(groups, next)
		w.log.Debug().Int("count", len(groups)).Bool("more", next != nil).Msg("log group page")
		if next == nil || (token != nil && *next == *token) {
			return nil
		}
		token = next
	}
	return nil
}

func (w *Worker) fetchPage(ctx context.Context, c FetchLogEvents) error {
	var (
		events []model.LogEvent
		next   *string
	)
	err := w.call(ctx, func(ctx context.Context) error {
		var callErr error
		events, next, callErr = w.api.FilterLogEvents(ctx, c.query(), c.Token, w.opts.EventPageSize)
		return callErr
	})
	if !w.paged.CompleteEventsFetch(c.target(), events, next, err) {
		w.log.Debug().Str("group", c.LogGroup).Msg("dropped event page of a replaced query")
		return nil
	}
	if err != nil {
		return fmt.Errorf("filter log events: %w", err)
	}
	w.log.Debug().Str("group", c.LogGroup).Int("count", len(events)).Bool("more", next != nil).Msg("event page")
	return nil
}

func (w *Worker) fetchTail(ctx context.Context, c FetchLogEvents) error {
	var events []model.LogEvent
	err := w.call(ctx, func(ctx context.Context) error {
		var callErr error
		events, _, callErr = w.api.FilterLogEvents(ctx, c.query(), nil, w.opts.EventPageSize)
		return callErr
	})
	if !w.tail.CompleteEventsFetch(c.target(), events, nil, err) {
		w.log.Debug().Str("group", c.LogGroup).Msg("dropped tail page of a replaced query")
		return nil
	}
	if err != nil {
		return fmt.Errorf("tail log events: %w", err)
	}
	w.tail.TrimEvents(w.opts.TailBufferLimit)
	w.tail.SelectLastEvent()
	return nil
}

func (w *Worker) call(ctx context.Context, fn func(context.Context) error) error {
	if w.opts.Timeout <= 0 {
		return fn(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, w.opts.Timeout)
	defer cancel()
	return fn(callCtx)
}

func (c FetchLogEvents) query() model.EventQuery {
	return model.EventQuery{LogGroup: c.LogGroup, Filter: c.Filter, Start: c.Start, End: c.End}
}
