package fetch

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Send after Close, and by Receive once a
// closed queue is drained.
var ErrQueueClosed = errors.New("fetch queue closed")

// Queue is an unbounded FIFO of commands. Send never blocks, so the UI can
// enqueue from its update loop. Safe for concurrent producers and consumers.
type Queue struct {
	mu     sync.Mutex
	items  []Command
	closed bool
	ready  chan struct{}
}

// NewQueue returns an empty open queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Send appends cmd to the queue.
func (q *Queue) Send(cmd Command) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	q.items = append(q.items, cmd)
	q.signal()
	return nil
}

// Receive blocks until a command is available, the queue is closed and
// drained, or ctx is done.
func (q *Queue) Receive(ctx context.Context) (Command, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			cmd := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			if len(q.items) > 0 {
				// Wake the next waiting consumer.
				q.signal()
			}
			q.mu.Unlock()
			return cmd, nil
		}
		if q.closed {
			q.mu.Unlock()
			return nil, ErrQueueClosed
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.ready:
		}
	}
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops accepting commands. Pending commands are still delivered.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ready)
}

// signal must be called with mu held.
func (q *Queue) signal() {
	if q.closed {
		return
	}
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
