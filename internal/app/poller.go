package app

import (
	"context"
	"time"

	"github.com/five82/cwlogs/internal/state"
)

const (
	defaultTailInterval = time.Second
	maxBackoff          = 30 * time.Second
)

// tailRequester enqueues one tail fetch ending at now.
type tailRequester interface {
	RequestTail(now time.Time) bool
}

// StartTailPoller launches a background goroutine that requests a tail fetch
// every interval while tailing is active. Consecutive failures recorded in
// the tail store stretch the delay with exponential backoff. It returns
// immediately; the goroutine exits when ctx is done.
func StartTailPoller(ctx context.Context, issuer tailRequester, tail *state.Store, interval time.Duration) {
	if interval <= 0 {
		interval = defaultTailInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-timer.C:
				issuer.RequestTail(now)
				timer.Reset(calculateBackoff(tail.Snapshot().ConsecutiveFailures, interval))
			}
		}
	}()
}

// calculateBackoff returns the delay before the next tail request: interval
// doubled per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	backoff := interval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
