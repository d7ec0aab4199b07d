package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/cwlogs/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second},
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := time.Second
	for failures := 0; failures <= 100; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type countingRequester struct {
	calls atomic.Int32
	last  atomic.Int64
}

func (c *countingRequester) RequestTail(now time.Time) bool {
	c.calls.Add(1)
	c.last.Store(now.UnixNano())
	return true
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestStartTailPoller_RequestsEachInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := &countingRequester{}
	StartTailPoller(ctx, req, state.NewStore(), 5*time.Millisecond)

	waitFor(t, func() bool { return req.calls.Load() >= 3 })
	if req.last.Load() == 0 {
		t.Fatal("RequestTail should receive the tick time")
	}
}

func TestStartTailPoller_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	req := &countingRequester{}
	StartTailPoller(ctx, req, state.NewStore(), 5*time.Millisecond)
	waitFor(t, func() bool { return req.calls.Load() >= 1 })

	cancel()
	time.Sleep(20 * time.Millisecond)
	stopped := req.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := req.calls.Load(); got != stopped {
		t.Fatalf("poller kept running after cancel: %d -> %d calls", stopped, got)
	}
}

func TestStartTailPoller_BacksOffOnFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tail := state.NewStore()
	for i := 0; i < 10; i++ {
		tail.EndEventsFetch(errors.New("throttled"))
	}
	req := &countingRequester{}
	StartTailPoller(ctx, req, tail, 5*time.Millisecond)

	waitFor(t, func() bool { return req.calls.Load() >= 1 })
	time.Sleep(100 * time.Millisecond)
	if got := req.calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1 while backing off", got)
	}
}
