package cloudwatch

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/five82/cwlogs/internal/model"
)

const (
	demoStep    = 5 * time.Second
	demoHistory = 6 * time.Hour
)

var demoServices = []string{
	"api", "auth", "billing", "cache", "checkout", "gateway", "inventory",
	"mailer", "notifications", "orders", "payments", "reports", "search",
	"sessions", "shipping", "users",
}

var demoEnvs = []string{"prod", "staging", "dev"}

var demoTemplates = []func(n int64) string{
	func(n int64) string { return "Application started successfully" },
	func(n int64) string {
		return fmt.Sprintf(`{"level":"INFO","msg":"request completed","status":200,"latency_ms":%d,"request_id":"req-%d"}`, 20+n%400, n)
	},
	func(n int64) string { return fmt.Sprintf("WARN high memory usage detected (%d%% utilized)", 70+n%30) },
	func(n int64) string {
		return fmt.Sprintf(`{"level":"ERROR","msg":"upstream timeout","status":504,"latency_ms":%d,"request_id":"req-%d","error":{"kind":"timeout","retry":%d}}`, 3000+n%2000, n, n%4)
	},
	func(n int64) string { return fmt.Sprintf("DEBUG query executed in %dms (%d rows)", n%90, n%50) },
	func(n int64) string {
		return fmt.Sprintf("ERROR failed to process job %d\n  at worker.run (worker.go:%d)\n  at main.loop (main.go:42)", n, 100+n%50)
	},
	func(n int64) string { return fmt.Sprintf("INFO cache warmed up, %d entries loaded", 1000+n%500) },
}

// Demo is an in-memory log store with deterministic data that moves with
// the clock, for running without AWS.
type Demo struct {
	now    func() time.Time
	groups []model.LogGroup
}

// NewDemo returns a demo store. A nil now uses time.Now.
func NewDemo(now func() time.Time) *Demo {
	if now == nil {
		now = time.Now
	}
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var groups []model.LogGroup
	for _, env := range demoEnvs {
		for i, svc := range demoServices {
			name := fmt.Sprintf("/%s/%s", env, svc)
			groups = append(groups, model.LogGroup{
				ARN:         "arn:aws:logs:us-east-1:000000000000:log-group:" + name + ":*",
				Name:        name,
				CreatedAt:   created.Add(time.Duration(i) * 24 * time.Hour),
				StoredBytes: int64(len(name)) << 20,
			})
		}
	}
	return &Demo{now: now, groups: groups}
}

// ListLogGroups pages through the fixed group list. Tokens are offsets.
func (d *Demo) ListLogGroups(ctx context.Context, token *string, pageSize int32) ([]model.LogGroup, *string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	offset, err := parseToken(token)
	if err != nil {
		return nil, nil, err
	}
	if offset > int64(len(d.groups)) {
		offset = int64(len(d.groups))
	}
	end := offset + int64(pageSize)
	if pageSize <= 0 || end > int64(len(d.groups)) {
		end = int64(len(d.groups))
	}
	page := append([]model.LogGroup(nil), d.groups[offset:end]...)
	if end == int64(len(d.groups)) {
		return page, nil, nil
	}
	next := strconv.FormatInt(end, 10)
	return page, &next, nil
}

// FilterLogEvents generates one event every five seconds over the last six
// hours. The filter is a case-insensitive substring match; tokens are the
// unix second to resume scanning from.
func (d *Demo) FilterLogEvents(ctx context.Context, q model.EventQuery, token *string, limit int32) ([]model.LogEvent, *string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	gi := d.groupIndex(q.LogGroup)
	if gi < 0 {
		return nil, nil, fmt.Errorf("log group %q does not exist", q.LogGroup)
	}
	now := d.now()
	start, end := q.Start, q.End
	if end.IsZero() || end.After(now) {
		end = now
	}
	if start.IsZero() || start.Before(now.Add(-demoHistory)) {
		start = now.Add(-demoHistory)
	}

	step := int64(demoStep / time.Second)
	ts := (start.Unix() + step - 1) / step * step
	if resume, err := parseToken(token); err != nil {
		return nil, nil, err
	} else if resume > ts {
		ts = resume
	}
	if limit <= 0 {
		limit = 100
	}

	filter := strings.ToLower(q.Filter)
	var events []model.LogEvent
	for ; ts <= end.Unix(); ts += step {
		if len(events) == int(limit) {
			next := strconv.FormatInt(ts, 10)
			return events, &next, nil
		}
		ev := demoEvent(q.LogGroup, gi, ts)
		if filter != "" && !strings.Contains(strings.ToLower(ev.Message), filter) {
			continue
		}
		events = append(events, ev)
	}
	return events, nil, nil
}

func (d *Demo) groupIndex(name string) int {
	for i, g := range d.groups {
		if g.Name == name {
			return i
		}
	}
	return -1
}

func demoEvent(group string, gi int, ts int64) model.LogEvent {
	n := ts/int64(demoStep/time.Second) + int64(gi)
	at := time.Unix(ts, 0)
	return model.LogEvent{
		ID:        fmt.Sprintf("%s/%d", group, ts),
		Timestamp: at,
		Ingested:  at.Add(time.Duration(n%900) * time.Millisecond),
		Stream:    fmt.Sprintf("%s/stream-%d", strings.TrimPrefix(group, "/"), n%3),
		Message:   demoTemplates[n%int64(len(demoTemplates))](n),
	}
}

func parseToken(token *string) (int64, error) {
	if token == nil || *token == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(*token, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid next token %q: %w", *token, err)
	}
	return v, nil
}
