package search

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrStartAfterEnd represents an invalid range where start > end.
var ErrStartAfterEnd = errors.New("start is after end")

// defaultSpan is the range width used when only one bound is given.
const defaultSpan = 24 * time.Hour

// ParseRange parses "start..end" or "start,end" RFC3339 bounds.
// Rules:
//   - only start: end = now
//   - only end: start = end - 24h
//   - both set: start must not be after end
func ParseRange(input string, now time.Time) (time.Time, time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, time.Time{}, errors.New("empty range")
	}
	startStr, endStr, ok := strings.Cut(input, "..")
	if !ok {
		startStr, endStr, ok = strings.Cut(input, ",")
	}
	if !ok {
		startStr, endStr = input, ""
	}
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)
	if startStr == "" && endStr == "" {
		return time.Time{}, time.Time{}, errors.New("empty range")
	}

	var start, end time.Time
	var err error
	if startStr != "" {
		if start, err = time.Parse(time.RFC3339, startStr); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse start: %w", err)
		}
	}
	if endStr != "" {
		if end, err = time.Parse(time.RFC3339, endStr); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse end: %w", err)
		}
	}
	switch {
	case startStr != "" && endStr == "":
		end = now
	case startStr == "" && endStr != "":
		start = end.Add(-defaultSpan)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, ErrStartAfterEnd
	}
	return start, end, nil
}
