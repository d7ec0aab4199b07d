package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 || path == "" {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one parsed application log line.
type Entry struct {
	Time      time.Time
	Level     string
	Component string
	Message   string
	// Fields holds the remaining key=value pairs, sorted by key.
	Fields string
	// Raw is the original line; set alone when the line is not JSON.
	Raw string
}

// Parse decodes a zerolog JSON line. Lines that are not JSON objects come
// back with only Raw set.
func Parse(line string) Entry {
	var obj map[string]any
	if err := json.Unmarshal([]byte(line), &obj); err != nil {
		return Entry{Raw: line}
	}
	e := Entry{Raw: line}
	if s, ok := obj["time"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
			e.Time = ts
		}
	}
	e.Level, _ = obj["level"].(string)
	e.Component, _ = obj["component"].(string)
	e.Message, _ = obj["message"].(string)
	if errMsg, ok := obj["error"].(string); ok && errMsg != "" {
		if e.Message != "" {
			e.Message += ": "
		}
		e.Message += errMsg
	}

	var keys []string
	for k := range obj {
		switch k {
		case "time", "level", "component", "message", "error":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, obj[k]))
	}
	e.Fields = strings.Join(parts, " ")
	return e
}

// String renders the entry as a single display line.
func (e Entry) String() string {
	if e.Level == "" && e.Message == "" && e.Time.IsZero() {
		return e.Raw
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	if e.Level != "" {
		b.WriteString(strings.ToUpper(e.Level))
		b.WriteByte(' ')
	}
	if e.Component != "" {
		b.WriteString("[" + e.Component + "] ")
	}
	b.WriteString(e.Message)
	if e.Fields != "" {
		b.WriteString(" " + e.Fields)
	}
	return strings.TrimRight(b.String(), " ")
}
