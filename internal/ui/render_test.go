package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/cwlogs/internal/extract"
	"github.com/five82/cwlogs/internal/model"
)

func TestThemeCycle(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() = %v, want 3 themes", names)
	}
	name := names[0]
	for i := 0; i < len(names); i++ {
		name = NextTheme(name)
	}
	if name != names[0] {
		t.Fatalf("cycling %d times ended on %q, want %q", len(names), name, names[0])
	}
	if got := NextTheme("unknown"); got != names[0] {
		t.Fatalf("NextTheme(unknown) = %q, want %q", got, names[0])
	}
	if got := GetTheme("unknown").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(unknown) = %q, want Nightfox", got)
	}
	for _, n := range names {
		if got := GetTheme(n).Name; got != n {
			t.Fatalf("GetTheme(%q).Name = %q", n, got)
		}
	}
}

func TestLevelStyle(t *testing.T) {
	th := GetTheme("Slate")
	styles := th.Styles()
	if got := styles.LevelStyle(" ERROR ").GetForeground(); got != styles.LevelStyle("error").GetForeground() {
		t.Fatalf("level lookup should ignore case and spaces")
	}
	if got, want := styles.LevelStyle("nope").GetForeground(), styles.Text.GetForeground(); got != want {
		t.Fatalf("unknown level = %v, want text color %v", got, want)
	}
}

func TestDetailContent(t *testing.T) {
	ex, err := extract.New([]extract.Spec{
		{Name: "level", Path: "level"},
		{Name: "user", Path: "ctx.user"},
	})
	if err != nil {
		t.Fatalf("extract.New: %v", err)
	}
	m := New(Options{Extractor: ex})
	e := model.LogEvent{
		ID:        "id-1",
		Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Stream:    "stream-a",
		Message:   `{"level":"warn","ctx":{"user":"bob"}}`,
	}

	out := m.detailContent(e, 60, m.theme.SurfaceAlt)
	for _, want := range []string{"2024-05-01T10:00:00Z", "stream-a", "warn", "bob", `"level": "warn"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("detail missing %q:\n%s", want, out)
		}
	}
}

func TestDetailContent_PlainMessageWithoutExtractor(t *testing.T) {
	m := New(Options{})
	out := m.detailContent(model.LogEvent{ID: "x", Message: "plain text line"}, 40, m.theme.SurfaceAlt)
	if !strings.Contains(out, "plain text line") {
		t.Fatalf("detail missing message:\n%s", out)
	}
}

func TestLoadDiagnostics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cwlogs.log")
	content := `{"level":"info","component":"fetch","time":"2024-05-01T10:00:00Z","message":"started"}
not json

{"level":"error","component":"fetch","error":"boom","time":"2024-05-01T10:00:01Z","message":"command failed"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	msg, ok := loadDiagnosticsCmd(path)().(diagnosticsMsg)
	if !ok {
		t.Fatal("expected diagnosticsMsg")
	}
	if msg.err != nil {
		t.Fatalf("err = %v", msg.err)
	}
	if len(msg.entries) != 3 {
		t.Fatalf("entries = %d, want 3 (blank line skipped)", len(msg.entries))
	}
	if last := msg.entries[2]; last.Level != "error" || !strings.Contains(last.Message, "boom") {
		t.Fatalf("last entry = %+v", last)
	}

	m := New(Options{LogFile: path})
	m.width, m.height, m.ready = 100, 30, true
	m.showDiag = true
	m.diagEntries = msg.entries
	out := m.View()
	if !strings.Contains(out, "command failed: boom") || !strings.Contains(out, "not json") {
		t.Fatalf("diagnostics view missing entries:\n%s", out)
	}
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{3 << 20, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := humanBytes(tt.in); got != tt.want {
			t.Fatalf("humanBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
