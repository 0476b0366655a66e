package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestLogger(t *testing.T) *Logger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "setup.log")
	l, err := New(path, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l
}

func TestAppend_CreatesFile(t *testing.T) {
	l := newTestLogger(t)

	l.Append("run started")

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "run started") {
		t.Errorf("log file should contain appended line, got %q", string(data))
	}
	if !strings.HasPrefix(string(data), "[") {
		t.Errorf("log line should start with a timestamp, got %q", string(data))
	}
}

func TestAppend_Accumulates(t *testing.T) {
	l := newTestLogger(t)

	l.Append("first")
	l.Append("second")
	l.Appendf("third %d", 3)

	lines, err := l.Tail(0)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[0], "first") {
		t.Errorf("lines[0] = %q, want to contain 'first'", lines[0])
	}
	if !strings.Contains(lines[2], "third 3") {
		t.Errorf("lines[2] = %q, want to contain 'third 3'", lines[2])
	}
}

func TestTail_Limit(t *testing.T) {
	l := newTestLogger(t)

	for i := 0; i < 10; i++ {
		l.Appendf("line %d", i)
	}

	lines, err := l.Tail(3)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[0], "line 7") {
		t.Errorf("lines[0] = %q, want to contain 'line 7'", lines[0])
	}
	if !strings.Contains(lines[2], "line 9") {
		t.Errorf("lines[2] = %q, want to contain 'line 9'", lines[2])
	}
}

func TestTail_MissingFile(t *testing.T) {
	l := newTestLogger(t)

	lines, err := l.Tail(10)
	if err != nil {
		t.Fatalf("Tail() on missing file: error = %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("got %d lines, want 0", len(lines))
	}
}

func TestAppend_NeverTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.log")

	l1, err := New(path, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l1.Append("from first run")

	// A second logger on the same path must append, not truncate.
	l2, err := New(path, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l2.Append("from second run")

	lines, err := l2.Tail(0)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "from first run") {
		t.Errorf("history from previous run lost: %q", lines[0])
	}
}
