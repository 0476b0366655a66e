// Package runlog records provisioning run activity to an append-only
// log file. Every line is also mirrored to the structured logger so
// operators can follow a run from either place.
//
// The file is never truncated by the application; each run appends to
// the history left by previous runs, including failed ones.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Logger appends timestamped lines to a provisioning log file.
type Logger struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// New creates a run logger writing to path. The parent directory is
// created if it does not exist. The file itself is created lazily on
// the first Append.
func New(path string, logger *zap.Logger) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create run log directory: %w", err)
	}
	return &Logger{path: path, logger: logger}, nil
}

// Append writes one line to the log file, prefixed with a UTC
// timestamp, and mirrors it to the structured logger. Errors writing
// the file are logged but not returned; a full disk must not abort a
// provisioning run.
func (l *Logger) Append(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stamp := time.Now().UTC().Format("2006-01-02 15:04:05")
	entry := fmt.Sprintf("[%s] %s\n", stamp, line)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Warn("run log open failed", zap.String("path", l.path), zap.Error(err))
	} else {
		if _, err := f.WriteString(entry); err != nil {
			l.logger.Warn("run log write failed", zap.String("path", l.path), zap.Error(err))
		}
		f.Close()
	}

	l.logger.Info("setup: " + line)
}

// Appendf formats and appends one line.
func (l *Logger) Appendf(format string, args ...any) {
	l.Append(fmt.Sprintf(format, args...))
}

// Tail returns up to n lines from the end of the log file, oldest
// first. A missing file yields an empty slice, not an error.
func (l *Logger) Tail(n int) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// Path returns the location of the log file.
func (l *Logger) Path() string {
	return l.path
}
