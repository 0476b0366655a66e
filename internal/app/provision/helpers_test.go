package provision

import (
	"path/filepath"
	"testing"

	"github.com/dalemusser/stratacms/internal/app/system/runlog"
	"go.uber.org/zap"
)

// testRunLog returns a run log writing into a per-test temp directory.
func testRunLog(t *testing.T) *runlog.Logger {
	t.Helper()
	log, err := runlog.New(filepath.Join(t.TempDir(), "setup-run.log"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create run log: %v", err)
	}
	return log
}
