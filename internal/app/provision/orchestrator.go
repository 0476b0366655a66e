// internal/app/provision/orchestrator.go
package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	setupstate "github.com/dalemusser/stratacms/internal/app/store/setupstate"
	"github.com/dalemusser/stratacms/internal/app/system/runlog"
	"github.com/dalemusser/stratacms/internal/domain/schema"
	"github.com/dalemusser/stratacms/internal/schema/reader"
)

// ErrAlreadyCompleted is returned when a run is requested while the
// persisted state says provisioning already finished. Reset first.
var ErrAlreadyCompleted = errors.New("provisioning already completed")

// ErrRunInProgress is returned when a run is requested while another
// run is active in this process.
var ErrRunInProgress = errors.New("provisioning run already in progress")

// Orchestrator drives a full provisioning run: read the compiled schema
// artifact, then execute the stages in fixed order inside one failure
// domain. Completion is all-stages-or-nothing; any stage error marks
// the run failed and leaves the completion flag unset.
//
// Runs are only ever started by an explicit privileged request, never
// automatically at startup or on first load.
type Orchestrator struct {
	artifactPath string
	state        *setupstate.Store
	pods         *PodProvisioner
	seeder       *Seeder
	media        *MediaProvisioner
	menus        *MenuProvisioner
	dashboard    *DashboardCustomizer
	options      *OptionDefaulter
	log          *runlog.Logger
	logger       *zap.Logger

	// mu serializes runs within this process. The persisted completion
	// flag is the only cross-process guard; two processes racing before
	// the flag is set fall back on the stages' idempotency checks.
	mu      sync.Mutex
	running bool
}

// NewOrchestrator wires a setup orchestrator.
func NewOrchestrator(
	artifactPath string,
	state *setupstate.Store,
	pods *PodProvisioner,
	seeder *Seeder,
	media *MediaProvisioner,
	menus *MenuProvisioner,
	dashboard *DashboardCustomizer,
	options *OptionDefaulter,
	log *runlog.Logger,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		artifactPath: artifactPath,
		state:        state,
		pods:         pods,
		seeder:       seeder,
		media:        media,
		menus:        menus,
		dashboard:    dashboard,
		options:      options,
		log:          log,
		logger:       logger,
	}
}

// RunResult summarizes one provisioning run.
type RunResult struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Completed   bool      `json:"completed"`
	FailedStage string    `json:"failed_stage,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Run executes a full provisioning pass. It refuses to start when the
// completion flag is already set (use Reset) or when another run is
// active in this process.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return nil, ErrRunInProgress
	}
	o.running = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	done, err := o.state.Completed(ctx)
	if err != nil {
		return nil, fmt.Errorf("read setup state: %w", err)
	}
	if done {
		return nil, ErrAlreadyCompleted
	}

	runID := uuid.New().String()
	result := &RunResult{RunID: runID, StartedAt: time.Now().UTC()}

	o.log.Appendf("=== provisioning run %s started ===", runID)
	o.logger.Info("provisioning run started", zap.String("run_id", runID))

	stage, err := o.runStages(ctx)
	result.FinishedAt = time.Now().UTC()

	if err != nil {
		result.FailedStage = stage
		result.Error = err.Error()
		o.log.Appendf("=== run %s FAILED at stage '%s': %v ===", runID, stage, err)
		o.logger.Error("provisioning run failed",
			zap.String("run_id", runID),
			zap.String("stage", stage),
			zap.Error(err))
		if serr := o.state.RecordFailure(ctx, runID, err); serr != nil {
			o.logger.Error("failed to record run failure", zap.Error(serr))
		}
		return result, err
	}

	if err := o.state.Complete(ctx, runID); err != nil {
		return result, fmt.Errorf("record completion: %w", err)
	}
	result.Completed = true
	o.log.Appendf("=== run %s completed ===", runID)
	o.logger.Info("provisioning run completed",
		zap.String("run_id", runID),
		zap.Duration("took", result.FinishedAt.Sub(result.StartedAt)))
	return result, nil
}

// runStages executes the fixed stage order. On error it reports which
// stage failed.
func (o *Orchestrator) runStages(ctx context.Context) (string, error) {
	o.log.Append("stage 'read schema' started")
	doc, err := reader.Read(o.artifactPath)
	if err != nil {
		return "read schema", err
	}
	o.log.Appendf("stage 'read schema' finished (%d pods, %d menus, %d content items, %d media items)",
		len(doc.Pods), len(doc.Menus), len(doc.SampleContent), len(doc.MediaLibrary))

	stages := []struct {
		name string
		run  func(context.Context, *schema.Document) error
	}{
		{"provision content types", o.pods.CreateAll},
		{"seed content", o.seeder.SeedAll},
		{"upload media", o.media.UploadAll},
		{"create menus", o.menus.CreateMenus},
		{"apply dashboard customization", o.dashboard.Apply},
		{"populate theme options", func(ctx context.Context, d *schema.Document) error {
			_, err := o.options.ApplyDefaults(ctx, d)
			return err
		}},
	}

	for _, stage := range stages {
		o.log.Appendf("stage '%s' started", stage.name)
		if err := stage.run(ctx, doc); err != nil {
			return stage.name, err
		}
		o.log.Appendf("stage '%s' finished", stage.name)
	}
	return "", nil
}

// Reset clears the completion flag so provisioning can run again. It
// does not delete any provisioned content, types, or media; the stages'
// idempotency checks make re-running safe.
func (o *Orchestrator) Reset(ctx context.Context) error {
	if err := o.state.Reset(ctx); err != nil {
		return err
	}
	o.log.Append("setup state reset")
	o.logger.Info("setup state reset")
	return nil
}

// Status describes the orchestrator's persisted and in-process state,
// plus whether the schema artifact is in place for the next run.
type Status struct {
	Phase           string     `json:"phase"`
	Running         bool       `json:"running"`
	RunID           string     `json:"run_id,omitempty"`
	ArtifactPresent bool       `json:"artifact_present"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	FailedAt        *time.Time `json:"failed_at,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
	Dashboard       AdminUI    `json:"dashboard"`
}

// Status reports the current provisioning state.
func (o *Orchestrator) Status(ctx context.Context) (*Status, error) {
	st, err := o.state.Get(ctx)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	running := o.running
	o.mu.Unlock()

	phase := st.Phase
	if running {
		phase = "running"
	}

	_, statErr := os.Stat(o.artifactPath)

	return &Status{
		Phase:           phase,
		Running:         running,
		RunID:           st.RunID,
		ArtifactPresent: statErr == nil,
		CompletedAt:     st.CompletedAt,
		FailedAt:        st.FailedAt,
		LastError:       st.LastError,
		Dashboard:       o.dashboard.Current(),
	}, nil
}
