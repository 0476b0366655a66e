// Package setupapi provides the administrative endpoints that drive
// provisioning: trigger a run, reset the completion flag, and inspect
// the current state and run log.
//
// All endpoints require the setup key; they are never exposed to the
// public API surface.
package setupapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/stratacms/internal/app/provision"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/runlog"
	"go.uber.org/zap"
)

// defaultLogLines is how many run-log lines the log endpoint returns
// when the caller does not ask for a specific count.
const defaultLogLines = 200

// Handler serves the setup admin endpoints.
type Handler struct {
	orch   *provision.Orchestrator
	log    *runlog.Logger
	logger *zap.Logger
}

// NewHandler creates a setup API handler.
func NewHandler(orch *provision.Orchestrator, log *runlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{orch: orch, log: log, logger: logger}
}

// Run handles POST /run. It triggers a full provisioning run and blocks
// until the run finishes, returning the run summary.
//
// A run that is refused because provisioning already completed, or
// because another run is active, is a 409 so callers can tell "did not
// start" apart from "started and failed".
//
// The run executes on a context detached from the request: the global
// request timeout and a dropped client connection must not cancel a
// provisioning pass mid-stage and record it as failed.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := h.orch.Run(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, provision.ErrAlreadyCompleted):
		jsonutil.Error(w, http.StatusConflict, "provisioning already completed; reset first")
		return
	case errors.Is(err, provision.ErrRunInProgress):
		jsonutil.Error(w, http.StatusConflict, "a provisioning run is already in progress")
		return
	case err != nil:
		// The run started but a stage failed. The result carries the
		// failing stage; the run log has the detail.
		h.logger.Warn("provisioning run failed", zap.Error(err))
		jsonutil.JSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	jsonutil.OK(w, result)
}

// Reset handles POST /reset. It clears the completion flag only; it
// does not delete any provisioned content.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.Reset(r.Context()); err != nil {
		h.logger.Error("setup reset failed", zap.Error(err))
		jsonutil.InternalError(w, "failed to reset setup state")
		return
	}
	jsonutil.OK(w, map[string]string{"status": "reset"})
}

// GetStatus handles GET /status.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.orch.Status(r.Context())
	if err != nil {
		h.logger.Error("setup status read failed", zap.Error(err))
		jsonutil.InternalError(w, "failed to read setup state")
		return
	}
	jsonutil.OK(w, st)
}

// GetLog handles GET /log. ?lines=N limits the tail; the default keeps
// responses small for long-lived installs.
func (h *Handler) GetLog(w http.ResponseWriter, r *http.Request) {
	n := defaultLogLines
	if s := r.URL.Query().Get("lines"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			jsonutil.BadRequest(w, "lines must be a positive integer")
			return
		}
		n = v
	}
	lines, err := h.log.Tail(n)
	if err != nil {
		h.logger.Error("run log read failed", zap.Error(err))
		jsonutil.InternalError(w, "failed to read run log")
		return
	}
	if lines == nil {
		lines = []string{}
	}
	jsonutil.OK(w, map[string]any{"lines": lines})
}
