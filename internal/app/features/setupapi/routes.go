package setupapi

import (
	"net/http"

	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes returns a router with the setup admin endpoints.
//
// When mounted at /admin/api/setup:
//   - POST /admin/api/setup/run    - Trigger a provisioning run
//   - POST /admin/api/setup/reset  - Clear the completion flag
//   - GET  /admin/api/setup/status - Current provisioning state
//   - GET  /admin/api/setup/log    - Tail of the run log
//
// Authentication is via setup key (Bearer token in Authorization
// header). Either a plaintext key or a bcrypt hash may be configured;
// the hash wins when both are set.
func Routes(h *Handler, setupKey, setupKeyHash string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.SetupKeyAuth(setupKey, setupKeyHash, logger))

	r.Post("/run", h.Run)
	r.Post("/reset", h.Reset)
	r.Get("/status", h.GetStatus)
	r.Get("/log", h.GetLog)

	return r
}
