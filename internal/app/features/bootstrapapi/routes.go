package bootstrapapi

import (
	"net/http"

	"github.com/dalemusser/stratacms/internal/app/system/apicors"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the bootstrap aggregate endpoint.
//
// When mounted at /api/v1/bootstrap:
//   - GET /api/v1/bootstrap - Aggregate site/menus/content/options document
//
// Public, unauthenticated, pure read. CORS is permissive.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(apicors.Middleware())

	r.Get("/", h.Bootstrap)

	return r
}
