package contentapi

import (
	"net/http"

	"github.com/dalemusser/stratacms/internal/app/system/apicors"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the public content read endpoints.
//
// When mounted at /api/v1:
//   - GET /api/v1/content/{type}        - List records of a content type
//   - GET /api/v1/content/{type}/{slug} - Single record by slug
//   - GET /api/v1/menus                 - All menus keyed by location
//   - GET /api/v1/theme-options         - Theme options key/value map
//   - GET /api/v1/terms/{taxonomy}      - Terms of a taxonomy
//
// No authentication; these serve public site content to headless
// frontends. CORS is permissive.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(apicors.Middleware())

	r.Get("/content/{type}", h.ListByType)
	r.Get("/content/{type}/{slug}", h.GetBySlug)
	r.Get("/menus", h.Menus)
	r.Get("/theme-options", h.ThemeOptions)
	r.Get("/terms/{taxonomy}", h.Terms)

	return r
}
