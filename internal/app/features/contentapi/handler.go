// Package contentapi provides the public read endpoints for provisioned
// content: per-type collections, single records by slug, menus, theme
// options, and taxonomy terms.
//
// All endpoints are unauthenticated pure reads. Store failures never
// surface as 5xx responses; the accessor layer degrades them to empty
// collections.
package contentapi

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the per-resource read endpoints.
type Handler struct {
	acc      *Accessor
	registry *Registry
	logger   *zap.Logger
}

// NewHandler creates a content API handler.
func NewHandler(acc *Accessor, registry *Registry, logger *zap.Logger) *Handler {
	return &Handler{acc: acc, registry: registry, logger: logger}
}

// ListByType handles GET /content/{type}. Unknown types are a 404, not
// an empty list, so typos are distinguishable from empty collections.
// ?page and ?per_page select a page; without them the full collection
// is returned, which is what the bootstrap aggregate also serves.
func (h *Handler) ListByType(w http.ResponseWriter, r *http.Request) {
	postType := chi.URLParam(r, "type")
	if !h.registry.Known(postType) {
		jsonutil.NotFound(w, "unknown content type")
		return
	}

	q := r.URL.Query()
	if q.Get("page") != "" || q.Get("per_page") != "" {
		page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
		perPage, _ := strconv.ParseInt(q.Get("per_page"), 10, 64)
		jsonutil.OK(w, h.acc.CollectionPage(r.Context(), postType, perPage, page))
		return
	}

	jsonutil.OK(w, h.acc.Collection(r.Context(), postType))
}

// GetBySlug handles GET /content/{type}/{slug}.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	postType := chi.URLParam(r, "type")
	slug := chi.URLParam(r, "slug")
	if !h.registry.Known(postType) {
		jsonutil.NotFound(w, "unknown content type")
		return
	}
	rec := h.acc.BySlug(r.Context(), postType, slug)
	if rec == nil {
		jsonutil.NotFound(w, "record not found")
		return
	}
	jsonutil.OK(w, rec)
}

// Menus handles GET /menus.
func (h *Handler) Menus(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, h.acc.Menus(r.Context()))
}

// ThemeOptions handles GET /theme-options.
func (h *Handler) ThemeOptions(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, h.acc.ThemeOptions(r.Context()))
}

// Terms handles GET /terms/{taxonomy}.
func (h *Handler) Terms(w http.ResponseWriter, r *http.Request) {
	taxonomy := chi.URLParam(r, "taxonomy")
	jsonutil.OK(w, h.acc.Terms(r.Context(), taxonomy))
}
