// Package bootstrapapi serves the single aggregate read endpoint a
// frontend calls on initial load. It composes the contentapi accessor's
// sections into one JSON document so the frontend makes one round trip
// instead of five.
package bootstrapapi

import (
	"net/http"

	"github.com/dalemusser/stratacms/internal/app/features/contentapi"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"go.uber.org/zap"
)

// cacheMaxAge is the shared-cache lifetime for the aggregate response
// when the caller does not request fresh data.
const cacheMaxAge = "public, s-maxage=300"

// Handler serves the bootstrap aggregate.
type Handler struct {
	acc      *contentapi.Accessor
	registry *contentapi.Registry
	logger   *zap.Logger
}

// NewHandler creates a bootstrap handler.
func NewHandler(acc *contentapi.Accessor, registry *contentapi.Registry, logger *zap.Logger) *Handler {
	return &Handler{acc: acc, registry: registry, logger: logger}
}

// Bootstrap handles GET /bootstrap.
//
// The response is one document:
//
//	{ site, menus, pages, <content type>: [...], posts, options }
//
// with one array per registered content type. Every section is
// fault-isolated in the accessor, so a failing store read yields an
// empty section rather than a non-2xx response.
//
// ?fresh=1 bypasses shared caches; anything else gets a short
// s-maxage so CDN-fronted deployments can absorb the initial-load
// traffic.
func (h *Handler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc := map[string]any{
		"site":    h.acc.Site(ctx),
		"menus":   h.acc.Menus(ctx),
		"pages":   h.acc.Pages(ctx),
		"posts":   h.acc.Posts(ctx),
		"options": h.acc.ThemeOptions(ctx),
	}

	// One array per registered content type. "page" and "post" already
	// have their fixed keys above.
	for _, name := range h.registry.Types() {
		if name == "page" || name == "post" {
			continue
		}
		doc[name] = h.acc.Collection(ctx, name)
	}

	if r.URL.Query().Get("fresh") == "1" {
		w.Header().Set("Cache-Control", "no-store")
	} else {
		w.Header().Set("Cache-Control", cacheMaxAge)
	}

	jsonutil.OK(w, doc)
}
