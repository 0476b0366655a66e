// internal/app/features/contentapi/registry.go
package contentapi

import (
	"context"
	"sync"

	podstore "github.com/dalemusser/stratacms/internal/app/store/pods"
	"github.com/dalemusser/stratacms/internal/domain/schema"
	"go.uber.org/zap"
)

// Registry caches the set of provisioned content type names so request
// routing can validate {type} path parameters without a store round
// trip. It is refreshed once per provisioning pass and once at startup.
type Registry struct {
	pods   *podstore.Store
	logger *zap.Logger

	mu    sync.RWMutex
	types []string
	known map[string]struct{}
}

// NewRegistry creates an empty registry. Call Refresh to populate it.
func NewRegistry(pods *podstore.Store, logger *zap.Logger) *Registry {
	return &Registry{
		pods:   pods,
		logger: logger,
		known:  map[string]struct{}{},
	}
}

// Refresh reloads the registry from the pod definitions collection. It
// replaces the cached set wholesale in one pass.
func (g *Registry) Refresh(ctx context.Context) error {
	defs, err := g.pods.ListByKind(ctx, schema.KindPostType)
	if err != nil {
		return err
	}

	types := make([]string, 0, len(defs))
	known := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		types = append(types, def.Name)
		known[def.Name] = struct{}{}
	}

	g.mu.Lock()
	g.types = types
	g.known = known
	g.mu.Unlock()

	g.logger.Info("content type registry refreshed", zap.Strings("types", types))
	return nil
}

// Known reports whether the named content type has been provisioned.
func (g *Registry) Known(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.known[name]
	return ok
}

// Types returns the provisioned content type names in creation order.
func (g *Registry) Types() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.types...)
}
