// internal/app/provision/dashboard.go
package provision

import (
	"context"
	"sync"

	"github.com/dalemusser/stratacms/internal/app/system/runlog"
	"github.com/dalemusser/stratacms/internal/domain/schema"
	"go.uber.org/zap"
)

// AdminUI holds the computed admin-surface cosmetics for the current
// process: which admin menus are pruned, their order, removed widgets,
// and branding. It is derived from the schema document on each
// provisioning run and never written to the store.
type AdminUI struct {
	RemovedMenus   []string
	MenuOrder      []string
	RemovedWidgets []string
	BrandName      string
	BrandLogo      string
	FooterText     string
}

// DashboardCustomizer applies the document's dashboard customization as
// in-process state. Re-running replaces the previous state wholesale.
type DashboardCustomizer struct {
	mu      sync.RWMutex
	current AdminUI

	log    *runlog.Logger
	logger *zap.Logger
}

// NewDashboardCustomizer creates a dashboard customizer.
func NewDashboardCustomizer(log *runlog.Logger, logger *zap.Logger) *DashboardCustomizer {
	return &DashboardCustomizer{log: log, logger: logger}
}

// Apply computes the admin UI state from the document. It touches no
// store collections; customization is purely an environment effect.
func (d *DashboardCustomizer) Apply(ctx context.Context, doc *schema.Document) error {
	_ = ctx

	if doc.Dashboard == nil {
		d.log.Appendf("dashboard: no customization in document, keeping defaults")
		return nil
	}

	ui := AdminUI{
		RemovedMenus:   append([]string(nil), doc.Dashboard.RemoveMenus...),
		MenuOrder:      append([]string(nil), doc.Dashboard.MenuOrder...),
		RemovedWidgets: append([]string(nil), doc.Dashboard.RemoveWidgets...),
		BrandName:      doc.Dashboard.BrandName,
		BrandLogo:      doc.Dashboard.BrandLogo,
		FooterText:     doc.Dashboard.FooterText,
	}

	d.mu.Lock()
	d.current = ui
	d.mu.Unlock()

	d.log.Appendf("dashboard: %d menus removed, %d widgets removed",
		len(ui.RemovedMenus), len(ui.RemovedWidgets))
	d.logger.Info("applied dashboard customization",
		zap.Int("removed_menus", len(ui.RemovedMenus)),
		zap.Int("removed_widgets", len(ui.RemovedWidgets)),
		zap.String("brand_name", ui.BrandName))
	return nil
}

// Current returns the admin UI state computed by the last Apply.
func (d *DashboardCustomizer) Current() AdminUI {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}
