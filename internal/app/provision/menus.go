// internal/app/provision/menus.go
package provision

import (
	"context"

	menustore "github.com/dalemusser/stratacms/internal/app/store/menus"
	"github.com/dalemusser/stratacms/internal/app/system/runlog"
	"github.com/dalemusser/stratacms/internal/domain/schema"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MenuProvisioner creates navigation menus from a schema document.
//
// Menus are keyed by name. Re-provisioning an existing menu replaces
// its item tree wholesale instead of appending, so repeated runs cannot
// accumulate duplicate items. Location bindings are last-write-wins.
type MenuProvisioner struct {
	menus  *menustore.Store
	log    *runlog.Logger
	logger *zap.Logger
}

// NewMenuProvisioner creates a menu provisioner.
func NewMenuProvisioner(menus *menustore.Store, log *runlog.Logger, logger *zap.Logger) *MenuProvisioner {
	return &MenuProvisioner{menus: menus, log: log, logger: logger}
}

// CreateMenus provisions every menu in the document. A menu without a
// name is skipped with a warning.
func (m *MenuProvisioner) CreateMenus(ctx context.Context, doc *schema.Document) error {
	for _, menu := range doc.Menus {
		if menu.Name == "" {
			m.logger.Warn("skipping menu without name")
			m.log.Append("SKIP menu (missing name)")
			continue
		}
		// Store rejections are entry-local: log, record, move on.
		if err := m.createMenu(ctx, menu); err != nil {
			m.logger.Warn("store rejected menu",
				zap.String("menu", menu.Name),
				zap.Error(err))
			m.log.Appendf("SKIP menu '%s' (store error): %v", menu.Name, err)
		}
	}
	return nil
}

func (m *MenuProvisioner) createMenu(ctx context.Context, menu schema.Menu) error {
	existing, err := m.menus.GetByName(ctx, menu.Name)
	if err != nil {
		return err
	}

	var menuID primitive.ObjectID
	if existing == nil {
		created, err := m.menus.Create(ctx, menu.Name)
		if err != nil {
			return err
		}
		menuID = created.ID
		m.log.Appendf("CREATED menu '%s'", menu.Name)
	} else {
		menuID = existing.ID
		// Rebuild the tree from the document; appending on every run
		// would duplicate items.
		if err := m.menus.ClearItems(ctx, menuID); err != nil {
			return err
		}
		m.log.Appendf("REBUILT menu '%s'", menu.Name)
	}

	pos := 0
	if err := m.addItems(ctx, menuID, nil, menu.Items, &pos); err != nil {
		return err
	}

	if menu.Location != "" {
		if err := m.menus.BindLocation(ctx, menu.Location, menuID); err != nil {
			return err
		}
		m.log.Appendf("BOUND menu '%s' to location '%s'", menu.Name, menu.Location)
	}

	m.logger.Info("provisioned menu",
		zap.String("menu", menu.Name),
		zap.Int("items", pos),
		zap.String("location", menu.Location))
	return nil
}

// addItems inserts items depth-first so every child follows its parent.
// Position increments across the whole tree, which keeps sibling order
// stable under the flat position-sorted read. Items without a title
// cannot be materialized and are skipped, children included.
func (m *MenuProvisioner) addItems(ctx context.Context, menuID primitive.ObjectID, parentID *primitive.ObjectID, items []schema.MenuItem, pos *int) error {
	for _, item := range items {
		if item.Title == "" {
			m.logger.Warn("skipping menu item without title",
				zap.String("url", item.URL))
			continue
		}

		itemType := item.Type
		if itemType == "" {
			itemType = "custom"
		}

		stored := menustore.Item{
			MenuID:   menuID,
			ParentID: parentID,
			Title:    item.Title,
			URL:      item.URL,
			Type:     itemType,
			ObjectID: item.ObjectID,
			Position: *pos,
		}
		id, err := m.menus.AddItem(ctx, stored)
		if err != nil {
			return err
		}
		*pos++

		if len(item.Children) > 0 {
			if err := m.addItems(ctx, menuID, &id, item.Children, pos); err != nil {
				return err
			}
		}
	}
	return nil
}
