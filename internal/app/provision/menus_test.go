package provision

import (
	"testing"

	menustore "github.com/dalemusser/stratacms/internal/app/store/menus"
	"github.com/dalemusser/stratacms/internal/domain/schema"
	"github.com/dalemusser/stratacms/internal/testutil"
	"go.uber.org/zap"
)

func TestMenuProvisioner_CreateMenus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	menus := menustore.New(db)
	prov := NewMenuProvisioner(menus, testRunLog(t), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	doc := &schema.Document{
		Menus: []schema.Menu{{
			Location: "primary",
			Name:     "Main Menu",
			Items: []schema.MenuItem{
				{Title: "Home", URL: "/"},
				{Title: "Services", URL: "/services/", Children: []schema.MenuItem{
					{Title: "Web Design", URL: "/services/web-design/"},
					{Title: "Branding", URL: "/services/branding/"},
				}},
				{Title: "Contact", URL: "/contact/"},
			},
		}},
	}

	if err := prov.CreateMenus(ctx, doc); err != nil {
		t.Fatalf("CreateMenus() error = %v", err)
	}

	menu, err := menus.GetByName(ctx, "Main Menu")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if menu == nil {
		t.Fatal("GetByName() = nil, menu was not created")
	}

	items, err := menus.ItemsByMenu(ctx, menu.ID)
	if err != nil {
		t.Fatalf("ItemsByMenu() error = %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("ItemsByMenu() returned %d items, want 5", len(items))
	}

	// Depth-first order: children directly follow their parent.
	wantOrder := []string{"Home", "Services", "Web Design", "Branding", "Contact"}
	for i, want := range wantOrder {
		if items[i].Title != want {
			t.Errorf("items[%d].Title = %q, want %q", i, items[i].Title, want)
		}
	}

	// Children point at the generated parent id.
	servicesID := items[1].ID
	for _, idx := range []int{2, 3} {
		if items[idx].ParentID == nil || *items[idx].ParentID != servicesID {
			t.Errorf("items[%d].ParentID = %v, want %s", idx, items[idx].ParentID, servicesID.Hex())
		}
	}
	if items[0].ParentID != nil || items[4].ParentID != nil {
		t.Error("top-level items should have nil ParentID")
	}

	// Items default to the custom type.
	if items[0].Type != "custom" {
		t.Errorf("items[0].Type = %q, want %q", items[0].Type, "custom")
	}

	locations, err := menus.Locations(ctx)
	if err != nil {
		t.Fatalf("Locations() error = %v", err)
	}
	if locations["primary"] != menu.ID {
		t.Errorf("Locations()[primary] = %s, want %s", locations["primary"].Hex(), menu.ID.Hex())
	}
}

func TestMenuProvisioner_RerunReplacesItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	menus := menustore.New(db)
	prov := NewMenuProvisioner(menus, testRunLog(t), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := &schema.Document{
		Menus: []schema.Menu{{
			Name: "Main Menu",
			Items: []schema.MenuItem{
				{Title: "Home", URL: "/"},
				{Title: "Old Page", URL: "/old/"},
			},
		}},
	}
	if err := prov.CreateMenus(ctx, first); err != nil {
		t.Fatalf("CreateMenus() first pass error = %v", err)
	}

	second := &schema.Document{
		Menus: []schema.Menu{{
			Name: "Main Menu",
			Items: []schema.MenuItem{
				{Title: "Home", URL: "/"},
				{Title: "New Page", URL: "/new/"},
			},
		}},
	}
	if err := prov.CreateMenus(ctx, second); err != nil {
		t.Fatalf("CreateMenus() second pass error = %v", err)
	}

	menu, err := menus.GetByName(ctx, "Main Menu")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	items, err := menus.ItemsByMenu(ctx, menu.ID)
	if err != nil {
		t.Fatalf("ItemsByMenu() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("ItemsByMenu() returned %d items after rerun, want 2 (replaced, not appended)", len(items))
	}
	if items[1].Title != "New Page" {
		t.Errorf("items[1].Title = %q, want %q", items[1].Title, "New Page")
	}
}

func TestMenuProvisioner_SkipsUnnamed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	menus := menustore.New(db)
	prov := NewMenuProvisioner(menus, testRunLog(t), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	doc := &schema.Document{
		Menus: []schema.Menu{
			{Name: "", Items: []schema.MenuItem{{Title: "Orphan", URL: "/"}}},
			{Name: "Footer Menu", Items: []schema.MenuItem{
				{Title: "Privacy", URL: "/privacy/"},
				// Untitled items cannot materialize, children included.
				{Title: "", URL: "/nowhere/", Children: []schema.MenuItem{{Title: "Hidden", URL: "/hidden/"}}},
			}},
		},
	}

	if err := prov.CreateMenus(ctx, doc); err != nil {
		t.Fatalf("CreateMenus() error = %v", err)
	}

	footer, err := menus.GetByName(ctx, "Footer Menu")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if footer == nil {
		t.Fatal("GetByName() = nil, named menu should still be created")
	}
	items, err := menus.ItemsByMenu(ctx, footer.ID)
	if err != nil {
		t.Fatalf("ItemsByMenu() error = %v", err)
	}
	if len(items) != 1 {
		t.Errorf("ItemsByMenu() returned %d items, want 1 (untitled subtree skipped)", len(items))
	}
}
