package menustore

import (
	"testing"

	"github.com/dalemusser/stratacms/internal/testutil"
)

func TestStore_Create_And_GetByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	menu, err := store.Create(ctx, "Main Menu")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if menu.ID.IsZero() {
		t.Error("Create() should assign an ID")
	}

	got, err := store.GetByName(ctx, "Main Menu")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetByName() = nil after Create()")
	}
	if got.ID != menu.ID {
		t.Errorf("GetByName() ID = %s, want %s", got.ID.Hex(), menu.ID.Hex())
	}

	missing, err := store.GetByName(ctx, "Footer Menu")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetByName() = %+v for a missing menu, want nil", missing)
	}
}

func TestStore_Items_Hierarchy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	menu, err := store.Create(ctx, "Main Menu")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	parentID, err := store.AddItem(ctx, Item{
		MenuID:   menu.ID,
		Title:    "Services",
		URL:      "/services/",
		Type:     "custom",
		Position: 1,
	})
	if err != nil {
		t.Fatalf("AddItem() parent error = %v", err)
	}

	if _, err := store.AddItem(ctx, Item{
		MenuID:   menu.ID,
		ParentID: &parentID,
		Title:    "Web Design",
		URL:      "/services/web-design/",
		Type:     "custom",
		Position: 2,
	}); err != nil {
		t.Fatalf("AddItem() child error = %v", err)
	}

	items, err := store.ItemsByMenu(ctx, menu.ID)
	if err != nil {
		t.Fatalf("ItemsByMenu() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("ItemsByMenu() returned %d items, want 2", len(items))
	}
	if items[0].Title != "Services" {
		t.Errorf("ItemsByMenu()[0].Title = %q, want %q (position order)", items[0].Title, "Services")
	}
	if items[1].ParentID == nil || *items[1].ParentID != parentID {
		t.Errorf("ItemsByMenu()[1].ParentID = %v, want %s", items[1].ParentID, parentID.Hex())
	}
}

func TestStore_ClearItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	menu, err := store.Create(ctx, "Main Menu")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	other, err := store.Create(ctx, "Footer Menu")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := store.AddItem(ctx, Item{MenuID: menu.ID, Title: "Home", URL: "/", Type: "custom", Position: 1}); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if _, err := store.AddItem(ctx, Item{MenuID: other.ID, Title: "Privacy", URL: "/privacy/", Type: "custom", Position: 1}); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	if err := store.ClearItems(ctx, menu.ID); err != nil {
		t.Fatalf("ClearItems() error = %v", err)
	}

	items, err := store.ItemsByMenu(ctx, menu.ID)
	if err != nil {
		t.Fatalf("ItemsByMenu() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("ItemsByMenu() after ClearItems() returned %d items, want 0", len(items))
	}

	// Other menus are untouched.
	otherItems, err := store.ItemsByMenu(ctx, other.ID)
	if err != nil {
		t.Fatalf("ItemsByMenu() error = %v", err)
	}
	if len(otherItems) != 1 {
		t.Errorf("ItemsByMenu() for the other menu returned %d items, want 1", len(otherItems))
	}
}

func TestStore_BindLocation_Replaces(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := store.Create(ctx, "Main Menu")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := store.Create(ctx, "Replacement Menu")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.BindLocation(ctx, "primary", first.ID); err != nil {
		t.Fatalf("BindLocation() error = %v", err)
	}
	if err := store.BindLocation(ctx, "primary", second.ID); err != nil {
		t.Fatalf("BindLocation() rebind error = %v", err)
	}
	if err := store.BindLocation(ctx, "footer", first.ID); err != nil {
		t.Fatalf("BindLocation() error = %v", err)
	}

	locations, err := store.Locations(ctx)
	if err != nil {
		t.Fatalf("Locations() error = %v", err)
	}
	if len(locations) != 2 {
		t.Fatalf("Locations() returned %d bindings, want 2", len(locations))
	}
	if locations["primary"] != second.ID {
		t.Errorf("Locations()[primary] = %s, want the rebound %s", locations["primary"].Hex(), second.ID.Hex())
	}
	if locations["footer"] != first.ID {
		t.Errorf("Locations()[footer] = %s, want %s", locations["footer"].Hex(), first.ID.Hex())
	}
}
