package contentstore

import (
	"testing"

	"github.com/dalemusser/stratacms/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_DefaultsStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, Record{
		PostType: "page",
		Title:    "About Us",
		Slug:     "about-us",
		Body:     "<p>Hello</p>",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID.IsZero() {
		t.Error("Create() should assign an ID")
	}
	if created.Status != "publish" {
		t.Errorf("Create() Status = %q, want default %q", created.Status, "publish")
	}
}

func TestStore_ExistsProbes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, Record{PostType: "page", Title: "About Us", Slug: "about-us"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	bySlug, err := store.ExistsBySlug(ctx, "page", "about-us")
	if err != nil {
		t.Fatalf("ExistsBySlug() error = %v", err)
	}
	if !bySlug {
		t.Error("ExistsBySlug() = false for an existing slug, want true")
	}

	byTitle, err := store.ExistsByTitle(ctx, "page", "About Us")
	if err != nil {
		t.Fatalf("ExistsByTitle() error = %v", err)
	}
	if !byTitle {
		t.Error("ExistsByTitle() = false for an existing title, want true")
	}

	// Same slug under a different type does not count.
	otherType, err := store.ExistsBySlug(ctx, "post", "about-us")
	if err != nil {
		t.Fatalf("ExistsBySlug() error = %v", err)
	}
	if otherType {
		t.Error("ExistsBySlug() = true for a different post type, want false")
	}
}

func TestStore_GetBySlug_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec, err := store.GetBySlug(ctx, "page", "no-such-page")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if rec != nil {
		t.Errorf("GetBySlug() = %+v, want nil for a missing record", rec)
	}
}

func TestStore_SetField_And_SetTerms(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, Record{PostType: "project", Title: "Harbor Bridge", Slug: "harbor-bridge"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.SetField(ctx, created.ID, "client", "Port Authority"); err != nil {
		t.Fatalf("SetField() error = %v", err)
	}
	if err := store.SetField(ctx, created.ID, "budget", int64(250000)); err != nil {
		t.Fatalf("SetField() error = %v", err)
	}

	termID := primitive.NewObjectID()
	if err := store.SetTerms(ctx, created.ID, "project_category", []primitive.ObjectID{termID}); err != nil {
		t.Fatalf("SetTerms() error = %v", err)
	}

	mediaID := primitive.NewObjectID()
	if err := store.SetFeaturedMedia(ctx, created.ID, mediaID); err != nil {
		t.Fatalf("SetFeaturedMedia() error = %v", err)
	}

	got, err := store.GetBySlug(ctx, "project", "harbor-bridge")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetBySlug() = nil after Create()")
	}
	if got.Fields["client"] != "Port Authority" {
		t.Errorf("Fields[client] = %v, want %q", got.Fields["client"], "Port Authority")
	}
	if got.Fields["budget"] != int64(250000) {
		t.Errorf("Fields[budget] = %v (%T), want int64 250000", got.Fields["budget"], got.Fields["budget"])
	}
	if len(got.Terms["project_category"]) != 1 || got.Terms["project_category"][0] != termID {
		t.Errorf("Terms[project_category] = %v, want [%s]", got.Terms["project_category"], termID.Hex())
	}
	if got.FeaturedMediaID == nil || *got.FeaturedMediaID != mediaID {
		t.Errorf("FeaturedMediaID = %v, want %s", got.FeaturedMediaID, mediaID.Hex())
	}
}

func TestStore_ListByType_PublishedOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, Record{PostType: "post", Title: "First", Slug: "first"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, Record{PostType: "post", Title: "Hidden", Slug: "hidden", Status: "draft"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, Record{PostType: "page", Title: "About", Slug: "about"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	posts, err := store.ListByType(ctx, "post")
	if err != nil {
		t.Fatalf("ListByType() error = %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("ListByType(post) returned %d records, want 1 (drafts excluded)", len(posts))
	}
	if posts[0].Slug != "first" {
		t.Errorf("ListByType(post)[0].Slug = %q, want %q", posts[0].Slug, "first")
	}

	count, err := store.CountByType(ctx, "post")
	if err != nil {
		t.Fatalf("CountByType() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountByType(post) = %d, want 2 (all statuses)", count)
	}
}

func TestStore_ListByTypePage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	slugs := []string{"one", "two", "three", "four", "five"}
	for _, slug := range slugs {
		if _, err := store.Create(ctx, Record{
			PostType: "post",
			Title:    slug,
			Slug:     slug,
			Fields:   bson.M{},
		}); err != nil {
			t.Fatalf("Create(%s) error = %v", slug, err)
		}
	}

	first, err := store.ListByTypePage(ctx, "post", 2, 1)
	if err != nil {
		t.Fatalf("ListByTypePage() error = %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("ListByTypePage(page 1) returned %d records, want 2", len(first))
	}

	third, err := store.ListByTypePage(ctx, "post", 2, 3)
	if err != nil {
		t.Fatalf("ListByTypePage() error = %v", err)
	}
	if len(third) != 1 {
		t.Fatalf("ListByTypePage(page 3) returned %d records, want 1", len(third))
	}

	// Pages must not overlap.
	if first[0].Slug == third[0].Slug || first[1].Slug == third[0].Slug {
		t.Errorf("ListByTypePage() pages overlap: page 1 = %q,%q page 3 = %q",
			first[0].Slug, first[1].Slug, third[0].Slug)
	}

	empty, err := store.ListByTypePage(ctx, "post", 2, 4)
	if err != nil {
		t.Fatalf("ListByTypePage() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("ListByTypePage(past end) returned %d records, want 0", len(empty))
	}
}
