package provision

import (
	"context"
	"testing"

	podstore "github.com/dalemusser/stratacms/internal/app/store/pods"
	"github.com/dalemusser/stratacms/internal/domain/schema"
	"github.com/dalemusser/stratacms/internal/testutil"
	"go.uber.org/zap"
)

// countingRefresher records how many times routing state was rebuilt.
type countingRefresher struct {
	calls int
}

func (c *countingRefresher) Refresh(ctx context.Context) error {
	c.calls++
	return nil
}

func TestPodProvisioner_CreateAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	pods := podstore.New(db)
	refresher := &countingRefresher{}
	prov := NewPodProvisioner(pods, refresher, testRunLog(t), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	doc := &schema.Document{
		Pods: []schema.Pod{
			{
				Name:  "project",
				Label: "Projects",
				Kind:  schema.KindPostType,
				Fields: []schema.Field{
					{Name: "client", Label: "Client", Type: "text", Required: true},
					{Name: "budget", Label: "Budget", Type: "number"},
				},
				Options: map[string]any{"public": true},
			},
			{Name: "project_category", Label: "Project Categories", Kind: schema.KindTaxonomy},
		},
	}

	if err := prov.CreateAll(ctx, doc); err != nil {
		t.Fatalf("CreateAll() error = %v", err)
	}

	def, err := pods.GetByName(ctx, "project")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if def == nil {
		t.Fatal("GetByName() = nil, pod was not created")
	}
	if len(def.Fields) != 2 {
		t.Errorf("created pod has %d fields, want 2", len(def.Fields))
	}
	if def.Options["public"] != true {
		t.Errorf("created pod Options[public] = %v, want true", def.Options["public"])
	}

	tax, err := pods.GetByName(ctx, "project_category")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if tax == nil || tax.Kind != schema.KindTaxonomy {
		t.Errorf("taxonomy pod = %+v, want kind %q", tax, schema.KindTaxonomy)
	}
}

func TestPodProvisioner_RefreshOncePerPass(t *testing.T) {
	db := testutil.SetupTestDB(t)
	pods := podstore.New(db)
	refresher := &countingRefresher{}
	prov := NewPodProvisioner(pods, refresher, testRunLog(t), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	doc := &schema.Document{
		Pods: []schema.Pod{
			{Name: "project", Label: "Projects", Kind: schema.KindPostType},
			{Name: "faq", Label: "FAQs", Kind: schema.KindPostType},
			{Name: "testimonial", Label: "Testimonials", Kind: schema.KindPostType},
		},
	}

	if err := prov.CreateAll(ctx, doc); err != nil {
		t.Fatalf("CreateAll() error = %v", err)
	}
	if refresher.calls != 1 {
		t.Errorf("Refresh() called %d times for one pass, want 1", refresher.calls)
	}
}

func TestPodProvisioner_SkipsInvalidPod(t *testing.T) {
	db := testutil.SetupTestDB(t)
	pods := podstore.New(db)
	prov := NewPodProvisioner(pods, nil, testRunLog(t), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	doc := &schema.Document{
		Pods: []schema.Pod{
			{Name: "", Label: "Nameless", Kind: schema.KindPostType},
			{Name: "faq", Label: "FAQs", Kind: schema.KindPostType},
		},
	}

	if err := prov.CreateAll(ctx, doc); err != nil {
		t.Fatalf("CreateAll() error = %v", err)
	}

	count, err := pods.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1 (nameless pod skipped)", count)
	}
}

func TestPodProvisioner_MergeExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	pods := podstore.New(db)
	prov := NewPodProvisioner(pods, nil, testRunLog(t), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := &schema.Document{
		Pods: []schema.Pod{{
			Name:  "project",
			Label: "Projects",
			Kind:  schema.KindPostType,
			Fields: []schema.Field{
				{Name: "client", Label: "Client", Type: "text"},
			},
			Options: map[string]any{"public": true},
		}},
	}
	if err := prov.CreateAll(ctx, first); err != nil {
		t.Fatalf("CreateAll() first pass error = %v", err)
	}

	// Second pass: one new field, one changed-and-ignored field, one new
	// option, one changed-and-ignored option.
	second := &schema.Document{
		Pods: []schema.Pod{{
			Name:  "project",
			Label: "Projects",
			Kind:  schema.KindPostType,
			Fields: []schema.Field{
				{Name: "client", Label: "Customer", Type: "paragraph"},
				{Name: "budget", Label: "Budget", Type: "number"},
			},
			Options: map[string]any{"public": false, "menu_icon": "folder"},
		}},
	}
	if err := prov.CreateAll(ctx, second); err != nil {
		t.Fatalf("CreateAll() second pass error = %v", err)
	}

	def, err := pods.GetByName(ctx, "project")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if len(def.Fields) != 2 {
		t.Fatalf("merged pod has %d fields, want 2", len(def.Fields))
	}

	client, _ := def.FieldByName("client")
	if client.Type != "text" || client.Label != "Client" {
		t.Errorf("existing field was modified: %+v, want original text/Client", client)
	}
	if _, ok := def.FieldByName("budget"); !ok {
		t.Error("new field budget was not added")
	}

	if def.Options["public"] != true {
		t.Errorf("existing option was modified: public = %v, want true", def.Options["public"])
	}
	if def.Options["menu_icon"] != "folder" {
		t.Errorf("new option was not filled: menu_icon = %v, want %q", def.Options["menu_icon"], "folder")
	}
}

func TestPodProvisioner_SkipsNamelessField(t *testing.T) {
	db := testutil.SetupTestDB(t)
	pods := podstore.New(db)
	prov := NewPodProvisioner(pods, nil, testRunLog(t), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := &schema.Document{
		Pods: []schema.Pod{{
			Name:  "faq",
			Label: "FAQs",
			Kind:  schema.KindPostType,
			Fields: []schema.Field{
				{Name: "question", Label: "Question", Type: "text"},
				{Name: "", Label: "Broken", Type: "text"},
			},
		}},
	}
	if err := prov.CreateAll(ctx, first); err != nil {
		t.Fatalf("CreateAll() first pass error = %v", err)
	}

	def, err := pods.GetByName(ctx, "faq")
	if err != nil || def == nil {
		t.Fatalf("GetByName() = %v, err = %v", def, err)
	}
	if len(def.Fields) != 1 {
		t.Fatalf("created pod has %d fields, want 1 (nameless field skipped)", len(def.Fields))
	}
	if _, ok := def.FieldByName(""); ok {
		t.Error("nameless field reached the store on create")
	}

	// Merge path: a nameless field never matches an existing field, so
	// without the guard it would be added on every pass.
	second := &schema.Document{
		Pods: []schema.Pod{{
			Name:  "faq",
			Label: "FAQs",
			Kind:  schema.KindPostType,
			Fields: []schema.Field{
				{Name: "question", Label: "Question", Type: "text"},
				{Name: "", Label: "Still Broken", Type: "text"},
			},
		}},
	}
	if err := prov.CreateAll(ctx, second); err != nil {
		t.Fatalf("CreateAll() second pass error = %v", err)
	}

	def, err = pods.GetByName(ctx, "faq")
	if err != nil || def == nil {
		t.Fatalf("GetByName() = %v, err = %v", def, err)
	}
	if len(def.Fields) != 1 {
		t.Errorf("merged pod has %d fields, want 1 (nameless field skipped on merge)", len(def.Fields))
	}
}

func TestPodProvisioner_NormalizesNames(t *testing.T) {
	db := testutil.SetupTestDB(t)
	pods := podstore.New(db)
	prov := NewPodProvisioner(pods, nil, testRunLog(t), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := &schema.Document{
		Pods: []schema.Pod{{Name: "  Project ", Label: "Projects", Kind: schema.KindPostType}},
	}
	if err := prov.CreateAll(ctx, first); err != nil {
		t.Fatalf("CreateAll() first pass error = %v", err)
	}

	def, err := pods.GetByName(ctx, "project")
	if err != nil || def == nil {
		t.Fatalf("GetByName(project) = %v, err = %v (name was not normalized)", def, err)
	}

	// A differently cased spelling on a later pass must merge, not
	// create a second definition.
	second := &schema.Document{
		Pods: []schema.Pod{{Name: "PROJECT", Label: "Projects", Kind: schema.KindPostType}},
	}
	if err := prov.CreateAll(ctx, second); err != nil {
		t.Fatalf("CreateAll() second pass error = %v", err)
	}

	count, err := pods.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1 (cased respelling merged)", count)
	}
}
