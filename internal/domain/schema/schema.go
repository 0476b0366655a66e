// internal/domain/schema/schema.go
package schema

// Document is the compiled site schema: everything the provisioning
// pipeline needs to materialize content types, seed data, media, menus,
// and settings into the content store.
//
// A Document is authored as schema.yaml, compiled by schemac into a JSON
// artifact, and read back by the schema reader at provisioning time. It is
// pure data; all behavior lives in the compiler, reader, and provisioners.
type Document struct {
	Pods          []Pod         `json:"pods" yaml:"pods"`
	Menus         []Menu        `json:"menus" yaml:"menus"`
	SiteSettings  SiteSettings  `json:"siteSettings" yaml:"siteSettings"`
	SampleContent []ContentItem `json:"sampleContent,omitempty" yaml:"sampleContent"`
	MediaLibrary  []MediaItem   `json:"mediaLibrary,omitempty" yaml:"mediaLibrary"`
	Dashboard     *Dashboard    `json:"dashboardCustomization,omitempty" yaml:"dashboardCustomization"`
}

// RequiredSections are the top-level keys a compiled artifact must carry.
// A document missing any of them is rejected wholesale; there is no
// partial-schema mode.
var RequiredSections = []string{"pods", "menus", "siteSettings"}

// Pod kinds. The store distinguishes content types (which own records)
// from taxonomies (which own terms).
const (
	KindPostType = "post_type"
	KindTaxonomy = "taxonomy"
)

// Pod declares one content type or taxonomy. Name is the idempotency key:
// provisioning looks an existing definition up by name before creating
// anything, so names must be stable across schema revisions.
type Pod struct {
	Name          string  `json:"name" yaml:"name"`
	Label         string  `json:"label" yaml:"label"`
	LabelSingular string  `json:"label_singular,omitempty" yaml:"labelSingular"`
	Kind          string  `json:"type" yaml:"kind"`
	Storage       string  `json:"storage,omitempty" yaml:"storage"`
	Fields        []Field `json:"fields,omitempty" yaml:"fields"`
	// Options passes through opaquely to the store: visibility, archive
	// behavior, menu icon, supports, rewrite slug, and anything else the
	// store's own type system understands.
	Options map[string]any `json:"options,omitempty" yaml:"options"`
}

// Valid reports whether the pod carries the minimum identity needed to
// provision it. Invalid pods are skipped with a warning, never fatal.
func (p Pod) Valid() bool { return p.Name != "" }

// IsTaxonomy reports whether the pod declares a taxonomy rather than a
// record-bearing content type.
func (p Pod) IsTaxonomy() bool { return p.Kind == KindTaxonomy }

// Field declares one named, typed attribute on a pod. Type is an open
// string interpreted only by the store's field-type system ("text",
// "paragraph", "wysiwyg", "number", "boolean", "website", "file", "pick",
// "code", ...); this layer never interprets it beyond the tagged-value
// classification in value.go.
type Field struct {
	Name        string         `json:"name" yaml:"name"`
	Label       string         `json:"label" yaml:"label"`
	Type        string         `json:"type" yaml:"type"`
	Required    bool           `json:"required,omitempty" yaml:"required"`
	Description string         `json:"description,omitempty" yaml:"description"`
	Options     map[string]any `json:"options,omitempty" yaml:"options"`
}

// Valid reports whether the field can be provisioned.
func (f Field) Valid() bool { return f.Name != "" }

// Repeatable reports whether the field's options flag it as repeatable.
func (f Field) Repeatable() bool {
	if f.Options == nil {
		return false
	}
	switch v := f.Options["repeatable"].(type) {
	case bool:
		return v
	case string:
		return v == "1" || v == "true"
	case int:
		return v == 1
	case float64:
		return v == 1
	}
	return false
}

// ContentItem is one seed record. Slug, when present, is the primary
// idempotency key; otherwise an exact title match within the post type is
// used. Seeding is strictly create-once: an existing match is skipped, no
// fields are merged.
type ContentItem struct {
	PostType      string              `json:"post_type" yaml:"postType"`
	Title         string              `json:"title" yaml:"title"`
	Content       string              `json:"content,omitempty" yaml:"content"`
	Slug          string              `json:"slug,omitempty" yaml:"slug"`
	Status        string              `json:"status,omitempty" yaml:"status"`
	Fields        map[string]any      `json:"fields,omitempty" yaml:"fields"`
	FeaturedImage string              `json:"featured_image,omitempty" yaml:"featuredImage"`
	Terms         map[string][]string `json:"terms,omitempty" yaml:"terms"`
}

// Valid reports whether the item can be seeded.
func (c ContentItem) Valid() bool { return c.Title != "" && c.PostType != "" }

// MediaItem declares one asset to upload. Filename is resolved against the
// media source directory and doubles as the idempotency key against the
// already-stored library.
type MediaItem struct {
	Filename    string `json:"filename" yaml:"filename"`
	Title       string `json:"title,omitempty" yaml:"title"`
	AltText     string `json:"alt_text,omitempty" yaml:"altText"`
	Caption     string `json:"caption,omitempty" yaml:"caption"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// Valid reports whether the media item can be uploaded.
func (m MediaItem) Valid() bool { return m.Filename != "" }

// Menu declares one navigation menu bound to a theme location slot.
// A location maps to at most one menu; the last binding wins.
type Menu struct {
	Location string     `json:"location" yaml:"location"`
	Name     string     `json:"name" yaml:"name"`
	Items    []MenuItem `json:"items,omitempty" yaml:"items"`
}

// Valid reports whether the menu can be created.
func (m Menu) Valid() bool { return m.Name != "" }

// MenuItem is one entry in a menu's item tree. Children nest to arbitrary
// depth; each child's materialized entry points back at its parent's
// generated id.
type MenuItem struct {
	Title    string     `json:"title" yaml:"title"`
	URL      string     `json:"url,omitempty" yaml:"url"`
	Type     string     `json:"type,omitempty" yaml:"type"`
	ObjectID int64      `json:"object_id,omitempty" yaml:"objectId"`
	Children []MenuItem `json:"children,omitempty" yaml:"children"`
}

// Valid reports whether the item can be materialized.
func (i MenuItem) Valid() bool { return i.Title != "" }

// SiteSettings carries the site identity the bootstrap response reports
// and the seeds for settings-derived theme options.
type SiteSettings struct {
	SiteName     string            `json:"site_name" yaml:"siteName"`
	Tagline      string            `json:"tagline,omitempty" yaml:"tagline"`
	URL          string            `json:"url,omitempty" yaml:"url"`
	ContactEmail string            `json:"contact_email,omitempty" yaml:"contactEmail"`
	Logo         string            `json:"logo,omitempty" yaml:"logo"`
	Favicon      string            `json:"favicon,omitempty" yaml:"favicon"`
	SocialLinks  map[string]string `json:"social_links,omitempty" yaml:"socialLinks"`
}

// Dashboard describes administrative cosmetics: sections hidden from the
// admin surface, section ordering, and branding. Applying it produces no
// content-store state.
type Dashboard struct {
	RemoveMenus   []string `json:"remove_menus,omitempty" yaml:"removeMenus"`
	MenuOrder     []string `json:"menu_order,omitempty" yaml:"menuOrder"`
	RemoveWidgets []string `json:"remove_widgets,omitempty" yaml:"removeWidgets"`
	BrandName     string   `json:"brand_name,omitempty" yaml:"brandName"`
	BrandLogo     string   `json:"brand_logo,omitempty" yaml:"brandLogo"`
	FooterText    string   `json:"footer_text,omitempty" yaml:"footerText"`
}

// PodByName returns the declared pod with the given name, if any.
func (d *Document) PodByName(name string) (Pod, bool) {
	for _, p := range d.Pods {
		if p.Name == name {
			return p, true
		}
	}
	return Pod{}, false
}

// ContentTypes returns the declared pods that own records, in declaration
// order. The bootstrap aggregator uses this to shape its per-type
// sub-collections.
func (d *Document) ContentTypes() []Pod {
	var out []Pod
	for _, p := range d.Pods {
		if !p.IsTaxonomy() && p.Valid() {
			out = append(out, p)
		}
	}
	return out
}
