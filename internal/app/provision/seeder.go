// internal/app/provision/seeder.go
package provision

import (
	"context"
	"fmt"

	contentstore "github.com/dalemusser/stratacms/internal/app/store/content"
	mediastore "github.com/dalemusser/stratacms/internal/app/store/media"
	podstore "github.com/dalemusser/stratacms/internal/app/store/pods"
	termstore "github.com/dalemusser/stratacms/internal/app/store/terms"
	"github.com/dalemusser/stratacms/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratacms/internal/app/system/normalize"
	"github.com/dalemusser/stratacms/internal/app/system/runlog"
	"github.com/dalemusser/stratacms/internal/domain/schema"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Seeder creates sample content records from a schema document.
//
// Seeding is create-once: a record that already exists (matched by
// slug, falling back to title) is left entirely alone, including its
// fields and term assignments. Seeding never becomes an update path.
type Seeder struct {
	pods    *podstore.Store
	content *contentstore.Store
	terms   *termstore.Store
	media   *mediastore.Store
	log     *runlog.Logger
	logger  *zap.Logger
}

// NewSeeder creates a content seeder.
func NewSeeder(pods *podstore.Store, content *contentstore.Store, terms *termstore.Store, media *mediastore.Store, log *runlog.Logger, logger *zap.Logger) *Seeder {
	return &Seeder{pods: pods, content: content, terms: terms, media: media, log: log, logger: logger}
}

// SeedAll seeds every sample content item in the document. Items whose
// post type or title is missing are skipped with a warning, as are
// items a store rejects; the remaining items are still seeded.
// Partial progress is left in place (re-running resumes where the
// existence checks allow).
func (s *Seeder) SeedAll(ctx context.Context, doc *schema.Document) error {
	for _, item := range doc.SampleContent {
		if item.PostType == "" || item.Title == "" {
			s.logger.Warn("skipping content item without post type or title",
				zap.String("post_type", item.PostType),
				zap.String("title", item.Title))
			s.log.Appendf("SKIP content item (missing post type or title)")
			continue
		}
		// Same normalization the pod provisioner applies, so the type
		// lookup and the stored records agree with the pod name.
		item.PostType = normalize.PodName(item.PostType)

		// Store rejections are entry-local: log, record, move on.
		if err := s.seedItem(ctx, item); err != nil {
			s.logger.Warn("store rejected content item",
				zap.String("post_type", item.PostType),
				zap.String("title", item.Title),
				zap.Error(err))
			s.log.Appendf("SKIP %s '%s' (store error): %v", item.PostType, item.Title, err)
		}
	}
	return nil
}

// seedItem creates one record unless it already exists. The existence
// probe prefers the slug; only items without a slug fall back to the
// title probe, so retitling an item with a stable slug cannot create a
// duplicate.
func (s *Seeder) seedItem(ctx context.Context, item schema.ContentItem) error {
	var exists bool
	var err error
	if item.Slug != "" {
		exists, err = s.content.ExistsBySlug(ctx, item.PostType, item.Slug)
	} else {
		exists, err = s.content.ExistsByTitle(ctx, item.PostType, item.Title)
	}
	if err != nil {
		return err
	}
	if exists {
		s.log.Appendf("EXISTS %s '%s'", item.PostType, item.Title)
		return nil
	}

	status := item.Status
	if status == "" {
		status = "publish"
	}
	rec, err := s.content.Create(ctx, contentstore.Record{
		PostType: item.PostType,
		Title:    item.Title,
		Slug:     item.Slug,
		Status:   status,
		Body:     htmlsanitize.PrepareBody(item.Content),
	})
	if err != nil {
		return err
	}
	s.log.Appendf("CREATED %s '%s'", item.PostType, item.Title)
	s.logger.Info("seeded content record",
		zap.String("post_type", item.PostType),
		zap.String("title", item.Title),
		zap.String("slug", rec.Slug))

	// Field values are classified against the declared field type so rich
	// text gets sanitized and numbers stay numeric. A pod definition that
	// never got provisioned leaves the fields typed as text.
	def, err := s.pods.GetByName(ctx, item.PostType)
	if err != nil {
		return err
	}

	// Each field is set independently: one bad value logs a warning and
	// moves on instead of losing the rest of the record's fields.
	for name, raw := range item.Fields {
		field := schema.Field{Name: name}
		if def != nil {
			if fd, ok := def.FieldByName(name); ok {
				field.Type = fd.Type
				field.Options = map[string]any(fd.Options)
			}
		}
		val, err := schema.ClassifyValue(field, raw)
		if err != nil {
			s.logger.Warn("skipping field with unusable value",
				zap.String("post_type", item.PostType),
				zap.String("title", item.Title),
				zap.String("field", name),
				zap.Error(err))
			continue
		}
		if val.IsRichText() {
			val = val.MapStr(htmlsanitize.Sanitize)
		}
		if err := s.content.SetField(ctx, rec.ID, name, val.Interface()); err != nil {
			s.logger.Warn("failed to set field",
				zap.String("post_type", item.PostType),
				zap.String("title", item.Title),
				zap.String("field", name),
				zap.Error(err))
		}
	}

	for taxonomy, labels := range item.Terms {
		if err := s.assignTerms(ctx, rec, taxonomy, labels); err != nil {
			s.logger.Warn("failed to assign terms",
				zap.String("post_type", item.PostType),
				zap.String("title", item.Title),
				zap.String("taxonomy", taxonomy),
				zap.Error(err))
		}
	}

	if item.FeaturedImage != "" {
		if err := s.attachFeaturedImage(ctx, rec, item.FeaturedImage); err != nil {
			s.logger.Warn("failed to attach featured image",
				zap.String("post_type", item.PostType),
				zap.String("title", item.Title),
				zap.String("image", item.FeaturedImage),
				zap.Error(err))
		}
	}

	return nil
}

// assignTerms resolves each term label within its taxonomy, creating
// terms that do not exist yet, and attaches the resolved set to the
// record.
func (s *Seeder) assignTerms(ctx context.Context, rec *contentstore.Record, taxonomy string, labels []string) error {
	ids := make([]primitive.ObjectID, 0, len(labels))
	for _, label := range labels {
		if label == "" {
			continue
		}
		term, err := s.terms.GetOrCreate(ctx, taxonomy, label)
		if err != nil {
			return err
		}
		ids = append(ids, term.ID)
	}
	if len(ids) == 0 {
		return nil
	}
	return s.content.SetTerms(ctx, rec.ID, taxonomy, ids)
}

// attachFeaturedImage looks the image up by filename and records the
// reference. A missing asset is an error surfaced to the caller, which
// logs and continues; records never fail to seed over artwork.
func (s *Seeder) attachFeaturedImage(ctx context.Context, rec *contentstore.Record, filename string) error {
	asset, err := s.media.FindByFilename(ctx, filename)
	if err != nil {
		return err
	}
	if asset == nil {
		return fmt.Errorf("media asset %q not found", filename)
	}
	return s.content.SetFeaturedMedia(ctx, rec.ID, asset.ID)
}
