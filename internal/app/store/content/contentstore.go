// internal/app/store/content/contentstore.go
package contentstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/stratacms/internal/app/store/storeutil"
)

// Store provides access to the content_records collection. Every record
// of every provisioned content type lives here, discriminated by
// post_type; custom field values are a free bson document interpreted by
// the owning type's field definitions.
type Store struct {
	c *mongo.Collection
}

// New creates a new content record store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("content_records")}
}

// Record is one content record.
type Record struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PostType string             `bson:"post_type" json:"type"`
	Title    string             `bson:"title" json:"title"`
	Slug     string             `bson:"slug,omitempty" json:"slug,omitempty"`
	Status   string             `bson:"status" json:"status"`
	Body     string             `bson:"body,omitempty" json:"content,omitempty"`

	// Fields holds the record's custom field values keyed by field name.
	Fields bson.M `bson:"fields,omitempty" json:"fields,omitempty"`

	// Terms maps taxonomy name to the assigned term ids. Assignment
	// replaces the whole set for a taxonomy; it is never additive.
	Terms map[string][]primitive.ObjectID `bson:"terms,omitempty" json:"terms,omitempty"`

	FeaturedMediaID *primitive.ObjectID `bson:"featured_media_id,omitempty" json:"featured_media,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Create inserts a new record and returns it with its assigned id.
func (s *Store) Create(ctx context.Context, rec Record) (*Record, error) {
	now := time.Now().UTC()
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.Status == "" {
		rec.Status = "publish"
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ExistsBySlug checks for a record of the given type with the given slug.
func (s *Store) ExistsBySlug(ctx context.Context, postType, slug string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"post_type": postType, "slug": slug})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByTitle checks for a record of the given type with the exact
// given title.
func (s *Store) ExistsByTitle(ctx context.Context, postType, title string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"post_type": postType, "title": title})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetBySlug returns the record of the given type with the given slug.
// Returns (nil, nil) when no record matches.
func (s *Store) GetBySlug(ctx context.Context, postType, slug string) (*Record, error) {
	var rec Record
	err := s.c.FindOne(ctx, bson.M{"post_type": postType, "slug": slug}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SetField sets one custom field value on a record. Each field write is
// independent so one rejected value cannot block the others.
func (s *Store) SetField(ctx context.Context, id primitive.ObjectID, name string, value any) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"fields." + name: value,
			"updated_at":     time.Now().UTC(),
		},
	})
	return err
}

// SetTerms assigns the full term set for one taxonomy on a record,
// replacing any prior assignment for that taxonomy.
func (s *Store) SetTerms(ctx context.Context, id primitive.ObjectID, taxonomy string, termIDs []primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"terms." + taxonomy: termIDs,
			"updated_at":        time.Now().UTC(),
		},
	})
	return err
}

// SetFeaturedMedia attaches a media asset as the record's primary visual.
func (s *Store) SetFeaturedMedia(ctx context.Context, id, mediaID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"featured_media_id": mediaID,
			"updated_at":        time.Now().UTC(),
		},
	})
	return err
}

// ListByType returns all published records of one type in creation order.
func (s *Store) ListByType(ctx context.Context, postType string) ([]Record, error) {
	filter := bson.M{"post_type": postType, "status": "publish"}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []Record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// ListByTypePage returns one page of published records of one type in
// creation order. page is 1-based; perPage falls back to the store
// default when non-positive.
func (s *Store) ListByTypePage(ctx context.Context, postType string, perPage, page int64) ([]Record, error) {
	filter := bson.M{"post_type": postType, "status": "publish"}
	opts := storeutil.Paginate(perPage, page).SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []Record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// CountByType returns the number of records of one type regardless of
// status.
func (s *Store) CountByType(ctx context.Context, postType string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"post_type": postType})
}

// Count returns the total number of content records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
