// internal/app/store/media/mediastore.go
package mediastore

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the media_assets collection: metadata for
// every uploaded asset, including its storage path and any generated
// renditions. The binary itself lives in the file storage backend.
type Store struct {
	c *mongo.Collection
}

// New creates a new media asset store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("media_assets")}
}

// Rendition is one derived variant of an image asset.
type Rendition struct {
	StoragePath string `bson:"storage_path" json:"source_url"`
	Width       int    `bson:"width" json:"width"`
	Height      int    `bson:"height" json:"height"`
}

// Asset is one registered media library entry. Filename is the original
// source filename and the idempotency key for uploads.
type Asset struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Filename    string             `bson:"filename" json:"filename"`
	StoragePath string             `bson:"storage_path" json:"source_url"`
	Title       string             `bson:"title" json:"title"`
	AltText     string             `bson:"alt_text,omitempty" json:"alt_text,omitempty"`
	Caption     string             `bson:"caption,omitempty" json:"caption,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	ContentType string             `bson:"content_type" json:"mime_type"`
	Size        int64              `bson:"size" json:"size"`

	// Renditions holds derived variants keyed by rendition name
	// (thumbnail, medium, large). Empty for non-image assets.
	Renditions map[string]Rendition `bson:"renditions,omitempty" json:"renditions,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Create registers a new asset and returns it with its assigned id.
func (s *Store) Create(ctx context.Context, asset Asset) (*Asset, error) {
	asset.ID = primitive.NewObjectID()
	asset.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// FindByFilename returns an already-registered asset whose stored path or
// original filename contains the given filename, or (nil, nil) when the
// library has no match. The contains-match keeps the lookup stable even
// when storage prefixes paths with date directories or unique names.
func (s *Store) FindByFilename(ctx context.Context, filename string) (*Asset, error) {
	pattern := regexp.QuoteMeta(filename)
	filter := bson.M{
		"$or": []bson.M{
			{"filename": filename},
			{"storage_path": bson.M{"$regex": pattern}},
		},
	}

	var asset Asset
	err := s.c.FindOne(ctx, filter).Decode(&asset)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetByID returns an asset by id, or (nil, nil) when it does not exist.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*Asset, error) {
	var asset Asset
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&asset)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// SetRenditions records the generated renditions for an asset.
func (s *Store) SetRenditions(ctx context.Context, id primitive.ObjectID, renditions map[string]Rendition) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"renditions": renditions}})
	return err
}

// List returns all registered assets in upload order.
func (s *Store) List(ctx context.Context) ([]Asset, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var assets []Asset
	if err := cur.All(ctx, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// Count returns the number of registered assets.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
