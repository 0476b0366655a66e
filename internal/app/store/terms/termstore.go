// internal/app/store/terms/termstore.go
package termstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/stratacms/internal/app/system/normalize"
)

// Store provides access to the taxonomy_terms collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new taxonomy term store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("taxonomy_terms")}
}

// Term is one term within a taxonomy. (Taxonomy, Label) is unique.
type Term struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Taxonomy string             `bson:"taxonomy" json:"taxonomy"`
	Label    string             `bson:"label" json:"label"`
	Slug     string             `bson:"slug" json:"slug"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// GetOrCreate resolves a term by (taxonomy, label), creating it when no
// match exists.
func (s *Store) GetOrCreate(ctx context.Context, taxonomy, label string) (*Term, error) {
	var term Term
	err := s.c.FindOne(ctx, bson.M{"taxonomy": taxonomy, "label": label}).Decode(&term)
	if err == nil {
		return &term, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	term = Term{
		ID:        primitive.NewObjectID(),
		Taxonomy:  taxonomy,
		Label:     label,
		Slug:      normalize.Slug(label),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, term); err != nil {
		return nil, err
	}
	return &term, nil
}

// ListByTaxonomy returns all terms of one taxonomy sorted by label.
func (s *Store) ListByTaxonomy(ctx context.Context, taxonomy string) ([]Term, error) {
	opts := options.Find().SetSort(bson.D{{Key: "label", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"taxonomy": taxonomy}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var terms []Term
	if err := cur.All(ctx, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// All returns every term across all taxonomies sorted by taxonomy then
// label. Used by the read API to resolve term references in one pass.
func (s *Store) All(ctx context.Context) ([]Term, error) {
	opts := options.Find().SetSort(bson.D{{Key: "taxonomy", Value: 1}, {Key: "label", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var terms []Term
	if err := cur.All(ctx, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}
