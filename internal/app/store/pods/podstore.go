// internal/app/store/pods/podstore.go
package podstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the pod_definitions collection, which holds
// the provisioned content-type and taxonomy definitions.
type Store struct {
	c *mongo.Collection
}

// New creates a new pod definition store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("pod_definitions")}
}

// FieldDefinition is one provisioned field on a pod definition.
type FieldDefinition struct {
	Name     string `bson:"name" json:"name"`
	Label    string `bson:"label" json:"label"`
	Type     string `bson:"type" json:"type"`
	Required bool   `bson:"required" json:"required"`
	Options  bson.M `bson:"options,omitempty" json:"options,omitempty"`
}

// PodDefinition is one provisioned content type or taxonomy. Name is
// unique; all lookups are name-keyed.
type PodDefinition struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name    string             `bson:"name" json:"name"`
	Label   string             `bson:"label" json:"label"`
	Kind    string             `bson:"kind" json:"kind"`
	Storage string             `bson:"storage,omitempty" json:"storage,omitempty"`
	Options bson.M             `bson:"options,omitempty" json:"options,omitempty"`
	Fields  []FieldDefinition  `bson:"fields" json:"fields"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FieldByName returns the definition's field with the given name, if any.
func (p *PodDefinition) FieldByName(name string) (FieldDefinition, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// GetByName returns the definition with the given name, or (nil, nil)
// when no definition exists yet.
func (s *Store) GetByName(ctx context.Context, name string) (*PodDefinition, error) {
	var def PodDefinition
	err := s.c.FindOne(ctx, bson.M{"name": name}).Decode(&def)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

// Create inserts a new definition and returns it with its assigned id.
func (s *Store) Create(ctx context.Context, def PodDefinition) (*PodDefinition, error) {
	now := time.Now().UTC()
	def.ID = primitive.NewObjectID()
	def.CreatedAt = now
	def.UpdatedAt = now
	if def.Fields == nil {
		def.Fields = []FieldDefinition{}
	}
	if _, err := s.c.InsertOne(ctx, def); err != nil {
		return nil, err
	}
	return &def, nil
}

// AddField appends a field to an existing definition. The caller is
// expected to have checked the field does not exist already; fields are
// never replaced or removed through this store.
func (s *Store) AddField(ctx context.Context, id primitive.ObjectID, field FieldDefinition) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"fields": field},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// UpdateOptions merges the given options into an existing definition
// without touching its fields.
func (s *Store) UpdateOptions(ctx context.Context, id primitive.ObjectID, label string, opts bson.M) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if label != "" {
		set["label"] = label
	}
	for k, v := range opts {
		set["options."+k] = v
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// List returns all definitions in creation order.
func (s *Store) List(ctx context.Context) ([]PodDefinition, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var defs []PodDefinition
	if err := cur.All(ctx, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// ListByKind returns all definitions of one kind (content type or
// taxonomy) in creation order.
func (s *Store) ListByKind(ctx context.Context, kind string) ([]PodDefinition, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"kind": kind}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var defs []PodDefinition
	if err := cur.All(ctx, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// Count returns the number of provisioned definitions.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
