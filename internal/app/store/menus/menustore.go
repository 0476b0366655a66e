// internal/app/store/menus/menustore.go
package menustore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the menus, menu_items, and menu_locations
// collections. Items are stored flat with a parent reference; the tree is
// reassembled on read.
type Store struct {
	menus     *mongo.Collection
	items     *mongo.Collection
	locations *mongo.Collection
}

// New creates a new menu store.
func New(db *mongo.Database) *Store {
	return &Store{
		menus:     db.Collection("menus"),
		items:     db.Collection("menu_items"),
		locations: db.Collection("menu_locations"),
	}
}

// Menu is one named navigation menu.
type Menu struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Item is one materialized menu entry. ParentID is nil for top-level
// entries; Position preserves declaration order among siblings.
type Item struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	MenuID   primitive.ObjectID  `bson:"menu_id" json:"-"`
	ParentID *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent,omitempty"`
	Title    string              `bson:"title" json:"title"`
	URL      string              `bson:"url,omitempty" json:"url,omitempty"`
	Type     string              `bson:"type,omitempty" json:"type,omitempty"`
	ObjectID int64               `bson:"object_id,omitempty" json:"object_id,omitempty"`
	Position int                 `bson:"position" json:"position"`
}

// GetByName returns the menu with the exact given name, or (nil, nil)
// when none exists.
func (s *Store) GetByName(ctx context.Context, name string) (*Menu, error) {
	var menu Menu
	err := s.menus.FindOne(ctx, bson.M{"name": name}).Decode(&menu)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// Create inserts a new named menu.
func (s *Store) Create(ctx context.Context, name string) (*Menu, error) {
	menu := Menu{
		ID:        primitive.NewObjectID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.menus.InsertOne(ctx, menu); err != nil {
		return nil, err
	}
	return &menu, nil
}

// AddItem inserts one menu entry and returns its assigned id.
func (s *Store) AddItem(ctx context.Context, item Item) (primitive.ObjectID, error) {
	item.ID = primitive.NewObjectID()
	if _, err := s.items.InsertOne(ctx, item); err != nil {
		return primitive.NilObjectID, err
	}
	return item.ID, nil
}

// ClearItems removes all entries of one menu. Used when re-provisioning
// an existing menu so the declared tree replaces the stored one instead
// of accumulating duplicates.
func (s *Store) ClearItems(ctx context.Context, menuID primitive.ObjectID) error {
	_, err := s.items.DeleteMany(ctx, bson.M{"menu_id": menuID})
	return err
}

// ItemsByMenu returns a menu's entries in position order.
func (s *Store) ItemsByMenu(ctx context.Context, menuID primitive.ObjectID) ([]Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cur, err := s.items.Find(ctx, bson.M{"menu_id": menuID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// BindLocation maps a location slot to a menu, replacing any previous
// binding for that slot.
func (s *Store) BindLocation(ctx context.Context, location string, menuID primitive.ObjectID) error {
	filter := bson.M{"location": location}
	update := bson.M{
		"$set": bson.M{
			"location":   location,
			"menu_id":    menuID,
			"updated_at": time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.locations.UpdateOne(ctx, filter, update, opts)
	return err
}

// Locations returns the current location → menu id bindings.
func (s *Store) Locations(ctx context.Context) (map[string]primitive.ObjectID, error) {
	cur, err := s.locations.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	bindings := make(map[string]primitive.ObjectID)
	for cur.Next(ctx) {
		var doc struct {
			Location string             `bson:"location"`
			MenuID   primitive.ObjectID `bson:"menu_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		bindings[doc.Location] = doc.MenuID
	}
	return bindings, cur.Err()
}

// GetByID returns a menu by id, or (nil, nil) when it does not exist.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*Menu, error) {
	var menu Menu
	err := s.menus.FindOne(ctx, bson.M{"_id": id}).Decode(&menu)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &menu, nil
}
