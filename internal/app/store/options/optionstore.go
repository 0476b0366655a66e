// internal/app/store/options/optionstore.go
package optionstore

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ThemePrefix namespaces the frontend-facing theme options within the
// flat settings store. The theme-options read API strips it.
const ThemePrefix = "theme_options."

// Store provides access to the site_options collection: a flat,
// individually-addressable key → string value settings store with
// prefix-scan reads.
type Store struct {
	c *mongo.Collection
}

// New creates a new option store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("site_options")}
}

// Option is one persisted setting.
type Option struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Key       string             `bson:"key"`
	Value     string             `bson:"value"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// Get returns the value for a key and whether the key exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var opt Option
	err := s.c.FindOne(ctx, bson.M{"key": key}).Decode(&opt)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return opt.Value, true, nil
}

// Set writes a value unconditionally, creating the key if needed.
func (s *Store) Set(ctx context.Context, key, value string) error {
	filter := bson.M{"key": key}
	update := bson.M{
		"$set": bson.M{
			"value":      value,
			"updated_at": time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
			"key": key,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, filter, update, opts)
	return err
}

// SetDefault writes a value only when the key is absent or holds an
// empty value. Returns whether the default was applied. A key already
// holding a non-empty value is never overwritten.
func (s *Store) SetDefault(ctx context.Context, key, value string) (bool, error) {
	current, exists, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if exists && current != "" {
		return false, nil
	}
	if err := s.Set(ctx, key, value); err != nil {
		return false, err
	}
	return true, nil
}

// PrefixScan returns all options whose key starts with prefix, keyed by
// the remainder of the key after the prefix.
func (s *Store) PrefixScan(ctx context.Context, prefix string) (map[string]string, error) {
	filter := bson.M{"key": bson.M{"$regex": "^" + escapeRegex(prefix)}}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]string)
	for cur.Next(ctx) {
		var opt Option
		if err := cur.Decode(&opt); err != nil {
			return nil, err
		}
		out[strings.TrimPrefix(opt.Key, prefix)] = opt.Value
	}
	return out, cur.Err()
}

// escapeRegex escapes the characters meaningful in a Mongo regex so a
// literal key prefix cannot be misread as a pattern.
func escapeRegex(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
