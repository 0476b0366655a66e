// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensurePodDefinitions(ctx, db); err != nil {
		problems = append(problems, "pod_definitions: "+err.Error())
	}
	if err := ensureContentRecords(ctx, db); err != nil {
		problems = append(problems, "content_records: "+err.Error())
	}
	if err := ensureTaxonomyTerms(ctx, db); err != nil {
		problems = append(problems, "taxonomy_terms: "+err.Error())
	}
	if err := ensureMenus(ctx, db); err != nil {
		problems = append(problems, "menus: "+err.Error())
	}
	if err := ensureMenuItems(ctx, db); err != nil {
		problems = append(problems, "menu_items: "+err.Error())
	}
	if err := ensureMenuLocations(ctx, db); err != nil {
		problems = append(problems, "menu_locations: "+err.Error())
	}
	if err := ensureMediaAssets(ctx, db); err != nil {
		problems = append(problems, "media_assets: "+err.Error())
	}
	if err := ensureSiteOptions(ctx, db); err != nil {
		problems = append(problems, "site_options: "+err.Error())
	}
	if err := ensureSetupState(ctx, db); err != nil {
		problems = append(problems, "setup_state: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))

		// 1) Load existing indexes
		existing := map[string]existingIndex{} // sig -> index
		cur, err := coll.Indexes().List(ctx)
		if err == nil {
			defer cur.Close(ctx)
			for cur.Next(ctx) {
				var idx existingIndex
				if err := cur.Decode(&idx); err != nil {
					zap.L().Warn("failed to decode existing index",
						zap.String("collection", coll.Name()),
						zap.Error(err))
					continue
				}
				existing[keySig(idx.Key)] = idx
			}
		}

		if ex, ok := existing[desiredSig]; ok {
			// Same key pattern exists already.
			if sameBoolPtr(desiredUnique, ex.Unique) {
				// Names aligned (or we don't care) → reuse
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Bool("unique", ex.Unique != nil && *ex.Unique),
					zap.String("took", time.Since(start).String()))
				continue
			}

			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
					errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
				} else {
					errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				}
				continue
			}
			zap.L().Info("index dropped and recreated",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
			continue
		}

		// 2) No existing index with the same keys: create it.
		if created, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				zap.L().Warn("index ensure failed (options conflict)",
					zap.String("collection", coll.Name()),
					zap.String("name", desiredName),
					zap.String("keys", desiredSig),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				continue
			}

			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		} else {
			zap.L().Info("index ensured",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("created_name", created),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensurePodDefinitions(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("pod_definitions")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Pod names are the identity key for create-or-merge provisioning
		{
			Keys: bson.D{
				{Key: "name", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_pods_name"),
		},
		// List pods by kind (post_type vs taxonomy)
		{
			Keys: bson.D{
				{Key: "kind", Value: 1},
				{Key: "name", Value: 1},
			},
			Options: options.Index().SetName("idx_pods_kind_name"),
		},
	})
}

func ensureContentRecords(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("content_records")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Slug lookup within a type: the seeder's primary dedup probe and
		// the by-slug read path
		{
			Keys: bson.D{
				{Key: "post_type", Value: 1},
				{Key: "slug", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_content_type_slug"),
		},
		// Title fallback probe for records seeded without a slug
		{
			Keys: bson.D{
				{Key: "post_type", Value: 1},
				{Key: "title", Value: 1},
			},
			Options: options.Index().SetName("idx_content_type_title"),
		},
		// List queries: published records per type in creation order
		{
			Keys: bson.D{
				{Key: "post_type", Value: 1},
				{Key: "status", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("idx_content_type_status_created"),
		},
	})
}

func ensureTaxonomyTerms(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("taxonomy_terms")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Resolve-or-create lookup by taxonomy + label
		{
			Keys: bson.D{
				{Key: "taxonomy", Value: 1},
				{Key: "label", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_terms_taxonomy_label"),
		},
		// Slug lookup within a taxonomy
		{
			Keys: bson.D{
				{Key: "taxonomy", Value: 1},
				{Key: "slug", Value: 1},
			},
			Options: options.Index().SetName("idx_terms_taxonomy_slug"),
		},
	})
}

func ensureMenus(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("menus")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Menu names are the identity key for idempotent provisioning
		{
			Keys: bson.D{
				{Key: "name", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_menus_name"),
		},
	})
}

func ensureMenuItems(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("menu_items")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Tree reassembly reads all items of a menu in position order
		{
			Keys: bson.D{
				{Key: "menu_id", Value: 1},
				{Key: "position", Value: 1},
			},
			Options: options.Index().SetName("idx_menuitems_menu_position"),
		},
		// Child lookup during reassembly
		{
			Keys: bson.D{
				{Key: "menu_id", Value: 1},
				{Key: "parent_id", Value: 1},
			},
			Options: options.Index().SetName("idx_menuitems_menu_parent"),
		},
	})
}

func ensureMenuLocations(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("menu_locations")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One binding per theme location (last write wins on re-provision)
		{
			Keys: bson.D{
				{Key: "location", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_menulocations_location"),
		},
	})
}

func ensureMediaAssets(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("media_assets")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Filename probe for upload idempotency
		{
			Keys: bson.D{
				{Key: "filename", Value: 1},
			},
			Options: options.Index().SetName("idx_media_filename"),
		},
		// Storage path probe (contains-match scans benefit from the prefix)
		{
			Keys: bson.D{
				{Key: "storage_path", Value: 1},
			},
			Options: options.Index().SetName("idx_media_storage_path"),
		},
	})
}

func ensureSiteOptions(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("site_options")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Options are individually addressed by key; prefix scans use the
		// same index
		{
			Keys: bson.D{
				{Key: "key", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_options_key"),
		},
	})
}

func ensureSetupState(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("setup_state")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Singleton state document
		{
			Keys: bson.D{
				{Key: "key", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_setupstate_key"),
		},
	})
}
