// internal/app/features/contentapi/accessor.go
package contentapi

import (
	"context"

	contentstore "github.com/dalemusser/stratacms/internal/app/store/content"
	mediastore "github.com/dalemusser/stratacms/internal/app/store/media"
	menustore "github.com/dalemusser/stratacms/internal/app/store/menus"
	optionstore "github.com/dalemusser/stratacms/internal/app/store/options"
	termstore "github.com/dalemusser/stratacms/internal/app/store/terms"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Accessor is the read layer shared by the per-resource endpoints and
// the bootstrap aggregator. Every method is fault-isolated: a store
// failure is logged and yields an empty collection, never an error.
// Callers cannot distinguish "empty" from "failed"; that keeps the
// public endpoints always-available.
type Accessor struct {
	content *contentstore.Store
	terms   *termstore.Store
	menus   *menustore.Store
	media   *mediastore.Store
	options *optionstore.Store
	logger  *zap.Logger
}

// NewAccessor creates the shared read layer.
func NewAccessor(
	content *contentstore.Store,
	terms *termstore.Store,
	menus *menustore.Store,
	media *mediastore.Store,
	options *optionstore.Store,
	logger *zap.Logger,
) *Accessor {
	return &Accessor{
		content: content,
		terms:   terms,
		menus:   menus,
		media:   media,
		options: options,
		logger:  logger,
	}
}

// RecordView is the wire shape of one content record.
type RecordView struct {
	ID            string              `json:"id"`
	Type          string              `json:"type"`
	Title         string              `json:"title"`
	Slug          string              `json:"slug,omitempty"`
	Status        string              `json:"status"`
	Content       string              `json:"content,omitempty"`
	Fields        map[string]any      `json:"fields,omitempty"`
	Terms         map[string][]string `json:"terms,omitempty"`
	FeaturedMedia *MediaView          `json:"featured_media,omitempty"`
}

// MediaView is the wire shape of one media asset reference.
type MediaView struct {
	ID        string            `json:"id"`
	SourceURL string            `json:"source_url"`
	AltText   string            `json:"alt_text,omitempty"`
	Sizes     map[string]string `json:"sizes,omitempty"`
}

// MenuItemView is one entry in a reassembled menu tree.
type MenuItemView struct {
	Title    string         `json:"title"`
	URL      string         `json:"url,omitempty"`
	Type     string         `json:"type,omitempty"`
	ObjectID int64          `json:"object_id,omitempty"`
	Children []MenuItemView `json:"children,omitempty"`
}

// TermView is the wire shape of one taxonomy term.
type TermView struct {
	ID       string `json:"id"`
	Taxonomy string `json:"taxonomy"`
	Label    string `json:"name"`
	Slug     string `json:"slug"`
}

// Collection returns all published records of one content type. Empty
// on failure.
func (a *Accessor) Collection(ctx context.Context, postType string) []RecordView {
	recs, err := a.content.ListByType(ctx, postType)
	if err != nil {
		a.logger.Warn("content collection read failed",
			zap.String("post_type", postType),
			zap.Error(err))
		return []RecordView{}
	}

	termsByID := a.termIndex(ctx)
	out := make([]RecordView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, a.recordView(ctx, rec, termsByID))
	}
	return out
}

// CollectionPage returns one page of published records of one content
// type. page is 1-based. Empty on failure.
func (a *Accessor) CollectionPage(ctx context.Context, postType string, perPage, page int64) []RecordView {
	recs, err := a.content.ListByTypePage(ctx, postType, perPage, page)
	if err != nil {
		a.logger.Warn("content collection page read failed",
			zap.String("post_type", postType),
			zap.Int64("page", page),
			zap.Error(err))
		return []RecordView{}
	}

	termsByID := a.termIndex(ctx)
	out := make([]RecordView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, a.recordView(ctx, rec, termsByID))
	}
	return out
}

// Pages returns all published pages. Empty on failure.
func (a *Accessor) Pages(ctx context.Context) []RecordView {
	return a.Collection(ctx, "page")
}

// Posts returns all published posts. Empty on failure.
func (a *Accessor) Posts(ctx context.Context) []RecordView {
	return a.Collection(ctx, "post")
}

// BySlug returns one record by (type, slug), or nil when no match
// exists or the read fails. The caller maps nil to a 404.
func (a *Accessor) BySlug(ctx context.Context, postType, slug string) *RecordView {
	rec, err := a.content.GetBySlug(ctx, postType, slug)
	if err != nil {
		a.logger.Warn("content slug read failed",
			zap.String("post_type", postType),
			zap.String("slug", slug),
			zap.Error(err))
		return nil
	}
	if rec == nil {
		return nil
	}
	view := a.recordView(ctx, *rec, a.termIndex(ctx))
	return &view
}

// Menus returns every bound menu location with its reassembled item
// tree. Empty on failure.
func (a *Accessor) Menus(ctx context.Context) map[string][]MenuItemView {
	locations, err := a.menus.Locations(ctx)
	if err != nil {
		a.logger.Warn("menu locations read failed", zap.Error(err))
		return map[string][]MenuItemView{}
	}

	out := make(map[string][]MenuItemView, len(locations))
	for location, menuID := range locations {
		items, err := a.menus.ItemsByMenu(ctx, menuID)
		if err != nil {
			a.logger.Warn("menu items read failed",
				zap.String("location", location),
				zap.Error(err))
			out[location] = []MenuItemView{}
			continue
		}
		out[location] = assembleTree(items)
	}
	return out
}

// ThemeOptions returns the flattened theme options with the store
// prefix stripped. Empty on failure.
func (a *Accessor) ThemeOptions(ctx context.Context) map[string]string {
	opts, err := a.options.PrefixScan(ctx, optionstore.ThemePrefix)
	if err != nil {
		a.logger.Warn("theme options read failed", zap.Error(err))
		return map[string]string{}
	}
	return opts
}

// Terms returns all terms of one taxonomy. Empty on failure.
func (a *Accessor) Terms(ctx context.Context, taxonomy string) []TermView {
	terms, err := a.terms.ListByTaxonomy(ctx, taxonomy)
	if err != nil {
		a.logger.Warn("taxonomy terms read failed",
			zap.String("taxonomy", taxonomy),
			zap.Error(err))
		return []TermView{}
	}

	out := make([]TermView, 0, len(terms))
	for _, t := range terms {
		out = append(out, TermView{
			ID:       t.ID.Hex(),
			Taxonomy: t.Taxonomy,
			Label:    t.Label,
			Slug:     t.Slug,
		})
	}
	return out
}

// Site returns the site metadata block assembled from theme options.
func (a *Accessor) Site(ctx context.Context) map[string]string {
	opts := a.ThemeOptions(ctx)
	return map[string]string{
		"title":       opts["site_title"],
		"tagline":     opts["site_tagline"],
		"description": opts["site_description"],
		"logo":        opts["logo"],
	}
}

// termIndex loads all terms once so record views can resolve term ids
// to labels without per-record queries. Empty on failure; records then
// render without term labels, which follows the empty-on-failure rule.
func (a *Accessor) termIndex(ctx context.Context) map[primitive.ObjectID]termstore.Term {
	terms, err := a.terms.All(ctx)
	if err != nil {
		a.logger.Warn("term index read failed", zap.Error(err))
		return map[primitive.ObjectID]termstore.Term{}
	}
	idx := make(map[primitive.ObjectID]termstore.Term, len(terms))
	for _, t := range terms {
		idx[t.ID] = t
	}
	return idx
}

func (a *Accessor) recordView(ctx context.Context, rec contentstore.Record, termsByID map[primitive.ObjectID]termstore.Term) RecordView {
	view := RecordView{
		ID:      rec.ID.Hex(),
		Type:    rec.PostType,
		Title:   rec.Title,
		Slug:    rec.Slug,
		Status:  rec.Status,
		Content: rec.Body,
		Fields:  rec.Fields,
	}

	if len(rec.Terms) > 0 {
		view.Terms = make(map[string][]string, len(rec.Terms))
		for taxonomy, ids := range rec.Terms {
			labels := make([]string, 0, len(ids))
			for _, id := range ids {
				if t, ok := termsByID[id]; ok {
					labels = append(labels, t.Label)
				}
			}
			view.Terms[taxonomy] = labels
		}
	}

	if rec.FeaturedMediaID != nil {
		if asset, err := a.media.GetByID(ctx, *rec.FeaturedMediaID); err != nil {
			a.logger.Warn("featured media read failed",
				zap.String("record", rec.ID.Hex()),
				zap.Error(err))
		} else if asset != nil {
			mv := MediaView{
				ID:        asset.ID.Hex(),
				SourceURL: "/media/" + asset.StoragePath,
				AltText:   asset.AltText,
			}
			if len(asset.Renditions) > 0 {
				mv.Sizes = make(map[string]string, len(asset.Renditions))
				for name, rendition := range asset.Renditions {
					mv.Sizes[name] = "/media/" + rendition.StoragePath
				}
			}
			view.FeaturedMedia = &mv
		}
	}

	return view
}

// assembleTree rebuilds the nested menu structure from the flat
// position-sorted item list. Position order within the flat list
// becomes sibling order at every depth. Items whose parent is missing
// are dropped.
func assembleTree(items []menustore.Item) []MenuItemView {
	byID := make(map[primitive.ObjectID]menustore.Item, len(items))
	children := make(map[primitive.ObjectID][]primitive.ObjectID)
	var rootIDs []primitive.ObjectID
	for _, item := range items {
		byID[item.ID] = item
		if item.ParentID == nil {
			rootIDs = append(rootIDs, item.ID)
		} else {
			children[*item.ParentID] = append(children[*item.ParentID], item.ID)
		}
	}

	var build func(id primitive.ObjectID) MenuItemView
	build = func(id primitive.ObjectID) MenuItemView {
		item := byID[id]
		view := MenuItemView{
			Title:    item.Title,
			URL:      item.URL,
			Type:     item.Type,
			ObjectID: item.ObjectID,
		}
		for _, childID := range children[id] {
			view.Children = append(view.Children, build(childID))
		}
		return view
	}

	roots := make([]MenuItemView, 0, len(rootIDs))
	for _, id := range rootIDs {
		roots = append(roots, build(id))
	}
	return roots
}
