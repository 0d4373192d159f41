// Package taxonomy stores categories, speakers, and tags: one hash per
// entity plus slug lookup keys enforcing slug uniqueness for categories
// and tags.
package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kadra-cloud/hrsearch/internal/db"
	"github.com/kadra-cloud/hrsearch/internal/domain"
	"github.com/kadra-cloud/hrsearch/internal/domain/catalog"
)

// store is the consumer interface for the taxonomy repository (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo implements taxonomy storage for the catalog usecases.
type Repo struct {
	store  store
	prefix string
}

// New creates a taxonomy repository. An empty prefix falls back to the
// default key namespace.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// CreateCategory stores a category. The slug must be unused.
func (r *Repo) CreateCategory(ctx context.Context, c *catalog.Category) error {
	if err := r.claimSlug(ctx, r.categorySlugKey(c.Slug()), c.ID()); err != nil {
		return err
	}
	fields := map[string]string{"name": c.Name(), "slug": c.Slug()}
	if err := r.store.HSet(ctx, r.categoryKey(c.ID()), fields); err != nil {
		return fmt.Errorf("store category %s: %w", c.ID(), err)
	}
	return nil
}

// GetCategory returns a category by ID.
func (r *Repo) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	m, err := r.store.HGetAll(ctx, r.categoryKey(id))
	if err != nil {
		return catalog.Category{}, fmt.Errorf("read category %s: %w", id, err)
	}
	if len(m) == 0 {
		return catalog.Category{}, domain.ErrNotFound
	}
	return catalog.ReconstructCategory(id, m["name"], m["slug"]), nil
}

// GetCategoryBySlug resolves a slug to its category.
func (r *Repo) GetCategoryBySlug(ctx context.Context, slug string) (catalog.Category, error) {
	id, err := r.resolveSlug(ctx, r.categorySlugKey(slug))
	if err != nil {
		return catalog.Category{}, err
	}
	return r.GetCategory(ctx, id)
}

// GetCategoriesMulti returns id -> category for the given ids. Missing ids
// are silently skipped.
func (r *Repo) GetCategoriesMulti(ctx context.Context, ids []string) (map[string]catalog.Category, error) {
	maps, err := r.getMulti(ctx, ids, r.categoryKey)
	if err != nil {
		return nil, err
	}
	out := make(map[string]catalog.Category, len(ids))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		out[ids[i]] = catalog.ReconstructCategory(ids[i], m["name"], m["slug"])
	}
	return out, nil
}

// ListCategories returns every category, name ascending.
func (r *Repo) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	ids, err := r.scanIDs(ctx, r.prefix+"category:")
	if err != nil {
		return nil, err
	}
	maps, err := r.getMulti(ctx, ids, r.categoryKey)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Category, 0, len(ids))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		out = append(out, catalog.ReconstructCategory(ids[i], m["name"], m["slug"]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// DeleteCategory removes a category and releases its slug.
func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	c, err := r.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.Del(ctx, r.categorySlugKey(c.Slug())); err != nil {
		return fmt.Errorf("release category slug: %w", err)
	}
	if err := r.store.Del(ctx, r.categoryKey(id)); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}

// CreateSpeaker stores a speaker.
func (r *Repo) CreateSpeaker(ctx context.Context, s *catalog.Speaker) error {
	exists, err := r.store.Exists(ctx, r.speakerKey(s.ID()))
	if err != nil {
		return fmt.Errorf("check speaker %s: %w", s.ID(), err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}
	fields := map[string]string{"name": s.Name(), "bio": s.Bio()}
	if err := r.store.HSet(ctx, r.speakerKey(s.ID()), fields); err != nil {
		return fmt.Errorf("store speaker %s: %w", s.ID(), err)
	}
	return nil
}

// GetSpeaker returns a speaker by ID.
func (r *Repo) GetSpeaker(ctx context.Context, id string) (catalog.Speaker, error) {
	m, err := r.store.HGetAll(ctx, r.speakerKey(id))
	if err != nil {
		return catalog.Speaker{}, fmt.Errorf("read speaker %s: %w", id, err)
	}
	if len(m) == 0 {
		return catalog.Speaker{}, domain.ErrNotFound
	}
	return catalog.ReconstructSpeaker(id, m["name"], m["bio"]), nil
}

// GetSpeakersMulti returns id -> speaker for the given ids. Missing ids
// are silently skipped.
func (r *Repo) GetSpeakersMulti(ctx context.Context, ids []string) (map[string]catalog.Speaker, error) {
	maps, err := r.getMulti(ctx, ids, r.speakerKey)
	if err != nil {
		return nil, err
	}
	out := make(map[string]catalog.Speaker, len(ids))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		out[ids[i]] = catalog.ReconstructSpeaker(ids[i], m["name"], m["bio"])
	}
	return out, nil
}

// ListSpeakers returns every speaker, name ascending.
func (r *Repo) ListSpeakers(ctx context.Context) ([]catalog.Speaker, error) {
	ids, err := r.scanIDs(ctx, r.prefix+"speaker:")
	if err != nil {
		return nil, err
	}
	maps, err := r.getMulti(ctx, ids, r.speakerKey)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Speaker, 0, len(ids))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		out = append(out, catalog.ReconstructSpeaker(ids[i], m["name"], m["bio"]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// DeleteSpeaker removes a speaker hash. Relation cleanup belongs to the caller.
func (r *Repo) DeleteSpeaker(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.speakerKey(id)); err != nil {
		return fmt.Errorf("delete speaker %s: %w", id, err)
	}
	return nil
}

// CreateTag stores a tag. The slug must be unused.
func (r *Repo) CreateTag(ctx context.Context, t *catalog.Tag) error {
	if err := r.claimSlug(ctx, r.tagSlugKey(t.Slug()), t.ID()); err != nil {
		return err
	}
	fields := map[string]string{"name": t.Name(), "slug": t.Slug()}
	if err := r.store.HSet(ctx, r.tagKey(t.ID()), fields); err != nil {
		return fmt.Errorf("store tag %s: %w", t.ID(), err)
	}
	return nil
}

// GetTag returns a tag by ID.
func (r *Repo) GetTag(ctx context.Context, id string) (catalog.Tag, error) {
	m, err := r.store.HGetAll(ctx, r.tagKey(id))
	if err != nil {
		return catalog.Tag{}, fmt.Errorf("read tag %s: %w", id, err)
	}
	if len(m) == 0 {
		return catalog.Tag{}, domain.ErrNotFound
	}
	return catalog.ReconstructTag(id, m["name"], m["slug"]), nil
}

// GetTagBySlug resolves a slug to its tag.
func (r *Repo) GetTagBySlug(ctx context.Context, slug string) (catalog.Tag, error) {
	id, err := r.resolveSlug(ctx, r.tagSlugKey(slug))
	if err != nil {
		return catalog.Tag{}, err
	}
	return r.GetTag(ctx, id)
}

// GetTagsMulti returns id -> tag for the given ids. Missing ids are
// silently skipped.
func (r *Repo) GetTagsMulti(ctx context.Context, ids []string) (map[string]catalog.Tag, error) {
	maps, err := r.getMulti(ctx, ids, r.tagKey)
	if err != nil {
		return nil, err
	}
	out := make(map[string]catalog.Tag, len(ids))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		out[ids[i]] = catalog.ReconstructTag(ids[i], m["name"], m["slug"])
	}
	return out, nil
}

// ListTags returns every tag, name ascending.
func (r *Repo) ListTags(ctx context.Context) ([]catalog.Tag, error) {
	ids, err := r.scanIDs(ctx, r.prefix+"tag:")
	if err != nil {
		return nil, err
	}
	maps, err := r.getMulti(ctx, ids, r.tagKey)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Tag, 0, len(ids))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		out = append(out, catalog.ReconstructTag(ids[i], m["name"], m["slug"]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// DeleteTag removes a tag and releases its slug.
func (r *Repo) DeleteTag(ctx context.Context, id string) error {
	t, err := r.GetTag(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.Del(ctx, r.tagSlugKey(t.Slug())); err != nil {
		return fmt.Errorf("release tag slug: %w", err)
	}
	if err := r.store.Del(ctx, r.tagKey(id)); err != nil {
		return fmt.Errorf("delete tag %s: %w", id, err)
	}
	return nil
}

// claimSlug reserves a slug key for an entity id, failing when taken.
func (r *Repo) claimSlug(ctx context.Context, slugKey, id string) error {
	exists, err := r.store.Exists(ctx, slugKey)
	if err != nil {
		return fmt.Errorf("check slug: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}
	if err := r.store.Set(ctx, slugKey, []byte(id)); err != nil {
		return fmt.Errorf("claim slug: %w", err)
	}
	return nil
}

func (r *Repo) resolveSlug(ctx context.Context, slugKey string) (string, error) {
	id, err := r.store.Get(ctx, slugKey)
	if errors.Is(err, db.ErrKeyNotFound) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolve slug: %w", err)
	}
	if len(id) == 0 {
		return "", domain.ErrNotFound
	}
	return string(id), nil
}

func (r *Repo) getMulti(
	ctx context.Context, ids []string, keyFn func(string) string,
) ([]map[string]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyFn(id)
	}
	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}
	return maps, nil
}

// scanIDs walks hash keys under a prefix and strips it, skipping the
// relation-set and slug-lookup keys that share the namespace.
func (r *Repo) scanIDs(ctx context.Context, prefix string) ([]string, error) {
	keys, err := r.store.Scan(ctx, prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", prefix, err)
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		id := strings.TrimPrefix(key, prefix)
		if strings.Contains(id, ":") {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
