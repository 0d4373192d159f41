// Package webinar stores the webinar catalog: one hash per webinar, relation
// sets for the many-to-many speaker/tag edges, and an FT index over status
// and title for published-only listing.
package webinar

import (
	"context"
	"fmt"
	"sort"

	"github.com/kadra-cloud/hrsearch/internal/db"
	"github.com/kadra-cloud/hrsearch/internal/domain"
	"github.com/kadra-cloud/hrsearch/internal/domain/search/result"
	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
	"github.com/kadra-cloud/hrsearch/internal/trigram"
)

// listPageSize bounds a single FT.SEARCH page when walking the catalog.
const listPageSize = 500

// store is the consumer interface for the webinar repository (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SMembersMulti(ctx context.Context, keys []string) ([][]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements the catalog storage contracts of the usecase layer.
type Repo struct {
	store  store
	prefix string
}

// New creates a webinar repository. An empty prefix falls back to the
// default key namespace.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// EnsureIndex creates the webinar FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def := &db.IndexDefinition{
		Name:     r.indexName(),
		Prefixes: []string{r.prefix + "webinar:"},
		Fields: []db.IndexField{
			{Name: "status", Type: db.IndexFieldTag},
			{Name: "title", Type: db.IndexFieldText},
		},
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && err != db.ErrIndexExists {
		return fmt.Errorf("create webinar index: %w", err)
	}
	return nil
}

// Upsert creates or updates a webinar. Returns true if created.
// A changed category moves the webinar between the category reverse sets.
func (r *Repo) Upsert(ctx context.Context, w *domweb.Webinar) (bool, error) {
	key := r.webinarKey(w.ID())

	old, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read existing %s: %w", key, err)
	}
	existed := len(old) > 0

	if err := r.store.HSet(ctx, key, buildHashFields(w)); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}

	oldCategory := old["category_id"]
	if oldCategory != "" && oldCategory != w.CategoryID() {
		if err := r.store.SRem(ctx, r.categoryWebinarsKey(oldCategory), w.ID()); err != nil {
			return false, fmt.Errorf("unlink old category: %w", err)
		}
	}
	if w.CategoryID() != "" {
		if err := r.store.SAdd(ctx, r.categoryWebinarsKey(w.CategoryID()), w.ID()); err != nil {
			return false, fmt.Errorf("link category: %w", err)
		}
	}

	return !existed, nil
}

// Get returns a webinar by ID.
func (r *Repo) Get(ctx context.Context, id string) (domweb.Webinar, error) {
	fields, err := r.store.HGetAll(ctx, r.webinarKey(id))
	if err != nil {
		return domweb.Webinar{}, fmt.Errorf("hgetall %s: %w", id, err)
	}
	if len(fields) == 0 {
		return domweb.Webinar{}, domain.ErrNotFound
	}
	return parseHashFields(id, fields), nil
}

// GetMulti returns webinars for the given ids in one round-trip.
// Missing ids are silently skipped.
func (r *Repo) GetMulti(ctx context.Context, ids []string) ([]domweb.Webinar, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.webinarKey(id)
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}

	out := make([]domweb.Webinar, 0, len(ids))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		out = append(out, parseHashFields(ids[i], m))
	}
	return out, nil
}

// Delete removes a webinar, its relation sets, and its reverse-set entries.
func (r *Repo) Delete(ctx context.Context, id string) error {
	w, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	speakerIDs, err := r.store.SMembers(ctx, r.webinarSpeakersKey(id))
	if err != nil {
		return fmt.Errorf("read speakers of %s: %w", id, err)
	}
	tagIDs, err := r.store.SMembers(ctx, r.webinarTagsKey(id))
	if err != nil {
		return fmt.Errorf("read tags of %s: %w", id, err)
	}

	for _, sid := range speakerIDs {
		if err := r.store.SRem(ctx, r.speakerWebinarsKey(sid), id); err != nil {
			return fmt.Errorf("unlink speaker %s: %w", sid, err)
		}
	}
	for _, tid := range tagIDs {
		if err := r.store.SRem(ctx, r.tagWebinarsKey(tid), id); err != nil {
			return fmt.Errorf("unlink tag %s: %w", tid, err)
		}
	}
	if w.CategoryID() != "" {
		if err := r.store.SRem(ctx, r.categoryWebinarsKey(w.CategoryID()), id); err != nil {
			return fmt.Errorf("unlink category: %w", err)
		}
	}

	for _, key := range []string{r.webinarSpeakersKey(id), r.webinarTagsKey(id), r.webinarKey(id)} {
		if err := r.store.Del(ctx, key); err != nil {
			return fmt.Errorf("del %s: %w", key, err)
		}
	}
	return nil
}

// AddSpeaker links a webinar and a speaker in both directions.
// Re-adding an existing pair is a no-op: the relation has no identity beyond
// the pair itself.
func (r *Repo) AddSpeaker(ctx context.Context, webinarID, speakerID string) error {
	if err := r.store.SAdd(ctx, r.webinarSpeakersKey(webinarID), speakerID); err != nil {
		return fmt.Errorf("link speaker: %w", err)
	}
	if err := r.store.SAdd(ctx, r.speakerWebinarsKey(speakerID), webinarID); err != nil {
		return fmt.Errorf("link speaker reverse: %w", err)
	}
	return nil
}

// AddTag links a webinar and a tag in both directions.
func (r *Repo) AddTag(ctx context.Context, webinarID, tagID string) error {
	if err := r.store.SAdd(ctx, r.webinarTagsKey(webinarID), tagID); err != nil {
		return fmt.Errorf("link tag: %w", err)
	}
	if err := r.store.SAdd(ctx, r.tagWebinarsKey(tagID), webinarID); err != nil {
		return fmt.Errorf("link tag reverse: %w", err)
	}
	return nil
}

// ListPublished returns every published webinar, recorded date descending.
// The catalog tops out around a thousand items, so walking the FT index in
// pages is fine here.
func (r *Repo) ListPublished(ctx context.Context) ([]domweb.Webinar, error) {
	var out []domweb.Webinar

	for offset := 0; ; offset += listPageSize {
		page, err := r.store.SearchList(
			ctx, r.indexName(), publishedQuery, offset, listPageSize, nil,
		)
		if err != nil {
			return nil, fmt.Errorf("list published: %w", err)
		}
		if page == nil || len(page.Entries) == 0 {
			break
		}
		for _, entry := range page.Entries {
			id := r.idFromKey(entry.Key)
			out = append(out, parseHashFields(id, entry.Fields))
		}
		if offset+listPageSize >= page.Total {
			break
		}
	}

	sortByRecency(out)
	return out, nil
}

// CountPublished returns the number of published webinars.
func (r *Repo) CountPublished(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(), publishedQuery)
	if err != nil {
		return 0, fmt.Errorf("count published: %w", err)
	}
	return n, nil
}

// FuzzyMatch scores every published title against the query with trigram
// similarity after case-folding and diacritic-stripping. Zero-score entries
// are dropped; threshold filtering belongs to the caller.
func (r *Repo) FuzzyMatch(ctx context.Context, query string) ([]result.Candidate, error) {
	published, err := r.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	normQuery := trigram.Normalize(query)

	hits := make([]result.Candidate, 0, len(published))
	for i := range published {
		w := &published[i]
		score := trigram.Similarity(normQuery, trigram.Normalize(w.Title()))
		if score > 0 {
			hits = append(hits, result.Candidate{ID: w.ID(), Score: score})
		}
	}
	return hits, nil
}

// SpeakerIDsOf returns webinar id → speaker ids for the given webinars.
func (r *Repo) SpeakerIDsOf(ctx context.Context, webinarIDs []string) (map[string][]string, error) {
	return r.relationsOf(ctx, webinarIDs, r.webinarSpeakersKey)
}

// TagIDsOf returns webinar id → tag ids for the given webinars.
func (r *Repo) TagIDsOf(ctx context.Context, webinarIDs []string) (map[string][]string, error) {
	return r.relationsOf(ctx, webinarIDs, r.webinarTagsKey)
}

func (r *Repo) relationsOf(
	ctx context.Context, webinarIDs []string, keyFn func(string) string,
) (map[string][]string, error) {
	if len(webinarIDs) == 0 {
		return map[string][]string{}, nil
	}

	keys := make([]string, len(webinarIDs))
	for i, id := range webinarIDs {
		keys[i] = keyFn(id)
	}

	members, err := r.store.SMembersMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("smembers multi: %w", err)
	}

	out := make(map[string][]string, len(webinarIDs))
	for i, id := range webinarIDs {
		out[id] = members[i]
	}
	return out, nil
}

// WebinarIDsOfSpeaker returns the ids of webinars presented by a speaker.
func (r *Repo) WebinarIDsOfSpeaker(ctx context.Context, speakerID string) ([]string, error) {
	ids, err := r.store.SMembers(ctx, r.speakerWebinarsKey(speakerID))
	if err != nil {
		return nil, fmt.Errorf("webinars of speaker %s: %w", speakerID, err)
	}
	return ids, nil
}

// WebinarIDsOfTag returns the ids of webinars carrying a tag.
func (r *Repo) WebinarIDsOfTag(ctx context.Context, tagID string) ([]string, error) {
	ids, err := r.store.SMembers(ctx, r.tagWebinarsKey(tagID))
	if err != nil {
		return nil, fmt.Errorf("webinars of tag %s: %w", tagID, err)
	}
	return ids, nil
}

// WebinarIDsOfCategory returns the ids of webinars in a category.
func (r *Repo) WebinarIDsOfCategory(ctx context.Context, categoryID string) ([]string, error) {
	ids, err := r.store.SMembers(ctx, r.categoryWebinarsKey(categoryID))
	if err != nil {
		return nil, fmt.Errorf("webinars of category %s: %w", categoryID, err)
	}
	return ids, nil
}

// sortByRecency orders webinars by recorded date descending, id ascending on ties.
func sortByRecency(ws []domweb.Webinar) {
	sort.Slice(ws, func(i, j int) bool {
		ti, tj := ws[i].RecordedAt(), ws[j].RecordedAt()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return ws[i].ID() < ws[j].ID()
	})
}
