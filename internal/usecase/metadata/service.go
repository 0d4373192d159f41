// Package metadata resolves webinar relation ids into display names so
// search hits carry their category, speakers, and tags in one pass.
package metadata

import (
	"context"
	"fmt"
	"sort"

	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
)

// Metadata is the resolved display metadata of a single webinar.
type Metadata struct {
	Category string
	Speakers []string
	Tags     []string
}

// Aggregator batches relation and taxonomy lookups for a set of webinars.
type Aggregator struct {
	relations RelationReader
	taxonomy  TaxonomyReader
}

// New creates a metadata aggregator.
func New(relations RelationReader, taxonomy TaxonomyReader) *Aggregator {
	return &Aggregator{relations: relations, taxonomy: taxonomy}
}

// Resolve returns webinar id -> metadata for the given webinars. Names are
// deduplicated and sorted; ids pointing at deleted taxonomy entries are
// silently dropped. Slices are never nil.
func (a *Aggregator) Resolve(
	ctx context.Context, webinars []domweb.Webinar,
) (map[string]Metadata, error) {
	if len(webinars) == 0 {
		return map[string]Metadata{}, nil
	}

	ids := make([]string, len(webinars))
	for i := range webinars {
		ids[i] = webinars[i].ID()
	}

	speakersByWebinar, err := a.relations.SpeakerIDsOf(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve speaker relations: %w", err)
	}
	tagsByWebinar, err := a.relations.TagIDsOf(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve tag relations: %w", err)
	}

	categoryIDs := make(map[string]bool)
	speakerIDs := make(map[string]bool)
	tagIDs := make(map[string]bool)
	for i := range webinars {
		if cid := webinars[i].CategoryID(); cid != "" {
			categoryIDs[cid] = true
		}
		for _, sid := range speakersByWebinar[webinars[i].ID()] {
			speakerIDs[sid] = true
		}
		for _, tid := range tagsByWebinar[webinars[i].ID()] {
			tagIDs[tid] = true
		}
	}

	categories, err := a.taxonomy.GetCategoriesMulti(ctx, setToSlice(categoryIDs))
	if err != nil {
		return nil, fmt.Errorf("resolve categories: %w", err)
	}
	speakers, err := a.taxonomy.GetSpeakersMulti(ctx, setToSlice(speakerIDs))
	if err != nil {
		return nil, fmt.Errorf("resolve speakers: %w", err)
	}
	tags, err := a.taxonomy.GetTagsMulti(ctx, setToSlice(tagIDs))
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}

	out := make(map[string]Metadata, len(webinars))
	for i := range webinars {
		w := &webinars[i]

		m := Metadata{Speakers: []string{}, Tags: []string{}}
		if c, ok := categories[w.CategoryID()]; ok {
			m.Category = c.Name()
		}
		for _, sid := range dedupe(speakersByWebinar[w.ID()]) {
			if s, ok := speakers[sid]; ok {
				m.Speakers = append(m.Speakers, s.Name())
			}
		}
		for _, tid := range dedupe(tagsByWebinar[w.ID()]) {
			if t, ok := tags[tid]; ok {
				m.Tags = append(m.Tags, t.Name())
			}
		}
		sort.Strings(m.Speakers)
		sort.Strings(m.Tags)

		out[w.ID()] = m
	}
	return out, nil
}

func setToSlice(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
