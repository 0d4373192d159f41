// Package result defines the typed search hit returned by the ranking pipeline.
package result

import "time"

// Source identifies which retrieval stage produced a hit.
type Source string

const (
	// SourceSemantic marks hits from vector similarity retrieval.
	SourceSemantic Source = "semantic"
	// SourceFuzzy marks hits from the trigram fallback.
	SourceFuzzy Source = "fuzzy"
)

// Result is a single search hit with its provenance score and aggregated metadata.
type Result struct {
	id          string
	title       string
	description string
	score       float64
	source      Source
	recordedAt  time.Time
	durationMin int
	category    string
	speakers    []string
	tags        []string
}

// New creates a search result. Speaker and tag slices are normalized to
// non-nil so the API shape stays uniform.
func New(
	id, title, description string,
	score float64, source Source,
	recordedAt time.Time, durationMin int,
	category string, speakers, tags []string,
) Result {
	if speakers == nil {
		speakers = []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	return Result{
		id: id, title: title, description: description,
		score: score, source: source,
		recordedAt: recordedAt, durationMin: durationMin,
		category: category, speakers: speakers, tags: tags,
	}
}

// ID returns the webinar identifier.
func (r *Result) ID() string { return r.id }

// Title returns the webinar title.
func (r *Result) Title() string { return r.title }

// Description returns the webinar description.
func (r *Result) Description() string { return r.description }

// Score returns the similarity that surfaced this hit.
func (r *Result) Score() float64 { return r.score }

// Source returns the retrieval stage that produced this hit.
func (r *Result) Source() Source { return r.source }

// RecordedAt returns the recording date.
func (r *Result) RecordedAt() time.Time { return r.recordedAt }

// DurationMin returns the running time in minutes.
func (r *Result) DurationMin() int { return r.durationMin }

// Category returns the category display name (empty when uncategorized).
func (r *Result) Category() string { return r.category }

// Speakers returns the deduplicated speaker names (never nil).
func (r *Result) Speakers() []string { return r.speakers }

// Tags returns the deduplicated tag names (never nil).
func (r *Result) Tags() []string { return r.tags }
