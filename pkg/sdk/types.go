package hrsearch

import "time"

// WebinarStatus controls catalog visibility.
type WebinarStatus string

// Webinar status constants.
const (
	StatusDraft     WebinarStatus = "draft"
	StatusPublished WebinarStatus = "published"
	StatusArchived  WebinarStatus = "archived"
)

// Webinar is a catalog entry for ingestion and reads.
type Webinar struct {
	ID          string
	Title       string
	Description string
	CategoryID  string
	DurationMin int
	RecordedAt  time.Time
	Status      WebinarStatus
}

// WebinarView is a webinar with its resolved display metadata.
type WebinarView struct {
	Webinar  Webinar
	Category string
	Speakers []string
	Tags     []string
}

// Page is a browse result with the total before pagination.
type Page struct {
	Items []WebinarView
	Total int
}

// SearchResult is a single search hit.
type SearchResult struct {
	ID          string
	Title       string
	Description string
	Score       float64
	Source      string // "semantic" or "fuzzy"
	RecordedAt  time.Time
	DurationMin int
	Category    string
	Speakers    []string
	Tags        []string
}

// Suggestion is a single autocomplete entry.
type Suggestion struct {
	Text string
	Kind string // "webinar", "speaker", or "tag"
}

// Category is a webinar category.
type Category struct {
	ID   string
	Name string
	Slug string
}

// Speaker is a webinar presenter.
type Speaker struct {
	ID   string
	Name string
	Bio  string
}

// Tag is a webinar topic label.
type Tag struct {
	ID   string
	Name string
	Slug string
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component -> "ok"/"error"
}
