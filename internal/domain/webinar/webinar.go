// Package webinar holds the webinar catalog aggregate.
package webinar

import (
	"fmt"
	"regexp"
	"time"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxTitleLength bounds stored titles; ingestion rejects anything longer.
const MaxTitleLength = 500

// Status is the publication state of a webinar.
type Status string

const (
	// StatusDraft marks unpublished content, invisible to search.
	StatusDraft Status = "draft"
	// StatusPublished marks searchable content.
	StatusPublished Status = "published"
	// StatusArchived marks retired content, invisible to search.
	StatusArchived Status = "archived"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Webinar is a training recording in the catalog (immutable value object).
type Webinar struct {
	id          string
	title       string
	description string
	categoryID  string
	durationMin int
	recordedAt  time.Time
	status      Status
}

// New validates and creates a Webinar.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Title: non-empty, max 500 chars.
func New(
	id, title, description, categoryID string,
	durationMin int, recordedAt time.Time, status Status,
) (Webinar, error) {
	if id == "" {
		return Webinar{}, fmt.Errorf("webinar ID is required")
	}
	if len(id) > 256 {
		return Webinar{}, fmt.Errorf("webinar ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Webinar{}, fmt.Errorf("webinar ID must be alphanumeric with underscores and hyphens")
	}
	if title == "" {
		return Webinar{}, fmt.Errorf("title is required")
	}
	if len(title) > MaxTitleLength {
		return Webinar{}, fmt.Errorf("title too long (max %d)", MaxTitleLength)
	}
	if durationMin < 0 {
		return Webinar{}, fmt.Errorf("duration must not be negative")
	}
	if !status.Valid() {
		return Webinar{}, fmt.Errorf("unknown status %q", status)
	}

	return Webinar{
		id:          id,
		title:       title,
		description: description,
		categoryID:  categoryID,
		durationMin: durationMin,
		recordedAt:  recordedAt,
		status:      status,
	}, nil
}

// Reconstruct creates a Webinar without validation (storage hydration).
func Reconstruct(
	id, title, description, categoryID string,
	durationMin int, recordedAt time.Time, status Status,
) Webinar {
	return Webinar{
		id:          id,
		title:       title,
		description: description,
		categoryID:  categoryID,
		durationMin: durationMin,
		recordedAt:  recordedAt,
		status:      status,
	}
}

// ID returns the stable identifier.
func (w *Webinar) ID() string { return w.id }

// Title returns the display title.
func (w *Webinar) Title() string { return w.title }

// Description returns the optional description (may be empty).
func (w *Webinar) Description() string { return w.description }

// CategoryID returns the 0-or-1 category reference (empty when uncategorized).
func (w *Webinar) CategoryID() string { return w.categoryID }

// DurationMin returns the running time in minutes.
func (w *Webinar) DurationMin() int { return w.durationMin }

// RecordedAt returns the recording date.
func (w *Webinar) RecordedAt() time.Time { return w.recordedAt }

// Status returns the publication state.
func (w *Webinar) Status() Status { return w.status }

// Published reports whether the webinar is visible to search.
func (w *Webinar) Published() bool { return w.status == StatusPublished }
