package chi

import (
	"time"

	"github.com/kadra-cloud/hrsearch/internal/domain/search/result"
	"github.com/kadra-cloud/hrsearch/internal/domain/search/suggestion"
	cataloguc "github.com/kadra-cloud/hrsearch/internal/usecase/catalog"
)

// errorCode is the machine-readable error identifier returned to clients.
type errorCode string

const (
	codeBadRequest         errorCode = "bad_request"
	codeInvalidQuery       errorCode = "invalid_query"
	codeValidationFailed   errorCode = "validation_failed"
	codeNotFound           errorCode = "not_found"
	codeAlreadyExists      errorCode = "already_exists"
	codeSearchTimeout      errorCode = "search_timeout"
	codeStorageUnavailable errorCode = "storage_unavailable"
	codeSearchUnavailable  errorCode = "search_unavailable"
	codeVectorDimMismatch  errorCode = "vector_dim_mismatch"
	codeInternalError      errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type searchResultItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Score       float64   `json:"score"`
	Source      string    `json:"source"`
	RecordedAt  time.Time `json:"recorded_at"`
	DurationMin int       `json:"duration_min"`
	Category    string    `json:"category,omitempty"`
	Speakers    []string  `json:"speakers"`
	Tags        []string  `json:"tags"`
}

type searchResponse struct {
	Items []searchResultItem `json:"items"`
	Total int                `json:"total"`
}

type suggestionItem struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
}

type autocompleteResponse struct {
	Items []suggestionItem `json:"items"`
}

type webinarResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CategoryID  string    `json:"category_id,omitempty"`
	Category    string    `json:"category,omitempty"`
	DurationMin int       `json:"duration_min"`
	RecordedAt  time.Time `json:"recorded_at"`
	Status      string    `json:"status"`
	Speakers    []string  `json:"speakers"`
	Tags        []string  `json:"tags"`
}

type webinarPageResponse struct {
	Items []webinarResponse `json:"items"`
	Total int               `json:"total"`
}

type upsertWebinarRequest struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CategoryID  string    `json:"category_id"`
	DurationMin int       `json:"duration_min"`
	RecordedAt  time.Time `json:"recorded_at"`
	Status      string    `json:"status"`
}

type createCategoryRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type createSpeakerRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

type createTagRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type speakerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

type tagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func searchResultToItem(r *result.Result) searchResultItem {
	return searchResultItem{
		ID:          r.ID(),
		Title:       r.Title(),
		Description: r.Description(),
		Score:       r.Score(),
		Source:      string(r.Source()),
		RecordedAt:  r.RecordedAt(),
		DurationMin: r.DurationMin(),
		Category:    r.Category(),
		Speakers:    r.Speakers(),
		Tags:        r.Tags(),
	}
}

func suggestionToItem(s *suggestion.Suggestion) suggestionItem {
	return suggestionItem{Text: s.Text(), Kind: string(s.Kind())}
}

func webinarViewToResponse(v *cataloguc.WebinarView) webinarResponse {
	speakers := v.Metadata.Speakers
	if speakers == nil {
		speakers = []string{}
	}
	tags := v.Metadata.Tags
	if tags == nil {
		tags = []string{}
	}
	return webinarResponse{
		ID:          v.Webinar.ID(),
		Title:       v.Webinar.Title(),
		Description: v.Webinar.Description(),
		CategoryID:  v.Webinar.CategoryID(),
		Category:    v.Metadata.Category,
		DurationMin: v.Webinar.DurationMin(),
		RecordedAt:  v.Webinar.RecordedAt(),
		Status:      string(v.Webinar.Status()),
		Speakers:    speakers,
		Tags:        tags,
	}
}

func pageToResponse(p cataloguc.Page) webinarPageResponse {
	items := make([]webinarResponse, len(p.Items))
	for i := range p.Items {
		items[i] = webinarViewToResponse(&p.Items[i])
	}
	return webinarPageResponse{Items: items, Total: p.Total}
}
