package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kadra-cloud/hrsearch/internal/domain"
	domcat "github.com/kadra-cloud/hrsearch/internal/domain/catalog"
	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
	cataloguc "github.com/kadra-cloud/hrsearch/internal/usecase/catalog"
	healthuc "github.com/kadra-cloud/hrsearch/internal/usecase/health"
	searchuc "github.com/kadra-cloud/hrsearch/internal/usecase/search"
	suggestuc "github.com/kadra-cloud/hrsearch/internal/usecase/suggest"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search, autocomplete, and catalog HTTP API.
type Server struct {
	search        *searchuc.Service
	suggest       *suggestuc.Service
	catalog       *cataloguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	suggest *suggestuc.Service,
	catalog *cataloguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		suggest: suggest,
		catalog: catalog,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrSearchTimeout, http.StatusGatewayTimeout, codeSearchTimeout),
		sentinelHandler(domain.ErrStorageUnavailable, http.StatusServiceUnavailable, codeStorageUnavailable),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusBadGateway, codeSearchUnavailable),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch),
	}
	return s
}

// Register mounts all API routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Get("/api/search", s.handleSearch)
	r.Get("/api/autocomplete", s.handleAutocomplete)

	r.Post("/api/webinars", s.handleUpsertWebinar)
	r.Get("/api/webinars", s.handleWebinarsByTags)
	r.Get("/api/webinars/{id}", s.handleGetWebinar)
	r.Delete("/api/webinars/{id}", s.handleDeleteWebinar)
	r.Post("/api/webinars/{id}/speakers/{speakerID}", s.handleAddSpeaker)
	r.Post("/api/webinars/{id}/tags/{tagID}", s.handleAddTag)

	r.Post("/api/categories", s.handleCreateCategory)
	r.Get("/api/categories", s.handleListCategories)
	r.Get("/api/categories/{slug}/webinars", s.handleCategoryWebinars)

	r.Post("/api/speakers", s.handleCreateSpeaker)
	r.Get("/api/speakers", s.handleListSpeakers)
	r.Get("/api/speakers/{name}/webinars", s.handleSpeakerWebinars)

	r.Post("/api/tags", s.handleCreateTag)
	r.Get("/api/tags", s.handleListTags)

	r.Get("/api/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
}

// handleSearch handles GET /api/search?q=&limit=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	results, err := s.search.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]searchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToItem(&results[i])
	}
	writeJSON(w, http.StatusOK, searchResponse{Items: items, Total: len(items)})
}

// handleAutocomplete handles GET /api/autocomplete?q=&limit=.
// Never fails: degraded sources just shrink the suggestion list.
func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	suggestions := s.suggest.Autocomplete(r.Context(), r.URL.Query().Get("q"))
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	items := make([]suggestionItem, len(suggestions))
	for i := range suggestions {
		items[i] = suggestionToItem(&suggestions[i])
	}
	writeJSON(w, http.StatusOK, autocompleteResponse{Items: items})
}

// handleUpsertWebinar handles POST /api/webinars.
func (s *Server) handleUpsertWebinar(w http.ResponseWriter, r *http.Request) {
	var req upsertWebinarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	status := domweb.Status(req.Status)
	if req.Status == "" {
		status = domweb.StatusDraft
	}
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, codeValidationFailed, fmt.Sprintf("unknown status %q", req.Status))
		return
	}

	webinar, err := domweb.New(
		req.ID, req.Title, req.Description, req.CategoryID,
		req.DurationMin, req.RecordedAt, status,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	created, err := s.catalog.UpsertWebinar(r.Context(), &webinar)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	httpStatus := http.StatusOK
	if created {
		httpStatus = http.StatusCreated
		w.Header().Set("Location", "/api/webinars/"+webinar.ID())
	}

	view, err := s.catalog.GetWebinar(r.Context(), webinar.ID())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, httpStatus, webinarViewToResponse(&view))
}

// handleGetWebinar handles GET /api/webinars/{id}.
func (s *Server) handleGetWebinar(w http.ResponseWriter, r *http.Request) {
	view, err := s.catalog.GetWebinar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, webinarViewToResponse(&view))
}

// handleDeleteWebinar handles DELETE /api/webinars/{id}.
func (s *Server) handleDeleteWebinar(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteWebinar(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddSpeaker handles POST /api/webinars/{id}/speakers/{speakerID}.
func (s *Server) handleAddSpeaker(w http.ResponseWriter, r *http.Request) {
	err := s.catalog.AddSpeaker(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "speakerID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddTag handles POST /api/webinars/{id}/tags/{tagID}.
func (s *Server) handleAddTag(w http.ResponseWriter, r *http.Request) {
	err := s.catalog.AddTag(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tagID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleWebinarsByTags handles GET /api/webinars?tags=a,b&offset=&limit=.
func (s *Server) handleWebinarsByTags(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := pagingParams(w, r)
	if !ok {
		return
	}

	var slugs []string
	for _, part := range strings.Split(r.URL.Query().Get("tags"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			slugs = append(slugs, part)
		}
	}

	page, err := s.catalog.ByTags(r.Context(), slugs, offset, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// handleCreateCategory handles POST /api/categories.
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	category, err := domcat.NewCategory(req.ID, req.Name, req.Slug)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if err := s.catalog.CreateCategory(r.Context(), &category); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, categoryResponse{
		ID: category.ID(), Name: category.Name(), Slug: category.Slug(),
	})
}

// handleListCategories handles GET /api/categories.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]categoryResponse, len(categories))
	for i := range categories {
		items[i] = categoryResponse{
			ID: categories[i].ID(), Name: categories[i].Name(), Slug: categories[i].Slug(),
		}
	}
	writeJSON(w, http.StatusOK, items)
}

// handleCategoryWebinars handles GET /api/categories/{slug}/webinars.
func (s *Server) handleCategoryWebinars(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := pagingParams(w, r)
	if !ok {
		return
	}

	page, err := s.catalog.ByCategorySlug(r.Context(), chi.URLParam(r, "slug"), offset, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// handleCreateSpeaker handles POST /api/speakers.
func (s *Server) handleCreateSpeaker(w http.ResponseWriter, r *http.Request) {
	var req createSpeakerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	speaker, err := domcat.NewSpeaker(req.ID, req.Name, req.Bio)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if err := s.catalog.CreateSpeaker(r.Context(), &speaker); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, speakerResponse{
		ID: speaker.ID(), Name: speaker.Name(), Bio: speaker.Bio(),
	})
}

// handleListSpeakers handles GET /api/speakers.
func (s *Server) handleListSpeakers(w http.ResponseWriter, r *http.Request) {
	speakers, err := s.catalog.ListSpeakers(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]speakerResponse, len(speakers))
	for i := range speakers {
		items[i] = speakerResponse{
			ID: speakers[i].ID(), Name: speakers[i].Name(), Bio: speakers[i].Bio(),
		}
	}
	writeJSON(w, http.StatusOK, items)
}

// handleSpeakerWebinars handles GET /api/speakers/{name}/webinars.
// The name is a diacritic-insensitive partial match, not an exact key.
func (s *Server) handleSpeakerWebinars(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := pagingParams(w, r)
	if !ok {
		return
	}

	page, err := s.catalog.BySpeakerName(r.Context(), chi.URLParam(r, "name"), offset, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// handleCreateTag handles POST /api/tags.
func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	tag, err := domcat.NewTag(req.ID, req.Name, req.Slug)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if err := s.catalog.CreateTag(r.Context(), &tag); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tagResponse{
		ID: tag.ID(), Name: tag.Name(), Slug: tag.Slug(),
	})
}

// handleListTags handles GET /api/tags.
func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.catalog.ListTags(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]tagResponse, len(tags))
	for i := range tags {
		items[i] = tagResponse{
			ID: tags[i].ID(), Name: tags[i].Name(), Slug: tags[i].Slug(),
		}
	}
	writeJSON(w, http.StatusOK, items)
}

// handleHealth handles GET /api/health. The service keeps answering search
// through the fuzzy fallback while degraded, so only a total store outage
// reports 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	writeJSON(w, httpStatus, map[string]any{
		"status": string(report.Status),
		"checks": checks,
	})
}

// handleMetrics handles GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// queryInt parses an optional integer query parameter. Writes a 400 and
// returns ok=false on a malformed value.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Sprintf("%s must be a non-negative integer", name))
		return 0, false
	}
	return v, true
}

func pagingParams(w http.ResponseWriter, r *http.Request) (offset, limit int, ok bool) {
	if offset, ok = queryInt(w, r, "offset"); !ok {
		return 0, 0, false
	}
	if limit, ok = queryInt(w, r, "limit"); !ok {
		return 0, 0, false
	}
	return offset, limit, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrInvalidInput,
		domain.ErrSearchTimeout,
		domain.ErrStorageUnavailable,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrEmbeddingUnavailable,
		domain.ErrVectorDimMismatch,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
