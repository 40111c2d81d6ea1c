// Package v1 implements the native REST API.
package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vklink/flix/internal/aggregate"
	"github.com/vklink/flix/internal/catalog"
	"github.com/vklink/flix/internal/metrics"
	"github.com/vklink/flix/internal/progress"
	"github.com/vklink/flix/internal/session"
)

// SectionProvider is implemented by sources that carry admin-curated
// sections (the local catalog). The home rails are only built for these.
type SectionProvider interface {
	CuratedSections(ctx context.Context) ([]catalog.CuratedSection, error)
}

// Config holds API server configuration.
type Config struct {
	Version    string
	SourceName string
	PageSize   int
}

// Server is the v1 API server.
type Server struct {
	source   catalog.Source
	progress *progress.Store
	sessions *session.Controller
	cfg      Config
}

// New creates a new v1 API server.
func New(source catalog.Source, progressStore *progress.Store, sessions *session.Controller, cfg Config) *Server {
	if cfg.PageSize == 0 {
		cfg.PageSize = 48
	}
	return &Server{
		source:   source,
		progress: progressStore,
		sessions: sessions,
		cfg:      cfg,
	}
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Catalog
	mux.HandleFunc("GET /api/v1/categories", s.listCategories)
	mux.HandleFunc("GET /api/v1/items", s.listItems)
	mux.HandleFunc("GET /api/v1/search", s.search)
	mux.HandleFunc("GET /api/v1/home", s.home)
	mux.HandleFunc("POST /api/v1/detail", s.detail)
	mux.HandleFunc("POST /api/v1/episodes", s.listEpisodes)

	// Progress
	mux.HandleFunc("GET /api/v1/progress/{user}", s.recentProgress)
	mux.HandleFunc("GET /api/v1/progress/{user}/{content}", s.getProgress)
	mux.HandleFunc("PUT /api/v1/progress", s.upsertProgress)

	// Playback sessions
	mux.HandleFunc("POST /api/v1/sessions", s.startSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}", s.getSession)
	mux.HandleFunc("POST /api/v1/sessions/{id}/position", s.reportPosition)
	mux.HandleFunc("POST /api/v1/sessions/{id}/episode", s.selectEpisode)
	mux.HandleFunc("POST /api/v1/sessions/{id}/pause", s.pauseSession)
	mux.HandleFunc("POST /api/v1/sessions/{id}/hidden", s.hiddenSession)
	mux.HandleFunc("POST /api/v1/sessions/{id}/error", s.failSession)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", s.stopSession)

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// typeFilter parses the optional ?type= query. "all" and "" mean both.
func typeFilter(r *http.Request) *catalog.MediaType {
	switch r.URL.Query().Get("type") {
	case string(catalog.MediaTypeMovie):
		t := catalog.MediaTypeMovie
		return &t
	case string(catalog.MediaTypeSeries):
		t := catalog.MediaTypeSeries
		return &t
	default:
		return nil
	}
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.source.ListCategories(r.Context())
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(s.cfg.SourceName, "categories").Inc()
		writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "content unavailable")
		return
	}
	if tf := typeFilter(r); tf != nil {
		filtered := cats[:0:0]
		for _, c := range cats {
			if c.Type == *tf {
				filtered = append(filtered, c)
			}
		}
		cats = filtered
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: cats})
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cat := catalog.Category{
		ID:   q.Get("category_id"),
		Name: q.Get("category_name"),
		Type: catalog.ParseMediaType(q.Get("type")),
	}
	if cat.ID == "" && cat.Name == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "category_id or category_name required")
		return
	}
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", s.cfg.PageSize)

	items, hasMore, err := s.source.ListItems(r.Context(), cat, page, pageSize)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "category not found")
		return
	}
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(s.cfg.SourceName, "items").Inc()
		writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "content unavailable")
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: items, Page: page, HasMore: hasMore})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "q required")
		return
	}
	metrics.SearchQueries.WithLabelValues(s.cfg.SourceName).Inc()

	results, err := s.source.Search(r.Context(), query, typeFilter(r))
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(s.cfg.SourceName, "search").Inc()
		writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "content unavailable")
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Query:   query,
		Results: aggregate.Rank(results, query),
	})
}

// home builds the curated rails: grouped items, the featured hero, and
// the user's continue-watching list. Sources without curated sections
// get an empty group list rather than an error.
func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	resp := homeResponse{}

	if sp, ok := s.source.(SectionProvider); ok {
		sections, err := sp.CuratedSections(r.Context())
		if err != nil {
			metrics.UpstreamErrors.WithLabelValues(s.cfg.SourceName, "home").Inc()
			writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "content unavailable")
			return
		}
		items, err := s.source.Search(r.Context(), "", typeFilter(r))
		if err != nil {
			metrics.UpstreamErrors.WithLabelValues(s.cfg.SourceName, "home").Inc()
			writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "content unavailable")
			return
		}
		resp.Groups = aggregate.GroupItems(items, sections)
		resp.Featured = aggregate.PickFeatured(items)
	}

	if user := r.URL.Query().Get("user"); user != "" {
		records, err := s.progress.Recent(user, 20)
		if err == nil {
			resp.ContinueWatching = records
		}
		// A progress read failure degrades to no rail; never an error page.
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) detail(w http.ResponseWriter, r *http.Request) {
	var req detailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body")
		return
	}
	d, err := s.source.FetchDetail(r.Context(), req.Item)
	if err != nil {
		// Detail is optional; hand back what the item itself carries.
		d = &catalog.Detail{Synopsis: req.Item.Synopsis, Genre: req.Item.Category}
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) listEpisodes(w http.ResponseWriter, r *http.Request) {
	var req episodesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body")
		return
	}
	eps, err := s.source.ListEpisodes(r.Context(), req.Item)
	if err != nil {
		eps = nil
	}
	if eps == nil {
		eps = []catalog.Episode{}
	}
	writeJSON(w, http.StatusOK, episodesResponse{Episodes: eps})
}

func (s *Server) recentProgress(w http.ResponseWriter, r *http.Request) {
	records, err := s.progress.Recent(r.PathValue("user"), queryInt(r, "limit", 20))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	if records == nil {
		records = []*progress.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	rec, err := s.progress.Get(r.PathValue("user"), r.PathValue("content"))
	if errors.Is(err, progress.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no progress recorded")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) upsertProgress(w http.ResponseWriter, r *http.Request) {
	var req upsertProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body")
		return
	}
	if req.UserID == "" || req.ContentID == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "user_id and content_id required")
		return
	}
	if err := s.progress.Upsert(&req.Record); err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, req.Record)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body")
		return
	}
	if req.UserID == "" || req.Item.ID == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "user_id and item.id required")
		return
	}
	snap, err := s.sessions.Start(r.Context(), req.UserID, req.Item)
	if err != nil {
		writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "content unavailable")
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Session: snap})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "session not found")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: snap})
}

func (s *Server) reportPosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body")
		return
	}
	if err := s.sessions.ReportPosition(r.PathValue("id"), req.PositionSeconds, req.DurationSeconds); err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) selectEpisode(w http.ResponseWriter, r *http.Request) {
	var req selectEpisodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body")
		return
	}
	snap, err := s.sessions.SelectEpisode(r.PathValue("id"), req.EpisodeID)
	if errors.Is(err, session.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "episode not found")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: snap})
}

func (s *Server) pauseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Pause(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) hiddenSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Hidden(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) failSession(w http.ResponseWriter, r *http.Request) {
	var req failRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if err := s.sessions.Fail(r.PathValue("id"), req.Reason); err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) stopSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Stop(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Version:  s.cfg.Version,
		Source:   s.cfg.SourceName,
		Sessions: s.sessions.Count(),
	})
}
