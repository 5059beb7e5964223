package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmb/internal/models"
	"github.com/desertthunder/ytmb/internal/services"
	"github.com/desertthunder/ytmb/internal/session"
	"github.com/desertthunder/ytmb/internal/shared"
	"github.com/desertthunder/ytmb/internal/store"
)

const (
	tokenHeader = "X-Client-Token"

	detailInvalidToken = "Invalid token"
	detailNoHeaders    = "No headers found. Visit music.youtube.com with the extension loaded and play a track."

	historyDefaultLimit = 50
	historyMaxLimit     = 200
)

// YTMHandler serves the music-proxy routes. Every route checks the shared
// secret before touching the store, cache, or upstream.
type YTMHandler struct {
	config *shared.Config
	store  *store.CredentialStore
	cache  *session.Cache
	music  services.MusicService
	logger *log.Logger
}

// NewYTMHandler creates a YTMHandler.
func NewYTMHandler(config *shared.Config, s *store.CredentialStore, cache *session.Cache, music services.MusicService, logger *log.Logger) *YTMHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &YTMHandler{
		config: config,
		store:  s,
		cache:  cache,
		music:  music,
		logger: logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *YTMHandler) Routes() []string {
	return []string{
		"/ytm/ingest",
		"/ytm/validate",
		"/ytm/history",
		"/ytm/library",
		"/ytm/search",
		"/ytm/connect",
	}
}

// ServeHTTP authorizes the request, then dispatches by path and method.
func (h *YTMHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(tokenHeader) != h.config.Server.ClientToken {
		writeDetail(w, http.StatusUnauthorized, detailInvalidToken)
		return
	}

	switch {
	case r.URL.Path == "/ytm/ingest" && r.Method == http.MethodPost:
		h.ingest(w, r)
	case r.URL.Path == "/ytm/validate" && r.Method == http.MethodGet:
		h.validate(w, r)
	case r.URL.Path == "/ytm/history" && r.Method == http.MethodGet:
		h.history(w, r)
	case r.URL.Path == "/ytm/library" && r.Method == http.MethodGet:
		h.library(w, r)
	case r.URL.Path == "/ytm/search" && r.Method == http.MethodGet:
		h.search(w, r)
	case r.URL.Path == "/ytm/connect" && r.Method == http.MethodDelete:
		h.disconnect(w, r)
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// ingest persists new browser headers and invalidates the cached session so
// subsequent calls re-derive it from the fresh document.
func (h *YTMHandler) ingest(w http.ResponseWriter, r *http.Request) {
	var doc store.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	if err := h.store.Save(&doc); err != nil {
		h.logger.Error("failed to save headers", "err", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to save headers")
		return
	}

	h.cache.Invalidate()
	h.logger.Info("ingested browser headers", "url", doc.URL, "count", len(doc.Headers))

	writeJSON(w, http.StatusOK, "OK")
}

func (h *YTMHandler) validate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.music.Validate(r.Context()))
}

func (h *YTMHandler) history(w http.ResponseWriter, r *http.Request) {
	limit := historyDefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > historyMaxLimit {
			writeDetail(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("limit must be an integer between 1 and %d", historyMaxLimit))
			return
		}
		limit = n
	}

	tracks, err := h.music.History(r.Context(), limit)
	if err != nil {
		h.respondQueryError(w, err, "Failed to get history from YouTube Music API")
		return
	}

	if tracks == nil {
		tracks = []models.Track{}
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (h *YTMHandler) library(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.music.LibraryPlaylists(r.Context())
	if err != nil {
		h.respondQueryError(w, err, "Failed to get library from YouTube Music API")
		return
	}

	if playlists == nil {
		playlists = []models.Playlist{}
	}
	writeJSON(w, http.StatusOK, playlists)
}

func (h *YTMHandler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Field required: query")
		return
	}

	tracks, err := h.music.Search(r.Context(), query)
	if err != nil {
		h.respondQueryError(w, err, "Search failed")
		return
	}

	if tracks == nil {
		tracks = []models.Track{}
	}
	writeJSON(w, http.StatusOK, tracks)
}

// disconnect deletes the persisted document and invalidates the cache,
// keeping the handle tied to what is actually on disk.
func (h *YTMHandler) disconnect(w http.ResponseWriter, r *http.Request) {
	removed, err := h.store.Clear()
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("Failed to delete files: %v", err))
		return
	}

	h.cache.Invalidate()

	message := "No headers to delete"
	if removed {
		message = "Deleted headers"
	}
	writeJSON(w, http.StatusOK, services.ValidationResult{OK: true, Message: message})
}

// respondQueryError maps the adapter's outcome taxonomy onto status codes:
// no session is 404, anything else is an upstream 500.
func (h *YTMHandler) respondQueryError(w http.ResponseWriter, err error, upstreamDetail string) {
	if errors.Is(err, shared.ErrNotConnected) {
		writeDetail(w, http.StatusNotFound, detailNoHeaders)
		return
	}

	h.logger.Error("upstream query failed", "err", err)
	writeDetail(w, http.StatusInternalServerError, upstreamDetail)
}
