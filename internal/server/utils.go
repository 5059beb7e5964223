package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmb/internal/shared"
)

// UtilsHandler serves the unauthenticated utility routes: join codes, UUIDs,
// slugs, and health checks.
type UtilsHandler struct {
	config *shared.Config
	logger *log.Logger
}

// NewUtilsHandler creates a UtilsHandler.
func NewUtilsHandler(config *shared.Config, logger *log.Logger) *UtilsHandler {
	if config == nil {
		config = shared.DefaultConfig()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &UtilsHandler{config: config, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *UtilsHandler) Routes() []string {
	return []string{
		"/api/v1/codes/one",
		"/api/v1/utils/uuid",
		"/api/v1/utils/slug",
		"/healthz",
		"/health",
	}
}

// ServeHTTP dispatches by path and method.
func (h *UtilsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/codes/one":
		h.requireMethod(w, r, http.MethodGet, h.getCode)
	case "/api/v1/utils/uuid":
		h.requireMethod(w, r, http.MethodGet, h.getUUID)
	case "/api/v1/utils/slug":
		h.requireMethod(w, r, http.MethodPost, h.postSlug)
	case "/healthz", "/health":
		h.requireMethod(w, r, http.MethodGet, h.getHealth)
	default:
		http.NotFound(w, r)
	}
}

func (h *UtilsHandler) requireMethod(w http.ResponseWriter, r *http.Request, method string, next http.HandlerFunc) {
	if r.Method != method {
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	next(w, r)
}

func (h *UtilsHandler) getCode(w http.ResponseWriter, r *http.Request) {
	alphabet := h.config.Codes.Alphabet
	if alphabet == "" {
		alphabet = shared.DefaultAlphabet
	}

	code, err := shared.GenerateCode(h.config.Codes.Length, alphabet)
	if err != nil {
		h.logger.Error("code generation failed", "err", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to generate code")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"code": code})
}

func (h *UtilsHandler) getUUID(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"uuid": shared.GenerateID()})
}

func (h *UtilsHandler) postSlug(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text *string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if payload.Text == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Field required: text")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"slug": shared.Slugify(*payload.Text)})
}

func (h *UtilsHandler) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
