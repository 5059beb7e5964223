package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/ytmb/internal/shared"
	"github.com/google/uuid"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	return body
}

func TestUtilsHandler(t *testing.T) {
	handler := NewUtilsHandler(shared.DefaultConfig(), nil)

	t.Run("codes", func(t *testing.T) {
		t.Run("returns a code of configured length and alphabet", func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/codes/one", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}

			code := decodeBody(t, rec)["code"]
			if len([]rune(code)) != 4 {
				t.Errorf("expected 4-char code, got %q", code)
			}
			for _, r := range code {
				if !strings.ContainsRune(shared.DefaultAlphabet, r) {
					t.Errorf("code char %q not in alphabet", r)
				}
			}
		})

		t.Run("rejects POST", func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/codes/one", nil))

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("expected 405, got %d", rec.Code)
			}
		})
	})

	t.Run("uuid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/utils/uuid", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if _, err := uuid.Parse(decodeBody(t, rec)["uuid"]); err != nil {
			t.Errorf("expected valid uuid: %v", err)
		}
	})

	t.Run("slug", func(t *testing.T) {
		post := func(body string) *httptest.ResponseRecorder {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/utils/slug", strings.NewReader(body))
			handler.ServeHTTP(rec, req)
			return rec
		}

		t.Run("slugifies text", func(t *testing.T) {
			rec := post(`{"text": "Hello, World!"}`)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if slug := decodeBody(t, rec)["slug"]; slug != "hello-world" {
				t.Errorf("expected hello-world, got %q", slug)
			}
		})

		t.Run("empty text yields placeholder", func(t *testing.T) {
			rec := post(`{"text": ""}`)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if slug := decodeBody(t, rec)["slug"]; slug != "n-a" {
				t.Errorf("expected n-a, got %q", slug)
			}
		})

		t.Run("missing text field is 422", func(t *testing.T) {
			if rec := post(`{}`); rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("expected 422, got %d", rec.Code)
			}
		})

		t.Run("malformed body is 422", func(t *testing.T) {
			if rec := post(`{not json`); rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("expected 422, got %d", rec.Code)
			}
		})
	})

	t.Run("health", func(t *testing.T) {
		for _, path := range []string{"/healthz", "/health"} {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			if rec.Code != http.StatusOK {
				t.Errorf("%s: expected 200, got %d", path, rec.Code)
			}
			if status := decodeBody(t, rec)["status"]; status != "ok" {
				t.Errorf("%s: expected status ok, got %q", path, status)
			}
		}
	})

	t.Run("unknown path is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}
