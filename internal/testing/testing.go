// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/ytmb/internal/models"
	"github.com/desertthunder/ytmb/internal/services"
)

// MockMusicService is a configurable test double for [services.MusicService].
type MockMusicService struct {
	HistoryTracks  []models.Track
	HistoryErr     error
	Playlists      []models.Playlist
	PlaylistsErr   error
	SearchTracks   []models.Track
	SearchErr      error
	ValidateResult *services.ValidationResult
}

func (m *MockMusicService) Validate(ctx context.Context) *services.ValidationResult {
	if m.ValidateResult != nil {
		return m.ValidateResult
	}
	return &services.ValidationResult{OK: false}
}

func (m *MockMusicService) History(ctx context.Context, limit int) ([]models.Track, error) {
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	if limit > 0 && len(m.HistoryTracks) > limit {
		return m.HistoryTracks[:limit], nil
	}
	return m.HistoryTracks, nil
}

func (m *MockMusicService) LibraryPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return m.Playlists, m.PlaylistsErr
}

func (m *MockMusicService) Search(ctx context.Context, query string) ([]models.Track, error) {
	return m.SearchTracks, m.SearchErr
}

func (m *MockMusicService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
