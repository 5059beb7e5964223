package services

import (
	"context"

	"github.com/desertthunder/ytmb/internal/models"
)

// MusicService exposes the read-only account queries the proxy forwards.
//
// Every operation distinguishes three outcomes: no derivable session
// ([shared.ErrNotConnected]), an upstream failure ([shared.ErrUpstream]
// wrapped), and success, including success with zero rows, which is a nil
// error and an empty slice, never a sentinel.
type MusicService interface {
	// Validate checks connectivity by fetching history and returns an
	// advisory result safe to render to an operator.
	Validate(ctx context.Context) *ValidationResult

	// History returns up to limit normalized history rows, most recent first.
	History(ctx context.Context, limit int) ([]models.Track, error)

	// LibraryPlaylists returns the account's library playlists.
	LibraryPlaylists(ctx context.Context) ([]models.Playlist, error)

	// Search returns songs-filtered search results for query.
	Search(ctx context.Context, query string) ([]models.Track, error)

	// Name returns the upstream service name.
	Name() string
}

// ValidationResult is the advisory outcome of a connectivity check.
type ValidationResult struct {
	OK      bool                 `json:"ok"`
	Message string               `json:"message,omitempty"`
	Sample  []models.SampleTrack `json:"sample,omitempty"`
}
