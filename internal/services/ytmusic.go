package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmb/internal/models"
	"github.com/desertthunder/ytmb/internal/session"
	"github.com/desertthunder/ytmb/internal/shared"
	"github.com/desertthunder/ytmb/internal/tasks"
	"github.com/desertthunder/ytmb/internal/ytmusic"
)

const (
	defaultSearchLimit = 20
	validateSampleSize = 5

	msgNotConnected = "Not connected yet. Open music.youtube.com with the extension enabled and play a track."
	msgNoHistory    = "Connected, but no history returned yet. Try playing a track and retry."
	msgValidated    = "Connection validated"
)

// Client is the subset of the upstream client the adapter depends on.
// Satisfied by [ytmusic.Client]; narrowed for testability.
type Client interface {
	History(ctx context.Context) ([]models.Track, error)
	Search(ctx context.Context, query string, limit int) ([]models.Track, error)
	LibraryPlaylists(ctx context.Context) ([]models.Playlist, error)
}

// YTMusicService implements [MusicService] on top of the InnerTube client.
//
// Each call resolves the session handle through the cache, constructs a
// client from it, and runs the blocking upstream call on the dispatch pool.
type YTMusicService struct {
	cache     *session.Cache
	pool      *tasks.Pool
	logger    *log.Logger
	newClient func(handle string) Client
}

// NewYTMusicService creates the adapter.
//
// baseURL overrides the upstream endpoint root (tests point it at a local
// server); empty means production.
func NewYTMusicService(cache *session.Cache, pool *tasks.Pool, baseURL string, httpClient *http.Client, logger *log.Logger) *YTMusicService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &YTMusicService{
		cache:  cache,
		pool:   pool,
		logger: logger,
		newClient: func(handle string) Client {
			return ytmusic.New(handle, baseURL, httpClient)
		},
	}
}

// Name returns the upstream service name.
func (y *YTMusicService) Name() string {
	return "YouTube Music"
}

// client resolves the cached session into a constructed upstream client.
func (y *YTMusicService) client() (Client, error) {
	handle, ok := y.cache.Handle()
	if !ok {
		return nil, shared.ErrNotConnected
	}
	return y.newClient(handle), nil
}

// History returns up to limit normalized history rows.
func (y *YTMusicService) History(ctx context.Context, limit int) ([]models.Track, error) {
	client, err := y.client()
	if err != nil {
		return nil, err
	}

	tracks, err := tasks.Run(ctx, y.pool, func() ([]models.Track, error) {
		return client.History(ctx)
	})
	if err != nil {
		y.logger.Warn("history fetch failed", "err", err)
		return nil, fmt.Errorf("%w: get_history: %v", shared.ErrUpstream, err)
	}

	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

// LibraryPlaylists returns the account's library playlists.
func (y *YTMusicService) LibraryPlaylists(ctx context.Context) ([]models.Playlist, error) {
	client, err := y.client()
	if err != nil {
		return nil, err
	}

	playlists, err := tasks.Run(ctx, y.pool, func() ([]models.Playlist, error) {
		return client.LibraryPlaylists(ctx)
	})
	if err != nil {
		y.logger.Warn("library fetch failed", "err", err)
		return nil, fmt.Errorf("%w: get_library_playlists: %v", shared.ErrUpstream, err)
	}

	return playlists, nil
}

// Search returns songs-filtered results for query.
func (y *YTMusicService) Search(ctx context.Context, query string) ([]models.Track, error) {
	client, err := y.client()
	if err != nil {
		return nil, err
	}

	tracks, err := tasks.Run(ctx, y.pool, func() ([]models.Track, error) {
		return client.Search(ctx, query, defaultSearchLimit)
	})
	if err != nil {
		y.logger.Warn("search failed", "query", query, "err", err)
		return nil, fmt.Errorf("%w: search: %v", shared.ErrUpstream, err)
	}

	return tracks, nil
}

// Validate checks connectivity and shapes a small history sample.
//
// Advisory by contract: both an upstream failure and an empty history
// collapse to ok=false with a retry message, so the operator-facing check
// never hard-fails once a session exists.
func (y *YTMusicService) Validate(ctx context.Context) *ValidationResult {
	client, err := y.client()
	if err != nil {
		return &ValidationResult{OK: false, Message: msgNotConnected}
	}

	tracks, err := tasks.Run(ctx, y.pool, func() ([]models.Track, error) {
		return client.History(ctx)
	})
	if err != nil {
		y.logger.Warn("validation fetch failed", "err", err)
		return &ValidationResult{OK: false, Message: msgNoHistory}
	}
	if len(tracks) == 0 {
		return &ValidationResult{OK: false, Message: msgNoHistory}
	}

	sample := tracks
	if len(sample) > validateSampleSize {
		sample = sample[:validateSampleSize]
	}

	formatted := make([]models.SampleTrack, len(sample))
	for i, track := range sample {
		title := track.Title
		if title == "" {
			title = "Unknown"
		}
		formatted[i] = models.SampleTrack{
			Number:  i + 1,
			Title:   title,
			Artists: track.Artists,
			Played:  track.Played,
		}
	}

	return &ValidationResult{OK: true, Message: msgValidated, Sample: formatted}
}
