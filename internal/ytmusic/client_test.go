package ytmusic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/ytmb/internal/shared"
)

const testHandle = "authorization: SAPISIDHASH abc\nx-youtube-client-version: 1.20250101.00.00\ncookie: VISITOR=1"

func listItem(videoID, title, artist, album, thumb string) string {
	return fmt.Sprintf(`{
		"musicResponsiveListItemRenderer": {
			"playlistItemData": {"videoId": %q},
			"thumbnail": {"musicThumbnailRenderer": {"thumbnail": {"thumbnails": [{"url": %q}]}}},
			"flexColumns": [
				{"musicResponsiveListItemFlexColumnRenderer": {"text": {"runs": [{"text": %q}]}}},
				{"musicResponsiveListItemFlexColumnRenderer": {"text": {"runs": [
					{"text": %q, "navigationEndpoint": {"browseEndpoint": {"browseId": "UC123"}}},
					{"text": " • "},
					{"text": %q, "navigationEndpoint": {"browseEndpoint": {"browseId": "MPRE456"}}}
				]}}}
			]
		}
	}`, videoID, thumb, title, artist, album)
}

func historyResponse() string {
	return fmt.Sprintf(`{
		"contents": {"singleColumnBrowseResultsRenderer": {"tabs": [{"tabRenderer": {"content": {
			"sectionListRenderer": {"contents": [
				{"musicShelfRenderer": {
					"title": {"runs": [{"text": "Today"}]},
					"contents": [%s, %s]
				}},
				{"musicShelfRenderer": {
					"title": {"runs": [{"text": "Yesterday"}]},
					"contents": [%s]
				}}
			]}
		}}}]}}
	}`,
		listItem("vid1", "First Song", "Artist One", "Album One", "https://img/1.jpg"),
		listItem("vid2", "Second Song", "Artist Two", "Album Two", "https://img/2.jpg"),
		listItem("vid3", "Third Song", "Artist Three", "Album Three", "https://img/3.jpg"),
	)
}

func TestClient(t *testing.T) {
	t.Run("New parses handle into headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "SAPISIDHASH abc" {
				t.Errorf("expected authorization header forwarded, got %q", got)
			}
			if got := r.Header.Get("Cookie"); got != "VISITOR=1" {
				t.Errorf("expected cookie forwarded, got %q", got)
			}
			w.Write([]byte("{}"))
		}))
		defer server.Close()

		client := New(testHandle, server.URL, nil)
		if _, err := client.History(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("History", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/browse" {
				t.Errorf("expected /browse, got %s", r.URL.Path)
			}
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			w.Write([]byte(historyResponse()))
		}))
		defer server.Close()

		client := New(testHandle, server.URL, nil)
		tracks, err := client.History(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(tracks) != 3 {
			t.Fatalf("expected 3 tracks, got %d", len(tracks))
		}

		first := tracks[0]
		if first.VideoID != "vid1" {
			t.Errorf("expected videoId vid1, got %s", first.VideoID)
		}
		if first.Title != "First Song" {
			t.Errorf("expected title First Song, got %s", first.Title)
		}
		if len(first.Artists) != 1 || first.Artists[0] != "Artist One" {
			t.Errorf("expected artists [Artist One], got %v", first.Artists)
		}
		if first.Album != "Album One" {
			t.Errorf("expected album Album One, got %s", first.Album)
		}
		if first.Thumbnail != "https://img/1.jpg" {
			t.Errorf("expected thumbnail url, got %s", first.Thumbnail)
		}
		if first.Played != "Today" {
			t.Errorf("expected played Today, got %s", first.Played)
		}

		if tracks[2].Played != "Yesterday" {
			t.Errorf("expected shelf title carried to third track, got %s", tracks[2].Played)
		}
	})

	t.Run("History empty response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"contents": {}}`))
		}))
		defer server.Close()

		client := New(testHandle, server.URL, nil)
		tracks, err := client.History(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 0 {
			t.Errorf("expected no tracks, got %d", len(tracks))
		}
	})

	t.Run("Search", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search" {
				t.Errorf("expected /search, got %s", r.URL.Path)
			}
			fmt.Fprintf(w, `{"contents": {"sectionListRenderer": {"contents": [
				{"musicShelfRenderer": {"title": {"runs": [{"text": "Songs"}]}, "contents": [%s, %s]}}
			]}}}`,
				listItem("s1", "Match One", "Artist", "Album", ""),
				listItem("s2", "Match Two", "Artist", "Album", ""))
		}))
		defer server.Close()

		client := New(testHandle, server.URL, nil)

		t.Run("returns results without played field", func(t *testing.T) {
			tracks, err := client.Search(context.Background(), "match", 20)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(tracks) != 2 {
				t.Fatalf("expected 2 tracks, got %d", len(tracks))
			}
			if tracks[0].Played != "" {
				t.Errorf("expected empty played for search rows, got %q", tracks[0].Played)
			}
		})

		t.Run("applies limit", func(t *testing.T) {
			tracks, err := client.Search(context.Background(), "match", 1)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(tracks) != 1 {
				t.Errorf("expected 1 track, got %d", len(tracks))
			}
		})
	})

	t.Run("LibraryPlaylists", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"contents": {"gridRenderer": {"items": [
				{"musicTwoRowItemRenderer": {
					"title": {"runs": [{"text": "New playlist"}]}
				}},
				{"musicTwoRowItemRenderer": {
					"title": {"runs": [{"text": "Road Trip"}]},
					"subtitle": {"runs": [{"text": "Playlist"}, {"text": " • "}, {"text": "34 songs"}]},
					"navigationEndpoint": {"browseEndpoint": {"browseId": "VLPL999"}},
					"thumbnailRenderer": {"musicThumbnailRenderer": {"thumbnail": {"thumbnails": [{"url": "https://img/pl.jpg"}]}}}
				}}
			]}}}`))
		}))
		defer server.Close()

		client := New(testHandle, server.URL, nil)
		playlists, err := client.LibraryPlaylists(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(playlists) != 1 {
			t.Fatalf("expected 1 playlist (New playlist tile skipped), got %d", len(playlists))
		}

		pl := playlists[0]
		if pl.ID != "PL999" {
			t.Errorf("expected VL prefix stripped, got %s", pl.ID)
		}
		if pl.Title != "Road Trip" {
			t.Errorf("expected title Road Trip, got %s", pl.Title)
		}
		if pl.TrackCount != 34 {
			t.Errorf("expected 34 tracks, got %d", pl.TrackCount)
		}
		if pl.Thumbnail != "https://img/pl.jpg" {
			t.Errorf("expected thumbnail, got %s", pl.Thumbnail)
		}
	})

	t.Run("upstream error statuses wrap ErrUpstream", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := New(testHandle, server.URL, nil)
		if _, err := client.History(context.Background()); !errors.Is(err, shared.ErrUpstream) {
			t.Errorf("expected ErrUpstream, got %v", err)
		}
	})

	t.Run("network failure wraps ErrUpstream", func(t *testing.T) {
		client := New(testHandle, "http://127.0.0.1:1", nil)
		if _, err := client.History(context.Background()); !errors.Is(err, shared.ErrUpstream) {
			t.Errorf("expected ErrUpstream, got %v", err)
		}
	})

	t.Run("malformed body wraps ErrUpstream", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := New(testHandle, server.URL, nil)
		if _, err := client.History(context.Background()); !errors.Is(err, shared.ErrUpstream) {
			t.Errorf("expected ErrUpstream, got %v", err)
		}
	})
}

func TestParseHelpers(t *testing.T) {
	t.Run("looksLikeDuration", func(t *testing.T) {
		if !looksLikeDuration("3:45") {
			t.Error("expected 3:45 to look like a duration")
		}
		if looksLikeDuration("feat. someone") {
			t.Error("expected text not to look like a duration")
		}
	})

	t.Run("subtitleCount tolerates thousands separators", func(t *testing.T) {
		subtitle := map[string]any{"runs": []any{map[string]any{"text": "1,204 songs"}}}
		if n := subtitleCount(subtitle); n != 1204 {
			t.Errorf("expected 1204, got %d", n)
		}
	})

	t.Run("runsText concatenates", func(t *testing.T) {
		node := map[string]any{"runs": []any{
			map[string]any{"text": "a"},
			map[string]any{"text": "b"},
		}}
		if got := runsText(node); got != "ab" {
			t.Errorf("expected ab, got %s", got)
		}
	})
}
