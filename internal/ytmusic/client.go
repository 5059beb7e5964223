// Package ytmusic is a thin client for the YouTube Music InnerTube endpoints.
//
// It is not a full API client: it issues the three read-only queries the
// proxy forwards (history, library playlists, search) using the raw browser
// headers captured by the extension, and parses responses leniently. Any
// field the response does not carry degrades to an empty value.
package ytmusic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/ytmb/internal/models"
	"github.com/desertthunder/ytmb/internal/shared"
)

// DefaultBaseURL is the production InnerTube endpoint root.
const DefaultBaseURL = "https://music.youtube.com/youtubei/v1"

const (
	defaultClientName    = "WEB_REMIX"
	defaultClientVersion = "1.20240101.01.00"

	historyBrowseID  = "FEmusic_history"
	libraryBrowseID  = "FEmusic_liked_playlists"
	searchSongsParam = "EgWKAQIIAWoMEA4QChADEAQQCRAF"
)

// Client issues InnerTube requests authenticated with browser-captured headers.
type Client struct {
	baseURL    string
	headers    http.Header
	httpClient *http.Client
}

// New creates a Client from a session handle (newline-separated "key: value"
// header lines).
//
// baseURL and httpClient default to [DefaultBaseURL] and [http.DefaultClient].
func New(handle, baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	headers := http.Header{}
	for _, line := range strings.Split(handle, "\n") {
		if key, val, ok := strings.Cut(line, ":"); ok {
			headers.Set(strings.TrimSpace(key), strings.TrimSpace(val))
		}
	}

	return &Client{
		baseURL:    baseURL,
		headers:    headers,
		httpClient: httpClient,
	}
}

func (c *Client) clientVersion() string {
	if v := c.headers.Get("x-youtube-client-version"); v != "" {
		return v
	}
	return defaultClientVersion
}

func (c *Client) doRequest(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error) {
	body["context"] = map[string]any{
		"client": map[string]any{
			"clientName":    defaultClientName,
			"clientVersion": c.clientVersion(),
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s?prettyPrint=false", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, vals := range c.headers {
		for _, v := range vals {
			req.Header.Set(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d from %s", shared.ErrUpstream, resp.StatusCode, endpoint)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s response: %v", shared.ErrUpstream, endpoint, err)
	}

	return result, nil
}

// History fetches the listening history feed.
//
// History shelves are grouped by period ("Today", "Yesterday", …); the shelf
// title becomes each track's Played field.
func (c *Client) History(ctx context.Context) ([]models.Track, error) {
	result, err := c.doRequest(ctx, "browse", map[string]any{"browseId": historyBrowseID})
	if err != nil {
		return nil, err
	}

	return shelfTracks(result, true), nil
}

// Search runs a songs-filtered search for query and returns up to limit rows.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.Track, error) {
	result, err := c.doRequest(ctx, "search", map[string]any{
		"query":  query,
		"params": searchSongsParam,
	})
	if err != nil {
		return nil, err
	}

	tracks := shelfTracks(result, false)
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

// LibraryPlaylists fetches the playlists saved to the account's library.
func (c *Client) LibraryPlaylists(ctx context.Context) ([]models.Playlist, error) {
	result, err := c.doRequest(ctx, "browse", map[string]any{"browseId": libraryBrowseID})
	if err != nil {
		return nil, err
	}

	var playlists []models.Playlist
	for _, item := range collect(result, "musicTwoRowItemRenderer") {
		id, _ := nav(item, "navigationEndpoint", "browseEndpoint", "browseId").(string)
		id = strings.TrimPrefix(id, "VL")
		if id == "" {
			// The grid's leading "New playlist" tile has no browse target.
			continue
		}

		playlists = append(playlists, models.Playlist{
			ID:         id,
			Title:      runsText(item["title"]),
			TrackCount: subtitleCount(item["subtitle"]),
			Thumbnail:  thumbnailURL(nav(item, "thumbnailRenderer")),
		})
	}

	return playlists, nil
}

// shelfTracks extracts normalized tracks from every music shelf in a browse or
// search response. When withPlayed is set, the shelf title is carried onto its
// tracks.
func shelfTracks(result map[string]any, withPlayed bool) []models.Track {
	var tracks []models.Track
	for _, shelf := range collect(result, "musicShelfRenderer") {
		played := ""
		if withPlayed {
			played = runsText(shelf["title"])
		}

		for _, item := range collect(shelf["contents"], "musicResponsiveListItemRenderer") {
			track := parseListItem(item)
			track.Played = played
			tracks = append(tracks, track)
		}
	}
	return tracks
}

// parseListItem flattens a musicResponsiveListItemRenderer into a Track.
func parseListItem(item map[string]any) models.Track {
	track := models.Track{
		Artists:   []string{},
		Thumbnail: thumbnailURL(item["thumbnail"]),
	}

	if id, ok := nav(item, "playlistItemData", "videoId").(string); ok {
		track.VideoID = id
	}

	columns, _ := item["flexColumns"].([]any)
	for i, col := range columns {
		renderer, ok := nav(col, "musicResponsiveListItemFlexColumnRenderer").(map[string]any)
		if !ok {
			continue
		}

		runs, _ := nav(renderer, "text", "runs").([]any)
		if i == 0 {
			if len(runs) > 0 {
				run, _ := runs[0].(map[string]any)
				track.Title, _ = run["text"].(string)
				if track.VideoID == "" {
					if id, ok := nav(run, "navigationEndpoint", "watchEndpoint", "videoId").(string); ok {
						track.VideoID = id
					}
				}
			}
			continue
		}

		for _, r := range runs {
			run, _ := r.(map[string]any)
			text, _ := run["text"].(string)
			if text == "" || isSeparator(text) {
				continue
			}

			browseID, _ := nav(run, "navigationEndpoint", "browseEndpoint", "browseId").(string)
			switch {
			case strings.HasPrefix(browseID, "MPRE"):
				track.Album = text
			case strings.HasPrefix(browseID, "UC"):
				track.Artists = append(track.Artists, text)
			case browseID == "" && i == 1 && !looksLikeDuration(text):
				track.Artists = append(track.Artists, text)
			}
		}
	}

	if track.Title == "" {
		track.Title = "Unknown"
	}
	return track
}

func isSeparator(text string) bool {
	switch strings.TrimSpace(text) {
	case "•", "&", ",", "":
		return true
	}
	return false
}

func looksLikeDuration(text string) bool {
	if !strings.Contains(text, ":") {
		return false
	}
	for _, part := range strings.Split(text, ":") {
		if _, err := strconv.Atoi(part); err != nil {
			return false
		}
	}
	return true
}

// subtitleCount pulls a leading integer out of a subtitle run like "34 songs".
func subtitleCount(subtitle any) int {
	runs, _ := nav(subtitle, "runs").([]any)
	for _, r := range runs {
		run, _ := r.(map[string]any)
		text, _ := run["text"].(string)
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if n, err := strconv.Atoi(strings.ReplaceAll(fields[0], ",", "")); err == nil {
			return n
		}
	}
	return 0
}

// thumbnailURL digs the first thumbnail URL out of any renderer that carries a
// musicThumbnailRenderer.
func thumbnailURL(node any) string {
	for _, m := range collectSlices(node, "thumbnails") {
		if len(m) == 0 {
			continue
		}
		first, _ := m[0].(map[string]any)
		if url, ok := first["url"].(string); ok {
			return url
		}
	}
	return ""
}

// nav walks a nested structure of maps by key, returning nil when any step is
// missing or the wrong shape.
func nav(node any, path ...string) any {
	current := node
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}

// runsText returns the concatenated text of a runs-style text node.
func runsText(node any) string {
	runs, _ := nav(node, "runs").([]any)
	var sb strings.Builder
	for _, r := range runs {
		if run, ok := r.(map[string]any); ok {
			if text, ok := run["text"].(string); ok {
				sb.WriteString(text)
			}
		}
	}
	return sb.String()
}

// collect recursively gathers every map stored under the given key anywhere in
// the structure. InnerTube responses nest renderers unpredictably; collecting
// by renderer name is far more stable than hardcoding paths.
func collect(node any, key string) []map[string]any {
	var out []map[string]any
	walk(node, func(k string, v any) {
		if k == key {
			if m, ok := v.(map[string]any); ok {
				out = append(out, m)
			}
		}
	})
	return out
}

// collectSlices gathers every slice stored under the given key.
func collectSlices(node any, key string) [][]any {
	var out [][]any
	walk(node, func(k string, v any) {
		if k == key {
			if s, ok := v.([]any); ok {
				out = append(out, s)
			}
		}
	})
	return out
}

func walk(node any, visit func(key string, value any)) {
	switch n := node.(type) {
	case map[string]any:
		for k, v := range n {
			visit(k, v)
			walk(v, visit)
		}
	case []any:
		for _, v := range n {
			walk(v, visit)
		}
	}
}
