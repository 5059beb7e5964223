package models

// Track is the normalized shape for a YouTube Music track row.
//
// Upstream responses are heterogeneous; absent fields are filled with empty
// values rather than omitted so clients get a stable schema.
type Track struct {
	VideoID   string   `json:"videoId"`
	Title     string   `json:"title"`
	Artists   []string `json:"artists"`
	Album     string   `json:"album"`
	Thumbnail string   `json:"thumbnail"`
	Played    string   `json:"played"`
}

// Playlist is the normalized shape for a library playlist row.
type Playlist struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	TrackCount int    `json:"trackCount"`
	Thumbnail  string `json:"thumbnail"`
}

// SampleTrack is a compact track row used in validation responses.
type SampleTrack struct {
	Number  int      `json:"number"`
	Title   string   `json:"title"`
	Artists []string `json:"artists"`
	Played  string   `json:"played"`
}
