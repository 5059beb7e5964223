// package formatter renders track rows to CSV, Markdown, and plain text for
// CLI output
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/desertthunder/ytmb/internal/models"
)

// TracksToCSV converts tracks to CSV with columns: VideoID, Title, Artists, Album, Played
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"VideoID", "Title", "Artists", "Album", "Played"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.VideoID,
			track.Title,
			strings.Join(track.Artists, "; "),
			track.Album,
			track.Played,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TracksToMarkdown converts tracks to a Markdown table.
func TracksToMarkdown(title string, tracks []models.Track) []byte {
	var buf bytes.Buffer

	if title != "" {
		fmt.Fprintf(&buf, "# %s\n\n", title)
	}

	buf.WriteString("| # | Title | Artists | Album | Played |\n")
	buf.WriteString("|---|-------|---------|-------|--------|\n")

	for i, track := range tracks {
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s |\n",
			i+1,
			escapePipes(track.Title),
			escapePipes(strings.Join(track.Artists, ", ")),
			escapePipes(track.Album),
			escapePipes(track.Played),
		)
	}

	return buf.Bytes()
}

// TracksToPlain converts tracks to aligned plain-text lines.
func TracksToPlain(tracks []models.Track) []byte {
	var buf bytes.Buffer

	for i, track := range tracks {
		line := fmt.Sprintf("%3d. %s", i+1, track.Title)
		if len(track.Artists) > 0 {
			line += " - " + strings.Join(track.Artists, ", ")
		}
		if track.Played != "" {
			line += fmt.Sprintf(" (%s)", track.Played)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes()
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
