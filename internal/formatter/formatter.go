// package formatter renders tracks and playlists for the CLI (plain text,
// CSV, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/iuliopime/bmat/internal/models"
)

// TracksToCSV converts a track list to CSV with columns: ID, Title, URL,
// AddedBy, Team, Role, CreatedAt
func TracksToCSV(tracks []*models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "URL", "AddedBy", "Team", "Role", "CreatedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Title,
			track.URL,
			track.AddedBy,
			orEmpty(track.Team),
			orEmpty(track.Role),
			track.CreatedAt.Format(time.RFC3339),
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

// TracksToText converts a track list to plain text, one numbered line per
// track with the submitter and cohort appended.
func TracksToText(cohort models.Cohort, tracks []*models.Track) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tracks %s\n", cohort))
	buf.WriteString(fmt.Sprintf("Count: %d\n\n", len(tracks)))

	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, track.Title))
		buf.WriteString(fmt.Sprintf("   %s (added by %s)\n", track.URL, track.AddedBy))
	}

	return buf.Bytes()
}

// PlaylistToText renders a playlist and its deep links, one line per
// platform. Platforms without a playlist are listed as unavailable.
func PlaylistToText(playlist *models.Playlist, links models.PlaylistLinks) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", playlist.Name))
	buf.WriteString(fmt.Sprintf("Cohort: %s\n\n", playlist.Cohort()))

	writeLink(&buf, "Spotify", links.Spotify)
	writeLink(&buf, "Apple Music", links.Apple)
	writeLink(&buf, "SoundCloud", links.SoundCloud)

	return buf.Bytes()
}

func writeLink(buf *bytes.Buffer, label string, link *string) {
	if link == nil {
		buf.WriteString(fmt.Sprintf("%s: unavailable\n", label))
		return
	}
	buf.WriteString(fmt.Sprintf("%s: %s\n", label, *link))
}

// ToJSON generates an indented JSON representation for CLI output.
func ToJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return data, nil
}

// WriteCSVExport writes a track list as CSV to the given path.
//
// Defaults to the cohort's playlist name as the base filename and creates
// {base}_tracks.csv.
func WriteCSVExport(cohort models.Cohort, tracks []*models.Track, filepath string) (string, error) {
	if filepath == "" {
		filepath = cohort.PlaylistName() + "_tracks.csv"
	}

	csvData, err := TracksToCSV(tracks)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(filepath, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return filepath, nil
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
