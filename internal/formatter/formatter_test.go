package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iuliopime/bmat/internal/models"
)

func sampleTracks() []*models.Track {
	team := "engineering"
	role := "dj"
	return []*models.Track{
		{
			ID:        "track1",
			Title:     "Song One",
			URL:       "https://open.spotify.com/track/abc",
			AddedBy:   "julio",
			Team:      &team,
			Role:      &role,
			CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "track2",
			Title:     "Song Two",
			URL:       "https://soundcloud.com/artist/song-two",
			AddedBy:   "sam",
			CreatedAt: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestRenderers(t *testing.T) {
	t.Run("TracksToCSV", func(t *testing.T) {
		data, err := TracksToCSV(sampleTracks())
		if err != nil {
			t.Fatalf("TracksToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Title,URL,AddedBy,Team,Role,CreatedAt") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Song One") {
			t.Errorf("CSV missing track1 title")
		}
		if !strings.Contains(output, "engineering") {
			t.Errorf("CSV missing track1 team")
		}
		if !strings.Contains(output, "track2,Song Two,https://soundcloud.com/artist/song-two,sam,,,") {
			t.Errorf("CSV should render nil team/role as empty columns, got: %s", output)
		}
	})

	t.Run("TracksToCSV empty list", func(t *testing.T) {
		data, err := TracksToCSV(nil)
		if err != nil {
			t.Fatalf("TracksToCSV failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 1 {
			t.Errorf("Expected headers only, got %d lines", len(lines))
		}
	})

	t.Run("TracksToText", func(t *testing.T) {
		cohort := models.CohortFrom("engineering", "dj")
		output := string(TracksToText(cohort, sampleTracks()))

		if !strings.Contains(output, "Count: 2") {
			t.Errorf("Text missing track count, got: %s", output)
		}
		if !strings.Contains(output, "1. Song One") {
			t.Errorf("Text missing numbered track line")
		}
		if !strings.Contains(output, "added by julio") {
			t.Errorf("Text missing submitter")
		}
	})

	t.Run("PlaylistToText", func(t *testing.T) {
		team := "engineering"
		spotify := "https://open.spotify.com/playlist/abc"
		playlist := &models.Playlist{
			ID:   "pl1",
			Name: "bmat-engineering-all",
			Team: &team,
		}
		links := models.PlaylistLinks{Spotify: &spotify}

		output := string(PlaylistToText(playlist, links))

		if !strings.Contains(output, "Playlist: bmat-engineering-all") {
			t.Errorf("Text missing playlist name, got: %s", output)
		}
		if !strings.Contains(output, "Spotify: https://open.spotify.com/playlist/abc") {
			t.Errorf("Text missing spotify link")
		}
		if !strings.Contains(output, "Apple Music: unavailable") {
			t.Errorf("Missing platforms should be listed as unavailable")
		}
		if !strings.Contains(output, "SoundCloud: unavailable") {
			t.Errorf("Missing platforms should be listed as unavailable")
		}
	})

	t.Run("ToJSON", func(t *testing.T) {
		data, err := ToJSON(sampleTracks()[0])
		if err != nil {
			t.Fatalf("ToJSON failed: %v", err)
		}
		if !strings.Contains(string(data), `"title": "Song One"`) {
			t.Errorf("JSON missing title field, got: %s", data)
		}
	})
}

func TestWriteCSVExport(t *testing.T) {
	t.Run("writes to explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")

		written, err := WriteCSVExport(models.CohortFrom("engineering", ""), sampleTracks(), path)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}
		if written != path {
			t.Errorf("Expected path %s, got %s", path, written)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read exported file: %v", err)
		}
		if !strings.Contains(string(content), "Song One") {
			t.Errorf("Exported CSV missing track data")
		}
	})

	t.Run("defaults filename to playlist name", func(t *testing.T) {
		dir := t.TempDir()
		wd, err := os.Getwd()
		if err != nil {
			t.Fatalf("Failed to get working directory: %v", err)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("Failed to change directory: %v", err)
		}
		defer os.Chdir(wd)

		written, err := WriteCSVExport(models.CohortFrom("engineering", "dj"), sampleTracks(), "")
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}
		if written != "bmat-engineering-dj_tracks.csv" {
			t.Errorf("Unexpected default filename: %s", written)
		}
	})
}
