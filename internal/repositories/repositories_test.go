package repositories

import (
	"strings"
	"testing"
	"time"

	"github.com/iuliopime/bmat/internal/models"
	tu "github.com/iuliopime/bmat/internal/testing"
)

func strPtr(s string) *string { return &s }

func TestTrackRepository(t *testing.T) {
	db := tu.MustOpenDB(t)
	repo := NewTrackRepository(db)

	seed := []*models.Track{
		{Title: "Engineering DJ", URL: "u1", AddedBy: "a", Team: strPtr("engineering"), Role: strPtr("dj"), SpotifyURI: strPtr("spotify:track:1")},
		{Title: "Engineering Only", URL: "u2", AddedBy: "b", Team: strPtr("engineering")},
		{Title: "No Cohort", URL: "u3", AddedBy: "c"},
	}
	for _, track := range seed {
		if err := repo.Create(track); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		// created_at drives ordering, keep inserts strictly ordered
		time.Sleep(2 * time.Millisecond)
	}

	t.Run("Create assigns id and timestamp", func(t *testing.T) {
		if seed[0].ID == "" {
			t.Error("expected generated id")
		}
		if seed[0].CreatedAt.IsZero() {
			t.Error("expected timestamp")
		}
	})

	t.Run("List unfiltered returns everything newest first", func(t *testing.T) {
		tracks, err := repo.List(models.Cohort{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(tracks) != 3 {
			t.Fatalf("expected 3 tracks, got %d", len(tracks))
		}
		if tracks[0].Title != "No Cohort" {
			t.Errorf("expected newest track first, got %s", tracks[0].Title)
		}
		if tracks[2].Title != "Engineering DJ" {
			t.Errorf("expected oldest track last, got %s", tracks[2].Title)
		}
	})

	t.Run("List by team includes all roles", func(t *testing.T) {
		tracks, err := repo.List(models.CohortFrom("engineering", ""))
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(tracks) != 2 {
			t.Fatalf("expected 2 engineering tracks, got %d", len(tracks))
		}
	})

	t.Run("List by team and role is exact", func(t *testing.T) {
		tracks, err := repo.List(models.CohortFrom("engineering", "dj"))
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(tracks) != 1 || tracks[0].Title != "Engineering DJ" {
			t.Fatalf("expected only the dj track, got %d", len(tracks))
		}
		if tracks[0].SpotifyURI == nil || *tracks[0].SpotifyURI != "spotify:track:1" {
			t.Errorf("expected identifiers to round-trip, got %v", tracks[0].SpotifyURI)
		}
	})

	t.Run("List with unknown team is empty", func(t *testing.T) {
		tracks, err := repo.List(models.CohortFrom("marketing", ""))
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(tracks) != 0 {
			t.Errorf("expected no tracks, got %d", len(tracks))
		}
	})
}

func TestPlaylistRepository(t *testing.T) {
	db := tu.MustOpenDB(t)
	repo := NewPlaylistRepository(db)

	teamOnly := &models.Playlist{Name: "bmat-engineering-all", Team: strPtr("engineering"), SpotifyID: strPtr("pl1")}
	pair := &models.Playlist{Name: "bmat-engineering-dj", Team: strPtr("engineering"), Role: strPtr("dj")}
	for _, playlist := range []*models.Playlist{teamOnly, pair} {
		if err := repo.Create(playlist); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	t.Run("FindByCohort matches wildcard to NULL only", func(t *testing.T) {
		found, err := repo.FindByCohort(models.CohortFrom("engineering", ""))
		if err != nil {
			t.Fatalf("FindByCohort failed: %v", err)
		}
		if found == nil || found.Name != "bmat-engineering-all" {
			t.Fatalf("expected team-only playlist, got %+v", found)
		}
		if found.Role != nil {
			t.Error("expected NULL role on team-only playlist")
		}
		if found.SpotifyID == nil || *found.SpotifyID != "pl1" {
			t.Errorf("expected spotify id to round-trip, got %v", found.SpotifyID)
		}
	})

	t.Run("FindByCohort with both components", func(t *testing.T) {
		found, err := repo.FindByCohort(models.CohortFrom("engineering", "dj"))
		if err != nil {
			t.Fatalf("FindByCohort failed: %v", err)
		}
		if found == nil || found.Name != "bmat-engineering-dj" {
			t.Fatalf("expected pair playlist, got %+v", found)
		}
	})

	t.Run("FindByCohort returns nil when absent", func(t *testing.T) {
		found, err := repo.FindByCohort(models.CohortFrom("", "dj"))
		if err != nil {
			t.Fatalf("FindByCohort failed: %v", err)
		}
		if found != nil {
			t.Errorf("role-only lookup must not match team playlists, got %+v", found)
		}
	})

	t.Run("cohort unique index blocks duplicates", func(t *testing.T) {
		duplicate := &models.Playlist{Name: "bmat-engineering-all", Team: strPtr("engineering")}
		err := repo.Create(duplicate)
		if err == nil {
			t.Fatal("expected unique constraint violation")
		}
		if !strings.Contains(err.Error(), "UNIQUE") && !strings.Contains(err.Error(), "unique") {
			t.Errorf("expected unique violation, got %v", err)
		}
	})
}

func TestNameRepository(t *testing.T) {
	db := tu.MustOpenDB(t)

	t.Run("Add and List", func(t *testing.T) {
		repo := NewTeamRepository(db)

		for _, name := range []string{"product", "engineering", "engineering"} {
			if err := repo.Add(name); err != nil {
				t.Fatalf("Add failed: %v", err)
			}
		}

		names, err := repo.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(names) != 2 {
			t.Fatalf("expected duplicates ignored, got %v", names)
		}
		if names[0] != "engineering" || names[1] != "product" {
			t.Errorf("expected alphabetical order, got %v", names)
		}
	})

	t.Run("teams and roles are separate tables", func(t *testing.T) {
		roles := NewRoleRepository(db)
		if err := roles.Add("dj"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		names, err := roles.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(names) != 1 || names[0] != "dj" {
			t.Errorf("expected only the role, got %v", names)
		}
	})
}
