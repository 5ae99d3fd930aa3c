package tasks

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/repositories"
	"github.com/iuliopime/bmat/internal/services"
	"github.com/iuliopime/bmat/internal/shared"
	tu "github.com/iuliopime/bmat/internal/testing"
)

func quietLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

func strPtr(s string) *string { return &s }

func TestResolver(t *testing.T) {
	t.Run("base identity wins over search fallbacks", func(t *testing.T) {
		spotify := &tu.MockAdapter{
			Platform: services.Spotify,
			ResolveIdentity: &models.TrackIdentity{
				Title:      "Original Title",
				Artist:     "Original Artist",
				SpotifyURI: "spotify:track:base",
			},
		}
		apple := &tu.MockAdapter{
			Platform: services.AppleMusic,
			SearchIdentity: &models.TrackIdentity{
				Title:        "Apple Title",
				AppleMusicID: "144013",
			},
		}
		soundcloud := &tu.MockAdapter{
			Platform: services.SoundCloud,
			SearchIdentity: &models.TrackIdentity{
				SoundCloudID: "987",
			},
		}

		resolver := NewResolver(quietLogger(), spotify, apple, soundcloud)

		identity, err := resolver.Resolve(context.Background(), "https://open.spotify.com/track/base")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}

		if identity.Title != "Original Title" {
			t.Errorf("expected base title to win, got %q", identity.Title)
		}
		if identity.SpotifyURI != "spotify:track:base" {
			t.Errorf("expected base uri, got %q", identity.SpotifyURI)
		}
		if identity.AppleMusicID != "144013" || identity.SoundCloudID != "987" {
			t.Errorf("expected fallback identifiers, got %+v", identity)
		}

		queries := apple.SearchQueries()
		if len(queries) != 1 || queries[0] != "Original Title Original Artist" {
			t.Errorf("expected title+artist query, got %v", queries)
		}
		if len(spotify.SearchQueries()) != 0 {
			t.Error("the base platform must not be searched")
		}
	})

	t.Run("base resolve failure fails the resolution", func(t *testing.T) {
		spotify := &tu.MockAdapter{
			Platform:   services.Spotify,
			ResolveErr: errors.New("spotify down"),
		}

		resolver := NewResolver(quietLogger(), spotify)

		_, err := resolver.Resolve(context.Background(), "https://open.spotify.com/track/x")
		if err == nil {
			t.Fatal("expected error when the source platform fails")
		}
	})

	t.Run("search failures are tolerated", func(t *testing.T) {
		spotify := &tu.MockAdapter{
			Platform: services.Spotify,
			ResolveIdentity: &models.TrackIdentity{
				Title:      "Song",
				SpotifyURI: "spotify:track:x",
			},
		}
		apple := &tu.MockAdapter{
			Platform:  services.AppleMusic,
			SearchErr: errors.New("apple down"),
		}
		soundcloud := &tu.MockAdapter{
			Platform:       services.SoundCloud,
			SearchIdentity: &models.TrackIdentity{SoundCloudID: "55"},
		}

		resolver := NewResolver(quietLogger(), spotify, apple, soundcloud)

		identity, err := resolver.Resolve(context.Background(), "https://open.spotify.com/track/x")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if identity.AppleMusicID != "" {
			t.Error("expected no apple id after search failure")
		}
		if identity.SoundCloudID != "55" {
			t.Error("expected soundcloud search to survive the apple outage")
		}
	})

	t.Run("unknown platform searches everywhere with empty query", func(t *testing.T) {
		apple := &tu.MockAdapter{Platform: services.AppleMusic}

		resolver := NewResolver(quietLogger(), apple)

		identity, err := resolver.Resolve(context.Background(), "https://example.com/whatever")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if !identity.Empty() {
			t.Errorf("expected empty identity, got %+v", identity)
		}
	})
}

func playlistFixtures(t *testing.T) (*repositories.PlaylistRepository, *repositories.TrackRepository) {
	t.Helper()
	db := tu.MustOpenDB(t)
	return repositories.NewPlaylistRepository(db), repositories.NewTrackRepository(db)
}

func TestPlaylistManager(t *testing.T) {
	t.Run("rejects unfiltered cohort", func(t *testing.T) {
		playlists, tracks := playlistFixtures(t)
		manager := NewPlaylistManager(playlists, tracks, "profile", quietLogger())

		_, err := manager.FindOrCreate(context.Background(), models.Cohort{})
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("rejects cohort with no identifiable tracks", func(t *testing.T) {
		playlists, tracks := playlistFixtures(t)
		if err := tracks.Create(&models.Track{Title: "plain", URL: "u", AddedBy: "a", Team: strPtr("engineering")}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		manager := NewPlaylistManager(playlists, tracks, "profile", quietLogger())

		_, err := manager.FindOrCreate(context.Background(), models.CohortFrom("engineering", ""))
		if !errors.Is(err, shared.ErrNoTracks) {
			t.Errorf("expected no-tracks error, got %v", err)
		}
	})

	t.Run("creates playlists and persists ids", func(t *testing.T) {
		playlists, tracks := playlistFixtures(t)
		if err := tracks.Create(&models.Track{
			Title: "Song", URL: "u", AddedBy: "a", Team: strPtr("engineering"),
			SpotifyURI: strPtr("spotify:track:1"), SoundCloudID: strPtr("55"),
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		spotify := &tu.MockAdapter{Platform: services.Spotify, PlaylistID: "sp1"}
		soundcloud := &tu.MockAdapter{Platform: services.SoundCloud, PlaylistID: "sc1"}
		apple := &tu.MockAdapter{Platform: services.AppleMusic, PlaylistID: "ap1"}

		manager := NewPlaylistManager(playlists, tracks, "profile", quietLogger(), spotify, apple, soundcloud)

		result, err := manager.FindOrCreate(context.Background(), models.CohortFrom("engineering", ""))
		if err != nil {
			t.Fatalf("FindOrCreate failed: %v", err)
		}
		if !result.Created {
			t.Error("expected Created flag")
		}
		if result.Playlist.Name != "bmat-engineering-all" {
			t.Errorf("unexpected name: %s", result.Playlist.Name)
		}
		if result.Playlist.SpotifyID == nil || *result.Playlist.SpotifyID != "sp1" {
			t.Errorf("expected spotify id, got %v", result.Playlist.SpotifyID)
		}
		if result.Playlist.AppleMusicID != nil {
			t.Error("apple had no tracks, expected nil id")
		}
		if result.Links.Spotify == nil || *result.Links.Spotify != "https://open.spotify.com/playlist/sp1" {
			t.Errorf("unexpected spotify link: %v", result.Links.Spotify)
		}
		if result.Links.SoundCloud == nil || *result.Links.SoundCloud != "https://soundcloud.com/profile/sets/sc1" {
			t.Errorf("unexpected soundcloud link: %v", result.Links.SoundCloud)
		}

		stored, err := playlists.FindByCohort(models.CohortFrom("engineering", ""))
		if err != nil || stored == nil {
			t.Fatalf("expected persisted playlist, got (%+v, %v)", stored, err)
		}
	})

	t.Run("platform failure leaves its id NULL", func(t *testing.T) {
		playlists, tracks := playlistFixtures(t)
		if err := tracks.Create(&models.Track{
			Title: "Song", URL: "u", AddedBy: "a", Team: strPtr("engineering"),
			SpotifyURI: strPtr("spotify:track:1"), SoundCloudID: strPtr("55"),
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		spotify := &tu.MockAdapter{Platform: services.Spotify, CreateErr: errors.New("spotify down")}
		soundcloud := &tu.MockAdapter{Platform: services.SoundCloud, PlaylistID: "sc1"}

		manager := NewPlaylistManager(playlists, tracks, "profile", quietLogger(), spotify, soundcloud)

		result, err := manager.FindOrCreate(context.Background(), models.CohortFrom("engineering", ""))
		if err != nil {
			t.Fatalf("FindOrCreate failed: %v", err)
		}
		if result.Playlist.SpotifyID != nil {
			t.Error("expected nil spotify id after creation failure")
		}
		if result.Playlist.SoundCloudID == nil || *result.Playlist.SoundCloudID != "sc1" {
			t.Errorf("expected soundcloud id, got %v", result.Playlist.SoundCloudID)
		}
	})

	t.Run("existing playlist is returned untouched", func(t *testing.T) {
		playlists, tracks := playlistFixtures(t)
		existing := &models.Playlist{Name: "bmat-engineering-all", Team: strPtr("engineering"), SpotifyID: strPtr("old")}
		if err := playlists.Create(existing); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		spotify := &tu.MockAdapter{Platform: services.Spotify, PlaylistID: "new"}
		manager := NewPlaylistManager(playlists, tracks, "profile", quietLogger(), spotify)

		result, err := manager.FindOrCreate(context.Background(), models.CohortFrom("engineering", ""))
		if err != nil {
			t.Fatalf("FindOrCreate failed: %v", err)
		}
		if result.Created {
			t.Error("expected reuse, not creation")
		}
		if *result.Playlist.SpotifyID != "old" {
			t.Errorf("identifiers must never be re-derived, got %s", *result.Playlist.SpotifyID)
		}
	})
}

func TestFanout(t *testing.T) {
	playlist := &models.Playlist{
		SpotifyID:    strPtr("sp1"),
		SoundCloudID: strPtr("sc1"),
	}
	track := &models.Track{
		SpotifyURI:   strPtr("spotify:track:1"),
		AppleMusicID: strPtr("144013"),
	}

	t.Run("statuses per platform", func(t *testing.T) {
		spotify := &tu.MockAdapter{Platform: services.Spotify}
		apple := &tu.MockAdapter{Platform: services.AppleMusic}
		soundcloud := &tu.MockAdapter{Platform: services.SoundCloud}

		fanout := NewFanout(quietLogger(), spotify, apple, soundcloud)
		outcomes := fanout.Append(context.Background(), playlist, track)

		byPlatform := map[services.Platform]AppendOutcome{}
		for _, outcome := range outcomes {
			byPlatform[outcome.Platform] = outcome
		}

		if byPlatform[services.Spotify].Status != AppendAdded {
			t.Errorf("expected spotify add, got %v", byPlatform[services.Spotify].Status)
		}
		// playlist has no apple id, track has no soundcloud id
		if byPlatform[services.AppleMusic].Status != AppendSkipped {
			t.Errorf("expected apple skip, got %v", byPlatform[services.AppleMusic].Status)
		}
		if byPlatform[services.SoundCloud].Status != AppendSkipped {
			t.Errorf("expected soundcloud skip, got %v", byPlatform[services.SoundCloud].Status)
		}

		added := spotify.AddedTracks()
		if len(added) != 1 || added[0] != "spotify:track:1" {
			t.Errorf("expected one spotify add, got %v", added)
		}
	})

	t.Run("failure is recorded not raised", func(t *testing.T) {
		spotify := &tu.MockAdapter{Platform: services.Spotify, AddErr: errors.New("spotify down")}

		fanout := NewFanout(quietLogger(), spotify)
		outcomes := fanout.Append(context.Background(), playlist, track)

		for _, outcome := range outcomes {
			if outcome.Platform == services.Spotify {
				if outcome.Status != AppendFailed || outcome.Err == nil {
					t.Errorf("expected recorded failure, got %+v", outcome)
				}
			}
		}
	})
}

func TestSubmissions(t *testing.T) {
	newEngine := func(t *testing.T, adapters ...services.Adapter) (*Submissions, *repositories.TrackRepository, *repositories.PlaylistRepository) {
		t.Helper()
		db := tu.MustOpenDB(t)
		tracks := repositories.NewTrackRepository(db)
		playlists := repositories.NewPlaylistRepository(db)
		resolver := NewResolver(quietLogger(), adapters...)
		fanout := NewFanout(quietLogger(), adapters...)
		return NewSubmissions(resolver, fanout, tracks, playlists, quietLogger()), tracks, playlists
	}

	t.Run("rejects blank url and missing user", func(t *testing.T) {
		engine, _, _ := newEngine(t)

		if _, err := engine.Submit(context.Background(), nil, "  ", models.SoftUser{Name: "julio"}); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error for blank url, got %v", err)
		}
		if _, err := engine.Submit(context.Background(), nil, "https://example.com", models.SoftUser{}); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error for missing user, got %v", err)
		}
	})

	t.Run("saves track and reports nil outcomes without playlist", func(t *testing.T) {
		spotify := &tu.MockAdapter{
			Platform:        services.Spotify,
			ResolveIdentity: &models.TrackIdentity{Title: "Song", SpotifyURI: "spotify:track:1"},
		}
		engine, tracks, _ := newEngine(t, spotify)

		outcomes := make(chan []AppendOutcome, 1)
		track, err := engine.Submit(context.Background(), outcomes,
			"https://open.spotify.com/track/1", models.SoftUser{Name: "julio", Team: "engineering"})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if track.ID == "" || track.Title != "Song" {
			t.Errorf("unexpected track: %+v", track)
		}

		select {
		case results := <-outcomes:
			if results != nil {
				t.Errorf("expected nil outcomes without a playlist, got %v", results)
			}
		case <-time.After(time.Second):
			t.Fatal("expected outcomes to be reported")
		}

		stored, err := tracks.List(models.CohortFrom("engineering", ""))
		if err != nil || len(stored) != 1 {
			t.Fatalf("expected persisted track, got (%d, %v)", len(stored), err)
		}
	})

	t.Run("fans out to the cohort playlist", func(t *testing.T) {
		spotify := &tu.MockAdapter{
			Platform:        services.Spotify,
			ResolveIdentity: &models.TrackIdentity{Title: "Song", SpotifyURI: "spotify:track:1"},
		}
		engine, _, playlists := newEngine(t, spotify)

		if err := playlists.Create(&models.Playlist{
			Name: "bmat-engineering-all", Team: strPtr("engineering"), SpotifyID: strPtr("sp1"),
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		outcomes := make(chan []AppendOutcome, 1)
		if _, err := engine.Submit(context.Background(), outcomes,
			"https://open.spotify.com/track/1", models.SoftUser{Name: "julio", Team: "engineering"}); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		select {
		case results := <-outcomes:
			var added bool
			for _, outcome := range results {
				if outcome.Platform == services.Spotify && outcome.Status == AppendAdded {
					added = true
				}
			}
			if !added {
				t.Errorf("expected spotify append, got %v", results)
			}
		case <-time.After(time.Second):
			t.Fatal("expected fan-out outcomes")
		}

		added := spotify.AddedTracks()
		if len(added) != 1 || added[0] != "spotify:track:1" {
			t.Errorf("expected track appended on spotify, got %v", added)
		}
	})

	t.Run("resolve failure aborts the submission", func(t *testing.T) {
		spotify := &tu.MockAdapter{
			Platform:   services.Spotify,
			ResolveErr: errors.New("spotify down"),
		}
		engine, tracks, _ := newEngine(t, spotify)

		if _, err := engine.Submit(context.Background(), nil,
			"https://open.spotify.com/track/1", models.SoftUser{Name: "julio"}); err == nil {
			t.Fatal("expected error")
		}

		stored, err := tracks.List(models.Cohort{})
		if err != nil || len(stored) != 0 {
			t.Errorf("expected no track persisted, got (%d, %v)", len(stored), err)
		}
	})
}
