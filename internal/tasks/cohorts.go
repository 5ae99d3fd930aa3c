package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/repositories"
	"github.com/iuliopime/bmat/internal/services"
	"github.com/iuliopime/bmat/internal/shared"
	"golang.org/x/sync/errgroup"
)

// PlaylistResult is a cohort playlist with its public deep links.
type PlaylistResult struct {
	Playlist *models.Playlist     `json:"item"`
	Links    models.PlaylistLinks `json:"links"`
	Created  bool                 `json:"-"`
}

// PlaylistManager maps each (team, role) cohort to at most one playlist.
//
// Concurrent submissions racing to create the same cohort's playlist are not
// deduplicated here; the storage layer's cohort unique index is the only
// backstop.
type PlaylistManager struct {
	playlists         *repositories.PlaylistRepository
	tracks            *repositories.TrackRepository
	adapters          map[services.Platform]services.Adapter
	soundcloudProfile string
	logger            *log.Logger
}

// NewPlaylistManager creates a PlaylistManager over the given repositories and adapters.
// The SoundCloud profile slug is used when building public set links.
func NewPlaylistManager(playlists *repositories.PlaylistRepository, tracks *repositories.TrackRepository,
	soundcloudProfile string, logger *log.Logger, adapters ...services.Adapter) *PlaylistManager {
	keyed := make(map[services.Platform]services.Adapter, len(adapters))
	for _, adapter := range adapters {
		keyed[adapter.Name()] = adapter
	}
	return &PlaylistManager{
		playlists:         playlists,
		tracks:            tracks,
		adapters:          keyed,
		soundcloudProfile: soundcloudProfile,
		logger:            logger,
	}
}

// FindOrCreate returns the cohort's playlist, creating it from the cohort's
// tracks when none exists yet.
//
// An existing playlist is returned untouched: no platform calls are made and
// its identifier fields are never re-derived. Creation requires at least one
// named cohort component and at least one track carrying at least one
// platform identifier. The three platform playlists are created
// concurrently and independently; a platform that fails or has no tracks
// simply leaves its identifier NULL on the persisted row.
func (m *PlaylistManager) FindOrCreate(ctx context.Context, cohort models.Cohort) (*PlaylistResult, error) {
	if cohort.Unfiltered() {
		return nil, fmt.Errorf("%w: at least one filter is required to build a playlist", shared.ErrValidation)
	}

	existing, err := m.playlists.FindByCohort(cohort)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		m.logger.Info("reusing existing playlist", "cohort", cohort, "playlist", existing.Name)
		return &PlaylistResult{Playlist: existing, Links: m.buildLinks(existing)}, nil
	}

	tracks, err := m.tracks.List(cohort)
	if err != nil {
		return nil, err
	}

	spotifyURIs, appleIDs, soundcloudIDs := partitionIdentifiers(tracks)
	if len(spotifyURIs) == 0 && len(appleIDs) == 0 && len(soundcloudIDs) == 0 {
		return nil, shared.ErrNoTracks
	}

	name := cohort.PlaylistName()
	m.logger.Info("creating playlists", "name", name, "tracks", len(tracks))

	ids := make([]string, len(writeTargets))
	idLists := [][]string{spotifyURIs, appleIDs, soundcloudIDs}

	var g errgroup.Group
	for i, target := range writeTargets {
		if len(idLists[i]) == 0 {
			continue
		}
		adapter, ok := m.adapters[target]
		if !ok {
			continue
		}

		g.Go(func() error {
			id, err := adapter.CreatePlaylist(ctx, name, idLists[i])
			if err != nil {
				// Creation failure on one platform does not block
				// persisting the playlist with the others' identifiers.
				m.logger.Warn("playlist creation failed", "platform", target, "err", err)
				return nil
			}
			ids[i] = id
			return nil
		})
	}
	g.Wait()

	playlist := &models.Playlist{
		Name:         name,
		Team:         cohort.Team.Ptr(),
		Role:         cohort.Role.Ptr(),
		SpotifyID:    optional(ids[0]),
		AppleMusicID: optional(ids[1]),
		SoundCloudID: optional(ids[2]),
	}

	if err := m.playlists.Create(playlist); err != nil {
		return nil, err
	}

	m.logger.Info("playlist stored", "id", playlist.ID, "name", playlist.Name)

	return &PlaylistResult{Playlist: playlist, Links: m.buildLinks(playlist), Created: true}, nil
}

// buildLinks renders the public deep link for every platform identifier the
// playlist carries.
func (m *PlaylistManager) buildLinks(playlist *models.Playlist) models.PlaylistLinks {
	var links models.PlaylistLinks
	if playlist.SpotifyID != nil {
		links.Spotify = optional("https://open.spotify.com/playlist/" + *playlist.SpotifyID)
	}
	if playlist.AppleMusicID != nil {
		links.Apple = optional("https://music.apple.com/library/playlist/" + *playlist.AppleMusicID)
	}
	if playlist.SoundCloudID != nil {
		links.SoundCloud = optional(fmt.Sprintf("https://soundcloud.com/%s/sets/%s", m.soundcloudProfile, *playlist.SoundCloudID))
	}
	return links
}

// partitionIdentifiers splits the tracks' platform identifiers into
// per-platform lists, dropping nulls.
func partitionIdentifiers(tracks []*models.Track) (spotifyURIs, appleIDs, soundcloudIDs []string) {
	for _, track := range tracks {
		if track.SpotifyURI != nil {
			spotifyURIs = append(spotifyURIs, *track.SpotifyURI)
		}
		if track.AppleMusicID != nil {
			appleIDs = append(appleIDs, *track.AppleMusicID)
		}
		if track.SoundCloudID != nil {
			soundcloudIDs = append(soundcloudIDs, *track.SoundCloudID)
		}
	}
	return spotifyURIs, appleIDs, soundcloudIDs
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
