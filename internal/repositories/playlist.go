package repositories

import (
	"database/sql"
	"errors"
	"time"

	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/shared"
)

// PlaylistRepository persists cohort playlists.
//
// The cohort unique index is the only backstop against two concurrent
// submissions racing to create the same cohort's playlist.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// FindByCohort retrieves the playlist for an exact (team, role) pair using
// three-valued equality: a wildcard component matches only NULL. Returns
// (nil, nil) when no playlist exists for the cohort.
func (r *PlaylistRepository) FindByCohort(cohort models.Cohort) (*models.Playlist, error) {
	teamPredicate, teamArgs := filterPredicate("team", cohort.Team)
	rolePredicate, roleArgs := filterPredicate("role", cohort.Role)

	query := `
		SELECT id, name, team, role, spotify_id, apple_music_id, soundcloud_id, created_at
		FROM playlists
		WHERE ` + teamPredicate + " AND " + rolePredicate + `
		LIMIT 1
	`

	args := append(teamArgs, roleArgs...)

	playlist, err := scanPlaylist(r.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("querying playlist", err)
	}

	return playlist, nil
}

// Create inserts a new [models.Playlist] with a generated id and timestamp.
func (r *PlaylistRepository) Create(playlist *models.Playlist) error {
	playlist.ID = shared.GenerateID()
	playlist.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO playlists (id, name, team, role, spotify_id, apple_music_id, soundcloud_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		playlist.ID,
		playlist.Name,
		nullable(playlist.Team),
		nullable(playlist.Role),
		nullable(playlist.SpotifyID),
		nullable(playlist.AppleMusicID),
		nullable(playlist.SoundCloudID),
		playlist.CreatedAt,
	)
	if err != nil {
		return storageErr("inserting playlist", err)
	}

	return nil
}

func scanPlaylist(row *sql.Row) (*models.Playlist, error) {
	var (
		playlist     models.Playlist
		team         sql.NullString
		role         sql.NullString
		spotifyID    sql.NullString
		appleMusicID sql.NullString
		soundcloudID sql.NullString
	)

	err := row.Scan(&playlist.ID, &playlist.Name, &team, &role,
		&spotifyID, &appleMusicID, &soundcloudID, &playlist.CreatedAt)
	if err != nil {
		return nil, err
	}

	playlist.Team = ptr(team)
	playlist.Role = ptr(role)
	playlist.SpotifyID = ptr(spotifyID)
	playlist.AppleMusicID = ptr(appleMusicID)
	playlist.SoundCloudID = ptr(soundcloudID)

	return &playlist, nil
}
