package repositories

import (
	"database/sql"
	"time"

	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/shared"
)

// TrackRepository persists submitted tracks.
//
// Tracks are created once at submission time and never mutated or deleted.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new [models.Track] with a generated id and timestamp.
func (r *TrackRepository) Create(track *models.Track) error {
	track.ID = shared.GenerateID()
	track.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO tracks (id, title, url, added_by, team, role, apple_music_id, spotify_uri, soundcloud_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		track.ID,
		track.Title,
		track.URL,
		track.AddedBy,
		nullable(track.Team),
		nullable(track.Role),
		nullable(track.AppleMusicID),
		nullable(track.SpotifyURI),
		nullable(track.SoundCloudID),
		track.CreatedAt,
	)
	if err != nil {
		return storageErr("inserting track", err)
	}

	return nil
}

// List retrieves tracks newest first. Named cohort components constrain the
// result; wildcard components leave that column unconstrained, so the zero
// cohort lists everything.
func (r *TrackRepository) List(cohort models.Cohort) ([]*models.Track, error) {
	query := `
		SELECT id, title, url, added_by, team, role, apple_music_id, spotify_uri, soundcloud_id, created_at
		FROM tracks
	`

	var args []any
	var predicates []string

	if !cohort.Team.IsWildcard() {
		predicates = append(predicates, "team = ?")
		args = append(args, cohort.Team.Value())
	}
	if !cohort.Role.IsWildcard() {
		predicates = append(predicates, "role = ?")
		args = append(args, cohort.Role.Value())
	}

	for i, predicate := range predicates {
		if i == 0 {
			query += " WHERE " + predicate
		} else {
			query += " AND " + predicate
		}
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, storageErr("querying tracks", err)
	}
	defer rows.Close()

	var tracks []*models.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating tracks", err)
	}

	return tracks, nil
}

func scanTrack(rows *sql.Rows) (*models.Track, error) {
	var (
		track        models.Track
		team         sql.NullString
		role         sql.NullString
		appleMusicID sql.NullString
		spotifyURI   sql.NullString
		soundcloudID sql.NullString
	)

	err := rows.Scan(&track.ID, &track.Title, &track.URL, &track.AddedBy,
		&team, &role, &appleMusicID, &spotifyURI, &soundcloudID, &track.CreatedAt)
	if err != nil {
		return nil, storageErr("scanning track", err)
	}

	track.Team = ptr(team)
	track.Role = ptr(role)
	track.AppleMusicID = ptr(appleMusicID)
	track.SpotifyURI = ptr(spotifyURI)
	track.SoundCloudID = ptr(soundcloudID)

	return &track, nil
}
