// Package repositories implements SQLite persistence for the playlist service.
//
// Key Implementations:
//   - [TrackRepository] : append-only track submissions with set-only cohort filtering, newest first
//   - [PlaylistRepository] : cohort playlists with three-valued (NULL-aware) cohort lookup
//   - [NameRepository] : team and role name lists with duplicate-ignoring upserts
//
// Filtering semantics differ deliberately between the two cohort queries:
// track listing treats a wildcard component as "no constraint", while
// playlist lookup treats it as "must be NULL". The first selects candidate
// tracks for a cohort, the second enforces the one-playlist-per-cohort
// invariant.
package repositories
