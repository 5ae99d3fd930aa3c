// package models defines the data model for the collaborative playlist service
package models

import (
	"fmt"
	"strings"
	"time"
)

// SoftUser is the caller-supplied identity attached to a submission.
//
// It is trusted as-is: the service does not authenticate it, only copies the
// three fields onto the records it creates. Team and role may be empty.
type SoftUser struct {
	Name string `json:"name"`
	Team string `json:"team"`
	Role string `json:"role"`
}

// Track is a persisted submission with whatever platform identifiers could
// be recovered for it. Created once, never mutated or deleted.
type Track struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	AddedBy      string    `json:"added_by"`
	Team         *string   `json:"team"`
	Role         *string   `json:"role"`
	AppleMusicID *string   `json:"apple_music_id"`
	SpotifyURI   *string   `json:"spotify_uri"`
	SoundCloudID *string   `json:"soundcloud_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Playlist is the persisted record of one cohort's shared playlist.
//
// Platform identifier fields are set once at creation and never re-derived;
// a nil field means that platform's playlist could not be created.
type Playlist struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Team         *string   `json:"team"`
	Role         *string   `json:"role"`
	SpotifyID    *string   `json:"spotify_id"`
	AppleMusicID *string   `json:"apple_music_id"`
	SoundCloudID *string   `json:"soundcloud_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// PlaylistLinks holds public deep links to a playlist on each platform.
// A nil link means the playlist does not exist on that platform.
type PlaylistLinks struct {
	Spotify    *string `json:"spotify"`
	Apple      *string `json:"apple"`
	SoundCloud *string `json:"soundcloud"`
}

// Cohort returns the track's (team, role) cohort key.
func (t *Track) Cohort() Cohort {
	return Cohort{Team: filterOf(t.Team), Role: filterOf(t.Role)}
}

// Cohort returns the playlist's (team, role) cohort key.
func (p *Playlist) Cohort() Cohort {
	return Cohort{Team: filterOf(p.Team), Role: filterOf(p.Role)}
}

// Filter is a three-valued cohort component: either a concrete team/role
// name, or the wildcard. The wildcard matches only rows where the column is
// NULL, never a named value, and a name never matches NULL.
type Filter struct {
	name string
	set  bool
}

// Name returns a filter matching the given team or role name.
func Name(name string) Filter {
	return Filter{name: name, set: true}
}

// Wildcard returns the filter matching only the unset (NULL) value.
func Wildcard() Filter {
	return Filter{}
}

// FilterFrom trims s and returns Wildcard for an empty result, Name otherwise.
func FilterFrom(s string) Filter {
	if trimmed := strings.TrimSpace(s); trimmed != "" {
		return Name(trimmed)
	}
	return Filter{}
}

// IsWildcard reports whether the filter is the wildcard value.
func (f Filter) IsWildcard() bool { return !f.set }

// Value returns the concrete name, or "" for the wildcard.
func (f Filter) Value() string { return f.name }

// Ptr returns the filter as a nullable string for persistence and JSON.
func (f Filter) Ptr() *string {
	if !f.set {
		return nil
	}
	name := f.name
	return &name
}

func (f Filter) orAll() string {
	if !f.set {
		return "all"
	}
	return f.name
}

func filterOf(s *string) Filter {
	if s == nil {
		return Filter{}
	}
	return Filter{name: *s, set: true}
}

// Cohort is a (team, role) pair identifying one audience group and its
// single shared playlist. Equality is three-valued per component.
type Cohort struct {
	Team Filter
	Role Filter
}

// CohortFrom builds a cohort from raw team/role strings, trimming whitespace
// and treating empty values as wildcards.
func CohortFrom(team, role string) Cohort {
	return Cohort{Team: FilterFrom(team), Role: FilterFrom(role)}
}

// Unfiltered reports whether both components are wildcards. Such a cohort is
// rejected everywhere a cohort selects tracks or playlists.
func (c Cohort) Unfiltered() bool {
	return c.Team.IsWildcard() && c.Role.IsWildcard()
}

// PlaylistName derives the deterministic playlist name for the cohort,
// e.g. "bmat-engineering-dj" or "bmat-all-dj".
func (c Cohort) PlaylistName() string {
	return fmt.Sprintf("bmat-%s-%s", c.Team.orAll(), c.Role.orAll())
}

// String renders the cohort for logs.
func (c Cohort) String() string {
	return fmt.Sprintf("(team=%s, role=%s)", c.Team.orAll(), c.Role.orAll())
}
