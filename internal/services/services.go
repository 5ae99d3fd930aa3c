// package services defines interface Adapter for interacting with music platform HTTP APIs
//
// Spotify, Apple Music, SoundCloud, YouTube
package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/shared"
)

// Platform tags a supported music service, or Unknown for anything else.
type Platform string

const (
	Spotify    Platform = "spotify"
	AppleMusic Platform = "apple"
	SoundCloud Platform = "soundcloud"
	YouTube    Platform = "youtube"
	Unknown    Platform = "unknown"
)

// Adapter defines the uniform capability set every platform exposes.
//
// ResolveURL and Search return (nil, nil) when the platform has no match;
// transport and auth failures surface as a [*PlatformError]. The caller, not
// the adapter, decides which failures abort the pipeline.
type Adapter interface {
	// ResolveURL fetches the canonical identity for a URL already detected
	// as this adapter's platform. Returns nil when the platform reports the
	// resource does not exist.
	ResolveURL(ctx context.Context, rawURL string) (*models.TrackIdentity, error)

	// Search performs a best-effort free-text lookup and returns the first
	// match. An empty query is treated as "no match".
	Search(ctx context.Context, query string) (*models.TrackIdentity, error)

	// CreatePlaylist creates a platform playlist seeded with the given
	// native track identifiers and returns its platform id. An empty
	// identifier list makes no network call and returns "".
	CreatePlaylist(ctx context.Context, name string, trackIDs []string) (string, error)

	// AddToPlaylist appends one native track identifier to a platform
	// playlist. Adding a track that is already present is not an error.
	AddToPlaylist(ctx context.Context, playlistID, trackID string) error

	// Name returns the platform tag this adapter serves.
	Name() Platform
}

// PlatformError reports a transport or auth failure from one platform API.
type PlatformError struct {
	Platform Platform
	Op       string
	Err      error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Platform, e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// Is matches [shared.ErrPlatform] so callers can classify adapter failures
// without knowing which platform raised them.
func (e *PlatformError) Is(target error) bool {
	return target == shared.ErrPlatform
}

func platformErr(p Platform, op string, err error) error {
	return &PlatformError{Platform: p, Op: op, Err: err}
}

// Detect classifies a URL into a [Platform] by host matching.
//
// Total over strings: malformed or unrecognized input yields Unknown, never
// an error.
func Detect(rawURL string) Platform {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return Unknown
	}

	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))

	switch {
	case host == "spotify.com" || strings.HasSuffix(host, ".spotify.com"):
		return Spotify
	case host == "music.apple.com" || host == "itunes.apple.com" || host == "geo.music.apple.com":
		return AppleMusic
	case host == "soundcloud.com" || strings.HasSuffix(host, ".soundcloud.com") || host == "snd.sc":
		return SoundCloud
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com") || host == "youtu.be":
		return YouTube
	default:
		return Unknown
	}
}
