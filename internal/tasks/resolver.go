// package tasks implements track identity resolution, cohort playlist management and playlist fan-out.
//
// The core abstraction is three engines orchestrating the platform adapters:
// Resolver merges per-platform identities, PlaylistManager owns the
// one-playlist-per-cohort invariant, and Fanout appends new tracks to
// existing platform playlists best-effort.
package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/services"
	"github.com/iuliopime/bmat/internal/shared"
	"golang.org/x/sync/errgroup"
)

// writeTargets are the platforms cohort playlists are synchronized to, in
// title-precedence order for identity merging.
var writeTargets = []services.Platform{services.Spotify, services.AppleMusic, services.SoundCloud}

// Resolver resolves a submitted URL to a merged cross-platform track identity.
type Resolver struct {
	adapters map[services.Platform]services.Adapter
	logger   *log.Logger
}

// NewResolver creates a Resolver over the given adapters, keyed by platform.
func NewResolver(logger *log.Logger, adapters ...services.Adapter) *Resolver {
	keyed := make(map[services.Platform]services.Adapter, len(adapters))
	for _, adapter := range adapters {
		keyed[adapter.Name()] = adapter
	}
	return &Resolver{adapters: keyed, logger: logger}
}

// Resolve recovers the track identity behind a URL.
//
// The URL's own platform is resolved first; that base identity takes
// precedence for every field it sets, and its failure fails the whole
// resolution since it is decisive evidence about the source platform. The
// write-target platforms missing from the base identity are then searched
// concurrently; a failing search is logged and treated as "no match" so one
// platform outage never blanks the rest of the record.
//
// The returned identity may be empty (unknown platform, nothing found);
// [models.NewTrack] falls back to the raw URL for the title.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (models.TrackIdentity, error) {
	platform := services.Detect(rawURL)
	r.logger.Debug("detected platform", "url", rawURL, "platform", platform)

	var base models.TrackIdentity
	if adapter, ok := r.adapters[platform]; ok {
		resolved, err := adapter.ResolveURL(ctx, rawURL)
		if err != nil {
			return models.TrackIdentity{}, err
		}
		if resolved != nil {
			base = *resolved
		}
	}

	query := shared.BuildQuery(base.Title, base.Artist)
	r.logger.Debug("cross-platform search query", "query", query)

	results := make([]models.TrackIdentity, len(writeTargets))

	var g errgroup.Group
	for i, target := range writeTargets {
		if hasIdentifier(base, target) {
			continue
		}
		adapter, ok := r.adapters[target]
		if !ok {
			continue
		}

		g.Go(func() error {
			found, err := adapter.Search(ctx, query)
			if err != nil {
				// Fallback searches are best-effort; an outage on one
				// platform must not abort the others.
				r.logger.Warn("search fallback failed", "platform", target, "err", err)
				return nil
			}
			if found != nil {
				results[i] = *found
			}
			return nil
		})
	}
	g.Wait()

	merged := base
	for _, result := range results {
		merged = merged.Merge(result)
	}

	return merged, nil
}

// hasIdentifier reports whether the identity already carries the given
// platform's native identifier, making a search fallback unnecessary.
func hasIdentifier(identity models.TrackIdentity, platform services.Platform) bool {
	switch platform {
	case services.Spotify:
		return identity.SpotifyURI != ""
	case services.AppleMusic:
		return identity.AppleMusicID != ""
	case services.SoundCloud:
		return identity.SoundCloudID != ""
	default:
		return false
	}
}
