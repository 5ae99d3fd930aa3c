package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/services"
	"golang.org/x/sync/errgroup"
)

// AppendStatus classifies one platform's outcome in a fan-out append.
type AppendStatus int

const (
	// AppendAdded means the platform accepted the track.
	AppendAdded AppendStatus = iota
	// AppendSkipped means the playlist or track has no identifier on that
	// platform, so no call was made.
	AppendSkipped
	// AppendFailed means the platform call failed. Failures are recorded,
	// not retried and never raised to the submitter.
	AppendFailed
)

func (s AppendStatus) String() string {
	switch s {
	case AppendAdded:
		return "added"
	case AppendSkipped:
		return "skipped"
	case AppendFailed:
		return "failed"
	default:
		return ""
	}
}

// AppendOutcome reports one platform's result from a fan-out append.
type AppendOutcome struct {
	Platform services.Platform
	Status   AppendStatus
	Err      error
}

// Fanout appends newly persisted tracks to each platform playlist of an
// existing cohort playlist.
type Fanout struct {
	adapters map[services.Platform]services.Adapter
	logger   *log.Logger
}

// NewFanout creates a Fanout over the given adapters.
func NewFanout(logger *log.Logger, adapters ...services.Adapter) *Fanout {
	keyed := make(map[services.Platform]services.Adapter, len(adapters))
	for _, adapter := range adapters {
		keyed[adapter.Name()] = adapter
	}
	return &Fanout{adapters: keyed, logger: logger}
}

// Append issues one best-effort add per write-target platform whose
// identifiers are present on both the playlist and the track. The calls run
// concurrently and independently: one platform failing leaves the others'
// outcomes untouched. The returned outcomes are in writeTargets order.
func (f *Fanout) Append(ctx context.Context, playlist *models.Playlist, track *models.Track) []AppendOutcome {
	outcomes := make([]AppendOutcome, len(writeTargets))

	var g errgroup.Group
	for i, target := range writeTargets {
		outcomes[i] = AppendOutcome{Platform: target, Status: AppendSkipped}

		playlistID := playlistIdentifier(playlist, target)
		trackID := trackIdentifier(track, target)
		if playlistID == "" || trackID == "" {
			continue
		}

		adapter, ok := f.adapters[target]
		if !ok {
			continue
		}

		g.Go(func() error {
			if err := adapter.AddToPlaylist(ctx, playlistID, trackID); err != nil {
				f.logger.Warn("fan-out append failed", "platform", target, "playlist", playlistID, "err", err)
				outcomes[i] = AppendOutcome{Platform: target, Status: AppendFailed, Err: err}
				return nil
			}
			outcomes[i] = AppendOutcome{Platform: target, Status: AppendAdded}
			return nil
		})
	}
	g.Wait()

	return outcomes
}

func playlistIdentifier(playlist *models.Playlist, platform services.Platform) string {
	switch platform {
	case services.Spotify:
		return deref(playlist.SpotifyID)
	case services.AppleMusic:
		return deref(playlist.AppleMusicID)
	case services.SoundCloud:
		return deref(playlist.SoundCloudID)
	default:
		return ""
	}
}

func trackIdentifier(track *models.Track, platform services.Platform) string {
	switch platform {
	case services.Spotify:
		return deref(track.SpotifyURI)
	case services.AppleMusic:
		return deref(track.AppleMusicID)
	case services.SoundCloud:
		return deref(track.SoundCloudID)
	default:
		return ""
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
