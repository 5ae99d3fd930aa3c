package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/repositories"
	"github.com/iuliopime/bmat/internal/shared"
)

// Submissions runs the full submission pipeline: resolve identity, persist
// the track, then fan the track out to the cohort's platform playlists.
type Submissions struct {
	resolver  *Resolver
	fanout    *Fanout
	tracks    *repositories.TrackRepository
	playlists *repositories.PlaylistRepository
	logger    *log.Logger
}

// NewSubmissions creates a Submissions engine over the given components.
func NewSubmissions(resolver *Resolver, fanout *Fanout, tracks *repositories.TrackRepository,
	playlists *repositories.PlaylistRepository, logger *log.Logger) *Submissions {
	return &Submissions{
		resolver:  resolver,
		fanout:    fanout,
		tracks:    tracks,
		playlists: playlists,
		logger:    logger,
	}
}

// Submit resolves and persists one submitted URL for the given user.
//
// When the user's cohort already has a playlist, the track's identifiers are
// appended to the platform playlists on a detached context: the returned
// track never waits on, and is never failed by, the fan-out. Outcomes are
// reported through the optional channel without blocking; pass a buffered
// channel to observe them.
func (s *Submissions) Submit(ctx context.Context, outcomes chan<- []AppendOutcome, rawURL string, user models.SoftUser) (*models.Track, error) {
	if strings.TrimSpace(rawURL) == "" || strings.TrimSpace(user.Name) == "" {
		return nil, fmt.Errorf("%w: track url and user are required", shared.ErrValidation)
	}

	identity, err := s.resolver.Resolve(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	track := models.NewTrack(identity, rawURL, user)
	if err := s.tracks.Create(track); err != nil {
		return nil, err
	}

	s.logger.Info("track saved", "id", track.ID, "title", track.Title, "cohort", track.Cohort())

	playlist, err := s.playlists.FindByCohort(track.Cohort())
	if err != nil {
		// The submission already succeeded; a failing lookup only costs
		// this track's fan-out.
		s.logger.Warn("cohort playlist lookup failed", "err", err)
		playlist = nil
	}

	if playlist == nil {
		s.sendOutcomes(outcomes, nil)
		return track, nil
	}

	go func() {
		// Detach from the request context so an early response does not
		// cancel the appends mid-flight.
		results := s.fanout.Append(context.WithoutCancel(ctx), playlist, track)
		for _, outcome := range results {
			if outcome.Status == AppendFailed {
				s.logger.Warn("fan-out append dropped", "platform", outcome.Platform, "err", outcome.Err)
			}
		}
		s.sendOutcomes(outcomes, results)
	}()

	return track, nil
}

// sendOutcomes reports fan-out outcomes through the channel without blocking.
func (s *Submissions) sendOutcomes(outcomes chan<- []AppendOutcome, results []AppendOutcome) {
	if outcomes == nil {
		return
	}
	select {
	case outcomes <- results:
	default:
	}
}
