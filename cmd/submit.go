package main

import (
	"context"
	"fmt"
	"time"

	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/shared"
	"github.com/iuliopime/bmat/internal/tasks"
	"github.com/iuliopime/bmat/internal/ui"
	"github.com/urfave/cli/v3"
)

// fanoutWait bounds how long the CLI lingers for fan-out outcomes after the
// track is saved. The appends keep running past it.
const fanoutWait = 20 * time.Second

// Submit submits one track URL and reports the resolved identity plus the
// fan-out outcome per platform.
func (r *Runner) Submit(ctx context.Context, cmd *cli.Command) error {
	rawURL := cmd.StringArg("url")
	if rawURL == "" {
		return fmt.Errorf("%w: track url is required", shared.ErrMissingArgument)
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	user := models.SoftUser{
		Name: cmd.String("user"),
		Team: cmd.String("team"),
		Role: cmd.String("role"),
	}

	outcomes := make(chan []tasks.AppendOutcome, 1)
	track, err := store.submissions.Submit(ctx, outcomes, rawURL, user)
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, true)
	}

	r.writePlain("%s\n", ui.OK("Track saved"))
	r.writePlain("Title: %s\n", track.Title)
	r.writePlain("Cohort: %s\n", track.Cohort())

	select {
	case results := <-outcomes:
		if results == nil {
			r.writePlain("%s\n", ui.Help("No playlist exists for this cohort yet; run 'bmat playlist' to build one"))
			return nil
		}
		for _, outcome := range results {
			line := fmt.Sprintf("%s: %s", outcome.Platform, outcome.Status)
			switch outcome.Status {
			case tasks.AppendAdded:
				r.writePlain("%s\n", ui.OK(line))
			case tasks.AppendFailed:
				r.writePlain("%s\n", ui.Err(fmt.Sprintf("%s (%v)", line, outcome.Err)))
			default:
				r.writePlain("%s\n", ui.Help(line))
			}
		}
	case <-time.After(fanoutWait):
		r.writePlain("%s\n", ui.Warn("Playlist sync still running in the background"))
	case <-ctx.Done():
	}

	return nil
}
