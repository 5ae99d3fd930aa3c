package main

import (
	"context"
	"fmt"

	"github.com/iuliopime/bmat/internal/formatter"
	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/ui"
	"github.com/urfave/cli/v3"
)

// Tracks lists submitted tracks for the given filters, newest first.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	cohort := models.CohortFrom(cmd.String("team"), cmd.String("role"))

	tracks, err := store.tracks.List(cohort)
	if err != nil {
		return fmt.Errorf("failed to list tracks: %w", err)
	}

	if path := cmd.String("csv"); path != "" {
		if path == "-" {
			path = ""
		}
		written, err := formatter.WriteCSVExport(cohort, tracks, path)
		if err != nil {
			return err
		}
		r.writePlain("%s\n", ui.OK("Exported "+written))
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	r.writePlain("%s", formatter.TracksToText(cohort, tracks))
	return nil
}
