package main

import (
	"context"
	"fmt"

	"github.com/iuliopime/bmat/internal/formatter"
	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/ui"
	"github.com/urfave/cli/v3"
)

// Playlist finds or creates the playlist for a cohort and prints its links.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	cohort := models.CohortFrom(cmd.String("team"), cmd.String("role"))

	result, err := store.manager.FindOrCreate(ctx, cohort)
	if err != nil {
		return fmt.Errorf("playlist build failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	if result.Created {
		r.writePlain("%s\n", ui.OK("Playlist created"))
	} else {
		r.writePlain("%s\n", ui.Help("Reusing existing playlist"))
	}
	r.writePlain("%s", formatter.PlaylistToText(result.Playlist, result.Links))

	return nil
}
