package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/iuliopime/bmat/internal/repositories"
	"github.com/iuliopime/bmat/internal/shared"
	"github.com/iuliopime/bmat/internal/ui"
	"github.com/urfave/cli/v3"
)

// TeamsList lists known team names, falling back to the configured static
// list when storage is unavailable.
func (r *Runner) TeamsList(ctx context.Context, cmd *cli.Command) error {
	return r.listNames("Teams", func(s *store) *repositories.NameRepository { return s.teams }, r.config.Fallbacks.Teams)
}

// TeamsAdd registers a team name. Re-adding an existing name is a no-op.
func (r *Runner) TeamsAdd(ctx context.Context, cmd *cli.Command) error {
	return r.addName(cmd.StringArg("name"), func(s *store) *repositories.NameRepository { return s.teams })
}

// RolesList lists known role names, falling back to the configured static
// list when storage is unavailable.
func (r *Runner) RolesList(ctx context.Context, cmd *cli.Command) error {
	return r.listNames("Roles", func(s *store) *repositories.NameRepository { return s.roles }, r.config.Fallbacks.Roles)
}

// RolesAdd registers a role name. Re-adding an existing name is a no-op.
func (r *Runner) RolesAdd(ctx context.Context, cmd *cli.Command) error {
	return r.addName(cmd.StringArg("name"), func(s *store) *repositories.NameRepository { return s.roles })
}

func (r *Runner) listNames(title string, pick func(*store) *repositories.NameRepository, fallback []string) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	names, err := pick(store).List()
	if err != nil {
		r.logger.Warn("falling back to static names", "err", err)
		names = fallback
	}

	r.writePlain("%s\n", ui.Title(title))
	for _, name := range names {
		r.writePlain("  %s\n", name)
	}
	return nil
}

func (r *Runner) addName(name string, pick func(*store) *repositories.NameRepository) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", shared.ErrMissingArgument)
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := pick(store).Add(name); err != nil {
		return fmt.Errorf("failed to add name: %w", err)
	}

	r.writePlain("%s\n", ui.OK("Added "+name))
	return nil
}
