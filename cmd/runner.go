package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/iuliopime/bmat/internal/formatter"
	"github.com/iuliopime/bmat/internal/repositories"
	"github.com/iuliopime/bmat/internal/services"
	"github.com/iuliopime/bmat/internal/shared"
	"github.com/iuliopime/bmat/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	adapters []services.Adapter
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Adapters []services.Adapter
	Logger   *log.Logger
	Output   io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:   opts.Config,
		adapters: opts.Adapters,
		logger:   opts.Logger,
		output:   opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, submitCommand, playlistCommand, tracksCommand, teamsCommand, rolesCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// store bundles the database with the repositories and engines built on it.
// Callers own the database handle and must Close it.
type store struct {
	db          *sql.DB
	tracks      *repositories.TrackRepository
	playlists   *repositories.PlaylistRepository
	teams       *repositories.NameRepository
	roles       *repositories.NameRepository
	submissions *tasks.Submissions
	manager     *tasks.PlaylistManager
}

func (s *store) Close() error { return s.db.Close() }

// openStore opens the configured database and wires the repositories and
// engines over it.
func (r *Runner) openStore() (*store, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	tracks := repositories.NewTrackRepository(db)
	playlists := repositories.NewPlaylistRepository(db)

	resolver := tasks.NewResolver(r.logger, r.adapters...)
	fanout := tasks.NewFanout(r.logger, r.adapters...)

	return &store{
		db:          db,
		tracks:      tracks,
		playlists:   playlists,
		teams:       repositories.NewTeamRepository(db),
		roles:       repositories.NewRoleRepository(db),
		submissions: tasks.NewSubmissions(resolver, fanout, tracks, playlists, r.logger),
		manager: tasks.NewPlaylistManager(playlists, tracks,
			r.config.Credentials.SoundCloud.Profile, r.logger, r.adapters...),
	}, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = formatter.ToJSON(data)
	} else if output, err = json.Marshal(data); err != nil {
		err = fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err != nil {
		return err
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
