// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// serveCommand starts the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// submitCommand submits a track URL on behalf of a user.
func submitCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "submit",
		Usage: "Submit a track URL and sync it to the cohort's playlists",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "url",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user",
				Aliases:  []string{"u"},
				Usage:    "Submitter name",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "team",
				Usage: "Submitter team",
			},
			&cli.StringFlag{
				Name:  "role",
				Usage: "Submitter role",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Submit,
	}
}

// playlistCommand builds or fetches a cohort playlist.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Find or create the playlist for a (team, role) cohort",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "team",
				Usage: "Team filter",
			},
			&cli.StringFlag{
				Name:  "role",
				Usage: "Role filter",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Playlist,
	}
}

// tracksCommand lists submitted tracks.
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "List submitted tracks, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "team",
				Usage: "Team filter",
			},
			&cli.StringFlag{
				Name:  "role",
				Usage: "Role filter",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Export to CSV at the given path ('-' derives a name)",
			},
		},
		Action: r.Tracks,
	}
}

// teamsCommand lists and registers team names.
func teamsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "teams",
		Usage: "List or add team names",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List known teams",
				Action: r.TeamsList,
			},
			{
				Name:  "add",
				Usage: "Register a team name",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.TeamsAdd,
			},
		},
	}
}

// rolesCommand lists and registers role names.
func rolesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "roles",
		Usage: "List or add role names",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List known roles",
				Action: r.RolesList,
			},
			{
				Name:  "add",
				Usage: "Register a role name",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.RolesAdd,
			},
		},
	}
}
