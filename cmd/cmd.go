// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (txt, md, csv, json)",
			Value:   "txt",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "Write the report to a file instead of stdout",
		},
	}
}

func gameFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:    "player",
			Aliases: []string{"p"},
			Usage:   "Player name attached to share codes",
		},
		&cli.IntFlag{
			Name:  "round-seconds",
			Usage: "Round time limit in seconds (0 for no limit)",
			Value: -1,
		},
		&cli.StringFlag{
			Name:  "save",
			Usage: "Save the completed rounds as a challenge file",
		},
	}, outputFlags()...)
}

// playCommand starts a free-play game
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "play",
		Usage:  "Play the guessing game with one of your Spotify playlists",
		Flags:  gameFlags(),
		Action: r.Play,
	}
}

// challengeCommand handles challenge replay and inspection
func challengeCommand(r *Runner) *cli.Command {
	source := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{
				Name:  "code",
				Usage: "Share code",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "Challenge JSON file (challenge object or results array)",
			},
		}
	}

	return &cli.Command{
		Name:    "challenge",
		Aliases: []string{"ch"},
		Usage:   "Replay and compare challenges",
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "Replay the tracks of a challenge",
				Flags:  append(source(), gameFlags()...),
				Action: r.ChallengePlay,
			},
			{
				Name:  "show",
				Usage: "Print the rounds of a challenge",
				Flags: append(source(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				),
				Action: r.ChallengeShow,
			},
			{
				Name:  "compare",
				Usage: "Compare a replay against the original challenge",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "original",
						Usage:    "Original challenge (share code or file)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "replay",
						Usage:    "Replayed challenge (share code or file)",
						Required: true,
					},
				}, outputFlags()...),
				Action: r.ChallengeCompare,
			},
		},
	}
}

// spotifyCommand handles Spotify operations
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "playlists",
				Usage: "List Spotify playlists",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to return",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SpotifyPlaylists,
			},
			{
				Name:  "tracks",
				Usage: "List the tracks of a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SpotifyTracks,
			},
		},
	}
}

// cacheCommand handles the local track metadata cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the local track cache",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show cached track counts per service",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheStats,
			},
			{
				Name:  "clear",
				Usage: "Remove cached tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "service",
						Usage: "Only clear tracks of this service",
					},
				},
				Action: r.CacheClear,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	configFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   configFile,
		}
	}

	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recently applied migration",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
