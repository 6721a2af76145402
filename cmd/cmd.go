// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// monitorCommand watches download progress, interactively or as an export.
func monitorCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "monitor",
		Aliases: []string{"mon"},
		Usage:   "Watch live download progress from the admin service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Monitor,
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Capture the stream for a while and print a snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: markdown, csv, or html",
						Value:   "markdown",
					},
					&cli.DurationFlag{
						Name:    "duration",
						Aliases: []string{"d"},
						Usage:   "How long to listen before rendering",
						Value:   exportDefaultDuration,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stdout)",
					},
				},
				Action: r.MonitorExport,
			},
		},
	}
}

// radioCommand launches the radio player TUI.
func radioCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "radio",
		Usage: "Play the radio stream with live metadata, history, and artwork",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-audio",
				Usage: "Metadata only, never start the audio player",
			},
			&cli.BoolFlag{
				Name:  "autoplay",
				Usage: "Start audio playback immediately",
			},
		},
		Action: r.Radio,
	}
}

// submitCommand posts one download job without entering the TUI.
func submitCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "submit",
		Usage: "Submit a playlist URL for download",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "url",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "Preferred download source",
			},
			&cli.StringFlag{
				Name:  "fallback-source",
				Usage: "Fallback download source",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "no-record",
				Usage: "Skip recording the submission locally",
			},
		},
		Action: r.Submit,
	}
}

// downloadsCommand prints the admin service's active downloads summary.
func downloadsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "downloads",
		Aliases: []string{"dl"},
		Usage:   "Show active downloads on the admin service",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Downloads,
	}
}

// coverCommand resolves cover art for a single track.
func coverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cover",
		Usage: "Look up cover art for a track",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "artist",
			},
			&cli.StringArg{
				Name: "title",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Bypass the local cover cache",
			},
		},
		Action: r.Cover,
	}
}

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
