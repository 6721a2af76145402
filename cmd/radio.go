package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ripcast/internal/covers"
	"github.com/desertthunder/ripcast/internal/player"
	"github.com/desertthunder/ripcast/internal/radio"
	"github.com/desertthunder/ripcast/internal/repositories"
	"github.com/desertthunder/ripcast/internal/shared"
	"github.com/desertthunder/ripcast/internal/ui"
	"github.com/urfave/cli/v3"
)

// Radio launches the radio player TUI.
func (r *Runner) Radio(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/ripcast-radio.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	var cache covers.Cache
	if db, err := r.openDatabase(); err != nil {
		r.logger.Warn("cover cache unavailable", "error", err)
	} else {
		defer db.Close()
		cache = repositories.NewCoverCache(db)
	}

	radioCfg := r.config.Radio
	resolver := covers.NewResolver(radioCfg.CoverAPIURL, radioCfg.DefaultCoverURL, r.httpClient, cache, r.logger)

	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	client := radio.NewClient(radioCfg.IcecastURL, r.httpClient)
	poller := radio.NewPoller(client, radioCfg.StreamMount, radioCfg.PollInterval(), r.logger)
	go poller.Run(pollCtx)

	publisher := player.NewPublisher(r.logger)
	defer publisher.Close()

	var proc *player.Player
	if !cmd.Bool("no-audio") {
		proc = player.New(r.config.Player.Command, r.config.Player.Args, r.logger)
		if cmd.Bool("autoplay") {
			if err := proc.Start(pollCtx, radioCfg.StreamURL); err != nil {
				r.logger.Warn("autoplay failed, continuing metadata-only", "error", err)
			}
		}
	}

	history := radio.NewHistory(radioCfg.HistoryLimit)
	model := ui.NewRadioModel(pollCtx, poller.Updates(), history, resolver, publisher, proc, radioCfg.StreamURL)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if proc != nil {
		proc.Stop()
	}
	return nil
}
