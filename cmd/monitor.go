package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ripcast/internal/formatter"
	"github.com/desertthunder/ripcast/internal/progress"
	"github.com/desertthunder/ripcast/internal/repositories"
	"github.com/desertthunder/ripcast/internal/shared"
	"github.com/desertthunder/ripcast/internal/tasks"
	"github.com/desertthunder/ripcast/internal/ui"
	"github.com/urfave/cli/v3"
)

// exportDefaultDuration is how long `monitor export` listens to the stream
// before rendering when no --duration is given.
const exportDefaultDuration = 5 * time.Second

// Monitor launches the interactive download monitor.
func (r *Runner) Monitor(ctx context.Context, cmd *cli.Command) error {
	if configPath := cmd.String("config"); configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if config, err := shared.LoadConfig(configPath); err == nil {
				r.config = config
			}
		}
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/ripcast-monitor.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine := r.engine
	if db, err := r.openDatabase(); err != nil {
		r.logger.Warn("submission log unavailable", "error", err)
	} else {
		defer db.Close()
		engine = tasks.NewSubmitEngine(r.api, repositories.NewSubmissionLog(db), r.logger)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := progress.NewStore()
	sub := progress.NewSubscriber(r.config.Admin.EventsURL(), nil, r.logger)
	go sub.Run(streamCtx)

	model := ui.NewMonitorModel(streamCtx, store, sub.Events(), engine)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// MonitorExport listens to the stream for a fixed window and renders the
// resulting snapshot.
func (r *Runner) MonitorExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	duration := cmd.Duration("duration")
	outputPath := cmd.String("output")

	streamCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	store := progress.NewStore()
	sub := progress.NewSubscriber(r.config.Admin.EventsURL(), nil, r.logger)
	go sub.Run(streamCtx)

	r.logger.Info("capturing event stream", "duration", duration)
	for ev := range sub.Events() {
		store.Apply(ev)
	}

	var data []byte
	var err error
	switch format {
	case "csv":
		data, err = formatter.ExportToCSV(store)
	case "html":
		data = formatter.ExportToHTML(store)
	case "markdown", "md":
		data = formatter.ExportToMarkdown(store)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("failed to render snapshot: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return r.writePlain("snapshot saved to %s\n", outputPath)
	}

	return r.writePlain("%s", data)
}
