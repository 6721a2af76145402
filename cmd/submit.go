package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ripcast/internal/covers"
	"github.com/desertthunder/ripcast/internal/repositories"
	"github.com/desertthunder/ripcast/internal/shared"
	"github.com/desertthunder/ripcast/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Submit posts one download job to the admin service.
func (r *Runner) Submit(ctx context.Context, cmd *cli.Command) error {
	playlistURL := cmd.StringArg("url")
	if playlistURL == "" {
		return fmt.Errorf("%w: playlist URL argument is required", shared.ErrMissingArgument)
	}

	engine := r.engine
	if !cmd.Bool("no-record") {
		if db, err := r.openDatabase(); err != nil {
			r.logger.Warn("submission log unavailable", "error", err)
		} else {
			defer db.Close()
			engine = tasks.NewSubmitEngine(r.api, repositories.NewSubmissionLog(db), r.logger)
		}
	}

	result, err := engine.Submit(ctx, playlistURL, cmd.String("source"), cmd.String("fallback-source"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlain("✓ Download started\n")
	r.writePlain("Task: %s (%s)\n", result.TaskID, result.Status)
	return nil
}

// Downloads prints the admin service's active downloads summary.
func (r *Runner) Downloads(ctx context.Context, cmd *cli.Command) error {
	result, err := r.engine.ActiveDownloads(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Active Downloads")
	if len(result.Active) == 0 {
		r.writePlain("none\n")
	}
	for _, id := range result.Active {
		r.writePlain("  %s\n", id)
	}
	r.writePlainln("clients: %d · playlists: %d · tracks: %d",
		result.TotalClients, result.TotalPlaylists, result.TotalTracks)

	if db, err := r.openDatabase(); err == nil {
		defer db.Close()
		subs, err := repositories.NewSubmissionLog(db).List()
		if err != nil {
			r.logger.Warn("failed to read submission log", "error", err)
			return nil
		}
		if len(subs) > 0 {
			r.writePlainHeader("Recent Submissions")
			for _, sub := range subs {
				r.writePlain("  %s  %s (task %s)\n", sub.SubmittedAt.Format("2006-01-02 15:04"), sub.URL, sub.TaskID)
			}
		}
	}
	return nil
}

// Cover resolves cover art for a single artist/title pair.
func (r *Runner) Cover(ctx context.Context, cmd *cli.Command) error {
	artist := cmd.StringArg("artist")
	title := cmd.StringArg("title")
	if artist == "" || title == "" {
		return fmt.Errorf("%w: artist and title arguments are required", shared.ErrMissingArgument)
	}

	var cache covers.Cache
	if !cmd.Bool("no-cache") {
		if db, err := r.openDatabase(); err != nil {
			r.logger.Warn("cover cache unavailable", "error", err)
		} else {
			defer db.Close()
			cache = repositories.NewCoverCache(db)
		}
	}

	radioCfg := r.config.Radio
	resolver := covers.NewResolver(radioCfg.CoverAPIURL, radioCfg.DefaultCoverURL, r.httpClient, cache, r.logger)

	return r.writePlain("%s\n", resolver.Lookup(ctx, artist, title))
}
