package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"tunebridge/internal/formatter"
	"tunebridge/internal/repositories"
	"tunebridge/internal/services"
	"tunebridge/internal/tasks"
	"tunebridge/internal/ui"
)

// ConvertLinks resolves every track in the playlist and prints the matched
// video URLs without creating a playlist.
func (r *Runner) ConvertLinks(ctx context.Context, cmd *cli.Command) error {
	playlistURL := cmd.StringArg("url")

	platform, err := r.youtubePlatform(ctx)
	if err != nil {
		return err
	}

	engine, err := r.newEngine(platform)
	if err != nil {
		return err
	}

	result, err := r.runConvert(ctx, engine, playlistURL)
	if err != nil {
		return err
	}

	r.writePlainln("Matched video URLs:")
	for _, link := range result.Links {
		r.writePlain("%s\n", link)
	}

	r.reportUnmatched(result)
	return nil
}

// ConvertRun runs the full conversion: resolve every track, create the
// YouTube playlist, and insert each matched video.
func (r *Runner) ConvertRun(ctx context.Context, cmd *cli.Command) error {
	playlistURL := cmd.StringArg("url")
	title := cmd.String("title")
	description := cmd.String("description")

	visibility, err := services.ParseVisibility(cmd.String("visibility"))
	if err != nil {
		return err
	}

	platform, err := r.youtubePlatform(ctx)
	if err != nil {
		return err
	}

	engine, err := r.newEngine(platform)
	if err != nil {
		return err
	}

	if cmd.Bool("interactive") {
		return r.runInteractive(ctx, engine, playlistURL, ui.PublishOpts{
			Title:       title,
			Description: description,
			Visibility:  visibility,
		})
	}

	result, err := r.runConvert(ctx, engine, playlistURL)
	if err != nil {
		return err
	}

	r.reportUnmatched(result)

	var pub *tasks.PublishResult
	if result.MatchedCount > 0 {
		pub, err = r.runPublish(ctx, engine, result, title, description, visibility)
		if err != nil {
			return err
		}
	} else {
		r.writePlainln("No tracks matched - skipping playlist creation")
	}

	r.writePlain("\n")
	r.writePlainHeader("Conversion Complete!")
	r.writePlain("Source: %s\n", result.SourceURL)
	r.writePlain("Match rate: %d/%d (%.1f%%)\n", result.MatchedCount, result.TotalQueries, result.MatchPercentage())
	if pub != nil {
		r.writePlain("Playlist: %s\n", pub.PlaylistURL)
		r.writePlain("Videos added: %d/%d\n", pub.Added, result.MatchedCount)
	}

	if cmd.Bool("save") {
		if err := r.saveRun(result, pub); err != nil {
			return err
		}
	}

	if path := cmd.String("export"); path != "" {
		written, err := formatter.WriteExport(result, pub, path)
		if err != nil {
			return fmt.Errorf("failed to export report: %w", err)
		}
		r.writePlain("Report exported to %s\n", written)
	}

	return nil
}

// runConvert drives the conversion pipeline with progress printed per query.
func (r *Runner) runConvert(ctx context.Context, engine *tasks.ConvertEngine, playlistURL string) (*tasks.ConvertResult, error) {
	r.logger.Info("starting conversion", "url", playlistURL)
	r.writePlain("Converting playlist...\n")
	r.writePlain("Source: %s\n\n", playlistURL)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ExtractTracks:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ResolveQueries:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Convert(ctx, playlistURL, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return nil, err
	}

	return result, nil
}

// runPublish creates the playlist and inserts matched videos with progress
// printed per insert.
func (r *Runner) runPublish(ctx context.Context, engine *tasks.ConvertEngine, result *tasks.ConvertResult, title, description string, visibility services.Visibility) (*tasks.PublishResult, error) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.CreatePlaylist:
				r.writePlain("\n📝 %s\n", update.Message)
			case tasks.AddVideos:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	pub, err := engine.Publish(ctx, result, title, description, visibility, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return nil, err
	}

	return pub, nil
}

// reportUnmatched prints every query that produced no link, so nothing is
// silently dropped.
func (r *Runner) reportUnmatched(result *tasks.ConvertResult) {
	if result.NoMatchCount == 0 && result.FailedCount == 0 {
		return
	}

	r.writePlainln("Queries without a matched video:")
	for _, qr := range result.Results {
		switch qr.Outcome {
		case tasks.OutcomeNoMatch:
			r.writePlain("  - %s (no match)\n", qr.Query)
		case tasks.OutcomeFailed:
			r.writePlain("  - %s (search failed: %v)\n", qr.Query, qr.Err)
		}
	}
}

// saveRun records the conversion in the run history database.
func (r *Runner) saveRun(result *tasks.ConvertResult, pub *tasks.PublishResult) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.InitSchema(db); err != nil {
		return err
	}

	run, err := repositories.NewRunRepository(db).Save(result, pub)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	r.logger.Info("run saved", "id", run.ID)
	return r.writePlain("Run saved as %s\n", run.ID)
}

// runInteractive renders the conversion as a live TUI.
func (r *Runner) runInteractive(ctx context.Context, engine *tasks.ConvertEngine, playlistURL string, opts ui.PublishOpts) error {
	model := ui.NewModel(ctx, engine, playlistURL, opts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// convertCommand handles playlist conversion operations.
func convertCommand(r *Runner) *cli.Command {
	urlArg := func() cli.Argument {
		return &cli.StringArg{
			Name: "url",
		}
	}

	return &cli.Command{
		Name:  "convert",
		Usage: "Convert a Spotify playlist to a YouTube playlist",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Resolve every track and create the YouTube playlist",
				Arguments: []cli.Argument{urlArg()},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Title for the created playlist",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Description for the created playlist",
					},
					&cli.StringFlag{
						Name:  "visibility",
						Usage: "Playlist visibility (public, unlisted, private)",
						Value: "private",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Record this run in the history database",
					},
					&cli.StringFlag{
						Name:  "export",
						Usage: "Write a conversion report to this path (.csv, .md, or .txt)",
					},
					&cli.BoolFlag{
						Name:    "interactive",
						Aliases: []string{"i"},
						Usage:   "Run with a live terminal UI",
					},
				},
				Action: r.ConvertRun,
			},
			{
				Name:      "links",
				Usage:     "Resolve every track and print the matched video URLs",
				Arguments: []cli.Argument{urlArg()},
				Action:    r.ConvertLinks,
			},
		},
	}
}
