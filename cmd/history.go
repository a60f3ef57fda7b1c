package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"tunebridge/internal/repositories"
)

// HistoryList prints recent conversion runs from the history database.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.InitSchema(db); err != nil {
		return err
	}

	runs, err := repositories.NewRunRepository(db).List(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		return r.writePlain("No saved runs\n")
	}

	r.writePlainHeader("Conversion Runs")
	for _, run := range runs {
		r.writePlain("#%d  %s  %s\n", run.Sequence, run.ID, run.CreatedAt.Format(time.DateTime))
		r.writePlain("    Source: %s\n", run.SourceURL)
		r.writePlain("    Matched %d/%d", run.Matched, run.TotalQueries)
		if run.PlaylistURL != "" {
			r.writePlain("  →  %s", run.PlaylistURL)
		}
		r.writePlain("\n")
	}

	return nil
}

// HistoryShow prints one run with its per-query outcomes.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.InitSchema(db); err != nil {
		return err
	}

	run, records, err := repositories.NewRunRepository(db).Get(id)
	if err != nil {
		return err
	}

	r.writePlainHeader("Run " + run.ID)
	r.writePlain("Created: %s\n", run.CreatedAt.Format(time.DateTime))
	r.writePlain("Source: %s\n", run.SourceURL)
	if run.PlaylistURL != "" {
		r.writePlain("Playlist: %s\n", run.PlaylistURL)
	}
	r.writePlain("Matched: %d  No match: %d  Failed: %d\n\n", run.Matched, run.NoMatch, run.Failed)

	for _, rec := range records {
		switch rec.Outcome {
		case "matched":
			r.writePlain("%3d. %s → %s", rec.Position, rec.Query, rec.Link)
			if rec.LowConfidence {
				r.writePlain("  (low confidence %.2f)", rec.Confidence)
			}
			r.writePlain("\n")
		default:
			r.writePlain("%3d. %s → %s\n", rec.Position, rec.Query, rec.Outcome)
		}
	}

	return nil
}

// historyCommand inspects saved conversion runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect saved conversion runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of runs to show",
						Value:   20,
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one run with its per-query outcomes",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.HistoryShow,
			},
		},
	}
}
