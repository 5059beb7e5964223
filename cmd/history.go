package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/ytmb/internal/formatter"
	"github.com/desertthunder/ytmb/internal/models"
	"github.com/desertthunder/ytmb/internal/shared"
	"github.com/urfave/cli/v3"
)

// History fetches listening history from a running proxy and renders it in
// the requested format.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	baseURL := r.serverURL(cmd)
	limit := cmd.Int("limit")
	format := cmd.String("format")
	outPath := cmd.String("output")

	r.logger.Info("fetching history", "server", baseURL, "limit", limit)

	var tracks []models.Track
	path := fmt.Sprintf("/ytm/history?limit=%d", limit)
	if err := r.get(ctx, baseURL, path, &tracks); err != nil {
		return err
	}

	var rendered []byte
	switch format {
	case "json":
		return r.writeJSON(tracks, true)
	case "csv":
		data, err := formatter.TracksToCSV(tracks)
		if err != nil {
			return err
		}
		rendered = data
	case "markdown", "md":
		rendered = formatter.TracksToMarkdown("Listening History", tracks)
	case "plain", "":
		rendered = formatter.TracksToPlain(tracks)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, rendered, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		r.writePlainln("Wrote %d tracks to %s", len(tracks), outPath)
		return nil
	}

	if _, err := r.output.Write(rendered); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Fetch listening history from a running proxy",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "Base URL of the proxy (defaults to the configured bind address)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of rows to return",
				Value: 50,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: plain, json, csv, markdown",
				Value:   "plain",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (defaults to stdout)",
			},
		},
		Action: r.History,
	}
}
