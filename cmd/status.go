package main

import (
	"context"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/ytmb/internal/services"
	"github.com/urfave/cli/v3"
)

var (
	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	badStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
	headStyle = lipgloss.NewStyle().Bold(true)
)

// Status reports the health of a running proxy and its YouTube Music session.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	baseURL := r.serverURL(cmd)
	r.writePlainln("%s", headStyle.Render("ytmb @ "+baseURL))

	var health struct {
		Status string `json:"status"`
	}
	if err := r.get(ctx, baseURL, "/healthz", &health); err != nil {
		r.writePlainln("%s server unreachable: %v", badStyle.Render("✗"), err)
		return err
	}
	r.writePlainln("%s server: %s", okStyle.Render("✓"), health.Status)

	var result services.ValidationResult
	if err := r.get(ctx, baseURL, "/ytm/validate", &result); err != nil {
		r.writePlainln("%s validate: %v", badStyle.Render("✗"), err)
		return err
	}

	if result.OK {
		r.writePlainln("%s session: %s", okStyle.Render("✓"), result.Message)
		for _, track := range result.Sample {
			r.writePlainln("  %s", dimStyle.Render(track.Title))
		}
	} else {
		r.writePlainln("%s session: %s", badStyle.Render("✗"), result.Message)
	}

	return nil
}

func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Check health and session state of a running proxy",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "Base URL of the proxy (defaults to the configured bind address)",
			},
		},
		Action: r.Status,
	}
}
