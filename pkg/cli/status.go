package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/cli/config"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/domain/types"
	"github.com/secmon-lab/doubleblind/pkg/usecase"
	"github.com/secmon-lab/doubleblind/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdStatus() *cli.Command {
	var repoCfg config.Repository
	var userID string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "Participant user ID (identity provider subject) to show statuses for",
			Sources:     cli.EnvVars("DOUBLEBLIND_USER"),
			Required:    true,
			Destination: &userID,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "status",
		Usage: "Print every prompt with its status for one participant",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo, "repository")

			uc := usecase.New(repo)
			views, err := uc.Prompt.ListPromptViews(ctx, types.UserID(userID))
			if err != nil {
				return goerr.Wrap(err, "failed to list prompts", goerr.V("user_id", userID))
			}

			return printStatus(os.Stdout, views)
		},
	}
}

var statusColors = map[types.PromptStatus]*color.Color{
	types.PromptStatusIncomplete:     color.New(color.FgWhite),
	types.PromptStatusPendingPartner: color.New(color.FgYellow),
	types.PromptStatusLocked:         color.New(color.FgRed),
	types.PromptStatusReadyForReview: color.New(color.FgCyan, color.Bold),
	types.PromptStatusDone:           color.New(color.FgGreen),
}

// printStatus writes one line per prompt. Response content is never printed,
// only whether each side has submitted.
func printStatus(w io.Writer, views []*model.PromptView) error {
	counts := make(map[types.PromptStatus]int)

	for _, v := range views {
		counts[v.Status]++

		badge := fmt.Sprintf("[%s]", v.Status)
		if c, ok := statusColors[v.Status]; ok {
			badge = c.Sprint(badge)
		}

		title := v.Title
		if title == "" {
			title = v.Text
		}

		if _, err := fmt.Fprintf(w, "%3d %-20s %s (me: %s, partner: %s)\n",
			v.Order, badge, title, myState(v), partnerState(v)); err != nil {
			return goerr.Wrap(err, "failed to write status")
		}
	}

	if _, err := fmt.Fprintf(w, "\n%d prompts:", len(views)); err != nil {
		return goerr.Wrap(err, "failed to write status")
	}
	for _, s := range types.AllPromptStatuses() {
		if _, err := fmt.Fprintf(w, " %s=%d", s, counts[s]); err != nil {
			return goerr.Wrap(err, "failed to write status")
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return goerr.Wrap(err, "failed to write status")
	}
	return nil
}

func myState(v *model.PromptView) string {
	switch {
	case v.MyResponse == nil:
		return "none"
	case v.MyResponse.IsSubmitted:
		return "submitted"
	default:
		return "draft"
	}
}

func partnerState(v *model.PromptView) string {
	p := v.PartnerResponse
	switch {
	case p == nil:
		return "none"
	case !p.IsSubmitted:
		return "draft"
	case p.HasMyAcknowledgment:
		return "submitted, acknowledged"
	default:
		return "submitted"
	}
}
