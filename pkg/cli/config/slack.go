package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds notification settings. Notifications are off when the bot
// token is unset.
type Slack struct {
	botToken  string
	channelID string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token for progress notifications",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("DOUBLEBLIND_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID receiving notifications",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("DOUBLEBLIND_SLACK_CHANNEL_ID"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured checks if a bot token is set
func (x *Slack) IsConfigured() bool {
	return x.botToken != ""
}

// Configure creates the Slack notifier and checks the token. It returns nil
// when Slack is not configured.
func (x *Slack) Configure(ctx context.Context, baseURL string) (interfaces.Notifier, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	if x.channelID == "" {
		return nil, goerr.Wrap(ErrMissingSetting, "--slack-channel-id is required with --slack-bot-token",
			goerr.V(FlagKey, "slack-channel-id"))
	}

	notifier, err := slack.New(x.botToken, x.channelID, slack.WithBaseURL(baseURL))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Slack notifier")
	}
	if err := notifier.Verify(ctx); err != nil {
		return nil, err
	}
	return notifier, nil
}
