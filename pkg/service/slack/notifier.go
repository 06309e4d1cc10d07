package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/secmon-lab/doubleblind/pkg/utils/logging"
	"github.com/slack-go/slack"
)

// Notifier posts progress events to one Slack channel. Messages name the
// prompt and the participant but never carry response content.
type Notifier struct {
	api       *slack.Client
	channelID string
	baseURL   string
}

var _ interfaces.Notifier = &Notifier{}

// Option is a functional option for Notifier configuration
type Option func(*notifierConfig)

type notifierConfig struct {
	apiURL  string
	baseURL string
}

// WithAPIURL points the client at another Slack API endpoint
func WithAPIURL(url string) Option {
	return func(c *notifierConfig) {
		c.apiURL = url
	}
}

// WithBaseURL adds a link to the prompt page on the given application URL
func WithBaseURL(url string) Option {
	return func(c *notifierConfig) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// New creates a notifier posting with the given bot token
func New(token, channelID string, opts ...Option) (*Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	var cfg notifierConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var slackOpts []slack.Option
	if cfg.apiURL != "" {
		slackOpts = append(slackOpts, slack.OptionAPIURL(cfg.apiURL))
	}

	return &Notifier{
		api:       slack.New(token, slackOpts...),
		channelID: channelID,
		baseURL:   cfg.baseURL,
	}, nil
}

// Verify checks the token against the Slack API
func (n *Notifier) Verify(ctx context.Context) error {
	resp, err := n.api.AuthTestContext(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to verify Slack token")
	}
	logging.From(ctx).Info("Slack notifier ready", "team", resp.Team, "bot_user", resp.User, "channel", n.channelID)
	return nil
}

// NotifySubmitted tells the channel that userName answered prompt
func (n *Notifier) NotifySubmitted(ctx context.Context, prompt *model.Prompt, userName string) error {
	text := fmt.Sprintf("%s submitted an answer to prompt #%d: %s", userName, prompt.Order, promptTitle(prompt))
	return n.post(ctx, prompt, text, ":pencil: "+text)
}

// NotifyCompleted tells the channel that both answers to prompt were acknowledged
func (n *Notifier) NotifyCompleted(ctx context.Context, prompt *model.Prompt) error {
	text := fmt.Sprintf("Prompt #%d is done: %s", prompt.Order, promptTitle(prompt))
	return n.post(ctx, prompt, text, ":white_check_mark: "+text+"\nBoth answers have been read.")
}

func (n *Notifier) post(ctx context.Context, prompt *model.Prompt, fallback, markdown string) error {
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, markdown, false, false), nil, nil),
	}
	if n.baseURL != "" {
		link := fmt.Sprintf("<%s/prompts/%s|Open prompt>", n.baseURL, prompt.ID)
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, link, false, false)))
	}

	_, ts, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(fallback, false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack message",
			goerr.V("channel_id", n.channelID),
			goerr.V("prompt_id", prompt.ID))
	}

	logging.From(ctx).Debug("Slack message posted", "channel_id", n.channelID, "ts", ts, "prompt_id", prompt.ID)
	return nil
}

func promptTitle(prompt *model.Prompt) string {
	if prompt.Title != "" {
		return prompt.Title
	}
	return prompt.Text
}
