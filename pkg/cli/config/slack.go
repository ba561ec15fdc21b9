package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notelab/braindump/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for digest delivery
type Slack struct {
	botToken string
	channel  string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Category:    "slack",
			Usage:       "Slack bot token for digest delivery",
			Sources:     cli.EnvVars("BRAINDUMP_SLACK_BOT_TOKEN"),
			Destination: &x.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Category:    "slack",
			Usage:       "Default Slack channel ID for digests",
			Sources:     cli.EnvVars("BRAINDUMP_SLACK_CHANNEL"),
			Destination: &x.channel,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("configured", x.botToken != ""),
		slog.String("channel", x.channel),
	)
}

// IsConfigured reports whether a bot token is present
func (x *Slack) IsConfigured() bool {
	return x.botToken != ""
}

// Channel returns the default delivery channel ID
func (x *Slack) Channel() string {
	return x.channel
}

// Configure creates the Slack messenger, or nil when no token is set
func (x *Slack) Configure() (slack.Service, error) {
	if x.botToken == "" {
		return nil, nil
	}

	svc, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}
	return svc, nil
}
