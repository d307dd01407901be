// Package notify posts upload summaries to Slack for CI visibility.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

// slackAPI is the slice of the Slack client this package uses.
type slackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier sends messages to a single channel.
type SlackNotifier struct {
	client  slackAPI
	channel string
}

// NewSlackFromEnv builds a notifier from viper config and the environment.
// Returns nil when notifications are disabled or no token is set; callers
// treat a nil notifier as "do nothing".
func NewSlackFromEnv() *SlackNotifier {
	if !viper.GetBool("notifications.slack.enabled") {
		return nil
	}

	token := os.Getenv("SLACK_BOT_USER_TOKEN")
	if token == "" {
		slog.Warn("SLACK_BOT_USER_TOKEN not set, slack notifications disabled")
		return nil
	}

	return &SlackNotifier{
		client:  slack.New(token),
		channel: viper.GetString("notifications.slack.channel"),
	}
}

// Notify posts a message to the configured channel.
func (s *SlackNotifier) Notify(ctx context.Context, message string) error {
	if s == nil {
		return nil
	}
	if _, _, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(message, false)); err != nil {
		return fmt.Errorf("failed to send slack notification: %w", err)
	}
	return nil
}
