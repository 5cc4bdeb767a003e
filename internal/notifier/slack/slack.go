package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier mirrors club notifications into a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier. An empty token yields a notifier that
// only logs what it would have sent.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	n := &Notifier{
		channelID: channelID,
		metrics:   metrics,
	}
	if token != "" {
		n.api = slack.New(token)
	} else {
		log.Warn("Slack token not configured, notifications will only be logged")
	}
	return n
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendNotification(ctx context.Context, recipient club.UserRef, n club.Notification, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, formatNotification(recipient, n), dryRun)
	return err
}

func (s *Notifier) SendDecision(ctx context.Context, d notifier.Decision, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, formatDecision(d), dryRun)
	return err
}

func (s *Notifier) SendSessionSummary(ctx context.Context, session club.Session, summary club.SessionSummary, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, formatSessionSummary(session, summary), dryRun)
	return err
}

func formatNotification(recipient club.UserRef, n club.Notification) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "🔔 "+n.Title, true, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", n.Message, true, false), nil, nil),
		slack.NewContextBlock("", slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("For *%s*", recipient.Username), false, false)),
	}
	return slack.NewBlockMessage(blocks...)
}

func decisionEmoji(status club.Status) string {
	switch status {
	case club.StatusApproved, club.StatusAccepted:
		return "✅"
	case club.StatusRejected:
		return "❌"
	}
	return "ℹ️"
}

func formatDecision(d notifier.Decision) slack.Message {
	header := fmt.Sprintf("%s %s %s", decisionEmoji(d.Status), capitalize(string(d.Kind)), d.Status)
	text := fmt.Sprintf("*%s* was %s by %s.", d.Subject, d.Status, d.Actor.Username)
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", header, true, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	}
	if strings.TrimSpace(d.Remarks) != "" {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", "Remarks: "+d.Remarks, true, false)))
	}
	return slack.NewBlockMessage(blocks...)
}

func formatSessionSummary(session club.Session, summary club.SessionSummary) slack.Message {
	header := fmt.Sprintf("🏁 Session ended: %s", session.Title)
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Sport*\n%s", session.Sport.Name), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Players*\n%d", summary.TotalPlayers), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Attended*\n%d", summary.Attended), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Absent*\n%d", summary.Absent), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Average rating*\n%.2f", summary.AverageRating), false, false),
	}
	return slack.NewBlockMessage(
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", header, true, false)),
		slack.NewSectionBlock(nil, fields, nil),
	)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
