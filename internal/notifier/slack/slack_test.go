package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/notifier"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	calls                  int
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.calls++
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	api := &mockSlackAPI{}
	n := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := n.sendMessage(context.Background(), slackapi.NewBlockMessage(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, api.calls)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_NoTokenOnlyLogs(t *testing.T) {
	metrics := metrics.NewMock()
	n := NewNotifier("", "C123", metrics)

	err := n.SendNotification(context.Background(), club.UserRef{Username: "ana"}, club.Notification{Title: "Hi"}, false)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			assert.Equal(t, "C123", channelID)
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	n := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, ts, err := n.sendMessage(context.Background(), message, false)

	require.NoError(t, err)
	assert.Equal(t, "ts123", ts)
	assert.Equal(t, 1, api.calls)
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	n := NewNotifierWithAPI(api, "C123", metrics)

	err := n.SendDecision(context.Background(), notifier.Decision{Kind: club.KindProposal, Status: club.StatusApproved}, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 1, api.calls)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestFormatDecision(t *testing.T) {
	t.Run("rejection carries remarks", func(t *testing.T) {
		msg := formatDecision(notifier.Decision{
			Kind:    club.KindProposal,
			Status:  club.StatusRejected,
			Subject: "Falcons",
			Actor:   club.UserRef{Username: "maria"},
			Remarks: "Not enough players",
		})
		require.Len(t, msg.Blocks.BlockSet, 3)

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "❌ Team proposal rejected", header.Text.Text)

		section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "*Falcons* was rejected by maria.", section.Text.Text)

		ctxBlock, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
		require.True(t, ok)
		text, ok := ctxBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
		require.True(t, ok)
		assert.Equal(t, "Remarks: Not enough players", text.Text)
	})

	t.Run("blank remarks are omitted", func(t *testing.T) {
		msg := formatDecision(notifier.Decision{
			Kind:    club.KindLink,
			Status:  club.StatusAccepted,
			Subject: "Link with coach",
			Remarks: "  ",
		})
		assert.Len(t, msg.Blocks.BlockSet, 2)
		header := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		assert.Equal(t, "✅ Link request accepted", header.Text.Text)
	})
}

func TestFormatSessionSummary(t *testing.T) {
	session := club.Session{Title: "Nets", Sport: club.SportRef{Name: "Cricket"}}
	summary := club.SessionSummary{TotalPlayers: 5, Attended: 3, Absent: 2, AverageRating: 6.67}

	msg := formatSessionSummary(session, summary)
	require.Len(t, msg.Blocks.BlockSet, 2)

	header := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	assert.Equal(t, "🏁 Session ended: Nets", header.Text.Text)

	section := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.Len(t, section.Fields, 5)
	assert.Equal(t, "*Sport*\nCricket", section.Fields[0].Text)
	assert.Equal(t, "*Attended*\n3", section.Fields[2].Text)
	assert.Equal(t, "*Average rating*\n6.67", section.Fields[4].Text)
}
