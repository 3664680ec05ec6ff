package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/icf-tools/matchday/internal/matchmaking"
	"github.com/icf-tools/matchday/internal/metrics"
	"github.com/icf-tools/matchday/internal/tournament"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func testEvent() *tournament.Event {
	return &tournament.Event{
		ID:           "ev-1",
		Round:        2,
		Tournament:   "Winter Cup",
		DateLabel:    "14/02",
		TimeLabel:    "15:30 UTC",
		Team1Captain: "U111",
		Team2Captain: "U222",
		HostChannel:  "CHOST",
	}
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "CSCHED", "CRESULT", "CREPORT", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage("CSCHED", message, true)
	require.NoError(t, err)
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "CSCHED", channelID)
			return "CSCHED", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "CSCHED", "CRESULT", "CREPORT", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage("CSCHED", message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	postMessageCalled := false
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "CSCHED", "CRESULT", "CREPORT", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage("CSCHED", message, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendMatchScheduled_PostsToScheduleAndHostChannel(t *testing.T) {
	var channels []string
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			channels = append(channels, channelID)
			return channelID, "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "CSCHED", "CRESULT", "CREPORT", metrics)

	err := notifier.SendMatchScheduled(testEvent(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"CSCHED", "CHOST"}, channels)
}

func TestSendMatchReminder_FallsBackToScheduleChannel(t *testing.T) {
	var channels []string
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			channels = append(channels, channelID)
			return channelID, "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "CSCHED", "CRESULT", "CREPORT", metrics)

	event := testEvent()
	event.HostChannel = ""
	err := notifier.SendMatchReminder(event, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"CSCHED"}, channels)
}

func TestSendMatchResult_UsesResultsChannel(t *testing.T) {
	var channels []string
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			channels = append(channels, channelID)
			return channelID, "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "CSCHED", "CRESULT", "CREPORT", metrics)

	result := &tournament.Result{
		Winner:      "Alpha",
		WinnerScore: 3,
		Loser:       "Beta",
		LoserScore:  1,
		Tournament:  "Winter Cup",
		Round:       "2",
		Judge:       "U333",
	}
	require.NoError(t, notifier.SendMatchResult(result, false))
	require.NoError(t, notifier.SendStaffReport(result, false))
	assert.Equal(t, []string{"CRESULT", "CREPORT"}, channels)
}

func TestFormatMatchScheduled(t *testing.T) {
	client := &Notifier{scheduleChannelID: "CSCHED"}
	msg := client.formatMatchScheduled(testEvent())
	require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks")

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "Expected first block to be a HeaderBlock")
	assert.Contains(t, header.Text.Text, "New match scheduled")

	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok, "Expected second block to be a SectionBlock")
	assert.Contains(t, details.Text.Text, "Winter Cup")
	assert.Contains(t, details.Text.Text, "Round 2")
	assert.Contains(t, details.Text.Text, "14/02")
	assert.Contains(t, details.Text.Text, "15:30 UTC")

	captains, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok, "Expected third block to be a SectionBlock")
	assert.Contains(t, captains.Text.Text, "<@U111>")
	assert.Contains(t, captains.Text.Text, "<@U222>")
}

func TestFormatMatchReminder_JudgeLine(t *testing.T) {
	client := &Notifier{}

	event := testEvent()
	msg := client.formatMatchReminder(event)
	ctxBlock, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok, "Expected third block to be a ContextBlock")
	assert.Contains(t, ctxBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject).Text, "No judge")

	event.JudgeRef = "U333"
	msg = client.formatMatchReminder(event)
	ctxBlock, ok = msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok, "Expected third block to be a ContextBlock")
	assert.Contains(t, ctxBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject).Text, "<@U333>")
}

func TestFormatRejection(t *testing.T) {
	client := &Notifier{}

	tests := []struct {
		reason string
		detail string
		want   string
	}{
		{"not_found", "", "couldn't find"},
		{"busy", "", "Someone else"},
		{"unauthorized", "", "judge roster"},
		{"already_claimed", "U444", "<@U444>"},
		{"capacity_exceeded", "3", "maximum number"},
		{"not_holder", "", "don't hold"},
	}

	for _, tc := range tests {
		t.Run(tc.reason, func(t *testing.T) {
			msg := client.formatRejection(tc.reason, tc.detail)
			section, ok := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
			require.True(t, ok)
			assert.Contains(t, section.Text.Text, tc.want)
		})
	}
}

func TestFormatTieBreaker(t *testing.T) {
	client := &Notifier{}

	msg := client.formatTieBreaker(&matchmaking.TieBreak{
		Team1Name: "Alpha", Team1Total: 14,
		Team2Name: "Beta", Team2Total: 9,
		Winner: "Alpha",
	})
	section := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
	assert.Contains(t, section.Text.Text, "*Alpha* wins")

	msg = client.formatTieBreaker(&matchmaking.TieBreak{
		Team1Name: "Alpha", Team1Total: 7,
		Team2Name: "Beta", Team2Total: 7,
	})
	section = msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
	assert.Contains(t, section.Text.Text, "Still tied")
}

func TestFormatChoiceMaps(t *testing.T) {
	client := &Notifier{}

	msg := client.formatChoice(&matchmaking.Choice{Maps: []string{"Arctic", "Lost City"}})
	section := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
	assert.Contains(t, section.Text.Text, "2 map(s)")
	assert.Contains(t, section.Text.Text, "Arctic")
}
