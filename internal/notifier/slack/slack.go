package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/icf-tools/matchday/internal/matchmaking"
	"github.com/icf-tools/matchday/internal/metrics"
	"github.com/icf-tools/matchday/internal/notifier"
	"github.com/icf-tools/matchday/internal/tournament"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api               slackClient
	scheduleChannelID string
	resultsChannelID  string
	reportsChannelID  string
	metrics           metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, scheduleChannelID, resultsChannelID, reportsChannelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:               api,
		scheduleChannelID: scheduleChannelID,
		resultsChannelID:  resultsChannelID,
		reportsChannelID:  reportsChannelID,
		metrics:           metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, scheduleChannelID, resultsChannelID, reportsChannelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:               api,
		scheduleChannelID: scheduleChannelID,
		resultsChannelID:  resultsChannelID,
		reportsChannelID:  reportsChannelID,
		metrics:           metrics,
	}
}

func (s *Notifier) sendMessage(channelID string, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// hostChannel falls back to the shared schedule channel when an event
// was created without a dedicated channel.
func (s *Notifier) hostChannel(event *tournament.Event) string {
	if event.HostChannel != "" {
		return event.HostChannel
	}
	return s.scheduleChannelID
}

// Implement the Notifier interface
func (s *Notifier) SendMatchScheduled(event *tournament.Event, dryRun bool) error {
	msg := s.formatMatchScheduled(event)
	_, _, err := s.sendMessage(s.scheduleChannelID, msg, dryRun)
	if err != nil {
		return err
	}
	if s.hostChannel(event) != s.scheduleChannelID {
		_, _, err = s.sendMessage(s.hostChannel(event), msg, dryRun)
	}
	return err
}

func (s *Notifier) SendJudgeAssigned(event *tournament.Event, judgeID string, dryRun bool) error {
	msg := s.formatJudgeAssigned(event, judgeID)
	_, _, err := s.sendMessage(s.hostChannel(event), msg, dryRun)
	return err
}

func (s *Notifier) SendJudgeReleased(event *tournament.Event, judgeID string, dryRun bool) error {
	msg := s.formatJudgeReleased(event, judgeID)
	_, _, err := s.sendMessage(s.hostChannel(event), msg, dryRun)
	return err
}

func (s *Notifier) SendJudgeExchanged(event *tournament.Event, oldJudgeID, newJudgeID string, dryRun bool) error {
	msg := s.formatJudgeExchanged(event, oldJudgeID, newJudgeID)
	_, _, err := s.sendMessage(s.hostChannel(event), msg, dryRun)
	return err
}

func (s *Notifier) SendMatchReminder(event *tournament.Event, dryRun bool) error {
	msg := s.formatMatchReminder(event)
	_, _, err := s.sendMessage(s.hostChannel(event), msg, dryRun)
	return err
}

func (s *Notifier) SendMatchResult(result *tournament.Result, dryRun bool) error {
	msg := s.formatMatchResult(result)
	_, _, err := s.sendMessage(s.resultsChannelID, msg, dryRun)
	return err
}

func (s *Notifier) SendStaffReport(result *tournament.Result, dryRun bool) error {
	msg := s.formatStaffReport(result)
	_, _, err := s.sendMessage(s.reportsChannelID, msg, dryRun)
	return err
}

// FormatEventCreatedResponse formats a confirmation message for the event-create slash command.
func (s *Notifier) FormatEventCreatedResponse(event *tournament.Event) (any, error) {
	return s.formatEventCreatedResponse(event), nil
}

// FormatEventDeletedResponse formats a confirmation message for the event-delete slash command.
func (s *Notifier) FormatEventDeletedResponse(event *tournament.Event) (any, error) {
	return s.formatEventDeletedResponse(event), nil
}

// FormatEventListResponse formats the upcoming events overview for a slash command response.
func (s *Notifier) FormatEventListResponse(events []*tournament.Event) (any, error) {
	return s.formatEventList(events), nil
}

// FormatRejectionResponse formats a message explaining why a schedule operation was refused.
func (s *Notifier) FormatRejectionResponse(reason, detail string) (any, error) {
	return s.formatRejection(reason, detail), nil
}

// FormatRulesResponse formats the current tournament rules for a slash command response.
func (s *Notifier) FormatRulesResponse(rules *tournament.Rules) (any, error) {
	return s.formatRules(rules), nil
}

// FormatResultRecordedResponse confirms the event-result slash command to its caller.
func (s *Notifier) FormatResultRecordedResponse(result *tournament.Result) (any, error) {
	return s.formatResultRecorded(result), nil
}

// FormatTeamBalanceResponse formats the balanced team split for a slash command response.
func (s *Notifier) FormatTeamBalanceResponse(split matchmaking.TeamSplit) (any, error) {
	return s.formatTeamBalance(split), nil
}

// FormatChoiceResponse formats the outcome of the choose command.
func (s *Notifier) FormatChoiceResponse(choice *matchmaking.Choice) (any, error) {
	return s.formatChoice(choice), nil
}

// FormatTimeSlotResponse formats the randomly drawn match time.
func (s *Notifier) FormatTimeSlotResponse(slot string) (any, error) {
	return s.formatTimeSlot(slot), nil
}

// FormatTieBreakerResponse formats the tie-breaker verdict.
func (s *Notifier) FormatTieBreakerResponse(result *matchmaking.TieBreak) (any, error) {
	return s.formatTieBreaker(result), nil
}
