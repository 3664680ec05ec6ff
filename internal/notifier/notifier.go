package notifier

import (
	"github.com/icf-tools/matchday/internal/matchmaking"
	"github.com/icf-tools/matchday/internal/tournament"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// Lifecycle notifications, delivered to the event's host channel (and,
	// for scheduling, the shared schedule channel).
	SendMatchScheduled(event *tournament.Event, dryRun bool) error
	SendJudgeAssigned(event *tournament.Event, judgeID string, dryRun bool) error
	SendJudgeReleased(event *tournament.Event, judgeID string, dryRun bool) error
	SendJudgeExchanged(event *tournament.Event, oldJudgeID, newJudgeID string, dryRun bool) error
	SendMatchReminder(event *tournament.Event, dryRun bool) error

	// Result recording.
	SendMatchResult(result *tournament.Result, dryRun bool) error
	SendStaffReport(result *tournament.Result, dryRun bool) error

	// For formatting responses for slash commands.
	FormatEventCreatedResponse(event *tournament.Event) (any, error)
	FormatEventDeletedResponse(event *tournament.Event) (any, error)
	FormatEventListResponse(events []*tournament.Event) (any, error)
	FormatRejectionResponse(reason, detail string) (any, error)
	FormatRulesResponse(rules *tournament.Rules) (any, error)
	FormatResultRecordedResponse(result *tournament.Result) (any, error)
	FormatTeamBalanceResponse(split matchmaking.TeamSplit) (any, error)
	FormatChoiceResponse(choice *matchmaking.Choice) (any, error)
	FormatTimeSlotResponse(slot string) (any, error)
	FormatTieBreakerResponse(result *matchmaking.TieBreak) (any, error)
}
