package slack

import (
	"fmt"
	"strings"

	"github.com/icf-tools/matchday/internal/matchmaking"
	"github.com/icf-tools/matchday/internal/tournament"
	"github.com/slack-go/slack"
)

// formatMatchScheduled creates the Slack message for a newly scheduled match using Block Kit.
func (s *Notifier) formatMatchScheduled(event *tournament.Event) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 New match scheduled! 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s — Round %d\nDate: %s\nTime: %s",
		event.Tournament, event.Round, event.DateLabel, event.TimeLabel)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	teamsText := fmt.Sprintf("Captains:\n• <@%s>\n• <@%s>", event.Team1Captain, event.Team2Captain)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", teamsText, false, false), nil, nil))

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject("plain_text", "A judge is still needed for this match.", true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatJudgeAssigned creates the Slack message announcing a judge took a match.
func (s *Notifier) formatJudgeAssigned(event *tournament.Event, judgeID string) slack.Message {
	text := fmt.Sprintf("🧑‍⚖️ <@%s> will judge *%s* round %d on %s at %s.",
		judgeID, event.Tournament, event.Round, event.DateLabel, event.TimeLabel)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

// formatJudgeReleased creates the Slack message announcing a judge stepped down.
func (s *Notifier) formatJudgeReleased(event *tournament.Event, judgeID string) slack.Message {
	text := fmt.Sprintf("⚠️ <@%s> stepped down from judging *%s* round %d on %s at %s. The slot is open again.",
		judgeID, event.Tournament, event.Round, event.DateLabel, event.TimeLabel)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

// formatJudgeExchanged creates the Slack message announcing a handover between judges.
func (s *Notifier) formatJudgeExchanged(event *tournament.Event, oldJudgeID, newJudgeID string) slack.Message {
	text := fmt.Sprintf("🔄 <@%s> takes over *%s* round %d from <@%s> (%s at %s).",
		newJudgeID, event.Tournament, event.Round, oldJudgeID, event.DateLabel, event.TimeLabel)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

// formatMatchReminder creates the reminder message sent shortly before a match starts.
func (s *Notifier) formatMatchReminder(event *tournament.Event) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⏰ Match starting soon! ⏰", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("*%s* round %d starts at %s.\nCaptains: <@%s> vs <@%s>",
		event.Tournament, event.Round, event.TimeLabel, event.Team1Captain, event.Team2Captain)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", detailsText, false, false), nil, nil))

	var judgeText string
	if event.JudgeRef != "" {
		judgeText = fmt.Sprintf("Judge: <@%s>", event.JudgeRef)
	} else {
		judgeText = "No judge has claimed this match yet!"
	}
	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject("mrkdwn", judgeText, false, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatMatchResult creates the Slack message for a recorded result using Block Kit.
func (s *Notifier) formatMatchResult(result *tournament.Result) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏁 Match finished! 🏁", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	scoreText := fmt.Sprintf("*%s* %d — %d *%s*", result.Winner, result.WinnerScore, result.LoserScore, result.Loser)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", scoreText, false, false), nil, nil))

	detailsText := fmt.Sprintf("%s, round %s", result.Tournament, result.Round)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	if result.Remarks != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject("plain_text", result.Remarks, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatStaffReport creates the internal report sent to the organizer channel.
func (s *Notifier) formatStaffReport(result *tournament.Result) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "📋 Result recorded", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	text := fmt.Sprintf("Tournament: %s\nRound: %s\nWinner: %s (%d)\nLoser: %s (%d)\nRecorded by: <@%s>",
		result.Tournament, result.Round,
		result.Winner, result.WinnerScore,
		result.Loser, result.LoserScore,
		result.Judge,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))

	if result.Remarks != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject("plain_text", fmt.Sprintf("Remarks: %s", result.Remarks), true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatEventCreatedResponse confirms the event-create slash command to its caller.
func (s *Notifier) formatEventCreatedResponse(event *tournament.Event) slack.Message {
	text := fmt.Sprintf("✅ Scheduled *%s* round %d on %s at %s.\nEvent ID: `%s`",
		event.Tournament, event.Round, event.DateLabel, event.TimeLabel, event.ID)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

// formatEventDeletedResponse confirms the event-delete slash command to its caller.
func (s *Notifier) formatEventDeletedResponse(event *tournament.Event) slack.Message {
	text := fmt.Sprintf("🗑️ Removed *%s* round %d (%s at %s).",
		event.Tournament, event.Round, event.DateLabel, event.TimeLabel)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

// formatEventList creates a Slack message listing the upcoming events.
func (s *Notifier) formatEventList(events []*tournament.Event) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "📅 Upcoming matches 📅", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(events) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Nothing scheduled right now.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, event := range events {
		var judge string
		if event.JudgeRef != "" {
			judge = fmt.Sprintf("judged by <@%s>", event.JudgeRef)
		} else {
			judge = "_no judge yet_"
		}
		eventText := fmt.Sprintf("*%s* round %d — %s at %s — %s\n> `%s`",
			event.Tournament, event.Round, event.DateLabel, event.TimeLabel, judge, event.ID)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", eventText, false, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatRejection explains a refused schedule operation to its caller.
func (s *Notifier) formatRejection(reason, detail string) slack.Message {
	var text string
	switch reason {
	case "not_found":
		text = "❓ I couldn't find that event. Double-check the event ID."
	case "busy":
		text = "⏳ Someone else is working on that event right now. Try again in a moment."
	case "unauthorized":
		text = "🚫 You need to be on the judge roster to do that. Ask an organizer to add you."
	case "already_claimed":
		if detail != "" {
			text = fmt.Sprintf("🤝 Too late — <@%s> already claimed that match.", detail)
		} else {
			text = "🤝 Too late — that match has already been claimed."
		}
	case "capacity_exceeded":
		text = fmt.Sprintf("📚 You already judge the maximum number of matches (%s). Release one before taking another.", detail)
	case "not_holder":
		text = "🙅 You can't release a match you don't hold."
	default:
		text = "Something went wrong with that request."
	}
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

// formatRules creates a Slack message with the current tournament rules.
func (s *Notifier) formatRules(rules *tournament.Rules) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "📖 Tournament rules 📖", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if rules == nil {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No rules have been published yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", rules.Content, false, false), nil, nil))
	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Version %d • Updated by %s", rules.Version, rules.UpdatedBy), true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatResultRecorded confirms a recorded result to the organizer who filed it.
func (s *Notifier) formatResultRecorded(result *tournament.Result) slack.Message {
	text := fmt.Sprintf("✅ Recorded: *%s* %d — %d *%s* (%s, round %s).",
		result.Winner, result.WinnerScore, result.LoserScore, result.Loser,
		result.Tournament, result.Round)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

// formatTeamBalance creates a Slack message with the balanced team split.
func (s *Notifier) formatTeamBalance(split matchmaking.TeamSplit) slack.Message {
	text := fmt.Sprintf("⚖️ Balanced teams:\nTeam A: %s (total %d)\nTeam B: %s (total %d)\nLevel difference: %d",
		joinInts(split.TeamA), sumInts(split.TeamA), joinInts(split.TeamB), sumInts(split.TeamB), split.Difference())
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil),
	)
}

// formatChoice creates a Slack message with a random pick from the given
// options, or the drawn maps when the map pool was used.
func (s *Notifier) formatChoice(choice *matchmaking.Choice) slack.Message {
	if len(choice.Maps) > 0 {
		lines := make([]string, 0, len(choice.Maps))
		for _, m := range choice.Maps {
			lines = append(lines, fmt.Sprintf("• %s", m))
		}
		text := fmt.Sprintf("🗺️ Randomly selected %d map(s):\n%s", len(choice.Maps), strings.Join(lines, "\n"))
		return slack.NewBlockMessage(
			slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil),
		)
	}
	text := fmt.Sprintf("🎲 Out of %d options, I pick: *%s*", len(choice.Options), choice.Chosen)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

// formatTimeSlot creates a Slack message with a randomly drawn match time.
func (s *Notifier) formatTimeSlot(slot string) slack.Message {
	text := fmt.Sprintf("🕐 Your match time: *%s*", slot)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

// formatTieBreaker creates a Slack message with the tie-breaker verdict.
func (s *Notifier) formatTieBreaker(result *matchmaking.TieBreak) slack.Message {
	var verdict string
	if result.Winner != "" {
		verdict = fmt.Sprintf("*%s* wins the tie-breaker! 🏆", result.Winner)
	} else {
		verdict = "Still tied. Roll again!"
	}
	text := fmt.Sprintf("🎲 %s scored %d, %s scored %d.\n%s",
		result.Team1Name, result.Team1Total, result.Team2Name, result.Team2Total, verdict)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}

func sumInts(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
