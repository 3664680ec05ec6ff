package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchScheduled EventType = "match-scheduled"
	EventMatchCancelled EventType = "match-cancelled"
	EventJudgeAssigned  EventType = "judge-assigned"
	EventJudgeReleased  EventType = "judge-released"
	EventJudgeExchanged EventType = "judge-exchanged"
	EventMatchResult    EventType = "match-result"
)

// JudgeChange is the payload for judge assignment events.
type JudgeChange struct {
	EventID       string `msgpack:"event_id"`
	JudgeRef      string `msgpack:"judge_ref"`
	PreviousJudge string `msgpack:"previous_judge,omitempty"`
}
