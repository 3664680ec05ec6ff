package notifier

import (
	"sync"

	"github.com/icf-tools/matchday/internal/matchmaking"
	"github.com/icf-tools/matchday/internal/tournament"
)

// MockNotifier is a mock implementation of the Notifier interface for testing.
type MockNotifier struct {
	mu sync.Mutex

	SendMatchScheduledFunc func(event *tournament.Event, dryRun bool) error
	SendJudgeAssignedFunc  func(event *tournament.Event, judgeID string, dryRun bool) error
	SendJudgeReleasedFunc  func(event *tournament.Event, judgeID string, dryRun bool) error
	SendJudgeExchangedFunc func(event *tournament.Event, oldJudgeID, newJudgeID string, dryRun bool) error
	SendMatchReminderFunc  func(event *tournament.Event, dryRun bool) error
	SendMatchResultFunc    func(result *tournament.Result, dryRun bool) error
	SendStaffReportFunc    func(result *tournament.Result, dryRun bool) error

	SendMatchScheduledCalls []SendEventCall
	SendJudgeAssignedCalls  []SendJudgeCall
	SendJudgeReleasedCalls  []SendJudgeCall
	SendJudgeExchangedCalls []SendJudgeExchangedCall
	SendMatchReminderCalls  []SendEventCall
	SendMatchResultCalls    []SendResultCall
	SendStaffReportCalls    []SendResultCall

	// Spies for format functions
	FormatEventCreatedResponseFunc   func(event *tournament.Event) (any, error)
	FormatEventDeletedResponseFunc   func(event *tournament.Event) (any, error)
	FormatEventListResponseFunc      func(events []*tournament.Event) (any, error)
	FormatRejectionResponseFunc      func(reason, detail string) (any, error)
	FormatRulesResponseFunc          func(rules *tournament.Rules) (any, error)
	FormatResultRecordedResponseFunc func(result *tournament.Result) (any, error)
	FormatTeamBalanceResponseFunc    func(split matchmaking.TeamSplit) (any, error)
	FormatChoiceResponseFunc         func(choice *matchmaking.Choice) (any, error)
	FormatTimeSlotResponseFunc       func(slot string) (any, error)
	FormatTieBreakerResponseFunc     func(result *matchmaking.TieBreak) (any, error)

	// Call records for format functions
	FormatRejectionCalls []FormatRejectionCall
}

// FormatRejectionCall holds the arguments for a call to FormatRejectionResponse.
type FormatRejectionCall struct {
	Reason string
	Detail string
}

type SendEventCall struct {
	Event  *tournament.Event
	DryRun bool
}

type SendJudgeCall struct {
	Event   *tournament.Event
	JudgeID string
	DryRun  bool
}

type SendJudgeExchangedCall struct {
	Event      *tournament.Event
	OldJudgeID string
	NewJudgeID string
	DryRun     bool
}

type SendResultCall struct {
	Result *tournament.Result
	DryRun bool
}

func NewMock() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) SendMatchScheduled(event *tournament.Event, dryRun bool) error {
	m.mu.Lock()
	m.SendMatchScheduledCalls = append(m.SendMatchScheduledCalls, SendEventCall{Event: event, DryRun: dryRun})
	m.mu.Unlock()
	if m.SendMatchScheduledFunc != nil {
		return m.SendMatchScheduledFunc(event, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendJudgeAssigned(event *tournament.Event, judgeID string, dryRun bool) error {
	m.mu.Lock()
	m.SendJudgeAssignedCalls = append(m.SendJudgeAssignedCalls, SendJudgeCall{Event: event, JudgeID: judgeID, DryRun: dryRun})
	m.mu.Unlock()
	if m.SendJudgeAssignedFunc != nil {
		return m.SendJudgeAssignedFunc(event, judgeID, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendJudgeReleased(event *tournament.Event, judgeID string, dryRun bool) error {
	m.mu.Lock()
	m.SendJudgeReleasedCalls = append(m.SendJudgeReleasedCalls, SendJudgeCall{Event: event, JudgeID: judgeID, DryRun: dryRun})
	m.mu.Unlock()
	if m.SendJudgeReleasedFunc != nil {
		return m.SendJudgeReleasedFunc(event, judgeID, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendJudgeExchanged(event *tournament.Event, oldJudgeID, newJudgeID string, dryRun bool) error {
	m.mu.Lock()
	m.SendJudgeExchangedCalls = append(m.SendJudgeExchangedCalls, SendJudgeExchangedCall{Event: event, OldJudgeID: oldJudgeID, NewJudgeID: newJudgeID, DryRun: dryRun})
	m.mu.Unlock()
	if m.SendJudgeExchangedFunc != nil {
		return m.SendJudgeExchangedFunc(event, oldJudgeID, newJudgeID, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendMatchReminder(event *tournament.Event, dryRun bool) error {
	m.mu.Lock()
	m.SendMatchReminderCalls = append(m.SendMatchReminderCalls, SendEventCall{Event: event, DryRun: dryRun})
	m.mu.Unlock()
	if m.SendMatchReminderFunc != nil {
		return m.SendMatchReminderFunc(event, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendMatchResult(result *tournament.Result, dryRun bool) error {
	m.mu.Lock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, SendResultCall{Result: result, DryRun: dryRun})
	m.mu.Unlock()
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(result, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendStaffReport(result *tournament.Result, dryRun bool) error {
	m.mu.Lock()
	m.SendStaffReportCalls = append(m.SendStaffReportCalls, SendResultCall{Result: result, DryRun: dryRun})
	m.mu.Unlock()
	if m.SendStaffReportFunc != nil {
		return m.SendStaffReportFunc(result, dryRun)
	}
	return nil
}

// ReminderEvents returns the event IDs for which a reminder was sent.
func (m *MockNotifier) ReminderEvents() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.SendMatchReminderCalls))
	for _, c := range m.SendMatchReminderCalls {
		ids = append(ids, c.Event.ID)
	}
	return ids
}

func (m *MockNotifier) FormatEventCreatedResponse(event *tournament.Event) (any, error) {
	if m.FormatEventCreatedResponseFunc != nil {
		return m.FormatEventCreatedResponseFunc(event)
	}
	return nil, nil
}

func (m *MockNotifier) FormatEventDeletedResponse(event *tournament.Event) (any, error) {
	if m.FormatEventDeletedResponseFunc != nil {
		return m.FormatEventDeletedResponseFunc(event)
	}
	return nil, nil
}

func (m *MockNotifier) FormatEventListResponse(events []*tournament.Event) (any, error) {
	if m.FormatEventListResponseFunc != nil {
		return m.FormatEventListResponseFunc(events)
	}
	return nil, nil
}

func (m *MockNotifier) FormatRejectionResponse(reason, detail string) (any, error) {
	m.mu.Lock()
	m.FormatRejectionCalls = append(m.FormatRejectionCalls, FormatRejectionCall{Reason: reason, Detail: detail})
	m.mu.Unlock()
	if m.FormatRejectionResponseFunc != nil {
		return m.FormatRejectionResponseFunc(reason, detail)
	}
	return nil, nil
}

func (m *MockNotifier) FormatRulesResponse(rules *tournament.Rules) (any, error) {
	if m.FormatRulesResponseFunc != nil {
		return m.FormatRulesResponseFunc(rules)
	}
	return nil, nil
}

func (m *MockNotifier) FormatResultRecordedResponse(result *tournament.Result) (any, error) {
	if m.FormatResultRecordedResponseFunc != nil {
		return m.FormatResultRecordedResponseFunc(result)
	}
	return nil, nil
}

func (m *MockNotifier) FormatTeamBalanceResponse(split matchmaking.TeamSplit) (any, error) {
	if m.FormatTeamBalanceResponseFunc != nil {
		return m.FormatTeamBalanceResponseFunc(split)
	}
	return nil, nil
}

func (m *MockNotifier) FormatChoiceResponse(choice *matchmaking.Choice) (any, error) {
	if m.FormatChoiceResponseFunc != nil {
		return m.FormatChoiceResponseFunc(choice)
	}
	return nil, nil
}

func (m *MockNotifier) FormatTimeSlotResponse(slot string) (any, error) {
	if m.FormatTimeSlotResponseFunc != nil {
		return m.FormatTimeSlotResponseFunc(slot)
	}
	return nil, nil
}

func (m *MockNotifier) FormatTieBreakerResponse(result *matchmaking.TieBreak) (any, error) {
	if m.FormatTieBreakerResponseFunc != nil {
		return m.FormatTieBreakerResponseFunc(result)
	}
	return nil, nil
}
