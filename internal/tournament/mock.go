package tournament

import "sync"

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateEventFunc      func(params CreateParams) (*Event, error)
	GetEventFunc         func(id string) (*Event, error)
	AllEventsFunc        func() ([]*Event, error)
	DeleteEventFunc      func(id string) (*Event, error)
	SetJudgeFunc         func(id, judgeRef string) error
	SetReminderArmedFunc func(id string, armed bool) error
	RecordResultFunc     func(result *Result) error
	AllResultsFunc       func() ([]*Result, error)
	GetRulesFunc         func() (*Rules, error)
	SetRulesFunc         func(content, updatedBy string) (*Rules, error)

	// Call records
	CreateEventCalls []CreateParams
	GetEventCalls    []string
	DeleteEventCalls []string
	SetJudgeCalls    []struct {
		ID       string
		JudgeRef string
	}
	SetReminderArmedCalls []struct {
		ID    string
		Armed bool
	}
	RecordResultCalls []*Result
	SetRulesCalls     []struct {
		Content   string
		UpdatedBy string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) CreateEvent(params CreateParams) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateEventCalls = append(m.CreateEventCalls, params)
	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(params)
	}
	return &Event{}, nil
}

func (m *MockStore) GetEvent(id string) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetEventCalls = append(m.GetEventCalls, id)
	if m.GetEventFunc != nil {
		return m.GetEventFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) AllEvents() ([]*Event, error) {
	if m.AllEventsFunc != nil {
		return m.AllEventsFunc()
	}
	return nil, nil
}

func (m *MockStore) DeleteEvent(id string) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteEventCalls = append(m.DeleteEventCalls, id)
	if m.DeleteEventFunc != nil {
		return m.DeleteEventFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) SetJudge(id, judgeRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetJudgeCalls = append(m.SetJudgeCalls, struct {
		ID       string
		JudgeRef string
	}{id, judgeRef})
	if m.SetJudgeFunc != nil {
		return m.SetJudgeFunc(id, judgeRef)
	}
	return nil
}

func (m *MockStore) SetReminderArmed(id string, armed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetReminderArmedCalls = append(m.SetReminderArmedCalls, struct {
		ID    string
		Armed bool
	}{id, armed})
	if m.SetReminderArmedFunc != nil {
		return m.SetReminderArmedFunc(id, armed)
	}
	return nil
}

func (m *MockStore) RecordResult(result *Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordResultCalls = append(m.RecordResultCalls, result)
	if m.RecordResultFunc != nil {
		return m.RecordResultFunc(result)
	}
	return nil
}

func (m *MockStore) AllResults() ([]*Result, error) {
	if m.AllResultsFunc != nil {
		return m.AllResultsFunc()
	}
	return nil, nil
}

func (m *MockStore) GetRules() (*Rules, error) {
	if m.GetRulesFunc != nil {
		return m.GetRulesFunc()
	}
	return nil, nil
}

func (m *MockStore) SetRules(content, updatedBy string) (*Rules, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetRulesCalls = append(m.SetRulesCalls, struct {
		Content   string
		UpdatedBy string
	}{content, updatedBy})
	if m.SetRulesFunc != nil {
		return m.SetRulesFunc(content, updatedBy)
	}
	return &Rules{Content: content, Version: 1, UpdatedBy: updatedBy}, nil
}

func (m *MockStore) Clear() {}
