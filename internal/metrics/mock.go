package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a thread-safe in-memory Metrics implementation for tests.
type Mock struct {
	mu sync.Mutex

	claimsAccepted     int
	claimsRejected     map[string]int
	remindersArmed     int
	remindersFired     int
	remindersCancelled int
	slackNotifSent     int
	slackNotifFailed   int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{claimsRejected: make(map[string]int)}
}

func (m *Mock) IncClaimAccepted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claimsAccepted++
}

func (m *Mock) IncClaimRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claimsRejected[reason]++
}

func (m *Mock) IncReminderArmed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remindersArmed++
}

func (m *Mock) IncReminderFired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remindersFired++
}

func (m *Mock) IncReminderCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remindersCancelled++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

func (m *Mock) ClaimsAccepted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.claimsAccepted
}

func (m *Mock) ClaimsRejected(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.claimsRejected[reason]
}

func (m *Mock) RemindersArmed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remindersArmed
}

func (m *Mock) RemindersFired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remindersFired
}

func (m *Mock) RemindersCancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remindersCancelled
}

func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
