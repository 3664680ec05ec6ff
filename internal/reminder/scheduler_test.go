package reminder

import (
	"testing"
	"time"

	"github.com/icf-tools/matchday/internal/metrics"
	"github.com/icf-tools/matchday/internal/notifier"
	"github.com/icf-tools/matchday/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestScheduler returns a scheduler with a short lead so tests can use
// real timers without waiting the full ten minutes.
func newTestScheduler(store Store, n Notifier) (*Scheduler, *metrics.Mock) {
	m := metrics.NewMock()
	s := New(store, n, m)
	s.lead = 20 * time.Millisecond
	return s, m
}

func futureEvent(id string, in time.Duration) *tournament.Event {
	return &tournament.Event{
		ID:          id,
		Tournament:  "Winter Cup",
		Round:       1,
		ScheduledAt: time.Now().Add(in),
	}
}

func TestArmAndFire(t *testing.T) {
	event := futureEvent("ev-1", 70*time.Millisecond)
	store := tournament.NewMock()
	store.GetEventFunc = func(id string) (*tournament.Event, error) {
		return event, nil
	}
	notif := notifier.NewMock()

	s, m := newTestScheduler(store, notif)
	defer s.Stop()

	s.Arm(event)
	assert.True(t, s.Armed("ev-1"))
	assert.Equal(t, 1, m.RemindersArmed())

	require.Eventually(t, func() bool {
		return m.RemindersFired() == 1
	}, time.Second, 5*time.Millisecond, "reminder should have fired")

	assert.False(t, s.Armed("ev-1"))
	assert.Equal(t, []string{"ev-1"}, notif.ReminderEvents())
}

func TestFireReadsCurrentJudge(t *testing.T) {
	// The judge claims the match after the reminder is armed. The fired
	// reminder must name them anyway.
	event := futureEvent("ev-1", 70*time.Millisecond)
	store := tournament.NewMock()
	store.GetEventFunc = func(id string) (*tournament.Event, error) {
		withJudge := *event
		withJudge.JudgeRef = "U999"
		return &withJudge, nil
	}
	notif := notifier.NewMock()

	s, m := newTestScheduler(store, notif)
	defer s.Stop()

	s.Arm(event)
	require.Eventually(t, func() bool {
		return m.RemindersFired() == 1
	}, time.Second, 5*time.Millisecond)

	require.Len(t, notif.SendMatchReminderCalls, 1)
	assert.Equal(t, "U999", notif.SendMatchReminderCalls[0].Event.JudgeRef)
}

func TestRearmReplacesPendingTimer(t *testing.T) {
	event := futureEvent("ev-1", 70*time.Millisecond)
	store := tournament.NewMock()
	store.GetEventFunc = func(id string) (*tournament.Event, error) {
		return event, nil
	}
	notif := notifier.NewMock()

	s, m := newTestScheduler(store, notif)
	defer s.Stop()

	s.Arm(event)
	s.Arm(event)
	assert.True(t, s.Armed("ev-1"))

	require.Eventually(t, func() bool {
		return m.RemindersFired() >= 1
	}, time.Second, 5*time.Millisecond)

	// Give a superseded timer a chance to misfire before asserting.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, m.RemindersFired(), "only the replacement timer should fire")
	assert.Len(t, notif.SendMatchReminderCalls, 1)
}

func TestArmSkipsEventsAlreadyDue(t *testing.T) {
	// Scheduled so soon that the reminder moment has already passed.
	event := futureEvent("ev-1", 5*time.Millisecond)
	store := tournament.NewMock()
	notif := notifier.NewMock()

	s, m := newTestScheduler(store, notif)
	defer s.Stop()

	s.Arm(event)
	assert.False(t, s.Armed("ev-1"))
	assert.Equal(t, 0, m.RemindersArmed())
	assert.Empty(t, store.SetReminderArmedCalls)
}

func TestCancelStopsPendingReminder(t *testing.T) {
	event := futureEvent("ev-1", 70*time.Millisecond)
	store := tournament.NewMock()
	notif := notifier.NewMock()

	s, m := newTestScheduler(store, notif)
	defer s.Stop()

	s.Arm(event)
	s.Cancel("ev-1")
	assert.False(t, s.Armed("ev-1"))
	assert.Equal(t, 1, m.RemindersCancelled())

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, m.RemindersFired())
	assert.Empty(t, notif.SendMatchReminderCalls)
}

func TestCancelUnknownIsNoop(t *testing.T) {
	store := tournament.NewMock()
	notif := notifier.NewMock()

	s, m := newTestScheduler(store, notif)
	defer s.Stop()

	s.Cancel("nope")
	assert.Equal(t, 0, m.RemindersCancelled())
	assert.Empty(t, store.SetReminderArmedCalls)
}

func TestStopCancelsEverything(t *testing.T) {
	store := tournament.NewMock()
	notif := notifier.NewMock()

	s, _ := newTestScheduler(store, notif)

	s.Arm(futureEvent("ev-1", 70*time.Millisecond))
	s.Arm(futureEvent("ev-2", 80*time.Millisecond))
	s.Stop()

	assert.False(t, s.Armed("ev-1"))
	assert.False(t, s.Armed("ev-2"))

	time.Sleep(150 * time.Millisecond)
	assert.Empty(t, notif.SendMatchReminderCalls)
}
