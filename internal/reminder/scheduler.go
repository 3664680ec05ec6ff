package reminder

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/icf-tools/matchday/internal/metrics"
	"github.com/icf-tools/matchday/internal/tournament"
)

// Lead is how long before a match starts that the reminder fires.
const Lead = 10 * time.Minute

// Store defines the interface for the event data needed by the scheduler.
// The event is re-read at fire time, so a reminder always reflects the
// judge assigned at that moment, not the one at arm time.
type Store interface {
	GetEvent(id string) (*tournament.Event, error)
	SetReminderArmed(id string, armed bool) error
}

// Notifier defines the interface for dispatching the reminder message.
type Notifier interface {
	SendMatchReminder(event *tournament.Event, dryRun bool) error
}

// Scheduler arms one timer per event. Arming an event that already has a
// timer replaces it, so an event never carries two live reminders.
type Scheduler struct {
	mu       sync.Mutex
	timers   map[string]*time.Timer
	store    Store
	notifier Notifier
	metrics  metrics.Metrics
	lead     time.Duration
	now      func() time.Time
}

// New creates a new Scheduler.
func New(store Store, notifier Notifier, metrics metrics.Metrics) *Scheduler {
	return &Scheduler{
		timers:   make(map[string]*time.Timer),
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		lead:     Lead,
		now:      time.Now,
	}
}

// Arm schedules the reminder for an event. A reminder already pending for
// the same event is cancelled first. Events whose reminder time has
// already passed are skipped.
func (s *Scheduler) Arm(event *tournament.Event) {
	fireAt := event.ScheduledAt.Add(-s.lead)
	delay := fireAt.Sub(s.now())
	if delay <= 0 {
		log.Info("Skipping reminder for event in the past", "event_id", event.ID, "scheduled_at", event.ScheduledAt)
		return
	}

	s.mu.Lock()
	if existing, ok := s.timers[event.ID]; ok {
		existing.Stop()
	}
	eventID := event.ID
	s.timers[eventID] = time.AfterFunc(delay, func() {
		s.fire(eventID)
	})
	s.mu.Unlock()

	if err := s.store.SetReminderArmed(eventID, true); err != nil {
		log.Error("Failed to mark reminder as armed", "event_id", eventID, "error", err)
	}
	s.metrics.IncReminderArmed()
	log.Info("Reminder armed", "event_id", eventID, "fire_at", fireAt)
}

// Cancel stops the pending reminder for an event, if any.
func (s *Scheduler) Cancel(eventID string) {
	s.mu.Lock()
	timer, ok := s.timers[eventID]
	if ok {
		timer.Stop()
		delete(s.timers, eventID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	if err := s.store.SetReminderArmed(eventID, false); err != nil {
		log.Error("Failed to clear reminder armed flag", "event_id", eventID, "error", err)
	}
	s.metrics.IncReminderCancelled()
	log.Info("Reminder cancelled", "event_id", eventID)
}

// Armed reports whether a reminder is currently pending for an event.
func (s *Scheduler) Armed(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[eventID]
	return ok
}

// Stop cancels all pending reminders. Used on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()
	log.Info("Reminder scheduler stopped")
}

func (s *Scheduler) fire(eventID string) {
	s.mu.Lock()
	delete(s.timers, eventID)
	s.mu.Unlock()

	// Late binding: the event is re-read here so the reminder carries
	// the judge holding the slot right now.
	event, err := s.store.GetEvent(eventID)
	if err != nil {
		log.Warn("Reminder fired for missing event, skipping", "event_id", eventID, "error", err)
		return
	}

	if err := s.store.SetReminderArmed(eventID, false); err != nil {
		log.Error("Failed to clear reminder armed flag", "event_id", eventID, "error", err)
	}

	if err := s.notifier.SendMatchReminder(event, false); err != nil {
		log.Error("Failed to send match reminder", "event_id", eventID, "error", err)
		return
	}

	s.metrics.IncReminderFired()
	log.Info("Reminder fired", "event_id", eventID)
}
