package claim

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/icf-tools/matchday/internal/access"
	"github.com/icf-tools/matchday/internal/judges"
	"github.com/icf-tools/matchday/internal/metrics"
	"github.com/icf-tools/matchday/internal/pubsub"
	"github.com/icf-tools/matchday/internal/tournament"
)

// Store defines the interface for the event data the machine needs.
type Store interface {
	GetEvent(id string) (*tournament.Event, error)
	DeleteEvent(id string) (*tournament.Event, error)
	SetJudge(id, judgeRef string) error
}

// Notifier defines the interface for announcing judge-slot transitions.
type Notifier interface {
	SendJudgeAssigned(event *tournament.Event, judgeID string, dryRun bool) error
	SendJudgeReleased(event *tournament.Event, judgeID string, dryRun bool) error
	SendJudgeExchanged(event *tournament.Event, oldJudgeID, newJudgeID string, dryRun bool) error
}

// Scheduler defines the interface for the reminder timers the machine
// cancels when an event is deleted.
type Scheduler interface {
	Cancel(eventID string)
}

// Machine serializes judge-slot transitions per event. Each event has its
// own lock; a transition finding the lock taken is refused with ReasonBusy
// rather than queued, so a slow Slack call never stacks up claimants.
type Machine struct {
	store      Store
	ledger     *judges.Ledger
	authorizer access.Authorizer
	channels   access.ChannelAccess
	notifier   Notifier
	scheduler  Scheduler
	pubsub     pubsub.PubSubClient
	metrics    metrics.Metrics

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a new Machine.
func New(
	store Store,
	ledger *judges.Ledger,
	authorizer access.Authorizer,
	channels access.ChannelAccess,
	notifier Notifier,
	scheduler Scheduler,
	pubsubClient pubsub.PubSubClient,
	metrics metrics.Metrics,
) *Machine {
	return &Machine{
		store:      store,
		ledger:     ledger,
		authorizer: authorizer,
		channels:   channels,
		notifier:   notifier,
		scheduler:  scheduler,
		pubsub:     pubsubClient,
		metrics:    metrics,
		locks:      make(map[string]*sync.Mutex),
	}
}

func (m *Machine) lockFor(eventID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[eventID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[eventID] = lock
	}
	return lock
}

func (m *Machine) rejected(reason Reason, detail string) *Rejection {
	m.metrics.IncClaimRejected(string(reason))
	return reject(reason, detail)
}

// Claim assigns the actor as judge for an event. Preconditions are checked
// in a fixed order: the event must exist, its lock must be free, the actor
// must hold the judge capability, the slot must still be open once the lock
// is held, and the actor must be under their match cap.
func (m *Machine) Claim(ctx context.Context, eventID, actorID string, dryRun bool) (*tournament.Event, error) {
	if _, err := m.store.GetEvent(eventID); err != nil {
		if errors.Is(err, tournament.ErrNotFound) {
			return nil, m.rejected(ReasonNotFound, "")
		}
		return nil, err
	}

	lock := m.lockFor(eventID)
	if !lock.TryLock() {
		return nil, m.rejected(ReasonBusy, "")
	}
	defer lock.Unlock()

	if !m.authorizer.HasCapability(ctx, actorID, access.CapabilityJudge) {
		return nil, m.rejected(ReasonUnauthorized, "")
	}

	// Re-read under the lock: the slot may have been taken or the event
	// deleted while this claim was waiting its turn.
	event, err := m.store.GetEvent(eventID)
	if err != nil {
		if errors.Is(err, tournament.ErrNotFound) {
			return nil, m.rejected(ReasonNotFound, "")
		}
		return nil, err
	}
	if event.JudgeRef != "" {
		return nil, m.rejected(ReasonAlreadyClaimed, event.JudgeRef)
	}
	if !m.ledger.CanAssign(actorID) {
		return nil, m.rejected(ReasonCapacityExceeded, strconv.Itoa(m.ledger.Capacity()))
	}

	if err := m.store.SetJudge(eventID, actorID); err != nil {
		return nil, err
	}
	m.ledger.Assign(actorID, eventID)
	event.JudgeRef = actorID

	m.metrics.IncClaimAccepted()
	log.Info("Judge claimed match", "event_id", eventID, "judge", actorID)

	// Side effects are best-effort: the claim stands even when Slack or
	// pub/sub misbehaves.
	if event.HostChannel != "" {
		if err := m.channels.Grant(ctx, event.HostChannel, actorID); err != nil {
			log.Error("Failed to grant channel access", "event_id", eventID, "judge", actorID, "error", err)
		}
	}
	if err := m.notifier.SendJudgeAssigned(event, actorID, dryRun); err != nil {
		log.Error("Failed to announce judge assignment", "event_id", eventID, "error", err)
	}
	if err := m.pubsub.SendMessage(pubsub.EventJudgeAssigned, pubsub.JudgeChange{EventID: eventID, JudgeRef: actorID}); err != nil {
		log.Error("Failed to publish judge assignment", "event_id", eventID, "error", err)
	}

	return event, nil
}

// Release clears the actor's claim on an event. Only the current holder
// may release; there is no capability check because holding the slot
// already implies one succeeded.
func (m *Machine) Release(ctx context.Context, eventID, actorID string, dryRun bool) (*tournament.Event, error) {
	if _, err := m.store.GetEvent(eventID); err != nil {
		if errors.Is(err, tournament.ErrNotFound) {
			return nil, m.rejected(ReasonNotFound, "")
		}
		return nil, err
	}

	lock := m.lockFor(eventID)
	if !lock.TryLock() {
		return nil, m.rejected(ReasonBusy, "")
	}
	defer lock.Unlock()

	event, err := m.store.GetEvent(eventID)
	if err != nil {
		if errors.Is(err, tournament.ErrNotFound) {
			return nil, m.rejected(ReasonNotFound, "")
		}
		return nil, err
	}
	if event.JudgeRef != actorID {
		return nil, m.rejected(ReasonNotHolder, event.JudgeRef)
	}

	if err := m.store.SetJudge(eventID, ""); err != nil {
		return nil, err
	}
	m.ledger.Release(actorID, eventID)
	event.JudgeRef = ""

	log.Info("Judge released match", "event_id", eventID, "judge", actorID)

	if event.HostChannel != "" {
		if err := m.channels.Revoke(ctx, event.HostChannel, actorID); err != nil {
			log.Error("Failed to revoke channel access", "event_id", eventID, "judge", actorID, "error", err)
		}
	}
	if err := m.notifier.SendJudgeReleased(event, actorID, dryRun); err != nil {
		log.Error("Failed to announce judge release", "event_id", eventID, "error", err)
	}
	if err := m.pubsub.SendMessage(pubsub.EventJudgeReleased, pubsub.JudgeChange{EventID: eventID, PreviousJudge: actorID}); err != nil {
		log.Error("Failed to publish judge release", "event_id", eventID, "error", err)
	}

	return event, nil
}

// Exchange hands a claimed event over from one named judge to another. Only
// organizers may order a handover, and the outgoing judge must be the current
// holder. The handover does not count against the incoming judge's match cap,
// so a full judge can still cover for a colleague.
func (m *Machine) Exchange(ctx context.Context, eventID, oldJudgeID, newJudgeID, actorID string, dryRun bool) (*tournament.Event, error) {
	if _, err := m.store.GetEvent(eventID); err != nil {
		if errors.Is(err, tournament.ErrNotFound) {
			return nil, m.rejected(ReasonNotFound, "")
		}
		return nil, err
	}

	lock := m.lockFor(eventID)
	if !lock.TryLock() {
		return nil, m.rejected(ReasonBusy, "")
	}
	defer lock.Unlock()

	if !m.authorizer.HasCapability(ctx, actorID, access.CapabilityOrganizer) {
		return nil, m.rejected(ReasonUnauthorized, "")
	}

	event, err := m.store.GetEvent(eventID)
	if err != nil {
		if errors.Is(err, tournament.ErrNotFound) {
			return nil, m.rejected(ReasonNotFound, "")
		}
		return nil, err
	}
	if event.JudgeRef == "" {
		return nil, m.rejected(ReasonNotHolder, "")
	}
	if event.JudgeRef != oldJudgeID {
		return nil, m.rejected(ReasonNotHolder, event.JudgeRef)
	}
	if newJudgeID == oldJudgeID {
		return nil, m.rejected(ReasonAlreadyClaimed, newJudgeID)
	}

	if err := m.store.SetJudge(eventID, newJudgeID); err != nil {
		return nil, err
	}
	m.ledger.Release(oldJudgeID, eventID)
	m.ledger.Assign(newJudgeID, eventID)
	event.JudgeRef = newJudgeID

	m.metrics.IncClaimAccepted()
	log.Info("Judge exchanged match", "event_id", eventID, "from", oldJudgeID, "to", newJudgeID, "ordered_by", actorID)

	if event.HostChannel != "" {
		if err := m.channels.Revoke(ctx, event.HostChannel, oldJudgeID); err != nil {
			log.Error("Failed to revoke channel access", "event_id", eventID, "judge", oldJudgeID, "error", err)
		}
		if err := m.channels.Grant(ctx, event.HostChannel, newJudgeID); err != nil {
			log.Error("Failed to grant channel access", "event_id", eventID, "judge", newJudgeID, "error", err)
		}
	}
	if err := m.notifier.SendJudgeExchanged(event, oldJudgeID, newJudgeID, dryRun); err != nil {
		log.Error("Failed to announce judge exchange", "event_id", eventID, "error", err)
	}
	if err := m.pubsub.SendMessage(pubsub.EventJudgeExchanged, pubsub.JudgeChange{EventID: eventID, JudgeRef: newJudgeID, PreviousJudge: oldJudgeID}); err != nil {
		log.Error("Failed to publish judge exchange", "event_id", eventID, "error", err)
	}

	return event, nil
}

// Delete removes an event entirely: its pending reminder is cancelled and
// any held judge slot is returned to the ledger. Requires the organizer
// capability.
func (m *Machine) Delete(ctx context.Context, eventID, actorID string) (*tournament.Event, error) {
	if !m.authorizer.HasCapability(ctx, actorID, access.CapabilityOrganizer) {
		return nil, m.rejected(ReasonUnauthorized, "")
	}

	lock := m.lockFor(eventID)
	if !lock.TryLock() {
		return nil, m.rejected(ReasonBusy, "")
	}
	defer lock.Unlock()

	if _, err := m.store.GetEvent(eventID); err != nil {
		if errors.Is(err, tournament.ErrNotFound) {
			return nil, m.rejected(ReasonNotFound, "")
		}
		return nil, err
	}

	// The pending reminder goes first so a fire can never race the removal.
	m.scheduler.Cancel(eventID)

	event, err := m.store.DeleteEvent(eventID)
	if err != nil {
		if errors.Is(err, tournament.ErrNotFound) {
			return nil, m.rejected(ReasonNotFound, "")
		}
		return nil, err
	}

	if event.JudgeRef != "" {
		m.ledger.Release(event.JudgeRef, eventID)
		if event.HostChannel != "" {
			if err := m.channels.Revoke(ctx, event.HostChannel, event.JudgeRef); err != nil {
				log.Error("Failed to revoke channel access", "event_id", eventID, "judge", event.JudgeRef, "error", err)
			}
		}
	}

	m.mu.Lock()
	delete(m.locks, eventID)
	m.mu.Unlock()

	log.Info("Event deleted", "event_id", eventID, "deleted_by", actorID)

	if err := m.pubsub.SendMessage(pubsub.EventMatchCancelled, pubsub.JudgeChange{EventID: eventID, PreviousJudge: event.JudgeRef}); err != nil {
		log.Error("Failed to publish event deletion", "event_id", eventID, "error", err)
	}

	return event, nil
}
