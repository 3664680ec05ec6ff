// Package judges tracks which events each judge currently officiates and
// enforces the per-judge capacity cap. Judge identities are session-scoped,
// so the ledger is purely in-memory and starts empty on every restart.
package judges

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Ledger maps judge ids to the ordered set of event ids they officiate.
type Ledger struct {
	mu          sync.RWMutex
	assignments map[string][]string
	capacity    int
}

// NewLedger creates a ledger with the given per-judge capacity.
func NewLedger(capacity int) *Ledger {
	return &Ledger{
		assignments: make(map[string][]string),
		capacity:    capacity,
	}
}

// Capacity returns the configured per-judge cap.
func (l *Ledger) Capacity() int {
	return l.capacity
}

// CanAssign reports whether judgeID is below the capacity cap.
func (l *Ledger) CanAssign(judgeID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.assignments[judgeID]) < l.capacity
}

// Assign adds eventID to the judge's set. Idempotent: assigning an event the
// judge already holds does not duplicate the entry.
func (l *Ledger) Assign(judgeID, eventID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range l.assignments[judgeID] {
		if id == eventID {
			return
		}
	}
	l.assignments[judgeID] = append(l.assignments[judgeID], eventID)
	log.Debug("Assigned event to judge", "judgeID", judgeID, "eventID", eventID, "count", len(l.assignments[judgeID]))
}

// Release removes eventID from the judge's set. Empty entries are removed so
// the ledger never carries residual records.
func (l *Ledger) Release(judgeID, eventID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := l.assignments[judgeID]
	for i, id := range ids {
		if id == eventID {
			l.assignments[judgeID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(l.assignments[judgeID]) == 0 {
		delete(l.assignments, judgeID)
	}
}

// Events returns a copy of the judge's current event set.
func (l *Ledger) Events(judgeID string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := l.assignments[judgeID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Snapshot returns a copy of the full ledger, for inspection endpoints.
func (l *Ledger) Snapshot() map[string][]string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string][]string, len(l.assignments))
	for judgeID, ids := range l.assignments {
		events := make([]string, len(ids))
		copy(events, ids)
		out[judgeID] = events
	}
	return out
}
