// Package access defines the authorization and channel-access collaborators
// the core consults before and during judge-slot transitions.
package access

import "context"

// Capability names an action class an actor may be allowed to perform.
type Capability string

const (
	// CapabilityJudge is required to claim and release schedules.
	CapabilityJudge Capability = "judge"
	// CapabilityOrganizer is required for event creation/deletion, result
	// recording, judge exchanges and rules management.
	CapabilityOrganizer Capability = "organizer"
)

// Authorizer checks actor capabilities. Implementations may cache lookups.
type Authorizer interface {
	HasCapability(ctx context.Context, actorID string, capability Capability) bool
}

// ChannelAccess grants and revokes an actor's access to an event's host
// channel. Failures are best-effort: callers log and continue.
type ChannelAccess interface {
	Grant(ctx context.Context, channelRef, actorID string) error
	Revoke(ctx context.Context, channelRef, actorID string) error
}
