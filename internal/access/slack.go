package access

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// groupMembershipTTL bounds how long usergroup membership is served from
// cache before Slack is consulted again.
const groupMembershipTTL = 5 * time.Minute

// slackAPI contains the methods from slack.Client that we use, for mocking.
type slackAPI interface {
	GetUserGroupMembersContext(ctx context.Context, userGroup string, opts ...slack.GetUserGroupMembersOption) ([]string, error)
	InviteUsersToConversationContext(ctx context.Context, channelID string, users ...string) (*slack.Channel, error)
	KickUserFromConversationContext(ctx context.Context, channelID, user string) error
}

// SlackAccess resolves capabilities against Slack usergroups and manages
// conversation membership for channel access grants.
type SlackAccess struct {
	api    slackAPI
	groups map[Capability]string

	mu    sync.Mutex
	cache map[string]cachedMembers
}

type cachedMembers struct {
	members   map[string]struct{}
	fetchedAt time.Time
}

// NewSlackAccess creates a SlackAccess backed by a real Slack client. The
// judge capability also accepts organizer group members, mirroring how staff
// roles nest.
func NewSlackAccess(token, judgeGroupID, organizerGroupID string) *SlackAccess {
	return NewSlackAccessWithAPI(slack.New(token), judgeGroupID, organizerGroupID)
}

// NewSlackAccessWithAPI creates a SlackAccess with a specific API instance.
// Useful for tests that need to intercept API calls.
func NewSlackAccessWithAPI(api slackAPI, judgeGroupID, organizerGroupID string) *SlackAccess {
	return &SlackAccess{
		api: api,
		groups: map[Capability]string{
			CapabilityJudge:     judgeGroupID,
			CapabilityOrganizer: organizerGroupID,
		},
		cache: make(map[string]cachedMembers),
	}
}

func (s *SlackAccess) HasCapability(ctx context.Context, actorID string, capability Capability) bool {
	groupID, ok := s.groups[capability]
	if !ok || groupID == "" {
		log.Warn("Unknown capability requested", "capability", capability)
		return false
	}

	if s.isMember(ctx, groupID, actorID) {
		return true
	}
	// Organizers implicitly hold the judge capability.
	if capability == CapabilityJudge {
		return s.isMember(ctx, s.groups[CapabilityOrganizer], actorID)
	}
	return false
}

func (s *SlackAccess) isMember(ctx context.Context, groupID, actorID string) bool {
	if groupID == "" {
		return false
	}

	s.mu.Lock()
	cached, ok := s.cache[groupID]
	s.mu.Unlock()

	if !ok || time.Since(cached.fetchedAt) > groupMembershipTTL {
		members, err := s.api.GetUserGroupMembersContext(ctx, groupID)
		if err != nil {
			log.Error("Failed to fetch usergroup members", "groupID", groupID, "error", err)
			// Fall back to the stale cache if we have one.
			if !ok {
				return false
			}
		} else {
			set := make(map[string]struct{}, len(members))
			for _, m := range members {
				set[m] = struct{}{}
			}
			cached = cachedMembers{members: set, fetchedAt: time.Now()}
			s.mu.Lock()
			s.cache[groupID] = cached
			s.mu.Unlock()
		}
	}

	_, member := cached.members[actorID]
	return member
}

func (s *SlackAccess) Grant(ctx context.Context, channelRef, actorID string) error {
	_, err := s.api.InviteUsersToConversationContext(ctx, channelRef, actorID)
	if err != nil {
		return fmt.Errorf("failed to invite %s to %s: %w", actorID, channelRef, err)
	}
	log.Info("Granted channel access", "channel", channelRef, "actorID", actorID)
	return nil
}

func (s *SlackAccess) Revoke(ctx context.Context, channelRef, actorID string) error {
	if err := s.api.KickUserFromConversationContext(ctx, channelRef, actorID); err != nil {
		return fmt.Errorf("failed to remove %s from %s: %w", actorID, channelRef, err)
	}
	log.Info("Revoked channel access", "channel", channelRef, "actorID", actorID)
	return nil
}
