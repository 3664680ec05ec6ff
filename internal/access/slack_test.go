package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the slackAPI interface.
type mockSlackAPI struct {
	getUserGroupMembersContextFunc       func(ctx context.Context, userGroup string, opts ...slack.GetUserGroupMembersOption) ([]string, error)
	inviteUsersToConversationContextFunc func(ctx context.Context, channelID string, users ...string) (*slack.Channel, error)
	kickUserFromConversationContextFunc  func(ctx context.Context, channelID, user string) error

	groupCalls []string
	invited    []string
	kicked     []string
}

func (m *mockSlackAPI) GetUserGroupMembersContext(ctx context.Context, userGroup string, opts ...slack.GetUserGroupMembersOption) ([]string, error) {
	m.groupCalls = append(m.groupCalls, userGroup)
	if m.getUserGroupMembersContextFunc != nil {
		return m.getUserGroupMembersContextFunc(ctx, userGroup, opts...)
	}
	return nil, nil
}

func (m *mockSlackAPI) InviteUsersToConversationContext(ctx context.Context, channelID string, users ...string) (*slack.Channel, error) {
	m.invited = append(m.invited, users...)
	if m.inviteUsersToConversationContextFunc != nil {
		return m.inviteUsersToConversationContextFunc(ctx, channelID, users...)
	}
	return &slack.Channel{}, nil
}

func (m *mockSlackAPI) KickUserFromConversationContext(ctx context.Context, channelID, user string) error {
	m.kicked = append(m.kicked, user)
	if m.kickUserFromConversationContextFunc != nil {
		return m.kickUserFromConversationContextFunc(ctx, channelID, user)
	}
	return nil
}

func membership(groups map[string][]string) func(ctx context.Context, userGroup string, opts ...slack.GetUserGroupMembersOption) ([]string, error) {
	return func(_ context.Context, userGroup string, _ ...slack.GetUserGroupMembersOption) ([]string, error) {
		return groups[userGroup], nil
	}
}

func TestHasCapability(t *testing.T) {
	mockAPI := &mockSlackAPI{
		getUserGroupMembersContextFunc: membership(map[string][]string{
			"GJUDGE": {"U1", "U2"},
			"GORG":   {"U3"},
		}),
	}
	access := NewSlackAccessWithAPI(mockAPI, "GJUDGE", "GORG")

	assert.True(t, access.HasCapability(t.Context(), "U1", CapabilityJudge))
	assert.False(t, access.HasCapability(t.Context(), "U1", CapabilityOrganizer))
	assert.True(t, access.HasCapability(t.Context(), "U3", CapabilityOrganizer))
	assert.False(t, access.HasCapability(t.Context(), "UNOBODY", CapabilityJudge))
}

func TestHasCapabilityOrganizersAreJudges(t *testing.T) {
	mockAPI := &mockSlackAPI{
		getUserGroupMembersContextFunc: membership(map[string][]string{
			"GJUDGE": {"U1"},
			"GORG":   {"U3"},
		}),
	}
	access := NewSlackAccessWithAPI(mockAPI, "GJUDGE", "GORG")

	assert.True(t, access.HasCapability(t.Context(), "U3", CapabilityJudge))
}

func TestHasCapabilityCachesMembership(t *testing.T) {
	mockAPI := &mockSlackAPI{
		getUserGroupMembersContextFunc: membership(map[string][]string{
			"GJUDGE": {"U1"},
		}),
	}
	access := NewSlackAccessWithAPI(mockAPI, "GJUDGE", "GORG")

	assert.True(t, access.HasCapability(t.Context(), "U1", CapabilityJudge))
	assert.True(t, access.HasCapability(t.Context(), "U1", CapabilityJudge))
	assert.Len(t, mockAPI.groupCalls, 1, "second lookup should be served from cache")
}

func TestHasCapabilityFallsBackToStaleCache(t *testing.T) {
	calls := 0
	mockAPI := &mockSlackAPI{
		getUserGroupMembersContextFunc: func(_ context.Context, _ string, _ ...slack.GetUserGroupMembersOption) ([]string, error) {
			calls++
			if calls == 1 {
				return []string{"U1"}, nil
			}
			return nil, errors.New("slack is down")
		},
	}
	access := NewSlackAccessWithAPI(mockAPI, "GJUDGE", "GORG")

	require.True(t, access.HasCapability(t.Context(), "U1", CapabilityJudge))

	// Expire the cache so the next lookup hits the failing API.
	access.mu.Lock()
	cached := access.cache["GJUDGE"]
	cached.fetchedAt = time.Now().Add(-2 * groupMembershipTTL)
	access.cache["GJUDGE"] = cached
	access.mu.Unlock()

	assert.True(t, access.HasCapability(t.Context(), "U1", CapabilityJudge))
}

func TestGrantAndRevoke(t *testing.T) {
	mockAPI := &mockSlackAPI{}
	access := NewSlackAccessWithAPI(mockAPI, "GJUDGE", "GORG")

	require.NoError(t, access.Grant(t.Context(), "CHOST", "U1"))
	assert.Equal(t, []string{"U1"}, mockAPI.invited)

	require.NoError(t, access.Revoke(t.Context(), "CHOST", "U1"))
	assert.Equal(t, []string{"U1"}, mockAPI.kicked)
}

func TestGrantWrapsError(t *testing.T) {
	mockAPI := &mockSlackAPI{
		inviteUsersToConversationContextFunc: func(_ context.Context, _ string, _ ...string) (*slack.Channel, error) {
			return nil, errors.New("not_in_channel")
		},
	}
	access := NewSlackAccessWithAPI(mockAPI, "GJUDGE", "GORG")

	err := access.Grant(t.Context(), "CHOST", "U1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHOST")
}
