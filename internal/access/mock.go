package access

import (
	"context"
	"sync"
)

// MockAccess is a mock Authorizer and ChannelAccess for testing.
type MockAccess struct {
	mu sync.Mutex

	// Capabilities maps actorID -> capabilities granted.
	Capabilities map[string][]Capability

	GrantFunc  func(ctx context.Context, channelRef, actorID string) error
	RevokeFunc func(ctx context.Context, channelRef, actorID string) error

	GrantCalls []struct {
		ChannelRef string
		ActorID    string
	}
	RevokeCalls []struct {
		ChannelRef string
		ActorID    string
	}
}

// NewMock creates a mock with no capabilities granted.
func NewMock() *MockAccess {
	return &MockAccess{Capabilities: make(map[string][]Capability)}
}

// Allow grants a capability to an actor.
func (m *MockAccess) Allow(actorID string, capability Capability) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Capabilities[actorID] = append(m.Capabilities[actorID], capability)
}

func (m *MockAccess) HasCapability(_ context.Context, actorID string, capability Capability) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Capabilities[actorID] {
		if c == capability {
			return true
		}
	}
	return false
}

func (m *MockAccess) Grant(ctx context.Context, channelRef, actorID string) error {
	m.mu.Lock()
	m.GrantCalls = append(m.GrantCalls, struct {
		ChannelRef string
		ActorID    string
	}{channelRef, actorID})
	fn := m.GrantFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, channelRef, actorID)
	}
	return nil
}

func (m *MockAccess) Revoke(ctx context.Context, channelRef, actorID string) error {
	m.mu.Lock()
	m.RevokeCalls = append(m.RevokeCalls, struct {
		ChannelRef string
		ActorID    string
	}{channelRef, actorID})
	fn := m.RevokeFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, channelRef, actorID)
	}
	return nil
}
