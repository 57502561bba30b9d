package league

import (
	"context"
	"sync"
)

// MockStore is a Reader whose behaviour is set per test through the Func fields.
// Unset funcs return empty results. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	FindPlayerFunc       func(ctx context.Context, id string) (*Player, error)
	FindPlayerByNameFunc func(ctx context.Context, name string) (*Player, error)
	FindPlayersFunc      func(ctx context.Context, filter PlayerFilter) ([]Player, error)
	FindGameFunc         func(ctx context.Context, id string) (*Game, error)
	FindGamesFunc        func(ctx context.Context, filter GameFilter) ([]Game, error)
	FindEventFunc        func(ctx context.Context, id string) (*Event, error)
	FindEventsFunc       func(ctx context.Context, filter EventFilter) ([]Event, error)
	FindEventMembersFunc func(ctx context.Context, filter MemberFilter) ([]EventMember, error)

	// Call records
	FindPlayerCalls       []string
	FindPlayersCalls      []PlayerFilter
	FindGamesCalls        []GameFilter
	FindEventsCalls       []EventFilter
	FindEventMembersCalls []MemberFilter
}

func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindPlayerCalls = nil
	m.FindPlayersCalls = nil
	m.FindGamesCalls = nil
	m.FindEventsCalls = nil
	m.FindEventMembersCalls = nil
}

func (m *MockStore) FindPlayer(ctx context.Context, id string) (*Player, error) {
	m.mu.Lock()
	m.FindPlayerCalls = append(m.FindPlayerCalls, id)
	fn := m.FindPlayerFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) FindPlayerByName(ctx context.Context, name string) (*Player, error) {
	m.mu.Lock()
	fn := m.FindPlayerByNameFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, name)
	}
	return nil, ErrNotFound
}

func (m *MockStore) FindPlayers(ctx context.Context, filter PlayerFilter) ([]Player, error) {
	m.mu.Lock()
	m.FindPlayersCalls = append(m.FindPlayersCalls, filter)
	fn := m.FindPlayersFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, filter)
	}
	return nil, nil
}

func (m *MockStore) FindGame(ctx context.Context, id string) (*Game, error) {
	m.mu.Lock()
	fn := m.FindGameFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) FindGames(ctx context.Context, filter GameFilter) ([]Game, error) {
	m.mu.Lock()
	m.FindGamesCalls = append(m.FindGamesCalls, filter)
	fn := m.FindGamesFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, filter)
	}
	return nil, nil
}

func (m *MockStore) FindEvent(ctx context.Context, id string) (*Event, error) {
	m.mu.Lock()
	fn := m.FindEventFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) FindEvents(ctx context.Context, filter EventFilter) ([]Event, error) {
	m.mu.Lock()
	m.FindEventsCalls = append(m.FindEventsCalls, filter)
	fn := m.FindEventsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, filter)
	}
	return nil, nil
}

func (m *MockStore) FindEventMembers(ctx context.Context, filter MemberFilter) ([]EventMember, error) {
	m.mu.Lock()
	m.FindEventMembersCalls = append(m.FindEventMembersCalls, filter)
	fn := m.FindEventMembersFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, filter)
	}
	return nil, nil
}
