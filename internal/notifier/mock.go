package notifier

import (
	"sync"

	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/rankings"
	"github.com/mauv0809/league-rankings/internal/statistics"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendGameResultCalls []struct {
		Game  league.Game
		Names map[string]string
	}
	SendLeaderboardCalls []struct {
		Metric  rankings.Metric
		Entries []rankings.Entry
	}
	SendPlayerStatsCalls    []*statistics.Profile
	SendPlayerNotFoundCalls []string

	// Optional overrides
	SendGameResultFunc  func(game league.Game, names map[string]string, dryRun bool) error
	SendLeaderboardFunc func(metric rankings.Metric, entries []rankings.Entry, dryRun bool) error

	// Spies for format functions
	FormatLeaderboardResponseFunc      func(metric rankings.Metric, entries []rankings.Entry) (any, error)
	FormatPlayerStatsResponseFunc      func(profile *statistics.Profile) (any, error)
	FormatPlayerNotFoundResponseFunc   func(query string) (any, error)
	FormatTeamCombinationsResponseFunc func(combos []rankings.TeamCombination) (any, error)

	// Call records for format functions
	LastLeaderboardResponse      any
	LastPlayerStatsResponse      any
	LastPlayerNotFoundResponse   any
	LastTeamCombinationsResponse any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameResultCalls = nil
	m.SendLeaderboardCalls = nil
	m.SendPlayerStatsCalls = nil
	m.SendPlayerNotFoundCalls = nil
	m.LastLeaderboardResponse = nil
	m.LastPlayerStatsResponse = nil
	m.LastPlayerNotFoundResponse = nil
	m.LastTeamCombinationsResponse = nil
}

func (m *Mock) SendGameResult(game league.Game, names map[string]string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameResultCalls = append(m.SendGameResultCalls, struct {
		Game  league.Game
		Names map[string]string
	}{game, names})
	if m.SendGameResultFunc != nil {
		return m.SendGameResultFunc(game, names, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(metric rankings.Metric, entries []rankings.Entry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, struct {
		Metric  rankings.Metric
		Entries []rankings.Entry
	}{metric, entries})
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(metric, entries, dryRun)
	}
	return nil
}

func (m *Mock) SendPlayerStats(profile *statistics.Profile, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerStatsCalls = append(m.SendPlayerStatsCalls, profile)
	return nil
}

func (m *Mock) SendPlayerNotFound(query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerNotFoundCalls = append(m.SendPlayerNotFoundCalls, query)
	return nil
}

func (m *Mock) FormatLeaderboardResponse(metric rankings.Metric, entries []rankings.Entry) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		resp, err := m.FormatLeaderboardResponseFunc(metric, entries)
		m.LastLeaderboardResponse = resp
		return resp, err
	}
	return "formatted_leaderboard", nil
}

func (m *Mock) FormatPlayerStatsResponse(profile *statistics.Profile) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerStatsResponseFunc != nil {
		resp, err := m.FormatPlayerStatsResponseFunc(profile)
		m.LastPlayerStatsResponse = resp
		return resp, err
	}
	return "formatted_player_stats", nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerNotFoundResponseFunc != nil {
		resp, err := m.FormatPlayerNotFoundResponseFunc(query)
		m.LastPlayerNotFoundResponse = resp
		return resp, err
	}
	return "formatted_player_not_found", nil
}

func (m *Mock) FormatTeamCombinationsResponse(combos []rankings.TeamCombination) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatTeamCombinationsResponseFunc != nil {
		resp, err := m.FormatTeamCombinationsResponseFunc(combos)
		m.LastTeamCombinationsResponse = resp
		return resp, err
	}
	return "formatted_team_combinations", nil
}
