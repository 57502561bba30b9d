package handlers

import (
	"context"

	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/rankings"
	"github.com/mauv0809/league-rankings/internal/statistics"
)

// Ranker is the part of the rankings engine the handlers use.
type Ranker interface {
	TopPlayers(ctx context.Context, metric rankings.Metric, limit int, filters rankings.Filters) ([]rankings.Entry, error)
	TopPlayersGrouped(ctx context.Context, metric rankings.Metric, limit int, filters rankings.Filters) (rankings.Grouped, error)
	BestTeamCombinations(ctx context.Context, limit int) ([]rankings.TeamCombination, error)
	Invalidate(ctx context.Context) error
}

// StatsService is the part of the statistics engine the handlers use.
type StatsService interface {
	ComputePlayerStats(ctx context.Context, playerID string, r league.DateRange) (statistics.PlayerStats, error)
	PlayerProfile(ctx context.Context, playerID string) (*statistics.Profile, error)
}

var (
	_ Ranker       = (*rankings.Engine)(nil)
	_ StatsService = (*statistics.Engine)(nil)
)
