package rankings

import (
	"context"
	"time"

	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/statistics"
)

// Store is the slice of the league data the engine reads.
type Store interface {
	FindPlayers(ctx context.Context, filter league.PlayerFilter) ([]league.Player, error)
	FindGames(ctx context.Context, filter league.GameFilter) ([]league.Game, error)
	FindEvents(ctx context.Context, filter league.EventFilter) ([]league.Event, error)
	FindEventMembers(ctx context.Context, filter league.MemberFilter) ([]league.EventMember, error)
}

// StatsComputer is implemented by statistics.Engine.
type StatsComputer interface {
	ComputePlayerStats(ctx context.Context, playerID string, r league.DateRange) (statistics.PlayerStats, error)
}

// Cache stores computed leaderboards until the next Invalidate. Get reports the
// generation it read; Set stores under that generation, so a value computed before an
// Invalidate is never visible after it.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (gen int64, hit bool, err error)
	Set(ctx context.Context, gen int64, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// Recorder records engine activity.
type Recorder interface {
	IncRankingComputed(metric string)
	ObserveRankingDuration(metric string, d time.Duration)
	IncCacheHit()
	IncCacheMiss()
}
