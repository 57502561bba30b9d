package rankings

import (
	"context"

	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/statistics"
)

// byWins reads the persisted counters unless a filter asks for a window of games.
func (e *Engine) byWins(ctx context.Context, filters Filters) ([]scored, error) {
	if filters.IsZero() {
		return e.fromCounters(ctx, func(p league.Player) scored {
			return number(p, float64(p.TotalWins), float64(p.TotalWins))
		})
	}
	return e.withStats(ctx, filters, func(p league.Player, s statistics.PlayerStats) (scored, bool) {
		return number(p, float64(s.TotalWins), float64(s.TotalWins)), true
	})
}

func (e *Engine) byLowestLosses(ctx context.Context, filters Filters) ([]scored, error) {
	if filters.IsZero() {
		return e.fromCounters(ctx, func(p league.Player) scored {
			return number(p, float64(p.TotalLosses), -float64(p.TotalLosses))
		})
	}
	return e.withStats(ctx, filters, func(p league.Player, s statistics.PlayerStats) (scored, bool) {
		return number(p, float64(s.TotalLosses), -float64(s.TotalLosses)), true
	})
}

func (e *Engine) byWinRate(ctx context.Context, filters Filters) ([]scored, error) {
	return e.withStats(ctx, filters, func(p league.Player, s statistics.PlayerStats) (scored, bool) {
		return number(p, s.WinRate, s.WinRate, float64(s.TotalWins)), s.TotalGames > 0
	})
}

func (e *Engine) bySetsWon(ctx context.Context, filters Filters) ([]scored, error) {
	return e.withStats(ctx, filters, func(p league.Player, s statistics.PlayerStats) (scored, bool) {
		return number(p, float64(s.SetsWon), float64(s.SetsWon)), true
	})
}

func (e *Engine) byPointsDifference(ctx context.Context, filters Filters) ([]scored, error) {
	return e.withStats(ctx, filters, func(p league.Player, s statistics.PlayerStats) (scored, bool) {
		return number(p, float64(s.PointsDifference), float64(s.PointsDifference)), true
	})
}

func (e *Engine) byGamesPlayed(ctx context.Context, filters Filters) ([]scored, error) {
	return e.withStats(ctx, filters, func(p league.Player, s statistics.PlayerStats) (scored, bool) {
		return number(p, float64(s.TotalGames), float64(s.TotalGames), s.WinRate), s.TotalGames > 0
	})
}

func (e *Engine) fromCounters(ctx context.Context, fn func(league.Player) scored) ([]scored, error) {
	players, err := e.candidates(ctx, Filters{})
	if err != nil {
		return nil, err
	}
	all := make([]scored, 0, len(players))
	for _, p := range players {
		all = append(all, fn(p))
	}
	return all, nil
}

func number(p league.Player, value float64, keys ...float64) scored {
	return scored{player: p, value: Value{Number: value}, keys: keys}
}
