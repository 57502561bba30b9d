package statistics

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/league"
)

func New(store Store) *Engine {
	return &Engine{store: store}
}

// ComputePlayerStats scans the games the player took part in within r. It fails with
// league.ErrNotFound when the player does not exist.
func (e *Engine) ComputePlayerStats(ctx context.Context, playerID string, r league.DateRange) (PlayerStats, error) {
	if _, err := e.store.FindPlayer(ctx, playerID); err != nil {
		return PlayerStats{}, err
	}
	games, err := e.store.FindGames(ctx, league.GameFilter{PlayerID: playerID, Range: r})
	if err != nil {
		return PlayerStats{}, fmt.Errorf("failed to load games of player %s: %w", playerID, err)
	}
	return Aggregate(playerID, games), nil
}

// Aggregate folds games into stats for playerID. Games the player did not play, and
// repeated game ids, are skipped.
func Aggregate(playerID string, games []league.Game) PlayerStats {
	stats := PlayerStats{PlayerID: playerID}
	seen := make(map[string]struct{}, len(games))
	for _, g := range games {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}

		side := g.SideOf(playerID)
		if side == league.NoSide {
			continue
		}
		stats.TotalGames++
		switch g.Winner() {
		case side:
			stats.TotalWins++
		case side.Opponent():
			stats.TotalLosses++
		}
		won, lost := g.Sets(side)
		stats.SetsWon += won
		stats.SetsLost += lost
		scored, conceded := g.Points(side)
		stats.PointsScored += scored
		stats.PointsConceded += conceded
	}
	stats.WinRate = WinRate(stats.TotalWins, stats.TotalGames)
	stats.PointsDifference = stats.PointsScored - stats.PointsConceded
	return stats
}

// WinRate is wins/games as a percentage rounded to two decimals, 0 when there are no games.
func WinRate(wins, games int) float64 {
	if games == 0 {
		return 0
	}
	return Round2(float64(wins) / float64(games) * 100)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PlayerProfile returns the player with lifetime stats, medals from event places and
// the results of their last games, most recent first.
func (e *Engine) PlayerProfile(ctx context.Context, playerID string) (*Profile, error) {
	player, err := e.store.FindPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	games, err := e.store.FindGames(ctx, league.GameFilter{PlayerID: playerID})
	if err != nil {
		return nil, fmt.Errorf("failed to load games of player %s: %w", playerID, err)
	}
	events, err := e.store.FindEvents(ctx, league.EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	profile := &Profile{
		Player:      *player,
		Stats:       Aggregate(playerID, games),
		RecentGames: []string{},
	}
	for _, event := range events {
		event.Places.Credit(func(id string, p league.Placement) {
			if id != playerID {
				return
			}
			profile.Medals.Add(p.Medal())
			profile.TotalEvents++
		})
	}
	// Games come back most recent first.
	for _, g := range games {
		if len(profile.RecentGames) == RecentFormSize {
			break
		}
		if res := g.Result(playerID); res != "" {
			profile.RecentGames = append(profile.RecentGames, res)
		}
	}
	log.Debug("Built player profile", "player", playerID, "games", profile.Stats.TotalGames, "events", profile.TotalEvents)
	return profile, nil
}
