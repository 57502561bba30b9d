package rankings

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/statistics"
)

type pairKey [2]string

func newPairKey(team [2]string) pairKey {
	if team[1] < team[0] {
		return pairKey{team[1], team[0]}
	}
	return pairKey(team)
}

// BestTeamCombinations ranks the doubles pairs over every game ever played:
// win rate, then wins, then games played. Pairs with an inactive or unknown player
// are left out.
func (e *Engine) BestTeamCombinations(ctx context.Context, limit int) ([]TeamCombination, error) {
	limit = normalizeLimit(limit, DefaultTeamLimit)
	key := fmt.Sprintf("teams:%d", limit)

	var combos []TeamCombination
	gen, hit := e.cached(ctx, key, &combos)
	if hit {
		return combos, nil
	}

	start := time.Now()
	games, err := e.store.FindGames(ctx, league.GameFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}
	pairs := aggregatePairs(games)

	ids := make([]string, 0, 2*len(pairs))
	for k := range pairs {
		ids = append(ids, k[0], k[1])
	}
	players, err := e.store.FindPlayers(ctx, league.PlayerFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	byID := make(map[string]league.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	all := make([]TeamCombination, 0, len(pairs))
	for k, c := range pairs {
		p1, ok1 := byID[k[0]]
		p2, ok2 := byID[k[1]]
		if !ok1 || !ok2 || !p1.Active || !p2.Active {
			continue
		}
		c.Player1, c.Player2 = p1, p2
		c.WinRate = statistics.WinRate(c.Wins, c.GamesPlayed)
		all = append(all, *c)
	}
	sortTeams(all)

	combos = all[:min(limit, len(all))]
	for i := range combos {
		combos[i].Rank = i + 1
	}

	if e.metrics != nil {
		e.metrics.IncRankingComputed("teams")
		e.metrics.ObserveRankingDuration("teams", time.Since(start))
	}
	log.Debug("Computed team combinations", "pairs", len(pairs), "eligible", len(all))
	e.remember(ctx, gen, key, combos)
	return combos, nil
}

// aggregatePairs accumulates both teams of every game under their unordered pair.
// Player fields, win rate and rank are left empty.
func aggregatePairs(games []league.Game) map[pairKey]*TeamCombination {
	pairs := make(map[pairKey]*TeamCombination)
	for _, g := range games {
		winner := g.Winner()
		for _, side := range []league.Side{league.Team1, league.Team2} {
			k := newPairKey(g.Team(side))
			c, ok := pairs[k]
			if !ok {
				c = &TeamCombination{}
				pairs[k] = c
			}
			c.GamesPlayed++
			switch winner {
			case side:
				c.Wins++
			case side.Opponent():
				c.Losses++
			}
			won, lost := g.Sets(side)
			c.SetsWon += won
			c.SetsLost += lost
			scored, conceded := g.Points(side)
			c.PointsScored += scored
			c.PointsConceded += conceded
		}
	}
	return pairs
}

func sortTeams(all []TeamCombination) {
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		switch {
		case a.WinRate != b.WinRate:
			return a.WinRate > b.WinRate
		case a.Wins != b.Wins:
			return a.Wins > b.Wins
		case a.GamesPlayed != b.GamesPlayed:
			return a.GamesPlayed > b.GamesPlayed
		case a.Player1.Name != b.Player1.Name:
			return a.Player1.Name < b.Player1.Name
		case a.Player2.Name != b.Player2.Name:
			return a.Player2.Name < b.Player2.Name
		case a.Player1.ID != b.Player1.ID:
			return a.Player1.ID < b.Player1.ID
		}
		return a.Player2.ID < b.Player2.ID
	})
}
