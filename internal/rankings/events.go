package rankings

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/league"
)

func (f Filters) eventFilter() league.EventFilter {
	return league.EventFilter{ID: f.EventID, Range: f.Range}
}

// byTournamentsWon credits each event's winners: the players with the most wins in
// that event, all of them on a tie.
func (e *Engine) byTournamentsWon(ctx context.Context, filters Filters) ([]scored, error) {
	events, err := e.store.FindEvents(ctx, filters.eventFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	titles := make(map[string]int)
	for _, event := range events {
		games, err := e.store.FindGames(ctx, league.GameFilter{EventID: event.ID})
		if errors.Is(err, league.ErrNotFound) {
			log.Warn("Event disappeared while ranking", "event", event.ID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load games of event %s: %w", event.ID, err)
		}
		for _, id := range EventWinners(games) {
			titles[id]++
		}
	}

	return e.activeByID(ctx, titles, func(p league.Player, n int) scored {
		return number(p, float64(n), float64(n))
	})
}

// EventWinners returns the players with the highest win count across games. Draws
// credit nobody, so an event of draws has no winner.
func EventWinners(games []league.Game) []string {
	wins := make(map[string]int)
	best := 0
	for _, g := range games {
		side := g.Winner()
		if side == league.NoSide {
			continue
		}
		for _, id := range g.Team(side) {
			wins[id]++
			best = max(best, wins[id])
		}
	}
	if best == 0 {
		return nil
	}
	var winners []string
	for id, n := range wins {
		if n == best {
			winners = append(winners, id)
		}
	}
	return winners
}

type medalTally struct {
	medals     league.MedalCounts
	placements int
}

// byEventsWon counts medals from every event's places.
func (e *Engine) byEventsWon(ctx context.Context, filters Filters) ([]scored, error) {
	events, err := e.store.FindEvents(ctx, filters.eventFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	tallies := make(map[string]*medalTally)
	for _, event := range events {
		event.Places.Credit(func(id string, p league.Placement) {
			t, ok := tallies[id]
			if !ok {
				t = &medalTally{}
				tallies[id] = t
			}
			t.medals.Add(p.Medal())
			t.placements++
		})
	}
	if len(tallies) == 0 {
		return []scored{}, nil
	}

	ids := make([]string, 0, len(tallies))
	for id := range tallies {
		ids = append(ids, id)
	}
	active := true
	players, err := e.store.FindPlayers(ctx, league.PlayerFilter{IDs: ids, Active: &active})
	if err != nil {
		return nil, fmt.Errorf("failed to load placed players: %w", err)
	}

	all := make([]scored, 0, len(players))
	for _, p := range players {
		t := tallies[p.ID]
		medals := t.medals
		placements, gold := t.placements, medals.Gold
		all = append(all, scored{
			player:      p,
			value:       Value{Medals: &medals},
			keys:        []float64{float64(medals.Gold), float64(medals.Silver), float64(medals.Bronze)},
			totalEvents: &placements,
			eventsWon:   &gold,
		})
	}
	return all, nil
}

// activeByID loads the active players among counts' keys and scores each.
func (e *Engine) activeByID(ctx context.Context, counts map[string]int, fn func(league.Player, int) scored) ([]scored, error) {
	if len(counts) == 0 {
		return []scored{}, nil
	}
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	active := true
	players, err := e.store.FindPlayers(ctx, league.PlayerFilter{IDs: ids, Active: &active})
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	all := make([]scored, 0, len(players))
	for _, p := range players {
		all = append(all, fn(p, counts[p.ID]))
	}
	return all, nil
}
