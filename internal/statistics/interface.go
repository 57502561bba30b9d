package statistics

import (
	"context"

	"github.com/mauv0809/league-rankings/internal/league"
)

// Store is the slice of the league data the engine reads.
type Store interface {
	FindPlayer(ctx context.Context, id string) (*league.Player, error)
	FindGames(ctx context.Context, filter league.GameFilter) ([]league.Game, error)
	FindEvents(ctx context.Context, filter league.EventFilter) ([]league.Event, error)
}
