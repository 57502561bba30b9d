package handlers

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/metrics"
	"github.com/mauv0809/league-rankings/internal/pubsub"
)

// WriteHooks runs the side effects of a successful write. Failures are logged, never
// returned: the write itself has already committed.
type WriteHooks struct {
	Rankings Ranker
	Events   pubsub.PubSubClient // optional
	Metrics  metrics.Metrics
}

// Changed drops cached rankings.
func (h WriteHooks) Changed(ctx context.Context) {
	if h.Rankings == nil {
		return
	}
	if err := h.Rankings.Invalidate(ctx); err != nil {
		log.Warn("Failed to invalidate rankings cache", "error", err)
	}
}

// GameChanged invalidates rankings and announces the game.
func (h WriteHooks) GameChanged(ctx context.Context, event pubsub.EventType, game league.Game) {
	h.Changed(ctx)
	if event == pubsub.EventGameRecorded && h.Metrics != nil {
		h.Metrics.IncGamesRecorded()
	}
	if h.Events == nil {
		return
	}
	msg := pubsub.GameMessage{Type: event, Game: game}
	if err := h.Events.SendMessage(ctx, event, msg); err != nil {
		log.Warn("Failed to publish game event", "event", event, "game", game.ID, "error", err)
	}
}
