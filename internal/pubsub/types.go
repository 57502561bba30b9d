package pubsub

import (
	"cloud.google.com/go/pubsub"
	"github.com/mauv0809/league-rankings/internal/league"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. It doubles as the topic id.
type EventType string

const (
	EventGameRecorded EventType = "game-recorded"
	EventGameUpdated  EventType = "game-updated"
	EventGameDeleted  EventType = "game-deleted"
)

// GameMessage is published after a game is written.
type GameMessage struct {
	Type EventType   `msgpack:"type"`
	Game league.Game `msgpack:"game"`
}
