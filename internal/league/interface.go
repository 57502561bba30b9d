package league

import "context"

// Reader is the read side of the league data.
type Reader interface {
	FindPlayer(ctx context.Context, id string) (*Player, error)
	FindPlayerByName(ctx context.Context, name string) (*Player, error)
	FindPlayers(ctx context.Context, filter PlayerFilter) ([]Player, error)
	FindGame(ctx context.Context, id string) (*Game, error)
	FindGames(ctx context.Context, filter GameFilter) ([]Game, error)
	FindEvent(ctx context.Context, id string) (*Event, error)
	FindEvents(ctx context.Context, filter EventFilter) ([]Event, error)
	FindEventMembers(ctx context.Context, filter MemberFilter) ([]EventMember, error)
}

// Writer mutates league data. Every call runs in a single transaction.
type Writer interface {
	CreatePlayer(ctx context.Context, in NewPlayer) (*Player, error)
	UpdatePlayer(ctx context.Context, id string, in PlayerUpdate) (*Player, error)
	DeletePlayer(ctx context.Context, id string) error

	CreateEvent(ctx context.Context, in NewEvent) (*Event, error)
	CreateEventWithGames(ctx context.Context, in NewEventWithGames) (*Event, []Game, error)
	UpdateEvent(ctx context.Context, id string, in EventUpdate) (*Event, error)
	SetPlaces(ctx context.Context, eventID string, places Places) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error

	CreateGame(ctx context.Context, in NewGame) (*Game, error)
	UpdateGame(ctx context.Context, id string, in GameUpdate) (*Game, error)
	DeleteGame(ctx context.Context, id string) (*Game, error)

	RegisterMember(ctx context.Context, eventID, playerID string) (*EventMember, error)
	RemoveMember(ctx context.Context, id string) error
	RemoveMemberByEventAndPlayer(ctx context.Context, eventID, playerID string) error
}

// Store is the full data-access boundary.
type Store interface {
	Reader
	Writer
}
