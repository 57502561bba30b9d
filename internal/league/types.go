package league

import (
	"database/sql"
	"sync"
	"time"
)

// store is the SQLite implementation of Store.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

const (
	GenderFemale = "female"
	GenderMale   = "male"
)

// Player is a league member. The Total* counters are kept in lock-step with game writes.
type Player struct {
	ID          string    `json:"id"`
	TgID        *string   `json:"tgId,omitempty"`
	Name        string    `json:"name"`
	Avatar      *string   `json:"avatar,omitempty"`
	Gender      *string   `json:"gender,omitempty"`
	Active      bool      `json:"active"`
	TotalGames  int       `json:"totalGames"`
	TotalWins   int       `json:"totalWins"`
	TotalLosses int       `json:"totalLosses"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GenderIs reports whether the player's gender is exactly g.
func (p Player) GenderIs(g string) bool {
	return p.Gender != nil && *p.Gender == g
}

// Event is a tournament or play session.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	CreatedBy *string   `json:"createdBy,omitempty"`
	Location  *string   `json:"location,omitempty"`
	Places    Places    `json:"places,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Game is a doubles match played inside an event.
type Game struct {
	ID             string    `json:"id"`
	EventID        string    `json:"eventId"`
	Team1Player1ID string    `json:"team1Player1Id"`
	Team1Player2ID string    `json:"team1Player2Id"`
	Team2Player1ID string    `json:"team2Player1Id"`
	Team2Player2ID string    `json:"team2Player2Id"`
	Team1Sets      int       `json:"team1Sets"`
	Team2Sets      int       `json:"team2Sets"`
	Team1Points    int       `json:"team1Points"`
	Team2Points    int       `json:"team2Points"`
	Date           time.Time `json:"date"`
	Location       *string   `json:"location,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// EventMember registers a player for an event.
type EventMember struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	PlayerID  string    `json:"playerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// DateRange is an inclusive window. Either bound may be nil.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// IsZero reports whether the range has no bounds.
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

type PlayerFilter struct {
	IDs    []string
	Active *bool
}

// GameFilter narrows FindGames. PlayerID matches any of the four slots; the
// Team*Player*ID fields match that slot only. Limit <= 0 means no limit.
type GameFilter struct {
	PlayerID       string
	Team1Player1ID string
	Team1Player2ID string
	Team2Player1ID string
	Team2Player2ID string
	EventID        string
	Range          DateRange
	Limit          int
}

type EventFilter struct {
	ID    string
	IDs   []string
	Range DateRange
}

type MemberFilter struct {
	EventID  string
	PlayerID string
}

// NewPlayer holds the fields accepted when creating a player. Active defaults to true.
type NewPlayer struct {
	TgID   *string `json:"tgId,omitempty"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
	Gender *string `json:"gender,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// PlayerUpdate is a partial update; nil fields are left unchanged.
type PlayerUpdate struct {
	TgID   *string `json:"tgId,omitempty"`
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
	Gender *string `json:"gender,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

type NewEvent struct {
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	CreatedBy *string   `json:"createdBy,omitempty"`
	Location  *string   `json:"location,omitempty"`
	Places    Places    `json:"places,omitempty"`
}

// EventUpdate is a partial update; nil fields are left unchanged.
type EventUpdate struct {
	Name      *string    `json:"name,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
	CreatedBy *string    `json:"createdBy,omitempty"`
	Location  *string    `json:"location,omitempty"`
}

// NewGame holds a game to record. A zero Date inherits the event's date.
type NewGame struct {
	EventID        string    `json:"eventId"`
	Team1Player1ID string    `json:"team1Player1Id"`
	Team1Player2ID string    `json:"team1Player2Id"`
	Team2Player1ID string    `json:"team2Player1Id"`
	Team2Player2ID string    `json:"team2Player2Id"`
	Team1Sets      int       `json:"team1Sets"`
	Team2Sets      int       `json:"team2Sets"`
	Team1Points    int       `json:"team1Points"`
	Team2Points    int       `json:"team2Points"`
	Date           time.Time `json:"date"`
	Location       *string   `json:"location,omitempty"`
}

// GameUpdate is a partial update; nil fields are left unchanged.
type GameUpdate struct {
	EventID        *string    `json:"eventId,omitempty"`
	Team1Player1ID *string    `json:"team1Player1Id,omitempty"`
	Team1Player2ID *string    `json:"team1Player2Id,omitempty"`
	Team2Player1ID *string    `json:"team2Player1Id,omitempty"`
	Team2Player2ID *string    `json:"team2Player2Id,omitempty"`
	Team1Sets      *int       `json:"team1Sets,omitempty"`
	Team2Sets      *int       `json:"team2Sets,omitempty"`
	Team1Points    *int       `json:"team1Points,omitempty"`
	Team2Points    *int       `json:"team2Points,omitempty"`
	Date           *time.Time `json:"date,omitempty"`
	Location       *string    `json:"location,omitempty"`
}

// NewEventWithGames creates an event, its places and its games in one go.
type NewEventWithGames struct {
	NewEvent
	Games []NewGame `json:"games"`
}
