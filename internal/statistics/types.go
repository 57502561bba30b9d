package statistics

import "github.com/mauv0809/league-rankings/internal/league"

// Engine derives per-player statistics from the game log. It never writes.
type Engine struct {
	store Store
}

// PlayerStats aggregates a player's games, optionally windowed by date.
type PlayerStats struct {
	PlayerID         string  `json:"playerId" msgpack:"playerId"`
	TotalGames       int     `json:"totalGames" msgpack:"totalGames"`
	TotalWins        int     `json:"totalWins" msgpack:"totalWins"`
	TotalLosses      int     `json:"totalLosses" msgpack:"totalLosses"`
	WinRate          float64 `json:"winRate" msgpack:"winRate"`
	SetsWon          int     `json:"setsWon" msgpack:"setsWon"`
	SetsLost         int     `json:"setsLost" msgpack:"setsLost"`
	PointsScored     int     `json:"pointsScored" msgpack:"pointsScored"`
	PointsConceded   int     `json:"pointsConceded" msgpack:"pointsConceded"`
	PointsDifference int     `json:"pointsDifference" msgpack:"pointsDifference"`
}

// Profile is the full view of a player: identity, lifetime stats, medals and recent form.
type Profile struct {
	Player      league.Player      `json:"player"`
	Stats       PlayerStats        `json:"stats"`
	Medals      league.MedalCounts `json:"medals"`
	TotalEvents int                `json:"totalEvents"` // placements held, ranked or not
	RecentGames []string           `json:"recentGames"`
}

// RecentFormSize is how many games Profile reports as recent form.
const RecentFormSize = 5
