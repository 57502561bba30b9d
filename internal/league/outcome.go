package league

import "fmt"

// Side identifies a team within a game. NoSide marks a draw or a non-participant.
type Side int

const (
	NoSide Side = iota
	Team1
	Team2
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	switch s {
	case Team1:
		return Team2
	case Team2:
		return Team1
	}
	return NoSide
}

// Winner decides the game: more sets wins, equal sets fall back to points, and
// equal sets and points is a draw (NoSide). Every win/loss count in the league uses it.
func (g Game) Winner() Side {
	switch {
	case g.Team1Sets > g.Team2Sets:
		return Team1
	case g.Team2Sets > g.Team1Sets:
		return Team2
	case g.Team1Points > g.Team2Points:
		return Team1
	case g.Team2Points > g.Team1Points:
		return Team2
	}
	return NoSide
}

// SideOf returns the team the player played for, or NoSide.
func (g Game) SideOf(playerID string) Side {
	switch playerID {
	case g.Team1Player1ID, g.Team1Player2ID:
		return Team1
	case g.Team2Player1ID, g.Team2Player2ID:
		return Team2
	}
	return NoSide
}

// Team returns the two players of a side.
func (g Game) Team(s Side) [2]string {
	if s == Team2 {
		return [2]string{g.Team2Player1ID, g.Team2Player2ID}
	}
	return [2]string{g.Team1Player1ID, g.Team1Player2ID}
}

// PlayerIDs returns all four slots in order.
func (g Game) PlayerIDs() [4]string {
	return [4]string{g.Team1Player1ID, g.Team1Player2ID, g.Team2Player1ID, g.Team2Player2ID}
}

// Sets returns the sets won and lost from the point of view of side s.
func (g Game) Sets(s Side) (won, lost int) {
	if s == Team2 {
		return g.Team2Sets, g.Team1Sets
	}
	return g.Team1Sets, g.Team2Sets
}

// Points returns the points scored and conceded from the point of view of side s.
func (g Game) Points(s Side) (scored, conceded int) {
	if s == Team2 {
		return g.Team2Points, g.Team1Points
	}
	return g.Team1Points, g.Team2Points
}

// Result is "win", "lose" or "draw" for the given player, "" if they did not play.
func (g Game) Result(playerID string) string {
	side := g.SideOf(playerID)
	if side == NoSide {
		return ""
	}
	switch g.Winner() {
	case side:
		return "win"
	case side.Opponent():
		return "lose"
	}
	return "draw"
}

// ValidateTeams checks that the four slots are filled and pairwise distinct.
func ValidateTeams(t1p1, t1p2, t2p1, t2p2 string) error {
	ids := [4]string{t1p1, t1p2, t2p1, t2p2}
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("all four player slots are required: %w", ErrInvalidComposition)
		}
	}
	if t1p1 == t1p2 {
		return fmt.Errorf("team 1 lists player %s twice: %w", t1p1, ErrInvalidComposition)
	}
	if t2p1 == t2p2 {
		return fmt.Errorf("team 2 lists player %s twice: %w", t2p1, ErrInvalidComposition)
	}
	for _, a := range ids[:2] {
		for _, b := range ids[2:] {
			if a == b {
				return fmt.Errorf("player %s is on both teams: %w", a, ErrInvalidComposition)
			}
		}
	}
	return nil
}

// ValidateScore rejects negative values and draws.
func ValidateScore(t1Sets, t2Sets, t1Points, t2Points int) error {
	if t1Sets < 0 || t2Sets < 0 || t1Points < 0 || t2Points < 0 {
		return fmt.Errorf("sets and points must not be negative: %w", ErrInvalidScore)
	}
	g := Game{Team1Sets: t1Sets, Team2Sets: t2Sets, Team1Points: t1Points, Team2Points: t2Points}
	if g.Winner() == NoSide {
		return fmt.Errorf("game has no winner (%d-%d sets, %d-%d points): %w", t1Sets, t2Sets, t1Points, t2Points, ErrInvalidScore)
	}
	return nil
}
