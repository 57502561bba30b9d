package league

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func (s *store) CreateGame(ctx context.Context, in NewGame) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var created *Game
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		created, err = s.insertGame(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debug("Recorded game", "id", created.ID, "event", created.EventID, "winner", created.Winner())
	return created, nil
}

// UpdateGame replaces the game's fields and moves the player counters from the
// old result to the new one.
func (s *store) UpdateGame(ctx context.Context, id string, in GameUpdate) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *Game
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		old, err := findGame(ctx, tx, id)
		if err != nil {
			return err
		}
		next := old.merge(in)
		if err := validateGame(ctx, tx, next); err != nil {
			return err
		}
		if err := applyCounters(ctx, tx, *old, -1); err != nil {
			return err
		}
		if err := applyCounters(ctx, tx, next, 1); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE games SET event_id = ?, team1_player1_id = ?, team1_player2_id = ?, team2_player1_id = ?, team2_player2_id = ?,
				team1_sets = ?, team2_sets = ?, team1_points = ?, team2_points = ?, date = ?, location = ?, updated_at = ?
			WHERE id = ?`,
			next.EventID, next.Team1Player1ID, next.Team1Player2ID, next.Team2Player1ID, next.Team2Player2ID,
			next.Team1Sets, next.Team2Sets, next.Team1Points, next.Team2Points, next.Date.Unix(), next.Location,
			s.now().Unix(), id)
		if err != nil {
			return fmt.Errorf("failed to update game %s: %w", id, err)
		}
		updated, err = findGame(ctx, tx, id)
		return err
	})
	return updated, err
}

// DeleteGame removes a game, reverts its counters and returns what was deleted.
func (s *store) DeleteGame(ctx context.Context, id string) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted *Game
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		g, err := findGame(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := deleteGame(ctx, tx, *g); err != nil {
			return err
		}
		deleted = g
		return nil
	})
	return deleted, err
}

func (s *store) insertGame(ctx context.Context, tx *sql.Tx, in NewGame) (*Game, error) {
	g := Game{
		ID:             uuid.NewString(),
		EventID:        in.EventID,
		Team1Player1ID: in.Team1Player1ID,
		Team1Player2ID: in.Team1Player2ID,
		Team2Player1ID: in.Team2Player1ID,
		Team2Player2ID: in.Team2Player2ID,
		Team1Sets:      in.Team1Sets,
		Team2Sets:      in.Team2Sets,
		Team1Points:    in.Team1Points,
		Team2Points:    in.Team2Points,
		Date:           in.Date,
		Location:       in.Location,
	}
	if err := validateGame(ctx, tx, g); err != nil {
		return nil, err
	}
	if g.Date.IsZero() {
		event, err := findEvent(ctx, tx, g.EventID)
		if err != nil {
			return nil, err
		}
		g.Date = event.Date
	}

	now := s.now().Unix()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO games (id, event_id, team1_player1_id, team1_player2_id, team2_player1_id, team2_player2_id,
			team1_sets, team2_sets, team1_points, team2_points, date, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.EventID, g.Team1Player1ID, g.Team1Player2ID, g.Team2Player1ID, g.Team2Player2ID,
		g.Team1Sets, g.Team2Sets, g.Team1Points, g.Team2Points, g.Date.Unix(), g.Location, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert game: %w", err)
	}
	if err := applyCounters(ctx, tx, g, 1); err != nil {
		return nil, err
	}
	return findGame(ctx, tx, g.ID)
}

func deleteGame(ctx context.Context, tx *sql.Tx, g Game) error {
	if err := applyCounters(ctx, tx, g, -1); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, g.ID)
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", g.ID, err)
	}
	return expectOneRow(res, "game "+g.ID)
}

// validateGame checks composition and score before anything touches the store,
// then that the event and all four players exist.
func validateGame(ctx context.Context, q queryer, g Game) error {
	if g.EventID == "" {
		return fmt.Errorf("eventId is required: %w", ErrValidation)
	}
	if err := ValidateTeams(g.Team1Player1ID, g.Team1Player2ID, g.Team2Player1ID, g.Team2Player2ID); err != nil {
		return err
	}
	if err := ValidateScore(g.Team1Sets, g.Team2Sets, g.Team1Points, g.Team2Points); err != nil {
		return err
	}
	if _, err := findEvent(ctx, q, g.EventID); err != nil {
		return err
	}
	ids := g.PlayerIDs()
	return requirePlayers(ctx, q, ids[:]...)
}

// applyCounters adds (sign = 1) or removes (sign = -1) the game from the four
// players' running totals.
func applyCounters(ctx context.Context, q queryer, g Game, sign int) error {
	winner := g.Winner()
	for _, id := range g.PlayerIDs() {
		side := g.SideOf(id)
		wins, losses := 0, 0
		switch winner {
		case side:
			wins = sign
		case side.Opponent():
			losses = sign
		}
		res, err := q.ExecContext(ctx, `
			UPDATE players
			SET total_games = total_games + ?, total_wins = total_wins + ?, total_losses = total_losses + ?
			WHERE id = ?`, sign, wins, losses, id)
		if err != nil {
			return fmt.Errorf("failed to update counters of player %s: %w", id, err)
		}
		if err := expectOneRow(res, "player "+id); err != nil {
			return err
		}
	}
	return nil
}

func (g Game) merge(in GameUpdate) Game {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	set(&g.EventID, in.EventID)
	set(&g.Team1Player1ID, in.Team1Player1ID)
	set(&g.Team1Player2ID, in.Team1Player2ID)
	set(&g.Team2Player1ID, in.Team2Player1ID)
	set(&g.Team2Player2ID, in.Team2Player2ID)
	setInt(&g.Team1Sets, in.Team1Sets)
	setInt(&g.Team2Sets, in.Team2Sets)
	setInt(&g.Team1Points, in.Team1Points)
	setInt(&g.Team2Points, in.Team2Points)
	if in.Date != nil {
		g.Date = *in.Date
	}
	if in.Location != nil {
		g.Location = in.Location
	}
	return g
}
