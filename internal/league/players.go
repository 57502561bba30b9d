package league

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func (s *store) CreatePlayer(ctx context.Context, in NewPlayer) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("player name is required: %w", ErrValidation)
	}
	tgID := blankToNil(in.TgID)
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	var created *Player
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkTgIDFree(ctx, tx, tgID, ""); err != nil {
			return err
		}
		id := uuid.NewString()
		now := s.now().Unix()
		_, err := tx.ExecContext(ctx, `
			INSERT INTO players (id, tg_id, name, avatar, gender, active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, tgID, name, in.Avatar, in.Gender, active, now, now)
		if err != nil {
			return fmt.Errorf("failed to insert player: %w", err)
		}
		created, err = findPlayer(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debug("Created player", "id", created.ID, "name", created.Name)
	return created, nil
}

func (s *store) UpdatePlayer(ctx context.Context, id string, in PlayerUpdate) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *Player
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		p, err := findPlayer(ctx, tx, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return fmt.Errorf("player name must not be empty: %w", ErrValidation)
			}
			p.Name = name
		}
		if in.TgID != nil {
			if err := checkTgIDFree(ctx, tx, in.TgID, id); err != nil {
				return err
			}
			p.TgID = blankToNil(in.TgID)
		}
		if in.Avatar != nil {
			p.Avatar = in.Avatar
		}
		if in.Gender != nil {
			p.Gender = in.Gender
		}
		if in.Active != nil {
			p.Active = *in.Active
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE players SET tg_id = ?, name = ?, avatar = ?, gender = ?, active = ?, updated_at = ?
			WHERE id = ?`,
			p.TgID, p.Name, p.Avatar, p.Gender, p.Active, s.now().Unix(), id)
		if err != nil {
			return fmt.Errorf("failed to update player %s: %w", id, err)
		}
		updated, err = findPlayer(ctx, tx, id)
		return err
	})
	return updated, err
}

// DeletePlayer removes a player that has never played a game. Registrations go with it.
func (s *store) DeletePlayer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := findPlayer(ctx, tx, id); err != nil {
			return err
		}
		var games int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM games
			WHERE team1_player1_id = ? OR team1_player2_id = ? OR team2_player1_id = ? OR team2_player2_id = ?`,
			id, id, id, id).Scan(&games)
		if err != nil {
			return fmt.Errorf("failed to count games of player %s: %w", id, err)
		}
		if games > 0 {
			return fmt.Errorf("player %s has %d recorded games: %w", id, games, ErrConflict)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete player %s: %w", id, err)
		}
		return expectOneRow(res, "player "+id)
	})
}

func checkTgIDFree(ctx context.Context, q queryer, tgID *string, self string) error {
	if tgID == nil || *tgID == "" {
		return nil
	}
	var owner string
	err := q.QueryRowContext(ctx, `SELECT id FROM players WHERE tg_id = ?`, *tgID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && owner == self) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check tgId: %w", err)
	}
	return fmt.Errorf("tgId %s already belongs to player %s: %w", *tgID, owner, ErrConflict)
}

// requirePlayers fails with ErrNotFound naming the first missing id.
func requirePlayers(ctx context.Context, q queryer, ids ...string) error {
	for _, id := range ids {
		var exists int
		err := q.QueryRowContext(ctx, `SELECT 1 FROM players WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("player %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check player %s: %w", id, err)
		}
	}
	return nil
}

func blankToNil(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}
