package league

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// RegisterMember registers a player for an event, at most once per pair.
func (s *store) RegisterMember(ctx context.Context, eventID, playerID string) (*EventMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if eventID == "" || playerID == "" {
		return nil, fmt.Errorf("eventId and playerId are required: %w", ErrValidation)
	}

	var member *EventMember
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := findEvent(ctx, tx, eventID); err != nil {
			return err
		}
		if err := requirePlayers(ctx, tx, playerID); err != nil {
			return err
		}
		var existing string
		err := tx.QueryRowContext(ctx, `SELECT id FROM event_members WHERE event_id = ? AND player_id = ?`,
			eventID, playerID).Scan(&existing)
		switch {
		case err == nil:
			return fmt.Errorf("player %s is already registered for event %s: %w", playerID, eventID, ErrConflict)
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("failed to check registration: %w", err)
		}

		m := EventMember{ID: uuid.NewString(), EventID: eventID, PlayerID: playerID, CreatedAt: s.now()}
		_, err = tx.ExecContext(ctx, `INSERT INTO event_members (id, event_id, player_id, created_at) VALUES (?, ?, ?, ?)`,
			m.ID, m.EventID, m.PlayerID, m.CreatedAt.Unix())
		if err != nil {
			return fmt.Errorf("failed to insert event member: %w", err)
		}
		m.CreatedAt = fromUnix(m.CreatedAt.Unix())
		member = &m
		return nil
	})
	return member, err
}

func (s *store) RemoveMember(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM event_members WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete event member %s: %w", id, err)
		}
		return expectOneRow(res, "event member "+id)
	})
}

func (s *store) RemoveMemberByEventAndPlayer(ctx context.Context, eventID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM event_members WHERE event_id = ? AND player_id = ?`, eventID, playerID)
		if err != nil {
			return fmt.Errorf("failed to delete registration: %w", err)
		}
		return expectOneRow(res, fmt.Sprintf("registration of player %s for event %s", playerID, eventID))
	})
}
