package league

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func (s *store) CreateEvent(ctx context.Context, in NewEvent) (*Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var created *Event
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		created, err = s.insertEvent(ctx, tx, in)
		return err
	})
	return created, err
}

// CreateEventWithGames records an event together with its games. Games without a
// date take the event's date. Nothing is written if any game is invalid.
func (s *store) CreateEventWithGames(ctx context.Context, in NewEventWithGames) (*Event, []Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		event *Event
		games []Game
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		event, err = s.insertEvent(ctx, tx, in.NewEvent)
		if err != nil {
			return err
		}
		games = make([]Game, 0, len(in.Games))
		for i, ng := range in.Games {
			ng.EventID = event.ID
			g, err := s.insertGame(ctx, tx, ng)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			games = append(games, *g)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info("Created event with games", "id", event.ID, "name", event.Name, "games", len(games))
	return event, games, nil
}

func (s *store) UpdateEvent(ctx context.Context, id string, in EventUpdate) (*Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *Event
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		e, err := findEvent(ctx, tx, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return fmt.Errorf("event name must not be empty: %w", ErrValidation)
			}
			e.Name = name
		}
		if in.Date != nil {
			if in.Date.IsZero() {
				return fmt.Errorf("event date must not be empty: %w", ErrValidation)
			}
			e.Date = *in.Date
		}
		if in.CreatedBy != nil {
			e.CreatedBy = blankToNil(in.CreatedBy)
			if e.CreatedBy != nil {
				if err := requirePlayers(ctx, tx, *e.CreatedBy); err != nil {
					return err
				}
			}
		}
		if in.Location != nil {
			e.Location = in.Location
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE events SET name = ?, date = ?, created_by = ?, location = ?, updated_at = ?
			WHERE id = ?`,
			e.Name, e.Date.Unix(), e.CreatedBy, e.Location, s.now().Unix(), id)
		if err != nil {
			return fmt.Errorf("failed to update event %s: %w", id, err)
		}
		updated, err = findEvent(ctx, tx, id)
		return err
	})
	return updated, err
}

// SetPlaces replaces an event's results. Every listed player must exist.
func (s *store) SetPlaces(ctx context.Context, eventID string, places Places) (*Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *Event
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := findEvent(ctx, tx, eventID); err != nil {
			return err
		}
		encoded, err := checkPlaces(ctx, tx, places)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE events SET places_json = ?, updated_at = ? WHERE id = ?`,
			encoded, s.now().Unix(), eventID)
		if err != nil {
			return fmt.Errorf("failed to update places of event %s: %w", eventID, err)
		}
		updated, err = findEvent(ctx, tx, eventID)
		return err
	})
	return updated, err
}

// DeleteEvent removes an event, its games (reverting their counters) and its members.
func (s *store) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := findEvent(ctx, tx, id); err != nil {
			return err
		}
		games, err := findGames(ctx, tx, GameFilter{EventID: id})
		if err != nil {
			return err
		}
		for _, g := range games {
			if err := deleteGame(ctx, tx, g); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM event_members WHERE event_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete members of event %s: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete event %s: %w", id, err)
		}
		log.Info("Deleted event", "id", id, "games", len(games))
		return expectOneRow(res, "event "+id)
	})
}

func (s *store) insertEvent(ctx context.Context, tx *sql.Tx, in NewEvent) (*Event, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("event name is required: %w", ErrValidation)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("event date is required: %w", ErrValidation)
	}
	createdBy := blankToNil(in.CreatedBy)
	if createdBy != nil {
		if err := requirePlayers(ctx, tx, *createdBy); err != nil {
			return nil, err
		}
	}
	places, err := checkPlaces(ctx, tx, in.Places)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	now := s.now().Unix()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (id, name, date, created_by, location, places_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, name, in.Date.Unix(), createdBy, in.Location, places, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	return findEvent(ctx, tx, id)
}

// checkPlaces verifies that every placed player exists and returns the column value.
func checkPlaces(ctx context.Context, q queryer, places Places) (any, error) {
	for _, id := range places.PlayerIDs() {
		if err := requirePlayers(ctx, q, id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPlaces, err)
		}
	}
	return encodePlaces(places)
}
