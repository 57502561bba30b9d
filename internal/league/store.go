package league

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a Store backed by db. The schema must already be migrated.
func New(db *sql.DB) Store {
	return &store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface{ Scan(...any) error }

const (
	playerColumns = `id, tg_id, name, avatar, gender, active, total_games, total_wins, total_losses, created_at, updated_at`
	eventColumns  = `id, name, date, created_by, location, places_json, created_at, updated_at`
	gameColumns   = `id, event_id, team1_player1_id, team1_player2_id, team2_player1_id, team2_player2_id,
		team1_sets, team2_sets, team1_points, team2_points, date, location, created_at, updated_at`
	memberColumns = `id, event_id, player_id, created_at`
)

func (s *store) FindPlayer(ctx context.Context, id string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findPlayer(ctx, s.db, id)
}

// FindPlayerByName matches case-insensitively on a substring, preferring an exact match.
func (s *store) FindPlayerByName(ctx context.Context, name string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("player name is required: %w", ErrValidation)
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT `+playerColumns+`
		FROM players
		WHERE name LIKE ?
		ORDER BY lower(name) = lower(?) DESC, name, id
		LIMIT 1`, "%"+name+"%", name)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %q: %w", name, ErrNotFound)
	}
	return p, err
}

func (s *store) FindPlayers(ctx context.Context, filter PlayerFilter) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return []Player{}, nil
		}
		where = append(where, "id IN ("+placeholders(len(filter.IDs))+")")
		for _, id := range filter.IDs {
			args = append(args, id)
		}
	}
	if filter.Active != nil {
		where = append(where, "active = ?")
		args = append(args, *filter.Active)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players`+whereClause(where)+` ORDER BY name, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (s *store) FindGame(ctx context.Context, id string) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findGame(ctx, s.db, id)
}

// FindGames returns matching games, most recent first.
func (s *store) FindGames(ctx context.Context, filter GameFilter) ([]Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findGames(ctx, s.db, filter)
}

func (s *store) FindEvent(ctx context.Context, id string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findEvent(ctx, s.db, id)
}

// FindEvents returns matching events, most recent first.
func (s *store) FindEvents(ctx context.Context, filter EventFilter) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.ID != "" {
		where = append(where, "id = ?")
		args = append(args, filter.ID)
	}
	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return []Event{}, nil
		}
		where = append(where, "id IN ("+placeholders(len(filter.IDs))+")")
		for _, id := range filter.IDs {
			args = append(args, id)
		}
	}
	where, args = appendRange(where, args, "date", filter.Range)

	rows, err := s.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events`+whereClause(where)+` ORDER BY date DESC, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (s *store) FindEventMembers(ctx context.Context, filter MemberFilter) ([]EventMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.EventID != "" {
		where = append(where, "event_id = ?")
		args = append(args, filter.EventID)
	}
	if filter.PlayerID != "" {
		where = append(where, "player_id = ?")
		args = append(args, filter.PlayerID)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+memberColumns+` FROM event_members`+whereClause(where)+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event members: %w", err)
	}
	defer rows.Close()

	members := []EventMember{}
	for rows.Next() {
		var (
			m       EventMember
			created int64
		)
		if err := rows.Scan(&m.ID, &m.EventID, &m.PlayerID, &created); err != nil {
			return nil, fmt.Errorf("failed to scan event member: %w", err)
		}
		m.CreatedAt = fromUnix(created)
		members = append(members, m)
	}
	return members, rows.Err()
}

func findPlayer(ctx context.Context, q queryer, id string) (*Player, error) {
	row := q.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load player %s: %w", id, err)
	}
	return p, nil
}

func findEvent(ctx context.Context, q queryer, id string) (*Event, error) {
	row := q.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event %s: %w", id, err)
	}
	return e, nil
}

func findGame(ctx context.Context, q queryer, id string) (*Game, error) {
	row := q.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", id, err)
	}
	return g, nil
}

func findGames(ctx context.Context, q queryer, filter GameFilter) ([]Game, error) {
	var (
		where []string
		args  []any
	)
	if filter.PlayerID != "" {
		where = append(where, "(team1_player1_id = ? OR team1_player2_id = ? OR team2_player1_id = ? OR team2_player2_id = ?)")
		args = append(args, filter.PlayerID, filter.PlayerID, filter.PlayerID, filter.PlayerID)
	}
	for column, value := range map[string]string{
		"team1_player1_id": filter.Team1Player1ID,
		"team1_player2_id": filter.Team1Player2ID,
		"team2_player1_id": filter.Team2Player1ID,
		"team2_player2_id": filter.Team2Player2ID,
		"event_id":         filter.EventID,
	} {
		if value != "" {
			where = append(where, column+" = ?")
			args = append(args, value)
		}
	}
	where, args = appendRange(where, args, "date", filter.Range)

	query := `SELECT ` + gameColumns + ` FROM games` + whereClause(where) + ` ORDER BY date DESC, created_at DESC, id`
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := []Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

func scanPlayer(row scanner) (*Player, error) {
	var (
		p                    Player
		tgID, avatar, gender sql.NullString
		created, updated     int64
	)
	err := row.Scan(&p.ID, &tgID, &p.Name, &avatar, &gender, &p.Active,
		&p.TotalGames, &p.TotalWins, &p.TotalLosses, &created, &updated)
	if err != nil {
		return nil, err
	}
	p.TgID = nullable(tgID)
	p.Avatar = nullable(avatar)
	p.Gender = nullable(gender)
	p.CreatedAt = fromUnix(created)
	p.UpdatedAt = fromUnix(updated)
	return &p, nil
}

func scanEvent(row scanner) (*Event, error) {
	var (
		e                           Event
		createdBy, location, places sql.NullString
		date, created, updated      int64
	)
	err := row.Scan(&e.ID, &e.Name, &date, &createdBy, &location, &places, &created, &updated)
	if err != nil {
		return nil, err
	}
	e.Date = fromUnix(date)
	e.CreatedBy = nullable(createdBy)
	e.Location = nullable(location)
	e.CreatedAt = fromUnix(created)
	e.UpdatedAt = fromUnix(updated)
	if places.Valid && places.String != "" {
		if err := json.Unmarshal([]byte(places.String), &e.Places); err != nil {
			// A corrupt places blob must not hide the event itself.
			log.Error("Failed to unmarshal places_json", "error", err, "eventID", e.ID)
			e.Places = nil
		}
	}
	return &e, nil
}

func scanGame(row scanner) (*Game, error) {
	var (
		g                      Game
		location               sql.NullString
		date, created, updated int64
	)
	err := row.Scan(&g.ID, &g.EventID, &g.Team1Player1ID, &g.Team1Player2ID, &g.Team2Player1ID, &g.Team2Player2ID,
		&g.Team1Sets, &g.Team2Sets, &g.Team1Points, &g.Team2Points, &date, &location, &created, &updated)
	if err != nil {
		return nil, err
	}
	g.Date = fromUnix(date)
	g.Location = nullable(location)
	g.CreatedAt = fromUnix(created)
	g.UpdatedAt = fromUnix(updated)
	return &g, nil
}

func appendRange(where []string, args []any, column string, r DateRange) ([]string, []any) {
	if r.Start != nil {
		where = append(where, column+" >= ?")
		args = append(args, r.Start.Unix())
	}
	if r.End != nil {
		where = append(where, column+" <= ?")
		args = append(args, r.End.Unix())
	}
	return where, args
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func fromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func encodePlaces(ps Places) (any, error) {
	if len(ps) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(ps)
	if err != nil {
		return nil, fmt.Errorf("failed to encode places: %w", err)
	}
	return string(b), nil
}

// withTx runs fn in a transaction and commits when it returns nil.
func (s *store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("Failed to roll back transaction", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
