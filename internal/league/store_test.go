package league_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mauv0809/league-rankings/internal/database"
	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database with the real migrations applied.
func setupTestDB(t *testing.T) (league.Store, *sql.DB, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return league.New(db), db, teardown
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 18, 0, 0, 0, time.UTC)
}

func createPlayers(t *testing.T, store league.Store, names ...string) []league.Player {
	t.Helper()
	players := make([]league.Player, 0, len(names))
	for _, name := range names {
		p, err := store.CreatePlayer(context.Background(), league.NewPlayer{Name: name})
		require.NoError(t, err)
		players = append(players, *p)
	}
	return players
}

func createEvent(t *testing.T, store league.Store, name string, date time.Time) *league.Event {
	t.Helper()
	e, err := store.CreateEvent(context.Background(), league.NewEvent{Name: name, Date: date})
	require.NoError(t, err)
	return e
}

func newGame(eventID string, p []league.Player, t1Sets, t2Sets int) league.NewGame {
	return league.NewGame{
		EventID:        eventID,
		Team1Player1ID: p[0].ID,
		Team1Player2ID: p[1].ID,
		Team2Player1ID: p[2].ID,
		Team2Player2ID: p[3].ID,
		Team1Sets:      t1Sets,
		Team2Sets:      t2Sets,
	}
}

func counters(t *testing.T, store league.Store, id string) (games, wins, losses int) {
	t.Helper()
	p, err := store.FindPlayer(context.Background(), id)
	require.NoError(t, err)
	return p.TotalGames, p.TotalWins, p.TotalLosses
}

func TestCreateAndFindPlayers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	female := league.GenderFemale
	inactive := false
	ana, err := store.CreatePlayer(ctx, league.NewPlayer{Name: "Ana", Gender: &female})
	require.NoError(t, err)
	assert.True(t, ana.Active)
	assert.True(t, ana.GenderIs(league.GenderFemale))

	_, err = store.CreatePlayer(ctx, league.NewPlayer{Name: "Bruno", Active: &inactive})
	require.NoError(t, err)

	all, err := store.FindPlayers(ctx, league.PlayerFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active := true
	onlyActive, err := store.FindPlayers(ctx, league.PlayerFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, "Ana", onlyActive[0].Name)

	byID, err := store.FindPlayers(ctx, league.PlayerFilter{IDs: []string{ana.ID}})
	require.NoError(t, err)
	assert.Len(t, byID, 1)

	none, err := store.FindPlayers(ctx, league.PlayerFilter{IDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, none)

	byName, err := store.FindPlayerByName(ctx, "an")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, byName.ID)

	_, err = store.FindPlayer(ctx, "missing")
	assert.ErrorIs(t, err, league.ErrNotFound)
}

func TestCreatePlayer_Validation(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	_, err := store.CreatePlayer(ctx, league.NewPlayer{Name: "  "})
	assert.ErrorIs(t, err, league.ErrValidation)

	tg := "tg-1"
	_, err = store.CreatePlayer(ctx, league.NewPlayer{Name: "Ana", TgID: &tg})
	require.NoError(t, err)
	_, err = store.CreatePlayer(ctx, league.NewPlayer{Name: "Other", TgID: &tg})
	assert.ErrorIs(t, err, league.ErrConflict)
}

func TestUpdatePlayer(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	p := createPlayers(t, store, "Ana")[0]
	name := "Ana Maria"
	inactive := false
	updated, err := store.UpdatePlayer(ctx, p.ID, league.PlayerUpdate{Name: &name, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.False(t, updated.Active)

	_, err = store.UpdatePlayer(ctx, "missing", league.PlayerUpdate{Name: &name})
	assert.ErrorIs(t, err, league.ErrNotFound)
}

func TestGameLifecycleKeepsCounters(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	p := createPlayers(t, store, "A", "B", "C", "D")
	event := createEvent(t, store, "Spring Cup", day(1))

	g, err := store.CreateGame(ctx, newGame(event.ID, p, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, event.Date, g.Date, "game inherits the event date")

	games, wins, losses := counters(t, store, p[0].ID)
	assert.Equal(t, []int{1, 1, 0}, []int{games, wins, losses})
	games, wins, losses = counters(t, store, p[3].ID)
	assert.Equal(t, []int{1, 0, 1}, []int{games, wins, losses})

	// Flip the result.
	t1, t2 := 0, 2
	_, err = store.UpdateGame(ctx, g.ID, league.GameUpdate{Team1Sets: &t1, Team2Sets: &t2})
	require.NoError(t, err)
	games, wins, losses = counters(t, store, p[0].ID)
	assert.Equal(t, []int{1, 0, 1}, []int{games, wins, losses})
	games, wins, losses = counters(t, store, p[2].ID)
	assert.Equal(t, []int{1, 1, 0}, []int{games, wins, losses})

	deleted, err := store.DeleteGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, deleted.ID)
	for _, player := range p {
		games, wins, losses = counters(t, store, player.ID)
		assert.Equal(t, []int{0, 0, 0}, []int{games, wins, losses})
	}

	_, err = store.FindGame(ctx, g.ID)
	assert.ErrorIs(t, err, league.ErrNotFound)
}

func TestCreateGame_Rejections(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	p := createPlayers(t, store, "A", "B", "C", "D")
	event := createEvent(t, store, "Cup", day(1))

	dup := newGame(event.ID, p, 2, 0)
	dup.Team2Player1ID = p[0].ID
	_, err := store.CreateGame(ctx, dup)
	assert.ErrorIs(t, err, league.ErrInvalidComposition)

	_, err = store.CreateGame(ctx, newGame(event.ID, p, 1, 1))
	assert.ErrorIs(t, err, league.ErrInvalidScore)

	negative := newGame(event.ID, p, 2, 0)
	negative.Team1Points = -3
	_, err = store.CreateGame(ctx, negative)
	assert.ErrorIs(t, err, league.ErrInvalidScore)

	_, err = store.CreateGame(ctx, newGame("missing", p, 2, 0))
	assert.ErrorIs(t, err, league.ErrNotFound)

	ghost := newGame(event.ID, p, 2, 0)
	ghost.Team2Player2ID = "ghost"
	_, err = store.CreateGame(ctx, ghost)
	assert.ErrorIs(t, err, league.ErrNotFound)

	// Nothing above may have touched the counters.
	for _, player := range p {
		games, _, _ := counters(t, store, player.ID)
		assert.Zero(t, games)
	}
}

func TestFindGames_Filters(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	p := createPlayers(t, store, "A", "B", "C", "D", "E")
	e1 := createEvent(t, store, "One", day(1))
	e2 := createEvent(t, store, "Two", day(10))

	_, err := store.CreateGame(ctx, newGame(e1.ID, p, 2, 0))
	require.NoError(t, err)
	swapped := []league.Player{p[4], p[1], p[2], p[3]}
	_, err = store.CreateGame(ctx, newGame(e2.ID, swapped, 0, 2))
	require.NoError(t, err)

	byPlayer, err := store.FindGames(ctx, league.GameFilter{PlayerID: p[2].ID})
	require.NoError(t, err)
	require.Len(t, byPlayer, 2)
	assert.Equal(t, e2.ID, byPlayer[0].EventID, "most recent first")

	bySlot, err := store.FindGames(ctx, league.GameFilter{Team1Player1ID: p[4].ID})
	require.NoError(t, err)
	assert.Len(t, bySlot, 1)

	byEvent, err := store.FindGames(ctx, league.GameFilter{EventID: e1.ID})
	require.NoError(t, err)
	assert.Len(t, byEvent, 1)

	from := day(5)
	windowed, err := store.FindGames(ctx, league.GameFilter{PlayerID: p[1].ID, Range: league.DateRange{Start: &from}})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, e2.ID, windowed[0].EventID)

	limited, err := store.FindGames(ctx, league.GameFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestEventsAndPlaces(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	p := createPlayers(t, store, "A", "B", "C")
	places, err := league.NewPlaces(map[string][]string{"1": {p[0].ID, p[1].ID}, "2": {p[2].ID}})
	require.NoError(t, err)

	event, err := store.CreateEvent(ctx, league.NewEvent{Name: "Final", Date: day(3), CreatedBy: &p[0].ID, Places: places})
	require.NoError(t, err)
	require.Len(t, event.Places, 2)
	assert.Equal(t, []string{p[0].ID, p[1].ID}, event.Places[0].PlayerIDs)

	_, err = store.CreateEvent(ctx, league.NewEvent{Name: "Bad", Date: day(3), CreatedBy: strPtr("ghost")})
	assert.ErrorIs(t, err, league.ErrNotFound)

	badPlaces, err := league.NewPlaces(map[string][]string{"1": {"ghost"}})
	require.NoError(t, err)
	_, err = store.SetPlaces(ctx, event.ID, badPlaces)
	assert.ErrorIs(t, err, league.ErrInvalidPlaces)

	_, err = store.SetPlaces(ctx, event.ID, nil)
	require.NoError(t, err)
	reloaded, err := store.FindEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Places)

	from, to := day(2), day(4)
	inRange, err := store.FindEvents(ctx, league.EventFilter{Range: league.DateRange{Start: &from, End: &to}})
	require.NoError(t, err)
	assert.Len(t, inRange, 1)

	name := "Grand Final"
	updated, err := store.UpdateEvent(ctx, event.ID, league.EventUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Grand Final", updated.Name)
}

func TestCreateEventWithGames_IsAtomic(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	p := createPlayers(t, store, "A", "B", "C", "D")
	good := newGame("", p, 2, 0)
	bad := newGame("", p, 1, 1)

	_, _, err := store.CreateEventWithGames(ctx, league.NewEventWithGames{
		NewEvent: league.NewEvent{Name: "Night", Date: day(7)},
		Games:    []league.NewGame{good, bad},
	})
	assert.ErrorIs(t, err, league.ErrInvalidScore)

	events, err := store.FindEvents(ctx, league.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
	games, _, _ := counters(t, store, p[0].ID)
	assert.Zero(t, games)

	event, created, err := store.CreateEventWithGames(ctx, league.NewEventWithGames{
		NewEvent: league.NewEvent{Name: "Night", Date: day(7)},
		Games:    []league.NewGame{good, good},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, event.ID, created[0].EventID)
	games, wins, _ := counters(t, store, p[0].ID)
	assert.Equal(t, 2, games)
	assert.Equal(t, 2, wins)
}

func TestDeleteEvent_RevertsCounters(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	p := createPlayers(t, store, "A", "B", "C", "D")
	event := createEvent(t, store, "Cup", day(1))
	_, err := store.CreateGame(ctx, newGame(event.ID, p, 2, 0))
	require.NoError(t, err)
	_, err = store.RegisterMember(ctx, event.ID, p[0].ID)
	require.NoError(t, err)

	require.NoError(t, store.DeleteEvent(ctx, event.ID))

	games, wins, _ := counters(t, store, p[0].ID)
	assert.Zero(t, games)
	assert.Zero(t, wins)
	members, err := store.FindEventMembers(ctx, league.MemberFilter{PlayerID: p[0].ID})
	require.NoError(t, err)
	assert.Empty(t, members)

	assert.ErrorIs(t, store.DeleteEvent(ctx, event.ID), league.ErrNotFound)
}

func TestDeletePlayer(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	p := createPlayers(t, store, "A", "B", "C", "D", "E")
	event := createEvent(t, store, "Cup", day(1))
	_, err := store.CreateGame(ctx, newGame(event.ID, p, 2, 0))
	require.NoError(t, err)

	assert.ErrorIs(t, store.DeletePlayer(ctx, p[0].ID), league.ErrConflict)
	require.NoError(t, store.DeletePlayer(ctx, p[4].ID))
	assert.ErrorIs(t, store.DeletePlayer(ctx, p[4].ID), league.ErrNotFound)
}

func TestEventMembers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	p := createPlayers(t, store, "A", "B")
	event := createEvent(t, store, "Cup", day(1))

	m, err := store.RegisterMember(ctx, event.ID, p[0].ID)
	require.NoError(t, err)
	_, err = store.RegisterMember(ctx, event.ID, p[1].ID)
	require.NoError(t, err)

	_, err = store.RegisterMember(ctx, event.ID, p[0].ID)
	assert.ErrorIs(t, err, league.ErrConflict)
	_, err = store.RegisterMember(ctx, "missing", p[0].ID)
	assert.ErrorIs(t, err, league.ErrNotFound)

	members, err := store.FindEventMembers(ctx, league.MemberFilter{EventID: event.ID})
	require.NoError(t, err)
	assert.Len(t, members, 2)

	require.NoError(t, store.RemoveMember(ctx, m.ID))
	assert.ErrorIs(t, store.RemoveMember(ctx, m.ID), league.ErrNotFound)

	require.NoError(t, store.RemoveMemberByEventAndPlayer(ctx, event.ID, p[1].ID))
	assert.ErrorIs(t, store.RemoveMemberByEventAndPlayer(ctx, event.ID, p[1].ID), league.ErrNotFound)
}

func strPtr(s string) *string { return &s }
