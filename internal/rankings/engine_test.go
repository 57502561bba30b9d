package rankings_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mauv0809/league-rankings/internal/cache"
	"github.com/mauv0809/league-rankings/internal/database"
	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/metrics"
	"github.com/mauv0809/league-rankings/internal/rankings"
	"github.com/mauv0809/league-rankings/internal/statistics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   league.Store
	engine  *rankings.Engine
	players map[string]league.Player
	event1  *league.Event
	event2  *league.Event
}

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 19, 0, 0, 0, time.UTC)
}

// setupLeague seeds six players and two events:
//
//	event1: Ana+Carl beat Bea+Dan, Ana+Dan beat Bea+Carl, Bea+Carl beat Ana+Eve
//	event2: Ana+Carl beat Eve+Dan
//
// Finn is inactive and never played.
func setupLeague(t *testing.T, opts ...rankings.Option) *fixture {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	ctx := context.Background()
	store := league.New(db)
	f := &fixture{store: store, players: map[string]league.Player{}}

	female, male := league.GenderFemale, league.GenderMale
	inactive := false
	for _, np := range []league.NewPlayer{
		{Name: "Ana", Gender: &female},
		{Name: "Bea", Gender: &female},
		{Name: "Carl", Gender: &male},
		{Name: "Dan", Gender: &male},
		{Name: "Eve"},
		{Name: "Finn", Gender: &male, Active: &inactive},
	} {
		p, err := store.CreatePlayer(ctx, np)
		require.NoError(t, err)
		f.players[p.Name] = *p
	}

	f.event1, err = store.CreateEvent(ctx, league.NewEvent{Name: "June Cup", Date: day(1)})
	require.NoError(t, err)
	f.event2, err = store.CreateEvent(ctx, league.NewEvent{Name: "Summer Night", Date: day(10)})
	require.NoError(t, err)

	f.play(t, f.event1.ID, "Ana", "Carl", "Bea", "Dan", 2, 0)
	f.play(t, f.event1.ID, "Ana", "Dan", "Bea", "Carl", 2, 1)
	f.play(t, f.event1.ID, "Bea", "Carl", "Ana", "Eve", 2, 0)
	f.play(t, f.event2.ID, "Eve", "Dan", "Ana", "Carl", 0, 2)

	f.engine = rankings.New(store, statistics.New(store), opts...)
	return f
}

func (f *fixture) play(t *testing.T, eventID, a, b, c, d string, t1Sets, t2Sets int) {
	t.Helper()
	_, err := f.store.CreateGame(context.Background(), league.NewGame{
		EventID:        eventID,
		Team1Player1ID: f.players[a].ID,
		Team1Player2ID: f.players[b].ID,
		Team2Player1ID: f.players[c].ID,
		Team2Player2ID: f.players[d].ID,
		Team1Sets:      t1Sets,
		Team2Sets:      t2Sets,
	})
	require.NoError(t, err)
}

func names(entries []rankings.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Player.Name)
	}
	return out
}

func values(entries []rankings.Entry) []float64 {
	out := make([]float64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Value.Number)
	}
	return out
}

func assertContiguous(t *testing.T, entries []rankings.Entry) {
	t.Helper()
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
}

func TestByWins_FromCounters(t *testing.T) {
	f := setupLeague(t)

	entries, err := f.engine.ByWins(context.Background(), 10, rankings.Filters{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Ana", "Carl", "Bea", "Dan", "Eve"}, names(entries))
	assert.Equal(t, []float64{3, 3, 1, 1, 0}, values(entries))
	assertContiguous(t, entries)
	for _, e := range entries {
		assert.Equal(t, rankings.MetricWins, e.Metric)
	}
}

func TestByWins_LimitLargerThanPlayers(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()
	store := league.New(db)
	for _, name := range []string{"Ana", "Bea"} {
		_, err := store.CreatePlayer(context.Background(), league.NewPlayer{Name: name})
		require.NoError(t, err)
	}

	entries, err := rankings.New(store, statistics.New(store)).ByWins(context.Background(), 3, rankings.Filters{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestByWins_DateWindowUsesGames(t *testing.T) {
	f := setupLeague(t)

	end := day(5)
	entries, err := f.engine.ByWins(context.Background(), 10, rankings.Filters{Range: league.DateRange{End: &end}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Ana", "Carl", "Bea", "Dan", "Eve"}, names(entries))
	assert.Equal(t, []float64{2, 2, 1, 1, 0}, values(entries))
}

func TestByWins_EventFilterKeepsMembersOnly(t *testing.T) {
	f := setupLeague(t)
	ctx := context.Background()
	_, err := f.store.RegisterMember(ctx, f.event1.ID, f.players["Bea"].ID)
	require.NoError(t, err)
	_, err = f.store.RegisterMember(ctx, f.event1.ID, f.players["Ana"].ID)
	require.NoError(t, err)

	entries, err := f.engine.ByWins(ctx, 10, rankings.Filters{EventID: f.event1.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Bea"}, names(entries))
	assert.Equal(t, []float64{3, 1}, values(entries))
}

func TestByWinRate(t *testing.T) {
	f := setupLeague(t)

	entries, err := f.engine.ByWinRate(context.Background(), 10, rankings.Filters{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Ana", "Carl", "Bea", "Dan", "Eve"}, names(entries))
	assert.Equal(t, []float64{75, 75, 33.33, 33.33, 0}, values(entries))
	assert.NotContains(t, names(entries), "Finn", "players without games are not eligible")
}

func TestByLowestLosses(t *testing.T) {
	f := setupLeague(t)

	entries, err := f.engine.ByLowestLosses(context.Background(), 10, rankings.Filters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Carl", "Bea", "Dan", "Eve"}, names(entries))
	assert.Equal(t, []float64{1, 1, 2, 2, 2}, values(entries))
}

func TestBySetsWonAndPointsDifference(t *testing.T) {
	f := setupLeague(t)
	ctx := context.Background()

	sets, err := f.engine.BySetsWon(ctx, 2, rankings.Filters{})
	require.NoError(t, err)
	// Ana: 2+2+0+2, Carl: 2+1+2+2
	assert.Equal(t, []string{"Carl", "Ana"}, names(sets))
	assert.Equal(t, []float64{7, 6}, values(sets))

	diff, err := f.engine.ByPointsDifference(ctx, 10, rankings.Filters{})
	require.NoError(t, err)
	assert.Len(t, diff, 5)
	assertContiguous(t, diff)
}

func TestByGamesPlayed(t *testing.T) {
	f := setupLeague(t)

	entries, err := f.engine.ByGamesPlayed(context.Background(), 10, rankings.Filters{})
	require.NoError(t, err)
	// Ties on games break by win rate: Bea and Dan both 33.33, then by name.
	assert.Equal(t, []string{"Ana", "Carl", "Bea", "Dan", "Eve"}, names(entries))
	assert.Equal(t, []float64{4, 4, 3, 3, 2}, values(entries))
}

func TestByTournamentsWon(t *testing.T) {
	f := setupLeague(t)
	ctx := context.Background()

	entries, err := f.engine.ByTournamentsWon(ctx, 10, rankings.Filters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Carl"}, names(entries))
	assert.Equal(t, []float64{2, 2}, values(entries))

	only, err := f.engine.ByTournamentsWon(ctx, 10, rankings.Filters{EventID: f.event2.ID})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, values(only))
}

func TestByEventsWon_Medals(t *testing.T) {
	f := setupLeague(t)
	ctx := context.Background()

	places, err := league.NewPlaces(map[string][]string{
		"1": {f.players["Ana"].ID, f.players["Bea"].ID},
		"2": {f.players["Carl"].ID},
	})
	require.NoError(t, err)
	_, err = f.store.SetPlaces(ctx, f.event1.ID, places)
	require.NoError(t, err)

	entries, err := f.engine.ByEventsWon(ctx, 10, rankings.Filters{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"Ana", "Bea", "Carl"}, names(entries))

	assert.Equal(t, league.MedalCounts{Gold: 1}, *entries[0].Value.Medals)
	assert.Equal(t, league.MedalCounts{Gold: 1}, *entries[1].Value.Medals)
	assert.Equal(t, league.MedalCounts{Silver: 1}, *entries[2].Value.Medals)
	for _, e := range entries {
		require.NotNil(t, e.TotalEvents)
		assert.Equal(t, 1, *e.TotalEvents)
	}
	assert.Equal(t, 1, *entries[0].EventsWon)
	assert.Equal(t, 0, *entries[2].EventsWon)
}

func TestTopPlayersGrouped(t *testing.T) {
	f := setupLeague(t)

	grouped, err := f.engine.TopPlayersGrouped(context.Background(), rankings.MetricWins, 10, rankings.Filters{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Ana", "Carl", "Bea", "Dan", "Eve"}, names(grouped.ALL))
	assert.Equal(t, []string{"Ana", "Bea"}, names(grouped.W))
	assert.Equal(t, []string{"Carl", "Dan"}, names(grouped.M))
	assertContiguous(t, grouped.ALL)
	assertContiguous(t, grouped.W)
	assertContiguous(t, grouped.M)

	limited, err := f.engine.TopPlayersGrouped(context.Background(), rankings.MetricWins, 1, rankings.Filters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana"}, names(limited.ALL))
	assert.Equal(t, []string{"Ana"}, names(limited.W))
	assert.Equal(t, []string{"Carl"}, names(limited.M))
}

func TestBestTeamCombinations(t *testing.T) {
	f := setupLeague(t)

	combos, err := f.engine.BestTeamCombinations(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, combos, 3)

	pair := func(c rankings.TeamCombination) []string { return []string{c.Player1.Name, c.Player2.Name} }
	assert.ElementsMatch(t, []string{"Ana", "Carl"}, pair(combos[0]))
	assert.Equal(t, 2, combos[0].Wins)
	assert.Equal(t, 100.0, combos[0].WinRate)
	assert.Equal(t, 4, combos[0].SetsWon)
	assert.ElementsMatch(t, []string{"Ana", "Dan"}, pair(combos[1]))
	assert.ElementsMatch(t, []string{"Bea", "Carl"}, pair(combos[2]))
	assert.Equal(t, 50.0, combos[2].WinRate)

	all, err := f.engine.BestTeamCombinations(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, all, 6)
	losing := all[len(all)-1]
	assert.Zero(t, losing.WinRate)
	for i, c := range all {
		assert.Equal(t, i+1, c.Rank)
	}
}

func TestBestTeamCombinations_SkipsInactivePlayers(t *testing.T) {
	f := setupLeague(t)
	inactive := false
	_, err := f.store.UpdatePlayer(context.Background(), f.players["Carl"].ID, league.PlayerUpdate{Active: &inactive})
	require.NoError(t, err)

	combos, err := f.engine.BestTeamCombinations(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, combos, 4)
	for _, c := range combos {
		assert.NotEqual(t, "Carl", c.Player1.Name)
		assert.NotEqual(t, "Carl", c.Player2.Name)
	}
	assert.ElementsMatch(t, []string{"Ana", "Dan"}, []string{combos[0].Player1.Name, combos[0].Player2.Name})
	assert.Equal(t, 100.0, combos[0].WinRate)
}

func TestTopPlayers_UnknownMetric(t *testing.T) {
	f := setupLeague(t)

	_, err := f.engine.TopPlayers(context.Background(), rankings.Metric("elo"), 10, rankings.Filters{})
	assert.ErrorIs(t, err, rankings.ErrUnknownMetric)

	_, err = rankings.ParseMetric("elo")
	assert.ErrorIs(t, err, rankings.ErrUnknownMetric)
	m, err := rankings.ParseMetric("winRate")
	require.NoError(t, err)
	assert.Equal(t, rankings.MetricWinRate, m)
}

func TestTopPlayers_DefaultLimit(t *testing.T) {
	f := setupLeague(t)

	entries, err := f.engine.TopPlayers(context.Background(), rankings.MetricWins, 0, rankings.Filters{})
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestTopPlayers_CacheAndInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := cache.NewRedis(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	m := metrics.NewMock()
	f := setupLeague(t, rankings.WithCache(c, time.Minute), rankings.WithMetrics(m))
	ctx := context.Background()

	first, err := f.engine.ByWins(ctx, 10, rankings.Filters{})
	require.NoError(t, err)
	second, err := f.engine.ByWins(ctx, 10, rankings.Filters{})
	require.NoError(t, err)

	assert.Equal(t, names(first), names(second))
	assert.Equal(t, values(first), values(second))
	assert.Equal(t, 1, m.RankingsComputed("wins"))
	assert.Equal(t, 1, m.CacheHits())

	// A new game only shows up after invalidation.
	f.play(t, f.event2.ID, "Eve", "Bea", "Dan", "Carl", 2, 0)
	f.play(t, f.event2.ID, "Eve", "Bea", "Dan", "Carl", 2, 0)
	f.play(t, f.event2.ID, "Eve", "Bea", "Dan", "Carl", 2, 0)
	f.play(t, f.event2.ID, "Eve", "Bea", "Dan", "Carl", 2, 0)
	stale, err := f.engine.ByWins(ctx, 10, rankings.Filters{})
	require.NoError(t, err)
	assert.Equal(t, names(first), names(stale))

	require.NoError(t, f.engine.Invalidate(ctx))
	fresh, err := f.engine.ByWins(ctx, 10, rankings.Filters{})
	require.NoError(t, err)
	assert.Equal(t, "Bea", fresh[0].Player.Name)
	assert.Equal(t, 2, m.RankingsComputed("wins"))

	grouped, err := f.engine.TopPlayersGrouped(ctx, rankings.MetricEventsWon, 5, rankings.Filters{})
	require.NoError(t, err)
	assert.Empty(t, grouped.ALL)
	combos, err := f.engine.BestTeamCombinations(ctx, 2)
	require.NoError(t, err)
	cached, err := f.engine.BestTeamCombinations(ctx, 2)
	require.NoError(t, err)
	require.Len(t, cached, len(combos))
	for i := range combos {
		assert.Equal(t, combos[i].Player1.ID, cached[i].Player1.ID)
		assert.Equal(t, combos[i].WinRate, cached[i].WinRate)
	}
	assert.Equal(t, 1, m.RankingsComputed("teams"))
}

func TestTopPlayers_InvalidateDuringComputeIsNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := cache.NewRedis(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	m := metrics.NewMock()
	f := setupLeague(t)
	ctx := context.Background()

	computer := statistics.New(f.store)
	invalidated := false
	stats := statsFunc(func(ctx context.Context, id string, r league.DateRange) (statistics.PlayerStats, error) {
		if !invalidated {
			invalidated = true
			assert.NoError(t, c.Invalidate(ctx))
		}
		return computer.ComputePlayerStats(ctx, id, r)
	})
	engine := rankings.New(f.store, stats, rankings.WithCache(c, time.Minute), rankings.WithMetrics(m), rankings.WithConcurrency(1))
	from := day(1)
	filters := rankings.Filters{Range: league.DateRange{Start: &from}}

	_, err = engine.ByWins(ctx, 10, filters)
	require.NoError(t, err)
	_, err = engine.ByWins(ctx, 10, filters)
	require.NoError(t, err)

	assert.Equal(t, 2, m.RankingsComputed("wins"))
	assert.Zero(t, m.CacheHits())
}

type statsFunc func(ctx context.Context, id string, r league.DateRange) (statistics.PlayerStats, error)

func (f statsFunc) ComputePlayerStats(ctx context.Context, id string, r league.DateRange) (statistics.PlayerStats, error) {
	return f(ctx, id, r)
}

func TestWithStats_SkipsVanishedPlayers(t *testing.T) {
	store := league.NewMock()
	store.FindPlayersFunc = func(ctx context.Context, f league.PlayerFilter) ([]league.Player, error) {
		return []league.Player{{ID: "a", Name: "A", Active: true}, {ID: "b", Name: "B", Active: true}}, nil
	}
	stats := statsFunc(func(ctx context.Context, id string, r league.DateRange) (statistics.PlayerStats, error) {
		if id == "b" {
			return statistics.PlayerStats{}, league.ErrNotFound
		}
		return statistics.PlayerStats{PlayerID: id, TotalGames: 2, TotalWins: 1, WinRate: 50}, nil
	})

	entries, err := rankings.New(store, stats, rankings.WithConcurrency(2)).ByWinRate(context.Background(), 10, rankings.Filters{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Player.ID)

	require.Len(t, store.FindPlayersCalls, 1)
	require.NotNil(t, store.FindPlayersCalls[0].Active)
	assert.True(t, *store.FindPlayersCalls[0].Active)
}

func TestWithStats_PropagatesStoreErrors(t *testing.T) {
	store := league.NewMock()
	store.FindPlayersFunc = func(ctx context.Context, f league.PlayerFilter) ([]league.Player, error) {
		return []league.Player{{ID: "a", Name: "A", Active: true}}, nil
	}
	boom := errors.New("connection reset")
	stats := statsFunc(func(ctx context.Context, id string, r league.DateRange) (statistics.PlayerStats, error) {
		return statistics.PlayerStats{}, boom
	})

	_, err := rankings.New(store, stats).ByPointsDifference(context.Background(), 10, rankings.Filters{})
	assert.ErrorIs(t, err, boom)
}

func TestTournamentsWon_SkipsVanishedEvents(t *testing.T) {
	store := league.NewMock()
	store.FindEventsFunc = func(ctx context.Context, f league.EventFilter) ([]league.Event, error) {
		return []league.Event{{ID: "gone"}, {ID: "e1"}}, nil
	}
	store.FindGamesFunc = func(ctx context.Context, f league.GameFilter) ([]league.Game, error) {
		if f.EventID == "gone" {
			return nil, league.ErrNotFound
		}
		return []league.Game{{ID: "g", Team1Player1ID: "a", Team1Player2ID: "b", Team2Player1ID: "c", Team2Player2ID: "d", Team1Sets: 2}}, nil
	}
	store.FindPlayersFunc = func(ctx context.Context, f league.PlayerFilter) ([]league.Player, error) {
		return []league.Player{{ID: "a", Name: "A", Active: true}, {ID: "b", Name: "B", Active: true}}, nil
	}

	entries, err := rankings.New(store, nil).ByTournamentsWon(context.Background(), 10, rankings.Filters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(entries))
}

func TestEmptyLeague(t *testing.T) {
	store := league.NewMock()
	engine := rankings.New(store, statsFunc(nil))
	ctx := context.Background()

	for _, m := range rankings.Metrics {
		entries, err := engine.TopPlayers(ctx, m, 10, rankings.Filters{})
		require.NoError(t, err, m)
		assert.Empty(t, entries, m)
	}
	combos, err := engine.BestTeamCombinations(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, combos)
}
