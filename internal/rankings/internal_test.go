package rankings

import (
	"encoding/json"
	"testing"

	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatePairs_IsSymmetric(t *testing.T) {
	a := league.Game{ID: "1", Team1Player1ID: "A", Team1Player2ID: "B", Team2Player1ID: "C", Team2Player2ID: "D", Team1Sets: 2, Team1Points: 21, Team2Points: 15}
	b := league.Game{ID: "2", Team1Player1ID: "D", Team1Player2ID: "C", Team2Player1ID: "B", Team2Player2ID: "A", Team2Sets: 2, Team2Points: 21, Team1Points: 15}

	pa := aggregatePairs([]league.Game{a})
	pb := aggregatePairs([]league.Game{b})
	assert.Equal(t, pa, pb)

	both := aggregatePairs([]league.Game{a, b})
	require.Len(t, both, 2)
	ab := both[pairKey{"A", "B"}]
	assert.Equal(t, 2, ab.GamesPlayed)
	assert.Equal(t, 2, ab.Wins)
	assert.Equal(t, 4, ab.SetsWon)
	assert.Equal(t, 42, ab.PointsScored)
	cd := both[pairKey{"C", "D"}]
	assert.Equal(t, 2, cd.Losses)
	assert.Equal(t, 30, cd.PointsScored)
}

func TestEventWinners(t *testing.T) {
	games := []league.Game{
		{Team1Player1ID: "A", Team1Player2ID: "B", Team2Player1ID: "C", Team2Player2ID: "D", Team1Sets: 2},
		{Team1Player1ID: "A", Team1Player2ID: "C", Team2Player1ID: "B", Team2Player2ID: "D", Team2Sets: 2},
	}
	assert.Equal(t, []string{"B"}, EventWinners(games))

	tied := append(games, league.Game{Team1Player1ID: "A", Team1Player2ID: "D", Team2Player1ID: "B", Team2Player2ID: "C", Team1Sets: 2})
	assert.ElementsMatch(t, []string{"A", "B", "D"}, EventWinners(tied))

	draws := []league.Game{{Team1Player1ID: "A", Team1Player2ID: "B", Team2Player1ID: "C", Team2Player2ID: "D"}}
	assert.Empty(t, EventWinners(draws))
}

func TestGroup_OnlyExactGendersSplit(t *testing.T) {
	female, male, other := league.GenderFemale, league.GenderMale, "M"
	all := []scored{
		{player: league.Player{ID: "1", Gender: &female}},
		{player: league.Player{ID: "2", Gender: &other}},
		{player: league.Player{ID: "3"}},
		{player: league.Player{ID: "4", Gender: &male}},
	}
	g := group(all, MetricWins, 10)

	assert.Len(t, g.ALL, 4)
	require.Len(t, g.W, 1)
	assert.Equal(t, "1", g.W[0].Player.ID)
	require.Len(t, g.M, 1)
	assert.Equal(t, "4", g.M[0].Player.ID)
	assert.Equal(t, 1, g.M[0].Rank)
}

func TestSortScored_TieBreaks(t *testing.T) {
	all := []scored{
		{player: league.Player{ID: "z", Name: "Bo"}, keys: []float64{1}},
		{player: league.Player{ID: "b", Name: "Al"}, keys: []float64{1}},
		{player: league.Player{ID: "a", Name: "Al"}, keys: []float64{1}},
		{player: league.Player{ID: "c", Name: "Zed"}, keys: []float64{2}},
	}
	sortScored(all)

	ids := []string{all[0].player.ID, all[1].player.ID, all[2].player.ID, all[3].player.ID}
	assert.Equal(t, []string{"c", "a", "b", "z"}, ids)
}

func TestValueJSON(t *testing.T) {
	b, err := json.Marshal(Value{Number: 66.67})
	require.NoError(t, err)
	assert.JSONEq(t, `66.67`, string(b))

	b, err = json.Marshal(Value{Medals: &league.MedalCounts{Gold: 1, Silver: 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"gold":1,"silver":2,"bronze":0}`, string(b))

	var v Value
	require.NoError(t, json.Unmarshal([]byte(`{"gold":3,"silver":0,"bronze":1}`), &v))
	assert.Equal(t, 3, v.Medals.Gold)
	require.NoError(t, json.Unmarshal([]byte(`12`), &v))
	assert.Equal(t, 12.0, v.Number)
}
