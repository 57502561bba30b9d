package league

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlacement(t *testing.T) {
	assert.Equal(t, Placement{Rank: 1, Label: "1"}, ParsePlacement("1"))
	assert.Equal(t, Placement{Rank: 12, Label: "12"}, ParsePlacement("12"))
	assert.Equal(t, Placement{Label: "01"}, ParsePlacement("01"))
	assert.Equal(t, Placement{Label: "+1"}, ParsePlacement("+1"))
	assert.Equal(t, Placement{Label: "0"}, ParsePlacement("0"))
	assert.Equal(t, Placement{Label: "finalist"}, ParsePlacement("finalist"))

	assert.Equal(t, Gold, ParsePlacement("1").Medal())
	assert.Equal(t, Bronze, ParsePlacement("3").Medal())
	assert.Equal(t, NoMedal, ParsePlacement("4").Medal())
	assert.Equal(t, NoMedal, ParsePlacement("01").Medal())
}

func TestPlacesUnmarshal(t *testing.T) {
	var ps Places
	err := json.Unmarshal([]byte(`{"finalist":["E"],"2":["C"],"1":["A","B","A"],"3":"D"}`), &ps)
	require.NoError(t, err)
	require.Len(t, ps, 4)

	assert.Equal(t, 1, ps[0].Rank)
	assert.Equal(t, []string{"A", "B"}, ps[0].PlayerIDs)
	assert.Equal(t, 2, ps[1].Rank)
	assert.Equal(t, []string{"D"}, ps[2].PlayerIDs)
	assert.False(t, ps[3].Ranked())
	assert.Equal(t, "finalist", ps[3].Label)

	assert.ElementsMatch(t, []string{"A", "B", "C", "D", "E"}, ps.PlayerIDs())
}

func TestPlacesUnmarshalRejectsBadInput(t *testing.T) {
	for name, input := range map[string]string{
		"not an object":  `["A"]`,
		"numbers":        `{"1":[1,2]}`,
		"empty id":       `{"1":[""]}`,
		"duplicate keys": `{"1":["A"],"1":["B"]}`,
	} {
		t.Run(name, func(t *testing.T) {
			var ps Places
			assert.ErrorIs(t, json.Unmarshal([]byte(input), &ps), ErrInvalidPlaces)
		})
	}
}

func TestPlacesMarshalKeepsOrder(t *testing.T) {
	ps, err := NewPlaces(map[string][]string{"3": {"C"}, "1": {"A", "B"}, "2": nil})
	require.NoError(t, err)

	b, err := json.Marshal(ps)
	require.NoError(t, err)
	assert.Equal(t, `{"1":["A","B"],"2":[],"3":["C"]}`, string(b))
}

func TestPlacesCredit(t *testing.T) {
	ps, err := NewPlaces(map[string][]string{"1": {"A", "B"}, "2": {"C"}, "x": {"A"}})
	require.NoError(t, err)

	medals := map[string]*MedalCounts{}
	placements := map[string]int{}
	ps.Credit(func(id string, p Placement) {
		if medals[id] == nil {
			medals[id] = &MedalCounts{}
		}
		medals[id].Add(p.Medal())
		placements[id]++
	})

	assert.Equal(t, MedalCounts{Gold: 1}, *medals["A"])
	assert.Equal(t, MedalCounts{Gold: 1}, *medals["B"])
	assert.Equal(t, MedalCounts{Silver: 1}, *medals["C"])
	assert.Equal(t, 2, placements["A"])
	assert.Equal(t, 1, medals["A"].Total())
}
