package rankings

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mauv0809/league-rankings/internal/league"
)

// Metric names a leaderboard.
type Metric string

const (
	MetricWins             Metric = "wins"
	MetricWinRate          Metric = "winRate"
	MetricSetsWon          Metric = "setsWon"
	MetricTournamentsWon   Metric = "tournamentsWon"
	MetricLowestLosses     Metric = "lowestLosses"
	MetricPointsDifference Metric = "pointsDifference"
	MetricEventsWon        Metric = "eventsWon"
	MetricGamesPlayed      Metric = "gamesPlayed"
)

// Metrics lists every supported metric.
var Metrics = []Metric{
	MetricWins,
	MetricWinRate,
	MetricSetsWon,
	MetricTournamentsWon,
	MetricLowestLosses,
	MetricPointsDifference,
	MetricEventsWon,
	MetricGamesPlayed,
}

// ParseMetric resolves a metric name.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownMetric)
}

const (
	DefaultLimit     = 10
	DefaultTeamLimit = 5
)

// Filters restricts a ranking. The zero value means no restriction.
type Filters struct {
	EventID string
	Range   league.DateRange
}

func (f Filters) IsZero() bool {
	return f.EventID == "" && f.Range.IsZero()
}

// key is a stable cache key fragment.
func (f Filters) key() string {
	unix := func(t *time.Time) int64 {
		if t == nil {
			return 0
		}
		return t.Unix()
	}
	return fmt.Sprintf("%s:%d:%d", f.EventID, unix(f.Range.Start), unix(f.Range.End))
}

// Value is either a number or, for eventsWon, a medal count.
type Value struct {
	Number float64             `msgpack:"number"`
	Medals *league.MedalCounts `msgpack:"medals,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.Medals != nil {
		return json.Marshal(v.Medals)
	}
	return json.Marshal(v.Number)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	*v = Value{}
	var medals league.MedalCounts
	if err := json.Unmarshal(data, &medals); err == nil {
		v.Medals = &medals
		return nil
	}
	return json.Unmarshal(data, &v.Number)
}

// Entry is one row of a leaderboard.
type Entry struct {
	Rank        int           `json:"rank" msgpack:"rank"`
	Player      league.Player `json:"player" msgpack:"player"`
	Value       Value         `json:"value" msgpack:"value"`
	Metric      Metric        `json:"metric" msgpack:"metric"`
	TotalEvents *int          `json:"totalEvents,omitempty" msgpack:"totalEvents,omitempty"`
	EventsWon   *int          `json:"eventsWon,omitempty" msgpack:"eventsWon,omitempty"`
}

// Grouped splits a leaderboard by gender, each list ranked from 1.
type Grouped struct {
	ALL []Entry `json:"ALL" msgpack:"ALL"`
	W   []Entry `json:"W" msgpack:"W"`
	M   []Entry `json:"M" msgpack:"M"`
}

// TeamCombination aggregates every game an unordered pair played together.
type TeamCombination struct {
	Rank           int           `json:"rank" msgpack:"rank"`
	Player1        league.Player `json:"player1" msgpack:"player1"`
	Player2        league.Player `json:"player2" msgpack:"player2"`
	GamesPlayed    int           `json:"gamesPlayed" msgpack:"gamesPlayed"`
	Wins           int           `json:"wins" msgpack:"wins"`
	Losses         int           `json:"losses" msgpack:"losses"`
	WinRate        float64       `json:"winRate" msgpack:"winRate"`
	SetsWon        int           `json:"setsWon" msgpack:"setsWon"`
	SetsLost       int           `json:"setsLost" msgpack:"setsLost"`
	PointsScored   int           `json:"pointsScored" msgpack:"pointsScored"`
	PointsConceded int           `json:"pointsConceded" msgpack:"pointsConceded"`
}

// scored is a player with the sort keys of one metric. Keys compare in order, higher first.
type scored struct {
	player      league.Player
	value       Value
	keys        []float64
	totalEvents *int
	eventsWon   *int
}
