package league

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Medal is the award attached to a placement.
type Medal int

const (
	NoMedal Medal = iota
	Gold
	Silver
	Bronze
)

// MedalCounts tallies medals for one player.
type MedalCounts struct {
	Gold   int `json:"gold" msgpack:"gold"`
	Silver int `json:"silver" msgpack:"silver"`
	Bronze int `json:"bronze" msgpack:"bronze"`
}

// Add credits one medal. NoMedal is ignored.
func (m *MedalCounts) Add(medal Medal) {
	switch medal {
	case Gold:
		m.Gold++
	case Silver:
		m.Silver++
	case Bronze:
		m.Bronze++
	}
}

// Total is the number of medals of any colour.
func (m MedalCounts) Total() int {
	return m.Gold + m.Silver + m.Bronze
}

// Placement is a finishing position. Rank is 0 for unranked keys, which keep their label.
type Placement struct {
	Rank  int
	Label string
}

// ParsePlacement accepts the canonical decimal form of a positive integer as a rank.
// Anything else ("01", "+1", "finalist") is an unranked placement.
func ParsePlacement(key string) Placement {
	n, err := strconv.Atoi(key)
	if err != nil || n <= 0 || strconv.Itoa(n) != key {
		return Placement{Label: key}
	}
	return Placement{Rank: n, Label: key}
}

func (p Placement) Ranked() bool { return p.Rank > 0 }

// Medal maps ranks 1, 2 and 3 to gold, silver and bronze.
func (p Placement) Medal() Medal {
	switch p.Rank {
	case 1:
		return Gold
	case 2:
		return Silver
	case 3:
		return Bronze
	}
	return NoMedal
}

// Place lists the players that share a placement.
type Place struct {
	Placement
	PlayerIDs []string
}

// Places is an event's results, ranked placements first in rank order, then
// unranked ones by label. On the wire it is a JSON object keyed by placement.
type Places []Place

// Credit calls fn once per (player, placement) pair.
func (ps Places) Credit(fn func(playerID string, p Placement)) {
	for _, place := range ps {
		for _, id := range place.PlayerIDs {
			fn(id, place.Placement)
		}
	}
}

// PlayerIDs returns every player that holds a placement, without duplicates.
func (ps Places) PlayerIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	ps.Credit(func(id string, _ Placement) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	})
	return ids
}

// NewPlaces builds validated places from a key to player-ids mapping.
func NewPlaces(m map[string][]string) (Places, error) {
	ps := make(Places, 0, len(m))
	for key, ids := range m {
		place, err := newPlace(key, ids)
		if err != nil {
			return nil, err
		}
		ps = append(ps, place)
	}
	ps.sort()
	return ps, nil
}

func newPlace(key string, ids []string) (Place, error) {
	if key == "" {
		return Place{}, fmt.Errorf("empty placement key: %w", ErrInvalidPlaces)
	}
	seen := make(map[string]struct{}, len(ids))
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			return Place{}, fmt.Errorf("placement %q lists an empty player id: %w", key, ErrInvalidPlaces)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		clean = append(clean, id)
	}
	return Place{Placement: ParsePlacement(key), PlayerIDs: clean}, nil
}

func (ps Places) sort() {
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := ps[i].Placement, ps[j].Placement
		if a.Ranked() != b.Ranked() {
			return a.Ranked()
		}
		if a.Ranked() {
			return a.Rank < b.Rank
		}
		return a.Label < b.Label
	})
}

// MarshalJSON writes the places as an object in placement order.
func (ps Places) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, place := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(place.Label)
		if err != nil {
			return nil, err
		}
		ids := place.PlayerIDs
		if ids == nil {
			ids = []string{}
		}
		val, err := json.Marshal(ids)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts an object whose values are player-id arrays or a single id.
// A repeated key is rejected.
func (ps *Places) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*ps = nil
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("places must be an object: %w", ErrInvalidPlaces)
	}
	if err := checkDuplicateKeys(data, len(raw)); err != nil {
		return err
	}
	m := make(map[string][]string, len(raw))
	for key, val := range raw {
		var ids []string
		if err := json.Unmarshal(val, &ids); err != nil {
			var single string
			if err := json.Unmarshal(val, &single); err != nil {
				return fmt.Errorf("placement %q must list player ids: %w", key, ErrInvalidPlaces)
			}
			ids = []string{single}
		}
		m[key] = ids
	}
	parsed, err := NewPlaces(m)
	if err != nil {
		return err
	}
	*ps = parsed
	return nil
}

func checkDuplicateKeys(data []byte, unique int) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("places must be an object: %w", ErrInvalidPlaces)
	}
	keys := 0
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return fmt.Errorf("malformed places: %w", ErrInvalidPlaces)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return fmt.Errorf("malformed places: %w", ErrInvalidPlaces)
		}
		keys++
	}
	if keys != unique {
		return fmt.Errorf("placement keys must be unique: %w", ErrInvalidPlaces)
	}
	return nil
}
