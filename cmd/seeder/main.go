package main

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/league-rankings/internal/config"
	"github.com/mauv0809/league-rankings/internal/database"
	"github.com/mauv0809/league-rankings/internal/league"
)

const (
	numEvents     = 12
	gamesPerEvent = 6
)

var seedPlayers = []struct {
	name   string
	gender string
}{
	{"Ana Ruiz", league.GenderFemale},
	{"Bea Holm", league.GenderFemale},
	{"Clara Nyberg", league.GenderFemale},
	{"Dora Vik", league.GenderFemale},
	{"Erik Lund", league.GenderMale},
	{"Finn Berg", league.GenderMale},
	{"Gustav Dahl", league.GenderMale},
	{"Hugo Sand", league.GenderMale},
}

func main() {
	log.Info("Starting database seeder...")
	cfg := config.Load()

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	store := league.New(db)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	runID := "seeder-" + uuid.NewString()[:8]

	startTime := time.Now()
	ids, err := seedPlayersInto(ctx, store)
	if err != nil {
		log.Error("Failed to seed players", "error", err)
		return
	}
	log.Info("Ensured players exist.", "count", len(ids))

	games := 0
	for i := 0; i < numEvents; i++ {
		date := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -7*(numEvents-i)).Add(18 * time.Hour)
		n, err := seedEvent(ctx, store, rng, ids, runID, i+1, date)
		if err != nil {
			log.Error("Failed to seed event", "event", i+1, "error", err)
			return
		}
		games += n
	}

	log.Info("Seeding complete.", "run", runID, "events", numEvents, "games", games, "duration", time.Since(startTime))
}

// seedPlayersInto reuses players that already exist by name.
func seedPlayersInto(ctx context.Context, store league.Store) ([]string, error) {
	ids := make([]string, 0, len(seedPlayers))
	for _, sp := range seedPlayers {
		existing, err := store.FindPlayerByName(ctx, sp.name)
		if err == nil {
			ids = append(ids, existing.ID)
			continue
		}
		gender := sp.gender
		p, err := store.CreatePlayer(ctx, league.NewPlayer{Name: sp.name, Gender: &gender})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", sp.name, err)
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// seedEvent records an event with random doubles games and gives the two best pairs
// of the night first and second place.
func seedEvent(ctx context.Context, store league.Store, rng *rand.Rand, ids []string, runID string, n int, date time.Time) (int, error) {
	location := "Seeded Court"
	in := league.NewEventWithGames{
		NewEvent: league.NewEvent{
			Name:      fmt.Sprintf("Tuesday Night #%d", n),
			Date:      date,
			CreatedBy: &runID,
			Location:  &location,
		},
	}

	wins := make(map[[2]string]int)
	for g := 0; g < gamesPerEvent; g++ {
		order := rng.Perm(len(ids))
		team1 := sortedPair(ids[order[0]], ids[order[1]])
		team2 := sortedPair(ids[order[2]], ids[order[3]])
		game := randomScore(rng)
		game.Team1Player1ID, game.Team1Player2ID = team1[0], team1[1]
		game.Team2Player1ID, game.Team2Player2ID = team2[0], team2[1]
		game.Date = date.Add(time.Duration(g*20) * time.Minute)
		in.Games = append(in.Games, game)

		if game.Team1Sets > game.Team2Sets {
			wins[team1]++
		} else {
			wins[team2]++
		}
	}

	places, err := league.NewPlaces(podium(wins))
	if err != nil {
		return 0, err
	}
	in.Places = places

	event, games, err := store.CreateEventWithGames(ctx, in)
	if err != nil {
		return 0, err
	}
	for _, id := range places.PlayerIDs() {
		if _, err := store.RegisterMember(ctx, event.ID, id); err != nil {
			return 0, fmt.Errorf("failed to register %s: %w", id, err)
		}
	}
	log.Debug("Seeded event", "event", event.Name, "games", len(games))
	return len(games), nil
}

// randomScore returns a best-of-three result with no draw on sets.
func randomScore(rng *rand.Rand) league.NewGame {
	winnerSets, loserSets := 2, rng.Intn(2)
	winnerPoints := 21 * winnerSets
	loserPoints := loserSets*21 + rng.Intn(19)*(winnerSets-loserSets)
	if rng.Intn(2) == 0 {
		return league.NewGame{Team1Sets: winnerSets, Team2Sets: loserSets, Team1Points: winnerPoints, Team2Points: loserPoints}
	}
	return league.NewGame{Team1Sets: loserSets, Team2Sets: winnerSets, Team1Points: loserPoints, Team2Points: winnerPoints}
}

// podium gives first place to the pair with most wins and second to the best pair that
// shares no player with it. Ties go to the lower pair key.
func podium(wins map[[2]string]int) map[string][]string {
	pairs := make([][2]string, 0, len(wins))
	for pair := range wins {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		if wins[a] != wins[b] {
			return wins[a] > wins[b]
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return a[1] < b[1]
	})

	first := pairs[0]
	places := map[string][]string{"1": first[:]}
	for _, pair := range pairs[1:] {
		if pair[0] != first[0] && pair[0] != first[1] && pair[1] != first[0] && pair[1] != first[1] {
			places["2"] = pair[:]
			break
		}
	}
	return places
}

func sortedPair(a, b string) [2]string {
	if b < a {
		return [2]string{b, a}
	}
	return [2]string{a, b}
}
