package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/notifier"
	"github.com/mauv0809/league-rankings/internal/rankings"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(slackMsg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// parseLeaderboardText parses "[metric] [limit]" from the command text.
// Expected formats: "", "winRate", "winRate 5", "5"
func parseLeaderboardText(text string) (rankings.Metric, int, error) {
	metric, limit := rankings.MetricWins, 0
	for _, part := range strings.Fields(text) {
		if n, err := strconv.Atoi(part); err == nil && n > 0 {
			limit = n
			continue
		}
		m, err := rankings.ParseMetric(part)
		if err != nil {
			return "", 0, err
		}
		metric = m
	}
	return metric, limit, nil
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func LeaderboardCommandHandler(ranker Ranker, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		metric, limit, err := parseLeaderboardText(r.FormValue("text"))
		if err != nil {
			http.Error(w, "Unknown metric. Try one of: "+metricNames(), http.StatusBadRequest)
			return
		}

		entries, err := ranker.TopPlayers(r.Context(), metric, limit, rankings.Filters{})
		if err != nil {
			http.Error(w, "Failed to compute leaderboard", http.StatusInternalServerError)
			log.Error("Failed to compute leaderboard", "metric", metric, "error", err)
			return
		}

		msg, err := notifier.FormatLeaderboardResponse(metric, entries)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// PlayerStatsCommandHandler returns a handler for the /player-stats Slack command.
func PlayerStatsCommandHandler(store league.Reader, stats StatsService, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		playerName := strings.TrimSpace(r.FormValue("text"))
		if playerName == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player stats command", "player", playerName)
		var msg any
		player, err := store.FindPlayerByName(r.Context(), playerName)
		switch {
		case errors.Is(err, league.ErrNotFound):
			log.Warn("Could not find player", "player", playerName)
			msg, err = notifier.FormatPlayerNotFoundResponse(playerName)
		case err != nil:
			http.Error(w, "Failed to find player", http.StatusInternalServerError)
			log.Error("Failed to find player", "player", playerName, "error", err)
			return
		default:
			profile, perr := stats.PlayerProfile(r.Context(), player.ID)
			if perr != nil {
				http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
				log.Error("Failed to build player profile", "player", player.ID, "error", perr)
				return
			}
			msg, err = notifier.FormatPlayerStatsResponse(profile)
		}

		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// TeamsCommandHandler returns a handler for the /teams Slack command. The text may carry a limit.
func TeamsCommandHandler(ranker Ranker, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		limit, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("text")))

		combos, err := ranker.BestTeamCombinations(r.Context(), limit)
		if err != nil {
			http.Error(w, "Failed to compute team combinations", http.StatusInternalServerError)
			log.Error("Failed to compute team combinations", "error", err)
			return
		}
		msg, err := notifier.FormatTeamCombinationsResponse(combos)
		if err != nil {
			http.Error(w, "Failed to format team combinations", http.StatusInternalServerError)
			log.Error("Failed to format team combinations", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

func metricNames() string {
	names := make([]string, len(rankings.Metrics))
	for i, m := range rankings.Metrics {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
