package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/notifier"
	"github.com/mauv0809/league-rankings/internal/rankings"
)

// NotifyLeaderboardHandler posts a leaderboard to the Slack channel.
// Query: metric (default wins), limit, eventId, startDate, endDate, dry_run.
func NotifyLeaderboardHandler(ranker Ranker, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metric := rankings.MetricWins
		if raw := r.URL.Query().Get("metric"); raw != "" {
			m, err := rankings.ParseMetric(raw)
			if err != nil {
				writeError(w, err, "parse metric")
				return
			}
			metric = m
		}
		limit, err := parseLimit(r, 0)
		if err != nil {
			writeError(w, err, "parse limit")
			return
		}
		dates, err := parseRange(r)
		if err != nil {
			writeError(w, err, "parse dates")
			return
		}
		filters := rankings.Filters{EventID: r.URL.Query().Get("eventId"), Range: dates}

		entries, err := ranker.TopPlayers(r.Context(), metric, limit, filters)
		if err != nil {
			writeError(w, err, "compute ranking")
			return
		}
		if err := notifier.SendLeaderboard(metric, entries, IsDryRunFromContext(r)); err != nil {
			log.Error("Failed to send leaderboard", "metric", metric, "error", err)
			http.Error(w, "Failed to send leaderboard", http.StatusInternalServerError)
			return
		}
		log.Info("Posted leaderboard", "metric", metric, "entries", len(entries))
		w.Write([]byte("OK"))
	}
}
