package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/rankings"
)

// RankingsHandler serves GET /rankings/{metric}.
// Query: limit, eventId, startDate, endDate, grouped=true.
func RankingsHandler(ranker Ranker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metric, err := rankings.ParseMetric(r.PathValue("metric"))
		if err != nil {
			writeError(w, err, "parse metric")
			return
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
		log.Debug("Computing ranking", "metric", metric, "limit", limit, "event", filters.EventID)

		if parseBool(r, "grouped") {
			grouped, err := ranker.TopPlayersGrouped(r.Context(), metric, limit, filters)
			if err != nil {
				writeError(w, err, "compute ranking")
				return
			}
			writeJSON(w, http.StatusOK, grouped)
			return
		}
		entries, err := ranker.TopPlayers(r.Context(), metric, limit, filters)
		if err != nil {
			writeError(w, err, "compute ranking")
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// TeamCombinationsHandler serves GET /rankings/teams?limit=N.
func TeamCombinationsHandler(ranker Ranker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r, 0)
		if err != nil {
			writeError(w, err, "parse limit")
			return
		}
		combos, err := ranker.BestTeamCombinations(r.Context(), limit)
		if err != nil {
			writeError(w, err, "compute team combinations")
			return
		}
		writeJSON(w, http.StatusOK, combos)
	}
}
