package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/league"
)

func CreatePlayerHandler(store league.Writer, hooks WriteHooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in league.NewPlayer
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err, "decode player")
			return
		}
		player, err := store.CreatePlayer(r.Context(), in)
		if err != nil {
			writeError(w, err, "create player")
			return
		}
		hooks.Changed(r.Context())
		log.Info("Created player", "id", player.ID, "name", player.Name)
		writeJSON(w, http.StatusCreated, player)
	}
}

// ListPlayersHandler serves GET /players. active=true|false narrows the list.
func ListPlayersHandler(store league.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter league.PlayerFilter
		switch r.URL.Query().Get("active") {
		case "true":
			active := true
			filter.Active = &active
		case "false":
			active := false
			filter.Active = &active
		}
		players, err := store.FindPlayers(r.Context(), filter)
		if err != nil {
			writeError(w, err, "list players")
			return
		}
		if players == nil {
			players = []league.Player{}
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func GetPlayerHandler(store league.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := store.FindPlayer(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err, "get player")
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

func UpdatePlayerHandler(store league.Writer, hooks WriteHooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in league.PlayerUpdate
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err, "decode player")
			return
		}
		player, err := store.UpdatePlayer(r.Context(), r.PathValue("id"), in)
		if err != nil {
			writeError(w, err, "update player")
			return
		}
		hooks.Changed(r.Context())
		writeJSON(w, http.StatusOK, player)
	}
}

func DeletePlayerHandler(store league.Writer, hooks WriteHooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeletePlayer(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err, "delete player")
			return
		}
		hooks.Changed(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

// PlayerStatsHandler serves GET /players/{id}/stats?startDate=&endDate=.
func PlayerStatsHandler(stats StatsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dates, err := parseRange(r)
		if err != nil {
			writeError(w, err, "parse dates")
			return
		}
		st, err := stats.ComputePlayerStats(r.Context(), r.PathValue("id"), dates)
		if err != nil {
			writeError(w, err, "compute player stats")
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func PlayerProfileHandler(stats StatsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := stats.PlayerProfile(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err, "build player profile")
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

// PlayerEventsHandler lists the events a player registered for, newest registration first.
func PlayerEventsHandler(store league.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, err := store.FindPlayer(r.Context(), id); err != nil {
			writeError(w, err, "get player")
			return
		}
		members, err := store.FindEventMembers(r.Context(), league.MemberFilter{PlayerID: id})
		if err != nil {
			writeError(w, err, "list registrations")
			return
		}
		events := []league.Event{}
		if len(members) == 0 {
			writeJSON(w, http.StatusOK, events)
			return
		}
		ids := make([]string, len(members))
		for i, m := range members {
			ids[i] = m.EventID
		}
		found, err := store.FindEvents(r.Context(), league.EventFilter{IDs: ids})
		if err != nil {
			writeError(w, err, "list events")
			return
		}
		byID := make(map[string]league.Event, len(found))
		for _, e := range found {
			byID[e.ID] = e
		}
		for i := len(members) - 1; i >= 0; i-- {
			if e, ok := byID[members[i].EventID]; ok {
				events = append(events, e)
			}
		}
		writeJSON(w, http.StatusOK, events)
	}
}
