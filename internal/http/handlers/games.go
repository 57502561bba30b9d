package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/pubsub"
)

func CreateGameHandler(store league.Writer, hooks WriteHooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in league.NewGame
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err, "decode game")
			return
		}
		game, err := store.CreateGame(r.Context(), in)
		if err != nil {
			writeError(w, err, "create game")
			return
		}
		hooks.GameChanged(r.Context(), pubsub.EventGameRecorded, *game)
		log.Info("Recorded game", "id", game.ID, "event", game.EventID)
		writeJSON(w, http.StatusCreated, game)
	}
}

// ListGamesHandler serves GET /games?limit=&eventId=&playerId=&startDate=&endDate=.
// limit is capped at 100.
func ListGamesHandler(store league.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r, maxGamesLimit)
		if err != nil {
			writeError(w, err, "parse limit")
			return
		}
		dates, err := parseRange(r)
		if err != nil {
			writeError(w, err, "parse dates")
			return
		}
		q := r.URL.Query()
		games, err := store.FindGames(r.Context(), league.GameFilter{
			PlayerID: q.Get("playerId"),
			EventID:  q.Get("eventId"),
			Range:    dates,
			Limit:    limit,
		})
		if err != nil {
			writeError(w, err, "list games")
			return
		}
		writeJSON(w, http.StatusOK, games)
	}
}

func GetGameHandler(store league.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game, err := store.FindGame(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err, "get game")
			return
		}
		writeJSON(w, http.StatusOK, game)
	}
}

func UpdateGameHandler(store league.Writer, hooks WriteHooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in league.GameUpdate
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err, "decode game")
			return
		}
		game, err := store.UpdateGame(r.Context(), r.PathValue("id"), in)
		if err != nil {
			writeError(w, err, "update game")
			return
		}
		hooks.GameChanged(r.Context(), pubsub.EventGameUpdated, *game)
		writeJSON(w, http.StatusOK, game)
	}
}

func DeleteGameHandler(store league.Writer, hooks WriteHooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game, err := store.DeleteGame(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err, "delete game")
			return
		}
		hooks.GameChanged(r.Context(), pubsub.EventGameDeleted, *game)
		w.WriteHeader(http.StatusNoContent)
	}
}
