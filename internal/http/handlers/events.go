package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/pubsub"
)

// eventResponse is an event with its games and registrations when requested.
type eventResponse struct {
	league.Event
	Games   []league.Game        `json:"games,omitempty"`
	Members []league.EventMember `json:"members,omitempty"`
}

type eventWithGamesResponse struct {
	league.Event
	Games []league.Game `json:"games"`
}

type placesRequest struct {
	Places league.Places `json:"places"`
}

func CreateEventHandler(store league.Writer, hooks WriteHooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in league.NewEvent
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err, "decode event")
			return
		}
		event, err := store.CreateEvent(r.Context(), in)
		if err != nil {
			writeError(w, err, "create event")
			return
		}
		hooks.Changed(r.Context())
		log.Info("Created event", "id", event.ID, "name", event.Name)
		writeJSON(w, http.StatusCreated, event)
	}
}

// CreateEventWithGamesHandler records an event, its places and all its games atomically.
func CreateEventWithGamesHandler(store league.Writer, hooks WriteHooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in league.NewEventWithGames
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err, "decode event")
			return
		}
		event, games, err := store.CreateEventWithGames(r.Context(), in)
		if err != nil {
			writeError(w, err, "create event with games")
			return
		}
		if len(games) == 0 {
			hooks.Changed(r.Context())
		}
		for _, g := range games {
			hooks.GameChanged(r.Context(), pubsub.EventGameRecorded, g)
		}
		log.Info("Created event with games", "id", event.ID, "games", len(games))
		writeJSON(w, http.StatusCreated, eventWithGamesResponse{Event: *event, Games: games})
	}
}

// ListEventsHandler serves GET /events?startDate=&endDate=.
func ListEventsHandler(store league.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dates, err := parseRange(r)
		if err != nil {
			writeError(w, err, "parse dates")
			return
		}
		events, err := store.FindEvents(r.Context(), league.EventFilter{Range: dates})
		if err != nil {
			writeError(w, err, "list events")
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}

// GetEventHandler serves GET /events/{id}?includeGames=true&includeMembers=true.
func GetEventHandler(store league.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := store.FindEvent(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err, "get event")
			return
		}
		resp := eventResponse{Event: *event}
		if parseBool(r, "includeGames") {
			resp.Games, err = store.FindGames(r.Context(), league.GameFilter{EventID: event.ID})
			if err != nil {
				writeError(w, err, "list event games")
				return
			}
		}
		if parseBool(r, "includeMembers") {
			resp.Members, err = store.FindEventMembers(r.Context(), league.MemberFilter{EventID: event.ID})
			if err != nil {
				writeError(w, err, "list event members")
				return
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func UpdateEventHandler(store league.Writer, hooks WriteHooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in league.EventUpdate
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err, "decode event")
			return
		}
		event, err := store.UpdateEvent(r.Context(), r.PathValue("id"), in)
		if err != nil {
			writeError(w, err, "update event")
			return
		}
		hooks.Changed(r.Context())
		writeJSON(w, http.StatusOK, event)
	}
}

// SetPlacesHandler serves PUT /events/{id}/places with body {"places": {"1": [...], ...}}.
func SetPlacesHandler(store league.Writer, hooks WriteHooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in placesRequest
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err, "decode places")
			return
		}
		event, err := store.SetPlaces(r.Context(), r.PathValue("id"), in.Places)
		if err != nil {
			writeError(w, err, "set places")
			return
		}
		hooks.Changed(r.Context())
		writeJSON(w, http.StatusOK, event)
	}
}

func DeleteEventHandler(store league.Writer, hooks WriteHooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err, "delete event")
			return
		}
		hooks.Changed(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}
