package handlers

import (
	"net/http"

	"github.com/mauv0809/league-rankings/internal/league"
)

type registerRequest struct {
	EventID  string `json:"eventId"`
	PlayerID string `json:"playerId"`
}

func RegisterMemberHandler(store league.Writer, hooks WriteHooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in registerRequest
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err, "decode registration")
			return
		}
		member, err := store.RegisterMember(r.Context(), in.EventID, in.PlayerID)
		if err != nil {
			writeError(w, err, "register member")
			return
		}
		hooks.Changed(r.Context())
		writeJSON(w, http.StatusCreated, member)
	}
}

// EventMembersHandler lists registrations of one event.
func EventMembersHandler(store league.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := r.PathValue("eventId")
		if _, err := store.FindEvent(r.Context(), eventID); err != nil {
			writeError(w, err, "get event")
			return
		}
		members, err := store.FindEventMembers(r.Context(), league.MemberFilter{EventID: eventID})
		if err != nil {
			writeError(w, err, "list event members")
			return
		}
		writeJSON(w, http.StatusOK, members)
	}
}

// PlayerMembershipsHandler lists registrations of one player.
func PlayerMembershipsHandler(store league.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.PathValue("playerId")
		if _, err := store.FindPlayer(r.Context(), playerID); err != nil {
			writeError(w, err, "get player")
			return
		}
		members, err := store.FindEventMembers(r.Context(), league.MemberFilter{PlayerID: playerID})
		if err != nil {
			writeError(w, err, "list registrations")
			return
		}
		writeJSON(w, http.StatusOK, members)
	}
}

func RemoveMemberHandler(store league.Writer, hooks WriteHooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.RemoveMember(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err, "remove member")
			return
		}
		hooks.Changed(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

func RemoveMemberByEventAndPlayerHandler(store league.Writer, hooks WriteHooks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.RemoveMemberByEventAndPlayer(r.Context(), r.PathValue("eventId"), r.PathValue("playerId"))
		if err != nil {
			writeError(w, err, "remove member")
			return
		}
		hooks.Changed(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}
