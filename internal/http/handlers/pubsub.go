package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/notifier"
	"github.com/mauv0809/league-rankings/internal/pubsub"
)

// pushEnvelope is the body Pub/Sub push subscriptions POST.
type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data string `json:"data"`
	} `json:"message"`
}

// GameRecordedPushHandler receives game-recorded events from a push subscription and
// posts the result to Slack.
func GameRecordedPushHandler(store league.Reader, notifier notifier.Notifier, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received game recorded message", "body", string(bodyBytes))

		var envelope pushEnvelope
		if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var msg pubsub.GameMessage
		if err := pubsubClient.ProcessMessage(rawData, &msg); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if msg.Type != pubsub.EventGameRecorded {
			// Acknowledge so Pub/Sub stops redelivering.
			log.Debug("Ignoring pubsub message", "type", msg.Type)
			w.Write([]byte("OK"))
			return
		}

		ids := msg.Game.PlayerIDs()
		players, err := store.FindPlayers(r.Context(), league.PlayerFilter{IDs: ids[:]})
		if err != nil {
			log.Error("Failed to load players for game", "game", msg.Game.ID, "error", err)
			http.Error(w, "Failed to load players", http.StatusInternalServerError)
			return
		}
		names := make(map[string]string, len(players))
		for _, p := range players {
			names[p.ID] = p.Name
		}

		if err := notifier.SendGameResult(msg.Game, names, IsDryRunFromContext(r)); err != nil {
			log.Error("Failed to notify game result", "game", msg.Game.ID, "error", err)
			http.Error(w, "Failed to notify result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
