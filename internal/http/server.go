package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/config"
	"github.com/mauv0809/league-rankings/internal/http/handlers"
)

func NewServer(deps Deps, cfg config.Config) *Server {
	server := &Server{
		Store:          deps.Store,
		Stats:          deps.Stats,
		Rankings:       deps.Rankings,
		Metrics:        deps.Metrics,
		MetricsHandler: deps.MetricsHandler,
		Cfg:            cfg,
		DB:             deps.DB,
		Notifier:       deps.Notifier,
		PubSub:         deps.PubSub,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	hooks := handlers.WriteHooks{Rankings: s.Rankings, Events: s.PubSub, Metrics: s.Metrics}
	handle := func(pattern string, h http.Handler, middlewares ...Middleware) {
		s.Router.Handle(pattern, Chain(h, append([]Middleware{paramsMiddleware}, middlewares...)...))
	}

	if s.MetricsHandler != nil {
		s.Router.Handle("GET /metrics", s.MetricsHandler)
	}
	handle("GET /health", handlers.HealthCheckHandler(s.DB))

	handle("GET /rankings/teams", handlers.TeamCombinationsHandler(s.Rankings))
	handle("GET /rankings/{metric}", handlers.RankingsHandler(s.Rankings))

	handle("POST /players", handlers.CreatePlayerHandler(s.Store, hooks))
	handle("GET /players", handlers.ListPlayersHandler(s.Store))
	handle("GET /players/{id}", handlers.GetPlayerHandler(s.Store))
	handle("PATCH /players/{id}", handlers.UpdatePlayerHandler(s.Store, hooks))
	handle("DELETE /players/{id}", handlers.DeletePlayerHandler(s.Store, hooks))
	handle("GET /players/{id}/stats", handlers.PlayerStatsHandler(s.Stats))
	handle("GET /players/{id}/profile", handlers.PlayerProfileHandler(s.Stats))
	handle("GET /players/{id}/events", handlers.PlayerEventsHandler(s.Store))

	handle("POST /events", handlers.CreateEventHandler(s.Store, hooks))
	handle("POST /events/with-games", handlers.CreateEventWithGamesHandler(s.Store, hooks))
	handle("GET /events", handlers.ListEventsHandler(s.Store))
	handle("GET /events/{id}", handlers.GetEventHandler(s.Store))
	handle("PATCH /events/{id}", handlers.UpdateEventHandler(s.Store, hooks))
	handle("PUT /events/{id}/places", handlers.SetPlacesHandler(s.Store, hooks))
	handle("DELETE /events/{id}", handlers.DeleteEventHandler(s.Store, hooks))

	handle("POST /games", handlers.CreateGameHandler(s.Store, hooks))
	handle("GET /games", handlers.ListGamesHandler(s.Store))
	handle("GET /games/{id}", handlers.GetGameHandler(s.Store))
	handle("PATCH /games/{id}", handlers.UpdateGameHandler(s.Store, hooks))
	handle("DELETE /games/{id}", handlers.DeleteGameHandler(s.Store, hooks))

	handle("POST /event-members", handlers.RegisterMemberHandler(s.Store, hooks))
	handle("GET /event-members/event/{eventId}", handlers.EventMembersHandler(s.Store))
	handle("GET /event-members/player/{playerId}", handlers.PlayerMembershipsHandler(s.Store))
	handle("DELETE /event-members/{id}", handlers.RemoveMemberHandler(s.Store, hooks))
	handle("DELETE /event-members/event/{eventId}/player/{playerId}", handlers.RemoveMemberByEventAndPlayerHandler(s.Store, hooks))

	if s.Notifier == nil {
		log.Info("Slack notifier not configured, chat routes disabled")
		return
	}
	verify := slackVerificationMiddleware(s.Cfg.Slack.SigningSecret)
	handle("POST /slack/command/leaderboard", handlers.LeaderboardCommandHandler(s.Rankings, s.Notifier), verify)
	handle("POST /slack/command/player-stats", handlers.PlayerStatsCommandHandler(s.Store, s.Stats, s.Notifier), verify)
	handle("POST /slack/command/teams", handlers.TeamsCommandHandler(s.Rankings, s.Notifier), verify)
	handle("POST /notify-leaderboard", handlers.NotifyLeaderboardHandler(s.Rankings, s.Notifier))
	if s.PubSub != nil {
		handle("POST /pubsub/game-recorded", handlers.GameRecordedPushHandler(s.Store, s.Notifier, s.PubSub))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
