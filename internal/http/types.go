package http

import (
	"net/http"

	"github.com/mauv0809/league-rankings/internal/config"
	"github.com/mauv0809/league-rankings/internal/http/handlers"
	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/metrics"
	"github.com/mauv0809/league-rankings/internal/notifier"
	"github.com/mauv0809/league-rankings/internal/pubsub"
)

type Server struct {
	Store          league.Store
	Stats          handlers.StatsService
	Rankings       handlers.Ranker
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	DB             handlers.Pinger
	// Notifier and PubSub are optional; their routes are only mounted when set.
	Notifier notifier.Notifier
	PubSub   pubsub.PubSubClient
	Router   *http.ServeMux
}

// Deps groups the collaborators of NewServer.
type Deps struct {
	Store          league.Store
	Stats          handlers.StatsService
	Rankings       handlers.Ranker
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	DB             handlers.Pinger
	Notifier       notifier.Notifier
	PubSub         pubsub.PubSubClient
}
