package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RankingsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_rankings_computed_total",
			Help: "The total number of leaderboards computed, by metric.",
		}, []string{"metric"}),
		RankingDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "league_ranking_duration_seconds",
			Help:    "The duration of a leaderboard computation, by metric.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"metric"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_rankings_cache_hits_total",
			Help: "The total number of leaderboards served from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_rankings_cache_misses_total",
			Help: "The total number of leaderboard cache misses.",
		}),
		GamesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_games_recorded_total",
			Help: "The total number of games recorded.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "league_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RankingsComputed,
		s.RankingDuration,
		s.CacheHits,
		s.CacheMisses,
		s.GamesRecorded,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRankingComputed(metric string) {
	s.RankingsComputed.WithLabelValues(metric).Inc()
}

func (s *Service) ObserveRankingDuration(metric string, d time.Duration) {
	s.RankingDuration.WithLabelValues(metric).Observe(d.Seconds())
}

func (s *Service) IncCacheHit() {
	s.CacheHits.Inc()
}

func (s *Service) IncCacheMiss() {
	s.CacheMisses.Inc()
}

func (s *Service) IncGamesRecorded() {
	s.GamesRecorded.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
