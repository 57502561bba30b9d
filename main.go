package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/cache"
	"github.com/mauv0809/league-rankings/internal/config"
	"github.com/mauv0809/league-rankings/internal/database"
	server "github.com/mauv0809/league-rankings/internal/http"
	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/metrics"
	"github.com/mauv0809/league-rankings/internal/notifier/slack"
	"github.com/mauv0809/league-rankings/internal/pubsub"
	"github.com/mauv0809/league-rankings/internal/rankings"
	"github.com/mauv0809/league-rankings/internal/statistics"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	ctx := context.Background()
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	store := league.New(db)
	stats := statistics.New(store)

	opts := []rankings.Option{
		rankings.WithMetrics(metricsSvc),
		rankings.WithConcurrency(cfg.Rankings.Concurrency),
	}
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %s", err)
		}
		defer redisCache.Close()
		opts = append(opts, rankings.WithCache(redisCache, cfg.Rankings.CacheTTL))
		log.Info("Rankings cache enabled", "ttl", cfg.Rankings.CacheTTL)
	}
	ranker := rankings.New(store, stats, opts...)

	deps := server.Deps{
		Store:          store,
		Stats:          stats,
		Rankings:       ranker,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		DB:             db,
	}
	if cfg.Slack.Enabled() {
		deps.Notifier = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	}
	if cfg.ProjectID != "" {
		pubsubClient, err := pubsub.New(ctx, cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
		defer pubsubClient.Close()
		deps.PubSub = pubsubClient
	}
	s := server.NewServer(deps, cfg)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server error", "error", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
