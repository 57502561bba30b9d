package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	defaultMigrationsDir = "./migrations"
	defaultCacheTTL      = 5 * time.Minute
	defaultConcurrency   = 8
)

// Load reads configuration from environment variables and .env file.
// It exits the process when the configuration is unusable.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := FromEnv(os.LookupEnv)
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	var missing []string
	// A helper function to get a required env var.
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		missing = append(missing, key)
		return ""
	}
	optional := func(key, def string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return def
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		Port:          getEnv("PORT"),
		MigrationsDir: optional("MIGRATIONS_DIR", defaultMigrationsDir),
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL", ""),
			AuthToken:  optional("TURSO_AUTH_TOKEN", ""),
		},
		RedisURL:  optional("REDIS_URL", ""),
		ProjectID: optional("GCP_PROJECT", ""),
		Slack: SlackConfig{
			Token:         optional("SLACK_BOT_TOKEN", ""),
			ChannelID:     optional("SLACK_CHANNEL_ID", ""),
			SigningSecret: optional("SLACK_SIGNING_SECRET", ""),
		},
		Rankings: RankingsConfig{
			CacheTTL:    defaultCacheTTL,
			Concurrency: defaultConcurrency,
		},
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %v", missing)
	}

	if raw := optional("RANKINGS_CACHE_TTL", ""); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid RANKINGS_CACHE_TTL %q", raw)
		}
		cfg.Rankings.CacheTTL = ttl
	}
	if raw := optional("RANKINGS_CONCURRENCY", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid RANKINGS_CONCURRENCY %q", raw)
		}
		cfg.Rankings.Concurrency = n
	}
	return cfg, nil
}
