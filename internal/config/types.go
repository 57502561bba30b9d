package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	Rankings      RankingsConfig
	// RedisURL enables the ranking cache when set.
	RedisURL string
	// ProjectID enables Pub/Sub game events when set.
	ProjectID string
	Slack     SlackConfig
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

// Enabled reports whether enough is configured to post messages.
func (s SlackConfig) Enabled() bool {
	return s.Token != "" && s.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type RankingsConfig struct {
	CacheTTL    time.Duration
	Concurrency int
}
