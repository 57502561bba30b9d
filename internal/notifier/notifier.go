package notifier

import (
	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/rankings"
	"github.com/mauv0809/league-rankings/internal/statistics"
)

// Notifier defines a high-level interface for sending notifications about league events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For recorded games. names maps player id to display name.
	SendGameResult(game league.Game, names map[string]string, dryRun bool) error
	// For slash commands and scheduled posts
	SendLeaderboard(metric rankings.Metric, entries []rankings.Entry, dryRun bool) error
	SendPlayerStats(profile *statistics.Profile, dryRun bool) error
	SendPlayerNotFound(query string, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(metric rankings.Metric, entries []rankings.Entry) (any, error)
	FormatPlayerStatsResponse(profile *statistics.Profile) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
	FormatTeamCombinationsResponse(combos []rankings.TeamCombination) (any, error)
}
