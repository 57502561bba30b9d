package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-rankings/internal/league"
	"github.com/mauv0809/league-rankings/internal/metrics"
	"github.com/mauv0809/league-rankings/internal/notifier"
	"github.com/mauv0809/league-rankings/internal/rankings"
	"github.com/mauv0809/league-rankings/internal/statistics"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendGameResult(game league.Game, names map[string]string, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatGameResult(game, names), dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(metric rankings.Metric, entries []rankings.Entry, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatLeaderboard(metric, entries), dryRun)
	return err
}

func (s *Notifier) SendPlayerStats(profile *statistics.Profile, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatPlayerStats(profile), dryRun)
	return err
}

func (s *Notifier) SendPlayerNotFound(query string, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatPlayerNotFound(query), dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(metric rankings.Metric, entries []rankings.Entry) (any, error) {
	return s.formatLeaderboard(metric, entries), nil
}

// FormatPlayerStatsResponse formats a player stats message for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(profile *statistics.Profile) (any, error) {
	return s.formatPlayerStats(profile), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

// FormatTeamCombinationsResponse formats the best pairs for a slash command response.
func (s *Notifier) FormatTeamCombinationsResponse(combos []rankings.TeamCombination) (any, error) {
	return s.formatTeamCombinations(combos), nil
}

var metricTitles = map[rankings.Metric]string{
	rankings.MetricWins:             "Most Wins",
	rankings.MetricWinRate:          "Best Win Rate",
	rankings.MetricSetsWon:          "Most Sets Won",
	rankings.MetricTournamentsWon:   "Most Tournaments Won",
	rankings.MetricLowestLosses:     "Fewest Losses",
	rankings.MetricPointsDifference: "Best Points Difference",
	rankings.MetricEventsWon:        "Event Medals",
	rankings.MetricGamesPlayed:      "Most Games Played",
}

func medalFor(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return ""
}

// formatValue renders an entry value the way the metric reads best.
func formatValue(metric rankings.Metric, v rankings.Value) string {
	switch {
	case v.Medals != nil:
		return fmt.Sprintf("🥇 %d  🥈 %d  🥉 %d", v.Medals.Gold, v.Medals.Silver, v.Medals.Bronze)
	case metric == rankings.MetricWinRate:
		return fmt.Sprintf("%.2f%%", v.Number)
	case metric == rankings.MetricPointsDifference:
		return fmt.Sprintf("%+d", int(v.Number))
	default:
		return fmt.Sprintf("%d", int(v.Number))
	}
}

func teamName(team [2]string, names map[string]string) string {
	name := func(id string) string {
		if n, ok := names[id]; ok && n != "" {
			return n
		}
		return id
	}
	return name(team[0]) + " & " + name(team[1])
}

// formatGameResult creates the Slack message for a recorded game using Block Kit.
func (s *Notifier) formatGameResult(game league.Game, names map[string]string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 Game recorded! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	details := game.Date.Format("Monday 02 Jan 2006")
	if game.Location != nil && *game.Location != "" {
		details = fmt.Sprintf("%s at %s", *game.Location, details)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", details, false, false), nil, nil))

	team1 := teamName(game.Team(league.Team1), names)
	team2 := teamName(game.Team(league.Team2), names)
	scores := []*slack.TextBlockObject{
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("%s\nSets: %d | Points: %d", team1, game.Team1Sets, game.Team1Points), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("%s\nSets: %d | Points: %d", team2, game.Team2Sets, game.Team2Points), true, false),
	}
	resultText := "Result: draw"
	switch game.Winner() {
	case league.Team1:
		resultText = fmt.Sprintf("Result: %s won! 🏆", team1)
	case league.Team2:
		resultText = fmt.Sprintf("Result: %s won! 🏆", team2)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), scores, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display a ranking.
func (s *Notifier) formatLeaderboard(metric rankings.Metric, entries []rankings.Entry) slack.Message {
	blocks := make([]slack.Block, 0)

	title, ok := metricTitles[metric]
	if !ok {
		title = string(metric)
	}
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 Leaderboard: %s 🏆", title), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No rankings yet. Go play some games!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, entry := range entries {
		line := fmt.Sprintf("%d. %s %s\n> *%s*: %s",
			entry.Rank,
			medalFor(entry.Rank),
			entry.Player.Name,
			title,
			formatValue(metric, entry.Value),
		)
		if entry.TotalEvents != nil {
			line += fmt.Sprintf(" | *Placements*: %d", *entry.TotalEvents)
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", line, false, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message to display a single player's profile.
func (s *Notifier) formatPlayerStats(profile *statistics.Profile) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("🏆 Stats for %s 🏆", profile.Player.Name)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	st := profile.Stats
	statsText := fmt.Sprintf("> *Win Rate*: %.2f%% (%d/%d)\n> *Sets*: %d won, %d lost\n> *Points*: %d scored, %d conceded (%+d)",
		st.WinRate,
		st.TotalWins,
		st.TotalGames,
		st.SetsWon,
		st.SetsLost,
		st.PointsScored,
		st.PointsConceded,
		st.PointsDifference,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", statsText, false, false), nil, nil))

	m := profile.Medals
	medalsText := fmt.Sprintf("> *Medals*: 🥇 %d  🥈 %d  🥉 %d\n> *Placements*: %d", m.Gold, m.Silver, m.Bronze, profile.TotalEvents)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", medalsText, false, false), nil, nil))

	if len(profile.RecentGames) > 0 {
		form := make([]string, len(profile.RecentGames))
		for i, r := range profile.RecentGames {
			switch r {
			case "win":
				form[i] = "W"
			case "lose":
				form[i] = "L"
			default:
				form[i] = "D"
			}
		}
		formText := "Recent form: " + strings.Join(form, " ")
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", formText, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when a player's stats are not found.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

// formatTeamCombinations creates a Slack message listing the strongest pairs.
func (s *Notifier) formatTeamCombinations(combos []rankings.TeamCombination) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🤝 Best Team Combinations 🤝", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(combos) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No pairs have played together yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, c := range combos {
		line := fmt.Sprintf("%d. %s %s & %s\n> *Win Rate*: %.2f%% (%d/%d) | *Sets*: %d-%d",
			c.Rank,
			medalFor(c.Rank),
			c.Player1.Name,
			c.Player2.Name,
			c.WinRate,
			c.Wins,
			c.GamesPlayed,
			c.SetsWon,
			c.SetsLost,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", line, false, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
