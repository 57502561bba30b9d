package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	limit   int
	eventID string
	from    string
	to      string
	grouped bool
	dryRun  bool
)

func init() {
	rankingsCmd.Flags().IntVar(&limit, "limit", 0, "Number of entries (server default when 0)")
	rankingsCmd.Flags().StringVar(&eventID, "event", "", "Restrict to the members of an event")
	rankingsCmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD or RFC 3339)")
	rankingsCmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD or RFC 3339)")
	rankingsCmd.Flags().BoolVar(&grouped, "grouped", false, "Split the ranking by gender")

	teamsCmd.Flags().IntVar(&limit, "limit", 0, "Number of pairs (server default when 0)")

	statsCmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD or RFC 3339)")
	statsCmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD or RFC 3339)")

	notifyCmd.Flags().IntVar(&limit, "limit", 0, "Number of entries (server default when 0)")
	notifyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log the Slack message instead of posting it")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(rankingsCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(notifyCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var rankingsCmd = &cobra.Command{
	Use:   "rankings <metric>",
	Short: "Show a leaderboard (wins, winRate, setsWon, tournamentsWon, lowestLosses, pointsDifference, eventsWon, gamesPlayed)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := rangeQuery()
		if eventID != "" {
			q.Set("eventId", eventID)
		}
		if grouped {
			q.Set("grouped", "true")
		}
		return performRequest(http.MethodGet, "/rankings/"+url.PathEscape(args[0]), q)
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Show the best doubles pairs",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if limit > 0 {
			q.Set("limit", strconv.Itoa(limit))
		}
		return performRequest(http.MethodGet, "/rankings/teams", q)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <playerID>",
	Short: "Show a player's statistics, optionally windowed by date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players/"+url.PathEscape(args[0])+"/stats", rangeQuery())
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile <playerID>",
	Short: "Show a player's profile with medals and recent form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players/"+url.PathEscape(args[0])+"/profile", nil)
	},
}

var notifyCmd = &cobra.Command{
	Use:   "notify <metric>",
	Short: "Post a leaderboard to the Slack channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("metric", args[0])
		if limit > 0 {
			q.Set("limit", strconv.Itoa(limit))
		}
		if dryRun {
			q.Set("dry_run", "true")
		}
		return performRequest(http.MethodPost, "/notify-leaderboard", q)
	},
}

// rangeQuery carries --limit, --from and --to.
func rangeQuery() url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if from != "" {
		q.Set("startDate", from)
	}
	if to != "" {
		q.Set("endDate", to)
	}
	return q
}

func performRequest(method, endpoint string, query url.Values) error {
	target := host + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	fmt.Printf("Making request to %s\n", target)

	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
