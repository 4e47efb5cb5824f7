package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hifivelabs/hifive/internal/config"
	"github.com/hifivelabs/hifive/internal/feed"
)

var (
	trendingOffline bool
	trendingLimit   int
)

func init() {
	trendingCmd.Flags().BoolVar(&trendingOffline, "offline", false, "Use the embedded sample dataset instead of the API")
	trendingCmd.Flags().IntVar(&trendingLimit, "limit", 0, "Maximum topics to return (0 = all)")
	rootCmd.AddCommand(trendingCmd)
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List trending AI research topics",
	Long: `List trending AI research topics with their recent work counts.

Topics come from concept tags on works published in the last 30 days,
most frequent first. With the API unreachable the embedded sample
dataset is listed instead.

Examples:
  hifive trending
  hifive trending --limit 10 --human
  hifive trending --offline`,
	RunE: runTrending,
}

func runTrending(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	topics, fallback := loadTopics(cmd.Context(), logger, trendingOffline)
	if trendingLimit > 0 && len(topics) > trendingLimit {
		topics = topics[:trendingLimit]
	}

	if humanOutput {
		if fallback {
			fmt.Println("(offline: showing sample data)")
		}
		for i, t := range topics {
			fmt.Printf("%2d. %-*s %d\n", i+1, TopicNameMaxLen, truncateString(t.Topic, TopicNameMaxLen), t.Count)
		}
		return nil
	}

	return outputJSON(struct {
		Topics   []feed.Topic `json:"topics"`
		Fallback bool         `json:"fallback"`
	}{Topics: topics, Fallback: fallback})
}

// loadTopics fetches trending topics, degrading to the sample dataset when
// offline or on fetch failure.
func loadTopics(ctx context.Context, logger zerolog.Logger, offline bool) (topics []feed.Topic, fallback bool) {
	if offline || config.GetOffline() {
		return feed.MockTrending(), true
	}

	client := newFeedClient(logger)
	topics, err := client.TrendingTopics(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("trending fetch failed, using sample data")
		return feed.MockTrending(), true
	}
	return topics, false
}
