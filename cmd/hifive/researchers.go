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
	researcherTopic       string
	researcherInstitution string
	researcherCountry     string
	researcherOffline     bool
)

func init() {
	researchersCmd.Flags().StringVar(&researcherTopic, "topic", "", "Filter by topic substring")
	researchersCmd.Flags().StringVar(&researcherInstitution, "institution", "", "Filter by institution substring")
	researchersCmd.Flags().StringVar(&researcherCountry, "country", "", "Filter by country code")
	researchersCmd.Flags().BoolVar(&researcherOffline, "offline", false, "Use the embedded sample dataset instead of the API")
	rootCmd.AddCommand(researchersCmd)
}

var researchersCmd = &cobra.Command{
	Use:   "researchers",
	Short: "List AI researchers",
	Long: `List AI researchers with affiliation, country, and citation counts,
most cited first. Filters narrow by topic, institution, or country.

Examples:
  hifive researchers
  hifive researchers --topic "language models"
  hifive researchers --country US --human`,
	RunE: runResearchers,
}

func runResearchers(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	filter := researcherFilter()
	researchers, fallback := loadResearchers(cmd.Context(), logger, filter, researcherOffline)

	if humanOutput {
		if fallback {
			fmt.Println("(offline: showing sample data)")
		}
		if len(researchers) == 0 {
			fmt.Println("No researchers match the filter")
			return nil
		}
		for _, r := range researchers {
			fmt.Printf("%-*s %-30s %6d citations, %d works\n",
				ResearcherNameWidth, truncateString(r.Name, ResearcherNameWidth),
				truncateString(r.Affiliation, 30), r.Citations, r.WorksCount)
		}
		return nil
	}

	return outputJSON(struct {
		Researchers []feed.Researcher `json:"researchers"`
		Fallback    bool              `json:"fallback"`
	}{Researchers: researchers, Fallback: fallback})
}

// researcherFilter assembles the filter from the command flags.
func researcherFilter() feed.ResearcherFilter {
	return feed.ResearcherFilter{
		Topic:       researcherTopic,
		Institution: researcherInstitution,
		Country:     researcherCountry,
	}
}

// loadResearchers fetches researchers, degrading to the sample directory when
// offline or on fetch failure.
func loadResearchers(ctx context.Context, logger zerolog.Logger, filter feed.ResearcherFilter, offline bool) (researchers []feed.Researcher, fallback bool) {
	if offline || config.GetOffline() {
		return feed.FilterResearchers(feed.MockResearchers(), filter), true
	}

	client := newFeedClient(logger)
	researchers, err := client.SearchResearchers(ctx, filter)
	if err != nil {
		logger.Warn().Err(err).Msg("researcher search failed, using sample data")
		return feed.FilterResearchers(feed.MockResearchers(), filter), true
	}
	return researchers, false
}
