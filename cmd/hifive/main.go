// Package main provides the hifive CLI entry point.
package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hifivelabs/hifive/internal/cache"
	"github.com/hifivelabs/hifive/internal/config"
	"github.com/hifivelabs/hifive/internal/feed"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose enables debug logging to stderr
var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hifive",
	Short: "Research collaboration dashboard renderer",
	Long: `hifive renders AI research activity as interactive graph scenes:
trending topic networks clustered by similarity, researcher networks
linked by shared interests, and a radial bubble view rooted on the
top-scored researcher.

Data comes from the OpenAlex API with an embedded sample dataset as the
offline fallback. All commands output JSON by default; use --human for
readable summaries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}

// newLogger builds the CLI logger. Silent unless --verbose.
func newLogger() zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(zerolog.DebugLevel)
}

// newFeedClient assembles the OpenAlex client with the response cache and
// configured polite-pool email. A cache failure degrades to an uncached
// client instead of aborting the command.
func newFeedClient(logger zerolog.Logger) *feed.Client {
	_ = godotenv.Load()

	opts := []feed.ClientOption{feed.WithLogger(logger)}
	if email := config.GetMailto(); email != "" {
		opts = append(opts, feed.WithMailto(email))
	}

	path := effectiveCachePath()
	if path != "" {
		ttl := cache.DefaultTTL
		if cfg, err := config.LoadGlobalConfig(); err == nil && cfg.CacheTTLMinutes > 0 {
			ttl = time.Duration(cfg.CacheTTLMinutes) * time.Minute
		}
		if c, err := cache.Open(path, ttl); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("response cache unavailable")
		} else {
			cobra.OnFinalize(func() { c.Close() })
			opts = append(opts, feed.WithCache(c))
		}
	}

	return feed.NewClient(opts...)
}
