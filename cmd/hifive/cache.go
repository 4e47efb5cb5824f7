package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hifivelabs/hifive/internal/cache"
	"github.com/hifivelabs/hifive/internal/config"
)

func init() {
	cacheCmd.AddCommand(cachePathCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the API response cache",
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the response cache location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := effectiveCachePath()
		if humanOutput {
			fmt.Println(path)
			return nil
		}
		return outputJSON(StatusResponse{Status: "ok", Path: path})
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all cached API responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := effectiveCachePath()
		if path == "" {
			exitWithError(ExitConfigError, "no cache location available")
		}

		c, err := cache.Open(path, cache.DefaultTTL)
		if err != nil {
			exitWithError(ExitError, "opening cache: %v", err)
		}
		defer c.Close()

		if err := c.Purge(); err != nil {
			exitWithError(ExitError, "purging cache: %v", err)
		}

		if humanOutput {
			fmt.Printf("Purged %s\n", path)
			return nil
		}
		return outputJSON(StatusResponse{Status: "purged", Path: path})
	},
}

// effectiveCachePath resolves the cache database location: the configured
// directory when set, otherwise the platform default.
func effectiveCachePath() string {
	if dir := config.GetCacheDir(); dir != "" {
		return filepath.Join(dir, "responses.db")
	}
	return cache.DefaultPath()
}
