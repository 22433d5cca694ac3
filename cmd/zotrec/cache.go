package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/matsen/zotrec/internal/cache"
)

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cachePurgeMissesCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the title cache",
	Long: `Inspect and maintain the title cache.

The cache maps each title to a Semantic Scholar paper ID, or to null when a
lookup found nothing.`,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and entry counts",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

var cachePurgeMissesCmd = &cobra.Command{
	Use:   "purge-misses",
	Short: "Remove cached no-match entries",
	Long: `Remove every title cached as unmatched.

The next run looks those titles up again. Titles with a paper ID are kept.`,
	Args: cobra.NoArgs,
	RunE: runCachePurgeMisses,
}

// CacheInfoResponse is the JSON response for cache info.
type CacheInfoResponse struct {
	Path string `json:"path"`
	cache.Stats
}

// PurgeResponse is the JSON response for cache purge-misses.
type PurgeResponse struct {
	Path    string `json:"path"`
	Removed int    `json:"removed"`
}

// mustOpenCache opens the configured cache, exits on error.
// The caller is responsible for calling Close() on the returned cache.
func mustOpenCache(cmd *cobra.Command) *cache.Cache {
	cfg := mustBuildConfig(baseFlags(cmd))

	c, err := cache.Open(cfg.CachePath, zerolog.Nop())
	if err != nil {
		code := ExitError
		if errors.Is(err, cache.ErrCorrupt) || errors.Is(err, cache.ErrLocked) {
			code = ExitDataError
		}
		exitWithError(code, "opening cache: %v", err)
	}
	return c
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	cfg := mustBuildConfig(baseFlags(cmd))

	// No lock, no directory: info is read-only.
	stats, err := cache.Inspect(cfg.CachePath)
	if err != nil {
		code := ExitError
		if errors.Is(err, cache.ErrCorrupt) {
			code = ExitDataError
		}
		exitWithError(code, "reading cache: %v", err)
	}

	if !humanOutput {
		return outputJSON(CacheInfoResponse{Path: cfg.CachePath, Stats: stats})
	}

	fmt.Printf("Cache: %s\n", cfg.CachePath)
	fmt.Fprintln(os.Stdout, renderTable(
		[]string{"Entries", "Matched", "Unmatched"},
		[][]string{{strconv.Itoa(stats.Total), strconv.Itoa(stats.Found), strconv.Itoa(stats.NoMatch)}},
		1, 2, 3,
	))
	return nil
}

func runCachePurgeMisses(cmd *cobra.Command, args []string) error {
	c := mustOpenCache(cmd)
	defer c.Close()

	removed, err := c.PurgeMisses()
	if err != nil {
		exitWithError(ExitDataError, "purging cache: %v", err)
	}

	if humanOutput {
		fmt.Printf("Removed %d unmatched entries from %s\n", removed, c.Path())
		return nil
	}
	return outputJSON(PurgeResponse{Path: c.Path(), Removed: removed})
}
