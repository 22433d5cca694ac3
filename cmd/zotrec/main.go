// Package main provides the zotrec CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/zotrec/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

// Output and source flags shared by every command.
var (
	humanOutput  bool
	browseOutput bool
	verbose      bool

	zoteroFlag string
	cacheFlag  string
	apiKeyFlag string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "zotrec",
	Short: "Semantic Scholar recommendations for a Zotero library",
	Long: `zotrec reads the titles in your Zotero library, resolves each one to a
Semantic Scholar paper, and asks Semantic Scholar for papers related to the
resolved set.

Resolved titles are cached in a JSON file so later runs make no lookups for
titles already seen. Titles that found no match are retried only with
--force-update.

Output is JSON by default. Use --human for a table or --browse for an
interactive browser.`,
	Args:          cobra.NoArgs,
	RunE:          runRecommend,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for S2_API_KEY)
	_ = godotenv.Load()

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Show debug diagnostics on stderr")
	pf.StringVar(&zoteroFlag, "zotero", "", "Path to zotero.sqlite (default ~/Zotero/zotero.sqlite)")
	pf.StringVar(&cacheFlag, "cache", "", "Path to the title cache (default $XDG_CACHE_HOME/zotrec/titles.json)")
	pf.StringVar(&apiKeyFlag, "api-key", "", "Semantic Scholar API key (default $"+config.EnvAPIKey+")")

	rootCmd.Version = Version
}

// outputFormat maps the output flags to a format; --browse wins over --human.
func outputFormat() config.OutputFormat {
	switch {
	case browseOutput:
		return config.OutputBrowse
	case humanOutput:
		return config.OutputHuman
	default:
		return config.OutputJSON
	}
}

// baseFlags collects the persistent flags the user actually set.
func baseFlags(cmd *cobra.Command) config.Flags {
	f := config.Flags{
		Output:  outputFormat(),
		Verbose: verbose,
	}
	if cmd.Flags().Changed("zotero") {
		f.ZoteroPath = &zoteroFlag
	}
	if cmd.Flags().Changed("cache") {
		f.CachePath = &cacheFlag
	}
	if cmd.Flags().Changed("api-key") {
		f.APIKey = &apiKeyFlag
	}
	return f
}

// mustBuildConfig merges flags, environment and the global config file,
// exits on error.
func mustBuildConfig(flags config.Flags) config.Run {
	global, err := config.LoadGlobalConfig(config.GlobalConfigPath())
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	cfg, err := config.Build(global, os.Getenv, flags)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

// mustHaveZotero exits with guidance when the Zotero database is missing.
func mustHaveZotero(cfg config.Run) {
	if _, err := os.Stat(cfg.ZoteroPath); err != nil {
		if humanOutput || browseOutput {
			fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage(cfg.ZoteroPath))
			os.Exit(ExitConfigError)
		}
		exitWithError(ExitConfigError, "zotero database not found at %s", cfg.ZoteroPath)
	}
}
