package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/zotrec/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set global configuration values",
	Long: `Get or set values in the global config file
(~/.config/zotrec/config.yml).

Usage:
  zotrec config                                   # Show all config
  zotrec config zotero-path                       # Get specific value
  zotrec config zotero-path ~/Zotero/zotero.sqlite
  zotrec config limit 40

Keys:
  zotero-path  Path to zotero.sqlite
  cache-path   Path to the title cache
  s2-api-key   Semantic Scholar API key
  limit        Number of recommendations to request (1-500)
  max-input    Maximum resolved papers sent as seeds (1-100)

Flags and environment variables override these values.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := config.GlobalConfigPath()
	cfg, err := config.LoadGlobalConfig(path)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			for _, k := range config.Keys {
				v, _ := cfg.Get(k)
				fmt.Printf("%-12s %s\n", k+":", displayValue(k, v))
			}
		} else {
			shown := *cfg
			shown.S2APIKey = displayValue("s2-api-key", shown.S2APIKey)
			outputJSON(shown)
		}
		return nil
	}

	key := config.NormalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		v, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(displayValue(key, v))
		} else {
			outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): displayValue(key, v)})
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	if err := cfg.Set(key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if err := cfg.Save(path); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, displayValue(key, value))
	} else {
		outputJSON(UpdateResponse{
			Status: "updated",
			Key:    key,
			Value:  displayValue(key, value),
		})
	}
	return nil
}

// displayValue masks the API key.
func displayValue(key, v string) string {
	if key != "s2-api-key" || v == "" {
		return v
	}
	if len(v) <= 4 {
		return "****"
	}
	return "****" + v[len(v)-4:]
}
