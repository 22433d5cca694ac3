package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/zotrec/internal/app"
)

func init() {
	rootCmd.AddCommand(collectionsCmd)
}

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List the Zotero collection tree",
	Long: `List every Zotero collection as an indented tree.

Children follow their parent, indented two spaces per level, and siblings
are sorted by name. Use a listed name with --collection.`,
	Args: cobra.NoArgs,
	RunE: runCollections,
}

// CollectionsResponse is the JSON response for the collections command.
type CollectionsResponse struct {
	Collections []string `json:"collections"`
}

func runCollections(cmd *cobra.Command, args []string) error {
	cfg := mustBuildConfig(baseFlags(cmd))
	mustHaveZotero(cfg)

	lines, err := app.Collections(context.Background(), cfg.ZoteroPath)
	if err != nil {
		exitWithError(ExitDataError, "reading collections: %v", err)
	}

	if humanOutput {
		if len(lines) == 0 {
			fmt.Println("No collections")
		}
		for _, l := range lines {
			fmt.Println(l)
		}
		return nil
	}

	if lines == nil {
		lines = []string{}
	}
	return outputJSON(CollectionsResponse{Collections: lines})
}
