package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/matsen/zotrec/internal/app"
	"github.com/matsen/zotrec/internal/browse"
	"github.com/matsen/zotrec/internal/cache"
	"github.com/matsen/zotrec/internal/config"
	"github.com/matsen/zotrec/internal/logging"
)

// Flags of the root (recommend) command.
var (
	limitFlag      int
	maxInputFlag   int
	forceUpdate    bool
	collectionFlag string
	includeSub     bool
	pickFlag       bool
)

func init() {
	f := rootCmd.Flags()
	f.IntVarP(&limitFlag, "limit", "n", config.DefaultLimit, "Number of recommendations to request")
	f.IntVar(&maxInputFlag, "max-input", config.DefaultMaxInput, "Maximum resolved papers sent as seeds")
	f.BoolVar(&forceUpdate, "force-update", false, "Retry titles cached as unmatched")
	f.StringVarP(&collectionFlag, "collection", "c", "", "Only use titles from this collection")
	f.BoolVar(&includeSub, "subcollections", false, "With --collection, also include direct subcollections")
	f.BoolVar(&pickFlag, "pick", false, "Choose the collection interactively")
	f.BoolVar(&browseOutput, "browse", false, "Browse recommendations interactively")
	rootCmd.MarkFlagsMutuallyExclusive("collection", "pick")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	flags := baseFlags(cmd)
	flags.ForceUpdate = forceUpdate
	flags.Collection = collectionFlag
	flags.IncludeSubcollections = includeSub
	if cmd.Flags().Changed("limit") {
		flags.Limit = &limitFlag
	}
	if cmd.Flags().Changed("max-input") {
		flags.MaxInput = &maxInputFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if pickFlag {
		flags.Collection = mustPickCollection(ctx, flags)
	}

	cfg := mustBuildConfig(flags)
	mustHaveZotero(cfg)

	logger := logging.New(os.Stderr, cfg.Output, cfg.Verbose)

	report, err := app.Run(ctx, cfg, app.Deps{
		Logger:   &logger,
		Progress: newProgress(cfg.Output == config.OutputHuman),
	})
	if err != nil {
		if errors.Is(err, app.ErrEmptyResolution) {
			if cfg.Output == config.OutputJSON {
				outputJSON(report)
			} else {
				fmt.Fprintf(os.Stderr, "%v\n\nCheck your titles, or retry unmatched ones with --force-update.\n", err)
			}
			os.Exit(ExitNoResolved)
		}
		exitWithError(exitCodeFor(err), "%v", err)
	}

	switch cfg.Output {
	case config.OutputBrowse:
		if len(report.Recommendations) == 0 {
			printReportHuman(os.Stdout, report)
			break
		}
		if err := browse.Run(report.Recommendations); err != nil {
			exitWithError(ExitError, "browser: %v", err)
		}
	case config.OutputHuman:
		printReportHuman(os.Stdout, report)
	default:
		if err := outputJSON(report); err != nil {
			return err
		}
	}

	if report.RecommendErr != nil {
		os.Exit(ExitRecommendError)
	}
	return nil
}

// mustPickCollection shows the collection picker and returns the chosen name.
func mustPickCollection(ctx context.Context, flags config.Flags) string {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		exitWithError(ExitConfigError, "--pick needs an interactive terminal")
	}

	cfg := mustBuildConfig(pickerFlags(flags))
	mustHaveZotero(cfg)

	lines, err := app.Collections(ctx, cfg.ZoteroPath)
	if err != nil {
		exitWithError(ExitDataError, "reading collections: %v", err)
	}

	name, err := browse.PickCollection(lines)
	if err != nil {
		if errors.Is(err, browse.ErrAborted) {
			os.Exit(ExitSuccess)
		}
		exitWithError(ExitError, "%v", err)
	}
	return name
}

// pickerFlags returns the flags used to locate the library before a
// collection is chosen. --subcollections only applies once one is picked.
func pickerFlags(flags config.Flags) config.Flags {
	flags.Collection = ""
	flags.IncludeSubcollections = false
	return flags
}

// exitCodeFor maps a run error to an exit code.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, config.ErrInvalid):
		return ExitConfigError
	case errors.Is(err, cache.ErrCorrupt), errors.Is(err, cache.ErrLocked):
		return ExitDataError
	case errors.Is(err, os.ErrNotExist):
		return ExitConfigError
	case errors.Is(err, context.Canceled):
		return ExitError
	default:
		return ExitDataError
	}
}
