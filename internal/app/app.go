// Package app wires the cache, Zotero reader, resolver and recommender into
// a single recommendation run.
package app

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"

	"github.com/matsen/zotrec/internal/cache"
	"github.com/matsen/zotrec/internal/collection"
	"github.com/matsen/zotrec/internal/config"
	"github.com/matsen/zotrec/internal/paper"
	"github.com/matsen/zotrec/internal/recommend"
	"github.com/matsen/zotrec/internal/resolve"
	"github.com/matsen/zotrec/internal/s2"
	"github.com/matsen/zotrec/internal/zotero"
)

// ErrEmptyResolution means no title resolved to an identifier, so no
// recommendation request was made.
var ErrEmptyResolution = errors.New("no titles could be resolved to Semantic Scholar papers")

// Deps holds the collaborators of a run. Zero fields are filled from the
// run settings: an s2.Client for Matcher and Recommender, and a no-op logger.
type Deps struct {
	Matcher     resolve.Matcher
	Recommender recommend.Recommender
	Logger      *zerolog.Logger
	Progress    resolve.ProgressFunc
}

// Report is the result of a run. It is the JSON document printed by the CLI.
type Report struct {
	Collection string `json:"collection,omitempty"`

	Titles    int `json:"titles"`
	Resolved  int `json:"resolved"`
	Lookups   int `json:"lookups"`
	CacheHits int `json:"cache_hits"`
	Unmatched int `json:"unmatched"`

	Sent      int  `json:"sent"`
	Truncated bool `json:"truncated"`

	Recommendations []paper.Recommendation `json:"recommendations"`

	// Error is set when the recommendation request failed.
	Error string `json:"error,omitempty"`

	// RecommendErr is the underlying recommendation failure.
	RecommendErr error `json:"-"`
}

func (d Deps) withDefaults(cfg config.Run) Deps {
	if d.Logger == nil {
		nop := zerolog.Nop()
		d.Logger = &nop
	}
	if d.Matcher == nil || d.Recommender == nil {
		client := s2.NewClient(s2.WithAPIKey(cfg.APIKey))
		if d.Matcher == nil {
			d.Matcher = client
		}
		if d.Recommender == nil {
			d.Recommender = client
		}
	}
	return d
}

// Run executes one recommendation run:
//
//	cache -> Zotero titles -> resolve -> recommend
//
// A corrupt cache fails before any network traffic. When nothing resolves,
// Run returns the partial report together with ErrEmptyResolution. A failed
// recommendation request is not an error; it is recorded in the report.
func Run(ctx context.Context, cfg config.Run, deps Deps) (*Report, error) {
	deps = deps.withDefaults(cfg)
	logger := *deps.Logger

	c, err := cache.Open(cfg.CachePath, logger)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	defer c.Close()

	titles, err := LoadTitles(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info().Int("titles", len(titles)).Str("collection", cfg.Collection).Msg("loaded titles")

	outcome, err := resolve.ResolveAll(ctx, titles, c, resolve.NewResolver(deps.Matcher, logger), resolve.Options{
		ForceUpdate: cfg.ForceUpdate,
		Progress:    deps.Progress,
	})
	report := &Report{Collection: cfg.Collection}
	if outcome != nil {
		report.Titles = outcome.Titles
		report.Resolved = len(outcome.IDs)
		report.Lookups = outcome.Lookups
		report.CacheHits = outcome.CacheHits
		report.Unmatched = outcome.Unmatched
	}
	if err != nil {
		return report, fmt.Errorf("resolving titles: %w", err)
	}

	logger.Info().
		Int("resolved", report.Resolved).
		Int("lookups", report.Lookups).
		Int("cache_hits", report.CacheHits).
		Int("unmatched", report.Unmatched).
		Msg("resolved titles")

	if len(outcome.IDs) == 0 {
		report.Recommendations = []paper.Recommendation{}
		return report, ErrEmptyResolution
	}

	res := recommend.NewRequester(deps.Recommender, logger).Request(ctx, outcome.IDs, cfg.Limit, cfg.MaxInput)
	report.Sent = res.Sent
	report.Truncated = res.Truncated
	report.Recommendations = res.Papers
	if res.Err != nil {
		report.RecommendErr = res.Err
		report.Error = res.Err.Error()
	}

	return report, nil
}

// LoadTitles opens the Zotero database named by cfg and returns the titles
// in scope.
func LoadTitles(ctx context.Context, cfg config.Run) ([]string, error) {
	db, err := zotero.Open(cfg.ZoteroPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var scope sq.Sqlizer
	if cfg.Collection != "" {
		scope = zotero.ScopeFilter(cfg.Collection, cfg.IncludeSubcollections)
	}

	titles, err := db.Titles(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("reading titles: %w", err)
	}
	return titles, nil
}

// Collections returns the flattened collection tree of the Zotero database.
func Collections(ctx context.Context, zoteroPath string) ([]string, error) {
	db, err := zotero.Open(zoteroPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	nodes, err := db.Collections(ctx)
	if err != nil {
		return nil, err
	}
	return collection.Flatten(nodes), nil
}
