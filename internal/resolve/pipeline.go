package resolve

import (
	"context"
	"fmt"

	"github.com/matsen/zotrec/internal/paper"
)

// Store is the cache the pipeline reads and writes. *cache.Cache satisfies it.
type Store interface {
	Get(title string) (paper.Match, bool)
	Set(title string, m paper.Match) error
}

// Lookup resolves a single title. *Resolver satisfies it.
type Lookup interface {
	Resolve(ctx context.Context, title string) paper.Match
}

// ProgressFunc is called once per processed title, cached or not.
type ProgressFunc func(done, total int)

// Options controls a ResolveAll run.
type Options struct {
	// ForceUpdate re-resolves titles whose cached value is a no-match.
	// Titles with a cached ID are never re-queried.
	ForceUpdate bool

	// Progress, if set, receives one call per title.
	Progress ProgressFunc
}

// Outcome summarises a ResolveAll run.
type Outcome struct {
	// IDs holds each resolved paper ID once, in first-seen order.
	IDs []string `json:"ids"`

	Titles    int `json:"titles"`
	Lookups   int `json:"lookups"`
	CacheHits int `json:"cache_hits"`
	Unmatched int `json:"unmatched"`
}

// ResolveAll resolves titles in order, one at a time, consulting and
// updating store. Per title:
//
//   - not cached: look up and store
//   - cached no-match, ForceUpdate: look up again and overwrite
//   - cached no-match, no ForceUpdate: reuse, no lookup
//   - cached ID: reuse, no lookup
//
// A failed cache write aborts the run; the document on disk is still the
// last complete one. Cancellation is checked between titles and after each
// lookup; a title whose lookup was cancelled is not stored.
func ResolveAll(ctx context.Context, titles []string, store Store, lookup Lookup, opts Options) (*Outcome, error) {
	out := &Outcome{Titles: len(titles)}
	seen := make(map[string]bool)

	for i, title := range titles {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		m, cached := store.Get(title)
		if !cached || (!m.Found && opts.ForceUpdate) {
			m = lookup.Resolve(ctx, title)
			out.Lookups++
			// A lookup interrupted by cancellation proves nothing about
			// the title; leave it uncached.
			if err := ctx.Err(); err != nil {
				return out, err
			}
			if err := store.Set(title, m); err != nil {
				return out, fmt.Errorf("caching %q: %w", title, err)
			}
		} else {
			out.CacheHits++
		}

		if m.Found {
			if !seen[m.ID] {
				seen[m.ID] = true
				out.IDs = append(out.IDs, m.ID)
			}
		} else {
			out.Unmatched++
		}

		if opts.Progress != nil {
			opts.Progress(i+1, len(titles))
		}
	}

	return out, nil
}
