// Package resolve maps bibliography titles to Semantic Scholar paper IDs.
package resolve

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/matsen/zotrec/internal/paper"
	"github.com/matsen/zotrec/internal/s2"
)

// Matcher performs a fuzzy title lookup. *s2.Client satisfies it.
type Matcher interface {
	MatchTitle(ctx context.Context, title string) (*s2.MatchResult, error)
}

// Resolver turns one title into a paper match.
type Resolver struct {
	matcher Matcher
	logger  zerolog.Logger
}

// NewResolver creates a Resolver backed by the given matcher.
func NewResolver(m Matcher, logger zerolog.Logger) *Resolver {
	return &Resolver{
		matcher: m,
		logger:  logger.With().Str("component", "resolver").Logger(),
	}
}

// Resolve looks up title and returns the first candidate's ID.
//
// Resolve never fails: a transport error, a non-2xx response or an empty
// candidate list all yield paper.NotFound() and a diagnostic.
func (r *Resolver) Resolve(ctx context.Context, title string) paper.Match {
	res, err := r.matcher.MatchTitle(ctx, title)
	if err != nil {
		switch {
		case s2.IsNotFound(err):
			r.logger.Debug().Str("title", title).Msg("no match")
		case errors.Is(err, context.Canceled):
			r.logger.Debug().Str("title", title).Msg("lookup cancelled")
		default:
			r.logger.Warn().Err(err).Str("title", title).Msg("title lookup failed, recording as no match")
		}
		return paper.NotFound()
	}
	if res == nil || res.PaperID == "" {
		r.logger.Debug().Str("title", title).Msg("no match")
		return paper.NotFound()
	}

	return paper.Found(res.PaperID)
}
