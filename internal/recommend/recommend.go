// Package recommend requests content-based recommendations for a set of
// resolved paper IDs.
package recommend

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/matsen/zotrec/internal/paper"
	"github.com/matsen/zotrec/internal/s2"
)

const (
	// DefaultLimit is the number of recommendations requested by default.
	DefaultLimit = 20

	// DefaultMaxInput is the provider cap on seed papers per request.
	DefaultMaxInput = s2.MaxPositivePapers
)

// Recommender issues one recommendation request. *s2.Client satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, positiveIDs []string, limit int) ([]s2.Paper, error)
}

// Result is the outcome of a Request call.
type Result struct {
	// Papers are in the provider's ranked order. Empty when the request
	// failed; check Err to tell failure apart from an empty answer.
	Papers []paper.Recommendation

	// Sent is the number of seed IDs actually sent.
	Sent int

	// Truncated is true when the input exceeded maxInput.
	Truncated bool

	// Err is the underlying failure, if any. It has already been logged.
	Err error
}

// Requester batches IDs into a single recommendation request.
type Requester struct {
	client Recommender
	logger zerolog.Logger
}

// NewRequester creates a Requester backed by client.
func NewRequester(client Recommender, logger zerolog.Logger) *Requester {
	return &Requester{
		client: client,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
}

// Request sends at most maxInput IDs (the first maxInput, in order) and asks
// for up to limit recommendations. Failures are logged and reported through
// Result.Err; Request never returns a Go error.
func (r *Requester) Request(ctx context.Context, ids []string, limit, maxInput int) Result {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if maxInput <= 0 {
		maxInput = DefaultMaxInput
	}

	var res Result
	if len(ids) > maxInput {
		r.logger.Warn().
			Int("resolved", len(ids)).
			Int("max_input", maxInput).
			Msgf("too many papers, using the first %d", maxInput)
		ids = ids[:maxInput]
		res.Truncated = true
	}
	res.Sent = len(ids)

	papers, err := r.client.Recommend(ctx, ids, limit)
	if err != nil {
		r.logger.Error().Err(err).Int("seeds", len(ids)).Msg("recommendation request failed")
		res.Err = err
		return res
	}

	res.Papers = make([]paper.Recommendation, 0, len(papers))
	for _, p := range papers {
		res.Papers = append(res.Papers, p.ToRecommendation())
	}

	r.logger.Debug().Int("seeds", len(ids)).Int("results", len(res.Papers)).Msg("received recommendations")
	return res
}
