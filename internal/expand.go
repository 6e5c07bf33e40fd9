package internal

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	perrors "github.com/JamesPrial/reddit-sentiment-analysis/pkg/errors"
	"github.com/JamesPrial/reddit-sentiment-analysis/pkg/types"
)

// Expander retries the provider's placeholder-expansion operation with
// exponential backoff. The expansion itself mutates the forest handle in
// place; the Expander owns only the retry policy.
type Expander struct {
	maxRetries int
	retryDelay time.Duration
	limit      int
	threshold  int
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewExpander creates an Expander. maxRetries is the total number of
// invocations allowed (at least 1); retryDelay is the base of the
// exponential backoff. limiter may be nil for unthrottled expansion.
func NewExpander(maxRetries int, retryDelay time.Duration, limit, threshold int, limiter *rate.Limiter, logger *slog.Logger) *Expander {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Expander{
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		limit:      limit,
		threshold:  threshold,
		limiter:    limiter,
		logger:     logger,
	}
}

// ExpandAll asks the forest to replace its "load more" placeholders,
// retrying transient failures. Waits grow as retryDelay * 2^(attempt-1);
// after maxRetries consecutive failures the final error is returned
// wrapped in an ExpandError.
func (e *Expander) ExpandAll(ctx context.Context, forest types.CommentForest) error {
	attempts := 0

	operation := func() error {
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}

		attempts++
		if err := forest.ReplaceMore(ctx, e.limit, e.threshold); err != nil {
			e.logger.Warn("error replacing more comments",
				"submission_id", forest.SubmissionID(),
				"attempt", attempts,
				"max_retries", e.maxRetries,
				"error", err)
			return err
		}
		return nil
	}

	if err := backoff.Retry(operation, e.newBackOff(ctx)); err != nil {
		e.logger.Error("failed to replace more comments",
			"submission_id", forest.SubmissionID(),
			"attempts", attempts,
			"error", err)
		return &perrors.ExpandError{
			SubmissionID: forest.SubmissionID(),
			Attempts:     attempts,
			Err:          err,
		}
	}
	return nil
}

// newBackOff builds the retry policy: pure exponential doubling from the
// base delay, no jitter, capped at maxRetries total attempts.
func (e *Expander) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.retryDelay
	b.Multiplier = 2.0
	b.RandomizationFactor = 0
	b.MaxInterval = 5 * time.Minute
	b.MaxElapsedTime = 0
	b.Reset()

	var policy backoff.BackOff = backoff.WithMaxRetries(b, uint64(e.maxRetries-1))
	return backoff.WithContext(policy, ctx)
}
