// Package fetcher extracts comments from Reddit submissions, normalizes
// them into stable records, and computes summary statistics.
//
// The package does not talk to Reddit itself. It consumes a comment
// forest handle exposed by an external API client (see
// types.CommentForest), expands the forest's "load more" placeholders
// with retries, and then walks the resulting tree.
//
// Basic usage:
//
//	f, err := fetcher.New(&fetcher.Config{MaxRetries: 3})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	records, err := f.Fetch(ctx, forest, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	stats := f.Stats(records)
package fetcher

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/JamesPrial/reddit-sentiment-analysis/internal"
	perrors "github.com/JamesPrial/reddit-sentiment-analysis/pkg/errors"
	"github.com/JamesPrial/reddit-sentiment-analysis/pkg/types"
)

const (
	// DefaultMaxRetries is the default number of placeholder-expansion attempts.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the default base delay for expansion backoff.
	DefaultRetryDelay = 1 * time.Second
	// DefaultReplaceMoreThreshold is the default minimum score for a
	// placeholder to be worth expanding.
	DefaultReplaceMoreThreshold = 32

	secondsPerMinute = 60
	defaultBurst     = 10
)

// Config holds the configuration for the comment fetcher.
type Config struct {
	// MaxRetries is the total number of placeholder-expansion attempts
	// before the failure is propagated. Defaults to DefaultMaxRetries;
	// must be at least 1 when set.
	MaxRetries int

	// RetryDelay is the base delay between expansion attempts; the wait
	// doubles on each consecutive failure. Defaults to DefaultRetryDelay.
	RetryDelay time.Duration

	// ReplaceMoreLimit caps how many placeholders one expansion pass may
	// resolve. 0 means no cap.
	ReplaceMoreLimit int

	// ReplaceMoreThreshold is the minimum score for a placeholder to be
	// expanded. Defaults to DefaultReplaceMoreThreshold.
	ReplaceMoreThreshold int

	// RequestsPerMinute throttles expansion attempts against the
	// provider. 0 disables throttling.
	RequestsPerMinute float64

	// Burst allows short spikes above the steady-state rate. Defaults to
	// 10 when RequestsPerMinute is set.
	Burst int

	// Logger for structured diagnostics.
	// Optional. If provided, progress and failures are logged during
	// fetch calls.
	Logger *slog.Logger
}

// FetchOptions controls filtering and failure policy for one fetch call.
// A nil *FetchOptions means defaults: deleted and removed comments are
// filtered out, and the first malformed node aborts the traversal.
type FetchOptions struct {
	// IncludeDeleted keeps records whose content was deleted by the
	// author or removed by moderation.
	IncludeDeleted bool

	// SkipMalformed logs and skips nodes that fail normalization instead
	// of aborting the whole traversal.
	SkipMalformed bool
}

func (o *FetchOptions) internalOptions() internal.Options {
	if o == nil {
		return internal.Options{}
	}
	return internal.Options{
		IncludeDeleted: o.IncludeDeleted,
		SkipMalformed:  o.SkipMalformed,
	}
}

// CommentFetcher orchestrates placeholder expansion and traversal of one
// submission's comment forest. It holds no per-fetch state and is safe to
// reuse across submissions, though a single forest handle must not be
// fetched concurrently because the provider mutates it in place.
type CommentFetcher struct {
	config    *Config
	logger    *slog.Logger
	expander  *internal.Expander
	extractor *internal.Extractor
}

// New creates a CommentFetcher with the provided configuration. A nil
// config selects all defaults.
func New(config *Config) (*CommentFetcher, error) {
	if config == nil {
		config = &Config{}
	}
	if config.MaxRetries < 0 {
		return nil, &perrors.ConfigError{Field: "MaxRetries", Message: "must be at least 1"}
	}
	if config.RetryDelay < 0 {
		return nil, &perrors.ConfigError{Field: "RetryDelay", Message: "must not be negative"}
	}
	if config.ReplaceMoreLimit < 0 {
		return nil, &perrors.ConfigError{Field: "ReplaceMoreLimit", Message: "must not be negative"}
	}
	if config.RequestsPerMinute < 0 {
		return nil, &perrors.ConfigError{Field: "RequestsPerMinute", Message: "must not be negative"}
	}

	// Set defaults
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = DefaultRetryDelay
	}
	if config.ReplaceMoreThreshold == 0 {
		config.ReplaceMoreThreshold = DefaultReplaceMoreThreshold
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &CommentFetcher{
		config: config,
		logger: logger,
		expander: internal.NewExpander(
			config.MaxRetries,
			config.RetryDelay,
			config.ReplaceMoreLimit,
			config.ReplaceMoreThreshold,
			buildLimiter(config),
			logger,
		),
		extractor: internal.NewExtractor(logger),
	}, nil
}

// buildLimiter turns the per-minute rate config into a token bucket. A
// zero rate means no throttling.
func buildLimiter(config *Config) *rate.Limiter {
	if config.RequestsPerMinute <= 0 {
		return nil
	}
	burst := config.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	limitPerSecond := rate.Limit(config.RequestsPerMinute / secondsPerMinute)
	return rate.NewLimiter(limitPerSecond, burst)
}

// Fetch expands the forest's placeholders and returns all comments as a
// flat, depth-first pre-order list. Each record's depth is computed from
// its ancestor chain.
func (f *CommentFetcher) Fetch(ctx context.Context, forest types.CommentForest, opts *FetchOptions) ([]*types.CommentRecord, error) {
	f.logger.Info("fetching comments", "submission_id", forest.SubmissionID())

	if err := f.expander.ExpandAll(ctx, forest); err != nil {
		return nil, err
	}

	records, err := f.extractor.Flat(forest, opts.internalOptions())
	if err != nil {
		return nil, err
	}

	f.logger.Info("fetched comments", "submission_id", forest.SubmissionID(), "count", len(records))
	return records, nil
}

// FetchTree expands the forest's placeholders and returns the top-level
// comments with their reply subtrees attached via the Replies field.
func (f *CommentFetcher) FetchTree(ctx context.Context, forest types.CommentForest, opts *FetchOptions) ([]*types.CommentRecord, error) {
	f.logger.Info("fetching comment tree", "submission_id", forest.SubmissionID())

	if err := f.expander.ExpandAll(ctx, forest); err != nil {
		return nil, err
	}

	records, err := f.extractor.Tree(forest, opts.internalOptions())
	if err != nil {
		return nil, err
	}

	f.logger.Info("fetched comment tree", "submission_id", forest.SubmissionID(), "top_level", len(records))
	return records, nil
}

// Stream expands the forest's placeholders and returns a lazy pre-order
// iterator over its comments. Each record is produced on demand, before
// its subtree is descended, so consumers can start processing before the
// whole tree is materialized. The iterator is single-pass; re-iterating
// requires a fresh call.
func (f *CommentFetcher) Stream(ctx context.Context, forest types.CommentForest, opts *FetchOptions) (*RecordIterator, error) {
	f.logger.Info("streaming comments", "submission_id", forest.SubmissionID())

	if err := f.expander.ExpandAll(ctx, forest); err != nil {
		return nil, err
	}

	return newRecordIterator(forest, f.extractor.Normalizer(), f.logger, opts), nil
}

// Stats computes summary statistics over a list of records. The records
// may come from any traversal mode; tree-mode output should be flattened
// first (see NewRecordTree).
func (f *CommentFetcher) Stats(records []*types.CommentRecord) types.CommentStats {
	return internal.ComputeStats(records)
}
