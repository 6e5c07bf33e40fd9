package fetcher

import (
	"fmt"
	"log/slog"

	"github.com/JamesPrial/reddit-sentiment-analysis/internal"
	"github.com/JamesPrial/reddit-sentiment-analysis/pkg/types"
)

// ErrNoMoreRecords is returned by Next when the stream is exhausted.
var ErrNoMoreRecords = fmt.Errorf("no more comments available")

// RecordIterator streams normalized records from a comment forest in
// depth-first pre-order. Each record is produced lazily when the consumer
// asks for the next one; a consumer aborts simply by discarding the
// iterator.
type RecordIterator struct {
	submissionID string
	norm         *internal.Normalizer
	logger       *slog.Logger
	opts         *FetchOptions
	stack        []iterFrame
	err          error
}

// iterFrame is one pending node: the raw Thing plus the traversal state
// its record inherits.
type iterFrame struct {
	thing    *types.Thing
	parentID *string
	depth    int
}

func newRecordIterator(forest types.CommentForest, norm *internal.Normalizer, logger *slog.Logger, opts *FetchOptions) *RecordIterator {
	if opts == nil {
		opts = &FetchOptions{}
	}

	children := forest.Children()
	it := &RecordIterator{
		submissionID: forest.SubmissionID(),
		norm:         norm,
		logger:       logger,
		opts:         opts,
		stack:        make([]iterFrame, 0, len(children)),
	}

	// Push top-level nodes in reverse so the stack pops them in order.
	for i := len(children) - 1; i >= 0; i-- {
		it.stack = append(it.stack, iterFrame{thing: children[i]})
	}
	return it
}

// HasNext returns true if there may be more records to iterate through.
// It can report true right before an exhausting sequence of skipped
// nodes; Next returns ErrNoMoreRecords in that case.
func (it *RecordIterator) HasNext() bool {
	if it.err != nil {
		return false
	}
	return len(it.stack) > 0
}

// Next returns the next record in pre-order. Once Next returns an error
// other than ErrNoMoreRecords, the stream is poisoned and every further
// call returns the same error.
func (it *RecordIterator) Next() (*types.CommentRecord, error) {
	if it.err != nil {
		return nil, it.err
	}

	for len(it.stack) > 0 {
		frame := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]

		if frame.thing == nil || frame.thing.IsPlaceholder() {
			continue
		}

		record, replies, err := it.norm.Normalize(frame.thing, it.submissionID, frame.parentID, frame.depth)
		if err != nil {
			if it.opts.SkipMalformed {
				it.logger.Warn("skipping malformed comment", "comment_id", frame.thing.ID, "error", err)
				continue
			}
			it.err = err
			return nil, err
		}

		// Skipping a deleted or removed node skips its whole subtree.
		if !it.opts.IncludeDeleted && (record.IsDeleted || record.IsRemoved) {
			continue
		}

		for i := len(replies) - 1; i >= 0; i-- {
			it.stack = append(it.stack, iterFrame{
				thing:    replies[i],
				parentID: &record.ID,
				depth:    frame.depth + 1,
			})
		}
		return record, nil
	}

	return nil, ErrNoMoreRecords
}

// Error returns the error that poisoned the stream, if any.
func (it *RecordIterator) Error() error {
	return it.err
}

// Collect drains the iterator into a slice, up to maxRecords. A
// non-positive maxRecords collects everything remaining.
func (it *RecordIterator) Collect(maxRecords int) ([]*types.CommentRecord, error) {
	var records []*types.CommentRecord

	for it.HasNext() && (maxRecords <= 0 || len(records) < maxRecords) {
		record, err := it.Next()
		if err != nil {
			if err == ErrNoMoreRecords {
				return records, nil
			}
			return records, err
		}
		records = append(records, record)
	}

	return records, nil
}
