package internal

import (
	"fmt"
	"io"
	"log/slog"

	perrors "github.com/JamesPrial/reddit-sentiment-analysis/pkg/errors"
	"github.com/JamesPrial/reddit-sentiment-analysis/pkg/types"
)

// maxAncestorWalk bounds the parent-chain walk used for flat-mode depth
// computation. A chain that never reaches the submission within this many
// hops is treated as malformed input (a cycle in the provider's data)
// rather than looped on forever.
const maxAncestorWalk = 1000

// Options controls how traversals filter and fail.
type Options struct {
	// IncludeDeleted keeps records whose content was deleted or removed.
	IncludeDeleted bool

	// SkipMalformed logs and skips nodes that fail normalization instead
	// of aborting the traversal.
	SkipMalformed bool
}

// Extractor walks an expanded comment forest and produces records.
type Extractor struct {
	norm   *Normalizer
	logger *slog.Logger
}

// NewExtractor creates an Extractor. A nil logger discards diagnostics.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{
		norm:   NewNormalizer(logger),
		logger: logger,
	}
}

// Normalizer exposes the extractor's normalizer for callers that walk the
// forest themselves, such as the streaming iterator.
func (e *Extractor) Normalizer() *Normalizer {
	return e.norm
}

// Flat returns every comment in the forest as a depth-first pre-order
// list. Depth is recomputed per node by walking its ancestor chain up to
// the submission. Replies of filtered-out nodes are still visited.
func (e *Extractor) Flat(forest types.CommentForest, opts Options) ([]*types.CommentRecord, error) {
	records := make([]*types.CommentRecord, 0)
	submissionID := forest.SubmissionID()

	var walk func(things []*types.Thing) error
	walk = func(things []*types.Thing) error {
		for _, thing := range things {
			if thing == nil || thing.IsPlaceholder() {
				continue
			}

			depth, err := e.ancestorDepth(forest, thing)
			if err != nil {
				if opts.SkipMalformed {
					e.logger.Warn("skipping comment with malformed ancestry", "comment_id", thing.ID, "error", err)
					continue
				}
				return err
			}

			record, replies, err := e.norm.Normalize(thing, submissionID, nil, depth)
			if err != nil {
				if opts.SkipMalformed {
					e.logger.Warn("skipping malformed comment", "comment_id", thing.ID, "error", err)
					continue
				}
				return err
			}

			if opts.IncludeDeleted || !(record.IsDeleted || record.IsRemoved) {
				records = append(records, record)
			}
			if err := walk(replies); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(forest.Children()); err != nil {
		return nil, err
	}
	return records, nil
}

// Tree returns the forest's top-level comments with their reply subtrees
// attached. The parent ID of each reply is the normalized ID of its
// parent, passed down explicitly; only top-level nodes derive theirs from
// the raw parent reference. Filtering a node drops its whole subtree.
func (e *Extractor) Tree(forest types.CommentForest, opts Options) ([]*types.CommentRecord, error) {
	return e.extractTree(forest.Children(), forest.SubmissionID(), nil, 0, opts)
}

func (e *Extractor) extractTree(things []*types.Thing, submissionID string, parentID *string, depth int, opts Options) ([]*types.CommentRecord, error) {
	records := make([]*types.CommentRecord, 0)

	for _, thing := range things {
		if thing == nil || thing.IsPlaceholder() {
			continue
		}

		record, replies, err := e.norm.Normalize(thing, submissionID, parentID, depth)
		if err != nil {
			if opts.SkipMalformed {
				e.logger.Warn("skipping malformed comment", "comment_id", thing.ID, "error", err)
				continue
			}
			return nil, err
		}
		if !opts.IncludeDeleted && (record.IsDeleted || record.IsRemoved) {
			continue
		}

		record.Replies, err = e.extractTree(replies, submissionID, &record.ID, depth+1, opts)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// ancestorDepth counts the comment ancestors above a node. The walk is
// bounded; exceeding the bound means the parent chain never reached the
// submission.
func (e *Extractor) ancestorDepth(forest types.CommentForest, thing *types.Thing) (int, error) {
	depth := 0
	current := thing
	for i := 0; i < maxAncestorWalk; i++ {
		parent := forest.Parent(current)
		if parent == nil {
			return depth, nil
		}
		depth++
		current = parent
	}
	return 0, &perrors.NormalizeError{
		CommentID: thing.ID,
		Err:       fmt.Errorf("ancestor chain exceeded %d nodes without reaching the submission", maxAncestorWalk),
	}
}
