package internal

import (
	"io"
	"log/slog"
	"strings"
	"time"

	perrors "github.com/JamesPrial/reddit-sentiment-analysis/pkg/errors"
	"github.com/JamesPrial/reddit-sentiment-analysis/pkg/types"
	"github.com/JamesPrial/reddit-sentiment-analysis/pkg/validation"
)

// Normalizer converts parsed comment payloads into CommentRecords.
type Normalizer struct {
	parser *Parser
	logger *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewNormalizer creates a Normalizer. A nil logger discards diagnostics.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Normalizer{
		parser: NewParser(),
		logger: logger,
		now:    time.Now,
	}
}

// Normalize parses a raw node and reduces it to a record. parentID nil
// means "not supplied": the parent is derived from the node's own parent
// reference. The extracted reply Things are returned alongside the record
// so traversals can recurse without re-parsing.
func (n *Normalizer) Normalize(thing *types.Thing, submissionID string, parentID *string, depth int) (*types.CommentRecord, []*types.Thing, error) {
	data, err := n.parser.ParseComment(thing)
	if err != nil {
		var id string
		if thing != nil {
			id = thing.ID
		}
		n.logger.Error("failed to parse comment node", "comment_id", id, "error", err)
		return nil, nil, &perrors.NormalizeError{CommentID: id, Err: err}
	}

	record, err := n.Record(data, submissionID, parentID, depth)
	if err != nil {
		return nil, nil, err
	}
	return record, data.Replies, nil
}

// Record normalizes one parsed payload. Any failure reading a required
// field is logged and returned; normalization never swallows errors.
func (n *Normalizer) Record(data *types.CommentData, submissionID string, parentID *string, depth int) (*types.CommentRecord, error) {
	if data == nil {
		return nil, &perrors.NormalizeError{Message: "comment data is nil"}
	}
	if !validation.IsValidBase36(data.ID) {
		n.logger.Error("comment node has no usable ID", "submission_id", submissionID)
		return nil, &perrors.NormalizeError{CommentID: data.ID, Message: "missing or malformed comment ID"}
	}

	if parentID == nil {
		parentID = deriveParentID(data.ParentID)
	}

	distinguished, err := types.ParseDistinguished(data.Distinguished)
	if err != nil {
		n.logger.Error("failed to normalize comment", "comment_id", data.ID, "error", err)
		return nil, &perrors.NormalizeError{CommentID: data.ID, Err: err}
	}
	collapsedReason, err := types.ParseCollapsedReason(data.CollapsedReason)
	if err != nil {
		n.logger.Error("failed to normalize comment", "comment_id", data.ID, "error", err)
		return nil, &perrors.NormalizeError{CommentID: data.ID, Err: err}
	}

	author := data.Author
	authorID := data.AuthorFullname
	if author == "" || author == types.DeletedSentinel {
		author = types.DeletedSentinel
		authorID = nil
	}

	return &types.CommentRecord{
		ID:               data.ID,
		SubmissionID:     submissionID,
		ParentID:         parentID,
		Author:           author,
		AuthorID:         authorID,
		Body:             data.Body,
		BodyHTML:         data.BodyHTML,
		Score:            data.Score,
		Ups:              data.Ups,
		Downs:            data.Downs,
		CreatedUTC:       time.Unix(int64(data.CreatedUTC), 0).UTC(),
		Edited:           data.Edited,
		IsSubmitter:      data.IsSubmitter,
		Distinguished:    distinguished,
		Stickied:         data.Stickied,
		Gilded:           data.Gilded,
		Collapsed:        data.Collapsed,
		CollapsedReason:  collapsedReason,
		Controversiality: data.Controversiality,
		Depth:            depth,
		Permalink:        types.PermalinkBase + data.Permalink,
		RetrievedAt:      n.now(),
		IsDeleted:        data.Deleted(),
		IsRemoved:        data.Removed(),
	}, nil
}

// deriveParentID resolves a raw parent reference: a submission-prefixed
// reference means top-level (nil), a comment-prefixed reference yields the
// bare ID, and anything else is kept verbatim.
func deriveParentID(raw string) *string {
	switch {
	case raw == "":
		return nil
	case strings.HasPrefix(raw, types.PrefixSubmission):
		return nil
	case strings.HasPrefix(raw, types.PrefixComment):
		id := strings.TrimPrefix(raw, types.PrefixComment)
		return &id
	default:
		return &raw
	}
}
