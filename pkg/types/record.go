package types

import (
	"fmt"
	"time"
)

// DistinguishedStatus marks comments written in an official capacity.
type DistinguishedStatus string

const (
	DistinguishedNone      DistinguishedStatus = ""
	DistinguishedModerator DistinguishedStatus = "moderator"
	DistinguishedAdmin     DistinguishedStatus = "admin"
	DistinguishedSpecial   DistinguishedStatus = "special"
)

// ParseDistinguished maps the raw distinguished field onto the closed
// enumeration. An absent or empty value maps to DistinguishedNone; an
// unrecognized value is an error, never silently kept.
func ParseDistinguished(raw *string) (DistinguishedStatus, error) {
	if raw == nil || *raw == "" {
		return DistinguishedNone, nil
	}
	switch s := DistinguishedStatus(*raw); s {
	case DistinguishedModerator, DistinguishedAdmin, DistinguishedSpecial:
		return s, nil
	}
	return DistinguishedNone, fmt.Errorf("unknown distinguished status: %q", *raw)
}

// CollapsedReason explains why a comment is collapsed in the default view.
type CollapsedReason string

const (
	CollapsedNone             CollapsedReason = ""
	CollapsedCrowdControl     CollapsedReason = "crowd control"
	CollapsedScoreBelowThresh CollapsedReason = "comment score below threshold"
	CollapsedNewUser          CollapsedReason = "new user"
	CollapsedPotentiallyToxic CollapsedReason = "potentially toxic"
	CollapsedManually         CollapsedReason = "manually collapsed"
)

// ParseCollapsedReason maps the raw collapsed_reason field onto the closed
// enumeration, with the same absent-means-none contract as
// ParseDistinguished.
func ParseCollapsedReason(raw *string) (CollapsedReason, error) {
	if raw == nil || *raw == "" {
		return CollapsedNone, nil
	}
	switch s := CollapsedReason(*raw); s {
	case CollapsedCrowdControl, CollapsedScoreBelowThresh, CollapsedNewUser,
		CollapsedPotentiallyToxic, CollapsedManually:
		return s, nil
	}
	return CollapsedNone, fmt.Errorf("unknown collapsed reason: %q", *raw)
}

// CommentRecord is the normalized, stable shape a raw comment node is
// reduced to. Records are created fresh per fetch and never mutated
// afterwards.
type CommentRecord struct {
	ID           string  `json:"id"`
	SubmissionID string  `json:"submission_id"`
	ParentID     *string `json:"parent_id"` // nil for top-level comments
	Author       string  `json:"author"`    // DeletedSentinel when the author is gone
	AuthorID     *string `json:"author_id"` // nil when the author is gone

	Body     string `json:"body"`
	BodyHTML string `json:"body_html,omitempty"`

	Score            int                 `json:"score"`
	Ups              int                 `json:"ups"`
	Downs            int                 `json:"downs"`
	CreatedUTC       time.Time           `json:"created_utc"`
	Edited           Edited              `json:"edited"`
	IsSubmitter      bool                `json:"is_submitter"`
	Distinguished    DistinguishedStatus `json:"distinguished"`
	Stickied         bool                `json:"stickied"`
	Gilded           int                 `json:"gilded"`
	Collapsed        bool                `json:"collapsed"`
	CollapsedReason  CollapsedReason     `json:"collapsed_reason"`
	Controversiality int                 `json:"controversiality"`

	// Depth is the number of comment ancestors above the node; 0 means
	// top-level.
	Depth       int       `json:"depth"`
	Permalink   string    `json:"permalink"`
	RetrievedAt time.Time `json:"retrieved_at"`

	IsDeleted bool `json:"is_deleted"`
	IsRemoved bool `json:"is_removed"`

	// Replies is populated in tree mode only; flat and stream modes leave
	// it nil.
	Replies []*CommentRecord `json:"replies"`
}

// CommentStats summarizes a collection of records. It is recomputed in
// full from a record list; there is no incremental state.
type CommentStats struct {
	TotalComments   int     `json:"total_comments"`
	UniqueAuthors   int     `json:"unique_authors"`
	DeletedComments int     `json:"deleted_comments"`
	RemovedComments int     `json:"removed_comments"`
	AverageScore    float64 `json:"average_score"`
	MaxDepth        int     `json:"max_depth"`
	GildedComments  int     `json:"gilded_comments"`
}
