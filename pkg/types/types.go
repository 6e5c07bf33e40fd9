// Package types defines the raw and normalized data shapes shared by the
// comment fetcher, along with the collaborator contract for the comment
// forest provider.
package types

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Kinds of Things the fetcher cares about. A forest contains "t1" comment
// nodes and "more" placeholder nodes; everything else is ignored.
const (
	KindComment = "t1"
	KindMore    = "more"
)

// Reddit fullname prefixes used when resolving parent references.
const (
	PrefixComment    = "t1_"
	PrefixSubmission = "t3_"
)

// Sentinel values Reddit substitutes for deleted or removed content.
const (
	// DeletedSentinel replaces both the author and the body when a comment
	// was deleted by its author.
	DeletedSentinel = "[deleted]"
	// RemovedSentinel replaces the body when a comment was removed by
	// moderation. The author may still be present.
	RemovedSentinel = "[removed]"
)

// PermalinkBase is prepended to the relative permalink Reddit returns.
const PermalinkBase = "https://reddit.com"

// ThingData holds the identifying fields common to all Reddit objects.
type ThingData struct {
	ID   string `json:"id"`   // ID (without prefix)
	Name string `json:"name"` // Full name (e.g., "t1_abc123")
}

// GetID returns the object's ID.
func (td ThingData) GetID() string {
	return td.ID
}

// GetName returns the object's full name.
func (td ThingData) GetName() string {
	return td.Name
}

// Thing is one raw entry in a comment forest: a kind tag plus the
// undecoded JSON payload. The provider hands these out; the fetcher
// decodes them on demand.
type Thing struct {
	ThingData
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// IsPlaceholder reports whether the Thing is a "load more" placeholder
// rather than an actual comment.
func (t *Thing) IsPlaceholder() bool {
	return t != nil && t.Kind == KindMore
}

// Votable is an embeddable struct for things that can be voted on.
type Votable struct {
	Ups   int `json:"ups"`
	Downs int `json:"downs"`
}

// Created is an embeddable struct for things that have a creation time.
type Created struct {
	Created    float64 `json:"created"`
	CreatedUTC float64 `json:"created_utc"`
}

// Edited represents a field that can be a boolean or a timestamp.
// If IsEdited is true and Timestamp is 0, it was an old edit marked as `true`.
// If IsEdited is true and Timestamp is non-zero, it's a modern edit with a timestamp.
// If IsEdited is false, the item was not edited.
type Edited struct {
	IsEdited  bool
	Timestamp float64
}

// UnmarshalJSON implements json.Unmarshaler to handle mixed types for the "edited" field.
func (e *Edited) UnmarshalJSON(data []byte) error {
	s := strings.ToLower(string(data))
	switch s {
	case "false", "null":
		e.IsEdited = false
		e.Timestamp = 0
		return nil
	case "true":
		e.IsEdited = true
		e.Timestamp = 0
		return nil
	}

	var timestamp float64
	if err := json.Unmarshal(data, &timestamp); err == nil {
		e.IsEdited = true
		e.Timestamp = timestamp
		return nil
	}

	return fmt.Errorf("unrecognized type for 'edited' field: %s", s)
}

// MarshalJSON emits false when never edited, true for legacy edits without
// a timestamp, and the raw timestamp otherwise.
func (e Edited) MarshalJSON() ([]byte, error) {
	if !e.IsEdited {
		return []byte("false"), nil
	}
	if e.Timestamp == 0 {
		return []byte("true"), nil
	}
	return json.Marshal(e.Timestamp)
}

// ListingData contains the children of a "Listing" Thing. Reply listings
// inside a comment payload use this shape.
type ListingData struct {
	Children []*Thing `json:"children"`
}

// CommentData is the decoded payload of a "t1" Thing, covering the raw
// fields the normalizer reads.
type CommentData struct {
	ThingData
	Votable
	Created
	Author           string   `json:"author"`
	AuthorFullname   *string  `json:"author_fullname"`
	Body             string   `json:"body"`
	BodyHTML         string   `json:"body_html"`
	Edited           Edited   `json:"edited"` // Can be a boolean or a float64 timestamp
	IsSubmitter      bool     `json:"is_submitter"`
	Distinguished    *string  `json:"distinguished"`
	Stickied         bool     `json:"stickied"`
	Gilded           int      `json:"gilded"`
	Collapsed        bool     `json:"collapsed"`
	CollapsedReason  *string  `json:"collapsed_reason"`
	Controversiality int      `json:"controversiality"`
	Score            int      `json:"score"`
	ParentID         string   `json:"parent_id"`
	LinkID           string   `json:"link_id"`
	Permalink        string   `json:"permalink"`
	Replies          []*Thing `json:"-"` // Extracted by the parser from the raw replies field
}

// Deleted reports whether the comment was deleted by its author: the
// author is gone and the body carries the deleted sentinel.
func (c *CommentData) Deleted() bool {
	return c.authorAbsent() && c.Body == DeletedSentinel
}

// Removed reports whether the comment was removed by moderation. The
// author may still be present, which is what distinguishes removal from
// deletion.
func (c *CommentData) Removed() bool {
	return c.Body == RemovedSentinel
}

func (c *CommentData) authorAbsent() bool {
	return c.Author == "" || c.Author == DeletedSentinel
}

// CommentForest is the provider-owned handle for one submission's comment
// tree. It is implemented by the surrounding API client, not by this
// module. The handle is mutated in place by ReplaceMore and must not be
// shared across goroutines while a fetch is in progress.
type CommentForest interface {
	// SubmissionID returns the ID of the submission the forest belongs to.
	SubmissionID() string

	// ReplaceMore expands "load more" placeholders in place, up to limit
	// placeholders (0 means no cap) whose score meets threshold. It
	// returns an error on transient provider failure; the caller owns
	// retry policy.
	ReplaceMore(ctx context.Context, limit, threshold int) error

	// Children returns the top-level nodes of the forest, placeholders
	// included.
	Children() []*Thing

	// Parent returns the parent comment node of child, or nil when the
	// parent is the submission itself (i.e. child is top-level).
	Parent(child *Thing) *Thing
}
