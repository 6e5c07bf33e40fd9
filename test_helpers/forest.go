// Package test_helpers provides an in-memory comment forest and raw-node
// builders for exercising the fetcher without a live provider.
package test_helpers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JamesPrial/reddit-sentiment-analysis/internal"
	"github.com/JamesPrial/reddit-sentiment-analysis/pkg/types"
)

// CommentSpec describes one fake comment node for the builders below.
// Zero values produce a plausible, minimal comment.
type CommentSpec struct {
	ID               string
	Author           string
	AuthorFullname   string
	Body             string
	BodyHTML         string
	Score            int
	Ups              int
	Downs            int
	CreatedUTC       float64
	Edited           interface{} // false, true, or a float64 timestamp
	IsSubmitter      bool
	Distinguished    string
	Stickied         bool
	Gilded           int
	Collapsed        bool
	CollapsedReason  string
	Controversiality int
	ParentID         string // raw parent reference, e.g. "t3_post1" or "t1_abc"
	Permalink        string
	Replies          []*types.Thing
}

// Comment builds a raw "t1" Thing from a spec, embedding any replies as a
// Listing the way Reddit does.
func Comment(spec CommentSpec) *types.Thing {
	edited := spec.Edited
	if edited == nil {
		edited = false
	}

	data := map[string]interface{}{
		"id":               spec.ID,
		"name":             types.PrefixComment + spec.ID,
		"author":           spec.Author,
		"body":             spec.Body,
		"body_html":        spec.BodyHTML,
		"score":            spec.Score,
		"ups":              spec.Ups,
		"downs":            spec.Downs,
		"created_utc":      spec.CreatedUTC,
		"edited":           edited,
		"is_submitter":     spec.IsSubmitter,
		"stickied":         spec.Stickied,
		"gilded":           spec.Gilded,
		"collapsed":        spec.Collapsed,
		"controversiality": spec.Controversiality,
		"parent_id":        spec.ParentID,
		"permalink":        spec.Permalink,
	}
	if spec.AuthorFullname != "" {
		data["author_fullname"] = spec.AuthorFullname
	}
	if spec.Distinguished != "" {
		data["distinguished"] = spec.Distinguished
	}
	if spec.CollapsedReason != "" {
		data["collapsed_reason"] = spec.CollapsedReason
	}

	if len(spec.Replies) > 0 {
		listingData, _ := json.Marshal(types.ListingData{Children: spec.Replies})
		data["replies"] = &types.Thing{Kind: "Listing", Data: listingData}
	} else {
		data["replies"] = "" // Reddit sends "" when there are no replies
	}

	raw, _ := json.Marshal(data)
	return &types.Thing{
		ThingData: types.ThingData{ID: spec.ID, Name: types.PrefixComment + spec.ID},
		Kind:      types.KindComment,
		Data:      raw,
	}
}

// More builds a raw "more" placeholder Thing.
func More(ids ...string) *types.Thing {
	raw, _ := json.Marshal(map[string]interface{}{"children": ids, "count": len(ids)})
	return &types.Thing{Kind: types.KindMore, Data: raw}
}

// Malformed builds a "t1" Thing whose payload cannot be decoded.
func Malformed(id string) *types.Thing {
	return &types.Thing{
		ThingData: types.ThingData{ID: id},
		Kind:      types.KindComment,
		Data:      json.RawMessage(`{"id": 42`),
	}
}

// FakeForest is an in-memory types.CommentForest with a scriptable
// ReplaceMore.
type FakeForest struct {
	submissionID string
	children     []*types.Thing
	parents      map[string]*types.Thing
	parser       *internal.Parser

	// ReplaceMoreErrs is consumed one entry per ReplaceMore call; a nil
	// entry (or an exhausted slice) means success.
	ReplaceMoreErrs []error

	// Expanded is spliced in as top-level children, replacing the
	// placeholders, on the first successful ReplaceMore call.
	Expanded []*types.Thing

	// Observed call data.
	ReplaceMoreCalls int
	LastLimit        int
	LastThreshold    int

	expanded bool
}

// NewFakeForest builds a forest for one submission from top-level nodes.
func NewFakeForest(submissionID string, children ...*types.Thing) *FakeForest {
	f := &FakeForest{
		submissionID: submissionID,
		children:     children,
		parents:      make(map[string]*types.Thing),
		parser:       internal.NewParser(),
	}
	f.indexParents(children, nil)
	return f
}

// SubmissionID implements types.CommentForest.
func (f *FakeForest) SubmissionID() string {
	return f.submissionID
}

// Children implements types.CommentForest.
func (f *FakeForest) Children() []*types.Thing {
	return f.children
}

// Parent implements types.CommentForest.
func (f *FakeForest) Parent(child *types.Thing) *types.Thing {
	if child == nil {
		return nil
	}
	return f.parents[child.ID]
}

// SetParent overrides the parent index, e.g. to fabricate a cycle.
func (f *FakeForest) SetParent(childID string, parent *types.Thing) {
	f.parents[childID] = parent
}

// ReplaceMore implements types.CommentForest. Failures are scripted via
// ReplaceMoreErrs; on the first success the top-level placeholders are
// replaced with the Expanded nodes.
func (f *FakeForest) ReplaceMore(ctx context.Context, limit, threshold int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.ReplaceMoreCalls++
	f.LastLimit = limit
	f.LastThreshold = threshold

	if len(f.ReplaceMoreErrs) > 0 {
		err := f.ReplaceMoreErrs[0]
		f.ReplaceMoreErrs = f.ReplaceMoreErrs[1:]
		if err != nil {
			return fmt.Errorf("replace more failed: %w", err)
		}
	}

	if !f.expanded {
		f.expanded = true
		kept := make([]*types.Thing, 0, len(f.children)+len(f.Expanded))
		for _, child := range f.children {
			if !child.IsPlaceholder() {
				kept = append(kept, child)
			}
		}
		f.children = append(kept, f.Expanded...)
		f.indexParents(f.Expanded, nil)
	}
	return nil
}

// indexParents records each node's parent so ancestor-depth walks work.
// Nodes that cannot be parsed simply stay unindexed.
func (f *FakeForest) indexParents(things []*types.Thing, parent *types.Thing) {
	for _, thing := range things {
		if thing == nil || thing.IsPlaceholder() {
			continue
		}
		if parent != nil {
			f.parents[thing.ID] = parent
		}
		data, err := f.parser.ParseComment(thing)
		if err != nil {
			continue
		}
		f.indexParents(data.Replies, thing)
	}
}
