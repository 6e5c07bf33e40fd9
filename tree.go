package fetcher

import (
	"github.com/JamesPrial/reddit-sentiment-analysis/internal"
	"github.com/JamesPrial/reddit-sentiment-analysis/pkg/types"
)

// RecordTree provides utility methods for working with tree-mode records.
type RecordTree interface {
	Flatten() []*types.CommentRecord
	Filter(func(*types.CommentRecord) bool) []*types.CommentRecord
	Find(func(*types.CommentRecord) bool) *types.CommentRecord
	GetByID(string) *types.CommentRecord
	GetByAuthor(string) []*types.CommentRecord
	GetTopLevel() []*types.CommentRecord
	MaxDepth() int
	Count() int
	Walk(func(*types.CommentRecord))
}

// NewRecordTree creates a new RecordTree from a slice of records, such as
// the output of FetchTree.
func NewRecordTree(records []*types.CommentRecord) RecordTree {
	return internal.NewRecordTree(records)
}
