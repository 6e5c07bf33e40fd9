package internal

import "github.com/JamesPrial/reddit-sentiment-analysis/pkg/types"

// RecordTree provides utility methods for working with tree-mode records.
type RecordTree struct {
	Records []*types.CommentRecord
}

// NewRecordTree creates a new RecordTree from a slice of records.
func NewRecordTree(records []*types.CommentRecord) *RecordTree {
	return &RecordTree{Records: records}
}

// Flatten returns all records in the tree as a flat pre-order slice.
func (rt *RecordTree) Flatten() []*types.CommentRecord {
	var result []*types.CommentRecord
	rt.flattenRecursive(rt.Records, &result)
	return result
}

func (rt *RecordTree) flattenRecursive(records []*types.CommentRecord, result *[]*types.CommentRecord) {
	for _, record := range records {
		if record == nil {
			continue
		}
		*result = append(*result, record)
		if len(record.Replies) > 0 {
			rt.flattenRecursive(record.Replies, result)
		}
	}
}

// Filter returns records that match the given filter function.
func (rt *RecordTree) Filter(filterFunc func(*types.CommentRecord) bool) []*types.CommentRecord {
	var result []*types.CommentRecord
	rt.filterRecursive(rt.Records, &result, filterFunc)
	return result
}

func (rt *RecordTree) filterRecursive(records []*types.CommentRecord, result *[]*types.CommentRecord, filterFunc func(*types.CommentRecord) bool) {
	for _, record := range records {
		if record == nil {
			continue
		}
		if filterFunc(record) {
			*result = append(*result, record)
		}
		if len(record.Replies) > 0 {
			rt.filterRecursive(record.Replies, result, filterFunc)
		}
	}
}

// Find returns the first record that matches the given condition.
func (rt *RecordTree) Find(condition func(*types.CommentRecord) bool) *types.CommentRecord {
	return rt.findRecursive(rt.Records, condition)
}

func (rt *RecordTree) findRecursive(records []*types.CommentRecord, condition func(*types.CommentRecord) bool) *types.CommentRecord {
	for _, record := range records {
		if record == nil {
			continue
		}
		if condition(record) {
			return record
		}
		if len(record.Replies) > 0 {
			if found := rt.findRecursive(record.Replies, condition); found != nil {
				return found
			}
		}
	}
	return nil
}

// GetByID returns a record by its ID.
func (rt *RecordTree) GetByID(id string) *types.CommentRecord {
	return rt.Find(func(r *types.CommentRecord) bool {
		return r.ID == id
	})
}

// GetByAuthor returns all records by a specific author.
func (rt *RecordTree) GetByAuthor(author string) []*types.CommentRecord {
	return rt.Filter(func(r *types.CommentRecord) bool {
		return r.Author == author
	})
}

// GetTopLevel returns only the top-level records.
func (rt *RecordTree) GetTopLevel() []*types.CommentRecord {
	return rt.Records
}

// MaxDepth returns the maximum depth of the record tree.
func (rt *RecordTree) MaxDepth() int {
	return rt.maxDepthRecursive(rt.Records, 0)
}

func (rt *RecordTree) maxDepthRecursive(records []*types.CommentRecord, currentDepth int) int {
	maxDepth := currentDepth
	for _, record := range records {
		if record == nil {
			continue
		}
		if len(record.Replies) > 0 {
			depth := rt.maxDepthRecursive(record.Replies, currentDepth+1)
			if depth > maxDepth {
				maxDepth = depth
			}
		}
	}
	return maxDepth
}

// Count returns the total number of records in the tree.
func (rt *RecordTree) Count() int {
	return len(rt.Flatten())
}

// Walk applies a function to each record in the tree, pre-order.
func (rt *RecordTree) Walk(fn func(*types.CommentRecord)) {
	rt.walkRecursive(rt.Records, fn)
}

func (rt *RecordTree) walkRecursive(records []*types.CommentRecord, fn func(*types.CommentRecord)) {
	for _, record := range records {
		if record == nil {
			continue
		}
		fn(record)
		if len(record.Replies) > 0 {
			rt.walkRecursive(record.Replies, fn)
		}
	}
}
