package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/JamesPrial/reddit-sentiment-analysis/pkg/errors"
	"github.com/JamesPrial/reddit-sentiment-analysis/pkg/types"
	"github.com/JamesPrial/reddit-sentiment-analysis/test_helpers"
)

func streamForest() *test_helpers.FakeForest {
	c111 := test_helpers.Comment(test_helpers.CommentSpec{ID: "c111", Author: "user3", Body: "deep", ParentID: "t1_c11"})
	c11 := test_helpers.Comment(test_helpers.CommentSpec{ID: "c11", Author: "user2", Body: "first", ParentID: "t1_c1", Replies: []*types.Thing{c111}})
	c12 := test_helpers.Comment(test_helpers.CommentSpec{ID: "c12", Author: "user1", Body: "second", ParentID: "t1_c1"})
	c1 := test_helpers.Comment(test_helpers.CommentSpec{ID: "c1", Author: "user1", Body: "top", ParentID: "t3_post1", Replies: []*types.Thing{c11, c12}})
	c2 := test_helpers.Comment(test_helpers.CommentSpec{ID: "c2", Author: "user4", Body: "other top", ParentID: "t3_post1"})
	return test_helpers.NewFakeForest("post1", c1, c2)
}

func newStream(t *testing.T, forest *test_helpers.FakeForest, opts *FetchOptions) *RecordIterator {
	t.Helper()
	f, err := New(&Config{RetryDelay: time.Millisecond})
	require.NoError(t, err)
	it, err := f.Stream(context.Background(), forest, opts)
	require.NoError(t, err)
	return it
}

func TestRecordIterator_PreOrder(t *testing.T) {
	it := newStream(t, streamForest(), nil)

	wantIDs := []string{"c1", "c11", "c111", "c12", "c2"}
	wantDepths := []int{0, 1, 2, 1, 0}

	for i, wantID := range wantIDs {
		require.True(t, it.HasNext())
		record, err := it.Next()
		require.NoError(t, err)
		assert.Equal(t, wantID, record.ID)
		assert.Equal(t, wantDepths[i], record.Depth)
		assert.Nil(t, record.Replies)
	}

	assert.False(t, it.HasNext())
	_, err := it.Next()
	assert.Equal(t, ErrNoMoreRecords, err)
}

func TestRecordIterator_ExplicitParentIDs(t *testing.T) {
	it := newStream(t, streamForest(), nil)

	records, err := it.Collect(0)
	require.NoError(t, err)
	require.Len(t, records, 5)

	byID := make(map[string]*types.CommentRecord)
	for _, r := range records {
		byID[r.ID] = r
	}
	assert.Nil(t, byID["c1"].ParentID)
	require.NotNil(t, byID["c111"].ParentID)
	assert.Equal(t, "c11", *byID["c111"].ParentID)
	require.NotNil(t, byID["c12"].ParentID)
	assert.Equal(t, "c1", *byID["c12"].ParentID)
}

func TestRecordIterator_CollectLimit(t *testing.T) {
	it := newStream(t, streamForest(), nil)

	first, err := it.Collect(2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "c1", first[0].ID)
	assert.Equal(t, "c11", first[1].ID)

	// The iterator is single-pass: collecting again resumes, it does not
	// restart.
	rest, err := it.Collect(0)
	require.NoError(t, err)
	require.Len(t, rest, 3)
	assert.Equal(t, "c111", rest[0].ID)
}

func TestRecordIterator_SkipsDeletedSubtree(t *testing.T) {
	child := test_helpers.Comment(test_helpers.CommentSpec{ID: "child1", Author: "u2", Body: "hidden", ParentID: "t1_del1"})
	deleted := test_helpers.Comment(test_helpers.CommentSpec{ID: "del1", Body: types.DeletedSentinel, ParentID: "t3_post1", Replies: []*types.Thing{child}})
	keep := test_helpers.Comment(test_helpers.CommentSpec{ID: "keep1", Author: "u1", Body: "visible", ParentID: "t3_post1"})
	forest := test_helpers.NewFakeForest("post1", deleted, keep)

	it := newStream(t, forest, nil)
	records, err := it.Collect(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "keep1", records[0].ID)

	// With IncludeDeleted the subtree comes back.
	it = newStream(t, streamForestWithDeleted(), &FetchOptions{IncludeDeleted: true})
	records, err = it.Collect(0)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func streamForestWithDeleted() *test_helpers.FakeForest {
	child := test_helpers.Comment(test_helpers.CommentSpec{ID: "child1", Author: "u2", Body: "hidden", ParentID: "t1_del1"})
	deleted := test_helpers.Comment(test_helpers.CommentSpec{ID: "del1", Body: types.DeletedSentinel, ParentID: "t3_post1", Replies: []*types.Thing{child}})
	return test_helpers.NewFakeForest("post1", deleted)
}

func TestRecordIterator_MalformedNodePoisonsStream(t *testing.T) {
	forest := test_helpers.NewFakeForest("post1",
		test_helpers.Comment(test_helpers.CommentSpec{ID: "good1", Author: "u1", Body: "ok", ParentID: "t3_post1"}),
		test_helpers.Malformed("bad1"),
		test_helpers.Comment(test_helpers.CommentSpec{ID: "good2", Author: "u2", Body: "ok too", ParentID: "t3_post1"}),
	)

	it := newStream(t, forest, nil)

	record, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, "good1", record.ID)

	_, err = it.Next()
	var normErr *perrors.NormalizeError
	require.True(t, errors.As(err, &normErr))

	// Poisoned: the same error comes back, and HasNext turns false.
	_, err2 := it.Next()
	assert.Equal(t, err, err2)
	assert.False(t, it.HasNext())
	assert.Equal(t, err, it.Error())
}

func TestRecordIterator_MalformedNodeSkipped(t *testing.T) {
	forest := test_helpers.NewFakeForest("post1",
		test_helpers.Comment(test_helpers.CommentSpec{ID: "good1", Author: "u1", Body: "ok", ParentID: "t3_post1"}),
		test_helpers.Malformed("bad1"),
		test_helpers.Comment(test_helpers.CommentSpec{ID: "good2", Author: "u2", Body: "ok too", ParentID: "t3_post1"}),
	)

	it := newStream(t, forest, &FetchOptions{SkipMalformed: true})
	records, err := it.Collect(0)
	require.NoError(t, err)

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"good1", "good2"}, ids)
}
