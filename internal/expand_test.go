package internal_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamesPrial/reddit-sentiment-analysis/internal"
	perrors "github.com/JamesPrial/reddit-sentiment-analysis/pkg/errors"
	"github.com/JamesPrial/reddit-sentiment-analysis/test_helpers"
)

var errProvider = fmt.Errorf("transient provider failure")

func newTestExpander(maxRetries int) *internal.Expander {
	return internal.NewExpander(maxRetries, time.Millisecond, 0, 32, nil, nil)
}

func TestExpandAll_SucceedsFirstTry(t *testing.T) {
	forest := test_helpers.NewFakeForest("post1")

	err := newTestExpander(3).ExpandAll(context.Background(), forest)
	require.NoError(t, err)
	assert.Equal(t, 1, forest.ReplaceMoreCalls)
	assert.Equal(t, 0, forest.LastLimit)
	assert.Equal(t, 32, forest.LastThreshold)
}

func TestExpandAll_RetriesThenSucceeds(t *testing.T) {
	forest := test_helpers.NewFakeForest("post1")
	forest.ReplaceMoreErrs = []error{errProvider, nil}

	err := newTestExpander(2).ExpandAll(context.Background(), forest)
	require.NoError(t, err)
	assert.Equal(t, 2, forest.ReplaceMoreCalls)
}

func TestExpandAll_FailsAfterBudget(t *testing.T) {
	forest := test_helpers.NewFakeForest("post1")
	forest.ReplaceMoreErrs = []error{errProvider, errProvider}

	err := newTestExpander(2).ExpandAll(context.Background(), forest)

	var expandErr *perrors.ExpandError
	require.True(t, errors.As(err, &expandErr))
	assert.Equal(t, 2, expandErr.Attempts)
	assert.Equal(t, "post1", expandErr.SubmissionID)
	assert.True(t, errors.Is(err, errProvider))

	// The provider was invoked exactly twice, never more.
	assert.Equal(t, 2, forest.ReplaceMoreCalls)
}

func TestExpandAll_SingleAttemptBudget(t *testing.T) {
	forest := test_helpers.NewFakeForest("post1")
	forest.ReplaceMoreErrs = []error{errProvider}

	err := newTestExpander(1).ExpandAll(context.Background(), forest)

	var expandErr *perrors.ExpandError
	require.True(t, errors.As(err, &expandErr))
	assert.Equal(t, 1, expandErr.Attempts)
	assert.Equal(t, 1, forest.ReplaceMoreCalls)
}

func TestExpandAll_ContextCancellation(t *testing.T) {
	forest := test_helpers.NewFakeForest("post1")
	forest.ReplaceMoreErrs = []error{errProvider, errProvider, errProvider}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestExpander(3).ExpandAll(ctx, forest)
	require.Error(t, err)
	assert.Equal(t, 0, forest.ReplaceMoreCalls)
}
