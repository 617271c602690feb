package listsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
	"github.com/dmitrijs2005/knowledgekeeper/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newController(t *testing.T, src *fakeSource, pageSize int) *Controller[models.Knowledge] {
	t.Helper()
	c := New[models.Knowledge](src, Config{PageSize: pageSize, BulkConcurrency: 4}, logging.Discard())
	require.NoError(t, c.Refresh(context.Background()))
	return c
}

func TestRefresh_LoadsFirstPage(t *testing.T) {
	src := newFakeSource(20)
	c := newController(t, src, 15)

	st := c.Snapshot()
	assert.Len(t, st.Items, 15)
	assert.Equal(t, "k20", st.Items[0].ID)
	assert.Equal(t, 20, st.Total)
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, 2, st.TotalPages)
	assert.True(t, st.HasNext)
	assert.False(t, st.HasPrev)
	assert.False(t, st.Loading)
	assert.NoError(t, st.Err)
	assert.Equal(t, models.SortNewest, st.SortOrder)
}

func TestNew_Defaults(t *testing.T) {
	c := New[models.Knowledge](newFakeSource(0), Config{}, logging.Discard())
	st := c.Snapshot()
	assert.Equal(t, 15, st.Limit)
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, models.SortNewest, st.SortOrder)
	assert.Equal(t, 1, c.concurrency)
}

func TestSetPage_OutOfRangeIsNoop(t *testing.T) {
	src := newFakeSource(20)
	c := newController(t, src, 15)

	for _, n := range []int{0, -1, 3} {
		require.NoError(t, c.SetPage(context.Background(), n))
	}
	assert.Equal(t, 1, src.listCount())
	assert.Equal(t, 1, c.Snapshot().Page)

	require.NoError(t, c.Next(context.Background()))
	st := c.Snapshot()
	assert.Equal(t, 2, st.Page)
	assert.Equal(t, []string{"k05", "k04", "k03", "k02", "k01"}, ids(st.Items))
	assert.True(t, st.HasPrev)
	assert.False(t, st.HasNext)

	require.NoError(t, c.Prev(context.Background()))
	assert.Equal(t, 1, c.Snapshot().Page)
}

func TestSetSortOrder(t *testing.T) {
	src := newFakeSource(20)
	c := newController(t, src, 15)
	require.NoError(t, c.SetPage(context.Background(), 2))
	require.NoError(t, c.Select("k01"))

	err := c.SetSortOrder(context.Background(), "sideways")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, 2, c.Snapshot().Page)

	require.NoError(t, c.SetSortOrder(context.Background(), models.SortOldest))
	st := c.Snapshot()
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, "k01", st.Items[0].ID)
	assert.Empty(t, st.Selected)
	assert.Equal(t, models.SortOldest, st.SortOrder)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeSource(30)
	c := newController(t, src, 15)

	// The page-1 refresh is slow; the user moves to page 2 meanwhile.
	gate := make(chan struct{})
	src.mu.Lock()
	src.gates[1] = gate
	src.started = make(chan int, 1)
	src.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()
	<-src.started

	require.NoError(t, c.SetPage(context.Background(), 2))
	close(gate)
	require.ErrorIs(t, <-done, ErrSuperseded)

	st := c.Snapshot()
	assert.Equal(t, 2, st.Page)
	assert.Equal(t, "k15", st.Items[0].ID)
	assert.False(t, st.Loading)
}

func TestFetchFailure_EmptiesItems(t *testing.T) {
	src := newFakeSource(5)
	c := newController(t, src, 15)

	boom := errors.New("boom")
	src.mu.Lock()
	src.listErr = boom
	src.mu.Unlock()

	require.ErrorIs(t, c.Refresh(context.Background()), boom)
	st := c.Snapshot()
	assert.Empty(t, st.Items)
	assert.ErrorIs(t, st.Err, boom)
	assert.False(t, st.Loading)

	src.mu.Lock()
	src.listErr = nil
	src.mu.Unlock()

	require.NoError(t, c.Refresh(context.Background()))
	st = c.Snapshot()
	assert.Len(t, st.Items, 5)
	assert.NoError(t, st.Err)
}

func TestDelete_LastItemOnLastPageStepsBack(t *testing.T) {
	src := newFakeSource(31)
	c := newController(t, src, 15)
	require.NoError(t, c.SetPage(context.Background(), 3))

	st := c.Snapshot()
	require.Equal(t, []string{"k01"}, ids(st.Items))

	require.NoError(t, c.Delete(context.Background(), "k01"))

	st = c.Snapshot()
	assert.Equal(t, 2, st.Page)
	assert.Len(t, st.Items, 15)
	assert.Equal(t, 30, st.Total)
	assert.Equal(t, 2, st.TotalPages)
	if diff := cmp.Diff([]int{1, 3, 3, 2}, src.pages()); diff != "" {
		t.Errorf("fetched pages mismatch (-want +got):\n%s", diff)
	}
}

func TestDelete_FailureStillRefetches(t *testing.T) {
	src := newFakeSource(3)
	c := newController(t, src, 15)
	require.NoError(t, c.Select("k02"))

	boom := errors.New("boom")
	src.deleteErrs["k02"] = boom

	require.ErrorIs(t, c.Delete(context.Background(), "k02"), boom)
	assert.Equal(t, 2, src.listCount())
	assert.Equal(t, []string{"k02"}, c.Selected())
}

func TestDelete_RemovesFromSelection(t *testing.T) {
	src := newFakeSource(3)
	c := newController(t, src, 15)
	require.NoError(t, c.Select("k02", "k03"))

	require.NoError(t, c.Delete(context.Background(), "k02"))
	assert.Equal(t, []string{"k03"}, c.Selected())
	assert.Equal(t, []string{"k03", "k01"}, ids(c.Snapshot().Items))
}

func TestBulkDelete_PartialFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeSource(3)
	c := New[models.Knowledge](src, Config{PageSize: 15, BulkConcurrency: 3}, logging.Discard())
	require.NoError(t, c.Refresh(context.Background()))

	// a=k03, b=k02, c=k01; b fails.
	boom := errors.New("boom")
	src.deleteErrs["k02"] = boom
	require.NoError(t, c.Select("k03", "k02", "k01"))

	err := c.DeleteSelected(context.Background())
	require.Error(t, err)

	var bulk *BulkDeleteError
	require.ErrorAs(t, err, &bulk)
	assert.Equal(t, 3, bulk.Attempted)
	require.Len(t, bulk.Failures, 1)
	assert.Equal(t, "k02", bulk.First().ID)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to delete 1 of 3")

	st := c.Snapshot()
	assert.Equal(t, []string{"k02"}, ids(st.Items))
	assert.Equal(t, []string{"k02"}, st.Selected)
	assert.ElementsMatch(t, []string{"k03", "k01"}, src.deleted)
	// one initial load and one refetch after the batch settled
	assert.Equal(t, 2, src.listCount())
}

func TestBulkDelete_AllSucceedClearsSelection(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeSource(4)
	c := newController(t, src, 15)
	c.SelectAll()
	require.Len(t, c.Selected(), 4)

	require.NoError(t, c.DeleteSelected(context.Background()))
	st := c.Snapshot()
	assert.Empty(t, st.Items)
	assert.Empty(t, st.Selected)
	assert.Equal(t, 0, st.Total)
}

func TestBulkDelete_RespectsConcurrencyLimit(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeSource(8)
	src.deleteDelay = 5 * time.Millisecond
	c := New[models.Knowledge](src, Config{PageSize: 15, BulkConcurrency: 2}, logging.Discard())
	require.NoError(t, c.Refresh(context.Background()))

	require.NoError(t, c.BulkDelete(context.Background(), ids(c.Snapshot().Items)))
	assert.LessOrEqual(t, src.maxInflight.Load(), int32(2))
	assert.Len(t, src.deleted, 8)
}

func TestBulkDelete_EmptyIsNoop(t *testing.T) {
	src := newFakeSource(2)
	c := newController(t, src, 15)
	require.NoError(t, c.BulkDelete(context.Background(), nil))
	assert.Equal(t, 1, src.listCount())
}

func TestDeleteAll(t *testing.T) {
	src := newFakeSource(40)
	c := newController(t, src, 15)
	require.NoError(t, c.SetPage(context.Background(), 2))
	require.NoError(t, c.Select("k25"))

	require.NoError(t, c.DeleteAll(context.Background()))
	st := c.Snapshot()
	assert.Equal(t, 1, st.Page)
	assert.Empty(t, st.Items)
	assert.Empty(t, st.Selected)
}

func TestDeleteAll_FailureKeepsState(t *testing.T) {
	src := newFakeSource(5)
	c := newController(t, src, 15)
	require.NoError(t, c.Select("k01"))

	boom := errors.New("boom")
	src.deleteAllErr = boom
	require.ErrorIs(t, c.DeleteAll(context.Background()), boom)
	assert.Equal(t, []string{"k01"}, c.Selected())
	assert.Equal(t, 1, src.listCount())
}

func TestMutate(t *testing.T) {
	src := newFakeSource(2)
	c := newController(t, src, 15)

	boom := errors.New("boom")
	require.ErrorIs(t, c.Mutate(context.Background(), func(context.Context) error { return boom }), boom)
	assert.Equal(t, 1, src.listCount())

	err := c.Mutate(context.Background(), func(context.Context) error {
		src.mu.Lock()
		defer src.mu.Unlock()
		src.items = append([]models.Knowledge{{ID: "k03"}}, src.items...)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"k03", "k02", "k01"}, ids(c.Snapshot().Items))
}
