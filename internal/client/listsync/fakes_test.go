package listsync

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
)

// fakeSource is an in-memory server-side list. Items are stored newest first.
type fakeSource struct {
	mu sync.Mutex

	items        []models.Knowledge
	listErr      error
	deleteErrs   map[string]error
	deleteAllErr error
	deleteDelay  time.Duration

	queries []Query
	deleted []string

	// gates blocks List for a page until the channel is closed.
	gates   map[int]chan struct{}
	started chan int

	inflight    atomic.Int32
	maxInflight atomic.Int32
}

func newFakeSource(n int) *fakeSource {
	f := &fakeSource{deleteErrs: map[string]error{}, gates: map[int]chan struct{}{}}
	for i := n; i >= 1; i-- {
		f.items = append(f.items, models.Knowledge{ID: fmt.Sprintf("k%02d", i), Title: fmt.Sprintf("t%d", i)})
	}
	return f
}

func (f *fakeSource) List(ctx context.Context, q Query) (models.Page[models.Knowledge], error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	gate := f.gates[q.Page]
	f.mu.Unlock()

	if gate != nil {
		f.started <- q.Page
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return models.Page[models.Knowledge]{}, f.listErr
	}
	all := slices.Clone(f.items)
	if q.SortOrder == models.SortOldest {
		slices.Reverse(all)
	}
	start := min((q.Page-1)*q.Limit, len(all))
	end := min(start+q.Limit, len(all))
	return models.NewPage(all[start:end], len(all), q.Page, q.Limit), nil
}

func (f *fakeSource) Delete(ctx context.Context, id string) error {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		m := f.maxInflight.Load()
		if n <= m || f.maxInflight.CompareAndSwap(m, n) {
			break
		}
	}
	if f.deleteDelay > 0 {
		time.Sleep(f.deleteDelay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErrs[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	f.items = slices.DeleteFunc(f.items, func(k models.Knowledge) bool { return k.ID == id })
	return nil
}

func (f *fakeSource) DeleteAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteAllErr != nil {
		return f.deleteAllErr
	}
	f.items = nil
	return nil
}

func (f *fakeSource) pages() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.queries))
	for i, q := range f.queries {
		out[i] = q.Page
	}
	return out
}

func (f *fakeSource) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func ids(items []models.Knowledge) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
