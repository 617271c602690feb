// Package listsync keeps a paginated, sortable, multi-select view of a
// server-owned collection consistent with the server.
//
// The controller never patches its items locally: every successful write
// is followed by a refetch of the current page. Each fetch is tagged with a
// sequence number and only the most recently issued one may update state,
// so a slow response for a page the user already left cannot overwrite the
// page they are on.
package listsync

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
	"github.com/dmitrijs2005/knowledgekeeper/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Item is anything with a stable server id.
type Item interface {
	GetID() string
}

type Query struct {
	Page      int
	Limit     int
	SortOrder models.SortOrder
}

// Source is the server side of a list.
type Source[T Item] interface {
	List(ctx context.Context, q Query) (models.Page[T], error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// State is a copy of what the controller currently shows.
type State[T Item] struct {
	Items      []T
	Total      int
	Page       int
	Limit      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
	SortOrder  models.SortOrder
	Selected   []string
	Loading    bool
	Err        error
}

type Config struct {
	PageSize        int
	SortOrder       models.SortOrder
	BulkConcurrency int
}

type Controller[T Item] struct {
	src         Source[T]
	log         logging.Logger
	concurrency int

	mu       sync.Mutex
	query    Query
	current  models.Page[T]
	selected map[string]struct{}
	loading  bool
	err      error
	seq      uint64
}

func New[T Item](src Source[T], cfg Config, log logging.Logger) *Controller[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 15
	}
	if !cfg.SortOrder.Valid() {
		cfg.SortOrder = models.SortNewest
	}
	if cfg.BulkConcurrency <= 0 {
		cfg.BulkConcurrency = 1
	}
	return &Controller[T]{
		src:         src,
		log:         log,
		concurrency: cfg.BulkConcurrency,
		query:       Query{Page: 1, Limit: cfg.PageSize, SortOrder: cfg.SortOrder},
		selected:    make(map[string]struct{}),
	}
}

func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]T, len(c.current.Items))
	copy(items, c.current.Items)
	return State[T]{
		Items:      items,
		Total:      c.current.Total,
		Page:       c.query.Page,
		Limit:      c.query.Limit,
		TotalPages: c.current.TotalPages,
		HasNext:    c.query.Page < c.current.TotalPages,
		HasPrev:    c.query.Page > 1,
		SortOrder:  c.query.SortOrder,
		Selected:   c.selectedLocked(),
		Loading:    c.loading,
		Err:        c.err,
	}
}

// Refresh refetches the current page.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	return c.fetch(ctx)
}

func (c *Controller[T]) fetch(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	q := c.query
	c.loading = true
	c.mu.Unlock()

	page, err := c.src.List(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.log.Debug(ctx, "dropping stale page", "page", q.Page, "sort", q.SortOrder)
		return ErrSuperseded
	}
	c.loading = false

	if err != nil {
		c.current.Items = nil
		c.err = err
		return err
	}
	page.Normalize()
	c.current = page
	c.err = nil
	c.pruneSelectionLocked()
	return nil
}

// refetchAfterWrite reloads the current page and, if a write emptied a page
// past the first, steps back to max(1, min(page-1, total_pages)).
func (c *Controller[T]) refetchAfterWrite(ctx context.Context) error {
	if err := c.fetch(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	if len(c.current.Items) > 0 || c.query.Page <= 1 {
		c.mu.Unlock()
		return nil
	}
	target := max(1, min(c.query.Page-1, c.current.TotalPages))
	c.log.Debug(ctx, "page emptied by write, stepping back", "from", c.query.Page, "to", target)
	c.query.Page = target
	c.clearSelectionLocked()
	c.mu.Unlock()

	return c.fetch(ctx)
}

// SetSortOrder switches ordering, returns to page 1 and clears the selection.
func (c *Controller[T]) SetSortOrder(ctx context.Context, order models.SortOrder) error {
	if !order.Valid() {
		return fmt.Errorf("%w: unknown sort order %q", common.ErrValidation, order)
	}
	c.mu.Lock()
	c.query.SortOrder = order
	c.query.Page = 1
	c.clearSelectionLocked()
	c.mu.Unlock()
	return c.fetch(ctx)
}

// SetPage moves to page n. Out-of-range pages are ignored.
func (c *Controller[T]) SetPage(ctx context.Context, n int) error {
	c.mu.Lock()
	if n < 1 || n > c.current.TotalPages {
		c.mu.Unlock()
		return nil
	}
	c.query.Page = n
	c.clearSelectionLocked()
	c.mu.Unlock()
	return c.fetch(ctx)
}

func (c *Controller[T]) Next(ctx context.Context) error {
	return c.SetPage(ctx, c.Snapshot().Page+1)
}

func (c *Controller[T]) Prev(ctx context.Context) error {
	return c.SetPage(ctx, c.Snapshot().Page-1)
}

// Mutate runs a create or update through fn and refetches on success.
func (c *Controller[T]) Mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return c.refetchAfterWrite(ctx)
}

// Delete removes one item and refetches whether or not the delete worked,
// so the view reflects whatever the server now holds.
func (c *Controller[T]) Delete(ctx context.Context, id string) error {
	err := c.src.Delete(ctx, id)
	if err == nil {
		c.mu.Lock()
		delete(c.selected, id)
		c.mu.Unlock()
	}

	if rerr := c.refetchAfterWrite(ctx); rerr != nil && err == nil {
		return rerr
	}
	return err
}

// BulkDelete deletes ids independently and concurrently. It is best-effort:
// nothing is rolled back when some deletions fail. The controller waits for
// every request to settle, refetches once, and reports failures as a
// *BulkDeleteError in request order.
func (c *Controller[T]) BulkDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	errs := make([]error, len(ids))
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			errs[i] = c.src.Delete(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	var failures []Failure
	c.mu.Lock()
	for i, id := range ids {
		if errs[i] != nil {
			failures = append(failures, Failure{ID: id, Err: errs[i]})
			continue
		}
		delete(c.selected, id)
	}
	if len(failures) == 0 {
		c.clearSelectionLocked()
	}
	c.mu.Unlock()

	if len(failures) > 0 {
		c.log.Warn(ctx, "bulk delete partially failed", "failed", len(failures), "attempted", len(ids))
	}

	rerr := c.refetchAfterWrite(ctx)
	if len(failures) > 0 {
		return &BulkDeleteError{Failures: failures, Attempted: len(ids)}
	}
	return rerr
}

// DeleteSelected bulk-deletes the current selection.
func (c *Controller[T]) DeleteSelected(ctx context.Context) error {
	return c.BulkDelete(ctx, c.Selected())
}

// DeleteAll wipes the collection, then returns to page 1 with an empty
// selection.
func (c *Controller[T]) DeleteAll(ctx context.Context) error {
	if err := c.src.DeleteAll(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	c.query.Page = 1
	c.clearSelectionLocked()
	c.mu.Unlock()
	return c.fetch(ctx)
}
