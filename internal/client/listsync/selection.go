package listsync

import "fmt"

// Selection is scoped to the loaded page: it is cleared whenever the page
// or the sort order changes and after a fully successful bulk action.

func (c *Controller[T]) Select(ids ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		if !c.onPageLocked(id) {
			return fmt.Errorf("%w: %s", ErrNotOnPage, id)
		}
	}
	for _, id := range ids {
		c.selected[id] = struct{}{}
	}
	return nil
}

func (c *Controller[T]) Deselect(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.selected, id)
	}
}

// Toggle flips id and reports whether it is now selected.
func (c *Controller[T]) Toggle(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.selected[id]; ok {
		delete(c.selected, id)
		return false, nil
	}
	if !c.onPageLocked(id) {
		return false, fmt.Errorf("%w: %s", ErrNotOnPage, id)
	}
	c.selected[id] = struct{}{}
	return true, nil
}

// SelectAll selects every item on the loaded page.
func (c *Controller[T]) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.current.Items {
		c.selected[it.GetID()] = struct{}{}
	}
}

func (c *Controller[T]) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearSelectionLocked()
}

func (c *Controller[T]) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selected[id]
	return ok
}

// Selected lists selected ids in page order.
func (c *Controller[T]) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedLocked()
}

func (c *Controller[T]) selectedLocked() []string {
	out := make([]string, 0, len(c.selected))
	for _, it := range c.current.Items {
		if _, ok := c.selected[it.GetID()]; ok {
			out = append(out, it.GetID())
		}
	}
	return out
}

func (c *Controller[T]) onPageLocked(id string) bool {
	for _, it := range c.current.Items {
		if it.GetID() == id {
			return true
		}
	}
	return false
}

func (c *Controller[T]) clearSelectionLocked() {
	clear(c.selected)
}

// pruneSelectionLocked drops ids that vanished from the refetched page.
func (c *Controller[T]) pruneSelectionLocked() {
	for id := range c.selected {
		if !c.onPageLocked(id) {
			delete(c.selected, id)
		}
	}
}
