package diag

import "sync"

// Collector is an append-only sink shared by concurrent mission runs.
// Each Append call lands as one contiguous block, so records of different
// runs never interleave.
type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Append adds all items atomically.
func (c *Collector) Append(items ...Diagnostic) {
	if len(items) == 0 {
		return
	}
	c.mu.Lock()
	c.items = append(c.items, items...)
	c.mu.Unlock()
}

// Len returns the number of collected items.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Bag copies the collected items into a new unbounded Bag.
func (c *Collector) Bag() *Bag {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := NewBag(0)
	b.items = append(make([]Diagnostic, 0, len(c.items)), c.items...)
	return b
}
