package board

import (
	"log/slog"
	"sync"
)

// LoadResult is one completed cell fetch, delivered through Drain.
type LoadResult struct {
	Index  int
	Record *Record
	Err    error
}

// Cache lazily mirrors cell records from a Store.
//
// Fetches run on their own goroutines but never touch the cache directly:
// they post a LoadResult which Drain applies. Call EnsureLoaded, Drain, Put
// and Get from one goroutine (the input loop); the mutex exists so other
// goroutines can read Snapshot and Stats.
type Cache struct {
	mu      sync.Mutex
	store   Store
	cells   map[int]*Record // loaded records; absent cells are in known only
	known   map[int]bool    // load completed, including "no record" answers
	pending map[int]bool    // fetch in flight
	done    chan LoadResult
	quit    chan struct{}
	closed  bool
}

// NewCache creates an empty cache over the given store.
func NewCache(store Store) *Cache {
	return &Cache{
		store:   store,
		cells:   make(map[int]*Record),
		known:   make(map[int]bool),
		pending: make(map[int]bool),
		done:    make(chan LoadResult, 256),
		quit:    make(chan struct{}),
	}
}

// EnsureLoaded asks for the cell to be available in the cache. It is a
// no-op when the cell is already loaded, a completed load answered "no
// record", or a fetch is still in flight. Reports whether a fetch was
// dispatched.
func (c *Cache) EnsureLoaded(index int) bool {
	c.mu.Lock()
	if c.closed || c.known[index] || c.pending[index] {
		c.mu.Unlock()
		return false
	}
	c.pending[index] = true
	c.mu.Unlock()

	go func() {
		rec, err := c.store.GetCell(index)
		if err != nil {
			err = &StorageReadError{Index: index, Err: err}
		}
		select {
		case c.done <- LoadResult{Index: index, Record: rec, Err: err}:
		case <-c.quit:
		}
	}()
	return true
}

// Drain applies every fetch completion queued since the last call and
// returns them. Failed fetches clear the pending mark but stay unknown, so
// the next EnsureLoaded retries. Completions for cells that were Put or
// invalidated in the meantime are dropped as stale.
func (c *Cache) Drain() []LoadResult {
	var results []LoadResult
	for {
		select {
		case res := <-c.done:
			c.mu.Lock()
			if !c.pending[res.Index] {
				c.mu.Unlock()
				continue
			}
			delete(c.pending, res.Index)
			if res.Err == nil {
				c.known[res.Index] = true
				if res.Record != nil {
					c.cells[res.Index] = res.Record
				}
			}
			c.mu.Unlock()

			if res.Err != nil {
				slog.Warn("cell load failed", "index", res.Index, "error", res.Err)
			}
			results = append(results, res)
		default:
			return results
		}
	}
}

// Get returns the cached record and whether the cell is loaded. A loaded
// cell with no record returns (nil, true).
func (c *Cache) Get(index int) (*Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cells[index], c.known[index]
}

// Put stores a record directly, marking the cell loaded. Used after a
// successful save; any fetch still in flight for the cell becomes stale.
func (c *Cache) Put(index int, rec Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cells[index] = &rec
	c.known[index] = true
	delete(c.pending, index)
}

// Invalidate forgets everything about a cell, so the next EnsureLoaded
// refetches it. For tools that write to the store behind the cache's back.
func (c *Cache) Invalidate(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cells, index)
	delete(c.known, index)
	delete(c.pending, index)
}

// Stats returns how many cells are loaded and how many fetches are in
// flight.
func (c *Cache) Stats() (loaded, pending int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.known), len(c.pending)
}

// Snapshot copies all cached records, keyed by cell index. Cells that
// loaded empty are not included.
func (c *Cache) Snapshot() map[int]Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int]Record, len(c.cells))
	for idx, rec := range c.cells {
		out[idx] = *rec
	}
	return out
}

// Close stops new fetches from dispatching and releases any fetch
// goroutine still waiting to deliver its result.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.quit)
}
