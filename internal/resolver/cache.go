package resolver

import "container/list"

// queryCacheEntry pairs a cache key with its stored match so eviction can
// remove the map entry from the list element alone.
type queryCacheEntry struct {
	key   string
	match CandidateMatch
}

// QueryCache is a capacity-bounded memoization cache keyed by exact query
// string with least-recently-used eviction.
//
// The cache is process-scoped state owned by the Resolver: created at
// construction, discarded at exit. It is not synchronized; the conversion
// pipeline is strictly sequential, and callers adding parallelism must add
// their own locking or partitioning.
type QueryCache struct {
	capacity int
	order    *list.List // front = most recently used
	entries  map[string]*list.Element
}

// NewQueryCache creates a cache holding at most capacity entries.
func NewQueryCache(capacity int) *QueryCache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &QueryCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached match for the exact query string, marking it as
// recently used.
func (c *QueryCache) Get(query string) (CandidateMatch, bool) {
	el, ok := c.entries[query]
	if !ok {
		return CandidateMatch{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*queryCacheEntry).match, true
}

// Add stores a match under the exact query string, evicting the least
// recently used entry if the cache is full.
func (c *QueryCache) Add(query string, match CandidateMatch) {
	if el, ok := c.entries[query]; ok {
		el.Value.(*queryCacheEntry).match = match
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*queryCacheEntry).key)
		}
	}

	c.entries[query] = c.order.PushFront(&queryCacheEntry{key: query, match: match})
}

// Len returns the number of cached entries.
func (c *QueryCache) Len() int {
	return c.order.Len()
}
