// Package cache provides the bounded LRU response cache that sits in front of
// the model and Wikipedia clients. A cache instance is bounded either by a
// maximum entry count or by a maximum aggregate weight (typically the total
// character length of the cached payloads); the two modes are selected by
// constructor and cannot be mixed.
//
// Lookup, insertion and eviction are all O(1): entries live in a map whose
// values point into a doubly linked recency list, so refreshing an entry or
// dropping the stalest one never scans the cache. Request handlers run on
// separate goroutines, so every public operation serializes on one mutex.
package cache

import (
	"container/list"
	"sync"

	"github.com/embedchat-ai/embedchat/pkg/models"
)

// Weigher computes the capacity cost of a value. It is consulted once, at
// insertion time; mutating a stored value afterwards does not re-weigh it.
// Returning a non-positive weight for a non-empty value is a caller bug and
// breaks the weight accounting.
type Weigher[V any] func(value V) int

type mode int

const (
	countBounded mode = iota
	weightBounded
)

type entry[V any] struct {
	key    string
	value  V
	weight int
}

// Cache is a bounded associative cache with least-recently-used eviction.
// The zero value is not usable; construct with NewCount or NewWeighted.
type Cache[V any] struct {
	mu sync.Mutex

	mode      mode
	maxItems  int
	maxWeight int
	weigh     Weigher[V]

	curWeight int
	order     *list.List // front = most recently touched
	items     map[string]*list.Element

	hits   int64
	misses int64
}

// NewCount creates a cache bounded by entry count. maxItems must be positive.
func NewCount[V any](maxItems int) *Cache[V] {
	return &Cache[V]{
		mode:     countBounded,
		maxItems: maxItems,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
}

// NewWeighted creates a cache bounded by the aggregate weight of its entries,
// as measured by weigh. maxWeight must be positive.
func NewWeighted[V any](maxWeight int, weigh Weigher[V]) *Cache[V] {
	return &Cache[V]{
		mode:      weightBounded,
		maxWeight: maxWeight,
		weigh:     weigh,
		order:     list.New(),
		items:     make(map[string]*list.Element),
	}
}

// Has reports whether key is resident. Unlike Get it does not refresh the
// entry's recency and does not count toward the hit/miss ratio.
func (c *Cache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Get returns the value stored under key. A hit marks the entry as the most
// recently used. Absence is an expected outcome, not an error.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	c.hits++
	return el.Value.(*entry[V]).value, true
}

// Set stores value under key, evicting least-recently-used entries until the
// cache fits its bound again. Setting an existing key replaces its value and
// weight in place and refreshes its recency.
//
// In weight-bounded mode an item whose weight alone exceeds the bound is
// refused silently, and any previous entry under the same key is dropped so a
// failed replacement cannot leave stale data behind. Callers must not assume
// Set followed by Get round-trips.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var weight int
	if c.mode == weightBounded {
		weight = c.weigh(value)
		if weight > c.maxWeight {
			c.removeLocked(key)
			return
		}
	}

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry[V])
		c.curWeight -= ent.weight
		ent.value = value
		ent.weight = weight
		c.order.MoveToFront(el)
	} else {
		if c.mode == countBounded {
			for len(c.items) >= c.maxItems && c.evictOldest() {
			}
		}
		c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value, weight: weight})
	}

	if c.mode == weightBounded {
		c.curWeight += weight
		// The just-touched entry sits at the front, so this terminates
		// before evicting it: a lone entry always satisfies the bound
		// because oversized items were refused above.
		for c.curWeight > c.maxWeight && c.evictOldest() {
		}
	}
}

// Clear removes every entry and resets the weight accounting. Hit and miss
// counters survive a clear. Safe to call on an empty cache.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
	c.curWeight = 0
}

// Len returns the number of resident entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns a read-only snapshot for the diagnostics endpoint. It does
// not perturb recency ordering.
func (c *Cache[V]) Stats() models.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := models.CacheStats{
		Count:  len(c.items),
		Hits:   c.hits,
		Misses: c.misses,
	}
	switch c.mode {
	case countBounded:
		st.MaxItems = c.maxItems
	case weightBounded:
		st.CurrentWeight = c.curWeight
		st.MaxWeight = c.maxWeight
	}
	return st
}

// evictOldest drops the least-recently-touched entry. It reports whether an
// entry was evicted, so callers' eviction loops terminate once the cache is
// empty.
func (c *Cache[V]) evictOldest() bool {
	el := c.order.Back()
	if el == nil {
		return false
	}
	ent := el.Value.(*entry[V])
	c.order.Remove(el)
	delete(c.items, ent.key)
	c.curWeight -= ent.weight
	return true
}

func (c *Cache[V]) removeLocked(key string) {
	el, ok := c.items[key]
	if !ok {
		return
	}
	ent := el.Value.(*entry[V])
	c.order.Remove(el)
	delete(c.items, key)
	c.curWeight -= ent.weight
}
