// Package airports holds the keyword lookup cache and the seed airport
// directory shared by all sessions. The cache and the seed list are the
// only state persisted across restarts; flight offers never are.
package airports

import (
	"container/list"
	"strings"
	"sync"

	"github.com/skyscout/skyscout/internal/models"
)

// MaxEntries is the default cache bound.
const MaxEntries = 50

// Entry is one cached keyword lookup, oldest-first in snapshots.
type Entry struct {
	Keyword string                   `json:"keyword"`
	Results []models.AirportLocation `json:"results"`
}

// Cache maps lowercase query keywords to previously returned locations.
// It is bounded to max entries with true LRU eviction: both Get and Put
// refresh an entry's recency, and inserting past the bound evicts the
// least recently used entry.
type Cache struct {
	mu    sync.Mutex
	max   int
	ll    *list.List
	items map[string]*list.Element
}

type cacheItem struct {
	keyword string
	results []models.AirportLocation
}

// NewCache returns an empty cache bounded to max entries. A non-positive
// max falls back to MaxEntries.
func NewCache(max int) *Cache {
	if max <= 0 {
		max = MaxEntries
	}
	return &Cache{
		max:   max,
		ll:    list.New(),
		items: make(map[string]*list.Element),
	}
}

// Get returns the cached results for a keyword, if present. Lookup is
// case-insensitive and refreshes the entry's recency.
func (c *Cache) Get(keyword string) ([]models.AirportLocation, bool) {
	key := strings.ToLower(keyword)

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheItem).results, true
}

// Put stores results under the lowercased keyword, evicting the least
// recently used entries once the bound is exceeded.
func (c *Cache) Put(keyword string, results []models.AirportLocation) {
	key := strings.ToLower(keyword)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cacheItem).results = results
		c.ll.MoveToFront(el)
		return
	}

	c.items[key] = c.ll.PushFront(&cacheItem{keyword: key, results: results})
	for c.ll.Len() > c.max {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheItem).keyword)
	}
}

// Len reports the number of cached keywords.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Snapshot returns the entries oldest-first, so replaying them through Put
// reproduces the same recency order.
func (c *Cache) Snapshot() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]Entry, 0, c.ll.Len())
	for el := c.ll.Back(); el != nil; el = el.Prev() {
		item := el.Value.(*cacheItem)
		entries = append(entries, Entry{Keyword: item.keyword, Results: item.results})
	}
	return entries
}

// Restore replaces the cache contents with a snapshot.
func (c *Cache) Restore(entries []Entry) {
	c.mu.Lock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, len(entries))
	c.mu.Unlock()

	for _, e := range entries {
		c.Put(e.Keyword, e.Results)
	}
}
