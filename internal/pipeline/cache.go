package pipeline

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cache is a thread-safe LRU cache whose entries also expire after a per-entry TTL.
type Cache[V any] struct {
	maxEntries int
	clock      clockwork.Clock
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key     string
	value   V
	expires time.Time
	prev    *entry[V]
	next    *entry[V]
}

// NewCache creates a cache holding at most maxEntries values.
func NewCache[V any](maxEntries int, clock clockwork.Clock) *Cache[V] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache[V]{
		maxEntries: maxEntries,
		clock:      clock,
		entries:    make(map[string]*entry[V]),
	}
}

// Get returns the value for key if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if !c.clock.Now().Before(e.expires) {
		c.delete(e)
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

// Put stores value under key for ttl, evicting the least recently used
// entry when the cache is full.
func (c *Cache[V]) Put(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.clock.Now().Add(ttl)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expires = expires
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value, expires: expires}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.delete(c.tail)
	}
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *Cache[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *Cache[V]) unlink(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *Cache[V]) delete(e *entry[V]) {
	if e == nil {
		return
	}
	delete(c.entries, e.key)
	c.unlink(e)
}
