package cache

import (
	"sync"

	"github.com/hupe1980/chunkflow/resource"
)

type node struct {
	key        Key
	value      []byte
	prev, next *node
}

// LRU is a byte-bounded least-recently-used ChunkCache. Cached bytes are
// reserved on the optional resource.Controller; a denied reservation
// leaves the chunk uncached.
type LRU struct {
	mu       sync.Mutex
	capacity int64
	rc       *resource.Controller
	items    map[Key]*node
	head     node // head.next is the most recent entry, head.prev the least
	stats    Stats
}

// NewLRU creates a cache holding at most capacity bytes.
func NewLRU(capacity int64, rc *resource.Controller) *LRU {
	c := &LRU{capacity: capacity, rc: rc, items: make(map[Key]*node)}
	c.head.next, c.head.prev = &c.head, &c.head
	return c
}

func (c *LRU) unlink(n *node) {
	n.prev.next, n.next.prev = n.next, n.prev
	n.prev, n.next = nil, nil
}

func (c *LRU) pushFront(n *node) {
	n.prev, n.next = &c.head, c.head.next
	c.head.next.prev = n
	c.head.next = n
}

func (c *LRU) drop(n *node) {
	c.unlink(n)
	delete(c.items, n.key)
	size := int64(len(n.value))
	c.stats.Bytes -= size
	c.stats.Entries--
	c.rc.Release(size)
}

// Get returns the cached chunk and marks it most recently used.
func (c *LRU) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.unlink(n)
	c.pushFront(n)
	return n.value, true
}

// Put caches b under key, evicting older chunks to make room. Chunks
// larger than the capacity are not cached and replace nothing.
func (c *LRU) Put(key Key, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.items[key]; ok {
		c.drop(old)
	}
	size := int64(len(b))
	if size > c.capacity {
		return
	}
	for c.stats.Bytes+size > c.capacity && c.head.prev != &c.head {
		c.drop(c.head.prev)
		c.stats.Evictions++
	}
	if !c.rc.TryReserve(size) {
		return
	}
	n := &node{key: key, value: b}
	c.items[key] = n
	c.pushFront(n)
	c.stats.Bytes += size
	c.stats.Entries++
}

func (c *LRU) Remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.items[key]; ok {
		c.drop(n)
	}
}

func (c *LRU) Purge(store string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, n := range c.items {
		if k.Store == store {
			c.drop(n)
		}
	}
}

func (c *LRU) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Close drops every chunk and releases its reservation.
func (c *LRU) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.head.next != &c.head {
		c.drop(c.head.next)
	}
	return nil
}
