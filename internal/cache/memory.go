package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"sync"
	"time"
)

// ErrItemTooLarge is returned when an item exceeds the cache capacity.
var ErrItemTooLarge = errors.New("item too large for cache")

// Stats holds cache performance metrics.
type Stats struct {
	Capacity  int64 // maximum size in bytes
	Size      int64 // current size in bytes
	Items     int
	Hits      int64
	Misses    int64
	Evictions int64
}

// Key derives the cache key for text rendered with voice at rate.
func Key(text, voice string, rate int) string {
	hash := sha256.Sum256([]byte(text + "|" + voice + "|" + strconv.Itoa(rate)))
	return hex.EncodeToString(hash[:16])
}

// Memory is an in-memory cache with LRU eviction bounded by total size.
type Memory struct {
	capacity int64
	size     int64

	items    map[string]*list.Element
	eviction *list.List

	mu    sync.Mutex
	stats Stats
}

type entry struct {
	key     string
	value   []byte
	created time.Time
}

// NewMemory creates a cache holding at most capacity bytes.
func NewMemory(capacity int64) *Memory {
	return &Memory{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
	}
}

// Get returns the value stored under key.
func (c *Memory) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.eviction.MoveToFront(elem)
	c.stats.Hits++
	return elem.Value.(*entry).value, true
}

// Put stores value under key, evicting least recently used entries to make
// room. The cache keeps value; callers must not modify it afterwards.
func (c *Memory) Put(key string, value []byte) error {
	n := int64(len(value))
	if n > c.capacity {
		return ErrItemTooLarge
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.remove(elem)
	}
	for c.size+n > c.capacity && c.eviction.Len() > 0 {
		c.remove(c.eviction.Back())
		c.stats.Evictions++
	}

	c.items[key] = c.eviction.PushFront(&entry{key: key, value: value, created: time.Now()})
	c.size += n
	return nil
}

// Prune drops entries older than maxAge and returns how many were removed.
func (c *Memory) Prune(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	pruned := 0
	for elem := c.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry).created.Before(cutoff) {
			c.remove(elem)
			pruned++
		}
		elem = prev
	}
	return pruned
}

// Clear removes all entries.
func (c *Memory) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.eviction.Init()
	c.size = 0
}

// Stats returns cache statistics.
func (c *Memory) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Capacity = c.capacity
	s.Size = c.size
	s.Items = len(c.items)
	return s
}

// remove must be called with the lock held.
func (c *Memory) remove(elem *list.Element) {
	c.eviction.Remove(elem)
	e := elem.Value.(*entry)
	delete(c.items, e.key)
	c.size -= int64(len(e.value))
}
