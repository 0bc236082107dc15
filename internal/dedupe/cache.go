package dedupe

import (
	"container/list"
	"sync"
	"time"
)

type record struct {
	key    string
	seenAt time.Time
}

// Cache remembers headline keys relayed within a ttl window, holding at most
// capacity keys. Marking a key again refreshes it, so the least recently
// relayed headline is evicted first.
type Cache struct {
	mu       sync.Mutex
	index    map[string]*list.Element
	recent   *list.List // front is the stalest record
	capacity int
	ttl      time.Duration
}

// NewCache creates a cache; non-positive arguments fall back to 1 entry and
// one hour.
func NewCache(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		index:    make(map[string]*list.Element, capacity),
		recent:   list.New(),
		capacity: capacity,
		ttl:      ttl,
	}
}

// IsSeen reports whether key was marked within the ttl window without
// touching it.
func (c *Cache) IsSeen(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live(key, time.Now())
}

// MarkSeen records key as relayed now. It reports true when the key was not
// already live, i.e. this call is the first relay inside the window.
func (c *Cache) MarkSeen(key string) bool {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := !c.live(key, now)
	if el, ok := c.index[key]; ok {
		el.Value.(*record).seenAt = now
		c.recent.MoveToBack(el)
	} else {
		c.index[key] = c.recent.PushBack(&record{key: key, seenAt: now})
	}
	c.evict(now)
	return fresh
}

// Len returns the number of tracked keys, expired ones included until the
// next MarkSeen.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recent.Len()
}

func (c *Cache) live(key string, now time.Time) bool {
	el, ok := c.index[key]
	return ok && now.Sub(el.Value.(*record).seenAt) <= c.ttl
}

func (c *Cache) evict(now time.Time) {
	cutoff := now.Add(-c.ttl)
	for front := c.recent.Front(); front != nil; front = c.recent.Front() {
		rec := front.Value.(*record)
		if c.recent.Len() <= c.capacity && !rec.seenAt.Before(cutoff) {
			return
		}
		c.recent.Remove(front)
		delete(c.index, rec.key)
	}
}
