// Package rtext provides a measurement LRU cache for text layout and a
// default FontProvider backed by freetype-rasterized TrueType fonts.
package rtext

import (
	"container/list"
	"fmt"
	"sync"
)

// measureKey identifies a family/weight/size/letterSpacing/text combination
// for the measurement memoizer below.
type measureKey string

func makeMeasureKey(family, weight string, size, letterSpacing float64, text string) measureKey {
	return measureKey(fmt.Sprintf("%s|%s|%.2f|%.2f|%s", family, weight, size, letterSpacing, text))
}

type measurement struct {
	Width, Height float64
}

// Cache is a fixed-capacity LRU over text measurements, avoiding repeated
// glyph-metrics walks for text that repeats across frames (a caption that
// holds steady for seconds re-measures the same string every frame
// otherwise).
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[measureKey]*list.Element
}

type cacheEntry struct {
	key   measureKey
	value measurement
}

// NewCache returns an LRU cache holding at most capacity entries.
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1000
	}
	return &Cache{capacity: capacity, order: list.New(), entries: make(map[measureKey]*list.Element)}
}

// GetOrMeasure returns the cached measurement for this key, computing and
// storing it via measure if absent.
func (c *Cache) GetOrMeasure(family, weight string, size, letterSpacing float64, text string, measure func() (float64, float64, error)) (float64, float64, error) {
	key := makeMeasureKey(family, weight, size, letterSpacing, text)

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		m := el.Value.(*cacheEntry).value
		c.mu.Unlock()
		return m.Width, m.Height, nil
	}
	c.mu.Unlock()

	w, h, err := measure()
	if err != nil {
		return 0, 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return w, h, nil
	}
	el := c.order.PushFront(&cacheEntry{key: key, value: measurement{Width: w, Height: h}})
	c.entries[key] = el
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
	return w, h, nil
}

// Len reports the number of cached entries, mostly for tests.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
