package cache

import (
	"io"
	"time"
)

// LayeredCache puts a fast front cache over a slower shared or
// persistent one. Reads that hit the back layer are promoted.
type LayeredCache struct {
	front Cache
	back  Cache
}

// NewLayeredCache creates a layered cache, typically memory over disk or redis
func NewLayeredCache(front, back Cache) *LayeredCache {
	return &LayeredCache{front: front, back: back}
}

// Get checks the front layer first, then the back
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.front.Get(key); found {
		return val, true
	}

	if val, found := c.back.Get(key); found {
		_ = c.front.Set(key, val, 0)
		return val, true
	}

	return nil, false
}

// Set stores a value in both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.front.Set(key, value, ttl); err != nil {
		return err
	}
	return c.back.Set(key, value, ttl)
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) error {
	frontErr := c.front.Delete(key)
	if err := c.back.Delete(key); err != nil {
		return err
	}
	return frontErr
}

// Clear removes all values from both layers
func (c *LayeredCache) Clear() error {
	frontErr := c.front.Clear()
	if err := c.back.Clear(); err != nil {
		return err
	}
	return frontErr
}

// Close releases any layer that holds a connection
func (c *LayeredCache) Close() error {
	var err error
	for _, layer := range []Cache{c.front, c.back} {
		if closer, ok := layer.(io.Closer); ok {
			if cerr := closer.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}
	return err
}
