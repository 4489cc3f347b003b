package rnfi

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const maxCachedImages = 512

type cachedImage struct {
	png     []byte
	fetched time.Time
}

// ImageCache keeps rendered preview PNGs in memory with a TTL. Rendering is
// deterministic, so a cached image is always identical to a fresh one; the
// TTL only bounds memory held for cards nobody requests any more.
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]cachedImage
	ttl     time.Duration
	now     func() time.Time
	group   singleflight.Group
}

// NewImageCache creates an empty ImageCache.
func NewImageCache(ttl time.Duration) *ImageCache {
	return &ImageCache{
		entries: make(map[string]cachedImage),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *ImageCache) valid(e cachedImage) bool {
	return c.now().Sub(e.fetched) < c.ttl
}

// Invalidate clears the cache so the next read renders again.
func (c *ImageCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cachedImage)
	c.mu.Unlock()
}

// Len returns the number of cached images, including expired ones not yet
// evicted.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Get returns the cached PNG for key, rendering it with render on a miss.
// Concurrent misses for one key share a single render, which runs detached
// from the cancellation of any one caller; each caller stops waiting when its
// own ctx is done. Failed renders are not cached. hit reports whether the
// image came from the cache.
func (c *ImageCache) Get(ctx context.Context, key string, render func(context.Context) ([]byte, error)) (png []byte, hit bool, err error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.valid(e) {
		return e.png, true, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && c.valid(e) {
			return e.png, nil
		}
		b, err := render(shared)
		if err != nil {
			return nil, err
		}
		c.store(key, b)
		return b, nil
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.([]byte), false, nil
	}
}

func (c *ImageCache) store(key string, png []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= maxCachedImages {
		for k, e := range c.entries {
			if !c.valid(e) {
				delete(c.entries, k)
			}
		}
		if len(c.entries) >= maxCachedImages {
			return
		}
	}
	c.entries[key] = cachedImage{png: png, fetched: c.now()}
}
