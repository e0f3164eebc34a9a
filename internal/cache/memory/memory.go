package memory

import (
	"context"
	"sync"
	"time"

	"github.com/JonMunkholm/hrpanel/internal/cache"
)

type item struct {
	data    []byte
	expires time.Time
}

// Cache is an in-process cache.Cache. A background sweeper removes expired
// keys every CleanupInterval until Close.
type Cache struct {
	opts cache.Options

	mu     sync.RWMutex
	items  map[string]item
	closed bool

	now  func() time.Time
	stop chan struct{}
	done chan struct{}
}

func New(opts cache.Options) *Cache {
	def := cache.DefaultOptions()
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = def.DefaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = def.CleanupInterval
	}

	c := &Cache{
		opts:  opts,
		items: make(map[string]item),
		now:   time.Now,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *Cache) sweep() {
	defer close(c.done)
	ticker := time.NewTicker(c.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.DeleteExpired()
		case <-c.stop:
			return
		}
	}
}

// DeleteExpired removes every expired key and returns how many.
func (c *Cache) DeleteExpired() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, it := range c.items {
		if now.After(it.expires) {
			delete(c.items, k)
			n++
		}
	}
	return n
}

func (c *Cache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := cache.CheckKey(key); err != nil {
		return err
	}
	data, err := cache.Encode(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = c.opts.DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return cache.ErrClosed
	}
	c.items[c.opts.Prefix+key] = item{data: data, expires: c.now().Add(ttl)}
	return nil
}

func (c *Cache) Get(_ context.Context, key string, value interface{}) error {
	if err := cache.CheckKey(key); err != nil {
		return err
	}

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return cache.ErrClosed
	}
	it, ok := c.items[c.opts.Prefix+key]
	c.mu.RUnlock()

	if !ok || c.now().After(it.expires) {
		return cache.ErrNotFound
	}
	return cache.Decode(it.data, value)
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return cache.ErrClosed
	}
	delete(c.items, c.opts.Prefix+key)
	return nil
}

func (c *Cache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return cache.ErrClosed
	}
	c.items = make(map[string]item)
	return nil
}

// Len returns the number of stored keys, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}
