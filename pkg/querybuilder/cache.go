package querybuilder

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of templates a Cache keeps when no size is
// given.
const DefaultCacheSize = 256

// Cache keeps scanned templates so repeated queries skip scanning. It is safe
// for concurrent use; the builders it returns are not shared.
type Cache struct {
	templates *lru.Cache[string, *Builder]
	opts      []Option
}

// NewCache creates a cache holding up to size templates. Options are applied
// to every builder the cache scans.
func NewCache(size int, opts ...Option) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	templates, err := lru.New[string, *Builder](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create template cache: %w", err)
	}
	return &Cache{templates: templates, opts: opts}, nil
}

// Get returns a fresh builder for query, scanning it only on a cache miss.
// Templates that fail to scan are not cached.
func (c *Cache) Get(query string) (*Builder, error) {
	if b, ok := c.templates.Get(query); ok {
		return b.Clone(), nil
	}
	b, err := New(query, c.opts...)
	if err != nil {
		return nil, err
	}
	c.templates.Add(query, b)
	return b.Clone(), nil
}

// Len returns the number of cached templates.
func (c *Cache) Len() int {
	return c.templates.Len()
}

// Purge drops every cached template.
func (c *Cache) Purge() {
	c.templates.Purge()
}
