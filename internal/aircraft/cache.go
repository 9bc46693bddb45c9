package aircraft

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Resolver returns built profiles by name.
type Resolver interface {
	Profile(ctx context.Context, name string) (*Profile, error)
}

// Cache resolves profiles from a catalog and keeps built ones for ttl.
type Cache struct {
	cat Catalog
	lru *expirable.LRU[string, *Profile]
}

func NewCache(cat Catalog, size int, ttl time.Duration) *Cache {
	return &Cache{cat: cat, lru: expirable.NewLRU[string, *Profile](size, nil, ttl)}
}

func (c *Cache) Profile(ctx context.Context, name string) (*Profile, error) {
	if p, ok := c.lru.Get(name); ok {
		return p, nil
	}
	p, err := Resolve(ctx, c.cat, name)
	if err != nil {
		return nil, err
	}
	c.lru.Add(name, p)
	return p, nil
}

func (c *Cache) Catalog() Catalog { return c.cat }

// Purge drops every cached profile. Tails inherit from their type, so a
// changed spec may affect any entry.
func (c *Cache) Purge() { c.lru.Purge() }

func (c *Cache) Len() int { return c.lru.Len() }
