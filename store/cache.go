package store

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache wraps a Client with read caching and write-through invalidation.
// List results are keyed by the resource name alone, single entities by
// resource and id. Any successful mutation against a resource drops every
// cached read for that resource; reads of other resources are untouched even
// when entities reference each other across collections.
//
// Concurrent reads of the same key are coalesced into a single upstream
// fetch. Writes are not serialized at all.
type Cache struct {
	client *Client

	mu      sync.RWMutex
	entries map[string][]byte

	group singleflight.Group
}

func NewCache(client *Client) *Cache {
	return &Cache{
		client:  client,
		entries: make(map[string][]byte),
	}
}

func listKey(resource string) string { return resource }

func oneKey(resource string, id int) string { return resource + "/" + strconv.Itoa(id) }

// List returns the cached collection, fetching it on a miss.
func (c *Cache) List(ctx context.Context, resource string, out any) error {
	return c.read(ctx, listKey(resource), func() ([]byte, error) {
		return c.client.getRaw(ctx, c.client.collectionURL(resource))
	}, out)
}

// Get returns the cached entity, fetching it on a miss.
func (c *Cache) Get(ctx context.Context, resource string, id int, out any) error {
	return c.read(ctx, oneKey(resource, id), func() ([]byte, error) {
		return c.client.getRaw(ctx, c.client.entityURL(resource, id))
	}, out)
}

// Create writes through to the store and invalidates the resource.
func (c *Cache) Create(ctx context.Context, resource string, payload, out any) error {
	if err := c.client.Create(ctx, resource, payload, out); err != nil {
		return err
	}
	c.Invalidate(resource)
	return nil
}

// Update writes through to the store and invalidates the resource.
func (c *Cache) Update(ctx context.Context, resource string, id int, payload any) error {
	if err := c.client.Update(ctx, resource, id, payload); err != nil {
		return err
	}
	c.Invalidate(resource)
	return nil
}

// Patch writes through to the store and invalidates the resource.
func (c *Cache) Patch(ctx context.Context, resource string, id int, partial any) error {
	if err := c.client.Patch(ctx, resource, id, partial); err != nil {
		return err
	}
	c.Invalidate(resource)
	return nil
}

// Remove writes through to the store and invalidates the resource.
func (c *Cache) Remove(ctx context.Context, resource string, id int) error {
	if err := c.client.Remove(ctx, resource, id); err != nil {
		return err
	}
	c.Invalidate(resource)
	return nil
}

// Invalidate drops every cached read for the resource, forcing the next
// List/Get to hit the store.
func (c *Cache) Invalidate(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key == resource || strings.HasPrefix(key, resource+"/") {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) read(ctx context.Context, key string, fetch func() ([]byte, error), out any) error {
	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return json.Unmarshal(cached, out)
	}

	raw, err, _ := c.group.Do(key, func() (any, error) {
		body, err := fetch()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = body
		c.mu.Unlock()
		return body, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw.([]byte), out)
}
