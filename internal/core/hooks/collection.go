// Package hooks implements the tenant-scoped cached-collection
// discipline shared by everything that holds rows between fetches:
// fetch short-circuits without a tenant, create and delete patch the
// cache optimistically (the row is already known), and update
// invalidates so the next fetch picks up server-computed fields.
package hooks

import "context"

// Loader fetches the full collection from the backing store.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Collection is a locally cached, tenant-scoped view of one entity
// collection. It is private to its owner (one mounted stream, one
// request) and is not safe for concurrent use.
type Collection[T any] struct {
	tenantID string
	load     Loader[T]
	id       func(T) string

	rows   []T
	loaded bool
}

// NewCollection builds a view over load, scoped to tenantID. id
// extracts a row's identifier for optimistic deletes.
func NewCollection[T any](tenantID string, load Loader[T], id func(T) string) *Collection[T] {
	return &Collection[T]{tenantID: tenantID, load: load, id: id}
}

// Fetch returns the cached rows, loading them first if the cache is
// empty or invalidated. An empty tenant id short-circuits to an empty
// result without calling the loader: an unscoped query would leak
// cross-tenant data. A loader failure leaves the previous cache intact
// and is returned to the caller for an explicit retry.
func (c *Collection[T]) Fetch(ctx context.Context) ([]T, error) {
	if c.tenantID == "" {
		return []T{}, nil
	}
	if c.loaded {
		return c.rows, nil
	}
	rows, err := c.load(ctx)
	if err != nil {
		return c.rows, err
	}
	c.rows = rows
	c.loaded = true
	return c.rows, nil
}

// ApplyCreate optimistically appends a row known to have been inserted.
func (c *Collection[T]) ApplyCreate(row T) {
	if !c.loaded {
		return
	}
	c.rows = append(c.rows, row)
}

// ApplyDelete optimistically removes the row with the given id.
func (c *Collection[T]) ApplyDelete(id string) {
	if !c.loaded {
		return
	}
	for i, row := range c.rows {
		if c.id(row) == id {
			c.rows = append(c.rows[:i], c.rows[i+1:]...)
			return
		}
	}
}

// Invalidate marks the cache stale; the next Fetch reloads. Used after
// updates, where the server may have computed fields the caller never
// submitted.
func (c *Collection[T]) Invalidate() {
	c.loaded = false
}

// Rows returns the current cache without loading.
func (c *Collection[T]) Rows() []T {
	if c.rows == nil {
		return []T{}
	}
	return c.rows
}
