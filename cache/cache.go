// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package cache provides identifier-based caching of current resource
// states.  The cache wraps some other ResourceService.  Get returns a
// cached resource if one is available; everything else, including
// GetAt, passes through to the backend.
//
// Writing a resource through the cache evicts it and its parent
// container, since the parent's containment triples change whenever
// a child is created or deleted.
//
// Caveats
//
// The cache only sees writes made through it.  If several servers
// share one postgres backend, each may serve a stale current state
// until the entry is evicted.  Run the cache only in front of a
// backend with a single writer.
package cache

import (
	"context"
	"github.com/diffeo/go-trellis/ldp"
	"time"
)

// DefaultSize is the number of resources cached by New.
const DefaultSize = 1024

type cache struct {
	backend   ldp.ResourceService
	resources *lru
}

// New creates a new caching resource service, wrapping some other
// backend.
func New(backend ldp.ResourceService) ldp.ResourceService {
	return NewWithSize(backend, DefaultSize)
}

// NewWithSize creates a caching resource service holding at most size
// resources.
func NewWithSize(backend ldp.ResourceService, size int) ldp.ResourceService {
	return &cache{
		backend:   backend,
		resources: newLRU(size),
	}
}

func (c *cache) Get(ctx context.Context, id ldp.IRI) (ldp.Resource, error) {
	return c.resources.Get(id, func(id ldp.IRI) (ldp.Resource, error) {
		return c.backend.Get(ctx, id)
	})
}

func (c *cache) GetAt(ctx context.Context, id ldp.IRI, at time.Time) (ldp.Resource, error) {
	return c.backend.GetAt(ctx, id, at)
}

func (c *cache) Put(ctx context.Context, id ldp.IRI, dataset *ldp.Dataset) error {
	err := c.backend.Put(ctx, id, dataset)
	// Evict even on error
	evict := []ldp.IRI{id}
	if parent, ok := ldp.ParentOf(id, dataset); ok {
		evict = append(evict, parent)
	}
	if parent, ok := ldp.Parent(id); ok {
		evict = append(evict, parent)
	}
	c.resources.Remove(evict...)
	return err
}

func (c *cache) Skolemize(term ldp.Term) ldp.Term {
	return c.backend.Skolemize(term)
}

func (c *cache) Unskolemize(term ldp.Term) ldp.Term {
	return c.backend.Unskolemize(term)
}

func (c *cache) IdentifierSupplier() func() string {
	return c.backend.IdentifierSupplier()
}
