// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package cache

// This file provides a simple LRU cache of resources, keyed by their
// internal identifiers.

import (
	"container/list"
	"github.com/diffeo/go-trellis/ldp"
	"sync"
)

// lru is a least-recently-used cache with a fixed capacity.  The cache
// can be safely accessed from multiple goroutines.
type lru struct {
	size      int
	lock      sync.RWMutex
	evictList *list.List
	index     map[ldp.IRI]*list.Element
}

func newLRU(size int) *lru {
	return &lru{
		size:      size,
		evictList: list.New(),
		index:     make(map[ldp.IRI]*list.Element),
	}
}

// Get retrieves a resource from the cache.  If it is not present,
// calls the fetch function, and if that returns a non-nil resource,
// saves it and returns it.  A nil resource with no error means the
// backend has nothing at that identifier, which is not cached.
func (lru *lru) Get(id ldp.IRI, fetch func(ldp.IRI) (ldp.Resource, error)) (ldp.Resource, error) {
	// This happens under a writer lock, since a hit moves the item
	// to the back of the list
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element, present := lru.index[id]; present {
		lru.evictList.MoveToBack(element)
		return element.Value.(ldp.Resource), nil
	}

	res, err := fetch(id)
	if err != nil || res == nil {
		return res, err
	}
	lru.add(res)
	return res, nil
}

// Peek returns a cached resource, or nil if absent, without affecting
// its recency.
func (lru *lru) Peek(id ldp.IRI) ldp.Resource {
	lru.lock.RLock()
	defer lru.lock.RUnlock()

	if element, present := lru.index[id]; present {
		return element.Value.(ldp.Resource)
	}
	return nil
}

// Put adds a resource to the cache, possibly evicting something.
func (lru *lru) Put(res ldp.Resource) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element, present := lru.index[res.Identifier()]; present {
		element.Value = res
		lru.evictList.MoveToBack(element)
		return
	}
	lru.add(res)
}

// Remove takes resources out of the cache.  Identifiers that are not
// cached are ignored.
func (lru *lru) Remove(ids ...ldp.IRI) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	for _, id := range ids {
		if element, present := lru.index[id]; present {
			delete(lru.index, id)
			lru.evictList.Remove(element)
		}
	}
}

// Len returns the number of cached resources.
func (lru *lru) Len() int {
	lru.lock.RLock()
	defer lru.lock.RUnlock()
	return len(lru.index)
}

// add inserts a resource known not to be present.  Must be called
// under the write lock.
func (lru *lru) add(res ldp.Resource) {
	element := lru.evictList.PushBack(res)
	lru.index[res.Identifier()] = element

	for len(lru.index) > lru.size {
		head := lru.evictList.Front()
		delete(lru.index, head.Value.(ldp.Resource).Identifier())
		lru.evictList.Remove(head)
	}
}
