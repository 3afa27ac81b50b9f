// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package cache

import (
	"github.com/diffeo/go-trellis/ldp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"testing"
	"time"
)

// LRUSuite exercises the resource LRU with capacity 2.  fetches
// counts the calls made to the backend fetch function.
type LRUSuite struct {
	suite.Suite
	LRU     *lru
	fetches int
}

func TestLRU(t *testing.T) {
	suite.Run(t, &LRUSuite{})
}

func (s *LRUSuite) SetupTest() {
	s.LRU = newLRU(2)
	s.fetches = 0
}

func iri(path string) ldp.IRI {
	return ldp.IRI("trellis:repo/" + path)
}

func (s *LRUSuite) fetch(id ldp.IRI) (ldp.Resource, error) {
	s.fetches++
	return ldp.NewSnapshot(id, time.Unix(0, 0), ldp.NewDataset()), nil
}

func failFetch(id ldp.IRI) (ldp.Resource, error) {
	return nil, assert.AnError
}

// load gets a path through the cache, fetching it if need be.
func (s *LRUSuite) load(path string) {
	res, err := s.LRU.Get(iri(path), s.fetch)
	if s.NoError(err) && s.NotNil(res) {
		s.Equal(iri(path), res.Identifier())
	}
}

// cached asserts exactly which paths are in the cache.
func (s *LRUSuite) cached(paths ...string) {
	s.Equal(len(paths), s.LRU.Len())
	for _, path := range paths {
		s.NotNil(s.LRU.Peek(iri(path)), path)
	}
}

func (s *LRUSuite) TestPut() {
	s.LRU.Put(ldp.NewSnapshot(iri("a"), time.Unix(0, 0), ldp.NewDataset()))
	s.cached("a")
	s.Nil(s.LRU.Peek(iri("b")))

	// Replacing keeps one entry with the new value
	newer := ldp.NewSnapshot(iri("a"), time.Unix(60, 0), ldp.NewDataset())
	s.LRU.Put(newer)
	s.cached("a")
	s.Equal(newer, s.LRU.Peek(iri("a")))
}

func (s *LRUSuite) TestFetchOnce() {
	s.load("a")
	s.load("a")
	s.Equal(1, s.fetches)
	s.cached("a")
}

func (s *LRUSuite) TestEvictOldest() {
	s.load("a")
	s.load("a/b")
	s.load("c")
	s.cached("a/b", "c")
	s.Nil(s.LRU.Peek(iri("a")))
}

// TestRecency checks that a hit, but not a peek, protects an entry
// from eviction.
func (s *LRUSuite) TestRecency() {
	s.load("a")
	s.load("b")
	s.load("a")
	s.load("c")
	s.cached("a", "c")

	s.LRU.Peek(iri("a"))
	s.load("d")
	s.cached("c", "d")
}

func (s *LRUSuite) TestFetchError() {
	s.load("a")
	_, err := s.LRU.Get(iri("b"), failFetch)
	s.Error(err)
	s.cached("a")

	// Cached entries never reach the fetch function
	res, err := s.LRU.Get(iri("a"), failFetch)
	s.NoError(err)
	s.NotNil(res)
}

func (s *LRUSuite) TestAbsentNotCached() {
	res, err := s.LRU.Get(iri("gone"), func(ldp.IRI) (ldp.Resource, error) { return nil, nil })
	s.NoError(err)
	s.Nil(res)
	s.cached()
}

func (s *LRUSuite) TestRemove() {
	s.load("a")
	s.load("b")
	s.LRU.Remove(iri("b"), iri("never"))
	s.cached("a")

	s.load("c")
	s.load("d")
	s.cached("c", "d")
}
