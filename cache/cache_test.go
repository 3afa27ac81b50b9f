// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package cache_test

import (
	"context"
	"github.com/diffeo/go-trellis/cache"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/diffeo/go-trellis/ldp/ldptest"
	"github.com/diffeo/go-trellis/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"testing"
)

// Suite runs the generic resource service tests with a caching
// backend.
type Suite struct {
	ldptest.Suite
}

// SetupSuite does one-time test setup, creating the backend.
func (s *Suite) SetupSuite() {
	s.Suite.SetupSuite()
	s.Resources = cache.New(memory.NewWithClock(s.Clock))
}

// TestResourceService runs the generic tests with a caching backend.
func TestResourceService(t *testing.T) {
	suite.Run(t, &Suite{})
}

// TestStaleBackend shows that writes made behind the cache's back
// are not seen until the entry is evicted.
func TestStaleBackend(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	c := cache.New(backend)
	id := ldp.IRI("trellis:repo/a")

	assert.NoError(t, c.Put(ctx, id, ldptest.Dataset(id, ldp.LDP.RDFSource, "one")))
	res, err := c.Get(ctx, id)
	assert.NoError(t, err)

	assert.NoError(t, backend.Put(ctx, id, ldptest.Dataset(id, ldp.LDP.RDFSource, "two")))
	again, err := c.Get(ctx, id)
	if assert.NoError(t, err) {
		assert.Equal(t, res, again)
	}

	assert.NoError(t, c.Put(ctx, id, ldptest.Dataset(id, ldp.LDP.RDFSource, "three")))
	fresh, err := c.Get(ctx, id)
	if assert.NoError(t, err) {
		assert.Equal(t, ldp.NewLiteral("three"), fresh.Quads(ldp.Trellis.PreferUserManaged)[0].Object)
	}
}

// TestParentInvalidated checks that creating a child refreshes the
// parent's containment.
func TestParentInvalidated(t *testing.T) {
	ctx := context.Background()
	c := cache.New(memory.New())
	parent := ldp.IRI("trellis:repo")
	child := parent + "/child"

	assert.NoError(t, c.Put(ctx, parent, ldptest.Dataset(parent, ldp.LDP.BasicContainer, "")))
	res, err := c.Get(ctx, parent)
	if assert.NoError(t, err) {
		assert.Empty(t, res.Quads(ldp.LDP.PreferContainment))
	}

	d := ldptest.Dataset(child, ldp.LDP.RDFSource, "")
	d.Add(ldp.Quad{Graph: ldp.Trellis.PreferServerManaged, Subject: child, Predicate: ldp.DC.IsPartOf, Object: parent})
	assert.NoError(t, c.Put(ctx, child, d))

	res, err = c.Get(ctx, parent)
	if assert.NoError(t, err) {
		assert.Len(t, res.Quads(ldp.LDP.PreferContainment), 1)
	}
}
