// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package webac

import (
	"context"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/diffeo/go-trellis/ldp/ldptest"
	"github.com/diffeo/go-trellis/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

const (
	root  = ldp.IRI("trellis:repo")
	child = ldp.IRI("trellis:repo/child")
	leaf  = ldp.IRI("trellis:repo/child/leaf")
	alice = ldp.IRI("user:alice")
	bob   = ldp.IRI("user:bob")
)

func authorization(d *ldp.Dataset, name string, link, target ldp.IRI, who ldp.Quad, modes ...ldp.IRI) {
	auth := ldp.IRI("trellis:bnode/" + name)
	add := func(p ldp.IRI, o ldp.Term) {
		d.Add(ldp.Quad{Graph: ldp.Trellis.PreferAccessControl, Subject: auth, Predicate: p, Object: o})
	}
	add(ldp.RDF.Type, ldp.ACL.Authorization)
	add(link, target)
	add(who.Predicate, who.Object)
	for _, m := range modes {
		add(ldp.ACL.Mode, m)
	}
}

func agent(a ldp.IRI) ldp.Quad {
	return ldp.Quad{Predicate: ldp.ACL.Agent, Object: a}
}

func agentClass(c ldp.IRI) ldp.Quad {
	return ldp.Quad{Predicate: ldp.ACL.AgentClass, Object: c}
}

// setup stores a root that lets everyone read its descendants and
// alice write its descendants, a child with no ACL, and a leaf
// where bob has control.
func setup(t *testing.T) *Service {
	ctx := context.Background()
	resources := memory.New()

	d := ldptest.Dataset(root, ldp.LDP.BasicContainer, "")
	authorization(d, "public", ldp.ACL.Default, root, agentClass(ldp.FOAF.Agent), ldp.ACL.Read)
	authorization(d, "alice", ldp.ACL.Default, root, agent(alice), ldp.ACL.Write)
	authorization(d, "self", ldp.ACL.AccessTo, root, agentClass(ldp.ACL.AuthenticatedAgent), ldp.ACL.Read, ldp.ACL.Control)
	require.NoError(t, resources.Put(ctx, root, d))

	require.NoError(t, resources.Put(ctx, child, ldptest.Dataset(child, ldp.LDP.BasicContainer, "")))

	d = ldptest.Dataset(leaf, ldp.LDP.RDFSource, "")
	authorization(d, "bob", ldp.ACL.AccessTo, leaf, agent(bob), ldp.ACL.Read, ldp.ACL.Control)
	require.NoError(t, resources.Put(ctx, leaf, d))

	return New(resources)
}

func modes(t *testing.T, s *Service, id ldp.IRI, session ldp.Session) []ldp.IRI {
	m, err := s.AccessModes(context.Background(), id, session)
	require.NoError(t, err)
	return m
}

func session(a ldp.IRI) ldp.Session {
	return ldp.NewSession(a, time.Unix(0, 0))
}

func TestInherited(t *testing.T) {
	s := setup(t)
	anon := session(ldp.Trellis.AnonymousUser)
	assert.Equal(t, []ldp.IRI{ldp.ACL.Read}, modes(t, s, child, anon))
	assert.Equal(t, []ldp.IRI{ldp.ACL.Read}, modes(t, s, child, session(bob)))
	assert.Equal(t, []ldp.IRI{ldp.ACL.Read, ldp.ACL.Write, ldp.ACL.Append}, modes(t, s, child, session(alice)))
}

func TestAccessTo(t *testing.T) {
	s := setup(t)
	assert.Empty(t, modes(t, s, root, session(ldp.Trellis.AnonymousUser)))
	assert.Equal(t, []ldp.IRI{ldp.ACL.Read, ldp.ACL.Control}, modes(t, s, root, session(bob)))
}

// TestNearestACL checks that an ACL on the resource replaces the
// inherited ones.
func TestNearestACL(t *testing.T) {
	s := setup(t)
	assert.Equal(t, []ldp.IRI{ldp.ACL.Read, ldp.ACL.Control}, modes(t, s, leaf, session(bob)))
	assert.Empty(t, modes(t, s, leaf, session(alice)))
}

// TestMissing checks that resources yet to be created inherit from
// their nearest existing ancestor.
func TestMissing(t *testing.T) {
	s := setup(t)
	assert.Equal(t, []ldp.IRI{ldp.ACL.Read, ldp.ACL.Write, ldp.ACL.Append}, modes(t, s, child+"/new", session(alice)))
}

func TestDefaults(t *testing.T) {
	s := New(memory.New())
	assert.Empty(t, modes(t, s, child, session(alice)))

	s.DefaultModes = []ldp.IRI{ldp.ACL.Control, ldp.ACL.Read}
	assert.Equal(t, []ldp.IRI{ldp.ACL.Read, ldp.ACL.Control}, modes(t, s, child, session(alice)))
}

func TestAdmin(t *testing.T) {
	s := setup(t)
	assert.Equal(t, AllModes, modes(t, s, leaf, session(ldp.Trellis.AdministratorAgent)))
	s.Admins = []ldp.IRI{alice}
	assert.Equal(t, AllModes, modes(t, s, leaf, session(alice)))
}

func TestDelegate(t *testing.T) {
	s := setup(t)
	sess := session(alice)
	sess.Delegate = bob
	assert.Equal(t, []ldp.IRI{ldp.ACL.Read}, modes(t, s, child, sess))
}
