// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package ldptest provides generic functional tests for the
// ResourceService interface.  A typical backend test module needs to
// wrap Suite to create its backend:
//
//     package mybackend
//
//     import (
//             "testing"
//             "github.com/diffeo/go-trellis/ldp/ldptest"
//             "github.com/stretchr/testify/suite"
//     )
//
//     // Suite is the per-backend generic test suite.
//     type Suite struct{
//             ldptest.Suite
//     }
//
//     // SetupSuite does global setup for the test suite.
//     func (s *Suite) SetupSuite() {
//             s.Suite.SetupSuite()
//             s.Resources = NewWithClock(s.Clock)
//     }
//
//     // TestResourceService runs the generic tests.
//     func TestResourceService(t *testing.T) {
//             suite.Run(t, &Suite{})
//     }
package ldptest

import (
	"context"
	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/satori/go.uuid"
	"github.com/stretchr/testify/suite"
	"time"
)

// Suite is the generic ResourceService backend test suite.
type Suite struct {
	suite.Suite

	// Clock contains the alternate time source to be used in tests.  It
	// is pre-initialized to a mock clock.
	Clock *clock.Mock

	// Resources contains the backend under test.  It is set by
	// importing packages.
	Resources ldp.ResourceService
}

// SetupSuite does one-time initialization for the test suite.
func (s *Suite) SetupSuite() {
	s.Clock = clock.NewMock()
	s.Clock.Add(time.Unix(1496262729, 0).Sub(s.Clock.Now()))
}

// identifier returns a fresh internal identifier, so tests do not
// interfere with one another on shared backends.
func (s *Suite) identifier(name string) ldp.IRI {
	return ldp.IRI("trellis:test-" + uuid.NewV4().String()[:8] + "/" + name)
}

// Dataset builds the stored form of a resource with an interaction
// model and a title.
func Dataset(id, model ldp.IRI, title string) *ldp.Dataset {
	d := ldp.NewDataset(ldp.Quad{
		Graph:     ldp.Trellis.PreferServerManaged,
		Subject:   id,
		Predicate: ldp.RDF.Type,
		Object:    model,
	})
	if title != "" {
		d.Add(ldp.Quad{
			Graph:     ldp.Trellis.PreferUserManaged,
			Subject:   id,
			Predicate: ldp.DC.Title,
			Object:    ldp.NewLiteral(title),
		})
	}
	return d
}

// Tombstone builds the stored form of a deleted resource.
func Tombstone(id ldp.IRI) *ldp.Dataset {
	d := Dataset(id, ldp.LDP.Resource, "")
	d.Add(ldp.Quad{
		Graph:     ldp.Trellis.PreferServerManaged,
		Subject:   id,
		Predicate: ldp.RDF.Type,
		Object:    ldp.Trellis.DeletedResource,
	})
	return d
}

func (s *Suite) put(id ldp.IRI, d *ldp.Dataset) {
	s.Require().NoError(s.Resources.Put(context.Background(), id, d))
}

func (s *Suite) get(id ldp.IRI) ldp.Resource {
	res, err := s.Resources.Get(context.Background(), id)
	s.Require().NoError(err)
	return res
}

// TestGetMissing checks that an unknown resource is absent without
// error.
func (s *Suite) TestGetMissing() {
	s.Nil(s.get(s.identifier("missing")))
	res, err := s.Resources.GetAt(context.Background(), s.identifier("missing"), s.Clock.Now())
	s.NoError(err)
	s.Nil(res)
}

// TestPutGet stores a resource and reads it back.
func (s *Suite) TestPutGet() {
	id := s.identifier("resource")
	s.put(id, Dataset(id, ldp.LDP.RDFSource, "A title"))

	res := s.get(id)
	if s.NotNil(res) {
		s.Equal(id, res.Identifier())
		s.Equal(ldp.LDP.RDFSource, res.InteractionModel())
		s.False(res.IsMemento())
		s.False(ldp.IsDeleted(res))
		s.Nil(res.Binary())
		s.WithinDuration(s.Clock.Now(), res.Modified(), time.Second)
		user := res.Quads(ldp.Trellis.PreferUserManaged)
		if s.Len(user, 1) {
			s.Equal(ldp.NewLiteral("A title"), user[0].Object)
		}
		s.Len(res.Quads(), 2)
		s.Len(res.Mementos(), 1)
	}
}

// TestVersions stores several states and retrieves each as a memento.
func (s *Suite) TestVersions() {
	id := s.identifier("versioned")
	t1 := s.Clock.Now().Truncate(time.Second)
	s.put(id, Dataset(id, ldp.LDP.RDFSource, "first"))
	s.Clock.Add(10 * time.Second)
	t2 := s.Clock.Now().Truncate(time.Second)
	s.put(id, Dataset(id, ldp.LDP.RDFSource, "second"))
	s.Clock.Add(10 * time.Second)

	res := s.get(id)
	s.Require().NotNil(res)
	mementos := res.Mementos()
	if s.Len(mementos, 2) {
		s.True(mementos[0].Datetime.Equal(t1))
		s.True(mementos[1].Datetime.Equal(t2))
		s.Equal(ldp.MementoIdentifier(id, t1), mementos[0].Identifier)
	}

	old, err := s.Resources.GetAt(context.Background(), id, t1.Add(5*time.Second))
	s.NoError(err)
	if s.NotNil(old) {
		s.True(old.IsMemento())
		s.Equal(t1.Unix(), old.Modified().Unix())
		s.Equal(ldp.NewLiteral("first"), old.Quads(ldp.Trellis.PreferUserManaged)[0].Object)
	}

	latest, err := s.Resources.GetAt(context.Background(), id, t2)
	s.NoError(err)
	if s.NotNil(latest) {
		s.Equal(ldp.NewLiteral("second"), latest.Quads(ldp.Trellis.PreferUserManaged)[0].Object)
	}

	before, err := s.Resources.GetAt(context.Background(), id, t1.Add(-time.Second))
	s.NoError(err)
	s.Nil(before)
}

// TestTombstone checks deleted resources are still retrievable and
// report themselves deleted.
func (s *Suite) TestTombstone() {
	id := s.identifier("deleted")
	s.put(id, Dataset(id, ldp.LDP.RDFSource, "doomed"))
	s.Clock.Add(time.Second)
	s.put(id, Tombstone(id))

	res := s.get(id)
	if s.NotNil(res) {
		s.True(ldp.IsDeleted(res))
		s.Equal(ldp.LDP.Resource, res.InteractionModel())
		s.Len(res.Mementos(), 2)
	}
}

// TestContainment checks that containers list their live children.
func (s *Suite) TestContainment() {
	parent := s.identifier("container")
	s.put(parent, Dataset(parent, ldp.LDP.BasicContainer, ""))
	child := parent + "/child"
	d := Dataset(child, ldp.LDP.RDFSource, "child")
	d.Add(ldp.Quad{Graph: ldp.Trellis.PreferServerManaged, Subject: child, Predicate: ldp.DC.IsPartOf, Object: parent})
	s.put(child, d)

	res := s.get(parent)
	s.Require().NotNil(res)
	contains := res.Quads(ldp.LDP.PreferContainment)
	if s.Len(contains, 1) {
		s.Equal(parent, contains[0].Subject)
		s.Equal(ldp.LDP.Contains, contains[0].Predicate)
		s.Equal(child, contains[0].Object)
	}

	s.Clock.Add(time.Second)
	s.put(child, Tombstone(child))
	s.Empty(s.get(parent).Quads(ldp.LDP.PreferContainment))
}

// TestBinaryDescription checks that binary metadata is derived from
// the server-managed graph.
func (s *Suite) TestBinaryDescription() {
	id := s.identifier("binary")
	loc := ldp.IRI("file:" + uuid.NewV4().String())
	d := Dataset(id, ldp.LDP.NonRDFSource, "")
	d.Add(ldp.Quad{Graph: ldp.Trellis.PreferServerManaged, Subject: id, Predicate: ldp.DC.HasPart, Object: loc})
	d.Add(ldp.Quad{Graph: ldp.Trellis.PreferServerManaged, Subject: loc, Predicate: ldp.DC.Format, Object: ldp.NewLiteral("text/plain")})
	d.Add(ldp.Quad{Graph: ldp.Trellis.PreferServerManaged, Subject: loc, Predicate: ldp.DC.Extent, Object: ldp.NewTypedLiteral("9", ldp.XSD.Long)})
	s.put(id, d)

	res := s.get(id)
	s.Require().NotNil(res)
	s.Equal(ldp.LDP.NonRDFSource, res.InteractionModel())
	if s.NotNil(res.Binary()) {
		s.Equal(loc, res.Binary().Location)
		s.Equal("text/plain", res.Binary().MimeType)
		s.Equal(int64(9), res.Binary().Size)
	}
}

// TestSkolemize checks blank node round trips and identifier
// generation.
func (s *Suite) TestSkolemize() {
	b := ldp.BlankNode{ID: "xyz"}
	sk := s.Resources.Skolemize(b)
	s.IsType(ldp.IRI(""), sk)
	s.Equal(b, s.Resources.Unskolemize(sk))
	s.Equal(ldp.DC.Title, s.Resources.Skolemize(ldp.DC.Title))

	next := s.Resources.IdentifierSupplier()
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id := next()
		s.NotEmpty(id)
		s.False(seen[id])
		seen[id] = true
	}
}
