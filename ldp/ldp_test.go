// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldp

import (
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestGraphSet(t *testing.T) {
	a := Triple{IRI("trellis:repo/a"), DC.Title, NewLiteral("A")}
	b := Triple{IRI("trellis:repo/b"), DC.Title, NewLiteral("B")}
	g := NewGraph(a, b, a)
	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Contains(b))
	assert.True(t, g.Remove(a))
	assert.False(t, g.Remove(a))
	assert.Equal(t, []Triple{b}, g.Triples())
	assert.True(t, g.Add(a))
	assert.Equal(t, []Triple{b, a}, g.Triples())
	assert.Len(t, g.Match(nil, DC.Title, NewLiteral("A")), 1)
}

func TestDatasetGraphs(t *testing.T) {
	s := IRI("trellis:repo/a")
	d := NewDataset(
		Quad{Trellis.PreferUserManaged, s, DC.Title, NewLiteral("A")},
		Quad{Trellis.PreferServerManaged, s, RDF.Type, LDP.RDFSource},
		Quad{Trellis.PreferUserManaged, s, DC.Title, NewLiteral("A")},
	)
	assert.Equal(t, 2, d.Len())
	assert.Len(t, d.Quads(Trellis.PreferUserManaged), 1)
	assert.Len(t, d.Quads(Trellis.PreferUserManaged, Trellis.PreferServerManaged), 2)
	assert.Equal(t, 1, d.Graph(Trellis.PreferServerManaged).Len())
}

func TestNTriples(t *testing.T) {
	assert.Equal(t, `<http://example.org/a>`, IRI("http://example.org/a").NTriples())
	assert.Equal(t, `_:b1`, BlankNode{ID: "b1"}.NTriples())
	assert.Equal(t, `"a \"b\"\n"`, NewLiteral("a \"b\"\n").NTriples())
	assert.Equal(t, `"chat"@fr`, NewLangLiteral("chat", "FR").NTriples())
	assert.Equal(t, `"1"^^<http://www.w3.org/2001/XMLSchema#long>`,
		NewTypedLiteral("1", XSD.Long).NTriples())
	assert.Equal(t, NewLiteral("x"), NewTypedLiteral("x", XSD.String))
}

func TestModelTypes(t *testing.T) {
	assert.Equal(t, []IRI{LDP.BasicContainer, LDP.Container, LDP.RDFSource, LDP.Resource},
		ModelTypes(LDP.BasicContainer))
	assert.Equal(t, []IRI{LDP.NonRDFSource, LDP.Resource}, ModelTypes(LDP.NonRDFSource))
	assert.True(t, IsContainer(LDP.IndirectContainer))
	assert.False(t, IsContainer(LDP.RDFSource))
	assert.True(t, IsRDFSource(LDP.Container))
	assert.False(t, IsRDFSource(LDP.NonRDFSource))
	assert.False(t, IsInteractionModel(DC.Title))
}

func TestIdentifierParts(t *testing.T) {
	assert.Equal(t, "repo1", Partition("trellis:repo1/a/b"))
	assert.Equal(t, "repo1", Partition("trellis:repo1"))
	parent, ok := Parent("trellis:repo1/a/b")
	assert.True(t, ok)
	assert.Equal(t, IRI("trellis:repo1/a"), parent)
	_, ok = Parent("trellis:repo1")
	assert.False(t, ok)
}

func TestSkolemRoundTrip(t *testing.T) {
	b := BlankNode{ID: "abc"}
	sk := Skolemize(b)
	assert.Equal(t, IRI("trellis:bnode/abc"), sk)
	assert.Equal(t, b, Unskolemize(sk))
	assert.Equal(t, DC.Title, Skolemize(DC.Title))
	assert.Equal(t, DC.Title, Unskolemize(DC.Title))
}

func TestSnapshot(t *testing.T) {
	id := IRI("trellis:repo/binary")
	loc := IRI("file:1234")
	when := time.Date(2017, 6, 1, 0, 0, 0, 0, time.UTC)
	d := NewDataset(
		Quad{Trellis.PreferServerManaged, id, RDF.Type, LDP.NonRDFSource},
		Quad{Trellis.PreferServerManaged, id, DC.HasPart, loc},
		Quad{Trellis.PreferServerManaged, loc, DC.Format, NewLiteral("text/plain")},
		Quad{Trellis.PreferServerManaged, loc, DC.Extent, NewTypedLiteral("10", XSD.Long)},
		Quad{Trellis.PreferUserManaged, id, RDF.Type, IRI("http://example.org/Thing")},
		Quad{Trellis.PreferUserManaged, id, LDP.Inbox, IRI("http://example.org/inbox")},
	)
	s := NewSnapshot(id, when, d)
	assert.Equal(t, LDP.NonRDFSource, s.InteractionModel())
	assert.Equal(t, []IRI{"http://example.org/Thing"}, s.Types())
	if assert.NotNil(t, s.Binary()) {
		assert.Equal(t, loc, s.Binary().Location)
		assert.Equal(t, "text/plain", s.Binary().MimeType)
		assert.Equal(t, int64(10), s.Binary().Size)
		assert.Equal(t, when, s.Binary().Modified)
	}
	inbox, ok := s.Inbox()
	assert.True(t, ok)
	assert.Equal(t, IRI("http://example.org/inbox"), inbox)
	_, ok = s.AnnotationService()
	assert.False(t, ok)
	assert.False(t, IsDeleted(s))

	tomb := NewSnapshot(id, when, NewDataset(
		Quad{Trellis.PreferServerManaged, id, RDF.Type, LDP.Resource},
		Quad{Trellis.PreferServerManaged, id, RDF.Type, Trellis.DeletedResource},
	))
	assert.True(t, IsDeleted(tomb))
	assert.Nil(t, tomb.Binary())
}

func TestAuditQuads(t *testing.T) {
	id := IRI("trellis:repo/a")
	session := Session{Agent: "user:alice", Delegate: "user:bob", Created: time.Unix(0, 0)}
	quads := AuditUpdate(id, session)
	assert.Len(t, quads, 6)
	d := NewDataset(quads...)
	g := d.Graph(Trellis.PreferAudit)
	generated := g.Match(id, PROV.WasGeneratedBy, nil)
	if assert.Len(t, generated, 1) {
		activity := generated[0].Object
		assert.True(t, g.Contains(Triple{activity, RDF.Type, AS.Update}))
		assert.True(t, g.Contains(Triple{activity, PROV.WasAssociatedWith, IRI("user:alice")}))
		assert.True(t, g.Contains(Triple{activity, PROV.ActedOnBehalfOf, IRI("user:bob")}))
	}
	assert.Len(t, AuditCreation(id, Session{}), 5)
}
