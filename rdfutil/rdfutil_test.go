// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package rdfutil

import (
	"github.com/diffeo/go-trellis/ldp"
	"github.com/diffeo/go-trellis/ldpdata"
	"github.com/diffeo/go-trellis/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSelectSyntax(t *testing.T) {
	s, ok := SelectSyntax(ldpdata.ParseAccept("application/json, text/xml, text/turtle"), ldp.Syntaxes)
	assert.True(t, ok)
	assert.Equal(t, ldp.Turtle, s)

	s, ok = SelectSyntax(ldpdata.ParseAccept(""), ldp.Syntaxes)
	assert.True(t, ok)
	assert.Equal(t, ldp.Turtle, s)

	s, ok = SelectSyntax(ldpdata.ParseAccept("application/*"), ldp.Syntaxes)
	assert.True(t, ok)
	assert.Equal(t, ldp.JSONLD, s)

	s, ok = SelectSyntax(ldpdata.ParseAccept("text/html;q=0.9, application/n-triples"), ldp.Syntaxes)
	assert.True(t, ok)
	assert.Equal(t, ldp.NTriples, s)

	_, ok = SelectSyntax(ldpdata.ParseAccept("application/json"), ldp.Syntaxes)
	assert.False(t, ok)

	_, ok = ExplicitSyntax(ldpdata.ParseAccept("*/*"), ldp.Syntaxes)
	assert.False(t, ok)
	s, ok = ExplicitSyntax(ldpdata.ParseAccept("*/*;q=0.5, application/ld+json"), ldp.Syntaxes)
	assert.True(t, ok)
	assert.Equal(t, ldp.JSONLD, s)

	mr, ok := RangeFor(ldpdata.ParseAccept(`application/ld+json; profile="http://www.w3.org/ns/json-ld#compacted"`), ldp.JSONLD.MediaType)
	assert.True(t, ok)
	assert.Equal(t, string(ldp.JSONLDCompacted), mr.Params["profile"])
}

func filterQuads(quads []ldp.Quad, f func(ldp.Quad) bool) []ldp.Quad {
	var out []ldp.Quad
	for _, q := range quads {
		if f(q) {
			out = append(out, q)
		}
	}
	return out
}

func TestFilterWithPrefer(t *testing.T) {
	iri := ldp.IRI("trellis:repository/resource")
	q1 := ldp.Quad{Graph: ldp.Trellis.PreferAudit, Subject: iri, Predicate: ldp.DC.Creator, Object: ldp.NewLiteral("me")}
	q2 := ldp.Quad{Graph: ldp.Trellis.PreferServerManaged, Subject: iri, Predicate: ldp.DC.Modified, Object: ldp.NewLiteral("now")}
	q3 := ldp.Quad{Graph: ldp.Trellis.PreferUserManaged, Subject: iri, Predicate: ldp.DC.Title, Object: ldp.NewLiteral("subj")}
	q4 := ldp.Quad{Graph: ldp.Trellis.PreferAccessControl, Subject: iri, Predicate: ldp.ACL.Mode, Object: ldp.ACL.Read}
	q5 := ldp.Quad{Graph: ldp.LDP.PreferContainment, Subject: iri, Predicate: ldp.LDP.Contains, Object: ldp.IRI("trellis:repository/resource/child")}
	quads := []ldp.Quad{q1, q2, q3, q4, q5}

	prefer, err := ldpdata.ParsePrefer(`return=representation; include="` + string(ldp.Trellis.PreferServerManaged) + `"`)
	require.NoError(t, err)
	assert.Equal(t, []ldp.Quad{q2, q3, q5}, filterQuads(quads, FilterWithPrefer(prefer, false)))

	prefer, err = ldpdata.ParsePrefer("return=representation")
	require.NoError(t, err)
	assert.Equal(t, []ldp.Quad{q3, q5}, filterQuads(quads, FilterWithPrefer(prefer, false)))
	assert.Equal(t, []ldp.Quad{q3, q5}, filterQuads(quads, FilterWithPrefer(nil, false)))

	prefer, err = ldpdata.ParsePrefer(`return=representation; omit="` + string(ldp.Trellis.PreferUserManaged) + `"`)
	require.NoError(t, err)
	assert.Equal(t, []ldp.Quad{q5}, filterQuads(quads, FilterWithPrefer(prefer, false)))

	prefer, err = ldpdata.ParsePrefer(`return=representation; include="` + string(ldp.LDP.PreferMinimalContainer) + `"`)
	require.NoError(t, err)
	assert.Equal(t, []ldp.Quad{q3}, filterQuads(quads, FilterWithPrefer(prefer, false)))

	assert.Equal(t, []ldp.Quad{q4}, filterQuads(quads, FilterWithPrefer(nil, true)))
}

func TestExternalize(t *testing.T) {
	iri1 := ldp.IRI("trellis:repository/resource")
	iri2 := ldp.IRI("http://example.org/resource")
	literal := ldp.NewLiteral("Text")
	external := "http://localhost/api/"
	assert.Equal(t, ldp.IRI(external+"repository/resource"), ToExternal(iri1, external))
	assert.Equal(t, ldp.IRI(external+"repository/resource"), ToExternal(iri1, "http://localhost/api"))
	assert.Equal(t, iri2, ToExternal(iri2, external))
	assert.Equal(t, literal, ToExternal(literal, external))

	assert.Equal(t, iri1, ToInternal(ldp.IRI(external+"repository/resource"), external))
	assert.Equal(t, iri2, ToInternal(iri2, external))
}

func TestSkolemizeRoundTrip(t *testing.T) {
	svc := memory.New()
	base := "http://localhost/"
	bnode := ldp.BlankNode{ID: "b0"}
	in := ldp.Triple{Subject: ldp.IRI(base + "repo/a"), Predicate: ldp.DC.HasPart, Object: bnode}

	stored := Internalize(svc, base)(in)
	assert.Equal(t, ldp.IRI("trellis:repo/a"), stored.Subject)
	assert.Equal(t, ldp.IRI("trellis:bnode/b0"), stored.Object)

	out := Externalize(svc, base)(stored)
	assert.Equal(t, in, out)

	triples := MapTriples([]ldp.Triple{in, in}, Internalize(svc, base))
	assert.Equal(t, triples[0].Object, triples[1].Object)
}
