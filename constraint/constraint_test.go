// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package constraint

import (
	"github.com/diffeo/go-trellis/ldp"
	"github.com/stretchr/testify/assert"
	"testing"
)

const base = "http://localhost/"

var subject = ldp.IRI(base + "repo/resource")

func graph(triples ...ldp.Triple) *ldp.Graph {
	return ldp.NewGraph(triples...)
}

func triple(p ldp.IRI, o ldp.Term) ldp.Triple {
	return ldp.Triple{Subject: subject, Predicate: p, Object: o}
}

func TestValid(t *testing.T) {
	g := graph(
		triple(ldp.DC.Title, ldp.NewLiteral("A title")),
		triple(ldp.RDF.Type, ldp.FOAF.Agent),
		triple(ldp.LDP.Inbox, ldp.IRI(base+"repo/inbox")),
	)
	for _, model := range []ldp.IRI{ldp.LDP.RDFSource, ldp.LDP.BasicContainer, ldp.LDP.DirectContainer} {
		_, bad := New().ConstrainedBy(model, base, g)
		assert.False(t, bad, model)
	}
}

func TestMembershipValid(t *testing.T) {
	g := graph(
		triple(ldp.LDP.MembershipResource, ldp.IRI(base+"repo/members")),
		triple(ldp.LDP.HasMemberRelation, ldp.DC.HasPart),
	)
	_, bad := New().ConstrainedBy(ldp.LDP.DirectContainer, base, g)
	assert.False(t, bad)
}

func TestViolations(t *testing.T) {
	for _, c := range []struct {
		Name  string
		Model ldp.IRI
		Graph *ldp.Graph
		Rule  ldp.IRI
	}{
		{"ldp type", ldp.LDP.RDFSource,
			graph(triple(ldp.RDF.Type, ldp.LDP.BasicContainer)),
			ldp.Trellis.InvalidType},
		{"contains", ldp.LDP.BasicContainer,
			graph(triple(ldp.LDP.Contains, ldp.IRI(base+"repo/x"))),
			ldp.Trellis.InvalidProperty},
		{"membership on basic container", ldp.LDP.BasicContainer,
			graph(triple(ldp.LDP.HasMemberRelation, ldp.DC.HasPart)),
			ldp.Trellis.InvalidProperty},
		{"literal type", ldp.LDP.RDFSource,
			graph(triple(ldp.RDF.Type, ldp.NewLiteral("Thing"))),
			ldp.Trellis.InvalidRange},
		{"blank inbox", ldp.LDP.RDFSource,
			graph(triple(ldp.LDP.Inbox, ldp.BlankNode{ID: "b"})),
			ldp.Trellis.InvalidRange},
		{"foreign membership resource", ldp.LDP.DirectContainer,
			graph(triple(ldp.LDP.MembershipResource, ldp.IRI("http://example.com/x"))),
			ldp.Trellis.InvalidRange},
		{"two membership resources", ldp.LDP.DirectContainer,
			graph(
				triple(ldp.LDP.MembershipResource, ldp.IRI(base+"repo/a")),
				triple(ldp.LDP.MembershipResource, ldp.IRI(base+"repo/b")),
			),
			ldp.Trellis.InvalidCardinality},
		{"both relations", ldp.LDP.IndirectContainer,
			graph(
				triple(ldp.LDP.HasMemberRelation, ldp.DC.HasPart),
				triple(ldp.LDP.IsMemberOfRelation, ldp.DC.IsPartOf),
			),
			ldp.Trellis.InvalidCardinality},
	} {
		rule, bad := New().ConstrainedBy(c.Model, base, c.Graph)
		if assert.True(t, bad, c.Name) {
			assert.Equal(t, c.Rule, rule, c.Name)
		}
	}
}

// TestRuleOrder checks that the first broken rule is reported.
func TestRuleOrder(t *testing.T) {
	g := graph(
		triple(ldp.LDP.Contains, ldp.NewLiteral("x")),
		triple(ldp.RDF.Type, ldp.LDP.Container),
	)
	rule, bad := New().ConstrainedBy(ldp.LDP.BasicContainer, base, g)
	assert.True(t, bad)
	assert.Equal(t, ldp.Trellis.InvalidType, rule)
}
