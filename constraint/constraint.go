// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package constraint checks user-managed RDF against the rules each
// LDP interaction model imposes.  A violation is reported as the IRI
// of the broken rule, which the HTTP layer returns in a
// rel="http://www.w3.org/ns/ldp#constrainedBy" link.
//
// Four rules are checked, in this order:
//
// trellis:InvalidType: the graph may not give its resources an LDP
// interaction model as an rdf:type; that comes from the request.
//
// trellis:InvalidProperty: ldp:contains is always server-managed,
// and the membership properties are only allowed on direct and
// indirect containers.
//
// trellis:InvalidRange: rdf:type, ldp:inbox and the membership
// properties must have IRI objects, and ldp:membershipResource must
// name a resource on this server.
//
// trellis:InvalidCardinality: a direct or indirect container has at
// most one membership resource, one membership relation, and one
// inserted content relation, and not both ldp:hasMemberRelation and
// ldp:isMemberOfRelation.
package constraint

import (
	"github.com/diffeo/go-trellis/ldp"
	"strings"
)

// Service is the LDP ConstraintService.  The zero value is ready to
// use.
type Service struct{}

// New creates a new constraint service.
func New() ldp.ConstraintService {
	return Service{}
}

type rule struct {
	name  ldp.IRI
	check func(model ldp.IRI, baseURL string, graph *ldp.Graph) bool
}

var rules = []rule{
	{ldp.Trellis.InvalidType, invalidType},
	{ldp.Trellis.InvalidProperty, invalidProperty},
	{ldp.Trellis.InvalidRange, invalidRange},
	{ldp.Trellis.InvalidCardinality, invalidCardinality},
}

// membershipProperties may only appear on direct and indirect
// containers.
var membershipProperties = map[ldp.IRI]bool{
	ldp.LDP.MembershipResource:      true,
	ldp.LDP.HasMemberRelation:       true,
	ldp.LDP.IsMemberOfRelation:      true,
	ldp.LDP.InsertedContentRelation: true,
}

// ConstrainedBy returns the first rule the graph violates.
func (Service) ConstrainedBy(model ldp.IRI, baseURL string, graph *ldp.Graph) (ldp.IRI, bool) {
	for _, r := range rules {
		if r.check(model, baseURL, graph) {
			return r.name, true
		}
	}
	return "", false
}

func invalidType(model ldp.IRI, baseURL string, graph *ldp.Graph) bool {
	for _, t := range graph.Match(nil, ldp.RDF.Type, nil) {
		if iri, ok := t.Object.(ldp.IRI); ok && ldp.IsInteractionModel(iri) {
			return true
		}
	}
	return false
}

func hasMembership(model ldp.IRI) bool {
	return model == ldp.LDP.DirectContainer || model == ldp.LDP.IndirectContainer
}

func invalidProperty(model ldp.IRI, baseURL string, graph *ldp.Graph) bool {
	for _, t := range graph.Triples() {
		if t.Predicate == ldp.LDP.Contains {
			return true
		}
		if membershipProperties[t.Predicate] && !hasMembership(model) {
			return true
		}
	}
	return false
}

func invalidRange(model ldp.IRI, baseURL string, graph *ldp.Graph) bool {
	for _, t := range graph.Triples() {
		if t.Predicate != ldp.RDF.Type && t.Predicate != ldp.LDP.Inbox && !membershipProperties[t.Predicate] {
			continue
		}
		iri, ok := t.Object.(ldp.IRI)
		if !ok {
			return true
		}
		if t.Predicate == ldp.LDP.MembershipResource && baseURL != "" &&
			!strings.HasPrefix(string(iri), baseURL) {
			return true
		}
	}
	return false
}

func invalidCardinality(model ldp.IRI, baseURL string, graph *ldp.Graph) bool {
	if !hasMembership(model) {
		return false
	}
	counts := make(map[ldp.Term]map[ldp.IRI]int)
	for _, t := range graph.Triples() {
		if !membershipProperties[t.Predicate] {
			continue
		}
		c := counts[t.Subject]
		if c == nil {
			c = make(map[ldp.IRI]int)
			counts[t.Subject] = c
		}
		c[t.Predicate]++
	}
	for _, c := range counts {
		for _, n := range c {
			if n > 1 {
				return true
			}
		}
		if c[ldp.LDP.HasMemberRelation] > 0 && c[ldp.LDP.IsMemberOfRelation] > 0 {
			return true
		}
	}
	return false
}
