// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package rdfutil holds the RDF transformations the HTTP handlers
// apply between stored quads and wire representations: choosing an
// output syntax, filtering named graphs by preference, and rewriting
// blank nodes and internal IRIs.
package rdfutil

import (
	"github.com/diffeo/go-trellis/ldp"
	"github.com/diffeo/go-trellis/ldpdata"
	"strings"
)

// SelectSyntax returns the first candidate syntax compatible with
// the ordered media ranges of an Accept header.  For each range in
// turn, candidates are tried in order, so "*/*" picks the first
// candidate.
func SelectSyntax(ranges []ldpdata.MediaRange, candidates []ldp.Syntax) (ldp.Syntax, bool) {
	for _, mr := range ranges {
		for _, s := range candidates {
			if mr.Matches(s.MediaType) {
				return s, true
			}
		}
	}
	return ldp.Syntax{}, false
}

// ExplicitSyntax is like SelectSyntax, but ignores wildcard ranges:
// it succeeds only if the client named an RDF syntax outright.
func ExplicitSyntax(ranges []ldpdata.MediaRange, candidates []ldp.Syntax) (ldp.Syntax, bool) {
	var explicit []ldpdata.MediaRange
	for _, mr := range ranges {
		if !mr.IsWildcard() {
			explicit = append(explicit, mr)
		}
	}
	return SelectSyntax(explicit, candidates)
}

// RangeFor returns the first media range matching a media type, so
// callers can read its parameters.
func RangeFor(ranges []ldpdata.MediaRange, mediaType string) (ldpdata.MediaRange, bool) {
	for _, mr := range ranges {
		if mr.Matches(mediaType) {
			return mr, true
		}
	}
	return ldpdata.MediaRange{}, false
}

// DefaultRepresentation lists the graphs returned when a Prefer
// header does not say otherwise.
var DefaultRepresentation = []ldp.IRI{
	ldp.Trellis.PreferUserManaged,
	ldp.LDP.PreferContainment,
	ldp.LDP.PreferMembership,
}

// FilterWithPrefer returns a predicate selecting the quads to include
// in a representation.  On the access-control subresource only the
// access-control graph is returned.  Otherwise server-managed and
// audit quads appear only when included, and the default graphs
// appear unless omitted.  Including ldp:PreferMinimalContainer drops
// containment and membership triples.  A minimal preference drops the user-managed
// and containment graphs unless they are included.
func FilterWithPrefer(prefer *ldpdata.PreferHeader, acl bool) func(ldp.Quad) bool {
	return func(q ldp.Quad) bool {
		if acl {
			return q.Graph == ldp.Trellis.PreferAccessControl
		}
		g := string(q.Graph)
		switch q.Graph {
		case ldp.Trellis.PreferAccessControl:
			return false
		case ldp.Trellis.PreferServerManaged, ldp.Trellis.PreferAudit:
			return prefer.Includes(g)
		case ldp.LDP.PreferContainment, ldp.LDP.PreferMembership:
			if prefer.Includes(string(ldp.LDP.PreferMinimalContainer)) && !prefer.Includes(g) {
				return false
			}
			fallthrough
		case ldp.Trellis.PreferUserManaged:
			if prefer.Omits(g) {
				return false
			}
			if prefer != nil && prefer.Preference == ldpdata.PreferMinimal {
				return prefer.Includes(g)
			}
			return true
		}
		return false
	}
}

// ToExternal rewrites an internal "trellis:" IRI to an absolute URL
// under baseURL.  Other terms, including skolem IRIs, are returned
// unchanged.
func ToExternal(term ldp.Term, baseURL string) ldp.Term {
	iri, ok := term.(ldp.IRI)
	if !ok {
		return term
	}
	s := string(iri)
	if !strings.HasPrefix(s, ldp.TrellisPrefix) || strings.HasPrefix(s, ldp.SkolemPrefix) {
		return term
	}
	return ldp.IRI(withSlash(baseURL) + strings.TrimPrefix(s, ldp.TrellisPrefix))
}

// ToInternal reverses ToExternal for IRIs under baseURL.
func ToInternal(term ldp.Term, baseURL string) ldp.Term {
	iri, ok := term.(ldp.IRI)
	if !ok {
		return term
	}
	base := withSlash(baseURL)
	s := string(iri)
	if !strings.HasPrefix(s, base) {
		return term
	}
	return ldp.IRI(ldp.TrellisPrefix + strings.TrimPrefix(s, base))
}

func withSlash(baseURL string) string {
	if strings.HasSuffix(baseURL, "/") {
		return baseURL
	}
	return baseURL + "/"
}

// Externalize converts a stored triple to its wire form: skolem IRIs
// become blank nodes again and internal IRIs become URLs.
func Externalize(svc ldp.ResourceService, baseURL string) func(ldp.Triple) ldp.Triple {
	conv := func(term ldp.Term) ldp.Term {
		return ToExternal(svc.Unskolemize(term), baseURL)
	}
	return func(t ldp.Triple) ldp.Triple {
		return ldp.Triple{
			Subject:   conv(t.Subject),
			Predicate: conv(t.Predicate).(ldp.IRI),
			Object:    conv(t.Object),
		}
	}
}

// Internalize converts a triple read from a request to its stored
// form, the inverse of Externalize.
func Internalize(svc ldp.ResourceService, baseURL string) func(ldp.Triple) ldp.Triple {
	conv := func(term ldp.Term) ldp.Term {
		return svc.Skolemize(ToInternal(term, baseURL))
	}
	return func(t ldp.Triple) ldp.Triple {
		return ldp.Triple{
			Subject:   conv(t.Subject),
			Predicate: conv(t.Predicate).(ldp.IRI),
			Object:    conv(t.Object),
		}
	}
}

// MapTriples applies a conversion to every triple.
func MapTriples(triples []ldp.Triple, f func(ldp.Triple) ldp.Triple) []ldp.Triple {
	out := make([]ldp.Triple, len(triples))
	for i, t := range triples {
		out[i] = f(t)
	}
	return out
}
