// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldp

import "strings"

// SkolemPrefix begins every IRI that stands for a stored blank node.
const SkolemPrefix = TrellisPrefix + "bnode/"

// Skolemize replaces a blank node with its stable IRI.  Other terms
// are returned unchanged.
func Skolemize(term Term) Term {
	if b, ok := term.(BlankNode); ok {
		return IRI(SkolemPrefix + b.ID)
	}
	return term
}

// Unskolemize reverses Skolemize.
func Unskolemize(term Term) Term {
	if iri, ok := term.(IRI); ok && strings.HasPrefix(string(iri), SkolemPrefix) {
		return BlankNode{ID: strings.TrimPrefix(string(iri), SkolemPrefix)}
	}
	return term
}
