// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldp

import (
	"fmt"
	"strings"
)

// Term is a single RDF term: an IRI, a BlankNode, or a Literal.  All
// terms are comparable values, so two terms are equal exactly when
// they compare equal with ==.
type Term interface {
	// NTriples returns the term in N-Triples syntax.
	NTriples() string
	isTerm()
}

// IRI is an absolute internationalized resource identifier.
type IRI string

// NTriples returns the IRI enclosed in angle brackets.
func (iri IRI) NTriples() string {
	return "<" + escapeIRI(string(iri)) + ">"
}

func (iri IRI) String() string { return string(iri) }

func (IRI) isTerm() {}

// BlankNode is an RDF blank node.  ID is unique within the dataset
// that holds it.
type BlankNode struct {
	ID string
}

// NTriples returns the blank node as "_:id".
func (b BlankNode) NTriples() string {
	return "_:" + b.ID
}

func (BlankNode) isTerm() {}

// Literal is an RDF literal.  An empty Datatype on a literal without
// a language tag means xsd:string; a literal with Lang set always has
// the rdf:langString datatype.
type Literal struct {
	Lexical  string
	Datatype IRI
	Lang     string
}

// NewLiteral creates a plain xsd:string literal.
func NewLiteral(value string) Literal {
	return Literal{Lexical: value}
}

// NewTypedLiteral creates a literal with an explicit datatype.
func NewTypedLiteral(value string, datatype IRI) Literal {
	if datatype == XSD.String {
		datatype = ""
	}
	return Literal{Lexical: value, Datatype: datatype}
}

// NewLangLiteral creates a language-tagged string.
func NewLangLiteral(value, lang string) Literal {
	return Literal{Lexical: value, Lang: strings.ToLower(lang)}
}

// DatatypeIRI returns the effective datatype of the literal.
func (l Literal) DatatypeIRI() IRI {
	if l.Lang != "" {
		return RDF.LangString
	}
	if l.Datatype == "" {
		return XSD.String
	}
	return l.Datatype
}

// NTriples returns the quoted literal with its language tag or
// datatype, if any.
func (l Literal) NTriples() string {
	s := `"` + escapeLiteral(l.Lexical) + `"`
	switch {
	case l.Lang != "":
		return s + "@" + l.Lang
	case l.Datatype != "" && l.Datatype != XSD.String:
		return s + "^^" + l.Datatype.NTriples()
	}
	return s
}

func (Literal) isTerm() {}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}

func escapeIRI(s string) string {
	if !strings.ContainsAny(s, "<>\"{}|^`\\ ") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '<', '>', '"', '{', '}', '|', '^', '`', '\\', ' ':
			fmt.Fprintf(&b, "\\u%04X", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Triple is an RDF statement without a graph name.
type Triple struct {
	Subject   Term
	Predicate IRI
	Object    Term
}

// InGraph places the triple in a named graph.
func (t Triple) InGraph(graph IRI) Quad {
	return Quad{Graph: graph, Subject: t.Subject, Predicate: t.Predicate, Object: t.Object}
}

func (t Triple) String() string {
	return t.Subject.NTriples() + " " + t.Predicate.NTriples() + " " + t.Object.NTriples() + " ."
}

// Quad is an RDF statement in a named graph.
type Quad struct {
	Graph     IRI
	Subject   Term
	Predicate IRI
	Object    Term
}

// Triple drops the graph name.
func (q Quad) Triple() Triple {
	return Triple{Subject: q.Subject, Predicate: q.Predicate, Object: q.Object}
}

func (q Quad) String() string {
	return q.Subject.NTriples() + " " + q.Predicate.NTriples() + " " + q.Object.NTriples() + " " + q.Graph.NTriples() + " ."
}
