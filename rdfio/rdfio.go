// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package rdfio implements ldp.IOService: reading Turtle, N-Triples
// and JSON-LD, writing those plus RDFa-annotated HTML, and applying
// SPARQL Update requests to a graph.
//
// JSON-LD and N-Triples go through github.com/piprate/json-gold.
// Turtle and the triple patterns of SPARQL Update share a parser in
// this package.
package rdfio

import (
	"bytes"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/piprate/json-gold/ld"
	"io"
)

// Service is the RDF I/O service.  It is safe for concurrent use.
type Service struct {
	proc *ld.JsonLdProcessor
}

// New creates a new I/O service.
func New() *Service {
	return &Service{proc: ld.NewJsonLdProcessor()}
}

// Read parses a document.  Syntax errors are returned as
// ldp.ErrInvalidRDF.
func (s *Service) Read(r io.Reader, base string, syntax ldp.Syntax) ([]ldp.Triple, error) {
	var (
		triples []ldp.Triple
		err     error
	)
	switch syntax.MediaType {
	case ldp.Turtle.MediaType:
		triples, err = readTurtle(r, base)
	case ldp.NTriples.MediaType:
		triples, err = readNTriples(r)
	case ldp.JSONLD.MediaType:
		triples, err = s.readJSONLD(r, base)
	default:
		return nil, ldp.ErrUnsupportedSyntax{Syntax: syntax}
	}
	if err != nil {
		return nil, ldp.ErrInvalidRDF{Err: err}
	}
	return triples, nil
}

// Write serializes triples in some syntax.
func (s *Service) Write(w io.Writer, triples []ldp.Triple, syntax ldp.Syntax, profiles ...ldp.IRI) error {
	switch syntax.MediaType {
	case ldp.Turtle.MediaType:
		return writeTurtle(w, triples)
	case ldp.NTriples.MediaType:
		return writeNTriples(w, triples)
	case ldp.JSONLD.MediaType:
		return s.writeJSONLD(w, triples, profiles)
	case ldp.RDFa.MediaType:
		return writeRDFa(w, triples, profiles)
	}
	return ldp.ErrUnsupportedSyntax{Syntax: syntax}
}

// Update applies a SPARQL Update request.  Relative IRIs resolve
// against base.  Either every operation applies or, on a parse
// error, none do.
func (s *Service) Update(graph *ldp.Graph, update string, base string) error {
	ops, err := parseUpdate(update, base)
	if err != nil {
		return ldp.ErrInvalidRDF{Err: err}
	}
	work := ldp.NewGraph(graph.Triples()...)
	for _, op := range ops {
		if err := op.apply(work); err != nil {
			return ldp.ErrInvalidRDF{Err: err}
		}
	}
	for _, t := range graph.Triples() {
		if !work.Contains(t) {
			graph.Remove(t)
		}
	}
	for _, t := range work.Triples() {
		graph.Add(t)
	}
	return nil
}

func readAll(r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var _ ldp.IOService = (*Service)(nil)
