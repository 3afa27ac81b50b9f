// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package ldp defines the core model of a Linked Data Platform
// repository: RDF terms and datasets, stored resources, sessions, and
// the services the HTTP layer delegates to.
//
// Resources are identified internally by IRIs of the form
// "trellis:partition/path".  A resource's quads are spread across
// four named graphs: user-managed content, server-managed metadata
// (which always declares the interaction model with rdf:type), the
// WebAC access-control graph, and the audit log.  Blank nodes are
// never stored; they are skolemized to "trellis:bnode/id" IRIs.
//
// Concrete services live in sibling packages: memory and postgres
// provide ResourceService, binary and memory provide BinaryService,
// rdfio provides IOService, and so on.
package ldp

import (
	"context"
	"io"
	"time"
)

// ResourceService stores versioned resources.
type ResourceService interface {
	// Get retrieves the current state of a resource.  If no
	// resource has ever been stored at the identifier, returns
	// nil with no error.
	Get(ctx context.Context, identifier IRI) (Resource, error)

	// GetAt retrieves the state of a resource as of some time.
	// The result is a memento: the newest state recorded at or
	// before that time, compared to the second.  Returns nil with
	// no error if there was no such state.
	GetAt(ctx context.Context, identifier IRI, at time.Time) (Resource, error)

	// Put records a new state of a resource.  The dataset is the
	// complete new content across all named graphs; nothing is
	// carried over from the previous state.
	Put(ctx context.Context, identifier IRI, dataset *Dataset) error

	// Skolemize replaces a blank node with a stable IRI.
	Skolemize(term Term) Term

	// Unskolemize reverses Skolemize.
	Unskolemize(term Term) Term

	// IdentifierSupplier returns a function that generates new,
	// unique path segments for created resources.
	IdentifierSupplier() func() string
}

// IOService reads, writes and updates RDF.
type IOService interface {
	// Read parses a document in some syntax.  Relative IRIs are
	// resolved against base.
	Read(r io.Reader, base string, syntax Syntax) ([]Triple, error)

	// Write serializes triples.  Profiles select syntax-specific
	// variants, such as a JSON-LD form or the subject of an RDFa
	// page.
	Write(w io.Writer, triples []Triple, syntax Syntax, profiles ...IRI) error

	// Update applies a SPARQL Update request to a graph in place.
	Update(graph *Graph, update string, base string) error
}

// BinaryService stores the content of non-RDF sources.
type BinaryService interface {
	// Content opens the stored content at a location.  Returns
	// ErrNoSuchBinary if there is none.
	Content(ctx context.Context, partition string, location IRI) (io.ReadCloser, error)

	// ContentRange opens the inclusive byte range [from, to] of the
	// stored content.
	ContentRange(ctx context.Context, partition string, location IRI, from, to int64) (io.ReadCloser, error)

	// SetContent stores content at a location, replacing anything
	// already there.  Content is visible only once SetContent has
	// returned successfully.
	SetContent(ctx context.Context, partition string, location IRI, r io.Reader) error

	// IdentifierSupplier returns a function generating new
	// locations within a partition.
	IdentifierSupplier(partition string) func() IRI

	// SupportedAlgorithms lists the digest algorithms Digest
	// understands, in lower case.
	SupportedAlgorithms() []string

	// Digest computes the base64-encoded digest of a stream.
	// Returns ErrUnsupportedAlgorithm for unknown algorithms.
	Digest(algorithm string, r io.Reader) (string, error)
}

// ConstraintService validates user-managed content against the rules
// of an interaction model.
type ConstraintService interface {
	// ConstrainedBy returns the IRI of the first rule the graph
	// violates, or false if it satisfies every rule.  Resource IRIs
	// in the graph are external, under baseURL.
	ConstrainedBy(model IRI, baseURL string, graph *Graph) (IRI, bool)
}

// AgentService maps authenticated principal names to agent IRIs.
type AgentService interface {
	AsAgent(principal string) IRI
}

// AccessControlService computes the WebAC modes a session holds.
type AccessControlService interface {
	// AccessModes returns the set of acl:mode IRIs the session
	// may exercise on a resource.
	AccessModes(ctx context.Context, identifier IRI, session Session) ([]IRI, error)
}
