// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldp

import (
	"strings"
	"time"
)

// Resource is a single stored state of a repository resource: either
// its current state or a memento of a past state.  Resources are
// immutable once returned from a ResourceService.
type Resource interface {
	// Identifier returns the internal IRI of the resource, of the
	// form "trellis:partition/path".
	Identifier() IRI

	// InteractionModel returns the LDP interaction model, one of
	// the LDP resource or container types.
	InteractionModel() IRI

	// Modified returns the time this state was recorded.
	Modified() time.Time

	// Types returns the additional rdf:type values of the
	// resource.  A deleted resource includes
	// Trellis.DeletedResource here.
	Types() []IRI

	// Binary returns the description of the binary content of a
	// non-RDF source, or nil if there is none.
	Binary() *Binary

	// Inbox returns the LDN inbox of the resource, if any.
	Inbox() (IRI, bool)

	// AnnotationService returns the annotation service linked to
	// the resource, if any.
	AnnotationService() (IRI, bool)

	// IsMemento returns true if this is a past state retrieved by
	// datetime rather than the current state.
	IsMemento() bool

	// Mementos lists every recorded state of the resource, oldest
	// first.
	Mementos() []MementoRef

	// Quads returns the quads of the named graphs, or every quad
	// if no graph is named.
	Quads(graphs ...IRI) []Quad
}

// Binary describes the content of a non-RDF source.
type Binary struct {
	// Location is the identifier the BinaryService stores the
	// content under.
	Location IRI

	// Modified is the time the content was last written.
	Modified time.Time

	// MimeType is the media type of the content, if known.
	MimeType string

	// Size is the content length in bytes, or -1 if unknown.
	Size int64
}

// MementoRef identifies one recorded state of a resource.
type MementoRef struct {
	Datetime   time.Time
	Identifier IRI
}

// IsDeleted returns true if the resource is a tombstone.
func IsDeleted(res Resource) bool {
	if res.InteractionModel() != LDP.Resource {
		return false
	}
	for _, t := range res.Types() {
		if t == Trellis.DeletedResource {
			return true
		}
	}
	return false
}

var modelParents = map[IRI]IRI{
	LDP.BasicContainer:    LDP.Container,
	LDP.DirectContainer:   LDP.Container,
	LDP.IndirectContainer: LDP.Container,
	LDP.Container:         LDP.RDFSource,
	LDP.RDFSource:         LDP.Resource,
	LDP.NonRDFSource:      LDP.Resource,
}

// ModelTypes returns an interaction model followed by each of the
// LDP types it specializes, ending with LDP.Resource.
func ModelTypes(model IRI) []IRI {
	types := []IRI{model}
	for {
		parent, ok := modelParents[model]
		if !ok {
			return types
		}
		types = append(types, parent)
		model = parent
	}
}

// IsInteractionModel returns true if the IRI names one of the LDP
// interaction models.
func IsInteractionModel(iri IRI) bool {
	if iri == LDP.Resource {
		return true
	}
	_, ok := modelParents[iri]
	return ok
}

// IsContainer returns true for the container interaction models.
func IsContainer(model IRI) bool {
	for _, t := range ModelTypes(model) {
		if t == LDP.Container {
			return true
		}
	}
	return false
}

// IsRDFSource returns true for interaction models whose content is
// RDF, which includes every container.
func IsRDFSource(model IRI) bool {
	for _, t := range ModelTypes(model) {
		if t == LDP.RDFSource {
			return true
		}
	}
	return false
}

// Partition returns the partition name of an internal identifier.
func Partition(identifier IRI) string {
	rest := strings.TrimPrefix(string(identifier), TrellisPrefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i]
	}
	return rest
}

// Parent returns the identifier one path segment above an internal
// identifier.  The partition root has no parent.
func Parent(identifier IRI) (IRI, bool) {
	s := string(identifier)
	if !strings.HasPrefix(s, TrellisPrefix) {
		return "", false
	}
	i := strings.LastIndexByte(s, '/')
	if i < 0 {
		return "", false
	}
	return IRI(s[:i]), true
}
