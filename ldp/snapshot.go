// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldp

import (
	"strconv"
	"time"
)

// Snapshot is a Resource built from a stored dataset.  Backends
// create one with NewSnapshot and then fill in the memento list and
// any derived quads before handing it out.
type Snapshot struct {
	id          IRI
	model       IRI
	modified    time.Time
	types       []IRI
	binary      *Binary
	inbox       IRI
	annotation  IRI
	dataset     *Dataset
	memento     bool
	mementoRefs []MementoRef
}

// NewSnapshot derives a resource from the dataset recorded for it at
// some time.  The interaction model is the LDP type declared in the
// server-managed graph; datasets that declare none are plain
// RDF sources.
func NewSnapshot(id IRI, modified time.Time, dataset *Dataset) *Snapshot {
	s := &Snapshot{
		id:       id,
		model:    LDP.RDFSource,
		modified: modified,
		dataset:  NewDataset(dataset.Quads()...),
	}
	modelSet := false
	var location IRI
	for _, q := range dataset.Quads(Trellis.PreferServerManaged) {
		if q.Subject != id {
			continue
		}
		switch q.Predicate {
		case RDF.Type:
			t, ok := q.Object.(IRI)
			if !ok {
				continue
			}
			if !modelSet && IsInteractionModel(t) {
				s.model = t
				modelSet = true
			} else {
				s.types = append(s.types, t)
			}
		case DC.HasPart:
			if loc, ok := q.Object.(IRI); ok {
				location = loc
			}
		}
	}
	for _, q := range dataset.Quads(Trellis.PreferUserManaged) {
		if q.Subject != id {
			continue
		}
		iri, ok := q.Object.(IRI)
		switch {
		case q.Predicate == RDF.Type && ok:
			s.types = append(s.types, iri)
		case q.Predicate == LDP.Inbox && ok:
			s.inbox = iri
		case q.Predicate == OA.AnnotationService && ok:
			s.annotation = iri
		}
	}
	if location != "" {
		s.binary = describeBinary(location, modified, dataset)
	}
	return s
}

func describeBinary(location IRI, modified time.Time, dataset *Dataset) *Binary {
	b := &Binary{Location: location, Modified: modified, Size: -1}
	for _, q := range dataset.Quads(Trellis.PreferServerManaged) {
		if q.Subject != location {
			continue
		}
		lit, ok := q.Object.(Literal)
		if !ok {
			continue
		}
		switch q.Predicate {
		case DC.Format:
			b.MimeType = lit.Lexical
		case DC.Extent:
			if n, err := strconv.ParseInt(lit.Lexical, 10, 64); err == nil {
				b.Size = n
			}
		case DC.Modified:
			if t, err := time.Parse(time.RFC3339Nano, lit.Lexical); err == nil {
				b.Modified = t
			}
		}
	}
	return b
}

// SetMemento marks the snapshot as a past state.
func (s *Snapshot) SetMemento(memento bool) {
	s.memento = memento
}

// SetMementos records the list of states of the resource.
func (s *Snapshot) SetMementos(refs []MementoRef) {
	s.mementoRefs = refs
}

// AddQuads adds derived quads, such as containment triples computed
// by the backend, to the snapshot.
func (s *Snapshot) AddQuads(quads ...Quad) {
	s.dataset.AddAll(quads)
}

func (s *Snapshot) Identifier() IRI { return s.id }

func (s *Snapshot) InteractionModel() IRI { return s.model }

func (s *Snapshot) Modified() time.Time { return s.modified }

func (s *Snapshot) Types() []IRI { return s.types }

func (s *Snapshot) Binary() *Binary { return s.binary }

func (s *Snapshot) Inbox() (IRI, bool) { return s.inbox, s.inbox != "" }

func (s *Snapshot) AnnotationService() (IRI, bool) {
	return s.annotation, s.annotation != ""
}

func (s *Snapshot) IsMemento() bool { return s.memento }

func (s *Snapshot) Mementos() []MementoRef { return s.mementoRefs }

func (s *Snapshot) Quads(graphs ...IRI) []Quad {
	return s.dataset.Quads(graphs...)
}

// ContainmentQuads returns the ldp:contains quads linking a container
// to its children.
func ContainmentQuads(container IRI, children []IRI) []Quad {
	quads := make([]Quad, 0, len(children))
	for _, child := range children {
		quads = append(quads, Quad{
			Graph:     LDP.PreferContainment,
			Subject:   container,
			Predicate: LDP.Contains,
			Object:    child,
		})
	}
	return quads
}

// ParentOf returns the container a dataset declares its resource to be
// part of, using the server-managed dc:isPartOf link.
func ParentOf(id IRI, dataset *Dataset) (IRI, bool) {
	for _, q := range dataset.Quads(Trellis.PreferServerManaged) {
		if q.Subject == id && q.Predicate == DC.IsPartOf {
			if parent, ok := q.Object.(IRI); ok {
				return parent, true
			}
		}
	}
	return "", false
}

// MementoIdentifier returns the identifier of the state of a resource
// recorded at some time.
func MementoIdentifier(id IRI, at time.Time) IRI {
	return IRI(string(id) + "?version=" + strconv.FormatInt(at.Unix(), 10))
}

// IsDeletedDataset reports whether a dataset to be stored describes a
// tombstone.
func IsDeletedDataset(id IRI, dataset *Dataset) bool {
	return dataset.Contains(Quad{
		Graph:     Trellis.PreferServerManaged,
		Subject:   id,
		Predicate: RDF.Type,
		Object:    Trellis.DeletedResource,
	})
}
