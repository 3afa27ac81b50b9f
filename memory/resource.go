// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package memory provides in-process, in-memory implementations of
// ldp.ResourceService and ldp.BinaryService.  There is no
// persistence.  Each service is behind a single mutex to protect
// against concurrent updates; in some cases this can limit
// performance in the name of correctness.
//
// This is mostly intended as a simple reference implementation that
// can be used for testing, including in-process testing of the HTTP
// layer.  It is generally tuned for correctness, not performance or
// scalability.
package memory

import (
	"context"
	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/satori/go.uuid"
	"sort"
	"sync"
	"time"
)

// New creates a new resource service that operates purely in memory.
func New() ldp.ResourceService {
	return NewWithClock(clock.New())
}

// NewWithClock creates a new in-memory resource service with an
// alternate time source.
func NewWithClock(clk clock.Clock) ldp.ResourceService {
	return &resourceService{
		clock:     clk,
		resources: make(map[ldp.IRI][]version),
		children:  make(map[ldp.IRI]map[ldp.IRI]struct{}),
	}
}

type version struct {
	modified time.Time
	dataset  *ldp.Dataset
}

type resourceService struct {
	clock     clock.Clock
	sem       sync.Mutex
	resources map[ldp.IRI][]version
	children  map[ldp.IRI]map[ldp.IRI]struct{}
}

func (s *resourceService) Get(ctx context.Context, id ldp.IRI) (ldp.Resource, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	versions := s.resources[id]
	if len(versions) == 0 {
		return nil, nil
	}
	return s.snapshot(id, versions, len(versions)-1, false), nil
}

func (s *resourceService) GetAt(ctx context.Context, id ldp.IRI, at time.Time) (ldp.Resource, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	versions := s.resources[id]
	for i := len(versions) - 1; i >= 0; i-- {
		if !versions[i].modified.Truncate(time.Second).After(at) {
			return s.snapshot(id, versions, i, true), nil
		}
	}
	return nil, nil
}

func (s *resourceService) Put(ctx context.Context, id ldp.IRI, dataset *ldp.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.sem.Lock()
	defer s.sem.Unlock()

	v := version{
		modified: s.clock.Now().UTC(),
		dataset:  ldp.NewDataset(dataset.Quads()...),
	}
	s.resources[id] = append(s.resources[id], v)
	if parent, ok := ldp.ParentOf(id, dataset); ok {
		kids := s.children[parent]
		if kids == nil {
			kids = make(map[ldp.IRI]struct{})
			s.children[parent] = kids
		}
		kids[id] = struct{}{}
	}
	return nil
}

func (s *resourceService) Skolemize(term ldp.Term) ldp.Term {
	return ldp.Skolemize(term)
}

func (s *resourceService) Unskolemize(term ldp.Term) ldp.Term {
	return ldp.Unskolemize(term)
}

func (s *resourceService) IdentifierSupplier() func() string {
	return func() string { return uuid.NewV4().String() }
}

// snapshot builds the resource for versions[i].  Callers must hold
// the lock.
func (s *resourceService) snapshot(id ldp.IRI, versions []version, i int, memento bool) ldp.Resource {
	v := versions[i]
	snap := ldp.NewSnapshot(id, v.modified, v.dataset)
	snap.SetMemento(memento)
	snap.SetMementos(mementoRefs(id, versions))
	if !memento && ldp.IsContainer(snap.InteractionModel()) {
		snap.AddQuads(ldp.ContainmentQuads(id, s.liveChildren(id))...)
	}
	return snap
}

func (s *resourceService) liveChildren(id ldp.IRI) []ldp.IRI {
	var live []ldp.IRI
	for child := range s.children[id] {
		versions := s.resources[child]
		if len(versions) == 0 {
			continue
		}
		if !ldp.IsDeletedDataset(child, versions[len(versions)-1].dataset) {
			live = append(live, child)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i] < live[j] })
	return live
}

// mementoRefs lists one memento per second in which the resource was
// written, the last write in each second winning.
func mementoRefs(id ldp.IRI, versions []version) []ldp.MementoRef {
	var refs []ldp.MementoRef
	for _, v := range versions {
		at := v.modified.Truncate(time.Second)
		if n := len(refs); n > 0 && refs[n-1].Datetime.Equal(at) {
			continue
		}
		refs = append(refs, ldp.MementoRef{Datetime: at, Identifier: ldp.MementoIdentifier(id, at)})
	}
	return refs
}
