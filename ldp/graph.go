// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldp

// Graph is a set of triples that remembers insertion order.  The
// zero value is an empty graph ready to use.  A Graph is not safe
// for concurrent modification.
type Graph struct {
	triples []Triple
	index   map[Triple]int
}

// NewGraph creates a graph holding the given triples.
func NewGraph(triples ...Triple) *Graph {
	g := &Graph{}
	for _, t := range triples {
		g.Add(t)
	}
	return g
}

// Add inserts a triple, returning false if it was already present.
func (g *Graph) Add(t Triple) bool {
	if g.index == nil {
		g.index = make(map[Triple]int)
	}
	if _, present := g.index[t]; present {
		return false
	}
	g.index[t] = len(g.triples)
	g.triples = append(g.triples, t)
	return true
}

// Remove deletes a triple, returning false if it was not present.
func (g *Graph) Remove(t Triple) bool {
	i, present := g.index[t]
	if !present {
		return false
	}
	delete(g.index, t)
	copy(g.triples[i:], g.triples[i+1:])
	g.triples = g.triples[:len(g.triples)-1]
	for j := i; j < len(g.triples); j++ {
		g.index[g.triples[j]] = j
	}
	return true
}

// Contains reports whether the triple is in the graph.
func (g *Graph) Contains(t Triple) bool {
	_, present := g.index[t]
	return present
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns a copy of the triples in insertion order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Match returns the triples matching a pattern, where a nil term (or
// an empty predicate) matches anything.
func (g *Graph) Match(subject Term, predicate IRI, object Term) []Triple {
	var out []Triple
	for _, t := range g.triples {
		if subject != nil && t.Subject != subject {
			continue
		}
		if predicate != "" && t.Predicate != predicate {
			continue
		}
		if object != nil && t.Object != object {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Dataset is a set of quads spread across named graphs.  Like Graph,
// its zero value is empty and it keeps insertion order.
type Dataset struct {
	quads []Quad
	index map[Quad]struct{}
}

// NewDataset creates a dataset holding the given quads.
func NewDataset(quads ...Quad) *Dataset {
	d := &Dataset{}
	for _, q := range quads {
		d.Add(q)
	}
	return d
}

// Add inserts a quad, ignoring duplicates.
func (d *Dataset) Add(q Quad) {
	if d.index == nil {
		d.index = make(map[Quad]struct{})
	}
	if _, present := d.index[q]; present {
		return
	}
	d.index[q] = struct{}{}
	d.quads = append(d.quads, q)
}

// AddAll inserts every quad in a slice.
func (d *Dataset) AddAll(quads []Quad) {
	for _, q := range quads {
		d.Add(q)
	}
}

// AddGraph inserts every triple of a graph into the named graph.
func (d *Dataset) AddGraph(name IRI, triples []Triple) {
	for _, t := range triples {
		d.Add(t.InGraph(name))
	}
}

// Contains reports whether the quad is in the dataset.
func (d *Dataset) Contains(q Quad) bool {
	_, present := d.index[q]
	return present
}

// Len returns the number of quads.
func (d *Dataset) Len() int {
	return len(d.quads)
}

// Quads returns the quads in the named graphs, or all quads if no
// graph is named.
func (d *Dataset) Quads(graphs ...IRI) []Quad {
	if len(graphs) == 0 {
		out := make([]Quad, len(d.quads))
		copy(out, d.quads)
		return out
	}
	var out []Quad
	for _, q := range d.quads {
		for _, g := range graphs {
			if q.Graph == g {
				out = append(out, q)
				break
			}
		}
	}
	return out
}

// Graph returns the triples of a single named graph.
func (d *Dataset) Graph(name IRI) *Graph {
	g := &Graph{}
	for _, q := range d.quads {
		if q.Graph == name {
			g.Add(q.Triple())
		}
	}
	return g
}
