// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package rdfio

import (
	"fmt"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/piprate/json-gold/ld"
	"github.com/ugorji/go/codec"
	"io"
	"sort"
	"strings"
)

// ldBlanks maps the blank node labels of one json-gold dataset to
// fresh blank nodes, so labels from different documents never
// collide once skolemized.
type ldBlanks map[string]ldp.BlankNode

func (b ldBlanks) term(n ld.Node) (ldp.Term, error) {
	switch v := n.(type) {
	case ld.IRI:
		return ldp.IRI(v.Value), nil
	case *ld.IRI:
		return ldp.IRI(v.Value), nil
	case ld.BlankNode:
		return b.blank(v.Attribute), nil
	case *ld.BlankNode:
		return b.blank(v.Attribute), nil
	case ld.Literal:
		return literal(v), nil
	case *ld.Literal:
		return literal(*v), nil
	}
	return nil, fmt.Errorf("unexpected RDF node %T", n)
}

func (b ldBlanks) blank(attribute string) ldp.BlankNode {
	label := strings.TrimPrefix(attribute, "_:")
	bn, ok := b[label]
	if !ok {
		bn = newBlankNode()
		b[label] = bn
	}
	return bn
}

func literal(l ld.Literal) ldp.Literal {
	if l.Language != "" {
		return ldp.NewLangLiteral(l.Value, l.Language)
	}
	return ldp.NewTypedLiteral(l.Value, ldp.IRI(l.Datatype))
}

func (b ldBlanks) triples(dataset *ld.RDFDataset) ([]ldp.Triple, error) {
	var out []ldp.Triple
	for _, q := range dataset.Graphs["@default"] {
		s, err := b.term(q.Subject)
		if err != nil {
			return nil, err
		}
		pred, err := b.term(q.Predicate)
		if err != nil {
			return nil, err
		}
		predIRI, ok := pred.(ldp.IRI)
		if !ok {
			return nil, fmt.Errorf("%v used as predicate", pred.NTriples())
		}
		o, err := b.term(q.Object)
		if err != nil {
			return nil, err
		}
		out = append(out, ldp.Triple{Subject: s, Predicate: predIRI, Object: o})
	}
	return out, nil
}

func ldNode(t ldp.Term) ld.Node {
	switch v := t.(type) {
	case ldp.IRI:
		return ld.NewIRI(string(v))
	case ldp.BlankNode:
		return ld.NewBlankNode("_:" + v.ID)
	case ldp.Literal:
		return ld.NewLiteral(v.Lexical, string(v.DatatypeIRI()), v.Lang)
	}
	return nil
}

func ldDataset(triples []ldp.Triple) *ld.RDFDataset {
	dataset := ld.NewRDFDataset()
	quads := make([]*ld.Quad, 0, len(triples))
	for _, t := range triples {
		quads = append(quads, ld.NewQuad(ldNode(t.Subject), ldNode(t.Predicate), ldNode(t.Object), "@default"))
	}
	dataset.Graphs["@default"] = quads
	return dataset
}

func (s *Service) readJSONLD(r io.Reader, base string) ([]ldp.Triple, error) {
	doc, err := ld.DocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	opts := ld.NewJsonLdOptions(base)
	out, err := s.proc.ToRDF(doc, opts)
	if err != nil {
		return nil, err
	}
	dataset, ok := out.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("unexpected JSON-LD result %T", out)
	}
	return ldBlanks{}.triples(dataset)
}

// writeJSONLD writes expanded JSON-LD, or the compacted or flattened
// form if that profile is requested.  Compaction uses a context
// mapping each predicate's local name to its IRI.
func (s *Service) writeJSONLD(w io.Writer, triples []ldp.Triple, profiles []ldp.IRI) error {
	opts := ld.NewJsonLdOptions("")
	// The processor's FromRDF only takes serialized input; the API
	// works on the dataset directly.
	nodes, err := ld.NewJsonLdApi().FromRDF(ldDataset(triples), opts)
	if err != nil {
		return err
	}
	var expanded interface{} = nodes
	doc := expanded
	switch profile(profiles) {
	case ldp.JSONLDCompacted:
		doc, err = s.proc.Compact(expanded, localContext(triples), opts)
	case ldp.JSONLDFlattened:
		doc, err = s.proc.Flatten(expanded, nil, opts)
	}
	if err != nil {
		return err
	}
	return codec.NewEncoder(w, jsonHandle()).Encode(doc)
}

func jsonHandle() *codec.JsonHandle {
	h := &codec.JsonHandle{}
	h.Canonical = true
	return h
}

func profile(profiles []ldp.IRI) ldp.IRI {
	for _, p := range profiles {
		switch p {
		case ldp.JSONLDCompacted, ldp.JSONLDFlattened, ldp.JSONLDExpanded:
			return p
		}
	}
	return ldp.JSONLDExpanded
}

func localName(iri ldp.IRI) string {
	s := string(iri)
	if i := strings.LastIndexAny(s, "#/"); i >= 0 && i < len(s)-1 {
		return s[i+1:]
	}
	return ""
}

func localContext(triples []ldp.Triple) map[string]interface{} {
	names := make(map[string]ldp.IRI)
	clash := make(map[string]bool)
	for _, t := range triples {
		name := localName(t.Predicate)
		if name == "" || strings.HasPrefix(name, "@") {
			continue
		}
		if prev, ok := names[name]; ok && prev != t.Predicate {
			clash[name] = true
		}
		names[name] = t.Predicate
	}
	keys := make([]string, 0, len(names))
	for name := range names {
		if !clash[name] {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	ctx := make(map[string]interface{}, len(keys))
	for _, name := range keys {
		ctx[name] = string(names[name])
	}
	return map[string]interface{}{"@context": ctx}
}

func readNTriples(r io.Reader) ([]ldp.Triple, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	dataset, err := (&ld.NQuadRDFSerializer{}).Parse(data)
	if err != nil {
		return nil, err
	}
	return ldBlanks{}.triples(dataset)
}

func writeNTriples(w io.Writer, triples []ldp.Triple) error {
	out, err := (&ld.NQuadRDFSerializer{}).Serialize(ldDataset(triples))
	if err != nil {
		return err
	}
	text, ok := out.(string)
	if !ok {
		return fmt.Errorf("unexpected N-Triples result %T", out)
	}
	_, err = io.WriteString(w, text)
	return err
}
