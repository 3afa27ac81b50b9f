// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package rdfio

import (
	"bufio"
	"github.com/diffeo/go-trellis/ldp"
	"io"
)

func readTurtle(r io.Reader, base string) ([]ldp.Triple, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	p, err := newParser(data, base)
	if err != nil {
		return nil, err
	}
	if err := p.document(); err != nil {
		return nil, err
	}
	return groundTriples(p.out)
}

// writeTurtle writes triples grouped by subject, in the order each
// subject first appears.
func writeTurtle(w io.Writer, triples []ldp.Triple) error {
	bw := bufio.NewWriter(w)
	var subjects []ldp.Term
	bySubject := make(map[ldp.Term][]ldp.Triple)
	for _, t := range triples {
		if _, seen := bySubject[t.Subject]; !seen {
			subjects = append(subjects, t.Subject)
		}
		bySubject[t.Subject] = append(bySubject[t.Subject], t)
	}
	for i, s := range subjects {
		if i > 0 {
			bw.WriteString("\n")
		}
		bw.WriteString(s.NTriples())
		var last ldp.IRI
		for j, t := range bySubject[s] {
			switch {
			case j == 0:
				bw.WriteString(" ")
				writePredicate(bw, t.Predicate)
			case t.Predicate == last:
				bw.WriteString(" ,\n        ")
				bw.WriteString(t.Object.NTriples())
				continue
			default:
				bw.WriteString(" ;\n    ")
				writePredicate(bw, t.Predicate)
			}
			last = t.Predicate
			bw.WriteString(" ")
			bw.WriteString(t.Object.NTriples())
		}
		bw.WriteString(" .\n")
	}
	return bw.Flush()
}

func writePredicate(w *bufio.Writer, pred ldp.IRI) {
	if pred == ldp.RDF.Type {
		w.WriteString("a")
		return
	}
	w.WriteString(pred.NTriples())
}
