// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package rdfio

import (
	"errors"
	"fmt"
	"github.com/diffeo/go-trellis/ldp"
)

// updateOp is one operation of a SPARQL Update request, applied to a
// single graph.  Named graphs are not supported.
type updateOp struct {
	deletes []pattern
	inserts []pattern
	where   []pattern
}

var errGraphUnsupported = errors.New("GRAPH is not supported in updates")

// parseUpdate parses the subset of SPARQL 1.1 Update the server
// supports: INSERT DATA, DELETE DATA, DELETE WHERE, and
// DELETE/INSERT ... WHERE over basic graph patterns, separated by
// semicolons and preceded by PREFIX and BASE declarations.
func parseUpdate(update, base string) ([]updateOp, error) {
	p, err := newParser(update, base)
	if err != nil {
		return nil, err
	}
	p.variables = true
	var ops []updateOp
	for {
		for {
			p.ws()
			if !p.prologue() {
				break
			}
		}
		p.ws()
		if p.eof() {
			return ops, nil
		}
		op, err := p.updateOperation()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		p.ws()
		if p.eof() {
			return ops, nil
		}
		if err := p.expect(';'); err != nil {
			return nil, err
		}
	}
}

func (p *parser) updateOperation() (updateOp, error) {
	var op updateOp
	var err error
	switch {
	case p.keyword("INSERT"):
		p.ws()
		if p.keyword("DATA") {
			op.inserts, err = p.groundBlock()
			return op, err
		}
		if op.inserts, err = p.block(); err != nil {
			return op, err
		}
	case p.keyword("DELETE"):
		p.ws()
		if p.keyword("DATA") {
			op.deletes, err = p.groundBlock()
			return op, err
		}
		if p.keyword("WHERE") {
			op.where, err = p.block()
			op.deletes = op.where
			return op, err
		}
		if op.deletes, err = p.block(); err != nil {
			return op, err
		}
		p.ws()
		if p.keyword("INSERT") {
			if op.inserts, err = p.block(); err != nil {
				return op, err
			}
		}
	default:
		if p.eof() {
			return op, p.errorf("unexpected end of update")
		}
		return op, p.errorf("unsupported update operation")
	}
	p.ws()
	if !p.keyword("WHERE") {
		return op, p.errorf("expected WHERE")
	}
	op.where, err = p.block()
	return op, err
}

// block parses a brace-delimited list of triple patterns.
func (p *parser) block() ([]pattern, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	mark := len(p.out)
	for {
		p.ws()
		if p.consume("}") {
			break
		}
		if p.eof() {
			return nil, p.errorf("unterminated block")
		}
		if p.keyword("GRAPH") {
			return nil, errGraphUnsupported
		}
		if err := p.triples(); err != nil {
			return nil, err
		}
		p.ws()
		if !p.consume(".") && p.peek() != '}' {
			return nil, p.errorf("expected '.' or '}'")
		}
	}
	patterns := append([]pattern(nil), p.out[mark:]...)
	p.out = p.out[:mark]
	return patterns, nil
}

func (p *parser) groundBlock() ([]pattern, error) {
	patterns, err := p.block()
	if err != nil {
		return nil, err
	}
	for _, pat := range patterns {
		if _, err := pat.ground(); err != nil {
			return nil, err
		}
	}
	return patterns, nil
}

type binding map[string]ldp.Term

// solve finds every binding of the variables in a basic graph
// pattern against a graph.  Blank nodes in the pattern act as
// variables.
func solve(g *ldp.Graph, where []pattern) []binding {
	solutions := []binding{{}}
	for _, pat := range where {
		var next []binding
		for _, b := range solutions {
			s := resolveNode(pat.S, b)
			pred := resolveNode(pat.P, b)
			o := resolveNode(pat.O, b)
			var predIRI ldp.IRI
			if pred != nil {
				iri, ok := pred.(ldp.IRI)
				if !ok {
					continue
				}
				predIRI = iri
			}
			for _, t := range g.Match(s, predIRI, o) {
				nb := extend(b, pat.S, t.Subject)
				nb = extend(nb, pat.P, t.Predicate)
				nb = extend(nb, pat.O, t.Object)
				if nb != nil {
					next = append(next, nb)
				}
			}
		}
		solutions = next
	}
	return solutions
}

func varName(n node) string {
	if n.isVariable() {
		return "?" + n.Variable
	}
	if b, ok := n.Term.(ldp.BlankNode); ok {
		return "_:" + b.ID
	}
	return ""
}

func resolveNode(n node, b binding) ldp.Term {
	name := varName(n)
	if name == "" {
		return n.Term
	}
	return b[name]
}

func extend(b binding, n node, value ldp.Term) binding {
	if b == nil {
		return nil
	}
	name := varName(n)
	if name == "" {
		return b
	}
	if bound, ok := b[name]; ok {
		if bound != value {
			return nil
		}
		return b
	}
	nb := make(binding, len(b)+1)
	for k, v := range b {
		nb[k] = v
	}
	nb[name] = value
	return nb
}

// instantiate fills a template from a binding.  Triples with unbound
// variables are skipped.  Blank nodes in insert templates become new
// blank nodes per solution.
func instantiate(template []pattern, b binding, fresh func(ldp.BlankNode) ldp.BlankNode) []ldp.Triple {
	var out []ldp.Triple
	fill := func(n node) ldp.Term {
		if n.isVariable() {
			return b["?"+n.Variable]
		}
		if bn, ok := n.Term.(ldp.BlankNode); ok {
			if fresh != nil {
				return fresh(bn)
			}
			if bound, ok := b["_:"+bn.ID]; ok {
				return bound
			}
		}
		return n.Term
	}
	for _, pat := range template {
		s, pred, o := fill(pat.S), fill(pat.P), fill(pat.O)
		if s == nil || pred == nil || o == nil {
			continue
		}
		t, err := pattern{S: node{Term: s}, P: node{Term: pred}, O: node{Term: o}}.ground()
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (op updateOp) apply(g *ldp.Graph) error {
	if op.where == nil {
		for _, pat := range op.deletes {
			_, sBlank := pat.S.Term.(ldp.BlankNode)
			_, oBlank := pat.O.Term.(ldp.BlankNode)
			if sBlank || oBlank {
				return fmt.Errorf("blank node in DELETE DATA")
			}
		}
	}
	var solutions []binding
	if op.where != nil {
		solutions = solve(g, op.where)
	} else {
		solutions = []binding{{}}
	}
	var deletes, inserts []ldp.Triple
	for _, b := range solutions {
		deletes = append(deletes, instantiate(op.deletes, b, nil)...)
		fresh := make(map[ldp.BlankNode]ldp.BlankNode)
		inserts = append(inserts, instantiate(op.inserts, b, func(bn ldp.BlankNode) ldp.BlankNode {
			if op.where == nil {
				return bn
			}
			if f, ok := fresh[bn]; ok {
				return f
			}
			f := newBlankNode()
			fresh[bn] = f
			return f
		})...)
	}
	for _, t := range deletes {
		g.Remove(t)
	}
	for _, t := range inserts {
		g.Add(t)
	}
	return nil
}
