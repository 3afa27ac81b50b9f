// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"fmt"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/ugorji/go/codec"
)

// Term kinds as stored in CBOR.
const (
	kindIRI     = 1
	kindBlank   = 2
	kindLiteral = 3
)

type storedTerm struct {
	Kind     int    `codec:"k"`
	Value    string `codec:"v"`
	Datatype string `codec:"d,omitempty"`
	Lang     string `codec:"l,omitempty"`
}

type storedQuad struct {
	Graph     string     `codec:"g"`
	Subject   storedTerm `codec:"s"`
	Predicate string     `codec:"p"`
	Object    storedTerm `codec:"o"`
}

func termToStored(t ldp.Term) storedTerm {
	switch v := t.(type) {
	case ldp.IRI:
		return storedTerm{Kind: kindIRI, Value: string(v)}
	case ldp.BlankNode:
		return storedTerm{Kind: kindBlank, Value: v.ID}
	case ldp.Literal:
		return storedTerm{Kind: kindLiteral, Value: v.Lexical, Datatype: string(v.Datatype), Lang: v.Lang}
	}
	return storedTerm{}
}

func storedToTerm(s storedTerm) (ldp.Term, error) {
	switch s.Kind {
	case kindIRI:
		return ldp.IRI(s.Value), nil
	case kindBlank:
		return ldp.BlankNode{ID: s.Value}, nil
	case kindLiteral:
		return ldp.Literal{Lexical: s.Value, Datatype: ldp.IRI(s.Datatype), Lang: s.Lang}, nil
	}
	return nil, fmt.Errorf("invalid stored term kind %v", s.Kind)
}

// datasetToBytes encodes a dataset as CBOR.
func datasetToBytes(d *ldp.Dataset) (out []byte, err error) {
	quads := d.Quads()
	stored := make([]storedQuad, len(quads))
	for i, q := range quads {
		stored[i] = storedQuad{
			Graph:     string(q.Graph),
			Subject:   termToStored(q.Subject),
			Predicate: string(q.Predicate),
			Object:    termToStored(q.Object),
		}
	}
	cbor := new(codec.CborHandle)
	encoder := codec.NewEncoderBytes(&out, cbor)
	err = encoder.Encode(stored)
	return
}

// bytesToDataset decodes a dataset written by datasetToBytes.
func bytesToDataset(in []byte) (*ldp.Dataset, error) {
	var stored []storedQuad
	cbor := new(codec.CborHandle)
	decoder := codec.NewDecoderBytes(in, cbor)
	if err := decoder.Decode(&stored); err != nil {
		return nil, err
	}
	d := ldp.NewDataset()
	for _, s := range stored {
		subject, err := storedToTerm(s.Subject)
		if err != nil {
			return nil, err
		}
		object, err := storedToTerm(s.Object)
		if err != nil {
			return nil, err
		}
		d.Add(ldp.Quad{
			Graph:     ldp.IRI(s.Graph),
			Subject:   subject,
			Predicate: ldp.IRI(s.Predicate),
			Object:    object,
		})
	}
	return d, nil
}
