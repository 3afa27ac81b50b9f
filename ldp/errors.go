// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldp

import (
	"errors"
	"fmt"
)

// ErrNoSuchBinary is returned by BinaryService content calls for a
// location with no stored content.
var ErrNoSuchBinary = errors.New("No such binary content")

// ErrUnsupportedAlgorithm is returned by BinaryService.Digest for an
// algorithm it does not implement.
type ErrUnsupportedAlgorithm struct {
	Algorithm string
}

func (e ErrUnsupportedAlgorithm) Error() string {
	return fmt.Sprintf("Unsupported digest algorithm %q", e.Algorithm)
}

// ErrUnsupportedSyntax is returned by IOService when asked to read or
// write a syntax it does not implement.
type ErrUnsupportedSyntax struct {
	Syntax Syntax
}

func (e ErrUnsupportedSyntax) Error() string {
	return fmt.Sprintf("Unsupported RDF syntax %v", e.Syntax.Name)
}

// ErrInvalidRDF is returned by IOService when input cannot be parsed
// or an update cannot be applied.
type ErrInvalidRDF struct {
	Err error
}

func (e ErrInvalidRDF) Error() string {
	return e.Err.Error()
}
