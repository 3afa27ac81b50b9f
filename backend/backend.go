// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package backend provides a standard way to construct a resource
// service based on command-line flags.
package backend

import (
	"errors"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/diffeo/go-trellis/memory"
	"github.com/diffeo/go-trellis/postgres"
	"strings"
)

// Backend describes user-visible parameters to store resources.
// This implements the flag.Value interface, and so a typical use is
//
//     func main() {
//         backend := backend.Backend{"memory", ""}
//         flag.Var(&backend, "backend", "impl:address of resource storage")
//         flag.Parse()
//         resources, err := backend.Resources()
//     }
type Backend struct {
	// Implementation holds the name of the implementation, either
	// "memory" or "postgres".
	Implementation string

	// Address holds some backend-specific address, such as a
	// database connect string.
	Address string
}

// Resources creates a new resource service.  This generally should
// be only called once.  With the "memory" implementation, each call
// creates an independent empty store.
func (b *Backend) Resources() (ldp.ResourceService, error) {
	switch b.Implementation {
	case "memory":
		return memory.New(), nil
	case "postgres":
		return postgres.New(b.Address)
	default:
		return nil, errors.New("unknown resource backend " + b.Implementation)
	}
}

// String renders a backend description as a string.
func (b *Backend) String() string {
	if b.Address == "" {
		return b.Implementation
	}
	return b.Implementation + ":" + b.Address
}

// Set parses a string of the form "implementation:address" into an
// existing backend description.  This is part of the flag.Value
// interface.  The address is not validated and no connection is
// made until Resources is called.
func (b *Backend) Set(param string) error {
	parts := strings.SplitN(param, ":", 2)
	switch parts[0] {
	case "memory", "postgres":
	case "":
		return errors.New("must specify a backend type")
	default:
		return errors.New("unknown resource backend " + parts[0])
	}
	b.Implementation = parts[0]
	b.Address = ""
	if len(parts) == 2 {
		b.Address = parts[1]
	}
	return nil
}
