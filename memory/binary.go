// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"bytes"
	"context"
	"github.com/diffeo/go-trellis/binary"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/satori/go.uuid"
	"io"
	"io/ioutil"
	"sync"
)

// NewBinaryService creates a binary service that keeps content in
// memory.
func NewBinaryService() ldp.BinaryService {
	return &binaryService{content: make(map[binaryKey][]byte)}
}

type binaryKey struct {
	partition string
	location  ldp.IRI
}

type binaryService struct {
	sem     sync.RWMutex
	content map[binaryKey][]byte
}

func (s *binaryService) Content(ctx context.Context, partition string, location ldp.IRI) (io.ReadCloser, error) {
	return s.ContentRange(ctx, partition, location, 0, -1)
}

func (s *binaryService) ContentRange(ctx context.Context, partition string, location ldp.IRI, from, to int64) (io.ReadCloser, error) {
	s.sem.RLock()
	defer s.sem.RUnlock()
	data, ok := s.content[binaryKey{partition, location}]
	if !ok {
		return nil, ldp.ErrNoSuchBinary
	}
	size := int64(len(data))
	if from > size {
		from = size
	}
	end := size
	if to >= 0 && to+1 < size {
		end = to + 1
	}
	if end < from {
		end = from
	}
	return ioutil.NopCloser(bytes.NewReader(data[from:end])), nil
}

func (s *binaryService) SetContent(ctx context.Context, partition string, location ldp.IRI, r io.Reader) error {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return err
	}
	s.sem.Lock()
	defer s.sem.Unlock()
	s.content[binaryKey{partition, location}] = data
	return nil
}

func (s *binaryService) IdentifierSupplier(partition string) func() ldp.IRI {
	return func() ldp.IRI {
		return ldp.IRI("mem:" + uuid.NewV4().String())
	}
}

func (s *binaryService) SupportedAlgorithms() []string {
	return binary.SupportedAlgorithms()
}

func (s *binaryService) Digest(algorithm string, r io.Reader) (string, error) {
	return binary.Digest(algorithm, r)
}
