// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package binary stores the content of non-RDF sources.  Service
// keeps content in a blob bucket per partition, and the package
// provides the digest algorithms shared by every BinaryService.
package binary

import (
	"context"
	"fmt"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/google/go-cloud/blob"
	"github.com/google/go-cloud/blob/fileblob"
	"github.com/satori/go.uuid"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LocationPrefix begins every location this service hands out.
const LocationPrefix = "file:"

// Service is a BinaryService storing content in local directories,
// one per partition, through go-cloud's file blob driver.  Writes are
// committed atomically when the blob writer closes.
type Service struct {
	dir     string
	mu      sync.Mutex
	buckets map[string]*blob.Bucket
}

// NewFileService creates a binary service rooted at a directory,
// creating it if need be.
func NewFileService(dir string) (*Service, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Service{dir: dir, buckets: make(map[string]*blob.Bucket)}, nil
}

func (s *Service) bucket(partition string) (*blob.Bucket, error) {
	if partition == "" || strings.ContainsAny(partition, `/\`) || partition == "." || partition == ".." {
		return nil, fmt.Errorf("invalid partition %q", partition)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buckets[partition]; ok {
		return b, nil
	}
	dir := filepath.Join(s.dir, partition)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	b, err := fileblob.NewBucket(dir)
	if err != nil {
		return nil, err
	}
	s.buckets[partition] = b
	return b, nil
}

func key(location ldp.IRI) (string, error) {
	k := strings.TrimPrefix(string(location), LocationPrefix)
	if k == "" || k == string(location) || strings.ContainsAny(k, `/\`) {
		return "", fmt.Errorf("invalid binary location %q", location)
	}
	return k, nil
}

// Content opens the stored content.
func (s *Service) Content(ctx context.Context, partition string, location ldp.IRI) (io.ReadCloser, error) {
	return s.ContentRange(ctx, partition, location, 0, -1)
}

// ContentRange opens bytes from through to, inclusive.  A negative
// to reads to the end.
func (s *Service) ContentRange(ctx context.Context, partition string, location ldp.IRI, from, to int64) (io.ReadCloser, error) {
	b, err := s.bucket(partition)
	if err != nil {
		return nil, err
	}
	k, err := key(location)
	if err != nil {
		return nil, err
	}
	length := int64(-1)
	if to >= 0 {
		length = to - from + 1
	}
	return b.NewRangeReader(ctx, k, from, length)
}

// SetContent writes content, replacing anything at the location.
func (s *Service) SetContent(ctx context.Context, partition string, location ldp.IRI, r io.Reader) error {
	b, err := s.bucket(partition)
	if err != nil {
		return err
	}
	k, err := key(location)
	if err != nil {
		return err
	}
	w, err := b.NewWriter(ctx, k, nil)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// IdentifierSupplier generates new random locations.
func (s *Service) IdentifierSupplier(partition string) func() ldp.IRI {
	return func() ldp.IRI {
		return ldp.IRI(LocationPrefix + uuid.NewV4().String())
	}
}

// SupportedAlgorithms lists the digest algorithms.
func (s *Service) SupportedAlgorithms() []string {
	return SupportedAlgorithms()
}

// Digest computes a digest of a stream.
func (s *Service) Digest(algorithm string, r io.Reader) (string, error) {
	return Digest(algorithm, r)
}

var _ ldp.BinaryService = (*Service)(nil)
