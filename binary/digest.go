// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package binary

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/zeebo/blake3"
	"hash"
	"io"
	"strings"
)

// Algorithms maps the supported RFC 3230 digest algorithm names to
// their hash constructors.  "sha" is SHA-1.
var Algorithms = map[string]func() hash.Hash{
	"md5":     md5.New,
	"sha":     sha1.New,
	"sha-256": sha256.New,
	"sha-512": sha512.New,
	"blake3":  func() hash.Hash { return blake3.New() },
}

// SupportedAlgorithms lists the keys of Algorithms in a fixed order.
func SupportedAlgorithms() []string {
	return []string{"md5", "sha", "sha-256", "sha-512", "blake3"}
}

// Digest computes the base64 digest of a stream.
func Digest(algorithm string, r io.Reader) (string, error) {
	newHash, ok := Algorithms[strings.ToLower(algorithm)]
	if !ok {
		return "", ldp.ErrUnsupportedAlgorithm{Algorithm: algorithm}
	}
	h := newHash()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}
