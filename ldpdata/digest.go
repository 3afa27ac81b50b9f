// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpdata

import (
	"sort"
	"strconv"
	"strings"
)

// WantDigestHeader is a parsed Want-Digest header (RFC 3230).
type WantDigestHeader struct {
	algorithms []weightedAlgorithm
}

type weightedAlgorithm struct {
	name string
	q    float64
}

// ParseWantDigest parses a Want-Digest header.  Each algorithm may
// carry a q-value, defaulting to 1.
func ParseWantDigest(value string) (*WantDigestHeader, error) {
	w := &WantDigestHeader{}
	for _, item := range splitQuoted(value, ',') {
		params := splitQuoted(item, ';')
		alg := weightedAlgorithm{name: strings.ToLower(strings.TrimSpace(params[0])), q: 1.0}
		for _, param := range params[1:] {
			name, val := splitParam(param)
			if strings.ToLower(name) != "q" {
				continue
			}
			q, err := strconv.ParseFloat(val, 64)
			if err != nil || q < 0 || q > 1 {
				return nil, ParseError{Header: WantDigest, Input: value, Reason: "invalid q-value"}
			}
			alg.q = q
		}
		w.algorithms = append(w.algorithms, alg)
	}
	sort.SliceStable(w.algorithms, func(i, j int) bool {
		return w.algorithms[i].q > w.algorithms[j].q
	})
	return w, nil
}

// Algorithms returns the requested algorithm names, most preferred
// first.  Algorithms with q=0 are excluded.
func (w *WantDigestHeader) Algorithms() []string {
	var names []string
	for _, alg := range w.algorithms {
		if alg.q > 0 {
			names = append(names, alg.name)
		}
	}
	return names
}

// DigestHeader is a parsed Digest header: one algorithm and its
// base64 value.
type DigestHeader struct {
	Algorithm string
	Value     string
}

// ParseDigest parses a Digest header of the form "alg=value".
func ParseDigest(value string) (*DigestHeader, error) {
	v := strings.TrimSpace(value)
	i := strings.IndexByte(v, '=')
	if i <= 0 || i == len(v)-1 {
		return nil, ParseError{Header: Digest, Input: value}
	}
	return &DigestHeader{
		Algorithm: strings.ToLower(strings.TrimSpace(v[:i])),
		Value:     strings.TrimSpace(v[i+1:]),
	}, nil
}

func (d DigestHeader) String() string {
	return d.Algorithm + "=" + d.Value
}
