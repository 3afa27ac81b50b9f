// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpdata

import (
	"strconv"
	"strings"
)

// RangeHeader is a single inclusive byte range.
type RangeHeader struct {
	From, To int64
}

// ParseRange parses a Range header.  Only a single byte range with
// both ends given is supported.
func ParseRange(value string) (*RangeHeader, error) {
	bad := func(reason string) error {
		return ParseError{Header: Range, Input: value, Reason: reason}
	}
	v := strings.TrimSpace(value)
	if !strings.HasPrefix(v, "bytes=") {
		return nil, bad("unit must be bytes")
	}
	v = strings.TrimPrefix(v, "bytes=")
	if strings.Contains(v, ",") {
		return nil, bad("multiple ranges")
	}
	parts := strings.Split(v, "-")
	if len(parts) != 2 {
		return nil, bad("expected from-to")
	}
	from, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || from < 0 {
		return nil, bad("invalid start")
	}
	to, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil || to < from {
		return nil, bad("invalid end")
	}
	return &RangeHeader{From: from, To: to}, nil
}
