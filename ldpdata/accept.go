// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpdata

import (
	"mime"
	"sort"
	"strconv"
	"strings"
)

// MediaRange is one entry of an Accept header.
type MediaRange struct {
	// Type and Subtype may be "*".
	Type, Subtype string
	Params        map[string]string
	Q             float64
}

// String returns "type/subtype" without parameters.
func (m MediaRange) String() string {
	return m.Type + "/" + m.Subtype
}

// Matches reports whether a concrete media type falls within the
// range.
func (m MediaRange) Matches(mediaType string) bool {
	parts := strings.SplitN(strings.ToLower(mediaType), "/", 2)
	if len(parts) != 2 {
		return false
	}
	return (m.Type == "*" || m.Type == parts[0]) &&
		(m.Subtype == "*" || m.Subtype == parts[1])
}

// IsWildcard is true for "*/*" and "type/*" ranges.
func (m MediaRange) IsWildcard() bool {
	return m.Type == "*" || m.Subtype == "*"
}

// ParseAccept parses an Accept header (RFC 7231 section 5.3.2).
// Malformed entries are skipped, as are entries with q=0.  The result
// is ordered by descending q-value, then by specificity, then by
// position in the header.  An empty header yields "*/*".
func ParseAccept(value string) []MediaRange {
	if strings.TrimSpace(value) == "" {
		return []MediaRange{{Type: "*", Subtype: "*", Q: 1}}
	}
	var ranges []MediaRange
	for _, item := range splitQuoted(value, ',') {
		mediaType, params, err := mime.ParseMediaType(item)
		if err != nil {
			continue
		}
		parts := strings.SplitN(mediaType, "/", 2)
		if len(parts) != 2 {
			if mediaType != "*" {
				continue
			}
			parts = []string{"*", "*"}
		}
		mr := MediaRange{Type: parts[0], Subtype: parts[1], Q: 1}
		if qs, ok := params["q"]; ok {
			q, err := strconv.ParseFloat(qs, 64)
			if err != nil || q < 0 || q > 1 {
				continue
			}
			mr.Q = q
			delete(params, "q")
		}
		if mr.Q == 0 {
			continue
		}
		if len(params) > 0 {
			mr.Params = params
		}
		ranges = append(ranges, mr)
	}
	sort.SliceStable(ranges, func(i, j int) bool {
		if ranges[i].Q != ranges[j].Q {
			return ranges[i].Q > ranges[j].Q
		}
		return specificity(ranges[i]) > specificity(ranges[j])
	})
	return ranges
}

func specificity(m MediaRange) int {
	switch {
	case m.Type == "*":
		return 0
	case m.Subtype == "*":
		return 1
	}
	return 2
}

// BaseMediaType strips parameters from a Content-Type value and
// lower-cases it.  An unparseable value is returned trimmed.
func BaseMediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
