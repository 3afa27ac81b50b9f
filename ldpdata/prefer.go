// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpdata

import (
	"strconv"
	"strings"
)

// Values of the return preference.
const (
	PreferRepresentation = "representation"
	PreferMinimal        = "minimal"
)

// PreferHeader is a parsed Prefer header (RFC 7240), with the
// include and omit parameters of the LDP return preference.
type PreferHeader struct {
	// Preference is the return preference, or empty.
	Preference string

	// Include lists IRIs of graphs to include.
	Include []string

	// Omit lists IRIs of graphs to omit.
	Omit []string

	// Handling is "strict", "lenient", or empty.
	Handling string

	// Wait is the requested wait in seconds, or -1 if absent.
	Wait int
}

// ParsePrefer parses a Prefer header.  Unknown preferences and
// parameters are ignored; a repeated return preference is an error.
func ParsePrefer(value string) (*PreferHeader, error) {
	p := &PreferHeader{Wait: -1}
	seenReturn := false
	for _, pref := range splitQuoted(value, ',') {
		params := splitQuoted(pref, ';')
		if len(params) == 0 {
			continue
		}
		name, val := splitParam(params[0])
		switch strings.ToLower(name) {
		case "return":
			if seenReturn {
				return nil, ParseError{Header: Prefer, Input: value, Reason: "duplicate return preference"}
			}
			seenReturn = true
			val = strings.ToLower(val)
			if val != PreferRepresentation && val != PreferMinimal {
				return nil, ParseError{Header: Prefer, Input: value, Reason: "unknown return preference"}
			}
			p.Preference = val
			for _, param := range params[1:] {
				pname, pval := splitParam(param)
				switch strings.ToLower(pname) {
				case "include":
					p.Include = append(p.Include, strings.Fields(pval)...)
				case "omit":
					p.Omit = append(p.Omit, strings.Fields(pval)...)
				}
			}
		case "handling":
			val = strings.ToLower(val)
			if val == "strict" || val == "lenient" {
				p.Handling = val
			}
		case "wait":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return nil, ParseError{Header: Prefer, Input: value, Reason: "invalid wait"}
			}
			p.Wait = n
		}
	}
	return p, nil
}

// Includes reports whether an IRI is named in the include parameter.
func (p *PreferHeader) Includes(iri string) bool {
	return p != nil && contains(p.Include, iri)
}

// Omits reports whether an IRI is named in the omit parameter.
func (p *PreferHeader) Omits(iri string) bool {
	return p != nil && contains(p.Omit, iri)
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}

// splitParam splits "name=value" and unquotes the value.
func splitParam(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexByte(s, '=')
	if i < 0 {
		return s, ""
	}
	return strings.TrimSpace(s[:i]), unquote(strings.TrimSpace(s[i+1:]))
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.Replace(s[1:len(s)-1], `\"`, `"`, -1)
	}
	return s
}

// splitQuoted splits s on sep outside of double quotes and angle
// brackets, dropping empty pieces.
func splitQuoted(s string, sep byte) []string {
	var (
		parts   []string
		start   int
		quoted  bool
		bracket bool
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && quoted:
			i++
		case c == '"' && !bracket:
			quoted = !quoted
		case c == '<' && !quoted:
			bracket = true
		case c == '>' && !quoted:
			bracket = false
		case c == sep && !quoted && !bracket:
			if part := strings.TrimSpace(s[start:i]); part != "" {
				parts = append(parts, part)
			}
			start = i + 1
		}
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		parts = append(parts, part)
	}
	return parts
}
