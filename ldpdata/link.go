// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpdata

import (
	"sort"
	"strings"
)

// Link is a single web link (RFC 8288) as found in a Link header.
type Link struct {
	URI    string
	Rels   []string
	Params map[string]string
}

// HasRel reports whether the link carries a relation type.
func (l Link) HasRel(rel string) bool {
	return contains(l.Rels, rel)
}

// String formats the link for a Link header: the target, the rel
// parameter, then other parameters in name order.
func (l Link) String() string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(l.URI)
	b.WriteString(">")
	if len(l.Rels) > 0 {
		b.WriteString(`; rel="`)
		b.WriteString(strings.Join(l.Rels, " "))
		b.WriteString(`"`)
	}
	names := make([]string, 0, len(l.Params))
	for name := range l.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString("; ")
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(strings.Replace(l.Params[name], `"`, `\"`, -1))
		b.WriteString(`"`)
	}
	return b.String()
}

// ParseLinks parses every link in a Link header value.
func ParseLinks(value string) ([]Link, error) {
	var links []Link
	for _, item := range splitQuoted(value, ',') {
		params := splitQuoted(item, ';')
		target := strings.TrimSpace(params[0])
		if len(target) < 2 || target[0] != '<' || target[len(target)-1] != '>' {
			return nil, ParseError{Header: "Link", Input: value}
		}
		link := Link{URI: target[1 : len(target)-1]}
		for _, param := range params[1:] {
			name, val := splitParam(param)
			name = strings.ToLower(name)
			if name == "rel" {
				link.Rels = append(link.Rels, strings.Fields(val)...)
				continue
			}
			if link.Params == nil {
				link.Params = make(map[string]string)
			}
			link.Params[name] = val
		}
		links = append(links, link)
	}
	return links, nil
}

// ParseLinkHeaders parses every Link header of a request.
func ParseLinkHeaders(values []string) ([]Link, error) {
	var links []Link
	for _, v := range values {
		parsed, err := ParseLinks(v)
		if err != nil {
			return nil, err
		}
		links = append(links, parsed...)
	}
	return links, nil
}

// FindRel returns the target of the first link with a relation type.
func FindRel(links []Link, rel string) (string, bool) {
	for _, l := range links {
		if l.HasRel(rel) {
			return l.URI, true
		}
	}
	return "", false
}
