// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package ldpdata defines the HTTP-level data of the repository
// server: header names, media types, header value parsers, and the
// error values handlers return.
//
// Every parser takes the raw header (or query parameter) string and
// returns either a value or a ParseError, which callers report as
// 400 Bad Request.
package ldpdata

// Header names beyond the ones net/http knows about.
const (
	AcceptDatetime    = "Accept-Datetime"
	AcceptPatch       = "Accept-Patch"
	AcceptPost        = "Accept-Post"
	AcceptRanges      = "Accept-Ranges"
	Digest            = "Digest"
	MementoDatetime   = "Memento-Datetime"
	Prefer            = "Prefer"
	PreferenceApplied = "Preference-Applied"
	Range             = "Range"
	Slug              = "Slug"
	WantDigest        = "Want-Digest"
)

// Media types handled specially by the server.
const (
	LinkFormatMediaType   = "application/link-format"
	SPARQLUpdateMediaType = "application/sparql-update"
	JSONMediaType         = "application/json"
	TextMediaType         = "text/plain"
	OctetStreamMediaType  = "application/octet-stream"
)

// Values of the ext query parameter naming a subresource.
const (
	ExtACL     = "acl"
	ExtTimeMap = "timemap"
)
