// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldp

// Syntax is an RDF serialization format.
type Syntax struct {
	// Name is a short human-readable name.
	Name string

	// MediaType is the IANA media type, without parameters.
	MediaType string

	// Readable is true if the server accepts input in this
	// syntax; output is supported for every syntax.
	Readable bool
}

// The RDF syntaxes the server knows about.
var (
	Turtle   = Syntax{Name: "Turtle", MediaType: "text/turtle", Readable: true}
	NTriples = Syntax{Name: "N-Triples", MediaType: "application/n-triples", Readable: true}
	JSONLD   = Syntax{Name: "JSON-LD", MediaType: "application/ld+json", Readable: true}
	RDFa     = Syntax{Name: "RDFa", MediaType: "text/html"}
)

// Syntaxes lists the output syntaxes in order of preference.
var Syntaxes = []Syntax{Turtle, JSONLD, NTriples, RDFa}

// ReadableSyntaxes lists the syntaxes accepted as request bodies, in
// the order they are advertised in Accept-Post.
var ReadableSyntaxes = []Syntax{Turtle, JSONLD, NTriples}

// SyntaxForMediaType finds a syntax by media type.
func SyntaxForMediaType(mediaType string) (Syntax, bool) {
	for _, s := range Syntaxes {
		if s.MediaType == mediaType {
			return s, true
		}
	}
	return Syntax{}, false
}

// JSON-LD profiles selectable through the profile media-type parameter.
const (
	JSONLDExpanded  IRI = "http://www.w3.org/ns/json-ld#expanded"
	JSONLDCompacted IRI = "http://www.w3.org/ns/json-ld#compacted"
	JSONLDFlattened IRI = "http://www.w3.org/ns/json-ld#flattened"
)
