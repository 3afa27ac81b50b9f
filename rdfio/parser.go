// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package rdfio

// This file contains a single recursive-descent parser for the
// Turtle family: Turtle documents, and the triple templates and
// patterns embedded in SPARQL Update requests.  In SPARQL mode the
// parser also accepts ?variables and braces.

import (
	"fmt"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/satori/go.uuid"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// node is a term in a triple pattern: either a concrete RDF term or
// a named variable.
type node struct {
	Term     ldp.Term
	Variable string
}

func (n node) isVariable() bool { return n.Variable != "" }

// pattern is a triple whose positions may be variables.
type pattern struct {
	S, P, O node
}

type parser struct {
	in       string
	pos      int
	base     *url.URL
	prefixes map[string]string
	blanks   map[string]ldp.BlankNode
	out      []pattern

	// variables enables SPARQL ?var and $var terms.
	variables bool
}

func newParser(in, base string) (*parser, error) {
	p := &parser{
		in:       in,
		prefixes: make(map[string]string),
		blanks:   make(map[string]ldp.BlankNode),
	}
	if base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return nil, err
		}
		p.base = u
	}
	return p, nil
}

// syntaxError is returned for malformed input.
type syntaxError struct {
	Line, Column int
	Message      string
}

func (e syntaxError) Error() string {
	return fmt.Sprintf("line %d column %d: %s", e.Line, e.Column, e.Message)
}

func (p *parser) errorf(format string, args ...interface{}) error {
	line, col := 1, 1
	for _, r := range p.in[:p.pos] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return syntaxError{Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool { return p.pos >= len(p.in) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.in[p.pos]
}

func (p *parser) peekAt(offset int) byte {
	if p.pos+offset >= len(p.in) {
		return 0
	}
	return p.in[p.pos+offset]
}

// ws skips whitespace and comments.
func (p *parser) ws() {
	for !p.eof() {
		c := p.in[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '#':
			for !p.eof() && p.in[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *parser) consume(s string) bool {
	if strings.HasPrefix(p.in[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *parser) expect(c byte) error {
	p.ws()
	if p.peek() != c {
		if p.eof() {
			return p.errorf("expected %q, found end of input", c)
		}
		return p.errorf("expected %q, found %q", c, p.peek())
	}
	p.pos++
	return nil
}

// keyword consumes a case-insensitive keyword that is not followed
// by a name character.
func (p *parser) keyword(kw string) bool {
	end := p.pos + len(kw)
	if end > len(p.in) || !strings.EqualFold(p.in[p.pos:end], kw) {
		return false
	}
	if end < len(p.in) {
		r, _ := utf8.DecodeRuneInString(p.in[end:])
		if isNameChar(r) || r == ':' {
			return false
		}
	}
	p.pos = end
	return true
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return isNameStart(r) || r == '-' || r == '.' || unicode.IsDigit(r) || r == '·'
}

func newBlankNode() ldp.BlankNode {
	return ldp.BlankNode{ID: uuid.NewV4().String()}
}

func (p *parser) newBlank() ldp.BlankNode {
	return newBlankNode()
}

func (p *parser) emit(s, pred, o node) {
	p.out = append(p.out, pattern{S: s, P: pred, O: o})
}

// document parses a whole Turtle document.
func (p *parser) document() error {
	for {
		p.ws()
		if p.eof() {
			return nil
		}
		if err := p.statement(); err != nil {
			return err
		}
	}
}

func (p *parser) statement() error {
	switch {
	case p.consume("@prefix"):
		if err := p.prefixDecl(); err != nil {
			return err
		}
		return p.expect('.')
	case p.consume("@base"):
		if err := p.baseDecl(); err != nil {
			return err
		}
		return p.expect('.')
	case p.prologue():
		return nil
	}
	if err := p.triples(); err != nil {
		return err
	}
	return p.expect('.')
}

// prologue parses one SPARQL-style PREFIX or BASE declaration, if
// present.  Errors are deferred to the following statement.
func (p *parser) prologue() bool {
	start := p.pos
	switch {
	case p.keyword("PREFIX"):
		if p.prefixDecl() == nil {
			return true
		}
	case p.keyword("BASE"):
		if p.baseDecl() == nil {
			return true
		}
	}
	p.pos = start
	return false
}

func (p *parser) prefixDecl() error {
	p.ws()
	start := p.pos
	for !p.eof() && p.peek() != ':' {
		r, size := utf8.DecodeRuneInString(p.in[p.pos:])
		if !isNameChar(r) {
			return p.errorf("invalid prefix name")
		}
		p.pos += size
	}
	if !p.consume(":") {
		return p.errorf("expected ':' in prefix declaration")
	}
	name := p.in[start : p.pos-1]
	p.ws()
	iri, err := p.iriRef()
	if err != nil {
		return err
	}
	p.prefixes[name] = string(iri)
	return nil
}

func (p *parser) baseDecl() error {
	p.ws()
	iri, err := p.iriRef()
	if err != nil {
		return err
	}
	u, err := url.Parse(string(iri))
	if err != nil {
		return p.errorf("invalid base %q", iri)
	}
	p.base = u
	return nil
}

// triples parses a subject and its predicate-object list.
func (p *parser) triples() error {
	p.ws()
	if p.peek() == '[' {
		subject, err := p.blankNodePropertyList()
		if err != nil {
			return err
		}
		p.ws()
		if c := p.peek(); c == '.' || c == '}' || c == 0 {
			return nil
		}
		return p.predicateObjectList(subject)
	}
	subject, err := p.subject()
	if err != nil {
		return err
	}
	return p.predicateObjectList(subject)
}

func (p *parser) predicateObjectList(subject node) error {
	for {
		verb, err := p.verb()
		if err != nil {
			return err
		}
		if err := p.objectList(subject, verb); err != nil {
			return err
		}
		p.ws()
		if !p.consume(";") {
			return nil
		}
		for {
			p.ws()
			if !p.consume(";") {
				break
			}
		}
		if c := p.peek(); c == '.' || c == ']' || c == '}' || c == 0 {
			return nil
		}
	}
}

func (p *parser) objectList(subject, verb node) error {
	for {
		object, err := p.object()
		if err != nil {
			return err
		}
		p.emit(subject, verb, object)
		p.ws()
		if !p.consume(",") {
			return nil
		}
	}
}

func (p *parser) verb() (node, error) {
	p.ws()
	if p.peek() == 'a' {
		r, _ := utf8.DecodeRuneInString(p.in[p.pos+1:])
		if p.pos+1 == len(p.in) || !(isNameChar(r) || r == ':') {
			p.pos++
			return node{Term: ldp.RDF.Type}, nil
		}
	}
	if n, ok, err := p.variable(); ok || err != nil {
		return n, err
	}
	iri, err := p.iri()
	return node{Term: iri}, err
}

func (p *parser) variable() (node, bool, error) {
	if !p.variables || (p.peek() != '?' && p.peek() != '$') {
		return node{}, false, nil
	}
	p.pos++
	start := p.pos
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.in[p.pos:])
		if !(isNameStart(r) || unicode.IsDigit(r)) {
			break
		}
		p.pos += size
	}
	if p.pos == start {
		return node{}, true, p.errorf("empty variable name")
	}
	return node{Variable: p.in[start:p.pos]}, true, nil
}

func (p *parser) subject() (node, error) {
	p.ws()
	if n, ok, err := p.variable(); ok || err != nil {
		return n, err
	}
	switch p.peek() {
	case '_':
		b, err := p.blankLabel()
		return node{Term: b}, err
	case '(':
		return p.collection()
	case '[':
		return p.blankNodePropertyList()
	}
	iri, err := p.iri()
	return node{Term: iri}, err
}

func (p *parser) object() (node, error) {
	p.ws()
	switch c := p.peek(); {
	case c == '"' || c == '\'':
		lit, err := p.literal()
		return node{Term: lit}, err
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		lit, err := p.number()
		return node{Term: lit}, err
	case p.keyword("true"):
		return node{Term: ldp.NewTypedLiteral("true", ldp.XSD.Boolean)}, nil
	case p.keyword("false"):
		return node{Term: ldp.NewTypedLiteral("false", ldp.XSD.Boolean)}, nil
	}
	return p.subject()
}

func (p *parser) blankLabel() (ldp.BlankNode, error) {
	if !p.consume("_:") {
		return ldp.BlankNode{}, p.errorf("expected blank node")
	}
	start := p.pos
	p.scanName()
	label := p.in[start:p.pos]
	if label == "" {
		return ldp.BlankNode{}, p.errorf("empty blank node label")
	}
	b, ok := p.blanks[label]
	if !ok {
		b = p.newBlank()
		p.blanks[label] = b
	}
	return b, nil
}

// scanName advances over name characters, leaving any trailing '.'
// for the statement terminator.
func (p *parser) scanName() {
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.in[p.pos:])
		if !isNameChar(r) {
			break
		}
		p.pos += size
	}
	for p.pos > 0 && p.in[p.pos-1] == '.' {
		p.pos--
	}
}

func (p *parser) blankNodePropertyList() (node, error) {
	if err := p.expect('['); err != nil {
		return node{}, err
	}
	b := node{Term: p.newBlank()}
	p.ws()
	if p.consume("]") {
		return b, nil
	}
	if err := p.predicateObjectList(b); err != nil {
		return node{}, err
	}
	return b, p.expect(']')
}

func (p *parser) collection() (node, error) {
	if err := p.expect('('); err != nil {
		return node{}, err
	}
	var items []node
	for {
		p.ws()
		if p.consume(")") {
			break
		}
		if p.eof() {
			return node{}, p.errorf("unterminated collection")
		}
		item, err := p.object()
		if err != nil {
			return node{}, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return node{Term: ldp.RDF.Nil}, nil
	}
	head := node{Term: p.newBlank()}
	cur := head
	for i, item := range items {
		p.emit(cur, node{Term: ldp.RDF.First}, item)
		next := node{Term: ldp.RDF.Nil}
		if i < len(items)-1 {
			next = node{Term: p.newBlank()}
		}
		p.emit(cur, node{Term: ldp.RDF.Rest}, next)
		cur = next
	}
	return head, nil
}

func (p *parser) iri() (ldp.IRI, error) {
	p.ws()
	if p.peek() == '<' {
		return p.iriRef()
	}
	return p.prefixedName()
}

func (p *parser) iriRef() (ldp.IRI, error) {
	if !p.consume("<") {
		return "", p.errorf("expected IRI")
	}
	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated IRI")
		}
		c := p.in[p.pos]
		switch {
		case c == '>':
			p.pos++
			return p.resolve(b.String())
		case c == '\\':
			r, err := p.unicodeEscape()
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
		case c <= ' ' || c == '<' || c == '"' || c == '{' || c == '}' || c == '|' || c == '^' || c == '`':
			return "", p.errorf("invalid character %q in IRI", c)
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
}

func (p *parser) resolve(ref string) (ldp.IRI, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", p.errorf("invalid IRI %q", ref)
	}
	if u.IsAbs() {
		return ldp.IRI(ref), nil
	}
	if p.base == nil {
		return "", p.errorf("relative IRI %q with no base", ref)
	}
	return ldp.IRI(p.base.ResolveReference(u).String()), nil
}

func (p *parser) prefixedName() (ldp.IRI, error) {
	start := p.pos
	for !p.eof() && p.peek() != ':' {
		r, size := utf8.DecodeRuneInString(p.in[p.pos:])
		if !isNameChar(r) {
			break
		}
		p.pos += size
	}
	if !p.consume(":") {
		p.pos = start
		if p.eof() {
			return "", p.errorf("unexpected end of input")
		}
		return "", p.errorf("unexpected %q", p.peek())
	}
	prefix := p.in[start : p.pos-1]
	ns, ok := p.prefixes[prefix]
	if !ok {
		return "", p.errorf("undefined prefix %q", prefix)
	}
	var local strings.Builder
	for !p.eof() {
		c := p.in[p.pos]
		if c == '\\' && p.pos+1 < len(p.in) {
			local.WriteByte(p.in[p.pos+1])
			p.pos += 2
			continue
		}
		if c == '%' && p.pos+2 < len(p.in) {
			local.WriteString(p.in[p.pos : p.pos+3])
			p.pos += 3
			continue
		}
		r, size := utf8.DecodeRuneInString(p.in[p.pos:])
		if !isNameChar(r) && r != ':' {
			break
		}
		local.WriteRune(r)
		p.pos += size
	}
	name := local.String()
	for strings.HasSuffix(name, ".") {
		name = name[:len(name)-1]
		p.pos--
	}
	return ldp.IRI(ns + name), nil
}

func (p *parser) unicodeEscape() (rune, error) {
	var n int
	switch {
	case p.consume(`\u`):
		n = 4
	case p.consume(`\U`):
		n = 8
	default:
		return 0, p.errorf("invalid escape")
	}
	if p.pos+n > len(p.in) {
		return 0, p.errorf("truncated escape")
	}
	v, err := strconv.ParseUint(p.in[p.pos:p.pos+n], 16, 32)
	if err != nil {
		return 0, p.errorf("invalid escape")
	}
	p.pos += n
	return rune(v), nil
}

func (p *parser) literal() (ldp.Literal, error) {
	quote := p.in[p.pos : p.pos+1]
	long := strings.Repeat(quote, 3)
	isLong := strings.HasPrefix(p.in[p.pos:], long)
	if isLong {
		p.pos += 3
	} else {
		p.pos++
	}
	var b strings.Builder
	for {
		if p.eof() {
			return ldp.Literal{}, p.errorf("unterminated string")
		}
		if isLong && p.consume(long) {
			break
		}
		c := p.in[p.pos]
		if !isLong && c == quote[0] {
			p.pos++
			break
		}
		if !isLong && (c == '\n' || c == '\r') {
			return ldp.Literal{}, p.errorf("newline in string")
		}
		if c == '\\' {
			if err := p.stringEscape(&b); err != nil {
				return ldp.Literal{}, err
			}
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
	lexical := b.String()
	if p.consume("@") {
		start := p.pos
		for !p.eof() {
			c := p.peek()
			if !(c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
				break
			}
			p.pos++
		}
		if p.pos == start {
			return ldp.Literal{}, p.errorf("empty language tag")
		}
		return ldp.NewLangLiteral(lexical, p.in[start:p.pos]), nil
	}
	if p.consume("^^") {
		dt, err := p.iri()
		if err != nil {
			return ldp.Literal{}, err
		}
		return ldp.NewTypedLiteral(lexical, dt), nil
	}
	return ldp.NewLiteral(lexical), nil
}

func (p *parser) stringEscape(b *strings.Builder) error {
	if p.pos+1 >= len(p.in) {
		return p.errorf("truncated escape")
	}
	switch p.in[p.pos+1] {
	case 't':
		b.WriteByte('\t')
	case 'b':
		b.WriteByte('\b')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 'f':
		b.WriteByte('\f')
	case '"', '\'', '\\':
		b.WriteByte(p.in[p.pos+1])
	case 'u', 'U':
		r, err := p.unicodeEscape()
		if err != nil {
			return err
		}
		b.WriteRune(r)
		return nil
	default:
		return p.errorf("invalid escape \\%c", p.in[p.pos+1])
	}
	p.pos += 2
	return nil
}

func (p *parser) number() (ldp.Literal, error) {
	start := p.pos
	if c := p.peek(); c == '+' || c == '-' {
		p.pos++
	}
	digits := func() int {
		n := 0
		for c := p.peek(); c >= '0' && c <= '9'; c = p.peek() {
			p.pos++
			n++
		}
		return n
	}
	intDigits := digits()
	datatype := ldp.XSD.Integer
	if p.peek() == '.' && p.peekAt(1) >= '0' && p.peekAt(1) <= '9' {
		p.pos++
		digits()
		datatype = ldp.XSD.Decimal
	} else if intDigits == 0 {
		p.pos = start
		return ldp.Literal{}, p.errorf("invalid number")
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		p.pos++
		if c := p.peek(); c == '+' || c == '-' {
			p.pos++
		}
		if digits() == 0 {
			return ldp.Literal{}, p.errorf("invalid exponent")
		}
		datatype = ldp.XSD.Double
	}
	return ldp.NewTypedLiteral(p.in[start:p.pos], datatype), nil
}

// groundTriples converts parsed patterns to triples, failing if any
// position is a variable or has the wrong kind of term.
func groundTriples(patterns []pattern) ([]ldp.Triple, error) {
	triples := make([]ldp.Triple, 0, len(patterns))
	for _, pat := range patterns {
		t, err := pat.ground()
		if err != nil {
			return nil, err
		}
		triples = append(triples, t)
	}
	return triples, nil
}

func (pat pattern) ground() (ldp.Triple, error) {
	if pat.S.isVariable() || pat.P.isVariable() || pat.O.isVariable() {
		return ldp.Triple{}, fmt.Errorf("unexpected variable in %v", pat)
	}
	if _, isLit := pat.S.Term.(ldp.Literal); isLit {
		return ldp.Triple{}, fmt.Errorf("literal %v used as subject", pat.S.Term.NTriples())
	}
	pred, ok := pat.P.Term.(ldp.IRI)
	if !ok {
		return ldp.Triple{}, fmt.Errorf("%v used as predicate", pat.P.Term.NTriples())
	}
	return ldp.Triple{Subject: pat.S.Term, Predicate: pred, Object: pat.O.Term}, nil
}
