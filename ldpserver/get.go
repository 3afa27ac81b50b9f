// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"context"
	"fmt"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/diffeo/go-trellis/ldpdata"
	"github.com/diffeo/go-trellis/rdfutil"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// load fetches the target of a request: the memento named by the
// version parameter, or the current state.  A resource that was never
// stored is ErrNotFound; tombstones are returned as is.
func (s *Server) load(ctx context.Context, req *Request) (ldp.Resource, error) {
	var (
		res ldp.Resource
		err error
	)
	if req.Version != nil {
		res, err = s.Resources.GetAt(ctx, req.Identifier(), *req.Version)
	} else {
		res, err = s.Resources.Get(ctx, req.Identifier())
	}
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ldpdata.ErrNotFound{Identifier: req.External()}
	}
	return res, nil
}

// loadLive is load, but a tombstone is ErrGone.
func (s *Server) loadLive(ctx context.Context, req *Request) (ldp.Resource, error) {
	res, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := checkLive(req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func checkLive(req *Request, res ldp.Resource) error {
	if ldp.IsDeleted(res) {
		return ldpdata.ErrGone{
			Identifier: req.External(),
			Link:       linkStrings(mementoLinks(req.External(), res.Mementos())),
		}
	}
	return nil
}

// explicitSyntax returns the RDF syntax an Accept header names
// outright, ignoring wildcards.
func explicitSyntax(accept []ldpdata.MediaRange) (ldp.Syntax, bool) {
	return rdfutil.ExplicitSyntax(accept, ldp.Syntaxes)
}

// servesBinary reports whether a GET returns the content of a
// non-RDF source rather than its description.
func (req *Request) servesBinary(res ldp.Resource) bool {
	if req.Ext == ldpdata.ExtACL || req.Ext == ldpdata.ExtTimeMap || res.Binary() == nil || res.InteractionModel() != ldp.LDP.NonRDFSource {
		return false
	}
	_, rdf := explicitSyntax(req.Accept)
	return !rdf
}

// validator returns the modification time and ETag of the
// representation a request addresses.  A PUT of a non-RDF body to a
// binary is compared against the binary's strong tag.
func (req *Request) validator(res ldp.Resource) (time.Time, string) {
	b := res.Binary()
	binary := false
	if b != nil {
		switch req.Method {
		case http.MethodGet, http.MethodHead:
			binary = req.servesBinary(res)
		case http.MethodPut:
			_, rdf := readableSyntax(req.ContentType)
			binary = !rdf
		}
	}
	if binary {
		return b.Modified, entityTag(b.Modified, req.External(), true)
	}
	return res.Modified(), entityTag(res.Modified(), req.External(), false)
}

func readableSyntax(contentType string) (ldp.Syntax, bool) {
	syntax, ok := ldp.SyntaxForMediaType(ldpdata.BaseMediaType(contentType))
	if !ok || !syntax.Readable {
		return ldp.Syntax{}, false
	}
	return syntax, true
}

// profiles returns the output profiles for a syntax: the requested
// JSON-LD profile, or the page subject for RDFa.
func (req *Request) profiles(syntax ldp.Syntax) []ldp.IRI {
	if syntax == ldp.RDFa {
		return []ldp.IRI{ldp.IRI(req.External())}
	}
	if mr, ok := rdfutil.RangeFor(req.Accept, syntax.MediaType); ok {
		if p := mr.Params["profile"]; p != "" {
			return []ldp.IRI{ldp.IRI(p)}
		}
	}
	return nil
}

func contentType(syntax ldp.Syntax, profiles []ldp.IRI) string {
	if syntax == ldp.JSONLD && len(profiles) > 0 {
		return fmt.Sprintf(`%s; profile="%s"`, syntax.MediaType, profiles[0])
	}
	return syntax.MediaType
}

// allowedMethods lists the methods the target of a request accepts.
func allowedMethods(req *Request, res ldp.Resource) []string {
	methods := []string{http.MethodGet, http.MethodHead, http.MethodOptions}
	switch {
	case res.IsMemento() || req.Ext == ldpdata.ExtTimeMap:
		return methods
	case req.Ext == ldpdata.ExtACL:
		return append(methods, http.MethodPatch)
	}
	model := res.InteractionModel()
	if ldp.IsRDFSource(model) {
		methods = append(methods, http.MethodPatch, http.MethodPut, http.MethodDelete)
	} else {
		methods = append(methods, http.MethodPut, http.MethodDelete)
	}
	if ldp.IsContainer(model) {
		methods = append(methods, http.MethodPost)
	}
	return methods
}

func typeLinks(h http.Header, model ldp.IRI) {
	for _, t := range ldp.ModelTypes(model) {
		h.Add("Link", ldpdata.Link{URI: string(t), Rels: []string{"type"}}.String())
	}
}

// describe adds the headers every representation of a resource
// carries.
func describe(h http.Header, req *Request, res ldp.Resource) {
	model := res.InteractionModel()
	typeLinks(h, model)

	allow := allowedMethods(req, res)
	h.Set("Allow", strings.Join(allow, ","))
	for _, m := range allow {
		switch m {
		case http.MethodPatch:
			h.Set(ldpdata.AcceptPatch, ldpdata.SPARQLUpdateMediaType)
		case http.MethodPost:
			types := make([]string, len(ldp.ReadableSyntaxes))
			for i, syntax := range ldp.ReadableSyntaxes {
				types[i] = syntax.MediaType
			}
			h.Set(ldpdata.AcceptPost, strings.Join(types, ","))
		}
	}

	for _, l := range linkStrings(mementoLinks(req.External(), res.Mementos())) {
		h.Add("Link", l)
	}
	if res.IsMemento() {
		h.Set(ldpdata.MementoDatetime, ldpdata.FormatDatetime(res.Modified()))
	}
	if inbox, ok := res.Inbox(); ok {
		h.Add("Link", ldpdata.Link{URI: string(inbox), Rels: []string{string(ldp.LDP.Inbox)}}.String())
	}
	if svc, ok := res.AnnotationService(); ok {
		h.Add("Link", ldpdata.Link{URI: string(svc), Rels: []string{string(ldp.OA.AnnotationService)}}.String())
	}
}

func (s *Server) get(ctx context.Context, req *Request) (*response, error) {
	res, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.AcceptDatetime != nil && req.Version == nil && req.Ext == "" && len(res.Mementos()) > 0 {
		return s.timeGate(req, res), nil
	}
	if err := checkLive(req, res); err != nil {
		return nil, err
	}
	if req.Ext == ldpdata.ExtTimeMap {
		return s.timeMap(req, res)
	}

	modified, tag := req.validator(res)
	if err := req.checkPreconditions(modified, tag); err != nil {
		return nil, err
	}
	resp := newResponse(http.StatusOK)
	describe(resp.Header, req, res)
	resp.Header.Set("Etag", tag)
	resp.Header.Set("Last-Modified", modified.UTC().Format(http.TimeFormat))

	if req.servesBinary(res) {
		return s.getBinary(ctx, req, res, resp)
	}
	return s.getRDF(req, res, resp)
}

// representation returns the externalized triples of a resource
// selected by the request's Prefer header.
func (s *Server) representation(req *Request, quads []ldp.Quad) []ldp.Triple {
	keep := rdfutil.FilterWithPrefer(req.Prefer, req.Ext == ldpdata.ExtACL)
	var triples []ldp.Triple
	for _, q := range quads {
		if keep(q) {
			triples = append(triples, q.Triple())
		}
	}
	return rdfutil.MapTriples(triples, rdfutil.Externalize(s.Resources, req.BaseURL))
}

// serialize fills in an RDF response body, or empties the response
// for a minimal return preference.
func (s *Server) serialize(req *Request, resp *response, quads []ldp.Quad) (*response, error) {
	resp.Header.Set("Vary", "Accept, Accept-Datetime, Prefer")
	syntax, ok := rdfutil.SelectSyntax(req.Accept, ldp.Syntaxes)
	if !ok {
		return nil, ldpdata.ErrNotAcceptable{}
	}
	if req.Prefer != nil && req.Prefer.Preference != "" {
		resp.Header.Set(ldpdata.PreferenceApplied, "return="+req.Prefer.Preference)
		if req.Prefer.Preference == ldpdata.PreferMinimal {
			resp.Status = http.StatusNoContent
			return resp, nil
		}
	}
	triples := s.representation(req, quads)
	profiles := req.profiles(syntax)
	resp.Header.Set("Content-Type", contentType(syntax, profiles))
	if err := s.rdfBody(resp, triples, syntax, profiles); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Server) getRDF(req *Request, res ldp.Resource, resp *response) (*response, error) {
	return s.serialize(req, resp, res.Quads())
}

func (s *Server) getBinary(ctx context.Context, req *Request, res ldp.Resource, resp *response) (*response, error) {
	b := res.Binary()
	mimeType := b.MimeType
	if mimeType == "" {
		mimeType = ldpdata.OctetStreamMediaType
	}
	resp.Header.Set("Content-Type", mimeType)
	resp.Header.Set(ldpdata.AcceptRanges, "bytes")
	resp.Header.Set("Vary", "Accept, Accept-Datetime, Prefer, Range, Want-Digest")

	if req.WantDigest != nil {
		if err := s.wantDigest(ctx, req, b, resp.Header); err != nil {
			return nil, err
		}
	}

	from, to := int64(0), b.Size-1
	if req.Range != nil {
		from, to = req.Range.From, req.Range.To
		if b.Size >= 0 {
			if from >= b.Size {
				return nil, ldpdata.ErrRangeNotSatisfiable{Size: b.Size}
			}
			if to >= b.Size {
				to = b.Size - 1
			}
		}
		resp.Status = http.StatusPartialContent
		size := "*"
		if b.Size >= 0 {
			size = strconv.FormatInt(b.Size, 10)
		}
		resp.Header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%s", from, to, size))
		resp.Header.Set("Content-Length", strconv.FormatInt(to-from+1, 10))
	} else if b.Size >= 0 {
		resp.Header.Set("Content-Length", strconv.FormatInt(b.Size, 10))
	}

	if req.Method == http.MethodHead {
		return resp, nil
	}
	var (
		content io.ReadCloser
		err     error
	)
	if req.Range != nil {
		content, err = s.Binaries.ContentRange(ctx, req.Partition, b.Location, from, to)
	} else {
		content, err = s.Binaries.Content(ctx, req.Partition, b.Location)
	}
	if err != nil {
		return nil, err
	}
	resp.Body = func(w io.Writer) error {
		defer content.Close()
		_, err := io.Copy(w, content)
		return err
	}
	return resp, nil
}

// wantDigest adds a Digest header computed with the first requested
// algorithm the binary service supports.  If there is none, no header
// is added.
func (s *Server) wantDigest(ctx context.Context, req *Request, b *ldp.Binary, h http.Header) error {
	supported := make(map[string]bool)
	for _, alg := range s.Binaries.SupportedAlgorithms() {
		supported[alg] = true
	}
	for _, alg := range req.WantDigest.Algorithms() {
		if !supported[alg] {
			continue
		}
		content, err := s.Binaries.Content(ctx, req.Partition, b.Location)
		if err != nil {
			return err
		}
		value, err := s.Binaries.Digest(alg, content)
		content.Close()
		if err != nil {
			return err
		}
		h.Set(ldpdata.Digest, ldpdata.DigestHeader{Algorithm: alg, Value: value}.String())
		return nil
	}
	return nil
}

func (s *Server) options(ctx context.Context, req *Request) (*response, error) {
	res, err := s.loadLive(ctx, req)
	if err != nil {
		return nil, err
	}
	resp := newResponse(http.StatusNoContent)
	describe(resp.Header, req, res)
	return resp, nil
}
