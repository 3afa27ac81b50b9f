// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"github.com/diffeo/go-trellis/ldp"
	"github.com/diffeo/go-trellis/ldpdata"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Request holds everything the handlers need to know about one HTTP
// request.  It is built once by parseRequest and not changed after
// that.  Optional headers that were absent are nil.
type Request struct {
	Method string

	// Partition is the first path segment.
	Partition string

	// Path is the rest of the request path, either empty or
	// starting with "/", without a trailing slash.
	Path string

	// BaseURL is the external URL of the server root, ending in
	// "/".
	BaseURL string

	// Ext names a subresource, ldpdata.ExtACL or
	// ldpdata.ExtTimeMap, or is empty.
	Ext string

	Version        *time.Time
	AcceptDatetime *time.Time
	Prefer         *ldpdata.PreferHeader
	Range          *ldpdata.RangeHeader
	WantDigest     *ldpdata.WantDigestHeader
	Digest         *ldpdata.DigestHeader
	Slug           string
	Links          []ldpdata.Link
	ContentType    string
	Accept         []ldpdata.MediaRange
	Session        ldp.Session

	IfMatch           string
	IfNoneMatch       string
	IfModifiedSince   string
	IfUnmodifiedSince string

	// entity is the spooled request body, nil if the method has
	// none.
	entity *os.File
	size   int64
}

// Identifier returns the internal IRI of the target resource.
func (req *Request) Identifier() ldp.IRI {
	return ldp.IRI(ldp.TrellisPrefix + req.Partition + req.Path)
}

// External returns the external URL of the target resource, without
// query parameters.
func (req *Request) External() string {
	return req.BaseURL + req.Partition + req.Path
}

// HasBody reports whether a non-empty request body was spooled.
func (req *Request) HasBody() bool {
	return req.entity != nil && req.size > 0
}

// Body returns a reader over the whole spooled request body.  Each
// call starts again from the beginning.
func (req *Request) Body() io.Reader {
	if req.entity == nil {
		return strings.NewReader("")
	}
	return io.NewSectionReader(req.entity, 0, req.size)
}

// Close removes the spooled request body.
func (req *Request) Close() error {
	if req.entity == nil {
		return nil
	}
	name := req.entity.Name()
	err := req.entity.Close()
	if err2 := os.Remove(name); err == nil {
		err = err2
	}
	req.entity = nil
	return err
}

// parseRequest builds the request envelope, spooling the body of
// PUT, POST and PATCH requests.  Any malformed header fails the whole
// request.
func (s *Server) parseRequest(r *http.Request) (req *Request, err error) {
	req = &Request{
		Method:            r.Method,
		Slug:              strings.TrimSpace(r.Header.Get(ldpdata.Slug)),
		ContentType:       r.Header.Get("Content-Type"),
		Accept:            ldpdata.ParseAccept(strings.Join(r.Header["Accept"], ",")),
		IfMatch:           r.Header.Get("If-Match"),
		IfNoneMatch:       r.Header.Get("If-None-Match"),
		IfModifiedSince:   r.Header.Get("If-Modified-Since"),
		IfUnmodifiedSince: r.Header.Get("If-Unmodified-Since"),
	}
	req.Partition, req.Path = splitPath(r.URL.EscapedPath())
	req.BaseURL = s.baseURL(req.Partition, r)

	query := r.URL.Query()
	req.Ext = query.Get("ext")
	if v := query.Get("version"); v != "" {
		t, err := ldpdata.ParseVersion(v)
		if err != nil {
			return nil, err
		}
		req.Version = &t
	}
	if v := r.Header.Get(ldpdata.AcceptDatetime); v != "" {
		t, err := ldpdata.ParseAcceptDatetime(v)
		if err != nil {
			return nil, err
		}
		req.AcceptDatetime = &t
	}
	if v := strings.Join(r.Header[ldpdata.Prefer], ","); v != "" {
		if req.Prefer, err = ldpdata.ParsePrefer(v); err != nil {
			return nil, err
		}
	}
	if v := r.Header.Get(ldpdata.Range); v != "" {
		if req.Range, err = ldpdata.ParseRange(v); err != nil {
			return nil, err
		}
	}
	if v := r.Header.Get(ldpdata.WantDigest); v != "" {
		if req.WantDigest, err = ldpdata.ParseWantDigest(v); err != nil {
			return nil, err
		}
	}
	if v := r.Header.Get(ldpdata.Digest); v != "" {
		if req.Digest, err = ldpdata.ParseDigest(v); err != nil {
			return nil, err
		}
	}
	if links := r.Header["Link"]; len(links) > 0 {
		if req.Links, err = ldpdata.ParseLinkHeaders(links); err != nil {
			return nil, err
		}
	}

	if session, ok := ldp.SessionFrom(r.Context()); ok {
		req.Session = session
	} else {
		req.Session = ldp.NewSession(ldp.Trellis.AnonymousUser, s.clock().Now())
	}

	switch r.Method {
	case http.MethodPut, http.MethodPost, http.MethodPatch:
		if err := req.spool(r.Body, s.SpoolDir, s.maxBodySize()); err != nil {
			req.Close()
			return nil, err
		}
	}
	return req, nil
}

// spool copies the request body to a temporary file, failing if it
// is longer than limit.
func (req *Request) spool(body io.Reader, dir string, limit int64) error {
	if body == nil {
		return nil
	}
	f, err := os.CreateTemp(dir, "trellis-")
	if err != nil {
		return err
	}
	req.entity = f
	n, err := io.Copy(f, io.LimitReader(body, limit+1))
	if err != nil {
		return err
	}
	if n > limit {
		return ldpdata.ErrEntityTooLarge{Limit: limit}
	}
	req.size = n
	return nil
}

// splitPath divides a request path into its partition and the rest
// of the path, dropping any trailing slash.
func splitPath(path string) (partition, rest string) {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i], path[i:]
	}
	return path, ""
}

// baseURL returns the configured base URL of a partition, or one
// derived from the request.
func (s *Server) baseURL(partition string, r *http.Request) string {
	if base := s.Partitions[partition]; base != "" {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		return base
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = fwd
	}
	return scheme + "://" + host + "/"
}
