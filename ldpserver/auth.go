// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"crypto/subtle"
	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/diffeo/go-trellis/ldpdata"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
	"net/http"
	"time"
)

// BasicAuthenticator is negroni middleware that checks HTTP Basic
// credentials against a fixed set of users.  A request with valid
// credentials carries a session for the user's agent in its context.
// A request with no credentials continues anonymously; one with bad
// credentials is rejected with 401.
type BasicAuthenticator struct {
	Users      map[string]string
	Agents     ldp.AgentService
	Clock      clock.Clock
	Challenges []string
}

func (a *BasicAuthenticator) ServeHTTP(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	user, password, ok := r.BasicAuth()
	if !ok {
		next(rw, r)
		return
	}
	expected, known := a.Users[user]
	if !known || subtle.ConstantTimeCompare([]byte(expected), []byte(password)) != 1 {
		logrus.WithFields(logrus.Fields{
			"user": user,
			"path": r.URL.Path,
		}).Warn("Rejected basic authentication")
		writeError(rw, r, ldpdata.ErrUnauthorized{Challenges: a.Challenges})
		return
	}
	session := ldp.NewSession(a.Agents.AsAgent(user), a.Clock.Now())
	next(rw, r.WithContext(ldp.WithSession(r.Context(), session)))
}

// WebACFilter is negroni middleware enforcing WebAC access modes on
// the configured partitions of a Server.
type WebACFilter struct {
	Server *Server
}

// requiredModes returns the access modes of which a request needs at
// least one.
func requiredModes(method, ext string) ([]ldp.IRI, bool) {
	if ext == ldpdata.ExtACL {
		return []ldp.IRI{ldp.ACL.Control}, true
	}
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return []ldp.IRI{ldp.ACL.Read}, true
	case http.MethodPut, http.MethodPatch, http.MethodDelete:
		return []ldp.IRI{ldp.ACL.Write}, true
	case http.MethodPost:
		return []ldp.IRI{ldp.ACL.Append, ldp.ACL.Write}, true
	}
	return nil, false
}

func (f *WebACFilter) ServeHTTP(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	s := f.Server
	partition, path := splitPath(r.URL.EscapedPath())
	if _, configured := s.Partitions[partition]; !configured {
		next(rw, r)
		return
	}

	session, ok := ldp.SessionFrom(r.Context())
	if !ok {
		session = ldp.NewSession(ldp.Trellis.AnonymousUser, s.clock().Now())
		r = r.WithContext(ldp.WithSession(r.Context(), session))
	}

	ext := r.URL.Query().Get("ext")
	external := s.baseURL(partition, r) + partition + path
	if ext != ldpdata.ExtACL {
		link := ldpdata.Link{URI: external + "?ext=" + ldpdata.ExtACL, Rels: []string{"acl"}}
		rw.Header().Add("Link", link.String())
	}

	required, ok := requiredModes(r.Method, ext)
	if !ok {
		writeError(rw, r, errMethodNotAllowed(r.Method, nil))
		return
	}
	id := ldp.IRI(ldp.TrellisPrefix + partition + path)
	modes, err := s.Access.AccessModes(r.Context(), id, session)
	if err != nil {
		writeError(rw, r, err)
		return
	}
	if hasAny(modes, required) {
		next(rw, r)
		return
	}

	logrus.WithFields(logrus.Fields{
		"agent":  session.Agent,
		"method": r.Method,
		"path":   r.URL.Path,
	}).Warn("Access denied")
	if session.IsAnonymous() {
		writeError(rw, r, ldpdata.ErrUnauthorized{Challenges: s.challenges()})
	} else {
		writeError(rw, r, ldpdata.ErrForbidden{})
	}
}

func hasAny(have, want []ldp.IRI) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// RequestLogger is negroni middleware logging each request at debug
// level once it completes.
type RequestLogger struct{}

func (RequestLogger) ServeHTTP(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	start := time.Now()
	next(rw, r)
	status := 0
	if nrw, ok := rw.(negroni.ResponseWriter); ok {
		status = nrw.Status()
	}
	logrus.WithFields(logrus.Fields{
		"method":   r.Method,
		"path":     r.URL.RequestURI(),
		"status":   status,
		"duration": time.Since(start),
	}).Debug("Request")
}
