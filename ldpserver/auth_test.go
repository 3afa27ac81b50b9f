// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"github.com/diffeo/go-trellis/agent"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/diffeo/go-trellis/ldpdata"
	"github.com/diffeo/go-trellis/webac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/negroni"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newSecureFixture creates a fixture with basic authentication for
// alice and an administrator, and WebAC enforced with no default
// access.
func newSecureFixture(t *testing.T) *fixture {
	f := newFixture(t)
	f.Server.Agents = agent.New("root")
	f.Server.Access = webac.New(f.Server.Resources)
	f.Server.Users = map[string]string{"alice": "secret", "root": "hunter2"}
	f.Server.Challenges = []string{`Basic realm="trellis"`}
	f.Handler = f.Server.Handler(RequestLogger{})
	return f
}

func (f *fixture) As(user, password, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.SetBasicAuth(user, password)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Add(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.Handler.ServeHTTP(w, req)
	return w
}

const root = baseURL + "repo1"

func TestAnonymousDenied(t *testing.T) {
	f := newSecureFixture(t)

	w := f.Do(http.MethodGet, root, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, []string{`Basic realm="trellis"`}, w.Header()["Www-Authenticate"])
	assert.Contains(t, w.Header()["Link"], "<"+root+`?ext=acl>; rel="acl"`)
}

func TestBadPassword(t *testing.T) {
	f := newSecureFixture(t)

	w := f.As("alice", "wrong", http.MethodGet, root, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = f.As("mallory", "secret", http.MethodGet, root, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticatedDenied(t *testing.T) {
	f := newSecureFixture(t)

	w := f.As("alice", "secret", http.MethodGet, root, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGrantRead(t *testing.T) {
	f := newSecureFixture(t)

	update := `INSERT DATA {
  <#alice> a <http://www.w3.org/ns/auth/acl#Authorization> ;
    <http://www.w3.org/ns/auth/acl#agent> <user:alice> ;
    <http://www.w3.org/ns/auth/acl#mode> <http://www.w3.org/ns/auth/acl#Read> ;
    <http://www.w3.org/ns/auth/acl#accessTo> <` + root + `> ;
    <http://www.w3.org/ns/auth/acl#default> <` + root + `> .
}`
	w := f.As("root", "hunter2", http.MethodPatch, root+"?ext=acl", update,
		"Content-Type", ldpdata.SPARQLUpdateMediaType)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	assert.NotContains(t, w.Header()["Link"], "<"+root+`?ext=acl>; rel="acl"`)

	w = f.As("alice", "secret", http.MethodGet, root, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header()["Link"], "<"+root+`?ext=acl>; rel="acl"`)

	// Read does not allow writes or reading the ACL
	w = f.As("alice", "secret", http.MethodPut, root+"/doc", titleBody, "Content-Type", turtle)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = f.As("alice", "secret", http.MethodGet, root+"?ext=acl", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The administrator creates a child, which alice can read
	// through the default authorization
	w = f.As("root", "hunter2", http.MethodPut, root+"/doc", titleBody, "Content-Type", turtle)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = f.As("alice", "secret", http.MethodGet, root+"/doc", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.Do(http.MethodGet, root+"/doc", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuditAgent(t *testing.T) {
	f := newSecureFixture(t)

	w := f.As("root", "hunter2", http.MethodPut, root+"/doc", titleBody, "Content-Type", turtle)
	require.Equal(t, http.StatusNoContent, w.Code)

	include := `return=representation; include="` + string(ldp.Trellis.PreferAudit) + `"`
	w = f.As("root", "hunter2", http.MethodGet, root+"/doc", "",
		ldpdata.Prefer, include, "Accept", "application/n-triples")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<"+string(ldp.Trellis.AdministratorAgent)+">")
}

func TestUnconfiguredPartition(t *testing.T) {
	f := newSecureFixture(t)

	w := f.Do(http.MethodGet, baseURL+"other/thing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header()["Link"])
}

func TestUnknownMethodDenied(t *testing.T) {
	f := newSecureFixture(t)

	w := f.As("root", "hunter2", "BREW", root, "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRequiredModes(t *testing.T) {
	for _, c := range []struct {
		Method, Ext string
		Modes       []ldp.IRI
	}{
		{http.MethodGet, "", []ldp.IRI{ldp.ACL.Read}},
		{http.MethodOptions, "", []ldp.IRI{ldp.ACL.Read}},
		{http.MethodPatch, "", []ldp.IRI{ldp.ACL.Write}},
		{http.MethodPost, "", []ldp.IRI{ldp.ACL.Append, ldp.ACL.Write}},
		{http.MethodGet, ldpdata.ExtACL, []ldp.IRI{ldp.ACL.Control}},
		{http.MethodGet, ldpdata.ExtTimeMap, []ldp.IRI{ldp.ACL.Read}},
	} {
		modes, ok := requiredModes(c.Method, c.Ext)
		if assert.True(t, ok, c.Method) {
			assert.Equal(t, c.Modes, modes, c.Method)
		}
	}
	_, ok := requiredModes("BREW", "")
	assert.False(t, ok)
}

func TestRequestLoggerStatus(t *testing.T) {
	n := negroni.New(RequestLogger{})
	n.UseHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	w := httptest.NewRecorder()
	n.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
