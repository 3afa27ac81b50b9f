// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"errors"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/diffeo/go-trellis/rdfio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ugorji/go/codec"
	"io"
	"net/http"
	"reflect"
	"testing"
)

const (
	jsonldBody   = `{"@id": "` + resource + `", "http://purl.org/dc/terms/title": "A title"}`
	ntriplesBody = "<" + resource + `> <http://purl.org/dc/terms/title> "A title" .` + "\n"
)

func TestPutJSONLD(t *testing.T) {
	f := newFixture(t)
	w := f.Do(http.MethodPut, resource, jsonldBody, "Content-Type", "application/ld+json")
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = f.Do(http.MethodGet, resource, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ntriplesBody, w.Body.String())

	// And back out as JSON-LD
	w = f.Do(http.MethodGet, resource, "", "Accept", "application/ld+json")
	require.Equal(t, http.StatusOK, w.Code)
	h := &codec.JsonHandle{}
	h.MapType = reflect.TypeOf(map[string]interface{}(nil))
	var doc []map[string]interface{}
	require.NoError(t, codec.NewDecoderBytes(w.Body.Bytes(), h).Decode(&doc))
	require.Len(t, doc, 1)
	assert.Equal(t, resource, doc[0]["@id"])
	assert.Equal(t, []interface{}{map[string]interface{}{"@value": "A title"}},
		doc[0]["http://purl.org/dc/terms/title"])
}

func TestPutNTriples(t *testing.T) {
	f := newFixture(t)
	w := f.Do(http.MethodPut, resource, ntriplesBody, "Content-Type", "application/n-triples")
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = f.Do(http.MethodGet, resource, "", "Accept", "application/n-triples")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ntriplesBody, w.Body.String())
}

func TestPostJSONLDAndNTriples(t *testing.T) {
	f := newFixture(t)
	f.Create(resource, "", "Link", container)

	w := f.Do(http.MethodPost, resource, `{"@id": "", "http://purl.org/dc/terms/title": "JSON"}`,
		"Slug", "json", "Content-Type", "application/ld+json")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = f.Do(http.MethodGet, resource+"/json", "")
	assert.Equal(t, "<"+resource+`/json> <http://purl.org/dc/terms/title> "JSON" .`+"\n", w.Body.String())

	w = f.Do(http.MethodPost, resource, `<> <http://purl.org/dc/terms/title> "NT" .`,
		"Slug", "nt", "Content-Type", "application/n-triples")
	// Relative IRIs are not N-Triples
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.Do(http.MethodPost, resource, "<"+resource+`/nt> <http://purl.org/dc/terms/title> "NT" .`,
		"Slug", "nt", "Content-Type", "application/n-triples")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = f.Do(http.MethodGet, resource+"/nt", "")
	assert.Contains(t, w.Body.String(), `"NT"`)
}

func TestPutIfMatchAbsent(t *testing.T) {
	f := newFixture(t)
	w := f.Do(http.MethodPut, resource+"/new", titleBody, "Content-Type", turtle, "If-Match", `"abc"`)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	w = f.Do(http.MethodPut, resource+"/new", titleBody, "Content-Type", turtle, "If-Match", "*")
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	w = f.Do(http.MethodGet, resource+"/new", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// If-None-Match: * is create-only
	w = f.Do(http.MethodPut, resource+"/new", titleBody, "Content-Type", turtle, "If-None-Match", "*")
	assert.Equal(t, http.StatusNoContent, w.Code)

	f.Create(resource, titleBody)
	tag := f.Do(http.MethodGet, resource, "").Header().Get("Etag")
	require.Equal(t, http.StatusNoContent, f.Do(http.MethodDelete, resource, "").Code)
	w = f.Do(http.MethodPut, resource, titleBody, "Content-Type", turtle, "If-Match", tag)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	w = f.Do(http.MethodGet, resource, "")
	assert.Equal(t, http.StatusGone, w.Code)
}

// failIO reads with the real service but cannot write.
type failIO struct {
	*rdfio.Service
}

func (failIO) Write(w io.Writer, triples []ldp.Triple, syntax ldp.Syntax, profiles ...ldp.IRI) error {
	return errors.New("serializer broke")
}

func TestWriteFailure(t *testing.T) {
	f := newFixture(t)
	f.Create(resource, titleBody)
	f.Server.IO = failIO{rdfio.New()}

	w := f.Do(http.MethodGet, resource, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "serializer broke")

	w = f.Do(http.MethodGet, resource+"?ext=timemap", "", "Accept", turtle)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPostSlugEscaped(t *testing.T) {
	f := newFixture(t)
	f.Create(resource, "", "Link", container)

	w := f.Do(http.MethodPost, resource, titleBody, "Slug", "a b", "Content-Type", turtle)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	location := w.Header().Get("Location")
	assert.Equal(t, resource+"/a%20b", location)

	w = f.Do(http.MethodGet, location, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<"+location+">")
}
