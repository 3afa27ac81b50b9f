// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"bytes"
	"fmt"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/diffeo/go-trellis/ldpdata"
	"github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"
	"io"
	"net/http"
)

// response is the result of a successful handler.  Handlers never
// write to the http.ResponseWriter themselves, so a handler that
// fails partway leaves no headers behind.
type response struct {
	Status int
	Header http.Header

	// Body, if non-nil, writes the response body.  It is not
	// called for HEAD requests.
	Body func(w io.Writer) error
}

func newResponse(status int) *response {
	return &response{Status: status, Header: make(http.Header)}
}

func (resp *response) write(w http.ResponseWriter, r *http.Request) {
	for name, values := range resp.Header {
		for _, value := range values {
			w.Header().Add(name, value)
		}
	}
	w.WriteHeader(resp.Status)
	if resp.Body == nil || r.Method == http.MethodHead {
		return
	}
	// The status line is already sent, so a failure here can only
	// be logged
	if err := resp.Body(w); err != nil {
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"err":    err,
		}).Warn("Error writing response body")
	}
}

// rdfBody serializes triples before anything is sent, so a failing
// IOService produces an error response and not a truncated 200.
func (s *Server) rdfBody(resp *response, triples []ldp.Triple, syntax ldp.Syntax, profiles []ldp.IRI) error {
	var buf bytes.Buffer
	if err := s.IO.Write(&buf, triples, syntax, profiles...); err != nil {
		return err
	}
	body := buf.Bytes()
	resp.Body = func(w io.Writer) error {
		_, err := w.Write(body)
		return err
	}
	return nil
}

// errPanic wraps a value recovered from a panicking handler.
type errPanic struct {
	Value interface{}
}

func (e errPanic) Error() string {
	return fmt.Sprintf("Internal error: %v", e.Value)
}

// errNotModified is returned when a conditional GET or HEAD matches
// the current state.
type errNotModified struct {
	ETag string
}

func (e errNotModified) Error() string {
	return "Not modified"
}

func (e errNotModified) HTTPStatus() int {
	return http.StatusNotModified
}

func (e errNotModified) Headers() http.Header {
	return http.Header{"Etag": {e.ETag}}
}

func errMethodNotAllowed(method string, allow []string) error {
	return ldpdata.ErrMethodNotAllowed{Method: method, Allow: allow}
}

// writeError sends an error response.  The status comes from the
// error's HTTPStatus method, defaulting to 500.  Bodies are plain
// text, except for 406, which gets a JSON object.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errS, hasStatus := err.(ldpdata.ErrorStatus); hasStatus {
		status = errS.HTTPStatus()
	}
	if errH, hasHeaders := err.(ldpdata.ErrorHeaders); hasHeaders {
		for name, values := range errH.Headers() {
			for _, value := range values {
				w.Header().Add(name, value)
			}
		}
	}

	fields := logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
		"err":    err,
	}
	if status >= 500 {
		logrus.WithFields(fields).Error("Error handling request")
	} else {
		logrus.WithFields(fields).Debug("Request failed")
	}

	if status == http.StatusNotModified {
		w.WriteHeader(status)
		return
	}
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Unable to complete the request. Please consult the logs for more information."
	}
	if status == http.StatusNotAcceptable {
		w.Header().Set("Content-Type", ldpdata.JSONMediaType)
		w.WriteHeader(status)
		if r.Method != http.MethodHead {
			json := &codec.JsonHandle{}
			encoder := codec.NewEncoder(w, json)
			_ = encoder.Encode(ldpdata.ErrorResponse{Code: status, Message: message})
		}
		return
	}
	w.Header().Set("Content-Type", ldpdata.TextMediaType)
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = io.WriteString(w, message)
	}
}
