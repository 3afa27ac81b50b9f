// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpdata

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorStatus describes errors that correspond to specific HTTP status
// codes.
type ErrorStatus interface {
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrorHeaders describes errors that add headers to the error
// response.
type ErrorHeaders interface {
	// Headers returns the headers to add to the response.
	Headers() http.Header
}

// ParseError is returned from the header parsers when a value is
// malformed.
type ParseError struct {
	Header string
	Input  string
	Reason string
}

func (e ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("Invalid %v: %q", e.Header, e.Input)
	}
	return fmt.Sprintf("Invalid %v %q: %v", e.Header, e.Input, e.Reason)
}

// HTTPStatus returns a fixed 400 Bad Request error code.
func (e ParseError) HTTPStatus() int {
	return http.StatusBadRequest
}

// ErrNotFound indicates that no resource exists at the request URL.
type ErrNotFound struct {
	Identifier string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("No resource %v", e.Identifier)
}

// HTTPStatus returns a fixed 404 Not Found error code.
func (e ErrNotFound) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrGone indicates that the resource at the request URL has been
// deleted.  Link holds the memento links of the former resource.
type ErrGone struct {
	Identifier string
	Link       []string
}

func (e ErrGone) Error() string {
	return fmt.Sprintf("Resource %v has been deleted", e.Identifier)
}

// HTTPStatus returns a fixed 410 Gone error code.
func (e ErrGone) HTTPStatus() int {
	return http.StatusGone
}

// Headers returns the memento links.
func (e ErrGone) Headers() http.Header {
	return http.Header{"Link": e.Link}
}

// ErrMethodNotAllowed indicates that the method cannot be applied to
// the target resource.
type ErrMethodNotAllowed struct {
	Method string
	Allow  []string
}

func (e ErrMethodNotAllowed) Error() string {
	return fmt.Sprintf("Method %v not allowed", e.Method)
}

// HTTPStatus returns a fixed 405 Method Not Allowed error code.
func (e ErrMethodNotAllowed) HTTPStatus() int {
	return http.StatusMethodNotAllowed
}

// Headers returns the Allow header, if known.
func (e ErrMethodNotAllowed) Headers() http.Header {
	if len(e.Allow) == 0 {
		return nil
	}
	return http.Header{"Allow": {strings.Join(e.Allow, ",")}}
}

// ErrUnsupportedMediaType is returned when a request body's
// Content-Type cannot be accepted for the target.
type ErrUnsupportedMediaType struct {
	Type string
}

func (e ErrUnsupportedMediaType) Error() string {
	return fmt.Sprintf("Unsupported media type %q", e.Type)
}

// HTTPStatus returns a fixed 415 Unsupported Media Type error code.
func (e ErrUnsupportedMediaType) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

// ErrBadRequest is returned as an error when the request body or
// headers are unacceptable.  If ConstrainedBy is set, the response
// links to the violated constraint.
type ErrBadRequest struct {
	Err           error
	ConstrainedBy string
}

func (e ErrBadRequest) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 400 Bad Request HTTP status code.
func (e ErrBadRequest) HTTPStatus() int {
	return http.StatusBadRequest
}

// Headers returns the constrainedBy link, if any.
func (e ErrBadRequest) Headers() http.Header {
	if e.ConstrainedBy == "" {
		return nil
	}
	link := Link{URI: e.ConstrainedBy, Rels: []string{"http://www.w3.org/ns/ldp#constrainedBy"}}
	return http.Header{"Link": {link.String()}}
}

// ErrUnauthorized is returned when an anonymous request lacks a
// required access mode.  Challenges become WWW-Authenticate headers.
type ErrUnauthorized struct {
	Challenges []string
}

func (e ErrUnauthorized) Error() string {
	return "Authentication required"
}

// HTTPStatus returns a fixed 401 Unauthorized error code.
func (e ErrUnauthorized) HTTPStatus() int {
	return http.StatusUnauthorized
}

// Headers returns one WWW-Authenticate header per challenge.
func (e ErrUnauthorized) Headers() http.Header {
	return http.Header{"Www-Authenticate": e.Challenges}
}

// ErrForbidden is returned when an authenticated agent lacks a
// required access mode.
type ErrForbidden struct{}

func (e ErrForbidden) Error() string {
	return "Access denied"
}

// HTTPStatus returns a fixed 403 Forbidden error code.
func (e ErrForbidden) HTTPStatus() int {
	return http.StatusForbidden
}

// ErrPreconditionFailed is returned when a conditional request
// header does not match the resource.
type ErrPreconditionFailed struct {
	Header string
}

func (e ErrPreconditionFailed) Error() string {
	return fmt.Sprintf("Precondition %v failed", e.Header)
}

// HTTPStatus returns a fixed 412 Precondition Failed error code.
func (e ErrPreconditionFailed) HTTPStatus() int {
	return http.StatusPreconditionFailed
}

// ErrNotAcceptable is returned when no representation matches the
// Accept header.
type ErrNotAcceptable struct{}

func (e ErrNotAcceptable) Error() string {
	return fmt.Sprintf("HTTP %d %s", http.StatusNotAcceptable, http.StatusText(http.StatusNotAcceptable))
}

// HTTPStatus returns a fixed 406 Not Acceptable error code.
func (e ErrNotAcceptable) HTTPStatus() int {
	return http.StatusNotAcceptable
}

// ErrConflict is returned when a request would overwrite an existing
// resource it should not.
type ErrConflict struct {
	Identifier string
}

func (e ErrConflict) Error() string {
	return fmt.Sprintf("Resource %v already exists", e.Identifier)
}

// HTTPStatus returns a fixed 409 Conflict error code.
func (e ErrConflict) HTTPStatus() int {
	return http.StatusConflict
}

// ErrEntityTooLarge is returned when a request body exceeds the
// configured limit.
type ErrEntityTooLarge struct {
	Limit int64
}

func (e ErrEntityTooLarge) Error() string {
	return fmt.Sprintf("Request body exceeds %d bytes", e.Limit)
}

// HTTPStatus returns a fixed 413 Request Entity Too Large error code.
func (e ErrEntityTooLarge) HTTPStatus() int {
	return http.StatusRequestEntityTooLarge
}

// ErrRangeNotSatisfiable is returned when a Range header lies
// outside the content.
type ErrRangeNotSatisfiable struct {
	Size int64
}

func (e ErrRangeNotSatisfiable) Error() string {
	return "Requested range not satisfiable"
}

// HTTPStatus returns a fixed 416 Requested Range Not Satisfiable
// error code.
func (e ErrRangeNotSatisfiable) HTTPStatus() int {
	return http.StatusRequestedRangeNotSatisfiable
}

// Headers returns the Content-Range header giving the content size.
func (e ErrRangeNotSatisfiable) Headers() http.Header {
	return http.Header{"Content-Range": {fmt.Sprintf("bytes */%d", e.Size)}}
}

// ErrorResponse is the JSON body of a 406 Not Acceptable response.
type ErrorResponse struct {
	Code    int    `codec:"code"`
	Message string `codec:"message"`
}
