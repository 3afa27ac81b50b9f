// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"crypto/md5"
	"encoding/hex"
	"github.com/diffeo/go-trellis/ldpdata"
	"github.com/sirupsen/logrus"
	"net/http"
	"strings"
	"time"
)

// entityTag computes the ETag of a resource state: the md5 of its
// modification time and external identifier.  Binary content gets a
// strong tag, RDF descriptions a weak one.
func entityTag(modified time.Time, identifier string, strong bool) string {
	sum := md5.Sum([]byte(modified.UTC().Format(time.RFC3339Nano) + identifier))
	tag := `"` + hex.EncodeToString(sum[:]) + `"`
	if strong {
		return tag
	}
	return "W/" + tag
}

// opaqueTag strips the weakness indicator from an entity tag.
func opaqueTag(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "W/")
}

// tagMatches compares a list-valued If-Match or If-None-Match header
// against a tag, using weak comparison.
func tagMatches(header, tag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || opaqueTag(candidate) == opaqueTag(tag) {
			return true
		}
	}
	return false
}

// parseHTTPDate parses a conditional date header.  Malformed dates
// are logged and ignored.
func parseHTTPDate(header, value string) (time.Time, bool) {
	t, err := ldpdata.ParseHTTPDate(value)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"header": header,
			"value":  value,
		}).Warn("Ignoring malformed cache-related header")
		return time.Time{}, false
	}
	return t, true
}

// checkPreconditions evaluates the conditional headers (RFC 7232
// section 6) against the current state of the target.
func (req *Request) checkPreconditions(modified time.Time, tag string) error {
	safe := req.Method == http.MethodGet || req.Method == http.MethodHead
	modified = modified.Truncate(time.Second)

	if req.IfMatch != "" {
		if !tagMatches(req.IfMatch, tag) {
			return ldpdata.ErrPreconditionFailed{Header: "If-Match"}
		}
	} else if req.IfUnmodifiedSince != "" {
		if t, ok := parseHTTPDate("If-Unmodified-Since", req.IfUnmodifiedSince); ok && modified.After(t) {
			return ldpdata.ErrPreconditionFailed{Header: "If-Unmodified-Since"}
		}
	}

	if req.IfNoneMatch != "" {
		if tagMatches(req.IfNoneMatch, tag) {
			if safe {
				return errNotModified{ETag: tag}
			}
			return ldpdata.ErrPreconditionFailed{Header: "If-None-Match"}
		}
	} else if safe && req.IfModifiedSince != "" {
		if t, ok := parseHTTPDate("If-Modified-Since", req.IfModifiedSince); ok && !modified.After(t) {
			return errNotModified{ETag: tag}
		}
	}
	return nil
}
