// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpdata

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// rfc1123 accepts both one- and two-digit days of the month.
const rfc1123 = "Mon, 2 Jan 2006 15:04:05 MST"

// httpDate is the layout of dates the server emits.
const httpDate = "Mon, 2 Jan 2006 15:04:05 GMT"

// ParseAcceptDatetime parses an Accept-Datetime header: an RFC 1123
// date in GMT.
func ParseAcceptDatetime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	t, err := time.Parse(rfc1123, value)
	if err != nil {
		return time.Time{}, ParseError{Header: AcceptDatetime, Input: value, Reason: err.Error()}
	}
	if name, offset := t.Zone(); offset != 0 || (name != "GMT" && name != "UTC") {
		return time.Time{}, ParseError{Header: AcceptDatetime, Input: value, Reason: "not GMT"}
	}
	return t.UTC(), nil
}

// ParseHTTPDate parses a conditional-request date in any of the
// HTTP formats, or in RFC 1123 with a one-digit day as FormatDatetime
// writes it.
func ParseHTTPDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	t, err := http.ParseTime(value)
	if err == nil {
		return t, nil
	}
	if t, err2 := time.Parse(rfc1123, value); err2 == nil {
		return t.UTC(), nil
	}
	return time.Time{}, err
}

// FormatDatetime formats a time as an RFC 1123 date in GMT, as used
// in Memento-Datetime and link datetime attributes.
func FormatDatetime(t time.Time) string {
	return t.UTC().Format(httpDate)
}

// ParseVersion parses a version query parameter: decimal seconds
// since the Unix epoch.
func ParseVersion(value string) (time.Time, error) {
	secs, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return time.Time{}, ParseError{Header: "version", Input: value}
	}
	return time.Unix(secs, 0).UTC(), nil
}

// FormatVersion converts a time to a version query parameter.
func FormatVersion(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
