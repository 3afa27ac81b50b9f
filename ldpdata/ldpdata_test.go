// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpdata

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"testing"
	"time"
)

func TestAcceptDatetime(t *testing.T) {
	when, err := ParseAcceptDatetime("Thu, 1 Jun 2017 00:32:09 GMT")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2017, 6, 1, 0, 32, 9, 0, time.UTC), when)
	assert.Equal(t, time.UTC, when.Location())

	when, err = ParseAcceptDatetime(" Wed, 31 May 2017 22:32:09 GMT ")
	require.NoError(t, err)
	assert.Equal(t, int64(1496269929), when.Unix())

	for _, bad := range []string{"", "2017-06-01T00:32:09Z", "Thu, 1 Jun 2017", "yesterday"} {
		_, err := ParseAcceptDatetime(bad)
		if assert.Error(t, err, bad) {
			assert.IsType(t, ParseError{}, err)
			assert.Equal(t, http.StatusBadRequest, err.(ErrorStatus).HTTPStatus())
		}
	}

	assert.Equal(t, "Thu, 1 Jun 2017 00:32:09 GMT", FormatDatetime(time.Unix(1496277129, 0)))
}

func TestHTTPDate(t *testing.T) {
	for _, value := range []string{
		"Mon, 01 Jan 2001 00:00:00 GMT",
		"Mon, 1 Jan 2001 00:00:00 GMT",
		"Monday, 01-Jan-01 00:00:00 GMT",
		"Mon Jan  1 00:00:00 2001",
	} {
		when, err := ParseHTTPDate(value)
		if assert.NoError(t, err, value) {
			assert.Equal(t, int64(978307200), when.Unix(), value)
		}
	}

	// Whatever FormatDatetime writes can be read back
	at := time.Unix(1496277129, 0)
	when, err := ParseHTTPDate(FormatDatetime(at))
	require.NoError(t, err)
	assert.True(t, at.Equal(when))

	_, err = ParseHTTPDate("not a date")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	when, err := ParseVersion("1496262729")
	require.NoError(t, err)
	assert.Equal(t, int64(1496262729), when.Unix())
	assert.Equal(t, "1496262729", FormatVersion(when))

	_, err = ParseVersion("foo")
	assert.Error(t, err)
	_, err = ParseVersion("")
	assert.Error(t, err)
}

func TestPrefer(t *testing.T) {
	p, err := ParsePrefer(`return=representation; include="http://www.trellisldp.org/ns/trellis#PreferAudit http://www.w3.org/ns/ldp#PreferMinimalContainer"; omit="http://www.w3.org/ns/ldp#PreferContainment"`)
	require.NoError(t, err)
	assert.Equal(t, PreferRepresentation, p.Preference)
	assert.Equal(t, []string{
		"http://www.trellisldp.org/ns/trellis#PreferAudit",
		"http://www.w3.org/ns/ldp#PreferMinimalContainer",
	}, p.Include)
	assert.True(t, p.Omits("http://www.w3.org/ns/ldp#PreferContainment"))
	assert.Equal(t, -1, p.Wait)

	p, err = ParsePrefer("return=minimal, handling=lenient, wait=10, respond-async")
	require.NoError(t, err)
	assert.Equal(t, PreferMinimal, p.Preference)
	assert.Equal(t, "lenient", p.Handling)
	assert.Equal(t, 10, p.Wait)
	assert.Empty(t, p.Include)

	p, err = ParsePrefer("handling=strict")
	require.NoError(t, err)
	assert.Equal(t, "", p.Preference)
	assert.Equal(t, "strict", p.Handling)

	_, err = ParsePrefer("return=minimal, return=representation")
	assert.Error(t, err)
	_, err = ParsePrefer("return=everything")
	assert.Error(t, err)
	_, err = ParsePrefer("wait=soon")
	assert.Error(t, err)

	var none *PreferHeader
	assert.False(t, none.Includes("x"))
	assert.False(t, none.Omits("x"))
}

func TestRange(t *testing.T) {
	r, err := ParseRange("bytes=10-20")
	require.NoError(t, err)
	assert.Equal(t, &RangeHeader{From: 10, To: 20}, r)

	r, err = ParseRange("bytes=0-0")
	require.NoError(t, err)
	assert.Equal(t, int64(0), r.To)

	for _, bad := range []string{"bytes=10-5", "bytes=-5", "bytes=5-", "items=1-2", "bytes=1-2,4-5", "bytes=a-b"} {
		_, err := ParseRange(bad)
		assert.Error(t, err, bad)
	}
}

func TestWantDigest(t *testing.T) {
	w, err := ParseWantDigest("md5;q=0.3, SHA;q=1, sha-256;q=0.5, unixsum")
	require.NoError(t, err)
	assert.Equal(t, []string{"sha", "unixsum", "sha-256", "md5"}, w.Algorithms())

	w, err = ParseWantDigest("md5;q=0, sha")
	require.NoError(t, err)
	assert.Equal(t, []string{"sha"}, w.Algorithms())

	_, err = ParseWantDigest("md5;q=foo")
	assert.Error(t, err)
	_, err = ParseWantDigest("md5;q=2")
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	d, err := ParseDigest("MD5=HUXZLQLMuI/KZ5KDcJPcOA==")
	require.NoError(t, err)
	assert.Equal(t, "md5", d.Algorithm)
	assert.Equal(t, "HUXZLQLMuI/KZ5KDcJPcOA==", d.Value)
	assert.Equal(t, "md5=HUXZLQLMuI/KZ5KDcJPcOA==", d.String())

	for _, bad := range []string{"", "md5", "=abc", "md5="} {
		_, err := ParseDigest(bad)
		assert.Error(t, err, bad)
	}
}

func TestLinks(t *testing.T) {
	links, err := ParseLinks(`<http://www.w3.org/ns/ldp#Container>; rel="type", <http://example.org/a,b>; rel="original timegate"; title="x"`)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "http://www.w3.org/ns/ldp#Container", links[0].URI)
	assert.True(t, links[0].HasRel("type"))
	assert.Equal(t, "http://example.org/a,b", links[1].URI)
	assert.Equal(t, []string{"original", "timegate"}, links[1].Rels)
	assert.Equal(t, "x", links[1].Params["title"])

	target, ok := FindRel(links, "timegate")
	assert.True(t, ok)
	assert.Equal(t, "http://example.org/a,b", target)

	_, err = ParseLinks("http://example.org; rel=type")
	assert.Error(t, err)

	l := Link{URI: "http://example.org/a?ext=timemap", Rels: []string{"timemap"},
		Params: map[string]string{"type": LinkFormatMediaType}}
	assert.Equal(t, `<http://example.org/a?ext=timemap>; rel="timemap"; type="application/link-format"`, l.String())
}

func TestAccept(t *testing.T) {
	ranges := ParseAccept("text/*;q=0.5, application/ld+json;profile=\"http://www.w3.org/ns/json-ld#compacted\", */*;q=0.1, text/turtle;q=0.5, bogus")
	require.Len(t, ranges, 4)
	assert.Equal(t, "application/ld+json", ranges[0].String())
	assert.Equal(t, "http://www.w3.org/ns/json-ld#compacted", ranges[0].Params["profile"])
	assert.Equal(t, "text/turtle", ranges[1].String())
	assert.Equal(t, "text/*", ranges[2].String())
	assert.Equal(t, "*/*", ranges[3].String())
	assert.True(t, ranges[2].Matches("text/html"))
	assert.False(t, ranges[2].Matches("application/json"))
	assert.True(t, ranges[3].IsWildcard())

	ranges = ParseAccept("")
	require.Len(t, ranges, 1)
	assert.True(t, ranges[0].Matches("text/turtle"))

	assert.Empty(t, ParseAccept("text/turtle;q=0"))
	assert.Equal(t, "text/turtle", BaseMediaType("text/turtle; charset=UTF-8"))
}

func TestErrorHeaders(t *testing.T) {
	err := ErrBadRequest{Err: ParseError{Header: "x"}, ConstrainedBy: "http://www.trellisldp.org/ns/trellis#InvalidRange"}
	assert.Equal(t, []string{`<http://www.trellisldp.org/ns/trellis#InvalidRange>; rel="http://www.w3.org/ns/ldp#constrainedBy"`},
		err.Headers()["Link"])
	assert.Nil(t, ErrBadRequest{Err: ParseError{}}.Headers())

	unauth := ErrUnauthorized{Challenges: []string{"Basic realm=\"trellis\"", "Bearer"}}
	assert.Equal(t, http.StatusUnauthorized, unauth.HTTPStatus())
	assert.Len(t, unauth.Headers()["Www-Authenticate"], 2)

	assert.Equal(t, "HTTP 406 Not Acceptable", ErrNotAcceptable{}.Error())
	assert.Equal(t, "GET,HEAD", ErrMethodNotAllowed{Method: "PUT", Allow: []string{"GET", "HEAD"}}.Headers().Get("Allow"))
}
