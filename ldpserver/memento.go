// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"github.com/diffeo/go-trellis/ldp"
	"github.com/diffeo/go-trellis/ldpdata"
	"github.com/jtacoma/uritemplates"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	timeMapTemplate = mustParseTemplate("{+id}?ext=timemap")
	versionTemplate = mustParseTemplate("{+id}?version={version}")
)

func mustParseTemplate(template string) *uritemplates.UriTemplate {
	tmpl, err := uritemplates.Parse(template)
	if err != nil {
		panic(err)
	}
	return tmpl
}

func expand(tmpl *uritemplates.UriTemplate, vars map[string]interface{}) string {
	s, err := tmpl.Expand(vars)
	if err != nil {
		// Only the fixed templates above are expanded, and
		// only with string values
		panic(err)
	}
	return s
}

// timeMapURL returns the URL of the TimeMap of a resource.
func timeMapURL(external string) string {
	return expand(timeMapTemplate, map[string]interface{}{"id": external})
}

// versionURL returns the URL of the memento of a resource at some
// time.
func versionURL(external string, at time.Time) string {
	return expand(versionTemplate, map[string]interface{}{
		"id":      external,
		"version": ldpdata.FormatVersion(at),
	})
}

// mementoLinks builds the Memento links of a resource: the original
// resource doubling as its own timegate, the TimeMap, and one link
// per memento.
func mementoLinks(external string, refs []ldp.MementoRef) []ldpdata.Link {
	links := []ldpdata.Link{
		{URI: external, Rels: []string{"original", "timegate"}},
	}
	timeMap := ldpdata.Link{
		URI:    timeMapURL(external),
		Rels:   []string{"timemap"},
		Params: map[string]string{"type": ldpdata.LinkFormatMediaType},
	}
	if len(refs) > 0 {
		timeMap.Params["from"] = ldpdata.FormatDatetime(refs[0].Datetime)
		timeMap.Params["until"] = ldpdata.FormatDatetime(refs[len(refs)-1].Datetime)
	}
	links = append(links, timeMap)
	for _, ref := range refs {
		links = append(links, ldpdata.Link{
			URI:    versionURL(external, ref.Datetime),
			Rels:   []string{"memento"},
			Params: map[string]string{"datetime": ldpdata.FormatDatetime(ref.Datetime)},
		})
	}
	return links
}

func linkStrings(links []ldpdata.Link) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.String()
	}
	return out
}

// timeMapLinks is mementoLinks as listed in the body of a TimeMap,
// where the TimeMap link is also "self".
func timeMapLinks(external string, refs []ldp.MementoRef) []ldpdata.Link {
	links := mementoLinks(external, refs)
	for i := range links {
		if links[i].HasRel("timemap") {
			links[i].Rels = []string{"self", "timemap"}
		}
	}
	return links
}

// timeMapTriples describes a TimeMap in RDF.
func timeMapTriples(external string, refs []ldp.MementoRef) []ldp.Triple {
	original := ldp.IRI(external)
	timeMap := ldp.IRI(timeMapURL(external))
	triples := []ldp.Triple{
		{Subject: original, Predicate: ldp.RDF.Type, Object: ldp.Memento.OriginalResource},
		{Subject: original, Predicate: ldp.RDF.Type, Object: ldp.Memento.TimeGate},
		{Subject: original, Predicate: ldp.Memento.TimeGate, Object: original},
		{Subject: original, Predicate: ldp.Memento.TimeMapRel, Object: timeMap},
		{Subject: timeMap, Predicate: ldp.RDF.Type, Object: ldp.Memento.TimeMap},
		{Subject: timeMap, Predicate: ldp.Memento.Original, Object: original},
	}
	for _, ref := range refs {
		m := ldp.IRI(versionURL(external, ref.Datetime))
		triples = append(triples,
			ldp.Triple{Subject: m, Predicate: ldp.RDF.Type, Object: ldp.Memento.Memento},
			ldp.Triple{Subject: m, Predicate: ldp.Memento.Original, Object: original},
			ldp.Triple{Subject: m, Predicate: ldp.Memento.TimeGate, Object: original},
			ldp.Triple{Subject: m, Predicate: ldp.Memento.TimeMapRel, Object: timeMap},
			ldp.Triple{Subject: m, Predicate: ldp.Memento.MementoDatetime,
				Object: ldp.NewTypedLiteral(ref.Datetime.UTC().Format(time.RFC3339), ldp.XSD.DateTime)},
			ldp.Triple{Subject: timeMap, Predicate: ldp.Memento.MementoRel, Object: m},
		)
	}
	return triples
}

// timeMap answers a GET for ?ext=timemap.  The body is
// application/link-format unless the client explicitly asked for an
// RDF syntax.
func (s *Server) timeMap(req *Request, res ldp.Resource) (*response, error) {
	external := req.External()
	refs := res.Mementos()
	resp := newResponse(http.StatusOK)
	resp.Header.Set("Allow", strings.Join(allowedMethods(req, res), ","))
	resp.Header.Set("Vary", "Accept, Accept-Datetime, Prefer")
	for _, l := range linkStrings(mementoLinks(external, refs)) {
		resp.Header.Add("Link", l)
	}

	syntax, rdf := explicitSyntax(req.Accept)
	if !rdf {
		resp.Header.Set("Content-Type", ldpdata.LinkFormatMediaType)
		body := strings.Join(linkStrings(timeMapLinks(external, refs)), ",\n") + "\n"
		resp.Body = func(w io.Writer) error {
			_, err := io.WriteString(w, body)
			return err
		}
		return resp, nil
	}
	triples := timeMapTriples(external, refs)
	profiles := req.profiles(syntax)
	resp.Header.Set("Content-Type", contentType(syntax, profiles))
	if err := s.rdfBody(resp, triples, syntax, profiles); err != nil {
		return nil, err
	}
	return resp, nil
}

// bestMemento picks the memento a timegate redirects to: the newest
// one at or before the requested time, or the oldest one if the
// request predates them all.  refs must not be empty.
func bestMemento(refs []ldp.MementoRef, at time.Time) ldp.MementoRef {
	best := refs[0]
	for _, ref := range refs {
		if ref.Datetime.After(at) {
			break
		}
		best = ref
	}
	return best
}

// timeGate redirects an Accept-Datetime request to the best memento.
func (s *Server) timeGate(req *Request, res ldp.Resource) *response {
	external := req.External()
	refs := res.Mementos()
	best := bestMemento(refs, *req.AcceptDatetime)
	resp := newResponse(http.StatusFound)
	resp.Header.Set("Location", versionURL(external, best.Datetime))
	resp.Header.Set("Vary", "Accept-Datetime")
	for _, l := range linkStrings(mementoLinks(external, refs)) {
		resp.Header.Add("Link", l)
	}
	return resp
}
