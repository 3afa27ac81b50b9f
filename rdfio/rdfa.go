// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package rdfio

import (
	"github.com/diffeo/go-trellis/ldp"
	"html/template"
	"io"
)

var rdfaTemplate = template.Must(template.New("rdfa").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Subjects}}<div about="{{.About}}">
<h2>{{.About}}</h2>
<table>
<tr><th>Property</th><th>Value</th></tr>
{{range .Rows}}<tr><td>{{.Predicate}}</td>{{if .Resource}}<td><span property="{{.Predicate}}" resource="{{.Value}}">{{.Value}}</span></td>{{else}}<td property="{{.Predicate}}"{{if .Datatype}} datatype="{{.Datatype}}"{{end}}{{if .Lang}} lang="{{.Lang}}"{{end}}>{{.Value}}</td>{{end}}</tr>
{{end}}</table>
</div>
{{end}}</body>
</html>
`))

type rdfaRow struct {
	Predicate string
	Value     string
	Resource  bool
	Datatype  string
	Lang      string
}

type rdfaSubject struct {
	About string
	Rows  []rdfaRow
}

type rdfaPage struct {
	Title    string
	Subjects []*rdfaSubject
}

func termLabel(t ldp.Term) string {
	switch v := t.(type) {
	case ldp.IRI:
		return string(v)
	case ldp.BlankNode:
		return "_:" + v.ID
	case ldp.Literal:
		return v.Lexical
	}
	return ""
}

// writeRDFa renders triples as an HTML page with RDFa attributes.
// The first profile, if any, titles the page.
func writeRDFa(w io.Writer, triples []ldp.Triple, profiles []ldp.IRI) error {
	page := rdfaPage{}
	if len(profiles) > 0 {
		page.Title = string(profiles[0])
	}
	bySubject := make(map[ldp.Term]*rdfaSubject)
	for _, t := range triples {
		subj, ok := bySubject[t.Subject]
		if !ok {
			subj = &rdfaSubject{About: termLabel(t.Subject)}
			bySubject[t.Subject] = subj
			page.Subjects = append(page.Subjects, subj)
		}
		row := rdfaRow{Predicate: string(t.Predicate), Value: termLabel(t.Object)}
		if lit, isLit := t.Object.(ldp.Literal); isLit {
			if lit.Lang != "" {
				row.Lang = lit.Lang
			} else if lit.Datatype != "" {
				row.Datatype = string(lit.Datatype)
			}
		} else {
			row.Resource = true
		}
		subj.Rows = append(subj.Rows, row)
	}
	return rdfaTemplate.Execute(w, page)
}
