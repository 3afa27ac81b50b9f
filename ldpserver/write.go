// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"context"
	"errors"
	"fmt"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/diffeo/go-trellis/ldpdata"
	"github.com/diffeo/go-trellis/rdfutil"
	"github.com/sirupsen/logrus"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// skolemizeQuads replaces the blank nodes of generated quads, such
// as audit records, with the resource service's stable IRIs.
func (s *Server) skolemizeQuads(quads []ldp.Quad) []ldp.Quad {
	out := make([]ldp.Quad, len(quads))
	for i, q := range quads {
		out[i] = ldp.Quad{
			Graph:     q.Graph,
			Subject:   s.Resources.Skolemize(q.Subject),
			Predicate: q.Predicate,
			Object:    s.Resources.Skolemize(q.Object),
		}
	}
	return out
}

func serverQuad(subject ldp.IRI, predicate ldp.IRI, object ldp.Term) ldp.Quad {
	return ldp.Quad{
		Graph:     ldp.Trellis.PreferServerManaged,
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
}

// parentLink returns the container a stored resource is part of.
func parentLink(res ldp.Resource) (ldp.IRI, bool) {
	return ldp.ParentOf(res.Identifier(), ldp.NewDataset(res.Quads(ldp.Trellis.PreferServerManaged)...))
}

// linkModel returns the interaction model named by a rel="type"
// Link header.  ldp:Resource names no model, and ldp:Container
// means a basic container.
func (req *Request) linkModel() (ldp.IRI, bool) {
	for _, l := range req.Links {
		if !l.HasRel("type") {
			continue
		}
		model := ldp.IRI(l.URI)
		switch {
		case model == ldp.LDP.Container:
			return ldp.LDP.BasicContainer, true
		case model != ldp.LDP.Resource && ldp.IsInteractionModel(model):
			return model, true
		}
	}
	return "", false
}

// interactionModel decides the model of the resource a POST or PUT
// creates or replaces, and the syntax its body is read with.  current
// is the model of the live resource being replaced, or empty.  A
// non-RDF body without a type link is only accepted if
// implicitBinary is set and the current resource is not an RDF
// source.
func (req *Request) interactionModel(current ldp.IRI, implicitBinary bool) (ldp.IRI, ldp.Syntax, error) {
	syntax, rdf := readableSyntax(req.ContentType)
	unsupported := ldpdata.ErrUnsupportedMediaType{Type: req.ContentType}
	if model, linked := req.linkModel(); linked {
		if model == ldp.LDP.NonRDFSource {
			return model, ldp.Syntax{}, nil
		}
		if !rdf && req.HasBody() {
			return "", ldp.Syntax{}, unsupported
		}
		return model, syntax, nil
	}
	if rdf || (req.ContentType == "" && !req.HasBody()) {
		if current != "" && ldp.IsRDFSource(current) {
			return current, syntax, nil
		}
		return ldp.LDP.RDFSource, syntax, nil
	}
	if !implicitBinary || (current != "" && ldp.IsRDFSource(current)) {
		return "", ldp.Syntax{}, unsupported
	}
	return ldp.LDP.NonRDFSource, ldp.Syntax{}, nil
}

// checkDigest verifies a Digest header against the request body.
func (s *Server) checkDigest(req *Request) error {
	if req.Digest == nil {
		return nil
	}
	value, err := s.Binaries.Digest(req.Digest.Algorithm, req.Body())
	if _, unsupported := err.(ldp.ErrUnsupportedAlgorithm); unsupported {
		return ldpdata.ErrBadRequest{Err: err}
	} else if err != nil {
		return err
	}
	if value != req.Digest.Value {
		return ldpdata.ErrBadRequest{Err: fmt.Errorf("Digest mismatch: computed %v=%v", req.Digest.Algorithm, value)}
	}
	return nil
}

// checkConstraints runs the constraint service over an externalized
// user-managed graph.
func (s *Server) checkConstraints(req *Request, model ldp.IRI, g *ldp.Graph) error {
	if rule, violated := s.Constraints.ConstrainedBy(model, req.BaseURL, g); violated {
		return ldpdata.ErrBadRequest{
			Err:           fmt.Errorf("Constraint violation: %v", rule),
			ConstrainedBy: string(rule),
		}
	}
	return nil
}

// addContent adds the content of a request body to the dataset of a
// created or replaced resource: the user-managed graph of an RDF
// source, or the stored binary and its description.
func (s *Server) addContent(ctx context.Context, req *Request, id ldp.IRI, external string, model ldp.IRI, syntax ldp.Syntax, dataset *ldp.Dataset) error {
	if model != ldp.LDP.NonRDFSource {
		if !req.HasBody() {
			return nil
		}
		triples, err := s.IO.Read(req.Body(), external, syntax)
		if err != nil {
			return ldpdata.ErrBadRequest{Err: err}
		}
		if err := s.checkConstraints(req, model, ldp.NewGraph(triples...)); err != nil {
			return err
		}
		internal := rdfutil.MapTriples(triples, rdfutil.Internalize(s.Resources, req.BaseURL))
		dataset.AddGraph(ldp.Trellis.PreferUserManaged, internal)
		return nil
	}

	location := s.Binaries.IdentifierSupplier(req.Partition)()
	if err := s.Binaries.SetContent(ctx, req.Partition, location, req.Body()); err != nil {
		return err
	}
	mimeType := req.ContentType
	if mimeType == "" {
		mimeType = ldpdata.OctetStreamMediaType
	}
	dataset.Add(serverQuad(id, ldp.DC.HasPart, location))
	dataset.Add(serverQuad(location, ldp.DC.Format, ldp.NewLiteral(mimeType)))
	dataset.Add(serverQuad(location, ldp.DC.Extent,
		ldp.NewTypedLiteral(strconv.FormatInt(req.size, 10), ldp.XSD.Long)))
	return nil
}

func (s *Server) persist(ctx context.Context, id ldp.IRI, dataset *ldp.Dataset) error {
	err := s.Resources.Put(ctx, id, dataset)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"identifier": id,
			"err":        err,
		}).Error("Unable to persist resource")
	}
	return err
}

// cleanSlug returns a Slug header as a single percent-encoded path
// segment, or an empty string if it cannot be one.
func cleanSlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "." || slug == ".." || strings.ContainsAny(slug, "/?#") {
		return ""
	}
	return url.PathEscape(slug)
}

// newChild picks the path segment of a resource created by POST: the
// Slug, or a generated identifier.  If that names an existing live
// resource, one new identifier is tried before giving up.
func (s *Server) newChild(ctx context.Context, req *Request) (ldp.IRI, string, error) {
	supplier := s.Resources.IdentifierSupplier()
	segment := cleanSlug(req.Slug)
	if segment == "" {
		segment = supplier()
	}
	for attempt := 0; attempt < 2; attempt++ {
		id := ldp.IRI(string(req.Identifier()) + "/" + segment)
		existing, err := s.Resources.Get(ctx, id)
		if err != nil {
			return "", "", err
		}
		if existing == nil || ldp.IsDeleted(existing) {
			return id, req.External() + "/" + segment, nil
		}
		segment = supplier()
	}
	return "", "", ldpdata.ErrConflict{Identifier: req.External()}
}

func (s *Server) post(ctx context.Context, req *Request) (*response, error) {
	if req.Ext == ldpdata.ExtACL || req.Version != nil {
		return nil, errMethodNotAllowed(req.Method, nil)
	}
	parent, err := s.loadLive(ctx, req)
	if err != nil {
		return nil, err
	}
	if !ldp.IsContainer(parent.InteractionModel()) {
		return nil, errMethodNotAllowed(req.Method, allowedMethods(req, parent))
	}
	if err := req.checkPreconditions(req.validator(parent)); err != nil {
		return nil, err
	}
	model, syntax, err := req.interactionModel("", false)
	if err != nil {
		return nil, err
	}
	if err := s.checkDigest(req); err != nil {
		return nil, err
	}
	id, external, err := s.newChild(ctx, req)
	if err != nil {
		return nil, err
	}

	dataset := ldp.NewDataset(s.skolemizeQuads(ldp.AuditCreation(id, req.Session))...)
	dataset.Add(serverQuad(id, ldp.RDF.Type, model))
	dataset.Add(serverQuad(id, ldp.DC.IsPartOf, req.Identifier()))
	if err := s.addContent(ctx, req, id, external, model, syntax, dataset); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, id, dataset); err != nil {
		return nil, err
	}

	resp := newResponse(http.StatusCreated)
	resp.Header.Set("Location", external)
	typeLinks(resp.Header, model)
	return resp, nil
}

func (s *Server) put(ctx context.Context, req *Request) (*response, error) {
	if req.Ext == ldpdata.ExtACL || req.Version != nil {
		return nil, errMethodNotAllowed(req.Method, nil)
	}
	id := req.Identifier()
	current, err := s.Resources.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	live := current != nil && !ldp.IsDeleted(current)
	var currentModel ldp.IRI
	if live {
		if err := req.checkPreconditions(req.validator(current)); err != nil {
			return nil, err
		}
		currentModel = current.InteractionModel()
	} else if req.IfMatch != "" {
		// Nothing current can match, not even "*"
		return nil, ldpdata.ErrPreconditionFailed{Header: "If-Match"}
	}
	model, syntax, err := req.interactionModel(currentModel, true)
	if err != nil {
		return nil, err
	}
	if err := s.checkDigest(req); err != nil {
		return nil, err
	}

	dataset := ldp.NewDataset()
	if current != nil {
		dataset.AddAll(current.Quads(ldp.Trellis.PreferAudit))
	}
	if live {
		dataset.AddAll(current.Quads(ldp.Trellis.PreferAccessControl))
		dataset.AddAll(s.skolemizeQuads(ldp.AuditUpdate(id, req.Session)))
	} else {
		dataset.AddAll(s.skolemizeQuads(ldp.AuditCreation(id, req.Session)))
	}
	dataset.Add(serverQuad(id, ldp.RDF.Type, model))
	parent, ok, err := s.containerOf(ctx, id, current)
	if err != nil {
		return nil, err
	}
	if ok {
		dataset.Add(serverQuad(id, ldp.DC.IsPartOf, parent))
	}
	if err := s.addContent(ctx, req, id, req.External(), model, syntax, dataset); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, id, dataset); err != nil {
		return nil, err
	}

	resp := newResponse(http.StatusNoContent)
	typeLinks(resp.Header, model)
	return resp, nil
}

// containerOf finds the container a resource written by PUT belongs
// to: the one it already recorded, or for a new resource the
// resource one path segment up if that is a live container.
func (s *Server) containerOf(ctx context.Context, id ldp.IRI, current ldp.Resource) (ldp.IRI, bool, error) {
	if current != nil {
		parent, ok := parentLink(current)
		return parent, ok, nil
	}
	parentID, ok := ldp.Parent(id)
	if !ok {
		return "", false, nil
	}
	parent, err := s.Resources.Get(ctx, parentID)
	if err != nil {
		return "", false, err
	}
	if parent == nil || ldp.IsDeleted(parent) || !ldp.IsContainer(parent.InteractionModel()) {
		return "", false, nil
	}
	return parentID, true, nil
}

func (s *Server) patch(ctx context.Context, req *Request) (*response, error) {
	if req.Version != nil {
		return nil, errMethodNotAllowed(req.Method, nil)
	}
	if ldpdata.BaseMediaType(req.ContentType) != ldpdata.SPARQLUpdateMediaType {
		return nil, ldpdata.ErrUnsupportedMediaType{Type: req.ContentType}
	}
	if !req.HasBody() {
		return nil, ldpdata.ErrBadRequest{Err: errors.New("Missing SPARQL Update body")}
	}
	res, err := s.loadLive(ctx, req)
	if err != nil {
		return nil, err
	}
	acl := req.Ext == ldpdata.ExtACL
	model := res.InteractionModel()
	if !acl && !ldp.IsRDFSource(model) {
		return nil, errMethodNotAllowed(req.Method, allowedMethods(req, res))
	}
	if err := req.checkPreconditions(req.validator(res)); err != nil {
		return nil, err
	}

	target, other := ldp.Trellis.PreferUserManaged, ldp.Trellis.PreferAccessControl
	if acl {
		target, other = other, target
	}
	var triples []ldp.Triple
	for _, q := range res.Quads(target) {
		triples = append(triples, q.Triple())
	}
	g := ldp.NewGraph(rdfutil.MapTriples(triples, rdfutil.Externalize(s.Resources, req.BaseURL))...)
	update, err := io.ReadAll(req.Body())
	if err != nil {
		return nil, err
	}
	if err := s.IO.Update(g, string(update), req.External()); err != nil {
		return nil, ldpdata.ErrBadRequest{Err: err}
	}
	if !acl {
		if err := s.checkConstraints(req, model, g); err != nil {
			return nil, err
		}
	}

	id := req.Identifier()
	dataset := ldp.NewDataset()
	dataset.AddGraph(target, rdfutil.MapTriples(g.Triples(), rdfutil.Internalize(s.Resources, req.BaseURL)))
	dataset.AddAll(res.Quads(other))
	dataset.AddAll(res.Quads(ldp.Trellis.PreferServerManaged))
	dataset.AddAll(res.Quads(ldp.Trellis.PreferAudit))
	dataset.AddAll(s.skolemizeQuads(ldp.AuditUpdate(id, req.Session)))
	if err := s.persist(ctx, id, dataset); err != nil {
		return nil, err
	}

	resp := newResponse(http.StatusNoContent)
	resp.Header.Set("Cache-Control", "no-cache")
	typeLinks(resp.Header, model)
	if req.Prefer != nil && req.Prefer.Preference == ldpdata.PreferRepresentation {
		resp.Status = http.StatusOK
		quads := append(dataset.Quads(), res.Quads(ldp.LDP.PreferContainment, ldp.LDP.PreferMembership)...)
		return s.serialize(req, resp, quads)
	}
	return resp, nil
}

func (s *Server) delete(ctx context.Context, req *Request) (*response, error) {
	if req.Ext == ldpdata.ExtACL || req.Version != nil {
		return nil, errMethodNotAllowed(req.Method, nil)
	}
	res, err := s.loadLive(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := req.checkPreconditions(req.validator(res)); err != nil {
		return nil, err
	}

	id := req.Identifier()
	dataset := ldp.NewDataset(
		serverQuad(id, ldp.RDF.Type, ldp.LDP.Resource),
		serverQuad(id, ldp.RDF.Type, ldp.Trellis.DeletedResource),
	)
	if parent, ok := parentLink(res); ok {
		dataset.Add(serverQuad(id, ldp.DC.IsPartOf, parent))
	}
	dataset.AddAll(res.Quads(ldp.Trellis.PreferAudit))
	dataset.AddAll(s.skolemizeQuads(ldp.AuditDeletion(id, req.Session)))
	if err := s.persist(ctx, id, dataset); err != nil {
		return nil, err
	}
	return newResponse(http.StatusNoContent), nil
}
