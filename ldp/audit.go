// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldp

import (
	"github.com/satori/go.uuid"
	"time"
)

// AuditCreation returns the audit quads recording that a session
// created a resource.
func AuditCreation(subject IRI, session Session) []Quad {
	return auditQuads(subject, session, AS.Create)
}

// AuditUpdate returns the audit quads recording that a session
// modified a resource.
func AuditUpdate(subject IRI, session Session) []Quad {
	return auditQuads(subject, session, AS.Update)
}

// AuditDeletion returns the audit quads recording that a session
// deleted a resource.
func AuditDeletion(subject IRI, session Session) []Quad {
	return auditQuads(subject, session, AS.Delete)
}

func auditQuads(subject IRI, session Session, activity IRI) []Quad {
	bnode := BlankNode{ID: uuid.NewV4().String()}
	g := Trellis.PreferAudit
	agent := session.Agent
	if agent == "" {
		agent = Trellis.AnonymousUser
	}
	quads := []Quad{
		{Graph: g, Subject: subject, Predicate: PROV.WasGeneratedBy, Object: bnode},
		{Graph: g, Subject: bnode, Predicate: RDF.Type, Object: PROV.Activity},
		{Graph: g, Subject: bnode, Predicate: RDF.Type, Object: activity},
		{Graph: g, Subject: bnode, Predicate: PROV.WasAssociatedWith, Object: agent},
		{Graph: g, Subject: bnode, Predicate: PROV.AtTime,
			Object: NewTypedLiteral(session.Created.UTC().Format(time.RFC3339Nano), XSD.DateTime)},
	}
	if session.Delegate != "" {
		quads = append(quads, Quad{Graph: g, Subject: bnode, Predicate: PROV.ActedOnBehalfOf, Object: session.Delegate})
	}
	return quads
}
