// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package webac evaluates Web Access Control authorizations stored in
// the access-control graph of each resource.
//
// The modes for a resource come from the nearest resource, walking up
// the containment hierarchy, whose access-control graph has any
// authorizations at all.  On the resource itself, authorizations
// apply through acl:accessTo; on an ancestor, only through
// acl:default.  An authorization matches a session if it names the
// agent with acl:agent, or with acl:agentClass names foaf:Agent, or
// acl:AuthenticatedAgent for a non-anonymous session.  acl:Write
// implies acl:Append.
//
// If no resource up to the partition root carries authorizations, the
// service's default modes apply.  Administrators always hold every
// mode.  A session acting for a delegate holds only the modes both
// agents hold.
package webac

import (
	"context"
	"github.com/diffeo/go-trellis/ldp"
)

// AllModes lists every WebAC mode.
var AllModes = []ldp.IRI{ldp.ACL.Read, ldp.ACL.Write, ldp.ACL.Append, ldp.ACL.Control}

// Service is an ldp.AccessControlService backed by a resource
// service.
type Service struct {
	// Resources holds the access-control graphs.
	Resources ldp.ResourceService

	// Admins hold every mode everywhere, in addition to
	// ldp.Trellis.AdministratorAgent.
	Admins []ldp.IRI

	// DefaultModes are granted when no authorization covers a
	// resource.
	DefaultModes []ldp.IRI
}

// New creates an access-control service with no default access.
func New(resources ldp.ResourceService) *Service {
	return &Service{Resources: resources}
}

func (s *Service) isAdmin(agent ldp.IRI) bool {
	if agent == ldp.Trellis.AdministratorAgent {
		return true
	}
	for _, a := range s.Admins {
		if a == agent {
			return true
		}
	}
	return false
}

// AccessModes returns the modes the session holds on a resource, in
// the order of AllModes.
func (s *Service) AccessModes(ctx context.Context, id ldp.IRI, session ldp.Session) ([]ldp.IRI, error) {
	modes, err := s.modesFor(ctx, id, session.Agent, session.IsAnonymous())
	if err != nil || session.Delegate == "" {
		return sorted(modes), err
	}
	delegated, err := s.modesFor(ctx, id, session.Delegate, false)
	if err != nil {
		return nil, err
	}
	for mode := range modes {
		if !delegated[mode] {
			delete(modes, mode)
		}
	}
	return sorted(modes), nil
}

func (s *Service) modesFor(ctx context.Context, id, agent ldp.IRI, anonymous bool) (map[ldp.IRI]bool, error) {
	if s.isAdmin(agent) {
		return toSet(AllModes), nil
	}
	target := id
	for {
		res, err := s.Resources.Get(ctx, target)
		if err != nil {
			return nil, err
		}
		if res != nil && !ldp.IsDeleted(res) {
			acl := res.Quads(ldp.Trellis.PreferAccessControl)
			if len(acl) > 0 {
				g := ldp.NewGraph()
				for _, q := range acl {
					g.Add(q.Triple())
				}
				link := ldp.ACL.AccessTo
				if target != id {
					link = ldp.ACL.Default
				}
				return authorized(g, target, link, agent, anonymous), nil
			}
		}
		parent, ok := ldp.Parent(target)
		if !ok {
			return toSet(s.DefaultModes), nil
		}
		target = parent
	}
}

// authorized collects the modes of every authorization in g that
// covers target through link and matches the agent.
func authorized(g *ldp.Graph, target, link, agent ldp.IRI, anonymous bool) map[ldp.IRI]bool {
	modes := make(map[ldp.IRI]bool)
	for _, auth := range g.Match(nil, link, target) {
		if !matches(g, auth.Subject, agent, anonymous) {
			continue
		}
		for _, m := range g.Match(auth.Subject, ldp.ACL.Mode, nil) {
			if mode, ok := m.Object.(ldp.IRI); ok {
				modes[mode] = true
			}
		}
	}
	if modes[ldp.ACL.Write] {
		modes[ldp.ACL.Append] = true
	}
	return modes
}

func matches(g *ldp.Graph, auth ldp.Term, agent ldp.IRI, anonymous bool) bool {
	if len(g.Match(auth, ldp.ACL.Agent, agent)) > 0 {
		return true
	}
	if len(g.Match(auth, ldp.ACL.AgentClass, ldp.FOAF.Agent)) > 0 {
		return true
	}
	return !anonymous && len(g.Match(auth, ldp.ACL.AgentClass, ldp.ACL.AuthenticatedAgent)) > 0
}

func toSet(modes []ldp.IRI) map[ldp.IRI]bool {
	set := make(map[ldp.IRI]bool, len(modes))
	for _, m := range modes {
		set[m] = true
	}
	return set
}

func sorted(set map[ldp.IRI]bool) []ldp.IRI {
	var modes []ldp.IRI
	for _, m := range AllModes {
		if set[m] {
			modes = append(modes, m)
		}
	}
	return modes
}
