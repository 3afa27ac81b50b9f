// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package agent maps authenticated principal names to agent IRIs.
package agent

import (
	"github.com/diffeo/go-trellis/ldp"
	"net/url"
	"strings"
)

// DefaultPrefix is prepended to bare principal names.
const DefaultPrefix = "user:"

// Service is an ldp.AgentService.
type Service struct {
	// Prefix is prepended to principal names that are not already
	// absolute http or https IRIs.
	Prefix string

	// Admins are principal names that act as
	// ldp.Trellis.AdministratorAgent.
	Admins []string
}

// New creates an agent service using DefaultPrefix.
func New(admins ...string) *Service {
	return &Service{Prefix: DefaultPrefix, Admins: admins}
}

// AsAgent returns the agent IRI for a principal.  An empty principal
// is anonymous.
func (s *Service) AsAgent(principal string) ldp.IRI {
	principal = strings.TrimSpace(principal)
	if principal == "" {
		return ldp.Trellis.AnonymousUser
	}
	for _, admin := range s.Admins {
		if admin == principal {
			return ldp.Trellis.AdministratorAgent
		}
	}
	if u, err := url.Parse(principal); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return ldp.IRI(principal)
	}
	return ldp.IRI(s.Prefix + principal)
}
