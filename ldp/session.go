// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldp

import (
	"context"
	"time"
)

// Session describes the agent on whose behalf a request acts.
type Session struct {
	// Agent is the agent IRI, Trellis.AnonymousUser for
	// unauthenticated requests.
	Agent IRI

	// Delegate is the agent the request acts for, or empty.
	Delegate IRI

	// Created is the time the session began.
	Created time.Time
}

// NewSession creates a session for an agent.
func NewSession(agent IRI, created time.Time) Session {
	return Session{Agent: agent, Created: created}
}

// IsAnonymous returns true if the session has no authenticated agent.
func (s Session) IsAnonymous() bool {
	return s.Agent == "" || s.Agent == Trellis.AnonymousUser
}

type sessionKey struct{}

// WithSession returns a context carrying a session.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom retrieves the session stored with WithSession.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
