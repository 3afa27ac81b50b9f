// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"context"
	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
	"net/http"
)

// DefaultMaxBodySize is the request body limit used when Server
// does not set one.
const DefaultMaxBodySize = 64 << 20

// Server holds the configuration and service handles for the LDP
// HTTP interface.  It is assembled once at startup and must not be
// changed while requests are being served.
type Server struct {
	Resources   ldp.ResourceService
	IO          ldp.IOService
	Binaries    ldp.BinaryService
	Constraints ldp.ConstraintService

	// Access, if non-nil, enables the WebAC filter for configured
	// partitions.
	Access ldp.AccessControlService

	// Agents maps authenticated user names to agent IRIs.
	Agents ldp.AgentService

	// Partitions maps partition names to their base URLs.  A
	// partition with an empty base URL uses the scheme and host
	// of each request.
	Partitions map[string]string

	// Challenges are sent as WWW-Authenticate headers when an
	// anonymous request is denied.  Defaults to "Basic".
	Challenges []string

	// Users, if non-empty, enables HTTP Basic authentication
	// against these user names and passwords.
	Users map[string]string

	// MaxBodySize limits spooled request bodies, in bytes.
	MaxBodySize int64

	// SpoolDir holds spooled request bodies; empty means the
	// system temporary directory.
	SpoolDir string

	// Clock is the time source for sessions.
	Clock clock.Clock
}

func (s *Server) clock() clock.Clock {
	if s.Clock == nil {
		return clock.New()
	}
	return s.Clock
}

func (s *Server) maxBodySize() int64 {
	if s.MaxBodySize <= 0 {
		return DefaultMaxBodySize
	}
	return s.MaxBodySize
}

func (s *Server) challenges() []string {
	if len(s.Challenges) == 0 {
		return []string{"Basic"}
	}
	return s.Challenges
}

// NewRouter creates a new HTTP handler that processes LDP requests
// for every partition, without authentication or authorization.
// Most callers want Handler instead.
func NewRouter(s *Server) http.Handler {
	r := mux.NewRouter()
	PopulateRouter(r, s)
	return r
}

// PopulateRouter adds the admin and LDP routes to an existing
// github.com/gorilla/mux router object.
func PopulateRouter(r *mux.Router, s *Server) {
	r.Path("/admin/{path:.+}").Methods("GET", "HEAD").Name("admin").HandlerFunc(s.admin)
	r.Path("/{partition}").Name("root").Handler(s)
	r.Path("/{partition}/").Handler(s)
	r.Path("/{partition}/{path:.+}").Name("resource").Handler(s)
}

// Handler returns the full handler chain: basic authentication if
// users are configured, the WebAC filter if an access-control
// service is configured, and the router.  Additional middleware, such
// as request logging, can be passed in and runs first.
func (s *Server) Handler(middleware ...negroni.Handler) http.Handler {
	n := negroni.New(middleware...)
	if len(s.Users) > 0 {
		n.Use(&BasicAuthenticator{Users: s.Users, Agents: s.Agents, Clock: s.clock(), Challenges: s.challenges()})
	}
	if s.Access != nil {
		n.Use(&WebACFilter{Server: s})
	}
	n.UseHandler(NewRouter(s))
	return n
}

func (s *Server) admin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte("OK!"))
	}
}

// Bootstrap creates a root container for every configured partition
// that does not yet have one.
func (s *Server) Bootstrap(ctx context.Context) error {
	session := ldp.NewSession(ldp.Trellis.AdministratorAgent, s.clock().Now())
	for partition := range s.Partitions {
		id := ldp.IRI(ldp.TrellisPrefix + partition)
		res, err := s.Resources.Get(ctx, id)
		if err != nil {
			return err
		}
		if res != nil && !ldp.IsDeleted(res) {
			continue
		}
		dataset := ldp.NewDataset(ldp.Quad{
			Graph:     ldp.Trellis.PreferServerManaged,
			Subject:   id,
			Predicate: ldp.RDF.Type,
			Object:    ldp.LDP.BasicContainer,
		})
		dataset.AddAll(s.skolemizeQuads(ldp.AuditCreation(id, session)))
		if err := s.Resources.Put(ctx, id, dataset); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"partition": partition,
		}).Info("Created partition root container")
	}
	return nil
}

// ServeHTTP handles one LDP request.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Recover from panics by sending an HTTP error.
	defer func() {
		if recovered := recover(); recovered != nil {
			logrus.WithFields(logrus.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"panic":  recovered,
			}).Error("Panic handling request")
			writeError(w, r, errPanic{Value: recovered})
		}
	}()

	req, err := s.parseRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer req.Close()

	resp, err := s.dispatch(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp.write(w, r)
}

func (s *Server) dispatch(ctx context.Context, req *Request) (*response, error) {
	switch req.Method {
	case http.MethodGet, http.MethodHead:
		return s.get(ctx, req)
	case http.MethodOptions:
		return s.options(ctx, req)
	case http.MethodPost:
		return s.post(ctx, req)
	case http.MethodPut:
		return s.put(ctx, req)
	case http.MethodPatch:
		return s.patch(ctx, req)
	case http.MethodDelete:
		return s.delete(ctx, req)
	}
	return nil, errMethodNotAllowed(req.Method, nil)
}
