// Copyright (c) 2026 SMRT Labs. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.

The router splits into two authenticated surfaces: /api/open and
/api/session ride the sid cookie (issued and touched by the session
middleware), while /api/cli authenticates each request with a
project-scoped API key and never sees a cookie.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/smrtlabs/smrt/internal/cli"
	"github.com/smrtlabs/smrt/internal/condition"
	"github.com/smrtlabs/smrt/internal/discussion"
	"github.com/smrtlabs/smrt/internal/feature"
	"github.com/smrtlabs/smrt/internal/identity"
	"github.com/smrtlabs/smrt/internal/key"
	"github.com/smrtlabs/smrt/internal/platform/config"
	"github.com/smrtlabs/smrt/internal/platform/constants"
	"github.com/smrtlabs/smrt/internal/platform/middleware"
	"github.com/smrtlabs/smrt/internal/project"
	"github.com/smrtlabs/smrt/internal/session"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Identity handles the open surface (register, login, logout, sentinels).
	Identity *identity.Handler

	// Session exposes the caller's session record.
	Session *session.Handler

	// Project handles project CRUD and requirement templates.
	Project *project.Handler

	// Condition handles project conditions.
	Condition *condition.Handler

	// Feature handles features and their requirements.
	Feature *feature.Handler

	// Discussion handles discussions and message threads.
	Discussion *discussion.Handler

	// Key manages project-scoped API keys.
	Key *key.Handler

	// CLI is the key-authenticated machine surface.
	CLI *cli.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, registry middleware.SessionRegistry, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api", func(api chi.Router) {

		// ## Browser Surface
		// The session middleware issues the sid cookie and records the visit
		// before any handler runs, so even register/login see a live session
		// to link the user to.
		api.Group(func(web chi.Router) {
			web.Use(middleware.Session(registry, cfg))

			web.Mount("/open", h.Identity.Routes())

			web.Route("/session", func(authed chi.Router) {
				authed.Mount("/", h.Session.Routes())

				authed.Route("/project", func(proj chi.Router) {
					proj.Mount("/", h.Project.Routes())
					proj.Mount("/{projectID}/conditions", h.Condition.Routes())
					proj.Mount("/{projectID}/features", h.Feature.Routes())
					proj.Mount("/{projectID}/keys", h.Key.Routes())
					proj.Mount("/{projectID}/discussions", h.Discussion.Routes())
					proj.Mount("/{projectID}/project-requirements", h.Project.RequirementRoutes())
				})
			})
		})

		// ## Machine Surface
		// Header-secret authentication, no cookies involved.
		api.Mount("/cli", h.CLI.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
