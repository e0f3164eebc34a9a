// Package web provides the HTTP server and handlers for the HR panel.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/hrpanel/internal/auth"
	"github.com/JonMunkholm/hrpanel/internal/config"
	"github.com/JonMunkholm/hrpanel/internal/core"
	"github.com/JonMunkholm/hrpanel/internal/events"
	webmw "github.com/JonMunkholm/hrpanel/internal/web/middleware"
)

// Pinger is checked by /healthz. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the handlers work with. Audit, Bus and DB are
// optional.
type Deps struct {
	Lists    *core.Lists
	Gateway  core.Gateway
	Catalog  *core.Catalog
	Auth     auth.Authenticator
	Sessions *auth.SessionStore
	Audit    core.AuditLog
	Bus      events.Bus
	DB       Pinger
}

// Server is the HTTP server for the HR panel.
type Server struct {
	cfg      *config.Config
	lists    *core.Lists
	gw       core.Gateway
	catalog  *core.Catalog
	authn    auth.Authenticator
	sessions *auth.SessionStore
	audit    core.AuditLog
	bus      events.Bus
	db       Pinger

	router   *chi.Mux
	server   *http.Server
	limiters []*rateLimiter
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, deps Deps) *Server {
	catalog := deps.Catalog
	if catalog == nil {
		catalog = core.DefaultCatalog()
	}
	s := &Server{
		cfg:      cfg,
		lists:    deps.Lists,
		gw:       deps.Gateway,
		catalog:  catalog,
		authn:    deps.Auth,
		sessions: deps.Sessions,
		audit:    deps.Audit,
		bus:      deps.Bus,
		db:       deps.DB,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(webmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(webmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Security hardening
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newLimiter(s.cfg.Rate.RequestsPerMinute).middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	loginLimit := func(next http.Handler) http.Handler { return next }
	if s.cfg.Rate.Enabled {
		loginLimit = s.newLimiter(s.cfg.Rate.LoginLimit).middleware
	}
	requireSession := webmw.SessionAuth(s.sessions, s.cfg.Session.CookieName, s.denySession)

	s.router.Get("/healthz", s.handleHealth)

	// Sign in / out
	s.router.Get("/login", s.handleLoginPage)
	s.router.With(loginLimit).Post("/login", s.handleLoginForm)
	s.router.Post("/logout", s.handleLogout)
	s.router.Route("/auth", func(r chi.Router) {
		r.Use(loginLimit)
		r.Post("/login", s.handleLoginAPI)
		r.Post("/register", s.handleRegister)
	})

	// Pages
	s.router.Group(func(r chi.Router) {
		r.Use(requireSession)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		})
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/jobs", s.handleJobsPage)
		r.Post("/jobs", s.handleCreateJobForm)
		r.Get("/jobs/{id}/edit", s.handleEditJobPage)
		r.Post("/jobs/{id}", s.handleUpdateJobForm)
		r.Post("/jobs/{id}/delete", s.handleDeleteJobForm)
	})

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Use(requireSession)

		r.Get("/jobs", s.handleListJobs)
		r.Post("/jobs", s.handleCreateJob)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Patch("/jobs/{id}", s.handleUpdateJob)
		r.Delete("/jobs/{id}", s.handleDeleteJob)

		r.Get("/options", s.handleOptions)
		r.Get("/audit", s.handleAuditLog)
	})
}

// Start listens on addr and serves until Shutdown, which makes it return
// http.ErrServerClosed. Shutdown may be called before Start.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	slog.Info("starting server", "addr", ln.Addr().String())
	return s.server.Serve(ln)
}

// Shutdown gracefully stops the server and its background sweepers.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, l := range s.limiters {
		l.stop()
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) newLimiter(perMinute int) *rateLimiter {
	l := newRateLimiter(perMinute, time.Minute)
	s.limiters = append(s.limiters, l)
	return l
}

const contentSecurityPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; font-src 'self'; form-action 'self'"

// securityHeaders adds security headers to all responses.
func securityHeaders(csp bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			w.Header().Set("X-XSS-Protection", "1; mode=block")

			// Inline styles and the delete confirm() need 'unsafe-inline'
			if csp {
				w.Header().Set("Content-Security-Policy", contentSecurityPolicy)
			}

			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, v interface{}) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
