package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"colorledger/internal/handlers"
	"colorledger/internal/i18n"
	"colorledger/internal/ledger"
	applog "colorledger/internal/log"
)

const (
	defaultSessionLifetime = 12 * time.Hour
	defaultCookieName      = "colorledger_session"
	defaultShutdownTimeout = 10 * time.Second
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr    string
	Session SessionConfig
	Ledger  *ledger.Service
	// Locale selects the language of flash and error messages.
	Locale string
	// ShutdownTimeout bounds Stop. An in-flight import is allowed to finish
	// within it.
	ShutdownTimeout time.Duration
}

// SessionConfig controls the cookie that carries dashboard flash messages.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// Server serves the ledger API and dashboard.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// New wires the handlers to cfg.Ledger and builds the handler chain.
func New(cfg Config) (*Server, error) {
	ctx := context.Background()

	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("server: address must not be empty")
	}
	if cfg.Ledger == nil {
		return nil, errors.New("server: ledger service is required")
	}

	sessions := newSessionManager(cfg.Session)
	printer := i18n.New(cfg.Locale)
	handlers.Configure(sessions, cfg.Ledger, printer)

	applog.Debug(ctx, "server configured",
		"addr", cfg.Addr,
		"book", cfg.Ledger.Book(),
		"locale", printer.Language(),
		"wipeEnabled", cfg.Ledger.WipeEnabled(),
	)

	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           logRequests(sessions.LoadAndSave(newRouter())),
			ReadHeaderTimeout: 5 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
	}, nil
}

func newSessionManager(cfg SessionConfig) *scs.SessionManager {
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = defaultSessionLifetime
	}
	if strings.TrimSpace(cfg.CookieName) == "" {
		cfg.CookieName = defaultCookieName
	}

	sm := scs.New()
	sm.Lifetime = cfg.Lifetime
	sm.Cookie.Name = cfg.CookieName
	sm.Cookie.Domain = cfg.CookieDomain
	sm.Cookie.HttpOnly = true
	sm.Cookie.Persist = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = cfg.CookieSecure
	return sm
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		r = r.WithContext(applog.WithAttrs(r.Context(), "requestID", uuid.NewString()))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		}
		if rec.status >= http.StatusInternalServerError {
			applog.Warn(r.Context(), "request failed", args...)
			return
		}
		applog.Debug(r.Context(), "request served", args...)
	})
}

// Start listens on the configured address until Stop is called.
func (s *Server) Start() error {
	applog.Info(context.Background(), "listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop drains open requests, waiting at most the shutdown timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the full handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
