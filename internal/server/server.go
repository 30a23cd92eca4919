// Package server implements the HTTP API for the putting tracker: session
// submission, history queries, and per-drill statistics.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/greenside-labs/go-putt/internal/drill"
	"github.com/greenside-labs/go-putt/internal/stats"
	"github.com/greenside-labs/go-putt/internal/store"
)

// Default server configuration values.
const (
	DefaultPort = 8470
	DefaultHost = "localhost"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int

	// Origins is the CORS allow-list. Empty means same-origin only: no
	// Access-Control-Allow-Origin header is ever emitted. A "*" entry
	// allows any origin.
	Origins []string

	Quiet bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{Host: DefaultHost, Port: DefaultPort}
}

// Server serves the session tracker API.
type Server struct {
	config Config
	store  *store.Store
	reg    *drill.Registry
	stats  *stats.Engine
	router chi.Router
}

// New creates a server over the given store and drill table.
func New(st *store.Store, reg *drill.Registry, cfg Config) *Server {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	s := &Server{
		config: cfg,
		store:  st,
		reg:    reg,
		stats:  stats.NewEngine(st, reg),
	}
	s.router = s.setupRouter()
	return s
}

// setupRouter configures routes and middleware.
func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if !s.config.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(corsMiddleware(s.config.Origins))

	r.Post("/sessions", s.handleSubmitSession)
	r.Get("/sessions", s.handleGetSessions)
	r.Get("/stats", s.handleGetStats)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Addr returns the server address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// ListenAndServe starts the server and blocks until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.Addr(),
		Handler: s.router,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	// Update port if it was auto-assigned
	if s.config.Port == 0 {
		s.config.Port = ln.Addr().(*net.TCPAddr).Port
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if !s.config.Quiet {
		fmt.Printf("Putting tracker API running at http://%s\n", s.Addr())
	}
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// corsMiddleware answers pre-flight requests and echoes the Origin header
// back for origins on the allow-list.
func corsMiddleware(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && originAllowed(origin, allowed) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}
