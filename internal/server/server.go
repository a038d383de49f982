// Package server exposes the dashboard view-models as a JSON REST
// API consumed by the admin UI.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/metricdeck/metricdeck/internal/analytics"
	"github.com/metricdeck/metricdeck/internal/config"
	"github.com/metricdeck/metricdeck/internal/dashboard"
)

// Storage is everything the API reads from the backing store.
type Storage interface {
	dashboard.Source
	analytics.DetailSource
}

// VersionInfo holds build-time version metadata.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// Server is the HTTP server that serves the dashboard REST API.
type Server struct {
	mu      sync.RWMutex
	cfg     config.Config
	src     Storage
	dash    *dashboard.Dashboard
	mux     *http.ServeMux
	httpSrv *http.Server
	version VersionInfo

	// handlerDelay is injected before each timeout-wrapped
	// handler, used only by tests to guarantee handlers
	// exceed a short timeout. Zero in production.
	handlerDelay time.Duration
}

// New creates a new Server reading from src.
func New(cfg config.Config, src Storage, opts ...Option) *Server {
	s := &Server{
		cfg:  cfg,
		src:  src,
		dash: dashboard.New(src, cfg.RealtimeWindow),
		mux:  http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the build-time version metadata.
func WithVersion(v VersionInfo) Option {
	return func(s *Server) { s.version = v }
}

func (s *Server) routes() {
	s.mux.Handle("GET /api/v1/health", s.withTimeout(s.handleHealth))
	s.mux.Handle("GET /api/v1/version", s.withTimeout(s.handleGetVersion))

	s.mux.Handle("GET /api/v1/overview", s.withTimeout(s.handleOverview))
	s.mux.Handle("GET /api/v1/users", s.withTimeout(s.handleListUsers))

	s.mux.Handle("GET /api/v1/analytics/event-types", s.withTimeout(s.handleEventTypes))
	s.mux.Handle("GET /api/v1/analytics/campaigns", s.withTimeout(s.handleCampaigns))
	s.mux.Handle("GET /api/v1/analytics/pages", s.withTimeout(s.handlePages))
	s.mux.Handle("GET /api/v1/analytics/journeys", s.withTimeout(s.handleJourneys))
	s.mux.Handle("GET /api/v1/analytics/realtime", s.withTimeout(s.handleRealtime))

	s.mux.Handle("GET /api/v1/sessions/{id}", s.withTimeout(s.handleGetSession))

	s.mux.Handle("GET /api/v1/dashboard", s.withTimeout(s.handleDashboard))
	s.mux.Handle("POST /api/v1/dashboard/refresh", s.withTimeout(s.handleRefreshDashboard))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.version)
}

// Handler returns the http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(logMiddleware(s.mux))
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()
	log.Printf("Starting server at http://%s", addr)
	return srv.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.httpSrv
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// FindAvailablePort finds an available port starting from the
// given port, binding to the specified host.
func FindAvailablePort(host string, start int) int {
	for port := start; port < start+100; port++ {
		addr := net.JoinHostPort(host, strconv.Itoa(port))
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			ln.Close()
			return port
		}
	}
	return start
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set(
				"Access-Control-Allow-Methods",
				"GET, POST, OPTIONS",
			)
			w.Header().Set(
				"Access-Control-Allow-Headers",
				"Content-Type",
			)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			log.Printf("%s %s", r.Method, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}
