// Package server exposes the agent over HTTP: the A2A JSON-RPC endpoint in
// aggregate and server-sent event modes, the agent card, a health check
// and an AG-UI endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spetersoncode/scholar/a2a"
)

// DefaultAgentName is the assistant id reported by the health check.
const DefaultAgentName = "paper-research"

// Server routes HTTP requests to the task executor.
type Server struct {
	executor  *a2a.Executor
	card      *a2a.AgentCard
	name      string
	queueSize int
	logger    *slog.Logger
	mux       *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithAgentName sets the name reported by /health.
func WithAgentName(name string) Option {
	return func(s *Server) { s.name = name }
}

// WithQueueSize sets the event queue capacity of streaming requests.
func WithQueueSize(n int) Option {
	return func(s *Server) { s.queueSize = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server for executor advertising card.
func New(executor *a2a.Executor, card *a2a.AgentCard, opts ...Option) *Server {
	s := &Server{
		executor:  executor,
		card:      card,
		name:      DefaultAgentName,
		queueSize: a2a.DefaultQueueSize,
		logger:    slog.Default(),
		mux:       http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	rpc := &rpcHandler{executor: s.executor, queueSize: s.queueSize, logger: s.logger}
	ui := &aguiHandler{executor: s.executor, logger: s.logger}

	s.mux.Handle("POST /a2a/{assistant_id}", rpc)
	s.mux.Handle("POST /a2a", rpc)
	s.mux.HandleFunc("GET /.well-known/agent.json", s.handleCard)
	s.mux.HandleFunc("GET /agent-card", s.handleCard)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("POST /agui/{assistant_id}", ui)
	return s
}

// Handler returns the root handler with CORS applied.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.mux)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully, waiting up to shutdownTimeout for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.card)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "agent": s.name})
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
