// Package server exposes the study-buddy HTTP API.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cchalm/study-buddy/internal/ai"
	"github.com/cchalm/study-buddy/internal/audit"
	"github.com/cchalm/study-buddy/internal/provider"
)

//go:embed static/*
var staticFS embed.FS

const (
	// DefaultAddr is the default address the server listens on.
	DefaultAddr = "0.0.0.0:5000"

	// ReadHeaderTimeout bounds how long a client may take to send request headers. Model calls themselves are
	// bounded only by the client's connection
	ReadHeaderTimeout = 10 * time.Second

	// ShutdownTimeout is the maximum time to wait for in-flight requests during graceful shutdown.
	ShutdownTimeout = 30 * time.Second

	// MaxRequestBodySize is the maximum size of JSON request bodies (1MB).
	MaxRequestBodySize = 1 << 20

	// DefaultMaxUploadBytes is the maximum size of an image upload when none is configured (32MB).
	DefaultMaxUploadBytes = 32 << 20
)

// Options holds the server's dependencies
type Options struct {
	Addr           string
	Models         provider.Client
	Conversations  *ai.Manager
	Audit          *audit.Logger // Optional
	SessionSecret  string        // Cookie signing key. Empty generates a random key
	MaxUploadBytes int64
}

// Server serves the API routes and the index page
type Server struct {
	addr           string
	server         *http.Server
	handler        http.Handler
	models         provider.Client
	conversations  *ai.Manager
	audit          *audit.Logger
	sessions       *sessionCodec
	maxUploadBytes int64
}

// NewServer creates a new Server. Models and Conversations are required
func NewServer(opts Options) (*Server, error) {
	if opts.Models == nil {
		return nil, fmt.Errorf("model client is required")
	}
	if opts.Conversations == nil {
		return nil, fmt.Errorf("conversation manager is required")
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.Audit == nil {
		opts.Audit = audit.NewLogger(nil)
	}

	sessions, err := newSessionCodec(opts.SessionSecret)
	if err != nil {
		return nil, err
	}

	s := &Server{
		addr:           opts.Addr,
		models:         opts.Models,
		conversations:  opts.Conversations,
		audit:          opts.Audit,
		sessions:       sessions,
		maxUploadBytes: opts.MaxUploadBytes,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	// Every request gets a session ID, issued on first visit
	s.handler = s.sessions.middleware(mux)

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}

	return s, nil
}

// Handler returns the root HTTP handler, including session handling
func (s *Server) Handler() http.Handler {
	return s.handler
}

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)

	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/clear", s.handleClear)
	mux.HandleFunc("POST /api/correct", s.handleCorrect)
	mux.HandleFunc("POST /api/summarize", s.handleSummarize)
	mux.HandleFunc("POST /api/image", s.handleImage)
	mux.HandleFunc("GET /api/models", s.handleModels)
}

// ListenAndServe starts the HTTP server and blocks until the context is cancelled.
// Returns an error if the server fails to start or encounters a non-graceful shutdown error.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		log.Printf("Starting web server on http://%s", s.addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down web server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		log.Println("Web server stopped")
		return nil

	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// handleIndex serves the index page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	b, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		log.Printf("Failed to read index page: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(b)
}
