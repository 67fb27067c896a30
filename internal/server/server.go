// Package server exposes repository analysis over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/dsablic/reposcope/internal/model"
	"github.com/dsablic/reposcope/internal/output"
)

// AnalyzePath is the route of the analysis endpoint.
const AnalyzePath = "/api/repo/analyze"

// Analyzer produces a report for a repository URL.
type Analyzer interface {
	Analyze(ctx context.Context, repoURL string) model.Report
}

// Handler serves analysis requests. Requests are handled one at a time
// because every analysis reuses the same clone directory.
type Handler struct {
	analyzer Analyzer
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewHandler returns the HTTP routes for a.
func NewHandler(a Analyzer, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{analyzer: a, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc(AnalyzePath, h.analyze)
	return mux
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	repoURL := r.URL.Query().Get("repoUrl")
	if repoURL == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = output.WriteJSON(w, model.Failure("missing repoUrl query parameter"))
		return
	}

	h.mu.Lock()
	report := h.analyzer.Analyze(r.Context(), repoURL)
	h.mu.Unlock()

	h.logger.Info("analysis request served", "url", repoURL, "status", report.Status)
	w.Header().Set("Content-Type", "application/json")
	if err := output.WriteJSON(w, report); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

// Server is an HTTP server that accepts HTTP/1.1 and cleartext HTTP/2.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func New(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: h2c.NewHandler(handler, &http2.Server{}),
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
