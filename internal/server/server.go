// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Sla0ui/uxlens/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxRequestBody = 1 << 20

// Analyzer is the pipeline behind the HTTP surface
type Analyzer interface {
	Analyze(ctx context.Context, url string) (models.AnalysisResult, error)
	ConfigStatus() models.ConfigStatus
}

// AnalyzeRequest is the body of POST /api/analyze-website
type AnalyzeRequest struct {
	URL string `json:"url"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error     models.ErrorKind `json:"error"`
	Message   string           `json:"message"`
	URL       string           `json:"url,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Server routes HTTP requests to an Analyzer
type Server struct {
	analyzer Analyzer
	logger   *slog.Logger
	router   chi.Router
}

// New creates a Server
func New(analyzer Analyzer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{analyzer: analyzer, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Post("/api/analyze-website", s.handleAnalyze)
	r.Get("/api/config-status", s.handleConfigStatus)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx ends, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Error:   models.KindInvalidInput,
			Message: "request body must be a JSON object with a url field",
		})
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req.URL)
	if err != nil {
		kind := models.KindOf(err)
		if kind == models.KindInternal {
			s.logger.Error("analysis failed", "url", req.URL, "error", err)
		}
		writeError(w, statusFor(kind), ErrorResponse{Error: kind, Message: err.Error(), URL: req.URL})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleConfigStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.analyzer.ConfigStatus())
}

func statusFor(kind models.ErrorKind) int {
	switch kind {
	case models.KindInvalidInput:
		return http.StatusBadRequest
	case models.KindContentPolicy:
		return http.StatusUnprocessableEntity
	case models.KindUnreachableSite:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	if body.Timestamp.IsZero() {
		body.Timestamp = time.Now().UTC()
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"elapsed", time.Since(start).Round(time.Millisecond))
	})
}
