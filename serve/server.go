// Package serve exposes the interpreter over HTTP. Every run is bounded by
// a step limit and a request timeout, so untrusted programs cannot hold a
// worker forever.
package serve

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deepnoodle-ai/bfi"
	"github.com/deepnoodle-ai/bfi/ast"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const (
	DefaultMaxSteps     = 10_000_000
	DefaultTimeout      = 10 * time.Second
	DefaultMaxBodyBytes = 1 << 20
)

// Config controls the limits applied to each request.
type Config struct {
	MaxSteps     int64
	Timeout      time.Duration
	MaxBodyBytes int64
	Version      string
	Logger       zerolog.Logger
}

// Server routes HTTP requests to the parser and the interpreter.
type Server struct {
	cfg    Config
	router chi.Router
}

// NewServer creates a server, filling in defaults for unset limits.
func NewServer(cfg Config) *Server {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Timeout))
	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/run", s.handleRun)
		r.Post("/parse", s.handleParse)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !goerrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.cfg.Logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Version:  s.cfg.Version,
		MaxSteps: s.cfg.MaxSteps,
	})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if !s.decode(w, r, &req) {
		return
	}
	limit := s.cfg.MaxSteps
	if req.MaxSteps > 0 && req.MaxSteps < limit {
		limit = req.MaxSteps
	}
	result, err := bfi.Eval(r.Context(), req.Code,
		bfi.WithFilename(req.Filename),
		bfi.WithStepLimit(limit),
		bfi.WithLogger(s.cfg.Logger))
	resp := RunResponse{Result: result}
	if err == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.Error = newErrorInfo(err)
	writeJSON(w, statusFor(err), resp)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts := []bfi.Option{bfi.WithFilename(req.Filename)}
	if req.Collapse != nil && !*req.Collapse {
		opts = append(opts, bfi.WithoutCollapse())
	}
	tree, err := bfi.Parse(req.Code, opts...)
	if err != nil {
		writeJSON(w, statusFor(err), ParseResponse{Error: newErrorInfo(err)})
		return
	}
	stats := ast.ComputeStats(tree)
	writeJSON(w, http.StatusOK, ParseResponse{Tree: tree, Stats: &stats})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if goerrors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, struct {
			Error *ErrorInfo `json:"error"`
		}{&ErrorInfo{Message: fmt.Sprintf("invalid request: %v", err)}})
		return false
	}
	return true
}

// statusFor maps evaluation errors to HTTP status codes. Errors raised by
// the program itself are reported as unprocessable input.
func statusFor(err error) int {
	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case goerrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
