// Package server exposes the word cloud pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz             liveness and build info
//	POST /v1/layouts          compute a layout and its artifacts
//	POST /v1/layouts/stream   NDJSON: one line per placed word, then the result
//	POST /v1/worker           offload worker endpoint (see package offload)
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/observability"
	"github.com/matzehuels/wordcloud/pkg/offload"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

// maxBodySize bounds request bodies.
const maxBodySize = 16 << 20

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	computer offload.Computer
	logger   *log.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithComputer sets the computer used by the worker endpoint. The default is
// the runner's adapter.
func WithComputer(c offload.Computer) Option {
	return func(s *Server) { s.computer = c }
}

// New creates a Server around runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.computer == nil {
		s.computer = runner.Adapter
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layouts", s.handleLayout)
		r.Post("/layouts/stream", s.handleLayoutStream)
		r.Post("/worker", s.handleWorker)
	})
	return r
}

// =============================================================================
// Middleware
// =============================================================================

type requestIDKey struct{}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.Host, r.URL.Path)

		next.ServeHTTP(ww, r)

		hooks.OnResponse(r.Context(), r.Method, r.Host, r.URL.Path, ww.Status(), time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", RequestID(r.Context()))
	})
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error     string      `json:"error"`
	Code      errors.Code `json:"code,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, errorBody{
		Error:     errors.UserMessage(err),
		Code:      errors.GetCode(err),
		RequestID: RequestID(r.Context()),
	})
}

func statusFor(err error) int {
	switch {
	case errors.IsConfiguration(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
