package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"todo-api/pkg/task"
)

const maxBodyBytes = 1 << 20

// Server is the HTTP API server.
type Server struct {
	tasks   *task.Service
	log     *zap.Logger
	metrics *metrics
	mux     *http.ServeMux
	started time.Time
}

// New creates a new Server.
func New(tasks *task.Service, log *zap.Logger) *Server {
	s := &Server{
		tasks:   tasks,
		log:     log,
		metrics: newMetrics(),
		mux:     http.NewServeMux(),
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// route is one operation, reachable at its canonical path and every alias.
type route struct {
	method  string
	path    string
	aliases []string
	handler http.HandlerFunc
}

func (s *Server) routes() {
	table := []route{
		// Tasks
		{"GET", "/tasks", []string{"/api/tasks", "/task"}, s.handleTaskList},
		{"POST", "/tasks", []string{"/api/tasks"}, s.handleTaskCreate},
		{"GET", "/tasks/{id}", []string{"/api/tasks/{id}"}, s.handleTaskGet},
		{"PUT", "/tasks/{id}", []string{"/api/tasks/{id}"}, s.handleTaskUpdate},
		{"PATCH", "/tasks/{id}/complete", []string{"/api/tasks/{id}/complete"}, s.handleTaskComplete},
		{"DELETE", "/tasks/{id}", []string{"/api/tasks/{id}"}, s.handleTaskDelete},

		// System
		{"GET", "/health", []string{"/api/health"}, s.handleHealth},
		{"GET", "/api/status", nil, s.handleStatus},
		{"GET", "/{$}", nil, s.handleRoot},
	}

	for _, rt := range table {
		h := s.instrument(strings.TrimSuffix(rt.path, "{$}"), rt.handler)
		s.mux.Handle(rt.method+" "+rt.path, h)
		for _, alias := range rt.aliases {
			s.mux.Handle(rt.method+" "+alias, h)
		}
	}

	s.mux.Handle("GET /metrics", s.metrics.handler())
}

// instrument records metrics under the canonical path, so aliases aggregate,
// and logs one line per request.
func (s *Server) instrument(path string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		elapsed := time.Since(start)

		s.metrics.observe(r.Method, path, rec.status, elapsed)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// writeTaskError maps the task error taxonomy onto status codes.
func (s *Server) writeTaskError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *task.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, task.ErrNotFound):
		writeError(w, http.StatusNotFound, "Task not found")
	default:
		s.log.Error("task operation failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON reads a JSON object body into v. An empty body leaves v untouched
// so that missing fields are reported by validation, not as a parse error.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write json", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
