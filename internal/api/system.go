package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Ping(r.Context()); err != nil {
		s.log.Warn("health check failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Database connection failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "database": "connected"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tasks.Stats(r.Context())
	if err != nil {
		s.writeTaskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks":         stats.Tasks,
		"pending_tasks": stats.PendingTasks,
		"uptime":        time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"message":   "Todo API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
