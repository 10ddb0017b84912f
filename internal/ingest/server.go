// Package ingest serves the HTTP collaborator that accepts performance
// documents from the sync workflow and publishes the latest one.
package ingest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	serverName    = "Performance Dashboard Server"
	serverVersion = "1.0.0"
	maxBodyBytes  = 32 << 20
)

type Server struct {
	store   *Store
	mux     *http.ServeMux
	metrics *serverMetrics
	webDir  string
	logger  *slog.Logger
	started time.Time
	now     func() time.Time
}

func NewServer(store *Store, webDir string, logger *slog.Logger) *Server {
	s := &Server{
		store:   store,
		mux:     http.NewServeMux(),
		metrics: newServerMetrics(),
		webDir:  webDir,
		logger:  logger,
		started: time.Now(),
		now:     time.Now,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /health", s.health)
	s.mux.HandleFunc("GET /api/health", s.health)
	s.mux.HandleFunc("GET /api/info", s.info)
	s.mux.Handle("GET /metrics", s.metrics.handler())

	s.mux.HandleFunc("POST /api/update-performance", s.updatePerformance)
	s.mux.HandleFunc("GET /api/performance-data", s.performanceData)
	s.mux.HandleFunc("GET /api/last-updated", s.lastUpdated)

	if s.webDir != "" {
		s.mux.Handle("GET /", http.FileServer(http.Dir(s.webDir)))
	}
}

// Handler returns the routes wrapped in request id, panic recovery, logging,
// metrics and CORS middleware.
func (s *Server) Handler() http.Handler {
	return RequestID(Recover(s.logger)(Logging(s.logger)(s.metrics.instrument(CORS(s.mux)))))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Seconds(),
	})
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    serverName,
		"version": serverVersion,
		"endpoints": map[string]string{
			"health":      "/api/health",
			"updateData":  "POST /api/update-performance",
			"getData":     "GET /api/performance-data",
			"lastUpdated": "GET /api/last-updated",
		},
	})
}

func (s *Server) updatePerformance(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.logger.Warn("read update body failed", "request_id", RequestIDFrom(r.Context()), "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	res, err := s.store.Save(body)
	if err != nil {
		status, result := http.StatusInternalServerError, "error"
		if errors.Is(err, ErrInvalidDocument) {
			status, result = http.StatusBadRequest, "invalid"
		}
		s.metrics.updates.WithLabelValues(result).Inc()
		s.logger.Error("update performance data failed", "request_id", RequestIDFrom(r.Context()), "err", err)
		writeJSON(w, status, map[string]any{"success": false, "error": err.Error()})
		return
	}

	s.metrics.updates.WithLabelValues("ok").Inc()
	s.metrics.members.Set(float64(res.MembersCount))
	s.logger.Info("performance data updated",
		"request_id", RequestIDFrom(r.Context()),
		"revision", res.Revision,
		"last_updated", res.LastUpdated,
		"members", res.MembersCount,
		"total_7days", res.SevenDayTotal)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Data updated successfully",
		"timestamp":    res.LastUpdated,
		"membersCount": res.MembersCount,
		"revision":     res.Revision,
	})
}

func (s *Server) performanceData(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Read()
	if errors.Is(err, ErrNoData) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No data available yet"})
		return
	}
	if err != nil {
		s.logger.Error("read performance data failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to read data"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("write performance data failed", "err", err)
	}
}

func (s *Server) lastUpdated(w http.ResponseWriter, r *http.Request) {
	mod, err := s.store.LastModified()
	if errors.Is(err, ErrNoData) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No data available yet"})
		return
	}
	if err != nil {
		s.logger.Error("stat performance data failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to get file stats"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"lastModified": mod.UTC().Format(time.RFC3339Nano)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("encode response failed", "err", err)
	}
}
