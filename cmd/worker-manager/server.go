// cmd/worker-manager/server.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"admission-workers/internal/common/camunda"
	"admission-workers/internal/common/database"
	"admission-workers/internal/common/logger"
)

type healthServer struct {
	srv *http.Server
	log logger.Logger
}

func newHealthServer(port int, manager *camunda.WorkerManager, log logger.Logger, services ...database.Pinger) *healthServer {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", readyHandler(manager, services...))
	mux.Handle("/metrics", promhttp.Handler())

	return &healthServer{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

func readyHandler(manager *camunda.WorkerManager, services ...database.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		failures := database.CheckAll(r.Context(), 2*time.Second, services...)

		body := map[string]interface{}{
			"status":  "ready",
			"time":    time.Now().Format(time.RFC3339),
			"workers": manager.Running(),
		}
		status := http.StatusOK
		if len(failures) > 0 {
			body["status"] = "not_ready"
			body["failures"] = failures
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *healthServer) ListenAndServe() {
	s.log.Info("health/metrics server listening", map[string]interface{}{"addr": s.srv.Addr})
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *healthServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
