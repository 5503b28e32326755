package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/timeanalyzer/internal/backup"
	"github.com/dukerupert/timeanalyzer/internal/clock"
	"github.com/dukerupert/timeanalyzer/internal/handler"
	"github.com/dukerupert/timeanalyzer/internal/middleware"
	"github.com/dukerupert/timeanalyzer/internal/report"
	"github.com/dukerupert/timeanalyzer/internal/store"
	ws "github.com/dukerupert/timeanalyzer/internal/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the long-lived services the HTTP surface is built on.
type Deps struct {
	Activities  *store.ActivityStore
	Coordinator *report.Coordinator
	Backups     *backup.Manager
	Hub         *ws.Hub
	Clock       clock.Clock
}

type Server struct {
	hub      *ws.Hub
	activity *handler.ActivityHandler
	report   *handler.ReportHandler
	backup   *handler.BackupHandler
	logger   *slog.Logger
}

func New(deps Deps, logger *slog.Logger) *Server {
	return &Server{
		hub:      deps.Hub,
		activity: handler.NewActivityHandler(deps.Activities, deps.Clock, deps.Hub, logger.With("component", "activity")),
		report:   handler.NewReportHandler(deps.Coordinator, deps.Activities, deps.Clock),
		backup:   handler.NewBackupHandler(deps.Backups, deps.Hub, logger.With("component", "backup_handler")),
		logger:   logger,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	// Activity API routes
	mux.HandleFunc("GET /api/activities", s.activity.List)
	mux.HandleFunc("POST /api/activities", s.activity.Create)
	mux.HandleFunc("PUT /api/activities/{id}", s.activity.Update)
	mux.HandleFunc("DELETE /api/activities/{id}", s.activity.Delete)
	mux.HandleFunc("DELETE /api/activities", s.activity.Clear)

	// Report API routes
	mux.HandleFunc("GET /api/stats", s.report.Stats)
	mux.HandleFunc("GET /api/report", s.report.Report)
	mux.HandleFunc("POST /api/report/refresh", s.report.Refresh)
	mux.HandleFunc("GET /api/suggestions", s.report.Suggestions)

	// Backup API routes
	mux.HandleFunc("GET /api/backups", s.backup.List)
	mux.HandleFunc("POST /api/backups", s.backup.Create)
	mux.HandleFunc("POST /api/backups/{id}/restore", s.backup.Restore)

	logged := middleware.RequestLogger(s.logger.With("component", "http"))(mux)
	return middleware.RequestID(logged)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
