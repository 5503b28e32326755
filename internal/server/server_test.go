package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/timeanalyzer/internal/backup"
	"github.com/dukerupert/timeanalyzer/internal/clock"
	"github.com/dukerupert/timeanalyzer/internal/database"
	"github.com/dukerupert/timeanalyzer/internal/middleware"
	"github.com/dukerupert/timeanalyzer/internal/report"
	"github.com/dukerupert/timeanalyzer/internal/store"
	ws "github.com/dukerupert/timeanalyzer/internal/websocket"
	"github.com/dukerupert/timeanalyzer/internal/window"
)

func setupTestServer(t *testing.T) http.Handler {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.Fixed{At: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)}
	blobs := store.NewBlobStore(db)
	activities := store.NewActivityStore(blobs, clk, logger)
	hub := ws.NewHub(logger)
	coord := report.NewCoordinator(activities, ws.NewRenderer(hub), nil, clk, blobs, window.Week, logger)
	activities.OnChange(coord.OnStoreChange)

	srv := New(Deps{
		Activities:  activities,
		Coordinator: coord,
		Backups:     backup.NewManager(backup.Config{}, activities, store.NewBackupStore(db), nil, logger),
		Hub:         hub,
		Clock:       clk,
	}, logger)
	return srv.Router()
}

func TestHealth(t *testing.T) {
	h := setupTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestMetricsExposed(t *testing.T) {
	h := setupTestServer(t)

	body := `{"activityName":"Reading","category":"study","hours":1,"minutes":0,"date":"2024-06-15"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	for _, name := range []string{"timeanalyzer_store_activities", "timeanalyzer_store_operations_total", "timeanalyzer_report_refresh_duration_seconds"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Errorf("metrics missing %s", name)
		}
	}
}

func TestUnknownMethod(t *testing.T) {
	h := setupTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/activities", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
