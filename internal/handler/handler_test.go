package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/timeanalyzer/internal/backup"
	"github.com/dukerupert/timeanalyzer/internal/clock"
	"github.com/dukerupert/timeanalyzer/internal/database"
	"github.com/dukerupert/timeanalyzer/internal/report"
	"github.com/dukerupert/timeanalyzer/internal/store"
	"github.com/dukerupert/timeanalyzer/internal/window"
)

var testNow = time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

type testEnv struct {
	mux        *http.ServeMux
	activities *store.ActivityStore
	blobs      *store.BlobStore
	coord      *report.Coordinator
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.Fixed{At: testNow}
	blobs := store.NewBlobStore(db)
	activities := store.NewActivityStore(blobs, clk, logger)
	activities.Load()

	coord := report.NewCoordinator(activities, nil, nil, clk, blobs, window.Week, logger)
	backups := backup.NewManager(backup.Config{}, activities, store.NewBackupStore(db), nil, logger)

	ah := NewActivityHandler(activities, clk, nil, logger)
	rh := NewReportHandler(coord, activities, clk)
	bh := NewBackupHandler(backups, nil, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/activities", ah.List)
	mux.HandleFunc("POST /api/activities", ah.Create)
	mux.HandleFunc("PUT /api/activities/{id}", ah.Update)
	mux.HandleFunc("DELETE /api/activities/{id}", ah.Delete)
	mux.HandleFunc("DELETE /api/activities", ah.Clear)
	mux.HandleFunc("GET /api/stats", rh.Stats)
	mux.HandleFunc("GET /api/report", rh.Report)
	mux.HandleFunc("POST /api/report/refresh", rh.Refresh)
	mux.HandleFunc("GET /api/suggestions", rh.Suggestions)
	mux.HandleFunc("GET /api/backups", bh.List)
	mux.HandleFunc("POST /api/backups", bh.Create)
	mux.HandleFunc("POST /api/backups/{id}/restore", bh.Restore)

	return &testEnv{mux: mux, activities: activities, blobs: blobs, coord: coord}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			r = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}
