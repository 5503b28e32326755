package handler

import (
	"net/http"
	"testing"

	"github.com/dukerupert/timeanalyzer/internal/insight"
	"github.com/dukerupert/timeanalyzer/internal/report"
	"github.com/dukerupert/timeanalyzer/internal/window"
)

func TestStats(t *testing.T) {
	env := setupTestEnv(t)
	createActivity(t, env, "Reading", "study", 1, 30, "2024-06-15")
	createActivity(t, env, "Running", "exercise", 0, 35, "2024-06-10")

	rec := env.do(t, http.MethodGet, "/api/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[statsResponse](t, rec)
	want := statsResponse{
		TotalActivities: 2,
		TotalMinutes:    125,
		TotalTime:       "2h 5m",
		TodayMinutes:    90,
		TodayTime:       "1h 30m",
	}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestReportDefaultWindow(t *testing.T) {
	env := setupTestEnv(t)
	createActivity(t, env, "Reading", "study", 2, 0, "2024-06-15")
	createActivity(t, env, "Old work", "work", 1, 0, "2024-05-01")

	rec := env.do(t, http.MethodGet, "/api/report", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	rep := decode[report.Report](t, rec)
	if rep.Window != window.Week {
		t.Errorf("window = %q, want week", rep.Window)
	}
	if rep.Totals.Count != 1 || rep.Totals.Minutes != 120 {
		t.Errorf("totals = %+v, want 1 activity / 120 min", rep.Totals)
	}
}

func TestReportSelectWindowPersists(t *testing.T) {
	env := setupTestEnv(t)
	createActivity(t, env, "Reading", "study", 2, 0, "2024-06-15")
	createActivity(t, env, "Old work", "work", 1, 0, "2024-05-01")

	rec := env.do(t, http.MethodGet, "/api/report?window=all", nil)
	rep := decode[report.Report](t, rec)
	if rep.Window != window.All || rep.Totals.Count != 2 {
		t.Errorf("report = %s / %d, want all / 2", rep.Window, rep.Totals.Count)
	}

	if got := env.coord.CurrentWindow(); got != window.All {
		t.Errorf("current window = %q, want all", got)
	}

	rec = env.do(t, http.MethodPost, "/api/report/refresh", nil)
	rep = decode[report.Report](t, rec)
	if rep.Window != window.All {
		t.Errorf("refresh window = %q, want all", rep.Window)
	}

	rec = env.do(t, http.MethodPost, "/api/report/refresh", map[string]string{"window": "today"})
	rep = decode[report.Report](t, rec)
	if rep.Window != window.Today || rep.Totals.Count != 1 {
		t.Errorf("refresh today = %s / %d", rep.Window, rep.Totals.Count)
	}
}

func TestReportEmptyHasPlaceholder(t *testing.T) {
	env := setupTestEnv(t)

	rep := decode[report.Report](t, env.do(t, http.MethodGet, "/api/report?window=today", nil))
	if len(rep.Insights) != 1 || rep.Insights[0].Title != insight.NoData.Title {
		t.Errorf("insights = %+v, want the no-data placeholder", rep.Insights)
	}
	if rep.Categories == nil || rep.Daily == nil {
		t.Error("empty report should encode empty lists, not null")
	}
}

func TestSuggestionsEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/suggestions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[[]insight.Insight](t, rec)
	if len(got) != 1 || got[0].Title != insight.NoHistory.Title {
		t.Errorf("suggestions = %+v, want the no-history placeholder", got)
	}
}
