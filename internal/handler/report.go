package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/timeanalyzer/internal/analysis"
	"github.com/dukerupert/timeanalyzer/internal/clock"
	"github.com/dukerupert/timeanalyzer/internal/format"
	"github.com/dukerupert/timeanalyzer/internal/report"
	"github.com/dukerupert/timeanalyzer/internal/window"
)

type ReportHandler struct {
	coord  *report.Coordinator
	source report.Source
	clock  clock.Clock
}

func NewReportHandler(coord *report.Coordinator, source report.Source, clk clock.Clock) *ReportHandler {
	return &ReportHandler{coord: coord, source: source, clock: clk}
}

// Report returns the report for ?window=, remembering it as the current
// window. Without the parameter the current window is used.
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	if value := r.URL.Query().Get("window"); value != "" {
		writeJSON(w, http.StatusOK, h.coord.SelectWindow(r.Context(), window.Parse(value)))
		return
	}
	writeJSON(w, http.StatusOK, h.coord.Refresh(r.Context(), h.coord.CurrentWindow()))
}

type refreshRequest struct {
	Window string `json:"window"`
}

// Refresh re-runs the report and pushes fresh charts to connected clients.
// The body is optional.
func (h *ReportHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
			return
		}
	}

	if req.Window != "" {
		writeJSON(w, http.StatusOK, h.coord.SelectWindow(r.Context(), window.Parse(req.Window)))
		return
	}
	writeJSON(w, http.StatusOK, h.coord.Refresh(r.Context(), h.coord.CurrentWindow()))
}

type statsResponse struct {
	TotalActivities int    `json:"total_activities"`
	TotalMinutes    int    `json:"total_minutes"`
	TotalTime       string `json:"total_time"`
	TodayMinutes    int    `json:"today_minutes"`
	TodayTime       string `json:"today_time"`
}

// Stats returns the header counters over the whole history.
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	all := h.source.All()
	totals := analysis.ComputeTotals(all)
	today := analysis.TodayTotal(all, h.clock.Today())

	writeJSON(w, http.StatusOK, statsResponse{
		TotalActivities: totals.Count,
		TotalMinutes:    totals.Minutes,
		TotalTime:       format.Duration(totals.Minutes),
		TodayMinutes:    today,
		TodayTime:       format.Duration(today),
	})
}

func (h *ReportHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.coord.Suggestions(r.Context()))
}
