// Package report assembles the dashboard view of the activity log: the
// windowed aggregates, insights and chart series.
package report

import (
	"github.com/dukerupert/timeanalyzer/internal/analysis"
	"github.com/dukerupert/timeanalyzer/internal/format"
	"github.com/dukerupert/timeanalyzer/internal/insight"
	"github.com/dukerupert/timeanalyzer/internal/model"
	"github.com/dukerupert/timeanalyzer/internal/window"
)

// TrendDays is the length of the trend line, ending today.
const TrendDays = 14

const (
	KindPie      = "pie"
	KindDoughnut = "doughnut"
	KindBar      = "bar"
	KindLine     = "line"
)

// Series is one labelled numeric series for a chart.
type Series struct {
	Kind   string    `json:"kind"`
	Label  string    `json:"label"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Charts is everything a renderer needs for one refresh. Renderers replace
// whatever they drew for the previous refresh.
type Charts struct {
	Window       window.Window `json:"window"`
	Categories   Series        `json:"categories"`
	Productivity Series        `json:"productivity"`
	Daily        Series        `json:"daily"`
	Trend        Series        `json:"trend"`
}

type Report struct {
	Window       window.Window           `json:"window"`
	Today        model.Date              `json:"today"`
	Totals       analysis.Totals         `json:"totals"`
	TodayMinutes int                     `json:"today_minutes"`
	Split        analysis.Split          `json:"split"`
	Categories   []analysis.CategoryStat `json:"categories"`
	Daily        []analysis.DayGroup     `json:"daily"`
	Insights     []insight.Insight       `json:"insights"`
	Charts       Charts                  `json:"charts"`
}

// Build derives the report for w from the full history. It does not modify
// all.
func Build(all []model.Activity, w window.Window, today model.Date) Report {
	w = window.Parse(string(w))
	subset := window.Filter(all, w, today)

	rep := Report{
		Window:       w,
		Today:        today,
		Totals:       analysis.ComputeTotals(subset),
		TodayMinutes: analysis.TodayTotal(all, today),
		Split:        analysis.ProductivitySplit(subset),
		Categories:   analysis.CategoryBreakdown(subset),
		Daily:        analysis.DailySummary(subset),
		Insights:     insight.Generate(subset),
	}
	if rep.Categories == nil {
		rep.Categories = []analysis.CategoryStat{}
	}
	if rep.Daily == nil {
		rep.Daily = []analysis.DayGroup{}
	}
	rep.Charts = buildCharts(w, rep, subset, all, today)
	return rep
}

func buildCharts(w window.Window, rep Report, subset, all []model.Activity, today model.Date) Charts {
	charts := Charts{
		Window: w,
		Categories: Series{
			Kind:   KindPie,
			Label:  "Minutes by category",
			Labels: []string{},
			Values: []float64{},
		},
		Productivity: Series{
			Kind:   KindDoughnut,
			Label:  "Productive vs unproductive minutes",
			Labels: []string{"Productive", "Unproductive"},
			Values: []float64{float64(rep.Split.ProductiveMinutes), float64(rep.Split.UnproductiveMinutes)},
		},
		Daily: Series{
			Kind:   KindBar,
			Label:  "Hours per day",
			Labels: []string{},
			Values: []float64{},
		},
		Trend: Series{
			Kind:   KindLine,
			Label:  "Hours over the last 14 days",
			Labels: make([]string, 0, TrendDays),
			Values: make([]float64, 0, TrendDays),
		},
	}

	for _, c := range rep.Categories {
		charts.Categories.Labels = append(charts.Categories.Labels, format.CategoryName(c.Category))
		charts.Categories.Values = append(charts.Categories.Values, float64(c.TotalMinutes))
	}
	for _, d := range analysis.DailyTotals(subset) {
		charts.Daily.Labels = append(charts.Daily.Labels, shortDate(d.Date))
		charts.Daily.Values = append(charts.Daily.Values, format.Hours(d.Minutes))
	}
	for _, d := range analysis.Trend(all, today, TrendDays) {
		charts.Trend.Labels = append(charts.Trend.Labels, shortDate(d.Date))
		charts.Trend.Values = append(charts.Trend.Values, format.Hours(d.Minutes))
	}
	return charts
}

func shortDate(d model.Date) string {
	return d.Time().Format("Jan 2")
}
