// Package insight turns activity metrics into short advisory messages using
// fixed threshold rules.
package insight

import (
	"fmt"

	"github.com/dukerupert/timeanalyzer/internal/analysis"
	"github.com/dukerupert/timeanalyzer/internal/format"
	"github.com/dukerupert/timeanalyzer/internal/model"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

type Insight struct {
	Severity    Severity `json:"severity"`
	Icon        string   `json:"icon"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// Thresholds, in percent of tracked time or minutes per day.
const (
	productiveHigh    = 60
	productiveLow     = 40
	leisureMaxPercent = 40
	sleepMinPerDay    = 360
	sleepGoodMin      = 420
	sleepGoodMax      = 540
)

// NoData is returned on its own when there is nothing to analyse.
var NoData = Insight{
	Severity:    SeverityInfo,
	Icon:        "📊",
	Title:       "No Data Yet",
	Description: "Start logging activities to see insights for this period.",
}

// Generate evaluates the windowed rules against subset, in order.
func Generate(subset []model.Activity) []Insight {
	if len(subset) == 0 {
		return []Insight{NoData}
	}

	var out []Insight
	total := analysis.ComputeTotals(subset).Minutes

	if total > 0 {
		out = append(out, productivity(analysis.ProductivitySplit(subset)))

		leisure := analysis.CategoryMinutes(subset, model.CategoryLeisure)
		if leisure*100 > leisureMaxPercent*total {
			out = append(out, Insight{
				Severity:    SeverityWarning,
				Icon:        "🎮",
				Title:       "Too Much Leisure",
				Description: fmt.Sprintf("Leisure took %d%% of your tracked time. Try swapping some of it for focused work.", analysis.Percent(leisure, total)),
			})
		}
	}

	if in, ok := sleep(subset); ok {
		out = append(out, in)
	}

	out = append(out, exercise(subset))

	if breakdown := analysis.CategoryBreakdown(subset); len(breakdown) > 0 {
		top := breakdown[0]
		out = append(out, Insight{
			Severity: SeverityInfo,
			Icon:     "🏆",
			Title:    "Top Category: " + format.CategoryName(top.Category),
			Description: fmt.Sprintf("You spent %s on %s (%d%% of tracked time).",
				format.Duration(top.TotalMinutes), top.Category, top.Percent),
		})
	}

	return out
}

func productivity(split analysis.Split) Insight {
	p := split.ProductivePercent
	switch {
	case p >= productiveHigh:
		return Insight{
			Severity:    SeveritySuccess,
			Icon:        "🎯",
			Title:       "Great Productivity!",
			Description: fmt.Sprintf("%d%% of your time went to productive activities. Keep it up!", p),
		}
	case p >= productiveLow:
		return Insight{
			Severity:    SeverityInfo,
			Icon:        "⚖️",
			Title:       "Balanced Time Use",
			Description: fmt.Sprintf("%d%% of your time was productive. A little more focus would tip the balance.", p),
		}
	default:
		return Insight{
			Severity:    SeverityWarning,
			Icon:        "⚠️",
			Title:       "Low Productivity",
			Description: fmt.Sprintf("Only %d%% of your time was productive. Consider planning study or work blocks.", p),
		}
	}
}

// sleep reports on the average sleep per logged day. Averages between the
// warning and healthy bands, and above the healthy band, produce nothing.
func sleep(subset []model.Activity) (Insight, bool) {
	minutes := analysis.CategoryMinutes(subset, model.CategorySleep)
	days := max(analysis.DistinctDates(subset), 1)
	avg := float64(minutes) / float64(days)

	switch {
	case avg < sleepMinPerDay:
		return Insight{
			Severity:    SeverityWarning,
			Icon:        "😴",
			Title:       "Insufficient Sleep",
			Description: fmt.Sprintf("You averaged %s of sleep per day. Aim for 7-9 hours.", format.Duration(int(avg))),
		}, true
	case avg >= sleepGoodMin && avg <= sleepGoodMax:
		return Insight{
			Severity:    SeveritySuccess,
			Icon:        "🌙",
			Title:       "Healthy Sleep",
			Description: fmt.Sprintf("You averaged %s of sleep per day. Well rested!", format.Duration(int(avg))),
		}, true
	default:
		return Insight{}, false
	}
}

func exercise(subset []model.Activity) Insight {
	minutes := analysis.CategoryMinutes(subset, model.CategoryExercise)
	if minutes == 0 {
		return Insight{
			Severity:    SeverityWarning,
			Icon:        "🏃",
			Title:       "No Exercise Logged",
			Description: "No exercise in this period. Even a short walk helps.",
		}
	}
	return Insight{
		Severity:    SeveritySuccess,
		Icon:        "💪",
		Title:       "Stayed Active",
		Description: fmt.Sprintf("You exercised for %s in this period.", format.Duration(minutes)),
	}
}
