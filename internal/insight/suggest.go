package insight

import (
	"fmt"
	"time"

	"github.com/dukerupert/timeanalyzer/internal/analysis"
	"github.com/dukerupert/timeanalyzer/internal/format"
	"github.com/dukerupert/timeanalyzer/internal/model"
)

const (
	recentDays         = 7
	consistentDaysMin  = 3
	exerciseGapDays    = 3
	trendChangePercent = 10
)

// NoHistory is returned on its own when the history is empty.
var NoHistory = Insight{
	Severity:    SeverityInfo,
	Icon:        "🌱",
	Title:       "Not Enough History",
	Description: "Suggestions appear once you have logged a few days of activities.",
}

// Suggest looks for longer-running patterns across the entire history. It is
// independent of the report window.
func Suggest(all []model.Activity, today model.Date) []Insight {
	if len(all) == 0 {
		return []Insight{NoHistory}
	}

	var out []Insight

	logged := analysis.DistinctDates(between(all, today.AddDays(-(recentDays-1)), today))
	switch {
	case logged == recentDays:
		out = append(out, Insight{
			Severity:    SeveritySuccess,
			Icon:        "🔥",
			Title:       "Perfect Week",
			Description: "You logged activities on each of the last 7 days.",
		})
	case logged < consistentDaysMin:
		out = append(out, Insight{
			Severity:    SeverityInfo,
			Icon:        "📅",
			Title:       "Log More Consistently",
			Description: fmt.Sprintf("You logged activities on %d of the last 7 days. Daily logs make trends clearer.", logged),
		})
	}

	if sleepMinutes := analysis.CategoryMinutes(all, model.CategorySleep); sleepMinutes > 0 {
		days := max(analysis.DistinctDates(all), 1)
		if avg := sleepMinutes / days; avg < sleepMinPerDay {
			out = append(out, Insight{
				Severity:    SeverityWarning,
				Icon:        "🛌",
				Title:       "Chronic Sleep Debt",
				Description: fmt.Sprintf("Across your history you average %s of sleep per day.", format.Duration(avg)),
			})
		}
	}

	if last, ok := lastDate(all, model.CategoryExercise); !ok {
		out = append(out, Insight{
			Severity:    SeverityWarning,
			Icon:        "🏃",
			Title:       "Start Moving",
			Description: "You have not logged any exercise yet.",
		})
	} else if gap := today.DaysSince(last); gap >= exerciseGapDays {
		out = append(out, Insight{
			Severity:    SeverityWarning,
			Icon:        "⏰",
			Title:       "Time to Move",
			Description: fmt.Sprintf("It has been %d days since your last exercise.", gap),
		})
	}

	current := analysis.ProductivitySplit(between(all, today.AddDays(-(recentDays-1)), today)).ProductiveMinutes
	previous := analysis.ProductivitySplit(between(all, today.AddDays(-(2*recentDays-1)), today.AddDays(-recentDays))).ProductiveMinutes
	if previous > 0 {
		change := analysis.Percent(current-previous, previous)
		switch {
		case change >= trendChangePercent:
			out = append(out, Insight{
				Severity:    SeveritySuccess,
				Icon:        "📈",
				Title:       "Productivity Rising",
				Description: fmt.Sprintf("Productive time is up %d%% on the previous week.", change),
			})
		case change <= -trendChangePercent:
			out = append(out, Insight{
				Severity:    SeverityWarning,
				Icon:        "📉",
				Title:       "Productivity Dropping",
				Description: fmt.Sprintf("Productive time is down %d%% on the previous week.", -change),
			})
		}
	}

	if day, ok := bestWeekday(all); ok {
		out = append(out, Insight{
			Severity:    SeverityInfo,
			Icon:        "🗓️",
			Title:       "Most Productive Day",
			Description: fmt.Sprintf("You get the most productive time in on %ss.", day),
		})
	}

	return out
}

func between(records []model.Activity, from, to model.Date) []model.Activity {
	var out []model.Activity
	for _, r := range records {
		if !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	return out
}

func lastDate(records []model.Activity, c model.Category) (model.Date, bool) {
	var last model.Date
	found := false
	for _, r := range records {
		if r.Category != c {
			continue
		}
		if !found || r.Date.After(last) {
			last = r.Date
			found = true
		}
	}
	return last, found
}

func bestWeekday(records []model.Activity) (time.Weekday, bool) {
	var minutes [7]int
	for _, r := range records {
		if r.Category.Productive() {
			minutes[r.Date.Weekday()] += r.DurationMinutes
		}
	}
	best, found := time.Sunday, false
	for d := time.Sunday; d <= time.Saturday; d++ {
		if minutes[d] > 0 && (!found || minutes[d] > minutes[best]) {
			best, found = d, true
		}
	}
	return best, found
}
