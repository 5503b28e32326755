package window

import (
	"strings"

	"github.com/dukerupert/timeanalyzer/internal/model"
)

// Window is a reporting period relative to today.
type Window string

const (
	Today Window = "today"
	Week  Window = "week"
	Month Window = "month"
	All   Window = "all"
)

// Parse maps a selector value to a Window. Anything unrecognised is All.
func Parse(s string) Window {
	switch w := Window(strings.ToLower(strings.TrimSpace(s))); w {
	case Today, Week, Month, All:
		return w
	default:
		return All
	}
}

// Start returns the first day included in w, and false for All.
//
// Week is a rolling window reaching back seven days (eight days inclusive of
// today), not a calendar week. Month goes back one calendar month on the same
// day of month, overflowing the way time.AddDate does.
func Start(w Window, today model.Date) (model.Date, bool) {
	switch w {
	case Today:
		return today, true
	case Week:
		return today.AddDays(-7), true
	case Month:
		return today.AddMonths(-1), true
	default:
		return model.Date{}, false
	}
}

// Filter returns the records of w in their original order. The input slice is
// never modified and the result never aliases it.
func Filter(records []model.Activity, w Window, today model.Date) []model.Activity {
	start, bounded := Start(Parse(string(w)), today)

	out := make([]model.Activity, 0, len(records))
	for _, r := range records {
		if bounded && (r.Date.Before(start) || r.Date.After(today)) {
			continue
		}
		out = append(out, r)
	}
	return out
}
