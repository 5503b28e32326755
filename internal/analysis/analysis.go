// Package analysis derives statistics from a slice of activities. Every
// function is pure and returns zeroed results for empty input.
package analysis

import (
	"math"
	"sort"

	"github.com/dukerupert/timeanalyzer/internal/model"
)

// MaxDailyGroups caps the number of days returned by DailySummary.
const MaxDailyGroups = 7

type Totals struct {
	Count   int `json:"count"`
	Minutes int `json:"minutes"`
}

type Split struct {
	ProductiveMinutes   int `json:"productive_minutes"`
	UnproductiveMinutes int `json:"unproductive_minutes"`
	ProductivePercent   int `json:"productive_percent"`
	UnproductivePercent int `json:"unproductive_percent"`
}

type CategoryStat struct {
	Category     model.Category `json:"category"`
	TotalMinutes int            `json:"total_minutes"`
	Count        int            `json:"count"`
	Percent      int            `json:"percent"`
}

type DayGroup struct {
	Date         model.Date       `json:"date"`
	Activities   []model.Activity `json:"activities"`
	TotalMinutes int              `json:"total_minutes"`
}

type DayTotal struct {
	Date    model.Date `json:"date"`
	Minutes int        `json:"minutes"`
}

// Percent returns part/total as a whole percentage, rounding halves up.
// A zero total yields 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(part)*100/float64(total) + 0.5))
}

// ComputeTotals counts records and sums their durations.
func ComputeTotals(records []model.Activity) Totals {
	t := Totals{Count: len(records)}
	for _, r := range records {
		t.Minutes += r.DurationMinutes
	}
	return t
}

// TodayTotal sums the minutes logged on today across the full history,
// independent of any report window.
func TodayTotal(all []model.Activity, today model.Date) int {
	var minutes int
	for _, r := range all {
		if r.Date.Equal(today) {
			minutes += r.DurationMinutes
		}
	}
	return minutes
}

func ProductivitySplit(records []model.Activity) Split {
	var s Split
	for _, r := range records {
		if r.Category.Productive() {
			s.ProductiveMinutes += r.DurationMinutes
		} else {
			s.UnproductiveMinutes += r.DurationMinutes
		}
	}
	total := s.ProductiveMinutes + s.UnproductiveMinutes
	s.ProductivePercent = Percent(s.ProductiveMinutes, total)
	s.UnproductivePercent = Percent(s.UnproductiveMinutes, total)
	return s
}

// CategoryBreakdown groups minutes and counts by category, largest first.
// Categories with equal minutes keep the order they were first seen in.
func CategoryBreakdown(records []model.Activity) []CategoryStat {
	index := make(map[model.Category]int)
	var stats []CategoryStat
	var total int

	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			i = len(stats)
			index[r.Category] = i
			stats = append(stats, CategoryStat{Category: r.Category})
		}
		stats[i].TotalMinutes += r.DurationMinutes
		stats[i].Count++
		total += r.DurationMinutes
	}

	for i := range stats {
		stats[i].Percent = Percent(stats[i].TotalMinutes, total)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalMinutes > stats[j].TotalMinutes
	})
	return stats
}

// CategoryMinutes returns the minutes logged in c.
func CategoryMinutes(records []model.Activity, c model.Category) int {
	var minutes int
	for _, r := range records {
		if r.Category == c {
			minutes += r.DurationMinutes
		}
	}
	return minutes
}

// DistinctDates counts the calendar days that have at least one record.
func DistinctDates(records []model.Activity) int {
	seen := make(map[model.Date]struct{})
	for _, r := range records {
		seen[r.Date] = struct{}{}
	}
	return len(seen)
}

// DailySummary groups records by date, newest first, keeping at most
// MaxDailyGroups days. Records inside a group keep their input order.
func DailySummary(records []model.Activity) []DayGroup {
	index := make(map[model.Date]int)
	var groups []DayGroup

	for _, r := range records {
		i, ok := index[r.Date]
		if !ok {
			i = len(groups)
			index[r.Date] = i
			groups = append(groups, DayGroup{Date: r.Date})
		}
		groups[i].Activities = append(groups[i].Activities, r)
		groups[i].TotalMinutes += r.DurationMinutes
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})
	if len(groups) > MaxDailyGroups {
		groups = groups[:MaxDailyGroups]
	}
	return groups
}

// DailyTotals returns the minutes per date present in records, oldest first.
func DailyTotals(records []model.Activity) []DayTotal {
	index := make(map[model.Date]int)
	var totals []DayTotal
	for _, r := range records {
		i, ok := index[r.Date]
		if !ok {
			i = len(totals)
			index[r.Date] = i
			totals = append(totals, DayTotal{Date: r.Date})
		}
		totals[i].Minutes += r.DurationMinutes
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date.Before(totals[j].Date)
	})
	return totals
}

// Trend returns one entry per consecutive day for the days ending today,
// oldest first, with zero minutes for days without activity.
func Trend(all []model.Activity, today model.Date, days int) []DayTotal {
	if days <= 0 {
		return nil
	}
	byDate := make(map[model.Date]int)
	for _, r := range all {
		byDate[r.Date] += r.DurationMinutes
	}

	out := make([]DayTotal, days)
	for i := 0; i < days; i++ {
		d := today.AddDays(i - days + 1)
		out[i] = DayTotal{Date: d, Minutes: byDate[d]}
	}
	return out
}
