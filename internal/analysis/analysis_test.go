package analysis

import (
	"testing"

	"github.com/dukerupert/timeanalyzer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = model.NewDate(2024, 6, 15)

func rec(c model.Category, minutes int, d model.Date) model.Activity {
	return model.Activity{Name: string(c), Category: c, DurationMinutes: minutes, Date: d}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(10, 0))
	assert.Equal(t, 0, Percent(0, 100))
	assert.Equal(t, 100, Percent(100, 100))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 3, Percent(5, 200), "2.5 rounds half up")
}

func TestEmptyInputIsZeroed(t *testing.T) {
	assert.Equal(t, Totals{}, ComputeTotals(nil))
	assert.Equal(t, Split{}, ProductivitySplit(nil))
	assert.Empty(t, CategoryBreakdown(nil))
	assert.Empty(t, DailySummary(nil))
	assert.Empty(t, DailyTotals(nil))
	assert.Equal(t, 0, TodayTotal(nil, today))
	assert.Equal(t, 0, DistinctDates(nil))
}

func TestTotalsAndToday(t *testing.T) {
	records := []model.Activity{
		rec(model.CategoryStudy, 90, today),
		rec(model.CategorySleep, 420, today.AddDays(-1)),
		rec(model.CategoryWork, 30, today),
	}
	assert.Equal(t, Totals{Count: 3, Minutes: 540}, ComputeTotals(records))
	assert.Equal(t, 120, TodayTotal(records, today))
	assert.Equal(t, 2, DistinctDates(records))
	assert.Equal(t, 420, CategoryMinutes(records, model.CategorySleep))
}

func TestProductivitySplit(t *testing.T) {
	records := []model.Activity{
		rec(model.CategoryStudy, 60, today),
		rec(model.CategoryExercise, 30, today),
		rec(model.CategoryLeisure, 90, today),
		rec(model.CategorySocial, 20, today),
	}
	s := ProductivitySplit(records)
	assert.Equal(t, 90, s.ProductiveMinutes)
	assert.Equal(t, 110, s.UnproductiveMinutes)
	assert.Equal(t, 45, s.ProductivePercent)
	assert.Equal(t, 55, s.UnproductivePercent)
	assert.Equal(t, ComputeTotals(records).Minutes, s.ProductiveMinutes+s.UnproductiveMinutes)
}

func TestCategoryBreakdown(t *testing.T) {
	records := []model.Activity{
		rec(model.CategoryWork, 60, today),
		rec(model.CategoryStudy, 120, today),
		rec(model.CategoryLeisure, 60, today),
		rec(model.CategoryWork, 30, today),
		rec(model.CategorySocial, 30, today),
	}
	got := CategoryBreakdown(records)
	require.Len(t, got, 4)

	assert.Equal(t, CategoryStat{Category: model.CategoryStudy, TotalMinutes: 120, Count: 1, Percent: 40}, got[0])
	assert.Equal(t, CategoryStat{Category: model.CategoryWork, TotalMinutes: 90, Count: 2, Percent: 30}, got[1])
	// Leisure was seen before social, so it wins the tie.
	assert.Equal(t, model.CategoryLeisure, got[2].Category)
	assert.Equal(t, model.CategorySocial, got[3].Category)

	var minutes int
	for _, s := range got {
		minutes += s.TotalMinutes
	}
	assert.Equal(t, 300, minutes)
}

func TestDailySummaryCapsAtSevenDays(t *testing.T) {
	// 15 records over 10 distinct dates.
	var records []model.Activity
	for i := 0; i < 10; i++ {
		records = append(records, rec(model.CategoryWork, 60, today.AddDays(-i)))
	}
	for i := 0; i < 5; i++ {
		records = append(records, rec(model.CategoryStudy, 30, today.AddDays(-2*i)))
	}

	groups := DailySummary(records)
	require.Len(t, groups, MaxDailyGroups)
	for i, g := range groups {
		assert.Equal(t, today.AddDays(-i), g.Date)
		if i > 0 {
			assert.True(t, groups[i-1].Date.After(g.Date), "groups must be newest first")
		}
	}
	assert.Equal(t, 90, groups[0].TotalMinutes)
	assert.Len(t, groups[0].Activities, 2)
	assert.Equal(t, 60, groups[1].TotalMinutes)
}

func TestDailyTotalsOldestFirst(t *testing.T) {
	records := []model.Activity{
		rec(model.CategoryWork, 60, today),
		rec(model.CategoryWork, 30, today.AddDays(-2)),
		rec(model.CategoryStudy, 15, today),
	}
	assert.Equal(t, []DayTotal{
		{Date: today.AddDays(-2), Minutes: 30},
		{Date: today, Minutes: 75},
	}, DailyTotals(records))
}

func TestTrendZeroFilled(t *testing.T) {
	records := []model.Activity{
		rec(model.CategoryWork, 60, today),
		rec(model.CategoryWork, 45, today.AddDays(-3)),
		rec(model.CategoryWork, 999, today.AddDays(-20)),
	}
	trend := Trend(records, today, 14)
	require.Len(t, trend, 14)
	assert.Equal(t, today.AddDays(-13), trend[0].Date)
	assert.Equal(t, today, trend[13].Date)
	assert.Equal(t, 60, trend[13].Minutes)
	assert.Equal(t, 45, trend[10].Minutes)

	var sum int
	for _, d := range trend {
		sum += d.Minutes
	}
	assert.Equal(t, 105, sum, "records outside the range are ignored")

	assert.Nil(t, Trend(records, today, 0))
}
