// Package format renders durations, dates and categories for display.
package format

import (
	"fmt"
	"strings"

	"github.com/dukerupert/timeanalyzer/internal/model"
)

var categoryEmojis = map[model.Category]string{
	model.CategoryStudy:    "📚",
	model.CategoryWork:     "💼",
	model.CategorySleep:    "😴",
	model.CategoryLeisure:  "🎮",
	model.CategoryExercise: "🏃",
	model.CategorySocial:   "👥",
	model.CategoryOther:    "📌",
}

// Duration renders minutes as "2h 5m".
func Duration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// Hours converts minutes to fractional hours, truncated to two decimals.
func Hours(minutes int) float64 {
	return float64(minutes*100/60) / 100
}

// RelativeDate renders d as "Today", "Yesterday" or "Jan 2, 2006".
func RelativeDate(d, today model.Date) string {
	switch {
	case d.Equal(today):
		return "Today"
	case d.Equal(today.AddDays(-1)):
		return "Yesterday"
	default:
		return d.Time().Format("Jan 2, 2006")
	}
}

// CategoryName capitalises the category: "study" becomes "Study".
func CategoryName(c model.Category) string {
	s := string(c)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func CategoryEmoji(c model.Category) string {
	if e, ok := categoryEmojis[c]; ok {
		return e
	}
	return categoryEmojis[model.CategoryOther]
}

// CategoryLabel renders a category with its emoji, e.g. "📚 Study".
func CategoryLabel(c model.Category) string {
	return CategoryEmoji(c) + " " + CategoryName(c)
}
