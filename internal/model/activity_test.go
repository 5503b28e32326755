package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = NewDate(2024, 6, 15)

func validInput() Input {
	return Input{Name: "Reading", Category: "study", Hours: 1, Minutes: 30, Date: "2024-06-15"}
}

func TestNewActivity(t *testing.T) {
	in := validInput()
	in.Name = "  Deep work  "
	in.Category = "Work"
	in.Notes = " focus "

	a, err := NewActivity(in, today)
	require.NoError(t, err)
	assert.Equal(t, "Deep work", a.Name)
	assert.Equal(t, CategoryWork, a.Category)
	assert.Equal(t, 90, a.DurationMinutes)
	assert.Equal(t, today, a.Date)
	assert.Equal(t, "focus", a.Notes)
	assert.Zero(t, a.ID)
}

func TestNewActivityRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Input)
		field   string
		message string
	}{
		{"blank name", func(in *Input) { in.Name = "   " }, "activityName", "Please enter a valid activity name (at least 2 characters)"},
		{"one char name", func(in *Input) { in.Name = " x " }, "activityName", "Please enter a valid activity name (at least 2 characters)"},
		{"no category", func(in *Input) { in.Category = "" }, "category", "Please select a category"},
		{"bad category", func(in *Input) { in.Category = "gaming" }, "category", "Please select a valid category"},
		{"zero time", func(in *Input) { in.Hours, in.Minutes = 0, 0 }, "duration", "Please enter a valid time (at least 1 minute)"},
		{"negative minutes", func(in *Input) { in.Hours, in.Minutes = 1, -5 }, "duration", "Please enter a valid time (at least 1 minute)"},
		{"over a day", func(in *Input) { in.Hours, in.Minutes = 24, 1 }, "duration", "Time cannot exceed 24 hours"},
		{"no date", func(in *Input) { in.Date = "" }, "date", "Please select a date"},
		{"bad date", func(in *Input) { in.Date = "yesterday" }, "date", "Please select a valid date"},
		{"future date", func(in *Input) { in.Date = "2024-06-16" }, "date", "Cannot add activities for future dates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := NewActivity(in, today)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "err = %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestNewActivityBoundaries(t *testing.T) {
	in := validInput()
	in.Hours, in.Minutes = 0, 1
	a, err := NewActivity(in, today)
	require.NoError(t, err)
	assert.Equal(t, MinDuration, a.DurationMinutes)

	in.Hours, in.Minutes = 24, 0
	a, err = NewActivity(in, today)
	require.NoError(t, err)
	assert.Equal(t, MaxDuration, a.DurationMinutes)

	in.Name = strings.Repeat("é", 2)
	_, err = NewActivity(in, today)
	assert.NoError(t, err, "two runes is long enough")
}

func TestActivityJSONFieldNames(t *testing.T) {
	a := Activity{
		ID:              1718400000000,
		Name:            "Reading",
		Category:        CategoryStudy,
		DurationMinutes: 45,
		Date:            today,
		CreatedAt:       time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 1718400000000,
		"activityName": "Reading",
		"category": "study",
		"durationMinutes": 45,
		"date": "2024-06-15",
		"createdAt": "2024-06-15T09:00:00Z"
	}`, string(data))
}

func TestActivityLegacyDuration(t *testing.T) {
	var a Activity
	err := json.Unmarshal([]byte(`{"id":7,"activityName":"Nap","category":"sleep","hours":1,"minutes":15,"date":"2024-06-10"}`), &a)
	require.NoError(t, err)
	assert.Equal(t, 75, a.DurationMinutes)
	assert.Equal(t, int64(7), a.ID)
	assert.Equal(t, NewDate(2024, 6, 10), a.Date)

	err = json.Unmarshal([]byte(`{"id":8,"activityName":"Nap","category":"sleep","durationMinutes":20,"hours":3,"date":"2024-06-10"}`), &a)
	require.NoError(t, err)
	assert.Equal(t, 20, a.DurationMinutes, "durationMinutes wins over legacy fields")
}

func TestPatchApply(t *testing.T) {
	orig := Activity{ID: 3, Name: "Reading", Category: CategoryStudy, DurationMinutes: 60, Date: today}

	name := "  Reviewing "
	minutes := 30
	got := Patch{Name: &name, DurationMinutes: &minutes}.Apply(orig)

	assert.Equal(t, "Reviewing", got.Name)
	assert.Equal(t, 30, got.DurationMinutes)
	assert.Equal(t, CategoryStudy, got.Category)
	assert.Equal(t, "Reading", orig.Name, "original is not modified")
}

func TestValidate(t *testing.T) {
	a := Activity{Name: "Run", Category: CategoryExercise, DurationMinutes: 30, Date: today}
	assert.NoError(t, a.Validate(today))

	a.Date = today.AddDays(1)
	assert.Error(t, a.Validate(today))

	a.Date = Date{}
	assert.Error(t, a.Validate(today))
}

func TestCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("all").Valid())
	assert.False(t, Category("").Valid())

	assert.True(t, CategoryStudy.Productive())
	assert.True(t, CategoryWork.Productive())
	assert.True(t, CategoryExercise.Productive())
	assert.False(t, CategorySleep.Productive())
	assert.False(t, CategoryLeisure.Productive())
	assert.False(t, CategorySocial.Productive())
	assert.False(t, CategoryOther.Productive())
}
