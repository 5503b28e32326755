package model

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinNameLength  = 2
	MinDuration    = 1
	MaxDuration    = 24 * 60
	minutesPerHour = 60
)

type Activity struct {
	ID              int64     `json:"id"`
	Name            string    `json:"activityName"`
	Category        Category  `json:"category"`
	DurationMinutes int       `json:"durationMinutes"`
	Date            Date      `json:"date"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// UnmarshalJSON also accepts logs written before durations were stored as a
// single minute count, where hours and minutes were separate fields.
func (a *Activity) UnmarshalJSON(data []byte) error {
	type plain Activity
	aux := struct {
		*plain
		Hours   *int `json:"hours"`
		Minutes *int `json:"minutes"`
	}{plain: (*plain)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if a.DurationMinutes == 0 && (aux.Hours != nil || aux.Minutes != nil) {
		var h, m int
		if aux.Hours != nil {
			h = *aux.Hours
		}
		if aux.Minutes != nil {
			m = *aux.Minutes
		}
		a.DurationMinutes = h*minutesPerHour + m
	}
	return nil
}

// ValidationError is a user-facing rejection of activity input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// Input is the raw activity form as submitted by a client.
type Input struct {
	Name     string `json:"activityName"`
	Category string `json:"category"`
	Hours    int    `json:"hours"`
	Minutes  int    `json:"minutes"`
	Date     string `json:"date"`
	Notes    string `json:"notes"`
}

// NewActivity validates in against today and builds an Activity. ID and
// CreatedAt are left for the store to assign.
func NewActivity(in Input, today Date) (Activity, error) {
	name := strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(name) < MinNameLength {
		return Activity{}, invalid("activityName", "Please enter a valid activity name (at least 2 characters)")
	}

	if strings.TrimSpace(in.Category) == "" {
		return Activity{}, invalid("category", "Please select a category")
	}
	category := Category(strings.ToLower(strings.TrimSpace(in.Category)))
	if !category.Valid() {
		return Activity{}, invalid("category", "Please select a valid category")
	}

	if in.Hours < 0 || in.Minutes < 0 {
		return Activity{}, invalid("duration", "Please enter a valid time (at least 1 minute)")
	}
	total := in.Hours*minutesPerHour + in.Minutes
	if total < MinDuration {
		return Activity{}, invalid("duration", "Please enter a valid time (at least 1 minute)")
	}
	if total > MaxDuration {
		return Activity{}, invalid("duration", "Time cannot exceed 24 hours")
	}

	if strings.TrimSpace(in.Date) == "" {
		return Activity{}, invalid("date", "Please select a date")
	}
	date, err := ParseDate(strings.TrimSpace(in.Date))
	if err != nil {
		return Activity{}, invalid("date", "Please select a valid date")
	}
	if date.After(today) {
		return Activity{}, invalid("date", "Cannot add activities for future dates")
	}

	return Activity{
		Name:            name,
		Category:        category,
		DurationMinutes: total,
		Date:            date,
		Notes:           strings.TrimSpace(in.Notes),
	}, nil
}

// Validate checks the record invariants against today.
func (a Activity) Validate(today Date) error {
	if utf8.RuneCountInString(strings.TrimSpace(a.Name)) < MinNameLength {
		return invalid("activityName", "Please enter a valid activity name (at least 2 characters)")
	}
	if !a.Category.Valid() {
		return invalid("category", "Please select a valid category")
	}
	if a.DurationMinutes < MinDuration {
		return invalid("duration", "Please enter a valid time (at least 1 minute)")
	}
	if a.DurationMinutes > MaxDuration {
		return invalid("duration", "Time cannot exceed 24 hours")
	}
	if a.Date.IsZero() {
		return invalid("date", "Please select a date")
	}
	if a.Date.After(today) {
		return invalid("date", "Cannot add activities for future dates")
	}
	return nil
}

// Patch holds the fields of an update; nil fields keep their current value.
type Patch struct {
	Name            *string   `json:"activityName,omitempty"`
	Category        *Category `json:"category,omitempty"`
	DurationMinutes *int      `json:"durationMinutes,omitempty"`
	Date            *Date     `json:"date,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
}

// Apply returns a copy of a with the patch merged in.
func (p Patch) Apply(a Activity) Activity {
	if p.Name != nil {
		a.Name = strings.TrimSpace(*p.Name)
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.DurationMinutes != nil {
		a.DurationMinutes = *p.DurationMinutes
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Notes != nil {
		a.Notes = strings.TrimSpace(*p.Notes)
	}
	return a
}
