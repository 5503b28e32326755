// Package clock supplies "now" and "today" so date-dependent reports can be
// computed deterministically in tests.
package clock

import (
	"time"

	"github.com/dukerupert/timeanalyzer/internal/model"
)

type Clock interface {
	Now() time.Time
	Today() model.Date
}

// System reads the wall clock in the given location (time.Local when nil).
type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	if s.Location != nil {
		return time.Now().In(s.Location)
	}
	return time.Now()
}

func (s System) Today() model.Date {
	return model.DateOf(s.Now())
}

// Fixed always reports the same instant.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time    { return f.At }
func (f Fixed) Today() model.Date { return model.DateOf(f.At) }
