// Package billingperiod resolves a calendar-month period label into the
// half-open UTC window it covers.
package billingperiod

import (
	"errors"
	"time"
)

const layout = "2006-01"

var ErrInvalidPeriod = errors.New("invalid_period")

// Resolve parses a period label such as "2024-07" and returns the window
// [start, end): the first instant of the month up to, but excluding, the
// first instant of the next month. December rolls over into January of
// the following year.
func Resolve(period string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(layout, period, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}

	end := start.AddDate(0, 1, 0)
	return start, end, nil
}
