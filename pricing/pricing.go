// Package pricing computes rental charges from a date span and a daily rate.
package pricing

import (
	"errors"
	"time"
)

// ErrInvalidSpan is returned when the end date does not fall after the start
// date. A same-day span is rejected rather than charged as one day.
var ErrInvalidSpan = errors.New("end date must be after start date")

const day = 24 * time.Hour

// Days returns the number of chargeable days in [start, end). Any partial
// day counts as a full day.
func Days(start, end time.Time) (int, error) {
	span := end.Sub(start)
	if span <= 0 {
		return 0, ErrInvalidSpan
	}
	days := int(span / day)
	if span%day != 0 {
		days++
	}
	return days, nil
}

// TotalPrice is ceil(days) * pricePerDay. It must always be computed from the
// persisted daily rate, never from client input.
func TotalPrice(start, end time.Time, pricePerDay float64) (float64, error) {
	days, err := Days(start, end)
	if err != nil {
		return 0, err
	}
	return float64(days) * pricePerDay, nil
}
