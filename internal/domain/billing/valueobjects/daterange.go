package valueobjects

import (
	"errors"
	"time"
)

var ErrInvalidDateRange = errors.New("end date must not be before start date")

// DateRange is an inclusive [Start, End] window in UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	if end.Before(start) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{Start: start.UTC(), End: end.UTC()}, nil
}

// Contains reports whether t falls inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Overlaps reports whether a period starting at start and ending at end (nil
// means still open) intersects the range.
func (r DateRange) Overlaps(start time.Time, end *time.Time) bool {
	if start.After(r.End) {
		return false
	}
	return end == nil || !end.Before(r.Start)
}

func (r DateRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Previous returns the window of equal length that ends where r starts.
func (r DateRange) Previous() DateRange {
	return DateRange{Start: r.Start.Add(-r.Duration()), End: r.Start}
}

// Key renders the range for cache keys; a nil range is "all".
func (r *DateRange) Key() string {
	if r == nil {
		return "all"
	}
	return r.Start.UTC().Format(time.RFC3339) + "_" + r.End.UTC().Format(time.RFC3339)
}
