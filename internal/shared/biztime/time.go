// Package biztime holds the reporting timezone. Records are stored and
// compared in UTC; the reporting zone only decides where dashboard days begin
// and end.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is used when metrics.timezone is not configured.
const DefaultTimezone = "UTC"

// DateLayout is the day format used in chart labels and query parameters.
const DateLayout = "2006-01-02"

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init loads the reporting timezone once per process.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize reporting timezone %q: %v", tz, err))
	}
}

// Location returns the reporting timezone, initializing the default lazily.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to load default timezone: %v", err))
		}
	}
	return bizLocation
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns 00:00 of t's reporting day, in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	local := t.In(Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Location()).UTC()
}

// EndOfDayUTC returns the last nanosecond of t's reporting day, in UTC.
func EndOfDayUTC(t time.Time) time.Time {
	local := t.In(Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, Location()).UTC()
}

// FormatDate renders t as a reporting-day label.
func FormatDate(t time.Time) string {
	return t.In(Location()).Format(DateLayout)
}

// ParseQueryTime accepts RFC 3339 timestamps or plain YYYY-MM-DD dates. A
// plain date is read as midnight in the reporting timezone.
func ParseQueryTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(DateLayout, s, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: expected RFC 3339 or %s", s, DateLayout)
	}
	return t.UTC(), nil
}
