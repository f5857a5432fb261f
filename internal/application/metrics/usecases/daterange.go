package usecases

import (
	"fmt"
	"time"

	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/shared/biztime"
	"github.com/orris-inc/tally/internal/shared/errors"
)

const (
	PeriodWeek    = "7d"
	PeriodMonth   = "30d"
	PeriodQuarter = "90d"
	PeriodYear    = "1y"
	PeriodAll     = "all"

	DefaultPeriod = PeriodMonth

	// MaxRangeDays bounds explicit ranges wherever PeriodAll is refused, since
	// the dashboard computes one chart point per day.
	MaxRangeDays = 366
)

var periodDays = map[string]int{
	PeriodWeek:    7,
	PeriodMonth:   30,
	PeriodQuarter: 90,
	PeriodYear:    365,
}

// RangeQuery selects the window metrics are computed over. An explicit
// StartDate and EndDate pair wins over Period.
type RangeQuery struct {
	StartDate string
	EndDate   string
	Period    string
}

// resolveRange returns nil for PeriodAll when allowAll is set. A plain
// YYYY-MM-DD end date covers that whole day. Without allowAll an explicit
// range may span at most MaxRangeDays.
func resolveRange(q RangeQuery, now time.Time, allowAll bool) (*vo.DateRange, error) {
	if q.StartDate != "" && q.EndDate != "" {
		start, err := biztime.ParseQueryTime(q.StartDate)
		if err != nil {
			return nil, errors.NewValidationError("invalid startDate", err.Error())
		}
		end, err := biztime.ParseQueryTime(q.EndDate)
		if err != nil {
			return nil, errors.NewValidationError("invalid endDate", err.Error())
		}
		if len(q.EndDate) == len(biztime.DateLayout) {
			end = biztime.EndOfDayUTC(end)
		}
		r, err := vo.NewDateRange(start, end)
		if err != nil {
			return nil, errors.NewValidationError("invalid date range", err.Error())
		}
		if !allowAll && r.End.Sub(r.Start) > MaxRangeDays*24*time.Hour {
			return nil, errors.NewValidationError("date range too long", fmt.Sprintf("at most %d days", MaxRangeDays))
		}
		return &r, nil
	}

	period := q.Period
	if period == "" {
		period = DefaultPeriod
	}
	if period == PeriodAll {
		if !allowAll {
			return nil, errors.NewValidationError("period all is not supported here")
		}
		return nil, nil
	}
	days, ok := periodDays[period]
	if !ok {
		return nil, errors.NewValidationError("invalid period", "expected one of 7d, 30d, 90d, 1y")
	}

	now = now.UTC()
	return &vo.DateRange{Start: now.AddDate(0, 0, -days), End: now}, nil
}
