package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayBoundaries(t *testing.T) {
	ts := time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), StartOfDayUTC(ts))
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999999999, time.UTC), EndOfDayUTC(ts))
	assert.Equal(t, "2024-03-15", FormatDate(ts))
}

func TestParseQueryTime(t *testing.T) {
	got, err := ParseQueryTime("2024-01-31T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC), got)

	got, err = ParseQueryTime("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseQueryTime("31/01/2024")
	assert.Error(t, err)
}
