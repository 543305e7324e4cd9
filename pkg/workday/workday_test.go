package workday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestCountWorkingDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{name: "monday to friday", start: "2024-03-04", end: "2024-03-08", want: 5},
		{name: "saturday to sunday", start: "2024-03-09", end: "2024-03-10", want: 0},
		{name: "single saturday", start: "2024-03-09", end: "2024-03-09", want: 0},
		{name: "single weekday", start: "2024-03-06", end: "2024-03-06", want: 1},
		{name: "full calendar week", start: "2024-03-04", end: "2024-03-10", want: 5},
		{name: "friday to monday", start: "2024-03-08", end: "2024-03-11", want: 2},
		{name: "two weeks", start: "2024-03-04", end: "2024-03-15", want: 10},
		{name: "across month end", start: "2024-02-28", end: "2024-03-01", want: 3},
		{name: "start after end", start: "2024-03-08", end: "2024-03-04", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWorkingDays(date(t, tt.start), date(t, tt.end)))
		})
	}
}

func TestCountWorkingDays_AbsentDates(t *testing.T) {
	monday := date(t, "2024-03-04")

	assert.Zero(t, CountWorkingDays(time.Time{}, monday))
	assert.Zero(t, CountWorkingDays(monday, time.Time{}))
	assert.Zero(t, CountWorkingDays(time.Time{}, time.Time{}))
}

func TestCountWorkingDays_IgnoresClockAndZone(t *testing.T) {
	zone := time.FixedZone("UTC+9", 9*60*60)
	start := time.Date(2024, time.March, 4, 23, 30, 0, 0, zone)
	end := time.Date(2024, time.March, 8, 0, 15, 0, 0, time.UTC)

	assert.Equal(t, 5, CountWorkingDays(start, end))
}

func TestCountWorkingDays_DaylightSavingTransition(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	start := time.Date(2024, time.March, 29, 0, 0, 0, 0, loc)
	end := time.Date(2024, time.April, 2, 0, 0, 0, 0, loc)

	assert.Equal(t, 3, CountWorkingDays(start, end))
}

func TestCountBetween(t *testing.T) {
	days, err := CountBetween("2024-03-04", "2024-03-08")
	require.NoError(t, err)
	assert.Equal(t, 5, days)

	days, err = CountBetween("", "2024-03-08")
	require.NoError(t, err)
	assert.Zero(t, days)

	days, err = CountBetween("2024-03-04", "  ")
	require.NoError(t, err)
	assert.Zero(t, days)

	_, err = CountBetween("04/03/2024", "2024-03-08")
	assert.Error(t, err)
}
