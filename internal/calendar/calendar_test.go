package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDay_NormalizesTimeOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	morning := time.Date(2024, 3, 6, 0, 5, 0, 0, loc)
	night := time.Date(2024, 3, 6, 23, 59, 59, 0, loc)

	require.Equal(t, Day(morning, loc), Day(night, loc))
	require.Equal(t, "2024-03-06", FormatDay(Day(night, loc)))
}

func TestDay_UsesGivenLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:00 UTC on the 7th is still the 6th in New York.
	instant := time.Date(2024, 3, 7, 2, 0, 0, 0, time.UTC)
	require.Equal(t, "2024-03-06", FormatDay(Day(instant, loc)))
	require.Equal(t, "2024-03-07", FormatDay(Day(instant, time.UTC)))
}

func TestNextDay_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	day := Day(time.Date(2024, 3, 30, 12, 0, 0, 0, loc), loc)
	require.Equal(t, "2024-03-31", FormatDay(NextDay(day)))
	require.Equal(t, "2024-04-01", FormatDay(NextDay(NextDay(day))))
}

func TestParseDate(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	instant, err := ParseDate("2024-01-05", ny)
	require.NoError(t, err)
	require.Equal(t, "2024-01-05", FormatDay(Day(instant, ny)))
	require.Equal(t, "2024-01-05", FormatDay(Day(instant, time.UTC)))

	instant, err = ParseDate("2024-01-05T23:30:00-05:00", time.UTC)
	require.NoError(t, err)
	require.Equal(t, "2024-01-06", FormatDay(Day(instant, time.UTC)))
	require.Equal(t, "2024-01-05", FormatDay(Day(instant, ny)))

	_, err = ParseDate("yesterday", time.UTC)
	require.Error(t, err)
}

func TestToday(t *testing.T) {
	clock := FixedClock(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
	require.Equal(t, "2024-01-15", FormatDay(Today(clock, time.UTC)))
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	require.Equal(t, time.Local, loc)

	_, err = LoadLocation("Not/AZone")
	require.Error(t, err)
}
