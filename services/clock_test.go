package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClockTodayUsesReferenceZone(t *testing.T) {
	clock := newTestClock()

	// 23:30 UTC is already 08:30 the next day in KST.
	now := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	today := clock.Today(now)

	require.Equal(t, 2026, today.Year())
	require.Equal(t, time.March, today.Month())
	require.Equal(t, 2, today.Day())
	require.Equal(t, 0, today.Hour())
	require.Equal(t, kst.String(), today.Location().String())
}

func TestClockDayBounds(t *testing.T) {
	clock := newTestClock()

	now := time.Date(2026, 3, 2, 15, 45, 12, 0, kst)
	start, end := clock.DayBounds(now)

	require.Equal(t, clock.Today(now), start)
	require.Equal(t, 24*time.Hour, end.Sub(start))
	require.True(t, start.Before(now))
	require.True(t, end.After(now))
}

func TestClockSameDayAcrossMidnight(t *testing.T) {
	clock := newTestClock()

	lateNight := time.Date(2026, 3, 2, 23, 59, 59, 0, kst)
	justAfter := lateNight.Add(2 * time.Second)

	require.False(t, clock.SameDay(lateNight, justAfter))
	require.True(t, clock.SameDay(lateNight, lateNight.Add(-23*time.Hour)))
}
