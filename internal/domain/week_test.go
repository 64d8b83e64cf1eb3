package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/fitpoints/internal/domain"
)

func TestStartOfWeekIsMonday(t *testing.T) {
	// Wednesday 2025-10-29
	wed := time.Date(2025, time.October, 29, 15, 30, 0, 0, time.UTC)
	start := domain.StartOfWeek(wed)

	require.Equal(t, time.Monday, start.Weekday())
	require.Equal(t, time.Date(2025, time.October, 27, 0, 0, 0, 0, time.UTC), start)
}

func TestStartOfWeekSundayBelongsToPreviousMonday(t *testing.T) {
	sun := time.Date(2025, time.November, 2, 23, 59, 0, 0, time.UTC)
	start := domain.StartOfWeek(sun)

	require.Equal(t, time.Date(2025, time.October, 27, 0, 0, 0, 0, time.UTC), start)
}

func TestStartOfWeekOnMondayMidnightIsIdentity(t *testing.T) {
	mon := time.Date(2025, time.October, 27, 0, 0, 0, 0, time.UTC)
	require.Equal(t, mon, domain.StartOfWeek(mon))
}

func TestInWeekBounds(t *testing.T) {
	weekStart := time.Date(2025, time.October, 27, 0, 0, 0, 0, time.UTC)

	require.True(t, domain.InWeek(weekStart, weekStart))
	require.True(t, domain.InWeek(time.Date(2025, time.November, 2, 23, 59, 59, 0, time.UTC), weekStart))
	require.False(t, domain.InWeek(time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC), weekStart))
	require.False(t, domain.InWeek(weekStart.Add(-time.Second), weekStart))
}
