package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/fitpoints/internal/domain"
)

func TestCalculateWeeklyPointsFloorsSessionCount(t *testing.T) {
	cases := []struct {
		sessions int
		points   int
	}{
		{0, 0},
		{2, 0},
		{3, 1},
		{5, 1},
		{6, 2},
		{9, 3},
	}

	for _, tc := range cases {
		f := newFixture(t)
		for i := 0; i < tc.sessions; i++ {
			_, err := f.sessions.CreateSession(context.Background(), domain.CreateSessionInput{
				UserID:      f.user.ID,
				Type:        domain.WorkoutGym,
				Date:        monday().AddDate(0, 0, i%7),
				DurationMin: 45,
			})
			require.NoError(t, err)
		}

		got, err := f.points.CalculateWeeklyPoints(context.Background(), f.user.ID, monday())
		require.NoError(t, err)
		require.Equal(t, tc.points, got, "sessions=%d", tc.sessions)
	}
}

func TestCalculateWeeklyPointsIgnoresOtherWeeks(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		_, err := f.sessions.CreateSession(context.Background(), domain.CreateSessionInput{
			UserID:      f.user.ID,
			Type:        domain.WorkoutYoga,
			Date:        monday().AddDate(0, 0, 7+i), // following week
			DurationMin: 30,
		})
		require.NoError(t, err)
	}

	got, err := f.points.CalculateWeeklyPoints(context.Background(), f.user.ID, monday())
	require.NoError(t, err)
	require.Zero(t, got)
}

func TestAwardPointsForWeekGrantsOnce(t *testing.T) {
	f := newFixture(t)
	f.logSessions(t, 3, monday())

	require.Equal(t, 1, f.balance(t))

	// Re-awarding the same unchanged week grants nothing more.
	user, err := f.points.AwardPointsForWeek(context.Background(), f.user.ID, monday())
	require.NoError(t, err)
	require.Equal(t, 1, user.Points)
}

func TestAwardPointsForWeekGrantsDeltaOnSecondCrossing(t *testing.T) {
	f := newFixture(t)
	f.logSessions(t, 3, monday())
	require.Equal(t, 1, f.balance(t))

	f.logSessions(t, 3, monday().AddDate(0, 0, 2))
	// Six sessions total: floor(6/3)=2, one already granted.
	require.Equal(t, 2, f.balance(t))
}

func TestAwardPointsForWeekZeroPointsIsNotAnError(t *testing.T) {
	f := newFixture(t)

	user, err := f.points.AwardPointsForWeek(context.Background(), f.user.ID, monday())
	require.NoError(t, err)
	require.Zero(t, user.Points)
}

func TestAwardPointsForWeekUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.points.AwardPointsForWeek(context.Background(), "missing", monday())

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "user", notFound.Kind)
}

func TestAwardPointsForWeekUpdatesTimestamp(t *testing.T) {
	f := newFixture(t)
	before := time.Now().UTC()
	f.logSessions(t, 3, monday())

	user, err := f.store.Get(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.False(t, user.UpdatedAt.Before(before))
}
