package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/fitpoints/internal/domain"
)

// flakyUnlockStore fails SaveUnlock for one reward and delegates the rest.
type flakyUnlockStore struct {
	domain.UserRewardRepository
	failRewardID string
}

func (s *flakyUnlockStore) SaveUnlock(ctx context.Context, user *domain.User, userReward *domain.UserReward) error {
	if userReward.RewardID == s.failRewardID {
		return errors.New("write conflict")
	}
	return s.UserRewardRepository.SaveUnlock(ctx, user, userReward)
}

// vanishingUserStore serves the user on the first Get and nil afterwards.
type vanishingUserStore struct {
	domain.UserRepository
	calls int
}

func (s *vanishingUserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	s.calls++
	if s.calls > 1 {
		return nil, nil
	}
	return s.UserRepository.Get(ctx, id)
}

func TestLogThreeSessionsAwardsOnePoint(t *testing.T) {
	f := newFixture(t)

	report := f.logSessions(t, 3, monday())

	require.Equal(t, 1, report.PointsEarned)
	require.Equal(t, 1, f.balance(t))
}

func TestLogSessionBelowBoundaryAwardsNothing(t *testing.T) {
	f := newFixture(t)

	report := f.logSessions(t, 2, monday())

	require.Zero(t, report.PointsEarned)
	require.Zero(t, f.balance(t))
}

func TestLogSessionSecondBoundaryAwardsDelta(t *testing.T) {
	f := newFixture(t)

	f.logSessions(t, 3, monday())
	report := f.logSessions(t, 3, monday().AddDate(0, 0, 3))

	require.Equal(t, 1, report.PointsEarned)
	require.Equal(t, 2, f.balance(t))
}

func TestLogSessionAdvancesGoalsAndPaysOutReward(t *testing.T) {
	f := newFixture(t)
	// Goal payout reward priced above the balance so the sweep won't also buy it.
	reward := f.seedReward(t, "weekend", 10)
	goal := createGoal(t, f, 1, reward.ID)

	existing := &domain.UserReward{ID: "ur-goal", UserID: f.user.ID, RewardID: reward.ID}
	require.NoError(t, f.store.UserRewards().Save(context.Background(), existing))

	report := f.logSessions(t, 3, monday())

	require.Equal(t, 1, report.PointsEarned)
	require.Len(t, report.UpdatedGoals, 1)
	require.True(t, report.UpdatedGoals[0].Completed)

	stored, err := f.store.Goals().Get(context.Background(), goal.ID)
	require.NoError(t, err)
	require.True(t, stored.Completed)
	require.Equal(t, 1, stored.PointsAccumulated)

	row, err := f.store.UserRewards().GetByUserAndReward(context.Background(), f.user.ID, reward.ID)
	require.NoError(t, err)
	require.True(t, row.Unlocked)
	// Payout is not a purchase: the awarded point stays.
	require.Equal(t, 1, f.balance(t))
}

func TestLogSessionSweepUnlocksAffordableRewards(t *testing.T) {
	f := newFixture(t)
	affordable := f.seedReward(t, "playlist", 1)
	f.seedReward(t, "vacation", 15)

	report := f.logSessions(t, 3, monday())

	require.Equal(t, 1, report.PointsEarned)
	require.Len(t, report.UnlockedRewards, 1)
	require.Equal(t, affordable.ID, report.UnlockedRewards[0].RewardID)
	require.Empty(t, report.SweepFailures)
	require.Zero(t, f.balance(t))
}

func TestSweepSpendsDownBalanceInOrder(t *testing.T) {
	f := newFixture(t)
	tierOne, err := f.rewards.CreateReward(context.Background(), domain.CreateRewardInput{Name: "playlist", Tier: 1, PointsCost: 1})
	require.NoError(t, err)
	tierTwo, err := f.rewards.CreateReward(context.Background(), domain.CreateRewardInput{Name: "massage", Tier: 2, PointsCost: 2})
	require.NoError(t, err)
	grantPoints(t, f, 2)

	unlocked, failures, err := f.tracker.SweepUnlockableRewards(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Empty(t, failures)

	// The catalog is walked tier by tier. After the tier-one unlock spends
	// 1 point the remaining balance is below the tier-two cost, so the sweep
	// skips it.
	require.Len(t, unlocked, 1)
	require.Equal(t, tierOne.ID, unlocked[0].RewardID)
	require.Equal(t, 1, f.balance(t))

	row, err := f.store.UserRewards().GetByUserAndReward(context.Background(), f.user.ID, tierTwo.ID)
	require.NoError(t, err)
	require.Nil(t, row)
}

func TestSweepIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedReward(t, "playlist", 1)
	grantPoints(t, f, 1)

	first, _, err := f.tracker.SweepUnlockableRewards(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, failures, err := f.tracker.SweepUnlockableRewards(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Empty(t, failures)
	require.Empty(t, second)
	require.Zero(t, f.balance(t))
}

func TestSweepIsolatesPerRewardFailures(t *testing.T) {
	f := newFixture(t)
	broken, err := f.rewards.CreateReward(context.Background(), domain.CreateRewardInput{Name: "massage", Tier: 1, PointsCost: 1})
	require.NoError(t, err)
	healthy, err := f.rewards.CreateReward(context.Background(), domain.CreateRewardInput{Name: "playlist", Tier: 2, PointsCost: 1})
	require.NoError(t, err)
	grantPoints(t, f, 1)

	userRewards := &flakyUnlockStore{UserRewardRepository: f.store.UserRewards(), failRewardID: broken.ID}
	rewards := domain.NewRewardService(f.store.Rewards(), userRewards, f.store, domain.UUIDGenerator{})
	tracker := domain.NewTracker(f.store, f.sessions, f.points, f.goals, rewards, f.store.Goals())

	unlocked, failures, err := tracker.SweepUnlockableRewards(context.Background(), f.user.ID)
	require.NoError(t, err)

	// The failed unlock is reported and nothing from it persists; the sweep
	// continues to the next affordable reward.
	require.Len(t, failures, 1)
	require.Equal(t, broken.ID, failures[0].RewardID)
	require.Error(t, failures[0].Err)

	require.Len(t, unlocked, 1)
	require.Equal(t, healthy.ID, unlocked[0].RewardID)
	require.Zero(t, f.balance(t))

	row, err := f.store.UserRewards().GetByUserAndReward(context.Background(), f.user.ID, broken.ID)
	require.NoError(t, err)
	require.Nil(t, row)
}

func TestSweepStopsWhenUserDisappears(t *testing.T) {
	f := newFixture(t)
	f.seedReward(t, "playlist", 1)
	f.seedReward(t, "soundtrack", 1)
	grantPoints(t, f, 2)

	users := &vanishingUserStore{UserRepository: f.store}
	tracker := domain.NewTracker(users, f.sessions, f.points, f.goals, f.rewards, f.store.Goals())

	unlocked, failures, err := tracker.SweepUnlockableRewards(context.Background(), f.user.ID)

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Empty(t, failures)
	require.Len(t, unlocked, 1)
}

func TestTrackWeeklyPointsThreeRunningSessions(t *testing.T) {
	// Three 60-minute running sessions in a Monday-start week: one point.
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		_, err := f.sessions.CreateSession(context.Background(), domain.CreateSessionInput{
			UserID:      f.user.ID,
			Type:        domain.WorkoutRunning,
			Date:        monday().AddDate(0, 0, i),
			DurationMin: 60,
		})
		require.NoError(t, err)
	}

	earned, err := f.tracker.TrackWeeklyPoints(context.Background(), f.user.ID, monday())
	require.NoError(t, err)
	require.Equal(t, 1, earned)
	require.Equal(t, 1, f.balance(t))

	// Second call for the unchanged week earns nothing.
	earned, err = f.tracker.TrackWeeklyPoints(context.Background(), f.user.ID, monday())
	require.NoError(t, err)
	require.Zero(t, earned)
}

func TestUpdateGoalsProgressRejectsNonPositive(t *testing.T) {
	f := newFixture(t)
	createGoal(t, f, 5, "")

	updated, err := f.tracker.UpdateGoalsProgress(context.Background(), f.user.ID, 0)
	require.NoError(t, err)
	require.Empty(t, updated)

	updated, err = f.tracker.UpdateGoalsProgress(context.Background(), f.user.ID, -3)
	require.NoError(t, err)
	require.Empty(t, updated)
}

func TestUpdateGoalsProgressSkipsCompletedGoals(t *testing.T) {
	f := newFixture(t)
	done := createGoal(t, f, 1, "")
	open := createGoal(t, f, 10, "")

	f.goals.UpdateGoalProgress(done, 1)
	require.NoError(t, f.store.Goals().Save(context.Background(), done))

	updated, err := f.tracker.UpdateGoalsProgress(context.Background(), f.user.ID, 2)
	require.NoError(t, err)
	require.Len(t, updated, 1)
	require.Equal(t, open.ID, updated[0].ID)
	require.Equal(t, 2, updated[0].PointsAccumulated)

	stored, err := f.store.Goals().Get(context.Background(), done.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.PointsAccumulated)
}

func TestLogSessionValidation(t *testing.T) {
	f := newFixture(t)

	var validation *domain.ValidationError
	_, err := f.tracker.LogSession(context.Background(), domain.CreateSessionInput{
		UserID:      f.user.ID,
		Type:        domain.WorkoutRunning,
		Date:        monday(),
		DurationMin: -10,
	})
	require.ErrorAs(t, err, &validation)

	_, err = f.tracker.LogSession(context.Background(), domain.CreateSessionInput{
		UserID:      f.user.ID,
		Type:        domain.WorkoutType("parkour"),
		Date:        monday(),
		DurationMin: 30,
	})
	require.ErrorAs(t, err, &validation)
}

func TestLogSessionUnknownProgram(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.LogSession(context.Background(), domain.CreateSessionInput{
		UserID:      f.user.ID,
		Type:        domain.WorkoutGym,
		Date:        monday(),
		DurationMin: 30,
		ProgramID:   "missing",
	})

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "program", notFound.Kind)
}
