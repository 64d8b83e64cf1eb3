package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/fitpoints/internal/domain"
)

func createGoal(t *testing.T, f *fixture, required int, rewardID string) *domain.Goal {
	t.Helper()
	goal, err := f.goals.CreateGoal(context.Background(), domain.CreateGoalInput{
		UserID:         f.user.ID,
		Name:           "ten weeks strong",
		PointsRequired: required,
		RewardID:       rewardID,
	})
	require.NoError(t, err)
	return goal
}

func TestCreateGoalValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.goals.CreateGoal(context.Background(), domain.CreateGoalInput{
		UserID:         f.user.ID,
		Name:           "",
		PointsRequired: 5,
	})
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = f.goals.CreateGoal(context.Background(), domain.CreateGoalInput{
		UserID:         f.user.ID,
		Name:           "zero target",
		PointsRequired: 0,
	})
	require.ErrorAs(t, err, &validation)
}

func TestCreateGoalUnknownReward(t *testing.T) {
	f := newFixture(t)

	_, err := f.goals.CreateGoal(context.Background(), domain.CreateGoalInput{
		UserID:         f.user.ID,
		Name:           "with reward",
		PointsRequired: 5,
		RewardID:       "missing",
	})

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "reward", notFound.Kind)
}

func TestGoalProgressCrossesThreshold(t *testing.T) {
	f := newFixture(t)
	goal := createGoal(t, f, 10, "")
	goal.PointsAccumulated = 8

	f.goals.UpdateGoalProgress(goal, 3)

	require.Equal(t, 11, goal.PointsAccumulated)
	require.True(t, goal.Completed)
	require.True(t, f.goals.CheckGoalCompletion(goal))
}

func TestGoalProgressNoOpWhenCompleted(t *testing.T) {
	f := newFixture(t)
	goal := createGoal(t, f, 5, "")
	goal.PointsAccumulated = 5
	goal.Completed = true

	f.goals.UpdateGoalProgress(goal, 4)

	require.Equal(t, 5, goal.PointsAccumulated)
	require.True(t, goal.Completed)
}

func TestGoalCompletionIsMonotonicUntilReset(t *testing.T) {
	f := newFixture(t)
	goal := createGoal(t, f, 3, "")

	f.goals.UpdateGoalProgress(goal, 3)
	require.True(t, goal.Completed)

	// More progress never un-completes.
	f.goals.UpdateGoalProgress(goal, 1)
	require.True(t, goal.Completed)

	reset, err := f.goals.ResetGoal(context.Background(), goal.ID)
	require.NoError(t, err)
	require.False(t, reset.Completed)
	require.Zero(t, reset.PointsAccumulated)
}

func TestResetLeavesUnlockedRewardUntouched(t *testing.T) {
	f := newFixture(t)
	reward := f.seedReward(t, "massage", 2)
	goal := createGoal(t, f, 2, reward.ID)

	f.goals.UpdateGoalProgress(goal, 2)
	require.True(t, goal.Completed)
	row, err := f.goals.AssignRewardForCompletedGoal(context.Background(), goal)
	require.NoError(t, err)
	require.True(t, row.Unlocked)

	_, err = f.goals.ResetGoal(context.Background(), goal.ID)
	require.NoError(t, err)

	after, err := f.store.UserRewards().GetByUserAndReward(context.Background(), f.user.ID, reward.ID)
	require.NoError(t, err)
	require.True(t, after.Unlocked)
}

func TestAssignRewardCreatesAndUnlocksFirstTime(t *testing.T) {
	f := newFixture(t)
	reward := f.seedReward(t, "playlist", 1)
	goal := createGoal(t, f, 1, reward.ID)
	f.goals.UpdateGoalProgress(goal, 1)

	row, err := f.goals.AssignRewardForCompletedGoal(context.Background(), goal)
	require.NoError(t, err)
	require.NotNil(t, row)
	require.True(t, row.Unlocked)
	require.NotNil(t, row.UnlockedAt)
}

func TestAssignRewardUnlocksPreexistingRow(t *testing.T) {
	f := newFixture(t)
	reward := f.seedReward(t, "dinner", 5)
	goal := createGoal(t, f, 10, reward.ID)
	goal.PointsAccumulated = 8

	existing := &domain.UserReward{ID: "ur-1", UserID: f.user.ID, RewardID: reward.ID}
	require.NoError(t, f.store.UserRewards().Save(context.Background(), existing))

	f.goals.UpdateGoalProgress(goal, 3)
	require.True(t, goal.Completed)

	row, err := f.goals.AssignRewardForCompletedGoal(context.Background(), goal)
	require.NoError(t, err)
	require.Equal(t, "ur-1", row.ID)
	require.True(t, row.Unlocked)

	// Payout never spends points.
	require.Zero(t, f.balance(t))
}

func TestAssignRewardIdempotentWhenAlreadyUnlocked(t *testing.T) {
	f := newFixture(t)
	reward := f.seedReward(t, "weekend", 10)
	goal := createGoal(t, f, 1, reward.ID)
	f.goals.UpdateGoalProgress(goal, 1)

	first, err := f.goals.AssignRewardForCompletedGoal(context.Background(), goal)
	require.NoError(t, err)
	second, err := f.goals.AssignRewardForCompletedGoal(context.Background(), goal)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.UnlockedAt, second.UnlockedAt)
}

func TestAssignRewardNilWithoutLink(t *testing.T) {
	f := newFixture(t)
	goal := createGoal(t, f, 1, "")
	f.goals.UpdateGoalProgress(goal, 1)

	row, err := f.goals.AssignRewardForCompletedGoal(context.Background(), goal)
	require.NoError(t, err)
	require.Nil(t, row)
}

func TestListCompletedGoals(t *testing.T) {
	f := newFixture(t)
	done := createGoal(t, f, 1, "")
	createGoal(t, f, 100, "")

	f.goals.UpdateGoalProgress(done, 1)
	require.NoError(t, f.store.Goals().Save(context.Background(), done))

	completed, err := f.goals.ListCompletedGoals(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.Equal(t, done.ID, completed[0].ID)
}
