package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/fitpoints/internal/domain"
	"example.com/fitpoints/internal/persistence/memory"
)

// fixture wires the domain services over the in-memory store.
type fixture struct {
	store    *memory.Store
	sessions *domain.SessionService
	programs *domain.ProgramService
	points   *domain.PointsService
	goals    *domain.GoalService
	rewards  *domain.RewardService
	tracker  *domain.Tracker
	user     domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	ids := domain.UUIDGenerator{}

	sessions := domain.NewSessionService(store.Sessions(), store.Programs(), ids)
	programs := domain.NewProgramService(store.Programs(), ids)
	points := domain.NewPointsService(store, store.Sessions(), store.Ledger())
	goals := domain.NewGoalService(store.Goals(), store.Rewards(), store.UserRewards(), ids)
	rewards := domain.NewRewardService(store.Rewards(), store.UserRewards(), store, ids)
	tracker := domain.NewTracker(store, sessions, points, goals, rewards, store.Goals())

	user := store.SeedUser(domain.User{Name: "Alex", Email: "alex@example.com"})

	return &fixture{
		store:    store,
		sessions: sessions,
		programs: programs,
		points:   points,
		goals:    goals,
		rewards:  rewards,
		tracker:  tracker,
		user:     user,
	}
}

// monday returns a fixed Monday used as the week under test.
func monday() time.Time {
	return time.Date(2025, time.October, 27, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) logSessions(t *testing.T, n int, day time.Time) *domain.SessionReport {
	t.Helper()

	var report *domain.SessionReport
	for i := 0; i < n; i++ {
		var err error
		report, err = f.tracker.LogSession(context.Background(), domain.CreateSessionInput{
			UserID:      f.user.ID,
			Type:        domain.WorkoutRunning,
			Date:        day.Add(time.Duration(i) * time.Hour),
			DurationMin: 60,
		})
		require.NoError(t, err)
	}
	return report
}

func (f *fixture) balance(t *testing.T) int {
	t.Helper()
	user, err := f.store.Get(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user.Points
}

func (f *fixture) seedReward(t *testing.T, name string, cost int) *domain.Reward {
	t.Helper()
	reward, err := f.rewards.CreateReward(context.Background(), domain.CreateRewardInput{
		Name:       name,
		Tier:       1,
		PointsCost: cost,
	})
	require.NoError(t, err)
	return reward
}
