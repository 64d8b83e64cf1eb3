package domain

import (
	"context"
	"time"

	"example.com/fitpoints/internal/observability"
)

// Tracker sequences the scoring pipeline: session added, maybe award weekly
// points, update goals, unlock rewards.
type Tracker struct {
	users    UserRepository
	sessions *SessionService
	points   *PointsService
	goals    *GoalService
	rewards  *RewardService
	goalRepo GoalRepository
}

// NewTracker constructs a Tracker over the component services.
func NewTracker(users UserRepository, sessions *SessionService, points *PointsService, goals *GoalService, rewards *RewardService, goalRepo GoalRepository) *Tracker {
	return &Tracker{
		users:    users,
		sessions: sessions,
		points:   points,
		goals:    goals,
		rewards:  rewards,
		goalRepo: goalRepo,
	}
}

// SweepFailure reports one reward whose automatic unlock failed. Failures are
// isolated per reward and never abort the rest of the sweep.
type SweepFailure struct {
	RewardID string
	Err      error
}

// SessionReport summarises everything that happened when a session was logged.
type SessionReport struct {
	Session         *WorkoutSession
	PointsEarned    int
	UpdatedGoals    []Goal
	UnlockedRewards []UserReward
	SweepFailures   []SweepFailure
}

// LogSession persists the session and, when the user's session count for the
// session's week crosses a 3-session boundary, awards weekly points, advances
// goals and sweeps for rewards that became affordable.
func (t *Tracker) LogSession(ctx context.Context, in CreateSessionInput) (*SessionReport, error) {
	session, err := t.sessions.CreateSession(ctx, in)
	if err != nil {
		return nil, err
	}

	report := &SessionReport{Session: session}

	weekStart := StartOfWeek(session.Date)
	weekSessions, err := t.sessions.ListSessionsByUserAndDateRange(ctx, session.UserID, weekStart, WeekEnd(weekStart))
	if err != nil {
		return nil, err
	}

	count := len(weekSessions)
	if count == 0 || count%SessionsPerPoint != 0 {
		return report, nil
	}

	earned, goals, err := t.trackWeek(ctx, session.UserID, weekStart)
	if err != nil {
		return nil, err
	}
	report.PointsEarned = earned
	report.UpdatedGoals = goals

	if earned > 0 {
		unlocked, failures, err := t.SweepUnlockableRewards(ctx, session.UserID)
		if err != nil {
			return nil, err
		}
		report.UnlockedRewards = unlocked
		report.SweepFailures = failures
	}

	return report, nil
}

// TrackWeeklyPoints awards any outstanding points for the week and advances
// goal progress with the amount earned. Returns the points earned by this
// invocation; zero when the week's points were already granted.
func (t *Tracker) TrackWeeklyPoints(ctx context.Context, userID string, weekStart time.Time) (int, error) {
	earned, _, err := t.trackWeek(ctx, userID, weekStart)
	return earned, err
}

func (t *Tracker) trackWeek(ctx context.Context, userID string, weekStart time.Time) (int, []Goal, error) {
	user, err := t.users.Get(ctx, userID)
	if err != nil {
		return 0, nil, err
	}
	if user == nil {
		return 0, nil, ErrNotFound("user", userID)
	}

	before := user.Points
	updated, err := t.points.AwardPointsForWeek(ctx, userID, weekStart)
	if err != nil {
		return 0, nil, err
	}

	earned := updated.Points - before
	if earned <= 0 {
		return 0, nil, nil
	}
	observability.RecordPointsAwarded(earned)

	goals, err := t.UpdateGoalsProgress(ctx, userID, earned)
	if err != nil {
		return earned, nil, err
	}
	return earned, goals, nil
}

// UpdateGoalsProgress distributes pointsEarned across the user's incomplete
// goals and pays out linked rewards for goals that newly complete. A zero or
// negative amount is rejected here so the per-goal transition never sees it.
func (t *Tracker) UpdateGoalsProgress(ctx context.Context, userID string, pointsEarned int) ([]Goal, error) {
	if pointsEarned <= 0 {
		return nil, nil
	}

	goals, err := t.goalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := make([]Goal, 0, len(goals))
	for i := range goals {
		goal := goals[i]
		if goal.Completed {
			continue
		}

		t.goals.UpdateGoalProgress(&goal, pointsEarned)

		if goal.Completed {
			observability.RecordGoalCompleted()
			if goal.RewardID != "" {
				if _, err := t.goals.AssignRewardForCompletedGoal(ctx, &goal); err != nil {
					return nil, err
				}
			}
		}

		if err := t.goalRepo.Save(ctx, &goal); err != nil {
			return nil, err
		}
		updated = append(updated, goal)
	}

	return updated, nil
}

// SweepUnlockableRewards unlocks every reward the user can now afford,
// modeling "unlock as soon as affordable". Each unlock attempt is isolated;
// a failure is reported per reward and the sweep continues.
func (t *Tracker) SweepUnlockableRewards(ctx context.Context, userID string) ([]UserReward, []SweepFailure, error) {
	user, err := t.users.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrNotFound("user", userID)
	}

	catalog, err := t.rewards.ListRewards(ctx)
	if err != nil {
		return nil, nil, err
	}

	rows, err := t.rewards.ListUserRewards(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	alreadyUnlocked := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.Unlocked {
			alreadyUnlocked[row.RewardID] = true
		}
	}

	var unlocked []UserReward
	var failures []SweepFailure
	for _, reward := range catalog {
		if alreadyUnlocked[reward.ID] || reward.PointsCost > user.Points {
			continue
		}

		row, err := t.rewards.UnlockReward(ctx, userID, reward.ID)
		if err != nil {
			failures = append(failures, SweepFailure{RewardID: reward.ID, Err: err})
			continue
		}
		unlocked = append(unlocked, *row)
		observability.RecordRewardUnlocked()

		// Refresh the balance: the unlock just spent points.
		user, err = t.users.Get(ctx, userID)
		if err != nil {
			return unlocked, failures, err
		}
		if user == nil {
			return unlocked, failures, ErrNotFound("user", userID)
		}
	}

	return unlocked, failures, nil
}
