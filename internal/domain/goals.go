package domain

import (
	"context"
	"strings"
)

// GoalService manages goals and their progress toward completion.
type GoalService struct {
	goals       GoalRepository
	rewards     RewardRepository
	userRewards UserRewardRepository
	ids         IDGenerator
}

// NewGoalService constructs a GoalService.
func NewGoalService(goals GoalRepository, rewards RewardRepository, userRewards UserRewardRepository, ids IDGenerator) *GoalService {
	return &GoalService{goals: goals, rewards: rewards, userRewards: userRewards, ids: ids}
}

// CreateGoalInput captures the payload for a new goal.
type CreateGoalInput struct {
	UserID         string
	Name           string
	PointsRequired int
	Description    string
	RewardID       string
}

// Validate ensures the input is well formed.
func (in CreateGoalInput) Validate() error {
	if strings.TrimSpace(in.UserID) == "" {
		return ErrValidation("user_id", "must not be empty")
	}
	if strings.TrimSpace(in.Name) == "" {
		return ErrValidation("name", "must not be empty")
	}
	if in.PointsRequired <= 0 {
		return ErrValidation("points_required", "must be > 0")
	}
	return nil
}

// CreateGoal creates a goal, validating any linked reward exists.
func (s *GoalService) CreateGoal(ctx context.Context, in CreateGoalInput) (*Goal, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if in.RewardID != "" {
		reward, err := s.rewards.Get(ctx, in.RewardID)
		if err != nil {
			return nil, err
		}
		if reward == nil {
			return nil, ErrNotFound("reward", in.RewardID)
		}
	}

	now := nowUTC()
	goal := &Goal{
		ID:             s.ids.NewID(),
		UserID:         in.UserID,
		Name:           in.Name,
		Description:    in.Description,
		PointsRequired: in.PointsRequired,
		RewardID:       in.RewardID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.goals.Save(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// GoalUpdate carries the optional fields of a goal update.
type GoalUpdate struct {
	Name           *string
	PointsRequired *int
	Description    *string
	RewardID       *string
}

// UpdateGoal edits goal details, leaving progress untouched.
func (s *GoalService) UpdateGoal(ctx context.Context, id string, upd GoalUpdate) (*Goal, error) {
	goal, err := s.getGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, ErrValidation("name", "must not be empty")
		}
		goal.Name = *upd.Name
	}
	if upd.PointsRequired != nil {
		if *upd.PointsRequired <= 0 {
			return nil, ErrValidation("points_required", "must be > 0")
		}
		goal.PointsRequired = *upd.PointsRequired
	}
	if upd.Description != nil {
		goal.Description = *upd.Description
	}
	if upd.RewardID != nil {
		if *upd.RewardID != "" {
			reward, err := s.rewards.Get(ctx, *upd.RewardID)
			if err != nil {
				return nil, err
			}
			if reward == nil {
				return nil, ErrNotFound("reward", *upd.RewardID)
			}
		}
		goal.RewardID = *upd.RewardID
	}
	goal.UpdatedAt = nowUTC()

	if err := s.goals.Save(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// GetGoal fetches a goal by id.
func (s *GoalService) GetGoal(ctx context.Context, id string) (*Goal, error) {
	return s.getGoal(ctx, id)
}

// ListGoalsByUser returns all of a user's goals.
func (s *GoalService) ListGoalsByUser(ctx context.Context, userID string) ([]Goal, error) {
	return s.goals.ListByUser(ctx, userID)
}

// ListCompletedGoals returns the user's completed goals.
func (s *GoalService) ListCompletedGoals(ctx context.Context, userID string) ([]Goal, error) {
	goals, err := s.goals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed := make([]Goal, 0, len(goals))
	for _, g := range goals {
		if g.Completed {
			completed = append(completed, g)
		}
	}
	return completed, nil
}

// ResetGoal returns the goal to zero progress. Used only by explicit user
// action, never by the scoring path; already-unlocked linked rewards are
// untouched.
func (s *GoalService) ResetGoal(ctx context.Context, id string) (*Goal, error) {
	goal, err := s.getGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	goal.Reset()
	if err := s.goals.Save(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// UpdateGoalProgress accrues pointsAdded into the goal, flipping it to
// completed the first time the threshold is crossed. No-op when the goal is
// already completed. Callers guard pointsAdded > 0.
func (s *GoalService) UpdateGoalProgress(goal *Goal, pointsAdded int) {
	if goal.Completed {
		return
	}
	goal.AddPoints(pointsAdded)
}

// CheckGoalCompletion reports whether the goal is completed.
func (s *GoalService) CheckGoalCompletion(goal *Goal) bool {
	return goal.Completed
}

// AssignRewardForCompletedGoal pays out the goal's linked reward. An existing
// (user, reward) row is unlocked; when none exists one is created and
// unlocked. Already-unlocked rows are returned unchanged. Completion payouts
// do not spend points: the goal itself was the price. Returns nil when the
// goal is incomplete or has no linked reward.
func (s *GoalService) AssignRewardForCompletedGoal(ctx context.Context, goal *Goal) (*UserReward, error) {
	if !goal.Completed || goal.RewardID == "" {
		return nil, nil
	}

	userReward, err := s.userRewards.GetByUserAndReward(ctx, goal.UserID, goal.RewardID)
	if err != nil {
		return nil, err
	}

	if userReward == nil {
		now := nowUTC()
		userReward = &UserReward{
			ID:        s.ids.NewID(),
			UserID:    goal.UserID,
			RewardID:  goal.RewardID,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	if userReward.Unlocked {
		return userReward, nil
	}

	userReward.Unlock()
	if err := s.userRewards.Save(ctx, userReward); err != nil {
		return nil, err
	}
	return userReward, nil
}

func (s *GoalService) getGoal(ctx context.Context, id string) (*Goal, error) {
	goal, err := s.goals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, ErrNotFound("goal", id)
	}
	return goal, nil
}
