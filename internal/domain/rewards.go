package domain

import (
	"context"
	"strings"
)

// RewardService manages the reward catalog and per-user unlocks.
type RewardService struct {
	rewards     RewardRepository
	userRewards UserRewardRepository
	users       UserRepository
	ids         IDGenerator
}

// NewRewardService constructs a RewardService.
func NewRewardService(rewards RewardRepository, userRewards UserRewardRepository, users UserRepository, ids IDGenerator) *RewardService {
	return &RewardService{rewards: rewards, userRewards: userRewards, users: users, ids: ids}
}

// CreateRewardInput captures the payload for a new catalog entry.
type CreateRewardInput struct {
	Name        string
	Description string
	Tier        RewardTier
	PointsCost  int
	ImageURL    string
}

// Validate ensures the input is well formed.
func (in CreateRewardInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrValidation("name", "must not be empty")
	}
	if in.Tier < 1 || in.Tier > 5 {
		return ErrValidation("tier", "must be between 1 and 5")
	}
	if in.PointsCost <= 0 {
		return ErrValidation("points_cost", "must be > 0")
	}
	return nil
}

// CreateReward adds a reward to the catalog.
func (s *RewardService) CreateReward(ctx context.Context, in CreateRewardInput) (*Reward, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := nowUTC()
	reward := &Reward{
		ID:          s.ids.NewID(),
		Name:        in.Name,
		Description: in.Description,
		Tier:        in.Tier,
		PointsCost:  in.PointsCost,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.rewards.Save(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

// RewardUpdate carries the optional fields of an administrative update.
type RewardUpdate struct {
	Name        *string
	Description *string
	Tier        *RewardTier
	PointsCost  *int
	ImageURL    *string
}

// UpdateReward edits catalog details.
func (s *RewardService) UpdateReward(ctx context.Context, id string, upd RewardUpdate) (*Reward, error) {
	reward, err := s.getReward(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, ErrValidation("name", "must not be empty")
		}
		reward.Name = *upd.Name
	}
	if upd.Description != nil {
		reward.Description = *upd.Description
	}
	if upd.Tier != nil {
		if *upd.Tier < 1 || *upd.Tier > 5 {
			return nil, ErrValidation("tier", "must be between 1 and 5")
		}
		reward.Tier = *upd.Tier
	}
	if upd.PointsCost != nil {
		if *upd.PointsCost <= 0 {
			return nil, ErrValidation("points_cost", "must be > 0")
		}
		reward.PointsCost = *upd.PointsCost
	}
	if upd.ImageURL != nil {
		reward.ImageURL = *upd.ImageURL
	}
	reward.UpdatedAt = nowUTC()

	if err := s.rewards.Save(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

// GetReward fetches a catalog entry by id.
func (s *RewardService) GetReward(ctx context.Context, id string) (*Reward, error) {
	return s.getReward(ctx, id)
}

// ListRewards returns the full catalog.
func (s *RewardService) ListRewards(ctx context.Context) ([]Reward, error) {
	return s.rewards.List(ctx)
}

// ListUserRewards returns the user's rows, locked and unlocked.
func (s *RewardService) ListUserRewards(ctx context.Context, userID string) ([]UserReward, error) {
	return s.userRewards.ListByUser(ctx, userID)
}

// UnlockReward spends the user's points to unlock a reward. The sufficiency
// check and the deduction are evaluated together so the balance never goes
// negative, and the balance and unlock row are persisted in one step.
// Repeat calls for an already-unlocked reward return the row unchanged
// without touching the balance.
func (s *RewardService) UnlockReward(ctx context.Context, userID, rewardID string) (*UserReward, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound("user", userID)
	}

	reward, err := s.getReward(ctx, rewardID)
	if err != nil {
		return nil, err
	}

	userReward, err := s.userRewards.GetByUserAndReward(ctx, userID, rewardID)
	if err != nil {
		return nil, err
	}
	if userReward == nil {
		now := nowUTC()
		userReward = &UserReward{
			ID:        s.ids.NewID(),
			UserID:    userID,
			RewardID:  rewardID,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	if userReward.Unlocked {
		return userReward, nil
	}

	if !user.UsePoints(reward.PointsCost) {
		return nil, &InsufficientPointsError{Required: reward.PointsCost, Available: user.Points}
	}
	userReward.Unlock()

	if err := s.userRewards.SaveUnlock(ctx, user, userReward); err != nil {
		return nil, err
	}
	return userReward, nil
}

// GetUnlockedRewards joins the user's unlocked rows to catalog entries for
// display. Rewards with no row are implicitly locked.
func (s *RewardService) GetUnlockedRewards(ctx context.Context, userID string) ([]Reward, error) {
	userRewards, err := s.userRewards.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rewards := make([]Reward, 0, len(userRewards))
	for _, ur := range userRewards {
		if !ur.Unlocked {
			continue
		}
		reward, err := s.rewards.Get(ctx, ur.RewardID)
		if err != nil {
			return nil, err
		}
		if reward != nil {
			rewards = append(rewards, *reward)
		}
	}
	return rewards, nil
}

// InitializePredefinedRewards seeds the five-tier starter catalog, skipping
// entries that already exist by name. Safe to call on every boot.
func (s *RewardService) InitializePredefinedRewards(ctx context.Context) ([]Reward, error) {
	existing, err := s.rewards.List(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]Reward, len(existing))
	for _, r := range existing {
		byName[r.Name] = r
	}

	seeded := make([]Reward, 0, len(predefinedRewards))
	for _, seed := range predefinedRewards {
		if r, ok := byName[seed.Name]; ok {
			seeded = append(seeded, r)
			continue
		}
		now := nowUTC()
		reward := seed
		reward.ID = s.ids.NewID()
		reward.CreatedAt = now
		reward.UpdatedAt = now
		if err := s.rewards.Save(ctx, &reward); err != nil {
			return nil, err
		}
		seeded = append(seeded, reward)
	}
	return seeded, nil
}

// predefinedRewards is the starter catalog, one reward per tier.
var predefinedRewards = []Reward{
	{Name: "Exclusive Workout Playlist", Description: "Access to an exclusive playlist of motivating training music.", Tier: 1, PointsCost: 1, ImageURL: "/images/rewards/playlist.jpg"},
	{Name: "30-Minute Relaxing Massage", Description: "A 30-minute massage to recover after your workouts.", Tier: 2, PointsCost: 2, ImageURL: "/images/rewards/massage.jpg"},
	{Name: "Gourmet Restaurant Dinner", Description: "A dinner at a gourmet restaurant to celebrate your training milestones.", Tier: 3, PointsCost: 5, ImageURL: "/images/rewards/restaurant.jpg"},
	{Name: "Surprise Weekend Getaway", Description: "A surprise weekend getaway to unwind and recharge.", Tier: 4, PointsCost: 10, ImageURL: "/images/rewards/weekend.jpg"},
	{Name: "Exotic Vacation", Description: "A vacation somewhere exotic as the ultimate reward for your dedication.", Tier: 5, PointsCost: 15, ImageURL: "/images/rewards/vacation.jpg"},
}

func (s *RewardService) getReward(ctx context.Context, id string) (*Reward, error) {
	reward, err := s.rewards.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, ErrNotFound("reward", id)
	}
	return reward, nil
}
