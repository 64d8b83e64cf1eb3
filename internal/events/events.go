// Package events defines the payloads published through the outbox.
package events

import "time"

// SessionLogged is emitted when a workout session is accepted.
type SessionLogged struct {
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id"`
	WorkoutType string    `json:"workout_type"`
	Date        time.Time `json:"date"`
	DurationMin int       `json:"duration_min"`
	ProgramID   string    `json:"program_id,omitempty"`
}

// PointsAwarded is emitted when the weekly ledger grants points.
type PointsAwarded struct {
	UserID     string    `json:"user_id"`
	WeekStart  time.Time `json:"week_start"`
	Points     int       `json:"points"`
	Balance    int       `json:"balance"`
	OccurredAt time.Time `json:"occurred_at"`
}

// GoalCompleted is emitted when a goal crosses its completion threshold.
type GoalCompleted struct {
	GoalID     string    `json:"goal_id"`
	UserID     string    `json:"user_id"`
	RewardID   string    `json:"reward_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RewardUnlocked is emitted when a user unlocks a reward.
type RewardUnlocked struct {
	UserRewardID string    `json:"user_reward_id"`
	UserID       string    `json:"user_id"`
	RewardID     string    `json:"reward_id"`
	PointsCost   int       `json:"points_cost"`
	UnlockedAt   time.Time `json:"unlocked_at"`
}
