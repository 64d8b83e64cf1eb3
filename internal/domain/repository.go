package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repositories return (nil, nil) for lookups that find nothing; services map
// missing aggregates to NotFoundError.

// UserRepository persists users.
type UserRepository interface {
	Get(ctx context.Context, id string) (*User, error)
	Save(ctx context.Context, user *User) error
}

// SessionRepository persists workout sessions.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*WorkoutSession, error)
	Create(ctx context.Context, session *WorkoutSession) error
	Save(ctx context.Context, session *WorkoutSession) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, cursor *Cursor, limit int) ([]WorkoutSession, *Cursor, error)
	ListByUserAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]WorkoutSession, error)
}

// ProgramRepository persists program templates.
type ProgramRepository interface {
	Get(ctx context.Context, id string) (*Program, error)
	Save(ctx context.Context, program *Program) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]Program, error)
}

// RewardRepository persists the reward catalog.
type RewardRepository interface {
	Get(ctx context.Context, id string) (*Reward, error)
	Save(ctx context.Context, reward *Reward) error
	List(ctx context.Context) ([]Reward, error)
}

// UserRewardRepository persists per-user unlock state. SaveUnlock persists the
// user's deducted balance and the unlocked row together; on stores that
// support it, the two writes share a transaction.
type UserRewardRepository interface {
	GetByUserAndReward(ctx context.Context, userID, rewardID string) (*UserReward, error)
	ListByUser(ctx context.Context, userID string) ([]UserReward, error)
	Save(ctx context.Context, userReward *UserReward) error
	SaveUnlock(ctx context.Context, user *User, userReward *UserReward) error
}

// GoalRepository persists goals.
type GoalRepository interface {
	Get(ctx context.Context, id string) (*Goal, error)
	Save(ctx context.Context, goal *Goal) error
	ListByUser(ctx context.Context, userID string) ([]Goal, error)
}

// LedgerRepository tracks points already granted per (user, week) so repeat
// awards for an unchanged week are no-ops. AwardPoints records the grant and
// increases the balance atomically, returning the updated user.
type LedgerRepository interface {
	GrantedPoints(ctx context.Context, userID string, weekStart time.Time) (int, error)
	AwardPoints(ctx context.Context, userID string, weekStart time.Time, points int) (*User, error)
}

// Cursor models the pagination token for session listings.
type Cursor struct {
	Date time.Time
	ID   string
}

// IDGenerator supplies identifiers for new aggregates. The core never builds
// identifiers itself beyond requesting one.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator is the default IDGenerator.
type UUIDGenerator struct{}

// NewID returns a random UUID string.
func (UUIDGenerator) NewID() string { return uuid.NewString() }
