package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/fitpoints/internal/domain"
	"example.com/fitpoints/internal/events"
)

// UserRewardStore implements domain.UserRewardRepository. The (user_id,
// reward_id) pair is unique at the schema level so concurrent unlocks collapse
// onto one row.
type UserRewardStore struct {
	pool *pgxpool.Pool
}

const userRewardColumns = `user_reward_id, user_id, reward_id, unlocked, unlocked_at, created_at, updated_at`

func scanUserReward(row pgx.Row) (*domain.UserReward, error) {
	var ur domain.UserReward
	if err := row.Scan(&ur.ID, &ur.UserID, &ur.RewardID, &ur.Unlocked, &ur.UnlockedAt, &ur.CreatedAt, &ur.UpdatedAt); err != nil {
		return nil, err
	}
	return &ur, nil
}

func (r *UserRewardStore) GetByUserAndReward(ctx context.Context, userID, rewardID string) (*domain.UserReward, error) {
	const query = `SELECT ` + userRewardColumns + ` FROM user_rewards WHERE user_id=$1 AND reward_id=$2`

	ur, err := scanUserReward(r.pool.QueryRow(ctx, query, userID, rewardID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ur, nil
}

func (r *UserRewardStore) ListByUser(ctx context.Context, userID string) ([]domain.UserReward, error) {
	const query = `SELECT ` + userRewardColumns + ` FROM user_rewards WHERE user_id=$1 ORDER BY user_reward_id ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.UserReward, 0)
	for rows.Next() {
		ur, err := scanUserReward(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *ur)
	}
	return results, rows.Err()
}

func upsertUserReward(ctx context.Context, tx pgx.Tx, ur *domain.UserReward) error {
	const stmt = `INSERT INTO user_rewards (user_reward_id, user_id, reward_id, unlocked, unlocked_at, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (user_id, reward_id) DO UPDATE
        SET unlocked=EXCLUDED.unlocked, unlocked_at=EXCLUDED.unlocked_at, updated_at=EXCLUDED.updated_at`

	_, err := tx.Exec(ctx, stmt,
		ur.ID,
		ur.UserID,
		ur.RewardID,
		ur.Unlocked,
		ur.UnlockedAt,
		ur.CreatedAt,
		ur.UpdatedAt,
	)
	return err
}

func (r *UserRewardStore) Save(ctx context.Context, userReward *domain.UserReward) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if err = upsertUserReward(ctx, tx, userReward); err != nil {
		return err
	}
	if userReward.Unlocked {
		if err = insertUnlockEvent(ctx, tx, userReward); err != nil {
			return err
		}
	}
	err = tx.Commit(ctx)
	return err
}

// SaveUnlock persists the deducted balance and the unlocked row in a single
// transaction, with the reward.unlocked outbox event. A crash cannot leave the
// balance spent without the unlock, or the unlock without the event.
func (r *UserRewardStore) SaveUnlock(ctx context.Context, user *domain.User, userReward *domain.UserReward) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const updateUser = `UPDATE users SET points=$2, updated_at=$3 WHERE user_id=$1`
	if _, err = tx.Exec(ctx, updateUser, user.ID, user.Points, user.UpdatedAt); err != nil {
		return err
	}

	if err = upsertUserReward(ctx, tx, userReward); err != nil {
		return err
	}

	if err = insertUnlockEvent(ctx, tx, userReward); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

func insertUnlockEvent(ctx context.Context, tx pgx.Tx, ur *domain.UserReward) error {
	var cost int
	if err := tx.QueryRow(ctx, `SELECT points_cost FROM rewards WHERE reward_id=$1`, ur.RewardID).Scan(&cost); err != nil {
		return err
	}

	unlockedAt := time.Now().UTC()
	if ur.UnlockedAt != nil {
		unlockedAt = *ur.UnlockedAt
	}

	return insertOutbox(ctx, tx, "user_reward", ur.ID, ur.UserID, "reward.unlocked", ur.ID+":reward.unlocked", events.RewardUnlocked{
		UserRewardID: ur.ID,
		UserID:       ur.UserID,
		RewardID:     ur.RewardID,
		PointsCost:   cost,
		UnlockedAt:   unlockedAt,
	})
}
