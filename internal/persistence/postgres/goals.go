package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/fitpoints/internal/domain"
	"example.com/fitpoints/internal/events"
)

// GoalStore implements domain.GoalRepository.
type GoalStore struct {
	pool *pgxpool.Pool
}

const goalColumns = `goal_id, user_id, name, description, points_required, points_accumulated, completed, reward_id, created_at, updated_at`

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var goal domain.Goal
	var rewardID *string
	if err := row.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.Description, &goal.PointsRequired, &goal.PointsAccumulated, &goal.Completed, &rewardID, &goal.CreatedAt, &goal.UpdatedAt); err != nil {
		return nil, err
	}
	goal.RewardID = emptyIfNil(rewardID)
	return &goal, nil
}

func (r *GoalStore) Get(ctx context.Context, id string) (*domain.Goal, error) {
	const query = `SELECT ` + goalColumns + ` FROM goals WHERE goal_id=$1`

	goal, err := scanGoal(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return goal, nil
}

// Save upserts the goal. When the write flips Completed from false to true it
// records the goal.completed outbox event in the same transaction, so the
// completion transition is announced exactly once.
func (r *GoalStore) Save(ctx context.Context, goal *domain.Goal) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	wasCompleted := false
	err = tx.QueryRow(ctx, `SELECT completed FROM goals WHERE goal_id=$1 FOR UPDATE`, goal.ID).Scan(&wasCompleted)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	err = nil

	const stmt = `INSERT INTO goals (goal_id, user_id, name, description, points_required, points_accumulated, completed, reward_id, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT (goal_id) DO UPDATE
        SET name=EXCLUDED.name, description=EXCLUDED.description, points_required=EXCLUDED.points_required,
            points_accumulated=EXCLUDED.points_accumulated, completed=EXCLUDED.completed,
            reward_id=EXCLUDED.reward_id, updated_at=EXCLUDED.updated_at`

	_, err = tx.Exec(ctx, stmt,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.Description,
		goal.PointsRequired,
		goal.PointsAccumulated,
		goal.Completed,
		nullIfEmpty(goal.RewardID),
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if goal.Completed && !wasCompleted {
		// A goal can complete again after Reset; the timestamp keeps each
		// occurrence distinct under the dedupe constraint.
		dedupe := fmt.Sprintf("%s:goal.completed:%d", goal.ID, goal.UpdatedAt.UnixNano())
		if err = insertOutbox(ctx, tx, "goal", goal.ID, goal.UserID, "goal.completed", dedupe, events.GoalCompleted{
			GoalID:     goal.ID,
			UserID:     goal.UserID,
			RewardID:   goal.RewardID,
			OccurredAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
	}

	err = tx.Commit(ctx)
	return err
}

func (r *GoalStore) ListByUser(ctx context.Context, userID string) ([]domain.Goal, error) {
	const query = `SELECT ` + goalColumns + ` FROM goals WHERE user_id=$1 ORDER BY created_at ASC, goal_id ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.Goal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *goal)
	}
	return results, rows.Err()
}
