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

// LedgerStore implements domain.LedgerRepository over the weekly_awards table.
// One row per (user, week) records how many points the week has granted.
type LedgerStore struct {
	pool *pgxpool.Pool
}

func (r *LedgerStore) GrantedPoints(ctx context.Context, userID string, weekStart time.Time) (int, error) {
	const query = `SELECT points FROM weekly_awards WHERE user_id=$1 AND week_start=$2`

	var points int
	if err := r.pool.QueryRow(ctx, query, userID, weekStart).Scan(&points); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return points, nil
}

// AwardPoints records the grant, increases the balance and queues the
// points.awarded outbox event in one transaction. Returns the updated user.
func (r *LedgerStore) AwardPoints(ctx context.Context, userID string, weekStart time.Time, points int) (*domain.User, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const upsertAward = `INSERT INTO weekly_awards (user_id, week_start, points, created_at, updated_at)
        VALUES ($1,$2,$3,NOW(),NOW())
        ON CONFLICT (user_id, week_start) DO UPDATE
        SET points = weekly_awards.points + EXCLUDED.points, updated_at = NOW()`

	if _, err = tx.Exec(ctx, upsertAward, userID, weekStart, points); err != nil {
		return nil, err
	}

	const updateUser = `UPDATE users SET points = points + $2, updated_at = NOW()
        WHERE user_id=$1
        RETURNING user_id, name, email, points, created_at, updated_at`

	var user domain.User
	err = tx.QueryRow(ctx, updateUser, userID, points).Scan(&user.ID, &user.Name, &user.Email, &user.Points, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = domain.ErrNotFound("user", userID)
		}
		return nil, err
	}

	occurredAt := time.Now().UTC()
	week := weekStart.Format("2006-01-02")
	dedupe := fmt.Sprintf("%s:%s:points.awarded:%d", userID, week, user.Points)
	aggregateID := fmt.Sprintf("%s:%s", userID, week)
	if err = insertOutbox(ctx, tx, "weekly_award", aggregateID, userID, "points.awarded", dedupe, events.PointsAwarded{
		UserID:     userID,
		WeekStart:  weekStart,
		Points:     points,
		Balance:    user.Points,
		OccurredAt: occurredAt,
	}); err != nil {
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
