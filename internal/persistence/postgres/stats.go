package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/fitpoints/internal/domain"
)

// StatsStore implements domain.StatsRepository. The consumer projects session
// events into per-week per-type aggregates here.
type StatsStore struct {
	pool *pgxpool.Pool
}

// Upsert folds the increment into the (user, week, type) row.
func (r *StatsStore) Upsert(ctx context.Context, stat domain.WeeklyTypeStat) error {
	const stmt = `INSERT INTO weekly_type_stats (user_id, week_start, workout_type, session_count, total_minutes, updated_at)
        VALUES ($1,$2,$3,$4,$5,NOW())
        ON CONFLICT (user_id, week_start, workout_type) DO UPDATE
        SET session_count = weekly_type_stats.session_count + EXCLUDED.session_count,
            total_minutes = weekly_type_stats.total_minutes + EXCLUDED.total_minutes,
            updated_at = NOW()`

	_, err := r.pool.Exec(ctx, stmt,
		stat.UserID,
		stat.WeekStart,
		stat.WorkoutType,
		stat.SessionCount,
		stat.TotalMinutes,
	)
	return err
}

func (r *StatsStore) ListByUser(ctx context.Context, userID string, since time.Time) ([]domain.WeeklyTypeStat, error) {
	const query = `SELECT user_id, week_start, workout_type, session_count, total_minutes
        FROM weekly_type_stats
        WHERE user_id=$1 AND week_start >= $2
        ORDER BY week_start ASC, workout_type ASC`

	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.WeeklyTypeStat, 0)
	for rows.Next() {
		var stat domain.WeeklyTypeStat
		if err := rows.Scan(&stat.UserID, &stat.WeekStart, &stat.WorkoutType, &stat.SessionCount, &stat.TotalMinutes); err != nil {
			return nil, err
		}
		results = append(results, stat)
	}
	return results, rows.Err()
}
