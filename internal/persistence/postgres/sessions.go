package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/fitpoints/internal/domain"
	"example.com/fitpoints/internal/events"
	"example.com/fitpoints/internal/observability"
)

// SessionStore implements domain.SessionRepository.
type SessionStore struct {
	pool *pgxpool.Pool
}

const sessionColumns = `session_id, user_id, workout_type, session_date, duration_min, program_id, notes, created_at, updated_at`

func scanSession(row pgx.Row) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	var programID *string
	if err := row.Scan(&session.ID, &session.UserID, &session.Type, &session.Date, &session.DurationMin, &programID, &session.Notes, &session.CreatedAt, &session.UpdatedAt); err != nil {
		return nil, err
	}
	session.ProgramID = emptyIfNil(programID)
	return &session, nil
}

func (r *SessionStore) Get(ctx context.Context, id string) (*domain.WorkoutSession, error) {
	const query = `SELECT ` + sessionColumns + ` FROM sessions WHERE session_id=$1`

	session, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// Create persists the session and records the session.logged outbox event
// inside a single transaction.
func (r *SessionStore) Create(ctx context.Context, session *domain.WorkoutSession) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const insertSession = `INSERT INTO sessions (session_id, user_id, workout_type, session_date, duration_min, program_id, notes, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err = tx.Exec(ctx, insertSession,
		session.ID,
		session.UserID,
		session.Type,
		session.Date,
		session.DurationMin,
		nullIfEmpty(session.ProgramID),
		session.Notes,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err = insertOutbox(ctx, tx, "session", session.ID, session.UserID, "session.logged", session.ID+":session.logged", events.SessionLogged{
		SessionID:   session.ID,
		UserID:      session.UserID,
		WorkoutType: string(session.Type),
		Date:        session.Date,
		DurationMin: session.DurationMin,
		ProgramID:   session.ProgramID,
	}); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return err
	}
	observability.RecordSessionPersisted(session.UpdatedAt)
	return nil
}

func (r *SessionStore) Save(ctx context.Context, session *domain.WorkoutSession) error {
	const stmt = `UPDATE sessions
        SET workout_type=$2, session_date=$3, duration_min=$4, program_id=$5, notes=$6, updated_at=$7
        WHERE session_id=$1`

	_, err := r.pool.Exec(ctx, stmt,
		session.ID,
		session.Type,
		session.Date,
		session.DurationMin,
		nullIfEmpty(session.ProgramID),
		session.Notes,
		session.UpdatedAt,
	)
	return err
}

func (r *SessionStore) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE session_id=$1`, id)
	return err
}

// ListByUser returns sessions for a user ordered newest first.
func (r *SessionStore) ListByUser(ctx context.Context, userID string, cursor *domain.Cursor, limit int) ([]domain.WorkoutSession, *domain.Cursor, error) {
	args := []interface{}{userID, limit}
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE user_id=$1`

	if cursor != nil {
		query += ` AND (session_date, session_id) < ($3, $4)`
		args = append(args, cursor.Date, cursor.ID)
	}

	query += ` ORDER BY session_date DESC, session_id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	results := make([]domain.WorkoutSession, 0, limit)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var nextCursor *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		nextCursor = &domain.Cursor{Date: last.Date, ID: last.ID}
	}

	return results, nextCursor, nil
}

// ListByUserAndDateRange returns the user's sessions with dates in [from, to],
// ordered oldest first. The scoring path uses it to count a week's sessions.
func (r *SessionStore) ListByUserAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]domain.WorkoutSession, error) {
	const query = `SELECT ` + sessionColumns + ` FROM sessions
        WHERE user_id=$1 AND session_date >= $2 AND session_date <= $3
        ORDER BY session_date ASC, session_id ASC`

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.WorkoutSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *session)
	}
	return results, rows.Err()
}
