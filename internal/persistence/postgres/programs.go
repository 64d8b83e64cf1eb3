package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/fitpoints/internal/domain"
)

// ProgramStore implements domain.ProgramRepository. Exercises are stored as a
// JSONB document; the engine never queries into them.
type ProgramStore struct {
	pool *pgxpool.Pool
}

func scanProgram(row pgx.Row) (*domain.Program, error) {
	var program domain.Program
	var exercises []byte
	if err := row.Scan(&program.ID, &program.UserID, &program.Name, &program.Type, &program.Description, &exercises, &program.CreatedAt, &program.UpdatedAt); err != nil {
		return nil, err
	}
	if len(exercises) > 0 {
		if err := json.Unmarshal(exercises, &program.Exercises); err != nil {
			return nil, err
		}
	}
	return &program, nil
}

func (r *ProgramStore) Get(ctx context.Context, id string) (*domain.Program, error) {
	const query = `SELECT program_id, user_id, name, workout_type, description, exercises, created_at, updated_at
        FROM programs WHERE program_id=$1`

	program, err := scanProgram(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return program, nil
}

func (r *ProgramStore) Save(ctx context.Context, program *domain.Program) error {
	exercises, err := json.Marshal(program.Exercises)
	if err != nil {
		return err
	}

	const stmt = `INSERT INTO programs (program_id, user_id, name, workout_type, description, exercises, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (program_id) DO UPDATE
        SET name=EXCLUDED.name, workout_type=EXCLUDED.workout_type, description=EXCLUDED.description,
            exercises=EXCLUDED.exercises, updated_at=EXCLUDED.updated_at`

	_, err = r.pool.Exec(ctx, stmt,
		program.ID,
		program.UserID,
		program.Name,
		program.Type,
		program.Description,
		exercises,
		program.CreatedAt,
		program.UpdatedAt,
	)
	return err
}

func (r *ProgramStore) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM programs WHERE program_id=$1`, id)
	return err
}

func (r *ProgramStore) ListByUser(ctx context.Context, userID string) ([]domain.Program, error) {
	const query = `SELECT program_id, user_id, name, workout_type, description, exercises, created_at, updated_at
        FROM programs WHERE user_id=$1 ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.Program, 0)
	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *program)
	}
	return results, rows.Err()
}
