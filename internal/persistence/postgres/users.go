package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/fitpoints/internal/domain"
)

// UserStore implements domain.UserRepository.
type UserStore struct {
	pool *pgxpool.Pool
}

func (r *UserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT user_id, name, email, points, created_at, updated_at
        FROM users WHERE user_id=$1`

	row := r.pool.QueryRow(ctx, query, id)
	var user domain.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Points, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserStore) Save(ctx context.Context, user *domain.User) error {
	const stmt = `INSERT INTO users (user_id, name, email, points, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (user_id) DO UPDATE
        SET name=EXCLUDED.name, email=EXCLUDED.email, points=EXCLUDED.points, updated_at=EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, stmt,
		user.ID,
		user.Name,
		user.Email,
		user.Points,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return err
}
