package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/fitpoints/internal/domain"
)

// RewardStore implements domain.RewardRepository.
type RewardStore struct {
	pool *pgxpool.Pool
}

const rewardColumns = `reward_id, name, description, tier, points_cost, image_url, created_at, updated_at`

func scanReward(row pgx.Row) (*domain.Reward, error) {
	var reward domain.Reward
	if err := row.Scan(&reward.ID, &reward.Name, &reward.Description, &reward.Tier, &reward.PointsCost, &reward.ImageURL, &reward.CreatedAt, &reward.UpdatedAt); err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *RewardStore) Get(ctx context.Context, id string) (*domain.Reward, error) {
	const query = `SELECT ` + rewardColumns + ` FROM rewards WHERE reward_id=$1`

	reward, err := scanReward(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return reward, nil
}

func (r *RewardStore) Save(ctx context.Context, reward *domain.Reward) error {
	const stmt = `INSERT INTO rewards (reward_id, name, description, tier, points_cost, image_url, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (reward_id) DO UPDATE
        SET name=EXCLUDED.name, description=EXCLUDED.description, tier=EXCLUDED.tier,
            points_cost=EXCLUDED.points_cost, image_url=EXCLUDED.image_url, updated_at=EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, stmt,
		reward.ID,
		reward.Name,
		reward.Description,
		reward.Tier,
		reward.PointsCost,
		reward.ImageURL,
		reward.CreatedAt,
		reward.UpdatedAt,
	)
	return err
}

// List returns the catalog ordered by tier then name. The unlock sweep relies
// on this ordering to try cheaper tiers first.
func (r *RewardStore) List(ctx context.Context) ([]domain.Reward, error) {
	const query = `SELECT ` + rewardColumns + ` FROM rewards ORDER BY tier ASC, name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.Reward, 0)
	for rows.Next() {
		reward, err := scanReward(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *reward)
	}
	return results, rows.Err()
}
