// Package postgres provides pgx-backed persistence for the points engine.
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a connection pool and exposes repository views over it. Each
// view implements one of the domain repository interfaces.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Users returns a UserRepository view of the store.
func (s *Store) Users() *UserStore { return &UserStore{pool: s.pool} }

// Sessions returns a SessionRepository view of the store.
func (s *Store) Sessions() *SessionStore { return &SessionStore{pool: s.pool} }

// Programs returns a ProgramRepository view of the store.
func (s *Store) Programs() *ProgramStore { return &ProgramStore{pool: s.pool} }

// Rewards returns a RewardRepository view of the store.
func (s *Store) Rewards() *RewardStore { return &RewardStore{pool: s.pool} }

// UserRewards returns a UserRewardRepository view of the store.
func (s *Store) UserRewards() *UserRewardStore { return &UserRewardStore{pool: s.pool} }

// Goals returns a GoalRepository view of the store.
func (s *Store) Goals() *GoalStore { return &GoalStore{pool: s.pool} }

// Ledger returns a LedgerRepository view of the store.
func (s *Store) Ledger() *LedgerStore { return &LedgerStore{pool: s.pool} }

// Stats returns a StatsRepository view of the store.
func (s *Store) Stats() *StatsStore { return &StatsStore{pool: s.pool} }

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func emptyIfNil(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
