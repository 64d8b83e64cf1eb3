// Package memory provides an in-memory store for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/fitpoints/internal/domain"
)

type weekKey struct {
	userID    string
	weekStart string
}

// Store holds every aggregate behind a single mutex, matching the core's
// single-writer model.
type Store struct {
	mu          sync.RWMutex
	users       map[string]domain.User
	sessions    map[string]domain.WorkoutSession
	programs    map[string]domain.Program
	rewards     map[string]domain.Reward
	userRewards map[string]domain.UserReward
	goals       map[string]domain.Goal
	awards      map[weekKey]int
	stats       map[string][]domain.WeeklyTypeStat
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		users:       make(map[string]domain.User),
		sessions:    make(map[string]domain.WorkoutSession),
		programs:    make(map[string]domain.Program),
		rewards:     make(map[string]domain.Reward),
		userRewards: make(map[string]domain.UserReward),
		goals:       make(map[string]domain.Goal),
		awards:      make(map[weekKey]int),
		stats:       make(map[string][]domain.WeeklyTypeStat),
	}
}

// SeedUser inserts a user, generating an id when missing. Returns the stored
// user.
func (s *Store) SeedUser(user domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	s.users[user.ID] = user
	return user
}

// Users

func (s *Store) Get(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return &user, nil
	}
	return nil, nil
}

func (s *Store) Save(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

// Sessions returns a SessionRepository view of the store.
func (s *Store) Sessions() *SessionStore { return &SessionStore{s} }

// Programs returns a ProgramRepository view of the store.
func (s *Store) Programs() *ProgramStore { return &ProgramStore{s} }

// Rewards returns a RewardRepository view of the store.
func (s *Store) Rewards() *RewardStore { return &RewardStore{s} }

// UserRewards returns a UserRewardRepository view of the store.
func (s *Store) UserRewards() *UserRewardStore { return &UserRewardStore{s} }

// Goals returns a GoalRepository view of the store.
func (s *Store) Goals() *GoalStore { return &GoalStore{s} }

// Ledger returns a LedgerRepository view of the store.
func (s *Store) Ledger() *LedgerStore { return &LedgerStore{s} }

// Stats returns a StatsRepository view of the store.
func (s *Store) Stats() *StatsStore { return &StatsStore{s} }

// SessionStore implements domain.SessionRepository.
type SessionStore struct{ s *Store }

func (r *SessionStore) Get(ctx context.Context, id string) (*domain.WorkoutSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if session, ok := r.s.sessions[id]; ok {
		return &session, nil
	}
	return nil, nil
}

func (r *SessionStore) Create(ctx context.Context, session *domain.WorkoutSession) error {
	return r.Save(ctx, session)
}

func (r *SessionStore) Save(ctx context.Context, session *domain.WorkoutSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[session.ID] = *session
	return nil
}

func (r *SessionStore) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return nil
}

func (r *SessionStore) ListByUser(ctx context.Context, userID string, cursor *domain.Cursor, limit int) ([]domain.WorkoutSession, *domain.Cursor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]domain.WorkoutSession, 0)
	for _, session := range r.s.sessions {
		if session.UserID == userID {
			all = append(all, session)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.After(all[j].Date)
		}
		return all[i].ID > all[j].ID
	})

	if cursor != nil {
		trimmed := all[:0]
		for _, session := range all {
			if session.Date.Before(cursor.Date) || (session.Date.Equal(cursor.Date) && session.ID < cursor.ID) {
				trimmed = append(trimmed, session)
			}
		}
		all = trimmed
	}

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	var next *domain.Cursor
	if limit > 0 && len(all) == limit {
		last := all[len(all)-1]
		next = &domain.Cursor{Date: last.Date, ID: last.ID}
	}
	return all, next, nil
}

func (r *SessionStore) ListByUserAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]domain.WorkoutSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]domain.WorkoutSession, 0)
	for _, session := range r.s.sessions {
		if session.UserID != userID {
			continue
		}
		if session.Date.Before(from) || session.Date.After(to) {
			continue
		}
		matched = append(matched, session)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })
	return matched, nil
}

// ProgramStore implements domain.ProgramRepository.
type ProgramStore struct{ s *Store }

func (r *ProgramStore) Get(ctx context.Context, id string) (*domain.Program, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if program, ok := r.s.programs[id]; ok {
		return &program, nil
	}
	return nil, nil
}

func (r *ProgramStore) Save(ctx context.Context, program *domain.Program) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.programs[program.ID] = *program
	return nil
}

func (r *ProgramStore) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.programs, id)
	return nil
}

func (r *ProgramStore) ListByUser(ctx context.Context, userID string) ([]domain.Program, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	programs := make([]domain.Program, 0)
	for _, program := range r.s.programs {
		if program.UserID == userID {
			programs = append(programs, program)
		}
	}
	sort.Slice(programs, func(i, j int) bool { return programs[i].Name < programs[j].Name })
	return programs, nil
}

// RewardStore implements domain.RewardRepository.
type RewardStore struct{ s *Store }

func (r *RewardStore) Get(ctx context.Context, id string) (*domain.Reward, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if reward, ok := r.s.rewards[id]; ok {
		return &reward, nil
	}
	return nil, nil
}

func (r *RewardStore) Save(ctx context.Context, reward *domain.Reward) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rewards[reward.ID] = *reward
	return nil
}

func (r *RewardStore) List(ctx context.Context) ([]domain.Reward, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rewards := make([]domain.Reward, 0, len(r.s.rewards))
	for _, reward := range r.s.rewards {
		rewards = append(rewards, reward)
	}
	sort.Slice(rewards, func(i, j int) bool {
		if rewards[i].Tier != rewards[j].Tier {
			return rewards[i].Tier < rewards[j].Tier
		}
		return rewards[i].Name < rewards[j].Name
	})
	return rewards, nil
}

// UserRewardStore implements domain.UserRewardRepository.
type UserRewardStore struct{ s *Store }

func (r *UserRewardStore) GetByUserAndReward(ctx context.Context, userID, rewardID string) (*domain.UserReward, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.userRewards {
		if row.UserID == userID && row.RewardID == rewardID {
			copied := row
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *UserRewardStore) ListByUser(ctx context.Context, userID string) ([]domain.UserReward, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := make([]domain.UserReward, 0)
	for _, row := range r.s.userRewards {
		if row.UserID == userID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (r *UserRewardStore) Save(ctx context.Context, userReward *domain.UserReward) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.userRewards[userReward.ID] = *userReward
	return nil
}

func (r *UserRewardStore) SaveUnlock(ctx context.Context, user *domain.User, userReward *domain.UserReward) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = *user
	r.s.userRewards[userReward.ID] = *userReward
	return nil
}

// GoalStore implements domain.GoalRepository.
type GoalStore struct{ s *Store }

func (r *GoalStore) Get(ctx context.Context, id string) (*domain.Goal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if goal, ok := r.s.goals[id]; ok {
		return &goal, nil
	}
	return nil, nil
}

func (r *GoalStore) Save(ctx context.Context, goal *domain.Goal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.goals[goal.ID] = *goal
	return nil
}

func (r *GoalStore) ListByUser(ctx context.Context, userID string) ([]domain.Goal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	goals := make([]domain.Goal, 0)
	for _, goal := range r.s.goals {
		if goal.UserID == userID {
			goals = append(goals, goal)
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].CreatedAt.Before(goals[j].CreatedAt) })
	return goals, nil
}

// LedgerStore implements domain.LedgerRepository.
type LedgerStore struct{ s *Store }

func (r *LedgerStore) GrantedPoints(ctx context.Context, userID string, weekStart time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.awards[ledgerKey(userID, weekStart)], nil
}

func (r *LedgerStore) AwardPoints(ctx context.Context, userID string, weekStart time.Time, points int) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[userID]
	if !ok {
		return nil, domain.ErrNotFound("user", userID)
	}

	r.s.awards[ledgerKey(userID, weekStart)] += points
	user.AddPoints(points)
	r.s.users[userID] = user
	return &user, nil
}

func ledgerKey(userID string, weekStart time.Time) weekKey {
	return weekKey{userID: userID, weekStart: weekStart.Format("2006-01-02")}
}

// StatsStore implements domain.StatsRepository.
type StatsStore struct{ s *Store }

func (r *StatsStore) Upsert(ctx context.Context, stat domain.WeeklyTypeStat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rows := r.s.stats[stat.UserID]
	for i, row := range rows {
		if row.WeekStart.Equal(stat.WeekStart) && row.WorkoutType == stat.WorkoutType {
			rows[i].SessionCount += stat.SessionCount
			rows[i].TotalMinutes += stat.TotalMinutes
			return nil
		}
	}
	r.s.stats[stat.UserID] = append(rows, stat)
	return nil
}

func (r *StatsStore) ListByUser(ctx context.Context, userID string, since time.Time) ([]domain.WeeklyTypeStat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]domain.WeeklyTypeStat, 0)
	for _, row := range r.s.stats[userID] {
		if row.WeekStart.Before(since) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].WeekStart.Equal(rows[j].WeekStart) {
			return rows[i].WeekStart.Before(rows[j].WeekStart)
		}
		return rows[i].WorkoutType < rows[j].WorkoutType
	})
	return rows, nil
}
