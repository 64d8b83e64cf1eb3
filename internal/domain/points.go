package domain

import (
	"context"
	"time"
)

// SessionsPerPoint is the award rule: one point per three completed sessions
// in a week, integer division, no carry-over between weeks.
const SessionsPerPoint = 3

// PointsService computes weekly point awards and applies them to the user's
// balance through the ledger.
type PointsService struct {
	users    UserRepository
	sessions SessionRepository
	ledger   LedgerRepository
}

// NewPointsService constructs a PointsService.
func NewPointsService(users UserRepository, sessions SessionRepository, ledger LedgerRepository) *PointsService {
	return &PointsService{users: users, sessions: sessions, ledger: ledger}
}

// CalculateWeeklyPoints returns floor(sessionCount/3) for the user's sessions
// dated within weekStart through weekStart+6 days inclusive. Zero sessions
// yield zero points; that is not an error. Persisted state is not mutated.
func (s *PointsService) CalculateWeeklyPoints(ctx context.Context, userID string, weekStart time.Time) (int, error) {
	sessions, err := s.sessions.ListByUserAndDateRange(ctx, userID, weekStart, WeekEnd(weekStart))
	if err != nil {
		return 0, err
	}
	return len(sessions) / SessionsPerPoint, nil
}

// AwardPointsForWeek grants the user any points earned for the week that have
// not been granted before. The ledger keeps a per-(user, week) marker of
// points already granted, so re-invoking with unchanged sessions awards
// nothing, and a later crossing in the same week awards only the difference.
// Returns the user, updated when points were granted.
func (s *PointsService) AwardPointsForWeek(ctx context.Context, userID string, weekStart time.Time) (*User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound("user", userID)
	}

	total, err := s.CalculateWeeklyPoints(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}

	granted, err := s.ledger.GrantedPoints(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}

	delta := total - granted
	if delta <= 0 {
		return user, nil
	}

	return s.ledger.AwardPoints(ctx, userID, weekStart, delta)
}
