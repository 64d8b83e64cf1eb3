package domain

import (
	"context"
	"time"
)

// WeeklyTypeStat is one row of the activity projection: session volume per
// (user, week, workout type). Maintained by the event consumer, read for
// display.
type WeeklyTypeStat struct {
	UserID       string
	WeekStart    time.Time
	WorkoutType  string
	SessionCount int
	TotalMinutes int
}

// StatsRepository persists the projection. Upsert adds the increment to an
// existing row or creates one.
type StatsRepository interface {
	Upsert(ctx context.Context, stat WeeklyTypeStat) error
	ListByUser(ctx context.Context, userID string, since time.Time) ([]WeeklyTypeStat, error)
}

// StatsService reads the weekly activity projection.
type StatsService struct {
	stats StatsRepository
}

// NewStatsService constructs a StatsService.
func NewStatsService(stats StatsRepository) *StatsService {
	return &StatsService{stats: stats}
}

// WeeklyStats returns the user's projection rows for the trailing number of
// weeks, including the current week.
func (s *StatsService) WeeklyStats(ctx context.Context, userID string, weeks int) ([]WeeklyTypeStat, error) {
	if weeks <= 0 {
		weeks = 1
	}
	since := StartOfWeek(time.Now()).AddDate(0, 0, -7*(weeks-1))
	return s.stats.ListByUser(ctx, userID, since)
}
