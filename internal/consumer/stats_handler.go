package consumer

import (
	"context"
	"encoding/json"

	"example.com/fitpoints/internal/domain"
	"example.com/fitpoints/internal/events"
)

// StatsHandler projects session.logged events into the weekly per-type
// aggregates that back the stats endpoint. Other event types pass through.
type StatsHandler struct {
	stats domain.StatsRepository
}

// NewStatsHandler constructs a handler over the stats repository.
func NewStatsHandler(stats domain.StatsRepository) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Handle folds one session into its (user, week, type) bucket.
func (h *StatsHandler) Handle(ctx context.Context, msg Message) error {
	if msg.EventType != "session.logged" {
		return nil
	}

	var payload events.SessionLogged
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return err
	}

	return h.stats.Upsert(ctx, domain.WeeklyTypeStat{
		UserID:       payload.UserID,
		WeekStart:    domain.StartOfWeek(payload.Date),
		WorkoutType:  payload.WorkoutType,
		SessionCount: 1,
		TotalMinutes: payload.DurationMin,
	})
}
