package consumer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/fitpoints/internal/domain"
	"example.com/fitpoints/internal/persistence/memory"
)

func statsMessage(t *testing.T, payload any, eventType string) Message {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return Message{
		Topic:     "session_events",
		EventType: eventType,
		Payload:   body,
	}
}

func TestStatsHandlerAggregatesByWeekAndType(t *testing.T) {
	store := memory.NewStore()
	handler := NewStatsHandler(store.Stats())

	wednesday := time.Date(2025, time.October, 29, 18, 0, 0, 0, time.UTC)
	weekStart := domain.StartOfWeek(wednesday)

	sessions := []struct {
		workoutType string
		duration    int
	}{
		{"running", 30},
		{"running", 45},
		{"yoga", 60},
	}
	for i, s := range sessions {
		payload := map[string]any{
			"session_id":   string(rune('a' + i)),
			"user_id":      "user-1",
			"workout_type": s.workoutType,
			"date":         wednesday.Add(time.Duration(i) * time.Hour),
			"duration_min": s.duration,
		}
		require.NoError(t, handler.Handle(context.Background(), statsMessage(t, payload, "session.logged")))
	}

	rows, err := store.Stats().ListByUser(context.Background(), "user-1", weekStart)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "running", rows[0].WorkoutType)
	require.Equal(t, 2, rows[0].SessionCount)
	require.Equal(t, 75, rows[0].TotalMinutes)

	require.Equal(t, "yoga", rows[1].WorkoutType)
	require.Equal(t, 1, rows[1].SessionCount)
	require.Equal(t, 60, rows[1].TotalMinutes)
}

func TestStatsHandlerIgnoresOtherEventTypes(t *testing.T) {
	store := memory.NewStore()
	handler := NewStatsHandler(store.Stats())

	msg := statsMessage(t, map[string]any{"user_id": "user-1"}, "points.awarded")
	require.NoError(t, handler.Handle(context.Background(), msg))

	rows, err := store.Stats().ListByUser(context.Background(), "user-1", time.Time{})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestStatsHandlerRejectsMalformedPayload(t *testing.T) {
	store := memory.NewStore()
	handler := NewStatsHandler(store.Stats())

	msg := Message{Topic: "session_events", EventType: "session.logged", Payload: []byte(`{`)}
	require.Error(t, handler.Handle(context.Background(), msg))
}
