package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic         string
	SchemaSubject string
}

var eventCatalog = map[string]EventMetadata{
	"session.logged": {
		Topic:         "session_events",
		SchemaSubject: "session_events-value",
	},
	"points.awarded": {
		Topic:         "points_events",
		SchemaSubject: "points_events-value",
	},
	"goal.completed": {
		Topic:         "goal_events",
		SchemaSubject: "goal_events-value",
	},
	"reward.unlocked": {
		Topic:         "reward_events",
		SchemaSubject: "reward_events-value",
	},
}

// insertOutbox records an event row in the same transaction as the aggregate
// write. Events partition by user so per-user ordering survives delivery. The
// dedupe key identifies one occurrence; a replayed write inserts nothing.
func insertOutbox(ctx context.Context, tx pgx.Tx, aggregateType, aggregateID, userID, eventType, dedupeKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta := eventCatalog[eventType]
	if meta.Topic == "" {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	const stmt = `INSERT INTO outbox (aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (dedupe_key) DO NOTHING`

	_, err = tx.Exec(ctx, stmt,
		aggregateType,
		aggregateID,
		eventType,
		meta.Topic,
		meta.SchemaSubject,
		userID,
		body,
		dedupeKey,
	)
	return err
}
