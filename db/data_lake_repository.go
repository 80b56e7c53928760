package db

import (
	"context"
	"fmt"

	"parking/entities"
)

type EventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) EventRepository {
	if db == nil {
		panic("db is nil")
	}
	return EventRepository{
		db: db,
	}
}

// Create stores an event in the data lake. Redelivered events are ignored.
func (e EventRepository) Create(ctx context.Context, event entities.Event) error {
	_, err := e.db.Conn.ExecContext(ctx, `
		INSERT INTO
		    events (event_id, published_at, event_name, event_payload)
		VALUES
		    ($1, $2, $3, $4)
		ON CONFLICT (event_id) DO NOTHING`,
		event.EventID, event.PublishedAt.UTC(), event.EventName, string(event.EventPayload),
	)
	if err != nil {
		return fmt.Errorf("could not store event in data lake: %w", err)
	}

	return nil
}

func (e EventRepository) CountByName(ctx context.Context, eventName string) (int, error) {
	var count int
	err := e.db.Conn.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM events WHERE event_name = $1`, eventName)
	if err != nil {
		return 0, fmt.Errorf("could not count events: %w", err)
	}

	return count, nil
}
