package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jakechorley/gradingcommander/pkg/core/deadline"
	"github.com/jakechorley/gradingcommander/pkg/db"
)

// GetEvents retrieves all gradable events ordered by name
func (d *DB) GetEvents(ctx context.Context) ([]db.GradableEvent, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, deadline
		FROM gradable_event
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query gradable events: %w", err)
	}
	defer rows.Close()

	var events []db.GradableEvent
	for rows.Next() {
		var event db.GradableEvent
		var policy []byte
		if err := rows.Scan(&event.ID, &event.Name, &policy); err != nil {
			return nil, fmt.Errorf("failed to scan gradable event: %w", err)
		}
		if err := decodeDeadline(policy, &event.Deadline); err != nil {
			return nil, fmt.Errorf("failed to decode deadline for event %s: %w", event.Name, err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gradable events: %w", err)
	}

	return events, nil
}

// GetEventByName retrieves a gradable event by its unique name
func (d *DB) GetEventByName(ctx context.Context, name string) (*db.GradableEvent, error) {
	var event db.GradableEvent
	var policy []byte
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, deadline
		FROM gradable_event
		WHERE name = $1
	`, name).Scan(&event.ID, &event.Name, &policy)
	if err != nil {
		return nil, fmt.Errorf("failed to get gradable event %s: %w", name, notFound(err))
	}

	if err := decodeDeadline(policy, &event.Deadline); err != nil {
		return nil, fmt.Errorf("failed to decode deadline for event %s: %w", name, err)
	}

	return &event, nil
}

// UpsertEvent inserts a gradable event or replaces the deadline of the event
// with the same name. event.ID is updated to the stored ID.
func (d *DB) UpsertEvent(ctx context.Context, event *db.GradableEvent) error {
	policy, err := json.Marshal(event.Deadline)
	if err != nil {
		return fmt.Errorf("failed to encode deadline for event %s: %w", event.Name, err)
	}

	err = d.pool.QueryRow(ctx, `
		INSERT INTO gradable_event (id, name, deadline)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET deadline = EXCLUDED.deadline
		RETURNING id
	`, event.ID, event.Name, policy).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert gradable event %s: %w", event.Name, err)
	}

	return nil
}

func decodeDeadline(policy []byte, info *deadline.Info) error {
	return json.Unmarshal(policy, info)
}
