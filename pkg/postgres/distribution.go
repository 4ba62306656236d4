package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/gradingcommander/pkg/db"
)

// GetDistribution retrieves the committed distribution for a gradable event
func (d *DB) GetDistribution(ctx context.Context, eventID string) ([]db.DistributionEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, event_id, ta_login, group_id
		FROM distribution
		WHERE event_id = $1
		ORDER BY ta_login, group_id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.DistributionEntry, error) {
		var entry db.DistributionEntry
		err := row.Scan(&entry.ID, &entry.EventID, &entry.TALogin, &entry.GroupID)
		return entry, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan distribution entry: %w", err)
	}

	return entries, nil
}

// ReplaceDistribution atomically replaces the distribution of a gradable
// event with entries
func (d *DB) ReplaceDistribution(ctx context.Context, eventID string, entries []db.DistributionEntry) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM distribution WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to clear distribution: %w", err)
	}

	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(`
			INSERT INTO distribution (id, event_id, ta_login, group_id)
			VALUES ($1, $2, $3, $4)
		`, entry.ID, eventID, entry.TALogin, entry.GroupID)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert distribution: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit distribution: %w", err)
	}
	return nil
}
