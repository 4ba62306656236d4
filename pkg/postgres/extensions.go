package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/gradingcommander/pkg/db"
)

const extensionColumns = `id, event_id, group_id, on_time, shift_dates, note, created_at`

// GetExtension retrieves the extension granted to a group for a gradable event
func (d *DB) GetExtension(ctx context.Context, eventID, groupID string) (*db.Extension, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+extensionColumns+`
		FROM extension
		WHERE event_id = $1 AND group_id = $2
	`, eventID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query extension: %w", err)
	}

	ext, err := pgx.CollectExactlyOneRow(rows, scanExtension)
	if err != nil {
		return nil, fmt.Errorf("failed to get extension for group %s: %w", groupID, notFound(err))
	}

	return &ext, nil
}

// GetExtensions retrieves all extensions for a gradable event
func (d *DB) GetExtensions(ctx context.Context, eventID string) ([]db.Extension, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+extensionColumns+`
		FROM extension
		WHERE event_id = $1
		ORDER BY created_at
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query extensions: %w", err)
	}

	exts, err := pgx.CollectRows(rows, scanExtension)
	if err != nil {
		return nil, fmt.Errorf("failed to scan extension: %w", err)
	}

	return exts, nil
}

// UpsertExtension grants an extension, replacing any existing extension for
// the same group and event. ext.ID and ext.CreatedAt are updated to the
// stored values.
func (d *DB) UpsertExtension(ctx context.Context, ext *db.Extension) error {
	err := d.pool.QueryRow(ctx, `
		INSERT INTO extension (id, event_id, group_id, on_time, shift_dates, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id, group_id) DO UPDATE SET
			on_time = EXCLUDED.on_time,
			shift_dates = EXCLUDED.shift_dates,
			note = EXCLUDED.note,
			created_at = NOW()
		RETURNING id, created_at
	`, ext.ID, ext.EventID, ext.GroupID, ext.OnTime, ext.ShiftDates, ext.Note).Scan(&ext.ID, &ext.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert extension for group %s: %w", ext.GroupID, err)
	}
	return nil
}

// DeleteExtension revokes a group's extension. Returns db.ErrNotFound if the
// group had none.
func (d *DB) DeleteExtension(ctx context.Context, eventID, groupID string) error {
	tag, err := d.pool.Exec(ctx, `
		DELETE FROM extension
		WHERE event_id = $1 AND group_id = $2
	`, eventID, groupID)
	if err != nil {
		return fmt.Errorf("failed to delete extension for group %s: %w", groupID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete extension for group %s: %w", groupID, db.ErrNotFound)
	}
	return nil
}

func scanExtension(row pgx.CollectableRow) (db.Extension, error) {
	var ext db.Extension
	err := row.Scan(&ext.ID, &ext.EventID, &ext.GroupID, &ext.OnTime, &ext.ShiftDates, &ext.Note, &ext.CreatedAt)
	return ext, err
}
