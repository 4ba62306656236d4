package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/gradingcommander/pkg/db"
)

const handinColumns = `event_id, group_id, received_at, status, periods_late, resolved_at`

// GetHandin retrieves the handin of a group for a gradable event
func (d *DB) GetHandin(ctx context.Context, eventID, groupID string) (*db.Handin, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+handinColumns+`
		FROM handin
		WHERE event_id = $1 AND group_id = $2
	`, eventID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query handin: %w", err)
	}

	handin, err := pgx.CollectExactlyOneRow(rows, scanHandin)
	if err != nil {
		return nil, fmt.Errorf("failed to get handin for group %s: %w", groupID, notFound(err))
	}

	return &handin, nil
}

// GetHandins retrieves all handins for a gradable event
func (d *DB) GetHandins(ctx context.Context, eventID string) ([]db.Handin, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+handinColumns+`
		FROM handin
		WHERE event_id = $1
		ORDER BY received_at
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query handins: %w", err)
	}

	handins, err := pgx.CollectRows(rows, scanHandin)
	if err != nil {
		return nil, fmt.Errorf("failed to scan handin: %w", err)
	}

	return handins, nil
}

// UpsertHandin records a handin, overwriting any previous handin and
// resolution for the same group and event
func (d *DB) UpsertHandin(ctx context.Context, handin *db.Handin) error {
	var status *string
	if handin.Status != "" {
		status = &handin.Status
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO handin (`+handinColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id, group_id) DO UPDATE SET
			received_at = EXCLUDED.received_at,
			status = EXCLUDED.status,
			periods_late = EXCLUDED.periods_late,
			resolved_at = EXCLUDED.resolved_at
	`, handin.EventID, handin.GroupID, handin.ReceivedAt, status, handin.PeriodsLate, handin.ResolvedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert handin for group %s: %w", handin.GroupID, err)
	}
	return nil
}

func scanHandin(row pgx.CollectableRow) (db.Handin, error) {
	var handin db.Handin
	var status *string
	err := row.Scan(&handin.EventID, &handin.GroupID, &handin.ReceivedAt, &status, &handin.PeriodsLate, &handin.ResolvedAt)
	if status != nil {
		handin.Status = *status
	}
	return handin, err
}
