package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/gradingcommander/pkg/db"
)

// GetTAs retrieves all TAs ordered by login
func (d *DB) GetTAs(ctx context.Context) ([]db.TA, error) {
	rows, err := d.pool.Query(ctx, `SELECT login, name FROM ta ORDER BY login`)
	if err != nil {
		return nil, fmt.Errorf("failed to query TAs: %w", err)
	}

	tas, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.TA, error) {
		var ta db.TA
		err := row.Scan(&ta.Login, &ta.Name)
		return ta, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan TA: %w", err)
	}

	return tas, nil
}

// UpsertTA inserts a TA or updates the name of an existing one
func (d *DB) UpsertTA(ctx context.Context, ta db.TA) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO ta (login, name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE SET name = EXCLUDED.name
	`, ta.Login, ta.Name)
	if err != nil {
		return fmt.Errorf("failed to upsert TA %s: %w", ta.Login, err)
	}
	return nil
}

// GetBlacklist retrieves every blacklist entry
func (d *DB) GetBlacklist(ctx context.Context) ([]db.BlacklistEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT ta_login, student_login
		FROM blacklist
		ORDER BY ta_login, student_login
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query blacklist: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.BlacklistEntry, error) {
		var entry db.BlacklistEntry
		err := row.Scan(&entry.TALogin, &entry.StudentLogin)
		return entry, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan blacklist entry: %w", err)
	}

	return entries, nil
}

// ReplaceBlacklist sets a TA's blacklist to exactly studentLogins
func (d *DB) ReplaceBlacklist(ctx context.Context, taLogin string, studentLogins []string) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM blacklist WHERE ta_login = $1`, taLogin); err != nil {
		return fmt.Errorf("failed to clear blacklist for %s: %w", taLogin, err)
	}

	rows := make([][]any, len(studentLogins))
	for i, student := range studentLogins {
		rows[i] = []any{taLogin, student}
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"blacklist"},
		[]string{"ta_login", "student_login"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to insert blacklist for %s: %w", taLogin, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit blacklist for %s: %w", taLogin, err)
	}
	return nil
}

// GetGroups retrieves the groups of a gradable event with their members
func (d *DB) GetGroups(ctx context.Context, eventID string) ([]db.Group, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT g.id, g.event_id, g.name,
		       COALESCE(array_agg(m.student_login ORDER BY m.student_login)
		                FILTER (WHERE m.student_login IS NOT NULL), '{}')
		FROM grading_group g
		LEFT JOIN group_member m ON m.group_id = g.id
		WHERE g.event_id = $1
		GROUP BY g.id
		ORDER BY g.name
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}

	groups, err := pgx.CollectRows(rows, scanGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to scan group: %w", err)
	}

	return groups, nil
}

// GetGroupByName retrieves one group of a gradable event by name
func (d *DB) GetGroupByName(ctx context.Context, eventID, name string) (*db.Group, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT g.id, g.event_id, g.name,
		       COALESCE(array_agg(m.student_login ORDER BY m.student_login)
		                FILTER (WHERE m.student_login IS NOT NULL), '{}')
		FROM grading_group g
		LEFT JOIN group_member m ON m.group_id = g.id
		WHERE g.event_id = $1 AND g.name = $2
		GROUP BY g.id
	`, eventID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query group %s: %w", name, err)
	}

	group, err := pgx.CollectExactlyOneRow(rows, scanGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to get group %s: %w", name, notFound(err))
	}

	return &group, nil
}

// UpsertGroup inserts a group or reuses the group with the same event and
// name, then replaces its membership. group.ID is updated to the stored ID.
func (d *DB) UpsertGroup(ctx context.Context, group *db.Group) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO grading_group (id, event_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, group.ID, group.EventID, group.Name).Scan(&group.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert group %s: %w", group.Name, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM group_member WHERE group_id = $1`, group.ID); err != nil {
		return fmt.Errorf("failed to clear members of group %s: %w", group.Name, err)
	}

	for _, member := range group.Members {
		_, err := tx.Exec(ctx, `
			INSERT INTO group_member (group_id, student_login)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, group.ID, member)
		if err != nil {
			return fmt.Errorf("failed to add %s to group %s: %w", member, group.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit group %s: %w", group.Name, err)
	}
	return nil
}

func scanGroup(row pgx.CollectableRow) (db.Group, error) {
	var group db.Group
	err := row.Scan(&group.ID, &group.EventID, &group.Name, &group.Members)
	return group, err
}
