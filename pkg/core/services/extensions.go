package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/gradingcommander/pkg/core/deadline"
	"github.com/jakechorley/gradingcommander/pkg/db"
)

// ExtensionStore defines the database operations needed to grant and revoke
// extensions. Changing an extension re-resolves the group's handin.
type ExtensionStore interface {
	ResolveStore
	UpsertExtension(ctx context.Context, ext *db.Extension) error
	DeleteExtension(ctx context.Context, eventID, groupID string) error
}

// GrantExtension gives a group a new on-time date for an event, replacing any
// previous extension. With shiftDates the policy's other dates move by the
// same amount; without, only the new on-time date applies.
func GrantExtension(
	ctx context.Context,
	store ExtensionStore,
	logger *zap.Logger,
	eventName string,
	groupName string,
	onTime time.Time,
	shiftDates bool,
	note string,
) (*HandinResolution, error) {
	if onTime.IsZero() {
		return nil, fmt.Errorf("extension on-time date is required")
	}

	event, err := findEvent(ctx, store, eventName)
	if err != nil {
		return nil, err
	}
	if event.Deadline.Type() == deadline.TypeNone {
		return nil, fmt.Errorf("gradable event %s has no deadline to extend", event.Name)
	}

	group, err := findGroup(ctx, store, event, groupName)
	if err != nil {
		return nil, err
	}

	ext := &db.Extension{
		ID:         uuid.New().String(),
		EventID:    event.ID,
		GroupID:    group.ID,
		OnTime:     onTime,
		ShiftDates: shiftDates,
		Note:       note,
	}
	if err := store.UpsertExtension(ctx, ext); err != nil {
		return nil, fmt.Errorf("failed to save extension: %w", err)
	}

	logger.Info("Extension granted",
		zap.String("event", event.Name),
		zap.String("group", group.Name),
		zap.Time("on_time", onTime),
		zap.Bool("shift_dates", shiftDates))

	return resolveGroup(ctx, store, logger, event, *group, nil, time.Now())
}

// RevokeExtension removes a group's extension for an event
func RevokeExtension(
	ctx context.Context,
	store ExtensionStore,
	logger *zap.Logger,
	eventName string,
	groupName string,
) (*HandinResolution, error) {
	event, err := findEvent(ctx, store, eventName)
	if err != nil {
		return nil, err
	}

	group, err := findGroup(ctx, store, event, groupName)
	if err != nil {
		return nil, err
	}

	err = store.DeleteExtension(ctx, event.ID, group.ID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("group %s has no extension for %s: %w", group.Name, event.Name, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete extension: %w", err)
	}

	logger.Info("Extension revoked",
		zap.String("event", event.Name),
		zap.String("group", group.Name))

	return resolveGroup(ctx, store, logger, event, *group, nil, time.Now())
}
