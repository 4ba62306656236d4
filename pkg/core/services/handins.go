package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/gradingcommander/pkg/db"
)

// RecordHandinStore defines the database operations needed to record a handin
type RecordHandinStore interface {
	GetEventByName(ctx context.Context, name string) (*db.GradableEvent, error)
	GetGroupByName(ctx context.Context, eventID, name string) (*db.Group, error)
	UpsertHandin(ctx context.Context, handin *db.Handin) error
}

// RecordHandin stores when a group's handin was received. A later handin
// replaces the earlier one and clears its resolution.
func RecordHandin(
	ctx context.Context,
	store RecordHandinStore,
	logger *zap.Logger,
	eventName string,
	groupName string,
	received time.Time,
) (*db.Handin, error) {
	if received.IsZero() {
		return nil, fmt.Errorf("received time is required")
	}

	event, err := findEvent(ctx, store, eventName)
	if err != nil {
		return nil, err
	}

	group, err := findGroup(ctx, store, event, groupName)
	if err != nil {
		return nil, err
	}

	handin := &db.Handin{
		EventID:    event.ID,
		GroupID:    group.ID,
		ReceivedAt: received,
	}
	if err := store.UpsertHandin(ctx, handin); err != nil {
		return nil, fmt.Errorf("failed to save handin: %w", err)
	}

	logger.Info("Handin recorded",
		zap.String("event", event.Name),
		zap.String("group", group.Name),
		zap.Time("received_at", received))

	return handin, nil
}
