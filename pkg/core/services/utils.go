package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jakechorley/gradingcommander/pkg/core/deadline"
	"github.com/jakechorley/gradingcommander/pkg/db"
)

// NoHandinLabel is shown for groups that have not handed in
const NoHandinLabel = "No Handin"

type eventLookup interface {
	GetEventByName(ctx context.Context, name string) (*db.GradableEvent, error)
}

type groupLookup interface {
	GetGroupByName(ctx context.Context, eventID, name string) (*db.Group, error)
}

func findEvent(ctx context.Context, store eventLookup, name string) (*db.GradableEvent, error) {
	event, err := store.GetEventByName(ctx, name)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("gradable event %q not found - run defineEvents first: %w", name, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gradable event: %w", err)
	}
	return event, nil
}

func findGroup(ctx context.Context, store groupLookup, event *db.GradableEvent, name string) (*db.Group, error) {
	group, err := store.GetGroupByName(ctx, event.ID, name)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("group %q not found for %s: %w", name, event.Name, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group: %w", err)
	}
	return group, nil
}

// toDeadlineExtension converts a stored extension, nil if there is none
func toDeadlineExtension(ext *db.Extension) *deadline.Extension {
	if ext == nil {
		return nil
	}
	return &deadline.Extension{
		OnTime:     ext.OnTime,
		ShiftDates: ext.ShiftDates,
		Note:       ext.Note,
	}
}

// optional turns db.ErrNotFound into a nil result
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	return v, err
}
