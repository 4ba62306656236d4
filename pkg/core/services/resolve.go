package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/gradingcommander/pkg/core/deadline"
	"github.com/jakechorley/gradingcommander/pkg/db"
)

// ResolveStore defines the database operations needed to resolve handins
type ResolveStore interface {
	GetEventByName(ctx context.Context, name string) (*db.GradableEvent, error)
	GetGroupByName(ctx context.Context, eventID, name string) (*db.Group, error)
	GetGroups(ctx context.Context, eventID string) ([]db.Group, error)
	GetHandin(ctx context.Context, eventID, groupID string) (*db.Handin, error)
	UpsertHandin(ctx context.Context, handin *db.Handin) error
	GetExtension(ctx context.Context, eventID, groupID string) (*db.Extension, error)
}

// HandinResolution is the outcome of resolving one group's handin
type HandinResolution struct {
	Group      db.Group
	Handin     *db.Handin
	Extension  *db.Extension
	Resolution deadline.Resolution

	// Earned and Adjusted are set when earned points were supplied
	Earned   *float64
	Adjusted *float64
}

// StatusLabel returns the display status, or NoHandinLabel
func (r *HandinResolution) StatusLabel() string {
	if r.Handin == nil {
		return NoHandinLabel
	}
	return r.Resolution.Status().String()
}

// Forfeit reports whether the handin loses every earned point but the
// earned points are not known, so PenaltyOrBonus cannot express it
func (r *HandinResolution) Forfeit() bool {
	return r.Handin != nil && r.Earned == nil && r.Resolution.Status() == deadline.StatusNCLate
}

// PenaltyOrBonus returns the point adjustment, using the earned points when
// known. Without them an NC late handin reports 0; check Forfeit.
func (r *HandinResolution) PenaltyOrBonus() float64 {
	if r.Handin == nil {
		return 0
	}
	earned := 0.0
	if r.Earned != nil {
		earned = *r.Earned
	}
	return r.Resolution.PenaltyOrBonus(earned)
}

// ResolveHandin classifies one group's handin against the event's deadline
// and any extension, and persists the status. earned may be nil.
func ResolveHandin(
	ctx context.Context,
	store ResolveStore,
	logger *zap.Logger,
	eventName string,
	groupName string,
	earned *float64,
) (*HandinResolution, error) {
	event, err := findEvent(ctx, store, eventName)
	if err != nil {
		return nil, err
	}

	group, err := findGroup(ctx, store, event, groupName)
	if err != nil {
		return nil, err
	}

	return resolveGroup(ctx, store, logger, event, *group, earned, time.Now())
}

// ResolveEvent resolves every group of an event, ordered by group name
func ResolveEvent(ctx context.Context, store ResolveStore, logger *zap.Logger, eventName string) ([]HandinResolution, error) {
	event, err := findEvent(ctx, store, eventName)
	if err != nil {
		return nil, err
	}

	groups, err := store.GetGroups(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}

	logger.Debug("Resolving event", zap.String("event", event.Name), zap.Int("groups", len(groups)))

	now := time.Now()
	results := make([]HandinResolution, 0, len(groups))
	counts := make(map[string]int)
	for _, group := range groups {
		res, err := resolveGroup(ctx, store, logger, event, group, nil, now)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
		counts[res.StatusLabel()]++
	}

	logger.Info("Event resolved",
		zap.String("event", event.Name),
		zap.Int("groups", len(results)),
		zap.Any("statuses", counts))

	return results, nil
}

func resolveGroup(
	ctx context.Context,
	store ResolveStore,
	logger *zap.Logger,
	event *db.GradableEvent,
	group db.Group,
	earned *float64,
	now time.Time,
) (*HandinResolution, error) {
	handin, err := optional(store.GetHandin(ctx, event.ID, group.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch handin for %s: %w", group.Name, err)
	}

	ext, err := optional(store.GetExtension(ctx, event.ID, group.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch extension for %s: %w", group.Name, err)
	}

	result := &HandinResolution{
		Group:     group,
		Handin:    handin,
		Extension: ext,
		Earned:    earned,
	}

	if handin == nil {
		logger.Debug("No handin", zap.String("group", group.Name))
		return result, nil
	}

	result.Resolution = event.Deadline.Apply(handin.ReceivedAt, toDeadlineExtension(ext))
	if result.Resolution.CutoffDiscarded() {
		logger.Warn("Extension discards the late cutoff",
			zap.String("event", event.Name),
			zap.String("group", group.Name),
			zap.Time("extension_on_time", ext.OnTime))
	}

	handin.Status = string(result.Resolution.Status())
	handin.PeriodsLate = result.Resolution.PeriodsLate()
	handin.ResolvedAt = &now
	if err := store.UpsertHandin(ctx, handin); err != nil {
		return nil, fmt.Errorf("failed to save resolution for %s: %w", group.Name, err)
	}

	if earned != nil {
		adjusted := *earned + result.Resolution.PenaltyOrBonus(*earned)
		result.Adjusted = &adjusted
	}

	logger.Debug("Handin resolved",
		zap.String("group", group.Name),
		zap.String("status", handin.Status),
		zap.Int("periods_late", handin.PeriodsLate),
		zap.Bool("extension", ext != nil))

	return result, nil
}
