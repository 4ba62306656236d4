package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/gradingcommander/internal/config"
	"github.com/jakechorley/gradingcommander/pkg/db"
)

// DefineEventsStore defines the database operations needed to define events
type DefineEventsStore interface {
	UpsertEvent(ctx context.Context, event *db.GradableEvent) error
}

// ExpandEvents lists every gradable event the config declares: the explicit
// events followed by each series occurrence, named "<prefix> <n>" from 1
func ExpandEvents(cfg *config.Config) ([]db.GradableEvent, error) {
	events := make([]db.GradableEvent, 0, len(cfg.GradableEvents))
	seen := make(map[string]bool)

	add := func(event db.GradableEvent) error {
		if seen[event.Name] {
			return fmt.Errorf("gradable event %q is declared more than once", event.Name)
		}
		seen[event.Name] = true
		events = append(events, event)
		return nil
	}

	for _, ge := range cfg.GradableEvents {
		if err := add(db.GradableEvent{Name: ge.Name, Deadline: ge.Deadline}); err != nil {
			return nil, err
		}
	}

	for i, series := range cfg.EventSeries {
		r, err := config.ParseSeriesRule(series.RRule)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule in eventSeries[%d]: %w", i, err)
		}

		for n, onTime := range r.All() {
			info, err := series.Deadline.At(onTime)
			if err != nil {
				return nil, fmt.Errorf("failed to build deadline for %s %d: %w", series.NamePrefix, n+1, err)
			}
			name := fmt.Sprintf("%s %d", series.NamePrefix, n+1)
			if err := add(db.GradableEvent{Name: name, Deadline: info}); err != nil {
				return nil, err
			}
		}
	}

	return events, nil
}

// DefineEvents syncs the configured gradable events into the database.
// Existing events keep their ID and have their deadline replaced.
func DefineEvents(ctx context.Context, store DefineEventsStore, cfg *config.Config, logger *zap.Logger) ([]db.GradableEvent, error) {
	events, err := ExpandEvents(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("Defining gradable events", zap.Int("count", len(events)))

	for i := range events {
		events[i].ID = uuid.New().String()
		if err := store.UpsertEvent(ctx, &events[i]); err != nil {
			return nil, fmt.Errorf("failed to save gradable event %s: %w", events[i].Name, err)
		}
		logger.Debug("Gradable event saved",
			zap.String("id", events[i].ID),
			zap.String("name", events[i].Name),
			zap.String("type", string(events[i].Deadline.Type())))
	}

	logger.Info("Gradable events defined", zap.Int("count", len(events)))

	return events, nil
}
