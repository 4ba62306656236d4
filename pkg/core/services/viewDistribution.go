package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jakechorley/gradingcommander/pkg/db"
)

// ViewDistributionStore defines the database operations needed to read back
// a distribution
type ViewDistributionStore interface {
	GetEventByName(ctx context.Context, name string) (*db.GradableEvent, error)
	GetGroups(ctx context.Context, eventID string) ([]db.Group, error)
	GetDistribution(ctx context.Context, eventID string) ([]db.DistributionEntry, error)
}

// TAAssignment is one TA's share of a distribution
type TAAssignment struct {
	TALogin string
	Groups  []db.Group
}

// DistributionView is the committed distribution of an event
type DistributionView struct {
	Event       *db.GradableEvent
	Assignments []TAAssignment

	// Unassigned lists groups with no TA, e.g. after a forced commit or
	// groups imported after distributing
	Unassigned []db.Group
}

// ViewDistribution reads back an event's committed distribution, ordered by
// TA login and then group name
func ViewDistribution(ctx context.Context, store ViewDistributionStore, logger *zap.Logger, eventName string) (*DistributionView, error) {
	event, err := findEvent(ctx, store, eventName)
	if err != nil {
		return nil, err
	}

	groups, err := store.GetGroups(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}

	entries, err := store.GetDistribution(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch distribution: %w", err)
	}

	logger.Debug("Fetched distribution",
		zap.String("event", event.Name),
		zap.Int("groups", len(groups)),
		zap.Int("entries", len(entries)))

	byID := make(map[string]db.Group, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}

	assigned := make(map[string]bool, len(entries))
	byTA := make(map[string][]db.Group)
	for _, entry := range entries {
		group, ok := byID[entry.GroupID]
		if !ok {
			logger.Warn("Distribution references unknown group", zap.String("group_id", entry.GroupID))
			continue
		}
		byTA[entry.TALogin] = append(byTA[entry.TALogin], group)
		assigned[group.ID] = true
	}

	view := &DistributionView{Event: event}
	for login, taGroups := range byTA {
		sortGroups(taGroups)
		view.Assignments = append(view.Assignments, TAAssignment{TALogin: login, Groups: taGroups})
	}
	sort.Slice(view.Assignments, func(i, j int) bool {
		return view.Assignments[i].TALogin < view.Assignments[j].TALogin
	})

	for _, g := range groups {
		if !assigned[g.ID] {
			view.Unassigned = append(view.Unassigned, g)
		}
	}
	sortGroups(view.Unassigned)

	return view, nil
}

func sortGroups(groups []db.Group) {
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})
}
