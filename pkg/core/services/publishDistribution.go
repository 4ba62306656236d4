package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/gradingcommander/internal/config"
	"github.com/jakechorley/gradingcommander/pkg/core/model"
)

// UnassignedLabel is the TA column value for groups with no grader
const UnassignedLabel = "(unassigned)"

// PublishDistributionStore defines the database operations needed to publish
// a distribution with handin statuses
type PublishDistributionStore interface {
	ViewDistributionStore
	ResolveStore
}

// DistributionPublisher writes a distribution to a spreadsheet
type DistributionPublisher interface {
	PublishDistribution(spreadsheetID string, published *model.PublishedDistribution) error
}

// PublishDistribution resolves every handin of the event and publishes the
// committed distribution with each group's status to the configured
// spreadsheet. It returns what was published.
func PublishDistribution(
	ctx context.Context,
	store PublishDistributionStore,
	publisher DistributionPublisher,
	cfg *config.Config,
	logger *zap.Logger,
	eventName string,
) (*model.PublishedDistribution, error) {
	if cfg.DistributionSheetID == "" {
		return nil, fmt.Errorf("distributionSheetID is not configured")
	}

	view, err := ViewDistribution(ctx, store, logger, eventName)
	if err != nil {
		return nil, err
	}
	if len(view.Assignments) == 0 {
		return nil, fmt.Errorf("no distribution found for %s - please run distribute first", view.Event.Name)
	}

	resolutions, err := ResolveEvent(ctx, store, logger, eventName)
	if err != nil {
		return nil, err
	}

	published := BuildPublishedDistribution(view, resolutions)

	logger.Info("Publishing distribution",
		zap.String("event", published.Event),
		zap.String("spreadsheet_id", cfg.DistributionSheetID),
		zap.Int("rows", len(published.Rows)))

	if err := publisher.PublishDistribution(cfg.DistributionSheetID, published); err != nil {
		return nil, fmt.Errorf("failed to publish distribution: %w", err)
	}

	return published, nil
}

// BuildPublishedDistribution joins a distribution with handin resolutions.
// Unassigned groups come last under UnassignedLabel.
func BuildPublishedDistribution(view *DistributionView, resolutions []HandinResolution) *model.PublishedDistribution {
	byGroup := make(map[string]*HandinResolution, len(resolutions))
	for i := range resolutions {
		byGroup[resolutions[i].Group.ID] = &resolutions[i]
	}

	published := &model.PublishedDistribution{Event: view.Event.Name}
	addRow := func(ta string, groupID, groupName string, members []string) {
		row := model.PublishedRow{
			TA:      ta,
			Group:   groupName,
			Members: members,
			Status:  NoHandinLabel,
		}
		if res, ok := byGroup[groupID]; ok {
			row.Status = res.StatusLabel()
			row.PenaltyOrBonus = res.PenaltyOrBonus()
			row.Forfeit = res.Forfeit()
		}
		published.Rows = append(published.Rows, row)
	}

	for _, assignment := range view.Assignments {
		for _, g := range assignment.Groups {
			addRow(assignment.TALogin, g.ID, g.Name, g.Members)
		}
	}
	for _, g := range view.Unassigned {
		addRow(UnassignedLabel, g.ID, g.Name, g.Members)
	}

	return published
}
