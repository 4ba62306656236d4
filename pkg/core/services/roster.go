package services

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/gradingcommander/pkg/core/model"
	"github.com/jakechorley/gradingcommander/pkg/db"
)

var validate = validator.New()

// ImportRosterStore defines the database operations needed to import a roster
type ImportRosterStore interface {
	GetEventByName(ctx context.Context, name string) (*db.GradableEvent, error)
	UpsertTA(ctx context.Context, ta db.TA) error
	ReplaceBlacklist(ctx context.Context, taLogin string, studentLogins []string) error
	UpsertGroup(ctx context.Context, group *db.Group) error
}

// ImportRosterResult summarises an import
type ImportRosterResult struct {
	TAs            int
	BlacklistedFor map[string]int
	GroupsByEvent  map[string]int
}

// LoadRosterFromPath reads and validates a YAML roster file
func LoadRosterFromPath(path string) (*model.Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var roster model.Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}

	if err := ValidateRoster(&roster); err != nil {
		return nil, err
	}

	return &roster, nil
}

// ValidateRoster checks required fields, that TA logins are unique and that
// no student is in two groups for the same event
func ValidateRoster(roster *model.Roster) error {
	if err := validate.Struct(roster); err != nil {
		return fmt.Errorf("roster validation failed: %w", err)
	}

	logins := make(map[string]bool, len(roster.TAs))
	for _, ta := range roster.TAs {
		if logins[ta.Login] {
			return fmt.Errorf("roster lists TA %s more than once", ta.Login)
		}
		logins[ta.Login] = true
	}

	for event, groups := range roster.Groups {
		groupOf := make(map[string]string)
		names := make(map[string]bool, len(groups))
		for _, group := range groups {
			if names[group.Name] {
				return fmt.Errorf("roster lists group %s more than once for %s", group.Name, event)
			}
			names[group.Name] = true

			for _, member := range group.Members {
				if other, ok := groupOf[member]; ok {
					return fmt.Errorf("student %s is in both %s and %s for %s", member, other, group.Name, event)
				}
				groupOf[member] = group.Name
			}
		}
	}

	return nil
}

// ImportRoster upserts the roster's TAs, replaces each TA's blacklist and
// upserts the groups of every event named in the roster. Events must already
// be defined.
func ImportRoster(ctx context.Context, store ImportRosterStore, logger *zap.Logger, roster *model.Roster) (*ImportRosterResult, error) {
	if err := ValidateRoster(roster); err != nil {
		return nil, err
	}

	logger.Debug("Importing roster",
		zap.Int("tas", len(roster.TAs)),
		zap.Int("events", len(roster.Groups)))

	result := &ImportRosterResult{
		BlacklistedFor: make(map[string]int, len(roster.TAs)),
		GroupsByEvent:  make(map[string]int, len(roster.Groups)),
	}

	for _, ta := range roster.TAs {
		if err := store.UpsertTA(ctx, db.TA{Login: ta.Login, Name: ta.Name}); err != nil {
			return nil, fmt.Errorf("failed to save TA %s: %w", ta.Login, err)
		}
		if err := store.ReplaceBlacklist(ctx, ta.Login, ta.Blacklist); err != nil {
			return nil, fmt.Errorf("failed to save blacklist for %s: %w", ta.Login, err)
		}
		result.TAs++
		result.BlacklistedFor[ta.Login] = len(ta.Blacklist)
	}

	eventNames := make([]string, 0, len(roster.Groups))
	for name := range roster.Groups {
		eventNames = append(eventNames, name)
	}
	sort.Strings(eventNames)

	for _, name := range eventNames {
		event, err := findEvent(ctx, store, name)
		if err != nil {
			return nil, err
		}

		for _, rg := range roster.Groups[name] {
			group := &db.Group{
				ID:      uuid.New().String(),
				EventID: event.ID,
				Name:    rg.Name,
				Members: rg.Members,
			}
			if err := store.UpsertGroup(ctx, group); err != nil {
				return nil, fmt.Errorf("failed to save group %s for %s: %w", rg.Name, name, err)
			}
		}

		result.GroupsByEvent[name] = len(roster.Groups[name])
		logger.Debug("Imported groups", zap.String("event", name), zap.Int("groups", len(roster.Groups[name])))
	}

	logger.Info("Roster imported",
		zap.Int("tas", result.TAs),
		zap.Int("events", len(result.GroupsByEvent)))

	return result, nil
}
