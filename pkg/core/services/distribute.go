package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/gradingcommander/pkg/core/distributor"
	"github.com/jakechorley/gradingcommander/pkg/db"
)

// DistributeStore defines the database operations needed to distribute groups
type DistributeStore interface {
	GetEventByName(ctx context.Context, name string) (*db.GradableEvent, error)
	GetTAs(ctx context.Context) ([]db.TA, error)
	GetBlacklist(ctx context.Context) ([]db.BlacklistEntry, error)
	GetGroups(ctx context.Context, eventID string) ([]db.Group, error)
	ReplaceDistribution(ctx context.Context, eventID string, entries []db.DistributionEntry) error
}

// DistributeResult contains the distribution outcome
type DistributeResult struct {
	Event      *db.GradableEvent
	Seed       string
	Outcome    *distributor.Outcome
	Violations []distributor.Violation
	Committed  bool
}

// DistributeGroups assigns every group of an event to a TA.
// The same seed over the same roster reproduces the same distribution; an
// empty seed picks a fresh one, reported in the result.
// If allowOverTarget is true, a blacklist-sensitive group may go to a TA
// already at target instead of being unresolvable
// If dryRun is true, the distribution is not saved to the database
// If forceCommit is true, the distribution is saved even if some groups were unresolvable
func DistributeGroups(
	ctx context.Context,
	store DistributeStore,
	logger *zap.Logger,
	eventName string,
	modifiers map[string]int,
	allowOverTarget bool,
	seed string,
	dryRun bool,
	forceCommit bool,
) (*DistributeResult, error) {
	logger.Debug("Starting distribution",
		zap.String("event", eventName),
		zap.Bool("allow_over_target", allowOverTarget),
		zap.Bool("dry_run", dryRun),
		zap.Bool("force_commit", forceCommit))

	event, err := findEvent(ctx, store, eventName)
	if err != nil {
		return nil, err
	}

	graders, err := loadGraders(ctx, store)
	if err != nil {
		return nil, err
	}
	if len(graders) == 0 {
		return nil, fmt.Errorf("no TAs found - please run importRoster first")
	}

	dbGroups, err := store.GetGroups(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}
	if len(dbGroups) == 0 {
		return nil, fmt.Errorf("no groups found for %s - please run importRoster first", event.Name)
	}

	groups := make([]distributor.Group, len(dbGroups))
	for i, g := range dbGroups {
		groups[i] = distributor.Group{ID: g.ID, Name: g.Name, Members: g.Members}
	}

	for login := range modifiers {
		if !hasGrader(graders, login) {
			logger.Warn("Ignoring modifier for unknown TA", zap.String("login", login))
		}
	}

	if seed == "" {
		seed = uuid.New().String()
	}

	logger.Info("Running distribution algorithm",
		zap.Int("tas", len(graders)),
		zap.Int("groups", len(groups)),
		zap.String("seed", seed))

	outcome := distributor.Distribute(distributor.Input{
		Graders:         graders,
		Modifiers:       modifiers,
		Groups:          groups,
		AllowOverTarget: allowOverTarget,
		Rand:            seededRand(seed),
	})

	violations := distributor.Validate(outcome, graders, groups)

	logger.Info("Distribution completed",
		zap.Bool("success", outcome.Success()),
		zap.Int("assigned", outcome.AssignedCount()),
		zap.Int("unresolvable", len(outcome.Unresolvable)))

	for _, v := range violations {
		logger.Warn("Validation error",
			zap.String("ta", v.TALogin),
			zap.String("group", v.GroupID),
			zap.String("description", v.Description))
	}

	result := &DistributeResult{
		Event:      event,
		Seed:       seed,
		Outcome:    outcome,
		Violations: violations,
	}

	// Validation errors are never committed, even when forced
	shouldSave := !dryRun && len(violations) == 0 && (outcome.Success() || forceCommit)

	if shouldSave {
		entries := toDistributionEntries(event.ID, outcome)
		logger.Info("Saving distribution to database",
			zap.Int("entries", len(entries)),
			zap.Bool("forced", forceCommit && !outcome.Success()))
		if err := store.ReplaceDistribution(ctx, event.ID, entries); err != nil {
			return nil, fmt.Errorf("failed to save distribution: %w", err)
		}
		result.Committed = true
	} else if dryRun {
		logger.Info("Dry run mode - distribution not saved")
	} else {
		logger.Warn("Distribution unsuccessful - not saving to database (use forceCommit to save anyway)")
	}

	return result, nil
}

// loadGraders joins TAs with their blacklists
func loadGraders(ctx context.Context, store DistributeStore) ([]distributor.TA, error) {
	tas, err := store.GetTAs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch TAs: %w", err)
	}

	blacklist, err := store.GetBlacklist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blacklist: %w", err)
	}

	blacklisted := make(map[string][]string)
	for _, entry := range blacklist {
		blacklisted[entry.TALogin] = append(blacklisted[entry.TALogin], entry.StudentLogin)
	}

	graders := make([]distributor.TA, len(tas))
	for i, ta := range tas {
		graders[i] = distributor.TA{Login: ta.Login, Blacklist: blacklisted[ta.Login]}
	}
	return graders, nil
}

func hasGrader(graders []distributor.TA, login string) bool {
	for _, ta := range graders {
		if ta.Login == login {
			return true
		}
	}
	return false
}

// seededRand derives a PCG source from the seed string
func seededRand(seed string) *rand.Rand {
	a := fnv.New64a()
	a.Write([]byte(seed))
	b := fnv.New64()
	b.Write([]byte(seed))
	return rand.New(rand.NewPCG(a.Sum64(), b.Sum64()))
}

// toDistributionEntries flattens an outcome into rows ordered by TA login
func toDistributionEntries(eventID string, outcome *distributor.Outcome) []db.DistributionEntry {
	logins := make([]string, 0, len(outcome.Distribution))
	for login := range outcome.Distribution {
		logins = append(logins, login)
	}
	sort.Strings(logins)

	entries := make([]db.DistributionEntry, 0, outcome.AssignedCount())
	for _, login := range logins {
		for _, group := range outcome.Distribution[login] {
			entries = append(entries, db.DistributionEntry{
				ID:      uuid.New().String(),
				EventID: eventID,
				TALogin: login,
				GroupID: group.ID,
			})
		}
	}
	return entries
}
