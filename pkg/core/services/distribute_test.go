package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/gradingcommander/pkg/core/deadline"
	"github.com/jakechorley/gradingcommander/pkg/db"
)

func distributeStore(groups int) *memStore {
	store := newMemStore()
	store.addEvent(db.GradableEvent{ID: "clock", Name: "Clock", Deadline: deadline.None()})
	store.addGroups("clock", groups)
	for _, login := range []string{"alice", "bob", "carol"} {
		store.tas[login] = db.TA{Login: login}
	}
	return store
}

func TestDistributeGroups_CommitsSuccessfulDistribution(t *testing.T) {
	store := distributeStore(9)

	result, err := DistributeGroups(context.Background(), store, zap.NewNop(), "Clock", nil, false, "seed-1", false, false)

	require.NoError(t, err)
	assert.True(t, result.Outcome.Success())
	assert.Empty(t, result.Violations)
	assert.True(t, result.Committed)
	assert.Equal(t, "seed-1", result.Seed)

	entries := store.distribution["clock"]
	require.Len(t, entries, 9)
	perTA := map[string]int{}
	for _, e := range entries {
		perTA[e.TALogin]++
		assert.NotEmpty(t, e.ID)
	}
	assert.Equal(t, map[string]int{"alice": 3, "bob": 3, "carol": 3}, perTA)
}

func TestDistributeGroups_DryRunDoesNotSave(t *testing.T) {
	store := distributeStore(4)

	result, err := DistributeGroups(context.Background(), store, zap.NewNop(), "Clock", nil, false, "", true, false)

	require.NoError(t, err)
	assert.False(t, result.Committed)
	assert.NotEmpty(t, result.Seed)
	assert.Empty(t, store.distribution)
}

func TestDistributeGroups_SameSeedSameDistribution(t *testing.T) {
	first, err := DistributeGroups(context.Background(), distributeStore(10), zap.NewNop(), "Clock", nil, false, "repeatable", true, false)
	require.NoError(t, err)
	second, err := DistributeGroups(context.Background(), distributeStore(10), zap.NewNop(), "Clock", nil, false, "repeatable", true, false)
	require.NoError(t, err)

	assert.Equal(t, first.Outcome.Distribution, second.Outcome.Distribution)
}

func TestDistributeGroups_AppliesModifiersAndBlacklists(t *testing.T) {
	store := distributeStore(6)
	store.blacklist["alice"] = []string{"s1", "s2"}

	result, err := DistributeGroups(context.Background(), store, zap.NewNop(), "Clock", map[string]int{"bob": 3}, false, "seed", false, false)

	require.NoError(t, err)
	// Adjusted total 3, average 1
	assert.Equal(t, 4, result.Outcome.Targets["bob"])
	for _, group := range result.Outcome.Distribution["alice"] {
		assert.NotContains(t, []string{"s1", "s2"}, group.Members[0])
	}
}

func TestDistributeGroups_UnresolvableNotSavedWithoutForce(t *testing.T) {
	store := distributeStore(3)
	for _, login := range []string{"alice", "bob", "carol"} {
		store.blacklist[login] = []string{"s1"}
	}

	result, err := DistributeGroups(context.Background(), store, zap.NewNop(), "Clock", nil, false, "seed", false, false)

	require.NoError(t, err)
	assert.False(t, result.Outcome.Success())
	require.Len(t, result.Outcome.Unresolvable, 1)
	assert.Equal(t, "g1", result.Outcome.Unresolvable[0].Name)
	assert.False(t, result.Committed)
	assert.Empty(t, store.distribution)
}

func TestDistributeGroups_ForceCommitSavesPartialDistribution(t *testing.T) {
	store := distributeStore(3)
	for _, login := range []string{"alice", "bob", "carol"} {
		store.blacklist[login] = []string{"s1"}
	}

	result, err := DistributeGroups(context.Background(), store, zap.NewNop(), "Clock", nil, false, "seed", false, true)

	require.NoError(t, err)
	assert.True(t, result.Committed)
	assert.Len(t, store.distribution["clock"], 2)
}

func TestDistributeGroups_NoTAs(t *testing.T) {
	store := distributeStore(3)
	store.tas = map[string]db.TA{}

	_, err := DistributeGroups(context.Background(), store, zap.NewNop(), "Clock", nil, false, "", false, false)
	assert.ErrorContains(t, err, "no TAs found")
}

func TestDistributeGroups_NoGroups(t *testing.T) {
	_, err := DistributeGroups(context.Background(), distributeStore(0), zap.NewNop(), "Clock", nil, false, "", false, false)
	assert.ErrorContains(t, err, "no groups found")
}

func TestDistributeGroups_SaveError(t *testing.T) {
	store := distributeStore(3)
	store.replaceDistributionErr = assert.AnError

	_, err := DistributeGroups(context.Background(), store, zap.NewNop(), "Clock", nil, false, "", false, false)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestDistributeGroups_CapacityConflictUnresolvableByDefault(t *testing.T) {
	store := distributeStore(3)
	store.blacklist["alice"] = []string{"s1", "s2"}
	store.blacklist["carol"] = []string{"s1", "s2"}

	result, err := DistributeGroups(context.Background(), store, zap.NewNop(), "Clock", map[string]int{"alice": 1, "bob": -2, "carol": 1}, false, "seed", false, false)

	require.NoError(t, err)
	// bob is the only grader for g1 and g2 but has a target of 0
	assert.Equal(t, 0, result.Outcome.Targets["bob"])
	assert.Len(t, result.Outcome.Unresolvable, 2)
	assert.False(t, result.Committed)
}

func TestDistributeGroups_AllowOverTarget(t *testing.T) {
	store := distributeStore(3)
	store.blacklist["alice"] = []string{"s1", "s2"}
	store.blacklist["carol"] = []string{"s1", "s2"}

	result, err := DistributeGroups(context.Background(), store, zap.NewNop(), "Clock", map[string]int{"alice": 1, "bob": -2, "carol": 1}, true, "seed", false, false)

	require.NoError(t, err)
	assert.True(t, result.Outcome.Success())
	assert.Equal(t, 2, result.Outcome.OverTarget["bob"])
	assert.True(t, result.Committed)
}

func TestSeededRand_Deterministic(t *testing.T) {
	a := seededRand("abc")
	b := seededRand("abc")
	c := seededRand("abd")

	x, y, z := a.Uint64(), b.Uint64(), c.Uint64()
	assert.Equal(t, x, y)
	assert.NotEqual(t, x, z)
}
