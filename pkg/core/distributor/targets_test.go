package distributor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sumTargets(targets map[string]int) int {
	sum := 0
	for _, target := range targets {
		sum += target
	}
	return sum
}

func TestComputeTargets_EvenSplit(t *testing.T) {
	graders := []TA{{Login: "a"}, {Login: "b"}, {Login: "c"}}

	targets := ComputeTargets(graders, nil, 9, seeded(1))

	assert.Equal(t, map[string]int{"a": 3, "b": 3, "c": 3}, targets)
}

func TestComputeTargets_RemainderGoesToDistinctTAs(t *testing.T) {
	graders := []TA{{Login: "a"}, {Login: "b"}, {Login: "c"}}

	for seed := uint64(0); seed < 20; seed++ {
		targets := ComputeTargets(graders, nil, 11, seeded(seed))

		assert.Equal(t, 11, sumTargets(targets))
		fours := 0
		for _, target := range targets {
			assert.True(t, target == 3 || target == 4)
			if target == 4 {
				fours++
			}
		}
		assert.Equal(t, 2, fours)
	}
}

func TestComputeTargets_ModifiersAreZeroSumAroundMean(t *testing.T) {
	graders := []TA{{Login: "a"}, {Login: "b"}, {Login: "c"}}
	modifiers := map[string]int{"a": 2}

	// Example from the ComputeTargets doc comment
	targets := ComputeTargets(graders, modifiers, 10, seeded(5))

	assert.Equal(t, 10, sumTargets(targets))
	assert.GreaterOrEqual(t, targets["a"], 4)
	assert.LessOrEqual(t, targets["a"], 5)
	assert.GreaterOrEqual(t, targets["b"], 2)
	assert.GreaterOrEqual(t, targets["c"], 2)
}

func TestComputeTargets_NegativeTargetClampedToZero(t *testing.T) {
	graders := []TA{{Login: "a"}, {Login: "b"}}
	modifiers := map[string]int{"a": -10}

	targets := ComputeTargets(graders, modifiers, 4, seeded(1))

	// Adjusted total 14, average 7: a would be -3
	assert.Equal(t, 0, targets["a"])
	assert.Equal(t, 7, targets["b"])
}

func TestComputeTargets_NegativeAdjustedTotalFloors(t *testing.T) {
	graders := []TA{{Login: "a"}, {Login: "b"}}
	modifiers := map[string]int{"a": 5}

	// Adjusted total -1, floor(-1/2) = -1: a=4, b clamped to 0
	targets := ComputeTargets(graders, modifiers, 4, seeded(1))

	assert.Equal(t, 4, targets["a"])
	assert.Equal(t, 0, targets["b"])
}

func TestComputeTargets_NoGraders(t *testing.T) {
	targets := ComputeTargets(nil, nil, 5, seeded(1))
	assert.Empty(t, targets)
}

func TestComputeTargets_NilRand(t *testing.T) {
	graders := []TA{{Login: "a"}, {Login: "b"}, {Login: "c"}}

	targets := ComputeTargets(graders, nil, 10, nil)

	assert.Equal(t, 10, sumTargets(targets))
}
