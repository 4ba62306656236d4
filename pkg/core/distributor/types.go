package distributor

import (
	"math/rand/v2"
	"slices"
)

// TA is a grader taking part in a distribution round
type TA struct {
	Login string

	// Blacklist holds the logins of students this TA must not grade.
	// Blacklisted groups should be expanded to their members by the caller.
	Blacklist []string
}

// Group is a set of students sharing one handin
type Group struct {
	ID      string
	Name    string
	Members []string
}

// Input contains everything needed for one distribution round
type Input struct {
	// Graders taking part in this round
	Graders []TA

	// Modifiers shift a TA's target away from the average, keyed by login.
	// A TA with +2 grades two more groups than the average.
	Modifiers map[string]int

	// Groups to distribute
	Groups []Group

	// AllowOverTarget lets a blacklist-sensitive group go to a conflict-free
	// grader that has already reached their target. Without it such a group
	// is unresolvable.
	AllowOverTarget bool

	// Rand drives every shuffle. Pass a seeded source for reproducible runs;
	// nil uses a randomly seeded source.
	Rand *rand.Rand
}

// Outcome is the result of a distribution round
type Outcome struct {
	// Targets is the number of groups each TA was intended to grade
	Targets map[string]int

	// Distribution maps a TA login to the groups assigned to them.
	// Every grader in the input has an entry, possibly empty.
	Distribution map[string][]Group

	// Unresolvable contains groups that could not be placed with a
	// conflict-free grader with remaining capacity
	Unresolvable []Group

	// OverTarget counts sensitive groups a TA received beyond their target
	// under AllowOverTarget
	OverTarget map[string]int
}

// Success returns true if every group was assigned
func (o *Outcome) Success() bool {
	return len(o.Unresolvable) == 0
}

// AssignedCount returns the number of groups assigned to any TA
func (o *Outcome) AssignedCount() int {
	count := 0
	for _, groups := range o.Distribution {
		count += len(groups)
	}
	return count
}

// canGrade returns true if none of the group's members are on the TA's blacklist
func (ta TA) canGrade(group Group) bool {
	for _, member := range group.Members {
		if slices.Contains(ta.Blacklist, member) {
			return false
		}
	}
	return true
}
