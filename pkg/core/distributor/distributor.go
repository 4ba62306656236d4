package distributor

import (
	"math/rand/v2"
	"slices"
)

// distributor holds the working state of a single distribution round
type distributor struct {
	graders         []TA
	rng             *rand.Rand
	allowOverTarget bool
	remaining       map[string]int
	outcome         *Outcome
}

// Distribute assigns every group to one grader.
//
// Groups with a member on some grader's blacklist are placed first, each with
// its own shuffle of the graders, so they get the widest choice of conflict
// free graders. The remaining groups then fill every grader up to their
// target. Shuffling at each step avoids favouring graders that appear early
// in the roster.
//
// Distribute never fails. Sensitive groups with no conflict-free grader
// left under target are returned in Outcome.Unresolvable and the caller
// decides whether the partial distribution is acceptable.
func Distribute(in Input) *Outcome {
	rng := orRandom(in.Rand)

	d := &distributor{
		graders:         slices.Clone(in.Graders),
		rng:             rng,
		allowOverTarget: in.AllowOverTarget,
		outcome: &Outcome{
			Distribution: make(map[string][]Group, len(in.Graders)),
			Unresolvable: []Group{},
			OverTarget:   make(map[string]int),
		},
	}
	for _, ta := range d.graders {
		d.outcome.Distribution[ta.Login] = []Group{}
	}

	// Nobody to grade anything
	if len(d.graders) == 0 {
		d.outcome.Targets = map[string]int{}
		for _, group := range in.Groups {
			d.outcome.Unresolvable = append(d.outcome.Unresolvable, cloneGroup(group))
		}
		return d.outcome
	}

	d.outcome.Targets = ComputeTargets(d.graders, in.Modifiers, len(in.Groups), rng)
	d.remaining = make(map[string]int, len(d.outcome.Targets))
	for login, target := range d.outcome.Targets {
		d.remaining[login] = target
	}

	sensitive, unconstrained := d.partition(in.Groups)

	d.distributeSensitive(sensitive)
	d.distributeUnconstrained(unconstrained)

	return d.outcome
}

// partition splits groups into those with a member on any grader's blacklist
// and those without
func (d *distributor) partition(groups []Group) (sensitive, unconstrained []Group) {
	for _, group := range groups {
		isSensitive := false
		for _, ta := range d.graders {
			if !ta.canGrade(group) {
				isSensitive = true
				break
			}
		}

		if isSensitive {
			sensitive = append(sensitive, group)
		} else {
			unconstrained = append(unconstrained, group)
		}
	}
	return sensitive, unconstrained
}

// distributeSensitive places each blacklist-sensitive group with the first
// conflict-free grader, in a fresh random order, that still has capacity.
// If every conflict-free grader is already at target the group is
// unresolvable, unless allowOverTarget lets it go to one of them anyway.
func (d *distributor) distributeSensitive(groups []Group) {
	order := slices.Clone(groups)
	d.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	for _, group := range order {
		var fallback *TA
		assigned := false

		for _, ta := range shuffled(d.graders, d.rng) {
			if !ta.canGrade(group) {
				continue
			}
			if d.remaining[ta.Login] > 0 {
				d.assign(ta.Login, group)
				assigned = true
				break
			}
			if fallback == nil {
				candidate := ta
				fallback = &candidate
			}
		}

		if assigned {
			continue
		}

		if fallback == nil || !d.allowOverTarget {
			d.outcome.Unresolvable = append(d.outcome.Unresolvable, cloneGroup(group))
			continue
		}

		d.assign(fallback.Login, group)
		d.outcome.OverTarget[fallback.Login]++
	}
}

// distributeUnconstrained fills each grader up to their remaining target in a
// single shuffled pass. Anything left over goes one group per grader to
// freshly shuffled graders until nothing remains.
func (d *distributor) distributeUnconstrained(groups []Group) {
	next := 0

	for _, ta := range shuffled(d.graders, d.rng) {
		for d.remaining[ta.Login] > 0 && next < len(groups) {
			d.assign(ta.Login, groups[next])
			next++
		}
	}

	for next < len(groups) {
		for _, ta := range shuffled(d.graders, d.rng) {
			if next == len(groups) {
				break
			}
			d.assign(ta.Login, groups[next])
			next++
		}
	}
}

func (d *distributor) assign(login string, group Group) {
	d.outcome.Distribution[login] = append(d.outcome.Distribution[login], cloneGroup(group))
	if d.remaining[login] > 0 {
		d.remaining[login]--
	}
}

// orRandom returns rng, or a randomly seeded source when rng is nil
func orRandom(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// cloneGroup copies a group so the outcome shares no slices with the input
func cloneGroup(group Group) Group {
	group.Members = slices.Clone(group.Members)
	return group
}
