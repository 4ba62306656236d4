package distributor

import "math/rand/v2"

// ComputeTargets returns how many groups each grader should receive.
//
// Modifiers are a zero-sum reallocation around the mean: they are removed
// from the total before averaging, then added back per TA. The remainder left
// by flooring the average is handed out one group each to randomly chosen TAs,
// so the targets sum to the total unless a large negative modifier had to be
// clamped at zero.
//
// Example:
//   - 10 groups, TAs a, b, c with modifiers a=+2
//   - Adjusted total: 10 - 2 = 8, average floor(8/3) = 2
//   - Targets before remainder: a=4, b=2, c=2 (sum 8)
//   - Remainder 2 goes to two of the three TAs at random
//
// A nil rng uses a randomly seeded source.
func ComputeTargets(graders []TA, modifiers map[string]int, total int, rng *rand.Rand) map[string]int {
	targets := make(map[string]int, len(graders))
	if len(graders) == 0 {
		return targets
	}
	rng = orRandom(rng)

	adjusted := total
	for _, ta := range graders {
		adjusted -= modifiers[ta.Login]
	}

	// Floor division, so a negative adjusted total still rounds down
	avg := adjusted / len(graders)
	if adjusted%len(graders) != 0 && adjusted < 0 {
		avg--
	}

	sum := 0
	for _, ta := range graders {
		target := max(avg+modifiers[ta.Login], 0)
		targets[ta.Login] = target
		sum += target
	}

	remainder := total - sum
	for remainder > 0 {
		for _, ta := range shuffled(graders, rng) {
			if remainder == 0 {
				break
			}
			targets[ta.Login]++
			remainder--
		}
	}

	return targets
}

// shuffled returns a shuffled copy of the graders
func shuffled(graders []TA, rng *rand.Rand) []TA {
	out := make([]TA, len(graders))
	copy(out, graders)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
