package distributor

import (
	"fmt"
	"slices"
)

// Violation describes a problem found in a distribution outcome
type Violation struct {
	TALogin     string
	GroupID     string
	Description string
}

// Validate checks an outcome against the graders and groups it was built from.
// It reports groups that were lost or placed more than once, assignments to
// unknown graders and assignments that break a blacklist.
// An empty slice indicates the outcome is valid.
func Validate(outcome *Outcome, graders []TA, groups []Group) []Violation {
	violations := []Violation{}

	gradersByLogin := make(map[string]TA, len(graders))
	for _, ta := range graders {
		gradersByLogin[ta.Login] = ta
	}

	placements := make(map[string]int, len(groups))

	for login, assigned := range outcome.Distribution {
		ta, ok := gradersByLogin[login]
		if !ok {
			for _, group := range assigned {
				placements[group.ID]++
				violations = append(violations, Violation{
					TALogin:     login,
					GroupID:     group.ID,
					Description: "assigned to a grader who is not in this round",
				})
			}
			continue
		}

		for _, group := range assigned {
			placements[group.ID]++
			for _, member := range group.Members {
				if slices.Contains(ta.Blacklist, member) {
					violations = append(violations, Violation{
						TALogin:     login,
						GroupID:     group.ID,
						Description: fmt.Sprintf("%s has blacklisted group member %s", login, member),
					})
				}
			}
		}
	}

	for _, group := range outcome.Unresolvable {
		placements[group.ID]++
	}

	for _, group := range groups {
		switch count := placements[group.ID]; {
		case count == 0:
			violations = append(violations, Violation{
				GroupID:     group.ID,
				Description: "group was not distributed",
			})
		case count > 1:
			violations = append(violations, Violation{
				GroupID:     group.ID,
				Description: fmt.Sprintf("group was placed %d times", count),
			})
		}
	}

	return violations
}
