package model

// RosterTA is a grader as listed in a roster file or sheet
type RosterTA struct {
	Login     string   `yaml:"login" validate:"required"`
	Name      string   `yaml:"name,omitempty"`
	Blacklist []string `yaml:"blacklist,omitempty"`
}

// RosterGroup is a group of students handing in together for one event.
// Single-student handins are groups of one.
type RosterGroup struct {
	Name    string   `yaml:"name" validate:"required"`
	Members []string `yaml:"members" validate:"required,min=1,dive,required"`
}

// Roster is the course staff and, per gradable event name, its groups
type Roster struct {
	TAs    []RosterTA               `yaml:"tas" validate:"dive"`
	Groups map[string][]RosterGroup `yaml:"groups,omitempty" validate:"dive,dive"`
}

// ForfeitLabel replaces the point adjustment of an NC late handin whose
// earned points are not known. The whole grade is lost.
const ForfeitLabel = "forfeit"

// PublishedRow is one group in a published distribution
type PublishedRow struct {
	TA             string
	Group          string
	Members        []string
	Status         string
	PenaltyOrBonus float64

	// Forfeit is set instead of PenaltyOrBonus for NC late handins graded
	// without earned points
	Forfeit bool
}

// PublishedDistribution is the sheet view of an event's distribution. Rows
// are ordered by TA, then group.
type PublishedDistribution struct {
	Event string
	Rows  []PublishedRow
}
