package db

import (
	"errors"
	"time"

	"github.com/jakechorley/gradingcommander/pkg/core/deadline"
)

// ErrNotFound is returned by single-record lookups that match nothing
var ErrNotFound = errors.New("record not found")

// GradableEvent represents a database gradable event record (an assignment
// part with its own handin and deadline)
type GradableEvent struct {
	ID       string
	Name     string
	Deadline deadline.Info
}

// TA represents a database grader record
type TA struct {
	Login string
	Name  string
}

// BlacklistEntry represents a student a TA must not grade
type BlacklistEntry struct {
	TALogin      string
	StudentLogin string
}

// Group represents a database group record with its members
type Group struct {
	ID      string
	EventID string
	Name    string
	Members []string
}

// Handin represents a group's handin for a gradable event. Status and
// PeriodsLate are filled in once the handin has been resolved.
type Handin struct {
	EventID     string
	GroupID     string
	ReceivedAt  time.Time
	Status      string
	PeriodsLate int
	ResolvedAt  *time.Time
}

// Extension represents a database extension record
type Extension struct {
	ID         string
	EventID    string
	GroupID    string
	OnTime     time.Time
	ShiftDates bool
	Note       string
	CreatedAt  time.Time
}

// DistributionEntry represents the assignment of one group to one TA
type DistributionEntry struct {
	ID      string
	EventID string
	TALogin string
	GroupID string
}
