package deadline

import (
	"errors"
	"time"
)

// ErrInvalidPolicy is returned when a deadline policy cannot be constructed
var ErrInvalidPolicy = errors.New("invalid deadline policy")

// Type identifies which deadline policy is active
type Type string

const (
	TypeNone     Type = "NONE"
	TypeFixed    Type = "FIXED"
	TypeVariable Type = "VARIABLE"
)

// TimeStatus is the timing category a handin resolves to
type TimeStatus string

const (
	StatusEarly  TimeStatus = "EARLY"
	StatusOnTime TimeStatus = "ON_TIME"
	StatusLate   TimeStatus = "LATE"
	StatusNCLate TimeStatus = "NC_LATE"
)

// String returns the label shown on grading sheets
func (s TimeStatus) String() string {
	switch s {
	case StatusEarly:
		return "Early"
	case StatusOnTime:
		return "On Time"
	case StatusLate:
		return "Late"
	case StatusNCLate:
		return "NC Late"
	}
	return string(s)
}

// BonusTier is the early handin tier of a fixed policy
type BonusTier struct {
	Date   time.Time `validate:"required"`
	Points float64   `validate:"gte=0"`
}

// PenaltyTier is the late handin tier of a fixed policy
type PenaltyTier struct {
	Date   time.Time `validate:"required"`
	Points float64   `validate:"lte=0"`
}

// Period is a calendar-aware length of time. Months and days are applied with
// time.AddDate so a day period stays a calendar day across DST changes.
type Period struct {
	Months int           `validate:"gte=0"`
	Days   int           `validate:"gte=0"`
	Clock  time.Duration `validate:"gte=0"`
}

// IsZero reports whether the period has no length
func (p Period) IsZero() bool {
	return p.Months == 0 && p.Days == 0 && p.Clock == 0
}

// after returns the time n periods after t. Periods are always stepped from the
// same anchor so month arithmetic does not drift.
func (p Period) after(t time.Time, n int) time.Time {
	base := t.AddDate(0, n*p.Months, n*p.Days)
	if p.Clock == 0 {
		return base
	}

	// Whole seconds and nanoseconds separately, so n*Clock cannot overflow
	// a time.Duration
	secs := int64(n) * int64(p.Clock/time.Second)
	nanos := int64(n) * int64(p.Clock%time.Second)
	return time.Unix(base.Unix()+secs, int64(base.Nanosecond())+nanos).In(base.Location())
}

// LatePeriod is the penalty accrued for each started period after the deadline
type LatePeriod struct {
	Period Period
	Points float64 `validate:"lte=0"`
}

// Fixed describes a policy with absolute early, on-time and late dates
type Fixed struct {
	Early  *BonusTier
	OnTime time.Time `validate:"required"`
	Late   *PenaltyTier
}

// shifted returns a copy with every date moved by d
func (f Fixed) shifted(d time.Duration) Fixed {
	out := Fixed{OnTime: f.OnTime.Add(d)}
	if f.Early != nil {
		out.Early = &BonusTier{Date: f.Early.Date.Add(d), Points: f.Early.Points}
	}
	if f.Late != nil {
		out.Late = &PenaltyTier{Date: f.Late.Date.Add(d), Points: f.Late.Points}
	}
	return out
}

// Variable describes a policy where the late penalty grows per elapsed period
type Variable struct {
	OnTime time.Time `validate:"required"`

	// Late is the hard cutoff after which handins are not collected
	Late *time.Time

	// Period is nil when any handin after the on-time date is NC late
	Period *LatePeriod
}

// Extension overrides the on-time date for a single group
type Extension struct {
	OnTime time.Time

	// ShiftDates moves every other policy date by the same amount as the
	// on-time date. When false the other dates are dropped.
	ShiftDates bool

	Note string
}
