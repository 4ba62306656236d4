package deadline

import (
	"fmt"
	"time"
)

// Template describes a policy relative to an on-time date. Recurring
// assignments such as weekly labs share one template and differ only in
// their on-time dates.
//
// Offsets use time.ParseDuration syntax:
//   - EarlyBefore: how long before the on-time date the early tier closes
//   - LateAfter: how long after the on-time date the late tier (FIXED) or
//     the hard cutoff (VARIABLE) closes
type Template struct {
	Type             Type          `yaml:"type" validate:"required,oneof=NONE FIXED VARIABLE"`
	EarlyBefore      string        `yaml:"earlyBefore,omitempty"`
	EarlyPoints      *float64      `yaml:"earlyPoints,omitempty"`
	LateAfter        string        `yaml:"lateAfter,omitempty"`
	LatePoints       *float64      `yaml:"latePoints,omitempty"`
	LatePeriod       *PeriodConfig `yaml:"latePeriod,omitempty"`
	LatePeriodPoints *float64      `yaml:"latePeriodPoints,omitempty"`
}

// At instantiates the template for the given on-time date
func (t Template) At(onTime time.Time) (Info, error) {
	if t.Type == TypeNone {
		return None(), nil
	}

	c := Config{
		Type:             t.Type,
		OnTimeDate:       &onTime,
		EarlyPoints:      t.EarlyPoints,
		LatePoints:       t.LatePoints,
		LatePeriod:       t.LatePeriod,
		LatePeriodPoints: t.LatePeriodPoints,
	}

	if t.EarlyBefore != "" {
		d, err := time.ParseDuration(t.EarlyBefore)
		if err != nil {
			return Info{}, fmt.Errorf("%w: earlyBefore %q: %w", ErrInvalidPolicy, t.EarlyBefore, err)
		}
		early := onTime.Add(-d)
		c.EarlyDate = &early
	}

	if t.LateAfter != "" {
		d, err := time.ParseDuration(t.LateAfter)
		if err != nil {
			return Info{}, fmt.Errorf("%w: lateAfter %q: %w", ErrInvalidPolicy, t.LateAfter, err)
		}
		late := onTime.Add(d)
		c.LateDate = &late
	}

	return FromConfig(c)
}
