package deadline

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// PeriodConfig is the persisted form of a Period. Clock uses
// time.ParseDuration syntax, e.g. "12h".
type PeriodConfig struct {
	Months int    `yaml:"months,omitempty" json:"months,omitempty"`
	Days   int    `yaml:"days,omitempty" json:"days,omitempty"`
	Clock  string `yaml:"clock,omitempty" json:"clock,omitempty"`
}

// Config is the flat persisted form of an Info, used for config files and the
// database. Fields that do not apply to the type must be left unset.
type Config struct {
	Type             Type          `yaml:"type" json:"type"`
	EarlyDate        *time.Time    `yaml:"earlyDate,omitempty" json:"earlyDate,omitempty"`
	EarlyPoints      *float64      `yaml:"earlyPoints,omitempty" json:"earlyPoints,omitempty"`
	OnTimeDate       *time.Time    `yaml:"onTimeDate,omitempty" json:"onTimeDate,omitempty"`
	LateDate         *time.Time    `yaml:"lateDate,omitempty" json:"lateDate,omitempty"`
	LatePoints       *float64      `yaml:"latePoints,omitempty" json:"latePoints,omitempty"`
	LatePeriod       *PeriodConfig `yaml:"latePeriod,omitempty" json:"latePeriod,omitempty"`
	LatePeriodPoints *float64      `yaml:"latePeriodPoints,omitempty" json:"latePeriodPoints,omitempty"`
}

func (pc PeriodConfig) period() (Period, error) {
	p := Period{Months: pc.Months, Days: pc.Days}
	if pc.Clock != "" {
		d, err := time.ParseDuration(pc.Clock)
		if err != nil {
			return Period{}, fmt.Errorf("%w: late period clock %q: %w", ErrInvalidPolicy, pc.Clock, err)
		}
		p.Clock = d
	}
	return p, nil
}

func periodConfig(p Period) *PeriodConfig {
	pc := &PeriodConfig{Months: p.Months, Days: p.Days}
	if p.Clock != 0 {
		pc.Clock = p.Clock.String()
	}
	return pc
}

// FromConfig builds an Info from its persisted form, running the same
// validation as the constructors
func FromConfig(c Config) (Info, error) {
	switch c.Type {
	case TypeNone, "":
		if c.OnTimeDate != nil || c.EarlyDate != nil || c.LateDate != nil || c.LatePeriod != nil {
			return Info{}, fmt.Errorf("%w: NONE policy must not set dates", ErrInvalidPolicy)
		}
		return None(), nil

	case TypeFixed:
		if c.LatePeriod != nil || c.LatePeriodPoints != nil {
			return Info{}, fmt.Errorf("%w: FIXED policy must not set a late period", ErrInvalidPolicy)
		}
		if c.OnTimeDate == nil {
			return Info{}, fmt.Errorf("%w: FIXED policy requires onTimeDate", ErrInvalidPolicy)
		}
		f := Fixed{OnTime: *c.OnTimeDate}
		if (c.EarlyDate == nil) != (c.EarlyPoints == nil) {
			return Info{}, fmt.Errorf("%w: earlyDate and earlyPoints must be set together", ErrInvalidPolicy)
		}
		if c.EarlyDate != nil {
			f.Early = &BonusTier{Date: *c.EarlyDate, Points: *c.EarlyPoints}
		}
		if (c.LateDate == nil) != (c.LatePoints == nil) {
			return Info{}, fmt.Errorf("%w: lateDate and latePoints must be set together", ErrInvalidPolicy)
		}
		if c.LateDate != nil {
			f.Late = &PenaltyTier{Date: *c.LateDate, Points: *c.LatePoints}
		}
		return NewFixed(f)

	case TypeVariable:
		if c.EarlyDate != nil || c.EarlyPoints != nil || c.LatePoints != nil {
			return Info{}, fmt.Errorf("%w: VARIABLE policy must not set early tier or flat late points", ErrInvalidPolicy)
		}
		if c.OnTimeDate == nil {
			return Info{}, fmt.Errorf("%w: VARIABLE policy requires onTimeDate", ErrInvalidPolicy)
		}
		v := Variable{OnTime: *c.OnTimeDate, Late: c.LateDate}
		if (c.LatePeriod == nil) != (c.LatePeriodPoints == nil) {
			return Info{}, fmt.Errorf("%w: latePeriod and latePeriodPoints must be set together", ErrInvalidPolicy)
		}
		if c.LatePeriod != nil {
			p, err := c.LatePeriod.period()
			if err != nil {
				return Info{}, err
			}
			v.Period = &LatePeriod{Period: p, Points: *c.LatePeriodPoints}
		}
		return NewVariable(v)
	}

	return Info{}, fmt.Errorf("%w: unknown type %q", ErrInvalidPolicy, c.Type)
}

// Config returns the persisted form of the policy
func (i Info) Config() Config {
	c := Config{Type: i.Type()}
	switch c.Type {
	case TypeFixed:
		f := i.fixed
		onTime := f.OnTime
		c.OnTimeDate = &onTime
		if f.Early != nil {
			date, points := f.Early.Date, f.Early.Points
			c.EarlyDate, c.EarlyPoints = &date, &points
		}
		if f.Late != nil {
			date, points := f.Late.Date, f.Late.Points
			c.LateDate, c.LatePoints = &date, &points
		}
	case TypeVariable:
		v := i.variable
		onTime := v.OnTime
		c.OnTimeDate = &onTime
		if v.Late != nil {
			late := *v.Late
			c.LateDate = &late
		}
		if v.Period != nil {
			points := v.Period.Points
			c.LatePeriod = periodConfig(v.Period.Period)
			c.LatePeriodPoints = &points
		}
	}
	return c
}

// MarshalYAML implements yaml.Marshaler
func (i Info) MarshalYAML() (interface{}, error) {
	return i.Config(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (i *Info) UnmarshalYAML(value *yaml.Node) error {
	var c Config
	if err := value.Decode(&c); err != nil {
		return fmt.Errorf("failed to decode deadline: %w", err)
	}
	info, err := FromConfig(c)
	if err != nil {
		return err
	}
	*i = info
	return nil
}

// MarshalJSON implements json.Marshaler
func (i Info) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Config())
}

// UnmarshalJSON implements json.Unmarshaler
func (i *Info) UnmarshalJSON(data []byte) error {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("failed to decode deadline: %w", err)
	}
	info, err := FromConfig(c)
	if err != nil {
		return err
	}
	*i = info
	return nil
}
