package deadline

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Info is an immutable deadline policy. The zero value is a NONE policy.
type Info struct {
	kind     Type
	fixed    *Fixed
	variable *Variable
}

// None returns a policy without deadlines. Every handin is on time.
func None() Info {
	return Info{kind: TypeNone}
}

// NewFixed validates and builds a fixed deadline policy
func NewFixed(f Fixed) (Info, error) {
	if err := validate.Struct(f); err != nil {
		return Info{}, fmt.Errorf("%w: fixed: %w", ErrInvalidPolicy, err)
	}
	if f.Early != nil && f.Early.Date.After(f.OnTime) {
		return Info{}, fmt.Errorf("%w: early date %s is after on-time date %s",
			ErrInvalidPolicy, f.Early.Date.Format(time.RFC3339), f.OnTime.Format(time.RFC3339))
	}
	if f.Late != nil && f.Late.Date.Before(f.OnTime) {
		return Info{}, fmt.Errorf("%w: late date %s is before on-time date %s",
			ErrInvalidPolicy, f.Late.Date.Format(time.RFC3339), f.OnTime.Format(time.RFC3339))
	}

	// Copy so the caller cannot mutate the policy through its own pointers
	c := f.shifted(0)
	return Info{kind: TypeFixed, fixed: &c}, nil
}

// NewVariable validates and builds a variable deadline policy
func NewVariable(v Variable) (Info, error) {
	if err := validate.Struct(v); err != nil {
		return Info{}, fmt.Errorf("%w: variable: %w", ErrInvalidPolicy, err)
	}
	if v.Late != nil && v.Late.Before(v.OnTime) {
		return Info{}, fmt.Errorf("%w: late cutoff %s is before on-time date %s",
			ErrInvalidPolicy, v.Late.Format(time.RFC3339), v.OnTime.Format(time.RFC3339))
	}
	if v.Period != nil && v.Period.Period.IsZero() {
		return Info{}, fmt.Errorf("%w: late period must be positive", ErrInvalidPolicy)
	}

	c := Variable{OnTime: v.OnTime}
	if v.Late != nil {
		late := *v.Late
		c.Late = &late
	}
	if v.Period != nil {
		period := *v.Period
		c.Period = &period
	}
	return Info{kind: TypeVariable, variable: &c}, nil
}

// Type returns the active policy type
func (i Info) Type() Type {
	if i.kind == "" {
		return TypeNone
	}
	return i.kind
}

// OnTime returns the on-time date, or the zero time for a NONE policy
func (i Info) OnTime() time.Time {
	switch i.Type() {
	case TypeFixed:
		return i.fixed.OnTime
	case TypeVariable:
		return i.variable.OnTime
	}
	return time.Time{}
}

// Fixed returns a copy of the fixed policy, if that is the active type
func (i Info) Fixed() (Fixed, bool) {
	if i.Type() != TypeFixed {
		return Fixed{}, false
	}
	return i.fixed.shifted(0), true
}

// Variable returns a copy of the variable policy, if that is the active type
func (i Info) Variable() (Variable, bool) {
	if i.Type() != TypeVariable {
		return Variable{}, false
	}
	c := Variable{OnTime: i.variable.OnTime}
	if i.variable.Late != nil {
		late := *i.variable.Late
		c.Late = &late
	}
	if i.variable.Period != nil {
		period := *i.variable.Period
		c.Period = &period
	}
	return c, true
}
