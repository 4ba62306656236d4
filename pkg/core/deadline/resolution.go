package deadline

import (
	"math"
	"time"
)

// Resolution is the timing classification of a single handin
type Resolution struct {
	status          TimeStatus
	delta           float64
	periodsLate     int
	cutoffDiscarded bool
}

// Status returns the timing category
func (r Resolution) Status() TimeStatus {
	return r.status
}

// PeriodsLate returns the number of started late periods for a variable policy
func (r Resolution) PeriodsLate() int {
	return r.periodsLate
}

// CutoffDiscarded reports whether a variable policy's late cutoff was ignored
// because an extension moved the on-time date
func (r Resolution) CutoffDiscarded() bool {
	return r.cutoffDiscarded
}

// PenaltyOrBonus returns the signed point adjustment for a handin that earned
// the given points. NC late handins forfeit everything they earned.
func (r Resolution) PenaltyOrBonus(earned float64) float64 {
	if r.status == StatusNCLate {
		// 0 - x keeps a zero score at +0
		return 0 - earned
	}
	return r.delta
}

// Apply classifies a handin received at the given time. A nil extension means
// the group has none. A zero received time resolves on time.
func (i Info) Apply(received time.Time, ext *Extension) Resolution {
	if received.IsZero() {
		return Resolution{status: StatusOnTime}
	}

	switch i.Type() {
	case TypeFixed:
		return applyFixed(*i.fixed, received, ext)
	case TypeVariable:
		return applyVariable(*i.variable, received, ext)
	}
	return Resolution{status: StatusOnTime}
}

func applyFixed(f Fixed, received time.Time, ext *Extension) Resolution {
	if ext != nil {
		if ext.ShiftDates {
			f = f.shifted(ext.OnTime.Sub(f.OnTime))
		} else {
			f = Fixed{OnTime: ext.OnTime}
		}
	}

	switch {
	case f.Early != nil && !received.After(f.Early.Date):
		return Resolution{status: StatusEarly, delta: f.Early.Points}
	case !received.After(f.OnTime):
		return Resolution{status: StatusOnTime}
	case f.Late != nil && !received.After(f.Late.Date):
		return Resolution{status: StatusLate, delta: f.Late.Points}
	}
	return Resolution{status: StatusNCLate}
}

func applyVariable(v Variable, received time.Time, ext *Extension) Resolution {
	onTime := v.OnTime
	cutoff := v.Late
	discarded := false

	// An extension replaces the period anchor and drops the cutoff regardless
	// of whether dates are shifted
	if ext != nil {
		onTime = ext.OnTime
		discarded = cutoff != nil
		cutoff = nil
	}

	if !received.After(onTime) {
		return Resolution{status: StatusOnTime, cutoffDiscarded: discarded}
	}

	if v.Period == nil {
		return Resolution{status: StatusNCLate, cutoffDiscarded: discarded}
	}

	n := periodsElapsed(onTime, received, v.Period.Period)
	if cutoff != nil && received.After(*cutoff) {
		return Resolution{status: StatusNCLate, periodsLate: n, cutoffDiscarded: discarded}
	}

	return Resolution{
		status:          StatusLate,
		delta:           float64(n) * v.Period.Points,
		periodsLate:     n,
		cutoffDiscarded: discarded,
	}
}

// periodsElapsed counts the started periods between anchor and t, where t is
// after anchor. A handin exactly on a period boundary belongs to the earlier
// period.
func periodsElapsed(anchor, t time.Time, p Period) int {
	if p.Months == 0 && p.Days == 0 {
		return max(stepsToCover(anchor, t, p.Clock), 1)
	}

	// Calendar periods vary in length, so estimate from the first one and
	// correct by stepping from the anchor
	n := max(stepsToCover(anchor, t, p.after(anchor, 1).Sub(anchor)), 1)
	for n > 1 && !t.After(p.after(anchor, n-1)) {
		n--
	}
	for t.After(p.after(anchor, n)) {
		n++
	}
	return n
}

// maxSteps bounds stepsToCover so the float path converts to int safely
const maxSteps = 1 << 53

// stepsToCover returns ceil((t - anchor) / d) for a positive d. Spans beyond
// the range of time.Duration are measured in seconds instead.
func stepsToCover(anchor, t time.Time, d time.Duration) int {
	elapsed := t.Sub(anchor)
	if elapsed < time.Duration(math.MaxInt64) {
		n := elapsed / d
		if elapsed%d != 0 {
			n++
		}
		return int(n)
	}

	steps := math.Ceil(float64(t.Unix()-anchor.Unix()) / d.Seconds())
	return int(min(steps, maxSteps))
}
