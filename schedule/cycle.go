/*
cycle.go - Recurrence periods and cycle expansion

PURPOSE:
  Turns an anchor date plus a recurrence period into the ordered sequence
  of occurrence dates bounded by an upper limit. This is the primitive the
  contract scheduler uses for every recurring event stream (interest,
  redemption, rate resets, fees, scaling).

KEY CONCEPTS:
  - RecurrencePeriod: a signed count plus a unit (months or years)
  - Cycle: a lazy, finite, restartable iterator over occurrence dates
  - Expand: eager convenience over Cycle

GRAMMAR:
  Contract data in the wild writes periods both with and without the
  leading duration designator: "3M" and "P3M" mean the same thing.
  ParsePeriod accepts both; String() always emits the bare form, which is
  the canonical encoding inside this engine.

OCCURRENCE RULE:
  The i-th occurrence is anchor + i*period (multiplied, not accumulated),
  so a month-end anchor cannot drift through repeated normalization.
  The sequence starts at the anchor itself and stops once an occurrence
  would exceed the upper bound; it is empty when the anchor is already
  past the bound.

SEE ALSO:
  - pam/scheduler.go: supplies the upper bound (min of maturity, horizon)
*/
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// RECURRENCE PERIOD - Count + unit
// =============================================================================

type PeriodUnit string

const (
	UnitMonth PeriodUnit = "M"
	UnitYear  PeriodUnit = "Y"
)

// RecurrencePeriod is the canonical structured form of a cycle period.
type RecurrencePeriod struct {
	Count int
	Unit  PeriodUnit
}

// Months returns the period length in months.
func (p RecurrencePeriod) Months() int {
	if p.Unit == UnitYear {
		return p.Count * 12
	}
	return p.Count
}

func (p RecurrencePeriod) String() string {
	return fmt.Sprintf("%d%s", p.Count, p.Unit)
}

// ParsePeriod parses a textual recurrence period. Both encodings seen in
// contract data are accepted: "3M" and "P3M", "1Y" and "P1Y". The count
// must be a positive integer.
func ParsePeriod(spec string) (RecurrencePeriod, error) {
	s := strings.TrimSpace(spec)
	s = strings.TrimPrefix(s, "P")
	if len(s) < 2 {
		return RecurrencePeriod{}, &PeriodError{Spec: spec, Reason: "too short"}
	}

	unit := PeriodUnit(strings.ToUpper(s[len(s)-1:]))
	if unit != UnitMonth && unit != UnitYear {
		return RecurrencePeriod{}, &PeriodError{Spec: spec, Reason: "unit must be M or Y"}
	}

	count, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return RecurrencePeriod{}, &PeriodError{Spec: spec, Reason: "count is not an integer"}
	}
	if count <= 0 {
		return RecurrencePeriod{}, &PeriodError{Spec: spec, Reason: "count must be positive"}
	}

	return RecurrencePeriod{Count: count, Unit: unit}, nil
}

// MustParsePeriod is ParsePeriod for literals in tests and presets.
func MustParsePeriod(spec string) RecurrencePeriod {
	p, err := ParsePeriod(spec)
	if err != nil {
		panic(err)
	}
	return p
}

// =============================================================================
// CYCLE - Lazy, finite, restartable occurrence iterator
// =============================================================================

// Cycle iterates the occurrences of a recurrence period from an anchor up
// to (and including) an upper bound. Termination is guaranteed by the
// bound: callers must supply a finite horizon.
type Cycle struct {
	Anchor     TimePoint
	Period     RecurrencePeriod
	UpperBound TimePoint

	i int
}

// NewCycle constructs a cycle. The period must already be validated
// (positive count); NewCycle rejects anything else.
func NewCycle(anchor TimePoint, period RecurrencePeriod, upperBound TimePoint) (*Cycle, error) {
	if period.Count <= 0 {
		return nil, &PeriodError{Spec: period.String(), Reason: "count must be positive"}
	}
	return &Cycle{Anchor: anchor, Period: period, UpperBound: upperBound}, nil
}

// Next returns the next occurrence, or false when the cycle is exhausted.
func (c *Cycle) Next() (TimePoint, bool) {
	occ := c.occurrence(c.i)
	if occ.After(c.UpperBound) {
		return TimePoint{}, false
	}
	c.i++
	return occ, true
}

// Reset rewinds the cycle to its anchor.
func (c *Cycle) Reset() { c.i = 0 }

func (c *Cycle) occurrence(i int) TimePoint {
	if c.Period.Unit == UnitYear {
		return c.Anchor.AddYears(i * c.Period.Count)
	}
	return c.Anchor.AddMonths(i * c.Period.Count)
}

// =============================================================================
// EXPAND - Eager convenience
// =============================================================================

// Expand returns all occurrences of the cycle as a slice, strictly
// increasing, starting at the anchor. Empty when anchor > upperBound.
func Expand(anchor TimePoint, period RecurrencePeriod, upperBound TimePoint) ([]TimePoint, error) {
	cycle, err := NewCycle(anchor, period, upperBound)
	if err != nil {
		return nil, err
	}
	var dates []TimePoint
	for {
		occ, ok := cycle.Next()
		if !ok {
			break
		}
		dates = append(dates, occ)
	}
	return dates, nil
}

// ExpandSpec parses the period text and expands in one step.
func ExpandSpec(anchor TimePoint, spec string, upperBound TimePoint) ([]TimePoint, error) {
	period, err := ParsePeriod(spec)
	if err != nil {
		return nil, err
	}
	return Expand(anchor, period, upperBound)
}
