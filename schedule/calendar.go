/*
calendar.go - Business-day conventions and holiday calendars

PURPOSE:
  Adjusts a single calendar date to a business day under a named
  convention and a named holiday calendar. Fully self-contained: the
  contract scheduler calls Adjust per candidate date but the adjuster
  knows nothing about contracts.

CONVENTIONS:
  None               identity
  Following          step forward day-by-day to the next business day
  Preceding          step backward to the previous business day
  ModifiedFollowing  Following, unless that crosses a month boundary, in
                     which case Preceding from the ORIGINAL date - the
                     adjusted date never leaves the original month

CALENDARS:
  A calendar is a set of exact holiday dates keyed by name. The table is
  injected at construction (no package globals) so tests can run against
  a fixed deterministic set and multiple calendar sets can coexist in one
  process. An unknown calendar name, or the empty name, treats every
  non-weekend day as a business day. Weekend is always Saturday/Sunday.

LOADING:
  LoadCalendar is the extension point for pulling holiday data from an
  external source. The core does not implement it; it always returns
  ErrCalendarSourceUnsupported.

SEE ALSO:
  - pam/scheduler.go: optional per-contract adjustment pass
*/
package schedule

import (
	"strings"
	"time"
)

// =============================================================================
// BUSINESS-DAY CONVENTION
// =============================================================================

type BusinessDayConvention string

const (
	ConventionNone              BusinessDayConvention = "NONE"
	ConventionFollowing         BusinessDayConvention = "FOLLOWING"
	ConventionPreceding         BusinessDayConvention = "PRECEDING"
	ConventionModifiedFollowing BusinessDayConvention = "MODIFIED_FOLLOWING"
)

// ParseConvention maps a textual business-day convention name onto the
// typed constant. The empty string means no adjustment. Common short
// forms are accepted.
func ParseConvention(name string) (BusinessDayConvention, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "NONE", "NULL":
		return ConventionNone, nil
	case "FOLLOWING", "F", "SCF":
		return ConventionFollowing, nil
	case "PRECEDING", "P", "SCP":
		return ConventionPreceding, nil
	case "MODIFIED_FOLLOWING", "MODIFIEDFOLLOWING", "MF", "SCMF":
		return ConventionModifiedFollowing, nil
	default:
		return "", &ConventionError{Kind: "business-day", Name: name}
	}
}

// =============================================================================
// CALENDAR SET - Named holiday tables, immutable after construction
// =============================================================================

// CalendarSet maps calendar names onto holiday date sets. Construct once,
// never mutate: concurrent reads need no synchronization.
type CalendarSet struct {
	holidays map[string]map[TimePoint]struct{}
}

// NewCalendarSet builds an immutable calendar set from explicit holiday
// lists.
func NewCalendarSet(calendars map[string][]TimePoint) *CalendarSet {
	holidays := make(map[string]map[TimePoint]struct{}, len(calendars))
	for name, dates := range calendars {
		set := make(map[TimePoint]struct{}, len(dates))
		for _, d := range dates {
			set[NewTimePoint(d.Year(), d.Month(), d.Day())] = struct{}{}
		}
		holidays[strings.ToUpper(name)] = set
	}
	return &CalendarSet{holidays: holidays}
}

// IsHoliday reports whether date is a holiday in the named calendar.
// Unknown calendar names have no holidays.
func (cs *CalendarSet) IsHoliday(calendar string, date TimePoint) bool {
	set, ok := cs.holidays[strings.ToUpper(calendar)]
	if !ok {
		return false
	}
	_, hit := set[NewTimePoint(date.Year(), date.Month(), date.Day())]
	return hit
}

// Names returns the known calendar names.
func (cs *CalendarSet) Names() []string {
	names := make([]string, 0, len(cs.holidays))
	for name := range cs.holidays {
		names = append(names, name)
	}
	return names
}

// LoadCalendar is the extension point for populating a calendar from an
// external holiday source. External responsibility; the core rejects it.
func (cs *CalendarSet) LoadCalendar(source string) error {
	return ErrCalendarSourceUnsupported
}

// DefaultCalendars returns the built-in calendar table: a Eurozone TARGET
// calendar, a US calendar and a UK calendar, each seeded with a small
// fixed set of exact dates covering 2024-2027.
func DefaultCalendars() *CalendarSet {
	target := []TimePoint{}
	us := []TimePoint{}
	uk := []TimePoint{}
	for year := 2024; year <= 2027; year++ {
		newYear := NewTimePoint(year, time.January, 1)
		christmas := NewTimePoint(year, time.December, 25)
		boxing := NewTimePoint(year, time.December, 26)

		target = append(target,
			newYear,
			NewTimePoint(year, time.May, 1),
			christmas,
			boxing,
		)
		us = append(us,
			newYear,
			NewTimePoint(year, time.July, 4),
			christmas,
		)
		uk = append(uk,
			newYear,
			christmas,
			boxing,
		)
	}
	return NewCalendarSet(map[string][]TimePoint{
		"TARGET": target,
		"US":     us,
		"UK":     uk,
	})
}

// =============================================================================
// ADJUSTER - date x convention x calendar -> date
// =============================================================================

// Adjuster resolves candidate dates to business days against an injected
// calendar set.
type Adjuster struct {
	Calendars *CalendarSet
}

// NewAdjuster wires an adjuster to a calendar set. A nil set behaves like
// an empty one (weekends only).
func NewAdjuster(calendars *CalendarSet) *Adjuster {
	if calendars == nil {
		calendars = NewCalendarSet(nil)
	}
	return &Adjuster{Calendars: calendars}
}

// IsBusinessDay reports whether date is neither a weekend nor a holiday
// in the named calendar.
func (a *Adjuster) IsBusinessDay(date TimePoint, calendar string) bool {
	if date.IsWeekend() {
		return false
	}
	return !a.Calendars.IsHoliday(calendar, date)
}

// Adjust shifts date to a business day per the convention. Identity under
// ConventionNone and for dates that are already business days.
func (a *Adjuster) Adjust(date TimePoint, convention BusinessDayConvention, calendar string) TimePoint {
	switch convention {
	case ConventionNone:
		return date
	case ConventionFollowing:
		return a.roll(date, calendar, 1)
	case ConventionPreceding:
		return a.roll(date, calendar, -1)
	case ConventionModifiedFollowing:
		adjusted := a.roll(date, calendar, 1)
		if adjusted.Month() != date.Month() || adjusted.Year() != date.Year() {
			return a.roll(date, calendar, -1)
		}
		return adjusted
	default:
		return date
	}
}

func (a *Adjuster) roll(date TimePoint, calendar string, step int) TimePoint {
	current := date
	for !a.IsBusinessDay(current, calendar) {
		current = current.AddDays(step)
	}
	return current
}
