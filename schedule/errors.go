/*
errors.go - Centralized error types for the date engine

PURPOSE:
  All error types of the scheduling core in one place for consistency and
  discoverability. Domain packages wrap these errors with contract context.

ERROR CATEGORIES:
  1. Terms errors - structurally inconsistent contract attributes
  2. Period errors - unparsable recurrence-period specifications
  3. Convention errors - unrecognized day-count / business-day conventions

USAGE:
  Callers branch on the sentinel:

    if errors.Is(err, schedule.ErrInvalidPeriod) {
        // reject the contract, keep processing the batch
    }

All failures are synchronous and deterministic; nothing here is retryable.

SEE ALSO:
  - cycle.go: returns ErrInvalidPeriod
  - calendar.go, daycount.go: return ErrUnsupportedConvention
  - pam/scheduler.go: returns ErrInvalidTerms before producing any output
*/
package schedule

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidTerms is returned when contract attributes are structurally
	// inconsistent, e.g. maturity before initial exchange.
	ErrInvalidTerms = errors.New("invalid contract terms")

	// ErrInvalidPeriod is returned when a recurrence-period specification
	// cannot be parsed or has a non-positive count.
	ErrInvalidPeriod = errors.New("invalid recurrence period")

	// ErrUnsupportedConvention is returned for an unrecognized day-count or
	// business-day convention name.
	ErrUnsupportedConvention = errors.New("unsupported convention")

	// ErrCalendarSourceUnsupported is returned by the calendar-loading
	// extension point; populating calendars from external sources is an
	// external responsibility.
	ErrCalendarSourceUnsupported = errors.New("calendar source not supported")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// TermsError reports which attribute combination made the terms invalid.
type TermsError struct {
	ContractID string
	Field      string
	Reason     string
}

func (e *TermsError) Error() string {
	return fmt.Sprintf("invalid terms for %s: %s (%s)", e.ContractID, e.Field, e.Reason)
}

func (e *TermsError) Unwrap() error { return ErrInvalidTerms }

// PeriodError reports the offending recurrence-period text.
type PeriodError struct {
	Spec   string
	Reason string
}

func (e *PeriodError) Error() string {
	return fmt.Sprintf("invalid recurrence period %q: %s", e.Spec, e.Reason)
}

func (e *PeriodError) Unwrap() error { return ErrInvalidPeriod }

// ConventionError reports an unrecognized convention name and its kind.
type ConventionError struct {
	Kind string // "business-day" or "day-count"
	Name string
}

func (e *ConventionError) Error() string {
	return fmt.Sprintf("unsupported %s convention %q", e.Kind, e.Name)
}

func (e *ConventionError) Unwrap() error { return ErrUnsupportedConvention }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsTermsRejection reports whether err means the contract itself is bad
// input, as opposed to an engine defect. Batch callers treat it as fatal
// for the one contract but not for the batch.
func IsTermsRejection(err error) bool {
	return errors.Is(err, ErrInvalidTerms) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrUnsupportedConvention)
}
