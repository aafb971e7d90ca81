/*
Package pam implements lifecycle-event scheduling for Principal-at-Maturity
debt contracts in the ACTUS taxonomy.

PURPOSE:
  Given the static terms of a PAM contract, deterministically generate the
  ordered sequence of lifecycle events between the status date and a
  projection horizon. The package owns event creation; callers own the
  resulting sequence.

KEY CONCEPTS IN THIS FILE (types.go):
  - EventKind: closed set of lifecycle event kinds (IED, IP, MD, ...)
  - Event: immutable output value (date, kind, payoff placeholder, currency)
  - ContractTerms: immutable input, never mutated by the scheduler
  - ContractRole: sign convention for asset vs liability positions

DESIGN PRINCIPLES:
  1. Purity: scheduling is a pure function of (horizon, terms); no state
     survives between calls
  2. Value semantics: reclassifying an event means replacing it with a new
     value of a different kind, never mutating in place
  3. Precision: monetary attributes use decimal.Decimal, not floats

SEE ALSO:
  - scheduler.go: the event-generation pipeline
  - baseline.go: the minimal canonical generator
  - ../schedule: cycle expansion and business-day adjustment
*/
package pam

import (
	"github.com/shopspring/decimal"

	"github.com/warp/contract-engine/schedule"
)

// =============================================================================
// EVENT KIND - Closed tagged set
// =============================================================================

type EventKind string

const (
	EventIED  EventKind = "IED"  // Initial exchange
	EventPR   EventKind = "PR"   // Principal redemption
	EventPP   EventKind = "PP"   // Principal prepayment
	EventIP   EventKind = "IP"   // Interest payment
	EventIPCI EventKind = "IPCI" // Interest capitalization
	EventFP   EventKind = "FP"   // Fee payment
	EventDV   EventKind = "DV"   // Dividend
	EventRRF  EventKind = "RRF"  // Rate reset with known (fixed) rate
	EventRR   EventKind = "RR"   // Rate reset, rate to be determined
	EventMD   EventKind = "MD"   // Maturity
	EventTD   EventKind = "TD"   // Termination
	EventSC   EventKind = "SC"   // Scaling index revision
	EventPRD  EventKind = "PRD"  // Purchase
)

// kindRank fixes the total order among same-date events so schedules are
// byte-for-byte reproducible. Initiation sorts first, contract-ending
// events last; within a date, capitalization precedes plain interest and
// a fixed reset precedes an open one.
var kindRank = map[EventKind]int{
	EventIED:  0,
	EventPRD:  1,
	EventPP:   2,
	EventIPCI: 3,
	EventIP:   4,
	EventFP:   5,
	EventSC:   6,
	EventRRF:  7,
	EventRR:   8,
	EventPR:   9,
	EventDV:   10,
	EventMD:   11,
	EventTD:   12,
}

// Rank returns the tie-break priority of the kind. Unknown kinds sort last.
func (k EventKind) Rank() int {
	if r, ok := kindRank[k]; ok {
		return r
	}
	return len(kindRank)
}

// =============================================================================
// EVENT - Output value object
// =============================================================================

// Event is one lifecycle occurrence. Payoff is a placeholder filled in by
// the valuation component; the scheduler always emits zero.
type Event struct {
	Date     schedule.TimePoint
	Kind     EventKind
	Payoff   decimal.Decimal
	Currency string
}

// WithKind returns a copy of the event retyped to a different kind.
// Reclassification in the pipeline replaces values instead of mutating.
func (e Event) WithKind(kind EventKind) Event {
	return Event{Date: e.Date, Kind: kind, Payoff: e.Payoff, Currency: e.Currency}
}

// =============================================================================
// CONTRACT ROLE - Sign convention
// =============================================================================

type ContractRole string

const (
	RoleAsset     ContractRole = "RPA" // real position asset: lender
	RoleLiability ContractRole = "RPL" // real position liability: borrower
)

// Sign returns +1 for an asset position and -1 for a liability.
func (r ContractRole) Sign() decimal.Decimal {
	if r == RoleLiability {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// =============================================================================
// CYCLE SPEC - Anchor + recurrence pair for one event stream
// =============================================================================

// CycleSpec pairs an anchor date with a textual recurrence period. Both
// must be set for the stream to produce events; an absent cycle simply
// suppresses that stream.
type CycleSpec struct {
	Anchor schedule.TimePoint
	Period string
}

// IsSet reports whether the cycle is fully specified.
func (c *CycleSpec) IsSet() bool {
	return c != nil && !c.Anchor.IsZero() && c.Period != ""
}

// =============================================================================
// CONTRACT TERMS - Immutable scheduler input
// =============================================================================

// ContractTerms carries the static attributes of a PAM contract. The
// scheduler treats it as read-only; optional pointer fields that are nil
// suppress the behavior they control.
type ContractTerms struct {
	ContractID string
	Currency   string
	Role       ContractRole

	StatusDate          schedule.TimePoint
	InitialExchangeDate schedule.TimePoint
	MaturityDate        *schedule.TimePoint

	NotionalPrincipal decimal.Decimal
	NominalRate       decimal.Decimal

	// Recurring event streams
	InterestCycle   *CycleSpec
	RedemptionCycle *CycleSpec
	RateResetCycle  *CycleSpec
	FeeCycle        *CycleSpec
	ScalingCycle    *CycleSpec

	// Optional singleton dates
	PurchaseDate          *schedule.TimePoint
	TerminationDate       *schedule.TimePoint
	CapitalizationEndDate *schedule.TimePoint

	// Optional scalars
	FeeRate       *decimal.Decimal
	NextResetRate *decimal.Decimal
	ScalingEffect string // non-empty enables the scaling cycle

	// Business-day handling (empty convention = no adjustment)
	BusinessDayConvention string
	Calendar              string

	// Day count used by valuation, not by scheduling
	DayCount string
}

// Validate checks the structural invariants of the terms. It never
// rejects missing optional fields.
func (t ContractTerms) Validate() error {
	if t.InitialExchangeDate.IsZero() {
		return &schedule.TermsError{ContractID: t.ContractID, Field: "InitialExchangeDate", Reason: "required"}
	}
	if t.MaturityDate != nil && t.MaturityDate.Before(t.InitialExchangeDate) {
		return &schedule.TermsError{ContractID: t.ContractID, Field: "MaturityDate", Reason: "before initial exchange"}
	}
	if t.TerminationDate != nil && t.TerminationDate.Before(t.StatusDate) {
		return &schedule.TermsError{ContractID: t.ContractID, Field: "TerminationDate", Reason: "before status date"}
	}
	if _, err := schedule.ParseConvention(t.BusinessDayConvention); err != nil {
		return err
	}
	return nil
}
