/*
scheduler.go - PAM lifecycle event generation

PURPOSE:
  Orchestrates generation of all event candidates from contract terms,
  applies the reclassification and filtering rules, and produces the
  final ordered event list.

PIPELINE (each step feeds the next):
  1. Seed fixed events: IED, candidate MD
  2. Expand the five optional recurrence cycles into typed candidates
  3. Emit PRD at the purchase date
  4. Capitalization: IP at or before the capitalization end becomes IPCI
  5. Rate fixing: the earliest RR after the status date becomes RRF when
     the upcoming reset rate is already known
  6. Termination: drop candidates after the termination date, append TD
  7. Horizon cap and status-date floor
  8. Optional business-day adjustment of every surviving date
  9. Final sort by (date, kind priority)

INVARIANTS ON THE OUTPUT:
  - non-decreasing by date
  - every date within [StatusDate, TerminationDate ?? horizon]
  - an interest occurrence is either IP or IPCI, never both
  - termination before maturity removes MD and yields exactly one TD

FAILURE MODES:
  Structurally inconsistent terms fail with ErrInvalidTerms, unparsable
  cycle periods with ErrInvalidPeriod, unknown convention names with
  ErrUnsupportedConvention. No partial output: the schedule either fully
  succeeds or fails before producing events.

SEE ALSO:
  - types.go: Event, EventKind, ContractTerms
  - baseline.go: minimal canonical generator sharing the cycle expander
  - batch.go: parallel fan-out across contracts
*/
package pam

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/contract-engine/schedule"
)

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler generates lifecycle event sequences. It holds only the
// immutable business-day adjuster; every Schedule call is a pure function
// of its arguments, safe for unsynchronized concurrent use.
type Scheduler struct {
	adjuster *schedule.Adjuster
}

// NewScheduler wires a scheduler to a business-day adjuster. A nil
// adjuster falls back to the built-in calendars.
func NewScheduler(adjuster *schedule.Adjuster) *Scheduler {
	if adjuster == nil {
		adjuster = schedule.NewAdjuster(schedule.DefaultCalendars())
	}
	return &Scheduler{adjuster: adjuster}
}

// Schedule produces the ordered lifecycle events of the contract between
// its status date and the projection horizon.
func (s *Scheduler) Schedule(horizon schedule.TimePoint, terms ContractTerms) ([]Event, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	convention, err := schedule.ParseConvention(terms.BusinessDayConvention)
	if err != nil {
		return nil, err
	}

	// Step 1: fixed events.
	events := []Event{terms.newEvent(terms.InitialExchangeDate, EventIED)}
	if terms.MaturityDate != nil {
		events = append(events, terms.newEvent(*terms.MaturityDate, EventMD))
	}

	// Step 2: recurring cycles, bounded by the earlier of maturity and
	// horizon.
	upperBound := horizon
	if terms.MaturityDate != nil {
		upperBound = schedule.MinDate(*terms.MaturityDate, horizon)
	}
	events, err = terms.expandCycles(events, upperBound)
	if err != nil {
		return nil, err
	}

	// Step 3: purchase.
	if terms.PurchaseDate != nil {
		events = append(events, terms.newEvent(*terms.PurchaseDate, EventPRD))
	}

	// Step 4: capitalization retypes interest payments.
	events = applyCapitalization(events, terms.CapitalizationEndDate)

	// Step 5: a known upcoming reset rate fixes the next reset.
	if terms.NextResetRate != nil {
		events = applyRateFixing(events, terms.StatusDate)
	}

	// Step 6: termination truncates the contract and replaces maturity.
	if terms.TerminationDate != nil {
		events = applyTermination(events, terms)
	}

	// Step 7: horizon cap and status-date floor.
	effectiveHorizon := horizon
	if terms.TerminationDate != nil {
		effectiveHorizon = *terms.TerminationDate
	}
	events = filterEvents(events, func(e Event) bool {
		return e.Date.AfterOrEqual(terms.StatusDate) && e.Date.BeforeOrEqual(effectiveHorizon)
	})

	// Step 8: business-day adjustment can reorder originally distinct
	// dates, so it runs before the final sort.
	if convention != schedule.ConventionNone {
		adjusted := make([]Event, len(events))
		for i, e := range events {
			e.Date = s.adjuster.Adjust(e.Date, convention, terms.Calendar)
			adjusted[i] = e
		}
		events = adjusted
	}

	// Step 9: deterministic total order.
	SortEvents(events)
	return events, nil
}

// =============================================================================
// CANDIDATE GENERATION
// =============================================================================

func (t ContractTerms) newEvent(date schedule.TimePoint, kind EventKind) Event {
	return Event{Date: date, Kind: kind, Payoff: decimal.Zero, Currency: t.Currency}
}

// expandCycles appends one candidate per occurrence of each configured
// cycle, tagged with the cycle's native kind. Interest and redemption
// occurrences landing exactly on the maturity date are skipped: the
// seeded MD event owns that slot.
func (t ContractTerms) expandCycles(events []Event, upperBound schedule.TimePoint) ([]Event, error) {
	type stream struct {
		cycle        *CycleSpec
		kind         EventKind
		enabled      bool
		skipMaturity bool
	}
	streams := []stream{
		{t.InterestCycle, EventIP, true, true},
		{t.RedemptionCycle, EventPR, true, true},
		{t.RateResetCycle, EventRR, true, false},
		{t.FeeCycle, EventFP, true, false},
		{t.ScalingCycle, EventSC, t.ScalingEffect != "", false},
	}

	for _, st := range streams {
		if !st.enabled || !st.cycle.IsSet() {
			continue
		}
		dates, err := schedule.ExpandSpec(st.cycle.Anchor, st.cycle.Period, upperBound)
		if err != nil {
			return nil, err
		}
		for _, d := range dates {
			if st.skipMaturity && t.MaturityDate != nil && d.Equal(*t.MaturityDate) {
				continue
			}
			events = append(events, t.newEvent(d, st.kind))
		}
	}
	return events, nil
}

// =============================================================================
// RECLASSIFICATION
// =============================================================================

// applyCapitalization retypes every IP candidate at or before the
// capitalization end date to IPCI: the interest accrues into principal
// instead of being paid out. No plain IP survives at or before that date.
func applyCapitalization(events []Event, capitalizationEnd *schedule.TimePoint) []Event {
	if capitalizationEnd == nil {
		return events
	}
	out := make([]Event, len(events))
	for i, e := range events {
		if e.Kind == EventIP && e.Date.BeforeOrEqual(*capitalizationEnd) {
			e = e.WithKind(EventIPCI)
		}
		out[i] = e
	}
	return out
}

// applyRateFixing retypes the earliest RR candidate strictly after the
// status date to RRF. At most one RRF per schedule; later resets stay RR.
func applyRateFixing(events []Event, statusDate schedule.TimePoint) []Event {
	earliest := -1
	for i, e := range events {
		if e.Kind != EventRR || !e.Date.After(statusDate) {
			continue
		}
		if earliest < 0 || e.Date.Before(events[earliest].Date) {
			earliest = i
		}
	}
	if earliest < 0 {
		return events
	}
	out := make([]Event, len(events))
	copy(out, events)
	out[earliest] = out[earliest].WithKind(EventRRF)
	return out
}

// applyTermination drops every candidate after the termination date,
// removes maturity outright (TD supersedes MD on a terminated
// contract) and appends the single TD event.
func applyTermination(events []Event, terms ContractTerms) []Event {
	termination := *terms.TerminationDate
	out := filterEvents(events, func(e Event) bool {
		return e.Kind != EventMD && e.Date.BeforeOrEqual(termination)
	})
	return append(out, terms.newEvent(termination, EventTD))
}

// =============================================================================
// FILTERING AND ORDERING
// =============================================================================

func filterEvents(events []Event, keep func(Event) bool) []Event {
	out := events[:0:0]
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// SortEvents orders events ascending by date, breaking same-date ties by
// the fixed kind priority, making schedules byte-for-byte reproducible.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Kind.Rank() < events[j].Kind.Rank()
	})
}
