/*
baseline.go - Minimal canonical event generator

PURPOSE:
  Produces only the canonical PAM event set: IED, evenly spaced interest
  occurrences straight from the anchor, and MD. No purchase, no
  reclassification, no termination, no status filtering, no business-day
  adjustment. Useful as a fast oracle: the full scheduler must agree with
  the baseline on every event they have in common for the same inputs.
*/
package pam

import (
	"github.com/warp/contract-engine/schedule"
)

// BaselineSchedule generates the minimal canonical event sequence of the
// contract. The maturity date is required: it bounds the interest cycle
// and closes the schedule.
func BaselineSchedule(terms ContractTerms) ([]Event, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	if terms.MaturityDate == nil {
		return nil, &schedule.TermsError{ContractID: terms.ContractID, Field: "MaturityDate", Reason: "required for baseline"}
	}
	maturity := *terms.MaturityDate

	events := []Event{terms.newEvent(terms.InitialExchangeDate, EventIED)}

	if terms.InterestCycle.IsSet() {
		dates, err := schedule.ExpandSpec(terms.InterestCycle.Anchor, terms.InterestCycle.Period, maturity)
		if err != nil {
			return nil, err
		}
		for _, d := range dates {
			// The maturity slot belongs to MD, exactly as in the full
			// scheduler.
			if d.Equal(maturity) {
				continue
			}
			events = append(events, terms.newEvent(d, EventIP))
		}
	}

	events = append(events, terms.newEvent(maturity, EventMD))
	SortEvents(events)
	return events, nil
}
