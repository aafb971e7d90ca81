/*
npv.go - Deterministic present value

PURPOSE:
  Discounts a contract's cash flows to an as-of date. Discount factors
  come from a RateProvider curve lookup; flows on or before the as-of
  date carry no remaining value and are skipped.

DISCOUNTING:
  df = (1 + r)^-t with t the ACT/365F year fraction from as-of to flow
  date and r the curve rate for the flow's tenor in whole months.
  Discount factors are dimensionless float64; the multiplication back
  onto money stays decimal.
*/
package valuation

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/warp/contract-engine/pam"
	"github.com/warp/contract-engine/schedule"
)

// =============================================================================
// VALUER
// =============================================================================

// Valuer discounts schedules against a rate curve. Immutable after
// construction; safe for concurrent use across contracts.
type Valuer struct {
	Rates RateProvider
	Curve string
}

func NewValuer(rates RateProvider, curve string) *Valuer {
	return &Valuer{Rates: rates, Curve: curve}
}

// Valuation is the result of valuing one contract schedule.
type Valuation struct {
	ContractID string
	AsOf       schedule.TimePoint
	NPV        Money
	Flows      []CashFlow
}

// Value derives cash flows from the events and discounts those strictly
// after asOf.
func (v *Valuer) Value(asOf schedule.TimePoint, events []pam.Event, terms pam.ContractTerms) (*Valuation, error) {
	flows, err := CashFlows(events, terms)
	if err != nil {
		return nil, err
	}

	npv := Zero(terms.Currency)
	for _, flow := range flows {
		if !flow.Date.After(asOf) || flow.Amount.IsZero() {
			continue
		}
		df, err := v.discountFactor(asOf, flow.Date)
		if err != nil {
			return nil, err
		}
		npv = npv.Add(flow.Amount.Mul(decimal.NewFromFloat(df)))
	}

	return &Valuation{
		ContractID: terms.ContractID,
		AsOf:       asOf,
		NPV:        npv,
		Flows:      flows,
	}, nil
}

func (v *Valuer) discountFactor(asOf, date schedule.TimePoint) (float64, error) {
	t, err := schedule.YearFraction(asOf, date, schedule.DayCountAct365F)
	if err != nil {
		return 0, err
	}
	if t <= 0 {
		return 1, nil
	}
	tenorMonths := int(math.Round(t * 12))
	if tenorMonths < 1 {
		tenorMonths = 1
	}
	rate, err := v.Rates.GetRate(v.Curve, tenorMonths, asOf)
	if err != nil {
		return 0, err
	}
	return math.Pow(1+rate, -t), nil
}
