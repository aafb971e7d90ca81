/*
cashflow.go - Payoff rules per event kind

PURPOSE:
  Walks an ordered PAM schedule and attaches the cash amount each event
  moves. This is the deterministic scalar sibling of the accelerator
  valuation kernels; same rules, decimal arithmetic.

PAYOFF RULES (before the contract-role sign):
  IED    -notional (money goes out to buy the position)
  IP     principal x rate x year fraction since the last accrual event
  IPCI   no cash; the accrued interest is added to principal
  MD/TD  repay current principal plus accrued interest since last accrual
  FP     fee rate x notional
  PRD    no cash in this core (purchase price settlement is external)
  RR/RRF/SC/PP/DV/...   no cash in this core

Principal is state: it starts at the notional and grows at each IPCI.
The nominal rate is held constant through resets; plugging reset rates
from a RateProvider into the walk is the valuation extension point.
*/
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/warp/contract-engine/pam"
	"github.com/warp/contract-engine/schedule"
)

// CashFlow is one dated cash amount derived from an event.
type CashFlow struct {
	Date   schedule.TimePoint
	Kind   pam.EventKind
	Amount Money
}

// CashFlows derives the cash amounts of an ordered event sequence under
// the contract's terms. The input events are not modified.
func CashFlows(events []pam.Event, terms pam.ContractTerms) ([]CashFlow, error) {
	dayCount, err := resolveDayCount(terms)
	if err != nil {
		return nil, err
	}

	sign := terms.Role.Sign()
	principal := terms.NotionalPrincipal
	lastAccrual := terms.InitialExchangeDate

	flows := make([]CashFlow, 0, len(events))
	for _, e := range events {
		amount := decimal.Zero

		switch e.Kind {
		case pam.EventIED:
			amount = principal.Neg()
			lastAccrual = e.Date

		case pam.EventIP:
			accrued, err := accruedInterest(principal, terms.NominalRate, lastAccrual, e.Date, dayCount)
			if err != nil {
				return nil, err
			}
			amount = accrued
			lastAccrual = e.Date

		case pam.EventIPCI:
			accrued, err := accruedInterest(principal, terms.NominalRate, lastAccrual, e.Date, dayCount)
			if err != nil {
				return nil, err
			}
			principal = principal.Add(accrued)
			lastAccrual = e.Date

		case pam.EventMD, pam.EventTD:
			accrued, err := accruedInterest(principal, terms.NominalRate, lastAccrual, e.Date, dayCount)
			if err != nil {
				return nil, err
			}
			amount = principal.Add(accrued)
			lastAccrual = e.Date

		case pam.EventFP:
			if terms.FeeRate != nil {
				amount = terms.NotionalPrincipal.Mul(*terms.FeeRate)
			}
		}

		flows = append(flows, CashFlow{
			Date:   e.Date,
			Kind:   e.Kind,
			Amount: Money{Value: amount.Mul(sign), Currency: terms.Currency},
		})
	}
	return flows, nil
}

func accruedInterest(principal, rate decimal.Decimal, from, to schedule.TimePoint, convention schedule.DayCountConvention) (decimal.Decimal, error) {
	fraction, err := schedule.YearFraction(from, to, convention)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return principal.Mul(rate).Mul(decimal.NewFromFloat(fraction)), nil
}

func resolveDayCount(terms pam.ContractTerms) (schedule.DayCountConvention, error) {
	name := terms.DayCount
	if name == "" {
		name = string(schedule.DayCountAct360)
	}
	return schedule.ParseDayCount(name)
}
