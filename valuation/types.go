/*
Package valuation computes deterministic present values for PAM contract
schedules.

PURPOSE:
  The scheduler emits events with empty payoffs; this package fills them
  in (cashflow.go) and discounts them to an as-of date (npv.go). It is a
  plain, single-threaded consumer of the schedule the pam package
  produced - a scheduling failure is fatal for that contract but never
  for the rest of a batch.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: a decimal amount with a currency, fluent value-object ops
  - RateProvider: curve lookup interface (curve, tenor, as-of) -> rate
  - FlatRateProvider / TableRateProvider: deterministic implementations

DESIGN PRINCIPLES:
  1. Precision: money is decimal.Decimal end-to-end; only dimensionless
     ratios (year fractions, discount factors) are float64
  2. Determinism: both providers are pure lookups, safe for concurrent use

SEE ALSO:
  - cashflow.go: payoff rules per event kind
  - npv.go: discounting
*/
package valuation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/contract-engine/schedule"
)

// =============================================================================
// MONEY - Decimal amount with currency
// =============================================================================

type Money struct {
	Value    decimal.Decimal
	Currency string
}

func NewMoney(value float64, currency string) Money {
	return Money{Value: decimal.NewFromFloat(value), Currency: currency}
}

func Zero(currency string) Money {
	return Money{Value: decimal.Zero, Currency: currency}
}

func (m Money) Add(o Money) Money              { return Money{Value: m.Value.Add(o.Value), Currency: m.Currency} }
func (m Money) Sub(o Money) Money              { return Money{Value: m.Value.Sub(o.Value), Currency: m.Currency} }
func (m Money) Mul(s decimal.Decimal) Money    { return Money{Value: m.Value.Mul(s), Currency: m.Currency} }
func (m Money) Neg() Money                     { return Money{Value: m.Value.Neg(), Currency: m.Currency} }
func (m Money) IsZero() bool                   { return m.Value.IsZero() }
func (m Money) IsNegative() bool               { return m.Value.IsNegative() }

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Value.StringFixed(2), m.Currency)
}

// =============================================================================
// RATE PROVIDER - Curve lookup
// =============================================================================

// RateProvider resolves an annualized rate from a named curve for a tenor
// in months as of a date. Implementations must be deterministic.
type RateProvider interface {
	GetRate(curve string, tenorMonths int, asOf schedule.TimePoint) (float64, error)
}

// FlatRateProvider returns the same rate for every lookup.
type FlatRateProvider struct {
	Rate float64
}

func (f FlatRateProvider) GetRate(string, int, schedule.TimePoint) (float64, error) {
	return f.Rate, nil
}

// TableRateProvider resolves rates from a static curve -> tenor table,
// falling back to the nearest shorter tenor. Built once, then read-only.
type TableRateProvider struct {
	// Curves maps curve name -> tenor months -> rate.
	Curves map[string]map[int]float64
}

func (t TableRateProvider) GetRate(curve string, tenorMonths int, _ schedule.TimePoint) (float64, error) {
	tenors, ok := t.Curves[curve]
	if !ok {
		return 0, fmt.Errorf("unknown curve %q", curve)
	}
	if rate, ok := tenors[tenorMonths]; ok {
		return rate, nil
	}
	// Nearest shorter tenor; a lookup below the shortest pillar fails.
	best := -1
	for tenor := range tenors {
		if tenor <= tenorMonths && tenor > best {
			best = tenor
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("curve %q has no pillar at or below %d months", curve, tenorMonths)
	}
	return tenors[best], nil
}
