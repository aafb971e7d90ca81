/*
presets.go - Pre-built PAM contract terms

PURPOSE:
  Ready-to-use contract terms for common PAM shapes. These are the
  starting points the demo scenarios, the CLI examples and many tests
  build on.

AVAILABLE PRESETS:
  BulletBond:        annual-coupon bond, principal repaid at maturity
  CapitalizingLoan:  interest capitalizes into principal for an initial
                     phase, then pays out
  QuarterlyFloater:  quarterly coupons with quarterly rate resets

CUSTOMIZATION:
  Presets return plain ContractTerms values; adjust fields before
  scheduling. Real portfolios usually load terms through the factory
  package from JSON instead.

SEE ALSO:
  - factory/terms.go: JSON-based terms construction
  - api/scenarios.go: demo data built from these presets
*/
package pam

import (
	"github.com/shopspring/decimal"

	"github.com/warp/contract-engine/schedule"
)

// =============================================================================
// COMMON PAM SHAPES
// =============================================================================

// BulletBond returns a plain annual-coupon bond: full notional exchanged
// at the initial date, coupons every year, principal back at maturity.
func BulletBond(id string, initial, maturity schedule.TimePoint, notional, rate decimal.Decimal) ContractTerms {
	return ContractTerms{
		ContractID:          id,
		Currency:            "EUR",
		Role:                RoleAsset,
		StatusDate:          initial,
		InitialExchangeDate: initial,
		MaturityDate:        &maturity,
		NotionalPrincipal:   notional,
		NominalRate:         rate,
		InterestCycle:       &CycleSpec{Anchor: initial.AddYears(1), Period: "1Y"},
		DayCount:            "ACT/360",
	}
}

// CapitalizingLoan returns a loan whose interest accrues into principal
// until capitalizationEnd and pays out afterwards.
func CapitalizingLoan(id string, initial, maturity, capitalizationEnd schedule.TimePoint, notional, rate decimal.Decimal) ContractTerms {
	terms := BulletBond(id, initial, maturity, notional, rate)
	terms.InterestCycle = &CycleSpec{Anchor: initial.AddMonths(6), Period: "6M"}
	terms.CapitalizationEndDate = &capitalizationEnd
	return terms
}

// QuarterlyFloater returns a quarterly-coupon contract with quarterly
// rate resets. nextRate, when non-nil, marks the upcoming reset as
// already fixed.
func QuarterlyFloater(id string, initial, maturity schedule.TimePoint, notional, rate decimal.Decimal, nextRate *decimal.Decimal) ContractTerms {
	terms := BulletBond(id, initial, maturity, notional, rate)
	terms.InterestCycle = &CycleSpec{Anchor: initial.AddMonths(3), Period: "3M"}
	terms.RateResetCycle = &CycleSpec{Anchor: initial.AddMonths(3), Period: "3M"}
	terms.NextResetRate = nextRate
	terms.BusinessDayConvention = "MODIFIED_FOLLOWING"
	terms.Calendar = "TARGET"
	return terms
}
