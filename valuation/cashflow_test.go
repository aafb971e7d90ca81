/*
cashflow_test.go - Payoff rule verification

PURPOSE:
  Hand-computed cash flows over small event sequences. The 30/360
  convention keeps the year fractions exact so every expected amount is
  an exact decimal, never a float comparison.
*/
package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/contract-engine/pam"
	"github.com/warp/contract-engine/schedule"
)

func d(s string) schedule.TimePoint {
	return schedule.MustParseDate(s)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func bulletTerms() pam.ContractTerms {
	maturity := d("2025-01-01")
	return pam.ContractTerms{
		ContractID:          "cf-1",
		Currency:            "EUR",
		Role:                pam.RoleAsset,
		StatusDate:          d("2024-01-01"),
		InitialExchangeDate: d("2024-01-01"),
		MaturityDate:        &maturity,
		NotionalPrincipal:   decimal.NewFromInt(1000),
		NominalRate:         dec("0.05"),
		DayCount:            "30/360",
	}
}

func event(date string, kind pam.EventKind) pam.Event {
	return pam.Event{Date: d(date), Kind: kind, Payoff: decimal.Zero, Currency: "EUR"}
}

func assertAmount(t *testing.T, want string, flow CashFlow) {
	t.Helper()
	assert.True(t, flow.Amount.Value.Equal(dec(want)),
		"%s@%s amount = %s, want %s", flow.Kind, flow.Date, flow.Amount.Value, want)
}

func TestCashFlows_BulletBond(t *testing.T) {
	// GIVEN: initiation, one semiannual coupon, repayment at maturity
	events := []pam.Event{
		event("2024-01-01", pam.EventIED),
		event("2024-07-01", pam.EventIP),
		event("2025-01-01", pam.EventMD),
	}

	flows, err := CashFlows(events, bulletTerms())
	require.NoError(t, err)
	require.Len(t, flows, 3)

	// THEN: -1000 out, 1000 x 5% x 0.5 = 25 coupon, 1025 back
	assertAmount(t, "-1000", flows[0])
	assertAmount(t, "25", flows[1])
	assertAmount(t, "1025", flows[2])
	assert.Equal(t, "EUR", flows[1].Amount.Currency)
}

func TestCashFlows_CapitalizationGrowsPrincipal(t *testing.T) {
	// GIVEN: the first coupon capitalizes instead of paying out
	events := []pam.Event{
		event("2024-01-01", pam.EventIED),
		event("2024-07-01", pam.EventIPCI),
		event("2025-01-01", pam.EventMD),
	}

	flows, err := CashFlows(events, bulletTerms())
	require.NoError(t, err)

	// THEN: IPCI moves no cash; maturity repays the grown principal
	// 1025 plus half a year of interest on it: 1025 x 5% x 0.5 = 25.625
	assertAmount(t, "0", flows[1])
	assertAmount(t, "1050.625", flows[2])
}

func TestCashFlows_LiabilityFlipsSigns(t *testing.T) {
	terms := bulletTerms()
	terms.Role = pam.RoleLiability

	flows, err := CashFlows([]pam.Event{
		event("2024-01-01", pam.EventIED),
		event("2025-01-01", pam.EventMD),
	}, terms)
	require.NoError(t, err)

	// The borrower receives the notional and pays it back.
	assertAmount(t, "1000", flows[0])
	assertAmount(t, "-1050", flows[1])
}

func TestCashFlows_FeePayment(t *testing.T) {
	terms := bulletTerms()
	fee := dec("0.001")
	terms.FeeRate = &fee

	flows, err := CashFlows([]pam.Event{event("2024-07-01", pam.EventFP)}, terms)
	require.NoError(t, err)
	assertAmount(t, "1", flows[0])

	// Without a fee rate the FP event moves nothing.
	terms.FeeRate = nil
	flows, err = CashFlows([]pam.Event{event("2024-07-01", pam.EventFP)}, terms)
	require.NoError(t, err)
	assertAmount(t, "0", flows[0])
}

func TestCashFlows_NonCashKindsMoveNothing(t *testing.T) {
	flows, err := CashFlows([]pam.Event{
		event("2024-03-01", pam.EventPRD),
		event("2024-06-01", pam.EventRRF),
		event("2024-09-01", pam.EventRR),
		event("2024-12-01", pam.EventSC),
	}, bulletTerms())
	require.NoError(t, err)
	for _, f := range flows {
		assert.True(t, f.Amount.IsZero(), "%s moved cash", f.Kind)
	}
}

func TestCashFlows_TerminationRepaysLikeMaturity(t *testing.T) {
	events := []pam.Event{
		event("2024-01-01", pam.EventIED),
		event("2024-07-01", pam.EventTD),
	}
	flows, err := CashFlows(events, bulletTerms())
	require.NoError(t, err)
	assertAmount(t, "1025", flows[1])
}

func TestCashFlows_UnknownDayCountFails(t *testing.T) {
	terms := bulletTerms()
	terms.DayCount = "BUS/252"
	_, err := CashFlows(nil, terms)
	assert.ErrorIs(t, err, schedule.ErrUnsupportedConvention)
}
