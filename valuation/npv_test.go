package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/contract-engine/pam"
)

func bulletEvents() []pam.Event {
	return []pam.Event{
		event("2024-01-01", pam.EventIED),
		event("2024-07-01", pam.EventIP),
		event("2025-01-01", pam.EventMD),
	}
}

func TestValue_ZeroRateSumsFutureFlows(t *testing.T) {
	// GIVEN: a flat zero curve, so discount factors are all 1
	v := NewValuer(FlatRateProvider{Rate: 0}, "FLAT")

	// WHEN: valuing from before initiation
	val, err := v.Value(d("2023-12-31"), bulletEvents(), bulletTerms())
	require.NoError(t, err)

	// THEN: NPV is the plain sum -1000 + 25 + 1025 = 50
	assert.True(t, val.NPV.Value.Equal(dec("50")),
		"NPV = %s, want 50", val.NPV.Value)
	assert.Equal(t, "EUR", val.NPV.Currency)
	assert.Len(t, val.Flows, 3)
}

func TestValue_SkipsFlowsOnOrBeforeAsOf(t *testing.T) {
	v := NewValuer(FlatRateProvider{Rate: 0}, "FLAT")

	// The coupon on the as-of date has settled; only maturity remains.
	val, err := v.Value(d("2024-07-01"), bulletEvents(), bulletTerms())
	require.NoError(t, err)
	assert.True(t, val.NPV.Value.Equal(dec("1025")),
		"NPV = %s, want 1025", val.NPV.Value)
}

func TestValue_PositiveRateDiscountsBelowParSum(t *testing.T) {
	v := NewValuer(FlatRateProvider{Rate: 0.03}, "FLAT")

	val, err := v.Value(d("2024-07-01"), bulletEvents(), bulletTerms())
	require.NoError(t, err)

	// 1025 discounted over 184/365 years at 3%.
	tf := 184.0 / 365.0
	want := 1025.0 * math.Pow(1.03, -tf)
	got, _ := val.NPV.Value.Float64()
	assert.InDelta(t, want, got, 1e-6)
}

func TestValue_UsesTheConfiguredCurve(t *testing.T) {
	rates := TableRateProvider{Curves: map[string]map[int]float64{
		"EUR-GOV": {6: 0.02, 12: 0.025},
	}}

	// An unknown curve surfaces as an error, not a silent zero rate.
	v := NewValuer(rates, "USD-GOV")
	_, err := v.Value(d("2024-07-01"), bulletEvents(), bulletTerms())
	require.Error(t, err)

	v = NewValuer(rates, "EUR-GOV")
	val, err := v.Value(d("2024-07-01"), bulletEvents(), bulletTerms())
	require.NoError(t, err)
	assert.True(t, val.NPV.Value.IsPositive())
}

func TestTableRateProvider_NearestShorterTenor(t *testing.T) {
	rates := TableRateProvider{Curves: map[string]map[int]float64{
		"EUR-GOV": {1: 0.01, 12: 0.02, 60: 0.03},
	}}

	cases := []struct {
		tenor int
		want  float64
	}{
		{1, 0.01},
		{7, 0.01},  // falls back to the 1-month pillar
		{12, 0.02}, // exact pillar
		{40, 0.02},
		{90, 0.03},
	}
	for _, tc := range cases {
		got, err := rates.GetRate("EUR-GOV", tc.tenor, d("2024-01-01"))
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "tenor %d", tc.tenor)
	}

	// No pillar at or below the requested tenor.
	rates = TableRateProvider{Curves: map[string]map[int]float64{
		"EUR-GOV": {12: 0.02},
	}}
	_, err := rates.GetRate("EUR-GOV", 6, d("2024-01-01"))
	assert.Error(t, err)
}

func TestMoney_Formatting(t *testing.T) {
	m := NewMoney(1050.625, "EUR")
	assert.Equal(t, "1050.63 EUR", m.String())
	assert.Equal(t, "-1050.63 EUR", m.Neg().String())
	assert.True(t, Zero("EUR").IsZero())
	assert.True(t, m.Neg().IsNegative())
}
