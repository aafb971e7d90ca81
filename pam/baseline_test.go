package pam

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/contract-engine/schedule"
)

func TestBaselineSchedule_CanonicalEvents(t *testing.T) {
	terms := ContractTerms{
		ContractID:          "base-1",
		Currency:            "EUR",
		Role:                RoleAsset,
		StatusDate:          d("2024-01-01"),
		InitialExchangeDate: d("2024-01-01"),
		MaturityDate:        dp("2025-01-01"),
		NotionalPrincipal:   decimal.NewFromInt(1000),
		InterestCycle:       &CycleSpec{Anchor: d("2024-04-01"), Period: "3M"},
	}

	events, err := BaselineSchedule(terms)
	require.NoError(t, err)

	want := []EventKind{EventIED, EventIP, EventIP, EventIP, EventMD}
	assert.Equal(t, want, kindsOf(events))
	assert.Equal(t, d("2024-10-01"), events[3].Date)
}

func TestBaselineSchedule_RequiresMaturity(t *testing.T) {
	terms := ContractTerms{
		ContractID:          "base-2",
		InitialExchangeDate: d("2024-01-01"),
	}
	_, err := BaselineSchedule(terms)
	assert.ErrorIs(t, err, schedule.ErrInvalidTerms)
}

func TestBaselineSchedule_AgreesWithFullScheduler(t *testing.T) {
	// GIVEN: terms that use none of the advanced features
	// THEN: the full pipeline and the baseline produce the same sequence
	terms := ContractTerms{
		ContractID:          "base-3",
		Currency:            "EUR",
		Role:                RoleAsset,
		StatusDate:          d("2024-01-01"),
		InitialExchangeDate: d("2024-01-01"),
		MaturityDate:        dp("2027-01-01"),
		NotionalPrincipal:   decimal.NewFromInt(5000),
		InterestCycle:       &CycleSpec{Anchor: d("2024-07-01"), Period: "6M"},
	}

	baseline, err := BaselineSchedule(terms)
	require.NoError(t, err)
	full, err := NewScheduler(nil).Schedule(farHorizon, terms)
	require.NoError(t, err)

	assert.Equal(t, baseline, full)
}
