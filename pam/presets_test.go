package pam

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets_ScheduleCleanly(t *testing.T) {
	next := decimal.RequireFromString("0.04")
	presets := map[string]ContractTerms{
		"bullet": BulletBond("p-bullet", d("2024-01-01"), d("2029-01-01"),
			decimal.NewFromInt(1_000_000), decimal.RequireFromString("0.035")),
		"capitalizing": CapitalizingLoan("p-cap", d("2024-01-01"), d("2028-01-01"), d("2026-01-01"),
			decimal.NewFromInt(500_000), decimal.RequireFromString("0.05")),
		"floater": QuarterlyFloater("p-frn", d("2024-01-15"), d("2027-01-15"),
			decimal.NewFromInt(2_000_000), decimal.RequireFromString("0.04"), &next),
	}

	s := NewScheduler(nil)
	for name, terms := range presets {
		events, err := s.Schedule(farHorizon, terms)
		require.NoError(t, err, name)
		require.NotEmpty(t, events, name)
		assert.Equal(t, EventIED, events[0].Kind, name)
		assert.Equal(t, EventMD, events[len(events)-1].Kind, name)
	}
}

func TestCapitalizingLoan_NoPlainInterestInCapPhase(t *testing.T) {
	terms := CapitalizingLoan("p-cap", d("2024-01-01"), d("2028-01-01"), d("2026-01-01"),
		decimal.NewFromInt(500_000), decimal.RequireFromString("0.05"))

	events, err := NewScheduler(nil).Schedule(farHorizon, terms)
	require.NoError(t, err)

	ipcis, ips := 0, 0
	for _, e := range events {
		switch e.Kind {
		case EventIPCI:
			ipcis++
			assert.True(t, e.Date.BeforeOrEqual(d("2026-01-01")))
		case EventIP:
			ips++
			assert.True(t, e.Date.After(d("2026-01-01")))
		}
	}
	assert.Equal(t, 4, ipcis) // 2024-07, 2025-01, 2025-07, 2026-01
	assert.Equal(t, 3, ips)   // 2026-07, 2027-01, 2027-07; 2028-01 is MD
}
