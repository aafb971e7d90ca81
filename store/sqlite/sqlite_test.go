/*
sqlite_test.go - SQLite store round-trips

PURPOSE:
  Verifies the SQLite implementation of the storage interfaces against
  an in-memory database: contract CRUD, schedule replacement, portfolio
  membership and the valuation-run audit trail.
*/
package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/contract-engine/pam"
	"github.com/warp/contract-engine/schedule"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func contractFixture(id string) pam.ContractRecord {
	return pam.ContractRecord{
		ID:        id,
		Name:      "Contract " + id,
		TermsJSON: `{"contract_id":"` + id + `"}`,
		CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestContracts_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveContract(ctx, contractFixture("c-1")))

	got, err := s.GetContract(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Contract c-1", got.Name)
	assert.Equal(t, contractFixture("c-1").CreatedAt, got.CreatedAt)

	// Duplicates are rejected with the typed error.
	assert.ErrorIs(t, s.SaveContract(ctx, contractFixture("c-1")), pam.ErrDuplicateContract)

	_, err = s.GetContract(ctx, "ghost")
	assert.ErrorIs(t, err, pam.ErrContractNotFound)

	require.NoError(t, s.SaveContract(ctx, contractFixture("c-0")))
	list, err := s.ListContracts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c-0", list[0].ID) // ordered by id
}

func TestSchedules_ReplacedWholesale(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveContract(ctx, contractFixture("c-1")))

	horizon := schedule.MustParseDate("2030-01-01")
	first := []pam.Event{
		{Date: schedule.MustParseDate("2024-01-01"), Kind: pam.EventIED, Payoff: decimal.Zero, Currency: "EUR"},
		{Date: schedule.MustParseDate("2025-01-01"), Kind: pam.EventMD, Payoff: decimal.Zero, Currency: "EUR"},
	}
	require.NoError(t, s.SaveSchedule(ctx, "c-1", horizon, first))

	got, err := s.LoadSchedule(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, got, len(first))
	for i := range first {
		assert.Equal(t, first[i].Date, got[i].Date)
		assert.Equal(t, first[i].Kind, got[i].Kind)
		assert.Equal(t, first[i].Currency, got[i].Currency)
		assert.True(t, first[i].Payoff.Equal(got[i].Payoff))
	}

	// Regenerating replaces the rows instead of appending.
	second := first[:1]
	require.NoError(t, s.SaveSchedule(ctx, "c-1", horizon, second))
	got, err = s.LoadSchedule(ctx, "c-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// Schedules require a stored contract.
	err = s.SaveSchedule(ctx, "ghost", horizon, first)
	assert.ErrorIs(t, err, pam.ErrContractNotFound)
	_, err = s.LoadSchedule(ctx, "ghost")
	assert.Error(t, err)
}

func TestPortfolios_MembershipAndUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveContract(ctx, contractFixture("c-1")))
	require.NoError(t, s.SaveContract(ctx, contractFixture("c-2")))

	require.NoError(t, s.SavePortfolio(ctx, pam.Portfolio{
		ID: "pf-1", Name: "Book A", ContractIDs: []string{"c-1"},
	}))

	// Saving again renames without losing members.
	require.NoError(t, s.SavePortfolio(ctx, pam.Portfolio{ID: "pf-1", Name: "Book A v2"}))
	require.NoError(t, s.AddToPortfolio(ctx, "pf-1", "c-2"))

	p, err := s.GetPortfolio(ctx, "pf-1")
	require.NoError(t, err)
	assert.Equal(t, "Book A v2", p.Name)
	assert.Equal(t, []string{"c-1", "c-2"}, p.ContractIDs)

	// Membership additions validate both sides.
	assert.ErrorIs(t, s.AddToPortfolio(ctx, "ghost", "c-1"), pam.ErrPortfolioNotFound)
	assert.ErrorIs(t, s.AddToPortfolio(ctx, "pf-1", "ghost"), pam.ErrContractNotFound)

	list, err := s.ListPortfolios(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"c-1", "c-2"}, list[0].ContractIDs)
}

func TestValuationRuns_AuditTrail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SavePortfolio(ctx, pam.Portfolio{ID: "pf-1", Name: "Book A"}))

	older := pam.ValuationRun{
		ID: "run-1", PortfolioID: "pf-1",
		AsOf:      schedule.MustParseDate("2024-06-01"),
		NPV:       decimal.RequireFromString("1234.56"),
		Currency:  "EUR",
		CreatedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := older
	newer.ID = "run-2"
	newer.NPV = decimal.RequireFromString("1300")
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)

	require.NoError(t, s.SaveValuationRun(ctx, older))
	require.NoError(t, s.SaveValuationRun(ctx, newer))

	runs, err := s.ListValuationRuns(ctx, "pf-1")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	// Most recent first.
	assert.Equal(t, "run-2", runs[0].ID)
	assert.True(t, runs[0].NPV.Equal(decimal.RequireFromString("1300")))
	assert.Equal(t, "2024-06-01", runs[1].AsOf.String())
}
