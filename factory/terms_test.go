package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/contract-engine/pam"
	"github.com/warp/contract-engine/schedule"
)

const fullTermsJSON = `{
  "contract_id": "bond-001",
  "contract_type": "PAM",
  "currency": "EUR",
  "role": "RPA",
  "status_date": "2024-01-01",
  "initial_exchange_date": "2024-01-01",
  "maturity_date": "2029-01-01",
  "notional_principal": "1000000",
  "nominal_rate": "0.035",
  "interest_cycle": {"anchor": "2025-01-01", "period": "1Y"},
  "rate_reset_cycle": {"anchor": "2024-04-01", "period": "P3M"},
  "fee_rate": "0.001",
  "fee_cycle": {"anchor": "2024-07-01", "period": "6M"},
  "next_reset_rate": "0.04",
  "business_day_convention": "MODIFIED_FOLLOWING",
  "calendar": "TARGET",
  "day_count": "ACT/360"
}`

func TestParseTerms_FullContract(t *testing.T) {
	terms, err := ParseTerms(fullTermsJSON)
	require.NoError(t, err)

	assert.Equal(t, "bond-001", terms.ContractID)
	assert.Equal(t, pam.RoleAsset, terms.Role)
	assert.Equal(t, schedule.MustParseDate("2024-01-01"), terms.InitialExchangeDate)
	require.NotNil(t, terms.MaturityDate)
	assert.Equal(t, "2029-01-01", terms.MaturityDate.String())
	assert.Equal(t, "1000000", terms.NotionalPrincipal.String())

	require.NotNil(t, terms.InterestCycle)
	assert.Equal(t, "1Y", terms.InterestCycle.Period)
	// Both recurrence encodings are accepted on input.
	require.NotNil(t, terms.RateResetCycle)
	assert.Equal(t, "P3M", terms.RateResetCycle.Period)

	require.NotNil(t, terms.NextResetRate)
	assert.Equal(t, "0.04", terms.NextResetRate.String())
	assert.Equal(t, "MODIFIED_FOLLOWING", terms.BusinessDayConvention)
}

func TestParseTerms_Defaults(t *testing.T) {
	terms, err := ParseTerms(`{
	  "contract_id": "min-001",
	  "status_date": "2024-01-01",
	  "initial_exchange_date": "2024-01-01",
	  "notional_principal": "1000",
	  "nominal_rate": "0.05"
	}`)
	require.NoError(t, err)

	assert.Equal(t, "EUR", terms.Currency)
	assert.Equal(t, pam.RoleAsset, terms.Role)
	assert.Equal(t, string(schedule.DayCountAct360), terms.DayCount)
	assert.Nil(t, terms.MaturityDate)
	assert.Nil(t, terms.InterestCycle)
}

func TestParseTerms_Rejections(t *testing.T) {
	base := `{
	  "contract_id": "x",
	  "status_date": "2024-01-01",
	  "initial_exchange_date": "2024-01-01",
	  "notional_principal": "1000",
	  "nominal_rate": "0.05"`

	cases := []struct {
		name string
		json string
		want string
	}{
		{"not json", `{`, "parse terms JSON"},
		{"missing id", `{"status_date": "2024-01-01"}`, "contract_id is required"},
		{"wrong contract type", base + `, "contract_type": "ANN"}`, "unsupported contract type"},
		{"bad date", base + `, "maturity_date": "01/02/2029"}`, "maturity_date"},
		{"bad decimal", base + `, "fee_rate": "one percent"}`, "fee_rate"},
		{"bad cycle period", base + `, "interest_cycle": {"anchor": "2024-04-01", "period": "3X"}}`, "interest_cycle.period"},
		{"cycle without anchor", base + `, "interest_cycle": {"period": "3M"}}`, "interest_cycle.anchor"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTerms(tc.json)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParseTerms_StructuralValidationApplies(t *testing.T) {
	// Maturity preceding the initial exchange fails the same check the
	// scheduler runs, already at parse time.
	_, err := ParseTerms(`{
	  "contract_id": "x",
	  "status_date": "2025-01-01",
	  "initial_exchange_date": "2025-01-01",
	  "maturity_date": "2024-01-01",
	  "notional_principal": "1000",
	  "nominal_rate": "0.05"
	}`)
	assert.ErrorIs(t, err, schedule.ErrInvalidTerms)
}

func TestEncodeTerms_RoundTrip(t *testing.T) {
	terms, err := ParseTerms(fullTermsJSON)
	require.NoError(t, err)

	encoded, err := EncodeTerms(terms)
	require.NoError(t, err)

	again, err := ParseTerms(encoded)
	require.NoError(t, err)
	assert.Equal(t, terms, again)
}

func TestEncodeTerms_OmitsAbsentOptionals(t *testing.T) {
	terms, err := ParseTerms(`{
	  "contract_id": "min-001",
	  "status_date": "2024-01-01",
	  "initial_exchange_date": "2024-01-01",
	  "notional_principal": "1000",
	  "nominal_rate": "0.05"
	}`)
	require.NoError(t, err)

	encoded, err := EncodeTerms(terms)
	require.NoError(t, err)
	assert.NotContains(t, encoded, "maturity_date")
	assert.NotContains(t, encoded, "interest_cycle")
	assert.NotContains(t, encoded, "fee_rate")
}
