/*
Package factory provides JSON to Go contract-terms conversion.

PURPOSE:
  Converts JSON contract definitions into pam.ContractTerms. This is how
  terms enter the system from the API, the CLI and the database - the
  JSON produced here is also the stored encoding.

JSON SCHEMA:
  {
    "contract_id": "bond-001",
    "contract_type": "PAM",
    "currency": "EUR",
    "role": "RPA",
    "status_date": "2024-01-01",
    "initial_exchange_date": "2024-01-01",
    "maturity_date": "2029-01-01",
    "notional_principal": "1000000",
    "nominal_rate": "0.035",
    "interest_cycle":   {"anchor": "2025-01-01", "period": "1Y"},
    "rate_reset_cycle": {"anchor": "2024-04-01", "period": "3M"},
    "fee_cycle":        {"anchor": "2024-07-01", "period": "6M"},
    "fee_rate": "0.001",
    "next_reset_rate": "0.04",
    "capitalization_end_date": "2025-01-01",
    "purchase_date": "2024-02-01",
    "termination_date": "2027-01-01",
    "scaling_effect": "IN0",
    "scaling_cycle": {"anchor": "2024-06-01", "period": "1Y"},
    "business_day_convention": "MODIFIED_FOLLOWING",
    "calendar": "TARGET",
    "day_count": "ACT/360"
  }

  Dates are YYYY-MM-DD. Monetary values and rates are decimal strings, so
  nothing ever round-trips through binary floating point. Absent optional
  fields suppress the behavior they control, exactly like the nil fields
  on pam.ContractTerms.

KEY FEATURES:
  - Validates structure and recurrence grammar at parse time
  - Sets sensible defaults (role RPA, day count ACT/360)
  - EncodeTerms inverts ParseTerms for storage

SEE ALSO:
  - pam/types.go: ContractTerms definition and validation
  - pam/presets.go: Go-native terms construction
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/contract-engine/pam"
	"github.com/warp/contract-engine/schedule"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// TermsJSON is the JSON representation of PAM contract terms.
type TermsJSON struct {
	ContractID   string `json:"contract_id"`
	ContractType string `json:"contract_type,omitempty"`
	Currency     string `json:"currency"`
	Role         string `json:"role,omitempty"`

	StatusDate          string `json:"status_date"`
	InitialExchangeDate string `json:"initial_exchange_date"`
	MaturityDate        string `json:"maturity_date,omitempty"`

	NotionalPrincipal string `json:"notional_principal"`
	NominalRate       string `json:"nominal_rate"`

	InterestCycle   *CycleJSON `json:"interest_cycle,omitempty"`
	RedemptionCycle *CycleJSON `json:"redemption_cycle,omitempty"`
	RateResetCycle  *CycleJSON `json:"rate_reset_cycle,omitempty"`
	FeeCycle        *CycleJSON `json:"fee_cycle,omitempty"`
	ScalingCycle    *CycleJSON `json:"scaling_cycle,omitempty"`

	PurchaseDate          string `json:"purchase_date,omitempty"`
	TerminationDate       string `json:"termination_date,omitempty"`
	CapitalizationEndDate string `json:"capitalization_end_date,omitempty"`

	FeeRate       string `json:"fee_rate,omitempty"`
	NextResetRate string `json:"next_reset_rate,omitempty"`
	ScalingEffect string `json:"scaling_effect,omitempty"`

	BusinessDayConvention string `json:"business_day_convention,omitempty"`
	Calendar              string `json:"calendar,omitempty"`
	DayCount              string `json:"day_count,omitempty"`
}

// CycleJSON represents one (anchor, period) recurrence pair.
type CycleJSON struct {
	Anchor string `json:"anchor"`
	Period string `json:"period"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseTerms converts a JSON document into validated contract terms.
func ParseTerms(data string) (pam.ContractTerms, error) {
	var raw TermsJSON
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return pam.ContractTerms{}, fmt.Errorf("parse terms JSON: %w", err)
	}
	return FromJSON(raw)
}

// FromJSON converts the decoded JSON shape into validated contract terms.
func FromJSON(raw TermsJSON) (pam.ContractTerms, error) {
	if raw.ContractID == "" {
		return pam.ContractTerms{}, fmt.Errorf("contract_id is required")
	}
	if raw.ContractType != "" && raw.ContractType != "PAM" {
		return pam.ContractTerms{}, fmt.Errorf("unsupported contract type %q: only PAM is modeled", raw.ContractType)
	}

	terms := pam.ContractTerms{
		ContractID:            raw.ContractID,
		Currency:              defaultString(raw.Currency, "EUR"),
		Role:                  pam.ContractRole(defaultString(raw.Role, string(pam.RoleAsset))),
		ScalingEffect:         raw.ScalingEffect,
		BusinessDayConvention: raw.BusinessDayConvention,
		Calendar:              raw.Calendar,
		DayCount:              defaultString(raw.DayCount, string(schedule.DayCountAct360)),
	}

	var err error
	if terms.StatusDate, err = requireDate("status_date", raw.StatusDate); err != nil {
		return pam.ContractTerms{}, err
	}
	if terms.InitialExchangeDate, err = requireDate("initial_exchange_date", raw.InitialExchangeDate); err != nil {
		return pam.ContractTerms{}, err
	}
	if terms.MaturityDate, err = optionalDate("maturity_date", raw.MaturityDate); err != nil {
		return pam.ContractTerms{}, err
	}
	if terms.PurchaseDate, err = optionalDate("purchase_date", raw.PurchaseDate); err != nil {
		return pam.ContractTerms{}, err
	}
	if terms.TerminationDate, err = optionalDate("termination_date", raw.TerminationDate); err != nil {
		return pam.ContractTerms{}, err
	}
	if terms.CapitalizationEndDate, err = optionalDate("capitalization_end_date", raw.CapitalizationEndDate); err != nil {
		return pam.ContractTerms{}, err
	}

	if terms.NotionalPrincipal, err = requireDecimal("notional_principal", raw.NotionalPrincipal); err != nil {
		return pam.ContractTerms{}, err
	}
	if terms.NominalRate, err = requireDecimal("nominal_rate", raw.NominalRate); err != nil {
		return pam.ContractTerms{}, err
	}
	if terms.FeeRate, err = optionalDecimal("fee_rate", raw.FeeRate); err != nil {
		return pam.ContractTerms{}, err
	}
	if terms.NextResetRate, err = optionalDecimal("next_reset_rate", raw.NextResetRate); err != nil {
		return pam.ContractTerms{}, err
	}

	if terms.InterestCycle, err = parseCycle("interest_cycle", raw.InterestCycle); err != nil {
		return pam.ContractTerms{}, err
	}
	if terms.RedemptionCycle, err = parseCycle("redemption_cycle", raw.RedemptionCycle); err != nil {
		return pam.ContractTerms{}, err
	}
	if terms.RateResetCycle, err = parseCycle("rate_reset_cycle", raw.RateResetCycle); err != nil {
		return pam.ContractTerms{}, err
	}
	if terms.FeeCycle, err = parseCycle("fee_cycle", raw.FeeCycle); err != nil {
		return pam.ContractTerms{}, err
	}
	if terms.ScalingCycle, err = parseCycle("scaling_cycle", raw.ScalingCycle); err != nil {
		return pam.ContractTerms{}, err
	}

	if err := terms.Validate(); err != nil {
		return pam.ContractTerms{}, err
	}
	return terms, nil
}

// EncodeTerms renders contract terms back into their JSON document form.
func EncodeTerms(terms pam.ContractTerms) (string, error) {
	raw := TermsJSON{
		ContractID:            terms.ContractID,
		ContractType:          "PAM",
		Currency:              terms.Currency,
		Role:                  string(terms.Role),
		StatusDate:            terms.StatusDate.String(),
		InitialExchangeDate:   terms.InitialExchangeDate.String(),
		NotionalPrincipal:     terms.NotionalPrincipal.String(),
		NominalRate:           terms.NominalRate.String(),
		ScalingEffect:         terms.ScalingEffect,
		BusinessDayConvention: terms.BusinessDayConvention,
		Calendar:              terms.Calendar,
		DayCount:              terms.DayCount,
		InterestCycle:         encodeCycle(terms.InterestCycle),
		RedemptionCycle:       encodeCycle(terms.RedemptionCycle),
		RateResetCycle:        encodeCycle(terms.RateResetCycle),
		FeeCycle:              encodeCycle(terms.FeeCycle),
		ScalingCycle:          encodeCycle(terms.ScalingCycle),
	}
	if terms.MaturityDate != nil {
		raw.MaturityDate = terms.MaturityDate.String()
	}
	if terms.PurchaseDate != nil {
		raw.PurchaseDate = terms.PurchaseDate.String()
	}
	if terms.TerminationDate != nil {
		raw.TerminationDate = terms.TerminationDate.String()
	}
	if terms.CapitalizationEndDate != nil {
		raw.CapitalizationEndDate = terms.CapitalizationEndDate.String()
	}
	if terms.FeeRate != nil {
		raw.FeeRate = terms.FeeRate.String()
	}
	if terms.NextResetRate != nil {
		raw.NextResetRate = terms.NextResetRate.String()
	}

	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode terms: %w", err)
	}
	return string(out), nil
}

// =============================================================================
// FIELD HELPERS
// =============================================================================

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func requireDate(field, value string) (schedule.TimePoint, error) {
	if value == "" {
		return schedule.TimePoint{}, fmt.Errorf("%s is required", field)
	}
	tp, err := schedule.ParseDate(value)
	if err != nil {
		return schedule.TimePoint{}, fmt.Errorf("%s: %w", field, err)
	}
	return tp, nil
}

func optionalDate(field, value string) (*schedule.TimePoint, error) {
	if value == "" {
		return nil, nil
	}
	tp, err := schedule.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &tp, nil
}

func requireDecimal(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Decimal{}, fmt.Errorf("%s is required", field)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func optionalDecimal(field, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &d, nil
}

func parseCycle(field string, raw *CycleJSON) (*pam.CycleSpec, error) {
	if raw == nil {
		return nil, nil
	}
	anchor, err := requireDate(field+".anchor", raw.Anchor)
	if err != nil {
		return nil, err
	}
	if _, err := schedule.ParsePeriod(raw.Period); err != nil {
		return nil, fmt.Errorf("%s.period: %w", field, err)
	}
	return &pam.CycleSpec{Anchor: anchor, Period: raw.Period}, nil
}

func encodeCycle(cycle *pam.CycleSpec) *CycleJSON {
	if !cycle.IsSet() {
		return nil
	}
	return &CycleJSON{Anchor: cycle.Anchor.String(), Period: cycle.Period}
}
