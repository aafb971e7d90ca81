/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation happens in handlers and the factory package, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: uses these types
  - factory/terms.go: TermsJSON, the wire form of contract terms
*/
package api

import (
	"github.com/warp/contract-engine/factory"
	"github.com/warp/contract-engine/pam"
	"github.com/warp/contract-engine/valuation"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CreateContractRequest registers a contract under a display name.
type CreateContractRequest struct {
	Name  string            `json:"name"`
	Terms factory.TermsJSON `json:"terms"`
}

// ContractDTO represents a stored contract in API responses.
type ContractDTO struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Terms     factory.TermsJSON `json:"terms"`
	CreatedAt string            `json:"created_at"`
}

// EventDTO is one lifecycle event in a schedule response.
type EventDTO struct {
	Date     string `json:"date"`
	Kind     string `json:"kind"`
	Payoff   string `json:"payoff"`
	Currency string `json:"currency"`
}

// ScheduleDTO wraps a generated schedule.
type ScheduleDTO struct {
	ContractID string     `json:"contract_id"`
	Horizon    string     `json:"horizon"`
	Events     []EventDTO `json:"events"`
}

// CashFlowDTO is one dated cash amount in a valuation response.
type CashFlowDTO struct {
	Date   string `json:"date"`
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
}

// ValuationDTO wraps a contract valuation.
type ValuationDTO struct {
	ContractID string        `json:"contract_id"`
	AsOf       string        `json:"as_of"`
	NPV        string        `json:"npv"`
	Currency   string        `json:"currency"`
	Flows      []CashFlowDTO `json:"flows"`
}

// CreatePortfolioRequest groups contracts for batch valuation.
type CreatePortfolioRequest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ContractIDs []string `json:"contract_ids"`
}

// PortfolioDTO represents a portfolio in API responses.
type PortfolioDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ContractIDs []string `json:"contract_ids"`
}

// ValuationRunDTO is one stored portfolio valuation.
type ValuationRunDTO struct {
	ID          string `json:"id"`
	PortfolioID string `json:"portfolio_id"`
	AsOf        string `json:"as_of"`
	NPV         string `json:"npv"`
	Currency    string `json:"currency"`
	CreatedAt   string `json:"created_at"`
}

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toEventDTOs(events []pam.Event) []EventDTO {
	out := make([]EventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, EventDTO{
			Date:     e.Date.String(),
			Kind:     string(e.Kind),
			Payoff:   e.Payoff.String(),
			Currency: e.Currency,
		})
	}
	return out
}

func toCashFlowDTOs(flows []valuation.CashFlow) []CashFlowDTO {
	out := make([]CashFlowDTO, 0, len(flows))
	for _, f := range flows {
		out = append(out, CashFlowDTO{
			Date:   f.Date.String(),
			Kind:   string(f.Kind),
			Amount: f.Amount.Value.String(),
		})
	}
	return out
}
