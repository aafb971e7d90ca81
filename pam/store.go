/*
store.go - Persistence interfaces for contracts, schedules and portfolios

PURPOSE:
  Defines the interface between the scheduling/valuation logic and the
  database. Contract terms are stored as their JSON encoding (the factory
  package owns that shape); generated schedules are stored per contract
  and replaced wholesale on regeneration, since a schedule is a pure
  derivation of its terms.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite
  - pam/store: in-memory, for tests and the CLI

SEE ALSO:
  - ../store/sqlite/sqlite.go
  - store/memory.go
*/
package pam

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/contract-engine/schedule"
)

// =============================================================================
// RECORDS
// =============================================================================

// ContractRecord is the stored form of a contract: its terms as JSON plus
// catalog metadata.
type ContractRecord struct {
	ID        string
	Name      string
	TermsJSON string
	CreatedAt time.Time
}

// Portfolio groups contracts for batch scheduling and valuation.
type Portfolio struct {
	ID          string
	Name        string
	ContractIDs []string
}

// ValuationRun records one portfolio valuation for audit and display.
type ValuationRun struct {
	ID          string
	PortfolioID string
	AsOf        schedule.TimePoint
	NPV         decimal.Decimal
	Currency    string
	CreatedAt   time.Time
}

// =============================================================================
// STORE ERRORS
// =============================================================================

var (
	ErrContractNotFound  = errors.New("contract not found")
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrDuplicateContract = errors.New("contract already exists")
)

// =============================================================================
// INTERFACES
// =============================================================================

// ContractStore persists contract terms and their generated schedules.
type ContractStore interface {
	SaveContract(ctx context.Context, rec ContractRecord) error
	GetContract(ctx context.Context, id string) (ContractRecord, error)
	ListContracts(ctx context.Context) ([]ContractRecord, error)

	// SaveSchedule replaces the stored schedule of the contract.
	SaveSchedule(ctx context.Context, contractID string, horizon schedule.TimePoint, events []Event) error
	LoadSchedule(ctx context.Context, contractID string) ([]Event, error)
}

// PortfolioStore persists contract groupings.
type PortfolioStore interface {
	SavePortfolio(ctx context.Context, p Portfolio) error
	GetPortfolio(ctx context.Context, id string) (Portfolio, error)
	ListPortfolios(ctx context.Context) ([]Portfolio, error)
	AddToPortfolio(ctx context.Context, portfolioID, contractID string) error
}

// ValuationStore persists valuation runs.
type ValuationStore interface {
	SaveValuationRun(ctx context.Context, run ValuationRun) error
	ListValuationRuns(ctx context.Context, portfolioID string) ([]ValuationRun, error)
}

// Store is the full persistence surface the API server needs.
type Store interface {
	ContractStore
	PortfolioStore
	ValuationStore
}
