/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	contracts for testing and demos. Each scenario creates contracts,
	generates their schedules, and groups them into a portfolio.

AVAILABLE SCENARIOS:

	bullet-bond:         a single plain annual-coupon bond
	capitalizing-loan:   interest capitalizes into principal, then pays out
	floating-portfolio:  three quarterly floaters, one with a fixed next
	                     reset, grouped for batch valuation

HOW SCENARIOS WORK:
 1. Build terms from pam presets
 2. Encode and save each contract
 3. Generate and store its schedule
 4. Create the portfolio

Loading the same scenario twice skips contracts that already exist.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "floating-portfolio"}

SEE ALSO:
  - handlers.go: LoadScenario, ListScenarios handlers
  - pam/presets.go: terms the scenarios are built from
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/contract-engine/factory"
	"github.com/warp/contract-engine/pam"
	"github.com/warp/contract-engine/schedule"
)

// =============================================================================
// SCENARIO CATALOG
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "bullet-bond",
		Name:        "Bullet bond",
		Description: "Single 5y annual-coupon bond: IED, five coupons, MD",
	},
	{
		ID:          "capitalizing-loan",
		Name:        "Capitalizing loan",
		Description: "Semi-annual interest capitalizing into principal for two years",
	},
	{
		ID:          "floating-portfolio",
		Name:        "Floating-rate portfolio",
		Description: "Three quarterly floaters with rate resets, one already fixed",
	},
}

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "bullet-bond":
		err = h.loadBulletBondScenario(r.Context())
	case "capitalizing-loan":
		err = h.loadCapitalizingLoanScenario(r.Context())
	case "floating-portfolio":
		err = h.loadFloatingPortfolioScenario(r.Context())
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown scenario %q", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadBulletBondScenario(ctx context.Context) error {
	terms := pam.BulletBond("demo-bond-5y",
		schedule.MustParseDate("2024-01-01"), schedule.MustParseDate("2029-01-01"),
		decimal.NewFromInt(1_000_000), decimal.RequireFromString("0.035"))
	return h.saveScenarioContract(ctx, terms, "Demo 5y bullet bond")
}

func (h *Handler) loadCapitalizingLoanScenario(ctx context.Context) error {
	terms := pam.CapitalizingLoan("demo-cap-loan",
		schedule.MustParseDate("2024-01-01"), schedule.MustParseDate("2028-01-01"),
		schedule.MustParseDate("2026-01-01"),
		decimal.NewFromInt(500_000), decimal.RequireFromString("0.05"))
	return h.saveScenarioContract(ctx, terms, "Demo capitalizing loan")
}

func (h *Handler) loadFloatingPortfolioScenario(ctx context.Context) error {
	fixed := decimal.RequireFromString("0.041")
	contracts := []pam.ContractTerms{
		pam.QuarterlyFloater("demo-frn-a",
			schedule.MustParseDate("2024-01-15"), schedule.MustParseDate("2027-01-15"),
			decimal.NewFromInt(2_000_000), decimal.RequireFromString("0.04"), nil),
		pam.QuarterlyFloater("demo-frn-b",
			schedule.MustParseDate("2024-03-01"), schedule.MustParseDate("2028-03-01"),
			decimal.NewFromInt(1_500_000), decimal.RequireFromString("0.038"), &fixed),
		pam.QuarterlyFloater("demo-frn-c",
			schedule.MustParseDate("2024-06-01"), schedule.MustParseDate("2026-06-01"),
			decimal.NewFromInt(750_000), decimal.RequireFromString("0.042"), nil),
	}

	ids := make([]string, 0, len(contracts))
	for _, terms := range contracts {
		if err := h.saveScenarioContract(ctx, terms, terms.ContractID); err != nil {
			return err
		}
		ids = append(ids, terms.ContractID)
	}
	return h.Store.SavePortfolio(ctx, pam.Portfolio{
		ID:          "demo-floaters",
		Name:        "Demo floating-rate portfolio",
		ContractIDs: ids,
	})
}

func (h *Handler) saveScenarioContract(ctx context.Context, terms pam.ContractTerms, name string) error {
	termsJSON, err := factory.EncodeTerms(terms)
	if err != nil {
		return err
	}
	err = h.Store.SaveContract(ctx, pam.ContractRecord{
		ID:        terms.ContractID,
		Name:      name,
		TermsJSON: termsJSON,
		CreatedAt: time.Now().UTC(),
	})
	if errors.Is(err, pam.ErrDuplicateContract) {
		return nil // already loaded
	}
	if err != nil {
		return err
	}

	events, err := h.Scheduler.Schedule(h.DefaultHorizon, terms)
	if err != nil {
		return err
	}
	return h.Store.SaveSchedule(ctx, terms.ContractID, h.DefaultHorizon, events)
}
