/*
handlers.go - HTTP API handlers for the contract engine

PURPOSE:
  Exposes contract registration, schedule generation and valuation via
  REST. Handles HTTP request/response and JSON serialization, delegating
  all contract logic to the pam and valuation packages.

ENDPOINTS:
  Contracts:
    GET    /api/contracts                   List contracts
    POST   /api/contracts                   Register a contract
    GET    /api/contracts/{id}              Contract details
    GET    /api/contracts/{id}/schedule     Generate schedule (?horizon=)
    GET    /api/contracts/{id}/value        Value the contract (?as_of=)

  Portfolios:
    GET    /api/portfolios                  List portfolios
    POST   /api/portfolios                  Create portfolio
    GET    /api/portfolios/{id}             Portfolio details
    POST   /api/portfolios/{id}/contracts   Add a contract
    POST   /api/portfolios/{id}/value       Batch-value the portfolio
    GET    /api/portfolios/{id}/runs        Stored valuation runs

  Scenarios:
    GET    /api/scenarios                   List demo scenarios
    POST   /api/scenarios/load              Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: invalid terms, bad recurrence period, unknown convention
  - 404: contract or portfolio not found
  - 409: duplicate contract ID
  - 500: internal errors

SEE ALSO:
  - dto.go: request/response data structures
  - scenarios.go: demo scenario loaders
  - server.go: router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/contract-engine/factory"
	"github.com/warp/contract-engine/pam"
	"github.com/warp/contract-engine/schedule"
	"github.com/warp/contract-engine/valuation"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     pam.Store
	Scheduler *pam.Scheduler
	Valuer    *valuation.Valuer

	// DefaultHorizon bounds schedule generation when the request does not
	// supply one.
	DefaultHorizon schedule.TimePoint
}

// NewHandler creates a handler with the given store and a default engine
// wiring: built-in calendars and a flat 3% discount curve.
func NewHandler(store pam.Store) *Handler {
	return &Handler{
		Store:          store,
		Scheduler:      pam.NewScheduler(nil),
		Valuer:         valuation.NewValuer(valuation.FlatRateProvider{Rate: 0.03}, "FLAT"),
		DefaultHorizon: schedule.Today().AddYears(30),
	}
}

// =============================================================================
// CONTRACT ENDPOINTS
// =============================================================================

func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListContracts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list contracts", err)
		return
	}
	dtos := make([]ContractDTO, 0, len(records))
	for _, rec := range records {
		dto, err := toContractDTO(rec)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "corrupt stored terms", err)
			return
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	terms, err := factory.FromJSON(req.Terms)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contract terms", err)
		return
	}
	termsJSON, err := factory.EncodeTerms(terms)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode terms", err)
		return
	}

	name := req.Name
	if name == "" {
		name = terms.ContractID
	}
	rec := pam.ContractRecord{
		ID:        terms.ContractID,
		Name:      name,
		TermsJSON: termsJSON,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.SaveContract(r.Context(), rec); err != nil {
		if errors.Is(err, pam.ErrDuplicateContract) {
			writeError(w, http.StatusConflict, "contract already exists", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save contract", err)
		return
	}

	dto, _ := toContractDTO(rec)
	writeJSON(w, http.StatusCreated, dto)
}

func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadContract(w, r)
	if !ok {
		return
	}
	dto, err := toContractDTO(rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "corrupt stored terms", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetSchedule generates (and stores) the contract's event schedule up to
// the requested horizon.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadContract(w, r)
	if !ok {
		return
	}
	terms, err := factory.ParseTerms(rec.TermsJSON)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "corrupt stored terms", err)
		return
	}

	horizon := h.DefaultHorizon
	if v := r.URL.Query().Get("horizon"); v != "" {
		if horizon, err = schedule.ParseDate(v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid horizon", err)
			return
		}
	}

	events, err := h.Scheduler.Schedule(horizon, terms)
	if err != nil {
		writeError(w, statusForSchedulingError(err), "scheduling failed", err)
		return
	}
	if err := h.Store.SaveSchedule(r.Context(), rec.ID, horizon, events); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, ScheduleDTO{
		ContractID: rec.ID,
		Horizon:    horizon.String(),
		Events:     toEventDTOs(events),
	})
}

// GetValuation schedules and values a single contract.
func (h *Handler) GetValuation(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadContract(w, r)
	if !ok {
		return
	}
	terms, err := factory.ParseTerms(rec.TermsJSON)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "corrupt stored terms", err)
		return
	}

	asOf := terms.StatusDate
	if v := r.URL.Query().Get("as_of"); v != "" {
		if asOf, err = schedule.ParseDate(v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid as_of", err)
			return
		}
	}

	result, err := h.valueContract(asOf, terms)
	if err != nil {
		writeError(w, statusForSchedulingError(err), "valuation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, ValuationDTO{
		ContractID: rec.ID,
		AsOf:       asOf.String(),
		NPV:        result.NPV.Value.String(),
		Currency:   result.NPV.Currency,
		Flows:      toCashFlowDTOs(result.Flows),
	})
}

// =============================================================================
// PORTFOLIO ENDPOINTS
// =============================================================================

func (h *Handler) ListPortfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.Store.ListPortfolios(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list portfolios", err)
		return
	}
	dtos := make([]PortfolioDTO, 0, len(portfolios))
	for _, p := range portfolios {
		dtos = append(dtos, PortfolioDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req CreatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "portfolio id is required", nil)
		return
	}
	p := pam.Portfolio{ID: req.ID, Name: req.Name, ContractIDs: req.ContractIDs}
	if err := h.Store.SavePortfolio(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save portfolio", err)
		return
	}
	writeJSON(w, http.StatusCreated, PortfolioDTO(p))
}

func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPortfolio(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, pam.ErrPortfolioNotFound) {
			writeError(w, http.StatusNotFound, "portfolio not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load portfolio", err)
		return
	}
	writeJSON(w, http.StatusOK, PortfolioDTO(p))
}

func (h *Handler) AddPortfolioContract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContractID string `json:"contract_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	err := h.Store.AddToPortfolio(r.Context(), chi.URLParam(r, "id"), req.ContractID)
	if err != nil {
		switch {
		case errors.Is(err, pam.ErrPortfolioNotFound):
			writeError(w, http.StatusNotFound, "portfolio not found", err)
		case errors.Is(err, pam.ErrContractNotFound):
			writeError(w, http.StatusNotFound, "contract not found", err)
		default:
			writeError(w, http.StatusInternalServerError, "failed to add contract", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ValuePortfolio batch-values every contract in the portfolio and records
// the run. One rejected contract fails only that contract; its NPV
// contribution is reported as an error detail instead.
func (h *Handler) ValuePortfolio(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPortfolio(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, pam.ErrPortfolioNotFound) {
			writeError(w, http.StatusNotFound, "portfolio not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load portfolio", err)
		return
	}

	asOf := schedule.Today()
	if v := r.URL.Query().Get("as_of"); v != "" {
		if asOf, err = schedule.ParseDate(v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid as_of", err)
			return
		}
	}

	run, details, err := h.runPortfolioValuation(r.Context(), p, asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "portfolio valuation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run": ValuationRunDTO{
			ID:          run.ID,
			PortfolioID: run.PortfolioID,
			AsOf:        run.AsOf.String(),
			NPV:         run.NPV.String(),
			Currency:    run.Currency,
			CreatedAt:   run.CreatedAt.Format(time.RFC3339),
		},
		"contracts": details,
	})
}

func (h *Handler) ListValuationRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListValuationRuns(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs", err)
		return
	}
	dtos := make([]ValuationRunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, ValuationRunDTO{
			ID:          run.ID,
			PortfolioID: run.PortfolioID,
			AsOf:        run.AsOf.String(),
			NPV:         run.NPV.String(),
			Currency:    run.Currency,
			CreatedAt:   run.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PORTFOLIO VALUATION CORE (shared with the cron scheduler)
// =============================================================================

type contractValuationDetail struct {
	ContractID string `json:"contract_id"`
	NPV        string `json:"npv,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (h *Handler) runPortfolioValuation(ctx context.Context, p pam.Portfolio, asOf schedule.TimePoint) (pam.ValuationRun, []contractValuationDetail, error) {
	batch := make([]pam.ContractTerms, 0, len(p.ContractIDs))
	details := make([]contractValuationDetail, 0, len(p.ContractIDs))
	for _, id := range p.ContractIDs {
		rec, err := h.Store.GetContract(ctx, id)
		if err != nil {
			details = append(details, contractValuationDetail{ContractID: id, Error: err.Error()})
			continue
		}
		terms, err := factory.ParseTerms(rec.TermsJSON)
		if err != nil {
			details = append(details, contractValuationDetail{ContractID: id, Error: err.Error()})
			continue
		}
		batch = append(batch, terms)
	}

	total := decimal.Zero
	currency := "EUR"
	results := h.Scheduler.ScheduleAll(ctx, h.DefaultHorizon, batch, 0)
	for i, res := range results {
		if res.Err != nil {
			details = append(details, contractValuationDetail{ContractID: res.ContractID, Error: res.Err.Error()})
			continue
		}
		result, err := h.Valuer.Value(asOf, res.Events, batch[i])
		if err != nil {
			details = append(details, contractValuationDetail{ContractID: res.ContractID, Error: err.Error()})
			continue
		}
		total = total.Add(result.NPV.Value)
		currency = result.NPV.Currency
		details = append(details, contractValuationDetail{ContractID: res.ContractID, NPV: result.NPV.Value.String()})
	}

	run := pam.ValuationRun{
		ID:          uuid.NewString(),
		PortfolioID: p.ID,
		AsOf:        asOf,
		NPV:         total,
		Currency:    currency,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.Store.SaveValuationRun(ctx, run); err != nil {
		return pam.ValuationRun{}, nil, err
	}
	return run, details, nil
}

func (h *Handler) valueContract(asOf schedule.TimePoint, terms pam.ContractTerms) (*valuation.Valuation, error) {
	events, err := h.Scheduler.Schedule(h.DefaultHorizon, terms)
	if err != nil {
		return nil, err
	}
	return h.Valuer.Value(asOf, events, terms)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) loadContract(w http.ResponseWriter, r *http.Request) (pam.ContractRecord, bool) {
	rec, err := h.Store.GetContract(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, pam.ErrContractNotFound) {
			writeError(w, http.StatusNotFound, "contract not found", err)
			return pam.ContractRecord{}, false
		}
		writeError(w, http.StatusInternalServerError, "failed to load contract", err)
		return pam.ContractRecord{}, false
	}
	return rec, true
}

func toContractDTO(rec pam.ContractRecord) (ContractDTO, error) {
	var terms factory.TermsJSON
	if err := json.Unmarshal([]byte(rec.TermsJSON), &terms); err != nil {
		return ContractDTO{}, err
	}
	return ContractDTO{
		ID:        rec.ID,
		Name:      rec.Name,
		Terms:     terms,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
	}, nil
}

func statusForSchedulingError(err error) int {
	if schedule.IsTermsRejection(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
