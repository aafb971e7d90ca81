// Package store provides the in-memory Store implementation used by tests
// and the CLI.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/contract-engine/pam"
	"github.com/warp/contract-engine/schedule"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	contracts  map[string]pam.ContractRecord
	schedules  map[string][]pam.Event
	portfolios map[string]pam.Portfolio
	runs       map[string][]pam.ValuationRun
}

func NewMemory() *Memory {
	return &Memory{
		contracts:  make(map[string]pam.ContractRecord),
		schedules:  make(map[string][]pam.Event),
		portfolios: make(map[string]pam.Portfolio),
		runs:       make(map[string][]pam.ValuationRun),
	}
}

var _ pam.Store = (*Memory)(nil)

// SaveContract stores a contract record, rejecting duplicate IDs.
func (m *Memory) SaveContract(_ context.Context, rec pam.ContractRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.contracts[rec.ID]; ok {
		return pam.ErrDuplicateContract
	}
	m.contracts[rec.ID] = rec
	return nil
}

func (m *Memory) GetContract(_ context.Context, id string) (pam.ContractRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.contracts[id]
	if !ok {
		return pam.ContractRecord{}, pam.ErrContractNotFound
	}
	return rec, nil
}

func (m *Memory) ListContracts(_ context.Context) ([]pam.ContractRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]pam.ContractRecord, 0, len(m.contracts))
	for _, rec := range m.contracts {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveSchedule replaces the stored schedule of the contract.
func (m *Memory) SaveSchedule(_ context.Context, contractID string, _ schedule.TimePoint, events []pam.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.contracts[contractID]; !ok {
		return pam.ErrContractNotFound
	}
	stored := make([]pam.Event, len(events))
	copy(stored, events)
	m.schedules[contractID] = stored
	return nil
}

func (m *Memory) LoadSchedule(_ context.Context, contractID string) ([]pam.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events, ok := m.schedules[contractID]
	if !ok {
		return nil, pam.ErrContractNotFound
	}
	out := make([]pam.Event, len(events))
	copy(out, events)
	return out, nil
}

func (m *Memory) SavePortfolio(_ context.Context, p pam.Portfolio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.portfolios[p.ID] = p
	return nil
}

func (m *Memory) GetPortfolio(_ context.Context, id string) (pam.Portfolio, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.portfolios[id]
	if !ok {
		return pam.Portfolio{}, pam.ErrPortfolioNotFound
	}
	return p, nil
}

func (m *Memory) ListPortfolios(_ context.Context) ([]pam.Portfolio, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]pam.Portfolio, 0, len(m.portfolios))
	for _, p := range m.portfolios {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) AddToPortfolio(_ context.Context, portfolioID, contractID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.portfolios[portfolioID]
	if !ok {
		return pam.ErrPortfolioNotFound
	}
	if _, ok := m.contracts[contractID]; !ok {
		return pam.ErrContractNotFound
	}
	for _, id := range p.ContractIDs {
		if id == contractID {
			return nil
		}
	}
	p.ContractIDs = append(p.ContractIDs, contractID)
	m.portfolios[portfolioID] = p
	return nil
}

func (m *Memory) SaveValuationRun(_ context.Context, run pam.ValuationRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.PortfolioID] = append(m.runs[run.PortfolioID], run)
	return nil
}

func (m *Memory) ListValuationRuns(_ context.Context, portfolioID string) ([]pam.ValuationRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	runs := m.runs[portfolioID]
	out := make([]pam.ValuationRun, len(runs))
	copy(out, runs)
	return out, nil
}
