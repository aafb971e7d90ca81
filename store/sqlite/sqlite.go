/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements pam.Store (contracts, schedules, portfolios, valuation runs)
  using SQLite. In production the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

KEY TABLES:
  contracts:         contract terms (JSON-encoded) keyed by contract ID
  schedule_events:   the generated event rows of each contract; replaced
                     wholesale whenever a schedule is regenerated, since a
                     schedule is a pure derivation of its terms
  portfolios:        contract groupings for batch valuation
  portfolio_members: contract membership
  valuation_runs:    audit trail of portfolio valuations

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block and crash recovery improves.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - pam/store.go: interface definitions
  - pam/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/contract-engine/pam"
	"github.com/warp/contract-engine/schedule"
)

// Store implements pam.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

var _ pam.Store = (*Store)(nil)

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Contract terms, stored as their JSON encoding
	CREATE TABLE IF NOT EXISTS contracts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		terms_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Generated schedules, replaced on regeneration
	CREATE TABLE IF NOT EXISTS schedule_events (
		contract_id TEXT NOT NULL REFERENCES contracts(id),
		seq INTEGER NOT NULL,
		event_date TEXT NOT NULL,
		event_kind TEXT NOT NULL,
		payoff TEXT NOT NULL,
		currency TEXT NOT NULL,
		horizon TEXT NOT NULL,
		PRIMARY KEY (contract_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_schedule_events_date
		ON schedule_events(contract_id, event_date);

	-- Portfolios
	CREATE TABLE IF NOT EXISTS portfolios (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS portfolio_members (
		portfolio_id TEXT NOT NULL REFERENCES portfolios(id),
		contract_id TEXT NOT NULL REFERENCES contracts(id),
		PRIMARY KEY (portfolio_id, contract_id)
	);

	-- Valuation runs (audit trail)
	CREATE TABLE IF NOT EXISTS valuation_runs (
		id TEXT PRIMARY KEY,
		portfolio_id TEXT NOT NULL REFERENCES portfolios(id),
		as_of TEXT NOT NULL,
		npv TEXT NOT NULL,
		currency TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_valuation_runs_portfolio
		ON valuation_runs(portfolio_id, created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CONTRACTS
// =============================================================================

func (s *Store) SaveContract(ctx context.Context, rec pam.ContractRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contracts (id, name, terms_json, created_at) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.TermsJSON, createdAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return pam.ErrDuplicateContract
		}
		return fmt.Errorf("save contract: %w", err)
	}
	return nil
}

func (s *Store) GetContract(ctx context.Context, id string) (pam.ContractRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, terms_json, created_at FROM contracts WHERE id = ?`, id)
	return scanContract(row)
}

func (s *Store) ListContracts(ctx context.Context) ([]pam.ContractRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, terms_json, created_at FROM contracts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var out []pam.ContractRecord
	for rows.Next() {
		rec, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (pam.ContractRecord, error) {
	var rec pam.ContractRecord
	var createdAt string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.TermsJSON, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return pam.ContractRecord{}, pam.ErrContractNotFound
		}
		return pam.ContractRecord{}, fmt.Errorf("scan contract: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return rec, nil
}

// =============================================================================
// SCHEDULES
// =============================================================================

// SaveSchedule replaces the stored event rows of the contract atomically.
func (s *Store) SaveSchedule(ctx context.Context, contractID string, horizon schedule.TimePoint, events []pam.Event) error {
	if _, err := s.GetContract(ctx, contractID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM schedule_events WHERE contract_id = ?`, contractID); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	for i, e := range events {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schedule_events (contract_id, seq, event_date, event_kind, payoff, currency, horizon)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			contractID, i, e.Date.String(), string(e.Kind), e.Payoff.String(), e.Currency, horizon.String()); err != nil {
			return fmt.Errorf("save schedule: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) LoadSchedule(ctx context.Context, contractID string) ([]pam.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_date, event_kind, payoff, currency FROM schedule_events
		 WHERE contract_id = ? ORDER BY seq`, contractID)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	defer rows.Close()

	var out []pam.Event
	for rows.Next() {
		var dateStr, kind, payoff, currency string
		if err := rows.Scan(&dateStr, &kind, &payoff, &currency); err != nil {
			return nil, fmt.Errorf("load schedule: %w", err)
		}
		date, err := schedule.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("load schedule: bad date %q: %w", dateStr, err)
		}
		amount, err := decimal.NewFromString(payoff)
		if err != nil {
			return nil, fmt.Errorf("load schedule: bad payoff %q: %w", payoff, err)
		}
		out = append(out, pam.Event{Date: date, Kind: pam.EventKind(kind), Payoff: amount, Currency: currency})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, pam.ErrContractNotFound
	}
	return out, nil
}

// =============================================================================
// PORTFOLIOS
// =============================================================================

func (s *Store) SavePortfolio(ctx context.Context, p pam.Portfolio) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save portfolio: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO portfolios (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`, p.ID, p.Name); err != nil {
		return fmt.Errorf("save portfolio: %w", err)
	}
	for _, contractID := range p.ContractIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO portfolio_members (portfolio_id, contract_id) VALUES (?, ?)`,
			p.ID, contractID); err != nil {
			return fmt.Errorf("save portfolio: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) GetPortfolio(ctx context.Context, id string) (pam.Portfolio, error) {
	var p pam.Portfolio
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM portfolios WHERE id = ?`, id).Scan(&p.ID, &p.Name)
	if err == sql.ErrNoRows {
		return pam.Portfolio{}, pam.ErrPortfolioNotFound
	}
	if err != nil {
		return pam.Portfolio{}, fmt.Errorf("get portfolio: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT contract_id FROM portfolio_members WHERE portfolio_id = ? ORDER BY contract_id`, id)
	if err != nil {
		return pam.Portfolio{}, fmt.Errorf("get portfolio: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var contractID string
		if err := rows.Scan(&contractID); err != nil {
			return pam.Portfolio{}, fmt.Errorf("get portfolio: %w", err)
		}
		p.ContractIDs = append(p.ContractIDs, contractID)
	}
	return p, rows.Err()
}

func (s *Store) ListPortfolios(ctx context.Context) ([]pam.Portfolio, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM portfolios ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list portfolios: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list portfolios: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]pam.Portfolio, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetPortfolio(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) AddToPortfolio(ctx context.Context, portfolioID, contractID string) error {
	if _, err := s.GetPortfolio(ctx, portfolioID); err != nil {
		return err
	}
	if _, err := s.GetContract(ctx, contractID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO portfolio_members (portfolio_id, contract_id) VALUES (?, ?)`,
		portfolioID, contractID)
	if err != nil {
		return fmt.Errorf("add to portfolio: %w", err)
	}
	return nil
}

// =============================================================================
// VALUATION RUNS
// =============================================================================

func (s *Store) SaveValuationRun(ctx context.Context, run pam.ValuationRun) error {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO valuation_runs (id, portfolio_id, as_of, npv, currency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.PortfolioID, run.AsOf.String(), run.NPV.String(), run.Currency,
		createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save valuation run: %w", err)
	}
	return nil
}

func (s *Store) ListValuationRuns(ctx context.Context, portfolioID string) ([]pam.ValuationRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, portfolio_id, as_of, npv, currency, created_at FROM valuation_runs
		 WHERE portfolio_id = ? ORDER BY created_at DESC`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("list valuation runs: %w", err)
	}
	defer rows.Close()

	var out []pam.ValuationRun
	for rows.Next() {
		var run pam.ValuationRun
		var asOf, npv, createdAt string
		if err := rows.Scan(&run.ID, &run.PortfolioID, &asOf, &npv, &run.Currency, &createdAt); err != nil {
			return nil, fmt.Errorf("list valuation runs: %w", err)
		}
		if run.AsOf, err = schedule.ParseDate(asOf); err != nil {
			return nil, fmt.Errorf("list valuation runs: bad as_of %q: %w", asOf, err)
		}
		if run.NPV, err = decimal.NewFromString(npv); err != nil {
			return nil, fmt.Errorf("list valuation runs: bad npv %q: %w", npv, err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			run.CreatedAt = t
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	// Matching the message keeps this file free of driver-specific error
	// type imports.
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}
