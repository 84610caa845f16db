package repositories

import (
	"context"
	"fmt"

	"infinite-experiment/flightlog/internal/constants"

	"github.com/jmoiron/sqlx"
)

// LedgerSummary aggregates one pilot's PIREPs
type LedgerSummary struct {
	ApprovedMinutes int `db:"approved_minutes"`
	ApprovedCount   int `db:"approved_count"`
	PendingCount    int `db:"pending_count"`
	DeniedCount     int `db:"denied_count"`
}

// PilotTotal is one row of the all-pilots ledger
type PilotTotal struct {
	PilotID string `db:"owner_id"`
	Total   int    `db:"total"`
}

// LedgerRepo reads flight-time aggregates with plain SQL
type LedgerRepo struct {
	db *sqlx.DB
}

func NewLedgerRepo(db *sqlx.DB) *LedgerRepo {
	return &LedgerRepo{db}
}

// LedgerTotal returns the sum of a pilot's approved flight time, in minutes
func (r *LedgerRepo) LedgerTotal(ctx context.Context, pilotID string) (int, error) {
	var total int

	err := r.db.QueryRowxContext(ctx, r.db.Rebind(constants.LedgerTotalByPilot), pilotID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to read ledger total: %w", err)
	}

	return total, nil
}

func (r *LedgerRepo) LedgerSummary(ctx context.Context, pilotID string) (*LedgerSummary, error) {
	var summary LedgerSummary

	err := r.db.QueryRowxContext(ctx, r.db.Rebind(constants.LedgerSummaryByPilot), pilotID).StructScan(&summary)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger summary: %w", err)
	}

	return &summary, nil
}

// PilotTotals returns the approved total of every pilot
func (r *LedgerRepo) PilotTotals(ctx context.Context) ([]PilotTotal, error) {
	var totals []PilotTotal

	if err := r.db.SelectContext(ctx, &totals, constants.PilotLedgerTotals); err != nil {
		return nil, fmt.Errorf("failed to read pilot totals: %w", err)
	}

	return totals, nil
}
