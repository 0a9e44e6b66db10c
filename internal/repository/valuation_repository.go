package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
)

// ValuationRepository provides data access methods for the valuation table.
type ValuationRepository struct {
	db *sql.DB
}

// NewValuationRepository creates a new ValuationRepository with the provided database connection.
func NewValuationRepository(db *sql.DB) *ValuationRepository {
	return &ValuationRepository{db: db}
}

// LatestValuation returns the most recent valuation of the instrument dated on or before asOf.
// Returns nil without error when none was recorded.
func (r *ValuationRepository) LatestValuation(ctx context.Context, instrumentID string, asOf time.Time) (*model.Valuation, error) {
	query := `
        SELECT id, instrument_id, date, value, exchange_rate, created_at
        FROM valuation
        WHERE instrument_id = ? AND date <= ?
        ORDER BY date DESC, created_at DESC
        LIMIT 1
    `

	var v model.Valuation
	var dateStr, createdAtStr string

	err := r.db.QueryRowContext(ctx, query, instrumentID, formatDate(asOf)).Scan(
		&v.ID,
		&v.InstrumentID,
		&dateStr,
		&v.Value,
		&v.ExchangeRate,
		&createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Gateway("failed to query valuation table", err)
	}

	v.Date, err = ParseTime(dateStr)
	if err != nil {
		return nil, apperrors.Gateway("failed to parse valuation date", err)
	}
	v.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return nil, apperrors.Gateway("failed to parse valuation created_at", err)
	}

	return &v, nil
}

// InsertValuation stores a new valuation.
// Returns ErrInstrumentNotFound when the referenced instrument does not exist.
func (r *ValuationRepository) InsertValuation(ctx context.Context, v *model.Valuation) error {
	query := `
        INSERT INTO valuation (id, instrument_id, date, value, exchange_rate, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `

	_, err := r.db.ExecContext(ctx, query,
		v.ID,
		v.InstrumentID,
		formatDate(v.Date),
		v.Value.String(),
		v.ExchangeRate.String(),
		formatTimestamp(v.CreatedAt),
	)
	if isForeignKeyViolation(err) {
		return apperrors.ErrInstrumentNotFound
	}
	if err != nil {
		return apperrors.Gateway("failed to insert valuation", err)
	}

	return nil
}
