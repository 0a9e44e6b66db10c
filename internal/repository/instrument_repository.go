package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/database"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
)

// InstrumentRepository provides data access methods for the instrument table.
type InstrumentRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewInstrumentRepository creates a new InstrumentRepository with the provided database connection.
func NewInstrumentRepository(db *sql.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

func (r *InstrumentRepository) WithTx(tx *sql.Tx) *InstrumentRepository {
	return &InstrumentRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *InstrumentRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const instrumentColumns = `id, name, class, currency, issuer, rating, risk_level, liquidity, created_at, updated_at`

// ListInstruments retrieves instruments matching the filter, ordered by name.
// Returns an empty slice if no instruments are found.
func (r *InstrumentRepository) ListInstruments(ctx context.Context, filter model.InstrumentFilter) ([]model.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instrument WHERE 1=1`
	var args []any

	if filter.Class != "" {
		query += ` AND class = ?`
		args = append(args, filter.Class)
	}
	if filter.Currency != "" {
		query += ` AND currency = ?`
		args = append(args, filter.Currency)
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Gateway("failed to query instrument table", err)
	}
	defer rows.Close()

	instruments := []model.Instrument{}
	for rows.Next() {
		inst, err := scanInstrument(rows)
		if err != nil {
			return nil, err
		}
		instruments = append(instruments, inst)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.Gateway("error iterating instrument table", err)
	}

	return instruments, nil
}

// GetInstrument retrieves a single instrument by its ID.
// Returns ErrInstrumentNotFound if no instrument with the given ID exists.
func (r *InstrumentRepository) GetInstrument(ctx context.Context, instrumentID string) (model.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instrument WHERE id = ?`

	inst, err := scanInstrument(r.getQuerier().QueryRowContext(ctx, query, instrumentID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Instrument{}, apperrors.ErrInstrumentNotFound
	}
	if err != nil {
		return model.Instrument{}, err
	}
	return inst, nil
}

// InsertInstrument stores a new instrument.
func (r *InstrumentRepository) InsertInstrument(ctx context.Context, inst *model.Instrument) error {
	query := `
        INSERT INTO instrument (` + instrumentColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		inst.ID,
		inst.Name,
		inst.Class,
		inst.Currency,
		inst.Issuer,
		inst.Rating,
		inst.RiskLevel,
		inst.Liquidity,
		formatTimestamp(inst.CreatedAt),
		formatTimestamp(inst.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("instrument %s: %w", inst.ID, apperrors.ErrDuplicateEntry)
	}
	if err != nil {
		return apperrors.Gateway("failed to insert instrument", err)
	}

	return nil
}

// UpdateInstrument overwrites the descriptive fields of an instrument.
// Returns ErrInstrumentNotFound if no instrument with the given ID exists.
func (r *InstrumentRepository) UpdateInstrument(ctx context.Context, inst *model.Instrument) error {
	query := `
        UPDATE instrument
        SET name = ?, class = ?, currency = ?, issuer = ?, rating = ?, risk_level = ?, liquidity = ?, updated_at = ?
        WHERE id = ?
    `

	result, err := r.getQuerier().ExecContext(ctx, query,
		inst.Name,
		inst.Class,
		inst.Currency,
		inst.Issuer,
		inst.Rating,
		inst.RiskLevel,
		inst.Liquidity,
		formatTimestamp(inst.UpdatedAt),
		inst.ID,
	)
	if err != nil {
		return apperrors.Gateway("failed to update instrument", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Gateway("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrInstrumentNotFound
	}

	return nil
}

// CountEntriesForInstrument returns how many transaction log entries reference the instrument.
func (r *InstrumentRepository) CountEntriesForInstrument(ctx context.Context, instrumentID string) (int, error) {
	var count int
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM "transaction" WHERE instrument_id = ?`, instrumentID,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Gateway("failed to count transactions for instrument", err)
	}
	return count, nil
}

// DeleteInstrument removes an instrument and its valuations.
// The reference check and the delete run in one transaction.
// Returns ErrInstrumentInUse when any transaction references it and
// ErrInstrumentNotFound if no instrument with the given ID exists.
func (r *InstrumentRepository) DeleteInstrument(ctx context.Context, instrumentID string) error {
	return database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		txRepo := r.WithTx(tx)

		count, err := txRepo.CountEntriesForInstrument(ctx, instrumentID)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrInstrumentInUse
		}

		result, err := txRepo.getQuerier().ExecContext(ctx, `DELETE FROM instrument WHERE id = ?`, instrumentID)
		if isForeignKeyViolation(err) {
			return apperrors.ErrInstrumentInUse
		}
		if err != nil {
			return apperrors.Gateway("failed to delete instrument", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return apperrors.Gateway("failed to get rows affected", err)
		}

		if rowsAffected == 0 {
			return apperrors.ErrInstrumentNotFound
		}

		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInstrument(row rowScanner) (model.Instrument, error) {
	var inst model.Instrument
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&inst.ID,
		&inst.Name,
		&inst.Class,
		&inst.Currency,
		&inst.Issuer,
		&inst.Rating,
		&inst.RiskLevel,
		&inst.Liquidity,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return inst, err
	}
	if err != nil {
		return inst, apperrors.Gateway("failed to scan instrument table results", err)
	}

	inst.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return inst, apperrors.Gateway("failed to parse instrument created_at", err)
	}
	inst.UpdatedAt, err = ParseTime(updatedAtStr)
	if err != nil {
		return inst, apperrors.Gateway("failed to parse instrument updated_at", err)
	}

	return inst, nil
}
