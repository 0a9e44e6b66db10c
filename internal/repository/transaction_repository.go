package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
)

// TransactionRepository provides data access methods for the transaction table,
// the append-only log of entries against instruments.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, instrument_id, class, date, kind, amount, currency, exchange_rate, amount_base, detail, note, created_at`

// ListTransactionsForInstrument retrieves every entry of an instrument ordered by date, then ID.
// Returns an empty slice if the instrument has no entries.
func (r *TransactionRepository) ListTransactionsForInstrument(ctx context.Context, instrumentID string) ([]model.Entry, error) {
	query := `
        SELECT ` + transactionColumns + `
        FROM "transaction"
        WHERE instrument_id = ?
        ORDER BY date ASC, id ASC
    `

	rows, err := r.db.QueryContext(ctx, query, instrumentID)
	if err != nil {
		return nil, apperrors.Gateway("failed to query transaction table", err)
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		e, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.Gateway("error iterating transaction table", err)
	}

	return entries, nil
}

// GetTransaction retrieves a single entry by its ID.
// Returns ErrTransactionNotFound if no entry with the given ID exists.
func (r *TransactionRepository) GetTransaction(ctx context.Context, transactionID string) (model.Entry, error) {
	query := `SELECT ` + transactionColumns + ` FROM "transaction" WHERE id = ?`

	e, err := scanTransaction(r.db.QueryRowContext(ctx, query, transactionID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Entry{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Entry{}, err
	}
	return e, nil
}

// InsertTransaction appends an entry to the log.
// Returns ErrInstrumentNotFound when the referenced instrument does not exist.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, e *model.Entry) error {
	detail, err := model.MarshalDetail(e.Detail)
	if err != nil {
		return apperrors.Gateway("failed to encode transaction detail", err)
	}

	query := `
        INSERT INTO "transaction" (` + transactionColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	var detailArg any
	if detail != nil {
		detailArg = string(detail)
	}

	_, err = r.db.ExecContext(ctx, query,
		e.ID,
		e.InstrumentID,
		e.Class,
		formatDate(e.Date),
		e.Kind,
		e.Amount.String(),
		e.Currency,
		e.ExchangeRate.String(),
		e.AmountBase.String(),
		detailArg,
		e.Note,
		formatTimestamp(e.CreatedAt),
	)
	switch {
	case isForeignKeyViolation(err):
		return apperrors.ErrInstrumentNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("transaction %s: %w", e.ID, apperrors.ErrDuplicateEntry)
	case err != nil:
		return apperrors.Gateway("failed to insert transaction", err)
	}

	return nil
}

// UpdateTransactionNote replaces the note of an entry. No other column is ever updated.
// Returns ErrTransactionNotFound if no entry with the given ID exists.
func (r *TransactionRepository) UpdateTransactionNote(ctx context.Context, transactionID, note string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE "transaction" SET note = ? WHERE id = ?`, note, transactionID,
	)
	if err != nil {
		return apperrors.Gateway("failed to update transaction note", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Gateway("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}

	return nil
}

func scanTransaction(row rowScanner) (model.Entry, error) {
	var e model.Entry
	var dateStr, createdAtStr string
	var detail sql.NullString

	err := row.Scan(
		&e.ID,
		&e.InstrumentID,
		&e.Class,
		&dateStr,
		&e.Kind,
		&e.Amount,
		&e.Currency,
		&e.ExchangeRate,
		&e.AmountBase,
		&detail,
		&e.Note,
		&createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return e, err
	}
	if err != nil {
		return e, apperrors.Gateway("failed to scan transaction table results", err)
	}

	e.Date, err = ParseTime(dateStr)
	if err != nil {
		return e, apperrors.Gateway("failed to parse transaction date", err)
	}
	e.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return e, apperrors.Gateway("failed to parse transaction created_at", err)
	}

	if detail.Valid {
		e.Detail, err = model.UnmarshalDetail(e.Class, []byte(detail.String))
		if err != nil {
			return e, apperrors.Gateway(fmt.Sprintf("failed to decode detail of transaction %s", e.ID), err)
		}
	}

	return e, nil
}
