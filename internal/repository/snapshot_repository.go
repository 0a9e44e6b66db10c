package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/database"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
)

// SnapshotRepository provides data access methods for the snapshot table.
// Totals live in their own columns for listing; the nested structures are one
// versioned JSON payload.
type SnapshotRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) WithTx(tx *sql.Tx) *SnapshotRepository {
	return &SnapshotRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *SnapshotRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const snapshotSummaryColumns = `id, date, created_at, kind, base_currency, total_value, total_cost, total_return, total_return_rate, note`

// SaveSnapshot stores a new snapshot.
// Returns ErrDuplicateEntry when a snapshot of the same date and kind already exists.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, s *model.Snapshot) error {
	payload, err := model.EncodeSnapshotPayload(*s)
	if err != nil {
		return apperrors.Gateway("failed to save snapshot", err)
	}

	query := `
        INSERT INTO snapshot (` + snapshotSummaryColumns + `, payload, schema_version)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err = r.getQuerier().ExecContext(ctx, query,
		s.ID,
		formatDate(s.Date),
		formatTimestamp(s.CreatedAt),
		s.Kind,
		s.BaseCurrency,
		s.TotalValue.String(),
		s.TotalCost.String(),
		s.TotalReturn.String(),
		s.TotalReturnRate.String(),
		s.Note,
		string(payload),
		model.SnapshotSchemaVersion,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("snapshot %s %s: %w", s.Kind, formatDate(s.Date), apperrors.ErrDuplicateEntry)
	}
	if err != nil {
		return apperrors.Gateway("failed to insert snapshot", err)
	}

	return nil
}

// ReplaceSnapshot stores s, first removing any snapshot of the same date and kind,
// in one transaction. It returns the ID of the removed snapshot, or "" when there was none.
func (r *SnapshotRepository) ReplaceSnapshot(ctx context.Context, s *model.Snapshot) (string, error) {
	var replacedID string
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		txRepo := r.WithTx(tx)

		existing, err := txRepo.GetSnapshotByDateAndKind(ctx, s.Date, s.Kind)
		switch {
		case err == nil:
			if err := txRepo.DeleteSnapshot(ctx, existing.ID); err != nil {
				return err
			}
			replacedID = existing.ID
		case !errors.Is(err, apperrors.ErrSnapshotNotFound):
			return err
		}

		return txRepo.SaveSnapshot(ctx, s)
	})
	if err != nil {
		return "", err
	}
	return replacedID, nil
}

// GetSnapshot retrieves a snapshot with its decoded payload.
// Returns ErrSnapshotNotFound if no snapshot with the given ID exists.
func (r *SnapshotRepository) GetSnapshot(ctx context.Context, snapshotID string) (model.Snapshot, error) {
	query := `SELECT ` + snapshotSummaryColumns + `, payload FROM snapshot WHERE id = ?`
	return r.getOne(ctx, query, snapshotID)
}

// GetSnapshotByDateAndKind retrieves the snapshot of the given kind taken on the given calendar date.
// Returns ErrSnapshotNotFound if there is none.
func (r *SnapshotRepository) GetSnapshotByDateAndKind(ctx context.Context, date time.Time, kind model.SnapshotKind) (model.Snapshot, error) {
	query := `SELECT ` + snapshotSummaryColumns + `, payload FROM snapshot WHERE date = ? AND kind = ?`
	return r.getOne(ctx, query, formatDate(date), kind)
}

func (r *SnapshotRepository) getOne(ctx context.Context, query string, args ...any) (model.Snapshot, error) {
	var payload string
	summary, err := scanSnapshotSummary(r.getQuerier().QueryRowContext(ctx, query, args...), &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, apperrors.ErrSnapshotNotFound
	}
	if err != nil {
		return model.Snapshot{}, err
	}

	s := model.Snapshot{
		ID:              summary.ID,
		Date:            summary.Date,
		CreatedAt:       summary.CreatedAt,
		Kind:            summary.Kind,
		BaseCurrency:    summary.BaseCurrency,
		TotalValue:      summary.TotalValue,
		TotalCost:       summary.TotalCost,
		TotalReturn:     summary.TotalReturn,
		TotalReturnRate: summary.TotalReturnRate,
		Note:            summary.Note,
	}
	if err := model.DecodeSnapshotPayload([]byte(payload), &s); err != nil {
		return model.Snapshot{}, apperrors.Gateway(fmt.Sprintf("failed to read snapshot %s", s.ID), err)
	}
	return s, nil
}

// ListSnapshots retrieves snapshot summaries matching the filter, newest first.
// Returns an empty slice if no snapshots are found.
func (r *SnapshotRepository) ListSnapshots(ctx context.Context, filter model.SnapshotFilter) ([]model.SnapshotSummary, error) {
	query := `SELECT ` + snapshotSummaryColumns + ` FROM snapshot WHERE 1=1`
	var args []any

	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, filter.Kind)
	}
	if !filter.StartDate.IsZero() {
		query += ` AND date >= ?`
		args = append(args, formatDate(filter.StartDate))
	}
	if !filter.EndDate.IsZero() {
		query += ` AND date <= ?`
		args = append(args, formatDate(filter.EndDate))
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Gateway("failed to query snapshot table", err)
	}
	defer rows.Close()

	summaries := []model.SnapshotSummary{}
	for rows.Next() {
		s, err := scanSnapshotSummary(rows, nil)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.Gateway("error iterating snapshot table", err)
	}

	return summaries, nil
}

// DeleteSnapshot removes a snapshot by its ID.
// Returns ErrSnapshotNotFound if no snapshot with the given ID exists.
func (r *SnapshotRepository) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM snapshot WHERE id = ?`, snapshotID)
	if err != nil {
		return apperrors.Gateway("failed to delete snapshot", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Gateway("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrSnapshotNotFound
	}

	return nil
}

// scanSnapshotSummary scans the summary columns, plus the payload column when payload is not nil.
func scanSnapshotSummary(row rowScanner, payload *string) (model.SnapshotSummary, error) {
	var s model.SnapshotSummary
	var dateStr, createdAtStr string

	dest := []any{
		&s.ID,
		&dateStr,
		&createdAtStr,
		&s.Kind,
		&s.BaseCurrency,
		&s.TotalValue,
		&s.TotalCost,
		&s.TotalReturn,
		&s.TotalReturnRate,
		&s.Note,
	}
	if payload != nil {
		dest = append(dest, payload)
	}

	err := row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return s, err
	}
	if err != nil {
		return s, apperrors.Gateway("failed to scan snapshot table results", err)
	}

	s.Date, err = ParseTime(dateStr)
	if err != nil {
		return s, apperrors.Gateway("failed to parse snapshot date", err)
	}
	s.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return s, apperrors.Gateway("failed to parse snapshot created_at", err)
	}

	return s, nil
}
