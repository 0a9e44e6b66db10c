package service

import (
	"context"
	"time"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
)

// InstrumentStore persists instruments. Implemented by repository.InstrumentRepository.
type InstrumentStore interface {
	GetInstrument(ctx context.Context, instrumentID string) (model.Instrument, error)
	ListInstruments(ctx context.Context, filter model.InstrumentFilter) ([]model.Instrument, error)
	InsertInstrument(ctx context.Context, inst *model.Instrument) error
	UpdateInstrument(ctx context.Context, inst *model.Instrument) error
	DeleteInstrument(ctx context.Context, instrumentID string) error
	CountEntriesForInstrument(ctx context.Context, instrumentID string) (int, error)
}

// TransactionStore persists the append-only transaction log.
// Implemented by repository.TransactionRepository.
type TransactionStore interface {
	ListTransactionsForInstrument(ctx context.Context, instrumentID string) ([]model.Entry, error)
	GetTransaction(ctx context.Context, transactionID string) (model.Entry, error)
	InsertTransaction(ctx context.Context, e *model.Entry) error
	UpdateTransactionNote(ctx context.Context, transactionID, note string) error
}

// ValuationStore persists manual valuations. Implemented by repository.ValuationRepository.
type ValuationStore interface {
	// LatestValuation returns nil without error when no valuation is dated on or before asOf.
	LatestValuation(ctx context.Context, instrumentID string, asOf time.Time) (*model.Valuation, error)
	InsertValuation(ctx context.Context, v *model.Valuation) error
}

// SnapshotStore persists snapshots. Implemented by repository.SnapshotRepository.
type SnapshotStore interface {
	ReplaceSnapshot(ctx context.Context, s *model.Snapshot) (string, error)
	GetSnapshot(ctx context.Context, snapshotID string) (model.Snapshot, error)
	ListSnapshots(ctx context.Context, filter model.SnapshotFilter) ([]model.SnapshotSummary, error)
	DeleteSnapshot(ctx context.Context, snapshotID string) error
}

// Clock returns the current time. Services read "today" through it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}
