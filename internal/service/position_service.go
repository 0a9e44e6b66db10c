package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/engine"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
)

// PositionService derives the current state of one holding from its transaction log.
// Nothing it returns is stored.
type PositionService struct {
	instruments  InstrumentStore
	transactions TransactionStore
	valuations   ValuationStore
	now          Clock
}

// NewPositionService creates a new PositionService with the provided store dependencies.
func NewPositionService(
	instruments InstrumentStore,
	transactions TransactionStore,
	valuations ValuationStore,
	now Clock,
) *PositionService {
	return &PositionService{
		instruments:  instruments,
		transactions: transactions,
		valuations:   valuations,
		now:          now,
	}
}

// GetPosition computes the position of an instrument as of today.
// Returns nil without error when the instrument has no entries yet.
func (s *PositionService) GetPosition(ctx context.Context, instrumentID string) (*model.Position, error) {
	inst, err := s.instruments.GetInstrument(ctx, instrumentID)
	if err != nil {
		return nil, err
	}
	return s.positionAt(ctx, inst, model.DateOf(s.now()))
}

// positionAt loads the log and the latest valuation of inst and runs the aggregator.
func (s *PositionService) positionAt(ctx context.Context, inst model.Instrument, asOf time.Time) (*model.Position, error) {
	entries, err := s.transactions.ListTransactionsForInstrument(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	valuation, err := s.valuations.LatestValuation(ctx, inst.ID, asOf)
	if err != nil {
		return nil, err
	}

	position, err := engine.ComputePosition(inst, entries, valuation, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to compute position of instrument %s: %w", inst.ID, err)
	}
	return position, nil
}
