package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/validation"
)

// ValuationService records manual market values that override book value.
type ValuationService struct {
	instruments  InstrumentStore
	valuations   ValuationStore
	baseCurrency string
	now          Clock
}

// NewValuationService creates a new ValuationService.
func NewValuationService(instruments InstrumentStore, valuations ValuationStore, baseCurrency string, now Clock) *ValuationService {
	return &ValuationService{
		instruments:  instruments,
		valuations:   valuations,
		baseCurrency: baseCurrency,
		now:          now,
	}
}

// RecordValuation stores a valuation of the instrument in its native currency.
// The exchange rate defaults to 1 when the instrument is held in the base currency.
func (s *ValuationService) RecordValuation(ctx context.Context, instrumentID string, req request.CreateValuationRequest) (*model.Valuation, error) {
	inst, err := s.instruments.GetInstrument(ctx, instrumentID)
	if err != nil {
		return nil, err
	}

	date, err := validation.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("date", err.Error())
	}

	var rate decimal.Decimal
	switch {
	case req.ExchangeRate != nil:
		rate = *req.ExchangeRate
	case inst.Currency == s.baseCurrency:
		rate = decimal.NewFromInt(1)
	default:
		return nil, apperrors.NewValidationError("exchangeRate", fmt.Sprintf("exchange rate to %s is required", s.baseCurrency))
	}

	v := &model.Valuation{
		ID:           uuid.New().String(),
		InstrumentID: inst.ID,
		Date:         model.DateOf(date),
		Value:        req.Value,
		ExchangeRate: rate,
		CreatedAt:    s.now(),
	}

	if err := s.valuations.InsertValuation(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to record valuation: %w", err)
	}

	return v, nil
}
