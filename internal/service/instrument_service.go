package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/money"
)

// InstrumentService is the instrument registry.
type InstrumentService struct {
	instruments InstrumentStore
	now         Clock
}

// NewInstrumentService creates a new InstrumentService with the provided store.
func NewInstrumentService(instruments InstrumentStore, now Clock) *InstrumentService {
	return &InstrumentService{
		instruments: instruments,
		now:         now,
	}
}

// ListInstruments retrieves instruments matching the filter.
func (s *InstrumentService) ListInstruments(ctx context.Context, filter model.InstrumentFilter) ([]model.Instrument, error) {
	return s.instruments.ListInstruments(ctx, filter)
}

// GetInstrument retrieves a single instrument by its ID.
func (s *InstrumentService) GetInstrument(ctx context.Context, instrumentID string) (model.Instrument, error) {
	return s.instruments.GetInstrument(ctx, instrumentID)
}

// CreateInstrument registers a new instrument.
func (s *InstrumentService) CreateInstrument(ctx context.Context, req request.CreateInstrumentRequest) (*model.Instrument, error) {
	now := s.now()
	inst := &model.Instrument{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Class:     model.InstrumentClass(strings.ToUpper(strings.TrimSpace(req.Class))),
		Currency:  money.NormalizeCurrency(req.Currency),
		Issuer:    strings.TrimSpace(req.Issuer),
		Rating:    strings.TrimSpace(req.Rating),
		RiskLevel: req.RiskLevel,
		Liquidity: model.Liquidity(strings.ToUpper(strings.TrimSpace(req.Liquidity))),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := inst.Validate(); err != nil {
		return nil, err
	}

	if err := s.instruments.InsertInstrument(ctx, inst); err != nil {
		return nil, fmt.Errorf("failed to create instrument: %w", err)
	}

	return inst, nil
}

// UpdateInstrument applies the non-nil fields of req.
// Class and currency are frozen once any entry references the instrument, since
// every entry's detail variant and exchange rate depend on them.
func (s *InstrumentService) UpdateInstrument(ctx context.Context, instrumentID string, req request.UpdateInstrumentRequest) (*model.Instrument, error) {
	inst, err := s.instruments.GetInstrument(ctx, instrumentID)
	if err != nil {
		return nil, err
	}

	structural := false
	if req.Name != nil {
		inst.Name = strings.TrimSpace(*req.Name)
	}
	if req.Class != nil {
		class := model.InstrumentClass(strings.ToUpper(strings.TrimSpace(*req.Class)))
		structural = structural || class != inst.Class
		inst.Class = class
	}
	if req.Currency != nil {
		currency := money.NormalizeCurrency(*req.Currency)
		structural = structural || currency != inst.Currency
		inst.Currency = currency
	}
	if req.Issuer != nil {
		inst.Issuer = strings.TrimSpace(*req.Issuer)
	}
	if req.Rating != nil {
		inst.Rating = strings.TrimSpace(*req.Rating)
	}
	if req.RiskLevel != nil {
		inst.RiskLevel = *req.RiskLevel
	}
	if req.Liquidity != nil {
		inst.Liquidity = model.Liquidity(strings.ToUpper(strings.TrimSpace(*req.Liquidity)))
	}

	if err := inst.Validate(); err != nil {
		return nil, err
	}

	if structural {
		count, err := s.instruments.CountEntriesForInstrument(ctx, instrumentID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("class and currency cannot change: %w", apperrors.ErrInstrumentInUse)
		}
	}

	inst.UpdatedAt = s.now()
	if err := s.instruments.UpdateInstrument(ctx, &inst); err != nil {
		return nil, fmt.Errorf("failed to update instrument: %w", err)
	}

	return &inst, nil
}

// DeleteInstrument removes an instrument no entry references.
func (s *InstrumentService) DeleteInstrument(ctx context.Context, instrumentID string) error {
	if _, err := s.instruments.GetInstrument(ctx, instrumentID); err != nil {
		return err
	}
	return s.instruments.DeleteInstrument(ctx, instrumentID)
}
