package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/validation"
)

// TransactionService appends entries to the transaction log and corrects their notes.
type TransactionService struct {
	instruments  InstrumentStore
	transactions TransactionStore
	baseCurrency string
	now          Clock
}

// NewTransactionService creates a new TransactionService with the provided store dependencies.
func NewTransactionService(
	instruments InstrumentStore,
	transactions TransactionStore,
	baseCurrency string,
	now Clock,
) *TransactionService {
	return &TransactionService{
		instruments:  instruments,
		transactions: transactions,
		baseCurrency: baseCurrency,
		now:          now,
	}
}

// GetTransaction retrieves a single entry by its ID.
func (s *TransactionService) GetTransaction(ctx context.Context, transactionID string) (model.Entry, error) {
	return s.transactions.GetTransaction(ctx, transactionID)
}

// GetTransactionsForInstrument retrieves the ordered log of an instrument.
func (s *TransactionService) GetTransactionsForInstrument(ctx context.Context, instrumentID string) ([]model.Entry, error) {
	if _, err := s.instruments.GetInstrument(ctx, instrumentID); err != nil {
		return nil, err
	}
	return s.transactions.ListTransactionsForInstrument(ctx, instrumentID)
}

// CreateTransaction validates req against the referenced instrument and appends the entry.
// The exchange rate defaults to 1 when the instrument is held in the base currency.
func (s *TransactionService) CreateTransaction(ctx context.Context, req request.CreateTransactionRequest) (*model.Entry, error) {
	var inst *model.Instrument
	found, err := s.instruments.GetInstrument(ctx, req.InstrumentID)
	switch {
	case err == nil:
		inst = &found
	case !errors.Is(err, apperrors.ErrInstrumentNotFound):
		return nil, err
	}

	c := apperrors.Collector{}
	if inst == nil {
		c.Add("reference", fmt.Sprintf("instrument %s does not exist", req.InstrumentID))
	}

	date, err := validation.ParseDate(req.Date)
	if err != nil {
		c.Add("date", err.Error())
	}

	var detail model.Detail
	if inst != nil && len(req.Detail) > 0 {
		detail, err = model.UnmarshalDetail(inst.Class, req.Detail)
		if err != nil {
			c.Add("detail", fmt.Sprintf("invalid detail for class %s", inst.Class))
		}
	}

	var rate decimal.Decimal
	switch {
	case req.ExchangeRate != nil:
		rate = *req.ExchangeRate
	case inst == nil:
	case inst.Currency == s.baseCurrency:
		rate = decimal.NewFromInt(1)
	default:
		c.Add("exchangeRate", fmt.Sprintf("exchange rate to %s is required", s.baseCurrency))
	}

	if err := c.Err(); err != nil {
		return nil, err
	}

	entry, err := model.NewEntry(model.EntryFields{
		InstrumentID: req.InstrumentID,
		Date:         date,
		Kind:         model.EntryKind(strings.ToUpper(strings.TrimSpace(req.Kind))),
		Amount:       req.Amount,
		Currency:     req.Currency,
		ExchangeRate: rate,
		Note:         req.Note,
		CreatedAt:    s.now(),
	}, detail, inst)
	if err != nil {
		return nil, err
	}

	if err := s.transactions.InsertTransaction(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &entry, nil
}

// UpdateTransactionNote corrects the note of an entry; every other field is immutable.
func (s *TransactionService) UpdateTransactionNote(ctx context.Context, transactionID, note string) (*model.Entry, error) {
	if err := s.transactions.UpdateTransactionNote(ctx, transactionID, note); err != nil {
		return nil, err
	}

	entry, err := s.transactions.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
