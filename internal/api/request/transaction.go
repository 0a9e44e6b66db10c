package request

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest represents the request body for appending a transaction log entry.
// Amounts accept JSON numbers or strings. Detail is decoded against the instrument's class.
type CreateTransactionRequest struct {
	InstrumentID string           `json:"instrumentId"`
	Date         string           `json:"date"`
	Kind         string           `json:"kind"`
	Amount       decimal.Decimal  `json:"amount"`
	Currency     string           `json:"currency"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"`
	Note         string           `json:"note"`
	Detail       json.RawMessage  `json:"detail,omitempty"`
}

// UpdateTransactionNoteRequest is the only correction an entry accepts.
type UpdateTransactionNoteRequest struct {
	Note string `json:"note"`
}

// CreateValuationRequest records a manual market value for an instrument.
type CreateValuationRequest struct {
	Date         string           `json:"date"`
	Value        decimal.Decimal  `json:"value"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"`
}
