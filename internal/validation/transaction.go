package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
)

// ValidateCreateTransaction validates the shape of a transaction creation request.
// Rules that need the referenced instrument (currency, detail variant) are checked by model.NewEntry.
//
// Required fields:
//   - instrumentId: Must be a valid UUID
//   - date: Must be in YYYY-MM-DD format
//   - kind: Must be a known entry kind
//   - amount: Must be positive
//   - exchangeRate: Must be positive when given
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	c := apperrors.Collector{}

	if strings.TrimSpace(req.InstrumentID) == "" {
		c.Add("reference", "instrumentId is required")
	} else if err := ValidateUUID(req.InstrumentID); err != nil {
		c.Add("reference", err.Error())
	}

	validateDate(c, "date", req.Date)

	if strings.TrimSpace(req.Kind) == "" {
		c.Add("kind", "kind is required")
	} else if !model.EntryKind(strings.ToUpper(req.Kind)).Valid() {
		c.Add("kind", fmt.Sprintf("invalid kind: %s", req.Kind))
	}

	if !req.Amount.IsPositive() {
		c.Add("amount", "amount must be positive")
	}
	if req.ExchangeRate != nil && !req.ExchangeRate.IsPositive() {
		c.Add("exchangeRate", "exchange rate must be positive")
	}

	validateNote(c, req.Note)

	return c.Err()
}

// ValidateUpdateTransactionNote validates a note correction.
func ValidateUpdateTransactionNote(req request.UpdateTransactionNoteRequest) error {
	c := apperrors.Collector{}
	validateNote(c, req.Note)
	return c.Err()
}

// ValidateCreateValuation validates a manual valuation. A zero value is allowed for written-off holdings.
func ValidateCreateValuation(req request.CreateValuationRequest) error {
	c := apperrors.Collector{}

	validateDate(c, "date", req.Date)

	if req.Value.IsNegative() {
		c.Add("value", "value cannot be negative")
	}
	if req.ExchangeRate != nil && !req.ExchangeRate.IsPositive() {
		c.Add("exchangeRate", "exchange rate must be positive")
	}

	return c.Err()
}

// ValidateCreateSnapshot validates a manual snapshot request.
func ValidateCreateSnapshot(req request.CreateSnapshotRequest) error {
	c := apperrors.Collector{}
	validateNote(c, req.Note)
	return c.Err()
}
