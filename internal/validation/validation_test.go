package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
)

const validUUID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *apperrors.ValidationError, got %v", err)
	}
	if !ve.Has(field) {
		t.Errorf("expected error on field %q, got %v", field, ve.Fields)
	}
}

func TestValidateUUID(t *testing.T) {
	if err := ValidateUUID(validUUID); err != nil {
		t.Errorf("ValidateUUID(valid) = %v", err)
	}

	err := ValidateUUID("not-a-uuid")
	if !errors.Is(err, ErrInvalidUUID) {
		t.Errorf("ValidateUUID(invalid) = %v, want ErrInvalidUUID", err)
	}
	// WHY: handlers map ErrValidation to 400 without knowing about ErrInvalidUUID.
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("ValidateUUID(invalid) does not match ErrValidation")
	}
}

func TestValidateCreateTransaction(t *testing.T) {
	rate := decimal.NewFromFloat(0.92)
	valid := request.CreateTransactionRequest{
		InstrumentID: validUUID,
		Date:         "2024-01-15",
		Kind:         "deposit",
		Amount:       decimal.NewFromInt(1000),
		ExchangeRate: &rate,
	}
	if err := ValidateCreateTransaction(valid); err != nil {
		t.Fatalf("ValidateCreateTransaction(valid) = %v", err)
	}

	zero := decimal.Zero
	tests := []struct {
		name   string
		mutate func(*request.CreateTransactionRequest)
		field  string
	}{
		{name: "missing instrument", mutate: func(r *request.CreateTransactionRequest) { r.InstrumentID = "" }, field: "reference"},
		{name: "malformed instrument", mutate: func(r *request.CreateTransactionRequest) { r.InstrumentID = "abc" }, field: "reference"},
		{name: "missing date", mutate: func(r *request.CreateTransactionRequest) { r.Date = "" }, field: "date"},
		{name: "bad date", mutate: func(r *request.CreateTransactionRequest) { r.Date = "15/01/2024" }, field: "date"},
		{name: "unknown kind", mutate: func(r *request.CreateTransactionRequest) { r.Kind = "SWAP" }, field: "kind"},
		{name: "zero amount", mutate: func(r *request.CreateTransactionRequest) { r.Amount = decimal.Zero }, field: "amount"},
		{name: "negative amount", mutate: func(r *request.CreateTransactionRequest) { r.Amount = decimal.NewFromInt(-5) }, field: "amount"},
		{name: "zero rate", mutate: func(r *request.CreateTransactionRequest) { r.ExchangeRate = &zero }, field: "exchangeRate"},
		{name: "long note", mutate: func(r *request.CreateTransactionRequest) { r.Note = strings.Repeat("n", MaxNoteLength+1) }, field: "note"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			assertFieldError(t, ValidateCreateTransaction(req), tt.field)
		})
	}
}

func TestValidateCreateInstrument(t *testing.T) {
	if err := ValidateCreateInstrument(request.CreateInstrumentRequest{Name: "Bond", Class: "FIXED_INCOME", Currency: "CNY"}); err != nil {
		t.Fatalf("ValidateCreateInstrument(valid) = %v", err)
	}

	err := ValidateCreateInstrument(request.CreateInstrumentRequest{})
	assertFieldError(t, err, "name")
	assertFieldError(t, err, "class")
	assertFieldError(t, err, "currency")
}

func TestValidateUpdateInstrument(t *testing.T) {
	assertFieldError(t, ValidateUpdateInstrument(request.UpdateInstrumentRequest{}), "body")

	blank := " "
	assertFieldError(t, ValidateUpdateInstrument(request.UpdateInstrumentRequest{Name: &blank}), "name")

	risk := 3
	if err := ValidateUpdateInstrument(request.UpdateInstrumentRequest{RiskLevel: &risk}); err != nil {
		t.Errorf("ValidateUpdateInstrument(risk only) = %v", err)
	}
}

func TestValidateCreateValuation(t *testing.T) {
	if err := ValidateCreateValuation(request.CreateValuationRequest{Date: "2024-03-01", Value: decimal.Zero}); err != nil {
		t.Errorf("zero valuation should be allowed: %v", err)
	}
	assertFieldError(t, ValidateCreateValuation(request.CreateValuationRequest{Date: "2024-03-01", Value: decimal.NewFromInt(-1)}), "value")
	assertFieldError(t, ValidateCreateValuation(request.CreateValuationRequest{Value: decimal.NewFromInt(1)}), "date")
}
