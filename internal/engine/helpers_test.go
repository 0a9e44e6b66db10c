package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func instrument(id string, class model.InstrumentClass, currency string) model.Instrument {
	return model.Instrument{ID: id, Name: "Instrument " + id, Class: class, Currency: currency}
}

// entry builds a validated entry or fails the test.
func entry(t *testing.T, inst model.Instrument, id string, date time.Time, kind model.EntryKind, amount, rate string, detail model.Detail) model.Entry {
	t.Helper()
	e, err := model.NewEntry(model.EntryFields{
		ID:           id,
		InstrumentID: inst.ID,
		Date:         date,
		Kind:         kind,
		Amount:       dec(amount),
		Currency:     inst.Currency,
		ExchangeRate: dec(rate),
	}, detail, &inst)
	if err != nil {
		t.Fatalf("NewEntry(%s) returned unexpected error: %v", id, err)
	}
	return e
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func figuresEqual(a, b model.PositionFigures) bool {
	return a.TotalInvested.Equal(b.TotalInvested) &&
		a.TotalWithdrawn.Equal(b.TotalWithdrawn) &&
		a.TotalIncome.Equal(b.TotalIncome) &&
		a.TotalFees.Equal(b.TotalFees) &&
		a.NetInvested.Equal(b.NetInvested) &&
		a.Principal.Equal(b.Principal) &&
		a.BookValue.Equal(b.BookValue) &&
		a.CurrentValue.Equal(b.CurrentValue) &&
		a.TotalReturn.Equal(b.TotalReturn) &&
		a.TotalReturnRate.Equal(b.TotalReturnRate) &&
		a.AnnualizedReturn.Equal(b.AnnualizedReturn)
}
