package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/engine"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/money"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/repository"
)

// InstrumentBuilder provides a fluent interface for creating test instruments.
//
// Example usage:
//
//	// Simple creation with defaults (a CNY cash account)
//	inst := testutil.NewInstrument().Build(t, db)
//
//	// Customized instrument
//	inst := testutil.NewInstrument().
//	    WithName("Treasury 2027").
//	    WithClass(model.ClassFixedIncome).
//	    WithRiskLevel(1).
//	    Build(t, db)
type InstrumentBuilder struct {
	ID        string
	Name      string
	Class     model.InstrumentClass
	Currency  string
	Issuer    string
	RiskLevel int
	Liquidity model.Liquidity
	CreatedAt time.Time
}

// NewInstrument creates an InstrumentBuilder with sensible defaults.
func NewInstrument() *InstrumentBuilder {
	return &InstrumentBuilder{
		ID:        MakeID(),
		Name:      MakeInstrumentName("Test Instrument"),
		Class:     model.ClassCash,
		Currency:  "CNY",
		RiskLevel: 1,
		Liquidity: model.LiquidityHigh,
		CreatedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom ID.
func (b *InstrumentBuilder) WithID(id string) *InstrumentBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *InstrumentBuilder) WithName(name string) *InstrumentBuilder {
	b.Name = name
	return b
}

// WithClass sets the instrument class.
func (b *InstrumentBuilder) WithClass(class model.InstrumentClass) *InstrumentBuilder {
	b.Class = class
	return b
}

// WithCurrency sets the native currency.
func (b *InstrumentBuilder) WithCurrency(currency string) *InstrumentBuilder {
	b.Currency = currency
	return b
}

// WithRiskLevel sets the risk score (0 = unset).
func (b *InstrumentBuilder) WithRiskLevel(level int) *InstrumentBuilder {
	b.RiskLevel = level
	return b
}

// Build creates the instrument in the database and returns it.
func (b *InstrumentBuilder) Build(t *testing.T, db *sql.DB) model.Instrument {
	t.Helper()

	query := `
		INSERT INTO instrument (id, name, class, currency, issuer, rating, risk_level, liquidity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, '', ?, ?, ?, ?)
	`

	ts := b.CreatedAt.Format(time.RFC3339Nano)
	_, err := db.Exec(query, b.ID, b.Name, string(b.Class), b.Currency, b.Issuer, b.RiskLevel, string(b.Liquidity), ts, ts)
	if err != nil {
		t.Fatalf("Failed to create test instrument: %v", err)
	}

	return model.Instrument{
		ID:        b.ID,
		Name:      b.Name,
		Class:     b.Class,
		Currency:  b.Currency,
		Issuer:    b.Issuer,
		RiskLevel: b.RiskLevel,
		Liquidity: b.Liquidity,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.CreatedAt,
	}
}

// EntryBuilder provides a fluent interface for appending test transaction log entries.
// It writes rows directly, so it can also create entries NewEntry would reject.
//
// Example usage:
//
//	entry := testutil.NewEntry(inst).
//	    WithKind(model.KindDeposit).
//	    WithAmount("10000").
//	    WithDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).
//	    Build(t, db)
type EntryBuilder struct {
	ID           string
	InstrumentID string
	Class        model.InstrumentClass
	Currency     string
	Date         time.Time
	Kind         model.EntryKind
	Amount       decimal.Decimal
	ExchangeRate decimal.Decimal
	Detail       model.Detail
	Note         string
}

// NewEntry creates an EntryBuilder for inst: a 1000 deposit at rate 1 on 2024-01-01.
func NewEntry(inst model.Instrument) *EntryBuilder {
	return &EntryBuilder{
		ID:           MakeID(),
		InstrumentID: inst.ID,
		Class:        inst.Class,
		Currency:     inst.Currency,
		Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Kind:         model.KindDeposit,
		Amount:       decimal.NewFromInt(1000),
		ExchangeRate: decimal.NewFromInt(1),
	}
}

// WithID sets a custom ID.
func (b *EntryBuilder) WithID(id string) *EntryBuilder {
	b.ID = id
	return b
}

// WithKind sets the entry kind.
func (b *EntryBuilder) WithKind(kind model.EntryKind) *EntryBuilder {
	b.Kind = kind
	return b
}

// WithAmount sets the native amount from a decimal string.
func (b *EntryBuilder) WithAmount(amount string) *EntryBuilder {
	b.Amount = decimal.RequireFromString(amount)
	return b
}

// WithRate sets the exchange rate to the base currency from a decimal string.
func (b *EntryBuilder) WithRate(rate string) *EntryBuilder {
	b.ExchangeRate = decimal.RequireFromString(rate)
	return b
}

// WithDate sets the entry date.
func (b *EntryBuilder) WithDate(date time.Time) *EntryBuilder {
	b.Date = date
	return b
}

// WithDetail sets the class-specific payload.
func (b *EntryBuilder) WithDetail(detail model.Detail) *EntryBuilder {
	b.Detail = detail
	return b
}

// WithNote sets the note.
func (b *EntryBuilder) WithNote(note string) *EntryBuilder {
	b.Note = note
	return b
}

// Build creates the entry in the database and returns it.
func (b *EntryBuilder) Build(t *testing.T, db *sql.DB) model.Entry {
	t.Helper()

	detail, err := model.MarshalDetail(b.Detail)
	if err != nil {
		t.Fatalf("Failed to encode test entry detail: %v", err)
	}
	var detailArg any
	if detail != nil {
		detailArg = string(detail)
	}

	e := model.Entry{
		ID:           b.ID,
		InstrumentID: b.InstrumentID,
		Class:        b.Class,
		Date:         model.DateOf(b.Date),
		Kind:         b.Kind,
		Amount:       b.Amount,
		Currency:     b.Currency,
		ExchangeRate: b.ExchangeRate,
		AmountBase:   money.ToBase(b.Amount, b.ExchangeRate),
		Note:         b.Note,
		Detail:       b.Detail,
		CreatedAt:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}

	query := `
		INSERT INTO "transaction" (id, instrument_id, class, date, kind, amount, currency, exchange_rate, amount_base, detail, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.Exec(query,
		e.ID,
		e.InstrumentID,
		string(e.Class),
		e.Date.Format(model.DateLayout),
		string(e.Kind),
		e.Amount.String(),
		e.Currency,
		e.ExchangeRate.String(),
		e.AmountBase.String(),
		detailArg,
		e.Note,
		e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		t.Fatalf("Failed to create test entry: %v", err)
	}

	return e
}

// CreateValuation records a valuation of inst on date.
func CreateValuation(t *testing.T, db *sql.DB, inst model.Instrument, date time.Time, value, rate string) model.Valuation {
	t.Helper()

	v := model.Valuation{
		ID:           MakeID(),
		InstrumentID: inst.ID,
		Date:         model.DateOf(date),
		Value:        decimal.RequireFromString(value),
		ExchangeRate: decimal.RequireFromString(rate),
		CreatedAt:    date,
	}
	if err := repository.NewValuationRepository(db).InsertValuation(context.Background(), &v); err != nil {
		t.Fatalf("Failed to create test valuation: %v", err)
	}
	return v
}

// CreateSnapshot stores a snapshot of p captured at takenAt.
//
// Example usage:
//
//	old := testutil.CreateSnapshot(t, db, portfolio, model.SnapshotAuto, lastWeek)
func CreateSnapshot(t *testing.T, db *sql.DB, p model.Portfolio, kind model.SnapshotKind, takenAt time.Time) model.Snapshot {
	t.Helper()

	s := engine.CaptureSnapshot(p, kind, "", takenAt)
	if err := repository.NewSnapshotRepository(db).SaveSnapshot(context.Background(), &s); err != nil {
		t.Fatalf("Failed to create test snapshot: %v", err)
	}
	return s
}

// EmptyPortfolio is a portfolio with no positions in the given base currency.
func EmptyPortfolio(base string) model.Portfolio {
	return engine.AggregatePortfolio(base, nil, time.Time{})
}
