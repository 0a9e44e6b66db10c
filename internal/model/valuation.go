package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/money"
)

// Valuation is a manually recorded market value of an instrument on a date.
// The latest valuation on or before the computation date overrides book value.
type Valuation struct {
	ID           string          `json:"id"`
	InstrumentID string          `json:"instrumentId"`
	Date         time.Time       `json:"date"`
	Value        decimal.Decimal `json:"value"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ValueBase returns the valuation converted to the base currency.
func (v Valuation) ValueBase() decimal.Decimal {
	return money.ToBase(v.Value, v.ExchangeRate)
}
