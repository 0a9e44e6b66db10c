package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionStatus is derived on every computation, never stored.
type PositionStatus string

const (
	StatusActive  PositionStatus = "ACTIVE"
	StatusMatured PositionStatus = "MATURED"
	StatusClosed  PositionStatus = "CLOSED"
)

// PositionFigures are the derived quantities of a position in one currency.
// Money fields are rounded to two decimals, rates (percentages) to four.
type PositionFigures struct {
	TotalInvested    decimal.Decimal `json:"totalInvested"`
	TotalWithdrawn   decimal.Decimal `json:"totalWithdrawn"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalFees        decimal.Decimal `json:"totalFees"`
	NetInvested      decimal.Decimal `json:"netInvested"`
	Principal        decimal.Decimal `json:"principal"`
	BookValue        decimal.Decimal `json:"bookValue"`
	CurrentValue     decimal.Decimal `json:"currentValue"`
	TotalReturn      decimal.Decimal `json:"totalReturn"`
	TotalReturnRate  decimal.Decimal `json:"totalReturnRate"`
	AnnualizedReturn decimal.Decimal `json:"annualizedReturn"`
}

// Position is the derived state of one instrument from its entries.
// Base figures are in the portfolio base currency (from AmountBase),
// Native figures in the instrument currency (from Amount).
type Position struct {
	Instrument     Instrument      `json:"instrument"`
	Status         PositionStatus  `json:"status"`
	FirstDate      time.Time       `json:"firstDate"`
	LastDate       time.Time       `json:"lastDate"`
	AsOf           time.Time       `json:"asOf"`
	HoldingDays    int             `json:"holdingDays"`
	EntryCount     int             `json:"entryCount"`
	MarketOverride bool            `json:"marketOverride"`
	MaturityDate   *time.Time      `json:"maturityDate,omitempty"`
	Base           PositionFigures `json:"base"`
	Native         PositionFigures `json:"native"`
}

// Open reports whether the position still holds capital and belongs in the portfolio.
func (p Position) Open() bool {
	return p.Status != StatusClosed
}
