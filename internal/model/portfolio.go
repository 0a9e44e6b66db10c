package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClassAllocation is the share of one instrument class in the portfolio.
type ClassAllocation struct {
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
	Count      int             `json:"count"`
}

// Performer identifies a position by its return rate.
type Performer struct {
	InstrumentID    string          `json:"instrumentId"`
	Name            string          `json:"name"`
	TotalReturnRate decimal.Decimal `json:"totalReturnRate"`
}

// RiskSummary is a coarse risk view of the portfolio.
type RiskSummary struct {
	AverageRiskScore  decimal.Decimal `json:"averageRiskScore"`
	Concentration     decimal.Decimal `json:"concentration"`
	LargestPositionID string          `json:"largestPositionId,omitempty"`
	ReturnRateSpread  decimal.Decimal `json:"returnRateSpread"`
	ScoredPositions   int             `json:"scoredPositions"`
}

// PerformanceMetrics summarizes cross-position performance.
type PerformanceMetrics struct {
	Best              *Performer      `json:"best,omitempty"`
	Worst             *Performer      `json:"worst,omitempty"`
	AverageReturnRate decimal.Decimal `json:"averageReturnRate"`
	Risk              RiskSummary     `json:"risk"`
}

// Portfolio is the derived aggregate of all open positions in one base currency.
type Portfolio struct {
	BaseCurrency    string                              `json:"baseCurrency"`
	AsOf            time.Time                           `json:"asOf"`
	Positions       []Position                          `json:"positions"`
	TotalValue      decimal.Decimal                     `json:"totalValue"`
	TotalCost       decimal.Decimal                     `json:"totalCost"`
	TotalReturn     decimal.Decimal                     `json:"totalReturn"`
	TotalReturnRate decimal.Decimal                     `json:"totalReturnRate"`
	Allocation      map[InstrumentClass]ClassAllocation `json:"allocation"`
	Metrics         PerformanceMetrics                  `json:"metrics"`
	Excluded        []string                            `json:"excluded,omitempty"`
}
