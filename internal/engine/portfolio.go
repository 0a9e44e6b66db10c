package engine

import (
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/money"
)

// AggregatePortfolio combines open positions into a portfolio expressed in baseCurrency.
// Closed positions are dropped. Totals use the base figures of each position:
//
//	totalValue      = Σ currentValue
//	totalCost       = Σ principal
//	totalReturn     = totalValue - totalCost
//	totalReturnRate = totalReturn / totalCost × 100 (0 when totalCost <= 0)
func AggregatePortfolio(baseCurrency string, positions []model.Position, asOf time.Time) model.Portfolio {
	open := make([]model.Position, 0, len(positions))
	for _, p := range positions {
		if p.Open() {
			open = append(open, p)
		}
	}

	totalValue, totalCost := decimal.Zero, decimal.Zero
	for _, p := range open {
		totalValue = totalValue.Add(p.Base.CurrentValue)
		totalCost = totalCost.Add(p.Base.Principal)
	}
	totalReturn := totalValue.Sub(totalCost)

	return model.Portfolio{
		BaseCurrency:    money.NormalizeCurrency(baseCurrency),
		AsOf:            model.DateOf(asOf),
		Positions:       open,
		TotalValue:      money.Round(totalValue),
		TotalCost:       money.Round(totalCost),
		TotalReturn:     money.Round(totalReturn),
		TotalReturnRate: money.Percent(totalReturn, totalCost),
		Allocation:      AllocationByClass(open, totalValue),
		Metrics:         PerformanceMetrics(open, totalValue),
	}
}

// AllocationByClass groups the current value of positions by instrument class.
// Percentages are relative to totalValue and are zero when totalValue is zero.
func AllocationByClass(positions []model.Position, totalValue decimal.Decimal) map[model.InstrumentClass]model.ClassAllocation {
	allocation := make(map[model.InstrumentClass]model.ClassAllocation)
	for _, p := range positions {
		a := allocation[p.Instrument.Class]
		a.Value = a.Value.Add(p.Base.CurrentValue)
		a.Count++
		allocation[p.Instrument.Class] = a
	}
	for class, a := range allocation {
		a.Value = money.Round(a.Value)
		a.Percentage = money.Percent(a.Value, totalValue)
		allocation[class] = a
	}
	return allocation
}

// PerformanceMetrics ranks positions by total return rate and summarizes risk.
//
// Best and worst keep the first position encountered on ties. Average risk score only
// counts instruments with a risk level set. Concentration is the largest current value
// divided by totalValue. ReturnRateSpread is the population standard deviation of
// the return rates.
func PerformanceMetrics(positions []model.Position, totalValue decimal.Decimal) model.PerformanceMetrics {
	metrics := model.PerformanceMetrics{
		AverageReturnRate: decimal.Zero,
		Risk: model.RiskSummary{
			AverageRiskScore: decimal.Zero,
			Concentration:    decimal.Zero,
			ReturnRateSpread: decimal.Zero,
		},
	}
	if len(positions) == 0 {
		return metrics
	}

	var best, worst *model.Position
	rateSum := decimal.Zero
	rates := make([]float64, 0, len(positions))
	riskSum, scored := 0, 0
	var largest *model.Position

	for i := range positions {
		p := &positions[i]
		rate := p.Base.TotalReturnRate

		if best == nil || rate.GreaterThan(best.Base.TotalReturnRate) {
			best = p
		}
		if worst == nil || rate.LessThan(worst.Base.TotalReturnRate) {
			worst = p
		}
		if largest == nil || p.Base.CurrentValue.GreaterThan(largest.Base.CurrentValue) {
			largest = p
		}

		rateSum = rateSum.Add(rate)
		rates = append(rates, rate.InexactFloat64())

		if p.Instrument.RiskLevel > 0 {
			riskSum += p.Instrument.RiskLevel
			scored++
		}
	}

	metrics.Best = performer(best)
	metrics.Worst = performer(worst)
	metrics.AverageReturnRate = money.RoundRate(rateSum.Div(decimal.NewFromInt(int64(len(positions)))))

	if scored > 0 {
		metrics.Risk.AverageRiskScore = money.RoundRate(decimal.NewFromInt(int64(riskSum)).Div(decimal.NewFromInt(int64(scored))))
	}
	metrics.Risk.ScoredPositions = scored
	metrics.Risk.Concentration = money.Ratio(largest.Base.CurrentValue, totalValue)
	metrics.Risk.LargestPositionID = largest.Instrument.ID

	_, spread := stat.PopMeanStdDev(rates, nil)
	metrics.Risk.ReturnRateSpread = money.RoundRate(decimal.NewFromFloat(spread))

	return metrics
}

func performer(p *model.Position) *model.Performer {
	return &model.Performer{
		InstrumentID:    p.Instrument.ID,
		Name:            p.Instrument.Name,
		TotalReturnRate: p.Base.TotalReturnRate,
	}
}
