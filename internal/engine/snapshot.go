package engine

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/money"
)

// CaptureSnapshot freezes a portfolio into a plain record dated at now.
// The result shares no slices, maps or pointers with p.
func CaptureSnapshot(p model.Portfolio, kind model.SnapshotKind, note string, now time.Time) model.Snapshot {
	details := make([]model.PositionDetail, 0, len(p.Positions))
	for _, pos := range p.Positions {
		details = append(details, model.PositionDetail{
			InstrumentID:       pos.Instrument.ID,
			Name:               pos.Instrument.Name,
			Class:              pos.Instrument.Class,
			Currency:           pos.Instrument.Currency,
			RiskLevel:          pos.Instrument.RiskLevel,
			Status:             pos.Status,
			HoldingDays:        pos.HoldingDays,
			Principal:          pos.Base.Principal,
			TotalIncome:        pos.Base.TotalIncome,
			TotalFees:          pos.Base.TotalFees,
			BookValue:          pos.Base.BookValue,
			CurrentValue:       pos.Base.CurrentValue,
			TotalReturn:        pos.Base.TotalReturn,
			TotalReturnRate:    pos.Base.TotalReturnRate,
			AnnualizedReturn:   pos.Base.AnnualizedReturn,
			NativeCurrentValue: pos.Native.CurrentValue,
		})
	}

	return model.Snapshot{
		ID:              uuid.New().String(),
		Date:            model.DateOf(now),
		CreatedAt:       now.UTC(),
		Kind:            kind,
		BaseCurrency:    p.BaseCurrency,
		TotalValue:      p.TotalValue,
		TotalCost:       p.TotalCost,
		TotalReturn:     p.TotalReturn,
		TotalReturnRate: p.TotalReturnRate,
		Allocation:      maps.Clone(p.Allocation),
		Metrics:         copyMetrics(p.Metrics),
		Positions:       details,
		Note:            note,
		SchemaVersion:   model.SnapshotSchemaVersion,
	}
}

func copyMetrics(m model.PerformanceMetrics) model.PerformanceMetrics {
	out := m
	if m.Best != nil {
		best := *m.Best
		out.Best = &best
	}
	if m.Worst != nil {
		worst := *m.Worst
		out.Worst = &worst
	}
	return out
}

// OrderSnapshots returns a and b as (newer, older), by date then creation time.
func OrderSnapshots(a, b model.Snapshot) (newer, older model.Snapshot) {
	if a.Date.Equal(b.Date) {
		if a.CreatedAt.Before(b.CreatedAt) {
			return b, a
		}
		return a, b
	}
	if a.Date.Before(b.Date) {
		return b, a
	}
	return a, b
}

// CompareSnapshots computes the structural difference newer - older.
// Both snapshots must share a base currency, otherwise apperrors.ErrCurrencyMismatch
// is returned and no partial diff.
func CompareSnapshots(newer, older model.Snapshot) (model.SnapshotDiff, error) {
	if newer.BaseCurrency != older.BaseCurrency {
		return model.SnapshotDiff{}, fmt.Errorf("cannot compare %s snapshot with %s snapshot: %w",
			newer.BaseCurrency, older.BaseCurrency, apperrors.ErrCurrencyMismatch)
	}

	valueChange := newer.TotalValue.Sub(older.TotalValue)

	classes := make(map[model.InstrumentClass]model.ClassDelta)
	for class, a := range older.Allocation {
		classes[class] = model.ClassDelta{Older: a.Value, Newer: decimal.Zero}
	}
	for class, a := range newer.Allocation {
		d, ok := classes[class]
		if !ok {
			d.Older = decimal.Zero
		}
		d.Newer = a.Value
		classes[class] = d
	}
	for class, d := range classes {
		d.Change = money.Round(d.Newer.Sub(d.Older))
		classes[class] = d
	}

	nm, om := newer.Metrics, older.Metrics

	return model.SnapshotDiff{
		NewerID:         newer.ID,
		OlderID:         older.ID,
		NewerDate:       newer.Date,
		OlderDate:       older.Date,
		ElapsedDays:     model.DaysBetween(older.Date, newer.Date),
		BaseCurrency:    newer.BaseCurrency,
		ValueChange:     money.Round(valueChange),
		ValueChangeRate: money.Percent(valueChange, older.TotalValue),
		CostChange:      money.Round(newer.TotalCost.Sub(older.TotalCost)),
		ReturnChange:    money.Round(newer.TotalReturn.Sub(older.TotalReturn)),
		ClassChanges:    classes,
		MetricChanges: model.MetricDelta{
			AverageReturnRate: money.RoundRate(nm.AverageReturnRate.Sub(om.AverageReturnRate)),
			AverageRiskScore:  money.RoundRate(nm.Risk.AverageRiskScore.Sub(om.Risk.AverageRiskScore)),
			Concentration:     money.RoundRate(nm.Risk.Concentration.Sub(om.Risk.Concentration)),
			ReturnRateSpread:  money.RoundRate(nm.Risk.ReturnRateSpread.Sub(om.Risk.ReturnRateSpread)),
		},
	}, nil
}

// CanDeleteSnapshot reports whether s may be deleted on the given day.
// A snapshot dated today is kept as the reference point of the running session.
func CanDeleteSnapshot(s model.Snapshot, today time.Time) bool {
	return !model.DateOf(s.Date).Equal(model.DateOf(today))
}
