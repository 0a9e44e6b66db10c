// Package engine derives positions, portfolios and snapshots from the transaction log.
// Every function is pure: it holds no state between calls and re-derives everything
// from the full entry history it is given.
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/money"
)

// flowTotals accumulates entry amounts per flow.
type flowTotals struct {
	invested  decimal.Decimal
	withdrawn decimal.Decimal
	income    decimal.Decimal
	fees      decimal.Decimal
}

func (t *flowTotals) add(kind model.EntryKind, amount decimal.Decimal) error {
	switch kind.Flow() {
	case model.FlowInvest:
		t.invested = t.invested.Add(amount)
	case model.FlowWithdraw:
		t.withdrawn = t.withdrawn.Add(amount)
	case model.FlowIncome:
		t.income = t.income.Add(amount)
	case model.FlowFee:
		t.fees = t.fees.Add(amount)
	default:
		return fmt.Errorf("unknown entry kind %q: %w", kind, apperrors.ErrValidation)
	}
	return nil
}

// SortEntries returns a copy of entries ordered by date, ties broken by entry ID.
func SortEntries(entries []model.Entry) []model.Entry {
	sorted := make([]model.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := model.DateOf(sorted[i].Date), model.DateOf(sorted[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// ComputePosition derives the position of inst from its entries as of the given day.
//
// Entries may arrive in any order; entries dated after asOf are ignored. valuation, when
// non-nil and dated on or before asOf, overrides the current value (market price);
// otherwise current value is the book value.
//
// Returns nil without error when no entry is dated on or before asOf.
// Returns an error wrapping apperrors.ErrValidation when an entry belongs to another
// instrument or carries an unknown kind.
//
// Formulas (base figures use AmountBase, native figures use Amount):
//
//	netInvested      = invested - withdrawn
//	principal        = netInvested - fees
//	bookValue        = principal + income
//	totalReturn      = currentValue - principal
//	totalReturnRate  = totalReturn / principal × 100           (0 when principal <= 0)
//	annualizedReturn = ((currentValue/principal)^(365.25/days) - 1) × 100
//	                                                            (0 when days <= 0 or principal <= 0)
//
// The annualized figure compounds the whole holding period, including stretches where
// little capital was committed. It is not a money-weighted return.
func ComputePosition(inst model.Instrument, entries []model.Entry, valuation *model.Valuation, asOf time.Time) (*model.Position, error) {
	day := model.DateOf(asOf)

	var base, native flowTotals
	var included []model.Entry
	var maturity *time.Time
	matured := false

	for _, e := range SortEntries(entries) {
		if e.InstrumentID != inst.ID {
			return nil, fmt.Errorf("entry %s belongs to instrument %s, not %s: %w", e.ID, e.InstrumentID, inst.ID, apperrors.ErrValidation)
		}
		if model.DateOf(e.Date).After(day) {
			continue
		}
		if err := base.add(e.Kind, e.AmountBase); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		if err := native.add(e.Kind, e.Amount); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		if fi, ok := e.Detail.(model.FixedIncomeDetail); ok && fi.MaturityDate != nil {
			if fi.MaturedBy(day) {
				matured = true
			}
			md := model.DateOf(*fi.MaturityDate)
			if maturity == nil || md.After(*maturity) {
				maturity = &md
			}
		}
		included = append(included, e)
	}

	if len(included) == 0 {
		return nil, nil
	}

	first := model.DateOf(included[0].Date)
	last := model.DateOf(included[len(included)-1].Date)
	holdingDays := model.DaysBetween(first, day)

	var baseOverride, nativeOverride *decimal.Decimal
	if valuation != nil && valuation.InstrumentID == inst.ID && !model.DateOf(valuation.Date).After(day) {
		vb := valuation.ValueBase()
		vn := money.RoundNative(valuation.Value, inst.Currency)
		baseOverride, nativeOverride = &vb, &vn
	}

	pos := &model.Position{
		Instrument:     inst,
		FirstDate:      first,
		LastDate:       last,
		AsOf:           day,
		HoldingDays:    holdingDays,
		EntryCount:     len(included),
		MarketOverride: baseOverride != nil,
		MaturityDate:   maturity,
		Base:           figures(base, baseOverride, holdingDays, money.Round),
		Native: figures(native, nativeOverride, holdingDays, func(d decimal.Decimal) decimal.Decimal {
			return money.RoundNative(d, inst.Currency)
		}),
	}
	pos.Status = status(pos.Base.NetInvested, matured)

	return pos, nil
}

func figures(t flowTotals, override *decimal.Decimal, holdingDays int, round func(decimal.Decimal) decimal.Decimal) model.PositionFigures {
	netInvested := t.invested.Sub(t.withdrawn)
	principal := netInvested.Sub(t.fees)
	bookValue := principal.Add(t.income)

	currentValue := bookValue
	if override != nil {
		currentValue = *override
	}
	totalReturn := currentValue.Sub(principal)

	return model.PositionFigures{
		TotalInvested:    round(t.invested),
		TotalWithdrawn:   round(t.withdrawn),
		TotalIncome:      round(t.income),
		TotalFees:        round(t.fees),
		NetInvested:      round(netInvested),
		Principal:        round(principal),
		BookValue:        round(bookValue),
		CurrentValue:     round(currentValue),
		TotalReturn:      round(totalReturn),
		TotalReturnRate:  money.Percent(totalReturn, principal),
		AnnualizedReturn: money.AnnualizedPercent(currentValue, principal, holdingDays),
	}
}

// status evaluates the lifecycle state. It is recomputed on every call.
func status(netInvested decimal.Decimal, matured bool) model.PositionStatus {
	switch {
	case !netInvested.IsPositive():
		return model.StatusClosed
	case matured:
		return model.StatusMatured
	default:
		return model.StatusActive
	}
}
