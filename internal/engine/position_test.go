package engine

import (
	"errors"
	"testing"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
)

// TestComputePosition_DepositWithInterest checks a deposit that earned one year of interest.
//
// WHY: This is the canonical savings case; principal, book value and the return rate
// must come out exactly as a bank statement would show them.
func TestComputePosition_DepositWithInterest(t *testing.T) {
	inst := instrument("cash-1", model.ClassCash, "CNY")
	entries := []model.Entry{
		entry(t, inst, "e1", day0, model.KindDeposit, "10000", "1", nil),
		entry(t, inst, "e2", day0.AddDate(0, 0, 365), model.KindInterest, "208.33", "1", nil),
	}

	pos, err := ComputePosition(inst, entries, nil, day0.AddDate(0, 0, 365))
	if err != nil {
		t.Fatalf("ComputePosition() returned unexpected error: %v", err)
	}
	if pos == nil {
		t.Fatal("Expected a position, got nil")
	}

	assertDecimal(t, "principal", pos.Base.Principal, "10000")
	assertDecimal(t, "bookValue", pos.Base.BookValue, "10208.33")
	assertDecimal(t, "currentValue", pos.Base.CurrentValue, "10208.33")
	assertDecimal(t, "totalReturn", pos.Base.TotalReturn, "208.33")
	assertDecimal(t, "totalReturnRate", pos.Base.TotalReturnRate, "2.0833")

	if pos.HoldingDays != 365 {
		t.Errorf("Expected 365 holding days, got %d", pos.HoldingDays)
	}
	if pos.Status != model.StatusActive {
		t.Errorf("Expected ACTIVE, got %s", pos.Status)
	}
	assertDecimal(t, "annualizedReturn", pos.Base.AnnualizedReturn, "2.0847")
}

// TestComputePosition_AnnualizedReturn pins the compounding formula to exact values.
//
// WHY: A wrong exponent (365 instead of 365.25, days + 1) or the wrong growth ratio still
// produces a plausible positive number, so only exact figures catch it.
func TestComputePosition_AnnualizedReturn(t *testing.T) {
	inst := instrument("cash-1", model.ClassCash, "CNY")

	tests := []struct {
		name      string
		valuation string
		days      int
		want      string
	}{
		{name: "one year of interest", valuation: "", days: 365, want: "2.0847"},
		{name: "loss over a year", valuation: "9000", days: 365, want: "-10.0065"},
		{name: "loss over half a year", valuation: "8500", days: 182, want: "-27.8306"},
		{name: "written off", valuation: "0", days: 366, want: "-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			asOf := day0.AddDate(0, 0, tt.days)
			entries := []model.Entry{entry(t, inst, "e1", day0, model.KindDeposit, "10000", "1", nil)}
			var valuation *model.Valuation
			if tt.valuation == "" {
				entries = append(entries, entry(t, inst, "e2", asOf, model.KindInterest, "208.33", "1", nil))
			} else {
				valuation = &model.Valuation{InstrumentID: inst.ID, Date: asOf, Value: dec(tt.valuation), ExchangeRate: dec("1")}
			}

			// Execute
			pos, err := ComputePosition(inst, entries, valuation, asOf)

			// Assert
			if err != nil {
				t.Fatalf("ComputePosition() returned unexpected error: %v", err)
			}
			if pos.HoldingDays != tt.days {
				t.Fatalf("Expected %d holding days, got %d", tt.days, pos.HoldingDays)
			}
			assertDecimal(t, "base annualizedReturn", pos.Base.AnnualizedReturn, tt.want)
			assertDecimal(t, "native annualizedReturn", pos.Native.AnnualizedReturn, tt.want)
		})
	}

	t.Run("written off keeps the full loss in the return rate", func(t *testing.T) {
		asOf := day0.AddDate(1, 0, 0)
		entries := []model.Entry{entry(t, inst, "e1", day0, model.KindDeposit, "1000", "1", nil)}
		valuation := &model.Valuation{InstrumentID: inst.ID, Date: asOf, Value: dec("0"), ExchangeRate: dec("1")}

		pos, err := ComputePosition(inst, entries, valuation, asOf)
		if err != nil {
			t.Fatalf("ComputePosition() returned unexpected error: %v", err)
		}
		assertDecimal(t, "currentValue", pos.Base.CurrentValue, "0")
		assertDecimal(t, "totalReturnRate", pos.Base.TotalReturnRate, "-100")
		assertDecimal(t, "annualizedReturn", pos.Base.AnnualizedReturn, "-100")
	})
}

// TestComputePosition_MultiCurrency checks that base figures use the frozen AmountBase.
//
// WHY: Each entry is converted once, at its own rate. Converting again at read time would
// silently change history when rates are corrected.
func TestComputePosition_MultiCurrency(t *testing.T) {
	inst := instrument("hkd-1", model.ClassCash, "HKD")
	deposit := entry(t, inst, "e1", day0, model.KindDeposit, "90000", "0.90", nil)
	interest := entry(t, inst, "e2", day0.AddDate(0, 6, 0), model.KindInterest, "787.50", "0.92", nil)

	assertDecimal(t, "deposit amountBase", deposit.AmountBase, "81000.00")
	assertDecimal(t, "interest amountBase", interest.AmountBase, "724.50")

	pos, err := ComputePosition(inst, []model.Entry{deposit, interest}, nil, day0.AddDate(1, 0, 0))
	if err != nil {
		t.Fatalf("ComputePosition() returned unexpected error: %v", err)
	}

	assertDecimal(t, "base bookValue", pos.Base.BookValue, "81724.50")
	assertDecimal(t, "native bookValue", pos.Native.BookValue, "90787.50")
	assertDecimal(t, "native principal", pos.Native.Principal, "90000")
}

// TestComputePosition_Identities checks principal and book value identities over varied sequences.
//
// WHY: principal == netInvested - fees and bookValue == principal + income must hold for
// every valid sequence, otherwise portfolio totals drift from position totals.
func TestComputePosition_Identities(t *testing.T) {
	inst := instrument("eq-1", model.ClassEquity, "USD")

	tests := []struct {
		name    string
		entries func(t *testing.T) []model.Entry
	}{
		{
			name: "buy only",
			entries: func(t *testing.T) []model.Entry {
				return []model.Entry{entry(t, inst, "a", day0, model.KindBuy, "500", "7.1", nil)}
			},
		},
		{
			name: "buy, fee, dividend, partial sell",
			entries: func(t *testing.T) []model.Entry {
				return []model.Entry{
					entry(t, inst, "a", day0, model.KindBuy, "1000", "7.1", nil),
					entry(t, inst, "b", day0.AddDate(0, 0, 1), model.KindFee, "4.99", "7.1", nil),
					entry(t, inst, "c", day0.AddDate(0, 3, 0), model.KindDividend, "12.34", "7.2", nil),
					entry(t, inst, "d", day0.AddDate(0, 6, 0), model.KindSell, "250", "7.3", nil),
				}
			},
		},
		{
			name: "transfers",
			entries: func(t *testing.T) []model.Entry {
				return []model.Entry{
					entry(t, inst, "a", day0, model.KindTransferIn, "300", "7", nil),
					entry(t, inst, "b", day0.AddDate(0, 1, 0), model.KindTransferOut, "100", "7", nil),
					entry(t, inst, "c", day0.AddDate(0, 2, 0), model.KindFee, "1", "7", nil),
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := ComputePosition(inst, tt.entries(t), nil, day0.AddDate(1, 0, 0))
			if err != nil {
				t.Fatalf("ComputePosition() returned unexpected error: %v", err)
			}
			for label, f := range map[string]model.PositionFigures{"base": pos.Base, "native": pos.Native} {
				if !f.Principal.Equal(f.NetInvested.Sub(f.TotalFees)) {
					t.Errorf("%s: principal %s != netInvested %s - fees %s", label, f.Principal, f.NetInvested, f.TotalFees)
				}
				if !f.BookValue.Equal(f.Principal.Add(f.TotalIncome)) {
					t.Errorf("%s: bookValue %s != principal %s + income %s", label, f.BookValue, f.Principal, f.TotalIncome)
				}
				if !f.NetInvested.Equal(f.TotalInvested.Sub(f.TotalWithdrawn)) {
					t.Errorf("%s: netInvested %s != invested %s - withdrawn %s", label, f.NetInvested, f.TotalInvested, f.TotalWithdrawn)
				}
			}
		})
	}
}

// TestComputePosition_Boundaries checks the zero cases of the rate formulas.
//
// WHY: Division by zero days or zero principal must yield exactly zero, not NaN or Inf.
func TestComputePosition_Boundaries(t *testing.T) {
	inst := instrument("cash-1", model.ClassCash, "CNY")

	t.Run("annualized return is zero on the first day", func(t *testing.T) {
		entries := []model.Entry{
			entry(t, inst, "a", day0, model.KindDeposit, "100", "1", nil),
			entry(t, inst, "b", day0, model.KindInterest, "5", "1", nil),
		}
		pos, err := ComputePosition(inst, entries, nil, day0)
		if err != nil {
			t.Fatalf("ComputePosition() returned unexpected error: %v", err)
		}
		if pos.HoldingDays != 0 {
			t.Errorf("Expected 0 holding days, got %d", pos.HoldingDays)
		}
		assertDecimal(t, "annualizedReturn", pos.Base.AnnualizedReturn, "0")
		assertDecimal(t, "totalReturnRate", pos.Base.TotalReturnRate, "5")
	})

	t.Run("return rate is zero when principal is zero", func(t *testing.T) {
		entries := []model.Entry{
			entry(t, inst, "a", day0, model.KindDeposit, "100", "1", nil),
			entry(t, inst, "b", day0.AddDate(0, 1, 0), model.KindInterest, "3", "1", nil),
			entry(t, inst, "c", day0.AddDate(0, 2, 0), model.KindWithdraw, "100", "1", nil),
		}
		pos, err := ComputePosition(inst, entries, nil, day0.AddDate(0, 3, 0))
		if err != nil {
			t.Fatalf("ComputePosition() returned unexpected error: %v", err)
		}
		assertDecimal(t, "principal", pos.Base.Principal, "0")
		assertDecimal(t, "totalReturnRate", pos.Base.TotalReturnRate, "0")
		assertDecimal(t, "annualizedReturn", pos.Base.AnnualizedReturn, "0")
		if pos.Status != model.StatusClosed {
			t.Errorf("Expected CLOSED, got %s", pos.Status)
		}
	})

	t.Run("no entries yields nil", func(t *testing.T) {
		pos, err := ComputePosition(inst, nil, nil, day0)
		if err != nil {
			t.Fatalf("ComputePosition() returned unexpected error: %v", err)
		}
		if pos != nil {
			t.Errorf("Expected nil position, got %+v", pos)
		}
	})

	t.Run("entries after the computation date are ignored", func(t *testing.T) {
		entries := []model.Entry{
			entry(t, inst, "a", day0.AddDate(0, 1, 0), model.KindDeposit, "100", "1", nil),
		}
		pos, err := ComputePosition(inst, entries, nil, day0)
		if err != nil {
			t.Fatalf("ComputePosition() returned unexpected error: %v", err)
		}
		if pos != nil {
			t.Errorf("Expected nil position, got %+v", pos)
		}
	})
}

// TestComputePosition_Status checks the derived lifecycle state.
func TestComputePosition_Status(t *testing.T) {
	bond := instrument("bond-1", model.ClassFixedIncome, "CNY")
	terms := model.FixedIncomeDetail{
		AnnualRate:   decPtr("3.1"),
		StartDate:    datePtr(day0),
		MaturityDate: datePtr(day0.AddDate(1, 0, 0)),
	}

	tests := []struct {
		name string
		asOf int
		want model.PositionStatus
	}{
		{name: "before maturity", asOf: 364, want: model.StatusActive},
		{name: "on maturity date", asOf: 366, want: model.StatusMatured},
		{name: "after maturity", asOf: 400, want: model.StatusMatured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := []model.Entry{entry(t, bond, "a", day0, model.KindBuy, "5000", "1", terms)}
			pos, err := ComputePosition(bond, entries, nil, day0.AddDate(0, 0, tt.asOf))
			if err != nil {
				t.Fatalf("ComputePosition() returned unexpected error: %v", err)
			}
			if pos.Status != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, pos.Status)
			}
		})
	}

	t.Run("closed takes precedence over matured", func(t *testing.T) {
		entries := []model.Entry{
			entry(t, bond, "a", day0, model.KindBuy, "5000", "1", terms),
			entry(t, bond, "b", day0.AddDate(1, 0, 0), model.KindSell, "5000", "1", nil),
		}
		pos, err := ComputePosition(bond, entries, nil, day0.AddDate(1, 1, 0))
		if err != nil {
			t.Fatalf("ComputePosition() returned unexpected error: %v", err)
		}
		if pos.Status != model.StatusClosed {
			t.Errorf("Expected CLOSED, got %s", pos.Status)
		}
	})
}

// TestComputePosition_OrderIndependence checks that input order does not matter.
//
// WHY: The gateway promises ordered results, but backdated entries and other callers may
// hand entries over in any order. Output must be deterministic.
func TestComputePosition_OrderIndependence(t *testing.T) {
	inst := instrument("cash-1", model.ClassCash, "CNY")
	a := entry(t, inst, "a", day0, model.KindDeposit, "100", "1", nil)
	b := entry(t, inst, "b", day0.AddDate(0, 1, 0), model.KindInterest, "1.5", "1", nil)
	c := entry(t, inst, "c", day0.AddDate(0, 1, 0), model.KindFee, "0.5", "1", nil)
	asOf := day0.AddDate(0, 2, 0)

	first, err := ComputePosition(inst, []model.Entry{a, b, c}, nil, asOf)
	if err != nil {
		t.Fatalf("ComputePosition() returned unexpected error: %v", err)
	}
	second, err := ComputePosition(inst, []model.Entry{c, b, a}, nil, asOf)
	if err != nil {
		t.Fatalf("ComputePosition() returned unexpected error: %v", err)
	}

	if !first.Base.BookValue.Equal(second.Base.BookValue) || !first.FirstDate.Equal(second.FirstDate) {
		t.Errorf("Expected identical positions, got %+v and %+v", first.Base, second.Base)
	}

	sorted := SortEntries([]model.Entry{c, b, a})
	if sorted[0].ID != "a" || sorted[1].ID != "b" || sorted[2].ID != "c" {
		t.Errorf("Expected order a,b,c, got %s,%s,%s", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
}

// TestComputePosition_MarketOverride checks that a valuation replaces book value as current value.
func TestComputePosition_MarketOverride(t *testing.T) {
	inst := instrument("eq-1", model.ClassEquity, "USD")
	entries := []model.Entry{entry(t, inst, "a", day0, model.KindBuy, "1000", "7", nil)}
	valuation := &model.Valuation{InstrumentID: inst.ID, Date: day0.AddDate(0, 6, 0), Value: dec("1100"), ExchangeRate: dec("7.2")}

	t.Run("valuation on or before the date applies", func(t *testing.T) {
		pos, err := ComputePosition(inst, entries, valuation, day0.AddDate(1, 0, 0))
		if err != nil {
			t.Fatalf("ComputePosition() returned unexpected error: %v", err)
		}
		if !pos.MarketOverride {
			t.Error("Expected market override to be applied")
		}
		assertDecimal(t, "bookValue", pos.Base.BookValue, "7000")
		assertDecimal(t, "currentValue", pos.Base.CurrentValue, "7920")
		assertDecimal(t, "totalReturn", pos.Base.TotalReturn, "920")
		assertDecimal(t, "native currentValue", pos.Native.CurrentValue, "1100")
		assertDecimal(t, "native totalReturnRate", pos.Native.TotalReturnRate, "10")
	})

	t.Run("future valuation is ignored", func(t *testing.T) {
		pos, err := ComputePosition(inst, entries, valuation, day0.AddDate(0, 1, 0))
		if err != nil {
			t.Fatalf("ComputePosition() returned unexpected error: %v", err)
		}
		if pos.MarketOverride {
			t.Error("Expected no market override")
		}
		assertDecimal(t, "currentValue", pos.Base.CurrentValue, "7000")
	})
}

// TestComputePosition_Errors checks that corrupt input is reported, not silently summed.
func TestComputePosition_Errors(t *testing.T) {
	inst := instrument("cash-1", model.ClassCash, "CNY")
	other := instrument("cash-2", model.ClassCash, "CNY")

	t.Run("entry of another instrument", func(t *testing.T) {
		entries := []model.Entry{entry(t, other, "a", day0, model.KindDeposit, "1", "1", nil)}
		_, err := ComputePosition(inst, entries, nil, day0)
		if !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("Expected ErrValidation, got %v", err)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		e := entry(t, inst, "a", day0, model.KindDeposit, "1", "1", nil)
		e.Kind = "GIFT"
		_, err := ComputePosition(inst, []model.Entry{e}, nil, day0)
		if !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("Expected ErrValidation, got %v", err)
		}
	})
}

// TestComputePosition_Idempotent checks that recomputation yields identical results.
func TestComputePosition_Idempotent(t *testing.T) {
	inst := instrument("cash-1", model.ClassCash, "CNY")
	entries := []model.Entry{
		entry(t, inst, "a", day0, model.KindDeposit, "2500", "1", nil),
		entry(t, inst, "b", day0.AddDate(0, 4, 0), model.KindInterest, "17.80", "1", nil),
	}
	asOf := day0.AddDate(0, 8, 0)

	first, _ := ComputePosition(inst, entries, nil, asOf)
	second, _ := ComputePosition(inst, entries, nil, asOf)

	if !figuresEqual(first.Base, second.Base) || !figuresEqual(first.Native, second.Native) || first.Status != second.Status {
		t.Errorf("Expected identical results, got %+v and %+v", first, second)
	}
}
