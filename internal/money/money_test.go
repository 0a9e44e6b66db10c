package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestValidCurrency(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"CNY", true},
		{"hkd", true},
		{" USD ", true},
		{"XYZ", false},
		{"", false},
		{"EURO", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := ValidCurrency(tt.code); got != tt.want {
				t.Errorf("ValidCurrency(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestRoundNative(t *testing.T) {
	if got := RoundNative(d("1234.567"), "JPY"); !got.Equal(d("1235")) {
		t.Errorf("Expected JPY to round to whole yen, got %s", got)
	}
	if got := RoundNative(d("1234.567"), "CNY"); !got.Equal(d("1234.57")) {
		t.Errorf("Expected CNY to round to fen, got %s", got)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(d("208.33"), d("10000")); !got.Equal(d("2.0833")) {
		t.Errorf("Expected 2.0833, got %s", got)
	}
	if got := Percent(d("5"), decimal.Zero); !got.IsZero() {
		t.Errorf("Expected 0 for zero whole, got %s", got)
	}
	if got := Percent(d("5"), d("-1")); !got.IsZero() {
		t.Errorf("Expected 0 for negative whole, got %s", got)
	}
}

// TestAnnualizedPercent checks the compounding formula and its zero cases.
func TestAnnualizedPercent(t *testing.T) {
	t.Run("one full year equals the simple return", func(t *testing.T) {
		got := AnnualizedPercent(d("110"), d("100"), 365)
		// (1.1)^(365.25/365) - 1 is slightly above 10%
		if got.LessThan(d("10")) || got.GreaterThan(d("10.01")) {
			t.Errorf("Expected about 10%%, got %s", got)
		}
	})

	t.Run("half a year compounds", func(t *testing.T) {
		got := AnnualizedPercent(d("105"), d("100"), 182)
		if got.LessThan(d("10.2")) || got.GreaterThan(d("10.4")) {
			t.Errorf("Expected about 10.3%%, got %s", got)
		}
	})

	t.Run("written off loses everything", func(t *testing.T) {
		if got := AnnualizedPercent(d("0"), d("100"), 100); !got.Equal(d("-100")) {
			t.Errorf("Expected -100, got %s", got)
		}
	})

	zero := []struct {
		name       string
		end, start string
		days       int
	}{
		{"zero days", "110", "100", 0},
		{"negative days", "110", "100", -3},
		{"zero principal", "110", "0", 100},
		{"negative value", "-5", "100", 100},
	}
	for _, tt := range zero {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnnualizedPercent(d(tt.end), d(tt.start), tt.days); !got.IsZero() {
				t.Errorf("Expected 0, got %s", got)
			}
		})
	}
}

func TestToBase(t *testing.T) {
	if got := ToBase(d("90000"), d("0.90")); !got.Equal(d("81000")) {
		t.Errorf("Expected 81000, got %s", got)
	}
	if got := ToBase(d("787.50"), d("0.92")); !got.Equal(d("724.50")) {
		t.Errorf("Expected 724.50, got %s", got)
	}
}
