// Package money holds the fixed-point helpers shared by the derivation engine.
// Money is rounded to two decimals and rates to four, never through binary floats.
package money

import (
	"math"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	// MoneyPlaces is the number of decimals kept for money fields.
	MoneyPlaces = 2
	// RatePlaces is the number of decimals kept for rates and percentages.
	RatePlaces = 4
)

var hundred = decimal.NewFromInt(100)

// Round rounds a money amount to MoneyPlaces.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// RoundRate rounds a rate or percentage to RatePlaces.
func RoundRate(d decimal.Decimal) decimal.Decimal {
	return d.Round(RatePlaces)
}

// NormalizeCurrency upper-cases and trims an ISO 4217 code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCurrency reports whether code is a known ISO 4217 currency.
func ValidCurrency(code string) bool {
	code = NormalizeCurrency(code)
	if len(code) != 3 {
		return false
	}
	return gomoney.GetCurrency(code) != nil
}

// Fraction returns the number of minor-unit digits of the currency, defaulting to MoneyPlaces.
func Fraction(code string) int32 {
	cur := gomoney.GetCurrency(NormalizeCurrency(code))
	if cur == nil {
		return MoneyPlaces
	}
	return int32(cur.Fraction)
}

// RoundNative rounds an amount to the minor unit of its own currency.
func RoundNative(d decimal.Decimal, code string) decimal.Decimal {
	return d.Round(Fraction(code))
}

// ToBase converts a native amount with the given exchange rate, rounded to MoneyPlaces.
func ToBase(amount, rate decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(rate))
}

// Percent returns part / whole × 100 rounded to RatePlaces, or zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return RoundRate(part.Div(whole).Mul(hundred))
}

// Ratio returns part / whole rounded to RatePlaces, or zero when whole is not positive.
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return RoundRate(part.Div(whole))
}

// AnnualizedPercent compounds growth = end/start over days and expresses it as a yearly percentage:
// ((end/start)^(365.25/days) - 1) × 100.
// It returns zero when days or start are not positive, and when end is negative.
// A written-off holding (end = 0) annualizes to -100.
// The power has no exact decimal form, so it is evaluated in float64 and rounded back to RatePlaces.
func AnnualizedPercent(end, start decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 || !start.IsPositive() || end.IsNegative() {
		return decimal.Zero
	}
	growth := end.Div(start).InexactFloat64()
	annual := (math.Pow(growth, 365.25/float64(days)) - 1) * 100
	if math.IsNaN(annual) || math.IsInf(annual, 0) {
		return decimal.Zero
	}
	return RoundRate(decimal.NewFromFloat(annual))
}
