package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/money"
)

// MaxInstrumentNameLength bounds Instrument.Name.
const MaxInstrumentNameLength = 100

// InstrumentClass classifies a holding. The set is open: new classes only need
// a Detail variant and a label.
type InstrumentClass string

const (
	ClassCash        InstrumentClass = "CASH"
	ClassFixedIncome InstrumentClass = "FIXED_INCOME"
	ClassEquity      InstrumentClass = "EQUITY"
	ClassRealEstate  InstrumentClass = "REAL_ESTATE"
	ClassOther       InstrumentClass = "OTHER"
)

// InstrumentClasses lists the known classes in display order.
var InstrumentClasses = []InstrumentClass{
	ClassCash,
	ClassFixedIncome,
	ClassEquity,
	ClassRealEstate,
	ClassOther,
}

// Valid reports whether c is a known class.
func (c InstrumentClass) Valid() bool {
	for _, known := range InstrumentClasses {
		if c == known {
			return true
		}
	}
	return false
}

// Liquidity tags how quickly a holding can be turned into cash.
type Liquidity string

const (
	LiquidityUnset  Liquidity = ""
	LiquidityHigh   Liquidity = "HIGH"
	LiquidityMedium Liquidity = "MEDIUM"
	LiquidityLow    Liquidity = "LOW"
)

// Valid reports whether l is empty or a known tag.
func (l Liquidity) Valid() bool {
	switch l {
	case LiquidityUnset, LiquidityHigh, LiquidityMedium, LiquidityLow:
		return true
	}
	return false
}

// MaxRiskLevel is the highest risk score an instrument can carry. Zero means unset.
const MaxRiskLevel = 5

// Instrument describes a holding: an account, deposit, bond, fund or property.
type Instrument struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Class     InstrumentClass `json:"class"`
	Currency  string          `json:"currency"`
	Issuer    string          `json:"issuer,omitempty"`
	Rating    string          `json:"rating,omitempty"`
	RiskLevel int             `json:"riskLevel"`
	Liquidity Liquidity       `json:"liquidity,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// InstrumentFilter for querying instruments
type InstrumentFilter struct {
	Class    InstrumentClass
	Currency string
}

// Validate checks the descriptive fields of an instrument.
// Errors are *apperrors.ValidationError keyed by field: name, class, currency, riskLevel, liquidity.
func (i Instrument) Validate() error {
	c := apperrors.Collector{}

	name := strings.TrimSpace(i.Name)
	switch {
	case name == "":
		c.Add("name", "name is required")
	case len(name) > MaxInstrumentNameLength:
		c.Add("name", fmt.Sprintf("name must be at most %d characters", MaxInstrumentNameLength))
	}
	if !i.Class.Valid() {
		c.Add("class", fmt.Sprintf("invalid class: %s", i.Class))
	}
	if !money.ValidCurrency(i.Currency) {
		c.Add("currency", fmt.Sprintf("unknown currency: %s", i.Currency))
	}
	if i.RiskLevel < 0 || i.RiskLevel > MaxRiskLevel {
		c.Add("riskLevel", fmt.Sprintf("risk level must be between 0 and %d", MaxRiskLevel))
	}
	if !i.Liquidity.Valid() {
		c.Add("liquidity", fmt.Sprintf("invalid liquidity: %s", i.Liquidity))
	}

	return c.Err()
}
