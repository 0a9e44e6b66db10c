package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/money"
)

// EntryKind is the closed set of economic events an entry can record.
type EntryKind string

const (
	KindBuy         EntryKind = "BUY"
	KindSell        EntryKind = "SELL"
	KindDeposit     EntryKind = "DEPOSIT"
	KindWithdraw    EntryKind = "WITHDRAW"
	KindTransferIn  EntryKind = "TRANSFER_IN"
	KindTransferOut EntryKind = "TRANSFER_OUT"
	KindInterest    EntryKind = "INTEREST"
	KindDividend    EntryKind = "DIVIDEND"
	KindFee         EntryKind = "FEE"
)

// EntryKinds lists every kind.
var EntryKinds = []EntryKind{
	KindBuy, KindSell, KindDeposit, KindWithdraw, KindTransferIn,
	KindTransferOut, KindInterest, KindDividend, KindFee,
}

// Flow is the bucket an entry amount is summed into.
type Flow int

const (
	FlowUnknown Flow = iota
	FlowInvest
	FlowWithdraw
	FlowIncome
	FlowFee
)

// Flow classifies the kind. This is the single place where kinds map to totals.
func (k EntryKind) Flow() Flow {
	switch k {
	case KindBuy, KindDeposit, KindTransferIn:
		return FlowInvest
	case KindSell, KindWithdraw, KindTransferOut:
		return FlowWithdraw
	case KindInterest, KindDividend:
		return FlowIncome
	case KindFee:
		return FlowFee
	}
	return FlowUnknown
}

// Valid reports whether k belongs to the closed set.
func (k EntryKind) Valid() bool {
	return k.Flow() != FlowUnknown
}

// Entry is one immutable economic event against an instrument.
// Amount, Currency, Date, Kind, ExchangeRate and AmountBase never change after
// construction; only Note may be corrected.
type Entry struct {
	ID           string          `json:"id"`
	InstrumentID string          `json:"instrumentId"`
	Class        InstrumentClass `json:"class"`
	Date         time.Time       `json:"date"`
	Kind         EntryKind       `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	AmountBase   decimal.Decimal `json:"amountBase"`
	Note         string          `json:"note,omitempty"`
	Detail       Detail          `json:"detail,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// EntryFields are the class-independent inputs of NewEntry.
type EntryFields struct {
	ID           string
	InstrumentID string
	Date         time.Time
	Kind         EntryKind
	Amount       decimal.Decimal
	Currency     string
	ExchangeRate decimal.Decimal
	Note         string
	CreatedAt    time.Time
}

// NewEntry validates the fields against the referenced instrument and returns the entry
// with AmountBase computed and frozen. inst is the instrument fields.InstrumentID resolves to,
// nil when it could not be found.
//
// Errors are *apperrors.ValidationError keyed by field: amount, reference, date, kind,
// exchangeRate, currency, detail.
func NewEntry(fields EntryFields, detail Detail, inst *Instrument) (Entry, error) {
	c := apperrors.Collector{}

	if strings.TrimSpace(fields.InstrumentID) == "" {
		c.Add("reference", "instrument reference is required")
	} else if inst == nil || inst.ID != fields.InstrumentID {
		c.Add("reference", fmt.Sprintf("instrument %s does not exist", fields.InstrumentID))
	}
	if !fields.Amount.IsPositive() {
		c.Add("amount", "amount must be positive")
	}
	if fields.Date.IsZero() {
		c.Add("date", "date is required")
	}
	if !fields.Kind.Valid() {
		c.Add("kind", fmt.Sprintf("invalid kind: %s", fields.Kind))
	}
	if !fields.ExchangeRate.IsPositive() {
		c.Add("exchangeRate", "exchange rate must be positive")
	}

	currency := money.NormalizeCurrency(fields.Currency)
	if inst != nil && currency == "" {
		currency = inst.Currency
	}
	switch {
	case !money.ValidCurrency(currency):
		c.Add("currency", fmt.Sprintf("unknown currency: %s", fields.Currency))
	case inst != nil && currency != inst.Currency:
		c.Add("currency", fmt.Sprintf("entry currency %s differs from instrument currency %s", currency, inst.Currency))
	}

	if inst != nil {
		validateDetail(inst.Class, fields.Kind, detail, c)
	}

	if err := c.Err(); err != nil {
		return Entry{}, err
	}

	id := fields.ID
	if id == "" {
		id = uuid.New().String()
	}

	return Entry{
		ID:           id,
		InstrumentID: fields.InstrumentID,
		Class:        inst.Class,
		Date:         DateOf(fields.Date),
		Kind:         fields.Kind,
		Amount:       fields.Amount,
		Currency:     currency,
		ExchangeRate: fields.ExchangeRate,
		AmountBase:   money.ToBase(fields.Amount, fields.ExchangeRate),
		Note:         fields.Note,
		Detail:       detail,
		CreatedAt:    fields.CreatedAt,
	}, nil
}

func validateDetail(class InstrumentClass, kind EntryKind, detail Detail, c apperrors.Collector) {
	if detail == nil {
		if class == ClassFixedIncome && kind.Flow() != FlowFee && kind.Flow() != FlowWithdraw {
			c.Add("detail", "fixed-income inflows and income require an annual rate or a coupon rate with face value")
		}
		return
	}
	if detail.Class() != class {
		c.Add("detail", fmt.Sprintf("%s detail does not match instrument class %s", detail.Class(), class))
		return
	}
	detail.validate(c)
}

// Detail is the class-specific payload of an entry. The set of implementations is closed.
type Detail interface {
	Class() InstrumentClass
	validate(c apperrors.Collector)
}

// CashDetail carries optional terms of a cash account or deposit.
type CashDetail struct {
	AnnualRate *decimal.Decimal `json:"annualRate,omitempty"`
	Account    string           `json:"account,omitempty"`
}

func (CashDetail) Class() InstrumentClass { return ClassCash }

func (d CashDetail) validate(c apperrors.Collector) {
	if d.AnnualRate != nil && d.AnnualRate.IsNegative() {
		c.Add("detail", "annual rate cannot be negative")
	}
}

// FixedIncomeDetail carries the terms of a bond, note or fixed-term deposit.
type FixedIncomeDetail struct {
	AnnualRate   *decimal.Decimal `json:"annualRate,omitempty"`
	CouponRate   *decimal.Decimal `json:"couponRate,omitempty"`
	FaceValue    *decimal.Decimal `json:"faceValue,omitempty"`
	StartDate    *time.Time       `json:"startDate,omitempty"`
	MaturityDate *time.Time       `json:"maturityDate,omitempty"`
}

func (FixedIncomeDetail) Class() InstrumentClass { return ClassFixedIncome }

func (d FixedIncomeDetail) validate(c apperrors.Collector) {
	hasRate := d.AnnualRate != nil
	hasCoupon := d.CouponRate != nil && d.FaceValue != nil
	if !hasRate && !hasCoupon {
		c.Add("detail", "fixed-income detail requires an annual rate or a coupon rate with face value")
		return
	}
	if hasRate && d.AnnualRate.IsNegative() {
		c.Add("detail", "annual rate cannot be negative")
	}
	if d.CouponRate != nil && d.CouponRate.IsNegative() {
		c.Add("detail", "coupon rate cannot be negative")
	}
	if d.FaceValue != nil && !d.FaceValue.IsPositive() {
		c.Add("detail", "face value must be positive")
	}
	if d.StartDate != nil && d.MaturityDate != nil && d.MaturityDate.Before(*d.StartDate) {
		c.Add("detail", "maturity date precedes start date")
	}
}

// MaturedBy reports whether the maturity date is on or before asOf.
func (d FixedIncomeDetail) MaturedBy(asOf time.Time) bool {
	if d.MaturityDate == nil {
		return false
	}
	return !DateOf(*d.MaturityDate).After(DateOf(asOf))
}

// EquityDetail carries the trade details of a share or fund unit purchase.
type EquityDetail struct {
	Ticker    string           `json:"ticker,omitempty"`
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
}

func (EquityDetail) Class() InstrumentClass { return ClassEquity }

func (d EquityDetail) validate(c apperrors.Collector) {
	if d.Quantity != nil && !d.Quantity.IsPositive() {
		c.Add("detail", "quantity must be positive")
	}
	if d.UnitPrice != nil && !d.UnitPrice.IsPositive() {
		c.Add("detail", "unit price must be positive")
	}
}

// RealEstateDetail carries property attributes.
type RealEstateDetail struct {
	Address string           `json:"address,omitempty"`
	AreaSqm *decimal.Decimal `json:"areaSqm,omitempty"`
}

func (RealEstateDetail) Class() InstrumentClass { return ClassRealEstate }

func (d RealEstateDetail) validate(c apperrors.Collector) {
	if d.AreaSqm != nil && !d.AreaSqm.IsPositive() {
		c.Add("detail", "area must be positive")
	}
}

// MarshalDetail encodes a detail for storage. A nil detail encodes to nil.
func MarshalDetail(d Detail) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// UnmarshalDetail decodes a stored detail for the given class.
// Empty data, or a class without a variant, yields a nil detail.
func UnmarshalDetail(class InstrumentClass, data []byte) (Detail, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	switch class {
	case ClassCash:
		return decodeDetail[CashDetail](data)
	case ClassFixedIncome:
		return decodeDetail[FixedIncomeDetail](data)
	case ClassEquity:
		return decodeDetail[EquityDetail](data)
	case ClassRealEstate:
		return decodeDetail[RealEstateDetail](data)
	}
	return nil, nil
}

// decodeDetail rejects fields the variant does not declare, so a payload written
// for another class fails instead of decoding to an empty detail.
func decodeDetail[T Detail](data []byte) (Detail, error) {
	var d T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, err
	}
	return d, nil
}
