package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotKind tells how a snapshot was created. At most one snapshot per kind exists per date.
type SnapshotKind string

const (
	SnapshotAuto   SnapshotKind = "AUTO"
	SnapshotManual SnapshotKind = "MANUAL"
)

// Valid reports whether k is AUTO or MANUAL.
func (k SnapshotKind) Valid() bool {
	return k == SnapshotAuto || k == SnapshotManual
}

// SnapshotSchemaVersion is the payload version written by this build.
const SnapshotSchemaVersion = 1

// PositionDetail is the frozen copy of one position inside a snapshot.
type PositionDetail struct {
	InstrumentID       string          `json:"instrumentId"`
	Name               string          `json:"name"`
	Class              InstrumentClass `json:"class"`
	Currency           string          `json:"currency"`
	RiskLevel          int             `json:"riskLevel"`
	Status             PositionStatus  `json:"status"`
	HoldingDays        int             `json:"holdingDays"`
	Principal          decimal.Decimal `json:"principal"`
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalFees          decimal.Decimal `json:"totalFees"`
	BookValue          decimal.Decimal `json:"bookValue"`
	CurrentValue       decimal.Decimal `json:"currentValue"`
	TotalReturn        decimal.Decimal `json:"totalReturn"`
	TotalReturnRate    decimal.Decimal `json:"totalReturnRate"`
	AnnualizedReturn   decimal.Decimal `json:"annualizedReturn"`
	NativeCurrentValue decimal.Decimal `json:"nativeCurrentValue"`
}

// Snapshot is an immutable frozen copy of the portfolio at a point in time.
// None of its fields change after creation.
type Snapshot struct {
	ID              string                              `json:"id"`
	Date            time.Time                           `json:"date"`
	CreatedAt       time.Time                           `json:"createdAt"`
	Kind            SnapshotKind                        `json:"kind"`
	BaseCurrency    string                              `json:"baseCurrency"`
	TotalValue      decimal.Decimal                     `json:"totalValue"`
	TotalCost       decimal.Decimal                     `json:"totalCost"`
	TotalReturn     decimal.Decimal                     `json:"totalReturn"`
	TotalReturnRate decimal.Decimal                     `json:"totalReturnRate"`
	Allocation      map[InstrumentClass]ClassAllocation `json:"allocation"`
	Metrics         PerformanceMetrics                  `json:"metrics"`
	Positions       []PositionDetail                    `json:"positions"`
	Note            string                              `json:"note,omitempty"`
	SchemaVersion   int                                 `json:"schemaVersion"`
}

// SnapshotSummary is the list view of a snapshot, without the nested payload.
type SnapshotSummary struct {
	ID              string          `json:"id"`
	Date            time.Time       `json:"date"`
	CreatedAt       time.Time       `json:"createdAt"`
	Kind            SnapshotKind    `json:"kind"`
	BaseCurrency    string          `json:"baseCurrency"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	TotalCost       decimal.Decimal `json:"totalCost"`
	TotalReturn     decimal.Decimal `json:"totalReturn"`
	TotalReturnRate decimal.Decimal `json:"totalReturnRate"`
	Note            string          `json:"note,omitempty"`
}

// Summary drops the nested payload.
func (s Snapshot) Summary() SnapshotSummary {
	return SnapshotSummary{
		ID:              s.ID,
		Date:            s.Date,
		CreatedAt:       s.CreatedAt,
		Kind:            s.Kind,
		BaseCurrency:    s.BaseCurrency,
		TotalValue:      s.TotalValue,
		TotalCost:       s.TotalCost,
		TotalReturn:     s.TotalReturn,
		TotalReturnRate: s.TotalReturnRate,
		Note:            s.Note,
	}
}

// SnapshotFilter for listing snapshots
type SnapshotFilter struct {
	Kind      SnapshotKind
	StartDate time.Time
	EndDate   time.Time
}

// snapshotPayloadV1 is the stored layout of the nested snapshot structures, version 1.
type snapshotPayloadV1 struct {
	Version    int                                 `json:"version"`
	Allocation map[InstrumentClass]ClassAllocation `json:"allocation"`
	Metrics    PerformanceMetrics                  `json:"metrics"`
	Positions  []PositionDetail                    `json:"positions"`
}

// EncodeSnapshotPayload serializes the nested structures of s into the current payload version.
func EncodeSnapshotPayload(s Snapshot) ([]byte, error) {
	payload := snapshotPayloadV1{
		Version:    SnapshotSchemaVersion,
		Allocation: s.Allocation,
		Metrics:    s.Metrics,
		Positions:  s.Positions,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot payload: %w", err)
	}
	return data, nil
}

// DecodeSnapshotPayload fills the nested structures of s from a stored payload of any known version.
func DecodeSnapshotPayload(data []byte, s *Snapshot) error {
	var header struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return fmt.Errorf("failed to read snapshot payload version: %w", err)
	}

	switch header.Version {
	case 1:
		var payload snapshotPayloadV1
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("failed to decode snapshot payload v1: %w", err)
		}
		s.Allocation = payload.Allocation
		s.Metrics = payload.Metrics
		s.Positions = payload.Positions
		s.SchemaVersion = payload.Version
	default:
		return fmt.Errorf("unsupported snapshot payload version %d", header.Version)
	}

	if s.Allocation == nil {
		s.Allocation = map[InstrumentClass]ClassAllocation{}
	}
	if s.Positions == nil {
		s.Positions = []PositionDetail{}
	}
	return nil
}

// ClassDelta is the change in value of one instrument class between two snapshots.
type ClassDelta struct {
	Older  decimal.Decimal `json:"older"`
	Newer  decimal.Decimal `json:"newer"`
	Change decimal.Decimal `json:"change"`
}

// MetricDelta is the change of the stored performance metrics between two snapshots.
type MetricDelta struct {
	AverageReturnRate decimal.Decimal `json:"averageReturnRate"`
	AverageRiskScore  decimal.Decimal `json:"averageRiskScore"`
	Concentration     decimal.Decimal `json:"concentration"`
	ReturnRateSpread  decimal.Decimal `json:"returnRateSpread"`
}

// SnapshotDiff is the structural comparison of two snapshots in the same base currency.
type SnapshotDiff struct {
	NewerID         string                         `json:"newerId"`
	OlderID         string                         `json:"olderId"`
	NewerDate       time.Time                      `json:"newerDate"`
	OlderDate       time.Time                      `json:"olderDate"`
	ElapsedDays     int                            `json:"elapsedDays"`
	BaseCurrency    string                         `json:"baseCurrency"`
	ValueChange     decimal.Decimal                `json:"valueChange"`
	ValueChangeRate decimal.Decimal                `json:"valueChangeRate"`
	CostChange      decimal.Decimal                `json:"costChange"`
	ReturnChange    decimal.Decimal                `json:"returnChange"`
	ClassChanges    map[InstrumentClass]ClassDelta `json:"classChanges"`
	MetricChanges   MetricDelta                    `json:"metricChanges"`
}
