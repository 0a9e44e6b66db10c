package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
)

func samplePortfolio(t *testing.T) model.Portfolio {
	t.Helper()
	positions := []model.Position{
		withRate(position("a", model.ClassCash, 1, "1000", "1020"), "2"),
		withRate(position("b", model.ClassEquity, 4, "2000", "2300"), "15"),
	}
	return AggregatePortfolio("CNY", positions, day0)
}

// TestCaptureSnapshot checks that every derived field is copied and dated.
func TestCaptureSnapshot(t *testing.T) {
	p := samplePortfolio(t)
	now := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

	s := CaptureSnapshot(p, model.SnapshotManual, "quarter end", now)

	if s.ID == "" {
		t.Error("Expected snapshot ID to be set")
	}
	if !s.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected date 2024-03-05, got %s", s.Date)
	}
	if !s.CreatedAt.Equal(now) {
		t.Errorf("Expected createdAt %s, got %s", now, s.CreatedAt)
	}
	if s.Kind != model.SnapshotManual || s.Note != "quarter end" || s.BaseCurrency != "CNY" {
		t.Errorf("Unexpected header fields: %+v", s.Summary())
	}
	assertDecimal(t, "totalValue", s.TotalValue, "3320")
	assertDecimal(t, "totalCost", s.TotalCost, "3000")
	if len(s.Positions) != 2 {
		t.Fatalf("Expected 2 position details, got %d", len(s.Positions))
	}
	assertDecimal(t, "position b value", s.Positions[1].CurrentValue, "2300")
	if s.SchemaVersion != model.SnapshotSchemaVersion {
		t.Errorf("Expected schema version %d, got %d", model.SnapshotSchemaVersion, s.SchemaVersion)
	}
}

// TestCaptureSnapshot_Detached checks that mutating the live portfolio leaves the snapshot untouched.
//
// WHY: A snapshot is a historical fact. Sharing maps or pointers with live objects would let
// later recomputation leak into it.
func TestCaptureSnapshot_Detached(t *testing.T) {
	p := samplePortfolio(t)
	s := CaptureSnapshot(p, model.SnapshotAuto, "", day0)

	cash := p.Allocation[model.ClassCash]
	cash.Value = dec("999999")
	p.Allocation[model.ClassCash] = cash
	p.Metrics.Best.TotalReturnRate = dec("-100")
	p.Positions[0].Base.CurrentValue = dec("1")

	assertDecimal(t, "allocation cash", s.Allocation[model.ClassCash].Value, "1020")
	assertDecimal(t, "best rate", s.Metrics.Best.TotalReturnRate, "15")
	assertDecimal(t, "position value", s.Positions[0].CurrentValue, "1020")
}

// TestCompareSnapshots checks value, class and metric deltas.
func TestCompareSnapshots(t *testing.T) {
	older := CaptureSnapshot(samplePortfolio(t), model.SnapshotAuto, "", day0)

	newerPositions := []model.Position{
		withRate(position("a", model.ClassCash, 1, "1000", "1030"), "3"),
		withRate(position("c", model.ClassRealEstate, 2, "5000", "5000"), "0"),
	}
	newer := CaptureSnapshot(AggregatePortfolio("CNY", newerPositions, day0), model.SnapshotManual, "", day0.AddDate(0, 0, 31))

	diff, err := CompareSnapshots(newer, older)
	if err != nil {
		t.Fatalf("CompareSnapshots() returned unexpected error: %v", err)
	}

	if diff.ElapsedDays != 31 {
		t.Errorf("Expected 31 elapsed days, got %d", diff.ElapsedDays)
	}
	assertDecimal(t, "valueChange", diff.ValueChange, "2710")
	assertDecimal(t, "valueChangeRate", diff.ValueChangeRate, "81.6265")
	assertDecimal(t, "cash change", diff.ClassChanges[model.ClassCash].Change, "10")
	assertDecimal(t, "equity change", diff.ClassChanges[model.ClassEquity].Change, "-2300")
	assertDecimal(t, "equity newer", diff.ClassChanges[model.ClassEquity].Newer, "0")
	assertDecimal(t, "real estate change", diff.ClassChanges[model.ClassRealEstate].Change, "5000")
	assertDecimal(t, "average return change", diff.MetricChanges.AverageReturnRate, "-7")
	if diff.NewerID != newer.ID || diff.OlderID != older.ID {
		t.Errorf("Expected ids %s/%s, got %s/%s", newer.ID, older.ID, diff.NewerID, diff.OlderID)
	}
}

// TestCompareSnapshots_CurrencyMismatch checks that different base currencies are refused.
func TestCompareSnapshots_CurrencyMismatch(t *testing.T) {
	cny := CaptureSnapshot(samplePortfolio(t), model.SnapshotAuto, "", day0)
	usd := cny
	usd.BaseCurrency = "USD"

	diff, err := CompareSnapshots(cny, usd)
	if !errors.Is(err, apperrors.ErrCurrencyMismatch) {
		t.Fatalf("Expected ErrCurrencyMismatch, got %v", err)
	}
	if diff.ClassChanges != nil || !diff.ValueChange.IsZero() || diff.NewerID != "" {
		t.Errorf("Expected no partial result, got %+v", diff)
	}
}

// TestOrderSnapshots checks ordering by date then creation time.
func TestOrderSnapshots(t *testing.T) {
	a := model.Snapshot{ID: "a", Date: day0, CreatedAt: day0.Add(time.Hour)}
	b := model.Snapshot{ID: "b", Date: day0.AddDate(0, 0, 1), CreatedAt: day0.AddDate(0, 0, 1)}
	c := model.Snapshot{ID: "c", Date: day0, CreatedAt: day0.Add(2 * time.Hour)}

	if newer, older := OrderSnapshots(a, b); newer.ID != "b" || older.ID != "a" {
		t.Errorf("Expected b newer than a, got %s/%s", newer.ID, older.ID)
	}
	if newer, older := OrderSnapshots(c, a); newer.ID != "c" || older.ID != "a" {
		t.Errorf("Expected c newer than a, got %s/%s", newer.ID, older.ID)
	}
	if newer, _ := OrderSnapshots(a, c); newer.ID != "c" {
		t.Errorf("Expected c newer than a, got %s", newer.ID)
	}
}

// TestCanDeleteSnapshot checks the today guard.
func TestCanDeleteSnapshot(t *testing.T) {
	today := time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC)

	if CanDeleteSnapshot(model.Snapshot{Date: model.DateOf(today)}, today) {
		t.Error("Expected today's snapshot to be protected")
	}
	if !CanDeleteSnapshot(model.Snapshot{Date: model.DateOf(today).AddDate(0, 0, -1)}, today) {
		t.Error("Expected yesterday's snapshot to be deletable")
	}
}
