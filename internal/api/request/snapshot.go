package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
)

// CreateSnapshotRequest represents the request body for a manual snapshot
type CreateSnapshotRequest struct {
	Note string `json:"note"`
}

// ParseSnapshotFilters extracts and validates snapshot list filters from query parameters.
// All parameters are optional.
//
// Validation rules:
//   - kind: AUTO or MANUAL, case-insensitive
//   - startDate/endDate: YYYY-MM-DD or RFC3339
//   - startDate must not be after endDate
func ParseSnapshotFilters(kindParam, startDateParam, endDateParam string) (model.SnapshotFilter, error) {
	var filter model.SnapshotFilter
	c := apperrors.Collector{}

	if kindParam != "" {
		kind := model.SnapshotKind(strings.ToUpper(strings.TrimSpace(kindParam)))
		if kind.Valid() {
			filter.Kind = kind
		} else {
			c.Add("kind", fmt.Sprintf("invalid snapshot kind: %s", kindParam))
		}
	}

	if startDateParam != "" {
		t, err := parseDateOrDateTime(startDateParam)
		if err != nil {
			c.Add("startDate", "invalid startDate format")
		}
		filter.StartDate = t
	}

	if endDateParam != "" {
		t, err := parseDateOrDateTime(endDateParam)
		if err != nil {
			c.Add("endDate", "invalid endDate format")
		}
		filter.EndDate = t
	}

	if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() && filter.StartDate.After(filter.EndDate) {
		c.Add("startDate", "startDate must be before endDate")
	}

	if err := c.Err(); err != nil {
		return model.SnapshotFilter{}, err
	}
	return filter, nil
}

// parseDateOrDateTime accepts a YYYY-MM-DD date or an RFC3339 datetime.
func parseDateOrDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(model.DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date: %s", s)
}
