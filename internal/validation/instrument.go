package validation

import (
	"strings"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
)

// ValidateCreateInstrument checks that the required fields are present.
// Value rules (known class, currency, risk range) are checked by model.Instrument.Validate.
//
// Required fields:
//   - name
//   - class
//   - currency
func ValidateCreateInstrument(req request.CreateInstrumentRequest) error {
	c := apperrors.Collector{}

	if strings.TrimSpace(req.Name) == "" {
		c.Add("name", "name is required")
	}
	if strings.TrimSpace(req.Class) == "" {
		c.Add("class", "class is required")
	}
	if strings.TrimSpace(req.Currency) == "" {
		c.Add("currency", "currency is required")
	}

	return c.Err()
}

// ValidateUpdateInstrument rejects blank values for fields that cannot be empty
// and requires at least one field.
func ValidateUpdateInstrument(req request.UpdateInstrumentRequest) error {
	c := apperrors.Collector{}

	if req.Name == nil && req.Class == nil && req.Currency == nil && req.Issuer == nil &&
		req.Rating == nil && req.RiskLevel == nil && req.Liquidity == nil {
		c.Add("body", "at least one field must be provided")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		c.Add("name", "name cannot be empty")
	}
	if req.Class != nil && strings.TrimSpace(*req.Class) == "" {
		c.Add("class", "class cannot be empty")
	}
	if req.Currency != nil && strings.TrimSpace(*req.Currency) == "" {
		c.Add("currency", "currency cannot be empty")
	}

	return c.Err()
}
