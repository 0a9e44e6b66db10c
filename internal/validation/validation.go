package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
)

// MaxNoteLength bounds free-text notes on entries and snapshots.
const MaxNoteLength = 500

// ErrInvalidUUID matches apperrors.ErrValidation.
var ErrInvalidUUID = fmt.Errorf("invalid UUID format: %w", apperrors.ErrValidation)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format: %w", err)
	}
	return t, nil
}

func validateDate(c apperrors.Collector, field, value string) {
	if strings.TrimSpace(value) == "" {
		c.Add(field, fmt.Sprintf("%s is required", field))
		return
	}
	if _, err := ParseDate(value); err != nil {
		c.Add(field, err.Error())
	}
}

func validateNote(c apperrors.Collector, note string) {
	if len(note) > MaxNoteLength {
		c.Add("note", fmt.Sprintf("note must be at most %d characters", MaxNoteLength))
	}
}
