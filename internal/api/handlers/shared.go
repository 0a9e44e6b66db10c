package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into a T, rejecting unknown fields and trailing data.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("failed to decode request body: %w", err)
	}
	if dec.More() {
		return req, errors.New("request body must contain a single JSON object")
	}
	return req, nil
}

// notFoundErrors are matched most specific first to pick the 404 message.
var notFoundErrors = []error{
	apperrors.ErrInstrumentNotFound,
	apperrors.ErrTransactionNotFound,
	apperrors.ErrSnapshotNotFound,
}

var conflictErrors = []error{
	apperrors.ErrInstrumentInUse,
	apperrors.ErrSnapshotProtected,
	apperrors.ErrDuplicateEntry,
}

// respondServiceError maps a service error onto an HTTP status:
//
//	ValidationError / ErrValidation -> 400
//	ErrNotFound                     -> 404
//	ErrConflict                     -> 409
//	ErrCurrencyMismatch             -> 422
//	anything else                   -> 500 with message
func respondServiceError(w http.ResponseWriter, err error, message string) {
	var ve *apperrors.ValidationError

	switch {
	case errors.As(err, &ve):
		response.RespondError(w, http.StatusBadRequest, "validation failed", ve.Fields)
	case errors.Is(err, apperrors.ErrValidation):
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		msg := apperrors.ErrNotFound.Error()
		for _, target := range notFoundErrors {
			if errors.Is(err, target) {
				msg = target.Error()
				break
			}
		}
		response.RespondError(w, http.StatusNotFound, msg, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		msg := apperrors.ErrConflict.Error()
		for _, target := range conflictErrors {
			if errors.Is(err, target) {
				msg = target.Error()
				break
			}
		}
		response.RespondError(w, http.StatusConflict, msg, err.Error())
	case errors.Is(err, apperrors.ErrCurrencyMismatch):
		response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrCurrencyMismatch.Error(), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, message, err.Error())
	}
}
