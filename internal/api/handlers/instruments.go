package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/model"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/money"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/service"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/validation"
)

// InstrumentHandler handles instrument registry requests and the per-instrument views.
type InstrumentHandler struct {
	instrumentService  *service.InstrumentService
	positionService    *service.PositionService
	transactionService *service.TransactionService
	valuationService   *service.ValuationService
}

// NewInstrumentHandler creates a new InstrumentHandler
func NewInstrumentHandler(
	instrumentService *service.InstrumentService,
	positionService *service.PositionService,
	transactionService *service.TransactionService,
	valuationService *service.ValuationService,
) *InstrumentHandler {
	return &InstrumentHandler{
		instrumentService:  instrumentService,
		positionService:    positionService,
		transactionService: transactionService,
		valuationService:   valuationService,
	}
}

// Instruments lists instruments, optionally filtered by ?class= and ?currency=.
//
// Endpoint: GET /api/instrument
func (h *InstrumentHandler) Instruments(w http.ResponseWriter, r *http.Request) {
	filter := model.InstrumentFilter{
		Class:    model.InstrumentClass(strings.ToUpper(r.URL.Query().Get("class"))),
		Currency: money.NormalizeCurrency(r.URL.Query().Get("currency")),
	}
	if filter.Class != "" && !filter.Class.Valid() {
		response.RespondError(w, http.StatusBadRequest, "validation failed", map[string]string{"class": "invalid class"})
		return
	}

	instruments, err := h.instrumentService.ListInstruments(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveInstruments.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, instruments)
}

// GetInstrument returns one instrument.
//
// Endpoint: GET /api/instrument/{uuid}
func (h *InstrumentHandler) GetInstrument(w http.ResponseWriter, r *http.Request) {
	inst, err := h.instrumentService.GetInstrument(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveInstrument.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, inst)
}

// CreateInstrument registers an instrument.
//
// Endpoint: POST /api/instrument
// Response: 201 Created with the instrument
func (h *InstrumentHandler) CreateInstrument(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateInstrumentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateInstrument(req); err != nil {
		respondServiceError(w, err, "")
		return
	}

	inst, err := h.instrumentService.CreateInstrument(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "failed to create instrument")
		return
	}

	response.RespondJSON(w, http.StatusCreated, inst)
}

// UpdateInstrument changes descriptive fields of an instrument.
//
// Endpoint: PUT /api/instrument/{uuid}
func (h *InstrumentHandler) UpdateInstrument(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateInstrumentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateInstrument(req); err != nil {
		respondServiceError(w, err, "")
		return
	}

	inst, err := h.instrumentService.UpdateInstrument(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, "failed to update instrument")
		return
	}

	response.RespondJSON(w, http.StatusOK, inst)
}

// DeleteInstrument removes an instrument no transaction references.
//
// Endpoint: DELETE /api/instrument/{uuid}
// Response: 204 No Content, 409 Conflict when referenced
func (h *InstrumentHandler) DeleteInstrument(w http.ResponseWriter, r *http.Request) {
	if err := h.instrumentService.DeleteInstrument(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, "failed to delete instrument")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Position returns the derived position of an instrument as of today.
//
// Endpoint: GET /api/instrument/{uuid}/position
// Response: 200 OK, 404 Not Found when the instrument has no transactions yet
func (h *InstrumentHandler) Position(w http.ResponseWriter, r *http.Request) {
	position, err := h.positionService.GetPosition(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePosition.Error())
		return
	}
	if position == nil {
		response.RespondError(w, http.StatusNotFound, "instrument has no transactions", "")
		return
	}

	response.RespondJSON(w, http.StatusOK, position)
}

// Transactions returns the transaction log of an instrument, oldest first.
//
// Endpoint: GET /api/instrument/{uuid}/transactions
func (h *InstrumentHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	entries, err := h.transactionService.GetTransactionsForInstrument(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransaction.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, entries)
}

// RecordValuation stores a manual market value for an instrument.
//
// Endpoint: POST /api/instrument/{uuid}/valuation
// Response: 201 Created with the valuation
func (h *InstrumentHandler) RecordValuation(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateValuationRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateValuation(req); err != nil {
		respondServiceError(w, err, "")
		return
	}

	valuation, err := h.valuationService.RecordValuation(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, "failed to record valuation")
		return
	}

	response.RespondJSON(w, http.StatusCreated, valuation)
}
