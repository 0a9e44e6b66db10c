package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/service"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/validation"
)

// TransactionHandler handles transaction log requests.
// Entries are append-only: there is no update or delete route besides the note.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// GetTransaction returns one entry.
//
// Endpoint: GET /api/transaction/{uuid}
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	entry, err := h.transactionService.GetTransaction(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransaction.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, entry)
}

// CreateTransaction appends an entry to the log.
//
// Endpoint: POST /api/transaction
// Response: 201 Created with the entry, including the frozen amountBase
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		respondServiceError(w, err, "")
		return
	}

	entry, err := h.transactionService.CreateTransaction(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "failed to create transaction")
		return
	}

	response.RespondJSON(w, http.StatusCreated, entry)
}

// UpdateTransactionNote corrects the note of an entry.
//
// Endpoint: PUT /api/transaction/{uuid}/note
func (h *TransactionHandler) UpdateTransactionNote(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateTransactionNoteRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateTransactionNote(req); err != nil {
		respondServiceError(w, err, "")
		return
	}

	entry, err := h.transactionService.UpdateTransactionNote(r.Context(), chi.URLParam(r, "uuid"), req.Note)
	if err != nil {
		respondServiceError(w, err, "failed to update transaction note")
		return
	}

	response.RespondJSON(w, http.StatusOK, entry)
}
