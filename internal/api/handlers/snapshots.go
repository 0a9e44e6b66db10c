package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/service"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/validation"
)

// SnapshotHandler handles snapshot requests
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler
func NewSnapshotHandler(snapshotService *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotService: snapshotService,
	}
}

// Snapshots lists snapshot summaries, newest first.
//
// Endpoint: GET /api/snapshot?kind=&startDate=&endDate=
func (h *SnapshotHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := request.ParseSnapshotFilters(q.Get("kind"), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		respondServiceError(w, err, "")
		return
	}

	snapshots, err := h.snapshotService.ListSnapshots(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveSnapshots.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshots)
}

// GetSnapshot returns a snapshot with its positions, allocation and metrics.
//
// Endpoint: GET /api/snapshot/{uuid}
func (h *SnapshotHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshotService.GetSnapshot(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveSnapshot.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshot)
}

// CreateSnapshot freezes the live portfolio as today's MANUAL snapshot.
// The body is optional.
//
// Endpoint: POST /api/snapshot
// Response: 201 Created with the snapshot
func (h *SnapshotHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateSnapshotRequest](r)
	if err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateSnapshot(req); err != nil {
		respondServiceError(w, err, "")
		return
	}

	snapshot, err := h.snapshotService.CreateManualSnapshot(r.Context(), strings.TrimSpace(req.Note))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCreateSnapshot.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, snapshot)
}

// CompareSnapshots diffs two snapshots; the later one is treated as newer.
//
// Endpoint: GET /api/snapshot/compare?newer={uuid}&older={uuid}
// Error: 422 Unprocessable Entity when base currencies differ
func (h *SnapshotHandler) CompareSnapshots(w http.ResponseWriter, r *http.Request) {
	newer, older := r.URL.Query().Get("newer"), r.URL.Query().Get("older")

	c := apperrors.Collector{}
	if err := validation.ValidateUUID(newer); err != nil {
		c.Add("newer", err.Error())
	}
	if err := validation.ValidateUUID(older); err != nil {
		c.Add("older", err.Error())
	}
	if err := c.Err(); err != nil {
		respondServiceError(w, err, "")
		return
	}

	diff, err := h.snapshotService.CompareSnapshots(r.Context(), newer, older)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCompareSnapshots.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, diff)
}

// DeleteSnapshot removes a snapshot not dated today.
//
// Endpoint: DELETE /api/snapshot/{uuid}
// Response: 204 No Content, 409 Conflict for today's snapshot
func (h *SnapshotHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.snapshotService.DeleteSnapshot(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToDeleteSnapshot.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
