package handler

import (
	"context"
	"net/http"

	"github.com/iho/orderledger/internal/adapter/http/dto"
	"github.com/iho/orderledger/internal/domain"
)

// BulkService defines the behavior needed by BulkHandler.
type BulkService interface {
	BulkUpdate(ctx context.Context, ownerID string, ids []string, patch domain.EntryPatch) (*domain.BulkResult, error)
	BulkDelete(ctx context.Context, ownerID string, ids []string) (*domain.BulkResult, error)
}

// BulkHandler handles bulk update and delete requests.
type BulkHandler struct {
	bulkUC BulkService
}

// NewBulkHandler creates a new BulkHandler.
func NewBulkHandler(bulkUC BulkService) *BulkHandler {
	return &BulkHandler{bulkUC: bulkUC}
}

// Update applies one patch to every listed entry.
func (h *BulkHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.BulkUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patch, err := req.UpdateData.ToPatch()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	result, err := h.bulkUC.BulkUpdate(r.Context(), owner, req.EntryIDs, patch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BulkUpdateFromDomain(result))
}

// Delete removes every listed entry.
func (h *BulkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.BulkDeleteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.bulkUC.BulkDelete(r.Context(), owner, req.EntryIDs)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BulkDeleteFromDomain(result))
}
