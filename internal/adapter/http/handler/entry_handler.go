package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/orderledger/internal/adapter/http/dto"
	"github.com/iho/orderledger/internal/domain"
	"github.com/iho/orderledger/internal/usecase"
)

// EntryService defines the single-entry behaviour needed by EntryHandler.
type EntryService interface {
	CreateEntry(ctx context.Context, ownerID string, input usecase.CreateEntryInput) (*domain.Entry, error)
	GetEntry(ctx context.Context, ownerID, id string) (*domain.Entry, error)
	UpdateEntry(ctx context.Context, ownerID, id string, patch domain.EntryPatch) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, ownerID, id string) error
	ListStoreNames(ctx context.Context, ownerID string) ([]string, error)
}

// QueryService defines the listing behaviour needed by EntryHandler.
type QueryService interface {
	ListEntries(ctx context.Context, ownerID string, input usecase.ListEntriesInput) (*domain.EntryPage, error)
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	entryUC EntryService
	queryUC QueryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService, queryUC QueryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC, queryUC: queryUC}
}

// Create creates a new entry.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	entry, err := h.entryUC.CreateEntry(r.Context(), owner, input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Get returns one entry.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	entry, err := h.entryUC.GetEntry(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Update applies a partial update.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	entry, err := h.entryUC.UpdateEntry(r.Context(), owner, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Delete removes one entry.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	if err := h.entryUC.DeleteEntry(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List returns one page of the caller's entries.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	filter, err := parseFilter(r, domain.StoreMatchContains)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	q := r.URL.Query()
	page, err := h.queryUC.ListEntries(r.Context(), owner, usecase.ListEntriesInput{
		Filter: filter,
		Sort: domain.EntrySort{
			Field:     domain.ParseSortField(q.Get("sort_by")),
			Direction: domain.ParseSortDirection(q.Get("sort_order")),
		},
		Page: domain.PageRequest{
			Page:     parseIntQuery(r, "page", 1),
			PageSize: parseIntQuery(r, "page_size", 0),
		},
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryPageFromDomain(page))
}

// Stores lists the caller's distinct store names.
func (h *EntryHandler) Stores(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	names, err := h.entryUC.ListStoreNames(r.Context(), owner)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	writeJSON(w, http.StatusOK, dto.StoreNamesResponse{Stores: names})
}
