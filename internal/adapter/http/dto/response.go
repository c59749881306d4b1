package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/orderledger/internal/domain"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// EntryResponse represents an entry in API responses, derived figures included.
type EntryResponse struct {
	ID           string              `json:"id"`
	ProductName  string              `json:"product_name"`
	ProductURL   *string             `json:"product_url"`
	Quantity     int                 `json:"quantity"`
	StoreName    string              `json:"store_name"`
	CostPerItem  decimal.Decimal     `json:"cost_per_item"`
	AmountPaid   decimal.Decimal     `json:"amount_paid"`
	SoldPrice    decimal.NullDecimal `json:"sold_price"`
	Status       domain.Status       `json:"status"`
	ReleaseDate  *string             `json:"release_date"`
	OrderDate    string              `json:"order_date"`
	Notes        *string             `json:"notes"`
	TotalCost    decimal.Decimal     `json:"total_cost"`
	AmountOwing  decimal.Decimal     `json:"amount_owing"`
	Profit       decimal.NullDecimal `json:"profit"`
	ProfitMargin decimal.NullDecimal `json:"profit_margin"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	d := e.Derived()

	resp := &EntryResponse{
		ID:           e.ID,
		ProductName:  e.ProductName,
		ProductURL:   e.ProductURL,
		Quantity:     e.Quantity,
		StoreName:    e.StoreName,
		CostPerItem:  e.CostPerItem,
		AmountPaid:   e.AmountPaid,
		SoldPrice:    e.SoldPrice,
		Status:       e.Status,
		OrderDate:    e.OrderDate.Format(domain.DateLayout),
		Notes:        e.Notes,
		TotalCost:    d.TotalCost,
		AmountOwing:  d.AmountOwing,
		Profit:       d.Profit,
		ProfitMargin: d.ProfitMargin,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}

	if e.ReleaseDate != nil {
		s := e.ReleaseDate.Format(domain.DateLayout)
		resp.ReleaseDate = &s
	}

	return resp
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// EntryListResponse is one page of a listing.
type EntryListResponse struct {
	Entries  []*EntryResponse `json:"entries"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// EntryPageFromDomain converts a domain page to a response.
func EntryPageFromDomain(p *domain.EntryPage) *EntryListResponse {
	return &EntryListResponse{
		Entries:  EntriesFromDomain(p.Entries),
		Total:    p.Total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}
}

// StoreNamesResponse lists an owner's distinct store names.
type StoreNamesResponse struct {
	Stores []string `json:"stores"`
}

// BulkUpdateResponse reports a bulk update.
type BulkUpdateResponse struct {
	UpdatedCount int      `json:"updated_count"`
	FailedIDs    []string `json:"failed_ids"`
	Message      string   `json:"message"`
}

// BulkDeleteResponse reports a bulk delete.
type BulkDeleteResponse struct {
	DeletedCount int      `json:"deleted_count"`
	FailedIDs    []string `json:"failed_ids"`
	Message      string   `json:"message"`
}

// BulkUpdateFromDomain converts a bulk result to an update response.
func BulkUpdateFromDomain(r *domain.BulkResult) *BulkUpdateResponse {
	return &BulkUpdateResponse{
		UpdatedCount: r.Succeeded,
		FailedIDs:    nonNil(r.FailedIDs),
		Message:      fmt.Sprintf("Successfully updated %d entry(s)", r.Succeeded),
	}
}

// BulkDeleteFromDomain converts a bulk result to a delete response.
func BulkDeleteFromDomain(r *domain.BulkResult) *BulkDeleteResponse {
	return &BulkDeleteResponse{
		DeletedCount: r.Succeeded,
		FailedIDs:    nonNil(r.FailedIDs),
		Message:      fmt.Sprintf("Successfully deleted %d entry(s)", r.Succeeded),
	}
}

// ImportResponse reports a CSV import.
type ImportResponse struct {
	ImportedCount int      `json:"imported_count"`
	SkippedCount  int      `json:"skipped_count"`
	FailedCount   int      `json:"failed_count"`
	Errors        []string `json:"errors"`
}

// ImportFromDomain converts an import report to a response.
func ImportFromDomain(r *domain.ImportReport) *ImportResponse {
	return &ImportResponse{
		ImportedCount: r.Imported,
		SkippedCount:  r.Skipped,
		FailedCount:   r.Failed,
		Errors:        nonNil(r.Errors),
	}
}

// RestoreResponse reports a backup restore.
type RestoreResponse struct {
	RestoredCount int      `json:"restored_count"`
	FailedCount   int      `json:"failed_count"`
	Errors        []string `json:"errors"`
	Message       string   `json:"message"`
}

// RestoreFromDomain converts a restore report to a response.
func RestoreFromDomain(r *domain.RestoreReport) *RestoreResponse {
	return &RestoreResponse{
		RestoredCount: r.Restored,
		FailedCount:   r.Failed,
		Errors:        nonNil(r.Errors),
		Message:       fmt.Sprintf("Successfully restored %d entry(s)", r.Restored),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
