package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/orderledger/internal/domain"
	"github.com/iho/orderledger/internal/usecase"
)

// CreateEntryRequest represents a request to create an entry. Decimal fields
// accept JSON numbers or numeric strings.
type CreateEntryRequest struct {
	ProductName string              `json:"product_name"`
	ProductURL  *string             `json:"product_url,omitempty"`
	StoreName   string              `json:"store_name"`
	Quantity    *int                `json:"quantity,omitempty"`
	CostPerItem decimal.Decimal     `json:"cost_per_item"`
	AmountPaid  *decimal.Decimal    `json:"amount_paid,omitempty"`
	SoldPrice   decimal.NullDecimal `json:"sold_price"`
	Status      string              `json:"status,omitempty"`
	ReleaseDate *string             `json:"release_date,omitempty"`
	OrderDate   *string             `json:"order_date,omitempty"`
	Notes       *string             `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput() (usecase.CreateEntryInput, error) {
	input := usecase.CreateEntryInput{
		ProductName: r.ProductName,
		ProductURL:  r.ProductURL,
		StoreName:   r.StoreName,
		Quantity:    r.Quantity,
		CostPerItem: r.CostPerItem,
		AmountPaid:  r.AmountPaid,
		SoldPrice:   r.SoldPrice,
		Notes:       r.Notes,
	}

	if r.Status != "" {
		status, err := domain.ParseStatus(r.Status)
		if err != nil {
			return input, err
		}
		input.Status = status
	}

	var err error
	if input.ReleaseDate, err = parseOptionalDate(r.ReleaseDate); err != nil {
		return input, fmt.Errorf("release_date: %w", err)
	}
	if input.OrderDate, err = parseOptionalDate(r.OrderDate); err != nil {
		return input, fmt.Errorf("order_date: %w", err)
	}

	return input, nil
}

// UpdateEntryRequest is a partial update. Absent keys leave the stored value
// untouched; an explicit null clears a nullable field.
type UpdateEntryRequest struct {
	ProductName *string                          `json:"product_name"`
	ProductURL  domain.Nullable[string]          `json:"product_url"`
	Quantity    *int                             `json:"quantity"`
	StoreName   *string                          `json:"store_name"`
	CostPerItem *decimal.Decimal                 `json:"cost_per_item"`
	AmountPaid  *decimal.Decimal                 `json:"amount_paid"`
	SoldPrice   domain.Nullable[decimal.Decimal] `json:"sold_price"`
	Status      *string                          `json:"status"`
	ReleaseDate domain.Nullable[string]          `json:"release_date"`
	OrderDate   *string                          `json:"order_date"`
	Notes       domain.Nullable[string]          `json:"notes"`
}

// ToPatch converts the request to a domain patch, parsing status and dates.
func (r *UpdateEntryRequest) ToPatch() (domain.EntryPatch, error) {
	patch := domain.EntryPatch{
		ProductName: r.ProductName,
		ProductURL:  r.ProductURL,
		Quantity:    r.Quantity,
		StoreName:   r.StoreName,
		CostPerItem: r.CostPerItem,
		AmountPaid:  r.AmountPaid,
		SoldPrice:   r.SoldPrice,
		Notes:       r.Notes,
	}

	if r.Status != nil {
		status, err := domain.ParseStatus(*r.Status)
		if err != nil {
			return patch, err
		}
		patch.Status = &status
	}

	if r.ReleaseDate.Set {
		if r.ReleaseDate.Value == nil {
			patch.ReleaseDate = domain.Null[time.Time]()
		} else {
			d, err := domain.ParseDate(*r.ReleaseDate.Value)
			if err != nil {
				return patch, fmt.Errorf("release_date: %w", err)
			}
			patch.ReleaseDate = domain.NewNullable(d)
		}
	}

	if r.OrderDate != nil {
		d, err := domain.ParseDate(*r.OrderDate)
		if err != nil {
			return patch, fmt.Errorf("order_date: %w", err)
		}
		patch.OrderDate = &d
	}

	return patch, nil
}

// BulkUpdateRequest applies one patch to many entries.
type BulkUpdateRequest struct {
	EntryIDs   []string           `json:"entry_ids"`
	UpdateData UpdateEntryRequest `json:"update_data"`
}

// BulkDeleteRequest deletes many entries.
type BulkDeleteRequest struct {
	EntryIDs []string `json:"entry_ids"`
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
