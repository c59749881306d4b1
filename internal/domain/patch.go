package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Nullable is a patch field for an optional value. Set reports whether the
// field was supplied at all; a supplied field with a nil Value clears it.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// NewNullable returns a supplied field holding v.
func NewNullable[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a supplied field that clears the value.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// UnmarshalJSON marks the field as supplied; JSON null clears it.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// EntryPatch is a partial update. Nil pointers and unset Nullables leave the
// stored field untouched.
type EntryPatch struct {
	ProductName *string
	ProductURL  Nullable[string]
	Quantity    *int
	StoreName   *string
	CostPerItem *decimal.Decimal
	AmountPaid  *decimal.Decimal
	SoldPrice   Nullable[decimal.Decimal]
	Status      *Status
	ReleaseDate Nullable[time.Time]
	OrderDate   *time.Time
	Notes       Nullable[string]
}

// IsEmpty reports whether the patch supplies no field at all.
func (p EntryPatch) IsEmpty() bool {
	return p.ProductName == nil &&
		!p.ProductURL.Set &&
		p.Quantity == nil &&
		p.StoreName == nil &&
		p.CostPerItem == nil &&
		p.AmountPaid == nil &&
		!p.SoldPrice.Set &&
		p.Status == nil &&
		!p.ReleaseDate.Set &&
		p.OrderDate == nil &&
		!p.Notes.Set
}

// ApplyTo merges the supplied fields onto e. It does not validate.
func (p EntryPatch) ApplyTo(e *Entry) {
	if p.ProductName != nil {
		e.ProductName = *p.ProductName
	}
	if p.ProductURL.Set {
		e.ProductURL = copyPtr(p.ProductURL.Value)
	}
	if p.Quantity != nil {
		e.Quantity = *p.Quantity
	}
	if p.StoreName != nil {
		e.StoreName = *p.StoreName
	}
	if p.CostPerItem != nil {
		e.CostPerItem = *p.CostPerItem
	}
	if p.AmountPaid != nil {
		e.AmountPaid = *p.AmountPaid
	}
	if p.SoldPrice.Set {
		if p.SoldPrice.Value != nil {
			e.SoldPrice = decimal.NewNullDecimal(*p.SoldPrice.Value)
		} else {
			e.SoldPrice = decimal.NullDecimal{}
		}
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.ReleaseDate.Set {
		if p.ReleaseDate.Value != nil {
			d := TruncateToDate(*p.ReleaseDate.Value)
			e.ReleaseDate = &d
		} else {
			e.ReleaseDate = nil
		}
	}
	if p.OrderDate != nil {
		e.OrderDate = TruncateToDate(*p.OrderDate)
	}
	if p.Notes.Set {
		e.Notes = copyPtr(p.Notes.Value)
	}
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
