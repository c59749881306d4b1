package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the fulfilment state of an entry. Transitions between the
// three values are unrestricted.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusDelivered Status = "Delivered"
	StatusSold      Status = "Sold"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusDelivered, StatusSold}

// IsValid checks if the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusDelivered, StatusSold:
		return true
	}
	return false
}

// Entry represents a single purchase (order or preorder) owned by one caller.
// Monetary figures derived from the scalar inputs are never stored; see Derived.
type Entry struct {
	ID          string
	OwnerID     string
	ProductName string
	ProductURL  *string
	StoreName   string
	Quantity    int
	CostPerItem decimal.Decimal
	AmountPaid  decimal.Decimal
	SoldPrice   decimal.NullDecimal
	Status      Status
	ReleaseDate *time.Time
	OrderDate   time.Time
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Derived holds the server-computed financial figures of an entry.
type Derived struct {
	TotalCost    decimal.Decimal
	AmountOwing  decimal.Decimal
	Profit       decimal.NullDecimal
	ProfitMargin decimal.NullDecimal
}

var hundred = decimal.NewFromInt(100)

// ComputeDerived calculates the derived figures from the four scalar inputs.
// Profit is null without a sold price; the margin is additionally null unless
// the sold price is positive.
func ComputeDerived(costPerItem decimal.Decimal, quantity int, amountPaid decimal.Decimal, soldPrice decimal.NullDecimal) Derived {
	total := costPerItem.Mul(decimal.NewFromInt(int64(quantity)))

	d := Derived{
		TotalCost:   total,
		AmountOwing: total.Sub(amountPaid),
	}

	if !soldPrice.Valid {
		return d
	}

	profit := soldPrice.Decimal.Sub(total)
	d.Profit = decimal.NewNullDecimal(profit)

	if soldPrice.Decimal.IsPositive() {
		d.ProfitMargin = decimal.NewNullDecimal(profit.Mul(hundred).DivRound(soldPrice.Decimal, 2))
	}

	return d
}

// Derived returns the computed figures for the entry's current fields.
func (e *Entry) Derived() Derived {
	return ComputeDerived(e.CostPerItem, e.Quantity, e.AmountPaid, e.SoldPrice)
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	c := *e
	if e.ProductURL != nil {
		v := *e.ProductURL
		c.ProductURL = &v
	}
	if e.ReleaseDate != nil {
		v := *e.ReleaseDate
		c.ReleaseDate = &v
	}
	if e.Notes != nil {
		v := *e.Notes
		c.Notes = &v
	}
	return &c
}

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// TruncateToDate normalizes t to midnight UTC of its calendar day.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
