package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validEntry() *Entry {
	return &Entry{
		ID:          "e1",
		OwnerID:     "u1",
		ProductName: "Booster Box",
		StoreName:   "CardShop",
		Quantity:    2,
		CostPerItem: dec("50.00"),
		AmountPaid:  decimal.Zero,
		Status:      StatusPending,
		OrderDate:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestEntryValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(e *Entry)
		wantErr error
	}{
		{name: "valid", mutate: func(e *Entry) {}},
		{name: "paid equals total", mutate: func(e *Entry) { e.AmountPaid = dec("100") }},
		{name: "empty product name", mutate: func(e *Entry) { e.ProductName = "" }, wantErr: ErrInvalidProductName},
		{name: "blank product name", mutate: func(e *Entry) { e.ProductName = "   " }, wantErr: ErrInvalidProductName},
		{name: "product name too long", mutate: func(e *Entry) { e.ProductName = strings.Repeat("a", MaxProductNameLength+1) }, wantErr: ErrInvalidProductName},
		{name: "multibyte product name at limit", mutate: func(e *Entry) { e.ProductName = strings.Repeat("é", MaxProductNameLength) }},
		{name: "store name too long", mutate: func(e *Entry) { e.StoreName = strings.Repeat("s", MaxStoreNameLength+1) }, wantErr: ErrInvalidStoreName},
		{name: "zero quantity", mutate: func(e *Entry) { e.Quantity = 0 }, wantErr: ErrInvalidQuantity},
		{name: "quantity at limit", mutate: func(e *Entry) { e.Quantity = MaxQuantity; e.CostPerItem = dec("1") }},
		{name: "quantity over limit", mutate: func(e *Entry) { e.Quantity = MaxQuantity + 1 }, wantErr: ErrInvalidQuantity},
		{name: "zero cost", mutate: func(e *Entry) { e.CostPerItem = decimal.Zero }, wantErr: ErrInvalidCostPerItem},
		{name: "cost with three decimals", mutate: func(e *Entry) { e.CostPerItem = dec("1.005") }, wantErr: ErrInvalidCostPerItem},
		{name: "cost at money limit", mutate: func(e *Entry) { e.CostPerItem = dec("9999999999.99") }},
		{name: "cost over money limit", mutate: func(e *Entry) { e.CostPerItem = dec("10000000000.00") }, wantErr: ErrInvalidCostPerItem},
		{name: "paid at money limit", mutate: func(e *Entry) { e.CostPerItem = MaxMoney; e.AmountPaid = MaxMoney }},
		{name: "paid over money limit", mutate: func(e *Entry) { e.CostPerItem = MaxMoney; e.AmountPaid = dec("10000000000") }, wantErr: ErrInvalidAmountPaid},
		{name: "sold price at money limit", mutate: func(e *Entry) { e.SoldPrice = decimal.NewNullDecimal(MaxMoney) }},
		{name: "sold price over money limit", mutate: func(e *Entry) { e.SoldPrice = decimal.NewNullDecimal(dec("10000000000.01")) }, wantErr: ErrInvalidSoldPrice},
		{name: "negative paid", mutate: func(e *Entry) { e.AmountPaid = dec("-1") }, wantErr: ErrInvalidAmountPaid},
		{name: "negative sold price", mutate: func(e *Entry) { e.SoldPrice = decimal.NewNullDecimal(dec("-0.01")) }, wantErr: ErrInvalidSoldPrice},
		{name: "zero sold price", mutate: func(e *Entry) { e.SoldPrice = decimal.NewNullDecimal(decimal.Zero) }},
		{name: "unknown status", mutate: func(e *Entry) { e.Status = "Shipped" }, wantErr: ErrInvalidStatus},
		{name: "missing order date", mutate: func(e *Entry) { e.OrderDate = time.Time{} }, wantErr: ErrInvalidDate},
		{name: "paid exceeds total", mutate: func(e *Entry) { e.AmountPaid = dec("100.01") }, wantErr: ErrAmountPaidExceedsTotal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(e)

			err := e.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected error to wrap ErrValidation, got %v", err)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	if s, err := ParseStatus("Sold"); err != nil || s != StatusSold {
		t.Fatalf("expected Sold, got %q (%v)", s, err)
	}

	if _, err := ParseStatus("sold"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for lowercase status, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2025-04-02", "2025-04-02T15:04:05Z", "2025-04-02T15:04:05", " 2025-04-02 "} {
		got, err := ParseDate(in)
		if err != nil {
			t.Fatalf("ParseDate(%q): unexpected error %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDate(%q): expected %v, got %v", in, want, got)
		}
	}

	if _, err := ParseDate("04/02/2025"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2025-01-15T10:30:00Z", want: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)},
		{in: "2025-01-15T12:30:00+02:00", want: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)},
		{in: "2025-01-15T10:30:00", want: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)},
		{in: "2025-01-15T10:30:00.123456", want: time.Date(2025, 1, 15, 10, 30, 0, 123456000, time.UTC)},
		{in: "2025-01-15 10:30:00.5", want: time.Date(2025, 1, 15, 10, 30, 0, 500000000, time.UTC)},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): unexpected error %v", tt.in, err)
		}
		if !got.Equal(tt.want) || got.Location() != time.UTC {
			t.Fatalf("ParseTimestamp(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	if _, err := ParseTimestamp("yesterday"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	d, err := ParseDecimal(" 12.50 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(dec("12.5")) {
		t.Fatalf("expected 12.5, got %s", d)
	}

	if _, err := ParseDecimal("twelve"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
