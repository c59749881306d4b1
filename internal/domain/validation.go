package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MinProductNameLength = 1
	MaxProductNameLength = 500
	MinStoreNameLength   = 1
	MaxStoreNameLength   = 200
	MoneyDecimalPlaces   = 2
	MaxQuantity          = math.MaxInt32
)

// MaxMoney is the largest amount a money column holds (NUMERIC(12,2)).
var MaxMoney = decimal.RequireFromString("9999999999.99")

// Validate checks field bounds and the amount-paid invariant against a freshly
// computed total cost.
func (e *Entry) Validate() error {
	if err := ValidateProductName(e.ProductName); err != nil {
		return err
	}

	if err := ValidateStoreName(e.StoreName); err != nil {
		return err
	}

	if e.Quantity <= 0 {
		return fmt.Errorf("%w: must be greater than zero", ErrInvalidQuantity)
	}
	if e.Quantity > MaxQuantity {
		return fmt.Errorf("%w: cannot exceed %d", ErrInvalidQuantity, MaxQuantity)
	}

	if !e.CostPerItem.IsPositive() {
		return fmt.Errorf("%w: must be greater than zero", ErrInvalidCostPerItem)
	}
	if !hasMoneyPrecision(e.CostPerItem) {
		return fmt.Errorf("%w: at most %d decimal places allowed", ErrInvalidCostPerItem, MoneyDecimalPlaces)
	}
	if e.CostPerItem.GreaterThan(MaxMoney) {
		return fmt.Errorf("%w: cannot exceed %s", ErrInvalidCostPerItem, MaxMoney.StringFixed(MoneyDecimalPlaces))
	}

	if e.AmountPaid.IsNegative() {
		return fmt.Errorf("%w: cannot be negative", ErrInvalidAmountPaid)
	}
	if !hasMoneyPrecision(e.AmountPaid) {
		return fmt.Errorf("%w: at most %d decimal places allowed", ErrInvalidAmountPaid, MoneyDecimalPlaces)
	}
	if e.AmountPaid.GreaterThan(MaxMoney) {
		return fmt.Errorf("%w: cannot exceed %s", ErrInvalidAmountPaid, MaxMoney.StringFixed(MoneyDecimalPlaces))
	}

	if e.SoldPrice.Valid {
		if e.SoldPrice.Decimal.IsNegative() {
			return fmt.Errorf("%w: cannot be negative", ErrInvalidSoldPrice)
		}
		if !hasMoneyPrecision(e.SoldPrice.Decimal) {
			return fmt.Errorf("%w: at most %d decimal places allowed", ErrInvalidSoldPrice, MoneyDecimalPlaces)
		}
		if e.SoldPrice.Decimal.GreaterThan(MaxMoney) {
			return fmt.Errorf("%w: cannot exceed %s", ErrInvalidSoldPrice, MaxMoney.StringFixed(MoneyDecimalPlaces))
		}
	}

	if !e.Status.IsValid() {
		return ErrInvalidStatus
	}

	if e.OrderDate.IsZero() {
		return fmt.Errorf("%w: order date is required", ErrInvalidDate)
	}

	total := e.Derived().TotalCost
	if e.AmountPaid.GreaterThan(total) {
		return fmt.Errorf("%w: amount paid (%s) exceeds total cost (%s)",
			ErrAmountPaidExceedsTotal, e.AmountPaid.StringFixed(MoneyDecimalPlaces), total.StringFixed(MoneyDecimalPlaces))
	}

	return nil
}

// ValidateProductName validates the product name length in characters.
func ValidateProductName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < MinProductNameLength || strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidProductName)
	}
	if n > MaxProductNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidProductName, MaxProductNameLength)
	}
	return nil
}

// ValidateStoreName validates the store name length in characters.
func ValidateStoreName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < MinStoreNameLength || strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidStoreName)
	}
	if n > MaxStoreNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidStoreName, MaxStoreNameLength)
	}
	return nil
}

func hasMoneyPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyDecimalPlaces))
}

// ParseStatus parses a status value, case-sensitively.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.TrimSpace(s))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: got %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// ParseDate parses a calendar date. Full ISO-8601 timestamps are accepted and
// truncated to their date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return TruncateToDate(t), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return TruncateToDate(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidDate, s)
}

// ParseTimestamp parses an ISO-8601 timestamp. Timestamps without a zone
// offset are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not an ISO-8601 timestamp", ErrInvalidDate, s)
}

// ParseDecimal parses a plain decimal number.
func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	return d, nil
}
