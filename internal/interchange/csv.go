// Package interchange converts ledger entries to and from their CSV and JSON
// backup representations.
package interchange

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/orderledger/internal/domain"
)

// CSV column names
const (
	ColID           = "id"
	ColProductName  = "product_name"
	ColProductURL   = "product_url"
	ColQuantity     = "quantity"
	ColStoreName    = "store_name"
	ColCostPerItem  = "cost_per_item"
	ColAmountPaid   = "amount_paid"
	ColSoldPrice    = "sold_price"
	ColStatus       = "status"
	ColReleaseDate  = "release_date"
	ColOrderDate    = "order_date"
	ColNotes        = "notes"
	ColTotalCost    = "total_cost"
	ColAmountOwing  = "amount_owing"
	ColProfit       = "profit"
	ColProfitMargin = "profit_margin"
	ColCreatedAt    = "created_at"
	ColUpdatedAt    = "updated_at"
)

// Columns is the export header in order.
var Columns = []string{
	ColID, ColProductName, ColProductURL, ColQuantity, ColStoreName,
	ColCostPerItem, ColAmountPaid, ColSoldPrice, ColStatus,
	ColReleaseDate, ColOrderDate, ColNotes,
	ColTotalCost, ColAmountOwing, ColProfit, ColProfitMargin,
	ColCreatedAt, ColUpdatedAt,
}

// RequiredColumns must be present in an import header.
var RequiredColumns = []string{ColProductName, ColStoreName, ColQuantity, ColCostPerItem}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the header and one row per entry.
func WriteCSV(w io.Writer, entries []*domain.Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return err
	}

	for _, e := range entries {
		if err := cw.Write(entryRecord(e)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func entryRecord(e *domain.Entry) []string {
	d := e.Derived()

	return []string{
		e.ID,
		e.ProductName,
		derefString(e.ProductURL),
		strconv.Itoa(e.Quantity),
		e.StoreName,
		money(e.CostPerItem),
		money(e.AmountPaid),
		nullMoney(e.SoldPrice),
		string(e.Status),
		formatDate(e.ReleaseDate),
		e.OrderDate.Format(domain.DateLayout),
		derefString(e.Notes),
		money(d.TotalCost),
		money(d.AmountOwing),
		nullMoney(d.Profit),
		nullMoney(d.ProfitMargin),
		e.CreatedAt.UTC().Format(time.RFC3339),
		e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyDecimalPlaces)
}

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return money(d.Decimal)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(domain.DateLayout)
}

// Row is one CSV data row keyed by header name. Number is the 1-based row
// number counting the header as row 1.
type Row struct {
	Number int
	fields map[string]string
}

// NewRow builds a row from column values.
func NewRow(number int, fields map[string]string) Row {
	return Row{Number: number, fields: fields}
}

// Get returns the trimmed value of a column, or "" when absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.fields[column])
}

// ReadCSV parses a whole CSV document. Syntax errors and a header missing a
// required column fail with domain.ErrMalformedDocument; more than maxRows data
// rows fail with domain.ErrDocumentTooLarge.
func ReadCSV(r io.Reader, maxRows int) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty CSV document", domain.ErrMalformedDocument)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}

	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", domain.ErrMalformedDocument, strings.Join(missing, ", "))
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
		}

		if maxRows > 0 && len(rows) >= maxRows {
			return nil, fmt.Errorf("%w: more than %d rows", domain.ErrDocumentTooLarge, maxRows)
		}

		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				fields[col] = record[i]
			}
		}
		rows = append(rows, Row{Number: len(rows) + 2, fields: fields})
	}

	return rows, nil
}

func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// Draft parses the row's editable columns into an unsaved entry. Blank optional
// columns take their defaults; a blank order date means today. Derived and id
// columns are ignored.
func (r Row) Draft(today time.Time) (*domain.Entry, error) {
	e := &domain.Entry{
		ProductName: r.Get(ColProductName),
		StoreName:   r.Get(ColStoreName),
		ProductURL:  optionalString(r.Get(ColProductURL)),
		Notes:       optionalString(r.Get(ColNotes)),
		Quantity:    1,
		AmountPaid:  decimal.Zero,
		Status:      domain.StatusPending,
		OrderDate:   domain.TruncateToDate(today),
	}

	if s := r.Get(ColQuantity); s != "" {
		q, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidQuantity, s)
		}
		e.Quantity = q
	}

	cost, err := domain.ParseDecimal(r.Get(ColCostPerItem))
	if err != nil {
		return nil, fmt.Errorf("cost_per_item: %w", err)
	}
	e.CostPerItem = cost

	if s := r.Get(ColAmountPaid); s != "" {
		paid, err := domain.ParseDecimal(s)
		if err != nil {
			return nil, fmt.Errorf("amount_paid: %w", err)
		}
		e.AmountPaid = paid
	}

	if s := r.Get(ColSoldPrice); s != "" {
		sold, err := domain.ParseDecimal(s)
		if err != nil {
			return nil, fmt.Errorf("sold_price: %w", err)
		}
		e.SoldPrice = decimal.NewNullDecimal(sold)
	}

	if s := r.Get(ColStatus); s != "" {
		status, err := domain.ParseStatus(s)
		if err != nil {
			return nil, err
		}
		e.Status = status
	}

	if s := r.Get(ColReleaseDate); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("release_date: %w", err)
		}
		e.ReleaseDate = &d
	}

	if s := r.Get(ColOrderDate); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("order_date: %w", err)
		}
		e.OrderDate = d
	}

	return e, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
