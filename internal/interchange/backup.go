package interchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/orderledger/internal/domain"
)

// BackupDocument is the JSON backup of one owner's entries.
type BackupDocument struct {
	BackupDate time.Time     `json:"backup_date"`
	OwnerID    string        `json:"owner_id"`
	TotalCount int           `json:"total_count"`
	Entries    []BackupEntry `json:"entries"`
}

// BackupEntry carries the editable fields of an entry plus its id and
// timestamps. Derived figures are recomputed on restore.
type BackupEntry struct {
	ID          string  `json:"id"`
	ProductName string  `json:"product_name"`
	ProductURL  *string `json:"product_url"`
	Quantity    int     `json:"quantity"`
	StoreName   string  `json:"store_name"`
	CostPerItem Amount  `json:"cost_per_item"`
	AmountPaid  *Amount `json:"amount_paid"`
	SoldPrice   *Amount `json:"sold_price"`
	Status      string  `json:"status"`
	ReleaseDate *string `json:"release_date"`
	OrderDate   *string `json:"order_date"`
	Notes       *string `json:"notes"`
	CreatedAt   *string `json:"created_at,omitempty"`
	UpdatedAt   *string `json:"updated_at,omitempty"`
}

// Amount is a decimal written as a JSON number. It decodes from either a
// number or a numeric string.
type Amount struct {
	decimal.Decimal
}

// MarshalJSON writes the amount as a numeric literal.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(domain.MoneyDecimalPlaces)), nil
}

// UnmarshalJSON accepts 12.5 and "12.5".
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	d, err := domain.ParseDecimal(s)
	if err != nil {
		return err
	}
	a.Decimal = d
	return nil
}

// NewBackupDocument builds the backup of entries taken at now.
func NewBackupDocument(ownerID string, now time.Time, entries []*domain.Entry) *BackupDocument {
	doc := &BackupDocument{
		BackupDate: now.UTC(),
		OwnerID:    ownerID,
		TotalCount: len(entries),
		Entries:    make([]BackupEntry, 0, len(entries)),
	}

	for _, e := range entries {
		doc.Entries = append(doc.Entries, newBackupEntry(e))
	}

	return doc
}

func newBackupEntry(e *domain.Entry) BackupEntry {
	paid := Amount{e.AmountPaid}
	orderDate := e.OrderDate.Format(domain.DateLayout)
	created := e.CreatedAt.UTC().Format(time.RFC3339Nano)
	updated := e.UpdatedAt.UTC().Format(time.RFC3339Nano)

	b := BackupEntry{
		ID:          e.ID,
		ProductName: e.ProductName,
		ProductURL:  e.ProductURL,
		Quantity:    e.Quantity,
		StoreName:   e.StoreName,
		CostPerItem: Amount{e.CostPerItem},
		AmountPaid:  &paid,
		Status:      string(e.Status),
		OrderDate:   &orderDate,
		Notes:       e.Notes,
		CreatedAt:   &created,
		UpdatedAt:   &updated,
	}

	if e.SoldPrice.Valid {
		b.SoldPrice = &Amount{e.SoldPrice.Decimal}
	}
	if e.ReleaseDate != nil {
		s := e.ReleaseDate.Format(domain.DateLayout)
		b.ReleaseDate = &s
	}

	return b
}

// DecodeBackup extracts the raw entry objects from a backup document. Invalid
// JSON and a missing or null "entries" array fail with
// domain.ErrMalformedDocument; more than maxEntries fails with
// domain.ErrDocumentTooLarge.
func DecodeBackup(data []byte, maxEntries int) ([]json.RawMessage, error) {
	var doc struct {
		Entries *[]json.RawMessage `json:"entries"`
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", domain.ErrMalformedDocument, err)
	}
	if doc.Entries == nil {
		return nil, fmt.Errorf("%w: missing entries", domain.ErrMalformedDocument)
	}
	if maxEntries > 0 && len(*doc.Entries) > maxEntries {
		return nil, fmt.Errorf("%w: more than %d entries", domain.ErrDocumentTooLarge, maxEntries)
	}

	return *doc.Entries, nil
}

// DecodeBackupEntry decodes one raw entry object.
func DecodeBackupEntry(raw json.RawMessage) (BackupEntry, error) {
	var b BackupEntry
	if err := json.Unmarshal(raw, &b); err != nil {
		return BackupEntry{}, err
	}
	return b, nil
}

// BackupItemName returns the product_name of a raw backup item, or "" when
// the item is not an object or the field is not a string.
func BackupItemName(raw json.RawMessage) string {
	var head struct {
		ProductName string `json:"product_name"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return ""
	}
	return head.ProductName
}

// Draft converts the backup item into an unsaved entry. A missing status means
// Pending and a missing order date means today; missing timestamps are left
// zero.
func (b BackupEntry) Draft(today time.Time) (*domain.Entry, error) {
	e := &domain.Entry{
		ProductName: b.ProductName,
		ProductURL:  b.ProductURL,
		StoreName:   b.StoreName,
		Quantity:    b.Quantity,
		CostPerItem: b.CostPerItem.Decimal,
		AmountPaid:  decimal.Zero,
		Notes:       b.Notes,
		OrderDate:   domain.TruncateToDate(today),
	}

	if b.AmountPaid != nil {
		e.AmountPaid = b.AmountPaid.Decimal
	}
	if b.SoldPrice != nil {
		e.SoldPrice = decimal.NewNullDecimal(b.SoldPrice.Decimal)
	}

	e.Status = domain.StatusPending
	if b.Status != "" {
		status, err := domain.ParseStatus(b.Status)
		if err != nil {
			return nil, err
		}
		e.Status = status
	}

	if b.ReleaseDate != nil && *b.ReleaseDate != "" {
		d, err := domain.ParseDate(*b.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("release_date: %w", err)
		}
		e.ReleaseDate = &d
	}

	if b.OrderDate != nil && *b.OrderDate != "" {
		d, err := domain.ParseDate(*b.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("order_date: %w", err)
		}
		e.OrderDate = d
	}

	if b.CreatedAt != nil && *b.CreatedAt != "" {
		ts, err := domain.ParseTimestamp(*b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("created_at: %w", err)
		}
		e.CreatedAt = ts
	}

	if b.UpdatedAt != nil && *b.UpdatedAt != "" {
		ts, err := domain.ParseTimestamp(*b.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("updated_at: %w", err)
		}
		e.UpdatedAt = ts
	}

	return e, nil
}
