package interchange

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/orderledger/internal/domain"
)

func soldEntry() *domain.Entry {
	url := "https://shop.example/box"
	notes := "pre-order, limited"
	release := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	return &domain.Entry{
		ID:          "e1",
		OwnerID:     "u1",
		ProductName: "Booster Box",
		ProductURL:  &url,
		StoreName:   "CardShop",
		Quantity:    2,
		CostPerItem: decimal.RequireFromString("50"),
		AmountPaid:  decimal.RequireFromString("40.5"),
		SoldPrice:   decimal.NewNullDecimal(decimal.RequireFromString("130")),
		Status:      domain.StatusSold,
		ReleaseDate: &release,
		OrderDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Notes:       &notes,
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Hour),
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []*domain.Entry{soldEntry()}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Columns, records[0])

	assert.Equal(t, []string{
		"e1", "Booster Box", "https://shop.example/box", "2", "CardShop",
		"50.00", "40.50", "130.00", "Sold",
		"2025-07-04", "2025-06-01", "pre-order, limited",
		"100.00", "59.50", "30.00", "23.08",
		"2025-06-01T09:30:00Z", "2025-06-01T10:30:00Z",
	}, records[1])
}

func TestWriteCSV_EmptyOptionalColumns(t *testing.T) {
	e := soldEntry()
	e.ProductURL = nil
	e.Notes = nil
	e.ReleaseDate = nil
	e.SoldPrice = decimal.NullDecimal{}
	e.Status = domain.StatusPending

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []*domain.Entry{e}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	row := records[1]

	assert.Empty(t, row[2])
	assert.Empty(t, row[7])
	assert.Empty(t, row[9])
	assert.Empty(t, row[11])
	assert.Empty(t, row[14])
	assert.Empty(t, row[15])
}

func TestReadCSV(t *testing.T) {
	doc := "\ufeffproduct_name, store_name ,quantity,cost_per_item,notes\n" +
		"Box,Shop,2,10,first\n" +
		"Pack,Shop,1,5\n"

	rows, err := ReadCSV(strings.NewReader(doc), 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, "Shop", rows[0].Get(ColStoreName))
	assert.Equal(t, "first", rows[0].Get(ColNotes))

	assert.Equal(t, 3, rows[1].Number)
	assert.Empty(t, rows[1].Get(ColNotes))
	assert.Empty(t, rows[1].Get(ColStatus))
}

func TestReadCSV_DocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		maxRows int
		wantErr error
	}{
		{name: "empty", doc: "", wantErr: domain.ErrMalformedDocument},
		{name: "missing required column", doc: "product_name,store_name,quantity\nBox,Shop,1\n", wantErr: domain.ErrMalformedDocument},
		{name: "unterminated quote", doc: "product_name,store_name,quantity,cost_per_item\n\"Box,Shop,1,2\n", wantErr: domain.ErrMalformedDocument},
		{name: "too many rows", doc: "product_name,store_name,quantity,cost_per_item\nA,S,1,1\nB,S,1,1\nC,S,1,1\n", maxRows: 2, wantErr: domain.ErrDocumentTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.doc), tt.maxRows)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRowDraft(t *testing.T) {
	today := time.Date(2025, 6, 15, 18, 45, 0, 0, time.UTC)

	t.Run("defaults", func(t *testing.T) {
		row := NewRow(2, map[string]string{
			ColProductName: " Box ",
			ColStoreName:   "Shop",
			ColCostPerItem: "12.5",
		})

		e, err := row.Draft(today)
		require.NoError(t, err)
		assert.Equal(t, "Box", e.ProductName)
		assert.Equal(t, 1, e.Quantity)
		assert.True(t, e.AmountPaid.IsZero())
		assert.False(t, e.SoldPrice.Valid)
		assert.Equal(t, domain.StatusPending, e.Status)
		assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), e.OrderDate)
		assert.Nil(t, e.ProductURL)
		assert.Nil(t, e.ReleaseDate)
	})

	t.Run("all columns", func(t *testing.T) {
		row := NewRow(3, map[string]string{
			ColID:          "ignored",
			ColProductName: "Box",
			ColStoreName:   "Shop",
			ColQuantity:    "3",
			ColCostPerItem: "10",
			ColAmountPaid:  "30",
			ColSoldPrice:   "45",
			ColStatus:      "Sold",
			ColReleaseDate: "2025-08-01",
			ColOrderDate:   "2025-05-20T10:00:00Z",
			ColTotalCost:   "999",
		})

		e, err := row.Draft(today)
		require.NoError(t, err)
		assert.Empty(t, e.ID)
		assert.Equal(t, 3, e.Quantity)
		assert.True(t, e.SoldPrice.Decimal.Equal(decimal.NewFromInt(45)))
		assert.Equal(t, domain.StatusSold, e.Status)
		assert.Equal(t, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), e.OrderDate)
		assert.True(t, e.Derived().TotalCost.Equal(decimal.NewFromInt(30)))
	})

	tests := []struct {
		name    string
		field   string
		value   string
		wantErr error
	}{
		{name: "quantity not integer", field: ColQuantity, value: "two", wantErr: domain.ErrInvalidQuantity},
		{name: "cost not number", field: ColCostPerItem, value: "ten", wantErr: domain.ErrInvalidAmount},
		{name: "status unknown", field: ColStatus, value: "Lost", wantErr: domain.ErrInvalidStatus},
		{name: "bad order date", field: ColOrderDate, value: "15/06/2025", wantErr: domain.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := map[string]string{
				ColProductName: "Box",
				ColStoreName:   "Shop",
				ColCostPerItem: "10",
			}
			fields[tt.field] = tt.value

			_, err := NewRow(2, fields).Draft(today)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestWriteThenReadCSV(t *testing.T) {
	original := soldEntry()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []*domain.Entry{original}))

	rows, err := ReadCSV(&buf, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	draft, err := rows[0].Draft(time.Now())
	require.NoError(t, err)

	assert.Equal(t, original.ProductName, draft.ProductName)
	assert.Equal(t, original.Quantity, draft.Quantity)
	assert.True(t, original.AmountPaid.Equal(draft.AmountPaid))
	assert.Equal(t, original.OrderDate, draft.OrderDate)
	assert.Equal(t, *original.ReleaseDate, *draft.ReleaseDate)
	assert.Equal(t, *original.Notes, *draft.Notes)
}
