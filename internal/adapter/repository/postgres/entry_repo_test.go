package postgres

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/orderledger/internal/domain"
	"github.com/iho/orderledger/internal/usecase"
)

var ledgerColumns = []string{
	"id", "owner_id", "product_name", "product_url", "store_name", "quantity",
	"cost_per_item", "amount_paid", "sold_price", "status", "release_date",
	"order_date", "notes", "created_at", "updated_at",
}

var created = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func ledgerRow(id string) []any {
	return []any{
		id, "u1", "Booster Box", pgtype.Text{}, "CardShop", int32(2),
		decimalToNumeric(decimal.RequireFromString("50.00")),
		decimalToNumeric(decimal.RequireFromString("10.50")),
		pgtype.Numeric{},
		"Pending",
		pgtype.Date{},
		timeToPgDate(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		pgtype.Text{String: "gift", Valid: true},
		timeToPgTimestamptz(created),
		timeToPgTimestamptz(created),
	}
}

func beginTx(t *testing.T, mock pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	mock.ExpectBeginTx(readCommitted)

	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	return tx
}

func TestEntryRepositoryGetByID(t *testing.T) {
	mock := newMockPool(t)
	repo := newEntryRepositoryWithDB(mock)

	mock.ExpectQuery(`FROM ledger_entries\s+WHERE owner_id = \$1 AND id = \$2`).
		WithArgs("u1", "e1").
		WillReturnRows(pgxmock.NewRows(ledgerColumns).AddRow(ledgerRow("e1")...))

	entry, err := repo.GetByID(context.Background(), "u1", "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Quantity != 2 || entry.Status != domain.StatusPending {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if !entry.Derived().AmountOwing.Equal(decimal.RequireFromString("89.50")) {
		t.Fatalf("expected owing 89.50, got %s", entry.Derived().AmountOwing)
	}
	if entry.ProductURL != nil || entry.ReleaseDate != nil || entry.SoldPrice.Valid {
		t.Fatalf("expected null optional fields, got %+v", entry)
	}
	if entry.Notes == nil || *entry.Notes != "gift" {
		t.Fatalf("expected notes, got %v", entry.Notes)
	}

	assertExpectations(t, mock)
}

func TestEntryRepositoryGetByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := newEntryRepositoryWithDB(mock)

	mock.ExpectQuery(`FROM ledger_entries`).
		WithArgs("u2", "e1").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "u2", "e1")
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryRepositoryCreate(t *testing.T) {
	mock := newMockPool(t)
	repo := newEntryRepositoryWithDB(mock)
	tx := beginTx(t, mock)

	args := make([]any, len(ledgerColumns))
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	mock.ExpectExec(`INSERT INTO ledger_entries`).
		WithArgs(args...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	entry := &domain.Entry{
		ID:          "e1",
		OwnerID:     "u1",
		ProductName: "Booster Box",
		StoreName:   "CardShop",
		Quantity:    2,
		CostPerItem: decimal.RequireFromString("50"),
		AmountPaid:  decimal.Zero,
		Status:      domain.StatusPending,
		OrderDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:   created,
		UpdatedAt:   created,
	}

	ctx := context.Background()
	if err := repo.Create(ctx, tx, entry); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	assertExpectations(t, mock)
}

func TestEntryRepositoryMutationsReportMissingRows(t *testing.T) {
	ctx := context.Background()

	t.Run("update", func(t *testing.T) {
		mock := newMockPool(t)
		repo := newEntryRepositoryWithDB(mock)
		tx := beginTx(t, mock)

		mock.ExpectExec(`UPDATE ledger_entries`).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Update(ctx, tx, &domain.Entry{ID: "e1", OwnerID: "u2", Status: domain.StatusSold})
		if !errors.Is(err, domain.ErrEntryNotFound) {
			t.Fatalf("expected ErrEntryNotFound, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		mock := newMockPool(t)
		repo := newEntryRepositoryWithDB(mock)
		tx := beginTx(t, mock)

		mock.ExpectExec(`DELETE FROM ledger_entries WHERE owner_id = \$1 AND id = \$2`).
			WithArgs("u2", "e1").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		if err := repo.Delete(ctx, tx, "u2", "e1"); !errors.Is(err, domain.ErrEntryNotFound) {
			t.Fatalf("expected ErrEntryNotFound, got %v", err)
		}
	})

	t.Run("delete all", func(t *testing.T) {
		mock := newMockPool(t)
		repo := newEntryRepositoryWithDB(mock)
		tx := beginTx(t, mock)

		mock.ExpectExec(`DELETE FROM ledger_entries WHERE owner_id = \$1`).
			WithArgs("u1").
			WillReturnResult(pgxmock.NewResult("DELETE", 7))

		n, err := repo.DeleteAllByOwner(ctx, tx, "u1")
		if err != nil || n != 7 {
			t.Fatalf("expected 7 deleted, got %d (%v)", n, err)
		}
	})
}

func TestEntryRepositoryList(t *testing.T) {
	mock := newMockPool(t)
	repo := newEntryRepositoryWithDB(mock)

	filter := domain.EntryFilter{Status: domain.StatusPending, Store: "50%", AmountOwingOnly: true}
	sort := domain.EntrySort{Field: domain.SortByTotalCost, Direction: domain.SortAsc}
	where := "WHERE owner_id = $1 AND status = $2 AND store_name ILIKE $3 AND (cost_per_item * quantity - amount_paid) > 0"

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM ledger_entries " + where)).
		WithArgs("u1", "Pending", `%50\%%`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(where + " ORDER BY (cost_per_item * quantity) ASC, id ASC LIMIT $4 OFFSET $5")).
		WithArgs("u1", "Pending", `%50\%%`, 2, 2).
		WillReturnRows(pgxmock.NewRows(ledgerColumns).AddRow(ledgerRow("e3")...))

	entries, total, err := repo.List(context.Background(), "u1", filter, sort, domain.PageRequest{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || len(entries) != 1 || entries[0].ID != "e3" {
		t.Fatalf("unexpected page: total=%d entries=%v", total, entries)
	}

	assertExpectations(t, mock)
}

func TestEntryRepositoryListEmptySkipsSelect(t *testing.T) {
	mock := newMockPool(t)
	repo := newEntryRepositoryWithDB(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM ledger_entries`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	entries, total, err := repo.List(context.Background(), "u1", domain.EntryFilter{}, domain.DefaultSort, domain.PageRequest{Page: 1, PageSize: 50})
	if err != nil || total != 0 || len(entries) != 0 {
		t.Fatalf("expected empty page, got %v %d %v", entries, total, err)
	}

	assertExpectations(t, mock)
}

func TestEntryRepositoryListStoreNames(t *testing.T) {
	mock := newMockPool(t)
	repo := newEntryRepositoryWithDB(mock)

	mock.ExpectQuery(`SELECT DISTINCT store_name FROM ledger_entries`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"store_name"}).AddRow("Able").AddRow("Zed"))

	names, err := repo.ListStoreNames(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Able", "Zed"}) {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestBuildWhere(t *testing.T) {
	from := time.Date(2025, 1, 1, 15, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    domain.EntryFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "owner only",
			wantWhere: "owner_id = $1",
			wantArgs:  []any{"u1"},
		},
		{
			name:      "exact store",
			filter:    domain.EntryFilter{Store: "Card_Shop", StoreMatch: domain.StoreMatchExact},
			wantWhere: "owner_id = $1 AND store_name = $2",
			wantArgs:  []any{"u1", "Card_Shop"},
		},
		{
			name:      "search reuses one placeholder",
			filter:    domain.EntryFilter{Search: "box"},
			wantWhere: "owner_id = $1 AND (product_name ILIKE $2 OR store_name ILIKE $2 OR notes ILIKE $2)",
			wantArgs:  []any{"u1", "%box%"},
		},
		{
			name:   "date ranges",
			filter: domain.EntryFilter{OrderDateFrom: &from, ReleaseDateTo: &to},
			wantWhere: "owner_id = $1 AND order_date >= $2 AND release_date <= $3",
			wantArgs: []any{
				"u1",
				timeToPgDate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
				timeToPgDate(to),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildWhere("u1", tt.filter)
			if where != tt.wantWhere {
				t.Fatalf("where = %q, want %q", where, tt.wantWhere)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		sort domain.EntrySort
		want string
	}{
		{sort: domain.DefaultSort, want: "ORDER BY created_at DESC, id DESC"},
		{sort: domain.EntrySort{Field: domain.SortByReleaseDate, Direction: domain.SortAsc}, want: "ORDER BY release_date ASC, id ASC"},
		{sort: domain.EntrySort{Field: domain.SortByAmountOwing}, want: "ORDER BY (cost_per_item * quantity - amount_paid) DESC, id DESC"},
		{sort: domain.EntrySort{Field: "amount_paid; DROP TABLE ledger_entries"}, want: "ORDER BY created_at DESC, id DESC"},
	}

	for _, tt := range tests {
		if got := orderBy(tt.sort); got != tt.want {
			t.Fatalf("orderBy(%v) = %q, want %q", tt.sort, got, tt.want)
		}
	}
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "10.5", "1234.56", "0.01"} {
		d := decimal.RequireFromString(s)
		if got := numericToDecimal(decimalToNumeric(d)); !got.Equal(d) {
			t.Fatalf("round trip of %s gave %s", s, got)
		}
	}

	if numericToNullDecimal(nullDecimalToNumeric(decimal.NullDecimal{})).Valid {
		t.Fatalf("expected null to stay null")
	}
}
