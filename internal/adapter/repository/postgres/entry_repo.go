package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/orderledger/internal/domain"
	"github.com/iho/orderledger/internal/infrastructure/postgres/generated"
	"github.com/iho/orderledger/internal/usecase"
)

const entryColumns = "id, owner_id, product_name, product_url, store_name, quantity, cost_per_item, amount_paid, sold_price, status, release_date, order_date, notes, created_at, updated_at"

// Derived figures are never stored; filters and sorts use the same formulas.
const (
	totalCostExpr   = "(cost_per_item * quantity)"
	amountOwingExpr = "(cost_per_item * quantity - amount_paid)"
)

var sortColumns = map[domain.SortField]string{
	domain.SortByCreatedAt:   "created_at",
	domain.SortByOrderDate:   "order_date",
	domain.SortByReleaseDate: "release_date",
	domain.SortByProductName: "product_name",
	domain.SortByStoreName:   "store_name",
	domain.SortByQuantity:    "quantity",
	domain.SortByCostPerItem: "cost_per_item",
	domain.SortByTotalCost:   totalCostExpr,
	domain.SortByAmountPaid:  "amount_paid",
	domain.SortByAmountOwing: amountOwingExpr,
	domain.SortByStatus:      "status",
}

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	db      generated.DBTX
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return newEntryRepositoryWithDB(pool)
}

func newEntryRepositoryWithDB(db generated.DBTX) *EntryRepository {
	return &EntryRepository{
		db:      db,
		queries: generated.New(db),
	}
}

// Create inserts a new entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	queries := r.queries.WithTx(tx.(*Tx).PgxTx())

	return queries.CreateLedgerEntry(ctx, generated.CreateLedgerEntryParams{
		ID:          entry.ID,
		OwnerID:     entry.OwnerID,
		ProductName: entry.ProductName,
		ProductUrl:  ptrToText(entry.ProductURL),
		StoreName:   entry.StoreName,
		Quantity:    int32(entry.Quantity),
		CostPerItem: decimalToNumeric(entry.CostPerItem),
		AmountPaid:  decimalToNumeric(entry.AmountPaid),
		SoldPrice:   nullDecimalToNumeric(entry.SoldPrice),
		Status:      string(entry.Status),
		ReleaseDate: ptrToPgDate(entry.ReleaseDate),
		OrderDate:   timeToPgDate(entry.OrderDate),
		Notes:       ptrToText(entry.Notes),
		CreatedAt:   timeToPgTimestamptz(entry.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(entry.UpdatedAt),
	})
}

// GetByID retrieves an entry owned by ownerID.
func (r *EntryRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Entry, error) {
	row, err := r.queries.GetLedgerEntry(ctx, generated.GetLedgerEntryParams{OwnerID: ownerID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return rowToEntry(row), nil
}

// Update overwrites every mutable column of an entry owned by entry.OwnerID.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	queries := r.queries.WithTx(tx.(*Tx).PgxTx())

	n, err := queries.UpdateLedgerEntry(ctx, generated.UpdateLedgerEntryParams{
		OwnerID:     entry.OwnerID,
		ID:          entry.ID,
		ProductName: entry.ProductName,
		ProductUrl:  ptrToText(entry.ProductURL),
		StoreName:   entry.StoreName,
		Quantity:    int32(entry.Quantity),
		CostPerItem: decimalToNumeric(entry.CostPerItem),
		AmountPaid:  decimalToNumeric(entry.AmountPaid),
		SoldPrice:   nullDecimalToNumeric(entry.SoldPrice),
		Status:      string(entry.Status),
		ReleaseDate: ptrToPgDate(entry.ReleaseDate),
		OrderDate:   timeToPgDate(entry.OrderDate),
		Notes:       ptrToText(entry.Notes),
		UpdatedAt:   timeToPgTimestamptz(entry.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// Delete removes an entry owned by ownerID.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, ownerID, id string) error {
	queries := r.queries.WithTx(tx.(*Tx).PgxTx())

	n, err := queries.DeleteLedgerEntry(ctx, generated.DeleteLedgerEntryParams{OwnerID: ownerID, ID: id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// DeleteAllByOwner removes every entry of ownerID and returns how many were removed.
func (r *EntryRepository) DeleteAllByOwner(ctx context.Context, tx usecase.Transaction, ownerID string) (int, error) {
	queries := r.queries.WithTx(tx.(*Tx).PgxTx())

	n, err := queries.DeleteLedgerEntriesByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	return int(n), nil
}

// List returns one page of matching entries plus the number of matches.
func (r *EntryRepository) List(ctx context.Context, ownerID string, filter domain.EntryFilter, sort domain.EntrySort, page domain.PageRequest) ([]*domain.Entry, int, error) {
	where, args := buildWhere(ownerID, filter)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM ledger_entries WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*domain.Entry{}, 0, nil
	}

	query := fmt.Sprintf("SELECT %s FROM ledger_entries WHERE %s %s LIMIT $%d OFFSET $%d",
		entryColumns, where, orderBy(sort), len(args)+1, len(args)+2)
	args = append(args, page.PageSize, page.Offset())

	entries, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// ListAll returns every matching entry.
func (r *EntryRepository) ListAll(ctx context.Context, ownerID string, filter domain.EntryFilter, sort domain.EntrySort) ([]*domain.Entry, error) {
	where, args := buildWhere(ownerID, filter)
	query := fmt.Sprintf("SELECT %s FROM ledger_entries WHERE %s %s", entryColumns, where, orderBy(sort))

	return r.query(ctx, query, args...)
}

// FindDuplicate returns the oldest entry sharing product, store and order date.
func (r *EntryRepository) FindDuplicate(ctx context.Context, ownerID, productName, storeName string, orderDate time.Time) (*domain.Entry, error) {
	row, err := r.queries.FindDuplicateLedgerEntry(ctx, generated.FindDuplicateLedgerEntryParams{
		OwnerID:     ownerID,
		ProductName: productName,
		StoreName:   storeName,
		OrderDate:   timeToPgDate(domain.TruncateToDate(orderDate)),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return rowToEntry(row), nil
}

// ListStoreNames returns the owner's distinct store names in ascending order.
func (r *EntryRepository) ListStoreNames(ctx context.Context, ownerID string) ([]string, error) {
	return r.queries.ListStoreNames(ctx, ownerID)
}

func (r *EntryRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Entry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*domain.Entry{}
	for rows.Next() {
		var i generated.LedgerEntry
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.ProductName,
			&i.ProductUrl,
			&i.StoreName,
			&i.Quantity,
			&i.CostPerItem,
			&i.AmountPaid,
			&i.SoldPrice,
			&i.Status,
			&i.ReleaseDate,
			&i.OrderDate,
			&i.Notes,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, rowToEntry(i))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// whereBuilder numbers placeholders as conditions are added.
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends a condition whose %[1]d verbs refer to arg's placeholder.
func (b *whereBuilder) add(cond string, arg any) {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, fmt.Sprintf(cond, len(b.args)))
}

func buildWhere(ownerID string, f domain.EntryFilter) (string, []any) {
	b := &whereBuilder{}
	b.add("owner_id = $%[1]d", ownerID)

	if f.Status != "" {
		b.add("status = $%[1]d", string(f.Status))
	}

	if f.Store != "" {
		if f.StoreMatch == domain.StoreMatchExact {
			b.add("store_name = $%[1]d", f.Store)
		} else {
			b.add("store_name ILIKE $%[1]d", containsPattern(f.Store))
		}
	}

	if f.Search != "" {
		b.add("(product_name ILIKE $%[1]d OR store_name ILIKE $%[1]d OR notes ILIKE $%[1]d)", containsPattern(f.Search))
	}

	if f.OrderDateFrom != nil {
		b.add("order_date >= $%[1]d", timeToPgDate(domain.TruncateToDate(*f.OrderDateFrom)))
	}
	if f.OrderDateTo != nil {
		b.add("order_date <= $%[1]d", timeToPgDate(domain.TruncateToDate(*f.OrderDateTo)))
	}
	if f.ReleaseDateFrom != nil {
		b.add("release_date >= $%[1]d", timeToPgDate(domain.TruncateToDate(*f.ReleaseDateFrom)))
	}
	if f.ReleaseDateTo != nil {
		b.add("release_date <= $%[1]d", timeToPgDate(domain.TruncateToDate(*f.ReleaseDateTo)))
	}

	if f.AmountOwingOnly {
		b.conds = append(b.conds, amountOwingExpr+" > 0")
	}

	return strings.Join(b.conds, " AND "), b.args
}

// orderBy relies on PostgreSQL's default NULLS LAST ascending and NULLS
// FIRST descending for release_date.
func orderBy(sort domain.EntrySort) string {
	column, ok := sortColumns[sort.Field]
	if !ok {
		column = sortColumns[domain.SortByCreatedAt]
	}

	dir := "DESC"
	if sort.Direction == domain.SortAsc {
		dir = "ASC"
	}

	return fmt.Sprintf("ORDER BY %s %s, id %s", column, dir, dir)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func rowToEntry(row generated.LedgerEntry) *domain.Entry {
	return &domain.Entry{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		ProductName: row.ProductName,
		ProductURL:  textToPtr(row.ProductUrl),
		StoreName:   row.StoreName,
		Quantity:    int(row.Quantity),
		CostPerItem: numericToDecimal(row.CostPerItem),
		AmountPaid:  numericToDecimal(row.AmountPaid),
		SoldPrice:   numericToNullDecimal(row.SoldPrice),
		Status:      domain.Status(row.Status),
		ReleaseDate: pgDateToPtr(row.ReleaseDate),
		OrderDate:   row.OrderDate.Time,
		Notes:       textToPtr(row.Notes),
		CreatedAt:   row.CreatedAt.Time.UTC(),
		UpdatedAt:   row.UpdatedAt.Time.UTC(),
	}
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func nullDecimalToNumeric(d decimal.NullDecimal) pgtype.Numeric {
	if !d.Valid {
		return pgtype.Numeric{}
	}

	return decimalToNumeric(d.Decimal)
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func numericToNullDecimal(n pgtype.Numeric) decimal.NullDecimal {
	if !n.Valid {
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(numericToDecimal(n))
}

func ptrToText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}

	return pgtype.Text{String: *s, Valid: true}
}

func textToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}

	s := t.String
	return &s
}

func timeToPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}

func ptrToPgDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}

	return timeToPgDate(*t)
}

func pgDateToPtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}

	t := d.Time
	return &t
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
