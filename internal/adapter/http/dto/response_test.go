package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/orderledger/internal/domain"
)

func TestEntryFromDomain(t *testing.T) {
	release := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	entry := &domain.Entry{
		ID:          "01j0",
		OwnerID:     "u1",
		ProductName: "Booster Box",
		StoreName:   "CardShop",
		Quantity:    2,
		CostPerItem: decimal.RequireFromString("50.00"),
		AmountPaid:  decimal.RequireFromString("40.50"),
		SoldPrice:   decimal.NewNullDecimal(decimal.RequireFromString("130.00")),
		Status:      domain.StatusSold,
		ReleaseDate: &release,
		OrderDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}

	resp := EntryFromDomain(entry)

	if !resp.TotalCost.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected total 100, got %s", resp.TotalCost)
	}
	if !resp.AmountOwing.Equal(decimal.RequireFromString("59.50")) {
		t.Fatalf("expected owing 59.50, got %s", resp.AmountOwing)
	}
	if !resp.Profit.Valid || !resp.Profit.Decimal.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected profit 30, got %+v", resp.Profit)
	}
	if !resp.ProfitMargin.Valid || !resp.ProfitMargin.Decimal.Equal(decimal.RequireFromString("23.08")) {
		t.Fatalf("expected margin 23.08, got %+v", resp.ProfitMargin)
	}
	if resp.OrderDate != "2025-06-15" || resp.ReleaseDate == nil || *resp.ReleaseDate != "2025-07-01" {
		t.Fatalf("unexpected dates: %s %v", resp.OrderDate, resp.ReleaseDate)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := fields["owner_id"]; ok {
		t.Fatalf("owner_id must not be exposed")
	}
	if fields["notes"] != nil || fields["product_url"] != nil {
		t.Fatalf("expected null optional strings, got %v %v", fields["notes"], fields["product_url"])
	}
}

func TestEntryFromDomainWithoutSale(t *testing.T) {
	resp := EntryFromDomain(&domain.Entry{
		Quantity:    1,
		CostPerItem: decimal.NewFromInt(10),
		OrderDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	})

	if resp.Profit.Valid || resp.ProfitMargin.Valid || resp.ReleaseDate != nil {
		t.Fatalf("expected null profit, margin and release date, got %+v", resp)
	}
}

func TestBulkAndReportResponses(t *testing.T) {
	update := BulkUpdateFromDomain(&domain.BulkResult{Succeeded: 2})
	if update.Message != "Successfully updated 2 entry(s)" || update.FailedIDs == nil {
		t.Fatalf("unexpected update response: %+v", update)
	}

	del := BulkDeleteFromDomain(&domain.BulkResult{Succeeded: 1, FailedIDs: []string{"x"}})
	if del.Message != "Successfully deleted 1 entry(s)" || del.DeletedCount != 1 || len(del.FailedIDs) != 1 {
		t.Fatalf("unexpected delete response: %+v", del)
	}

	imp := ImportFromDomain(&domain.ImportReport{Imported: 3, Skipped: 1})
	raw, _ := json.Marshal(imp)
	if string(raw) != `{"imported_count":3,"skipped_count":1,"failed_count":0,"errors":[]}` {
		t.Fatalf("unexpected import json: %s", raw)
	}

	restore := RestoreFromDomain(&domain.RestoreReport{Restored: 4, Failed: 1, Errors: []string{"bad"}})
	if restore.Message != "Successfully restored 4 entry(s)" || restore.FailedCount != 1 {
		t.Fatalf("unexpected restore response: %+v", restore)
	}
}
