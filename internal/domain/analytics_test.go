package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func analyticsFixture() []*Entry {
	return []*Entry{
		{ID: "1", StoreName: "CardShop", Quantity: 2, CostPerItem: dec("50"), AmountPaid: dec("100"),
			SoldPrice: decimal.NewNullDecimal(dec("130")), Status: StatusSold, OrderDate: day(2025, 1, 5)},
		{ID: "2", StoreName: "CardShop", Quantity: 1, CostPerItem: dec("20"), AmountPaid: dec("5"),
			Status: StatusPending, OrderDate: day(2025, 1, 20)},
		{ID: "3", StoreName: "ToyBarn", Quantity: 1, CostPerItem: dec("200"), AmountPaid: dec("200"),
			SoldPrice: decimal.NewNullDecimal(dec("150")), Status: StatusSold, OrderDate: day(2025, 2, 1)},
		{ID: "4", StoreName: "ToyBarn", Quantity: 4, CostPerItem: dec("10"), AmountPaid: decimal.Zero,
			SoldPrice: decimal.NewNullDecimal(dec("60")), Status: StatusDelivered, OrderDate: day(2024, 12, 31)},
	}
}

func TestComputeStatistics(t *testing.T) {
	t.Parallel()

	s := ComputeStatistics(analyticsFixture())

	if s.TotalEntries != 4 || s.PendingCount != 1 || s.DeliveredCount != 1 || s.SoldCount != 2 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if !s.TotalCost.Equal(dec("360")) {
		t.Errorf("expected total cost 360, got %s", s.TotalCost)
	}
	if !s.AmountOwing.Equal(dec("55")) {
		t.Errorf("expected owing 55, got %s", s.AmountOwing)
	}
	// Delivered entry with a sold price is not realised profit.
	if !s.TotalProfit.Equal(dec("-20")) {
		t.Errorf("expected total profit -20, got %s", s.TotalProfit)
	}
	// (23.08 + -33.33) / 2
	if !s.AverageProfitMargin.Valid || !s.AverageProfitMargin.Decimal.Equal(dec("-5.13")) {
		t.Errorf("expected average margin -5.13, got %+v", s.AverageProfitMargin)
	}
}

func TestComputeStatisticsEmpty(t *testing.T) {
	t.Parallel()

	s := ComputeStatistics(nil)
	if s.TotalEntries != 0 || !s.TotalCost.IsZero() || s.AverageProfitMargin.Valid {
		t.Fatalf("unexpected statistics for empty set: %+v", s)
	}
}

func TestComputeGroupings(t *testing.T) {
	t.Parallel()

	entries := analyticsFixture()

	spending := ComputeSpendingByStore(entries)
	if len(spending) != 2 || spending[0].StoreName != "ToyBarn" || !spending[0].TotalSpent.Equal(dec("240")) || spending[0].EntryCount != 2 {
		t.Fatalf("unexpected spending by store: %+v", spending)
	}

	overview := ComputeStatusOverview(entries)
	if len(overview) != 3 || overview[0].Status != StatusPending || overview[2].Status != StatusSold || overview[2].Count != 2 {
		t.Fatalf("unexpected status overview: %+v", overview)
	}

	profit := ComputeProfitByStore(entries)
	if len(profit) != 2 || profit[0].StoreName != "CardShop" || !profit[0].TotalProfit.Equal(dec("30")) || profit[1].SoldCount != 1 {
		t.Fatalf("unexpected profit by store: %+v", profit)
	}

	monthly := ComputeMonthlySpending(entries)
	want := []string{"2024-12", "2025-01", "2025-02"}
	if len(monthly) != len(want) {
		t.Fatalf("expected %d months, got %+v", len(want), monthly)
	}
	for i, m := range want {
		if monthly[i].Month != m {
			t.Fatalf("month %d: expected %s, got %s", i, m, monthly[i].Month)
		}
	}
	if !monthly[1].TotalSpent.Equal(dec("120")) || monthly[1].EntryCount != 2 {
		t.Fatalf("unexpected January rollup: %+v", monthly[1])
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]DuplicatePolicy{"": DuplicateSkip, "Update": DuplicateUpdate, "add": DuplicateAdd} {
		got, err := ParseDuplicatePolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseDuplicatePolicy(%q): expected %s, got %s (%v)", in, want, got, err)
		}
	}

	if _, err := ParseDuplicatePolicy("merge"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReportsCapErrors(t *testing.T) {
	t.Parallel()

	var imp ImportReport
	var res RestoreReport
	for i := 0; i < MaxReportErrors+5; i++ {
		imp.AddError(i+2, fmt.Errorf("bad row"))
		res.AddError("", fmt.Errorf("bad item"))
	}

	if imp.Failed != MaxReportErrors+5 || len(imp.Errors) != MaxReportErrors {
		t.Fatalf("unexpected import report: failed=%d errors=%d", imp.Failed, len(imp.Errors))
	}
	if imp.Errors[0] != "Row 2: bad row" {
		t.Fatalf("unexpected first import error %q", imp.Errors[0])
	}
	if res.Errors[0] != "Failed to restore item 'unknown': bad item" {
		t.Fatalf("unexpected first restore error %q", res.Errors[0])
	}

	var bulk BulkResult
	bulk.Record("a", nil)
	bulk.Record("b", ErrEntryNotFound)
	if bulk.Succeeded != 1 || len(bulk.FailedIDs) != 1 || bulk.FailedIDs[0] != "b" {
		t.Fatalf("unexpected bulk result: %+v", bulk)
	}
}
