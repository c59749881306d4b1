package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/orderledger/internal/domain"
	"github.com/iho/orderledger/internal/usecase"
)

func queryFixture(t *testing.T) (fixture, *usecase.EntryUseCase) {
	t.Helper()

	f := newFixture(t)
	entries := usecase.NewEntryUseCase(f.deps)

	inputs := []usecase.CreateEntryInput{
		{ProductName: "Booster Box", StoreName: "CardShop", CostPerItem: dec("100"), Status: domain.StatusSold, SoldPrice: decimal.NewNullDecimal(dec("150")), AmountPaid: ptr(dec("100"))},
		{ProductName: "Starter Deck", StoreName: "CardShop East", CostPerItem: dec("15"), Notes: ptr("gift")},
		{ProductName: "Figure", StoreName: "ToyBarn", CostPerItem: dec("60"), Quantity: ptr(2), AmountPaid: ptr(dec("20"))},
		{ProductName: "Plush", StoreName: "ToyBarn", CostPerItem: dec("25"), AmountPaid: ptr(dec("25")), Status: domain.StatusDelivered},
	}
	seedEntries(t, entries, "u1", inputs...)
	seedEntries(t, entries, "u2", boosterBox())

	return f, entries
}

func TestQueryUseCase_ListEntries(t *testing.T) {
	f, _ := queryFixture(t)
	uc := usecase.NewQueryUseCase(f.deps)
	ctx := context.Background()

	page, err := uc.ListEntries(ctx, "u1", usecase.ListEntriesInput{
		Sort: domain.EntrySort{Field: domain.SortByTotalCost, Direction: domain.SortDesc},
		Page: domain.PageRequest{Page: 1, PageSize: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PageSize)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "Figure", page.Entries[0].ProductName)
	assert.Equal(t, "Booster Box", page.Entries[1].ProductName)
}

func TestQueryUseCase_ListEntriesFilters(t *testing.T) {
	f, _ := queryFixture(t)
	uc := usecase.NewQueryUseCase(f.deps)
	ctx := context.Background()

	tests := []struct {
		name      string
		filter    domain.EntryFilter
		wantTotal int
	}{
		{name: "store substring", filter: domain.EntryFilter{Store: "cardshop"}, wantTotal: 2},
		{name: "status", filter: domain.EntryFilter{Status: domain.StatusPending}, wantTotal: 2},
		{name: "search notes", filter: domain.EntryFilter{Search: "GIFT"}, wantTotal: 1},
		{name: "amount owing only", filter: domain.EntryFilter{AmountOwingOnly: true}, wantTotal: 2},
		{name: "combined", filter: domain.EntryFilter{Store: "toy", AmountOwingOnly: true}, wantTotal: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := uc.ListEntries(ctx, "u1", usecase.ListEntriesInput{Filter: tt.filter})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Len(t, page.Entries, tt.wantTotal)
		})
	}
}

func TestQueryUseCase_ClampsPageSize(t *testing.T) {
	f, _ := queryFixture(t)
	f.deps.Limits.MaxPageSize = 3
	uc := usecase.NewQueryUseCase(f.deps)

	page, err := uc.ListEntries(context.Background(), "u1", usecase.ListEntriesInput{
		Sort: domain.EntrySort{Field: "nonsense"},
		Page: domain.PageRequest{Page: 0, PageSize: 1000},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.PageSize)
	assert.Len(t, page.Entries, 3)
	assert.Equal(t, 4, page.Total)
	// created_at desc fallback
	assert.Equal(t, "Plush", page.Entries[0].ProductName)
}

func TestAnalyticsUseCase(t *testing.T) {
	f, _ := queryFixture(t)
	uc := usecase.NewAnalyticsUseCase(f.deps)
	ctx := context.Background()

	stats, err := uc.Statistics(ctx, "u1", domain.EntryFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalEntries)
	assert.True(t, stats.TotalCost.Equal(dec("260")))
	assert.True(t, stats.AmountOwing.Equal(dec("115")))
	assert.True(t, stats.TotalProfit.Equal(dec("50")))
	assert.True(t, stats.AverageProfitMargin.Decimal.Equal(dec("33.33")))

	// analytics match stores exactly
	exact, err := uc.Statistics(ctx, "u1", domain.EntryFilter{Store: "CardShop"})
	require.NoError(t, err)
	assert.Equal(t, 1, exact.TotalEntries)

	byStore, err := uc.SpendingByStore(ctx, "u1", domain.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, byStore, 3)
	assert.Equal(t, "ToyBarn", byStore[0].StoreName)

	overview, err := uc.StatusOverview(ctx, "u1", domain.EntryFilter{})
	require.NoError(t, err)
	assert.Len(t, overview, 3)

	profit, err := uc.ProfitByStore(ctx, "u1", domain.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, profit, 1)
	assert.Equal(t, "CardShop", profit[0].StoreName)

	monthly, err := uc.MonthlySpending(ctx, "u1", domain.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, monthly, 1)
	assert.Equal(t, "2025-06", monthly[0].Month)
	assert.Equal(t, 4, monthly[0].EntryCount)
}
