package usecase

import (
	"context"

	"github.com/iho/orderledger/internal/domain"
)

// QueryUseCase lists an owner's entries.
type QueryUseCase struct {
	deps Dependencies
}

// NewQueryUseCase creates a new QueryUseCase.
func NewQueryUseCase(deps Dependencies) *QueryUseCase {
	return &QueryUseCase{
		deps: deps.withDefaults(),
	}
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	Filter domain.EntryFilter
	Sort   domain.EntrySort
	Page   domain.PageRequest
}

// ListEntries returns one page of the filtered, sorted entries together with
// the filtered total.
func (uc *QueryUseCase) ListEntries(ctx context.Context, ownerID string, input ListEntriesInput) (*domain.EntryPage, error) {
	page := input.Page.Normalize(uc.deps.Limits.DefaultPageSize, uc.deps.Limits.MaxPageSize)

	sort := input.Sort
	sort.Field = domain.ParseSortField(string(sort.Field))
	if sort.Direction != domain.SortAsc {
		sort.Direction = domain.SortDesc
	}

	entries, total, err := uc.deps.EntryRepo.List(ctx, ownerID, input.Filter, sort, page)
	if err != nil {
		return nil, err
	}

	return &domain.EntryPage{
		Entries:  entries,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

// AnalyticsUseCase computes read-only rollups over an owner's entries. Store
// filters always match exactly.
type AnalyticsUseCase struct {
	deps Dependencies
}

// NewAnalyticsUseCase creates a new AnalyticsUseCase.
func NewAnalyticsUseCase(deps Dependencies) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		deps: deps.withDefaults(),
	}
}

func (uc *AnalyticsUseCase) load(ctx context.Context, ownerID string, filter domain.EntryFilter) ([]*domain.Entry, error) {
	filter.StoreMatch = domain.StoreMatchExact
	return uc.deps.EntryRepo.ListAll(ctx, ownerID, filter, domain.DefaultSort)
}

// Statistics returns the overall rollup.
func (uc *AnalyticsUseCase) Statistics(ctx context.Context, ownerID string, filter domain.EntryFilter) (domain.Statistics, error) {
	entries, err := uc.load(ctx, ownerID, filter)
	if err != nil {
		return domain.Statistics{}, err
	}
	return domain.ComputeStatistics(entries), nil
}

// SpendingByStore returns total cost per store.
func (uc *AnalyticsUseCase) SpendingByStore(ctx context.Context, ownerID string, filter domain.EntryFilter) ([]domain.StoreSpending, error) {
	entries, err := uc.load(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	return domain.ComputeSpendingByStore(entries), nil
}

// StatusOverview returns count and value per status.
func (uc *AnalyticsUseCase) StatusOverview(ctx context.Context, ownerID string, filter domain.EntryFilter) ([]domain.StatusOverview, error) {
	entries, err := uc.load(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	return domain.ComputeStatusOverview(entries), nil
}

// ProfitByStore returns realised profit per store.
func (uc *AnalyticsUseCase) ProfitByStore(ctx context.Context, ownerID string, filter domain.EntryFilter) ([]domain.StoreProfit, error) {
	entries, err := uc.load(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	return domain.ComputeProfitByStore(entries), nil
}

// MonthlySpending returns total cost per order month.
func (uc *AnalyticsUseCase) MonthlySpending(ctx context.Context, ownerID string, filter domain.EntryFilter) ([]domain.MonthlySpending, error) {
	entries, err := uc.load(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	return domain.ComputeMonthlySpending(entries), nil
}
