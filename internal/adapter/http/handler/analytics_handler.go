package handler

import (
	"context"
	"net/http"

	"github.com/iho/orderledger/internal/adapter/http/dto"
	"github.com/iho/orderledger/internal/domain"
)

// AnalyticsService defines the behavior needed by AnalyticsHandler.
type AnalyticsService interface {
	Statistics(ctx context.Context, ownerID string, filter domain.EntryFilter) (domain.Statistics, error)
	SpendingByStore(ctx context.Context, ownerID string, filter domain.EntryFilter) ([]domain.StoreSpending, error)
	StatusOverview(ctx context.Context, ownerID string, filter domain.EntryFilter) ([]domain.StatusOverview, error)
	ProfitByStore(ctx context.Context, ownerID string, filter domain.EntryFilter) ([]domain.StoreProfit, error)
	MonthlySpending(ctx context.Context, ownerID string, filter domain.EntryFilter) ([]domain.MonthlySpending, error)
}

// AnalyticsHandler serves the rollup endpoints. The store filter matches exactly.
type AnalyticsHandler struct {
	analyticsUC AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsUC AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsUC: analyticsUC}
}

// serve resolves owner and filter, then writes whatever run returns.
func (h *AnalyticsHandler) serve(w http.ResponseWriter, r *http.Request, run func(ctx context.Context, owner string, filter domain.EntryFilter) (any, error)) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	filter, err := parseFilter(r, domain.StoreMatchExact)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	result, err := run(r.Context(), owner, filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AnalyticsHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context, owner string, filter domain.EntryFilter) (any, error) {
		stats, err := h.analyticsUC.Statistics(ctx, owner, filter)
		if err != nil {
			return nil, err
		}
		return dto.StatisticsFromDomain(stats), nil
	})
}

func (h *AnalyticsHandler) SpendingByStore(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context, owner string, filter domain.EntryFilter) (any, error) {
		rows, err := h.analyticsUC.SpendingByStore(ctx, owner, filter)
		if err != nil {
			return nil, err
		}
		return dto.StoreSpendingFromDomain(rows), nil
	})
}

func (h *AnalyticsHandler) StatusOverview(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context, owner string, filter domain.EntryFilter) (any, error) {
		rows, err := h.analyticsUC.StatusOverview(ctx, owner, filter)
		if err != nil {
			return nil, err
		}
		return dto.StatusOverviewFromDomain(rows), nil
	})
}

func (h *AnalyticsHandler) ProfitByStore(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context, owner string, filter domain.EntryFilter) (any, error) {
		rows, err := h.analyticsUC.ProfitByStore(ctx, owner, filter)
		if err != nil {
			return nil, err
		}
		return dto.StoreProfitFromDomain(rows), nil
	})
}

func (h *AnalyticsHandler) MonthlySpending(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context, owner string, filter domain.EntryFilter) (any, error) {
		rows, err := h.analyticsUC.MonthlySpending(ctx, owner, filter)
		if err != nil {
			return nil, err
		}
		return dto.MonthlySpendingFromDomain(rows), nil
	})
}
