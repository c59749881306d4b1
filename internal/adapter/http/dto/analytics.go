package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/orderledger/internal/domain"
)

type StatisticsResponse struct {
	TotalEntries        int                 `json:"total_entries"`
	PendingCount        int                 `json:"pending_count"`
	DeliveredCount      int                 `json:"delivered_count"`
	SoldCount           int                 `json:"sold_count"`
	TotalCost           decimal.Decimal     `json:"total_cost"`
	AmountOwing         decimal.Decimal     `json:"amount_owing"`
	TotalProfit         decimal.Decimal     `json:"total_profit"`
	AverageProfitMargin decimal.NullDecimal `json:"average_profit_margin"`
}

func StatisticsFromDomain(s domain.Statistics) *StatisticsResponse {
	return &StatisticsResponse{
		TotalEntries:        s.TotalEntries,
		PendingCount:        s.PendingCount,
		DeliveredCount:      s.DeliveredCount,
		SoldCount:           s.SoldCount,
		TotalCost:           s.TotalCost,
		AmountOwing:         s.AmountOwing,
		TotalProfit:         s.TotalProfit,
		AverageProfitMargin: s.AverageProfitMargin,
	}
}

type StoreSpendingResponse struct {
	StoreName  string          `json:"store_name"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	EntryCount int             `json:"entry_count"`
}

func StoreSpendingFromDomain(rows []domain.StoreSpending) []StoreSpendingResponse {
	result := make([]StoreSpendingResponse, len(rows))
	for i, r := range rows {
		result[i] = StoreSpendingResponse{StoreName: r.StoreName, TotalSpent: r.TotalSpent, EntryCount: r.EntryCount}
	}
	return result
}

type StatusOverviewResponse struct {
	Status     domain.Status   `json:"status"`
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

func StatusOverviewFromDomain(rows []domain.StatusOverview) []StatusOverviewResponse {
	result := make([]StatusOverviewResponse, len(rows))
	for i, r := range rows {
		result[i] = StatusOverviewResponse{Status: r.Status, Count: r.Count, TotalValue: r.TotalValue}
	}
	return result
}

type StoreProfitResponse struct {
	StoreName           string              `json:"store_name"`
	TotalProfit         decimal.Decimal     `json:"total_profit"`
	SoldCount           int                 `json:"sold_count"`
	AverageProfitMargin decimal.NullDecimal `json:"average_profit_margin"`
}

func StoreProfitFromDomain(rows []domain.StoreProfit) []StoreProfitResponse {
	result := make([]StoreProfitResponse, len(rows))
	for i, r := range rows {
		result[i] = StoreProfitResponse{
			StoreName:           r.StoreName,
			TotalProfit:         r.TotalProfit,
			SoldCount:           r.SoldCount,
			AverageProfitMargin: r.AverageProfitMargin,
		}
	}
	return result
}

type MonthlySpendingResponse struct {
	Month      string          `json:"month"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	EntryCount int             `json:"entry_count"`
}

func MonthlySpendingFromDomain(rows []domain.MonthlySpending) []MonthlySpendingResponse {
	result := make([]MonthlySpendingResponse, len(rows))
	for i, r := range rows {
		result[i] = MonthlySpendingResponse{Month: r.Month, TotalSpent: r.TotalSpent, EntryCount: r.EntryCount}
	}
	return result
}
