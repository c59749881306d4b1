package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Statistics is the overall rollup of a filtered entry set.
type Statistics struct {
	TotalEntries        int
	PendingCount        int
	DeliveredCount      int
	SoldCount           int
	TotalCost           decimal.Decimal
	AmountOwing         decimal.Decimal
	TotalProfit         decimal.Decimal
	AverageProfitMargin decimal.NullDecimal
}

// StoreSpending is total cost grouped by store.
type StoreSpending struct {
	StoreName  string
	TotalSpent decimal.Decimal
	EntryCount int
}

// StatusOverview is count and value grouped by status.
type StatusOverview struct {
	Status     Status
	Count      int
	TotalValue decimal.Decimal
}

// StoreProfit is realised profit grouped by store.
type StoreProfit struct {
	StoreName           string
	TotalProfit         decimal.Decimal
	SoldCount           int
	AverageProfitMargin decimal.NullDecimal
}

// MonthlySpending is total cost grouped by order month (YYYY-MM).
type MonthlySpending struct {
	Month      string
	TotalSpent decimal.Decimal
	EntryCount int
}

// isRealised reports whether the entry counts towards profit aggregates.
func isRealised(e *Entry, d Derived) bool {
	return e.Status == StatusSold && d.Profit.Valid
}

// ComputeStatistics rolls up entries. Profit figures only consider sold
// entries with a known profit.
func ComputeStatistics(entries []*Entry) Statistics {
	s := Statistics{
		TotalCost:   decimal.Zero,
		AmountOwing: decimal.Zero,
		TotalProfit: decimal.Zero,
	}

	var margins []decimal.Decimal
	for _, e := range entries {
		s.TotalEntries++
		switch e.Status {
		case StatusPending:
			s.PendingCount++
		case StatusDelivered:
			s.DeliveredCount++
		case StatusSold:
			s.SoldCount++
		}

		d := e.Derived()
		s.TotalCost = s.TotalCost.Add(d.TotalCost)
		s.AmountOwing = s.AmountOwing.Add(d.AmountOwing)

		if isRealised(e, d) {
			s.TotalProfit = s.TotalProfit.Add(d.Profit.Decimal)
			if d.ProfitMargin.Valid {
				margins = append(margins, d.ProfitMargin.Decimal)
			}
		}
	}

	s.AverageProfitMargin = average(margins)
	return s
}

// ComputeSpendingByStore groups total cost by store, highest spend first.
func ComputeSpendingByStore(entries []*Entry) []StoreSpending {
	idx := make(map[string]int)
	var out []StoreSpending
	for _, e := range entries {
		i, ok := idx[e.StoreName]
		if !ok {
			i = len(out)
			idx[e.StoreName] = i
			out = append(out, StoreSpending{StoreName: e.StoreName, TotalSpent: decimal.Zero})
		}
		out[i].TotalSpent = out[i].TotalSpent.Add(e.Derived().TotalCost)
		out[i].EntryCount++
	}

	sort.SliceStable(out, func(a, b int) bool {
		if c := out[a].TotalSpent.Cmp(out[b].TotalSpent); c != 0 {
			return c > 0
		}
		return out[a].StoreName < out[b].StoreName
	})
	return out
}

// ComputeStatusOverview groups entries by status in Pending, Delivered, Sold
// order. Statuses without entries are omitted.
func ComputeStatusOverview(entries []*Entry) []StatusOverview {
	byStatus := make(map[Status]*StatusOverview)
	for _, e := range entries {
		o, ok := byStatus[e.Status]
		if !ok {
			o = &StatusOverview{Status: e.Status, TotalValue: decimal.Zero}
			byStatus[e.Status] = o
		}
		o.Count++
		o.TotalValue = o.TotalValue.Add(e.Derived().TotalCost)
	}

	out := make([]StatusOverview, 0, len(byStatus))
	for _, s := range Statuses {
		if o, ok := byStatus[s]; ok {
			out = append(out, *o)
		}
	}
	return out
}

// ComputeProfitByStore groups realised profit by store, most profitable first.
func ComputeProfitByStore(entries []*Entry) []StoreProfit {
	idx := make(map[string]int)
	margins := make(map[string][]decimal.Decimal)
	var out []StoreProfit
	for _, e := range entries {
		d := e.Derived()
		if !isRealised(e, d) {
			continue
		}

		i, ok := idx[e.StoreName]
		if !ok {
			i = len(out)
			idx[e.StoreName] = i
			out = append(out, StoreProfit{StoreName: e.StoreName, TotalProfit: decimal.Zero})
		}
		out[i].TotalProfit = out[i].TotalProfit.Add(d.Profit.Decimal)
		out[i].SoldCount++
		if d.ProfitMargin.Valid {
			margins[e.StoreName] = append(margins[e.StoreName], d.ProfitMargin.Decimal)
		}
	}

	for i := range out {
		out[i].AverageProfitMargin = average(margins[out[i].StoreName])
	}

	sort.SliceStable(out, func(a, b int) bool {
		if c := out[a].TotalProfit.Cmp(out[b].TotalProfit); c != 0 {
			return c > 0
		}
		return out[a].StoreName < out[b].StoreName
	})
	return out
}

// ComputeMonthlySpending groups total cost by order month, oldest first.
func ComputeMonthlySpending(entries []*Entry) []MonthlySpending {
	idx := make(map[string]int)
	var out []MonthlySpending
	for _, e := range entries {
		month := e.OrderDate.Format("2006-01")
		i, ok := idx[month]
		if !ok {
			i = len(out)
			idx[month] = i
			out = append(out, MonthlySpending{Month: month, TotalSpent: decimal.Zero})
		}
		out[i].TotalSpent = out[i].TotalSpent.Add(e.Derived().TotalCost)
		out[i].EntryCount++
	}

	sort.Slice(out, func(a, b int) bool { return out[a].Month < out[b].Month })
	return out
}

func average(values []decimal.Decimal) decimal.NullDecimal {
	if len(values) == 0 {
		return decimal.NullDecimal{}
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return decimal.NewNullDecimal(sum.DivRound(decimal.NewFromInt(int64(len(values))), MoneyDecimalPlaces))
}
