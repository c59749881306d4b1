package domain

import (
	"strings"
	"time"
)

// StoreMatch selects how EntryFilter.Store is compared to an entry's store name.
type StoreMatch int

const (
	// StoreMatchContains is a case-insensitive substring match (list views).
	StoreMatchContains StoreMatch = iota
	// StoreMatchExact is an exact, case-sensitive match (statistics views).
	StoreMatchExact
)

// EntryFilter holds the optional, AND-combined list predicates. Zero values
// disable a predicate.
type EntryFilter struct {
	Status          Status
	Store           string
	StoreMatch      StoreMatch
	Search          string
	OrderDateFrom   *time.Time
	OrderDateTo     *time.Time
	ReleaseDateFrom *time.Time
	ReleaseDateTo   *time.Time
	AmountOwingOnly bool
}

// Matches reports whether e satisfies every active predicate. Ownership is
// not part of the filter; callers scope by owner first.
func (f EntryFilter) Matches(e *Entry) bool {
	if f.Status != "" && e.Status != f.Status {
		return false
	}

	if f.Store != "" {
		switch f.StoreMatch {
		case StoreMatchExact:
			if e.StoreName != f.Store {
				return false
			}
		default:
			if !containsFold(e.StoreName, f.Store) {
				return false
			}
		}
	}

	if f.Search != "" {
		inNotes := e.Notes != nil && containsFold(*e.Notes, f.Search)
		if !containsFold(e.ProductName, f.Search) && !containsFold(e.StoreName, f.Search) && !inNotes {
			return false
		}
	}

	if f.OrderDateFrom != nil && e.OrderDate.Before(TruncateToDate(*f.OrderDateFrom)) {
		return false
	}
	if f.OrderDateTo != nil && e.OrderDate.After(TruncateToDate(*f.OrderDateTo)) {
		return false
	}

	if f.ReleaseDateFrom != nil || f.ReleaseDateTo != nil {
		if e.ReleaseDate == nil {
			return false
		}
		if f.ReleaseDateFrom != nil && e.ReleaseDate.Before(TruncateToDate(*f.ReleaseDateFrom)) {
			return false
		}
		if f.ReleaseDateTo != nil && e.ReleaseDate.After(TruncateToDate(*f.ReleaseDateTo)) {
			return false
		}
	}

	if f.AmountOwingOnly && !e.Derived().AmountOwing.IsPositive() {
		return false
	}

	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// SortField is one of the allow-listed sortable columns.
type SortField string

const (
	SortByCreatedAt   SortField = "created_at"
	SortByOrderDate   SortField = "order_date"
	SortByReleaseDate SortField = "release_date"
	SortByProductName SortField = "product_name"
	SortByStoreName   SortField = "store_name"
	SortByQuantity    SortField = "quantity"
	SortByCostPerItem SortField = "cost_per_item"
	SortByTotalCost   SortField = "total_cost"
	SortByAmountPaid  SortField = "amount_paid"
	SortByAmountOwing SortField = "amount_owing"
	SortByStatus      SortField = "status"
)

var sortFields = map[SortField]bool{
	SortByCreatedAt:   true,
	SortByOrderDate:   true,
	SortByReleaseDate: true,
	SortByProductName: true,
	SortByStoreName:   true,
	SortByQuantity:    true,
	SortByCostPerItem: true,
	SortByTotalCost:   true,
	SortByAmountPaid:  true,
	SortByAmountOwing: true,
	SortByStatus:      true,
}

// ParseSortField maps a caller-supplied name onto the allow-list, falling back
// to created_at.
func ParseSortField(s string) SortField {
	f := SortField(strings.TrimSpace(s))
	if sortFields[f] {
		return f
	}
	return SortByCreatedAt
}

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection returns SortAsc only for "asc"; everything else is descending.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// EntrySort is the sort key of a listing.
type EntrySort struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSort is newest first.
var DefaultSort = EntrySort{Field: SortByCreatedAt, Direction: SortDesc}

// Less orders a before b. Null release dates compare greater than any date,
// and ID breaks ties in the same direction.
func (s EntrySort) Less(a, b *Entry) bool {
	c := compareBy(s.Field, a, b)
	if c == 0 {
		c = strings.Compare(a.ID, b.ID)
	}
	if s.Direction == SortAsc {
		return c < 0
	}
	return c > 0
}

func compareBy(field SortField, a, b *Entry) int {
	switch field {
	case SortByOrderDate:
		return a.OrderDate.Compare(b.OrderDate)
	case SortByReleaseDate:
		switch {
		case a.ReleaseDate == nil && b.ReleaseDate == nil:
			return 0
		case a.ReleaseDate == nil:
			return 1
		case b.ReleaseDate == nil:
			return -1
		}
		return a.ReleaseDate.Compare(*b.ReleaseDate)
	case SortByProductName:
		return strings.Compare(a.ProductName, b.ProductName)
	case SortByStoreName:
		return strings.Compare(a.StoreName, b.StoreName)
	case SortByQuantity:
		return a.Quantity - b.Quantity
	case SortByCostPerItem:
		return a.CostPerItem.Cmp(b.CostPerItem)
	case SortByTotalCost:
		return a.Derived().TotalCost.Cmp(b.Derived().TotalCost)
	case SortByAmountPaid:
		return a.AmountPaid.Cmp(b.AmountPaid)
	case SortByAmountOwing:
		return a.Derived().AmountOwing.Cmp(b.Derived().AmountOwing)
	case SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// Pagination defaults
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// PageRequest is a 1-indexed page.
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize clamps the page to valid bounds using maxSize as the ceiling.
func (p PageRequest) Normalize(defaultSize, maxSize int) PageRequest {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	if p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	return p
}

// Offset returns the number of rows skipped before this page.
func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// EntryPage is one page of a filtered listing. Total counts the filtered set
// before pagination.
type EntryPage struct {
	Entries  []*Entry
	Total    int
	Page     int
	PageSize int
}
