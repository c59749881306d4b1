package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/iho/orderledger/internal/domain"
	"github.com/iho/orderledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository in memory.
type EntryRepository struct {
	store *Store
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// Create stores a copy of entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.entries[entry.ID]; exists {
		return fmt.Errorf("memory: duplicate entry id %s", entry.ID)
	}

	id := entry.ID
	r.store.entries[id] = entry.Clone()
	t.record(func() { delete(r.store.entries, id) })

	return nil
}

// GetByID returns a copy of an owned entry.
func (r *EntryRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.entries[id]
	if !ok || e.OwnerID != ownerID {
		return nil, domain.ErrEntryNotFound
	}

	return e.Clone(), nil
}

// Update replaces an owned entry.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	old, ok := r.store.entries[entry.ID]
	if !ok || old.OwnerID != entry.OwnerID {
		return domain.ErrEntryNotFound
	}

	r.store.entries[entry.ID] = entry.Clone()
	t.record(func() { r.store.entries[old.ID] = old })

	return nil
}

// Delete removes an owned entry.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, ownerID, id string) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	old, ok := r.store.entries[id]
	if !ok || old.OwnerID != ownerID {
		return domain.ErrEntryNotFound
	}

	delete(r.store.entries, id)
	t.record(func() { r.store.entries[old.ID] = old })

	return nil
}

// DeleteAllByOwner removes every entry of ownerID.
func (r *EntryRepository) DeleteAllByOwner(ctx context.Context, tx usecase.Transaction, ownerID string) (int, error) {
	t, err := txFrom(tx)
	if err != nil {
		return 0, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var removed []*domain.Entry
	for id, e := range r.store.entries {
		if e.OwnerID == ownerID {
			removed = append(removed, e)
			delete(r.store.entries, id)
		}
	}

	t.record(func() {
		for _, e := range removed {
			r.store.entries[e.ID] = e
		}
	})

	return len(removed), nil
}

// List returns one page of the filtered entries and the filtered total.
func (r *EntryRepository) List(ctx context.Context, ownerID string, filter domain.EntryFilter, order domain.EntrySort, page domain.PageRequest) ([]*domain.Entry, int, error) {
	all := r.matching(ownerID, filter, order)
	total := len(all)

	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.PageSize
	if end > total || page.PageSize <= 0 {
		end = total
	}

	return all[start:end], total, nil
}

// ListAll returns every matching entry.
func (r *EntryRepository) ListAll(ctx context.Context, ownerID string, filter domain.EntryFilter, order domain.EntrySort) ([]*domain.Entry, error) {
	return r.matching(ownerID, filter, order), nil
}

// FindDuplicate returns the oldest entry with the same product, store and
// order date.
func (r *EntryRepository) FindDuplicate(ctx context.Context, ownerID, productName, storeName string, orderDate time.Time) (*domain.Entry, error) {
	day := domain.TruncateToDate(orderDate)
	candidates := r.matching(ownerID, domain.EntryFilter{}, domain.EntrySort{Field: domain.SortByCreatedAt, Direction: domain.SortAsc})

	for _, e := range candidates {
		if e.ProductName == productName && e.StoreName == storeName && e.OrderDate.Equal(day) {
			return e, nil
		}
	}

	return nil, domain.ErrEntryNotFound
}

// ListStoreNames returns the distinct non-empty store names of ownerID.
func (r *EntryRepository) ListStoreNames(ctx context.Context, ownerID string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	seen := make(map[string]bool)
	names := []string{}
	for _, e := range r.store.entries {
		if e.OwnerID != ownerID || e.StoreName == "" || seen[e.StoreName] {
			continue
		}
		seen[e.StoreName] = true
		names = append(names, e.StoreName)
	}

	sort.Strings(names)
	return names, nil
}

func (r *EntryRepository) matching(ownerID string, filter domain.EntryFilter, order domain.EntrySort) []*domain.Entry {
	r.store.mu.RLock()
	out := make([]*domain.Entry, 0)
	for _, e := range r.store.entries {
		if e.OwnerID == ownerID && filter.Matches(e) {
			out = append(out, e.Clone())
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return order.Less(out[i], out[j]) })
	return out
}
