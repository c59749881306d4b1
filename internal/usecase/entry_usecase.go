package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/orderledger/internal/domain"
)

// EntryUseCase handles single-entry business logic.
type EntryUseCase struct {
	deps Dependencies
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(deps Dependencies) *EntryUseCase {
	return &EntryUseCase{
		deps: deps.withDefaults(),
	}
}

// CreateEntryInput represents input for creating an entry. Nil optional
// fields take their defaults: quantity 1, amount paid 0, status Pending and
// order date today.
type CreateEntryInput struct {
	ProductName string
	ProductURL  *string
	StoreName   string
	Quantity    *int
	CostPerItem decimal.Decimal
	AmountPaid  *decimal.Decimal
	SoldPrice   decimal.NullDecimal
	Status      domain.Status
	ReleaseDate *time.Time
	OrderDate   *time.Time
	Notes       *string
}

func (in CreateEntryInput) build(id, ownerID string, now time.Time) *domain.Entry {
	entry := &domain.Entry{
		ID:          id,
		OwnerID:     ownerID,
		ProductName: in.ProductName,
		ProductURL:  in.ProductURL,
		StoreName:   in.StoreName,
		Quantity:    1,
		CostPerItem: in.CostPerItem,
		AmountPaid:  decimal.Zero,
		SoldPrice:   in.SoldPrice,
		Status:      in.Status,
		OrderDate:   domain.TruncateToDate(now),
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if in.Quantity != nil {
		entry.Quantity = *in.Quantity
	}
	if in.AmountPaid != nil {
		entry.AmountPaid = *in.AmountPaid
	}
	if entry.Status == "" {
		entry.Status = domain.StatusPending
	}
	if in.ReleaseDate != nil {
		d := domain.TruncateToDate(*in.ReleaseDate)
		entry.ReleaseDate = &d
	}
	if in.OrderDate != nil {
		entry.OrderDate = domain.TruncateToDate(*in.OrderDate)
	}

	return entry
}

// CreateEntry validates and persists a new entry for ownerID.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, ownerID string, input CreateEntryInput) (*domain.Entry, error) {
	entry := input.build(uc.deps.IDGen.Generate(), ownerID, uc.deps.now())
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	err := uc.deps.inTx(ctx, func(tx Transaction) error {
		return uc.deps.EntryRepo.Create(ctx, tx, entry)
	})
	if err != nil {
		uc.deps.Logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to create entry")
		return nil, err
	}

	uc.mutated(ctx, OpCreate, ownerID, entry.ID)

	return entry, nil
}

// GetEntry returns an entry owned by ownerID.
func (uc *EntryUseCase) GetEntry(ctx context.Context, ownerID, id string) (*domain.Entry, error) {
	return uc.deps.EntryRepo.GetByID(ctx, ownerID, id)
}

// UpdateEntry merges the supplied fields onto a stored entry and re-validates
// the result.
func (uc *EntryUseCase) UpdateEntry(ctx context.Context, ownerID, id string, patch domain.EntryPatch) (*domain.Entry, error) {
	if patch.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}

	entry, err := uc.applyPatch(ctx, ownerID, id, patch)
	if err != nil {
		return nil, err
	}

	uc.mutated(ctx, OpUpdate, ownerID, id)

	return entry, nil
}

// DeleteEntry removes an entry owned by ownerID.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, ownerID, id string) error {
	if err := uc.deleteOne(ctx, ownerID, id); err != nil {
		return err
	}

	uc.mutated(ctx, OpDelete, ownerID, id)

	return nil
}

// ListStoreNames returns the owner's distinct store names in ascending order.
func (uc *EntryUseCase) ListStoreNames(ctx context.Context, ownerID string) ([]string, error) {
	log := uc.deps.Logger.With().Str("owner_id", ownerID).Logger()

	if uc.deps.StoreCache != nil {
		names, found, err := uc.deps.StoreCache.Get(ctx, ownerID)
		if err != nil {
			log.Warn().Err(err).Msg("store name cache read failed")
		} else if found {
			return names, nil
		}
	}

	names, err := uc.deps.EntryRepo.ListStoreNames(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if uc.deps.StoreCache != nil {
		if err := uc.deps.StoreCache.Set(ctx, ownerID, names, uc.deps.StoreCacheTTL); err != nil {
			log.Warn().Err(err).Msg("store name cache write failed")
		}
	}

	return names, nil
}

func (uc *EntryUseCase) applyPatch(ctx context.Context, ownerID, id string, patch domain.EntryPatch) (*domain.Entry, error) {
	entry, err := uc.deps.EntryRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	patch.ApplyTo(entry)
	entry.UpdatedAt = uc.deps.now()

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	err = uc.deps.inTx(ctx, func(tx Transaction) error {
		return uc.deps.EntryRepo.Update(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *EntryUseCase) deleteOne(ctx context.Context, ownerID, id string) error {
	return uc.deps.inTx(ctx, func(tx Transaction) error {
		return uc.deps.EntryRepo.Delete(ctx, tx, ownerID, id)
	})
}

// mutated records a successful single-entry mutation.
func (uc *EntryUseCase) mutated(ctx context.Context, operation, ownerID, id string) {
	uc.deps.invalidateStoreNames(ctx, ownerID)
	uc.deps.Metrics.EntryMutated(operation)
	uc.deps.Logger.Info().
		Str("owner_id", ownerID).
		Str("entry_id", id).
		Str("operation", operation).
		Msg("entry mutated")
}

func (d Dependencies) inTx(ctx context.Context, fn func(tx Transaction) error) error {
	return d.inTxTimeout(ctx, DefaultTransactionTimeout, fn)
}

func (d Dependencies) inTxTimeout(ctx context.Context, timeout time.Duration, fn func(tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tx, err := d.TxManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (d Dependencies) invalidateStoreNames(ctx context.Context, ownerID string) {
	if d.StoreCache == nil {
		return
	}
	if err := d.StoreCache.Invalidate(ctx, ownerID); err != nil {
		d.Logger.Warn().Err(err).Str("owner_id", ownerID).Msg("store name cache invalidation failed")
	}
}
