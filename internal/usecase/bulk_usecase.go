package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/iho/orderledger/internal/domain"
)

// BulkUseCase applies one operation across many entries. A failing ID is
// recorded and never aborts the remaining IDs.
type BulkUseCase struct {
	entries *EntryUseCase
	deps    Dependencies
}

// NewBulkUseCase creates a new BulkUseCase.
func NewBulkUseCase(deps Dependencies) *BulkUseCase {
	entries := NewEntryUseCase(deps)
	return &BulkUseCase{
		entries: entries,
		deps:    entries.deps,
	}
}

// BulkUpdate applies patch to every ID through the single-update path.
func (uc *BulkUseCase) BulkUpdate(ctx context.Context, ownerID string, ids []string, patch domain.EntryPatch) (*domain.BulkResult, error) {
	if err := uc.checkIDs(ids); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}

	return uc.run(ctx, OpUpdate, ownerID, ids, func(id string) error {
		_, err := uc.entries.applyPatch(ctx, ownerID, id, patch)
		return err
	})
}

// BulkDelete deletes every ID.
func (uc *BulkUseCase) BulkDelete(ctx context.Context, ownerID string, ids []string) (*domain.BulkResult, error) {
	if err := uc.checkIDs(ids); err != nil {
		return nil, err
	}

	return uc.run(ctx, OpDelete, ownerID, ids, func(id string) error {
		return uc.entries.deleteOne(ctx, ownerID, id)
	})
}

func (uc *BulkUseCase) checkIDs(ids []string) error {
	if len(ids) == 0 {
		return domain.ErrNoEntryIDs
	}
	if len(ids) > uc.deps.Limits.MaxBulkIDs {
		return fmt.Errorf("%w: got %d, maximum is %d", domain.ErrTooManyEntryIDs, len(ids), uc.deps.Limits.MaxBulkIDs)
	}
	return nil
}

func (uc *BulkUseCase) run(ctx context.Context, operation, ownerID string, ids []string, apply func(id string) error) (*domain.BulkResult, error) {
	log := uc.deps.Logger.With().Str("owner_id", ownerID).Str("operation", operation).Logger()
	result := &domain.BulkResult{}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			// Unprocessed IDs count as failed so the report still reconciles.
			for _, rest := range ids[i:] {
				result.Record(rest, err)
			}
			break
		}

		err := apply(id)
		result.Record(id, err)

		switch {
		case err == nil:
			uc.deps.Metrics.BulkItem(operation, OutcomeSuccess)
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrEntryNotFound):
			uc.deps.Metrics.BulkItem(operation, OutcomeFailure)
			log.Debug().Err(err).Str("entry_id", id).Msg("bulk item rejected")
		default:
			uc.deps.Metrics.BulkItem(operation, OutcomeFailure)
			log.Warn().Err(err).Str("entry_id", id).Msg("bulk item failed")
		}
	}

	if result.Succeeded > 0 {
		uc.deps.invalidateStoreNames(ctx, ownerID)
	}

	log.Info().
		Int("requested", len(ids)).
		Int("succeeded", result.Succeeded).
		Int("failed", len(result.FailedIDs)).
		Msg("bulk operation completed")

	return result, nil
}
