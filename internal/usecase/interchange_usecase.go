package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/iho/orderledger/internal/domain"
	"github.com/iho/orderledger/internal/interchange"
)

// RestoreTransactionTimeout bounds the delete-and-reinsert transaction of a
// restore.
const RestoreTransactionTimeout = 2 * time.Minute

var exportSort = domain.EntrySort{Field: domain.SortByCreatedAt, Direction: domain.SortAsc}

// InterchangeUseCase moves whole entry sets through CSV and JSON backups.
type InterchangeUseCase struct {
	deps Dependencies
}

// NewInterchangeUseCase creates a new InterchangeUseCase.
func NewInterchangeUseCase(deps Dependencies) *InterchangeUseCase {
	return &InterchangeUseCase{
		deps: deps.withDefaults(),
	}
}

// ExportCSV writes every entry of ownerID, oldest first, and returns the
// number of rows written.
func (uc *InterchangeUseCase) ExportCSV(ctx context.Context, ownerID string, w io.Writer) (int, error) {
	start := time.Now()

	entries, err := uc.deps.EntryRepo.ListAll(ctx, ownerID, domain.EntryFilter{}, exportSort)
	if err != nil {
		return 0, err
	}

	if err := interchange.WriteCSV(w, entries); err != nil {
		return 0, err
	}

	uc.deps.Metrics.InterchangeDuration(OpExport, time.Since(start))
	uc.deps.Logger.Info().Str("owner_id", ownerID).Int("count", len(entries)).Msg("entries exported")

	return len(entries), nil
}

// ImportCSV applies every valid row of a CSV document. Document-level problems
// reject the whole document before anything is written; row-level problems
// are recorded in the report and skipped.
func (uc *InterchangeUseCase) ImportCSV(ctx context.Context, ownerID string, r io.Reader, policy domain.DuplicatePolicy) (*domain.ImportReport, error) {
	switch policy {
	case domain.DuplicateSkip, domain.DuplicateUpdate, domain.DuplicateAdd:
	default:
		return nil, fmt.Errorf("%w: got %q", domain.ErrInvalidDuplicatePolicy, policy)
	}

	start := time.Now()
	log := uc.deps.Logger.With().Str("owner_id", ownerID).Str("operation", OpImport).Logger()

	data, err := uc.readDocument(r)
	if err != nil {
		return nil, err
	}

	rows, err := interchange.ReadCSV(bytes.NewReader(data), uc.deps.Limits.MaxImportRows)
	if err != nil {
		return nil, err
	}

	today := uc.deps.now()
	report := &domain.ImportReport{}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Int("imported", report.Imported).Msg("import interrupted")
			if report.Imported > 0 {
				uc.deps.invalidateStoreNames(context.WithoutCancel(ctx), ownerID)
			}
			return report, err
		}

		outcome, err := uc.importRow(ctx, ownerID, row, policy, today)
		if err != nil {
			report.AddError(row.Number, err)
			uc.deps.Metrics.ImportRow(OutcomeFailed)
			log.Warn().Err(err).Int("row", row.Number).Msg("import row failed")
			continue
		}

		uc.deps.Metrics.ImportRow(outcome)
		if outcome == OutcomeSkipped {
			report.Skipped++
		} else {
			report.Imported++
		}
	}

	if report.Imported > 0 {
		uc.deps.invalidateStoreNames(ctx, ownerID)
	}

	uc.deps.Metrics.InterchangeDuration(OpImport, time.Since(start))
	log.Info().
		Int("imported", report.Imported).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("entries imported")

	return report, nil
}

func (uc *InterchangeUseCase) importRow(ctx context.Context, ownerID string, row interchange.Row, policy domain.DuplicatePolicy, now time.Time) (string, error) {
	draft, err := row.Draft(now)
	if err != nil {
		return "", err
	}

	if policy != domain.DuplicateAdd {
		existing, err := uc.deps.EntryRepo.FindDuplicate(ctx, ownerID, draft.ProductName, draft.StoreName, draft.OrderDate)
		switch {
		case errors.Is(err, domain.ErrEntryNotFound):
		case err != nil:
			return "", err
		case policy == domain.DuplicateSkip:
			return OutcomeSkipped, nil
		default:
			overwriteImported(existing, draft)
			existing.UpdatedAt = now
			if err := existing.Validate(); err != nil {
				return "", err
			}
			err := uc.deps.inTx(ctx, func(tx Transaction) error {
				return uc.deps.EntryRepo.Update(ctx, tx, existing)
			})
			if err != nil {
				return "", err
			}
			return OutcomeUpdated, nil
		}
	}

	draft.ID = uc.deps.IDGen.Generate()
	draft.OwnerID = ownerID
	draft.CreatedAt = now
	draft.UpdatedAt = now
	if err := draft.Validate(); err != nil {
		return "", err
	}

	err = uc.deps.inTx(ctx, func(tx Transaction) error {
		return uc.deps.EntryRepo.Create(ctx, tx, draft)
	})
	if err != nil {
		return "", err
	}

	return OutcomeImported, nil
}

// overwriteImported copies the fields an import may change onto an existing
// entry. Identity, names and order date stay as stored.
func overwriteImported(existing, draft *domain.Entry) {
	existing.Quantity = draft.Quantity
	existing.CostPerItem = draft.CostPerItem
	existing.AmountPaid = draft.AmountPaid
	existing.SoldPrice = draft.SoldPrice
	existing.Status = draft.Status
	existing.ProductURL = draft.ProductURL
	existing.ReleaseDate = draft.ReleaseDate
	existing.Notes = draft.Notes
}

// Backup returns every entry of ownerID as a backup document.
func (uc *InterchangeUseCase) Backup(ctx context.Context, ownerID string) (*interchange.BackupDocument, error) {
	start := time.Now()

	entries, err := uc.deps.EntryRepo.ListAll(ctx, ownerID, domain.EntryFilter{}, exportSort)
	if err != nil {
		return nil, err
	}

	doc := interchange.NewBackupDocument(ownerID, uc.deps.now(), entries)

	uc.deps.Metrics.InterchangeDuration(OpBackup, time.Since(start))
	uc.deps.Logger.Info().Str("owner_id", ownerID).Int("count", doc.TotalCount).Msg("backup created")

	return doc, nil
}

// Restore replaces every entry of ownerID with the entries of a backup
// document. Items that fail to decode or validate are reported and skipped.
// The delete and the inserts commit together; a malformed document is
// rejected before anything is deleted.
func (uc *InterchangeUseCase) Restore(ctx context.Context, ownerID string, r io.Reader) (*domain.RestoreReport, error) {
	start := time.Now()
	log := uc.deps.Logger.With().Str("owner_id", ownerID).Str("operation", OpRestore).Logger()

	data, err := uc.readDocument(r)
	if err != nil {
		return nil, err
	}

	items, err := interchange.DecodeBackup(data, uc.deps.Limits.MaxImportRows)
	if err != nil {
		return nil, err
	}

	now := uc.deps.now()
	report := &domain.RestoreReport{}
	drafts := make([]*domain.Entry, 0, len(items))

	for _, raw := range items {
		item, err := interchange.DecodeBackupEntry(raw)
		if err != nil {
			name := interchange.BackupItemName(raw)
			report.AddError(name, err)
			log.Warn().Err(err).Str("product_name", name).Msg("restore item undecodable")
			continue
		}

		entry, err := uc.restoreDraft(ownerID, item, now)
		if err != nil {
			report.AddError(item.ProductName, err)
			log.Warn().Err(err).Str("product_name", item.ProductName).Msg("restore item rejected")
			continue
		}

		drafts = append(drafts, entry)
	}

	var deleted int
	err = uc.deps.Retrier.Retry(ctx, func() error {
		return uc.deps.inTxTimeout(ctx, RestoreTransactionTimeout, func(tx Transaction) error {
			n, err := uc.deps.EntryRepo.DeleteAllByOwner(ctx, tx, ownerID)
			if err != nil {
				return err
			}
			deleted = n

			for _, entry := range drafts {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := uc.deps.EntryRepo.Create(ctx, tx, entry); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		uc.deps.Metrics.RestoreCompleted(OutcomeFailure)
		log.Error().Err(err).Msg("restore failed")
		return nil, err
	}

	report.Restored = len(drafts)

	uc.deps.invalidateStoreNames(ctx, ownerID)
	uc.deps.Metrics.RestoreCompleted(OutcomeSuccess)
	uc.deps.Metrics.InterchangeDuration(OpRestore, time.Since(start))
	log.Info().
		Int("deleted", deleted).
		Int("restored", report.Restored).
		Int("failed", report.Failed).
		Msg("backup restored")

	return report, nil
}

func (uc *InterchangeUseCase) restoreDraft(ownerID string, item interchange.BackupEntry, now time.Time) (*domain.Entry, error) {
	entry, err := item.Draft(now)
	if err != nil {
		return nil, err
	}

	entry.ID = uc.deps.IDGen.Generate()
	entry.OwnerID = ownerID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = entry.CreatedAt
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// readDocument reads at most MaxImportBytes from r.
func (uc *InterchangeUseCase) readDocument(r io.Reader) ([]byte, error) {
	limit := uc.deps.Limits.MaxImportBytes

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: exceeds %d bytes", domain.ErrDocumentTooLarge, limit)
	}

	return data, nil
}
