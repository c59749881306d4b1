package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/orderledger/internal/domain"
)

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// StoreNamesTTL is how long an owner's store names stay cached
	StoreNamesTTL = 5 * time.Minute

	// DefaultMaxImportBytes bounds CSV imports and JSON restores (10 MiB)
	DefaultMaxImportBytes = 10 << 20

	// DefaultMaxImportRows bounds data rows per import and entries per restore
	DefaultMaxImportRows = 10_000

	// DefaultMaxBulkIDs bounds the ID list of a bulk request
	DefaultMaxBulkIDs = 1000
)

// Metric labels
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpImport  = "import"
	OpExport  = "export"
	OpBackup  = "backup"
	OpRestore = "restore"

	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeImported = "imported"
	OutcomeSkipped  = "skipped"
	OutcomeUpdated  = "updated"
	OutcomeFailed   = "failed"
)

// Limits bounds request sizes.
type Limits struct {
	MaxImportBytes  int64
	MaxImportRows   int
	MaxBulkIDs      int
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultLimits returns the production limits.
func DefaultLimits() Limits {
	return Limits{
		MaxImportBytes:  DefaultMaxImportBytes,
		MaxImportRows:   DefaultMaxImportRows,
		MaxBulkIDs:      DefaultMaxBulkIDs,
		DefaultPageSize: domain.DefaultPageSize,
		MaxPageSize:     domain.MaxPageSize,
	}
}

// Dependencies are shared by the entry use cases. TxManager, EntryRepo and
// IDGen are required; everything else has a default.
type Dependencies struct {
	TxManager     TransactionManager
	EntryRepo     EntryRepository
	IDGen         IDGenerator
	StoreCache    StoreNameCache
	StoreCacheTTL time.Duration
	Retrier       Retrier
	Metrics       Metrics
	Logger        zerolog.Logger
	Clock         func() time.Time
	Limits        Limits
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Metrics == nil {
		d.Metrics = NopMetrics{}
	}
	if d.Retrier == nil {
		d.Retrier = noRetry{}
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.StoreCacheTTL <= 0 {
		d.StoreCacheTTL = StoreNamesTTL
	}

	defaults := DefaultLimits()
	if d.Limits.MaxImportBytes <= 0 {
		d.Limits.MaxImportBytes = defaults.MaxImportBytes
	}
	if d.Limits.MaxImportRows <= 0 {
		d.Limits.MaxImportRows = defaults.MaxImportRows
	}
	if d.Limits.MaxBulkIDs <= 0 {
		d.Limits.MaxBulkIDs = defaults.MaxBulkIDs
	}
	if d.Limits.DefaultPageSize <= 0 {
		d.Limits.DefaultPageSize = defaults.DefaultPageSize
	}
	if d.Limits.MaxPageSize <= 0 {
		d.Limits.MaxPageSize = defaults.MaxPageSize
	}
	return d
}

func (d Dependencies) now() time.Time {
	return d.Clock().UTC()
}

type noRetry struct{}

func (noRetry) Retry(_ context.Context, operation func() error) error {
	return operation()
}
