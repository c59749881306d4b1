package usecase

import (
	"context"
	"time"

	"github.com/iho/orderledger/internal/domain"
)

// EntryRepository defines owner-scoped data access for ledger entries.
// Lookups for an ID owned by someone else return domain.ErrEntryNotFound, as
// does FindDuplicate when nothing matches.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Entry, error)
	Update(ctx context.Context, tx Transaction, entry *domain.Entry) error
	Delete(ctx context.Context, tx Transaction, ownerID, id string) error
	DeleteAllByOwner(ctx context.Context, tx Transaction, ownerID string) (int, error)
	List(ctx context.Context, ownerID string, filter domain.EntryFilter, sort domain.EntrySort, page domain.PageRequest) ([]*domain.Entry, int, error)
	ListAll(ctx context.Context, ownerID string, filter domain.EntryFilter, sort domain.EntrySort) ([]*domain.Entry, error)
	FindDuplicate(ctx context.Context, ownerID, productName, storeName string, orderDate time.Time) (*domain.Entry, error)
	ListStoreNames(ctx context.Context, ownerID string) ([]string, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// StoreNameCache caches the distinct store names of an owner.
// Get reports a miss with found == false and a nil error.
type StoreNameCache interface {
	Get(ctx context.Context, ownerID string) (names []string, found bool, err error)
	Set(ctx context.Context, ownerID string, names []string, ttl time.Duration) error
	Invalidate(ctx context.Context, ownerID string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically claims key. It returns (true, stored) when the
	// key was already claimed; stored is nil while the first request runs.
	CheckAndSet(ctx context.Context, key string, ttl time.Duration) (bool, []byte, error)
	// Update stores the final response for a claimed key.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claim so the request can be retried.
	Release(ctx context.Context, key string) error
}

// Metrics records domain-level counters.
type Metrics interface {
	EntryMutated(operation string)
	BulkItem(operation, outcome string)
	ImportRow(outcome string)
	RestoreCompleted(outcome string)
	InterchangeDuration(operation string, d time.Duration)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) EntryMutated(string)                       {}
func (NopMetrics) BulkItem(string, string)                   {}
func (NopMetrics) ImportRow(string)                          {}
func (NopMetrics) RestoreCompleted(string)                   {}
func (NopMetrics) InterchangeDuration(string, time.Duration) {}
