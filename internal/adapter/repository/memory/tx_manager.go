// Package memory is an in-process entry store used for tests and local runs.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/orderledger/internal/domain"
	"github.com/iho/orderledger/internal/usecase"
)

var errTxDone = errors.New("memory: transaction already closed")

// Store holds entries by ID. Transactions are serialized; reads never block
// on a running transaction and may observe its uncommitted writes.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry

	// writer admits one transaction at a time
	writer chan struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*domain.Entry),
		writer:  make(chan struct{}, 1),
	}
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin waits for the running transaction, if any, to finish.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	select {
	case m.store.writer <- struct{}{}:
		return &Tx{store: m.store}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Tx applies writes immediately and keeps an undo journal for Rollback.
type Tx struct {
	store *Store
	undo  []func()
	done  bool
}

// Commit discards the journal.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return errTxDone
	}
	t.finish()
	return nil
}

// Rollback undoes every write in reverse order. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}

	t.store.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.store.mu.Unlock()

	t.finish()
	return nil
}

func (t *Tx) finish() {
	t.done = true
	t.undo = nil
	<-t.store.writer
}

// record must be called with store.mu held.
func (t *Tx) record(undo func()) {
	t.undo = append(t.undo, undo)
}

func txFrom(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, errors.New("memory: foreign transaction")
	}
	if t.done {
		return nil, errTxDone
	}
	return t, nil
}
