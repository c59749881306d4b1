package usecase_test

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/orderledger/internal/adapter/repository/memory"
	"github.com/iho/orderledger/internal/usecase"
)

// tickingClock advances one second per reading.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	deps  usecase.Dependencies
	repo  *memory.EntryRepository
	store *memory.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	store := memory.NewStore()
	repo := memory.NewEntryRepository(store)

	return fixture{
		store: store,
		repo:  repo,
		deps: usecase.Dependencies{
			TxManager: memory.NewTxManager(store),
			EntryRepo: repo,
			IDGen:     memory.NewSequenceGenerator("e"),
			Logger:    zerolog.Nop(),
			Clock:     newTickingClock().Now,
		},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}
