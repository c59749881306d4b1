package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/orderledger/internal/adapter/http/middleware"
	"github.com/iho/orderledger/internal/adapter/repository/memory"
	"github.com/iho/orderledger/internal/usecase"
)

const ownerHeader = "X-Owner-ID"

var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

// newTestAPI wires every handler to the real use cases over the in-memory
// backend.
func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	store := memory.NewStore()
	deps := usecase.Dependencies{
		TxManager: memory.NewTxManager(store),
		EntryRepo: memory.NewEntryRepository(store),
		IDGen:     memory.NewSequenceGenerator("e"),
		Logger:    zerolog.Nop(),
	}

	entries := NewEntryHandler(usecase.NewEntryUseCase(deps), usecase.NewQueryUseCase(deps))
	bulk := NewBulkHandler(usecase.NewBulkUseCase(deps))
	interchange := NewInterchangeHandler(usecase.NewInterchangeUseCase(deps))
	interchange.now = func() time.Time { return fixedNow }
	analytics := NewAnalyticsHandler(usecase.NewAnalyticsUseCase(deps))

	r := chi.NewRouter()
	r.Use(middleware.HeaderIdentity(ownerHeader))
	r.Route("/entries", func(r chi.Router) {
		r.Post("/", entries.Create)
		r.Get("/", entries.List)
		r.Get("/stores", entries.Stores)
		r.Get("/export", interchange.Export)
		r.Post("/import", interchange.Import)
		r.Get("/backup", interchange.Backup)
		r.Post("/restore", interchange.Restore)
		r.Post("/bulk-update", bulk.Update)
		r.Post("/bulk-delete", bulk.Delete)
		r.Get("/{id}", entries.Get)
		r.Put("/{id}", entries.Update)
		r.Delete("/{id}", entries.Delete)
	})
	r.Get("/analytics/statistics", analytics.Statistics)
	r.Get("/analytics/spending-by-store", analytics.SpendingByStore)
	r.Get("/analytics/status-overview", analytics.StatusOverview)
	r.Get("/analytics/profit-by-store", analytics.ProfitByStore)
	r.Get("/analytics/monthly-spending", analytics.MonthlySpending)

	return r
}

func do(t *testing.T, h http.Handler, method, target, owner, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if owner != "" {
		req.Header.Set(ownerHeader, owner)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func doJSON(t *testing.T, h http.Handler, method, target, owner string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		switch p := payload.(type) {
		case string:
			body = strings.NewReader(p)
		default:
			raw, err := json.Marshal(p)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			body = bytes.NewReader(raw)
		}
	}

	return do(t, h, method, target, owner, "application/json", body)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()

	if rr.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rr.Code, rr.Body.String())
	}
}
